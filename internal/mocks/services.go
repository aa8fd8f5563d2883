package mocks

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/blog-platform-api/internal/auth"
	"github.com/blog-platform-api/internal/mailer"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/realtime"
	"github.com/blog-platform-api/internal/service"
)

// MockTokenIssuer issues readable tokens of the form "token-<userID>"
type MockTokenIssuer struct{}

var _ service.TokenIssuer = MockTokenIssuer{}

func (MockTokenIssuer) Issue(userID string) (string, error) {
	return "token-" + userID, nil
}

func (MockTokenIssuer) Parse(token string) (string, error) {
	if !strings.HasPrefix(token, "token-") {
		return "", auth.ErrInvalidToken
	}
	return strings.TrimPrefix(token, "token-"), nil
}

// MockOTPStore is a map-backed OTPStore
type MockOTPStore struct {
	mu      sync.Mutex
	Records map[string]*models.OTPRecord
}

var _ auth.OTPStore = (*MockOTPStore)(nil)

func NewMockOTPStore() *MockOTPStore {
	return &MockOTPStore{Records: make(map[string]*models.OTPRecord)}
}

func (m *MockOTPStore) Save(ctx context.Context, record *models.OTPRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *record
	m.Records[record.Email] = &stored
	return nil
}

func (m *MockOTPStore) Get(ctx context.Context, email string) (*models.OTPRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.Records[email]; ok {
		out := *r
		return &out, nil
	}
	return nil, nil
}

func (m *MockOTPStore) Delete(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Records, email)
	return nil
}

// MockSocialVerifier returns Identity, or Err when set
type MockSocialVerifier struct {
	Identity *auth.SocialIdentity
	Err      error
}

func (m *MockSocialVerifier) Verify(ctx context.Context, idToken string) (*auth.SocialIdentity, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Identity == nil {
		return nil, auth.ErrSocialToken
	}
	return m.Identity, nil
}

// SentMail is one message captured by MockMailer
type SentMail struct {
	To, Subject, Body string
}

// MockMailer records sent mail. Sent receives every message.
type MockMailer struct {
	Sent chan SentMail
}

var _ mailer.Mailer = (*MockMailer)(nil)

func NewMockMailer() *MockMailer {
	return &MockMailer{Sent: make(chan SentMail, 32)}
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	select {
	case m.Sent <- SentMail{To: to, Subject: subject, Body: body}:
	default:
	}
	return nil
}

// MockBus records published events and delivers them to subscribers
type MockBus struct {
	mu     sync.Mutex
	Events []realtime.Event
	subs   map[string][]chan realtime.Event
}

var _ realtime.Bus = (*MockBus)(nil)

func NewMockBus() *MockBus {
	return &MockBus{subs: make(map[string][]chan realtime.Event)}
}

func (m *MockBus) Publish(ctx context.Context, event realtime.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	for _, ch := range m.subs[event.UserID] {
		select {
		case ch <- event:
		default:
		}
	}
}

func (m *MockBus) Subscribe(ctx context.Context, userID string) (<-chan realtime.Event, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan realtime.Event, 16)
	m.subs[userID] = append(m.subs[userID], ch)

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			subs := m.subs[userID]
			for i, c := range subs {
				if c == ch {
					m.subs[userID] = append(subs[:i], subs[i+1:]...)
					break
				}
			}
			close(ch)
		})
	}, nil
}

// Published returns a snapshot of the published events
func (m *MockBus) Published() []realtime.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]realtime.Event{}, m.Events...)
}

// ErrExport is returned by MockExportService when Fail is set
var ErrExport = errors.New("export failed")

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamFunc func(ctx context.Context, w http.ResponseWriter, resource, format string) error
	Counts     map[string]int
}

var _ service.ExportService = (*MockExportService)(nil)

func NewMockExportService() *MockExportService {
	return &MockExportService{Counts: map[string]int{"users": 0, "articles": 0, "comments": 0}}
}

func (m *MockExportService) Stream(ctx context.Context, w http.ResponseWriter, resource, format string) error {
	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, w, resource, format)
	}
	w.Header().Set("Content-Type", "application/x-ndjson")
	_, err := w.Write([]byte("{}\n"))
	return err
}

func (m *MockExportService) GetCount(ctx context.Context, resource string) (int, error) {
	return m.Counts[resource], nil
}
