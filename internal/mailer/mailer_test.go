package mailer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/blog-platform-api/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type failingMailer struct{ done chan struct{} }

func (m failingMailer) Send(context.Context, string, string, string) error {
	defer close(m.done)
	return errors.New("smtp down")
}

// syncBuffer guards the log output written from the Async goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewPicksTransport(t *testing.T) {
	log := zerolog.Nop()

	_, isLog := New(config.MailConfig{}, log).(*LogMailer)
	assert.True(t, isLog)

	_, isSMTP := New(config.MailConfig{SMTPHost: "smtp.example.com", SMTPPort: "587"}, log).(*SMTPMailer)
	assert.True(t, isSMTP)
}

func TestLogMailer(t *testing.T) {
	var out syncBuffer
	m := NewLogMailer(zerolog.New(&out))

	assert.NoError(t, m.Send(context.Background(), "ada@example.com", "Hi", "body"))
	assert.Contains(t, out.String(), "ada@example.com")
}

func TestAsyncLogsFailure(t *testing.T) {
	var out syncBuffer
	m := failingMailer{done: make(chan struct{})}

	Async(m, zerolog.New(&out), "ada@example.com", "Hi", "body")

	select {
	case <-m.done:
	case <-time.After(time.Second):
		t.Fatal("mail was never sent")
	}

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "smtp down")
	}, time.Second, 10*time.Millisecond)
}
