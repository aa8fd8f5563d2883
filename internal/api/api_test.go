package api_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/blog-platform-api/internal/api"
	"github.com/blog-platform-api/internal/apperr"
	"github.com/blog-platform-api/internal/auth"
	"github.com/blog-platform-api/internal/config"
	"github.com/blog-platform-api/internal/mocks"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/realtime"
	"github.com/blog-platform-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type testEnv struct {
	router *gin.Engine
	store  *mocks.Store
	otp    *mocks.MockOTPStore
	bus    *mocks.MockBus
	export *mocks.MockExportService
}

func setupTestRouter() *testEnv {
	gin.SetMode(gin.TestMode)

	repos, store := mocks.NewRepositories()
	env := &testEnv{
		store:  store,
		otp:    mocks.NewMockOTPStore(),
		bus:    mocks.NewMockBus(),
		export: mocks.NewMockExportService(),
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "8080", AllowedOrigin: "http://localhost:3000"},
		Auth: config.AuthConfig{
			TokenTTL:   time.Hour,
			CookieName: "session",
			OTPTTL:     10 * time.Minute,
		},
		Quota:     config.QuotaConfig{MaxArticles: 5, MaxLikes: 5, MaxComments: 5},
		Scheduler: config.SchedulerConfig{Interval: time.Minute},
	}

	log := zerolog.Nop()
	services := service.NewServices(repos, service.Deps{
		Tokens: mocks.MockTokenIssuer{},
		OTP:    env.otp,
		Social: &mocks.MockSocialVerifier{},
		Mailer: mocks.NewMockMailer(),
		Bus:    env.bus,
	}, cfg, log)
	services.Export = env.export

	env.router = api.NewRouter(services, env.bus, cfg, log)
	return env
}

func (e *testEnv) user(name string, admin bool) *models.User {
	return e.store.AddUser(&models.User{
		ID:      uuid.New().String(),
		Name:    name,
		Email:   name + "@example.com",
		IsAdmin: admin,
	})
}

func (e *testEnv) do(method, path string, body interface{}, as *models.User) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		req.Header.Set("Authorization", "Bearer token-"+as.ID)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return response
}

func TestHealthEndpoint(t *testing.T) {
	env := setupTestRouter()

	w := env.do("GET", "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	response := decode(t, w)
	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "blog-platform-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTestRouter()
	env.export.Counts["users"] = 10
	env.export.Counts["articles"] = 5
	env.export.Counts["comments"] = 20

	w := env.do("GET", "/metrics", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	db, ok := decode(t, w)["database"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected database metrics")
	}
	if db["users"] != float64(10) || db["articles"] != float64(5) || db["comments"] != float64(20) {
		t.Errorf("Unexpected counts: %v", db)
	}
}

func TestRegisterVerifyAndSession(t *testing.T) {
	env := setupTestRouter()

	w := env.do("POST", "/v1/auth/register", map[string]string{
		"name": "Ada", "email": "Ada@Example.com", "password": "secret123",
	}, nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d: %s", w.Code, w.Body.String())
	}

	// the emailed code is random; pin it so the test can verify
	record, _ := env.otp.Get(context.Background(), "ada@example.com")
	if record == nil {
		t.Fatal("Expected a pending verification")
	}
	record.CodeHash, _ = auth.HashSecret("123456")
	env.otp.Save(context.Background(), record)

	w = env.do("POST", "/v1/auth/verify-otp", map[string]string{"email": "ada@example.com", "otp": "123456"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" {
			session = c
		}
	}
	if session == nil || session.Value == "" || !session.HttpOnly {
		t.Fatalf("Expected an http-only session cookie, got %+v", session)
	}

	req := httptest.NewRequest("GET", "/v1/auth/me", nil)
	req.AddCookie(session)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	user := decode(t, w)["user"].(map[string]interface{})
	if user["email"] != "ada@example.com" {
		t.Errorf("Expected normalized email, got %v", user["email"])
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Error("Password hash must not be serialized")
	}
}

func TestVerifyOTPWithoutPendingRecord(t *testing.T) {
	env := setupTestRouter()

	w := env.do("POST", "/v1/auth/verify-otp", map[string]string{"email": "nobody@example.com", "otp": "123456"}, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := setupTestRouter()

	w := env.do("POST", "/v1/auth/register", map[string]string{"name": "", "email": "bad", "password": "x"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}
	if errs, ok := decode(t, w)["errors"].([]interface{}); !ok || len(errs) == 0 {
		t.Error("Expected field errors in response")
	}
}

func TestProtectedRouteRequiresSession(t *testing.T) {
	env := setupTestRouter()

	w := env.do("POST", "/v1/articles", map[string]string{"title": "x"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}

	req := httptest.NewRequest("GET", "/v1/notifications", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for a bad token, got %d", rec.Code)
	}
}

func TestBannedUserIsRejected(t *testing.T) {
	env := setupTestRouter()
	banned := env.store.AddUser(&models.User{ID: uuid.New().String(), Name: "b", Email: "b@example.com", IsBanned: true})

	w := env.do("GET", "/v1/auth/me", nil, banned)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", w.Code)
	}
}

func TestInvalidPathID(t *testing.T) {
	env := setupTestRouter()

	w := env.do("GET", "/v1/articles/not-a-uuid", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	env := setupTestRouter()
	member := env.user("member", false)
	admin := env.user("admin", true)

	if w := env.do("GET", "/v1/admin/stats", nil, member); w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", w.Code)
	}
	if w := env.do("GET", "/v1/admin/stats", nil, admin); w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestArticleReviewFlow(t *testing.T) {
	env := setupTestRouter()
	admin := env.user("admin", true)
	author := env.user("writer", false)

	w := env.do("POST", "/v1/articles", map[string]interface{}{
		"title": "Hello", "body": "World", "category": "Design", "status": "published",
	}, author)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decode(t, w)
	if created["status"] != string(models.StatusPending) {
		t.Fatalf("Expected non-admin article to await review, got %v", created["status"])
	}
	id := created["id"].(string)

	// hidden from anonymous readers until approved
	if w := env.do("GET", "/v1/articles/"+id, nil, nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for pending article, got %d", w.Code)
	}

	w = env.do("POST", "/v1/admin/articles/"+id+"/approve", nil, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if status := decode(t, w)["status"]; status != string(models.StatusPublished) {
		t.Errorf("Expected published, got %v", status)
	}

	if w := env.do("GET", "/v1/articles/"+id, nil, nil); w.Code != http.StatusOK {
		t.Errorf("Expected status 200 once published, got %d", w.Code)
	}

	var approved bool
	for _, n := range env.store.NotificationsFor(author.ID) {
		if n.Type == models.NotificationBlogApproved {
			approved = true
		}
	}
	if !approved {
		t.Error("Expected the author to be notified of approval")
	}
}

func TestRejectRequiresReason(t *testing.T) {
	env := setupTestRouter()
	admin := env.user("admin", true)
	author := env.user("writer", false)

	w := env.do("POST", "/v1/articles", map[string]interface{}{
		"title": "Draft", "body": "text", "category": "Design", "status": "pending",
	}, author)
	id := decode(t, w)["id"].(string)

	if w := env.do("POST", "/v1/admin/articles/"+id+"/reject", map[string]string{"reason": ""}, admin); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if w := env.do("POST", "/v1/admin/articles/"+id+"/reject", map[string]string{"reason": "off topic"}, admin); w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestLikeAndCommentThreads(t *testing.T) {
	env := setupTestRouter()
	admin := env.user("admin", true)
	reader := env.user("reader", false)

	w := env.do("POST", "/v1/articles", map[string]interface{}{
		"title": "Post", "body": "text", "category": "Design", "status": "published",
	}, admin)
	id := decode(t, w)["id"].(string)

	w = env.do("POST", "/v1/articles/"+id+"/like", nil, reader)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	like := decode(t, w)
	if like["liked"] != true || like["likeCount"] != float64(1) {
		t.Errorf("Unexpected like result: %v", like)
	}

	w = env.do("POST", "/v1/articles/"+id+"/comments", map[string]string{"text": "first"}, reader)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	rootID := decode(t, w)["id"].(string)

	w = env.do("POST", "/v1/articles/"+id+"/comments", map[string]string{"text": "reply", "parentId": rootID}, admin)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	w = env.do("GET", "/v1/articles/"+id+"/comments", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	threads := decode(t, w)["comments"].([]interface{})
	if len(threads) != 1 {
		t.Fatalf("Expected one thread, got %d", len(threads))
	}
	replies := threads[0].(map[string]interface{})["replies"].([]interface{})
	if len(replies) != 1 {
		t.Errorf("Expected one reply, got %d", len(replies))
	}

	w = env.do("POST", "/v1/articles/"+id+"/comments", map[string]string{"text": "orphan", "parentId": uuid.New().String()}, reader)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown parent, got %d", w.Code)
	}
}

func TestNotificationsEndpoints(t *testing.T) {
	env := setupTestRouter()
	alice := env.user("alice", false)
	bob := env.user("bob", false)

	if w := env.do("POST", "/v1/users/"+alice.ID+"/follow", nil, bob); w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	w := env.do("GET", "/v1/notifications/unread-count", nil, alice)
	if count := decode(t, w)["count"]; count != float64(1) {
		t.Fatalf("Expected 1 unread, got %v", count)
	}

	w = env.do("GET", "/v1/notifications", nil, alice)
	list := decode(t, w)["notifications"].([]interface{})
	if len(list) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(list))
	}
	nid := list[0].(map[string]interface{})["id"].(string)

	// bob cannot touch alice's notification
	if w := env.do("PATCH", "/v1/notifications/"+nid+"/read", nil, bob); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if w := env.do("PATCH", "/v1/notifications/"+nid+"/read", nil, alice); w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	w = env.do("GET", "/v1/notifications/unread-count", nil, alice)
	if count := decode(t, w)["count"]; count != float64(0) {
		t.Errorf("Expected 0 unread, got %v", count)
	}
}

func TestNotificationStream(t *testing.T) {
	env := setupTestRouter()
	alice := env.user("alice", false)

	server := httptest.NewServer(env.router)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", server.URL+"/v1/notifications/stream", nil)
	req.Header.Set("Authorization", "Bearer token-"+alice.ID)

	received := make(chan string, 1)
	go func() {
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return
		}
		defer resp.Body.Close()
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if line := scanner.Text(); strings.HasPrefix(line, "data:") {
				received <- line
				return
			}
		}
	}()

	// the subscription is established asynchronously; publish until it lands
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case line := <-received:
			if !strings.Contains(line, "hello there") {
				t.Errorf("Unexpected event data: %s", line)
			}
			return
		case <-ticker.C:
			env.bus.Publish(ctx, realtime.Event{
				UserID:       alice.ID,
				Notification: &models.Notification{ID: uuid.New().String(), RecipientID: alice.ID, Message: "hello there"},
			})
		case <-deadline:
			t.Fatal("Timed out waiting for a streamed notification")
		}
	}
}

func TestStreamExport(t *testing.T) {
	env := setupTestRouter()
	admin := env.user("admin", true)

	var gotResource, gotFormat string
	env.export.StreamFunc = func(ctx context.Context, w http.ResponseWriter, resource, format string) error {
		gotResource, gotFormat = resource, format
		w.Header().Set("Content-Type", "application/x-ndjson")
		_, err := w.Write([]byte(`{"id":"1"}` + "\n"))
		return err
	}

	w := env.do("GET", "/v1/admin/exports?resource=users", nil, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if gotResource != "users" || gotFormat != "ndjson" {
		t.Errorf("Expected users/ndjson, got %s/%s", gotResource, gotFormat)
	}
	if !strings.Contains(w.Header().Get("Content-Type"), "ndjson") {
		t.Errorf("Unexpected content type %q", w.Header().Get("Content-Type"))
	}
}

func TestStreamExportErrors(t *testing.T) {
	env := setupTestRouter()
	admin := env.user("admin", true)

	env.export.StreamFunc = func(ctx context.Context, w http.ResponseWriter, resource, format string) error {
		return apperr.BadRequest("csv export is only available for users")
	}
	if w := env.do("GET", "/v1/admin/exports?resource=articles&format=csv", nil, admin); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	env.export.StreamFunc = func(ctx context.Context, w http.ResponseWriter, resource, format string) error {
		return mocks.ErrExport
	}
	if w := env.do("GET", "/v1/admin/exports?resource=users", nil, admin); w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}

func TestSiteConfigRoundTrip(t *testing.T) {
	env := setupTestRouter()
	admin := env.user("admin", true)

	w := env.do("PUT", "/v1/admin/site-config", map[string]interface{}{
		"siteName": "Notes", "allowRegistration": false,
	}, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	w = env.do("GET", "/v1/site-config", nil, nil)
	if name := decode(t, w)["siteName"]; name != "Notes" {
		t.Errorf("Expected saved site name, got %v", name)
	}

	w = env.do("POST", "/v1/auth/register", map[string]string{
		"name": "Late", "email": "late@example.com", "password": "secret123",
	}, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected registration to be closed, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := setupTestRouter()

	req := httptest.NewRequest("OPTIONS", "/v1/articles", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("Expected credentials to be allowed")
	}
}

func TestAdminBanUser(t *testing.T) {
	env := setupTestRouter()
	admin := env.user("admin", true)
	member := env.user("member", false)

	if w := env.do("PATCH", "/v1/admin/users/"+member.ID+"/ban", map[string]bool{}, admin); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without banned flag, got %d", w.Code)
	}
	if w := env.do("PATCH", "/v1/admin/users/"+admin.ID+"/ban", map[string]bool{"banned": true}, admin); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 when banning self, got %d", w.Code)
	}

	w := env.do("PATCH", "/v1/admin/users/"+member.ID+"/ban", map[string]bool{"banned": true}, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	if w := env.do("GET", "/v1/auth/me", nil, member); w.Code != http.StatusForbidden {
		t.Errorf("Expected banned user to get 403, got %d", w.Code)
	}
}
