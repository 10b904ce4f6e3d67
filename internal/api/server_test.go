package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/junaydArshad/Green-Campus/internal/config"
	"github.com/junaydArshad/Green-Campus/internal/pkg/blob"
	"github.com/junaydArshad/Green-Campus/internal/store"

	"github.com/gin-gonic/gin"
)

// mockNotifier 记录发出的邮件，不触碰真实 SMTP。
type mockNotifier struct {
	mu        sync.Mutex
	reminders []string
	resets    map[string]string // email -> token
	messages  []string
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{resets: map[string]string{}}
}

func (m *mockNotifier) SendWateringReminder(toEmail, ownerName, speciesName string, lastWatered *time.Time, intervalDays int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminders = append(m.reminders, toEmail)
	return nil
}

func (m *mockNotifier) SendPasswordReset(toEmail, resetToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets[toEmail] = resetToken
	return nil
}

func (m *mockNotifier) SendMessage(toEmail, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, toEmail)
	return nil
}

func (m *mockNotifier) reminderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reminders)
}

func newTestServer(t *testing.T) (*Server, *mockNotifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	photos, err := blob.New(filepath.Join(dir, "tree_photos"))
	if err != nil {
		t.Fatalf("init photo store: %v", err)
	}

	cfg := &config.Config{
		App: config.AppConfig{
			TokenTTL: time.Hour,
		},
		Security: config.SecurityConfig{
			JWTSecret:     "test-secret",
			AdminUsername: "admin",
			AdminPassword: "hunter2",
		},
	}

	notifier := newMockNotifier()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return assemble(cfg, logger, st, notifier, photos), notifier
}

func doJSON(t *testing.T, s *Server, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	out := map[string]interface{}{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

// registerAndLogin 注册一个用户并返回其 Bearer token。
func registerAndLogin(t *testing.T, s *Server, email string) string {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":     email,
		"password":  "secret123",
		"full_name": "Test Planter",
		"location":  "East Campus",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register %s: status %d body %s", email, w.Code, w.Body.String())
	}

	w = doJSON(t, s, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", email, w.Code, w.Body.String())
	}
	tok, _ := decode(t, w)["token"].(string)
	if tok == "" {
		t.Fatal("login response missing token")
	}
	return tok
}

func adminLogin(t *testing.T, s *Server) string {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/auth/admin-login", "", gin.H{
		"username": "admin",
		"password": "hunter2",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("admin login: status %d body %s", w.Code, w.Body.String())
	}
	tok, _ := decode(t, w)["token"].(string)
	if tok == "" {
		t.Fatal("admin login response missing token")
	}
	return tok
}

// plantTestTree 通过 API 种一棵树并返回其 ID。
func plantTestTree(t *testing.T, s *Server, bearer string, speciesID uint) uint {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/trees", bearer, gin.H{
		"species_id":   speciesID,
		"latitude":     31.2304,
		"longitude":    121.4737,
		"planted_date": "2023-04-12",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create tree: status %d body %s", w.Code, w.Body.String())
	}
	id, _ := decode(t, w)["id"].(float64)
	if id == 0 {
		t.Fatal("create tree response missing id")
	}
	return uint(id)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func todayDate() string {
	return time.Now().Format("2006-01-02")
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	w := doJSON(t, s, http.MethodGet, "/api/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if decode(t, w)["status"] != "ok" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s, _ := newTestServer(t)
	registerAndLogin(t, s, "dup@campus.edu")

	w := doJSON(t, s, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":     "dup@campus.edu",
		"password":  "secret123",
		"full_name": "Someone Else",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if decode(t, w)["error"] != "Email already registered" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	s, _ := newTestServer(t)
	registerAndLogin(t, s, "alice@campus.edu")

	w := doJSON(t, s, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@campus.edu",
		"password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if decode(t, w)["error"] != "Invalid credentials" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	s, _ := newTestServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "ghost@campus.edu",
		"password": "whatever1",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_MissingAndInvalidToken(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/user/profile", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: status = %d, want 401", w.Code)
	}

	w = doJSON(t, s, http.MethodGet, "/api/user/profile", "garbage.token.here", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token: status = %d, want 401", w.Code)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	s, notifier := newTestServer(t)
	registerAndLogin(t, s, "forgot@campus.edu")

	w := doJSON(t, s, http.MethodPost, "/api/auth/reset-request", "", gin.H{
		"email": "forgot@campus.edu",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("reset-request: status %d body %s", w.Code, w.Body.String())
	}

	notifier.mu.Lock()
	resetToken := notifier.resets["forgot@campus.edu"]
	notifier.mu.Unlock()
	if resetToken == "" {
		t.Fatal("reset token was not mailed")
	}

	// 错误令牌被拒
	w = doJSON(t, s, http.MethodPost, "/api/auth/reset", "", gin.H{
		"email":        "forgot@campus.edu",
		"token":        "bogus",
		"new_password": "newsecret1",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d, want 401", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/api/auth/reset", "", gin.H{
		"email":        "forgot@campus.edu",
		"token":        resetToken,
		"new_password": "newsecret1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("reset: status %d body %s", w.Code, w.Body.String())
	}

	// 令牌一次性：第二次使用被拒
	w = doJSON(t, s, http.MethodPost, "/api/auth/reset", "", gin.H{
		"email":        "forgot@campus.edu",
		"token":        resetToken,
		"new_password": "again123",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("token reuse: status = %d, want 401", w.Code)
	}

	// 新密码可登录
	w = doJSON(t, s, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "forgot@campus.edu",
		"password": "newsecret1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login with new password: status %d", w.Code)
	}
}

func TestAdminLogin_InvalidCredentials(t *testing.T) {
	s, _ := newTestServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/auth/admin-login", "", gin.H{
		"username": "admin",
		"password": "not-the-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if decode(t, w)["error"] != "Invalid admin credentials" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestChangePassword(t *testing.T) {
	s, _ := newTestServer(t)
	tok := registerAndLogin(t, s, "pw@campus.edu")

	w := doJSON(t, s, http.MethodPut, "/api/user/password", tok, gin.H{
		"current_password": "wrong",
		"new_password":     "changed123",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong current: status = %d, want 401", w.Code)
	}
	if decode(t, w)["error"] != "Current password is incorrect" {
		t.Fatalf("body = %s", w.Body.String())
	}

	w = doJSON(t, s, http.MethodPut, "/api/user/password", tok, gin.H{
		"current_password": "secret123",
		"new_password":     "changed123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("change: status %d body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, s, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "pw@campus.edu",
		"password": "changed123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login with new password: status %d", w.Code)
	}
}

func TestDeleteAccount_RemovesTrees(t *testing.T) {
	s, _ := newTestServer(t)
	tok := registerAndLogin(t, s, "bye@campus.edu")
	plantTestTree(t, s, tok, 1)

	w := doJSON(t, s, http.MethodDelete, "/api/user/account", tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete account: status %d body %s", w.Code, w.Body.String())
	}

	// token 仍能通过签名校验，但用户与树已不存在
	w = doJSON(t, s, http.MethodGet, "/api/user/profile", tok, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("profile after delete: status = %d, want 404", w.Code)
	}
	trees, err := s.store.AllTreesWithOwner()
	if err != nil {
		t.Fatalf("list trees: %v", err)
	}
	if len(trees) != 0 {
		t.Fatalf("trees survived account deletion: %d", len(trees))
	}
}

func TestLeaderboard(t *testing.T) {
	s, _ := newTestServer(t)
	first := registerAndLogin(t, s, "first@campus.edu")
	second := registerAndLogin(t, s, "second@campus.edu")
	registerAndLogin(t, s, "none@campus.edu")

	plantTestTree(t, s, first, 1)
	plantTestTree(t, s, first, 2)
	plantTestTree(t, s, second, 1)

	w := doJSON(t, s, http.MethodGet, "/api/user/leaderboard", second, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var entries []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2 (planters only)", len(entries))
	}
	if entries[0]["tree_count"].(float64) != 2 || entries[0]["rank"].(float64) != 1 {
		t.Fatalf("first entry = %v", entries[0])
	}
}
