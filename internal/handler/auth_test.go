package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/authstack/backend/internal/model"
	"github.com/authstack/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var errNoSuchUser = errors.New("no such user")

// fakeStore backs the auth stack end to end for handler tests.
type fakeStore struct {
	users map[string]*model.User
	roles map[uuid.UUID][]*model.UserRoleDetail
}

func (f *fakeStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if user, ok := f.users[username]; ok {
		return user, nil
	}
	return nil, errNoSuchUser
}

func (f *fakeStore) byID(id uuid.UUID) *model.User {
	for _, user := range f.users {
		if user.ID == id {
			return user
		}
	}
	return nil
}

func (f *fakeStore) IncrementLoginAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	user := f.byID(id)
	user.LoginAttempts++
	return user.LoginAttempts, nil
}

func (f *fakeStore) BlockUser(ctx context.Context, id uuid.UUID, until time.Time) error {
	user := f.byID(id)
	user.BlockedUntil = &until
	user.Status = model.StatusSuspended
	return nil
}

func (f *fakeStore) ResetLoginAttempts(ctx context.Context, id uuid.UUID, lastLogin time.Time) error {
	user := f.byID(id)
	user.LoginAttempts = 0
	user.BlockedUntil = nil
	user.LastLogin = &lastLogin
	return nil
}

func (f *fakeStore) GetUserRoles(ctx context.Context, userID uuid.UUID) ([]*model.UserRoleDetail, error) {
	return f.roles[userID], nil
}

func (f *fakeStore) PermissionsForRole(ctx context.Context, roleID uuid.UUID) ([]*model.Permission, error) {
	return nil, nil
}

type authHarness struct {
	router *gin.Engine
	store  *fakeStore
	svc    *service.AuthService
	tokens *service.TokenService
}

func newAuthTestHarness(t *testing.T) *authHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &fakeStore{
		users: make(map[string]*model.User),
		roles: make(map[uuid.UUID][]*model.UserRoleDetail),
	}
	tokens, err := service.NewTokenService([]byte("handler-test-key"), time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	hasher := service.NewPasswordHasher()
	lockout := service.NewLockoutPolicy(store, 5, 30*time.Minute, zap.NewNop())
	resolver := service.NewPermissionResolver(store)
	revoked := service.NewMemoryRevocationStore(0)
	t.Cleanup(revoked.Close)

	notFound := func(err error) bool { return errors.Is(err, errNoSuchUser) }
	svc := service.NewAuthService(store, tokens, hasher, lockout, resolver, revoked, notFound, zap.NewNop())

	h := NewAuthHandler(svc)
	router := gin.New()
	router.POST("/api/v1/auth/login", h.Login)
	router.POST("/api/v1/auth/logout", h.Logout)
	router.POST("/api/v1/auth/refresh", h.Refresh)
	router.POST("/api/v1/auth/validate", h.Validate)

	protected := router.Group("/api/v1")
	protected.Use(AuthMiddleware(svc, tokens))
	protected.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": GetAuthUser(c).Username})
	})

	return &authHarness{router: router, store: store, svc: svc, tokens: tokens}
}

func (h *authHarness) addUser(t *testing.T, username, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	user := &model.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Status:       model.StatusActive,
	}
	h.store.users[username] = user
	return user
}

func (h *authHarness) do(method, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	h.router.ServeHTTP(w, req)
	return w
}

func (h *authHarness) login(t *testing.T, username, password string) model.LoginResponse {
	t.Helper()
	w := h.do(http.MethodPost, "/api/v1/auth/login", `{"username":"`+username+`","password":"`+password+`"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var resp model.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding login response: %v", err)
	}
	return resp
}

func TestLoginHandlerSuccess(t *testing.T) {
	h := newAuthTestHarness(t)
	h.addUser(t, "alice", "s3cret")

	resp := h.login(t, "alice", "s3cret")
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("response should carry both tokens")
	}
	if resp.Username != "alice" {
		t.Errorf("username = %q", resp.Username)
	}
}

func TestLoginHandlerBadRequest(t *testing.T) {
	h := newAuthTestHarness(t)

	w := h.do(http.MethodPost, "/api/v1/auth/login", `{"username":"alice"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestLoginHandlerGenericUnauthorized(t *testing.T) {
	h := newAuthTestHarness(t)
	h.addUser(t, "alice", "s3cret")

	// Wrong password and unknown user must be indistinguishable.
	wrongPass := h.do(http.MethodPost, "/api/v1/auth/login", `{"username":"alice","password":"nope"}`, "")
	unknown := h.do(http.MethodPost, "/api/v1/auth/login", `{"username":"ghost","password":"nope"}`, "")

	for _, w := range []*httptest.ResponseRecorder{wrongPass, unknown} {
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	}
	if wrongPass.Body.String() != unknown.Body.String() {
		t.Errorf("bodies differ: %s vs %s", wrongPass.Body.String(), unknown.Body.String())
	}
	if !strings.Contains(wrongPass.Body.String(), "invalid credentials") {
		t.Errorf("body = %s", wrongPass.Body.String())
	}
}

func TestLoginHandlerLockedAccountRevealsWindow(t *testing.T) {
	h := newAuthTestHarness(t)
	h.addUser(t, "alice", "s3cret")

	for i := 0; i < 5; i++ {
		h.do(http.MethodPost, "/api/v1/auth/login", `{"username":"alice","password":"wrong"}`, "")
	}

	w := h.do(http.MethodPost, "/api/v1/auth/login", `{"username":"alice","password":"s3cret"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "until") {
		t.Errorf("locked response should carry the window end, got %s", w.Body.String())
	}
}

func TestValidateHandlerAlwaysAnswers200(t *testing.T) {
	h := newAuthTestHarness(t)
	h.addUser(t, "alice", "s3cret")
	login := h.login(t, "alice", "s3cret")

	valid := h.do(http.MethodPost, "/api/v1/auth/validate", "", login.AccessToken)
	if valid.Code != http.StatusOK || valid.Body.String() != "true" {
		t.Errorf("valid token: %d %s", valid.Code, valid.Body.String())
	}

	garbage := h.do(http.MethodPost, "/api/v1/auth/validate", "", "garbage")
	if garbage.Code != http.StatusOK || garbage.Body.String() != "false" {
		t.Errorf("garbage token: %d %s", garbage.Code, garbage.Body.String())
	}
}

func TestLogoutHandlerRevokes(t *testing.T) {
	h := newAuthTestHarness(t)
	h.addUser(t, "alice", "s3cret")
	login := h.login(t, "alice", "s3cret")

	w := h.do(http.MethodPost, "/api/v1/auth/logout", "", login.AccessToken)
	if w.Code != http.StatusOK || w.Body.String() != "Logout successful" {
		t.Fatalf("logout: %d %s", w.Code, w.Body.String())
	}

	after := h.do(http.MethodPost, "/api/v1/auth/validate", "", login.AccessToken)
	if after.Body.String() != "false" {
		t.Errorf("token should be invalid after logout, got %s", after.Body.String())
	}

	// Logging out again is still a success.
	again := h.do(http.MethodPost, "/api/v1/auth/logout", "", login.AccessToken)
	if again.Code != http.StatusOK {
		t.Errorf("repeat logout: %d", again.Code)
	}
}

func TestRefreshHandler(t *testing.T) {
	h := newAuthTestHarness(t)
	h.addUser(t, "alice", "s3cret")
	login := h.login(t, "alice", "s3cret")

	w := h.do(http.MethodPost, "/api/v1/auth/refresh", `{"refreshToken":"`+login.RefreshToken+`"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: %d %s", w.Code, w.Body.String())
	}
	var resp model.TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding refresh response: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("rotated pair should be complete")
	}

	// Replaying the consumed token is a 401.
	replay := h.do(http.MethodPost, "/api/v1/auth/refresh", `{"refreshToken":"`+login.RefreshToken+`"}`, "")
	if replay.Code != http.StatusUnauthorized {
		t.Errorf("replay: expected 401, got %d", replay.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	h := newAuthTestHarness(t)
	h.addUser(t, "alice", "s3cret")
	login := h.login(t, "alice", "s3cret")

	missing := h.do(http.MethodGet, "/api/v1/whoami", "", "")
	if missing.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", missing.Code)
	}

	// A refresh token is not a credential for API calls.
	refresh := h.do(http.MethodGet, "/api/v1/whoami", "", login.RefreshToken)
	if refresh.Code != http.StatusUnauthorized {
		t.Errorf("refresh token: expected 401, got %d", refresh.Code)
	}

	ok := h.do(http.MethodGet, "/api/v1/whoami", "", login.AccessToken)
	if ok.Code != http.StatusOK {
		t.Fatalf("access token: expected 200, got %d", ok.Code)
	}
	if !strings.Contains(ok.Body.String(), "alice") {
		t.Errorf("body = %s", ok.Body.String())
	}

	h.do(http.MethodPost, "/api/v1/auth/logout", "", login.AccessToken)
	revoked := h.do(http.MethodGet, "/api/v1/whoami", "", login.AccessToken)
	if revoked.Code != http.StatusUnauthorized {
		t.Errorf("revoked token: expected 401, got %d", revoked.Code)
	}
}
