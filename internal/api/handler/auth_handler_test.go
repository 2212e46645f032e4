package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bugtrackr/bugtrack-api/internal/core/domain"
)

type stubAuthService struct {
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	registerFn func(ctx context.Context, email, password, name string) (*domain.User, error)
	logoutFn   func(ctx context.Context, token string) error
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	return s.registerFn(ctx, email, password, name)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func newAuthContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if email != "alice@example.com" || password != "s3cret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.User{ID: "u1", Email: email, Role: domain.RoleAdmin}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newAuthContext(t, http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"s3cret1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "alice@example.com" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash leaked in response")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newAuthContext(t, http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"bad1234"}`)
	// The sentinel flows to the central error handler untouched.
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	h := NewAuthHandler(stub)

	for _, body := range []string{"{", `{"email":"not-an-email","password":"s3cret1"}`, `{"email":"a@x.com"}`} {
		c, _ := newAuthContext(t, http.MethodPost, "/auth/login", body)
		err := h.Login(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %v", body, err)
		}
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, email, password, name string) (*domain.User, error) {
			return &domain.User{ID: "u2", Email: email, Name: name, Role: domain.RoleReporter}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newAuthContext(t, http.MethodPost, "/auth/register", `{"email":"bob@example.com","password":"s3cret1","name":"Bob"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["role"] != domain.RoleReporter {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, email, password, name string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newAuthContext(t, http.MethodPost, "/auth/register", `{"email":"bob@example.com","password":"abc"}`)
	err := h.Register(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	var revoked string
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, token string) error {
			revoked = token
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newAuthContext(t, http.MethodPost, "/auth/logout", "")
	c.Set("principal", domain.Principal{ID: "u1", Role: domain.RoleReporter})
	c.Set("token", "token123")

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if revoked != "token123" {
		t.Fatalf("expected presented token to be revoked, got %q", revoked)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newAuthContext(t, http.MethodGet, "/auth/me", "")
	c.Set("principal", domain.Principal{ID: "u1", Email: "a@x.com", Role: domain.RoleDeveloper})

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]domain.Principal
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["user"].ID != "u1" || resp["user"].Role != domain.RoleDeveloper {
		t.Fatalf("unexpected principal: %+v", resp["user"])
	}
}

func TestAuthHandler_Me_NoPrincipal(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newAuthContext(t, http.MethodGet, "/auth/me", "")
	err := h.Me(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
