package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bugtrackr/bugtrack-api/internal/core/domain"
)

func handle(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not the error envelope: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound},
		{"project not found", domain.ErrProjectNotFound, http.StatusNotFound},
		{"project name taken", domain.ErrProjectNameTaken, http.StatusConflict},
		{"already assigned", domain.ErrAlreadyAssigned, http.StatusConflict},
		{"email taken", domain.ErrEmailTaken, http.StatusBadRequest},
		{"invalid email", domain.ErrInvalidEmail, http.StatusBadRequest},
		{"password too short", domain.ErrPasswordTooShort, http.StatusBadRequest},
		{"invalid role", domain.ErrInvalidRole, http.StatusBadRequest},
		{"name required", domain.ErrNameRequired, http.StatusBadRequest},
		{"self delete", domain.ErrSelfDelete, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := handle(t, tc.err)
			if code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, code)
			}
			if body.Error == "" {
				t.Fatalf("expected an error message")
			}
		})
	}
}

func TestErrorHandler_WrappedErrorKeepsMapping(t *testing.T) {
	wrapped := errors.Join(errors.New("while deleting user u7"), domain.ErrSelfDelete)
	code, _ := handle(t, wrapped)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for wrapped sentinel, got %d", code)
	}
}

func TestErrorHandler_EchoErrorPassthrough(t *testing.T) {
	code, body := handle(t, echo.NewHTTPError(http.StatusTeapot, "short and stout"))
	if code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", code)
	}
	if body.Error != "short and stout" {
		t.Fatalf("unexpected message: %q", body.Error)
	}
}

func TestErrorHandler_UnknownErrorDoesNotLeak(t *testing.T) {
	code, body := handle(t, errors.New("mongo: socket was unexpectedly closed"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body.Error != "internal server error" {
		t.Fatalf("internal detail leaked: %q", body.Error)
	}
	if strings.Contains(body.Error, "mongo") {
		t.Fatalf("driver detail leaked to client")
	}
}
