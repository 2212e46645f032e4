package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bugtrackr/bugtrack-api/internal/core/domain"
)

func newAuthService(f *fixture, denylist *stubDenylist) *AuthService {
	return NewAuthService(f.users, denylist, "secret", time.Hour, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f, newStubDenylist())

	user, err := svc.Register(context.Background(), "Carol@Example.com", "s3cret1", "Carol")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "carol@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Role != domain.RoleReporter {
		t.Fatalf("self-registration must create a REPORTER, got %s", user.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f, newStubDenylist())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "", "secret1", ""); !errors.Is(err, domain.ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
	if _, err := svc.Register(ctx, "bad-email", "secret1", ""); !errors.Is(err, domain.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, err := svc.Register(ctx, "a@x.com", "short", ""); !errors.Is(err, domain.ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f, newStubDenylist())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "dup@x.com", "secret1", ""); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(ctx, "dup@x.com", "secret2", ""); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f, newStubDenylist())
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret1"), bcrypt.DefaultCost)
	admin, _ := f.users.Create(ctx, &domain.User{
		Email: "root@x.com", PasswordHash: string(hash), Role: domain.RoleAdmin,
	})

	token, user, err := svc.Login(ctx, "Root@X.com", "s3cret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user.ID != admin.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != admin.ID {
		t.Fatalf("expected subject %s, got %v", admin.ID, claims["sub"])
	}
	if claims["role"] != domain.RoleAdmin {
		t.Fatalf("expected role %s, got %v", domain.RoleAdmin, claims["role"])
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f, newStubDenylist())
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("goodpass"), bcrypt.DefaultCost)
	_, _ = f.users.Create(ctx, &domain.User{Email: "dave@x.com", PasswordHash: string(hash), Role: domain.RoleReporter})

	if _, _, err := svc.Login(ctx, "dave@x.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	f := newFixture()
	svc := newAuthService(f, newStubDenylist())

	// A missing user is indistinguishable from a wrong password.
	if _, _, err := svc.Login(context.Background(), "ghost@x.com", "secret1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	f := newFixture()
	denylist := newStubDenylist()
	svc := newAuthService(f, denylist)
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret1"), bcrypt.DefaultCost)
	_, _ = f.users.Create(ctx, &domain.User{Email: "out@x.com", PasswordHash: string(hash), Role: domain.RoleReporter})

	token, _, err := svc.Login(ctx, "out@x.com", "s3cret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if revoked, _ := denylist.IsRevoked(ctx, token); !revoked {
		t.Fatalf("token must be revoked after logout")
	}
}

func TestAuthService_Logout_GarbageToken(t *testing.T) {
	f := newFixture()
	denylist := newStubDenylist()
	svc := newAuthService(f, denylist)

	// An unparseable token is already unusable; revocation is a no-op.
	if err := svc.Logout(context.Background(), "not-a-jwt"); err != nil {
		t.Fatalf("logout of garbage token must succeed, got %v", err)
	}
	if len(denylist.revoked) != 0 {
		t.Fatalf("garbage token must not be stored")
	}
}
