package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleReporter, RoleDeveloper, RoleAdmin} {
		if !ValidRole(role) {
			t.Fatalf("%s must be valid", role)
		}
	}
	for _, role := range []string{"", "admin", "SUPERUSER", "Reporter"} {
		if ValidRole(role) {
			t.Fatalf("%q must be invalid", role)
		}
	}
}

func TestAuthorize(t *testing.T) {
	admin := Principal{ID: "u1", Role: RoleAdmin}
	dev := Principal{ID: "u2", Role: RoleDeveloper}

	if err := Authorize(admin, RoleAdmin); err != nil {
		t.Fatalf("admin must pass an admin gate: %v", err)
	}
	if err := Authorize(dev, RoleAdmin); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	// Exact-role gating: ADMIN is not implicitly a DEVELOPER.
	if err := Authorize(admin, RoleDeveloper); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := Authorize(admin, RoleDeveloper, RoleAdmin); err != nil {
		t.Fatalf("multi-role gate must pass: %v", err)
	}
}

func TestUser_PasswordHashNeverSerialised(t *testing.T) {
	out, err := json.Marshal(User{ID: "u1", Email: "a@x.com", PasswordHash: "$2a$10$secret"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), "secret") {
		t.Fatalf("password hash leaked: %s", out)
	}
}
