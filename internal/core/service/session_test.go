package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pitwall/tourney-system/internal/core/domain"
)

func newTestSession(t *testing.T) (*SessionService, *AccountService, *memStore, *recordingNotifier) {
	t.Helper()
	store := newMemStore()
	audit := &recordingNotifier{}
	accounts := NewAccountService(store, audit, testLogger())
	accounts.Load(context.Background())
	session := NewSessionService(accounts, store, audit, "secret", time.Hour, testLogger())
	return session, accounts, store, audit
}

func TestSessionService_LoginAdminScenario(t *testing.T) {
	session, _, _, _ := newTestSession(t)

	token, id, err := session.Login(context.Background(), "admin", "admin")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	caps := domain.CapabilitiesFor(id)
	if !caps.IsAuthenticated || !caps.IsAdmin || caps.IsRoot {
		t.Fatalf("unexpected capabilities for admin: %+v", caps)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != "admin" || claims["username"] != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestSessionService_LoginWrongSecretLeavesSessionUnchanged(t *testing.T) {
	session, _, _, _ := newTestSession(t)

	if _, _, err := session.Login(context.Background(), "admin", "admin"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, _, err := session.Login(context.Background(), "admin", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	// Prior identity still active.
	id := session.Current()
	if id == nil || id.Username != "admin" {
		t.Fatalf("session changed by failed login: %+v", id)
	}
	caps := domain.CapabilitiesFor(id)
	if !caps.IsAuthenticated || !caps.IsAdmin {
		t.Fatalf("capabilities changed by failed login: %+v", caps)
	}
}

func TestSessionService_LoginUnknownUser(t *testing.T) {
	session, _, _, _ := newTestSession(t)

	if _, _, err := session.Login(context.Background(), "ghost", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if session.Current() != nil {
		t.Fatalf("session set by failed login")
	}
}

func TestSessionService_RoleCapabilitiesExactMatch(t *testing.T) {
	session, accounts, _, _ := newTestSession(t)

	if _, err := accounts.Add(context.Background(), rootActor(), "fan", "pass", domain.RoleUser); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	_, id, err := session.Login(context.Background(), "fan", "pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	caps := domain.CapabilitiesFor(id)
	if !caps.IsAuthenticated || caps.IsAdmin || caps.IsRoot {
		t.Fatalf("role=user must yield isAdmin=false isRoot=false, got %+v", caps)
	}
}

func TestSessionService_LogoutClearsEverything(t *testing.T) {
	session, _, store, _ := newTestSession(t)

	if _, _, err := session.Login(context.Background(), "root", "root"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if store.snapshot("session") == nil {
		t.Fatalf("session not persisted after login")
	}

	session.Logout(context.Background())

	caps := domain.CapabilitiesFor(session.Current())
	if caps.IsAuthenticated || caps.IsAdmin || caps.IsRoot {
		t.Fatalf("capabilities not cleared by logout: %+v", caps)
	}
	if store.snapshot("session") != nil {
		t.Fatalf("persisted session survives logout")
	}

	// A fresh restore finds nothing.
	fresh := NewSessionService(nil, store, &recordingNotifier{}, "secret", time.Hour, testLogger())
	fresh.Restore(context.Background())
	if fresh.Current() != nil {
		t.Fatalf("identity restorable after logout")
	}
}

func TestSessionService_RestoreTrustsPersistedIdentity(t *testing.T) {
	session, _, store, _ := newTestSession(t)

	if _, _, err := session.Login(context.Background(), "admin", "admin"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// New process: restore without re-validating against the registry.
	restored := NewSessionService(nil, store, &recordingNotifier{}, "secret", time.Hour, testLogger())
	restored.Restore(context.Background())

	id := restored.Current()
	if id == nil || id.Username != "admin" || id.Role != domain.RoleAdmin {
		t.Fatalf("restore did not recover identity: %+v", id)
	}
}

func TestSessionService_RestoreMalformedSnapshot(t *testing.T) {
	store := newMemStore()
	_ = store.Set(context.Background(), "session", []byte(`{"username":"x","role":"wizard"}`))

	session := NewSessionService(nil, store, &recordingNotifier{}, "secret", time.Hour, testLogger())
	session.Restore(context.Background())

	if session.Current() != nil {
		t.Fatalf("malformed snapshot must leave session empty")
	}
}

func TestSessionService_AuditOnAdminLoginAndLogout(t *testing.T) {
	session, _, _, audit := newTestSession(t)

	if _, _, err := session.Login(context.Background(), "root", "root"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	session.Logout(context.Background())

	events := audit.recorded()
	if len(events) != 2 {
		t.Fatalf("expected login+logout audit events, got %d", len(events))
	}
	if events[0].Action != domain.AuditLogin || events[1].Action != domain.AuditLogout {
		t.Fatalf("unexpected audit actions: %s, %s", events[0].Action, events[1].Action)
	}
}

func TestSessionService_NoAuditForUserRole(t *testing.T) {
	session, accounts, _, audit := newTestSession(t)

	if _, err := accounts.Add(context.Background(), nil, "fan", "pass", domain.RoleUser); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	before := len(audit.recorded())

	if _, _, err := session.Login(context.Background(), "fan", "pass"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	session.Logout(context.Background())

	if len(audit.recorded()) != before {
		t.Fatalf("user-role session emitted audit events")
	}
}
