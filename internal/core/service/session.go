package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pitwall/tourney-system/internal/core/domain"
	"github.com/pitwall/tourney-system/internal/core/ports"
)

// SessionService implements ports.SessionStore: a single active identity,
// persisted under the session key, with JWT issuance for the HTTP surface.
type SessionService struct {
	registry  ports.AccountRegistry
	store     ports.Store
	audit     ports.AuditNotifier
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger

	mu      sync.RWMutex
	current *domain.Identity
}

func NewSessionService(registry ports.AccountRegistry, store ports.Store, audit ports.AuditNotifier, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *SessionService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &SessionService{
		registry:  registry,
		store:     store,
		audit:     audit,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Restore loads the persisted identity. The restored role is trusted without
// re-validation against the registry: a role edited after login stays active
// until the next login. Absent, unreadable, or malformed state leaves the
// session empty; Restore never fails the caller.
func (s *SessionService) Restore(ctx context.Context) {
	raw, err := s.store.Get(ctx, ports.KeySession)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.log.Warn().Err(err).Msg("session snapshot unreadable, starting unauthenticated")
		}
		return
	}

	var id domain.Identity
	if json.Unmarshal(raw, &id) != nil || id.Username == "" || !id.Role.Valid() {
		s.log.Warn().Msg("session snapshot malformed, starting unauthenticated")
		return
	}

	s.mu.Lock()
	s.current = &id
	s.mu.Unlock()
	s.log.Info().Str("username", id.Username).Str("role", string(id.Role)).Msg("session restored")
}

func (s *SessionService) Login(ctx context.Context, username, secret string) (string, *domain.Identity, error) {
	if username == "" || secret == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.registry.FindByUsername(ctx, username)
	if err != nil {
		// Unknown usernames and bad secrets are indistinguishable to callers.
		return "", nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(account.SecretHash), []byte(secret)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	id := domain.Identity{Username: account.Username, Role: account.Role}

	s.mu.Lock()
	s.current = &id
	s.mu.Unlock()

	if raw, err := json.Marshal(id); err == nil {
		if err := s.store.Set(ctx, ports.KeySession, raw); err != nil {
			s.log.Warn().Err(err).Msg("failed to persist session")
		}
	}

	token, err := s.generateToken(id)
	if err != nil {
		return "", nil, err
	}

	if domain.CapabilitiesFor(&id).IsAdmin {
		s.audit.Emit(domain.AuditEvent{
			Action:    domain.AuditLogin,
			Actor:     id.Username,
			Detail:    map[string]string{"role": string(id.Role)},
			Timestamp: time.Now().UTC(),
		})
	}

	return token, &id, nil
}

func (s *SessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	prior := s.current
	s.current = nil
	s.mu.Unlock()

	if err := s.store.Delete(ctx, ports.KeySession); err != nil {
		s.log.Warn().Err(err).Msg("failed to remove persisted session")
	}

	if domain.CapabilitiesFor(prior).IsAdmin {
		s.audit.Emit(domain.AuditEvent{
			Action:    domain.AuditLogout,
			Actor:     prior.Username,
			Detail:    map[string]string{"role": string(prior.Role)},
			Timestamp: time.Now().UTC(),
		})
	}
}

func (s *SessionService) Current() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil
	}
	clone := *s.current
	return &clone
}

func (s *SessionService) generateToken(id domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"username": id.Username,
		"role":     string(id.Role),
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
