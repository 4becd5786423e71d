package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pitwall/tourney-system/internal/core/domain"
	"github.com/pitwall/tourney-system/internal/core/ports"
)

// Default accounts seeded on first run, when no persisted registry exists.
var seedAccounts = []struct {
	username string
	secret   string
	role     domain.Role
}{
	{"admin", "admin", domain.RoleAdmin},
	{"root", "root", domain.RoleRoot},
}

// storedAccount is the persisted shape of an account. Kept separate from
// domain.Account so the secret hash never leaks through API serialization.
type storedAccount struct {
	Username   string    `json:"username"`
	SecretHash string    `json:"secret_hash"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// AccountService implements ports.AccountRegistry over a snapshot store.
// The full registry is persisted wholesale after every mutation.
type AccountService struct {
	store ports.Store
	audit ports.AuditNotifier
	log   zerolog.Logger

	mu       sync.Mutex
	accounts []domain.Account
}

func NewAccountService(store ports.Store, audit ports.AuditNotifier, log zerolog.Logger) *AccountService {
	return &AccountService{store: store, audit: audit, log: log}
}

// Load restores the registry from the store. An absent or unparseable
// snapshot falls back to the seeded defaults, which are persisted so the
// next start finds them.
func (s *AccountService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.store.Get(ctx, ports.KeyAccounts)
	if err == nil {
		var stored []storedAccount
		if json.Unmarshal(raw, &stored) == nil && len(stored) > 0 {
			s.accounts = s.accounts[:0]
			for _, sa := range stored {
				role, ok := domain.ParseRole(sa.Role)
				if !ok {
					s.log.Warn().Str("username", sa.Username).Str("role", sa.Role).Msg("skipping account with unknown role")
					continue
				}
				s.accounts = append(s.accounts, domain.Account{
					Username:   sa.Username,
					SecretHash: sa.SecretHash,
					Role:       role,
					CreatedAt:  sa.CreatedAt,
				})
			}
			return
		}
		s.log.Warn().Msg("persisted account registry is malformed, reseeding defaults")
	} else if !errors.Is(err, domain.ErrKeyNotFound) {
		s.log.Warn().Err(err).Msg("account registry unreadable, reseeding defaults")
	}

	s.seed(ctx)
}

func (s *AccountService) seed(ctx context.Context) {
	now := time.Now().UTC()
	s.accounts = s.accounts[:0]
	for _, sa := range seedAccounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(sa.secret), bcrypt.DefaultCost)
		if err != nil {
			s.log.Error().Err(err).Str("username", sa.username).Msg("failed to hash seed secret")
			continue
		}
		s.accounts = append(s.accounts, domain.Account{
			Username:   sa.username,
			SecretHash: string(hash),
			Role:       sa.role,
			CreatedAt:  now,
		})
	}
	if err := s.persist(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist seeded registry")
	}
}

func (s *AccountService) Add(ctx context.Context, actor *domain.Identity, username, secret string, role domain.Role) (*domain.Account, error) {
	if username == "" || secret == "" || !role.Valid() {
		return nil, domain.ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.Username == username {
			return nil, domain.ErrAccountExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}

	account := domain.Account{
		Username:   username,
		SecretHash: string(hash),
		Role:       role,
		CreatedAt:  time.Now().UTC(),
	}
	s.accounts = append(s.accounts, account)

	if err := s.persist(ctx); err != nil {
		s.accounts = s.accounts[:len(s.accounts)-1]
		return nil, fmt.Errorf("persist registry: %w", err)
	}

	s.notify(actor, domain.AuditAccountAdd, username, role)
	return &account, nil
}

func (s *AccountService) Remove(ctx context.Context, actor *domain.Identity, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	roots := 0
	for i, a := range s.accounts {
		if a.Role == domain.RoleRoot {
			roots++
		}
		if a.Username == username {
			idx = i
		}
	}
	if idx == -1 {
		return domain.ErrAccountNotFound
	}
	if s.accounts[idx].Role == domain.RoleRoot && roots == 1 {
		return domain.ErrLastRoot
	}

	removed := s.accounts[idx]
	s.accounts = append(s.accounts[:idx], s.accounts[idx+1:]...)

	if err := s.persist(ctx); err != nil {
		s.accounts = append(s.accounts[:idx], append([]domain.Account{removed}, s.accounts[idx:]...)...)
		return fmt.Errorf("persist registry: %w", err)
	}

	s.notify(actor, domain.AuditAccountRemove, removed.Username, removed.Role)
	return nil
}

func (s *AccountService) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.Username == username {
			clone := a
			return &clone, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (s *AccountService) List(_ context.Context) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Account, len(s.accounts))
	copy(out, s.accounts)
	return out, nil
}

// persist writes the whole registry snapshot. Callers hold s.mu.
func (s *AccountService) persist(ctx context.Context) error {
	stored := make([]storedAccount, 0, len(s.accounts))
	for _, a := range s.accounts {
		stored = append(stored, storedAccount{
			Username:   a.Username,
			SecretHash: a.SecretHash,
			Role:       string(a.Role),
			CreatedAt:  a.CreatedAt,
		})
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, ports.KeyAccounts, raw)
}

// notify emits an audit event when an authenticated admin or root actor is
// present. Anonymous and user-role actors never emit.
func (s *AccountService) notify(actor *domain.Identity, action, target string, role domain.Role) {
	if !domain.CapabilitiesFor(actor).IsAdmin {
		return
	}
	s.audit.Emit(domain.AuditEvent{
		Action: action,
		Actor:  actor.Username,
		Detail: map[string]string{
			"username": target,
			"role":     string(role),
		},
		Timestamp: time.Now().UTC(),
	})
}
