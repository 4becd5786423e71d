package handler

import (
	"context"
	"sync"

	"github.com/pitwall/tourney-system/internal/core/domain"
	"github.com/pitwall/tourney-system/internal/core/ports"
)

// stubSession is a canned ports.SessionStore.
type stubSession struct {
	token    string
	identity *domain.Identity
	loginErr error

	loggedOut bool
}

func (s *stubSession) Restore(_ context.Context) {}

func (s *stubSession) Login(_ context.Context, _, _ string) (string, *domain.Identity, error) {
	if s.loginErr != nil {
		return "", nil, s.loginErr
	}
	return s.token, s.identity, nil
}

func (s *stubSession) Logout(_ context.Context) {
	s.loggedOut = true
	s.identity = nil
}

func (s *stubSession) Current() *domain.Identity { return s.identity }

// stubContent overrides only the reads the handlers under test exercise.
// Calling anything else panics via the embedded nil interface.
type stubContent struct {
	ports.ContentStore

	drivers []domain.Driver
	teams   []domain.Team
	news    []domain.NewsItem
	config  domain.TournamentConfig
}

func (s *stubContent) SortedDrivers() []domain.Driver  { return s.drivers }
func (s *stubContent) SortedTeams() []domain.Team      { return s.teams }
func (s *stubContent) News() []domain.NewsItem         { return s.news }
func (s *stubContent) Config() domain.TournamentConfig { return s.config }

// recordingNotifier captures emitted audit events synchronously.
type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (n *recordingNotifier) Emit(event domain.AuditEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) recorded() []domain.AuditEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.AuditEvent, len(n.events))
	copy(out, n.events)
	return out
}
