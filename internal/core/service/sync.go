package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pitwall/tourney-system/internal/core/domain"
	"github.com/pitwall/tourney-system/internal/core/ports"
)

const defaultFetchTimeout = 10 * time.Second

// SyncServiceImpl refreshes the content store from the external feed.
// One attempt per invocation; no retry, the caller decides.
type SyncServiceImpl struct {
	source  ports.FeedSource
	content ports.ContentStore
	audit   ports.AuditNotifier
	timeout time.Duration
	log     zerolog.Logger

	// inFlight rejects a second Refresh while one is running. The source
	// design let concurrent refreshes race last-writer-wins; the guard is
	// the stricter, contract-compatible choice.
	inFlight sync.Mutex
}

func NewSyncService(source ports.FeedSource, content ports.ContentStore, audit ports.AuditNotifier, timeout time.Duration, log zerolog.Logger) *SyncServiceImpl {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &SyncServiceImpl{
		source:  source,
		content: content,
		audit:   audit,
		timeout: timeout,
		log:     log,
	}
}

// Refresh fetches every collection and replaces local state only when all
// fetches succeed. Any failure leaves every collection identical to its
// pre-call state.
func (s *SyncServiceImpl) Refresh(ctx context.Context) error {
	if !s.inFlight.TryLock() {
		return domain.ErrSyncInFlight
	}
	defer s.inFlight.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()

	drivers, err := s.source.FetchDrivers(ctx)
	if err != nil {
		return fmt.Errorf("refresh drivers: %w", err)
	}
	teams, err := s.source.FetchTeams(ctx)
	if err != nil {
		return fmt.Errorf("refresh teams: %w", err)
	}
	races, err := s.source.FetchRaces(ctx)
	if err != nil {
		return fmt.Errorf("refresh races: %w", err)
	}
	news, err := s.source.FetchNews(ctx)
	if err != nil {
		return fmt.Errorf("refresh news: %w", err)
	}
	cfg, err := s.source.FetchConfig(ctx)
	if err != nil {
		return fmt.Errorf("refresh config: %w", err)
	}
	streamers, err := s.source.FetchStreamers(ctx)
	if err != nil {
		return fmt.Errorf("refresh streamers: %w", err)
	}
	cfg.Streamers = streamers

	if err := s.content.ReplaceAll(ctx, ports.Collections{
		Drivers: drivers,
		Teams:   teams,
		Races:   races,
		News:    news,
		Config:  cfg,
	}); err != nil {
		return fmt.Errorf("refresh: persist collections: %w", err)
	}

	s.log.Info().
		Int("drivers", len(drivers)).
		Int("teams", len(teams)).
		Int("races", len(races)).
		Int("news", len(news)).
		Dur("elapsed", time.Since(start)).
		Msg("feed refresh complete")

	s.audit.Emit(domain.AuditEvent{
		Action: domain.AuditRefresh,
		Actor:  "system",
		Detail: map[string]string{
			"drivers": fmt.Sprint(len(drivers)),
			"teams":   fmt.Sprint(len(teams)),
			"races":   fmt.Sprint(len(races)),
			"news":    fmt.Sprint(len(news)),
		},
		Timestamp: time.Now().UTC(),
	})

	return nil
}
