package ports

import (
	"context"

	"github.com/pitwall/tourney-system/internal/core/domain"
)

// FeedSource is the external data source, one request/response fetch per
// collection. A non-success status or a parse failure is a fetch failure for
// that collection.
type FeedSource interface {
	FetchDrivers(ctx context.Context) ([]domain.Driver, error)
	FetchTeams(ctx context.Context) ([]domain.Team, error)
	FetchRaces(ctx context.Context) ([]domain.Race, error)
	FetchNews(ctx context.Context) ([]domain.NewsItem, error)
	FetchConfig(ctx context.Context) (domain.TournamentConfig, error)
	FetchStreamers(ctx context.Context) ([]domain.Streamer, error)
}

// SyncService refreshes the content store from the feed.
type SyncService interface {
	// Refresh makes one attempt to fetch every collection and, only when all
	// fetches succeed, replaces and persists the local collections. Any
	// failure leaves every collection untouched and is returned to the
	// caller; there is no retry. A second Refresh started while one is in
	// flight fails with domain.ErrSyncInFlight.
	Refresh(ctx context.Context) error
}
