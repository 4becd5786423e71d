package ports

import (
	"context"

	"github.com/pitwall/tourney-system/internal/core/domain"
)

// DriverUpdate carries a partial driver mutation. Nil fields are untouched.
type DriverUpdate struct {
	Name     *string
	Team     *string
	Points   *int
	Country  *string
	Number   *int
	Color    *string
	ImageURL *string
}

// TeamUpdate carries a partial team mutation.
type TeamUpdate struct {
	Name   *string
	Points *int
	Color  *string
}

// RaceUpdate carries a partial race mutation. Details are handled separately
// through UpdateRaceDetails so the grid ordering rules stay in one place.
type RaceUpdate struct {
	Name      *string
	Circuit   *string
	Date      *string
	Location  *string
	Completed *bool
	Winner    *string
}

// NewsUpdate carries a partial news-item mutation.
type NewsUpdate struct {
	Title    *string
	Content  *string
	Date     *string
	ImageURL *string
	VideoURL *string
	Featured *bool
}

// Collections is a full replacement set, as produced by a feed refresh.
type Collections struct {
	Drivers []domain.Driver
	Teams   []domain.Team
	Races   []domain.Race
	News    []domain.NewsItem
	Config  domain.TournamentConfig
}

// ContentStore holds the mutable domain collections. Collections keep
// insertion order for iteration; every mutation persists the affected
// collection synchronously after the in-memory change. Updating or removing
// an unknown id is a silent no-op. Inputs are trusted.
type ContentStore interface {
	// Snapshots, in insertion order.
	Drivers() []domain.Driver
	Teams() []domain.Team
	Races() []domain.Race
	News() []domain.NewsItem
	Config() domain.TournamentConfig

	// Standings projections: points descending, stable on ties. Recomputed
	// on every call.
	SortedDrivers() []domain.Driver
	SortedTeams() []domain.Team

	AddDriver(ctx context.Context, d domain.Driver) (domain.Driver, error)
	UpdateDriver(ctx context.Context, id string, upd DriverUpdate) error
	RemoveDriver(ctx context.Context, id string) error

	AddTeam(ctx context.Context, t domain.Team) (domain.Team, error)
	UpdateTeam(ctx context.Context, id string, upd TeamUpdate) error
	RemoveTeam(ctx context.Context, id string) error

	AddRace(ctx context.Context, r domain.Race) (domain.Race, error)
	UpdateRace(ctx context.Context, id string, upd RaceUpdate) error
	RemoveRace(ctx context.Context, id string) error

	// UpdateRaceDetails stores the grid in the submitted order.
	UpdateRaceDetails(ctx context.Context, id string, details domain.RaceDetails) error
	// SortRaceGrid is the explicit save-sorted operation: it orders the grid
	// by position ascending and persists the result.
	SortRaceGrid(ctx context.Context, id string) error

	AddNews(ctx context.Context, n domain.NewsItem) (domain.NewsItem, error)
	UpdateNews(ctx context.Context, id string, upd NewsUpdate) error
	RemoveNews(ctx context.Context, id string) error

	ReplaceConfig(ctx context.Context, cfg domain.TournamentConfig) error

	// ReplaceAll swaps in a full set of collections and persists them.
	// Used exclusively by the sync service after a fully successful fetch.
	ReplaceAll(ctx context.Context, c Collections) error
}
