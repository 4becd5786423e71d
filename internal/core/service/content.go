package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pitwall/tourney-system/internal/core/domain"
	"github.com/pitwall/tourney-system/internal/core/ports"
)

// contentBundle is the persisted shape of the races/news/config record.
type contentBundle struct {
	Races  []domain.Race           `json:"races"`
	News   []domain.NewsItem       `json:"news"`
	Config domain.TournamentConfig `json:"config"`
}

// defaultConfig is used when no persisted config exists.
func defaultConfig() domain.TournamentConfig {
	return domain.TournamentConfig{
		Title:  "F1 Fan Tournament",
		Season: "2026",
		PointsSystem: map[int]int{
			1: 25, 2: 18, 3: 15, 4: 12, 5: 10,
			6: 8, 7: 6, 8: 4, 9: 2, 10: 1,
		},
	}
}

// ContentService implements ports.ContentStore. Collections live in memory
// in insertion order and are snapshotted to the store wholesale after every
// mutation. One mutex serializes each read-modify-persist sequence.
type ContentService struct {
	store ports.Store
	log   zerolog.Logger

	mu      sync.Mutex
	drivers []domain.Driver
	teams   []domain.Team
	races   []domain.Race
	news    []domain.NewsItem
	config  domain.TournamentConfig
}

func NewContentService(store ports.Store, log zerolog.Logger) *ContentService {
	return &ContentService{store: store, log: log, config: defaultConfig()}
}

// Load restores all collections from the store. Each snapshot that is absent
// or fails to parse is treated as empty; a bad record never aborts startup.
func (s *ContentService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loadSnapshot(ctx, s, ports.KeyDrivers, &s.drivers)
	loadSnapshot(ctx, s, ports.KeyTeams, &s.teams)

	raw, err := s.store.Get(ctx, ports.KeyContent)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.log.Warn().Err(err).Str("key", ports.KeyContent).Msg("snapshot unreadable, using defaults")
		}
		return
	}
	var bundle contentBundle
	if json.Unmarshal(raw, &bundle) != nil {
		s.log.Warn().Str("key", ports.KeyContent).Msg("snapshot malformed, using defaults")
		return
	}
	s.races = bundle.Races
	s.news = bundle.News
	if bundle.Config.Title != "" {
		s.config = bundle.Config
	}
}

func loadSnapshot[T any](ctx context.Context, s *ContentService, key string, dst *[]T) {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.log.Warn().Err(err).Str("key", key).Msg("snapshot unreadable, using defaults")
		}
		return
	}
	var items []T
	if json.Unmarshal(raw, &items) != nil {
		s.log.Warn().Str("key", key).Msg("snapshot malformed, using defaults")
		return
	}
	*dst = items
}

// --- Reads ---

func (s *ContentService) Drivers() []domain.Driver {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSlice(s.drivers)
}

func (s *ContentService) Teams() []domain.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSlice(s.teams)
}

func (s *ContentService) Races() []domain.Race {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRaces(s.races)
}

func (s *ContentService) News() []domain.NewsItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSlice(s.news)
}

func (s *ContentService) Config() domain.TournamentConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// SortedDrivers returns the driver standings: points descending, original
// insertion order preserved on ties.
func (s *ContentService) SortedDrivers() []domain.Driver {
	out := s.Drivers()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	return out
}

// SortedTeams returns the team standings with the same ordering rules.
func (s *ContentService) SortedTeams() []domain.Team {
	out := s.Teams()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	return out
}

// --- Driver mutations ---

func (s *ContentService) AddDriver(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	s.drivers = append(s.drivers, d)
	return d, s.persistDrivers(ctx)
}

func (s *ContentService) UpdateDriver(ctx context.Context, id string, upd ports.DriverUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.drivers {
		if s.drivers[i].ID != id {
			continue
		}
		d := &s.drivers[i]
		setIf(&d.Name, upd.Name)
		setIf(&d.Team, upd.Team)
		setIf(&d.Points, upd.Points)
		setIf(&d.Country, upd.Country)
		setIf(&d.Number, upd.Number)
		setIf(&d.Color, upd.Color)
		setIf(&d.ImageURL, upd.ImageURL)
		return s.persistDrivers(ctx)
	}
	// Unknown id: silent no-op, nothing persisted.
	return nil
}

func (s *ContentService) RemoveDriver(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.drivers {
		if s.drivers[i].ID == id {
			s.drivers = append(s.drivers[:i], s.drivers[i+1:]...)
			return s.persistDrivers(ctx)
		}
	}
	return nil
}

// --- Team mutations ---

func (s *ContentService) AddTeam(ctx context.Context, t domain.Team) (domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.teams = append(s.teams, t)
	return t, s.persistTeams(ctx)
}

func (s *ContentService) UpdateTeam(ctx context.Context, id string, upd ports.TeamUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.teams {
		if s.teams[i].ID != id {
			continue
		}
		t := &s.teams[i]
		setIf(&t.Name, upd.Name)
		setIf(&t.Points, upd.Points)
		setIf(&t.Color, upd.Color)
		return s.persistTeams(ctx)
	}
	return nil
}

func (s *ContentService) RemoveTeam(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.teams {
		if s.teams[i].ID == id {
			s.teams = append(s.teams[:i], s.teams[i+1:]...)
			return s.persistTeams(ctx)
		}
	}
	return nil
}

// --- Race mutations ---

func (s *ContentService) AddRace(ctx context.Context, r domain.Race) (domain.Race, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	s.races = append(s.races, r)
	return r, s.persistContent(ctx)
}

func (s *ContentService) UpdateRace(ctx context.Context, id string, upd ports.RaceUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.races {
		if s.races[i].ID != id {
			continue
		}
		r := &s.races[i]
		setIf(&r.Name, upd.Name)
		setIf(&r.Circuit, upd.Circuit)
		setIf(&r.Date, upd.Date)
		setIf(&r.Location, upd.Location)
		setIf(&r.Completed, upd.Completed)
		setIf(&r.Winner, upd.Winner)
		return s.persistContent(ctx)
	}
	return nil
}

func (s *ContentService) RemoveRace(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.races {
		if s.races[i].ID == id {
			s.races = append(s.races[:i], s.races[i+1:]...)
			return s.persistContent(ctx)
		}
	}
	return nil
}

// UpdateRaceDetails stores the grid exactly as submitted; no implicit
// re-sort happens until SortRaceGrid is called.
func (s *ContentService) UpdateRaceDetails(ctx context.Context, id string, details domain.RaceDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.races {
		if s.races[i].ID == id {
			grid := make([]domain.GridRow, len(details.Grid))
			copy(grid, details.Grid)
			s.races[i].Details = &domain.RaceDetails{Grid: grid}
			return s.persistContent(ctx)
		}
	}
	return nil
}

// SortRaceGrid is the explicit save-sorted operation.
func (s *ContentService) SortRaceGrid(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.races {
		if s.races[i].ID != id {
			continue
		}
		if s.races[i].Details == nil {
			return nil
		}
		// Sort a copy and swap the pointer so snapshots handed out earlier
		// keep their grid intact.
		grid := make([]domain.GridRow, len(s.races[i].Details.Grid))
		copy(grid, s.races[i].Details.Grid)
		sort.SliceStable(grid, func(a, b int) bool { return grid[a].Position < grid[b].Position })
		s.races[i].Details = &domain.RaceDetails{Grid: grid}
		return s.persistContent(ctx)
	}
	return nil
}

// --- News mutations ---

func (s *ContentService) AddNews(ctx context.Context, n domain.NewsItem) (domain.NewsItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	s.news = append(s.news, n)
	return n, s.persistContent(ctx)
}

func (s *ContentService) UpdateNews(ctx context.Context, id string, upd ports.NewsUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.news {
		if s.news[i].ID != id {
			continue
		}
		n := &s.news[i]
		setIf(&n.Title, upd.Title)
		setIf(&n.Content, upd.Content)
		setIf(&n.Date, upd.Date)
		setIf(&n.ImageURL, upd.ImageURL)
		setIf(&n.VideoURL, upd.VideoURL)
		setIf(&n.Featured, upd.Featured)
		return s.persistContent(ctx)
	}
	return nil
}

func (s *ContentService) RemoveNews(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.news {
		if s.news[i].ID == id {
			s.news = append(s.news[:i], s.news[i+1:]...)
			return s.persistContent(ctx)
		}
	}
	return nil
}

// --- Config ---

func (s *ContentService) ReplaceConfig(ctx context.Context, cfg domain.TournamentConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = cfg
	return s.persistContent(ctx)
}

// ReplaceAll swaps in a full set of collections, as fetched by a refresh.
// A persist failure rolls back the in-memory state and rewrites any snapshot
// already replaced, so a failed call leaves every collection identical.
func (s *ContentService) ReplaceAll(ctx context.Context, c ports.Collections) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevDrivers, prevTeams := s.drivers, s.teams
	prevRaces, prevNews, prevConfig := s.races, s.news, s.config

	s.drivers = cloneSlice(c.Drivers)
	s.teams = cloneSlice(c.Teams)
	s.races = cloneRaces(c.Races)
	s.news = cloneSlice(c.News)
	s.config = c.Config

	persisted := 0
	err := s.persistDrivers(ctx)
	if err == nil {
		persisted++
		err = s.persistTeams(ctx)
	}
	if err == nil {
		persisted++
		err = s.persistContent(ctx)
	}
	if err == nil {
		return nil
	}

	s.drivers, s.teams = prevDrivers, prevTeams
	s.races, s.news, s.config = prevRaces, prevNews, prevConfig

	if persisted >= 1 {
		if perr := s.persistDrivers(ctx); perr != nil {
			s.log.Warn().Err(perr).Msg("rollback failed to restore drivers snapshot")
		}
	}
	if persisted >= 2 {
		if perr := s.persistTeams(ctx); perr != nil {
			s.log.Warn().Err(perr).Msg("rollback failed to restore teams snapshot")
		}
	}
	return err
}

// --- Persistence, callers hold s.mu ---

func (s *ContentService) persistDrivers(ctx context.Context) error {
	return s.persistKey(ctx, ports.KeyDrivers, s.drivers)
}

func (s *ContentService) persistTeams(ctx context.Context) error {
	return s.persistKey(ctx, ports.KeyTeams, s.teams)
}

func (s *ContentService) persistContent(ctx context.Context) error {
	return s.persistKey(ctx, ports.KeyContent, contentBundle{
		Races:  s.races,
		News:   s.news,
		Config: s.config,
	})
}

func (s *ContentService) persistKey(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// cloneRaces deep-copies race details so a snapshot never shares a grid with
// the live collection.
func cloneRaces(in []domain.Race) []domain.Race {
	out := cloneSlice(in)
	for i := range out {
		if out[i].Details == nil {
			continue
		}
		grid := make([]domain.GridRow, len(out[i].Details.Grid))
		copy(grid, out[i].Details.Grid)
		out[i].Details = &domain.RaceDetails{Grid: grid}
	}
	return out
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
