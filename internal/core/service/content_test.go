package service

import (
	"context"
	"testing"

	"github.com/pitwall/tourney-system/internal/core/domain"
	"github.com/pitwall/tourney-system/internal/core/ports"
)

func newTestContent(t *testing.T) (*ContentService, *memStore) {
	t.Helper()
	store := newMemStore()
	svc := NewContentService(store, testLogger())
	svc.Load(context.Background())
	return svc, store
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestContentService_SortedDriversByPointsDescending(t *testing.T) {
	svc, _ := newTestContent(t)

	_, _ = svc.AddDriver(context.Background(), domain.Driver{ID: "1", Name: "slow", Points: 10})
	_, _ = svc.AddDriver(context.Background(), domain.Driver{ID: "2", Name: "fast", Points: 25})

	sorted := svc.SortedDrivers()
	if len(sorted) != 2 || sorted[0].ID != "2" || sorted[1].ID != "1" {
		t.Fatalf("unexpected standings order: %+v", sorted)
	}
}

func TestContentService_SortedDriversStableOnTies(t *testing.T) {
	svc, _ := newTestContent(t)

	_, _ = svc.AddDriver(context.Background(), domain.Driver{ID: "a", Points: 18})
	_, _ = svc.AddDriver(context.Background(), domain.Driver{ID: "b", Points: 18})
	_, _ = svc.AddDriver(context.Background(), domain.Driver{ID: "c", Points: 25})
	_, _ = svc.AddDriver(context.Background(), domain.Driver{ID: "d", Points: 18})

	sorted := svc.SortedDrivers()
	want := []string{"c", "a", "b", "d"}
	for i, id := range want {
		if sorted[i].ID != id {
			t.Fatalf("tie order not stable: got %+v", sorted)
		}
	}

	// The underlying collection keeps insertion order.
	drivers := svc.Drivers()
	if drivers[0].ID != "a" || drivers[3].ID != "d" {
		t.Fatalf("insertion order lost: %+v", drivers)
	}
}

func TestContentService_SortedTeamsNonIncreasing(t *testing.T) {
	svc, _ := newTestContent(t)

	points := []int{4, 40, 12, 40, 0}
	for i, p := range points {
		_, _ = svc.AddTeam(context.Background(), domain.Team{ID: string(rune('a' + i)), Points: p})
	}

	sorted := svc.SortedTeams()
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Points > sorted[i-1].Points {
			t.Fatalf("standings not non-increasing: %+v", sorted)
		}
	}
}

func TestContentService_UpdateUnknownIDIsNoOp(t *testing.T) {
	svc, store := newTestContent(t)

	_, _ = svc.AddDriver(context.Background(), domain.Driver{ID: "1", Name: "max", Points: 10})
	before := store.snapshot("drivers")

	if err := svc.UpdateDriver(context.Background(), "nope", ports.DriverUpdate{Points: intPtr(99)}); err != nil {
		t.Fatalf("unknown-id update must not error: %v", err)
	}

	after := store.snapshot("drivers")
	if string(before) != string(after) {
		t.Fatalf("unknown-id update persisted something")
	}
	if svc.Drivers()[0].Points != 10 {
		t.Fatalf("unknown-id update mutated collection")
	}
}

func TestContentService_PartialUpdatePersists(t *testing.T) {
	svc, store := newTestContent(t)

	d, _ := svc.AddDriver(context.Background(), domain.Driver{Name: "charles", Team: "red", Points: 10})
	if d.ID == "" {
		t.Fatalf("expected generated id")
	}

	if err := svc.UpdateDriver(context.Background(), d.ID, ports.DriverUpdate{Points: intPtr(22)}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got := svc.Drivers()[0]
	if got.Points != 22 || got.Name != "charles" || got.Team != "red" {
		t.Fatalf("partial update touched other fields: %+v", got)
	}

	// The persisted snapshot reflects the mutation.
	fresh := NewContentService(store, testLogger())
	fresh.Load(context.Background())
	if fresh.Drivers()[0].Points != 22 {
		t.Fatalf("mutation not persisted")
	}
}

func TestContentService_RemoveTeamLeavesDriversUntouched(t *testing.T) {
	svc, _ := newTestContent(t)

	team, _ := svc.AddTeam(context.Background(), domain.Team{Name: "scuderia"})
	_, _ = svc.AddDriver(context.Background(), domain.Driver{Name: "carlos", Team: team.ID})

	if err := svc.RemoveTeam(context.Background(), team.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(svc.Teams()) != 0 {
		t.Fatalf("team not removed")
	}
	if got := svc.Drivers()[0].Team; got != team.ID {
		t.Fatalf("driver team reassigned to %q", got)
	}
}

func TestContentService_GridKeepsSubmittedOrderUntilExplicitSort(t *testing.T) {
	svc, _ := newTestContent(t)

	race, _ := svc.AddRace(context.Background(), domain.Race{Name: "gp", Date: "2026-05-03"})

	submitted := domain.RaceDetails{Grid: []domain.GridRow{
		{Position: 3, DriverName: "lando"},
		{Position: 1, DriverName: "max"},
		{Position: 2, DriverName: "oscar"},
	}}
	if err := svc.UpdateRaceDetails(context.Background(), race.ID, submitted); err != nil {
		t.Fatalf("update details failed: %v", err)
	}

	got := svc.Races()[0].Details.Grid
	if got[0].Position != 3 || got[1].Position != 1 || got[2].Position != 2 {
		t.Fatalf("grid re-sorted implicitly: %+v", got)
	}

	if err := svc.SortRaceGrid(context.Background(), race.ID); err != nil {
		t.Fatalf("sort grid failed: %v", err)
	}
	got = svc.Races()[0].Details.Grid
	if got[0].Position != 1 || got[1].Position != 2 || got[2].Position != 3 {
		t.Fatalf("explicit sort did not order grid: %+v", got)
	}
}

func TestContentService_SortGridWithoutDetailsIsNoOp(t *testing.T) {
	svc, _ := newTestContent(t)

	race, _ := svc.AddRace(context.Background(), domain.Race{Name: "gp"})
	if err := svc.SortRaceGrid(context.Background(), race.ID); err != nil {
		t.Fatalf("sort without details must not error: %v", err)
	}
}

func TestContentService_ReplaceConfigPersists(t *testing.T) {
	svc, store := newTestContent(t)

	cfg := domain.TournamentConfig{
		Title:        "Midnight GP League",
		Season:       "2026",
		PointsSystem: map[int]int{1: 10, 2: 6, 3: 4},
		Streamers:    []domain.Streamer{{Username: "grandee"}},
	}
	if err := svc.ReplaceConfig(context.Background(), cfg); err != nil {
		t.Fatalf("replace config failed: %v", err)
	}

	fresh := NewContentService(store, testLogger())
	fresh.Load(context.Background())
	got := fresh.Config()
	if got.Title != cfg.Title || got.PointsSystem[1] != 10 || len(got.Streamers) != 1 {
		t.Fatalf("config not persisted: %+v", got)
	}
}

func TestContentService_ReplaceAllPartialPersistFailureRestoresSnapshots(t *testing.T) {
	svc, store := newTestContent(t)

	_, _ = svc.AddDriver(context.Background(), domain.Driver{ID: "d1", Points: 10})
	_, _ = svc.AddTeam(context.Background(), domain.Team{ID: "t1", Points: 5})

	driversBefore := string(store.snapshot("drivers"))
	teamsBefore := string(store.snapshot("teams"))

	// The drivers key persists, then the teams key fails: the already written
	// drivers snapshot must be restored along with the in-memory state.
	store.failKeys["teams"] = true
	err := svc.ReplaceAll(context.Background(), ports.Collections{
		Drivers: []domain.Driver{{ID: "remote", Points: 99}},
		Teams:   []domain.Team{{ID: "remote-t", Points: 1}},
	})
	if err == nil {
		t.Fatalf("expected persist failure")
	}

	if string(store.snapshot("drivers")) != driversBefore {
		t.Fatalf("drivers snapshot not restored after partial persist")
	}
	if string(store.snapshot("teams")) != teamsBefore {
		t.Fatalf("teams snapshot changed after failed replace")
	}
	if got := svc.Drivers(); len(got) != 1 || got[0].ID != "d1" {
		t.Fatalf("in-memory drivers not rolled back: %+v", got)
	}
	if got := svc.Teams(); len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("in-memory teams not rolled back: %+v", got)
	}
}

func TestContentService_RaceSnapshotUnaffectedByLaterSort(t *testing.T) {
	svc, _ := newTestContent(t)

	race, _ := svc.AddRace(context.Background(), domain.Race{Name: "gp"})
	submitted := domain.RaceDetails{Grid: []domain.GridRow{
		{Position: 2, DriverName: "oscar"},
		{Position: 1, DriverName: "max"},
	}}
	if err := svc.UpdateRaceDetails(context.Background(), race.ID, submitted); err != nil {
		t.Fatalf("update details failed: %v", err)
	}

	snapshot := svc.Races()

	if err := svc.SortRaceGrid(context.Background(), race.ID); err != nil {
		t.Fatalf("sort grid failed: %v", err)
	}

	// The earlier snapshot still shows the submitted order.
	got := snapshot[0].Details.Grid
	if got[0].Position != 2 || got[1].Position != 1 {
		t.Fatalf("snapshot mutated by later sort: %+v", got)
	}
	sorted := svc.Races()[0].Details.Grid
	if sorted[0].Position != 1 || sorted[1].Position != 2 {
		t.Fatalf("live grid not sorted: %+v", sorted)
	}
}

func TestContentService_LoadMalformedSnapshotFallsBackToDefaults(t *testing.T) {
	store := newMemStore()
	_ = store.Set(context.Background(), "drivers", []byte("not json"))
	_ = store.Set(context.Background(), "content", []byte("also not json"))

	svc := NewContentService(store, testLogger())
	svc.Load(context.Background())

	if len(svc.Drivers()) != 0 {
		t.Fatalf("malformed drivers snapshot not treated as absent")
	}
	if svc.Config().Title == "" {
		t.Fatalf("default config missing after malformed snapshot")
	}
}

func TestContentService_NewsCRUD(t *testing.T) {
	svc, _ := newTestContent(t)

	item, err := svc.AddNews(context.Background(), domain.NewsItem{Title: "season opener", Content: "lights out", Featured: true})
	if err != nil {
		t.Fatalf("add news failed: %v", err)
	}

	if err := svc.UpdateNews(context.Background(), item.ID, ports.NewsUpdate{Title: strPtr("season opener!")}); err != nil {
		t.Fatalf("update news failed: %v", err)
	}
	if got := svc.News()[0]; got.Title != "season opener!" || !got.Featured {
		t.Fatalf("unexpected news item: %+v", got)
	}

	if err := svc.RemoveNews(context.Background(), item.ID); err != nil {
		t.Fatalf("remove news failed: %v", err)
	}
	if len(svc.News()) != 0 {
		t.Fatalf("news item not removed")
	}
}
