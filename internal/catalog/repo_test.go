package catalog

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"vgmhub/pkg/database"
	"vgmhub/pkg/models"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	db, err := database.Open(database.Config{
		Path: filepath.Join(t.TempDir(), "catalog.db"),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepo(db)
}

func sampleEntry(year int, game string) models.Entry {
	return models.Entry{
		Info:         models.Info{Rating: 8, Description: "late-night loop material"},
		YearListened: year,
		Game:         game,
		CatalogNum:   "SQEX-10589~91",
		Img:          "https://example.test/cover.png",
		Tracks: []models.Track{
			{Disc: "Disc 1", TrackNumber: 0, Title: "Significance", Duration: "1:41"},
			{Disc: "Disc 1", TrackNumber: 1, Title: "City Ruins", Duration: "5:46",
				Subtracks: []string{"Rays of Light", "Shade"}},
			{Disc: "Disc 2", TrackNumber: 0, Title: "Amusement Park", Duration: "5:22"},
		},
	}
}

func TestRepoAddAndQueryGame(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	want := sampleEntry(2024, "NieR: Automata")
	if err := repo.Add(ctx, want); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := repo.QueryGame(ctx, "NieR: Automata")
	if err != nil {
		t.Fatalf("QueryGame: %v", err)
	}
	if got == nil {
		t.Fatal("QueryGame returned nil for a stored game")
	}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("stored entry changed:\n got  %+v\n want %+v", *got, want)
	}
}

func TestRepoQueryGameAbsent(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.QueryGame(context.Background(), "Nothing Here")
	if err != nil {
		t.Fatalf("QueryGame: %v", err)
	}
	if got != nil {
		t.Errorf("QueryGame = %+v, want nil", got)
	}
}

// The same game listed under several years resolves to the most recent.
func TestRepoQueryGamePrefersLatestYear(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	older := sampleEntry(2022, "NieR: Automata")
	older.Rating = 6
	newer := sampleEntry(2024, "NieR: Automata")
	for _, e := range []models.Entry{older, newer} {
		if err := repo.Add(ctx, e); err != nil {
			t.Fatalf("Add %d: %v", e.YearListened, err)
		}
	}

	got, err := repo.QueryGame(ctx, "NieR: Automata")
	if err != nil {
		t.Fatalf("QueryGame: %v", err)
	}
	if got == nil || got.YearListened != 2024 || got.Rating != 8 {
		t.Errorf("QueryGame = %+v, want the 2024 entry", got)
	}
}

func TestRepoAddUpserts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := sampleEntry(2024, "NieR: Automata")
	if err := repo.Add(ctx, e); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	e.Rating = 10
	e.Description = "revised upward"
	if err := repo.Add(ctx, e); err != nil {
		t.Fatalf("second Add: %v", err)
	}

	got, err := repo.QueryGame(ctx, "NieR: Automata")
	if err != nil {
		t.Fatalf("QueryGame: %v", err)
	}
	if got.Rating != 10 || got.Description != "revised upward" {
		t.Errorf("upsert did not replace metadata: %+v", got)
	}
}

func TestRepoQueryYear(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, e := range []models.Entry{
		sampleEntry(2024, "Zelda: Breath of the Wild"),
		sampleEntry(2024, "NieR: Automata"),
		sampleEntry(2023, "Chrono Trigger"),
	} {
		if err := repo.Add(ctx, e); err != nil {
			t.Fatalf("Add %s: %v", e.Game, err)
		}
	}

	got, err := repo.QueryYear(ctx, 2024)
	if err != nil {
		t.Fatalf("QueryYear: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("QueryYear returned %d entries, want 2", len(got))
	}
	// alphabetical by game
	if got[0].Game != "NieR: Automata" || got[1].Game != "Zelda: Breath of the Wild" {
		t.Errorf("year order = %q, %q", got[0].Game, got[1].Game)
	}
	// year views are summaries without track lists
	for _, e := range got {
		if e.Tracks != nil {
			t.Errorf("year view for %s carried tracks", e.Game)
		}
	}
}

func TestRepoQueryYearEmpty(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.QueryYear(context.Background(), 1999)
	if err != nil {
		t.Fatalf("QueryYear: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("QueryYear = %v, want empty non-nil slice", got)
	}
}

func TestRepoUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := sampleEntry(2024, "NieR: Automata")
	if err := repo.Add(ctx, e); err != nil {
		t.Fatalf("Add: %v", err)
	}

	e.Rating = 9
	e.Description = "grew on me"
	if err := repo.Update(ctx, e); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.QueryGame(ctx, "NieR: Automata")
	if err != nil {
		t.Fatalf("QueryGame: %v", err)
	}
	if got.Rating != 9 || got.Description != "grew on me" {
		t.Errorf("Update not persisted: %+v", got)
	}
	if len(got.Tracks) != 3 {
		t.Errorf("Update touched the track list: %d tracks", len(got.Tracks))
	}
}

func TestRepoUpdateMissing(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.Update(context.Background(), sampleEntry(2024, "Never Added"))
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Update err = %v, want sql.ErrNoRows", err)
	}
}

func TestRepoDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Add(ctx, sampleEntry(2024, "NieR: Automata")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	existed, err := repo.Delete(ctx, 2024, "NieR: Automata")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !existed {
		t.Error("Delete reported the entry missing")
	}

	existed, err = repo.Delete(ctx, 2024, "NieR: Automata")
	if err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if existed {
		t.Error("second Delete reported the entry still present")
	}
}
