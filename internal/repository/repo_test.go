package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/OER-Club/CS39AE-Fall25/internal/db"
	"github.com/OER-Club/CS39AE-Fall25/internal/models"
	"github.com/OER-Club/CS39AE-Fall25/internal/repository"
	"github.com/OER-Club/CS39AE-Fall25/internal/testutil"
)

func TestDay(t *testing.T) {
	ts := time.Date(2025, 11, 1, 23, 30, 0, 0, time.UTC)
	if got := repository.Day(ts); got != "2025-11-01" {
		t.Fatalf("expected 2025-11-01, got %s", got)
	}

	// Local timestamps bucket by their UTC day.
	loc := time.FixedZone("UTC-6", -6*60*60)
	late := time.Date(2025, 11, 1, 20, 0, 0, 0, loc) // 02:00 UTC next day
	if got := repository.Day(late); got != "2025-11-02" {
		t.Fatalf("expected 2025-11-02, got %s", got)
	}
}

func TestPriceRepoRoundTrip(t *testing.T) {
	pool := testutil.SetupPool(t)
	ctx := context.Background()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	repo := repository.NewPriceRepo(pool)
	now := time.Now().UTC().Truncate(time.Millisecond)

	points := []models.PricePoint{
		{Timestamp: now, Instrument: "bitcoin", Price: 50000},
		{Timestamp: now, Instrument: "ethereum", Price: 3000},
	}
	if err := repo.RecordPoints(ctx, points); err != nil {
		t.Fatalf("RecordPoints: %v", err)
	}

	day := repository.Day(now)
	stored, err := repo.GetByDay(ctx, day)
	if err != nil {
		t.Fatalf("GetByDay: %v", err)
	}
	if len(stored) < 2 {
		t.Fatalf("expected at least 2 rows for %s, got %d", day, len(stored))
	}

	latest, err := repo.GetLatest(ctx, "bitcoin")
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if latest == nil || latest.Price != 50000 {
		t.Fatalf("unexpected latest: %+v", latest)
	}

	days, err := repo.GetAvailableDays(ctx)
	if err != nil {
		t.Fatalf("GetAvailableDays: %v", err)
	}
	found := false
	for _, d := range days {
		if d == day {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s among available days %v", day, days)
	}
}

func TestGetLatest_UnknownInstrument(t *testing.T) {
	pool := testutil.SetupPool(t)
	ctx := context.Background()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	repo := repository.NewPriceRepo(pool)
	latest, err := repo.GetLatest(ctx, "no-such-instrument")
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil for unknown instrument, got %+v", latest)
	}
}
