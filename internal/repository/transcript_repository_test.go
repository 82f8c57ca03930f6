package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/model"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/repository"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/testutil"
)

func TestTranscriptRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("save then read back by ticker and quarter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewTranscriptRepository(db)

		fetchedAt := time.Date(2025, time.June, 11, 12, 0, 0, 0, time.UTC)
		record := model.Transcript{
			Ticker:    "AAPL",
			Quarter:   "2025Q1",
			Text:      "Revenue was strong this quarter.",
			Summary:   "- Revenue was strong this quarter.",
			FetchedAt: &fetchedAt,
		}
		if err := repo.Save(ctx, &record); err != nil {
			t.Fatalf("Save() returned unexpected error: %v", err)
		}

		got, err := repo.Get("AAPL", "2025Q1")
		if err != nil {
			t.Fatalf("Get() returned unexpected error: %v", err)
		}
		if got == nil {
			t.Fatal("Expected a stored transcript")
		}
		if got.Summary != record.Summary || got.Text != record.Text {
			t.Errorf("Round trip mismatch: %+v", got)
		}
		if got.FetchedAt == nil || !got.FetchedAt.Equal(fetchedAt) {
			t.Errorf("Expected fetch timestamp preserved, got %v", got.FetchedAt)
		}
	})

	t.Run("quarters are cached independently", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewTranscriptRepository(db)

		if err := repo.Save(ctx, &model.Transcript{Ticker: "AAPL", Quarter: "2025Q1", Summary: "q1"}); err != nil {
			t.Fatalf("Save() returned unexpected error: %v", err)
		}

		got, err := repo.Get("AAPL", "2024Q4")
		if err != nil {
			t.Fatalf("Get() returned unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("Expected no record for a different quarter, got %+v", got)
		}
	})

	t.Run("unknown ticker reads as nil", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewTranscriptRepository(db)

		got, err := repo.Get("NOPE", "2025Q1")
		if err != nil {
			t.Fatalf("Get() returned unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("Expected nil, got %+v", got)
		}
	})
}
