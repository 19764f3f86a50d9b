package storage

import (
	"context"
	"testing"

	"eyewear-tracker-go/internal/domain/wearlog"
)

func newTestRepo(t *testing.T) *usageLogRepository {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	return &usageLogRepository{db: db}
}

func seedEntry(t *testing.T, repo *usageLogRepository, token, date string, wearType wearlog.WearType, lensDays int) {
	t.Helper()

	_, err := repo.Upsert(context.Background(), &wearlog.Entry{
		Token:         token,
		Date:          date,
		WearType:      wearType,
		LensUsageDays: lensDays,
	})
	if err != nil {
		t.Fatalf("Upsert(%s, %s) returned error: %v", token, date, err)
	}
}

func TestUpsertIsIdempotentPerDay(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedEntry(t, repo, "EYEWEAR21", "2025-05-01", wearlog.WearGlasses, 0)
	seedEntry(t, repo, "EYEWEAR21", "2025-05-01", wearlog.WearLenses, 1)
	seedEntry(t, repo, "EYEWEAR21", "2025-05-01", wearlog.WearLenses, 1)

	entries, err := repo.ListByToken(ctx, "EYEWEAR21")
	if err != nil {
		t.Fatalf("ListByToken returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single row for the day, got %d", len(entries))
	}
	if entries[0].WearType != wearlog.WearLenses {
		t.Errorf("last write should win, got %s", entries[0].WearType)
	}
}

func TestListRangeBoundaries(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedEntry(t, repo, "EYEWEAR21", "2025-04-30", wearlog.WearGlasses, 0)
	seedEntry(t, repo, "EYEWEAR21", "2025-05-01", wearlog.WearGlasses, 0)
	seedEntry(t, repo, "EYEWEAR21", "2025-05-31", wearlog.WearGlasses, 0)
	seedEntry(t, repo, "EYEWEAR21", "2025-06-01", wearlog.WearGlasses, 0)

	entries, err := repo.ListRange(ctx, "EYEWEAR21", "2025-05-01", "2025-06-01")
	if err != nil {
		t.Fatalf("ListRange returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected inclusive from, exclusive to, got %d entries", len(entries))
	}
	if entries[0].Date != "2025-05-01" || entries[1].Date != "2025-05-31" {
		t.Errorf("unexpected range contents: %s, %s", entries[0].Date, entries[1].Date)
	}
}

func TestDeleteReturnsNilWhenAbsent(t *testing.T) {
	repo := newTestRepo(t)

	deleted, err := repo.Delete(context.Background(), "EYEWEAR21", "2025-05-01")
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if deleted != nil {
		t.Errorf("expected nil for absent row, got %+v", deleted)
	}
}

func TestDecrementLensDaysAfterSkipsZeroRows(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedEntry(t, repo, "EYEWEAR21", "2025-05-01", wearlog.WearLenses, 1)
	seedEntry(t, repo, "EYEWEAR21", "2025-05-02", wearlog.WearGlasses, 0)
	seedEntry(t, repo, "EYEWEAR21", "2025-05-03", wearlog.WearLenses, 2)
	seedEntry(t, repo, "VISION48X", "2025-05-03", wearlog.WearLenses, 5)

	if err := repo.DecrementLensDaysAfter(ctx, "EYEWEAR21", "2025-05-01"); err != nil {
		t.Fatalf("DecrementLensDaysAfter returned error: %v", err)
	}

	entries, err := repo.ListByToken(ctx, "EYEWEAR21")
	if err != nil {
		t.Fatalf("ListByToken returned error: %v", err)
	}
	// Date descending: 05-03, 05-02, 05-01.
	if entries[0].LensUsageDays != 1 {
		t.Errorf("later lens row should decrement, got %d", entries[0].LensUsageDays)
	}
	if entries[1].LensUsageDays != 0 {
		t.Errorf("zero row must stay at zero, got %d", entries[1].LensUsageDays)
	}
	if entries[2].LensUsageDays != 1 {
		t.Errorf("row at the boundary date must be untouched, got %d", entries[2].LensUsageDays)
	}

	other, err := repo.ListByToken(ctx, "VISION48X")
	if err != nil {
		t.Fatalf("ListByToken returned error: %v", err)
	}
	if other[0].LensUsageDays != 5 {
		t.Errorf("other owners must be untouched, got %d", other[0].LensUsageDays)
	}
}

func TestClearAllReportsRowCount(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedEntry(t, repo, "EYEWEAR21", "2025-05-01", wearlog.WearGlasses, 0)
	seedEntry(t, repo, "VISION48X", "2025-05-01", wearlog.WearLenses, 1)
	seedEntry(t, repo, "OPTICS92Z", "2025-05-01", wearlog.WearLenses, 1)

	count, err := repo.ClearAll(ctx)
	if err != nil {
		t.Fatalf("ClearAll returned error: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 rows cleared, got %d", count)
	}

	count, err = repo.ClearAll(ctx)
	if err != nil {
		t.Fatalf("ClearAll on empty store returned error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 on second clear, got %d", count)
	}
}
