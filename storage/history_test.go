package storage

import (
	"testing"
	"time"
)

func newTestHistory(t *testing.T) *HistoryStorage {
	t.Helper()
	hs, err := NewHistoryStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewHistoryStorage() error = %v", err)
	}
	t.Cleanup(func() { hs.Close() })
	return hs
}

func TestHistorySaveAndList(t *testing.T) {
	hs := newTestHistory(t)

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	records := []UpdateRecord{
		{SiteID: "42", Slug: "akismet", Type: "plugin", Name: "Akismet", FromVersion: "5.3", ToVersion: "5.4", Result: "completed", FinishedAt: base},
		{SiteID: "42", Slug: "twentytwenty", Type: "theme", Name: "Twenty Twenty", Result: "error", Message: "download failed", FinishedAt: base.Add(time.Hour)},
		{SiteID: "99", Slug: "wordpress", Type: "core", Name: "WordPress", Result: "completed", FinishedAt: base},
	}
	for _, record := range records {
		if err := hs.Save(record); err != nil {
			t.Fatalf("Save(%s) error = %v", record.Slug, err)
		}
	}

	got, err := hs.List("42", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(List(42)) = %d, want 2", len(got))
	}
	// Newest first
	if got[0].Slug != "twentytwenty" || got[1].Slug != "akismet" {
		t.Errorf("order = [%s, %s], want [twentytwenty, akismet]", got[0].Slug, got[1].Slug)
	}
	if got[0].Message != "download failed" {
		t.Errorf("Message = %q, want %q", got[0].Message, "download failed")
	}
	if got[0].ID == "" {
		t.Error("expected an assigned record ID")
	}
}

func TestHistoryListLimit(t *testing.T) {
	hs := newTestHistory(t)

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		record := UpdateRecord{
			SiteID:     "42",
			Slug:       "akismet",
			Type:       "plugin",
			Name:       "Akismet",
			Result:     "completed",
			FinishedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := hs.Save(record); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got, err := hs.List("42", 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len(List(42, 2)) = %d, want 2", len(got))
	}
}

func TestHistoryListBySlug(t *testing.T) {
	hs := newTestHistory(t)

	for _, record := range []UpdateRecord{
		{SiteID: "42", Slug: "akismet", Type: "plugin", Name: "Akismet", Result: "completed"},
		{SiteID: "42", Slug: "jetpack", Type: "plugin", Name: "Jetpack", Result: "error"},
	} {
		if err := hs.Save(record); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got, err := hs.ListBySlug("42", "jetpack")
	if err != nil {
		t.Fatalf("ListBySlug() error = %v", err)
	}
	if len(got) != 1 || got[0].Slug != "jetpack" {
		t.Errorf("ListBySlug(jetpack) = %+v, want one jetpack record", got)
	}
}

func TestHistoryPrune(t *testing.T) {
	hs := newTestHistory(t)

	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for _, record := range []UpdateRecord{
		{SiteID: "42", Slug: "stale", Type: "plugin", Name: "Stale", Result: "completed", FinishedAt: old},
		{SiteID: "42", Slug: "fresh", Type: "plugin", Name: "Fresh", Result: "completed", FinishedAt: recent},
	} {
		if err := hs.Save(record); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	if err := hs.Prune(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}

	got, err := hs.List("42", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].Slug != "fresh" {
		t.Errorf("after prune got %+v, want only fresh", got)
	}
}
