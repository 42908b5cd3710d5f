package storage

import (
	"testing"
)

func TestChecklistLoadMissingIsFresh(t *testing.T) {
	cs, err := NewChecklistStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewChecklistStorage() error = %v", err)
	}

	state, err := cs.Load("42")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if state.SiteID != "42" {
		t.Errorf("SiteID = %q, want %q", state.SiteID, "42")
	}
	if len(state.Completed) != 0 {
		t.Errorf("Completed = %v, want empty", state.Completed)
	}
}

func TestChecklistMarkCompleteRoundTrip(t *testing.T) {
	cs, err := NewChecklistStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewChecklistStorage() error = %v", err)
	}

	state, err := cs.MarkComplete("42", "core_current")
	if err != nil {
		t.Fatalf("MarkComplete() error = %v", err)
	}
	first, ok := state.Completed["core_current"]
	if !ok || first.IsZero() {
		t.Fatal("expected core_current to be completed with a timestamp")
	}

	// Marking again keeps the original timestamp
	state, err = cs.MarkComplete("42", "core_current")
	if err != nil {
		t.Fatalf("MarkComplete() second call error = %v", err)
	}
	if !state.Completed["core_current"].Equal(first) {
		t.Error("re-completing a task changed its timestamp")
	}

	// Reload from disk
	loaded, err := cs.Load("42")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.Completed["core_current"].Equal(first) {
		t.Error("persisted timestamp does not match")
	}
}

func TestChecklistStatesArePerSite(t *testing.T) {
	cs, err := NewChecklistStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewChecklistStorage() error = %v", err)
	}

	if _, err := cs.MarkComplete("42", "plugins_current"); err != nil {
		t.Fatalf("MarkComplete() error = %v", err)
	}

	other, err := cs.Load("99")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(other.Completed) != 0 {
		t.Errorf("site 99 state = %v, want empty", other.Completed)
	}
}

func TestChecklistReset(t *testing.T) {
	cs, err := NewChecklistStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewChecklistStorage() error = %v", err)
	}

	if _, err := cs.MarkComplete("42", "plugins_current"); err != nil {
		t.Fatalf("MarkComplete() error = %v", err)
	}
	if err := cs.Reset("42"); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	state, err := cs.Load("42")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(state.Completed) != 0 {
		t.Errorf("after reset Completed = %v, want empty", state.Completed)
	}

	// Resetting a site with no state is not an error
	if err := cs.Reset("99"); err != nil {
		t.Errorf("Reset(missing) error = %v", err)
	}
}
