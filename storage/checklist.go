package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ChecklistState holds the completion timestamps for one site's
// checklist, keyed by task ID.
type ChecklistState struct {
	ID        string               `json:"id"`
	SiteID    string               `json:"site_id"`
	Completed map[string]time.Time `json:"completed"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// ChecklistStorage handles checklist state persistence
type ChecklistStorage struct {
	checklistDir string
}

// NewChecklistStorage creates a new checklist storage
func NewChecklistStorage(dataDir string) (*ChecklistStorage, error) {
	checklistDir := filepath.Join(dataDir, "checklist")

	// 0700 - user-only access
	if err := os.MkdirAll(checklistDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create checklist directory: %w", err)
	}

	return &ChecklistStorage{
		checklistDir: checklistDir,
	}, nil
}

func (s *ChecklistStorage) statePath(siteID string) string {
	return filepath.Join(s.checklistDir, fmt.Sprintf("%s.json", siteID))
}

// Load loads the checklist state for a site. A missing file is treated
// as a fresh state, not an error.
func (s *ChecklistStorage) Load(siteID string) (*ChecklistState, error) {
	data, err := os.ReadFile(s.statePath(siteID))
	if err != nil {
		if os.IsNotExist(err) {
			return &ChecklistState{
				SiteID:    siteID,
				Completed: make(map[string]time.Time),
			}, nil
		}
		return nil, fmt.Errorf("failed to read checklist state: %w", err)
	}

	var state ChecklistState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checklist state: %w", err)
	}
	if state.Completed == nil {
		state.Completed = make(map[string]time.Time)
	}
	state.SiteID = siteID

	return &state, nil
}

// Save writes the checklist state for a site to disk.
func (s *ChecklistStorage) Save(state *ChecklistState) error {
	if state.SiteID == "" {
		return fmt.Errorf("checklist state has no site ID")
	}
	if state.ID == "" {
		state.ID = uuid.New().String()
	}

	state.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal checklist state: %w", err)
	}

	if err := os.WriteFile(s.statePath(state.SiteID), data, 0600); err != nil {
		return fmt.Errorf("failed to write checklist state: %w", err)
	}

	return nil
}

// MarkComplete records a task as done and persists the state.
// Completing an already-complete task keeps the original timestamp.
func (s *ChecklistStorage) MarkComplete(siteID, taskID string) (*ChecklistState, error) {
	state, err := s.Load(siteID)
	if err != nil {
		return nil, err
	}

	if _, done := state.Completed[taskID]; !done {
		state.Completed[taskID] = time.Now()
		if err := s.Save(state); err != nil {
			return nil, err
		}
	}

	return state, nil
}

// Reset clears a site's checklist state.
func (s *ChecklistStorage) Reset(siteID string) error {
	err := os.Remove(s.statePath(siteID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove checklist state: %w", err)
	}
	return nil
}
