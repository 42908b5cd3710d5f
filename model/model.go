// Package model holds the application data and business logic state
// driving the terminal dashboard. It owns the update sequencer state
// and interprets the effects its operations emit.
package model

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Francisco1000/wp-calypso/checklist"
	"github.com/Francisco1000/wp-calypso/config"
	"github.com/Francisco1000/wp-calypso/siteapi"
	"github.com/Francisco1000/wp-calypso/storage"
	"github.com/Francisco1000/wp-calypso/updates"
)

// Model holds the core application data and business logic state
type Model struct {
	// Core dependencies
	Config           *config.Config
	Client           *siteapi.Client
	History          *storage.HistoryStorage
	ChecklistStorage *storage.ChecklistStorage
	Tracker          Tracker

	// Sequencer state
	Updates      updates.State
	Items        []updates.Item
	PrevStatuses map[updates.Key]updates.Status

	// Checklist data
	Tasks []checklist.Task

	// Runtime state (not UI)
	Refreshing bool
	Quitting   bool

	// Application metadata
	Version string
}

// NewModel creates a new Model with the given configuration
func NewModel(cfg *config.Config, client *siteapi.Client, history *storage.HistoryStorage, checklistStorage *storage.ChecklistStorage, version string) *Model {
	return &Model{
		Config:           cfg,
		Client:           client,
		History:          history,
		ChecklistStorage: checklistStorage,
		Tracker:          NewTracker(cfg),
		Updates:          updates.NewState(),
		PrevStatuses:     map[updates.Key]updates.Status{},
		Version:          version,
	}
}

// VisibleItems returns the candidate set filtered to what the user has
// not dismissed, in the order the API reported it.
func (m *Model) VisibleItems() []updates.Item {
	return m.Updates.Visible(m.Items)
}

// HasQueuedWork reports whether any update is queued or in flight. The
// quit confirmation hangs off this.
func (m *Model) HasQueuedWork() bool {
	if m.Updates.QueueLen() > 0 {
		return true
	}
	for _, it := range m.Items {
		if it.Status == updates.StatusInProgress {
			return true
		}
	}
	return false
}

// EnqueueItem queues one item for update and advances the queue.
func (m *Model) EnqueueItem(item updates.Item, from string) ([]updates.Notice, tea.Cmd) {
	next, effects := m.Updates.Enqueue(m.Items, item, from)
	m.Updates = next
	return m.ExecuteEffects(effects)
}
