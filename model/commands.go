package model

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Francisco1000/wp-calypso/checklist"
	"github.com/Francisco1000/wp-calypso/config"
	"github.com/Francisco1000/wp-calypso/siteapi"
	"github.com/Francisco1000/wp-calypso/storage"
	"github.com/Francisco1000/wp-calypso/updates"
)

const requestTimeout = 30 * time.Second

// FetchItems retrieves the site's updatable items
func (m *Model) FetchItems() tea.Cmd {
	if m.Client == nil {
		return nil
	}
	client := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		items, err := client.FetchItems(ctx)
		return ItemsFetchedMsg{Items: items, Err: err}
	}
}

// PollStatuses schedules the next status poll tick
func (m *Model) PollStatuses() tea.Cmd {
	return tea.Tick(m.Config.PollInterval(), func(t time.Time) tea.Msg {
		return PollTickMsg{At: t}
	})
}

// FetchStatuses retrieves the current update statuses from the API
func (m *Model) FetchStatuses() tea.Cmd {
	if m.Client == nil {
		return nil
	}
	client := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		statuses, err := client.FetchStatuses(ctx)
		return StatusesFetchedMsg{Statuses: statuses, Err: err}
	}
}

// startUpdate performs the transport call for one dispatched item
func (m *Model) startUpdate(item updates.Item) tea.Cmd {
	if m.Client == nil {
		return nil
	}
	client := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := client.StartUpdate(ctx, item)
		return UpdateStartedMsg{Item: item, Err: err}
	}
}

// recordResult appends a terminal outcome to the history log
func (m *Model) recordResult(item updates.Item, result updates.Status, message string) tea.Cmd {
	if m.History == nil {
		return nil
	}
	history := m.History
	siteID := m.Config.SiteID
	outcome := "completed"
	if result == updates.StatusError {
		outcome = "error"
	}
	return func() tea.Msg {
		err := history.Save(storage.UpdateRecord{
			SiteID:      siteID,
			Slug:        item.Slug,
			Type:        string(item.Type),
			Name:        item.Name,
			FromVersion: item.Version,
			ToVersion:   item.NewVersion,
			Result:      outcome,
			Message:     message,
			FinishedAt:  time.Now(),
		})
		return ResultRecordedMsg{Err: err}
	}
}

// FetchHistory retrieves the recent update history for the site
func (m *Model) FetchHistory(limit int) tea.Cmd {
	if m.History == nil {
		return nil
	}
	history := m.History
	siteID := m.Config.SiteID
	return func() tea.Msg {
		records, err := history.List(siteID, limit)
		return HistoryListMsg{Records: records, Err: err}
	}
}

// FetchHistoryForSlug retrieves the full update history of one item
func (m *Model) FetchHistoryForSlug(slug string) tea.Cmd {
	if m.History == nil {
		return nil
	}
	history := m.History
	siteID := m.Config.SiteID
	return func() tea.Msg {
		records, err := history.ListBySlug(siteID, slug)
		return HistoryListMsg{Records: records, Slug: slug, Err: err}
	}
}

// LoadChecklist merges the static task table with the stored
// completion state
func (m *Model) LoadChecklist() tea.Cmd {
	if m.ChecklistStorage == nil {
		return nil
	}
	checklistStorage := m.ChecklistStorage
	siteID := m.Config.SiteID
	return func() tea.Msg {
		defs, err := checklist.Definitions()
		if err != nil {
			return ChecklistLoadedMsg{Err: err}
		}
		state, err := checklistStorage.Load(siteID)
		if err != nil {
			return ChecklistLoadedMsg{Err: err}
		}
		return ChecklistLoadedMsg{Tasks: checklist.Merge(defs, state.Completed)}
	}
}

// CompleteChecklistTask marks a task done and reloads the merged view
func (m *Model) CompleteChecklistTask(taskID string) tea.Cmd {
	if m.ChecklistStorage == nil {
		return nil
	}
	checklistStorage := m.ChecklistStorage
	siteID := m.Config.SiteID
	return func() tea.Msg {
		state, err := checklistStorage.MarkComplete(siteID, taskID)
		if err != nil {
			return ChecklistSavedMsg{Err: err}
		}
		defs, err := checklist.Definitions()
		if err != nil {
			return ChecklistSavedMsg{Err: err}
		}
		return ChecklistSavedMsg{Tasks: checklist.Merge(defs, state.Completed)}
	}
}

// ExecuteEffects interprets the effects returned by a sequencer
// operation. Transport and history effects become commands, tracking
// effects are recorded immediately, and notices are returned for the
// view layer to display. A dispatched item is marked in progress in the
// local candidate set right away so a second dispatch cannot slip in
// before the next poll.
func (m *Model) ExecuteEffects(effects []updates.Effect) ([]updates.Notice, tea.Cmd) {
	var notices []updates.Notice
	var cmds []tea.Cmd

	for _, effect := range effects {
		switch e := effect.(type) {
		case updates.StartUpdate:
			m.markInProgress(e.Item.Key())
			cmds = append(cmds, m.startUpdate(e.Item))
		case updates.Notice:
			notices = append(notices, e)
		case updates.Track:
			m.Tracker.Track(e.Event, e.Props)
		case updates.RecordResult:
			cmds = append(cmds, m.recordResult(e.Item, e.Result, e.Message))
		}
	}

	if len(cmds) == 0 {
		return notices, nil
	}
	return notices, tea.Batch(cmds...)
}

func (m *Model) markInProgress(key updates.Key) {
	for i, it := range m.Items {
		if it.Key() == key {
			m.Items[i].Status = updates.StatusInProgress
		}
	}
}

// HandleStatuses folds a poll result into the candidate set, runs
// reconciliation against the previous observation, and snapshots the
// new observation for the next round. An in-flight status already
// observed locally is carried forward when the poll has no status for
// that item yet, otherwise a poll landing between dispatch and the
// site registering the update would clear the mutual exclusion and the
// queue head would be dispatched a second time.
func (m *Model) HandleStatuses(statuses map[string]siteapi.RawStatus) ([]updates.Notice, tea.Cmd) {
	prev := m.PrevStatuses

	inFlight := make(map[updates.Key]struct{})
	for _, it := range m.Items {
		if it.Status == updates.StatusInProgress {
			inFlight[it.Key()] = struct{}{}
		}
	}
	m.Items = siteapi.ApplyStatuses(m.Config.SiteID, m.Items, statuses)
	for i, it := range m.Items {
		if _, ok := inFlight[it.Key()]; ok && it.Status == updates.StatusNone {
			m.Items[i].Status = updates.StatusInProgress
		}
	}

	next, effects := updates.Reconcile(m.Updates, prev, m.Items)
	m.Updates = next
	m.PrevStatuses = updates.Observe(m.Items)

	if config.DebugLog != nil && len(effects) > 0 {
		config.DebugLog.Printf("[Model] reconcile produced %d effects (queue=%d)", len(effects), m.Updates.QueueLen())
	}

	return m.ExecuteEffects(effects)
}

// HandleItems replaces the candidate set from a fresh item fetch. An
// in-flight status already observed locally is preserved so a fetch
// racing a dispatch does not clear the mutual exclusion.
func (m *Model) HandleItems(items []updates.Item) {
	inFlight := make(map[updates.Key]struct{})
	for _, it := range m.Items {
		if it.Status == updates.StatusInProgress {
			inFlight[it.Key()] = struct{}{}
		}
	}
	for i, it := range items {
		if _, ok := inFlight[it.Key()]; ok && it.Status == updates.StatusNone {
			items[i].Status = updates.StatusInProgress
		}
	}
	m.Items = items
}

// HandleStartFailure deals with a transport-level dispatch failure: the
// item never reached the site, so no status transition will ever arrive
// for it. The item is marked failed locally and the queue head is
// dropped so the rest of the queue is not deadlocked behind it.
func (m *Model) HandleStartFailure(item updates.Item, cause error) ([]updates.Notice, tea.Cmd) {
	for i, it := range m.Items {
		if it.Key() == item.Key() {
			m.Items[i].Status = updates.StatusError
		}
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Model] dispatch of %s failed: %v", item.Slug, cause)
	}

	retry := item
	retry.From = updates.FromError
	effects := []updates.Effect{
		updates.Notice{
			ID:    updates.NoticeID(item.Slug),
			Kind:  updates.NoticeError,
			Text:  fmt.Sprintf("An error occurred while updating %s.", item.Name),
			Retry: &retry,
		},
		updates.RecordResult{Item: item, Result: updates.StatusError, Message: cause.Error()},
	}

	next, more := m.Updates.Dequeue(m.Items)
	m.Updates = next
	m.PrevStatuses = updates.Observe(m.Items)

	return m.ExecuteEffects(append(effects, more...))
}

// UpdateAll queues the full candidate set and advances the queue.
func (m *Model) UpdateAll() ([]updates.Notice, tea.Cmd) {
	next, effects := m.Updates.UpdateAll(m.Items)
	m.Updates = next
	return m.ExecuteEffects(effects)
}

// DismissItem hides one item from the list.
func (m *Model) DismissItem(slug string) ([]updates.Notice, tea.Cmd) {
	next, effects := m.Updates.DismissOne(slug)
	m.Updates = next
	return m.ExecuteEffects(effects)
}

// DismissAll hides every item in the current candidate set.
func (m *Model) DismissAll() ([]updates.Notice, tea.Cmd) {
	next, effects := m.Updates.DismissAll(m.Items)
	m.Updates = next
	return m.ExecuteEffects(effects)
}
