package ui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Francisco1000/wp-calypso/config"
	appmodel "github.com/Francisco1000/wp-calypso/model"
	"github.com/Francisco1000/wp-calypso/updates"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	// Keep the in-flight spinner animated while anything is updating
	if a.hasInFlight() {
		a.updateSpinner, cmd = a.updateSpinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		return a.handleKey(msg)

	case appmodel.ItemsFetchedMsg:
		if msg.Err != nil {
			a.fetchError = msg.Err.Error()
			if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] item fetch failed: %v", msg.Err)
			}
			return a, tea.Batch(cmds...)
		}
		a.fetchError = ""
		a.dataModel.HandleItems(msg.Items)
		a.refreshFilter()
		a.clampSelection()
		return a, tea.Batch(cmds...)

	case appmodel.PollTickMsg:
		cmds = append(cmds, a.dataModel.FetchStatuses(), a.dataModel.PollStatuses())
		return a, tea.Batch(cmds...)

	case appmodel.StatusesFetchedMsg:
		if msg.Err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] status poll failed: %v", msg.Err)
			}
			return a, tea.Batch(cmds...)
		}
		notices, effectCmd := a.dataModel.HandleStatuses(msg.Statuses)
		a.applyNotices(notices)
		a.refreshFilter()
		a.clampSelection()
		if effectCmd != nil {
			cmds = append(cmds, effectCmd)
		}
		return a, tea.Batch(cmds...)

	case appmodel.UpdateStartedMsg:
		if msg.Err != nil {
			notices, effectCmd := a.dataModel.HandleStartFailure(msg.Item, msg.Err)
			a.applyNotices(notices)
			if effectCmd != nil {
				cmds = append(cmds, effectCmd)
			}
		}
		return a, tea.Batch(cmds...)

	case appmodel.ResultRecordedMsg:
		if msg.Err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[UI] history write failed: %v", msg.Err)
		}
		return a, tea.Batch(cmds...)

	case appmodel.HistoryListMsg:
		if msg.Err != nil {
			a.flashMessage(fmt.Sprintf("History unavailable: %v", msg.Err))
			return a, tea.Batch(cmds...)
		}
		a.historyRecords = msg.Records
		a.historySlug = msg.Slug
		if a.historyIdx >= len(a.historyRecords) {
			a.historyIdx = 0
		}
		return a, tea.Batch(cmds...)

	case appmodel.ChecklistLoadedMsg:
		if msg.Err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] checklist load failed: %v", msg.Err)
			}
			return a, tea.Batch(cmds...)
		}
		a.dataModel.Tasks = msg.Tasks
		return a, tea.Batch(cmds...)

	case appmodel.ChecklistSavedMsg:
		if msg.Err != nil {
			a.flashMessage(fmt.Sprintf("Checklist save failed: %v", msg.Err))
			return a, tea.Batch(cmds...)
		}
		a.dataModel.Tasks = msg.Tasks
		return a, tea.Batch(cmds...)

	case appmodel.FlashTickMsg:
		a.flash = ""
		return a, tea.Batch(cmds...)
	}

	return a, tea.Batch(cmds...)
}

func (a AppView) hasInFlight() bool {
	for _, it := range a.dataModel.Items {
		if it.Status == updates.StatusInProgress {
			return true
		}
	}
	return false
}

func (a *AppView) flashMessage(text string) {
	a.flash = text
}

func flashClear() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return appmodel.FlashTickMsg{}
	})
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit confirmation has priority over everything else
	if a.confirmQuit {
		switch msg.String() {
		case "y":
			a.dataModel.Quitting = true
			return a, tea.Quit
		case "n", "esc":
			a.confirmQuit = false
		}
		return a, nil
	}

	if a.confirmDismissAll {
		switch msg.String() {
		case "y":
			a.confirmDismissAll = false
			notices, cmd := a.dataModel.DismissAll()
			a.applyNotices(notices)
			a.refreshFilter()
			a.clampSelection()
			return a, cmd
		case "n", "esc":
			a.confirmDismissAll = false
		}
		return a, nil
	}

	// Global quit shortcut with the navigation guard: leaving while
	// updates are queued or running needs an explicit confirmation
	if msg.String() == "ctrl+c" || (msg.String() == "q" && !a.filterMode) {
		if a.dataModel.HasQueuedWork() {
			a.confirmQuit = true
			return a, nil
		}
		a.dataModel.Quitting = true
		return a, tea.Quit
	}

	// esc backs out of whatever overlay or mode is open
	if msg.String() == "esc" {
		a.closeOverlays()
		a.clampSelection()
		return a, nil
	}

	if a.showHelp {
		switch msg.String() {
		case "?":
			a.showHelp = false
		}
		return a, nil
	}

	if a.showHistory {
		return a.handleHistoryKey(msg)
	}

	if a.showChecklist {
		return a.handleChecklistKey(msg)
	}

	if a.filterMode {
		return a.handleFilterKey(msg)
	}

	switch msg.String() {
	case "j", "down":
		if a.selectedIdx < len(a.listItems())-1 {
			a.selectedIdx++
		}
		return a, nil

	case "k", "up":
		if a.selectedIdx > 0 {
			a.selectedIdx--
		}
		return a, nil

	case "enter", "u":
		list := a.listItems()
		if a.selectedIdx >= 0 && a.selectedIdx < len(list) {
			notices, cmd := a.dataModel.EnqueueItem(list[a.selectedIdx], "")
			a.applyNotices(notices)
			return a, cmd
		}
		return a, nil

	case "a":
		notices, cmd := a.dataModel.UpdateAll()
		a.applyNotices(notices)
		return a, cmd

	case "d":
		list := a.listItems()
		if a.selectedIdx >= 0 && a.selectedIdx < len(list) {
			notices, cmd := a.dataModel.DismissItem(list[a.selectedIdx].Slug)
			a.applyNotices(notices)
			a.refreshFilter()
			a.clampSelection()
			return a, cmd
		}
		return a, nil

	case "D":
		a.confirmDismissAll = true
		return a, nil

	case "r":
		if n := a.latestErrorNotice(); n != nil && n.Retry != nil {
			a.dropNotice(n.ID)
			notices, cmd := a.dataModel.EnqueueItem(*n.Retry, n.Retry.From)
			a.applyNotices(notices)
			return a, cmd
		}
		return a, nil

	case "y":
		if n := a.latestErrorNotice(); n != nil {
			if err := clipboard.WriteAll(n.Text); err != nil {
				a.flashMessage(fmt.Sprintf("Copy failed: %v", err))
			} else {
				a.flashMessage("Copied error to clipboard")
			}
			return a, flashClear()
		}
		return a, nil

	case "x":
		// Clear all notices
		a.notices = map[string]updates.Notice{}
		a.noticeOrder = nil
		return a, nil

	case "t":
		a.typeFilter = nextTypeFilter(a.typeFilter)
		a.refreshFilter()
		a.clampSelection()
		return a, nil

	case "/":
		a.filterMode = true
		a.filterInput.Focus()
		a.filterInput.SetValue("")
		a.filteredItems = []updates.Item{}
		a.selectedIdx = 0
		return a, nil

	case "R":
		return a, a.dataModel.FetchItems()

	case "h":
		a.showHistory = true
		a.historyIdx = 0
		return a, a.dataModel.FetchHistory(historyListLimit)

	case "c":
		a.showChecklist = true
		a.checklistIdx = 0
		return a, a.dataModel.LoadChecklist()

	case "?":
		a.showHelp = true
		return a, nil
	}

	return a, nil
}

func nextTypeFilter(current updates.ItemType) updates.ItemType {
	switch current {
	case "":
		return updates.TypePlugin
	case updates.TypePlugin:
		return updates.TypeTheme
	case updates.TypeTheme:
		return updates.TypeCore
	default:
		return ""
	}
}

func (a AppView) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		list := a.listItems()
		if a.selectedIdx >= 0 && a.selectedIdx < len(list) {
			notices, cmd := a.dataModel.EnqueueItem(list[a.selectedIdx], "")
			a.applyNotices(notices)
			return a, cmd
		}
		return a, nil

	case "down":
		if a.selectedIdx < len(a.listItems())-1 {
			a.selectedIdx++
		}
		return a, nil

	case "up":
		if a.selectedIdx > 0 {
			a.selectedIdx--
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.filterInput, cmd = a.filterInput.Update(msg)
	a.refreshFilter()
	a.clampSelection()
	return a, cmd
}

func (a AppView) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h":
		a.showHistory = false
		a.historySlug = ""
		return a, nil

	case "j", "down":
		if a.historyIdx < len(a.historyRecords)-1 {
			a.historyIdx++
		}
		return a, nil

	case "k", "up":
		if a.historyIdx > 0 {
			a.historyIdx--
		}
		return a, nil

	case "enter":
		// Drill into the full history of the selected item
		if a.historySlug == "" && a.historyIdx >= 0 && a.historyIdx < len(a.historyRecords) {
			slug := a.historyRecords[a.historyIdx].Slug
			a.historyIdx = 0
			return a, a.dataModel.FetchHistoryForSlug(slug)
		}
		return a, nil

	case "backspace":
		if a.historySlug != "" {
			a.historySlug = ""
			a.historyIdx = 0
			return a, a.dataModel.FetchHistory(historyListLimit)
		}
		return a, nil

	case "R":
		if a.historySlug != "" {
			return a, a.dataModel.FetchHistoryForSlug(a.historySlug)
		}
		return a, a.dataModel.FetchHistory(historyListLimit)
	}

	return a, nil
}

func (a AppView) handleChecklistKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "c":
		a.showChecklist = false
		return a, nil

	case "j", "down":
		if a.checklistIdx < len(a.dataModel.Tasks)-1 {
			a.checklistIdx++
		}
		return a, nil

	case "k", "up":
		if a.checklistIdx > 0 {
			a.checklistIdx--
		}
		return a, nil

	case "enter", " ":
		if a.checklistIdx >= 0 && a.checklistIdx < len(a.dataModel.Tasks) {
			task := a.dataModel.Tasks[a.checklistIdx]
			if !task.Completed {
				return a, a.dataModel.CompleteChecklistTask(task.ID)
			}
		}
		return a, nil
	}

	return a, nil
}
