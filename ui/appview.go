package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	appmodel "github.com/Francisco1000/wp-calypso/model"
	"github.com/Francisco1000/wp-calypso/storage"
	"github.com/Francisco1000/wp-calypso/updates"
)

const historyListLimit = 50

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// Window state
	width  int
	height int
	ready  bool

	// Updates list state
	selectedIdx int
	fetchError  string

	// Free-text filter
	filterMode    bool
	filterInput   textinput.Model
	filteredItems []updates.Item

	// Type filter cycles all → plugin → theme → core
	typeFilter updates.ItemType

	// Active notices keyed by ID; a new notice with a known ID replaces
	// the old one in place
	notices     map[string]updates.Notice
	noticeOrder []string

	// In-flight spinner
	updateSpinner spinner.Model

	// Confirmation modals
	confirmQuit       bool
	confirmDismissAll bool

	// Overlays
	showHelp       bool
	showHistory    bool
	historyRecords []storage.UpdateRecord
	historySlug    string
	historyIdx     int
	showChecklist  bool
	checklistIdx   int

	// Transient status bar feedback (clipboard copy etc.)
	flash string
}

func NewAppView(dataModel *appmodel.Model) AppView {
	filterInput := textinput.New()
	filterInput.Prompt = "Filter: "
	filterInput.CharLimit = 64

	updateSpinner := spinner.New()
	updateSpinner.Spinner = spinner.Dot

	return AppView{
		dataModel:     dataModel,
		filterInput:   filterInput,
		filteredItems: []updates.Item{},
		notices:       map[string]updates.Notice{},
		updateSpinner: updateSpinner,
	}
}

func (a AppView) Init() tea.Cmd {
	return tea.Batch(
		a.dataModel.FetchItems(),
		a.dataModel.LoadChecklist(),
		a.dataModel.PollStatuses(),
		a.updateSpinner.Tick,
	)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading updates..."
	}

	if a.confirmQuit {
		return RenderConfirmationModal(ConfirmationState{
			Active: true,
			Title:  "Updates still running",
			Message: fmt.Sprintf("%d update(s) are queued or in progress.\nQuitting will stop tracking their outcome.\n\nQuit anyway?",
				a.dataModel.Updates.QueueLen()),
		}, a.width, a.height)
	}

	if a.confirmDismissAll {
		return RenderConfirmationModal(ConfirmationState{
			Active:  true,
			Title:   "Dismiss all updates",
			Message: "Hide every pending update from the list?\nQueued updates still run to completion.",
		}, a.width, a.height)
	}

	if a.showHelp {
		return renderHelpModal(a.width, a.height)
	}

	if a.showHistory {
		return a.renderHistory()
	}

	if a.showChecklist {
		return a.renderChecklist()
	}

	return a.renderUpdatesList()
}

// listItems returns the items currently shown: visible items narrowed
// by the type filter, then by the fuzzy free-text filter.
func (a AppView) listItems() []updates.Item {
	if a.filterMode && a.filterInput.Value() != "" {
		return a.filteredItems
	}
	return a.typeFilteredItems()
}

func (a AppView) typeFilteredItems() []updates.Item {
	visible := a.dataModel.VisibleItems()
	if a.typeFilter == "" {
		return visible
	}
	out := make([]updates.Item, 0, len(visible))
	for _, it := range visible {
		if it.Type == a.typeFilter {
			out = append(out, it)
		}
	}
	return out
}

// refreshFilter recomputes the fuzzy matches against the current
// type-filtered list.
func (a *AppView) refreshFilter() {
	base := a.typeFilteredItems()
	value := a.filterInput.Value()
	if value == "" {
		a.filteredItems = []updates.Item{}
		return
	}

	targets := make([]string, len(base))
	for i, it := range base {
		targets[i] = it.Name + " " + it.Slug
	}
	matches := fuzzy.Find(value, targets)
	a.filteredItems = make([]updates.Item, len(matches))
	for i, match := range matches {
		a.filteredItems[i] = base[match.Index]
	}
}

func (a *AppView) clampSelection() {
	list := a.listItems()
	if a.selectedIdx >= len(list) {
		a.selectedIdx = len(list) - 1
	}
	if a.selectedIdx < 0 {
		a.selectedIdx = 0
	}
}

// applyNotices folds sequencer notices into the active set. A notice
// reusing a known ID replaces the previous one and keeps its position.
func (a *AppView) applyNotices(notices []updates.Notice) {
	for _, n := range notices {
		if _, known := a.notices[n.ID]; !known {
			a.noticeOrder = append(a.noticeOrder, n.ID)
		}
		a.notices[n.ID] = n
	}
}

func (a *AppView) dropNotice(id string) {
	if _, known := a.notices[id]; !known {
		return
	}
	delete(a.notices, id)
	for i, existing := range a.noticeOrder {
		if existing == id {
			a.noticeOrder = append(a.noticeOrder[:i], a.noticeOrder[i+1:]...)
			break
		}
	}
}

// latestErrorNotice returns the most recent error notice, if any. The
// retry and copy shortcuts act on it.
func (a AppView) latestErrorNotice() *updates.Notice {
	for i := len(a.noticeOrder) - 1; i >= 0; i-- {
		n := a.notices[a.noticeOrder[i]]
		if n.Kind == updates.NoticeError {
			return &n
		}
	}
	return nil
}

func (a *AppView) closeOverlays() {
	a.showHelp = false
	a.showHistory = false
	a.historySlug = ""
	a.showChecklist = false
	a.confirmQuit = false
	a.confirmDismissAll = false

	a.filterMode = false
	if a.filterInput.Focused() {
		a.filterInput.Blur()
	}
	a.filterInput.SetValue("")
	a.filteredItems = []updates.Item{}
}
