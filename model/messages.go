package model

import (
	"time"

	"github.com/Francisco1000/wp-calypso/checklist"
	"github.com/Francisco1000/wp-calypso/siteapi"
	"github.com/Francisco1000/wp-calypso/storage"
	"github.com/Francisco1000/wp-calypso/updates"
)

type ItemsFetchedMsg struct {
	Items []updates.Item
	Err   error
}

type StatusesFetchedMsg struct {
	Statuses map[string]siteapi.RawStatus
	Err      error
}

type PollTickMsg struct {
	At time.Time
}

type UpdateStartedMsg struct {
	Item updates.Item
	Err  error
}

type ResultRecordedMsg struct {
	Err error
}

// HistoryListMsg carries a page of history records. Slug is empty for
// the site-wide list and set when the list is scoped to one item.
type HistoryListMsg struct {
	Records []storage.UpdateRecord
	Slug    string
	Err     error
}

type ChecklistLoadedMsg struct {
	Tasks []checklist.Task
	Err   error
}

type ChecklistSavedMsg struct {
	Tasks []checklist.Task
	Err   error
}

type FlashTickMsg struct{}
