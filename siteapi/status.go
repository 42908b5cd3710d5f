package siteapi

import (
	"fmt"

	"github.com/Francisco1000/wp-calypso/updates"
)

// RawStatus is an update status as reported by the HTTP layer.
type RawStatus string

const (
	RawUninitialized RawStatus = "uninitialized"
	RawPending       RawStatus = "pending"
	RawFailure       RawStatus = "failure"
	RawSuccess       RawStatus = "success"
)

// StatusKey returns the polling key under which the API reports the
// update status of an item.
func StatusKey(siteID string, item updates.Item) string {
	switch item.Type {
	case updates.TypeTheme:
		return fmt.Sprintf("theme-update-%s-%s", siteID, item.Slug)
	case updates.TypeCore:
		return fmt.Sprintf("core-update-%s", siteID)
	default:
		return fmt.Sprintf("plugin-update-%s-%s", siteID, item.Slug)
	}
}

// Normalize maps a raw HTTP-layer status onto the sequencer's four
// state vocabulary.
func Normalize(raw RawStatus) updates.Status {
	switch raw {
	case RawPending:
		return updates.StatusInProgress
	case RawFailure:
		return updates.StatusError
	case RawSuccess:
		return updates.StatusCompleted
	default:
		return updates.StatusNone
	}
}

// ApplyStatuses merges polled raw statuses into a candidate item set,
// returning a new slice with each item's Status normalized.
func ApplyStatuses(siteID string, items []updates.Item, statuses map[string]RawStatus) []updates.Item {
	out := make([]updates.Item, len(items))
	for i, it := range items {
		it.Status = Normalize(statuses[StatusKey(siteID, it)])
		out[i] = it
	}
	return out
}
