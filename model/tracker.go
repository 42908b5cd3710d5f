package model

import (
	"sort"
	"strings"

	"github.com/Francisco1000/wp-calypso/config"
)

// Tracker receives the analytics events emitted by sequencer
// operations.
type Tracker interface {
	Track(event string, props map[string]string)
}

// logTracker writes events to the debug log; there is no remote
// analytics endpoint.
type logTracker struct {
	siteID string
}

func NewTracker(cfg *config.Config) Tracker {
	t := &logTracker{}
	if cfg != nil {
		t.siteID = cfg.SiteID
	}
	return t
}

func (t *logTracker) Track(event string, props map[string]string) {
	if config.DebugLog == nil {
		return
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(" ")
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(props[k])
	}

	config.DebugLog.Printf("[Track] site=%s event=%s%s", t.siteID, event, sb.String())
}
