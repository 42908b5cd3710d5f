package updates

import "fmt"

// Analytics event names recorded by sequencer operations.
const (
	EventUpdateOne  = "calypso_activitylog_tasklist_update_one"
	EventUpdateAll  = "calypso_activitylog_tasklist_update_all"
	EventDismissOne = "calypso_activitylog_tasklist_dismiss_one"
	EventDismissAll = "calypso_activitylog_tasklist_dismiss_all"
)

// State is the sequencer's view-local state: the slugs the user has
// dismissed and the FIFO queue of items awaiting an update. It is
// created empty when the updates view opens and discarded when it
// closes; nothing here persists.
//
// State is a value type. Every operation returns a new snapshot and a
// list of effects instead of mutating in place, so transitions can be
// tested in isolation.
type State struct {
	dismissed map[string]struct{}
	queued    []Item
}

// NewState returns an empty sequencer state.
func NewState() State {
	return State{dismissed: map[string]struct{}{}}
}

// Queued returns a copy of the queue in enqueue (FIFO) order.
func (s State) Queued() []Item {
	out := make([]Item, len(s.queued))
	copy(out, s.queued)
	return out
}

// QueueLen reports the number of queued items.
func (s State) QueueLen() int {
	return len(s.queued)
}

// IsDismissed reports whether the slug has been hidden by the user.
func (s State) IsDismissed(slug string) bool {
	_, ok := s.dismissed[slug]
	return ok
}

// IsQueued reports whether an item with the same slug and type is in
// the queue.
func (s State) IsQueued(key Key) bool {
	for _, it := range s.queued {
		if it.Key() == key {
			return true
		}
	}
	return false
}

// Visible filters the candidate set down to the items that should be
// rendered: everything the user has not dismissed. Dismissed items stay
// in the queue and still process to completion, they are only hidden.
func (s State) Visible(all []Item) []Item {
	out := make([]Item, 0, len(all))
	for _, it := range all {
		if !s.IsDismissed(it.Slug) {
			out = append(out, it)
		}
	}
	return out
}

func (s State) clone() State {
	next := State{
		dismissed: make(map[string]struct{}, len(s.dismissed)),
		queued:    make([]Item, len(s.queued)),
	}
	for slug := range s.dismissed {
		next.dismissed[slug] = struct{}{}
	}
	copy(next.queued, s.queued)
	return next
}

// Enqueue appends item to the queue with the given provenance tag and
// then attempts to advance the queue. Items already queued (same slug
// and type) and items the user has dismissed are not added again; the
// queue advance still runs either way.
func (s State) Enqueue(all []Item, item Item, from string) (State, []Effect) {
	next := s.clone()
	item.From = from
	if !next.IsQueued(item.Key()) && !next.IsDismissed(item.Slug) {
		next.queued = append(next.queued, item)
	}
	return next.ContinueQueue(all)
}

// ContinueQueue dispatches the queue head if the queue is non-empty and
// no item anywhere in the candidate set is currently in progress. This
// is the only place an update is started, which keeps at most one
// update in flight across the whole item universe.
func (s State) ContinueQueue(all []Item) (State, []Effect) {
	if len(s.queued) == 0 || anyInProgress(all) {
		return s, nil
	}
	return s, updateItem(s.queued[0])
}

// updateItem produces the effects of dispatching one update: the
// tracking event, the transport-level start action and an informational
// notice. It never touches the queue; dequeueing happens only on
// reconciliation.
func updateItem(item Item) []Effect {
	return []Effect{
		Track{
			Event: EventUpdateOne,
			Props: map[string]string{"type": string(item.Type), "slug": item.Slug, "from": item.From},
		},
		StartUpdate{Item: item},
		Notice{
			ID:   NoticeID(item.Slug),
			Kind: NoticeInfo,
			Text: fmt.Sprintf("Updating %s…", item.Name),
		},
	}
}

// Dequeue drops the queue head and attempts to advance the queue.
func (s State) Dequeue(all []Item) (State, []Effect) {
	next := s.clone()
	if len(next.queued) > 0 {
		next.queued = next.queued[1:]
	}
	return next.ContinueQueue(all)
}

// DismissOne hides a single item from the rendered list. The item is
// not removed from the queue: an already-queued dismissed item still
// processes to completion.
func (s State) DismissOne(slug string) (State, []Effect) {
	next := s.clone()
	next.dismissed[slug] = struct{}{}
	return next, []Effect{Track{Event: EventDismissOne, Props: map[string]string{"slug": slug}}}
}

// DismissAll hides every item in the current candidate set.
func (s State) DismissAll(all []Item) (State, []Effect) {
	next := s.clone()
	for _, it := range all {
		next.dismissed[it.Slug] = struct{}{}
	}
	return next, []Effect{Track{Event: EventDismissAll}}
}

// UpdateAll enqueues the whole candidate set in core, plugins, themes
// order with a single tracking event and no per-item events, then
// attempts a single queue advance.
func (s State) UpdateAll(all []Item) (State, []Effect) {
	next := s.clone()
	ordered := make([]Item, 0, len(all))
	for _, t := range []ItemType{TypeCore, TypePlugin, TypeTheme} {
		for _, it := range all {
			if it.Type == t {
				ordered = append(ordered, it)
			}
		}
	}
	for _, it := range ordered {
		if next.IsQueued(it.Key()) || next.IsDismissed(it.Slug) {
			continue
		}
		it.From = ""
		next.queued = append(next.queued, it)
	}

	effects := []Effect{Track{Event: EventUpdateAll, Props: map[string]string{"count": fmt.Sprint(len(next.queued))}}}
	next, more := next.ContinueQueue(all)
	return next, append(effects, more...)
}
