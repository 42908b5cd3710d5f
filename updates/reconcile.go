package updates

import "fmt"

// Reconcile compares the previous observation of the candidate set
// against the current one and drives notices and queue advancement from
// the differences.
//
// For every item whose previous status existed, whose status has
// changed since the prior observation, and which is not currently in
// progress:
//
//   - error: an error notice with a "Try again" retry affordance is
//     shown, the outcome is recorded, and the queue head is dropped.
//   - completed: a success notice is shown, the item is dismissed, the
//     outcome is recorded, and the queue head is dropped.
//
// The in-progress check only suppresses firing while an update is mid
// flight; the expected transition is straight from inProgress to a
// terminal status.
func Reconcile(s State, prev map[Key]Status, curr []Item) (State, []Effect) {
	var effects []Effect

	for _, it := range curr {
		before, seen := prev[it.Key()]
		if !seen || before == StatusNone || before == it.Status || it.Status == StatusInProgress {
			continue
		}

		switch it.Status {
		case StatusError:
			retry := it
			retry.From = FromError
			effects = append(effects,
				Notice{
					ID:    NoticeID(it.Slug),
					Kind:  NoticeError,
					Text:  fmt.Sprintf("An error occurred while updating %s.", it.Name),
					Retry: &retry,
				},
				RecordResult{Item: it, Result: StatusError},
			)
			var more []Effect
			s, more = s.Dequeue(curr)
			effects = append(effects, more...)

		case StatusCompleted:
			effects = append(effects,
				Notice{
					ID:   NoticeID(it.Slug),
					Kind: NoticeSuccess,
					Text: fmt.Sprintf("%s is up to date.", it.Name),
				},
				RecordResult{Item: it, Result: StatusCompleted},
			)
			var more []Effect
			s, more = s.DismissOne(it.Slug)
			effects = append(effects, more...)
			s, more = s.Dequeue(curr)
			effects = append(effects, more...)
		}
	}

	return s, effects
}

// Observe snapshots the statuses of the candidate set, keyed by
// slug+type, for use as the prev argument of the next Reconcile call.
func Observe(items []Item) map[Key]Status {
	obs := make(map[Key]Status, len(items))
	for _, it := range items {
		obs[it.Key()] = it.Status
	}
	return obs
}
