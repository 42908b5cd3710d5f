package updates

import (
	"testing"
)

func plugin(slug string, status Status) Item {
	return Item{Slug: slug, Type: TypePlugin, Name: slug, Status: status}
}

func theme(slug string, status Status) Item {
	return Item{Slug: slug, Type: TypeTheme, Name: slug, Status: status}
}

func core(status Status) Item {
	return Item{Slug: "wordpress", Type: TypeCore, Name: "WordPress", Status: status}
}

func effectsOfType[T Effect](effects []Effect) []T {
	var out []T
	for _, e := range effects {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func TestEnqueueFIFOOrder(t *testing.T) {
	all := []Item{core(StatusInProgress), plugin("akismet", StatusNone), theme("twentytwenty", StatusNone)}

	// Core in progress keeps ContinueQueue from dispatching, so the
	// queue grows in pure enqueue order.
	s := NewState()
	s, _ = s.Enqueue(all, all[1], "")
	s, _ = s.Enqueue(all, all[2], "")
	s, _ = s.Enqueue(all, all[0], "")

	got := s.Queued()
	want := []string{"akismet", "twentytwenty", "wordpress"}
	if len(got) != len(want) {
		t.Fatalf("queue length = %d, want %d", len(got), len(want))
	}
	for i, slug := range want {
		if got[i].Slug != slug {
			t.Errorf("queued[%d] = %s, want %s", i, got[i].Slug, slug)
		}
	}

	// Dequeue removes exactly the head each time.
	s, _ = s.Dequeue(all)
	if s.QueueLen() != 2 || s.Queued()[0].Slug != "twentytwenty" {
		t.Errorf("after dequeue: len=%d head=%s, want len=2 head=twentytwenty", s.QueueLen(), s.Queued()[0].Slug)
	}
	s, _ = s.Dequeue(all)
	s, _ = s.Dequeue(all)
	if s.QueueLen() != 0 {
		t.Errorf("queue not empty after dequeuing everything: len=%d", s.QueueLen())
	}
}

func TestEnqueueDeduplicatesBySlugAndType(t *testing.T) {
	all := []Item{core(StatusInProgress), plugin("akismet", StatusNone)}

	s := NewState()
	s, _ = s.Enqueue(all, all[1], "")
	// Distinct value with the same slug+type must not queue twice.
	dup := plugin("akismet", StatusNone)
	dup.Name = "Akismet Anti-Spam"
	s, _ = s.Enqueue(all, dup, "")

	if s.QueueLen() != 1 {
		t.Fatalf("queue length = %d, want 1", s.QueueLen())
	}
}

func TestContinueQueueGlobalMutualExclusion(t *testing.T) {
	tests := []struct {
		name         string
		all          []Item
		wantDispatch bool
	}{
		{
			name:         "idle candidate set dispatches head",
			all:          []Item{core(StatusNone), plugin("akismet", StatusNone)},
			wantDispatch: true,
		},
		{
			name:         "queued item in progress blocks",
			all:          []Item{core(StatusNone), plugin("akismet", StatusInProgress)},
			wantDispatch: false,
		},
		{
			name: "unrelated item in progress blocks too",
			// jetpack is not queued, but its in-flight update still
			// holds the global slot.
			all:          []Item{core(StatusNone), plugin("akismet", StatusNone), plugin("jetpack", StatusInProgress)},
			wantDispatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.queued = []Item{plugin("akismet", StatusNone)}

			_, effects := s.ContinueQueue(tt.all)
			starts := effectsOfType[StartUpdate](effects)
			if tt.wantDispatch && len(starts) != 1 {
				t.Fatalf("expected one StartUpdate, got %d", len(starts))
			}
			if !tt.wantDispatch && len(starts) != 0 {
				t.Fatalf("expected no StartUpdate, got %d", len(starts))
			}
			if tt.wantDispatch && starts[0].Item.Slug != "akismet" {
				t.Errorf("dispatched %s, want akismet", starts[0].Item.Slug)
			}
		})
	}
}

func TestContinueQueueEmptyQueueIsNoop(t *testing.T) {
	s := NewState()
	next, effects := s.ContinueQueue([]Item{plugin("akismet", StatusNone)})
	if len(effects) != 0 {
		t.Errorf("expected no effects, got %d", len(effects))
	}
	if next.QueueLen() != 0 {
		t.Errorf("queue length changed: %d", next.QueueLen())
	}
}

func TestDispatchEffects(t *testing.T) {
	all := []Item{plugin("akismet", StatusNone)}

	s := NewState()
	_, effects := s.Enqueue(all, all[0], "")

	if got := len(effectsOfType[Track](effects)); got != 1 {
		t.Errorf("tracking events = %d, want 1", got)
	}
	notices := effectsOfType[Notice](effects)
	if len(notices) != 1 {
		t.Fatalf("notices = %d, want 1", len(notices))
	}
	if notices[0].ID != "alitemupdate-akismet" {
		t.Errorf("notice ID = %q, want alitemupdate-akismet", notices[0].ID)
	}
	if notices[0].Kind != NoticeInfo {
		t.Errorf("notice kind = %s, want info", notices[0].Kind)
	}
}

func TestDismissOne(t *testing.T) {
	s := NewState()
	s, effects := s.DismissOne("akismet")

	if !s.IsDismissed("akismet") {
		t.Error("akismet not dismissed")
	}
	if s.IsDismissed("jetpack") {
		t.Error("jetpack dismissed without being asked")
	}
	tracks := effectsOfType[Track](effects)
	if len(tracks) != 1 || tracks[0].Event != EventDismissOne {
		t.Errorf("tracks = %v, want single %s", tracks, EventDismissOne)
	}
}

func TestDismissAll(t *testing.T) {
	all := []Item{core(StatusNone), plugin("akismet", StatusNone), theme("twentytwenty", StatusNone)}

	s := NewState()
	s, effects := s.DismissAll(all)

	for _, it := range all {
		if !s.IsDismissed(it.Slug) {
			t.Errorf("%s not dismissed", it.Slug)
		}
	}
	tracks := effectsOfType[Track](effects)
	if len(tracks) != 1 || tracks[0].Event != EventDismissAll {
		t.Errorf("tracks = %v, want single %s", tracks, EventDismissAll)
	}
}

func TestDismissedItemStaysQueuedAndHidden(t *testing.T) {
	all := []Item{core(StatusInProgress), plugin("akismet", StatusNone)}

	s := NewState()
	s, _ = s.Enqueue(all, all[1], "")
	s, _ = s.DismissOne("akismet")

	if !s.IsQueued(all[1].Key()) {
		t.Error("dismissed item removed from queue")
	}
	for _, it := range s.Visible(all) {
		if it.Slug == "akismet" {
			t.Error("dismissed item still visible")
		}
	}

	// Once nothing is in flight the dismissed item still dispatches.
	idle := []Item{core(StatusNone), plugin("akismet", StatusNone)}
	_, effects := s.ContinueQueue(idle)
	starts := effectsOfType[StartUpdate](effects)
	if len(starts) != 1 || starts[0].Item.Slug != "akismet" {
		t.Fatalf("dismissed queued item did not dispatch: %v", effects)
	}
}

func TestUpdateAllOrderingAndSingleDispatch(t *testing.T) {
	all := []Item{
		plugin("akismet", StatusNone),
		theme("twentytwenty", StatusNone),
		core(StatusNone),
	}

	s := NewState()
	s, effects := s.UpdateAll(all)

	// Queue order is core, then plugins, then themes regardless of the
	// candidate set order.
	want := []string{"wordpress", "akismet", "twentytwenty"}
	got := s.Queued()
	if len(got) != len(want) {
		t.Fatalf("queue length = %d, want %d", len(got), len(want))
	}
	for i, slug := range want {
		if got[i].Slug != slug {
			t.Errorf("queued[%d] = %s, want %s", i, got[i].Slug, slug)
		}
	}

	// One update-all event, no per-item events, and only the head
	// dispatched.
	tracks := effectsOfType[Track](effects)
	var updateAll, updateOne int
	for _, tr := range tracks {
		switch tr.Event {
		case EventUpdateAll:
			updateAll++
		case EventUpdateOne:
			updateOne++
		}
	}
	if updateAll != 1 {
		t.Errorf("update-all events = %d, want 1", updateAll)
	}
	if updateOne != 1 {
		t.Errorf("update-one events = %d, want 1 (head dispatch only)", updateOne)
	}
	starts := effectsOfType[StartUpdate](effects)
	if len(starts) != 1 || starts[0].Item.Type != TypeCore {
		t.Fatalf("expected core to dispatch first, got %v", starts)
	}
}

func TestRetryAppendsToTail(t *testing.T) {
	all := []Item{
		core(StatusInProgress),
		plugin("pluginX", StatusNone),
		plugin("pluginY", StatusNone),
	}

	s := NewState()
	s, _ = s.Enqueue(all, all[2], "")
	s, _ = s.Enqueue(all, all[1], FromError)

	got := s.Queued()
	if len(got) != 2 {
		t.Fatalf("queue length = %d, want 2", len(got))
	}
	if got[0].Slug != "pluginY" || got[1].Slug != "pluginX" {
		t.Errorf("retry did not append to tail: %s, %s", got[0].Slug, got[1].Slug)
	}
	if got[1].From != FromError {
		t.Errorf("retried item From = %q, want %q", got[1].From, FromError)
	}
}

func TestOperationsDoNotMutateReceiver(t *testing.T) {
	all := []Item{plugin("akismet", StatusNone)}

	s := NewState()
	s, _ = s.Enqueue([]Item{core(StatusInProgress)}, all[0], "")

	before := s.Queued()
	s2, _ := s.Dequeue(all)
	s3, _ := s.DismissOne("akismet")
	_ = s2
	_ = s3

	after := s.Queued()
	if len(before) != len(after) || s.IsDismissed("akismet") {
		t.Error("operation mutated the input snapshot")
	}
}
