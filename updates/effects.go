package updates

// NoticeID returns the notice identifier for an item. The same ID is
// reused for info, error and success notices so a later notice replaces
// an earlier one for the same item.
func NoticeID(slug string) string {
	return "alitemupdate-" + slug
}

// NoticeKind classifies a notice effect.
type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeError   NoticeKind = "error"
	NoticeSuccess NoticeKind = "success"
)

// Effect is a side effect requested by a sequencer operation. Operations
// never perform side effects themselves; the caller interprets the
// returned effects (dispatching HTTP requests, showing notices,
// recording analytics events).
type Effect interface {
	effect()
}

// StartUpdate asks the caller to begin the update of Item via the
// transport appropriate for its type.
type StartUpdate struct {
	Item Item
}

// Notice asks the caller to show (or replace) a notice. Retry is set on
// error notices and carries the item to re-enqueue when the user picks
// the "Try again" affordance.
type Notice struct {
	ID    string
	Kind  NoticeKind
	Text  string
	Retry *Item
}

// Track asks the caller to record an analytics event.
type Track struct {
	Event string
	Props map[string]string
}

// RecordResult asks the caller to append a terminal update outcome to
// the history log. Message carries failure detail when the dispatch
// itself failed; status-poll failures have none.
type RecordResult struct {
	Item    Item
	Result  Status
	Message string
}

func (StartUpdate) effect()  {}
func (Notice) effect()       {}
func (Track) effect()        {}
func (RecordResult) effect() {}
