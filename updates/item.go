package updates

// ItemType identifies which kind of site component an updatable item is.
type ItemType string

const (
	TypePlugin ItemType = "plugin"
	TypeTheme  ItemType = "theme"
	TypeCore   ItemType = "core"
)

// Status is the externally observed update status of an item.
type Status string

const (
	// StatusNone means no update has been started for the item.
	StatusNone       Status = ""
	StatusInProgress Status = "inProgress"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// FromError marks an item that was re-enqueued from a failed update's
// retry affordance.
const FromError = "_from_error"

// Item is one updatable component of a site: a plugin, a theme, or the
// core pseudo-item. Slug is unique across the whole candidate set of a
// site at any moment the sequencer inspects it.
type Item struct {
	Slug       string
	Type       ItemType
	Name       string
	Version    string
	NewVersion string
	Status     Status
	From       string
}

// Key identifies an item by slug and type. Queue de-duplication and
// reconciliation both work on keys, not on value identity.
type Key struct {
	Slug string
	Type ItemType
}

func (i Item) Key() Key {
	return Key{Slug: i.Slug, Type: i.Type}
}

func anyInProgress(items []Item) bool {
	for _, it := range items {
		if it.Status == StatusInProgress {
			return true
		}
	}
	return false
}
