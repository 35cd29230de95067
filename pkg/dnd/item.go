package dnd

// NoItemID is the reserved ID of the "no item" sentinel.
const NoItemID = ""

// NoItem occupies the dragged slot while no drag is active.
var NoItem = Item{ID: NoItemID}

// Item is one draggable entry. ID must be unique among items shown in the
// view at the same time; Payload is opaque to this package.
type Item struct {
	ID      string `json:"id" yaml:"id"`
	Payload any    `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// IsNone reports whether it is the sentinel.
func (it Item) IsNone() bool {
	return it.ID == NoItemID
}

// ContainerID identifies a container. Only equality is meaningful.
type ContainerID int

// NoContainer means no container is the drop target.
const NoContainer ContainerID = -1

func sameItem(a, b Item) bool {
	return a.ID == b.ID
}

func sameOrder(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

func indexOf(items []Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// IDs returns the item IDs in order.
func IDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
