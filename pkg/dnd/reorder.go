package dnd

// Reorder returns a copy of items with dragged moved to target.
//
// target is a slot in the list as the caller sees it, dragged included: when
// dragged already sits before target, the slot shifts down by one once it is
// taken out. Any existing occurrence of dragged is removed, target is clamped
// to [0, len(rest)] and dragged inserted there. The relative order of the
// other items never changes. The input slice is not modified.
func Reorder(items []Item, dragged Item, target int) []Item {
	out := make([]Item, 0, len(items)+1)
	for i, it := range items {
		if it.ID != dragged.ID {
			out = append(out, it)
			continue
		}
		if i < target {
			target--
		}
	}

	if target < 0 {
		target = 0
	}
	if target > len(out) {
		target = len(out)
	}

	out = append(out, Item{})
	copy(out[target+1:], out[target:])
	out[target] = dragged
	return out
}
