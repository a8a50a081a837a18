package scenario

// Equal reports whether two documents are structurally identical. Nil and empty
// collections compare equal so that a freshly decoded document matches one
// built in memory.
func Equal(a, b Document) bool {
	if len(a) != len(b) {
		return false
	}
	for id, ra := range a {
		rb, ok := b[id]
		if !ok {
			return false
		}
		if !RecordsEqual(ra, rb) {
			return false
		}
	}
	return true
}

// RecordsEqual compares two records field by field.
func RecordsEqual(a, b *Record) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Title != b.Title || a.Icon != b.Icon || a.Story != b.Story ||
		a.ImmediateText != b.ImmediateText || a.DelayedText != b.DelayedText {
		return false
	}
	if len(a.Advisors) != len(b.Advisors) || len(a.ActionCards) != len(b.ActionCards) {
		return false
	}
	for i := range a.Advisors {
		if a.Advisors[i] != b.Advisors[i] {
			return false
		}
	}
	for i := range a.ActionCards {
		if a.ActionCards[i] != b.ActionCards[i] {
			return false
		}
	}
	return true
}
