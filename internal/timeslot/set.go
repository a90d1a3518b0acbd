package timeslot

import (
	"iter"
	"slices"
)

// Set is an unordered collection of "HH:MM" slot strings.
type Set map[string]struct{}

// NewSet builds a Set from the given slots.
func NewSet(slots ...string) Set {
	s := make(Set, len(slots))
	for _, slot := range slots {
		s[slot] = struct{}{}
	}
	return s
}

// Add inserts every slot yielded by seq.
func (s Set) Add(seq iter.Seq[string]) {
	for slot := range seq {
		s[slot] = struct{}{}
	}
}

// Has reports whether slot is in the set.  A nil Set is empty.
func (s Set) Has(slot string) bool {
	_, ok := s[slot]
	return ok
}

// Len returns the number of slots in the set.
func (s Set) Len() int { return len(s) }

// Overlaps reports whether any slot yielded by seq is in the set.
func (s Set) Overlaps(seq iter.Seq[string]) bool {
	for slot := range seq {
		if s.Has(slot) {
			return true
		}
	}
	return false
}

// Sorted returns the slots in ascending time-of-day order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for slot := range s {
		out = append(out, slot)
	}
	slices.SortFunc(out, Compare)
	return out
}
