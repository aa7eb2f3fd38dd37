// Package index maintains the live set of resolved suggestions as intervals
// over the canonical text. Entries are keyed by their start anchor; anchors
// are unique, but ranges may still overlap (overlaps are resolved by priority
// at render time, not at anchor time).
package index

import (
	"errors"
	"sort"

	"github.com/proseflow/proseflow/internal/model"
)

// ErrAnchorTaken is returned when inserting a suggestion whose start anchor
// is already claimed by another entry
var ErrAnchorTaken = errors.New("anchor position already claimed")

// Index is an ordered collection of suggestions keyed by start position
type Index struct {
	entries []model.Suggestion // sorted by Start
}

// New creates an empty index
func New() *Index {
	return &Index{}
}

// Insert adds a suggestion, preserving start order.
// Fails if the start anchor is already claimed.
func (ix *Index) Insert(s model.Suggestion) error {
	pos := sort.Search(len(ix.entries), func(i int) bool {
		return ix.entries[i].Start >= s.Start
	})
	if pos < len(ix.entries) && ix.entries[pos].Start == s.Start {
		return ErrAnchorTaken
	}

	ix.entries = append(ix.entries, model.Suggestion{})
	copy(ix.entries[pos+1:], ix.entries[pos:])
	ix.entries[pos] = s
	return nil
}

// Get returns the suggestion with the given id
func (ix *Index) Get(id string) (model.Suggestion, bool) {
	for _, s := range ix.entries {
		if s.ID == id {
			return s, true
		}
	}
	return model.Suggestion{}, false
}

// Remove deletes the suggestion with the given id
func (ix *Index) Remove(id string) bool {
	for i, s := range ix.entries {
		if s.ID == id {
			ix.entries = append(ix.entries[:i], ix.entries[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveRange evicts every suggestion whose range is fully contained in
// [lo, hi] and returns how many were removed
func (ix *Index) RemoveRange(lo, hi int) int {
	return ix.removeIf(func(s model.Suggestion) bool {
		return s.Start >= lo && s.End <= hi
	})
}

// RemoveOverlapping evicts every suggestion whose range intersects [lo, hi)
// and returns how many were removed. Used when an edit invalidates the text
// a suggestion was anchored to.
func (ix *Index) RemoveOverlapping(lo, hi int) int {
	return ix.removeIf(func(s model.Suggestion) bool {
		return s.Start < hi && s.End > lo
	})
}

func (ix *Index) removeIf(drop func(model.Suggestion) bool) int {
	kept := ix.entries[:0]
	removed := 0
	for _, s := range ix.entries {
		if drop(s) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	ix.entries = kept
	return removed
}

// Shift moves both bounds of every suggestion with Start > after by delta.
// Start order is preserved because all shifted entries move together.
func (ix *Index) Shift(after, delta int) {
	for i := range ix.entries {
		if ix.entries[i].Start > after {
			ix.entries[i].Start += delta
			ix.entries[i].End += delta
		}
	}
}

// All returns a copy of the entries in start order
func (ix *Index) All() []model.Suggestion {
	out := make([]model.Suggestion, len(ix.entries))
	copy(out, ix.entries)
	return out
}

// Replace swaps the whole entry set, used when a new analysis pass supersedes
// the previous suggestions or when undo restores an earlier set
func (ix *Index) Replace(suggestions []model.Suggestion) {
	ix.entries = make([]model.Suggestion, len(suggestions))
	copy(ix.entries, suggestions)
	sort.Slice(ix.entries, func(i, j int) bool {
		return ix.entries[i].Start < ix.entries[j].Start
	})
}

// Len returns the number of active suggestions
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Clear removes all suggestions
func (ix *Index) Clear() {
	ix.entries = nil
}
