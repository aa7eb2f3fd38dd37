// Package history keeps a debounced snapshot stack over the canonical text
// with linear undo/redo semantics. A burst of keystrokes coalesces into one
// checkpoint; accepting a suggestion checkpoints immediately.
package history

import (
	"errors"
	"sync"
	"time"

	"github.com/proseflow/proseflow/internal/model"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Snapshot is one checkpoint of the editing session. The suggestion set is
// captured alongside the text so undo restores both together.
type Snapshot struct {
	Text        string
	Suggestions []model.Suggestion
	Timestamp   time.Time
}

// History is a linear snapshot stack with a cursor. The cursor's snapshot
// always equals the session state as last synchronized.
type History struct {
	mu sync.Mutex

	snapshots []Snapshot
	cursor    int

	debounce   time.Duration
	maxEntries int

	timer   *time.Timer
	pending *Snapshot
}

// New creates a history seeded with the initial session state
func New(initialText string, debounce time.Duration, maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	return &History{
		snapshots: []Snapshot{{
			Text:      initialText,
			Timestamp: time.Now(),
		}},
		debounce:   debounce,
		maxEntries: maxEntries,
	}
}

// Record schedules a debounced checkpoint. Repeated calls within the
// debounce window coalesce; only the latest state is committed when input
// activity pauses.
func (h *History) Record(text string, suggestions []model.Suggestion) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// A fresh edit invalidates the redo branch immediately, not when the
	// debounce fires; redo must never revert input typed after an undo
	if h.snapshots[h.cursor].Text != text {
		h.snapshots = h.snapshots[:h.cursor+1]
	}

	h.pending = &Snapshot{
		Text:        text,
		Suggestions: copySuggestions(suggestions),
		Timestamp:   time.Now(),
	}

	if h.timer != nil {
		h.timer.Stop()
	}
	h.timer = time.AfterFunc(h.debounce, h.commitPending)
}

// RecordNow commits a checkpoint immediately, bypassing the debounce.
// Any pending debounced checkpoint is discarded in its favor.
func (h *History) RecordNow(text string, suggestions []model.Suggestion) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dropPendingLocked()
	h.commitLocked(Snapshot{
		Text:        text,
		Suggestions: copySuggestions(suggestions),
		Timestamp:   time.Now(),
	})
}

// Flush commits any pending debounced checkpoint without waiting out the
// debounce window
func (h *History) Flush() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pending == nil {
		return
	}
	snap := *h.pending
	h.dropPendingLocked()
	h.commitLocked(snap)
}

// Undo moves the cursor back and returns the snapshot at the new cursor.
// A pending debounced checkpoint is committed first so the in-flight burst
// becomes the undo target rather than being lost.
func (h *History) Undo() (Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pending != nil {
		snap := *h.pending
		h.dropPendingLocked()
		h.commitLocked(snap)
	}

	if h.cursor == 0 {
		return Snapshot{}, ErrNothingToUndo
	}
	h.cursor--
	return h.snapshots[h.cursor], nil
}

// Redo moves the cursor forward and returns the snapshot at the new cursor
func (h *History) Redo() (Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor >= len(h.snapshots)-1 {
		return Snapshot{}, ErrNothingToRedo
	}
	h.cursor++
	return h.snapshots[h.cursor], nil
}

// CanUndo returns true if undo is available
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor > 0
}

// CanRedo returns true if redo is available
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor < len(h.snapshots)-1
}

// Len returns the number of committed snapshots
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.snapshots)
}

// Current returns the snapshot at the cursor
func (h *History) Current() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshots[h.cursor]
}

// SyncSuggestions updates the cursor snapshot's suggestion set in place.
// Called when the suggestion set changes without a text mutation (a new
// analysis pass or a dismissal), so undo restores the set as of the moment
// just before the next text change.
func (h *History) SyncSuggestions(suggestions []model.Suggestion) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snapshots[h.cursor].Suggestions = copySuggestions(suggestions)
}

// Stop cancels any pending debounced checkpoint without committing it
func (h *History) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropPendingLocked()
}

// commitPending is the debounce timer callback
func (h *History) commitPending() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pending == nil {
		return
	}
	snap := *h.pending
	h.pending = nil
	h.timer = nil
	h.commitLocked(snap)
}

// commitLocked appends a snapshot at the cursor, truncating the redo branch.
// Recording the state already at the cursor is a no-op.
func (h *History) commitLocked(snap Snapshot) {
	if h.snapshots[h.cursor].Text == snap.Text {
		return
	}

	h.snapshots = append(h.snapshots[:h.cursor+1], snap)
	h.cursor = len(h.snapshots) - 1

	if len(h.snapshots) > h.maxEntries {
		excess := len(h.snapshots) - h.maxEntries
		h.snapshots = h.snapshots[excess:]
		h.cursor -= excess
	}
}

func (h *History) dropPendingLocked() {
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.pending = nil
}

func copySuggestions(in []model.Suggestion) []model.Suggestion {
	if in == nil {
		return nil
	}
	out := make([]model.Suggestion, len(in))
	copy(out, in)
	return out
}
