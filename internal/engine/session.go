// Package engine owns the canonical text buffer of an editing session and
// the transactions that mutate it. All suggestion-index mutation happens
// inside session methods, so text, index, and history stay mutually
// consistent; malformed upstream data can never corrupt the document.
package engine

import (
	"errors"
	"log/slog"

	"github.com/proseflow/proseflow/internal/history"
	"github.com/proseflow/proseflow/internal/index"
	"github.com/proseflow/proseflow/internal/model"
)

// Common errors for session operations.
var (
	ErrInvalidRange      = errors.New("edit range out of bounds")
	ErrUnknownSuggestion = errors.New("unknown suggestion id")
	ErrStaleAnalysis     = errors.New("analysis is stale: buffer version changed")
)

// Ticket tags an analysis with the buffer version it was issued against.
// Results carrying a ticket whose version no longer matches are discarded.
type Ticket struct {
	Version int
}

// Session is a single-editor editing session: the canonical text buffer, its
// version counter, the live suggestion index, and the undo/redo history.
type Session struct {
	text    string
	version int
	index   *index.Index
	hist    *history.History
	logger  *slog.Logger
}

// NewSession creates a session over the initial document text
func NewSession(text string, cfg model.EditorConfig, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		text:   text,
		index:  index.New(),
		hist:   history.New(text, cfg.DebounceDelay, cfg.MaxSnapshots),
		logger: logger,
	}
}

// Text returns a copy-on-read of the canonical text
func (s *Session) Text() string {
	return s.text
}

// Version returns the buffer version, incremented by every mutation
func (s *Session) Version() int {
	return s.version
}

// Suggestions returns the active suggestions in start order
func (s *Session) Suggestions() []model.Suggestion {
	return s.index.All()
}

// Segments returns priority-resolved render segments for the visible range
func (s *Session) Segments(lo, hi int) []index.Segment {
	return s.index.CoveringSegments(lo, hi)
}

// Edit splices replacement into [start, end) as a user edit. Suggestions
// overlapping the edited range are invalidated; later ones are shifted. The
// checkpoint is debounced so a typing burst coalesces into one undo step.
func (s *Session) Edit(start, end int, replacement string) error {
	if start < 0 || end < start || end > len(s.text) {
		return ErrInvalidRange
	}

	s.text = s.text[:start] + replacement + s.text[end:]
	s.version++

	delta := len(replacement) - (end - start)
	s.index.RemoveOverlapping(start, end)
	s.index.Shift(end-1, delta)

	s.hist.Record(s.text, s.index.All())
	return nil
}

// StartAnalysis issues a ticket for the current buffer version. Issuing a
// new ticket logically supersedes any in-flight analysis: the old ticket
// stops matching as soon as the buffer changes.
func (s *Session) StartAnalysis() Ticket {
	return Ticket{Version: s.version}
}

// BeginPass clears the previous suggestion set in preparation for adopting a
// new analysis pass. No-op for a stale ticket.
func (s *Session) BeginPass(t Ticket) error {
	if t.Version != s.version {
		return ErrStaleAnalysis
	}
	s.index.Clear()
	s.hist.SyncSuggestions(nil)
	return nil
}

// Adopt inserts one resolved suggestion from the analysis stream. Stale
// results are discarded; anchor collisions are dropped and logged, never
// surfaced as errors.
func (s *Session) Adopt(t Ticket, sug model.Suggestion) error {
	if t.Version != s.version {
		return ErrStaleAnalysis
	}

	if err := s.index.Insert(sug); err != nil {
		s.logger.Warn("dropping suggestion", "id", sug.ID, "start", sug.Start, "err", err)
		return nil
	}
	s.hist.SyncSuggestions(s.index.All())
	return nil
}

// Dismiss removes a suggestion from the index. No text mutation, no history
// checkpoint, no version bump.
func (s *Session) Dismiss(id string) error {
	if !s.index.Remove(id) {
		return ErrUnknownSuggestion
	}
	s.hist.SyncSuggestions(s.index.All())
	return nil
}

// Undo restores the previous checkpoint: text and suggestion set together
func (s *Session) Undo() error {
	snap, err := s.hist.Undo()
	if err != nil {
		return err
	}
	s.restore(snap)
	return nil
}

// Redo restores the next checkpoint: text and suggestion set together
func (s *Session) Redo() error {
	snap, err := s.hist.Redo()
	if err != nil {
		return err
	}
	s.restore(snap)
	return nil
}

// CanUndo reports whether an undo step is available
func (s *Session) CanUndo() bool {
	return s.hist.CanUndo()
}

// CanRedo reports whether a redo step is available
func (s *Session) CanRedo() bool {
	return s.hist.CanRedo()
}

// Close cancels any pending debounced checkpoint
func (s *Session) Close() {
	s.hist.Stop()
}

func (s *Session) restore(snap history.Snapshot) {
	s.text = snap.Text
	s.version++
	s.index.Replace(snap.Suggestions)
}
