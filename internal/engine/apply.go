package engine

import "strings"

// Apply accepts a suggestion as one atomic transaction: splice the suggested
// literal into the buffer, evict every suggestion overlapping the replaced
// range, shift the suggestions after it, and checkpoint immediately.
//
// Suggestions that only partially overlap the applied range are evicted
// along with the fully contained ones: their anchored literal no longer
// matches the buffer, so leaving them would render stale proposals.
func (s *Session) Apply(id string) error {
	sug, ok := s.index.Get(id)
	if !ok {
		return ErrUnknownSuggestion
	}

	replacement := preserveEdgeSpaces(sug.OriginalLiteral, sug.SuggestedLiteral)

	s.text = s.text[:sug.Start] + replacement + s.text[sug.End:]
	s.version++

	delta := len(replacement) - (sug.End - sug.Start)
	s.index.RemoveOverlapping(sug.Start, sug.End)
	s.index.Shift(sug.End, delta)

	// A discrete, user-intentional action: checkpoint bypasses the debounce
	s.hist.RecordNow(s.text, s.index.All())
	return nil
}

// preserveEdgeSpaces re-inserts a leading or trailing space the model's
// replacement dropped, so applying a suggestion never merges adjacent words
func preserveEdgeSpaces(original, suggested string) string {
	if strings.HasPrefix(original, " ") && !strings.HasPrefix(suggested, " ") {
		suggested = " " + suggested
	}
	if strings.HasSuffix(original, " ") && !strings.HasSuffix(suggested, " ") {
		suggested = suggested + " "
	}
	return suggested
}
