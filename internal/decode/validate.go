package decode

import "github.com/proseflow/proseflow/internal/model"

// Valid reports whether a decoded candidate is structurally complete: a known
// kind and non-empty original and suggested literals. Anything else is
// dropped with no error surfaced upstream — losing a single proposal must
// never abort the stream.
func Valid(c model.Candidate) bool {
	return c.Kind.IsValid() && c.OriginalLiteral != "" && c.SuggestedLiteral != ""
}
