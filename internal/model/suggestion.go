package model

// Kind classifies a suggestion by the style concern it addresses
type Kind string

const (
	KindSpelling     Kind = "spelling"
	KindGrammar      Kind = "grammar"
	KindPassiveVoice Kind = "passive-voice"
	KindConciseness  Kind = "conciseness"
	KindClarity      Kind = "clarity"
	KindTone         Kind = "tone"
	KindCallToAction Kind = "call-to-action"
)

// kindRank is the fixed rendering priority: lower wins when ranges overlap
var kindRank = map[Kind]int{
	KindSpelling:     0,
	KindGrammar:      1,
	KindPassiveVoice: 2,
	KindConciseness:  3,
	KindClarity:      4,
	KindTone:         5,
	KindCallToAction: 6,
}

// Priority returns the numeric rendering priority of the kind (lower wins)
func (k Kind) Priority() int {
	if p, ok := kindRank[k]; ok {
		return p
	}
	return len(kindRank)
}

// IsValid reports whether the kind is one of the known classifications
func (k Kind) IsValid() bool {
	_, ok := kindRank[k]
	return ok
}

// Candidate is an unresolved, untrusted proposal decoded from the model stream.
// It may be structurally incomplete or reference text no longer present.
type Candidate struct {
	Kind             Kind   `json:"type"`
	OriginalLiteral  string `json:"originalText"`
	SuggestedLiteral string `json:"suggestedText"`
	Explanation      string `json:"explanation,omitempty"`
}

// Suggestion is a candidate anchored to a concrete [Start, End) byte range in
// the canonical text. Invariant at resolution time:
// 0 <= Start < End <= len(text) and text[Start:End] == OriginalLiteral.
type Suggestion struct {
	ID               string `json:"id"`
	Start            int    `json:"start"`
	End              int    `json:"end"`
	Kind             Kind   `json:"kind"`
	OriginalLiteral  string `json:"originalText"`
	SuggestedLiteral string `json:"suggestedText"`
	Explanation      string `json:"explanation,omitempty"`
	Priority         int    `json:"priority"`
}

// AnalysisLevel selects how broad an analysis pass is
type AnalysisLevel string

const (
	LevelSpelling AnalysisLevel = "spelling"
	LevelFull     AnalysisLevel = "full"
)

// IsValid reports whether the level is one of the supported depths
func (l AnalysisLevel) IsValid() bool {
	return l == LevelSpelling || l == LevelFull
}

// Span is the wire representation of a suggestion's range
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// WireSuggestion is the response-body shape streamed to clients,
// one JSON object per line
type WireSuggestion struct {
	ID            string  `json:"id"`
	Type          Kind    `json:"type"`
	Span          Span    `json:"span"`
	OriginalText  string  `json:"originalText"`
	SuggestedText string  `json:"suggestedText"`
	Description   string  `json:"description,omitempty"`
	Confidence    float64 `json:"confidence"`
	Icon          string  `json:"icon"`
	Title         string  `json:"title"`
}

// kindMeta carries the fixed presentation metadata per kind
type kindMeta struct {
	Icon       string
	Title      string
	Confidence float64
}

var kindPresentation = map[Kind]kindMeta{
	KindSpelling:     {Icon: "spell-check", Title: "Spelling", Confidence: 0.98},
	KindGrammar:      {Icon: "grammar", Title: "Grammar", Confidence: 0.90},
	KindPassiveVoice: {Icon: "passive", Title: "Passive voice", Confidence: 0.80},
	KindConciseness:  {Icon: "concise", Title: "Conciseness", Confidence: 0.75},
	KindClarity:      {Icon: "clarity", Title: "Clarity", Confidence: 0.70},
	KindTone:         {Icon: "tone", Title: "Tone", Confidence: 0.65},
	KindCallToAction: {Icon: "cta", Title: "Call to action", Confidence: 0.60},
}

// ToWire converts a resolved suggestion into its response-body shape
func (s Suggestion) ToWire() WireSuggestion {
	meta := kindPresentation[s.Kind]
	return WireSuggestion{
		ID:   s.ID,
		Type: s.Kind,
		Span: Span{
			Start: s.Start,
			End:   s.End,
			Text:  s.OriginalLiteral,
		},
		OriginalText:  s.OriginalLiteral,
		SuggestedText: s.SuggestedLiteral,
		Description:   s.Explanation,
		Confidence:    meta.Confidence,
		Icon:          meta.Icon,
		Title:         meta.Title,
	}
}
