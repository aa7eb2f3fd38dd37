// Package decode turns an incremental stream of near-JSON model output into
// correction candidates. The stream is untrusted: records may be wrapped in
// code fences, interleaved with prose, split at arbitrary chunk boundaries,
// or malformed. Decoding is best-effort; a bad record never aborts the stream.
package decode

import (
	"bytes"
	"encoding/json"

	"github.com/proseflow/proseflow/internal/model"
)

// Decoder is a resumable candidate scanner. Unconsumed input persists across
// Feed calls, so chunk boundaries never need to align with record boundaries.
type Decoder struct {
	buf []byte
}

// NewDecoder creates a new decoder
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends a chunk of model output and returns the candidates completed
// by it, in stream order. Structurally incomplete records are dropped
// silently; unparseable brace runs are recovered by resuming the scan one
// byte past the opening brace.
func (d *Decoder) Feed(chunk string) []model.Candidate {
	d.buf = append(d.buf, chunk...)

	var out []model.Candidate
	for {
		// SCANNING: skip to the next record start. Fencing and prose
		// around records carry no '{' and are discarded here.
		open := bytes.IndexByte(d.buf, '{')
		if open < 0 {
			d.buf = d.buf[:0]
			return out
		}

		end, ok := balancedEnd(d.buf, open)
		if !ok {
			// Partial record: keep it buffered for the next chunk
			d.buf = append(d.buf[:0:0], d.buf[open:]...)
			return out
		}

		var c model.Candidate
		if err := json.Unmarshal(d.buf[open:end+1], &c); err != nil {
			// Spurious brace: advance exactly one byte past it and rescan.
			// Copy rather than re-slice so the consumed prefix's backing
			// array is not pinned for the decoder's lifetime.
			d.buf = append(d.buf[:0:0], d.buf[open+1:]...)
			continue
		}

		d.buf = d.buf[end+1:]
		if Valid(c) {
			out = append(out, c)
		}
	}
}

// Pending returns the number of buffered bytes awaiting a record close
func (d *Decoder) Pending() int {
	return len(d.buf)
}

// Reset discards all buffered input
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
}

// balancedEnd walks buf from the opening brace at open and returns the index
// of the brace that balances it. Braces inside quoted strings are never
// counted; backslash escapes (including \") are honored.
func balancedEnd(buf []byte, open int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := open; i < len(buf); i++ {
		c := buf[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}

	return 0, false
}
