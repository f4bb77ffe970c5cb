// Package eventstream decodes the gateway's raw binary stream framing: each
// frame carries headers and a JSON event payload, with no published structure.
// The payload reliably follows the content-type header value, so the scanner
// keys on that byte sequence and extracts the JSON object after it with a
// string-aware brace scan. The marker is swappable in case the framing turns
// out to differ on another gateway.
package eventstream

import "bytes"

// DefaultMarker is the byte sequence observed immediately before each
// embedded JSON payload.
var DefaultMarker = []byte("application/json")

// Scanner accumulates raw stream bytes and yields complete embedded JSON
// payloads one at a time. Feed with Write, drain with Next. Incomplete
// trailing data stays buffered until more bytes arrive. Not safe for
// concurrent use; each stream owns its scanner.
type Scanner struct {
	marker []byte
	buf    []byte
}

func NewScanner() *Scanner {
	return NewScannerWithMarker(DefaultMarker)
}

func NewScannerWithMarker(marker []byte) *Scanner {
	m := make([]byte, len(marker))
	copy(m, marker)
	return &Scanner{marker: m}
}

// Write appends a chunk of raw stream bytes.
func (s *Scanner) Write(p []byte) {
	s.buf = append(s.buf, p...)
}

// Next returns the next complete embedded JSON object, or ok=false when the
// buffer holds no complete payload yet. Consumed bytes (through the closing
// brace) are discarded; the remainder is retained for the next call.
func (s *Scanner) Next() (payload []byte, ok bool) {
	idx := bytes.Index(s.buf, s.marker)
	if idx < 0 {
		// keep a marker-sized tail in case the marker itself is split
		// across chunks
		if keep := len(s.marker) - 1; len(s.buf) > keep {
			s.buf = s.buf[len(s.buf)-keep:]
		}
		return nil, false
	}

	rest := s.buf[idx+len(s.marker):]
	open := bytes.IndexByte(rest, '{')
	if open < 0 {
		// marker seen but its payload has not started arriving yet
		s.buf = s.buf[idx:]
		return nil, false
	}

	end := scanObject(rest[open:])
	if end < 0 {
		// partial object, keep everything from the marker on
		s.buf = s.buf[idx:]
		return nil, false
	}

	payload = rest[open : open+end]
	out := make([]byte, len(payload))
	copy(out, payload)
	s.buf = append([]byte(nil), rest[open+end:]...)
	return out, true
}

// scanObject returns the length of the JSON object starting at p[0] == '{',
// or -1 if the object is not yet complete. Quotes toggle string state unless
// escaped; braces count only outside strings.
func scanObject(p []byte) int {
	depth := 0
	inString := false
	escaped := false
	for i, c := range p {
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
				return i + 1
			}
		}
	}
	return -1
}
