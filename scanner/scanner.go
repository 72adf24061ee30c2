// Package scanner provides literal- and comment-aware scanning of
// generated Java source. It tracks double-quoted strings, single-quoted
// character literals, escape sequences, and line and block comments, so
// brace counting never sees a brace that is not code.
package scanner

// closingKind tracks which kind of span was just closed.
type closingKind byte

const (
	noClosing     closingKind = iota
	closingDouble             // just closed a "..." string
	closingSingle             // just closed a '...' literal
	closingBlock              // just closed a /* ... */ comment
)

// CodeScanner iterates byte-by-byte over source text, tracking literal and
// comment boundaries. Callers check InCode() instead of maintaining their
// own inString/inComment/escaped flags.
//
// InString() and InComment() are true for the whole span including the
// opening and closing delimiters.
type CodeScanner struct {
	src        string
	pos        int
	inDbl      bool
	inSgl      bool
	inLine     bool
	inBlock    bool
	blockStart int
	escaped    bool
	closing    closingKind // set when a closing delimiter is processed
}

// New creates a CodeScanner for the given source text.
// Call Next() to advance to the first byte.
func New(src string) *CodeScanner {
	return &CodeScanner{src: src, pos: -1}
}

// Next advances to the next byte, updating literal/comment state.
// Returns the byte and true, or (0, false) at end of input.
func (s *CodeScanner) Next() (byte, bool) {
	s.closing = noClosing
	s.pos++
	if s.pos >= len(s.src) {
		return 0, false
	}
	ch := s.src[s.pos]

	switch {
	case s.inLine:
		// the newline ends the comment and is not part of it
		if ch == '\n' {
			s.inLine = false
		}
		return ch, true
	case s.inBlock:
		if ch == '/' && s.pos-1 > s.blockStart+1 && s.src[s.pos-1] == '*' {
			s.inBlock = false
			s.closing = closingBlock
		}
		return ch, true
	}

	if s.escaped {
		s.escaped = false
		return ch, true
	}
	if ch == '\\' && (s.inDbl || s.inSgl) {
		s.escaped = true
		return ch, true
	}
	switch {
	case ch == '"' && !s.inSgl:
		if s.inDbl {
			s.closing = closingDouble
		}
		s.inDbl = !s.inDbl
	case ch == '\'' && !s.inDbl:
		if s.inSgl {
			s.closing = closingSingle
		}
		s.inSgl = !s.inSgl
	case ch == '/' && !s.inDbl && !s.inSgl:
		if next, ok := s.Peek(); ok {
			switch next {
			case '/':
				s.inLine = true
			case '*':
				s.inBlock = true
				s.blockStart = s.pos
			}
		}
	}

	return ch, true
}

// InString reports whether the current position is inside a string or
// character literal, including both delimiters.
func (s *CodeScanner) InString() bool {
	return s.inDbl || s.inSgl || s.closing == closingDouble || s.closing == closingSingle
}

// InComment reports whether the current position is inside a line or
// block comment.
func (s *CodeScanner) InComment() bool {
	return s.inLine || s.inBlock || s.closing == closingBlock
}

// InCode reports whether the current position is outside all literals
// and comments.
func (s *CodeScanner) InCode() bool { return !s.InString() && !s.InComment() }

// Peek returns the next byte without advancing, or (0, false) at end.
func (s *CodeScanner) Peek() (byte, bool) {
	if s.pos+1 >= len(s.src) {
		return 0, false
	}
	return s.src[s.pos+1], true
}

// LineDepths returns, for each line of src, the brace depth the line
// should be indented at: the depth at the start of the line less the
// closing braces that come before its first opening brace. Only braces in
// code count.
func LineDepths(src string) []int {
	var depths []int
	depth, start, lead, opened := 0, 0, 0, false
	flush := func() {
		d := start - lead
		if d < 0 {
			d = 0
		}
		depths = append(depths, d)
		start, lead, opened = depth, 0, false
	}
	sc := New(src)
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if ch == '\n' {
			flush()
			continue
		}
		if !sc.InCode() {
			continue
		}
		switch ch {
		case '{':
			depth++
			opened = true
		case '}':
			depth--
			if !opened {
				lead++
			}
		}
	}
	flush()
	return depths
}
