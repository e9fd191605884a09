package viewc

import (
	"strings"
	"unicode/utf8"
)

// DefaultMacro is the macro name that marks markup blocks in host files.
const DefaultMacro = "view"

// Invocation is one macro invocation found in a host file: view! { ... }.
type Invocation struct {
	Start, End         int // byte range of the whole invocation
	BodyStart, BodyEnd int // byte range between the delimiters
	Pos                Position
	BodyPos            Position
}

// Body returns the markup text of the invocation.
func (inv Invocation) Body(src string) string {
	return src[inv.BodyStart:inv.BodyEnd]
}

// Block is one expanded invocation.
type Block struct {
	Invocation
	Markup *Markup
	Stats  Stats
}

// Expansion is the result of expanding every invocation in a host file.
type Expansion struct {
	Output string
	Blocks []Block
}

// Stats sums the statistics of all blocks.
func (e *Expansion) Stats() Stats {
	var s Stats
	for _, b := range e.Blocks {
		s.Add(b.Stats)
	}
	return s
}

// Expander replaces markup macro invocations in host source files.
type Expander struct {
	Macro   string
	Options Options
}

// NewExpander creates an expander for the default macro name.
func NewExpander(opts Options) *Expander {
	return &Expander{Macro: DefaultMacro, Options: opts}
}

// Expand parses and lowers every invocation in src and substitutes the
// generated expressions at the call sites. The first failing block aborts
// the expansion; no partial output is returned.
func (x *Expander) Expand(filename, src string) (*Expansion, error) {
	invs, err := Scan(filename, src, x.Macro)
	if err != nil {
		return nil, err
	}

	gen := NewGenerator(x.Options.Target)
	style := x.Options.Style()

	var out strings.Builder
	exp := &Expansion{}
	prev := 0
	for _, inv := range invs {
		m, err := NewParser(NewLexerAt(inv.BodyPos, inv.Body(src))).ParseMarkup()
		if err != nil {
			return nil, err
		}

		style.Prefix = lineIndent(src, inv.Start)
		out.WriteString(src[prev:inv.Start])
		out.WriteString(Render(gen.Generate(m), style))
		prev = inv.End

		exp.Blocks = append(exp.Blocks, Block{Invocation: inv, Markup: m, Stats: m.Stats()})
	}
	out.WriteString(src[prev:])

	exp.Output = out.String()
	return exp, nil
}

// Scan finds every invocation of macro in src. Invocations inside comments
// and string, raw string or rune literals are ignored.
func Scan(filename, src, macro string) ([]Invocation, error) {
	s := &scanner{filename: filename, src: src}
	var invs []Invocation

	for s.pos < len(src) {
		if s.skipTrivia() {
			continue
		}

		ch := src[s.pos]
		if !isIdentByte(ch) || isDigit(rune(ch)) {
			s.pos++
			continue
		}

		start := s.pos
		for s.pos < len(src) && isIdentByte(src[s.pos]) {
			s.pos++
		}
		if src[start:s.pos] != macro || (start > 0 && src[start-1] == '.') {
			continue
		}

		inv, ok, err := s.invocation(start)
		if err != nil {
			return nil, err
		}
		if ok {
			invs = append(invs, inv)
			s.pos = inv.End
		}
	}
	return invs, nil
}

// scanner walks host source text.
type scanner struct {
	filename string
	src      string
	pos      int
}

// invocation parses "! <open> ... <close>" after a macro name at start.
func (s *scanner) invocation(start int) (Invocation, bool, error) {
	name := s.src[start:s.pos]
	i := skipSpaces(s.src, s.pos)
	if i >= len(s.src) || s.src[i] != '!' {
		return Invocation{}, false, nil
	}
	i = skipSpaces(s.src, i+1)
	if i >= len(s.src) || !strings.ContainsRune("{([", rune(s.src[i])) {
		return Invocation{}, false, nil
	}

	open := i
	s.pos = open + 1
	depth := 1
	for s.pos < len(s.src) {
		if s.skipTrivia() {
			continue
		}
		switch s.src[s.pos] {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		}
		s.pos++
		if depth == 0 {
			return Invocation{
				Start:     start,
				End:       s.pos,
				BodyStart: open + 1,
				BodyEnd:   s.pos - 1,
				Pos:       positionAt(s.filename, s.src, start),
				BodyPos:   positionAt(s.filename, s.src, open+1),
			}, true, nil
		}
	}

	pos := positionAt(s.filename, s.src, open)
	return Invocation{}, false, NewErrorWithHint(pos,
		"unclosed '"+s.src[open:open+1]+"' in "+name+"! invocation",
		"every markup block must be closed before end of file")
}

// skipTrivia skips a comment or literal at the current position and
// reports whether it did.
func (s *scanner) skipTrivia() bool {
	src := s.src
	i := s.pos
	switch {
	case strings.HasPrefix(src[i:], "//"):
		if j := strings.IndexByte(src[i:], '\n'); j >= 0 {
			s.pos = i + j
		} else {
			s.pos = len(src)
		}
	case strings.HasPrefix(src[i:], "/*"):
		if j := strings.Index(src[i+2:], "*/"); j >= 0 {
			s.pos = i + 2 + j + 2
		} else {
			s.pos = len(src)
		}
	case (src[i] == 'r' || src[i] == 'b') && (i == 0 || !isIdentByte(src[i-1])):
		end, ok, _ := rawStringEnd(src[i:])
		if !ok {
			return false
		}
		s.pos = i + end
	case src[i] == '"':
		s.pos = skipQuoted(src, i, '"')
	case src[i] == '`':
		if j := strings.IndexByte(src[i+1:], '`'); j >= 0 {
			s.pos = i + 1 + j + 1
		} else {
			s.pos = len(src)
		}
	case src[i] == '\'':
		s.pos = skipRuneOrLifetime(src, i)
	default:
		return false
	}
	return true
}

// skipQuoted returns the offset after the quoted literal starting at i.
func skipQuoted(src string, i int, quote byte) int {
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		}
	}
	return len(src)
}

// skipRuneOrLifetime skips a rune literal ('x', '\n', 'é') or, when the
// quote does not close one, just the quote of a lifetime or label ('a).
func skipRuneOrLifetime(src string, i int) int {
	if i+1 < len(src) && src[i+1] == '\\' {
		if j := strings.IndexByte(src[i+2:], '\''); j >= 0 && j <= 10 {
			return i + 2 + j + 1
		}
		return i + 1
	}
	_, size := utf8.DecodeRuneInString(src[i+1:])
	if end := i + 1 + size; size > 0 && end < len(src) && src[end] == '\'' {
		return end + 1
	}
	return i + 1
}

// skipSpaces returns the offset of the first non-whitespace byte at or after i.
func skipSpaces(src string, i int) int {
	for i < len(src) && strings.IndexByte(" \t\r\n", src[i]) >= 0 {
		i++
	}
	return i
}

func isIdentByte(ch byte) bool {
	return ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9'
}

// positionAt converts a byte offset into a file position.
func positionAt(filename, src string, offset int) Position {
	line := 1 + strings.Count(src[:offset], "\n")
	lineStart := strings.LastIndexByte(src[:offset], '\n') + 1
	return Position{
		File:   filename,
		Line:   line,
		Column: utf8.RuneCountInString(src[lineStart:offset]) + 1,
		Offset: offset,
	}
}

// lineIndent returns the leading whitespace of the line containing offset.
func lineIndent(src string, offset int) string {
	lineStart := strings.LastIndexByte(src[:offset], '\n') + 1
	end := lineStart
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return src[lineStart:end]
}
