package formatter

import (
	"strings"

	"github.com/grindlemire/viewc/internal/viewc"
)

// Default layout settings.
const (
	DefaultIndent   = "    "
	DefaultMaxWidth = 100
)

// Formatter formats markup blocks.
type Formatter struct {
	// IndentString is one nesting level.
	IndentString string
	// MaxWidth is the line width a block may use before its children are
	// broken onto separate lines.
	MaxWidth int
	// Macro is the name of the invocations rewritten by Source.
	Macro string
}

// New creates a formatter with the default settings.
func New() *Formatter {
	return &Formatter{
		IndentString: DefaultIndent,
		MaxWidth:     DefaultMaxWidth,
		Macro:        viewc.DefaultMacro,
	}
}

// Result describes one formatted file.
type Result struct {
	Output  string
	Changed bool
	Blocks  int
	// Skipped counts blocks left as written because a comment sits between
	// nodes, where the printer has nowhere to keep it.
	Skipped int
}

// Block formats one standalone markup block.
func (f *Formatter) Block(filename, source string) (string, error) {
	m, err := viewc.Parse(filename, source)
	if err != nil {
		return "", err
	}
	return newPrinter(f.IndentString, f.MaxWidth, "").PrintMarkup(m), nil
}

// Source formats every macro invocation in a host file. A block that fails
// to parse aborts the file.
func (f *Formatter) Source(filename, src string) (*Result, error) {
	invs, err := viewc.Scan(filename, src, f.Macro)
	if err != nil {
		return nil, err
	}

	res := &Result{Blocks: len(invs)}
	var out strings.Builder
	prev := 0
	for _, inv := range invs {
		body := inv.Body(src)
		m, err := viewc.NewParser(viewc.NewLexerAt(inv.BodyPos, body)).ParseMarkup()
		if err != nil {
			return nil, err
		}

		out.WriteString(src[prev:inv.BodyStart])
		prev = inv.BodyEnd

		if hasLooseComments(m, body, inv.BodyPos.Offset) {
			res.Skipped++
			out.WriteString(body)
			continue
		}
		out.WriteString(f.body(m, lineIndent(src, inv.Start)))
	}
	out.WriteString(src[prev:])

	res.Output = out.String()
	res.Changed = res.Output != src
	return res, nil
}

// body renders the text between an invocation's delimiters. A single-line
// tree sits between spaces; anything longer starts on its own line one
// level deeper than the invocation.
func (f *Formatter) body(m *viewc.Markup, outer string) string {
	inner := outer + f.IndentString
	code := newPrinter(f.IndentString, f.MaxWidth, inner).PrintMarkup(m)
	if !strings.Contains(code, "\n") {
		return " " + code + " "
	}
	return "\n" + inner + code + "\n" + outer
}

// hasLooseComments reports whether body holds a comment outside every
// expression. Comments inside expression code survive formatting; others
// would be dropped.
func hasLooseComments(m *viewc.Markup, body string, origin int) bool {
	if !strings.Contains(body, "//") && !strings.Contains(body, "/*") {
		return false
	}

	toks, err := viewc.NewLexer("", body).Tokenize()
	if err != nil {
		return false
	}

	spans := exprSpans(m, origin)
	prev := 0
	for _, tok := range toks {
		gap := body[prev:tok.Start]
		prev = tok.End
		if strings.TrimSpace(gap) == "" {
			continue
		}
		if !covered(spans, tok.Start-len(gap), tok.Start) {
			return true
		}
	}
	return false
}

type span struct{ start, end int }

// exprSpans collects the block-relative byte ranges of every expression.
func exprSpans(m *viewc.Markup, origin int) []span {
	var spans []span
	add := func(e *viewc.Expr) {
		start := e.Position.Offset - origin
		spans = append(spans, span{start, start + len(e.Code)})
	}
	viewc.Walk(m.Root, func(n viewc.Node, _ int) bool {
		if e, ok := n.(*viewc.Expr); ok {
			add(e)
			return true
		}
		args, attrs, _ := parts(n)
		for _, a := range args {
			add(a)
		}
		for _, a := range attrs {
			add(a.Value)
		}
		return true
	})
	return spans
}

func covered(spans []span, start, end int) bool {
	for _, s := range spans {
		if start >= s.start && end <= s.end {
			return true
		}
	}
	return false
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
