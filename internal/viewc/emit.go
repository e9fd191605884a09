package viewc

import (
	"strings"
)

// Expression is the lowered, target-language form of a markup node.
// Implementations: *Raw, *Call, *Slice, *Chain.
type Expression interface {
	expression()
}

// Raw is target code emitted verbatim.
type Raw struct {
	Code string
}

// Call is a constructor call: Callee(Args) or, for macros, Callee![Args].
type Call struct {
	Callee string
	Macro  bool
	Args   []Expression

	// Collection marks a call built from a child collection; pretty
	// rendering puts each argument on its own line.
	Collection bool
}

// Slice is a typed collection literal: Type{Elems}.
type Slice struct {
	Type  string
	Elems []Expression
}

// Chain is a chained setter call: Recv.Method(Args).
type Chain struct {
	Recv   Expression
	Method string
	Args   []Expression
}

func (*Raw) expression()   {}
func (*Call) expression()  {}
func (*Slice) expression() {}
func (*Chain) expression() {}

// OutKind classifies output tokens.
type OutKind int

const (
	OutIdent OutKind = iota // callee paths, setter names, slice types
	OutPunct                // ( ) [ ] { } , . !
	OutRaw                  // verbatim expression code
)

// OutToken is one token of the generated expression.
type OutToken struct {
	Kind OutKind
	Text string
}

// Tokens flattens an expression into its ordered token sequence.
func Tokens(e Expression) []OutToken {
	var out []OutToken
	appendTokens(&out, e)
	return out
}

func appendTokens(out *[]OutToken, e Expression) {
	punct := func(s string) { *out = append(*out, OutToken{Kind: OutPunct, Text: s}) }
	list := func(items []Expression) {
		for i, item := range items {
			if i > 0 {
				punct(",")
			}
			appendTokens(out, item)
		}
	}

	switch e := e.(type) {
	case *Raw:
		*out = append(*out, OutToken{Kind: OutRaw, Text: e.Code})
	case *Call:
		*out = append(*out, OutToken{Kind: OutIdent, Text: e.Callee})
		open, closing := callDelims(e)
		if e.Macro {
			punct("!")
		}
		punct(open)
		list(e.Args)
		punct(closing)
	case *Slice:
		*out = append(*out, OutToken{Kind: OutIdent, Text: e.Type})
		punct("{")
		list(e.Elems)
		punct("}")
	case *Chain:
		appendTokens(out, e.Recv)
		punct(".")
		*out = append(*out, OutToken{Kind: OutIdent, Text: e.Method})
		punct("(")
		list(e.Args)
		punct(")")
	}
}

// callDelims returns the argument delimiters of a call.
func callDelims(c *Call) (string, string) {
	if c.Macro {
		return "[", "]"
	}
	return "(", ")"
}

// Style controls how an expression is rendered to text.
type Style struct {
	// Pretty puts each element of a child collection on its own line with
	// a trailing comma. Otherwise the expression is rendered on one line.
	Pretty bool
	// Indent is one level of indentation in pretty mode.
	Indent string
	// Prefix starts every line the renderer breaks, so the expression
	// lines up with the host line it is placed on. Line breaks inside
	// verbatim code are left alone.
	Prefix string
}

// Render renders an expression as source text.
func Render(e Expression, style Style) string {
	if style.Indent == "" {
		style.Indent = "    "
	}
	r := &renderer{style: style}
	r.expr(e)
	return r.buf.String()
}

// renderer writes expressions to text.
type renderer struct {
	style Style
	depth int
	buf   strings.Builder
}

func (r *renderer) expr(e Expression) {
	switch e := e.(type) {
	case *Raw:
		r.write(e.Code)
	case *Call:
		r.write(e.Callee)
		if e.Macro {
			r.write("!")
		}
		open, closing := callDelims(e)
		r.list(open, closing, e.Args, e.Collection)
	case *Slice:
		r.write(e.Type)
		r.list("{", "}", e.Elems, true)
	case *Chain:
		r.expr(e.Recv)
		r.write(".")
		r.write(e.Method)
		r.list("(", ")", e.Args, false)
	}
}

// list writes a delimited, comma-separated list. Collections are broken
// over several lines in pretty mode.
func (r *renderer) list(open, closing string, items []Expression, collection bool) {
	r.write(open)
	if collection && r.style.Pretty && len(items) > 0 {
		r.depth++
		for _, item := range items {
			r.newline()
			r.expr(item)
			r.write(",")
		}
		r.depth--
		r.newline()
		r.write(closing)
		return
	}
	for i, item := range items {
		if i > 0 {
			r.write(", ")
		}
		r.expr(item)
	}
	r.write(closing)
}

func (r *renderer) write(s string) {
	r.buf.WriteString(s)
}

func (r *renderer) newline() {
	r.buf.WriteByte('\n')
	r.buf.WriteString(r.style.Prefix)
	for i := 0; i < r.depth; i++ {
		r.buf.WriteString(r.style.Indent)
	}
}
