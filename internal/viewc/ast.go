package viewc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Node is the interface implemented by the three kinds of markup node:
// *WidgetCall, *ComponentCall and *Expr. The set is closed.
type Node interface {
	node()         // marker method to ensure type safety
	Pos() Position // returns the source position of the node
}

// Markup is the result of parsing one markup block. It always has a root.
type Markup struct {
	Root Node
}

// WidgetCall represents a toolkit widget: name(args) ![attrs] { children }
type WidgetCall struct {
	Name       string
	Args       []*Expr
	Attributes []*Attribute
	Children   []Node
	Position   Position
}

func (w *WidgetCall) node()         {}
func (w *WidgetCall) Pos() Position { return w.Position }

// ComponentCall represents a user-defined component invoked like a widget:
// Counter(5) ![step: 2] {}, crate::ui::card { ... }
type ComponentCall struct {
	Path       string // exactly as written, separators included
	Args       []*Expr
	Attributes []*Attribute
	Children   []Node
	Position   Position
}

func (c *ComponentCall) node()         {}
func (c *ComponentCall) Pos() Position { return c.Position }

// Expr is a raw expression. As a child it is an expression child; it is also
// the value type of arguments and attributes.
type Expr struct {
	Code     string // exact source text
	Position Position
}

func (e *Expr) node()         {}
func (e *Expr) Pos() Position { return e.Position }

// Attribute is one name: value pair from an attribute list.
type Attribute struct {
	Name     string
	Value    *Expr
	Position Position
}

// IsComponentPath reports whether a callee path names a component rather
// than a toolkit widget. Multi-segment paths (crate::ui::card, self.header)
// and names starting with an upper-case letter (Counter) are components.
func IsComponentPath(path string) bool {
	if strings.Contains(path, "::") || strings.Contains(path, ".") {
		return true
	}
	r, _ := utf8.DecodeRuneInString(path)
	return unicode.IsUpper(r)
}

// keywords start expressions, never calls: unsafe { x } and loop { ... }
// are expression children even though they look like a name and a block.
// Path roots such as self, super and crate are not listed.
var keywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "dyn": true, "else": true, "enum": true, "extern": true,
	"fn": true, "for": true, "if": true, "impl": true, "in": true,
	"let": true, "loop": true, "match": true, "mod": true, "move": true,
	"mut": true, "pub": true, "ref": true, "return": true, "static": true,
	"struct": true, "trait": true, "type": true, "unsafe": true, "use": true,
	"where": true, "while": true, "yield": true,

	"case": true, "chan": true, "defer": true, "func": true, "go": true,
	"range": true, "select": true, "switch": true, "var": true,
}

// IsKeyword reports whether name is a reserved word of a target language.
func IsKeyword(name string) bool {
	return keywords[name]
}

// callParts returns the shared call shape of a widget or component call.
func callParts(n Node) (args []*Expr, attrs []*Attribute, children []Node, ok bool) {
	switch n := n.(type) {
	case *WidgetCall:
		return n.Args, n.Attributes, n.Children, true
	case *ComponentCall:
		return n.Args, n.Attributes, n.Children, true
	}
	return nil, nil, nil, false
}

// Walk visits n and its descendants depth-first in declaration order.
// depth is 0 for n. Returning false from fn skips the node's children.
func Walk(n Node, fn func(n Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	_, _, children, _ := callParts(n)
	for _, child := range children {
		walk(child, depth+1, fn)
	}
}

// Stats summarizes the shape of a markup tree.
type Stats struct {
	Widgets     int
	Components  int
	Expressions int // expression children
	Attributes  int
	Depth       int // nesting depth, 1 for a lone root
}

// Nodes returns the total number of nodes.
func (s Stats) Nodes() int {
	return s.Widgets + s.Components + s.Expressions
}

// Add accumulates other into s; depth keeps the maximum.
func (s *Stats) Add(other Stats) {
	s.Widgets += other.Widgets
	s.Components += other.Components
	s.Expressions += other.Expressions
	s.Attributes += other.Attributes
	s.Depth = max(s.Depth, other.Depth)
}

// Stats computes node statistics for the markup tree.
func (m *Markup) Stats() Stats {
	var s Stats
	Walk(m.Root, func(n Node, depth int) bool {
		s.Depth = max(s.Depth, depth+1)
		switch n := n.(type) {
		case *WidgetCall:
			s.Widgets++
			s.Attributes += len(n.Attributes)
		case *ComponentCall:
			s.Components++
			s.Attributes += len(n.Attributes)
		case *Expr:
			s.Expressions++
		}
		return true
	})
	return s
}
