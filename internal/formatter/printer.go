package formatter

import (
	"strings"

	"github.com/grindlemire/viewc/internal/viewc"
)

// printer generates canonical markup source from a tree.
type printer struct {
	indent   string
	maxWidth int
	prefix   string // written before the indentation of every new line
	depth    int
	buf      strings.Builder
}

// newPrinter creates a new printer with the given settings.
func newPrinter(indent string, maxWidth int, prefix string) *printer {
	return &printer{
		indent:   indent,
		maxWidth: maxWidth,
		prefix:   prefix,
	}
}

// PrintMarkup formats a whole block. The root is not indented and no
// trailing newline is written.
func (p *printer) PrintMarkup(m *viewc.Markup) string {
	p.buf.Reset()
	p.printNode(m.Root)
	return p.buf.String()
}

// printNode outputs a single node at the current position.
func (p *printer) printNode(node viewc.Node) {
	switch n := node.(type) {
	case *viewc.Expr:
		p.write(n.Code)
	case *viewc.WidgetCall:
		p.printCall(n.Name, n.Args, n.Attributes, n.Children)
	case *viewc.ComponentCall:
		p.printCall(n.Path, n.Args, n.Attributes, n.Children)
	}
}

// printCall outputs Path(args) ![attrs] { children }, dropping the parts
// that are absent. A call with nothing to show keeps an empty argument
// list so it is still read back as a call.
func (p *printer) printCall(path string, args []*viewc.Expr, attrs []*viewc.Attribute, children []viewc.Node) {
	p.write(head(path, args, attrs, children))

	if children == nil {
		return
	}
	if len(children) == 0 {
		p.write(" {}")
		return
	}

	if p.fitsInline(path, args, attrs, children) {
		p.write(" { ")
		for i, child := range children {
			if i > 0 {
				p.write(", ")
			}
			p.write(inline(child))
		}
		p.write(" }")
		return
	}

	p.write(" {")
	p.newline()
	p.depth++
	for _, child := range children {
		p.writeIndent()
		p.printNode(child)
		p.write(",")
		p.newline()
	}
	p.depth--
	p.writeIndent()
	p.write("}")
}

// fitsInline reports whether a block can stay on the line of its call:
// every child is a leaf and the whole call fits in the width limit.
func (p *printer) fitsInline(path string, args []*viewc.Expr, attrs []*viewc.Attribute, children []viewc.Node) bool {
	for _, child := range children {
		if _, _, grand := parts(child); len(grand) > 0 {
			return false
		}
	}
	line := inline(callNode(path, args, attrs, children))
	if strings.Contains(line, "\n") {
		return false
	}
	// one more column for the separator after the node
	return len(p.prefix)+p.depth*len(p.indent)+len(line)+1 <= p.maxWidth
}

// head renders everything of a call before its block.
func head(path string, args []*viewc.Expr, attrs []*viewc.Attribute, children []viewc.Node) string {
	var sb strings.Builder
	sb.WriteString(path)

	if len(args) > 0 || (len(attrs) == 0 && children == nil) {
		sb.WriteByte('(')
		for i, arg := range args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(arg.Code)
		}
		sb.WriteByte(')')
	}

	if len(attrs) > 0 {
		sb.WriteString(" ![")
		for i, attr := range attrs {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(attr.Name)
			sb.WriteString(": ")
			sb.WriteString(attr.Value.Code)
		}
		sb.WriteByte(']')
	}
	return sb.String()
}

// inline renders a node on a single line, ignoring the width limit.
func inline(node viewc.Node) string {
	switch n := node.(type) {
	case *viewc.Expr:
		return n.Code
	case *viewc.WidgetCall:
		return inlineCall(n.Name, n.Args, n.Attributes, n.Children)
	case *viewc.ComponentCall:
		return inlineCall(n.Path, n.Args, n.Attributes, n.Children)
	}
	return ""
}

func inlineCall(path string, args []*viewc.Expr, attrs []*viewc.Attribute, children []viewc.Node) string {
	s := head(path, args, attrs, children)
	switch {
	case children == nil:
		return s
	case len(children) == 0:
		return s + " {}"
	}
	items := make([]string, len(children))
	for i, child := range children {
		items[i] = inline(child)
	}
	return s + " { " + strings.Join(items, ", ") + " }"
}

// parts returns the pieces of a call node; expressions have none.
func parts(node viewc.Node) ([]*viewc.Expr, []*viewc.Attribute, []viewc.Node) {
	switch n := node.(type) {
	case *viewc.WidgetCall:
		return n.Args, n.Attributes, n.Children
	case *viewc.ComponentCall:
		return n.Args, n.Attributes, n.Children
	}
	return nil, nil, nil
}

func callNode(path string, args []*viewc.Expr, attrs []*viewc.Attribute, children []viewc.Node) viewc.Node {
	return &viewc.WidgetCall{Name: path, Args: args, Attributes: attrs, Children: children}
}

// Helper methods

func (p *printer) write(s string) {
	p.buf.WriteString(s)
}

func (p *printer) newline() {
	p.buf.WriteByte('\n')
}

func (p *printer) writeIndent() {
	p.buf.WriteString(p.prefix)
	for i := 0; i < p.depth; i++ {
		p.buf.WriteString(p.indent)
	}
}
