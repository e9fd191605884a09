package viewc

import "fmt"

// Generator lowers a markup tree into a target expression.
type Generator struct {
	target Target
}

// NewGenerator creates a generator for the given target.
func NewGenerator(target Target) *Generator {
	return &Generator{target: target}
}

// Generate lowers the markup root. Every well-formed tree has a lowering,
// so there is no error path.
func (g *Generator) Generate(m *Markup) Expression {
	return g.lower(m.Root)
}

// lower lowers one node. Raw code is never rewritten.
func (g *Generator) lower(n Node) Expression {
	switch n := n.(type) {
	case *Expr:
		return &Raw{Code: n.Code}
	case *WidgetCall:
		return g.lowerCall(g.target.WidgetQualifier+n.Name, n.Args, n.Attributes, n.Children)
	case *ComponentCall:
		return g.lowerCall(n.Path, n.Args, n.Attributes, n.Children)
	}
	panic(fmt.Sprintf("viewc: unexpected node type %T", n))
}

// lowerCall builds the constructor, then chains one setter per attribute
// in declared order. Children always live in the constructor; attributes
// always follow it.
func (g *Generator) lowerCall(callee string, args []*Expr, attrs []*Attribute, children []Node) Expression {
	var result Expression = g.construct(callee, raws(args), children)
	for _, attr := range attrs {
		result = &Chain{
			Recv:   result,
			Method: attr.Name,
			Args:   []Expression{&Raw{Code: attr.Value.Code}},
		}
	}
	return result
}

// construct emits the plain constructor, or the collection constructor
// when there are children. Positional arguments lead in both forms.
func (g *Generator) construct(callee string, args []Expression, children []Node) *Call {
	if len(children) == 0 {
		return &Call{Callee: callee, Args: args}
	}

	lowered := make([]Expression, len(children))
	for i, child := range children {
		lowered[i] = g.lower(child)
	}

	switch g.target.Collection {
	case CollectionSlice:
		elems := &Slice{Type: "[]" + g.target.ElementType, Elems: lowered}
		return &Call{Callee: callee, Args: append(args, elems)}
	case CollectionVariadic:
		return &Call{Callee: callee, Args: append(args, lowered...), Collection: true}
	default:
		return &Call{Callee: callee, Macro: true, Args: append(args, lowered...), Collection: true}
	}
}

// raws wraps raw expressions for emission.
func raws(exprs []*Expr) []Expression {
	out := make([]Expression, len(exprs))
	for i, e := range exprs {
		out[i] = &Raw{Code: e.Code}
	}
	return out
}
