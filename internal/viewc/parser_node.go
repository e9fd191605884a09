package viewc

import "strings"

// parseNode parses a widget call, component call, or expression child.
func (p *Parser) parseNode() (Node, *Error) {
	if tok := p.cur(); tok.Type == TokenIdent && !IsKeyword(tok.Literal) {
		save := p.pos
		node, err := p.tryParseCall()
		if err != nil {
			return nil, err
		}
		if node != nil {
			return node, nil
		}
		p.pos = save
	}

	expr, err := p.parseExpr("a widget, component or expression")
	if err != nil {
		return nil, err
	}
	return expr, nil
}

// tryParseCall parses Path Args? Attrs? Block?. It returns a nil node
// without error when the tokens turn out to be an expression instead.
func (p *Parser) tryParseCall() (Node, *Error) {
	start := p.cur()
	path := p.parsePath()

	var (
		args     []*Expr
		attrs    []*Attribute
		children []Node
		marked   bool
		last     string
		err      *Error
	)

	if p.cur().Type == TokenLParen {
		marked, last = true, "arguments"
		if args, err = p.parseArgs(); err != nil {
			return nil, err
		}
	}
	if p.atAttrs() {
		marked, last = true, "attributes"
		if attrs, err = p.parseAttrs(); err != nil {
			return nil, err
		}
	}
	if p.cur().Type == TokenLBrace {
		marked, last = true, "block"
		if children, err = p.parseBlock(); err != nil {
			return nil, err
		}
	}

	if !marked {
		return nil, nil
	}

	if !p.atNodeEnd() {
		tok := p.cur()
		if tok.Type == TokenLParen || tok.Type == TokenLBrace || p.atAttrs() {
			return nil, p.errorAt(tok, "unexpected %s after %s of %q", tok.describe(), last, path).
				withHint("a call takes its arguments, attributes and block once each, in that order")
		}
		if continuesExpr(tok) {
			return nil, nil
		}
		return nil, p.errorAt(tok, "expected ',' before %s", tok.describe()).
			withHint("separate sibling nodes with ','")
	}

	pos := p.position(start)
	if IsComponentPath(path) {
		return &ComponentCall{Path: path, Args: args, Attributes: attrs, Children: children, Position: pos}, nil
	}
	return &WidgetCall{Name: path, Args: args, Attributes: attrs, Children: children, Position: pos}, nil
}

// parsePath parses Ident (('::' | '.') Ident)* and returns it with the
// separators kept and whitespace dropped.
func (p *Parser) parsePath() string {
	path := p.cur().Literal
	p.advance()
	for {
		sep := p.cur()
		if (sep.Type != TokenPathSep && sep.Type != TokenDot) || p.peekAt(1).Type != TokenIdent {
			return path
		}
		p.advance()
		path += sep.Literal + p.cur().Literal
		p.advance()
	}
}

// parseArgs parses '(' (Expr (',' Expr)* ','?)? ')'.
func (p *Parser) parseArgs() ([]*Expr, *Error) {
	open := p.cur()
	p.advance() // consume (

	var args []*Expr
	for p.cur().Type != TokenRParen {
		arg, err := p.parseExpr("an argument")
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if err := p.expectSeparator(open, TokenRParen, "argument"); err != nil {
			return nil, err
		}
	}
	p.advance() // consume )
	return args, nil
}

// parseAttrs parses '!' '[' (Ident ':' Expr (',' Ident ':' Expr)* ','?)? ']'.
func (p *Parser) parseAttrs() ([]*Attribute, *Error) {
	p.advance() // consume !
	open := p.cur()
	p.advance() // consume [

	var attrs []*Attribute
	for p.cur().Type != TokenRBracket {
		name := p.cur()
		if name.Type != TokenIdent {
			return nil, p.errorAt(name, "expected attribute name, got %s", name.describe())
		}
		p.advance()

		if colon := p.cur(); colon.Type != TokenColon {
			return nil, p.errorAt(colon, "expected ':' after attribute %q, got %s", name.Literal, colon.describe())
		}
		p.advance()

		value, err := p.parseExpr("an attribute value")
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, &Attribute{Name: name.Literal, Value: value, Position: p.position(name)})

		if err := p.expectSeparator(open, TokenRBracket, "attribute"); err != nil {
			return nil, err
		}
	}
	p.advance() // consume ]
	return attrs, nil
}

// parseBlock parses '{' (Node (',' Node)* ','?)? '}'.
func (p *Parser) parseBlock() ([]Node, *Error) {
	open := p.cur()
	p.advance() // consume {

	// A non-nil empty slice marks a present but empty block.
	children := []Node{}
	for p.cur().Type != TokenRBrace {
		child, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		children = append(children, child)

		if err := p.expectSeparator(open, TokenRBrace, "child"); err != nil {
			return nil, err
		}
	}
	p.advance() // consume }
	return children, nil
}

// expectSeparator consumes the ',' after a list element or stops at the
// list's closing delimiter. A ',' followed by the closer is a trailing
// separator and produces no element.
func (p *Parser) expectSeparator(open Token, closer TokenType, what string) *Error {
	tok := p.cur()
	switch tok.Type {
	case TokenComma:
		p.advance()
		return nil
	case closer:
		return nil
	}
	return p.errorAt(tok, "expected ',' or '%s' after %s, got %s", closer, what, tok.describe()).
		withHint("'" + open.Literal + "' opened at " + p.position(open).String())
}

// parseExpr reads a raw expression: a maximal run of tokens up to a
// top-level ',' or an unmatched closing delimiter. Nested groups must
// balance, and a ',' inside turbofish generics (HashMap::<K, V>) does not
// end the expression. The expression keeps its exact source text.
func (p *Parser) parseExpr(what string) (*Expr, *Error) {
	first := p.cur()
	startIdx := p.pos
	var (
		stack []Token
		angle int // open '<' of turbofish generics
	)

scan:
	for {
		tok := p.cur()
		switch {
		case tok.Type == TokenEOF:
			if len(stack) > 0 {
				open := stack[len(stack)-1]
				return nil, p.errorAt(open, "unclosed '%s'", open.Literal).
					withHint("expected '" + closerFor(open.Type).String() + "' before end of input")
			}
			break scan
		case tok.Type.isOpen():
			stack = append(stack, tok)
		case tok.Type.isClose():
			if len(stack) == 0 {
				break scan
			}
			open := stack[len(stack)-1]
			if want := closerFor(open.Type); want != tok.Type {
				return nil, p.errorAt(tok, "mismatched '%s', expected '%s'", tok.Literal, want).
					withHint("'" + open.Literal + "' opened at " + p.position(open).String())
			}
			stack = stack[:len(stack)-1]
		case tok.Type == TokenOperator && (angle > 0 || p.afterPathSep() && strings.HasPrefix(tok.Literal, "<")):
			angle = max(0, angle+angleDelta(tok.Literal))
		case tok.Type == TokenComma && len(stack) == 0 && angle == 0:
			break scan
		}
		p.advance()
	}

	if p.pos == startIdx {
		return nil, p.errorAt(first, "expected %s, got %s", what, first.describe())
	}

	last := p.tokens[p.pos-1]
	return &Expr{
		Code:     p.lexer.source[first.Start:last.End],
		Position: p.position(first),
	}, nil
}

// afterPathSep reports whether the token before the current one is '::'.
func (p *Parser) afterPathSep() bool {
	return p.pos > 0 && p.tokens[p.pos-1].Type == TokenPathSep
}

// angleDelta counts the generic brackets an operator run opens minus those
// it closes. Arrows such as -> and => close nothing.
func angleDelta(op string) int {
	op = strings.NewReplacer("->", "", "=>", "").Replace(op)
	return strings.Count(op, "<") - strings.Count(op, ">")
}
