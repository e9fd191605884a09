package viewc

import (
	"strings"
	"unicode/utf8"
)

// Parser turns the tokens of one markup block into a Markup tree.
//
// The whole block is tokenized up front so the parser can look ahead and
// backtrack freely: an identifier followed by call markers is only a widget
// or component call if the node ends right after the markers; otherwise the
// node is re-read as an expression child.
type Parser struct {
	lexer  *Lexer
	tokens []Token
	pos    int
}

// NewParser creates a new Parser for the given lexer.
func NewParser(lexer *Lexer) *Parser {
	return &Parser{lexer: lexer}
}

// Parse parses a standalone markup block.
func Parse(filename, source string) (*Markup, error) {
	return NewParser(NewLexer(filename, source)).ParseMarkup()
}

// ParseMarkup parses the block into a Markup. The first syntax error aborts
// parsing and is returned as an *Error; no partial tree is returned.
func (p *Parser) ParseMarkup() (*Markup, error) {
	tokens, err := p.lexer.Tokenize()
	if err != nil {
		return nil, err
	}
	p.tokens = tokens
	p.pos = 0

	if p.cur().Type == TokenEOF {
		return nil, NewErrorWithHint(p.position(p.cur()), "empty markup block",
			"a markup block needs exactly one root widget, component or expression")
	}

	root, perr := p.parseNode()
	if perr != nil {
		return nil, perr
	}

	if tok := p.cur(); tok.Type != TokenEOF {
		return nil, p.errorAt(tok, "unexpected %s after root node", tok.describe()).
			withHint("a markup block has exactly one root; wrap siblings in a container widget")
	}

	return &Markup{Root: root}, nil
}

// cur returns the current token.
func (p *Parser) cur() Token {
	return p.tokens[p.pos]
}

// peekAt returns the token n positions ahead, or the EOF token.
func (p *Parser) peekAt(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

// advance moves to the next token, never past EOF.
func (p *Parser) advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

// position returns the file position of a token.
func (p *Parser) position(tok Token) Position {
	return Position{
		File:   p.lexer.origin.File,
		Line:   tok.Line,
		Column: tok.Column,
		Offset: p.lexer.origin.Offset + tok.Start,
	}
}

// endPosition returns the file position just past a token.
func (p *Parser) endPosition(tok Token) Position {
	end := p.position(tok)
	end.Offset += len(tok.Literal)
	if i := strings.LastIndexByte(tok.Literal, '\n'); i >= 0 {
		end.Line += strings.Count(tok.Literal, "\n")
		end.Column = utf8.RuneCountInString(tok.Literal[i+1:]) + 1
		return end
	}
	end.Column += utf8.RuneCountInString(tok.Literal)
	return end
}

// errorAt builds an error spanning tok.
func (p *Parser) errorAt(tok Token, format string, args ...any) *Error {
	return NewErrorf(p.position(tok), format, args...).WithEnd(p.endPosition(tok))
}

// withHint sets the hint of an error and returns it.
func (e *Error) withHint(hint string) *Error {
	e.Hint = hint
	return e
}

// atNodeEnd reports whether the current token ends a node.
func (p *Parser) atNodeEnd() bool {
	switch p.cur().Type {
	case TokenComma, TokenRParen, TokenRBracket, TokenRBrace, TokenEOF:
		return true
	}
	return false
}

// atAttrs reports whether the current token starts an attribute list:
// '!' '[' followed by ']' or by an attribute name and a single ':', or a
// bracket group followed directly by a block. Anything else, such as
// vec![1, 2], is left to be read as an expression.
func (p *Parser) atAttrs() bool {
	if p.cur().Type != TokenBang || p.peekAt(1).Type != TokenLBracket {
		return false
	}
	next := p.peekAt(2)
	if next.Type == TokenRBracket {
		return true
	}
	if next.Type == TokenIdent && p.peekAt(3).Type == TokenColon {
		return true
	}
	return p.peekAt(p.groupLen(1)+1).Type == TokenLBrace
}

// groupLen returns the number of tokens in the balanced group opening at
// offset n from the current token, delimiters included. An unbalanced group
// runs to EOF.
func (p *Parser) groupLen(n int) int {
	depth := 0
	for i := p.pos + n; i < len(p.tokens); i++ {
		switch typ := p.tokens[i].Type; {
		case typ.isOpen():
			depth++
		case typ.isClose():
			depth--
		}
		if depth == 0 {
			return i - p.pos - n + 1
		}
	}
	return len(p.tokens) - p.pos - n
}

// continuesExpr reports whether tok can continue an expression after a
// call-shaped prefix, as in text("a").size(12) or count(1) + 2.
func continuesExpr(tok Token) bool {
	switch tok.Type {
	case TokenDot, TokenOperator, TokenPathSep, TokenBang, TokenColon, TokenLBracket:
		return true
	case TokenIdent:
		return tok.Literal == "as"
	}
	return false
}
