package viewc

import "fmt"

// TokenType represents the type of a lexical token.
type TokenType int

const (
	// Special tokens
	TokenEOF   TokenType = iota // end of input
	TokenError                  // lexer error

	// Literals
	TokenIdent     // identifier
	TokenInt       // integer literal: 123, 0xff, 20u16
	TokenFloat     // float literal: 1.5, 2e3, 1.0f32
	TokenString    // string literal: "..."
	TokenRawString // raw string literal: `...`, r"...", r#"..."#
	TokenRune      // rune literal: 'x'
	TokenLifetime  // lifetime or label: 'a, 'static

	// Delimiters
	TokenLParen   // (
	TokenRParen   // )
	TokenLBrace   // {
	TokenRBrace   // }
	TokenLBracket // [
	TokenRBracket // ]

	// Punctuation the grammar cares about
	TokenComma   // ,
	TokenColon   // :
	TokenPathSep // ::
	TokenDot     // .
	TokenBang    // !

	// Everything else that may appear inside an expression
	TokenOperator // + - * / % & | ^ < > = ? ; # @ $ ~ and their combinations
)

// tokenNames maps token types to their string names for debugging.
var tokenNames = map[TokenType]string{
	TokenEOF:       "EOF",
	TokenError:     "Error",
	TokenIdent:     "Ident",
	TokenInt:       "Int",
	TokenFloat:     "Float",
	TokenString:    "String",
	TokenRawString: "RawString",
	TokenRune:      "Rune",
	TokenLifetime:  "Lifetime",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenLBrace:    "{",
	TokenRBrace:    "}",
	TokenLBracket:  "[",
	TokenRBracket:  "]",
	TokenComma:     ",",
	TokenColon:     ":",
	TokenPathSep:   "::",
	TokenDot:       ".",
	TokenBang:      "!",
	TokenOperator:  "Operator",
}

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// isOpen reports whether the token opens a delimited group.
func (t TokenType) isOpen() bool {
	return t == TokenLParen || t == TokenLBrace || t == TokenLBracket
}

// isClose reports whether the token closes a delimited group.
func (t TokenType) isClose() bool {
	return t == TokenRParen || t == TokenRBrace || t == TokenRBracket
}

// closerFor returns the closing delimiter matching an opening one.
func closerFor(open TokenType) TokenType {
	switch open {
	case TokenLParen:
		return TokenRParen
	case TokenLBrace:
		return TokenRBrace
	case TokenLBracket:
		return TokenRBracket
	}
	return TokenError
}

// Token represents a lexical token with its type, literal text, and source span.
type Token struct {
	Type    TokenType
	Literal string // exact source text of the token
	Line    int
	Column  int
	Start   int // byte offset in source where the token starts
	End     int // byte offset one past the last byte of the token
}

// String returns a debug representation of the token.
func (t Token) String() string {
	if t.Literal == "" {
		return fmt.Sprintf("%s at %d:%d", t.Type, t.Line, t.Column)
	}
	// Truncate long literals for readability
	lit := t.Literal
	if len(lit) > 20 {
		lit = lit[:17] + "..."
	}
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, lit, t.Line, t.Column)
}

// describe returns the token as it should appear in a diagnostic.
func (t Token) describe() string {
	switch t.Type {
	case TokenEOF:
		return "end of input"
	case TokenIdent, TokenInt, TokenFloat, TokenString, TokenRawString, TokenRune, TokenLifetime, TokenOperator:
		return fmt.Sprintf("%s %q", t.Type, t.Literal)
	default:
		return fmt.Sprintf("'%s'", t.Literal)
	}
}

// Position represents a source code location for error reporting.
type Position struct {
	File   string
	Line   int
	Column int
	Offset int // byte offset in the file
}

// String returns a formatted position string.
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}
