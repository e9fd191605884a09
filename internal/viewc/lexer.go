package viewc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes one markup block.
type Lexer struct {
	source  string
	origin  Position // where source starts in its file
	pos     int      // current position in source
	readPos int      // next position to read
	ch      rune     // current character
	line    int      // current line (1-based, file relative)
	column  int      // current column (1-based, file relative)

	// Track the start position of current token
	tokenLine   int
	tokenColumn int
	tokenStart  int

	err *Error
}

// NewLexer creates a new Lexer for a block that is a whole file.
func NewLexer(filename, source string) *Lexer {
	return NewLexerAt(Position{File: filename, Line: 1, Column: 1}, source)
}

// NewLexerAt creates a new Lexer for a block embedded in a larger file.
// origin is the file position of the first byte of source; every token and
// error position is reported relative to the file, not the block.
func NewLexerAt(origin Position, source string) *Lexer {
	if origin.Line < 1 {
		origin.Line = 1
	}
	if origin.Column < 1 {
		origin.Column = 1
	}
	l := &Lexer{
		source: source,
		origin: origin,
		line:   origin.Line,
		column: origin.Column - 1,
	}
	l.readChar()
	return l
}

// Err returns the first error encountered during lexing, if any.
func (l *Lexer) Err() *Error {
	return l.err
}

// Source returns the block source the lexer reads.
func (l *Lexer) Source() string {
	return l.source
}

// Tokenize reads the whole block. The returned slice always ends with a
// TokenEOF token unless an error is returned.
func (l *Lexer) Tokenize() ([]Token, error) {
	var toks []Token
	for {
		tok := l.Next()
		if tok.Type == TokenError {
			return nil, l.err
		}
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			return toks, nil
		}
	}
}

// readChar advances to the next character in the source.
func (l *Lexer) readChar() {
	prevWasNewline := l.ch == '\n'

	if l.readPos >= len(l.source) {
		l.ch = 0 // EOF
		l.pos = l.readPos
	} else {
		r, size := utf8.DecodeRuneInString(l.source[l.readPos:])
		l.ch = r
		l.pos = l.readPos
		l.readPos += size
	}

	if prevWasNewline {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.readPos:])
	return r
}

// startToken marks the beginning of a new token.
func (l *Lexer) startToken() {
	l.tokenLine = l.line
	l.tokenColumn = l.column
	l.tokenStart = l.pos
}

// makeToken creates a token spanning from the token start to the current position.
func (l *Lexer) makeToken(typ TokenType) Token {
	return Token{
		Type:    typ,
		Literal: l.source[l.tokenStart:l.pos],
		Line:    l.tokenLine,
		Column:  l.tokenColumn,
		Start:   l.tokenStart,
		End:     l.pos,
	}
}

// position returns the file position of the current token start.
func (l *Lexer) position() Position {
	return Position{
		File:   l.origin.File,
		Line:   l.tokenLine,
		Column: l.tokenColumn,
		Offset: l.origin.Offset + l.tokenStart,
	}
}

// here returns the file position of the current character.
func (l *Lexer) here() Position {
	return Position{
		File:   l.origin.File,
		Line:   l.line,
		Column: l.column,
		Offset: l.origin.Offset + l.pos,
	}
}

// fail records the first error and returns an error token.
func (l *Lexer) fail(err *Error) Token {
	if l.err == nil {
		l.err = err
	}
	return l.makeToken(TokenError)
}

// Next returns the next token from the source.
func (l *Lexer) Next() Token {
	if l.err != nil {
		l.startToken()
		return l.makeToken(TokenError)
	}

	if err := l.skipWhitespaceAndComments(); err != nil {
		l.startToken()
		return l.fail(err)
	}

	l.startToken()

	switch l.ch {
	case 0:
		return l.makeToken(TokenEOF)

	case '(':
		l.readChar()
		return l.makeToken(TokenLParen)

	case ')':
		l.readChar()
		return l.makeToken(TokenRParen)

	case '{':
		l.readChar()
		return l.makeToken(TokenLBrace)

	case '}':
		l.readChar()
		return l.makeToken(TokenRBrace)

	case '[':
		l.readChar()
		return l.makeToken(TokenLBracket)

	case ']':
		l.readChar()
		return l.makeToken(TokenRBracket)

	case ',':
		l.readChar()
		return l.makeToken(TokenComma)

	case ':':
		if l.peekChar() == ':' {
			l.readChar() // consume :
			l.readChar() // consume :
			return l.makeToken(TokenPathSep)
		}
		l.readChar()
		return l.makeToken(TokenColon)

	case '.':
		// Could be . or .. or ..= or a number like .5
		if isDigit(l.peekChar()) {
			return l.readNumber()
		}
		if l.peekChar() == '.' {
			for l.ch == '.' {
				l.readChar()
			}
			if l.ch == '=' {
				l.readChar()
			}
			return l.makeToken(TokenOperator)
		}
		l.readChar()
		return l.makeToken(TokenDot)

	case '!':
		if l.peekChar() == '=' {
			l.readChar() // consume !
			l.readChar() // consume =
			return l.makeToken(TokenOperator)
		}
		l.readChar()
		return l.makeToken(TokenBang)

	case '"':
		return l.readString()

	case '`':
		return l.readRawString()

	case '\'':
		return l.readRune()

	default:
		if l.ch == 'r' || l.ch == 'b' {
			if end, ok, closed := rawStringEnd(l.source[l.pos:]); ok {
				return l.readRawStringLiteral(end, closed)
			}
		}
		if isLetter(l.ch) {
			return l.readIdentifier()
		}
		if isDigit(l.ch) {
			return l.readNumber()
		}
		if isOperatorChar(l.ch) {
			return l.readOperator()
		}

		// Unknown character
		ch := l.ch
		pos := l.position()
		l.readChar()
		return l.fail(NewErrorf(pos, "unexpected character %q", ch))
	}
}

// skipWhitespaceAndComments skips whitespace, newlines, and comments.
func (l *Lexer) skipWhitespaceAndComments() *Error {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			start := l.here()
			l.readChar() // skip /
			l.readChar() // skip *
			for {
				if l.ch == 0 {
					return NewError(start, "unterminated block comment")
				}
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar() // skip *
					l.readChar() // skip /
					break
				}
				l.readChar()
			}
		default:
			return nil
		}
	}
}

// readIdentifier reads an identifier.
func (l *Lexer) readIdentifier() Token {
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.makeToken(TokenIdent)
}

// readNumber reads an integer or float literal, including type suffixes
// (20u16, 1.5f32) and radix prefixes (0xff, 0b1010).
func (l *Lexer) readNumber() Token {
	isFloat := false
	hex := l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X')

	if l.ch == '.' {
		isFloat = true
		l.readChar()
	}

	for {
		switch {
		case isDigit(l.ch) || isLetter(l.ch):
			if !hex && (l.ch == 'e' || l.ch == 'E') && (l.peekChar() == '+' || l.peekChar() == '-') {
				isFloat = true
				l.readChar() // consume e
			}
			l.readChar()
		case l.ch == '.' && !isFloat && isDigit(l.peekChar()):
			isFloat = true
			l.readChar()
		default:
			lit := l.source[l.tokenStart:l.pos]
			if !hex && strings.ContainsAny(lit, "eE") && !strings.ContainsAny(lit, "fiu") {
				isFloat = true
			}
			if isFloat {
				return l.makeToken(TokenFloat)
			}
			return l.makeToken(TokenInt)
		}
	}
}

// readOperator reads a run of operator characters such as "+", "=>" or "&&".
func (l *Lexer) readOperator() Token {
	for isOperatorChar(l.ch) {
		// A comment start ends the operator run.
		if l.ch == '/' && l.pos > l.tokenStart && (l.peekChar() == '/' || l.peekChar() == '*') {
			break
		}
		l.readChar()
	}
	return l.makeToken(TokenOperator)
}

// isLetter returns true if the rune is a letter or underscore.
func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

// isDigit returns true if the rune is a digit.
func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// isOperatorChar returns true for characters that form operator tokens.
func isOperatorChar(ch rune) bool {
	switch ch {
	case '+', '-', '*', '/', '%', '&', '|', '^', '<', '>', '=', '?', ';', '#', '@', '$', '~':
		return true
	}
	return false
}
