package viewc

import "strings"

// The literal readers keep the token's exact source text: string contents
// are never decoded because expressions are passed through verbatim.

// readString reads a double-quoted string, skipping over escape sequences.
// Newlines are allowed inside the literal.
func (l *Lexer) readString() Token {
	pos := l.position()
	l.readChar() // consume opening "

	for l.ch != '"' {
		if l.ch == 0 {
			return l.fail(NewErrorWithHint(pos, "unterminated string literal", "add a closing '\"'"))
		}
		if l.ch == '\\' {
			l.readChar() // consume backslash
			if l.ch == 0 {
				continue
			}
		}
		l.readChar()
	}

	l.readChar() // consume closing "
	return l.makeToken(TokenString)
}

// readRawString reads a backtick-delimited raw string.
func (l *Lexer) readRawString() Token {
	pos := l.position()
	l.readChar() // consume opening `

	for l.ch != '`' {
		if l.ch == 0 {
			return l.fail(NewErrorWithHint(pos, "unterminated raw string literal", "add a closing '`'"))
		}
		l.readChar()
	}

	l.readChar() // consume closing `
	return l.makeToken(TokenRawString)
}

// readRune reads a single-quoted rune literal ('x', '\n', '\u{1F600}'), or
// a lifetime or label ('a, 'static) when no closing quote follows.
func (l *Lexer) readRune() Token {
	pos := l.position()
	l.readChar() // consume opening '

	switch l.ch {
	case '\\':
		// Escapes run until the closing quote: \n, \x41, \u{1F600}, \'.
		l.readChar() // consume backslash
		if l.ch == 0 {
			return l.fail(NewError(pos, "unterminated rune literal"))
		}
		l.readChar() // consume the escaped character
		for l.ch != '\'' {
			if l.ch == 0 || l.ch == '\n' {
				return l.fail(NewError(pos, "unterminated rune literal"))
			}
			l.readChar()
		}
	case '\'', 0, '\n':
		return l.fail(NewError(pos, "empty rune literal"))
	default:
		first := l.ch
		l.readChar()
		if l.ch != '\'' && isLetter(first) {
			for isLetter(l.ch) || isDigit(l.ch) {
				l.readChar()
			}
			return l.makeToken(TokenLifetime)
		}
	}

	if l.ch != '\'' {
		return l.fail(NewErrorWithHint(pos, "unterminated rune literal", "add a closing quote"))
	}

	l.readChar() // consume closing '
	return l.makeToken(TokenRune)
}

// readRawStringLiteral reads a prefixed raw string: r"...", r#"..."#, br"...".
// end is the literal's length as reported by rawStringEnd.
func (l *Lexer) readRawStringLiteral(end int, closed bool) Token {
	pos := l.position()
	if !closed {
		return l.fail(NewErrorWithHint(pos, "unterminated raw string literal", "close it with '\"' and the same number of '#'"))
	}
	for l.pos < l.tokenStart+end {
		l.readChar()
	}
	return l.makeToken(TokenRawString)
}

// rawStringEnd reports where the prefixed raw string literal at the start of
// s ends. ok is false when s does not start one; closed is false when the
// literal runs to the end of s.
func rawStringEnd(s string) (end int, ok, closed bool) {
	var i int
	switch {
	case strings.HasPrefix(s, "br"):
		i = 2
	case strings.HasPrefix(s, "r"):
		i = 1
	default:
		return 0, false, false
	}

	hashes := 0
	for i < len(s) && s[i] == '#' {
		hashes++
		i++
	}
	if i >= len(s) || s[i] != '"' {
		return 0, false, false
	}

	closer := `"` + strings.Repeat("#", hashes)
	j := strings.Index(s[i+1:], closer)
	if j < 0 {
		return len(s), true, false
	}
	return i + 1 + j + len(closer), true, true
}
