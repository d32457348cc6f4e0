package parser

import (
	"fmt"
	"strings"
)

// TokenKind classifies a lexical token from ruleset source text.
type TokenKind string

const (
	TokenIdentifier TokenKind = "identifier"
	TokenAnd        TokenKind = "and"
	TokenOr         TokenKind = "or"
	TokenNot        TokenKind = "not"
	TokenImplies    TokenKind = "implies"
	TokenEquivalent TokenKind = "equivalent"
	TokenLParen     TokenKind = "lparen"
	TokenRParen     TokenKind = "rparen"
	TokenComma      TokenKind = "comma"
	TokenAssign     TokenKind = "assign"
)

// LexToken is a single lexical token with its source position (1-based).
type LexToken struct {
	Kind   TokenKind
	Value  string
	Line   int
	Column int
}

// SyntaxError reports an unrecognized character with its position.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// lexer scans one logical source text. Identifiers may contain hyphens and
// underscores and may start with a digit (names like "4-fundamental-forces"
// are legal); a leading ~ attached to an identifier is part of the literal
// name, the polarity convention Resolution relies on.
type lexer struct {
	input string
	pos   int
	line  int
	col   int
}

// Tokenize scans source text into tokens. Lines starting a # begin a
// comment running to end of line; the keywords and/or/not/implies/iff are
// recognized as operators.
func Tokenize(input string) ([]LexToken, error) {
	lx := &lexer{input: input, line: 1, col: 1}
	var tokens []LexToken
	for {
		tok, ok, err := lx.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

func (lx *lexer) current() byte {
	if lx.pos >= len(lx.input) {
		return 0
	}
	return lx.input[lx.pos]
}

func (lx *lexer) peek(n int) byte {
	if lx.pos+n >= len(lx.input) {
		return 0
	}
	return lx.input[lx.pos+n]
}

func (lx *lexer) advance() {
	if lx.pos < len(lx.input) {
		if lx.input[lx.pos] == '\n' {
			lx.line++
			lx.col = 1
		} else {
			lx.col++
		}
		lx.pos++
	}
}

func (lx *lexer) skipBlanks() {
	for lx.pos < len(lx.input) {
		c := lx.current()
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			lx.advance()
			continue
		}
		if c == '#' {
			for lx.pos < len(lx.input) && lx.current() != '\n' {
				lx.advance()
			}
			continue
		}
		return
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c == '-'
}

func (lx *lexer) next() (LexToken, bool, error) {
	lx.skipBlanks()
	if lx.pos >= len(lx.input) {
		return LexToken{}, false, nil
	}

	line, col := lx.line, lx.col
	c := lx.current()

	emit := func(kind TokenKind, value string, width int) (LexToken, bool, error) {
		for i := 0; i < width; i++ {
			lx.advance()
		}
		return LexToken{Kind: kind, Value: value, Line: line, Column: col}, true, nil
	}

	switch c {
	case '(':
		return emit(TokenLParen, "(", 1)
	case ')':
		return emit(TokenRParen, ")", 1)
	case ',':
		return emit(TokenComma, ",", 1)
	case '!':
		return emit(TokenNot, "!", 1)
	case '~':
		// ~ directly followed by an identifier is a negated literal name,
		// not the NOT operator.
		if isIdentStart(lx.peek(1)) {
			return lx.scanIdentifier(line, col)
		}
		return emit(TokenNot, "~", 1)
	}

	if c == '&' && lx.peek(1) == '&' {
		return emit(TokenAnd, "&&", 2)
	}
	if c == '|' && lx.peek(1) == '|' {
		return emit(TokenOr, "||", 2)
	}
	if c == '-' && lx.peek(1) == '>' {
		return emit(TokenImplies, "->", 2)
	}
	if c == '<' && lx.peek(1) == '-' && lx.peek(2) == '>' {
		return emit(TokenEquivalent, "<->", 3)
	}
	if c == '=' {
		if lx.peek(1) == '=' {
			return emit(TokenEquivalent, "==", 2)
		}
		return emit(TokenAssign, "=", 1)
	}

	if isIdentStart(c) {
		return lx.scanIdentifier(line, col)
	}

	return LexToken{}, false, &SyntaxError{Line: line, Column: col, Msg: fmt.Sprintf("unexpected character %q", c)}
}

func (lx *lexer) scanIdentifier(line, col int) (LexToken, bool, error) {
	start := lx.pos
	if lx.current() == '~' {
		lx.advance()
	}
	for lx.pos < len(lx.input) && isIdentPart(lx.current()) {
		lx.advance()
	}
	value := lx.input[start:lx.pos]

	switch strings.ToLower(value) {
	case "and":
		return LexToken{Kind: TokenAnd, Value: value, Line: line, Column: col}, true, nil
	case "or":
		return LexToken{Kind: TokenOr, Value: value, Line: line, Column: col}, true, nil
	case "not":
		return LexToken{Kind: TokenNot, Value: value, Line: line, Column: col}, true, nil
	case "implies":
		return LexToken{Kind: TokenImplies, Value: value, Line: line, Column: col}, true, nil
	case "iff":
		return LexToken{Kind: TokenEquivalent, Value: value, Line: line, Column: col}, true, nil
	}

	return LexToken{Kind: TokenIdentifier, Value: value, Line: line, Column: col}, true, nil
}
