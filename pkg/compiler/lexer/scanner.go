package lexer

import (
	"unicode"
	"unicode/utf8"
)

// Scanner performs lexical analysis on monkey source.
type Scanner struct {
	source    string
	cursor    int
	line      int
	lineStart int // offset of the first byte of the current line

	// column counts the runes between lineStart and colCursor. Token starts
	// only move forward, so each byte is counted once.
	column    int
	colCursor int
}

// NewScanner creates a new scanner for the given source.
func NewScanner(source string) *Scanner {
	return &Scanner{
		source: source,
		line:   1,
	}
}

// Reset re-initializes the scanner with new source for reuse.
func (s *Scanner) Reset(source string) {
	s.source = source
	s.cursor = 0
	s.line = 1
	s.lineStart = 0
	s.column = 0
	s.colCursor = 0
}

// Next returns the next token from the source. Once the end of input has been
// reached every further call returns a KindEOF token.
func (s *Scanner) Next() Token {
	s.skipWhitespace()

	if s.cursor >= len(s.source) {
		return s.token(KindEOF, s.cursor, s.cursor)
	}

	start := s.cursor
	ch := s.source[s.cursor]

	// Two-character operators first.
	switch {
	case ch == '=' && s.peek() == '=':
		s.cursor += 2
		return s.token(KindEq, start, s.cursor)
	case ch == '!' && s.peek() == '=':
		s.cursor += 2
		return s.token(KindNotEq, start, s.cursor)
	}

	if kind, ok := single(ch); ok {
		s.cursor++
		return s.token(kind, start, s.cursor)
	}

	if isDigit(ch) {
		return s.scanNumber()
	}

	r, size := utf8.DecodeRuneInString(s.source[s.cursor:])
	if isIdentStart(r) {
		return s.scanIdentifier()
	}

	// Anything else is reported and skipped. RuneError with size 1 is a stray
	// byte; it still advances so the scanner always makes progress.
	s.cursor += size
	return s.token(KindIllegal, start, s.cursor)
}

func single(ch byte) (Kind, bool) {
	switch ch {
	case '=':
		return KindAssign, true
	case '+':
		return KindPlus, true
	case '-':
		return KindMinus, true
	case '!':
		return KindBang, true
	case '*':
		return KindAsterisk, true
	case '/':
		return KindSlash, true
	case '<':
		return KindLT, true
	case '>':
		return KindGT, true
	case ',':
		return KindComma, true
	case ';':
		return KindSemicolon, true
	case '(':
		return KindLParen, true
	case ')':
		return KindRParen, true
	case '{':
		return KindLBrace, true
	case '}':
		return KindRBrace, true
	}
	return KindIllegal, false
}

func (s *Scanner) token(kind Kind, start, end int) Token {
	s.column += utf8.RuneCountInString(s.source[s.colCursor:start])
	s.colCursor = start
	return Token{
		Kind:    kind,
		Literal: s.source[start:end],
		Line:    uint32(s.line),
		Column:  uint32(s.column + 1),
	}
}

func (s *Scanner) skipWhitespace() {
	for s.cursor < len(s.source) {
		ch := s.source[s.cursor]
		if ch == ' ' || ch == '\t' || ch == '\r' {
			s.cursor++
		} else if ch == '\n' {
			s.cursor++
			s.line++
			s.lineStart = s.cursor
			s.column = 0
			s.colCursor = s.cursor
		} else {
			break
		}
	}
}

func (s *Scanner) scanNumber() Token {
	start := s.cursor
	for s.cursor < len(s.source) && isDigit(s.source[s.cursor]) {
		s.cursor++
	}
	return s.token(KindInt, start, s.cursor)
}

func (s *Scanner) scanIdentifier() Token {
	start := s.cursor
	for s.cursor < len(s.source) {
		r, size := utf8.DecodeRuneInString(s.source[s.cursor:])
		if !isIdentPart(r) {
			break
		}
		s.cursor += size
	}
	tok := s.token(KindIdent, start, s.cursor)
	tok.Kind = LookupIdent(tok.Literal)
	return tok
}

func (s *Scanner) peek() byte {
	if s.cursor+1 >= len(s.source) {
		return 0
	}
	return s.source[s.cursor+1]
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || (r != utf8.RuneError && unicode.IsLetter(r))
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}
