// Package lexer turns one line of the graft command protocol into a stream
// of classified tokens with source locations.
//
// Every stream ends with exactly one End token. Reading past End is a
// programming error, not a recoverable condition: the parser is written so
// that it never asks for a token once End has been consumed, and the lexer
// enforces that contract with a panic.
package lexer

import (
	"strings"
	"unicode"
)

// Kind classifies a token.
type Kind int

const (
	// Sym is a bare identifier: a functor, atom or rule name.
	Sym Kind = iota
	OpenParen
	CloseParen
	Comma
	Equals
	// Command keywords.
	Rule
	Shape
	Apply
	Done
	// End marks end of input. It is always the last token of a stream.
	End
	// Invalid is produced for characters the protocol does not know.
	Invalid
)

func (k Kind) String() string {
	switch k {
	case Sym:
		return "symbol"
	case OpenParen:
		return "'('"
	case CloseParen:
		return "')'"
	case Comma:
		return "','"
	case Equals:
		return "'='"
	case Rule:
		return "'rule'"
	case Shape:
		return "'shape'"
	case Apply:
		return "'apply'"
	case Done:
		return "'done'"
	case End:
		return "end of input"
	case Invalid:
		return "invalid character"
	}
	return "unknown token"
}

var keywords = map[string]Kind{
	"rule":  Rule,
	"shape": Shape,
	"apply": Apply,
	"done":  Done,
}

// Loc is a source position. Line is the zero-based input line, Col the
// zero-based column of the token's first character.
type Loc struct {
	Line int
	Col  int
}

// Token is one lexed unit of input.
type Token struct {
	Kind Kind
	Text string
	Loc  Loc
}

// KindSet is a bit set of token kinds, used to report what a parser
// position would have accepted.
type KindSet uint16

// Single returns a set containing only k.
func Single(k Kind) KindSet {
	return 1 << uint(k)
}

// With returns s extended with k.
func (s KindSet) With(k Kind) KindSet {
	return s | Single(k)
}

// Contains reports whether k is in the set.
func (s KindSet) Contains(k Kind) bool {
	return s&Single(k) != 0
}

func (s KindSet) String() string {
	var parts []string
	for k := Sym; k <= Invalid; k++ {
		if s.Contains(k) {
			parts = append(parts, k.String())
		}
	}
	return strings.Join(parts, " or ")
}

// Lexer scans a single line of input. It supports one token of lookahead
// via Peek.
type Lexer struct {
	src    []rune
	pos    int
	line   int
	peeked *Token
	ended  bool
}

// New returns a Lexer over src, reporting locations on line 0.
func New(src string) *Lexer {
	return NewAt(src, 0)
}

// NewAt returns a Lexer over src, reporting locations on the given line.
// Script runners use this to keep carets and error lines accurate.
func NewAt(src string, line int) *Lexer {
	return &Lexer{src: []rune(src), line: line}
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() Token {
	if l.peeked == nil {
		t := l.scan()
		l.peeked = &t
	}
	return *l.peeked
}

// Next consumes and returns the next token. Calling Next again after it
// has returned an End token panics: by contract the stream is never read
// past its end.
func (l *Lexer) Next() Token {
	if l.peeked != nil {
		t := *l.peeked
		l.peeked = nil
		return t
	}
	return l.scan()
}

// NextIf consumes the next token only if it has the given kind.
func (l *Lexer) NextIf(k Kind) (Token, bool) {
	if l.Peek().Kind != k {
		return Token{}, false
	}
	return l.Next(), true
}

func (l *Lexer) scan() Token {
	if l.ended {
		panic("lexer: read past end of input")
	}

	for l.pos < len(l.src) && unicode.IsSpace(l.src[l.pos]) {
		l.pos++
	}

	loc := Loc{Line: l.line, Col: l.pos}

	if l.pos >= len(l.src) {
		l.ended = true
		return Token{Kind: End, Loc: loc}
	}

	r := l.src[l.pos]
	switch r {
	case '(':
		l.pos++
		return Token{Kind: OpenParen, Text: "(", Loc: loc}
	case ')':
		l.pos++
		return Token{Kind: CloseParen, Text: ")", Loc: loc}
	case ',':
		l.pos++
		return Token{Kind: Comma, Text: ",", Loc: loc}
	case '=':
		l.pos++
		return Token{Kind: Equals, Text: "=", Loc: loc}
	}

	if isSymRune(r) {
		start := l.pos
		for l.pos < len(l.src) && isSymRune(l.src[l.pos]) {
			l.pos++
		}
		text := string(l.src[start:l.pos])
		if kw, ok := keywords[text]; ok {
			return Token{Kind: kw, Text: text, Loc: loc}
		}
		return Token{Kind: Sym, Text: text, Loc: loc}
	}

	l.pos++
	return Token{Kind: Invalid, Text: string(r), Loc: loc}
}

func isSymRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
