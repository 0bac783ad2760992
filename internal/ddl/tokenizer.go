package ddl

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrUnparseable is returned when the input cannot be split into statements at all.
var ErrUnparseable = errors.New("unparseable schema text")

// Kind identifies the lexical class of a token
type Kind int

const (
	KindEOF Kind = iota
	KindWord
	KindQuotedIdent
	KindString
	KindNumber
	KindLParen
	KindRParen
	KindComma
	KindSemicolon
	KindDot
	KindSymbol
)

// Token is one lexical unit of DDL text. Pos and End are byte offsets into the source.
type Token struct {
	Kind Kind
	Text string
	Pos  int
	End  int
}

// Is reports whether the token is the given keyword, case-insensitively.
func (t Token) Is(keyword string) bool {
	return t.Kind == KindWord && strings.EqualFold(t.Text, keyword)
}

// Name returns the identifier value of the token with quoting removed.
func (t Token) Name() string {
	return strings.TrimSpace(t.Text)
}

type tokenizer struct {
	input  string
	pos    int
	tokens []Token
}

// Tokenize splits DDL text into tokens. Comments and whitespace are dropped.
// Unterminated quotes and block comments wrap ErrUnparseable.
func Tokenize(input string) ([]Token, error) {
	t := &tokenizer{input: input}
	for {
		if err := t.skipWhitespace(); err != nil {
			return nil, err
		}
		if t.pos >= len(t.input) {
			t.tokens = append(t.tokens, Token{Kind: KindEOF, Pos: t.pos, End: t.pos})
			return t.tokens, nil
		}

		r, size := utf8.DecodeRuneInString(t.input[t.pos:])
		var err error
		switch {
		case r == '"' || r == '`':
			err = t.readQuoted(KindQuotedIdent, byte(r), byte(r))
		case r == '[':
			err = t.readQuoted(KindQuotedIdent, '[', ']')
		case r == '\'':
			err = t.readQuoted(KindString, '\'', '\'')
		case unicode.IsLetter(r) || r == '_' || r == '@' || r == '#':
			t.readWord()
		case unicode.IsDigit(r):
			t.readNumber()
		default:
			t.readPunct(r, size)
		}
		if err != nil {
			return nil, err
		}
	}
}

func (t *tokenizer) skipWhitespace() error {
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v':
			t.pos++
		case ch == '-' && t.peek(1) == '-':
			for t.pos < len(t.input) && t.input[t.pos] != '\n' {
				t.pos++
			}
		case ch == '#' && t.peek(1) == ' ':
			// MySQL line comment
			for t.pos < len(t.input) && t.input[t.pos] != '\n' {
				t.pos++
			}
		case ch == '/' && t.peek(1) == '*':
			start := t.pos
			end := strings.Index(t.input[t.pos+2:], "*/")
			if end < 0 {
				return fmt.Errorf("%w: unterminated comment at position %d", ErrUnparseable, start)
			}
			t.pos += end + 4
		default:
			return nil
		}
	}
	return nil
}

func (t *tokenizer) peek(offset int) byte {
	if t.pos+offset < len(t.input) {
		return t.input[t.pos+offset]
	}
	return 0
}

// readQuoted reads a quoted identifier or string literal. A doubled closing
// quote inside the value is an escaped quote.
func (t *tokenizer) readQuoted(kind Kind, open, closer byte) error {
	start := t.pos
	t.pos++

	var b strings.Builder
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		if ch == closer {
			if open == closer && t.peek(1) == closer {
				b.WriteByte(closer)
				t.pos += 2
				continue
			}
			t.pos++
			t.tokens = append(t.tokens, Token{Kind: kind, Text: b.String(), Pos: start, End: t.pos})
			return nil
		}
		b.WriteByte(ch)
		t.pos++
	}
	return fmt.Errorf("%w: unterminated quote %q at position %d", ErrUnparseable, open, start)
}

func (t *tokenizer) readWord() {
	start := t.pos
	for t.pos < len(t.input) {
		r, size := utf8.DecodeRuneInString(t.input[t.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '$' && r != '@' && r != '#' {
			break
		}
		t.pos += size
	}
	t.tokens = append(t.tokens, Token{Kind: KindWord, Text: t.input[start:t.pos], Pos: start, End: t.pos})
}

func (t *tokenizer) readNumber() {
	start := t.pos
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		if (ch >= '0' && ch <= '9') || ch == '.' {
			t.pos++
			continue
		}
		break
	}
	t.tokens = append(t.tokens, Token{Kind: KindNumber, Text: t.input[start:t.pos], Pos: start, End: t.pos})
}

func (t *tokenizer) readPunct(r rune, size int) {
	start := t.pos
	t.pos += size

	kind := KindSymbol
	switch r {
	case '(':
		kind = KindLParen
	case ')':
		kind = KindRParen
	case ',':
		kind = KindComma
	case ';':
		kind = KindSemicolon
	case '.':
		kind = KindDot
	}
	t.tokens = append(t.tokens, Token{Kind: kind, Text: t.input[start:t.pos], Pos: start, End: t.pos})
}

// joinTokens rebuilds source text for a token run, collapsing any whitespace
// or comments between tokens into a single space.
func joinTokens(src string, toks []Token) string {
	var b strings.Builder
	for i, tok := range toks {
		if i > 0 && tok.Pos > toks[i-1].End {
			b.WriteByte(' ')
		}
		b.WriteString(src[tok.Pos:tok.End])
	}
	return b.String()
}
