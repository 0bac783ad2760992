package ddl

import "fmt"

// Statement is one semicolon-terminated statement of the input.
type Statement struct {
	Index  int
	Text   string
	Tokens []Token
	src    string
}

// SplitStatements tokenizes DDL text and splits it on statement-terminating
// semicolons. Statements without tokens are dropped, so empty input yields no
// statements and no error.
func SplitStatements(text string) ([]Statement, error) {
	toks, err := Tokenize(text)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize schema text: %w", err)
	}

	var statements []Statement
	start := 0
	for i, tok := range toks {
		if tok.Kind != KindSemicolon && tok.Kind != KindEOF {
			continue
		}
		if i > start {
			run := toks[start:i]
			statements = append(statements, Statement{
				Index:  len(statements),
				Text:   text[run[0].Pos:run[len(run)-1].End],
				Tokens: run,
				src:    text,
			})
		}
		start = i + 1
	}
	return statements, nil
}

var createTableModifiers = map[string]bool{
	"OR":        true,
	"REPLACE":   true,
	"TEMP":      true,
	"TEMPORARY": true,
	"GLOBAL":    true,
	"LOCAL":     true,
	"UNLOGGED":  true,
}

// IsCreateTable reports whether the statement's leading keywords are CREATE [modifiers] TABLE.
func (s Statement) IsCreateTable() bool {
	return s.tableKeyword() >= 0
}

// tableKeyword returns the index of the TABLE keyword of a CREATE TABLE statement, or -1.
func (s Statement) tableKeyword() int {
	if len(s.Tokens) == 0 || !s.Tokens[0].Is("CREATE") {
		return -1
	}
	for i := 1; i < len(s.Tokens); i++ {
		tok := s.Tokens[i]
		if tok.Is("TABLE") {
			return i
		}
		if tok.Kind != KindWord {
			return -1
		}
		if !createTableModifiers[upper(tok.Text)] {
			return -1
		}
	}
	return -1
}

// TableName returns the identifier following TABLE, skipping IF NOT EXISTS,
// and the index of the first token after it. Dotted names are joined with '.'.
// The name is empty when no identifier follows the keyword.
func (s Statement) TableName() (string, int) {
	i := s.tableKeyword()
	if i < 0 {
		return "", len(s.Tokens)
	}
	i++
	if i+2 < len(s.Tokens) && s.Tokens[i].Is("IF") && s.Tokens[i+1].Is("NOT") && s.Tokens[i+2].Is("EXISTS") {
		i += 3
	}

	name := ""
	for i < len(s.Tokens) && isIdent(s.Tokens[i]) {
		name += s.Tokens[i].Name()
		i++
		if i+1 < len(s.Tokens) && s.Tokens[i].Kind == KindDot && isIdent(s.Tokens[i+1]) {
			name += "."
			i++
			continue
		}
		break
	}
	return name, i
}

// DefinitionItems returns the comma-separated items of the first parenthesized
// group at or after token index from. Commas inside nested parentheses do not
// split. found is false when there is no group; balanced is false when the
// group is never closed, in which case the items read so far are returned.
func (s Statement) DefinitionItems(from int) (items [][]Token, found, balanced bool) {
	open := -1
	for i := from; i < len(s.Tokens); i++ {
		if s.Tokens[i].Kind == KindLParen {
			open = i
			break
		}
	}
	if open < 0 {
		return nil, false, false
	}

	depth := 0
	start := open + 1
	for i := open; i < len(s.Tokens); i++ {
		switch s.Tokens[i].Kind {
		case KindLParen:
			depth++
		case KindRParen:
			depth--
			if depth == 0 {
				items = appendItem(items, s.Tokens[start:i])
				return items, true, true
			}
		case KindComma:
			if depth == 1 {
				items = appendItem(items, s.Tokens[start:i])
				start = i + 1
			}
		}
	}
	items = appendItem(items, s.Tokens[start:])
	return items, true, false
}

func appendItem(items [][]Token, run []Token) [][]Token {
	if len(run) == 0 {
		return items
	}
	return append(items, run)
}

func isIdent(t Token) bool {
	return t.Kind == KindWord || t.Kind == KindQuotedIdent || t.Kind == KindString
}
