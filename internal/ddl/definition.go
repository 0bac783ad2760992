package ddl

import (
	"fmt"

	"github.com/tordrt/askdb/internal/schema"
)

// itemKind is the category of one definition-list item
type itemKind int

const (
	itemColumn itemKind = iota
	itemPrimaryKey
	itemForeignKey
	itemConstraint
)

// foreignKey is a parsed FOREIGN KEY or inline REFERENCES clause
type foreignKey struct {
	columns    []string
	refTable   string
	refColumns []string
}

// definition is the result of classifying one item
type definition struct {
	kind       itemKind
	column     schema.Column
	primaryKey []string
	foreignKey *foreignKey
	warning    string
}

// itemParser is a small recursive-descent parser over the tokens of one item
type itemParser struct {
	src  string
	toks []Token
	pos  int
}

func (p *itemParser) peek() Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return Token{Kind: KindEOF}
}

func (p *itemParser) peekAt(offset int) Token {
	if p.pos+offset < len(p.toks) {
		return p.toks[p.pos+offset]
	}
	return Token{Kind: KindEOF}
}

func (p *itemParser) accept(keywords ...string) bool {
	for i, kw := range keywords {
		if !p.peekAt(i).Is(kw) {
			return false
		}
	}
	p.pos += len(keywords)
	return true
}

// classify determines the category of a definition item by its leading keywords.
func classify(src string, toks []Token) (definition, error) {
	p := &itemParser{src: src, toks: toks}

	if p.accept("CONSTRAINT") {
		if isIdent(p.peek()) && !p.peek().Is("PRIMARY") && !p.peek().Is("FOREIGN") {
			p.pos++
		}
		switch {
		case p.peek().Is("PRIMARY") && p.peekAt(1).Is("KEY"):
			return p.primaryKeyConstraint()
		case p.peek().Is("FOREIGN") && p.peekAt(1).Is("KEY"):
			return p.foreignKeyConstraint()
		}
		return definition{kind: itemConstraint}, nil
	}

	switch {
	case p.peek().Is("PRIMARY") && p.peekAt(1).Is("KEY"):
		return p.primaryKeyConstraint()
	case p.peek().Is("FOREIGN") && p.peekAt(1).Is("KEY"):
		return p.foreignKeyConstraint()
	case p.peek().Is("UNIQUE") && (p.peekAt(1).Kind == KindLParen || p.peekAt(1).Is("KEY") || p.peekAt(1).Is("INDEX")):
		return definition{kind: itemConstraint}, nil
	case p.peek().Is("CHECK") && p.peekAt(1).Kind == KindLParen:
		return definition{kind: itemConstraint}, nil
	case (p.peek().Is("KEY") || p.peek().Is("INDEX") || p.peek().Is("FULLTEXT") || p.peek().Is("SPATIAL")) && p.isIndexClause():
		return definition{kind: itemConstraint}, nil
	}
	return p.columnDefinition()
}

// isIndexClause reports whether a leading KEY or INDEX word starts a MySQL
// index definition, KEY [name] (col, ...), rather than a column named key.
// A column type's parenthesized arguments start with a number or a string,
// an index column list starts with an identifier.
func (p *itemParser) isIndexClause() bool {
	i := 1
	if p.peekAt(i).Is("KEY") || p.peekAt(i).Is("INDEX") {
		i++
	}
	if k := p.peekAt(i).Kind; k == KindWord || k == KindQuotedIdent {
		i++
	}
	if p.peekAt(i).Kind != KindLParen {
		return false
	}
	k := p.peekAt(i + 1).Kind
	return k == KindWord || k == KindQuotedIdent
}

// primaryKeyConstraint parses PRIMARY KEY (col, ...)
func (p *itemParser) primaryKeyConstraint() (definition, error) {
	p.accept("PRIMARY", "KEY")
	cols, ok := p.identList()
	if !ok {
		return definition{}, fmt.Errorf("PRIMARY KEY constraint without a column list")
	}
	return definition{kind: itemPrimaryKey, primaryKey: cols}, nil
}

// foreignKeyConstraint parses FOREIGN KEY (cols) REFERENCES table (cols)
func (p *itemParser) foreignKeyConstraint() (definition, error) {
	p.accept("FOREIGN", "KEY")
	if isIdent(p.peek()) && !p.peek().Is("REFERENCES") {
		// MySQL allows an index name here
		p.pos++
	}
	cols, ok := p.identList()
	if !ok {
		return definition{}, fmt.Errorf("FOREIGN KEY constraint without a column list")
	}
	fk, err := p.references(cols)
	if err != nil {
		return definition{}, err
	}
	return definition{kind: itemForeignKey, foreignKey: fk}, nil
}

// references parses REFERENCES table (cols) for the given local columns.
func (p *itemParser) references(local []string) (*foreignKey, error) {
	if !p.accept("REFERENCES") {
		return nil, fmt.Errorf("FOREIGN KEY constraint without a REFERENCES clause")
	}
	table := p.qualifiedName()
	if table == "" {
		return nil, fmt.Errorf("REFERENCES clause without a table name")
	}
	refCols, ok := p.identList()
	if !ok {
		return nil, fmt.Errorf("REFERENCES %s without a column list", table)
	}
	return &foreignKey{columns: local, refTable: table, refColumns: refCols}, nil
}

// columnDefinition parses name followed by type and modifier text
func (p *itemParser) columnDefinition() (definition, error) {
	nameTok := p.peek()
	if !isIdent(nameTok) {
		return definition{}, fmt.Errorf("column definition does not start with a name")
	}
	p.pos++

	col := schema.Column{Name: nameTok.Name()}
	var typeToks []Token
	var fk *foreignKey
	warning := ""
	for p.pos < len(p.toks) {
		switch {
		case p.peek().Is("PRIMARY") && p.peekAt(1).Is("KEY"):
			col.IsPrimary = true
			p.pos += 2
		case p.peek().Is("REFERENCES"):
			start := p.pos
			ref, err := p.references([]string{col.Name})
			if err != nil {
				// keep the clause as type text, like any other modifier
				warning = err.Error()
				typeToks = append(typeToks, p.toks[start:p.pos]...)
				continue
			}
			fk = ref
			typeToks = append(typeToks, p.toks[start:p.pos]...)
		default:
			typeToks = append(typeToks, p.peek())
			p.pos++
		}
	}

	col.Type = joinTokens(p.src, typeToks)
	return definition{kind: itemColumn, column: col, foreignKey: fk, warning: warning}, nil
}

// qualifiedName reads name or schema.name
func (p *itemParser) qualifiedName() string {
	name := ""
	for isIdent(p.peek()) {
		name += p.peek().Name()
		p.pos++
		if p.peek().Kind == KindDot && isIdent(p.peekAt(1)) {
			name += "."
			p.pos++
			continue
		}
		break
	}
	return name
}

// identList reads a parenthesized, comma-separated identifier list.
// Per-column modifiers such as ASC/DESC or a length are ignored.
func (p *itemParser) identList() ([]string, bool) {
	if p.peek().Kind != KindLParen {
		return nil, false
	}
	p.pos++

	var names []string
	expectName := true
	depth := 0
	for p.pos < len(p.toks) {
		tok := p.peek()
		p.pos++
		switch {
		case tok.Kind == KindLParen:
			depth++
		case tok.Kind == KindRParen && depth > 0:
			depth--
		case tok.Kind == KindRParen:
			return names, len(names) > 0
		case tok.Kind == KindComma && depth == 0:
			expectName = true
		case expectName && depth == 0 && isIdent(tok):
			names = append(names, tok.Name())
			expectName = false
		}
	}
	return names, false
}
