package toml

import (
	"fmt"
	"strconv"
	"strings"
)

// parser builds a tree of map[string]any from the token stream
type parser struct {
	lex   *lexer
	cur   token
	peek  token
	root  map[string]any
	table map[string]any // table receiving key/value pairs
}

func parse(input []byte) (map[string]any, error) {
	p := &parser{lex: newLexer(input), root: make(map[string]any)}
	p.table = p.root
	p.advance()
	p.advance()

	for p.cur.typ != tokenEOF {
		var err error
		switch p.cur.typ {
		case tokenNewline:
			p.advance()
			continue
		case tokenLBracket:
			err = p.parseHeader()
		case tokenIdent, tokenString:
			err = p.parseKeyValue()
		case tokenError:
			err = p.errorf("%s", p.cur.literal)
		default:
			err = p.errorf("unexpected %s", p.cur)
		}
		if err != nil {
			return nil, err
		}
	}
	return p.root, nil
}

func (p *parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.next()
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Line: p.cur.line, Msg: fmt.Sprintf(format, args...)}
}

// parseHeader handles [a.b]; headers always resolve from the root
func (p *parser) parseHeader() error {
	if p.peek.typ == tokenLBracket {
		return p.errorf("arrays of tables are not supported")
	}
	p.advance() // [

	keys, err := p.parseKey()
	if err != nil {
		return err
	}
	if p.cur.typ != tokenRBracket {
		return p.errorf("expected ] after table name, got %s", p.cur)
	}
	p.advance() // ]

	table := p.root
	for _, k := range keys {
		next, err := p.child(table, k)
		if err != nil {
			return err
		}
		table = next
	}
	p.table = table
	return p.endOfLine()
}

func (p *parser) parseKeyValue() error {
	keys, err := p.parseKey()
	if err != nil {
		return err
	}
	if p.cur.typ != tokenEqual {
		return p.errorf("expected = after key, got %s", p.cur)
	}
	p.advance() // =

	val, err := p.parseValue()
	if err != nil {
		return err
	}

	table := p.table
	for _, k := range keys[:len(keys)-1] {
		if table, err = p.child(table, k); err != nil {
			return err
		}
	}
	last := keys[len(keys)-1]
	if _, exists := table[last]; exists {
		return p.errorf("duplicate key %s", last)
	}
	table[last] = val
	return p.endOfLine()
}

// child returns the sub-table k of t, creating it when absent
func (p *parser) child(t map[string]any, k string) (map[string]any, error) {
	existing, ok := t[k]
	if !ok {
		m := make(map[string]any)
		t[k] = m
		return m, nil
	}
	m, ok := existing.(map[string]any)
	if !ok {
		return nil, p.errorf("key %s is not a table", k)
	}
	return m, nil
}

func (p *parser) parseKey() ([]string, error) {
	var keys []string
	for {
		if p.cur.typ != tokenIdent && p.cur.typ != tokenString {
			return nil, p.errorf("expected key, got %s", p.cur)
		}
		keys = append(keys, p.cur.literal)
		p.advance()
		if p.cur.typ != tokenDot {
			return keys, nil
		}
		p.advance()
	}
}

func (p *parser) parseValue() (any, error) {
	tok := p.cur
	switch tok.typ {
	case tokenString:
		p.advance()
		return tok.literal, nil
	case tokenBool:
		p.advance()
		return tok.literal == "true", nil
	case tokenInteger:
		n, err := strconv.ParseInt(strings.ReplaceAll(tok.literal, "_", ""), 10, 64)
		if err != nil {
			return nil, p.errorf("invalid integer %s", tok.literal)
		}
		p.advance()
		return n, nil
	case tokenFloat:
		f, err := strconv.ParseFloat(strings.ReplaceAll(tok.literal, "_", ""), 64)
		if err != nil {
			return nil, p.errorf("invalid float %s", tok.literal)
		}
		p.advance()
		return f, nil
	case tokenLBracket:
		return p.parseArray()
	case tokenError:
		return nil, p.errorf("%s", tok.literal)
	}
	return nil, p.errorf("unexpected value %s", tok)
}

func (p *parser) parseArray() ([]any, error) {
	p.advance() // [
	arr := make([]any, 0)
	for {
		for p.cur.typ == tokenNewline {
			p.advance()
		}
		if p.cur.typ == tokenRBracket {
			p.advance()
			return arr, nil
		}

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)

		for p.cur.typ == tokenNewline {
			p.advance()
		}
		switch p.cur.typ {
		case tokenComma:
			p.advance()
		case tokenRBracket:
		default:
			return nil, p.errorf("expected , or ] in array, got %s", p.cur)
		}
	}
}

func (p *parser) endOfLine() error {
	switch p.cur.typ {
	case tokenNewline:
		p.advance()
		return nil
	case tokenEOF:
		return nil
	}
	return p.errorf("expected end of line, got %s", p.cur)
}
