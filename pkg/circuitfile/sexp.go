package circuitfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Node is a parsed s-expression: a Symbol, a String or a *List.
type Node interface {
	String() string
}

// Symbol is an unquoted atom (keyword, number, yes/no).
type Symbol string

func (s Symbol) String() string { return string(s) }

// String is a quoted atom.
type String string

func (s String) String() string { return quote(string(s)) }

// List is a parenthesised sequence of nodes.
type List struct {
	Elements []Node
	Line     int
}

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, elem := range l.Elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(elem.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Head returns the leading keyword of the list, or "".
func (l *List) Head() string {
	if len(l.Elements) == 0 {
		return ""
	}
	if sym, ok := l.Elements[0].(Symbol); ok {
		return string(sym)
	}
	return ""
}

// Args returns every element after the keyword.
func (l *List) Args() []Node {
	if len(l.Elements) <= 1 {
		return nil
	}
	return l.Elements[1:]
}

// Find returns the first child list whose keyword is key.
func (l *List) Find(key string) (*List, bool) {
	for _, elem := range l.Elements {
		if sub, ok := elem.(*List); ok && sub.Head() == key {
			return sub, true
		}
	}
	return nil, false
}

// FindAll returns every child list whose keyword is key.
func (l *List) FindAll(key string) []*List {
	var out []*List
	for _, elem := range l.Elements {
		if sub, ok := elem.(*List); ok && sub.Head() == key {
			out = append(out, sub)
		}
	}
	return out
}

func quote(s string) string {
	return `"` + escaper.Replace(s) + `"`
}

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenLeftParen
	tokenRightParen
	tokenSymbol
	tokenString
)

type token struct {
	typ   tokenType
	value string
	line  int
}

// lexer tokenizes s-expressions from an io.Reader.
type lexer struct {
	reader *bufio.Reader
	peeked *rune
	line   int
}

func newLexer(r io.Reader) *lexer {
	return &lexer{reader: bufio.NewReader(r), line: 1}
}

func (l *lexer) next() (token, error) {
	// Skip whitespace and comments
	for {
		ch, err := l.peek()
		if errors.Is(err, io.EOF) {
			return token{typ: tokenEOF, line: l.line}, nil
		}
		if err != nil {
			return token{}, err
		}
		if unicode.IsSpace(ch) {
			l.read()
			continue
		}
		if ch == '#' {
			for {
				c, err := l.read()
				if err != nil || c == '\n' {
					break
				}
			}
			continue
		}
		break
	}

	ch, _ := l.peek()
	switch ch {
	case '(':
		l.read()
		return token{typ: tokenLeftParen, value: "(", line: l.line}, nil
	case ')':
		l.read()
		return token{typ: tokenRightParen, value: ")", line: l.line}, nil
	case '"':
		return l.readString()
	default:
		return l.readSymbol()
	}
}

func (l *lexer) peek() (rune, error) {
	if l.peeked != nil {
		return *l.peeked, nil
	}
	ch, _, err := l.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	l.peeked = &ch
	return ch, nil
}

func (l *lexer) read() (rune, error) {
	var ch rune
	if l.peeked != nil {
		ch = *l.peeked
		l.peeked = nil
	} else {
		var err error
		ch, _, err = l.reader.ReadRune()
		if err != nil {
			return 0, err
		}
	}
	if ch == '\n' {
		l.line++
	}
	return ch, nil
}

func (l *lexer) readString() (token, error) {
	start := l.line
	l.read() // opening quote

	var b strings.Builder
	for {
		ch, err := l.read()
		if err != nil {
			return token{}, fmt.Errorf("line %d: unterminated string", start)
		}
		if ch == '"' {
			break
		}
		if ch == '\\' {
			next, err := l.read()
			if err != nil {
				return token{}, fmt.Errorf("line %d: unterminated string", start)
			}
			switch next {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			default:
				b.WriteRune(next)
			}
			continue
		}
		b.WriteRune(ch)
	}
	return token{typ: tokenString, value: b.String(), line: start}, nil
}

func (l *lexer) readSymbol() (token, error) {
	var b strings.Builder
	for {
		ch, err := l.peek()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return token{}, err
		}
		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' {
			break
		}
		l.read()
		b.WriteRune(ch)
	}
	return token{typ: tokenSymbol, value: b.String(), line: l.line}, nil
}

// parser builds nodes from the token stream.
type parser struct {
	lexer   *lexer
	current token
}

// parseAll parses every top-level expression of the input.
func parseAll(r io.Reader) ([]Node, error) {
	p := &parser{lexer: newLexer(r)}
	var result []Node
	for {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.current.typ == tokenEOF {
			return result, nil
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		result = append(result, expr)
	}
}

func (p *parser) advance() error {
	tok, err := p.lexer.next()
	if err != nil {
		return err
	}
	p.current = tok
	return nil
}

func (p *parser) parseExpr() (Node, error) {
	switch p.current.typ {
	case tokenLeftParen:
		return p.parseList()
	case tokenSymbol:
		return Symbol(p.current.value), nil
	case tokenString:
		return String(p.current.value), nil
	case tokenRightParen:
		return nil, fmt.Errorf("line %d: unexpected ')'", p.current.line)
	default:
		return nil, fmt.Errorf("line %d: unexpected end of input", p.current.line)
	}
}

func (p *parser) parseList() (Node, error) {
	list := &List{Line: p.current.line}
	for {
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch p.current.typ {
		case tokenRightParen:
			return list, nil
		case tokenEOF:
			return nil, fmt.Errorf("line %d: unexpected end of input in list", list.Line)
		}
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list.Elements = append(list.Elements, elem)
	}
}
