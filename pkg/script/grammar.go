// Package script implements a small line-oriented command language that
// drives the circuit editor without a window.
//
//	# blink circuit
//	place resistor 300 250 as r1
//	place led 200 150 as d1
//	wire r1.A d1.Anode
//	set r1 value "330"
//	zoom in 400 300
//
// Each line holds one command. References are aliases given with "as" or
// component ids; pins are addressed by name.
package script

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ScriptLexer defines the lexical structure of editor scripts.
var ScriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "EOL", Pattern: `[\n\r]+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Number", Pattern: `[-+]?[0-9]+(?:\.[0-9]+)?`},
	// Identifiers cover aliases, component ids (resistor-1) and pin names (RB0/INT)
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_\-/]*`},
	{Name: "Dot", Pattern: `\.`},
})

// Script is a parsed script file.
type Script struct {
	Lines []*Line `@@*`
}

// Commands returns the non-empty lines in order.
func (s *Script) Commands() []*Command {
	var out []*Command
	for _, l := range s.Lines {
		if l.Command != nil {
			out = append(out, l.Command)
		}
	}
	return out
}

// Line is one line of a script; blank and comment-only lines have no command.
type Line struct {
	Command *Command `@@? EOL`
}

// Command is a single editor action.
type Command struct {
	Pos lexer.Position

	Place   *Place    `  @@`
	Move    *Move     `| @@`
	Remove  *Remove   `| @@`
	Select  *Select   `| @@`
	Palette *Palette  `| @@`
	Click   *Click    `| @@`
	Wire    *WirePins `| "wire" @@`
	Unwire  *WirePins `| "unwire" @@`
	Cancel  bool      `| @"cancel"`
	Zoom    *Zoom     `| @@`
	Pan     *Pan      `| @@`
	Set     *SetProp  `| @@`
	Label   *SetLabel `| @@`
}

// PinRef addresses a pin as <ref>.<pin name>.
type PinRef struct {
	Ref string `@Ident Dot`
	Pin string `@Ident`
}

func (p PinRef) String() string {
	return p.Ref + "." + p.Pin
}

// Place is: place <type> <x> <y> [as <alias>]
type Place struct {
	Type  string  `"place" @Ident`
	X     float64 `@Number`
	Y     float64 `@Number`
	Alias string  `( "as" @Ident )?`
}

// Move is: move <ref> <x> <y>
type Move struct {
	Ref string  `"move" @Ident`
	X   float64 `@Number`
	Y   float64 `@Number`
}

// Remove is: remove <ref>
type Remove struct {
	Ref string `"remove" @Ident`
}

// Select is: select <ref>|none
type Select struct {
	Ref string `"select" @Ident`
}

// Palette is: palette <type>|none
type Palette struct {
	Type string `"palette" @Ident`
}

// Click is: click <ref>.<pin>
type Click struct {
	Pin PinRef `"click" @@`
}

// WirePins is the argument list of wire and unwire.
type WirePins struct {
	From PinRef `@@`
	To   PinRef `@@`
}

// Zoom is: zoom in|out <x> <y>
type Zoom struct {
	Direction string  `"zoom" @( "in" | "out" )`
	X         float64 `@Number`
	Y         float64 `@Number`
}

// Pan is: pan <dx> <dy>
type Pan struct {
	DX float64 `"pan" @Number`
	DY float64 `@Number`
}

// SetProp is: set <ref> <key> <value>
type SetProp struct {
	Ref   string `"set" @Ident`
	Key   string `@Ident`
	Value Value  `@@`
}

// SetLabel is: label <ref> "<text>"
type SetLabel struct {
	Ref  string `"label" @Ident`
	Text string `@String`
}

// Value is a property value literal.
type Value struct {
	Str    *string  `  @String`
	Number *float64 `| @Number`
	Bool   *string  `| @( "yes" | "no" | "true" | "false" )`
	Word   *string  `| @Ident`
}

// Any converts the literal to the Go value stored in component properties.
func (v Value) Any() any {
	switch {
	case v.Str != nil:
		return *v.Str
	case v.Number != nil:
		return *v.Number
	case v.Bool != nil:
		return *v.Bool == "yes" || *v.Bool == "true"
	case v.Word != nil:
		return *v.Word
	}
	return nil
}

// Parser represents an editor script parser
type Parser struct {
	parser *participle.Parser[Script]
}

// NewParser creates a new script parser instance
func NewParser() (*Parser, error) {
	parser, err := participle.Build[Script](
		participle.Lexer(ScriptLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// ParseString parses a script from a string
func (p *Parser) ParseString(input string) (*Script, error) {
	// Every line, including the last one, must end in EOL.
	if !strings.HasSuffix(input, "\n") {
		input += "\n"
	}
	s, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return s, nil
}

// Parse parses a script from a reader
func (p *Parser) Parse(r io.Reader) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return p.ParseString(string(data))
}

// ParseFile parses a script from a file path
func (p *Parser) ParseFile(filename string) (*Script, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}
