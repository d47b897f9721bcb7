package main

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/chazu/binop/vm"
)

// parseLiteral parses an operand written as a literal: None, True, False,
// NotImplemented, ints of any size, floats, quoted strings, b"..." bytes,
// bytearray(b"..."), [lists], (tuples) and Name() instances of classes
// registered with the VM.
func parseLiteral(v *vm.VM, src string) (vm.Value, error) {
	p := &literalParser{vm: v, src: src}
	val, err := p.value()
	if err != nil {
		return vm.Value{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return vm.Value{}, fmt.Errorf("unexpected %q at offset %d", p.src[p.pos:], p.pos)
	}
	return val, nil
}

type literalParser struct {
	vm  *vm.VM
	src string
	pos int
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *literalParser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *literalParser) value() (vm.Value, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return vm.Value{}, fmt.Errorf("unexpected end of input")
	}

	switch c := p.src[p.pos]; {
	case c == '[':
		return p.sequence(']')
	case c == '(':
		return p.sequence(')')
	case c == '\'' || c == '"':
		s, err := p.quoted()
		if err != nil {
			return vm.Value{}, err
		}
		return p.vm.NewStr(s), nil
	case c == 'b' && p.pos+1 < len(p.src) && (p.src[p.pos+1] == '\'' || p.src[p.pos+1] == '"'):
		p.pos++
		s, err := p.quoted()
		if err != nil {
			return vm.Value{}, err
		}
		return p.vm.NewBytes([]byte(s)), nil
	}

	start := p.pos
	word := p.word()
	switch word {
	case "":
		return vm.Value{}, fmt.Errorf("unexpected %q at offset %d", p.src[p.pos:], p.pos)
	case "None":
		return vm.None, nil
	case "NotImplemented":
		return vm.NotImplemented, nil
	case "True":
		return vm.True, nil
	case "False":
		return vm.False, nil
	case "bytearray":
		return p.bytearray()
	}

	if p.peek() == '(' {
		return p.instance(word, start)
	}
	if n, ok := new(big.Int).SetString(word, 0); ok {
		return vm.FromBigInt(n), nil
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(word, "_", ""), 64); err == nil {
		return vm.FromFloat64(f), nil
	}
	return vm.Value{}, fmt.Errorf("invalid literal %q at offset %d", word, start)
}

// word consumes a run of characters that can't start or end a compound
// literal.
func (p *literalParser) word() string {
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune(" \t,[]()'\"", rune(p.src[p.pos])) {
		p.pos++
	}
	return p.src[start:p.pos]
}

// sequence parses a list or a tuple. A parenthesized value without a comma
// is just that value.
func (p *literalParser) sequence(closer byte) (vm.Value, error) {
	p.pos++ // opener
	var elems []vm.Value
	sawComma := false
	for {
		p.skipSpace()
		if p.peek() == closer {
			p.pos++
			break
		}
		elem, err := p.value()
		if err != nil {
			return vm.Value{}, err
		}
		elems = append(elems, elem)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			sawComma = true
		case closer:
		default:
			return vm.Value{}, fmt.Errorf("expected ',' or %q at offset %d", closer, p.pos)
		}
	}

	if closer == ']' {
		return p.vm.NewList(elems...), nil
	}
	if len(elems) == 1 && !sawComma {
		return elems[0], nil
	}
	return p.vm.NewTuple(elems...), nil
}

// quoted parses a single- or double-quoted string with Go escapes.
func (p *literalParser) quoted() (string, error) {
	quote := p.src[p.pos]
	start := p.pos
	p.pos++

	var sb strings.Builder
	sb.WriteByte('"')
	for {
		if p.pos >= len(p.src) {
			return "", fmt.Errorf("unterminated string at offset %d", start)
		}
		c := p.src[p.pos]
		p.pos++
		switch {
		case c == quote:
			sb.WriteByte('"')
			s, err := strconv.Unquote(sb.String())
			if err != nil {
				return "", fmt.Errorf("invalid string at offset %d: %w", start, err)
			}
			return s, nil
		case c == '\\' && p.pos < len(p.src):
			next := p.src[p.pos]
			p.pos++
			if next == '\'' {
				sb.WriteByte('\'')
			} else {
				sb.WriteByte('\\')
				sb.WriteByte(next)
			}
		case c == '"':
			sb.WriteString(`\"`)
		default:
			sb.WriteByte(c)
		}
	}
}

// instance parses Name() as a new instance of the class registered as Name.
// Only classes with the plain object layout can be created this way.
func (p *literalParser) instance(name string, start int) (vm.Value, error) {
	class := p.vm.Classes.Lookup(name)
	if class == nil {
		return vm.Value{}, fmt.Errorf("unknown class %q at offset %d", name, start)
	}
	if class.Kind != vm.KindObject {
		return vm.Value{}, fmt.Errorf("%s instances can't be written as %s()", name, name)
	}
	p.pos++ // (
	p.skipSpace()
	if p.peek() != ')' {
		return vm.Value{}, fmt.Errorf("expected ')' at offset %d", p.pos)
	}
	p.pos++
	return p.vm.NewInstance(class, nil), nil
}

func (p *literalParser) bytearray() (vm.Value, error) {
	p.skipSpace()
	if p.peek() != '(' {
		return vm.Value{}, fmt.Errorf("expected '(' after bytearray at offset %d", p.pos)
	}
	p.pos++
	p.skipSpace()

	var b []byte
	if p.peek() != ')' {
		inner, err := p.value()
		if err != nil {
			return vm.Value{}, err
		}
		if !inner.IsObject() {
			return vm.Value{}, fmt.Errorf("bytearray() expects a bytes literal")
		}
		raw, ok := inner.Object().Payload().([]byte)
		if !ok {
			return vm.Value{}, fmt.Errorf("bytearray() expects a bytes literal")
		}
		b = append([]byte{}, raw...)
		p.skipSpace()
	}
	if p.peek() != ')' {
		return vm.Value{}, fmt.Errorf("expected ')' at offset %d", p.pos)
	}
	p.pos++
	return p.vm.NewByteArray(b), nil
}
