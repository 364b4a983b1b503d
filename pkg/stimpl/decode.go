package stimpl

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Decode reads a program document. A document describes the AST directly:
// every node is a mapping with a single key naming the node kind, e.g.
//
//	program:
//	  - assign: {name: x, value: {int: 5}}
//	  - print: {variable: x}
//
// Kind names may be written in any case style (IntLiteral, int_literal,
// intLiteral) and literals have short aliases (int, float, string, bool,
// unit). JSON documents are accepted as well.
func Decode(filename string, r io.Reader) (Node, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DecodeError{Filename: filename, Err: errors.New("empty program document")}
		}
		return nil, &DecodeError{Filename: filename, Err: errors.WithStack(err)}
	}
	d := &decoder{filename: filename}
	return d.node(&doc)
}

// DecodeBytes is Decode for an in-memory document.
func DecodeBytes(filename string, src []byte) (Node, error) {
	return Decode(filename, bytes.NewReader(src))
}

// DecodeError reports a malformed program document. Its message already
// names the file, and the position when one is known.
type DecodeError struct {
	Filename string
	Location *SourceLocation
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Location != nil {
		return fmt.Sprintf("%s: %s", e.Location, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Filename, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type decoder struct {
	filename string
}

type binaryConstructor func(left, right Node) Node

var binaryKinds = map[string]binaryConstructor{
	"add":      func(l, r Node) Node { return NewAdd(l, r) },
	"subtract": func(l, r Node) Node { return NewSubtract(l, r) },
	"multiply": func(l, r Node) Node { return NewMultiply(l, r) },
	"divide":   func(l, r Node) Node { return NewDivide(l, r) },
	"and":      func(l, r Node) Node { return NewAnd(l, r) },
	"or":       func(l, r Node) Node { return NewOr(l, r) },
	"lt":       func(l, r Node) Node { return NewLt(l, r) },
	"lte":      func(l, r Node) Node { return NewLte(l, r) },
	"gt":       func(l, r Node) Node { return NewGt(l, r) },
	"gte":      func(l, r Node) Node { return NewGte(l, r) },
	"eq":       func(l, r Node) Node { return NewEq(l, r) },
	"ne":       func(l, r Node) Node { return NewNe(l, r) },
}

func (d *decoder) loc(n *yaml.Node) *SourceLocation {
	return &SourceLocation{
		Filename: d.filename,
		Line:     n.Line,
		Column:   n.Column,
	}
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...any) error {
	return &DecodeError{
		Filename: d.filename,
		Location: d.loc(n),
		Err:      errors.Errorf(format, args...),
	}
}

func (d *decoder) node(n *yaml.Node) (Node, error) {
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil, d.errorf(n, "empty program document")
		}
		return d.node(n.Content[0])
	}
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, d.errorf(n, "expected a mapping with exactly one node kind")
	}

	key, payload := n.Content[0], n.Content[1]
	node, err := d.kind(key, payload)
	if err != nil {
		return nil, err
	}
	if located, ok := node.(interface{ SetSourceLocation(*SourceLocation) }); ok {
		located.SetSourceLocation(d.loc(key))
	}
	return node, nil
}

func (d *decoder) kind(key, payload *yaml.Node) (Node, error) {
	kind := strcase.ToSnake(key.Value)

	switch kind {
	case "unit", "unit_literal", "ren":
		return &UnitLiteral{}, nil

	case "int", "int_literal", "integer_literal":
		var v int64
		if err := payload.Decode(&v); err != nil {
			return nil, d.errorf(payload, "invalid integer literal %q", payload.Value)
		}
		return &IntLiteral{Value: v}, nil

	case "float", "float_literal", "floating_point_literal":
		var v float64
		if err := payload.Decode(&v); err != nil {
			return nil, d.errorf(payload, "invalid floating-point literal %q", payload.Value)
		}
		return &FloatLiteral{Value: v}, nil

	case "string", "string_literal":
		s, err := d.scalar(payload, "string literal")
		if err != nil {
			return nil, err
		}
		return &StringLiteral{Value: s}, nil

	case "bool", "boolean", "bool_literal", "boolean_literal":
		var v bool
		if err := payload.Decode(&v); err != nil {
			return nil, d.errorf(payload, "invalid boolean literal %q", payload.Value)
		}
		return &BoolLiteral{Value: v}, nil

	case "variable", "var":
		name, err := d.name(payload)
		if err != nil {
			return nil, err
		}
		return &Variable{Name: name}, nil

	case "assign":
		fields, err := d.fields(payload, "name", "value")
		if err != nil {
			return nil, err
		}
		name, err := d.name(fields["name"])
		if err != nil {
			return nil, err
		}
		value, err := d.node(fields["value"])
		if err != nil {
			return nil, err
		}
		return &Assign{Name: name, Value: value}, nil

	case "print":
		expr, err := d.node(payload)
		if err != nil {
			return nil, err
		}
		return &Print{Expr: expr}, nil

	case "not":
		expr, err := d.node(payload)
		if err != nil {
			return nil, err
		}
		return &Not{Expr: expr}, nil

	case "sequence", "program":
		exprs, err := d.list(payload)
		if err != nil {
			return nil, err
		}
		if kind == "program" {
			return &Program{Exprs: exprs}, nil
		}
		return &Sequence{Exprs: exprs}, nil

	case "if":
		fields, err := d.fields(payload, "condition", "then", "else")
		if err != nil {
			return nil, err
		}
		nodes, err := d.each(fields["condition"], fields["then"], fields["else"])
		if err != nil {
			return nil, err
		}
		return &If{Condition: nodes[0], Then: nodes[1], Else: nodes[2]}, nil

	case "while":
		fields, err := d.fields(payload, "condition", "body")
		if err != nil {
			return nil, err
		}
		nodes, err := d.each(fields["condition"], fields["body"])
		if err != nil {
			return nil, err
		}
		return &While{Condition: nodes[0], Body: nodes[1]}, nil
	}

	if construct, ok := binaryKinds[kind]; ok {
		operands, err := d.list(payload)
		if err != nil {
			return nil, err
		}
		if len(operands) != 2 {
			return nil, d.errorf(payload, "%s takes exactly 2 operands, got %d", key.Value, len(operands))
		}
		return construct(operands[0], operands[1]), nil
	}

	return nil, &EvalError{
		Kind:     SyntaxErrorKind,
		Message:  "unknown node kind " + key.Value,
		Location: d.loc(key),
	}
}

func (d *decoder) scalar(n *yaml.Node, what string) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", d.errorf(n, "%s must be a scalar", what)
	}
	return n.Value, nil
}

func (d *decoder) name(n *yaml.Node) (string, error) {
	name, err := d.scalar(n, "variable name")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(name) == "" {
		return "", d.errorf(n, "variable name must not be empty")
	}
	return name, nil
}

func (d *decoder) list(n *yaml.Node) ([]Node, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "expected a list of nodes")
	}
	return d.each(n.Content...)
}

func (d *decoder) each(ns ...*yaml.Node) ([]Node, error) {
	nodes := make([]Node, len(ns))
	for i, n := range ns {
		node, err := d.node(n)
		if err != nil {
			return nil, err
		}
		nodes[i] = node
	}
	return nodes, nil
}

// fields returns the values of a mapping that must have exactly the given
// keys.
func (d *decoder) fields(n *yaml.Node, keys ...string) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "expected a mapping with keys %s", strings.Join(keys, ", "))
	}
	fields := make(map[string]*yaml.Node, len(keys))
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if !slices.Contains(keys, k.Value) {
			return nil, d.errorf(k, "unexpected key %q", k.Value)
		}
		fields[k.Value] = n.Content[i+1]
	}
	for _, k := range keys {
		if _, ok := fields[k]; !ok {
			return nil, d.errorf(n, "missing key %q", k)
		}
	}
	return fields, nil
}
