package stimpl

import (
	"context"
	"fmt"
	"strconv"
)

// UnitLiteral evaluates to the Unit value.
type UnitLiteral struct {
	Located
}

var _ Node = (*UnitLiteral)(nil)

func (u *UnitLiteral) Eval(ctx context.Context, env *Env) (Result, error) {
	return unitResult(env), nil
}

func (u *UnitLiteral) String() string { return "UnitLiteral()" }

// IntLiteral represents an integer literal
type IntLiteral struct {
	Located
	Value int64
}

var _ Node = (*IntLiteral)(nil)

func (l *IntLiteral) Eval(ctx context.Context, env *Env) (Result, error) {
	return valueResult(IntValue{Val: l.Value}, env), nil
}

func (l *IntLiteral) String() string {
	return fmt.Sprintf("IntLiteral(%d)", l.Value)
}

// FloatLiteral represents a floating-point literal
type FloatLiteral struct {
	Located
	Value float64
}

var _ Node = (*FloatLiteral)(nil)

func (l *FloatLiteral) Eval(ctx context.Context, env *Env) (Result, error) {
	return valueResult(FloatValue{Val: l.Value}, env), nil
}

func (l *FloatLiteral) String() string {
	return fmt.Sprintf("FloatingPointLiteral(%s)", FloatValue{Val: l.Value})
}

// StringLiteral represents a string literal
type StringLiteral struct {
	Located
	Value string
}

var _ Node = (*StringLiteral)(nil)

func (l *StringLiteral) Eval(ctx context.Context, env *Env) (Result, error) {
	return valueResult(StringValue{Val: l.Value}, env), nil
}

func (l *StringLiteral) String() string {
	return fmt.Sprintf("StringLiteral(%s)", strconv.Quote(l.Value))
}

// BoolLiteral represents a boolean literal
type BoolLiteral struct {
	Located
	Value bool
}

var _ Node = (*BoolLiteral)(nil)

func (l *BoolLiteral) Eval(ctx context.Context, env *Env) (Result, error) {
	return valueResult(BoolValue{Val: l.Value}, env), nil
}

func (l *BoolLiteral) String() string {
	return fmt.Sprintf("BooleanLiteral(%t)", l.Value)
}
