package stimpl

import (
	"context"
	"fmt"
)

// BinaryOperatorEvaluator computes an operator's value once both operands
// have been evaluated.
type BinaryOperatorEvaluator func(op *BinaryOperator, left, right Value) (Value, error)

// BinaryOperator provides common functionality for binary operators
type BinaryOperator struct {
	Located
	Left     Node
	Right    Node
	OpName   string
	Verb     string // used in "cannot <verb> <T>s"
	EvalFunc BinaryOperatorEvaluator
}

// Eval evaluates both operands, left first, without short-circuiting.
func (b *BinaryOperator) Eval(ctx context.Context, env *Env) (Result, error) {
	if b.EvalFunc == nil {
		return Result{}, syntaxError(b, "unhandled node: %s", b)
	}
	left, err := Evaluate(ctx, b.Left, env)
	if err != nil {
		return Result{}, err
	}
	right, err := Evaluate(ctx, b.Right, left.Env)
	if err != nil {
		return Result{}, err
	}

	val, err := b.EvalFunc(b, left.Value, right.Value)
	if err != nil {
		return Result{}, err
	}
	return valueResult(val, right.Env), nil
}

func (b *BinaryOperator) String() string {
	return fmt.Sprintf("%s(%s, %s)", b.OpName, nodeString(b.Left), nodeString(b.Right))
}

func (b *BinaryOperator) requireSameType(left, right Value) error {
	if left.Type() != right.Type() {
		return typeError(b, "mismatched types for %s: cannot %s %s and %s",
			b.OpName, b.Verb, left.Type(), right.Type())
	}
	return nil
}

func (b *BinaryOperator) unsupported(t TypeTag) error {
	return typeError(b, "cannot %s %ss", b.Verb, t)
}

func operands[T Value](left, right Value) (T, T, bool) {
	l, lok := left.(T)
	r, rok := right.(T)
	return l, r, lok && rok
}

// Arithmetic

func addEval(b *BinaryOperator, left, right Value) (Value, error) {
	if err := b.requireSameType(left, right); err != nil {
		return nil, err
	}
	if l, r, ok := operands[IntValue](left, right); ok {
		return IntValue{Val: l.Val + r.Val}, nil
	}
	if l, r, ok := operands[FloatValue](left, right); ok {
		return FloatValue{Val: l.Val + r.Val}, nil
	}
	if l, r, ok := operands[StringValue](left, right); ok {
		return StringValue{Val: l.Val + r.Val}, nil
	}
	return nil, b.unsupported(left.Type())
}

func subtractEval(b *BinaryOperator, left, right Value) (Value, error) {
	if err := b.requireSameType(left, right); err != nil {
		return nil, err
	}
	if l, r, ok := operands[IntValue](left, right); ok {
		return IntValue{Val: l.Val - r.Val}, nil
	}
	if l, r, ok := operands[FloatValue](left, right); ok {
		return FloatValue{Val: l.Val - r.Val}, nil
	}
	return nil, b.unsupported(left.Type())
}

func multiplyEval(b *BinaryOperator, left, right Value) (Value, error) {
	if err := b.requireSameType(left, right); err != nil {
		return nil, err
	}
	if l, r, ok := operands[IntValue](left, right); ok {
		return IntValue{Val: l.Val * r.Val}, nil
	}
	if l, r, ok := operands[FloatValue](left, right); ok {
		return FloatValue{Val: l.Val * r.Val}, nil
	}
	return nil, b.unsupported(left.Type())
}

// divideEval rejects a zero divisor before looking at operand types.
func divideEval(b *BinaryOperator, left, right Value) (Value, error) {
	if isZero(right) {
		return nil, mathError(b, "division by zero: cannot divide %s by %s", left, right)
	}
	if err := b.requireSameType(left, right); err != nil {
		return nil, err
	}
	if l, r, ok := operands[FloatValue](left, right); ok {
		return FloatValue{Val: l.Val / r.Val}, nil
	}
	if l, r, ok := operands[IntValue](left, right); ok {
		return IntValue{Val: floorDiv(l.Val, r.Val)}, nil
	}
	return nil, b.unsupported(left.Type())
}

// floorDiv rounds toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Logic

func andEval(b *BinaryOperator, left, right Value) (Value, error) {
	l, r, err := booleanOperands(b, left, right)
	if err != nil {
		return nil, err
	}
	return BoolValue{Val: l && r}, nil
}

func orEval(b *BinaryOperator, left, right Value) (Value, error) {
	l, r, err := booleanOperands(b, left, right)
	if err != nil {
		return nil, err
	}
	return BoolValue{Val: l || r}, nil
}

func booleanOperands(b *BinaryOperator, left, right Value) (bool, bool, error) {
	if err := b.requireSameType(left, right); err != nil {
		return false, false, err
	}
	l, r, ok := operands[BoolValue](left, right)
	if !ok {
		return false, false, typeError(b, "cannot perform logical %s on %s operands", b.Verb, left.Type())
	}
	return l.Val, r.Val, nil
}

// Comparison

type relation int

const (
	lessThan relation = iota
	lessThanEqual
	greaterThan
	greaterThanEqual
)

// unit is neither less nor greater than itself but is reflexively <= and >=.
func (rel relation) unit() bool {
	return rel == lessThanEqual || rel == greaterThanEqual
}

func holds[T int64 | float64 | string](rel relation, l, r T) bool {
	switch rel {
	case lessThan:
		return l < r
	case lessThanEqual:
		return l <= r
	case greaterThan:
		return l > r
	default:
		return l >= r
	}
}

func boolRank(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func orderingEval(rel relation) BinaryOperatorEvaluator {
	return func(b *BinaryOperator, left, right Value) (Value, error) {
		if err := b.requireSameType(left, right); err != nil {
			return nil, err
		}
		if l, r, ok := operands[IntValue](left, right); ok {
			return BoolValue{Val: holds(rel, l.Val, r.Val)}, nil
		}
		if l, r, ok := operands[FloatValue](left, right); ok {
			return BoolValue{Val: holds(rel, l.Val, r.Val)}, nil
		}
		if l, r, ok := operands[StringValue](left, right); ok {
			return BoolValue{Val: holds(rel, l.Val, r.Val)}, nil
		}
		if l, r, ok := operands[BoolValue](left, right); ok {
			return BoolValue{Val: holds(rel, boolRank(l.Val), boolRank(r.Val))}, nil
		}
		if left.Type() == UnitType {
			return BoolValue{Val: rel.unit()}, nil
		}
		return nil, b.unsupported(left.Type())
	}
}

func equalityEval(negate bool) BinaryOperatorEvaluator {
	return func(b *BinaryOperator, left, right Value) (Value, error) {
		if err := b.requireSameType(left, right); err != nil {
			return nil, err
		}
		if left.Type() == UnitType {
			return BoolValue{Val: !negate}, nil
		}
		eq, err := valuesEqual(b, left, right)
		if err != nil {
			return nil, err
		}
		return BoolValue{Val: eq != negate}, nil
	}
}

func valuesEqual(b *BinaryOperator, left, right Value) (bool, error) {
	if l, r, ok := operands[IntValue](left, right); ok {
		return l.Val == r.Val, nil
	}
	if l, r, ok := operands[FloatValue](left, right); ok {
		return l.Val == r.Val, nil
	}
	if l, r, ok := operands[StringValue](left, right); ok {
		return l.Val == r.Val, nil
	}
	if l, r, ok := operands[BoolValue](left, right); ok {
		return l.Val == r.Val, nil
	}
	return false, b.unsupported(left.Type())
}

// Node kinds

func newBinaryOperator(left, right Node, name, verb string, fn BinaryOperatorEvaluator) BinaryOperator {
	return BinaryOperator{
		Left:     left,
		Right:    right,
		OpName:   name,
		Verb:     verb,
		EvalFunc: fn,
	}
}

type Add struct {
	BinaryOperator
}

var _ Node = (*Add)(nil)

func NewAdd(left, right Node) *Add {
	return &Add{newBinaryOperator(left, right, "Add", "add", addEval)}
}

type Subtract struct {
	BinaryOperator
}

var _ Node = (*Subtract)(nil)

func NewSubtract(left, right Node) *Subtract {
	return &Subtract{newBinaryOperator(left, right, "Subtract", "subtract", subtractEval)}
}

type Multiply struct {
	BinaryOperator
}

var _ Node = (*Multiply)(nil)

func NewMultiply(left, right Node) *Multiply {
	return &Multiply{newBinaryOperator(left, right, "Multiply", "multiply", multiplyEval)}
}

type Divide struct {
	BinaryOperator
}

var _ Node = (*Divide)(nil)

func NewDivide(left, right Node) *Divide {
	return &Divide{newBinaryOperator(left, right, "Divide", "divide", divideEval)}
}

type And struct {
	BinaryOperator
}

var _ Node = (*And)(nil)

func NewAnd(left, right Node) *And {
	return &And{newBinaryOperator(left, right, "And", "and", andEval)}
}

type Or struct {
	BinaryOperator
}

var _ Node = (*Or)(nil)

func NewOr(left, right Node) *Or {
	return &Or{newBinaryOperator(left, right, "Or", "or", orEval)}
}

type Lt struct {
	BinaryOperator
}

var _ Node = (*Lt)(nil)

func NewLt(left, right Node) *Lt {
	return &Lt{newBinaryOperator(left, right, "Lt", "compare", orderingEval(lessThan))}
}

type Lte struct {
	BinaryOperator
}

var _ Node = (*Lte)(nil)

func NewLte(left, right Node) *Lte {
	return &Lte{newBinaryOperator(left, right, "Lte", "compare", orderingEval(lessThanEqual))}
}

type Gt struct {
	BinaryOperator
}

var _ Node = (*Gt)(nil)

func NewGt(left, right Node) *Gt {
	return &Gt{newBinaryOperator(left, right, "Gt", "compare", orderingEval(greaterThan))}
}

type Gte struct {
	BinaryOperator
}

var _ Node = (*Gte)(nil)

func NewGte(left, right Node) *Gte {
	return &Gte{newBinaryOperator(left, right, "Gte", "compare", orderingEval(greaterThanEqual))}
}

type Eq struct {
	BinaryOperator
}

var _ Node = (*Eq)(nil)

func NewEq(left, right Node) *Eq {
	return &Eq{newBinaryOperator(left, right, "Eq", "compare", equalityEval(false))}
}

type Ne struct {
	BinaryOperator
}

var _ Node = (*Ne)(nil)

func NewNe(left, right Node) *Ne {
	return &Ne{newBinaryOperator(left, right, "Ne", "compare", equalityEval(true))}
}
