package stimpl

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

// Result is what every evaluation step produces: a value, its type, and
// the environment to hand to the next step.
type Result struct {
	Value Value
	Type  TypeTag
	Env   *Env
}

func (r Result) String() string {
	return fmt.Sprintf("(%s, %s)", valueString(r.Value), r.Type)
}

func unitResult(env *Env) Result {
	return Result{Value: UnitValue{}, Type: UnitType, Env: env}
}

func boolResult(v bool, env *Env) Result {
	return Result{Value: BoolValue{Val: v}, Type: BooleanType, Env: env}
}

func valueResult(v Value, env *Env) Result {
	return Result{Value: v, Type: v.Type(), Env: env}
}

func valueString(v Value) string {
	if v == nil {
		return UnitValue{}.String()
	}
	return v.String()
}

// Evaluator defines the interface for evaluating AST nodes
type Evaluator interface {
	Eval(ctx context.Context, env *Env) (Result, error)
}

// SourceLocatable is implemented by anything that may know where it came
// from.
type SourceLocatable interface {
	GetSourceLocation() *SourceLocation
}

// Node is an expression in a program.
type Node interface {
	Evaluator
	SourceLocatable
	fmt.Stringer
}

// Located holds an optional source location for a node.
type Located struct {
	Loc *SourceLocation
}

func (l *Located) GetSourceLocation() *SourceLocation { return l.Loc }

func (l *Located) SetSourceLocation(loc *SourceLocation) { l.Loc = loc }

// Evaluate evaluates node against env. Nil nodes have no evaluation rule
// and fail with a syntax error.
func Evaluate(ctx context.Context, node Node, env *Env) (Result, error) {
	if isNilNode(node) {
		return Result{}, syntaxError(nil, "unhandled node: %v", node)
	}
	if env == nil {
		env = NewEnv()
	}
	return node.Eval(ctx, env)
}

func isNilNode(node Node) bool {
	if node == nil {
		return true
	}
	v := reflect.ValueOf(node)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func joinNodes(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = nodeString(n)
	}
	return strings.Join(parts, ", ")
}

func nodeString(n Node) string {
	if isNilNode(n) {
		return "<nil>"
	}
	return n.String()
}
