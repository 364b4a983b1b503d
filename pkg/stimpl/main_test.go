package stimpl

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/dagger/testctx/oteltest"

	"github.com/vito/stimpl/pkg/ioctx"
)

func TestMain(m *testing.M) {
	os.Exit(oteltest.Main(m))
}

// runProgram evaluates node from the empty environment and returns whatever
// it printed.
func runProgram(ctx context.Context, node Node) (Result, string, error) {
	var out bytes.Buffer
	ctx = ioctx.StdoutToContext(ctx, &out)
	res, err := Evaluate(ctx, node, NewEnv())
	return res, out.String(), err
}

func prog(exprs ...Node) *Program      { return &Program{Exprs: exprs} }
func seq(exprs ...Node) *Sequence      { return &Sequence{Exprs: exprs} }
func unitLit() *UnitLiteral            { return &UnitLiteral{} }
func intLit(v int64) *IntLiteral       { return &IntLiteral{Value: v} }
func floatLit(v float64) *FloatLiteral { return &FloatLiteral{Value: v} }
func strLit(v string) *StringLiteral   { return &StringLiteral{Value: v} }
func boolLit(v bool) *BoolLiteral      { return &BoolLiteral{Value: v} }
func varRef(name string) *Variable     { return &Variable{Name: name} }
func printOf(expr Node) *Print         { return &Print{Expr: expr} }

func assign(name string, value Node) *Assign {
	return &Assign{Name: name, Value: value}
}
