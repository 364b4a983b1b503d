package stimpl

import (
	"context"
	"fmt"

	"github.com/vito/stimpl/pkg/ioctx"
)

// Variable reads a bound name.
type Variable struct {
	Located
	Name string
}

var _ Node = (*Variable)(nil)

func (v *Variable) Eval(ctx context.Context, env *Env) (Result, error) {
	b, found := env.Lookup(v.Name)
	if !found {
		return Result{}, syntaxError(v, "cannot read from %s before assignment", v.Name)
	}
	return Result{Value: b.Value, Type: b.Type, Env: env}, nil
}

func (v *Variable) String() string {
	return fmt.Sprintf("Variable(%s)", v.Name)
}

// Assign binds Name to the result of Value. Once a name is bound, later
// assignments must keep its type.
type Assign struct {
	Located
	Name  string
	Value Node
}

var _ Node = (*Assign)(nil)

func (a *Assign) Eval(ctx context.Context, env *Env) (Result, error) {
	res, err := Evaluate(ctx, a.Value, env)
	if err != nil {
		return Result{}, err
	}

	if prior, found := res.Env.Lookup(a.Name); found && prior.Type != res.Type {
		return Result{}, typeError(a,
			"mismatched types for Assign: cannot assign %s to %s (%s)",
			res.Type, a.Name, prior.Type)
	}

	res.Env = res.Env.Bind(a.Name, res.Value, res.Type)
	return res, nil
}

func (a *Assign) String() string {
	return fmt.Sprintf("Assign(%s, %s)", a.Name, nodeString(a.Value))
}

// Print writes the value of Expr as one line to the context's stdout and
// passes the result through untouched.
type Print struct {
	Located
	Expr Node
}

var _ Node = (*Print)(nil)

func (p *Print) Eval(ctx context.Context, env *Env) (Result, error) {
	res, err := Evaluate(ctx, p.Expr, env)
	if err != nil {
		return Result{}, err
	}

	text := "Unit"
	if res.Type != UnitType {
		text = valueString(res.Value)
	}
	if _, err := fmt.Fprintln(ioctx.StdoutFromContext(ctx), text); err != nil {
		return Result{}, fmt.Errorf("print: %w", err)
	}

	return res, nil
}

func (p *Print) String() string {
	return fmt.Sprintf("Print(%s)", nodeString(p.Expr))
}

// Sequence evaluates its expressions in order, threading the environment
// through each. Bindings made inside a sequence outlive it.
type Sequence struct {
	Located
	Exprs []Node
}

var _ Node = (*Sequence)(nil)

func (s *Sequence) Eval(ctx context.Context, env *Env) (Result, error) {
	return evalSequence(ctx, s.Exprs, env)
}

func (s *Sequence) String() string {
	return fmt.Sprintf("Sequence(%s)", joinNodes(s.Exprs))
}

// Program is the top-level sequence.
type Program struct {
	Located
	Exprs []Node
}

var _ Node = (*Program)(nil)

func (p *Program) Eval(ctx context.Context, env *Env) (Result, error) {
	return evalSequence(ctx, p.Exprs, env)
}

func (p *Program) String() string {
	return fmt.Sprintf("Program(%s)", joinNodes(p.Exprs))
}

func evalSequence(ctx context.Context, exprs []Node, env *Env) (Result, error) {
	res := unitResult(env)
	for _, expr := range exprs {
		var err error
		res, err = Evaluate(ctx, expr, res.Env)
		if err != nil {
			return Result{}, err
		}
	}
	return res, nil
}

// Not negates a Boolean.
type Not struct {
	Located
	Expr Node
}

var _ Node = (*Not)(nil)

func (n *Not) Eval(ctx context.Context, env *Env) (Result, error) {
	res, err := Evaluate(ctx, n.Expr, env)
	if err != nil {
		return Result{}, err
	}
	b, ok := res.Value.(BoolValue)
	if res.Type != BooleanType || !ok {
		return Result{}, typeError(n, "cannot perform Not on type %s", res.Type)
	}
	return boolResult(!b.Val, res.Env), nil
}

func (n *Not) String() string {
	return fmt.Sprintf("Not(%s)", nodeString(n.Expr))
}

// If evaluates exactly one of its branches.
type If struct {
	Located
	Condition Node
	Then      Node
	Else      Node
}

var _ Node = (*If)(nil)

func (i *If) Eval(ctx context.Context, env *Env) (Result, error) {
	cond, env, err := evalCondition(ctx, i, "If", i.Condition, env)
	if err != nil {
		return Result{}, err
	}
	if cond {
		return Evaluate(ctx, i.Then, env)
	}
	return Evaluate(ctx, i.Else, env)
}

func (i *If) String() string {
	return fmt.Sprintf("If(%s, %s, %s)", nodeString(i.Condition), nodeString(i.Then), nodeString(i.Else))
}

// While re-evaluates Body for as long as Condition holds. Whatever the body
// produced, a finished loop evaluates to false.
type While struct {
	Located
	Condition Node
	Body      Node
}

var _ Node = (*While)(nil)

func (w *While) Eval(ctx context.Context, env *Env) (Result, error) {
	cond, env, err := evalCondition(ctx, w, "While", w.Condition, env)
	if err != nil {
		return Result{}, err
	}

	for cond {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("While: %w", err)
		}

		body, err := Evaluate(ctx, w.Body, env)
		if err != nil {
			return Result{}, err
		}

		cond, env, err = evalCondition(ctx, w, "While", w.Condition, body.Env)
		if err != nil {
			return Result{}, err
		}
	}

	return boolResult(false, env), nil
}

func (w *While) String() string {
	return fmt.Sprintf("While(%s, %s)", nodeString(w.Condition), nodeString(w.Body))
}

func evalCondition(ctx context.Context, owner Node, form string, cond Node, env *Env) (bool, *Env, error) {
	res, err := Evaluate(ctx, cond, env)
	if err != nil {
		return false, nil, err
	}
	b, ok := res.Value.(BoolValue)
	if res.Type != BooleanType || !ok {
		return false, nil, typeError(owner,
			"cannot evaluate %s condition %s with type %s",
			form, valueString(res.Value), res.Type)
	}
	return b.Val, res.Env, nil
}
