package stimpl

import (
	"fmt"
	"iter"
	"strings"
)

// Binding is a single name bound to a typed value.
type Binding struct {
	Name  string
	Value Value
	Type  TypeTag
}

func (b Binding) String() string {
	return fmt.Sprintf("%s: (%s, %s)", b.Name, b.Value, b.Type)
}

// Env is an immutable chain of bindings. Binding a name never modifies an
// existing Env; it returns a new head whose parent is the receiver, so any
// holder of an older Env keeps seeing the older state.
//
// The empty environment is an Env with no binding. A nil *Env is treated
// the same way.
type Env struct {
	binding *Binding
	parent  *Env
}

var emptyEnv = &Env{}

// NewEnv returns the empty environment.
func NewEnv() *Env {
	return emptyEnv
}

// IsEmpty reports whether e is the terminator.
func (e *Env) IsEmpty() bool {
	return e == nil || e.binding == nil
}

// Lookup finds the most recent binding of name.
func (e *Env) Lookup(name string) (Binding, bool) {
	for cur := e; !cur.IsEmpty(); cur = cur.parent {
		if cur.binding.Name == name {
			return *cur.binding, true
		}
	}
	return Binding{}, false
}

// Bind returns a new environment in which name shadows any earlier binding.
// A nil value is stored as Unit.
func (e *Env) Bind(name string, value Value, typ TypeTag) *Env {
	if e == nil {
		e = emptyEnv
	}
	if value == nil {
		value = UnitValue{}
	}
	return &Env{
		binding: &Binding{Name: name, Value: value, Type: typ},
		parent:  e,
	}
}

// Bindings yields every binding from the most recent to the oldest,
// including shadowed ones.
func (e *Env) Bindings() iter.Seq[Binding] {
	return func(yield func(Binding) bool) {
		for cur := e; !cur.IsEmpty(); cur = cur.parent {
			if !yield(*cur.binding) {
				return
			}
		}
	}
}

// Len is the length of the chain.
func (e *Env) Len() int {
	n := 0
	for range e.Bindings() {
		n++
	}
	return n
}

// String renders the chain as "name: (value, type)" entries, most recent
// first.
func (e *Env) String() string {
	var parts []string
	for b := range e.Bindings() {
		parts = append(parts, b.String())
	}
	return strings.Join(parts, ", ")
}
