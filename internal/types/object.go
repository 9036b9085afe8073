package types

import (
	"fmt"
	"strings"
)

// Object is a named entity recorded by the registry: a local variable,
// a parameter, or a function signature.
type Object interface {
	Name() string   // object name
	Type() Type     // variable type, or result type for functions
	Parent() *Scope // enclosing scope; nil for functions

	setParent(*Scope)
	aObject()
}

type object struct {
	name   string
	typ    Type
	parent *Scope
}

func (o *object) Name() string       { return o.name }
func (o *object) Type() Type         { return o.typ }
func (o *object) Parent() *Scope     { return o.parent }
func (o *object) setParent(s *Scope) { o.parent = s }
func (*object) aObject()             {}

// Var is a local variable or parameter.
type Var struct {
	object
	len   int  // element count for arrays, 0 otherwise
	param bool // declared in the parameter list
}

// NewVar creates a scalar variable.
func NewVar(name string, typ Type) *Var {
	return &Var{object: object{name: name, typ: typ}}
}

// NewParam creates a parameter variable.
func NewParam(name string, typ Type) *Var {
	return &Var{object: object{name: name, typ: typ}, param: true}
}

// NewArray creates an array variable of n elements of type elem.
func NewArray(name string, elem Type, n int) *Var {
	return &Var{object: object{name: name, typ: elem.ArrayOf()}, len: n}
}

// Len returns the element count of an array variable, or 0 for scalars.
func (v *Var) Len() int { return v.len }

// IsParam reports whether v was declared as a function parameter.
func (v *Var) IsParam() bool { return v.param }

func (v *Var) String() string {
	if IsArray(v.typ) {
		return fmt.Sprintf("%s %s[%d]", v.typ.Elem(), v.name, v.len)
	}
	return fmt.Sprintf("%s %s", v.typ, v.name)
}

// Signature is a declared function: its name, result type and
// ordered parameters. Signatures are immutable once created.
type Signature struct {
	object
	params  []*Var
	builtin bool
}

// NewSignature creates a function signature. The result type is Void,
// Int or Float; parameters must be scalars.
func NewSignature(name string, result Type, params ...*Var) *Signature {
	return &Signature{object: object{name: name, typ: result}, params: params}
}

// Result returns the result type (Void for procedures).
func (s *Signature) Result() Type { return s.typ }

// NumParams returns the number of parameters.
func (s *Signature) NumParams() int { return len(s.params) }

// Param returns the i'th parameter.
func (s *Signature) Param(i int) *Var { return s.params[i] }

// Params returns the parameter list. The caller must not modify it.
func (s *Signature) Params() []*Var { return s.params }

// Builtin reports whether the function is provided by the runtime.
func (s *Signature) Builtin() bool { return s.builtin }

// String returns the signature in source form, e.g. "def<int> add(int x, int y)".
func (s *Signature) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "def<%s> %s(", s.typ, s.name)
	for i, p := range s.params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(")")
	return b.String()
}
