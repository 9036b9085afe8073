package types

import (
	"fmt"
	"strings"
)

// Scope is the flat symbol table of a single function body.
// Parameters and locals share one namespace; there is no nesting.
type Scope struct {
	fn    string          // owning function name
	elems map[string]*Var // name -> variable
	order []*Var          // insertion order
}

// NewScope creates an empty scope for the named function.
func NewScope(fn string) *Scope {
	return &Scope{
		fn:    fn,
		elems: make(map[string]*Var),
	}
}

// Func returns the name of the function owning the scope.
func (s *Scope) Func() string {
	return s.fn
}

// Lookup returns the variable with the given name, or nil.
func (s *Scope) Lookup(name string) *Var {
	return s.elems[name]
}

// Insert adds v to the scope.
// If a variable with the same name already exists, Insert returns it
// and leaves the scope unchanged. Otherwise it returns nil.
func (s *Scope) Insert(v *Var) *Var {
	if existing := s.elems[v.name]; existing != nil {
		return existing
	}
	s.elems[v.name] = v
	s.order = append(s.order, v)
	v.setParent(s)
	return nil
}

// Vars returns the variables in declaration order.
func (s *Scope) Vars() []*Var {
	return s.order
}

// Params returns the parameters in declaration order.
func (s *Scope) Params() []*Var {
	var params []*Var
	for _, v := range s.order {
		if v.param {
			params = append(params, v)
		}
	}
	return params
}

// Len returns the number of variables in the scope.
func (s *Scope) Len() int {
	return len(s.order)
}

// String returns a listing of the scope for debugging.
func (s *Scope) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "scope %s {\n", s.fn)
	for _, v := range s.order {
		kind := "var"
		if v.param {
			kind = "param"
		}
		fmt.Fprintf(&buf, "  %-5s %s\n", kind, v)
	}
	buf.WriteString("}\n")
	return buf.String()
}
