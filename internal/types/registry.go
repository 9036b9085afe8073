package types

import (
	"fmt"
	"io"
)

// Registry is the compilation-wide type registry: the table of function
// signatures in declaration order and the archived scope of every parsed
// function. Each compilation owns its own Registry.
type Registry struct {
	funcs  map[string]*Signature
	order  []*Signature
	scopes map[string]*Scope
}

// NewRegistry returns a registry pre-seeded with the Universe built-ins.
func NewRegistry() *Registry {
	r := &Registry{
		funcs:  make(map[string]*Signature),
		scopes: make(map[string]*Scope),
	}
	for _, b := range Universe {
		r.funcs[b.name] = b
		r.order = append(r.order, b)
	}
	return r
}

// Declare registers sig. If a function with the same name already
// exists (built-ins included), Declare returns it and registers nothing.
func (r *Registry) Declare(sig *Signature) *Signature {
	if existing := r.funcs[sig.name]; existing != nil {
		return existing
	}
	r.funcs[sig.name] = sig
	r.order = append(r.order, sig)
	return nil
}

// LookupFunc returns the signature registered under name, or nil.
func (r *Registry) LookupFunc(name string) *Signature {
	return r.funcs[name]
}

// Funcs returns all signatures in registration order, built-ins first.
func (r *Registry) Funcs() []*Signature {
	return r.order
}

// Archive stores the finished scope of a function under its name.
func (r *Registry) Archive(s *Scope) {
	r.scopes[s.fn] = s
}

// Scope returns the archived scope of the named function, or nil.
func (r *Registry) Scope(fn string) *Scope {
	return r.scopes[fn]
}

// Fprint writes every user-declared signature followed by its archived scope.
func (r *Registry) Fprint(w io.Writer) error {
	for _, sig := range r.order {
		if sig.builtin {
			continue
		}
		if _, err := fmt.Fprintln(w, sig); err != nil {
			return err
		}
		if s := r.scopes[sig.name]; s != nil {
			if _, err := io.WriteString(w, s.String()); err != nil {
				return err
			}
		}
	}
	return nil
}
