package types

import (
	"strings"
	"testing"
)

func TestScopeInsertLookup(t *testing.T) {
	s := NewScope("f")
	a := NewParam("a", Int)
	if prev := s.Insert(a); prev != nil {
		t.Fatalf("Insert(a) = %v, want nil", prev)
	}
	if got := s.Lookup("a"); got != a {
		t.Errorf("Lookup(a) = %v, want %v", got, a)
	}
	if a.Parent() != s {
		t.Error("Insert did not set parent")
	}
	if prev := s.Insert(NewVar("a", Float)); prev != a {
		t.Errorf("duplicate Insert returned %v, want existing", prev)
	}
	if s.Lookup("a").Type() != Int {
		t.Error("duplicate Insert replaced the original")
	}
	if s.Lookup("b") != nil {
		t.Error("Lookup(b) found a variable")
	}
}

func TestScopeOrder(t *testing.T) {
	s := NewScope("g")
	for _, v := range []*Var{NewParam("p", Float), NewVar("z", Int), NewArray("a", Int, 3)} {
		s.Insert(v)
	}
	var names []string
	for _, v := range s.Vars() {
		names = append(names, v.Name())
	}
	if got := strings.Join(names, ","); got != "p,z,a" {
		t.Errorf("Vars() order = %s, want p,z,a", got)
	}
	if ps := s.Params(); len(ps) != 1 || ps[0].Name() != "p" {
		t.Errorf("Params() = %v", ps)
	}
	if s.Len() != 3 || s.Func() != "g" {
		t.Errorf("Len() = %d, Func() = %q", s.Len(), s.Func())
	}
	want := "scope g {\n  param float p\n  var   int z\n  var   int a[3]\n}\n"
	if got := s.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}
