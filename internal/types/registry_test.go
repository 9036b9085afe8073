package types

import (
	"strings"
	"testing"
)

func TestNewRegistryBuiltins(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{PrintVarInt, PrintVarFloat} {
		sig := r.LookupFunc(name)
		if sig == nil {
			t.Fatalf("builtin %s not registered", name)
		}
		if !sig.Builtin() || sig.Result() != Void || sig.NumParams() != 1 {
			t.Errorf("builtin %s has unexpected signature %s", name, sig)
		}
	}
	if got := r.LookupFunc(PrintVarFloat).Param(0).Type(); got != Float {
		t.Errorf("printVarFloat param type = %s, want float", got)
	}
	if !IsBuiltin(PrintVarInt) || IsBuiltin("main") {
		t.Error("IsBuiltin misclassifies")
	}
}

func TestRegistryDeclare(t *testing.T) {
	r := NewRegistry()
	add := NewSignature("add", Int, NewParam("x", Int), NewParam("y", Int))
	if prev := r.Declare(add); prev != nil {
		t.Fatalf("Declare(add) = %v, want nil", prev)
	}
	if prev := r.Declare(NewSignature("add", Float)); prev != add {
		t.Errorf("duplicate Declare returned %v, want existing", prev)
	}
	if prev := r.Declare(NewSignature(PrintVarInt, Void)); prev == nil {
		t.Error("declaring over a builtin succeeded")
	}
	funcs := r.Funcs()
	if last := funcs[len(funcs)-1]; last != add {
		t.Errorf("last registered = %v, want add", last)
	}
}

func TestRegistryArchive(t *testing.T) {
	r := NewRegistry()
	r.Declare(NewSignature("f", Void, NewParam("a", Int)))
	s := NewScope("f")
	s.Insert(NewParam("a", Int))
	s.Insert(NewArray("buf", Float, 2))
	r.Archive(s)

	if r.Scope("f") != s {
		t.Fatal("archived scope not found")
	}
	if r.Scope("g") != nil {
		t.Error("unexpected scope for g")
	}

	var sb strings.Builder
	if err := r.Fprint(&sb); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if strings.Contains(out, PrintVarInt) {
		t.Errorf("Fprint lists builtins:\n%s", out)
	}
	for _, want := range []string{"def<void> f(int a)", "param int a", "var   float buf[2]"} {
		if !strings.Contains(out, want) {
			t.Errorf("Fprint output missing %q:\n%s", want, out)
		}
	}
}
