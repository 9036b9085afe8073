package ssa

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/minic/internal/types"
)

// Verify checks the structural and type integrity of a lowered function.
// It returns an error describing all violations found, or nil if valid.
func Verify(f *Func) error {
	var errs []string

	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if f.Entry == nil {
		add("func %s: entry block is nil", f.Name)
		return combineErrors(errs)
	}
	if f.Sig == nil {
		add("func %s: no signature", f.Name)
		return combineErrors(errs)
	}

	// 1. A single block, which is the entry.
	if len(f.Blocks) != 1 || f.Blocks[0] != f.Entry {
		add("func %s: has %d blocks, want the entry block only", f.Name, len(f.Blocks))
	}

	// defined holds the values seen so far; arguments must be defined
	// before their use.
	defined := make(map[*Value]bool)

	for _, b := range f.Blocks {
		// 2. The block is terminated by a return.
		if b.Kind != BlockReturn {
			add("func %s, %s: block kind is %s, want ret", f.Name, b, b.Kind)
		}
		if b.Func != f {
			add("func %s, %s: block Func pointer mismatch", f.Name, b)
		}

		for _, v := range b.Values {
			if v.Block != b {
				add("func %s, %s, %s: value Block pointer is %s, want %s",
					f.Name, b, v, v.Block, b)
			}

			// 3. Args are non-nil and defined earlier.
			ok := true
			for i, arg := range v.Args {
				switch {
				case arg == nil:
					add("func %s, %s, %s: arg[%d] is nil", f.Name, b, v, i)
					ok = false
				case !defined[arg]:
					add("func %s, %s, %s: arg[%d] %s used before definition", f.Name, b, v, i, arg)
				}
			}
			if ok {
				for _, msg := range checkValue(f, v) {
					add("func %s, %s, %s (%s): %s", f.Name, b, v, v.Op, msg)
				}
			}
			defined[v] = true
		}

		// 4. The return value matches the signature.
		if b.Kind == BlockReturn {
			result := f.Sig.Result()
			switch {
			case result == types.Void && len(b.Controls) != 0:
				add("func %s, %s: void function returns a value", f.Name, b)
			case result != types.Void && len(b.Controls) != 1:
				add("func %s, %s: return has %d values, want 1", f.Name, b, len(b.Controls))
			case result != types.Void:
				c := b.Controls[0]
				if c == nil || !defined[c] {
					add("func %s, %s: return value not found in function", f.Name, b)
				} else if c.Type != result {
					add("func %s, %s: returns %s, want %s", f.Name, b, c.Type, result)
				}
			}
		}
	}

	return combineErrors(errs)
}

// checkValue returns the type and shape violations of a single value.
func checkValue(f *Func, v *Value) []string {
	var errs []string
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}
	wantArgs := func(n int) bool {
		if len(v.Args) != n {
			add("has %d args, want %d", len(v.Args), n)
			return false
		}
		return true
	}

	switch {
	case v.Op == OpConstInt:
		if v.Type != types.Int {
			add("type %s, want int", v.Type)
		}
		wantArgs(0)

	case v.Op == OpConstFloat:
		if v.Type != types.Float {
			add("type %s, want float", v.Type)
		}
		wantArgs(0)

	case v.Op.IsArith():
		want := types.Int
		if v.Op.IsFloatArith() {
			want = types.Float
		}
		if v.Type != want {
			add("type %s, want %s", v.Type, want)
		}
		if wantArgs(2) {
			for i, a := range v.Args {
				if a.Type != want {
					add("arg[%d] has type %s, want %s", i, a.Type, want)
				}
			}
		}

	case v.Op == OpAlloca:
		if !types.IsPointer(v.Type) {
			add("type %s is not a pointer", v.Type)
		}
		if v.AuxInt < 0 || v.AuxInt == 1 {
			add("invalid element count %d", v.AuxInt)
		}
		wantArgs(0)

	case v.Op == OpLoad:
		if wantArgs(1) {
			p := v.Args[0]
			if !types.IsPointer(p.Type) {
				add("loads from non-pointer %s", p.Type)
			} else if v.Type != p.Type.Elem() {
				add("type %s, want %s", v.Type, p.Type.Elem())
			}
		}

	case v.Op == OpStore:
		if wantArgs(2) {
			p, x := v.Args[0], v.Args[1]
			if !types.IsPointer(p.Type) {
				add("stores to non-pointer %s", p.Type)
			} else if x.Type != p.Type.Elem() {
				add("stores %s through %s", x.Type, p.Type)
			}
		}

	case v.Op == OpIndexPtr:
		if wantArgs(2) {
			slot, idx := v.Args[0], v.Args[1]
			if slot.Op != OpAlloca || slot.AuxInt == 0 {
				add("base %s is not an array slot", slot)
			}
			if idx.Type != types.Int {
				add("index has type %s, want int", idx.Type)
			}
			if v.Type != slot.Type {
				add("type %s, want %s", v.Type, slot.Type)
			}
		}

	case v.Op == OpPtrInc:
		if wantArgs(1) {
			if p := v.Args[0]; !types.IsPointer(p.Type) || v.Type != p.Type {
				add("type %s, base %s", v.Type, p.Type)
			}
		}

	case v.Op == OpArg:
		if v.AuxInt < 0 || int(v.AuxInt) >= f.Sig.NumParams() {
			add("parameter index %d out of range", v.AuxInt)
		} else if p := f.Sig.Param(int(v.AuxInt)); v.Type != p.Type() {
			add("type %s, want %s", v.Type, p.Type())
		}
		if v.Block != f.Entry {
			add("argument outside the entry block")
		}

	case v.Op == OpStaticCall || v.Op == OpCallBuiltin:
		sig := v.Signature()
		if sig == nil {
			add("missing callee signature")
			break
		}
		if sig.Builtin() != (v.Op == OpCallBuiltin) {
			add("callee %s called with %s", sig.Name(), v.Op)
		}
		if v.Type != sig.Result() {
			add("type %s, want %s", v.Type, sig.Result())
		}
		if wantArgs(sig.NumParams()) {
			for i, a := range v.Args {
				if want := sig.Param(i).Type(); a.Type != want {
					add("arg[%d] has type %s, want %s", i, a.Type, want)
				}
			}
		}

	default:
		add("invalid op")
	}
	return errs
}

// combineErrors creates an error from a list of error strings, or returns nil.
func combineErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("SSA verification failed:\n  %s", strings.Join(errs, "\n  "))
}
