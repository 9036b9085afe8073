package ssa

import (
	"fmt"
	"io"
	"math"

	"github.com/you-not-fish/minic/internal/rtabi"
	"github.com/you-not-fish/minic/internal/syntax"
	"github.com/you-not-fish/minic/internal/types"
)

// MaxCallDepth bounds recursion in the interpreter. minic has no
// conditionals, so any recursive call chain never terminates.
const MaxCallDepth = 10000

// RuntimeError is a fault raised while interpreting lowered code.
type RuntimeError struct {
	Func string
	Pos  syntax.Pos
	Msg  string
}

func (e *RuntimeError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: runtime error in %s: %s", e.Pos, e.Func, e.Msg)
	}
	return fmt.Sprintf("runtime error in %s: %s", e.Func, e.Msg)
}

// cell is one interpreter value: an int, a float, or a pointer into a slot.
type cell struct {
	i   int32
	f   float32
	mem []cell // slot addressed by a pointer
	off int    // element offset within mem
}

// Interp executes lowered functions directly, with the same int32 and
// float32 semantics as the compiled program and the same output format as
// the C runtime's print helpers.
type Interp struct {
	funcs map[string]*Func
	out   io.Writer
	depth int
}

// NewInterp creates an interpreter over funcs writing built-in output to w.
func NewInterp(funcs []*Func, w io.Writer) *Interp {
	in := &Interp{funcs: make(map[string]*Func, len(funcs)), out: w}
	for _, f := range funcs {
		in.funcs[f.Name] = f
	}
	return in
}

// Run executes main.
func Run(funcs []*Func, w io.Writer) error {
	return NewInterp(funcs, w).Run()
}

// Run executes main.
func (in *Interp) Run() error {
	main, ok := in.funcs["main"]
	if !ok {
		return &RuntimeError{Func: "main", Msg: "no main function"}
	}
	_, err := in.call(main, nil)
	return err
}

// Call executes the named function with int or float arguments and
// returns its result, or nil for a void function.
func (in *Interp) Call(name string, args ...interface{}) (interface{}, error) {
	f, ok := in.funcs[name]
	if !ok {
		return nil, &RuntimeError{Func: name, Msg: "undefined function"}
	}
	if len(args) != f.Sig.NumParams() {
		return nil, &RuntimeError{Func: name, Msg: fmt.Sprintf("called with %d arguments, want %d", len(args), f.Sig.NumParams())}
	}
	cells := make([]cell, len(args))
	for i, a := range args {
		switch a := a.(type) {
		case int:
			cells[i].i = int32(a)
		case int32:
			cells[i].i = a
		case float32:
			cells[i].f = a
		case float64:
			cells[i].f = float32(a)
		default:
			return nil, &RuntimeError{Func: name, Msg: fmt.Sprintf("unsupported argument %T", a)}
		}
	}
	r, err := in.call(f, cells)
	if err != nil {
		return nil, err
	}
	switch f.Sig.Result() {
	case types.Int:
		return r.i, nil
	case types.Float:
		return r.f, nil
	}
	return nil, nil
}

func (in *Interp) call(f *Func, args []cell) (cell, error) {
	in.depth++
	defer func() { in.depth-- }()
	if in.depth > MaxCallDepth {
		return cell{}, &RuntimeError{Func: f.Name, Msg: "stack overflow"}
	}

	fault := func(v *Value, format string, a ...interface{}) error {
		return &RuntimeError{Func: f.Name, Pos: v.Pos, Msg: fmt.Sprintf(format, a...)}
	}

	env := make(map[*Value]cell, f.NumValues())
	for _, v := range f.Entry.Values {
		var r cell
		switch v.Op {
		case OpConstInt:
			r.i = int32(v.AuxInt)
		case OpConstFloat:
			r.f = float32(v.AuxFloat)

		case OpAdd, OpSub, OpMul, OpSDiv:
			x, y := env[v.Args[0]].i, env[v.Args[1]].i
			switch v.Op {
			case OpAdd:
				r.i = x + y
			case OpSub:
				r.i = x - y
			case OpMul:
				r.i = x * y
			case OpSDiv:
				if y == 0 {
					return cell{}, fault(v, "integer divide by zero")
				}
				if x == math.MinInt32 && y == -1 {
					return cell{}, fault(v, "integer overflow in division")
				}
				r.i = x / y
			}

		case OpFAdd, OpFSub, OpFMul, OpFDiv:
			x, y := env[v.Args[0]].f, env[v.Args[1]].f
			switch v.Op {
			case OpFAdd:
				r.f = x + y
			case OpFSub:
				r.f = x - y
			case OpFMul:
				r.f = x * y
			case OpFDiv:
				r.f = x / y
			}

		case OpAlloca:
			n := int(v.AuxInt)
			if n == 0 {
				n = 1
			}
			r.mem = make([]cell, n)

		case OpLoad:
			p := env[v.Args[0]]
			if p.off < 0 || p.off >= len(p.mem) {
				return cell{}, fault(v, "index out of range [%d] with length %d", p.off, len(p.mem))
			}
			r = p.mem[p.off]

		case OpStore:
			p := env[v.Args[0]]
			if p.off < 0 || p.off >= len(p.mem) {
				return cell{}, fault(v, "index out of range [%d] with length %d", p.off, len(p.mem))
			}
			p.mem[p.off] = env[v.Args[1]]

		case OpIndexPtr:
			slot, idx := env[v.Args[0]], env[v.Args[1]].i
			if idx < 0 || int(idx) >= len(slot.mem) {
				return cell{}, fault(v, "index out of range [%d] with length %d", idx, len(slot.mem))
			}
			r = cell{mem: slot.mem, off: int(idx)}

		case OpPtrInc:
			p := env[v.Args[0]]
			r = cell{mem: p.mem, off: p.off + int(v.AuxInt)}

		case OpArg:
			r = args[v.AuxInt]

		case OpStaticCall:
			callee, ok := in.funcs[v.Signature().Name()]
			if !ok {
				return cell{}, fault(v, "call of undefined function %s", v.Signature().Name())
			}
			cargs := make([]cell, len(v.Args))
			for i, a := range v.Args {
				cargs[i] = env[a]
			}
			var err error
			if r, err = in.call(callee, cargs); err != nil {
				return cell{}, err
			}

		case OpCallBuiltin:
			if err := in.builtin(v, env[v.Args[0]]); err != nil {
				return cell{}, err
			}

		default:
			return cell{}, fault(v, "cannot execute %s", v.Op)
		}
		env[v] = r
	}

	if c := f.Entry.Controls; len(c) > 0 {
		return env[c[0]], nil
	}
	return cell{}, nil
}

// builtin prints x the way the C runtime does.
func (in *Interp) builtin(v *Value, x cell) error {
	var err error
	switch name := v.Signature().Name(); name {
	case rtabi.FnPrintVarInt:
		_, err = fmt.Fprintf(in.out, rtabi.PrintIntFormat, x.i)
	case rtabi.FnPrintVarFloat:
		_, err = io.WriteString(in.out, formatFloat(x.f)+"\n")
	default:
		return &RuntimeError{Func: v.Block.Func.Name, Pos: v.Pos, Msg: "unknown built-in " + name}
	}
	return err
}

// formatFloat matches C's printf("%f", (double)f).
func formatFloat(f float32) string {
	d := float64(f)
	switch {
	case math.IsInf(d, 1):
		return "inf"
	case math.IsInf(d, -1):
		return "-inf"
	case math.IsNaN(d):
		return "nan"
	}
	return fmt.Sprintf("%f", d)
}
