//go:build llvm

// Package bitcode builds lowered minic functions into an in-memory LLVM
// module through the LLVM C API and persists it as bitcode.
//
// The module has the same shape as the text produced by package codegen.
// Building requires cgo and an installed LLVM, so the package is only
// compiled with the llvm build tag.
package bitcode

import (
	"fmt"
	"os"

	"tinygo.org/x/go-llvm"

	"github.com/you-not-fish/minic/internal/codegen"
	"github.com/you-not-fish/minic/internal/rtabi"
	"github.com/you-not-fish/minic/internal/ssa"
	"github.com/you-not-fish/minic/internal/types"
)

// Module is an LLVM module owned by its own context.
// Call Dispose when done.
type Module struct {
	ctx llvm.Context
	mod llvm.Module
}

// Dispose releases the module and its context.
func (m *Module) Dispose() {
	m.mod.Dispose()
	m.ctx.Dispose()
}

// String returns the textual IR of the module.
func (m *Module) String() string {
	return m.mod.String()
}

// Verify runs the LLVM module verifier.
func (m *Module) Verify() error {
	if err := llvm.VerifyModule(m.mod, llvm.ReturnStatusAction); err != nil {
		return fmt.Errorf("bitcode: invalid module: %w", err)
	}
	return nil
}

// WriteFile verifies the module and writes it as bitcode to path.
func (m *Module) WriteFile(path string) error {
	if err := m.Verify(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := llvm.WriteBitcodeToFile(m.mod, f); err != nil {
		f.Close()
		return fmt.Errorf("bitcode: writing %s: %w", path, err)
	}
	return f.Close()
}

// builder holds the state for building one module.
type builder struct {
	ctx llvm.Context
	mod llvm.Module
	b   llvm.Builder

	funcs map[string]llvm.Value // function name → definition or declaration
	types map[string]llvm.Type  // function name → function type

	fn   *ssa.Func
	vals map[*ssa.Value]llvm.Value
}

// Build creates an LLVM module from funcs.
func Build(funcs []*ssa.Func, opts codegen.Options) (*Module, error) {
	if err := codegen.Check(funcs); err != nil {
		return nil, err
	}

	name := opts.ModuleName
	if name == "" {
		name = "minic"
	}
	ctx := llvm.NewContext()
	m := &Module{ctx: ctx, mod: ctx.NewModule(name)}
	if opts.Triple != "" {
		m.mod.SetTarget(opts.Triple)
	}

	bld := &builder{
		ctx:   ctx,
		mod:   m.mod,
		b:     ctx.NewBuilder(),
		funcs: make(map[string]llvm.Value),
		types: make(map[string]llvm.Type),
	}
	defer bld.b.Dispose()

	bld.declareRuntime()
	// Declare every function first so calls resolve regardless of order.
	for _, fn := range funcs {
		bld.declare(fn.Name, fn.Sig)
	}
	for _, fn := range funcs {
		if err := bld.buildFunc(fn); err != nil {
			m.Dispose()
			return nil, err
		}
	}
	return m, nil
}

// llvmType maps a scalar minic type to an LLVM type.
func (bld *builder) llvmType(t types.Type) llvm.Type {
	switch t {
	case types.Int:
		return bld.ctx.Int32Type()
	case types.Float:
		return bld.ctx.FloatType()
	}
	return bld.ctx.VoidType()
}

// slotType returns the type allocated by an Alloca value.
func (bld *builder) slotType(v *ssa.Value) llvm.Type {
	elem := bld.llvmType(v.Type.Elem())
	if v.AuxInt > 0 {
		return llvm.ArrayType(elem, int(v.AuxInt))
	}
	return elem
}

func (bld *builder) declareRuntime() {
	for _, sig := range types.Universe {
		bld.declare(sig.Name(), sig)
	}
}

// declare adds a function declaration to the module.
func (bld *builder) declare(name string, sig *types.Signature) {
	params := make([]llvm.Type, sig.NumParams())
	for i, p := range sig.Params() {
		params[i] = bld.llvmType(p.Type())
	}
	ft := llvm.FunctionType(bld.llvmType(sig.Result()), params, false)

	sym := name
	if name == "main" {
		sym = rtabi.EntryMain
	}
	fn := llvm.AddFunction(bld.mod, sym, ft)
	for i, p := range sig.Params() {
		fn.Param(i).SetName("arg." + p.Name())
	}
	bld.funcs[name] = fn
	bld.types[name] = ft
}

// buildFunc fills in the body of a declared function.
func (bld *builder) buildFunc(fn *ssa.Func) error {
	bld.fn = fn
	bld.vals = make(map[*ssa.Value]llvm.Value, fn.NumValues())

	def := bld.funcs[fn.Name]
	for _, b := range fn.Blocks {
		bb := bld.ctx.AddBasicBlock(def, blockName(b))
		bld.b.SetInsertPointAtEnd(bb)
		for _, v := range b.Values {
			if err := bld.value(def, v); err != nil {
				return err
			}
		}
		if b.Kind != ssa.BlockReturn {
			return bld.errorf("%s: block kind %s has no terminator", b, b.Kind)
		}
		if len(b.Controls) > 0 {
			bld.b.CreateRet(bld.vals[b.Controls[0]])
		} else {
			bld.b.CreateRetVoid()
		}
	}
	return nil
}

func blockName(b *ssa.Block) string {
	if b.ID == 0 {
		return "entry"
	}
	return b.String()
}

func (bld *builder) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("bitcode: func %s: %s", bld.fn.Name, fmt.Sprintf(format, args...))
}

// value builds the instruction for v and records its result.
func (bld *builder) value(def llvm.Value, v *ssa.Value) error {
	name := v.String()
	arg := func(i int) llvm.Value { return bld.vals[v.Args[i]] }

	var r llvm.Value
	switch v.Op {
	case ssa.OpConstInt:
		r = llvm.ConstInt(bld.ctx.Int32Type(), uint64(v.AuxInt), true)
	case ssa.OpConstFloat:
		r = llvm.ConstFloat(bld.ctx.FloatType(), float64(float32(v.AuxFloat)))
	case ssa.OpArg:
		r = def.Param(int(v.AuxInt))

	case ssa.OpAdd:
		r = bld.b.CreateAdd(arg(0), arg(1), name)
	case ssa.OpSub:
		r = bld.b.CreateSub(arg(0), arg(1), name)
	case ssa.OpMul:
		r = bld.b.CreateMul(arg(0), arg(1), name)
	case ssa.OpSDiv:
		r = bld.b.CreateSDiv(arg(0), arg(1), name)
	case ssa.OpFAdd:
		r = bld.b.CreateFAdd(arg(0), arg(1), name)
	case ssa.OpFSub:
		r = bld.b.CreateFSub(arg(0), arg(1), name)
	case ssa.OpFMul:
		r = bld.b.CreateFMul(arg(0), arg(1), name)
	case ssa.OpFDiv:
		r = bld.b.CreateFDiv(arg(0), arg(1), name)

	case ssa.OpAlloca:
		r = bld.b.CreateAlloca(bld.slotType(v), name)
		r.SetAlignment(int(types.DefaultSizes.Alignof(v.Type.Elem())))
	case ssa.OpLoad:
		r = bld.b.CreateLoad(bld.llvmType(v.Type), arg(0), name)
		r.SetAlignment(int(types.DefaultSizes.Alignof(v.Type)))
	case ssa.OpStore:
		st := bld.b.CreateStore(arg(1), arg(0))
		st.SetAlignment(int(types.DefaultSizes.Alignof(v.Args[1].Type)))
		return nil

	case ssa.OpIndexPtr:
		slot := v.Args[0]
		if slot.Op != ssa.OpAlloca || slot.AuxInt == 0 {
			return bld.errorf("%s: index base %s is not an array slot", v, slot)
		}
		zero := llvm.ConstInt(bld.ctx.Int32Type(), 0, false)
		r = bld.b.CreateInBoundsGEP(bld.slotType(slot), arg(0), []llvm.Value{zero, arg(1)}, name)
	case ssa.OpPtrInc:
		off := llvm.ConstInt(bld.ctx.Int32Type(), uint64(v.AuxInt), true)
		r = bld.b.CreateInBoundsGEP(bld.llvmType(v.Type.Elem()), arg(0), []llvm.Value{off}, name)

	case ssa.OpStaticCall, ssa.OpCallBuiltin:
		sig := v.Signature()
		if sig == nil {
			return bld.errorf("%s: call without callee", v)
		}
		callee, ok := bld.funcs[sig.Name()]
		if !ok {
			return bld.errorf("%s: call of undeclared function %s", v, sig.Name())
		}
		args := make([]llvm.Value, len(v.Args))
		for i := range v.Args {
			args[i] = arg(i)
		}
		if v.Type == types.Void {
			name = ""
		}
		r = bld.b.CreateCall(bld.types[sig.Name()], callee, args, name)

	default:
		return bld.errorf("%s: cannot build %s", v, v.Op)
	}
	bld.vals[v] = r
	return nil
}
