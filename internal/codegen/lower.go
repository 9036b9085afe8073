package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/you-not-fish/minic/internal/rtabi"
	"github.com/you-not-fish/minic/internal/ssa"
)

// lowerFunc emits the LLVM IR for a single SSA function.
func (g *generator) lowerFunc(fn *ssa.Func) {
	g.fn = fn

	params := make([]string, fn.Sig.NumParams())
	for i, p := range fn.Sig.Params() {
		params[i] = fmt.Sprintf("%s %s", llvmType(p.Type()), paramName(p.Name()))
	}

	g.e.emit("define %s @%s(%s) {", llvmReturnType(fn.Sig), symbolName(fn.Name), strings.Join(params, ", "))
	for _, b := range fn.Blocks {
		g.lowerBlock(b)
	}
	g.e.emit("}")
}

// lowerBlock emits the LLVM IR for a single basic block.
func (g *generator) lowerBlock(b *ssa.Block) {
	g.e.emitLabel(b)

	for _, v := range b.Values {
		g.lowerValue(v)
	}

	g.lowerTerminator(b)
}

// lowerValue emits the LLVM IR for a single SSA value.
func (g *generator) lowerValue(v *ssa.Value) {
	switch v.Op {
	// Constants are inlined at use sites and arguments are referenced by
	// parameter name; no instruction is emitted.
	case ssa.OpConstInt, ssa.OpConstFloat, ssa.OpArg:
		return

	// Integer arithmetic
	case ssa.OpAdd:
		g.emitBinOp("add", rtabi.LLVMTypeInt, v)
	case ssa.OpSub:
		g.emitBinOp("sub", rtabi.LLVMTypeInt, v)
	case ssa.OpMul:
		g.emitBinOp("mul", rtabi.LLVMTypeInt, v)
	case ssa.OpSDiv:
		g.emitBinOp("sdiv", rtabi.LLVMTypeInt, v)

	// Float arithmetic
	case ssa.OpFAdd:
		g.emitBinOp("fadd", rtabi.LLVMTypeFloat, v)
	case ssa.OpFSub:
		g.emitBinOp("fsub", rtabi.LLVMTypeFloat, v)
	case ssa.OpFMul:
		g.emitBinOp("fmul", rtabi.LLVMTypeFloat, v)
	case ssa.OpFDiv:
		g.emitBinOp("fdiv", rtabi.LLVMTypeFloat, v)

	// Memory
	case ssa.OpAlloca:
		g.e.emitInst("%s = alloca %s, align %d", valueName(v), slotType(v), g.sizes.Alignof(v.Type.Elem()))
	case ssa.OpLoad:
		g.e.emitInst("%s = load %s, ptr %s, align %d",
			valueName(v), llvmType(v.Type), g.operand(v.Args[0]), g.sizes.Alignof(v.Type))
	case ssa.OpStore:
		val := v.Args[1]
		g.e.emitInst("store %s %s, ptr %s, align %d",
			llvmType(val.Type), g.operand(val), g.operand(v.Args[0]), g.sizes.Alignof(val.Type))

	// Addressing
	case ssa.OpIndexPtr:
		slot := v.Args[0]
		if slot.Op != ssa.OpAlloca || slot.AuxInt == 0 {
			g.errorf("%s: index base %s is not an array slot", v, slot)
			return
		}
		g.e.emitInst("%s = getelementptr inbounds %s, ptr %s, i32 0, i32 %s",
			valueName(v), slotType(slot), g.operand(slot), g.operand(v.Args[1]))
	case ssa.OpPtrInc:
		g.e.emitInst("%s = getelementptr inbounds %s, ptr %s, i32 %d",
			valueName(v), llvmType(v.Type.Elem()), g.operand(v.Args[0]), v.AuxInt)

	// Calls
	case ssa.OpStaticCall, ssa.OpCallBuiltin:
		g.lowerCall(v)

	default:
		g.errorf("%s: cannot lower %s", v, v.Op)
	}
}

// lowerTerminator emits the block terminator instruction.
func (g *generator) lowerTerminator(b *ssa.Block) {
	switch b.Kind {
	case ssa.BlockReturn:
		if len(b.Controls) > 0 && b.Controls[0] != nil {
			ret := b.Controls[0]
			g.e.emitInst("ret %s %s", llvmType(ret.Type), g.operand(ret))
		} else {
			g.e.emitInst("ret void")
		}
	default:
		g.errorf("%s: block kind %s has no terminator", b, b.Kind)
	}
}

// operand returns the LLVM IR operand string for an SSA value.
// Constants are inlined, arguments use their parameter name, others use
// their %vN name.
func (g *generator) operand(v *ssa.Value) string {
	switch v.Op {
	case ssa.OpConstInt:
		return strconv.FormatInt(v.AuxInt, 10)
	case ssa.OpConstFloat:
		return formatFloat(v.AuxFloat)
	case ssa.OpArg:
		if name := v.Name(); name != "" {
			return paramName(name)
		}
		return fmt.Sprintf("%%arg%d", v.AuxInt)
	}
	return valueName(v)
}

// emitBinOp emits a binary operation instruction.
func (g *generator) emitBinOp(inst, ty string, v *ssa.Value) {
	g.e.emitInst("%s = %s %s %s, %s", valueName(v), inst, ty, g.operand(v.Args[0]), g.operand(v.Args[1]))
}

// lowerCall emits a direct call. Built-ins are called by their runtime
// symbol; user functions by their emitted symbol.
func (g *generator) lowerCall(v *ssa.Value) {
	sig := v.Signature()
	if sig == nil {
		g.errorf("%s: call without callee", v)
		return
	}
	if len(v.Args) != sig.NumParams() {
		g.errorf("%s: call of %s with %d arguments, want %d", v, sig.Name(), len(v.Args), sig.NumParams())
		return
	}

	callee := symbolName(sig.Name())
	if sig.Builtin() {
		if _, ok := rtabi.LookupRuntimeFunction(sig.Name()); !ok {
			g.errorf("%s: no runtime function %s", v, sig.Name())
			return
		}
		callee = sig.Name()
	}

	args := make([]string, len(v.Args))
	for i, a := range v.Args {
		args[i] = fmt.Sprintf("%s %s", llvmType(sig.Param(i).Type()), g.operand(a))
	}

	ret := llvmReturnType(sig)
	if ret == rtabi.LLVMTypeVoid {
		g.e.emitInst("call void @%s(%s)", callee, strings.Join(args, ", "))
	} else {
		g.e.emitInst("%s = call %s @%s(%s)", valueName(v), ret, callee, strings.Join(args, ", "))
	}
}

// formatFloat formats a float constant as an LLVM IR literal.
// LLVM spells float constants as the hex bits of the equivalent double,
// which must be exactly representable as a float.
func formatFloat(f float64) string {
	f = float64(float32(f))
	if math.IsNaN(f) {
		return "0x7FF8000000000000"
	}
	return fmt.Sprintf("0x%016X", math.Float64bits(f))
}
