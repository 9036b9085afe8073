// Package ssa implements the lowered intermediate representation for the
// minic compiler: per-function straight-line streams of typed values over
// stack slots.
package ssa

// Op represents an SSA operation code.
type Op int

const (
	OpInvalid Op = iota

	// Constants
	OpConstInt   // int constant; AuxInt = value
	OpConstFloat // float constant; AuxFloat = value, rounded to float32

	// Integer arithmetic
	OpAdd  // int + int
	OpSub  // int - int
	OpMul  // int * int
	OpSDiv // int / int, signed

	// Float arithmetic
	OpFAdd // float + float
	OpFSub // float - float
	OpFMul // float * float
	OpFDiv // float / float

	// Memory
	OpAlloca   // stack slot; Type = pointer shape; AuxInt = element count (0 for scalars); Aux = name
	OpLoad     // load from pointer; Args[0] = ptr
	OpStore    // store to pointer; Args[0] = ptr, Args[1] = val; void
	OpIndexPtr // &a[i]; Args[0] = array slot, Args[1] = index
	OpPtrInc   // ptr + AuxInt elements; Args[0] = ptr

	// Function arguments
	OpArg // incoming argument; AuxInt = param index; Aux = param name

	// Calls
	OpStaticCall  // direct call; Aux = *types.Signature; Args = arguments
	OpCallBuiltin // runtime print helper; Aux = *types.Signature; Args[0] = value; void

	opCount // sentinel; must be last
)

// OpInfo holds metadata about an SSA operation.
type OpInfo struct {
	Name   string // human-readable name
	IsPure bool   // true if the op has no side effects
	IsVoid bool   // true if the op never produces a value
}

// opInfoTable maps each Op to its OpInfo.
var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "Invalid"},

	OpConstInt:   {Name: "ConstInt", IsPure: true},
	OpConstFloat: {Name: "ConstFloat", IsPure: true},

	OpAdd:  {Name: "Add", IsPure: true},
	OpSub:  {Name: "Sub", IsPure: true},
	OpMul:  {Name: "Mul", IsPure: true},
	OpSDiv: {Name: "SDiv"}, // traps on zero

	OpFAdd: {Name: "FAdd", IsPure: true},
	OpFSub: {Name: "FSub", IsPure: true},
	OpFMul: {Name: "FMul", IsPure: true},
	OpFDiv: {Name: "FDiv", IsPure: true},

	OpAlloca:   {Name: "Alloca"},
	OpLoad:     {Name: "Load"},
	OpStore:    {Name: "Store", IsVoid: true},
	OpIndexPtr: {Name: "IndexPtr", IsPure: true},
	OpPtrInc:   {Name: "PtrInc", IsPure: true},

	OpArg: {Name: "Arg", IsPure: true},

	OpStaticCall:  {Name: "StaticCall"},
	OpCallBuiltin: {Name: "CallBuiltin", IsVoid: true},
}

// String returns the human-readable name of the op.
func (o Op) String() string {
	if o >= 0 && int(o) < len(opInfoTable) {
		return opInfoTable[o].Name
	}
	return "unknown"
}

// Info returns the OpInfo for this op.
func (o Op) Info() OpInfo {
	if o >= 0 && int(o) < len(opInfoTable) {
		return opInfoTable[o]
	}
	return OpInfo{Name: "unknown"}
}

// IsPure returns true if this op has no side effects.
func (o Op) IsPure() bool {
	return o.Info().IsPure
}

// IsVoid returns true if this op produces no value.
func (o Op) IsVoid() bool {
	return o.Info().IsVoid
}

// IsArith reports whether o is one of the binary arithmetic ops.
func (o Op) IsArith() bool {
	return OpAdd <= o && o <= OpFDiv
}

// IsFloatArith reports whether o is a float arithmetic op.
func (o Op) IsFloatArith() bool {
	return OpFAdd <= o && o <= OpFDiv
}
