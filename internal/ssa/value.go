package ssa

import (
	"fmt"

	"github.com/you-not-fish/minic/internal/syntax"
	"github.com/you-not-fish/minic/internal/types"
)

// ID is a unique identifier for Values and Blocks within a Func.
type ID int32

// Value represents a single SSA computation.
// Each Value has exactly one definition and may be used by later Values.
type Value struct {
	// ID is a unique identifier within the containing Func.
	ID ID

	// Op is the operation this value computes.
	Op Op

	// Type is the result type of this value.
	// types.Void for Store, built-in calls and calls of void functions.
	Type types.Type

	// Args are the input values to this operation.
	Args []*Value

	// Block is the basic block that contains this value.
	Block *Block

	// AuxInt holds an auxiliary integer (constant value, element count,
	// parameter index or pointer offset).
	AuxInt int64

	// AuxFloat holds an auxiliary float (for OpConstFloat).
	AuxFloat float64

	// Aux holds arbitrary auxiliary data (slot name, *types.Signature).
	Aux interface{}

	// Uses tracks the number of references to this value.
	Uses int32

	// Pos is the source position associated with this value.
	Pos syntax.Pos
}

// String returns a short string representation of the value (e.g., "v5").
func (v *Value) String() string {
	return fmt.Sprintf("v%d", v.ID)
}

// LongString returns a detailed string representation including op, type, and args.
func (v *Value) LongString() string {
	return formatValue(v)
}

// AddArg appends a value to the argument list and increments the arg's use count.
func (v *Value) AddArg(arg *Value) {
	v.Args = append(v.Args, arg)
	arg.Uses++
}

// IsVoid reports whether v produces no value.
func (v *Value) IsVoid() bool {
	return v.Op.IsVoid() || v.Type == types.Void
}

// IsPure returns true if this value's op has no side effects.
func (v *Value) IsPure() bool {
	return v.Op.IsPure()
}

// Signature returns the callee of a call value, or nil.
func (v *Value) Signature() *types.Signature {
	sig, _ := v.Aux.(*types.Signature)
	return sig
}

// Name returns the slot or parameter name of an Alloca or Arg value.
func (v *Value) Name() string {
	s, _ := v.Aux.(string)
	return s
}
