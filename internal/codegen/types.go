package codegen

import (
	"fmt"

	"github.com/you-not-fish/minic/internal/rtabi"
	"github.com/you-not-fish/minic/internal/ssa"
	"github.com/you-not-fish/minic/internal/types"
)

// llvmType maps a minic type to its LLVM IR type string.
// Array and pointer shapes are addressed through opaque pointers.
func llvmType(t types.Type) string {
	switch t {
	case types.Int:
		return rtabi.LLVMTypeInt
	case types.Float:
		return rtabi.LLVMTypeFloat
	case types.IntArray, types.IntPointer, types.FloatArray, types.FloatPointer:
		return rtabi.LLVMTypePtr
	}
	return rtabi.LLVMTypeVoid
}

// llvmReturnType returns the LLVM return type for a function signature.
func llvmReturnType(sig *types.Signature) string {
	return llvmType(sig.Result())
}

// slotType returns the LLVM type allocated by an Alloca: the element type
// for scalar slots, [N x T] for arrays.
func slotType(v *ssa.Value) string {
	elem := llvmType(v.Type.Elem())
	if v.AuxInt > 0 {
		return fmt.Sprintf("[%d x %s]", v.AuxInt, elem)
	}
	return elem
}

// symbolName returns the global symbol a function is emitted under.
// The user's main is renamed so the runtime can provide the C main.
func symbolName(name string) string {
	if name == "main" {
		return rtabi.EntryMain
	}
	return name
}
