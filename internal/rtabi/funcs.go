// Package rtabi defines the ABI constants shared between the compiler and
// the C runtime in runtime/runtime.c.
package rtabi

// Runtime function names (must match runtime/runtime.c definitions)
const (
	FnPrintVarInt   = "printVarInt"
	FnPrintVarFloat = "printVarFloat"
)

// User program entry point
const (
	// EntryMain is the symbol the user's main function is emitted under.
	// The runtime's C main calls it.
	EntryMain = "minic_main"
)

// FuncSignature describes a runtime function's signature for code generation.
type FuncSignature struct {
	Name       string   // Function name
	ReturnType string   // LLVM return type
	ParamTypes []string // LLVM parameter types
}

// RuntimeFunctions returns the signatures of all runtime functions.
func RuntimeFunctions() []FuncSignature {
	return []FuncSignature{
		{Name: FnPrintVarInt, ReturnType: LLVMTypeVoid, ParamTypes: []string{LLVMTypeInt}},
		{Name: FnPrintVarFloat, ReturnType: LLVMTypeVoid, ParamTypes: []string{LLVMTypeFloat}},
	}
}

// LookupRuntimeFunction returns the runtime signature with the given name.
func LookupRuntimeFunction(name string) (FuncSignature, bool) {
	for _, fn := range RuntimeFunctions() {
		if fn.Name == name {
			return fn, true
		}
	}
	return FuncSignature{}, false
}
