package rtabi

// Basic type sizes in bytes
const (
	SizeInt   = 4 // int32_t
	SizeFloat = 4 // float
	SizePtr   = 8 // pointer
)

// Basic type alignments in bytes
const (
	AlignInt   = 4
	AlignFloat = 4
	AlignPtr   = 8
)

// LLVM type names for code generation
const (
	LLVMTypeVoid  = "void"
	LLVMTypeInt   = "i32"
	LLVMTypeFloat = "float"
	LLVMTypePtr   = "ptr" // opaque pointer (LLVM 15+)
)

// Formats used by the runtime print helpers, one value per line.
const (
	PrintIntFormat   = "%d\n"
	PrintFloatFormat = "%f\n"
)
