// Package types implements the type records, function signatures and
// per-function scopes shared by the minic parser and code generator.
// This package has no AST dependencies.
package types

// Type is a storage shape known to the compiler.
// The set is closed: arrays and pointers exist only over int and float,
// and there is no further composition.
type Type uint8

const (
	Void Type = iota
	Int
	IntArray
	IntPointer
	Float
	FloatArray
	FloatPointer

	// Error marks a type that could not be determined.
	Error
)

var typeNames = [...]string{
	Void:         "void",
	Int:          "int",
	IntArray:     "int[]",
	IntPointer:   "int*",
	Float:        "float",
	FloatArray:   "float[]",
	FloatPointer: "float*",
	Error:        "invalid",
}

// String returns the source-level spelling of the type.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "invalid"
}

// Elem returns the element type of an array or pointer shape.
// For scalars it returns the type itself; for Void and Error it returns Error.
func (t Type) Elem() Type {
	switch t {
	case Int, IntArray, IntPointer:
		return Int
	case Float, FloatArray, FloatPointer:
		return Float
	}
	return Error
}

// ArrayOf returns the array shape with element type t.
func (t Type) ArrayOf() Type {
	switch t {
	case Int:
		return IntArray
	case Float:
		return FloatArray
	}
	return Error
}

// PointerTo returns the pointer shape addressing values of type t.
// Pointers to arrays address their first element.
func (t Type) PointerTo() Type {
	switch t.Elem() {
	case Int:
		return IntPointer
	case Float:
		return FloatPointer
	}
	return Error
}

// Lookup maps a type keyword to its scalar type.
// The second result is false for anything but "int", "float" and "void".
func Lookup(name string) (Type, bool) {
	switch name {
	case "int":
		return Int, true
	case "float":
		return Float, true
	case "void":
		return Void, true
	}
	return Error, false
}
