package types

import "github.com/you-not-fish/minic/internal/rtabi"

// Sizes provides size and alignment calculations for types.
// It uses the rtabi constants to ensure ABI consistency with the runtime.
type Sizes struct{}

// DefaultSizes is the default Sizes implementation.
var DefaultSizes = &Sizes{}

// Sizeof returns the size of a value of type t in bytes.
// Arrays report their element size; use ArraySize for whole arrays.
func (s *Sizes) Sizeof(t Type) int64 {
	switch t {
	case Int, IntArray:
		return rtabi.SizeInt
	case Float, FloatArray:
		return rtabi.SizeFloat
	case IntPointer, FloatPointer:
		return rtabi.SizePtr
	}
	return 0
}

// Alignof returns the alignment of type t in bytes.
func (s *Sizes) Alignof(t Type) int64 {
	switch t {
	case Int, IntArray:
		return rtabi.AlignInt
	case Float, FloatArray:
		return rtabi.AlignFloat
	case IntPointer, FloatPointer:
		return rtabi.AlignPtr
	}
	return 1
}

// ArraySize returns the size of an n-element array of t in bytes.
func (s *Sizes) ArraySize(t Type, n int) int64 {
	return int64(n) * s.Sizeof(t.Elem())
}
