package types

// IsScalar reports whether t is int or float.
func IsScalar(t Type) bool {
	return t == Int || t == Float
}

// IsArray reports whether t is an array shape.
func IsArray(t Type) bool {
	return t == IntArray || t == FloatArray
}

// IsPointer reports whether t is a pointer shape.
func IsPointer(t Type) bool {
	return t == IntPointer || t == FloatPointer
}

// IsInteger reports whether t is int or one of its storage shapes.
func IsInteger(t Type) bool {
	return t.Elem() == Int
}

// IsFloat reports whether t is float or one of its storage shapes.
func IsFloat(t Type) bool {
	return t.Elem() == Float
}

// IsValid reports whether t is a usable type (not Error).
func IsValid(t Type) bool {
	return t < Error
}

// AssignableTo reports whether a value of type v may be stored in a
// variable of type t. Typing is strict: only identical scalars match.
func AssignableTo(v, t Type) bool {
	return IsScalar(v) && v == t
}
