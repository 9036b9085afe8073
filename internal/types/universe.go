package types

// Names of the runtime print helpers available to every program.
const (
	PrintVarInt   = "printVarInt"
	PrintVarFloat = "printVarFloat"
)

// Universe lists the predeclared built-in functions.
// They are registered in every new Registry before parsing begins.
var Universe []*Signature

func init() {
	Universe = []*Signature{
		newBuiltin(PrintVarInt, Void, NewParam("v", Int)),
		newBuiltin(PrintVarFloat, Void, NewParam("v", Float)),
	}
}

func newBuiltin(name string, result Type, params ...*Var) *Signature {
	sig := NewSignature(name, result, params...)
	sig.builtin = true
	return sig
}

// IsBuiltin reports whether name is a predeclared built-in function.
func IsBuiltin(name string) bool {
	for _, b := range Universe {
		if b.name == name {
			return true
		}
	}
	return false
}
