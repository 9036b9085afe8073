package ssa

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/you-not-fish/minic/internal/types"
)

// Fprint writes the SSA representation of a function to w.
//
// Format:
//
//	func add(x int, y int) int:
//	  b0: (entry)
//	    v0 = Arg <int> {x}
//	    v1 = Alloca <int*> {x}
//	    Store v1 v0
//	    ...
//	    v7 = Add <int> v5 v6
//	    Return v7
func Fprint(w io.Writer, f *Func) {
	fmt.Fprintf(w, "func %s", f.Name)
	if f.Sig != nil {
		fmt.Fprintf(w, "(")
		for i, p := range f.Sig.Params() {
			if i > 0 {
				fmt.Fprintf(w, ", ")
			}
			fmt.Fprintf(w, "%s %s", p.Name(), p.Type())
		}
		fmt.Fprintf(w, ")")
		if f.Sig.Result() != types.Void {
			fmt.Fprintf(w, " %s", f.Sig.Result())
		}
	}
	fmt.Fprintf(w, ":\n")

	for _, b := range f.Blocks {
		fprintBlock(w, b, f)
	}
}

// FprintAll writes every function of funcs, separated by blank lines.
func FprintAll(w io.Writer, funcs []*Func) {
	for i, f := range funcs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		Fprint(w, f)
	}
}

// fprintBlock writes a single block to w.
func fprintBlock(w io.Writer, b *Block, f *Func) {
	label := ""
	if b == f.Entry {
		label = " (entry)"
	}
	fmt.Fprintf(w, "  %s:%s\n", b, label)

	for _, v := range b.Values {
		fmt.Fprintf(w, "    %s\n", formatValue(v))
	}

	fmt.Fprintf(w, "    %s\n", formatTerminator(b))
}

// formatValue formats a value as a string.
func formatValue(v *Value) string {
	var sb strings.Builder

	// Values that produce nothing are printed without "vN = ".
	if v.IsVoid() {
		sb.WriteString(v.Op.String())
	} else {
		fmt.Fprintf(&sb, "v%d = %s <%s>", v.ID, v.Op, v.Type)
	}

	switch v.Op {
	case OpConstInt, OpArg, OpPtrInc:
		fmt.Fprintf(&sb, " [%d]", v.AuxInt)
	case OpConstFloat:
		fmt.Fprintf(&sb, " [%g]", v.AuxFloat)
	case OpAlloca:
		if v.AuxInt > 0 {
			fmt.Fprintf(&sb, " [%d]", v.AuxInt)
		}
	}

	if v.Aux != nil {
		fmt.Fprintf(&sb, " {%s}", formatAux(v.Aux))
	}

	for _, arg := range v.Args {
		fmt.Fprintf(&sb, " v%d", arg.ID)
	}

	return sb.String()
}

// formatTerminator formats a block terminator.
func formatTerminator(b *Block) string {
	switch b.Kind {
	case BlockPlain:
		return "Plain"
	case BlockReturn:
		if len(b.Controls) > 0 && b.Controls[0] != nil {
			return fmt.Sprintf("Return v%d", b.Controls[0].ID)
		}
		return "Return"
	default:
		return "???"
	}
}

// Sprint returns the SSA representation of a function as a string.
func Sprint(f *Func) string {
	var sb strings.Builder
	Fprint(&sb, f)
	return sb.String()
}

// formatAux formats an Aux value for display.
func formatAux(aux interface{}) string {
	switch a := aux.(type) {
	case *types.Signature:
		return a.Name()
	case string:
		return a
	default:
		return fmt.Sprintf("%v", aux)
	}
}

// Print writes the SSA representation of a function to stdout.
func Print(f *Func) {
	Fprint(os.Stdout, f)
}
