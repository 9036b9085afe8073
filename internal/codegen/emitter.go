package codegen

import (
	"fmt"
	"io"

	"github.com/you-not-fish/minic/internal/ssa"
)

// emitter wraps an io.Writer with helpers for emitting LLVM IR text.
type emitter struct {
	w   io.Writer
	err error // first write error
}

// emit writes a formatted line to the output (no indentation).
func (e *emitter) emit(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format+"\n", args...)
}

// emitLine writes a blank line.
func (e *emitter) emitLine() {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintln(e.w)
}

// emitComment writes a comment line.
func (e *emitter) emitComment(format string, args ...interface{}) {
	e.emit("; "+format, args...)
}

// emitLabel writes a basic block label.
func (e *emitter) emitLabel(b *ssa.Block) {
	e.emit("%s:", blockName(b))
}

// emitInst writes an indented instruction line.
func (e *emitter) emitInst(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, "  "+format+"\n", args...)
}

// valueName returns the LLVM local name for an SSA value: %vN.
func valueName(v *ssa.Value) string {
	return fmt.Sprintf("%%v%d", v.ID)
}

// paramName returns the LLVM name of an incoming parameter. The prefix
// keeps parameters apart from the %vN value names.
func paramName(name string) string {
	return "%arg." + name
}

// blockName returns the LLVM label for an SSA block.
// Block 0 is "entry", others are "bN".
func blockName(b *ssa.Block) string {
	if b.ID == 0 {
		return "entry"
	}
	return fmt.Sprintf("b%d", b.ID)
}
