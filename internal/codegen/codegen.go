// Package codegen emits textual LLVM IR for lowered minic functions.
//
// The output is a complete module: the runtime print helpers are declared,
// every function is defined, and the user's main is emitted under
// rtabi.EntryMain for runtime/runtime.c to call.
package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/you-not-fish/minic/internal/rtabi"
	"github.com/you-not-fish/minic/internal/ssa"
	"github.com/you-not-fish/minic/internal/types"
)

// Options configures module emission.
type Options struct {
	// ModuleName is written as the module ID and source file name.
	// Empty means "minic".
	ModuleName string

	// Triple is the target triple. Empty omits the target triple line and
	// leaves the choice to the backend.
	Triple string
}

// generator holds the state for emitting one module.
type generator struct {
	e     *emitter
	sizes *types.Sizes
	opts  Options
	fn    *ssa.Func // function being lowered
	err   error     // first lowering error
}

// Generate writes funcs as one LLVM IR module to w.
// Nothing is written if a function cannot be lowered.
func Generate(w io.Writer, funcs []*ssa.Func, opts Options) error {
	if err := Check(funcs); err != nil {
		return err
	}

	var buf strings.Builder
	g := &generator{
		e:     &emitter{w: &buf},
		sizes: types.DefaultSizes,
		opts:  opts,
	}
	g.lowerModule(funcs)
	if g.err != nil {
		return g.err
	}
	_, err := io.WriteString(w, buf.String())
	return err
}

// Check reports the first function that cannot be defined in a module
// alongside the runtime declarations.
func Check(funcs []*ssa.Func) error {
	seen := make(map[string]bool, len(funcs))
	for _, fn := range funcs {
		if fn.Name == rtabi.EntryMain {
			return fmt.Errorf("codegen: function name %s is reserved for the program entry point", fn.Name)
		}
		if _, ok := rtabi.LookupRuntimeFunction(fn.Name); ok {
			return fmt.Errorf("codegen: function %s redefines a runtime function", fn.Name)
		}
		if seen[fn.Name] {
			return fmt.Errorf("codegen: function %s defined twice", fn.Name)
		}
		seen[fn.Name] = true
		if fn.Sig == nil {
			return fmt.Errorf("codegen: function %s has no signature", fn.Name)
		}
	}
	return nil
}

// errorf records the first lowering error.
func (g *generator) errorf(format string, args ...interface{}) {
	if g.err == nil {
		g.err = fmt.Errorf("codegen: func %s: %s", g.fn.Name, fmt.Sprintf(format, args...))
	}
}

// lowerModule emits the module header, runtime declarations and functions.
func (g *generator) lowerModule(funcs []*ssa.Func) {
	name := g.opts.ModuleName
	if name == "" {
		name = "minic"
	}
	g.e.emit("; ModuleID = '%s'", name)
	g.e.emit("source_filename = %q", name)
	if g.opts.Triple != "" {
		g.e.emit("target triple = %q", g.opts.Triple)
	}
	g.e.emitLine()

	g.e.emitComment("runtime")
	for _, rt := range rtabi.RuntimeFunctions() {
		g.e.emit("declare %s @%s(%s)", rt.ReturnType, rt.Name, strings.Join(rt.ParamTypes, ", "))
	}

	for _, fn := range funcs {
		g.e.emitLine()
		g.lowerFunc(fn)
		if g.err != nil {
			return
		}
	}
}
