//go:build llvm

package main

import (
	"github.com/you-not-fish/minic/internal/bitcode"
	"github.com/you-not-fish/minic/internal/codegen"
	"github.com/you-not-fish/minic/internal/ssa"
)

const bitcodeSupported = true

func writeBitcode(path string, funcs []*ssa.Func, opts codegen.Options) error {
	m, err := bitcode.Build(funcs, opts)
	if err != nil {
		return err
	}
	defer m.Dispose()
	return m.WriteFile(path)
}
