//go:build !llvm

package main

import (
	"errors"

	"github.com/you-not-fish/minic/internal/codegen"
	"github.com/you-not-fish/minic/internal/ssa"
)

const bitcodeSupported = false

func writeBitcode(string, []*ssa.Func, codegen.Options) error {
	return errors.New("bitcode output is not available; rebuild minic with -tags llvm")
}
