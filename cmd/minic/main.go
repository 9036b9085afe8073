// Package main implements the minic compiler entry point.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/you-not-fish/minic/internal/codegen"
	"github.com/you-not-fish/minic/internal/ssa"
	"github.com/you-not-fish/minic/internal/syntax"
	"github.com/you-not-fish/minic/internal/types"
)

// Compiler flags
var (
	emitTokens = flag.Bool("emit-tokens", false, "Output token stream")
	emitAST    = flag.Bool("emit-ast", false, "Output AST")
	astFormat  = flag.String("ast-format", "text", "AST output format (text, json or source)")
	emitScopes = flag.Bool("emit-scopes", false, "Output function signatures and local scopes")
	emitSSA    = flag.Bool("emit-ssa", false, "Output SSA")
	emitLL     = flag.Bool("emit-ll", false, "Output LLVM IR (default)")
	emitBC     = flag.Bool("emit-bc", false, "Write LLVM bitcode (requires -o)")
	runProgram = flag.Bool("run", false, "Execute the program with the interpreter")
	output     = flag.String("o", "", "Output file")
	triple     = flag.String("triple", "", "Target triple written into the module")
	doctor     = flag.Bool("doctor", false, "Check toolchain")
	version    = flag.Bool("version", false, "Print version")
	trace      = flag.Bool("trace", false, "Output timing trace")
	dumpFunc   = flag.String("dump-func", "", "Only dump specific function")
	ssaVerify  = flag.Bool("ssa-verify", false, "Verify SSA after lowering")
)

// Version information
const Version = "0.1.0-dev"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "minic compiler %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: minic [options] <file.mc>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("minic version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	if *doctor {
		os.Exit(runDoctor())
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "error: no input file")
		fmt.Fprintln(os.Stderr, "usage: minic [options] <file.mc>")
		os.Exit(1)
	}

	filename := args[0]

	switch {
	case *emitTokens:
		os.Exit(runEmitTokens(filename))
	case *emitAST:
		os.Exit(runEmitAST(filename))
	case *emitScopes:
		os.Exit(runEmitScopes(filename))
	case *emitSSA:
		os.Exit(runEmitSSA(filename))
	case *runProgram:
		os.Exit(runInterp(filename))
	case *emitBC:
		os.Exit(runEmitBC(filename))
	default:
		os.Exit(runEmitLL(filename))
	}
}

// report prints a compile error. Errors with a source location are shown
// with the offending line.
func report(err error) {
	var serr *syntax.Error
	if errors.As(err, &serr) {
		fmt.Fprint(os.Stderr, serr.Pretty())
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}

// phase runs fn and, with -trace, prints how long it took.
func phase(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	if *trace {
		fmt.Fprintf(os.Stderr, "trace: %-8s %v\n", name, time.Since(start))
	}
	return err
}

// parseFile parses and type-checks filename.
func parseFile(filename string) (*syntax.File, *types.Registry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reg := types.NewRegistry()
	var file *syntax.File
	err = phase("parse", func() error {
		var err error
		file, err = syntax.Parse(filename, f, reg)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return file, reg, nil
}

// buildFile parses filename and lowers it to SSA, verifying each function
// when -ssa-verify is set.
func buildFile(filename string) ([]*ssa.Func, error) {
	file, reg, err := parseFile(filename)
	if err != nil {
		return nil, err
	}

	var funcs []*ssa.Func
	err = phase("build", func() error {
		var err error
		funcs, err = ssa.Build(file, reg)
		return err
	})
	if err != nil {
		return nil, err
	}

	if *ssaVerify {
		err = phase("verify", func() error {
			for _, fn := range funcs {
				if err := ssa.Verify(fn); err != nil {
					return fmt.Errorf("function %s: %w", fn.Name, err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return funcs, nil
}

// createOutput returns the -o file, or stdout when -o is not set.
func createOutput() (io.WriteCloser, error) {
	if *output == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(*output)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// runEmitTokens scans the input file and prints all tokens with positions.
func runEmitTokens(filename string) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer f.Close()

	toks, err := syntax.Tokenize(filename, f)
	if err != nil {
		report(err)
		return 1
	}

	// Print header
	fmt.Printf("%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Printf("%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))

	for _, tok := range toks {
		fmt.Printf("%-20s %-12s %s\n", tok.Pos, tok, formatLiteral(tok.Lit))
	}
	return 0
}

// formatLiteral formats a literal for display, escaping special characters.
func formatLiteral(lit string) string {
	if lit == "" {
		return "\"\""
	}

	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\t':
			b.WriteString("\\t")
		case '\\':
			b.WriteString("\\\\")
		case '"':
			b.WriteString("\\\"")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}

// runEmitAST parses the input file and outputs the AST.
func runEmitAST(filename string) int {
	file, _, err := parseFile(filename)
	if err != nil {
		report(err)
		return 1
	}

	switch *astFormat {
	case "json":
		err = syntax.FprintJSON(os.Stdout, file)
	case "source":
		err = syntax.FprintSource(os.Stdout, file)
	case "text":
		syntax.Fprint(os.Stdout, file)
	default:
		err = fmt.Errorf("unknown AST format %q (want text, json or source)", *astFormat)
	}
	if err != nil {
		report(err)
		return 1
	}
	return 0
}

// runEmitScopes prints every function signature with its local scope.
func runEmitScopes(filename string) int {
	_, reg, err := parseFile(filename)
	if err != nil {
		report(err)
		return 1
	}
	if err := reg.Fprint(os.Stdout); err != nil {
		report(err)
		return 1
	}
	return 0
}

// runEmitSSA lowers the input file and prints SSA for all functions.
func runEmitSSA(filename string) int {
	funcs, err := buildFile(filename)
	if err != nil {
		report(err)
		return 1
	}

	first := true
	for _, fn := range funcs {
		if *dumpFunc != "" && fn.Name != *dumpFunc {
			continue
		}
		if !first {
			fmt.Println()
		}
		first = false
		ssa.Print(fn)
	}
	if first && *dumpFunc != "" {
		fmt.Fprintf(os.Stderr, "error: no function named %s\n", *dumpFunc)
		return 1
	}
	return 0
}

// runEmitLL compiles the input file to textual LLVM IR.
func runEmitLL(filename string) int {
	funcs, err := buildFile(filename)
	if err != nil {
		report(err)
		return 1
	}

	out, err := createOutput()
	if err != nil {
		report(err)
		return 1
	}
	err = phase("codegen", func() error {
		return codegen.Generate(out, funcs, moduleOptions(filename))
	})
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		report(err)
		return 1
	}
	return 0
}

// runEmitBC compiles the input file to LLVM bitcode in the -o file.
func runEmitBC(filename string) int {
	if *output == "" {
		fmt.Fprintln(os.Stderr, "error: -emit-bc requires -o")
		return 1
	}
	funcs, err := buildFile(filename)
	if err != nil {
		report(err)
		return 1
	}
	err = phase("bitcode", func() error {
		return writeBitcode(*output, funcs, moduleOptions(filename))
	})
	if err != nil {
		report(err)
		return 1
	}
	return 0
}

func moduleOptions(filename string) codegen.Options {
	return codegen.Options{
		ModuleName: filepath.Base(filename),
		Triple:     *triple,
	}
}

// runInterp lowers the input file and executes it.
func runInterp(filename string) int {
	funcs, err := buildFile(filename)
	if err != nil {
		report(err)
		return 1
	}
	err = phase("run", func() error {
		return ssa.Run(funcs, os.Stdout)
	})
	if err != nil {
		report(err)
		return 1
	}
	return 0
}

// runDoctor checks the toolchain and returns an exit code.
func runDoctor() int {
	fmt.Println("minic Toolchain Doctor")
	fmt.Println("======================")
	fmt.Println()

	allOk := true

	goVersion := runtime.Version()
	fmt.Printf("Go:      %s", goVersion)
	if checkGoVersion(goVersion) {
		fmt.Println(" ✓")
	} else {
		fmt.Println(" ✗ (need 1.21+)")
		allOk = false
	}

	// clang links the emitted IR with runtime/runtime.c.
	clangVersion, clangOk := checkTool("clang", "--version")
	fmt.Printf("clang:   %s", clangVersion)
	if clangOk {
		fmt.Println(" ✓")
	} else {
		fmt.Println(" ✗ (not found)")
		allOk = false
	}

	llvmAsVersion, llvmAsOk := checkTool("llvm-as", "--version")
	fmt.Printf("llvm-as: %s", llvmAsVersion)
	if llvmAsOk {
		fmt.Println(" ✓")
	} else {
		fmt.Println(" (optional, not found)")
	}

	fmt.Printf("bitcode: ")
	if bitcodeSupported {
		fmt.Println("built in ✓")
	} else {
		fmt.Println("(optional, rebuild with -tags llvm)")
	}

	fmt.Println()
	if allOk {
		fmt.Println("All required tools available!")
		return 0
	}

	fmt.Println("Some required tools are missing.")
	return 1
}

// checkGoVersion returns true if the Go version is 1.21 or higher.
func checkGoVersion(v string) bool {
	if !strings.HasPrefix(v, "go") {
		return false
	}
	parts := strings.Split(strings.TrimPrefix(v, "go"), ".")
	if len(parts) < 2 {
		return false
	}

	major, minor := parts[0], parts[1]
	if major == "1" {
		var minorNum int
		fmt.Sscanf(minor, "%d", &minorNum)
		return minorNum >= 21
	}
	return major >= "2"
}

// checkTool runs a tool with the given arguments and returns the first line of output.
func checkTool(name string, args ...string) (string, bool) {
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		return "", false
	}

	line, _, _ := strings.Cut(string(out), "\n")
	line = strings.TrimSpace(line)
	if len(line) > 60 {
		line = line[:57] + "..."
	}
	return line, true
}
