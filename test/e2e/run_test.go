package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/you-not-fish/minic/internal/codegen"
	"github.com/you-not-fish/minic/internal/ssa"
	"github.com/you-not-fish/minic/internal/syntax"
	"github.com/you-not-fish/minic/internal/types"
)

// TestE2E runs end-to-end tests for all .mc files in testdata/.
// Each test:
//  1. Runs the full pipeline: parse → lower → verify
//  2. Executes the lowered program with the interpreter
//  3. If clang is available, writes the LLVM IR to a temp .ll file,
//     links it with the runtime and runs the binary
//  4. Compares each output against the .golden file
func TestE2E(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*.mc")
	if err != nil {
		t.Fatal(err)
	}
	if len(testFiles) == 0 {
		t.Fatal("no .mc test files found in testdata/")
	}

	clang, clangErr := exec.LookPath("clang")
	if clangErr != nil {
		t.Log("clang not found, checking interpreter output only")
	}
	runtimeC := findRuntime(t)

	for _, testFile := range testFiles {
		name := strings.TrimSuffix(filepath.Base(testFile), ".mc")
		t.Run(name, func(t *testing.T) {
			goldenFile := strings.TrimSuffix(testFile, ".mc") + ".golden"
			expected, err := os.ReadFile(goldenFile)
			if err != nil {
				t.Fatalf("reading golden file: %v", err)
			}
			want := string(expected)

			funcs := compile(t, testFile)

			var out bytes.Buffer
			if err := ssa.Run(funcs, &out); err != nil {
				t.Fatalf("interpreter: %v", err)
			}
			if got := out.String(); got != want {
				t.Errorf("interpreter output mismatch:\ngot:  %q\nwant: %q", got, want)
			}

			if clangErr != nil {
				return
			}
			if got := runNative(t, clang, funcs, runtimeC); got != want {
				t.Errorf("native output mismatch:\ngot:  %q\nwant: %q", got, want)
			}
		})
	}
}

// compile runs the front end and lowering in-process.
func compile(t *testing.T, mcFile string) []*ssa.Func {
	t.Helper()

	f, err := os.Open(mcFile)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	reg := types.NewRegistry()
	ast, err := syntax.Parse(mcFile, f, reg)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	funcs, err := ssa.Build(ast, reg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, fn := range funcs {
		if err := ssa.Verify(fn); err != nil {
			t.Fatalf("verify %s: %v", fn.Name, err)
		}
	}
	return funcs
}

// runNative emits LLVM IR for funcs, links it with the runtime and returns
// the binary's stdout.
func runNative(t *testing.T, clang string, funcs []*ssa.Func, runtimeC string) string {
	t.Helper()

	tmpDir := t.TempDir()
	llFile := filepath.Join(tmpDir, "output.ll")
	binFile := filepath.Join(tmpDir, "output")

	out, err := os.Create(llFile)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := codegen.Generate(out, funcs, codegen.Options{ModuleName: "output.ll"}); err != nil {
		out.Close()
		t.Fatalf("codegen: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}

	cmd := exec.Command(clang, "-Wno-override-module", llFile, runtimeC, "-o", binFile)
	if msg, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("clang failed:\n%s\n%v", msg, err)
	}

	stdout, err := exec.Command(binFile).Output()
	if err != nil {
		t.Fatalf("binary execution failed: %v", err)
	}
	return string(stdout)
}

// findRuntime locates the runtime/runtime.c file relative to the test directory.
func findRuntime(t *testing.T) string {
	t.Helper()

	candidates := []string{
		"../../runtime/runtime.c",
		"../../../runtime/runtime.c",
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}

	t.Fatal("cannot find runtime/runtime.c")
	return ""
}
