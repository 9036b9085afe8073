package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const addProgram = `def<int> add(int x, int y) {
	return x + y;
}

main() {
	int<> z = add(2, 3);
	printVarInt(z);
}
`

func TestRunEmitLLDefinesFunctions(t *testing.T) {
	filename := writeTempFile(t, addProgram)
	code, out, errOut := captureOutput(t, func() int {
		return runEmitLL(filename)
	})

	if code != 0 {
		t.Fatalf("runEmitLL exit=%d\nstderr:\n%s\nstdout:\n%s", code, errOut, out)
	}
	if errOut != "" {
		t.Fatalf("unexpected stderr:\n%s", errOut)
	}
	for _, want := range []string{
		"; ModuleID = 'input.mc'",
		"declare void @printVarInt(i32)",
		"define i32 @add(i32 %arg.x, i32 %arg.y) {",
		"define void @minic_main() {",
		"call void @printVarInt(i32 %v5)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("LLVM IR missing %q:\n%s", want, out)
		}
	}
}

func TestRunEmitLLWritesOutputFile(t *testing.T) {
	filename := writeTempFile(t, addProgram)
	outFile := filepath.Join(t.TempDir(), "out.ll")
	setFlag(t, output, outFile)
	setFlag(t, triple, "x86_64-unknown-linux-gnu")

	code, out, errOut := captureOutput(t, func() int {
		return runEmitLL(filename)
	})
	if code != 0 {
		t.Fatalf("runEmitLL exit=%d\nstderr:\n%s", code, errOut)
	}
	if out != "" {
		t.Fatalf("unexpected stdout:\n%s", out)
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "target triple = \"x86_64-unknown-linux-gnu\"") {
		t.Fatalf("output file missing target triple:\n%s", data)
	}
}

func TestRunEmitLLReportsCompileError(t *testing.T) {
	filename := writeTempFile(t, "main() {\n\tint<> z = mul(2, 3);\n}\n")
	code, out, errOut := captureOutput(t, func() int {
		return runEmitLL(filename)
	})

	if code != 1 {
		t.Fatalf("runEmitLL exit=%d, want 1", code)
	}
	if out != "" {
		t.Fatalf("partial IR emitted:\n%s", out)
	}
	want := "error: undeclared function: mul\n" +
		"  2 | \tint<> z = mul(2, 3);\n" +
		"    | \t          ^^^\n" +
		filename + ":2:12\n"
	if errOut != want {
		t.Fatalf("stderr = %q, want %q", errOut, want)
	}
}

func TestRunEmitLLTypeMismatch(t *testing.T) {
	filename := writeTempFile(t, "main() { float<> y = 3; }\n")
	code, _, errOut := captureOutput(t, func() int {
		return runEmitLL(filename)
	})
	if code != 1 {
		t.Fatalf("runEmitLL exit=%d, want 1", code)
	}
	if !strings.HasPrefix(errOut, "error: cannot use 3 (int literal) as float value\n") {
		t.Fatalf("unexpected stderr:\n%s", errOut)
	}
}

func TestRunEmitLLMissingFile(t *testing.T) {
	code, _, errOut := captureOutput(t, func() int {
		return runEmitLL(filepath.Join(t.TempDir(), "missing.mc"))
	})
	if code != 1 || !strings.HasPrefix(errOut, "error: ") {
		t.Fatalf("exit=%d stderr=%q", code, errOut)
	}
}

func TestRunInterp(t *testing.T) {
	filename := writeTempFile(t, `main() {
	int<> x[3] = {1, 2, 3};
	x[1] = 9;
	printVarInt(x[1]);
	printVarFloat(1.0 / 4.0);
}
`)
	code, out, errOut := captureOutput(t, func() int {
		return runInterp(filename)
	})
	if code != 0 {
		t.Fatalf("runInterp exit=%d\nstderr:\n%s", code, errOut)
	}
	if out != "9\n0.250000\n" {
		t.Fatalf("output = %q", out)
	}
}

func TestRunInterpRuntimeError(t *testing.T) {
	filename := writeTempFile(t, "main() {\n\tint<> z = 0;\n\tprintVarInt(1 / z);\n}\n")
	code, _, errOut := captureOutput(t, func() int {
		return runInterp(filename)
	})
	if code != 1 {
		t.Fatalf("runInterp exit=%d, want 1", code)
	}
	if !strings.Contains(errOut, "runtime error in main: integer divide by zero") {
		t.Fatalf("unexpected stderr:\n%s", errOut)
	}
}

func TestRunEmitTokens(t *testing.T) {
	filename := writeTempFile(t, "main() { int<> a = 2; }\n")
	code, out, errOut := captureOutput(t, func() int {
		return runEmitTokens(filename)
	})
	if code != 0 {
		t.Fatalf("runEmitTokens exit=%d\nstderr:\n%s", code, errOut)
	}
	for _, want := range []string{"POSITION", "main", "NAME(a)", "INT(2)", `"2"`, "EOF"} {
		if !strings.Contains(out, want) {
			t.Fatalf("token output missing %q:\n%s", want, out)
		}
	}
}

func TestRunEmitAST(t *testing.T) {
	filename := writeTempFile(t, addProgram)

	tests := []struct {
		format string
		want   string
	}{
		{"text", "FuncDecl"},
		{"json", `"type": "File"`},
		{"source", "def<int> add(int x, int y) {"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			setFlag(t, astFormat, tt.format)
			code, out, errOut := captureOutput(t, func() int {
				return runEmitAST(filename)
			})
			if code != 0 {
				t.Fatalf("runEmitAST exit=%d\nstderr:\n%s", code, errOut)
			}
			if !strings.Contains(out, tt.want) {
				t.Fatalf("output missing %q:\n%s", tt.want, out)
			}
		})
	}

	setFlag(t, astFormat, "yaml")
	code, _, errOut := captureOutput(t, func() int {
		return runEmitAST(filename)
	})
	if code != 1 || !strings.Contains(errOut, "unknown AST format") {
		t.Fatalf("exit=%d stderr=%q", code, errOut)
	}
}

func TestRunEmitScopes(t *testing.T) {
	filename := writeTempFile(t, addProgram)
	code, out, errOut := captureOutput(t, func() int {
		return runEmitScopes(filename)
	})
	if code != 0 {
		t.Fatalf("runEmitScopes exit=%d\nstderr:\n%s", code, errOut)
	}
	for _, want := range []string{
		"def<int> add(int x, int y)",
		"scope add {",
		"param int x",
		"scope main {",
		"var   int z",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("scope output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "printVarInt") {
		t.Fatalf("built-ins listed:\n%s", out)
	}
}

func TestRunEmitSSADumpFunc(t *testing.T) {
	filename := writeTempFile(t, addProgram)
	setFlag(t, dumpFunc, "add")
	setBoolFlag(t, ssaVerify, true)

	code, out, errOut := captureOutput(t, func() int {
		return runEmitSSA(filename)
	})
	if code != 0 {
		t.Fatalf("runEmitSSA exit=%d\nstderr:\n%s", code, errOut)
	}
	if !strings.Contains(out, "func add(x int, y int) int:") {
		t.Fatalf("SSA output missing add:\n%s", out)
	}
	if strings.Contains(out, "func main") {
		t.Fatalf("SSA output not filtered:\n%s", out)
	}

	setFlag(t, dumpFunc, "nope")
	code, _, errOut = captureOutput(t, func() int {
		return runEmitSSA(filename)
	})
	if code != 1 || !strings.Contains(errOut, "no function named nope") {
		t.Fatalf("exit=%d stderr=%q", code, errOut)
	}
}

func TestRunEmitBCRequiresOutput(t *testing.T) {
	filename := writeTempFile(t, addProgram)
	setFlag(t, output, "")
	code, _, errOut := captureOutput(t, func() int {
		return runEmitBC(filename)
	})
	if code != 1 || !strings.Contains(errOut, "-emit-bc requires -o") {
		t.Fatalf("exit=%d stderr=%q", code, errOut)
	}
}

func TestTrace(t *testing.T) {
	filename := writeTempFile(t, addProgram)
	setBoolFlag(t, trace, true)

	code, _, errOut := captureOutput(t, func() int {
		return runEmitLL(filename)
	})
	if code != 0 {
		t.Fatalf("runEmitLL exit=%d\nstderr:\n%s", code, errOut)
	}
	for _, p := range []string{"trace: parse", "trace: build", "trace: codegen"} {
		if !strings.Contains(errOut, p) {
			t.Fatalf("trace missing %q:\n%s", p, errOut)
		}
	}
}

func TestCheckGoVersion(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"go1.23.3", true},
		{"go1.21", true},
		{"go1.20.5", false},
		{"go2.0", true},
		{"devel", false},
		{"go1", false},
	}
	for _, tt := range tests {
		if got := checkGoVersion(tt.in); got != tt.want {
			t.Errorf("checkGoVersion(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatLiteral(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", `""`},
		{"abc", `"abc"`},
		{"a\tb", `"a\tb"`},
		{`a"b`, `"a\"b"`},
	}
	for _, tt := range tests {
		if got := formatLiteral(tt.in); got != tt.want {
			t.Errorf("formatLiteral(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func setFlag(t *testing.T, p *string, v string) {
	t.Helper()
	old := *p
	*p = v
	t.Cleanup(func() { *p = old })
}

func setBoolFlag(t *testing.T, p *bool, v bool) {
	t.Helper()
	old := *p
	*p = v
	t.Cleanup(func() { *p = old })
}

func writeTempFile(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	filename := filepath.Join(dir, "input.mc")
	if err := os.WriteFile(filename, []byte(src), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return filename
}

func captureOutput(t *testing.T, fn func() int) (code int, stdout string, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stdout: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stderr: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code = fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	outBytes, _ := io.ReadAll(rOut)
	errBytes, _ := io.ReadAll(rErr)
	_ = rOut.Close()
	_ = rErr.Close()

	return code, string(outBytes), string(errBytes)
}
