package ssa

import (
	"strings"
	"testing"

	"github.com/you-not-fish/minic/internal/types"
)

// makeAddFunc builds: def<int> add(int x, int y) { return x + y; }
// directly on the arguments, without slots.
func makeAddFunc() *Func {
	sig := types.NewSignature("add", types.Int,
		types.NewParam("x", types.Int),
		types.NewParam("y", types.Int),
	)

	f := NewFunc("add", sig)
	entry := f.Entry

	// v0 = Arg <int> [0] {x}
	v0 := f.NewValue(entry, OpArg, types.Int)
	v0.AuxInt = 0
	v0.Aux = "x"

	// v1 = Arg <int> [1] {y}
	v1 := f.NewValue(entry, OpArg, types.Int)
	v1.AuxInt = 1
	v1.Aux = "y"

	// v2 = Add <int> v0 v1
	v2 := f.NewValue(entry, OpAdd, types.Int, v0, v1)

	// Return v2
	entry.Kind = BlockReturn
	entry.SetControl(v2)

	return f
}

// makeArrayFunc builds main() { int<> xs[2]; xs[1] = 7; printVarInt(xs[1]); }
func makeArrayFunc() (*Func, *Value) {
	sig := types.NewSignature("main", types.Void)
	f := NewFunc("main", sig)
	entry := f.Entry

	slot := f.NewValue(entry, OpAlloca, types.IntPointer)
	slot.AuxInt = 2
	slot.Aux = "xs"
	one := f.NewValue(entry, OpConstInt, types.Int)
	one.AuxInt = 1
	p := f.NewValue(entry, OpIndexPtr, types.IntPointer, slot, one)
	seven := f.NewValue(entry, OpConstInt, types.Int)
	seven.AuxInt = 7
	f.NewValue(entry, OpStore, types.Void, p, seven)
	x := f.NewValue(entry, OpLoad, types.Int, p)
	call := f.NewValue(entry, OpCallBuiltin, types.Void, x)
	call.Aux = builtin(types.PrintVarInt)
	entry.Kind = BlockReturn
	return f, slot
}

func builtin(name string) *types.Signature {
	for _, sig := range types.Universe {
		if sig.Name() == name {
			return sig
		}
	}
	return nil
}

func TestManualConstruct(t *testing.T) {
	f := makeAddFunc()

	if f.Name != "add" {
		t.Errorf("Name = %q, want %q", f.Name, "add")
	}
	if f.NumBlocks() != 1 {
		t.Errorf("NumBlocks = %d, want 1", f.NumBlocks())
	}
	if f.NumValues() != 3 {
		t.Errorf("NumValues = %d, want 3", f.NumValues())
	}

	entry := f.Entry
	if entry.Kind != BlockReturn {
		t.Errorf("entry Kind = %v, want BlockReturn", entry.Kind)
	}

	addVal := entry.Values[2]
	if addVal.Op != OpAdd {
		t.Errorf("value[2].Op = %v, want OpAdd", addVal.Op)
	}
	if len(addVal.Args) != 2 {
		t.Errorf("add has %d args, want 2", len(addVal.Args))
	}
	if f.Count(OpArg) != 2 || f.Count(OpAdd) != 1 || f.Count(OpStore) != 0 {
		t.Errorf("unexpected op counts in\n%s", Sprint(f))
	}

	if err := Verify(f); err != nil {
		t.Errorf("Verify failed: %v", err)
	}
}

func TestPrintFormat(t *testing.T) {
	f := makeAddFunc()
	got := Sprint(f)

	want := `func add(x int, y int) int:
  b0: (entry)
    v0 = Arg <int> [0] {x}
    v1 = Arg <int> [1] {y}
    v2 = Add <int> v0 v1
    Return v2
`
	if got != want {
		t.Errorf("Sprint output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintMemoryOps(t *testing.T) {
	f, _ := makeArrayFunc()
	got := Sprint(f)

	want := `func main():
  b0: (entry)
    v0 = Alloca <int*> [2] {xs}
    v1 = ConstInt <int> [1]
    v2 = IndexPtr <int*> v0 v1
    v3 = ConstInt <int> [7]
    Store v2 v3
    v5 = Load <int> v2
    CallBuiltin {printVarInt} v5
    Return
`
	if got != want {
		t.Errorf("Sprint output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
	if err := Verify(f); err != nil {
		t.Errorf("Verify failed: %v", err)
	}
}

func TestPrintConstFloat(t *testing.T) {
	sig := types.NewSignature("half", types.Float)
	f := NewFunc("half", sig)
	v := f.NewValue(f.Entry, OpConstFloat, types.Float)
	v.AuxFloat = 0.5
	f.Entry.Kind = BlockReturn
	f.Entry.SetControl(v)

	if got := Sprint(f); !strings.Contains(got, "v0 = ConstFloat <float> [0.5]") {
		t.Errorf("unexpected output:\n%s", got)
	}
}

func TestVerifyValid(t *testing.T) {
	if err := Verify(makeAddFunc()); err != nil {
		t.Errorf("Verify failed: %v", err)
	}
}

func TestVerifyErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Func)
		want   string
	}{
		{
			name:   "no terminator",
			mutate: func(f *Func) { f.Entry.Kind = BlockPlain },
			want:   "want ret",
		},
		{
			name: "extra block",
			mutate: func(f *Func) {
				b := f.NewBlock(BlockReturn)
				b.Controls = f.Entry.Controls
			},
			want: "want the entry block only",
		},
		{
			name:   "float operand",
			mutate: func(f *Func) { f.Entry.Values[1].Type = types.Float },
			want:   "arg[1] has type float, want int",
		},
		{
			name:   "arith result type",
			mutate: func(f *Func) { f.Entry.Values[2].Op = OpFAdd },
			want:   "type int, want float",
		},
		{
			name:   "arg index",
			mutate: func(f *Func) { f.Entry.Values[1].AuxInt = 5 },
			want:   "parameter index 5 out of range",
		},
		{
			name: "return type",
			mutate: func(f *Func) {
				c := f.NewValue(f.Entry, OpConstFloat, types.Float)
				f.Entry.Controls = []*Value{c}
			},
			want: "returns float, want int",
		},
		{
			name:   "missing return value",
			mutate: func(f *Func) { f.Entry.Controls = nil },
			want:   "return has 0 values, want 1",
		},
		{
			name:   "nil arg",
			mutate: func(f *Func) { f.Entry.Values[2].Args[0] = nil },
			want:   "arg[0] is nil",
		},
		{
			name: "use before definition",
			mutate: func(f *Func) {
				vs := f.Entry.Values
				vs[0], vs[2] = vs[2], vs[0]
			},
			want: "used before definition",
		},
		{
			name:   "block mismatch",
			mutate: func(f *Func) { f.Entry.Values[0].Block = &Block{ID: 9} },
			want:   "value Block pointer is b9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := makeAddFunc()
			tt.mutate(f)
			err := Verify(f)
			if err == nil {
				t.Fatalf("Verify succeeded, want error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Verify error:\n%v\nwant substring %q", err, tt.want)
			}
		})
	}
}

func TestVerifyMemoryErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Func, slot *Value)
		want   string
	}{
		{
			name:   "scalar slot indexed",
			mutate: func(f *Func, slot *Value) { slot.AuxInt = 0 },
			want:   "is not an array slot",
		},
		{
			name:   "one element array",
			mutate: func(f *Func, slot *Value) { slot.AuxInt = 1 },
			want:   "invalid element count 1",
		},
		{
			name:   "store type",
			mutate: func(f *Func, slot *Value) { f.Entry.Values[3].Type = types.Float },
			want:   "stores float through int*",
		},
		{
			name:   "load type",
			mutate: func(f *Func, slot *Value) { f.Entry.Values[5].Type = types.Float },
			want:   "type float, want int",
		},
		{
			name:   "builtin arity",
			mutate: func(f *Func, slot *Value) { f.Entry.Values[6].Args = nil },
			want:   "has 0 args, want 1",
		},
		{
			name:   "builtin as static call",
			mutate: func(f *Func, slot *Value) { f.Entry.Values[6].Op = OpStaticCall },
			want:   "called with StaticCall",
		},
		{
			name:   "void return value",
			mutate: func(f *Func, slot *Value) { f.Entry.Controls = []*Value{f.Entry.Values[5]} },
			want:   "void function returns a value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, slot := makeArrayFunc()
			tt.mutate(f, slot)
			err := Verify(f)
			if err == nil {
				t.Fatalf("Verify succeeded, want error containing %q\n%s", tt.want, Sprint(f))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Verify error:\n%v\nwant substring %q", err, tt.want)
			}
		})
	}
}

func TestOpIsPure(t *testing.T) {
	pure := []Op{OpConstInt, OpConstFloat, OpAdd, OpFDiv, OpIndexPtr, OpPtrInc, OpArg}
	for _, op := range pure {
		if !op.IsPure() {
			t.Errorf("%s.IsPure() = false, want true", op)
		}
	}

	impure := []Op{OpSDiv, OpAlloca, OpLoad, OpStore, OpStaticCall, OpCallBuiltin}
	for _, op := range impure {
		if op.IsPure() {
			t.Errorf("%s.IsPure() = true, want false", op)
		}
	}
}

func TestOpIsVoid(t *testing.T) {
	for op := OpInvalid; op < opCount; op++ {
		want := op == OpStore || op == OpCallBuiltin
		if got := op.IsVoid(); got != want {
			t.Errorf("%s.IsVoid() = %v, want %v", op, got, want)
		}
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpInvalid, "Invalid"},
		{OpConstInt, "ConstInt"},
		{OpSDiv, "SDiv"},
		{OpFMul, "FMul"},
		{OpIndexPtr, "IndexPtr"},
		{OpCallBuiltin, "CallBuiltin"},
		{opCount, "unknown"},
		{Op(-1), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestOpNamesComplete(t *testing.T) {
	for op := OpInvalid; op < opCount; op++ {
		if op.Info().Name == "" {
			t.Errorf("Op(%d) has no name", op)
		}
	}
}

func TestBlockKindString(t *testing.T) {
	tests := []struct {
		kind BlockKind
		want string
	}{
		{BlockInvalid, "invalid"},
		{BlockPlain, "plain"},
		{BlockReturn, "ret"},
		{BlockKind(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("BlockKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestValueUseCount(t *testing.T) {
	f := makeAddFunc()
	x, y, sum := f.Entry.Values[0], f.Entry.Values[1], f.Entry.Values[2]
	if x.Uses != 1 || y.Uses != 1 {
		t.Errorf("arg uses = %d, %d, want 1, 1", x.Uses, y.Uses)
	}
	if sum.Uses != 1 {
		t.Errorf("sum uses = %d, want 1 (return control)", sum.Uses)
	}
	if sum.String() != "v2" || sum.LongString() != "v2 = Add <int> v0 v1" {
		t.Errorf("String/LongString = %q / %q", sum.String(), sum.LongString())
	}
}

func TestNewFuncCreatesEntry(t *testing.T) {
	f := NewFunc("f", types.NewSignature("f", types.Void))
	if f.Entry == nil || f.Blocks[0] != f.Entry {
		t.Fatal("entry block not created")
	}
	if f.Entry.Kind != BlockPlain {
		t.Errorf("entry kind = %s, want plain until terminated", f.Entry.Kind)
	}
	if f.Entry.Func != f {
		t.Error("entry Func pointer mismatch")
	}
}
