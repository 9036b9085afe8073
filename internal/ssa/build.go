package ssa

import (
	"fmt"

	"github.com/you-not-fish/minic/internal/syntax"
	"github.com/you-not-fish/minic/internal/types"
)

// BuildError reports a construct the generator cannot lower.
// The parser rejects every such program first, so a BuildError means the
// AST and registry handed to Build disagree.
type BuildError struct {
	Pos syntax.Pos
	Msg string
}

func (e *BuildError) Error() string {
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + e.Msg
	}
	return e.Msg
}

// builder holds the state for lowering a single function.
type builder struct {
	reg   *types.Registry
	scope *types.Scope                // archived locals of the current function
	funcs map[string]*types.Signature // functions lowered so far

	fn *Func  // current function
	b  *Block // current block (nil after a return)

	vars map[string]*Value // variable name → Alloca
}

// Build lowers every function of file, in source order, using the
// signatures and archived scopes the parser recorded in reg.
// A function can call only itself, the built-ins, and functions before it.
// The first error stops lowering; no partial result is returned.
func Build(file *syntax.File, reg *types.Registry) ([]*Func, error) {
	funcs := make(map[string]*types.Signature)
	var out []*Func
	for _, fd := range file.Funcs {
		fn, err := buildFunc(fd, reg, funcs)
		if err != nil {
			return nil, err
		}
		out = append(out, fn)
	}
	return out, nil
}

// buildFunc lowers a single FuncDecl.
func buildFunc(fd *syntax.FuncDecl, reg *types.Registry, funcs map[string]*types.Signature) (*Func, error) {
	name := fd.Name.Value
	sig := reg.LookupFunc(name)
	if sig == nil || sig.Builtin() {
		return nil, errorf(fd.Pos(), "no signature recorded for function %s", name)
	}
	scope := reg.Scope(name)
	if scope == nil {
		return nil, errorf(fd.Pos(), "no scope recorded for function %s", name)
	}
	funcs[name] = sig

	fn := NewFunc(name, sig)
	b := &builder{
		reg:   reg,
		scope: scope,
		funcs: funcs,
		fn:    fn,
		b:     fn.Entry,
		vars:  make(map[string]*Value),
	}

	// Emit parameters: OpArg + OpAlloca + OpStore for each.
	for i, param := range sig.Params() {
		arg := fn.NewValuePos(fn.Entry, OpArg, param.Type(), fd.Params[i].Pos())
		arg.AuxInt = int64(i)
		arg.Aux = param.Name()

		slot := b.alloca(param, fd.Params[i].Pos())
		fn.NewValue(fn.Entry, OpStore, types.Void, slot, arg)
	}

	if err := b.stmts(fd.Body.Stmts); err != nil {
		return nil, err
	}

	// Implicit void return.
	if b.b != nil {
		if sig.Result() != types.Void {
			return nil, errorf(fd.Body.Rbrace, "missing return at end of function %s", name)
		}
		b.b.Kind = BlockReturn
	}

	return fn, nil
}

func errorf(pos syntax.Pos, format string, args ...interface{}) error {
	return &BuildError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// alloca creates the stack slot for v.
func (b *builder) alloca(v *types.Var, pos syntax.Pos) *Value {
	slot := b.fn.NewValuePos(b.fn.Entry, OpAlloca, v.Type().PointerTo(), pos)
	slot.AuxInt = int64(v.Len())
	slot.Aux = v.Name()
	b.vars[v.Name()] = slot
	return slot
}

// slot resolves the stack slot of a variable, allocating it on first use
// with the type recorded in the function's scope. Each variable has exactly
// one slot per function; reassignment reuses it.
func (b *builder) slot(name *syntax.Name) (*Value, error) {
	if s, ok := b.vars[name.Value]; ok {
		return s, nil
	}
	v := b.scope.Lookup(name.Value)
	if v == nil {
		return nil, errorf(name.Pos(), "undeclared variable %s in function %s", name.Value, b.fn.Name)
	}
	return b.alloca(v, name.Pos()), nil
}

// stmts lowers a list of statements. Statements after a return are dropped.
func (b *builder) stmts(list []syntax.Stmt) error {
	for _, s := range list {
		if b.b == nil {
			break
		}
		if err := b.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

// stmt dispatches a statement to the appropriate lowering method.
func (b *builder) stmt(s syntax.Stmt) error {
	switch s := s.(type) {
	case *syntax.AssignStmt:
		return b.assignStmt(s)

	case *syntax.ReturnStmt:
		return b.returnStmt(s)

	case *syntax.CallStmt:
		_, err := b.call(s.Call)
		return err

	case *syntax.BlockStmt:
		return b.stmts(s.Stmts)
	}
	return errorf(s.Pos(), "cannot lower %T", s)
}

// assignStmt lowers declarations and assignments:
//
//	T<> x = e;  x = e;    slot(x) ← e
//	T<> xs[N] = {...};    slot(xs) ← each element
//	T<> xs[N];            slot(xs) only
//	xs[i] = e;            IndexPtr(slot(xs), i) ← e
func (b *builder) assignStmt(s *syntax.AssignStmt) error {
	switch lhs := s.Lhs.(type) {
	case *syntax.Name:
		slot, err := b.slot(lhs)
		if err != nil {
			return err
		}
		if slot.AuxInt > 0 {
			if s.Rhs == nil {
				return nil
			}
			lit, ok := s.Rhs.(*syntax.ArrayLit)
			if !ok {
				return errorf(s.Pos(), "cannot assign to array %s as a whole", lhs.Value)
			}
			return b.arrayLit(slot, lit)
		}
		val, err := b.expr(s.Rhs, slot.Type.Elem())
		if err != nil {
			return err
		}
		b.fn.NewValuePos(b.b, OpStore, types.Void, s.Pos(), slot, val)
		return nil

	case *syntax.IndexExpr:
		ptr, err := b.indexPtr(lhs)
		if err != nil {
			return err
		}
		val, err := b.expr(s.Rhs, ptr.Type.Elem())
		if err != nil {
			return err
		}
		b.fn.NewValuePos(b.b, OpStore, types.Void, s.Pos(), ptr, val)
		return nil
	}
	return errorf(s.Pos(), "cannot assign to %T", s.Lhs)
}

// arrayLit stores the elements of lit into successive elements of slot,
// starting from the address of element 0.
func (b *builder) arrayLit(slot *Value, lit *syntax.ArrayLit) error {
	if len(lit.Elems) == 0 {
		return nil
	}
	if int64(len(lit.Elems)) != slot.AuxInt {
		return errorf(lit.Pos(), "array of %d elements has %d initializers", slot.AuxInt, len(lit.Elems))
	}

	zero := b.fn.NewValuePos(b.b, OpConstInt, types.Int, lit.Pos())
	ptr := b.fn.NewValuePos(b.b, OpIndexPtr, slot.Type, lit.Pos(), slot, zero)
	for i, e := range lit.Elems {
		if i > 0 {
			ptr = b.fn.NewValuePos(b.b, OpPtrInc, slot.Type, e.Pos(), ptr)
			ptr.AuxInt = 1
		}
		val, err := b.expr(e, slot.Type.Elem())
		if err != nil {
			return err
		}
		b.fn.NewValuePos(b.b, OpStore, types.Void, e.Pos(), ptr, val)
	}
	return nil
}

// returnStmt lowers return [e] and closes the function.
func (b *builder) returnStmt(s *syntax.ReturnStmt) error {
	result := b.fn.Sig.Result()
	switch {
	case s.Result == nil && result != types.Void:
		return errorf(s.Pos(), "missing return value in function %s returning %s", b.fn.Name, result)
	case s.Result != nil && result == types.Void:
		return errorf(s.Pos(), "return value in void function %s", b.fn.Name)
	}

	if s.Result != nil {
		val, err := b.expr(s.Result, result)
		if err != nil {
			return err
		}
		b.b.SetControl(val)
	}
	b.b.Kind = BlockReturn
	b.b = nil // subsequent code is unreachable
	return nil
}
