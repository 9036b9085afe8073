package ssa

import (
	"strconv"

	"github.com/you-not-fish/minic/internal/syntax"
	"github.com/you-not-fish/minic/internal/types"
)

// expr lowers an expression whose value must have type ctx.
// The operator form of arithmetic is selected by ctx, which is the type
// fixed by the enclosing statement or call argument.
func (b *builder) expr(e syntax.Expr, ctx types.Type) (*Value, error) {
	switch e := e.(type) {
	case *syntax.BasicLit:
		return b.basicLit(e, ctx)

	case *syntax.Name:
		return b.nameExpr(e, ctx)

	case *syntax.IndexExpr:
		ptr, err := b.indexPtr(e)
		if err != nil {
			return nil, err
		}
		if elem := ptr.Type.Elem(); elem != ctx {
			return nil, errorf(e.Pos(), "cannot use %s element (type %s) as %s value", e.X.Value, elem, ctx)
		}
		return b.fn.NewValuePos(b.b, OpLoad, ctx, e.Pos(), ptr), nil

	case *syntax.Operation:
		return b.operation(e, ctx)

	case *syntax.CallExpr:
		v, err := b.call(e)
		if err != nil {
			return nil, err
		}
		if v.Type != ctx {
			return nil, errorf(e.Pos(), "cannot use %s() (value of type %s) as %s value", e.Fun.Value, v.Type, ctx)
		}
		return v, nil

	case *syntax.ArrayLit:
		return nil, errorf(e.Pos(), "array literal used as %s value", ctx)
	}
	return nil, errorf(e.Pos(), "cannot lower %T", e)
}

// basicLit materializes a constant from the literal text.
func (b *builder) basicLit(e *syntax.BasicLit, ctx types.Type) (*Value, error) {
	switch {
	case ctx == types.Int && e.Kind == syntax.IntLit:
		n, err := strconv.ParseInt(e.Value, 10, 32)
		if err != nil {
			return nil, errorf(e.Pos(), "invalid int literal %s", e.Value)
		}
		v := b.fn.NewValuePos(b.b, OpConstInt, types.Int, e.Pos())
		v.AuxInt = n
		return v, nil

	case ctx == types.Float && e.Kind == syntax.FloatLit:
		f, err := strconv.ParseFloat(e.Value, 32)
		if err != nil {
			return nil, errorf(e.Pos(), "invalid float literal %s", e.Value)
		}
		v := b.fn.NewValuePos(b.b, OpConstFloat, types.Float, e.Pos())
		v.AuxFloat = float64(float32(f))
		return v, nil
	}
	return nil, errorf(e.Pos(), "cannot use %s (%s literal) as %s value", e.Value, e.Kind, ctx)
}

// nameExpr lowers a variable reference to a load from its slot.
func (b *builder) nameExpr(e *syntax.Name, ctx types.Type) (*Value, error) {
	slot, ok := b.vars[e.Value]
	if !ok {
		return nil, errorf(e.Pos(), "variable %s used before assignment", e.Value)
	}
	if slot.AuxInt > 0 {
		return nil, errorf(e.Pos(), "cannot use array %s as %s value", e.Value, ctx)
	}
	if typ := slot.Type.Elem(); typ != ctx {
		return nil, errorf(e.Pos(), "cannot use %s (variable of type %s) as %s value", e.Value, typ, ctx)
	}
	return b.fn.NewValuePos(b.b, OpLoad, ctx, e.Pos(), slot), nil
}

// indexPtr lowers the address of xs[i].
func (b *builder) indexPtr(e *syntax.IndexExpr) (*Value, error) {
	slot, err := b.slot(e.X)
	if err != nil {
		return nil, err
	}
	if slot.AuxInt == 0 {
		return nil, errorf(e.Pos(), "cannot index %s (variable of type %s)", e.X.Value, slot.Type.Elem())
	}
	idx, err := b.expr(e.Index, types.Int)
	if err != nil {
		return nil, err
	}
	return b.fn.NewValuePos(b.b, OpIndexPtr, slot.Type, e.Pos(), slot, idx), nil
}

// arithOps maps source operators to their int and float ops.
var arithOps = map[syntax.Token][2]Op{
	syntax.Add: {OpAdd, OpFAdd},
	syntax.Sub: {OpSub, OpFSub},
	syntax.Mul: {OpMul, OpFMul},
	syntax.Div: {OpSDiv, OpFDiv},
}

// operation lowers x op y with both operands under ctx.
func (b *builder) operation(e *syntax.Operation, ctx types.Type) (*Value, error) {
	ops, ok := arithOps[e.Op]
	if !ok {
		return nil, errorf(e.Pos(), "unsupported operator %s", e.Op)
	}
	var op Op
	switch ctx {
	case types.Int:
		op = ops[0]
	case types.Float:
		op = ops[1]
	default:
		return nil, errorf(e.Pos(), "operator %s not defined on %s", e.Op, ctx)
	}

	x, err := b.expr(e.X, ctx)
	if err != nil {
		return nil, err
	}
	y, err := b.expr(e.Y, ctx)
	if err != nil {
		return nil, err
	}
	return b.fn.NewValuePos(b.b, op, ctx, e.Pos(), x, y), nil
}

// call lowers a call. Built-ins become CallBuiltin; any other callee must
// already have been lowered (or be the current function).
func (b *builder) call(e *syntax.CallExpr) (*Value, error) {
	name := e.Fun.Value

	var sig *types.Signature
	op := OpStaticCall
	if e.Builtin || types.IsBuiltin(name) {
		sig = b.reg.LookupFunc(name)
		op = OpCallBuiltin
	} else {
		sig = b.funcs[name]
	}
	if sig == nil {
		return nil, errorf(e.Pos(), "call to undeclared function %s", name)
	}
	if len(e.Args) != sig.NumParams() {
		return nil, errorf(e.Pos(), "call to %s has %d arguments, want %d", name, len(e.Args), sig.NumParams())
	}

	args := make([]*Value, len(e.Args))
	for i, a := range e.Args {
		v, err := b.expr(a, sig.Param(i).Type())
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	v := b.fn.NewValuePos(b.b, op, sig.Result(), e.Pos(), args...)
	v.Aux = sig
	return v, nil
}
