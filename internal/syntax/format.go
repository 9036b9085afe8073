package syntax

import (
	"fmt"
	"io"
	"strings"

	"github.com/you-not-fish/minic/internal/types"
)

// FprintSource writes node back out as minic source text.
// Parentheses are emitted only where precedence or left associativity
// require them, so the output parses to the same tree.
func FprintSource(w io.Writer, node Node) error {
	var b strings.Builder
	formatNode(&b, node)
	_, err := io.WriteString(w, b.String())
	return err
}

// String returns the source form of an expression.
func String(x Expr) string {
	var b strings.Builder
	formatExpr(&b, x, 0)
	return b.String()
}

func formatNode(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case *File:
		for i, d := range n.Funcs {
			if i > 0 {
				b.WriteString("\n")
			}
			formatNode(b, d)
		}
	case *FuncDecl:
		formatFunc(b, n)
	case Stmt:
		formatStmt(b, n)
	case Expr:
		formatExpr(b, n, 0)
	}
}

func formatFunc(b *strings.Builder, d *FuncDecl) {
	if d.Main {
		b.WriteString("main()")
	} else {
		fmt.Fprintf(b, "def<%s> %s(", d.Result, d.Name.Value)
		for i, f := range d.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s %s", f.Type, f.Name.Value)
		}
		b.WriteString(")")
	}
	b.WriteString(" {\n")
	for _, s := range d.Body.Stmts {
		b.WriteString("\t")
		formatStmt(b, s)
		b.WriteString("\n")
	}
	b.WriteString("}\n")
}

func formatStmt(b *strings.Builder, s Stmt) {
	switch s := s.(type) {
	case *AssignStmt:
		switch {
		case types.IsArray(s.Decl):
			fmt.Fprintf(b, "%s<> ", s.Decl.Elem())
			formatExpr(b, s.Lhs, 0)
			fmt.Fprintf(b, "[%d]", s.Len)
			if s.Rhs != nil {
				b.WriteString(" = ")
				formatExpr(b, s.Rhs, 0)
			}
		case s.Decl != types.Void:
			fmt.Fprintf(b, "%s<> ", s.Decl)
			formatExpr(b, s.Lhs, 0)
			b.WriteString(" = ")
			formatExpr(b, s.Rhs, 0)
		default:
			formatExpr(b, s.Lhs, 0)
			b.WriteString(" = ")
			formatExpr(b, s.Rhs, 0)
		}
		b.WriteString(";")
	case *ReturnStmt:
		b.WriteString("return")
		if s.Result != nil {
			b.WriteString(" ")
			formatExpr(b, s.Result, 0)
		}
		b.WriteString(";")
	case *CallStmt:
		formatExpr(b, s.Call, 0)
		b.WriteString(";")
	case *BlockStmt:
		for _, x := range s.Stmts {
			formatStmt(b, x)
			b.WriteString("\n")
		}
	case *FuncDecl:
		formatFunc(b, s)
	}
}

// formatExpr writes x. prec is the precedence of the enclosing operator
// for a left operand; a right operand passes prec+1 so that equal
// precedence is parenthesized there.
func formatExpr(b *strings.Builder, x Expr, prec int) {
	switch x := x.(type) {
	case *Name:
		b.WriteString(x.Value)
	case *BasicLit:
		b.WriteString(x.Value)
	case *Operation:
		p := x.Op.Precedence()
		if p < prec {
			b.WriteString("(")
		}
		formatExpr(b, x.X, p)
		fmt.Fprintf(b, " %s ", x.Op)
		formatExpr(b, x.Y, p+1)
		if p < prec {
			b.WriteString(")")
		}
	case *CallExpr:
		b.WriteString(x.Fun.Value)
		b.WriteString("(")
		for i, a := range x.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			formatExpr(b, a, 0)
		}
		b.WriteString(")")
	case *IndexExpr:
		b.WriteString(x.X.Value)
		b.WriteString("[")
		formatExpr(b, x.Index, 0)
		b.WriteString("]")
	case *ArrayLit:
		b.WriteString("{")
		for i, e := range x.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			formatExpr(b, e, 0)
		}
		b.WriteString("}")
	}
}
