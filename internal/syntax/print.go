package syntax

import (
	"fmt"
	"io"
	"strings"

	"github.com/you-not-fish/minic/internal/types"
)

// Fprint writes an indented tree dump of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// child prints n one level deeper, under an optional label.
func (p *printer) child(label string, n Node) {
	if label != "" {
		p.printf("%s:\n", label)
	}
	p.indent++
	p.print(n)
	p.indent--
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *File:
		p.printf("File %s\n", n.pos)
		p.indent++
		for _, d := range n.Funcs {
			p.print(d)
		}
		p.indent--

	case *FuncDecl:
		p.printf("FuncDecl %s\n", n.pos)
		p.indent++
		p.printf("Name: %s\n", n.Name.Value)
		if n.Main {
			p.printf("Main: true\n")
		}
		if len(n.Params) > 0 {
			p.printf("Params:\n")
			p.indent++
			for _, f := range n.Params {
				p.printf("%s %s\n", f.Name.Value, f.Type)
			}
			p.indent--
		}
		p.printf("Result: %s\n", n.Result)
		if n.Body != nil {
			p.child("Body", n.Body)
		}
		p.indent--

	case *BlockStmt:
		p.printf("BlockStmt %s\n", n.pos)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *AssignStmt:
		switch {
		case n.Len > 0:
			p.printf("AssignStmt %s decl %s[%d]\n", n.pos, n.Decl.Elem(), n.Len)
		case n.Decl != types.Void:
			p.printf("AssignStmt %s decl %s\n", n.pos, n.Decl)
		default:
			p.printf("AssignStmt %s\n", n.pos)
		}
		p.indent++
		p.child("LHS", n.Lhs)
		if n.Rhs != nil {
			p.child("RHS", n.Rhs)
		}
		p.indent--

	case *ReturnStmt:
		p.printf("ReturnStmt %s\n", n.pos)
		if n.Result != nil {
			p.indent++
			p.print(n.Result)
			p.indent--
		}

	case *CallStmt:
		p.printf("CallStmt %s\n", n.pos)
		p.indent++
		p.print(n.Call)
		p.indent--

	case *Name:
		p.printf("Name %s %q\n", n.pos, n.Value)

	case *BasicLit:
		p.printf("BasicLit %s %s %q\n", n.pos, n.Kind, n.Value)

	case *Operation:
		p.printf("BinaryOp %s %s\n", n.pos, n.Op)
		p.indent++
		p.child("X", n.X)
		p.child("Y", n.Y)
		p.indent--

	case *CallExpr:
		if n.Builtin {
			p.printf("CallExpr %s builtin\n", n.pos)
		} else {
			p.printf("CallExpr %s\n", n.pos)
		}
		p.indent++
		p.child("Fun", n.Fun)
		if len(n.Args) > 0 {
			p.printf("Args:\n")
			p.indent++
			for _, a := range n.Args {
				p.print(a)
			}
			p.indent--
		}
		p.indent--

	case *IndexExpr:
		p.printf("IndexExpr %s\n", n.pos)
		p.indent++
		p.child("X", n.X)
		p.child("Index", n.Index)
		p.indent--

	case *ArrayLit:
		p.printf("ArrayLit %s len=%d\n", n.pos, len(n.Elems))
		p.indent++
		for _, e := range n.Elems {
			p.print(e)
		}
		p.indent--

	default:
		p.printf("<unknown node %T>\n", n)
	}
}
