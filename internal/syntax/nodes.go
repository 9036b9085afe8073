package syntax

import "github.com/you-not-fish/minic/internal/types"

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 2 classes of nodes: Expressions and Statements. Function
// declarations are statements. Both sets are closed; consumers switch over
// the concrete types.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of first character belonging to the node
	aNode()   // marker method to restrict implementations to this package
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all AST nodes.
type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

// expr is embedded in all expression nodes.
type expr struct{ node }

func (*expr) aExpr() {}

// stmt is embedded in all statement nodes.
type stmt struct{ node }

func (*stmt) aStmt() {}

// ----------------------------------------------------------------------------
// Files and Declarations

// File represents a complete source file: its functions in source order.
type File struct {
	node
	Funcs []*FuncDecl
}

// FuncDecl represents a function declaration.
//
//	def<Result> Name(Params) Body
//	main() Body
type FuncDecl struct {
	stmt
	Name   *Name      // function name
	Result types.Type // Void, Int or Float
	Params []*Field   // parameter list
	Body   *BlockStmt // function body
	Main   bool       // declared with the main() form
}

// Field represents a function parameter.
type Field struct {
	node
	Name *Name      // parameter name
	Type types.Type // Int or Float
}

// ----------------------------------------------------------------------------
// Expressions

// Name represents an identifier.
type Name struct {
	expr
	Value string // identifier string
}

// BasicLit represents a numeric literal.
type BasicLit struct {
	expr
	Value string  // literal text
	Kind  LitKind // IntLit or FloatLit
}

// Operation represents a binary arithmetic operation: X Op Y.
type Operation struct {
	expr
	Op Token // _Add, _Sub, _Mul or _Div
	X  Expr  // left operand
	Y  Expr  // right operand
}

// CallExpr represents a function call: Fun(Args...)
type CallExpr struct {
	expr
	Fun     *Name  // callee
	Args    []Expr // argument list
	Builtin bool   // callee is a runtime print helper
}

// IndexExpr represents an array element: X[Index]
type IndexExpr struct {
	expr
	X     *Name // array variable
	Index Expr  // element index
}

// ArrayLit represents an array initializer: {Elems...}
type ArrayLit struct {
	expr
	Elems []Expr
}

// ----------------------------------------------------------------------------
// Statements

// AssignStmt represents a declaration or an assignment.
//
//	int<> x = Rhs;          Decl = Int
//	float<> xs[N] = {...};  Decl = FloatArray, Len = N, Rhs is *ArrayLit
//	int<> xs[N];            Decl = IntArray, Len = N, Rhs = nil
//	x = Rhs;                Decl = Void
//	xs[i] = Rhs;            Decl = Void, Lhs is *IndexExpr
type AssignStmt struct {
	stmt
	Decl types.Type // declared type, or Void for plain assignment
	Len  int        // element count for array declarations
	Lhs  Expr       // *Name or *IndexExpr
	Rhs  Expr       // value; nil for an uninitialized array
}

// ReturnStmt represents a return statement: return [Result]
type ReturnStmt struct {
	stmt
	Result Expr // return value (nil for bare return)
}

// CallStmt represents a call used as a statement.
type CallStmt struct {
	stmt
	Call *CallExpr
}

// BlockStmt represents a function body: { Stmts... }
type BlockStmt struct {
	stmt
	Stmts  []Stmt // statements
	Rbrace Pos    // position of closing brace
}
