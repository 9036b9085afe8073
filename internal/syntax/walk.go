package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		for _, d := range n.Funcs {
			Walk(d, v)
		}

	case *FuncDecl:
		Walk(n.Name, v)
		for _, p := range n.Params {
			Walk(p, v)
		}
		if n.Body != nil {
			Walk(n.Body, v)
		}

	case *Field:
		Walk(n.Name, v)

	case *BlockStmt:
		for _, s := range n.Stmts {
			Walk(s, v)
		}

	case *AssignStmt:
		Walk(n.Lhs, v)
		if n.Rhs != nil {
			Walk(n.Rhs, v)
		}

	case *ReturnStmt:
		if n.Result != nil {
			Walk(n.Result, v)
		}

	case *CallStmt:
		Walk(n.Call, v)

	case *Operation:
		Walk(n.X, v)
		Walk(n.Y, v)

	case *CallExpr:
		Walk(n.Fun, v)
		for _, a := range n.Args {
			Walk(a, v)
		}

	case *IndexExpr:
		Walk(n.X, v)
		Walk(n.Index, v)

	case *ArrayLit:
		for _, e := range n.Elems {
			Walk(e, v)
		}

	// Leaf nodes: Name, BasicLit
	}
}

// Inspect traverses an AST and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}
