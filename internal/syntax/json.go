package syntax

import (
	"encoding/json"
	"io"

	"github.com/you-not-fish/minic/internal/types"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

func toJSON(node Node) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *File:
		return map[string]interface{}{
			"type":  "File",
			"pos":   n.pos.String(),
			"funcs": mapSlice(n.Funcs, func(d *FuncDecl) interface{} { return toJSON(d) }),
		}

	case *FuncDecl:
		m := map[string]interface{}{
			"type":   "FuncDecl",
			"pos":    n.pos.String(),
			"name":   n.Name.Value,
			"result": n.Result.String(),
			"params": mapSlice(n.Params, func(f *Field) interface{} { return toJSON(f) }),
		}
		if n.Main {
			m["main"] = true
		}
		if n.Body != nil {
			m["body"] = toJSON(n.Body)
		}
		return m

	case *Field:
		return map[string]interface{}{
			"type":      "Field",
			"pos":       n.pos.String(),
			"name":      n.Name.Value,
			"paramtype": n.Type.String(),
		}

	case *BlockStmt:
		return map[string]interface{}{
			"type":  "BlockStmt",
			"pos":   n.pos.String(),
			"stmts": mapSlice(n.Stmts, func(s Stmt) interface{} { return toJSON(s) }),
		}

	case *AssignStmt:
		m := map[string]interface{}{
			"type": "AssignStmt",
			"pos":  n.pos.String(),
			"lhs":  toJSON(n.Lhs),
		}
		if n.Decl != types.Void {
			m["decl"] = n.Decl.String()
		}
		if n.Len > 0 {
			m["len"] = n.Len
		}
		if n.Rhs != nil {
			m["rhs"] = toJSON(n.Rhs)
		}
		return m

	case *ReturnStmt:
		m := map[string]interface{}{
			"type": "ReturnStmt",
			"pos":  n.pos.String(),
		}
		if n.Result != nil {
			m["result"] = toJSON(n.Result)
		}
		return m

	case *CallStmt:
		return map[string]interface{}{
			"type": "CallStmt",
			"pos":  n.pos.String(),
			"call": toJSON(n.Call),
		}

	case *Name:
		return map[string]interface{}{
			"type":  "Name",
			"pos":   n.pos.String(),
			"value": n.Value,
		}

	case *BasicLit:
		return map[string]interface{}{
			"type":  "BasicLit",
			"pos":   n.pos.String(),
			"kind":  n.Kind.String(),
			"value": n.Value,
		}

	case *Operation:
		return map[string]interface{}{
			"type": "Operation",
			"pos":  n.pos.String(),
			"op":   n.Op.String(),
			"x":    toJSON(n.X),
			"y":    toJSON(n.Y),
		}

	case *CallExpr:
		return map[string]interface{}{
			"type":    "CallExpr",
			"pos":     n.pos.String(),
			"fun":     n.Fun.Value,
			"builtin": n.Builtin,
			"args":    mapSlice(n.Args, func(x Expr) interface{} { return toJSON(x) }),
		}

	case *IndexExpr:
		return map[string]interface{}{
			"type":  "IndexExpr",
			"pos":   n.pos.String(),
			"x":     n.X.Value,
			"index": toJSON(n.Index),
		}

	case *ArrayLit:
		return map[string]interface{}{
			"type":  "ArrayLit",
			"pos":   n.pos.String(),
			"elems": mapSlice(n.Elems, func(x Expr) interface{} { return toJSON(x) }),
		}

	default:
		return map[string]interface{}{
			"type": "Unknown",
		}
	}
}

func mapSlice[T any](s []T, f func(T) interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}
