package syntax

import (
	"fmt"
	"io"
	"strconv"

	"github.com/you-not-fish/minic/internal/types"
)

// Parser performs syntax analysis and type checking on minic source code.
//
// Checking is interleaved with parsing: every leaf of an expression is
// checked against the type expected by its context (the assignment target,
// the enclosing function's result, the callee's parameter, or int for an
// index) at the moment it is consumed. The first error stops parsing.
type Parser struct {
	toks []Lexeme
	i    int    // index of the current token
	tok  Lexeme // current token

	reg   *types.Registry
	sig   *types.Signature // function being parsed
	scope *types.Scope     // its local scope
	ctx   types.Type       // type expected of the next leaf

	sawMain   bool
	sawReturn bool
}

// NewParser creates a Parser over a materialized token sequence, which
// must end with an EOF token. Declarations are recorded in reg.
func NewParser(toks []Lexeme, reg *types.Registry) *Parser {
	if len(toks) == 0 || toks[len(toks)-1].Tok != _EOF {
		toks = append(toks, Lexeme{Tok: _EOF})
	}
	p := &Parser{
		toks: toks,
		reg:  reg,
		ctx:  types.Error,
	}
	p.tok = toks[0]
	return p
}

// Parse tokenizes and parses a complete source file, recording function
// signatures and archived local scopes in reg.
func Parse(filename string, src io.Reader, reg *types.Registry) (*File, error) {
	toks, err := Tokenize(filename, src)
	if err != nil {
		return nil, err
	}
	return NewParser(toks, reg).Parse()
}

// ----------------------------------------------------------------------------
// Token navigation

// next advances to the next token.
func (p *Parser) next() {
	if p.i < len(p.toks)-1 {
		p.i++
	}
	p.tok = p.toks[p.i]
}

// peek returns the token after the current one.
func (p *Parser) peek() Lexeme {
	if p.i < len(p.toks)-1 {
		return p.toks[p.i+1]
	}
	return p.toks[p.i]
}

// got reports whether the current token is tok.
// If so, it consumes the token and returns true.
func (p *Parser) got(tok Token) bool {
	if p.tok.Tok == tok {
		p.next()
		return true
	}
	return false
}

// want consumes the current token if it matches tok.
// Otherwise, it returns a syntax error.
func (p *Parser) want(tok Token) error {
	if !p.got(tok) {
		return p.syntaxError("expected " + tok.String())
	}
	return nil
}

// ----------------------------------------------------------------------------
// Error handling

// syntaxError returns a syntax error at the current token.
func (p *Parser) syntaxError(msg string) error {
	return p.errorAt(Syntactic, p.tok, "%s, found %s", msg, tokDesc(p.tok))
}

// semanticError returns a semantic error at lx.
func (p *Parser) semanticError(lx Lexeme, format string, args ...interface{}) error {
	return p.errorAt(Semantic, lx, format, args...)
}

func (p *Parser) errorAt(kind ErrorKind, lx Lexeme, format string, args ...interface{}) error {
	width := len(lx.Lit)
	if width == 0 {
		width = 1
	}
	return &Error{
		Kind: kind,
		Pos:  lx.Pos,
		Src:  lx.Src,
		Len:  width,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// tokDesc describes a token for diagnostics.
func tokDesc(lx Lexeme) string {
	switch lx.Tok {
	case _EOF:
		return "EOF"
	case _Name:
		return "name " + lx.Lit
	case _Literal:
		return "literal " + lx.Lit
	}
	if lx.Tok.IsKeyword() {
		return "keyword " + lx.Tok.String()
	}
	return lx.Tok.String()
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses a complete source file and returns the AST.
func (p *Parser) Parse() (*File, error) {
	f := &File{}
	f.pos = p.tok.Pos

	for p.tok.Tok != _EOF {
		d, err := p.funcDecl()
		if err != nil {
			return nil, err
		}
		f.Funcs = append(f.Funcs, d)
	}

	if !p.sawMain {
		return nil, p.semanticError(p.tok, "missing main function")
	}
	return f, nil
}

// ----------------------------------------------------------------------------
// Helper methods

// name parses an identifier and returns a Name node.
func (p *Parser) name() (*Name, error) {
	if p.tok.Tok != _Name {
		return nil, p.syntaxError("expected identifier")
	}
	n := &Name{Value: p.tok.Lit}
	n.pos = p.tok.Pos
	p.next()
	return n, nil
}

// declName parses the name introduced by a declaration. Words that the
// scanner could not classify as numbers or keywords are accepted as
// names in expressions, where they fail to resolve; here they are rejected.
func (p *Parser) declName() (*Name, Lexeme, error) {
	lx := p.tok
	if lx.Tok == _Name && !isIdent(lx.Lit) {
		return nil, lx, p.errorAt(Syntactic, lx, "invalid identifier %s", lx.Lit)
	}
	n, err := p.name()
	return n, lx, err
}

// isIdent reports whether s is a letter or underscore followed by
// letters, digits, or underscores.
func isIdent(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z':
		case '0' <= r && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return s != ""
}

// scalarType parses int or float.
func (p *Parser) scalarType() (types.Type, error) {
	switch p.tok.Tok {
	case _Int:
		p.next()
		return types.Int, nil
	case _Float:
		p.next()
		return types.Float, nil
	}
	return types.Error, p.syntaxError("expected int or float")
}

// withContext parses f with typ as the expected leaf type, restoring the
// previous expectation afterwards.
func (p *Parser) withContext(typ types.Type, f func() (Expr, error)) (Expr, error) {
	saved := p.ctx
	p.ctx = typ
	x, err := f()
	p.ctx = saved
	return x, err
}

// ----------------------------------------------------------------------------
// Function declarations

// funcDecl parses
//
//	def<Result> Name(Params) { Body }
//	main() { Body }
func (p *Parser) funcDecl() (*FuncDecl, error) {
	d := &FuncDecl{}
	d.pos = p.tok.Pos

	var nameLx Lexeme
	switch p.tok.Tok {
	case _Def:
		p.next()
		if err := p.want(_Lss); err != nil {
			return nil, err
		}
		switch p.tok.Tok {
		case _Void:
			p.next()
			d.Result = types.Void
		case _Int, _Float:
			d.Result, _ = p.scalarType()
		default:
			return nil, p.syntaxError("expected void, int or float")
		}
		if err := p.want(_Gtr); err != nil {
			return nil, err
		}
		var err error
		if d.Name, nameLx, err = p.declName(); err != nil {
			return nil, err
		}

	case _Main:
		nameLx = p.tok
		d.Name = &Name{Value: "main"}
		d.Name.pos = p.tok.Pos
		d.Main = true
		d.Result = types.Void
		p.next()
		if p.sawMain {
			return nil, p.semanticError(nameLx, "main redeclared in this file")
		}
		p.sawMain = true

	default:
		return nil, p.syntaxError("expected function declaration")
	}

	p.scope = types.NewScope(d.Name.Value)
	p.sawReturn = false

	params, err := p.paramList()
	if err != nil {
		return nil, err
	}
	d.Params = params

	vars := make([]*types.Var, len(params))
	for i, f := range params {
		vars[i] = p.scope.Lookup(f.Name.Value)
	}
	p.sig = types.NewSignature(d.Name.Value, d.Result, vars...)
	if prev := p.reg.Declare(p.sig); prev != nil {
		if prev.Builtin() {
			return nil, p.semanticError(nameLx, "%s redeclared: name of a built-in function", d.Name.Value)
		}
		return nil, p.semanticError(nameLx, "%s redeclared in this file", d.Name.Value)
	}

	if d.Body, err = p.funcBody(); err != nil {
		return nil, err
	}

	if d.Result != types.Void && !p.sawReturn {
		rbrace := p.toks[p.i-1]
		return nil, p.semanticError(rbrace, "missing return at end of function %s returning %s", d.Name.Value, d.Result)
	}

	p.reg.Archive(p.scope)
	p.scope = nil
	p.sig = nil
	return d, nil
}

// paramList parses (Type Name, ...) and records each parameter in the
// current scope.
func (p *Parser) paramList() ([]*Field, error) {
	if err := p.want(_Lparen); err != nil {
		return nil, err
	}

	var list []*Field
	if p.tok.Tok != _Rparen {
		for {
			f := &Field{}
			f.pos = p.tok.Pos
			var err error
			if f.Type, err = p.scalarType(); err != nil {
				return nil, err
			}
			var lx Lexeme
			if f.Name, lx, err = p.declName(); err != nil {
				return nil, err
			}
			if err := p.declare(lx, types.NewParam(f.Name.Value, f.Type)); err != nil {
				return nil, err
			}
			list = append(list, f)
			if !p.got(_Comma) {
				break
			}
		}
	}

	if err := p.want(_Rparen); err != nil {
		return nil, err
	}
	return list, nil
}

// declare inserts v into the current scope, rejecting names already used
// by a variable or by a function.
func (p *Parser) declare(lx Lexeme, v *types.Var) error {
	if p.reg.LookupFunc(v.Name()) != nil || v.Name() == p.scope.Func() {
		return p.semanticError(lx, "%s redeclared: already declared as a function", v.Name())
	}
	if prev := p.scope.Insert(v); prev != nil {
		return p.semanticError(lx, "%s redeclared in this function", v.Name())
	}
	return nil
}

// funcBody parses { Stmts }.
func (p *Parser) funcBody() (*BlockStmt, error) {
	b := &BlockStmt{}
	b.pos = p.tok.Pos
	if err := p.want(_Lbrace); err != nil {
		return nil, err
	}

	for p.tok.Tok != _Rbrace && p.tok.Tok != _EOF {
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)
	}

	b.Rbrace = p.tok.Pos
	if err := p.want(_Rbrace); err != nil {
		return nil, err
	}
	return b, nil
}

// ----------------------------------------------------------------------------
// Statements

// stmt parses a single statement.
func (p *Parser) stmt() (Stmt, error) {
	switch p.tok.Tok {
	case _Int, _Float:
		return p.declStmt()
	case _Return:
		return p.returnStmt()
	case _Name:
		if p.peek().Tok == _Lparen {
			return p.callStmt()
		}
		return p.assignStmt()
	case _If, _Else, _For:
		return nil, p.errorAt(Syntactic, p.tok, "%s statements are not supported", p.tok.Tok)
	}
	return nil, p.syntaxError("expected statement")
}

// declStmt parses
//
//	T<> x = Expr;
//	T<> xs[N] = { Expr, ... };
//	T<> xs[N];
//
// The annotation between < and > may also spell out the type, as
// T<T> for scalars or T<array<T>> for arrays.
func (p *Parser) declStmt() (*AssignStmt, error) {
	s := &AssignStmt{}
	s.pos = p.tok.Pos

	typLx := p.tok
	elem, _ := p.scalarType()
	wantArray, err := p.declAnnotation(typLx, elem)
	if err != nil {
		return nil, err
	}

	name, nameLx, err := p.declName()
	if err != nil {
		return nil, err
	}
	s.Lhs = name

	if p.tok.Tok != _Lbrack {
		if wantArray {
			return nil, p.syntaxError("expected [ for array declaration")
		}
		s.Decl = elem
		if err := p.want(_Assign); err != nil {
			return nil, err
		}
		if s.Rhs, err = p.withContext(elem, p.expr); err != nil {
			return nil, err
		}
		if err := p.want(_Semi); err != nil {
			return nil, err
		}
		return s, p.declare(nameLx, types.NewVar(name.Value, elem))
	}

	// Array declaration.
	p.next()
	sizeLx := p.tok
	if !sizeLx.IsLiteral(IntLit) {
		return nil, p.semanticError(sizeLx, "array size must be an integer literal")
	}
	n, err := strconv.Atoi(sizeLx.Lit)
	if err != nil || n < 2 {
		return nil, p.semanticError(sizeLx, "array size %s must be at least 2", sizeLx.Lit)
	}
	p.next()
	if err := p.want(_Rbrack); err != nil {
		return nil, err
	}

	s.Decl = elem.ArrayOf()
	s.Len = n
	if p.tok.Tok == _Assign {
		p.next()
		lit, err := p.arrayLit(elem, n)
		if err != nil {
			return nil, err
		}
		s.Rhs = lit
	}
	if err := p.want(_Semi); err != nil {
		return nil, err
	}
	return s, p.declare(nameLx, types.NewArray(name.Value, elem, n))
}

// declAnnotation parses the <...> following a declaration's type keyword
// and reports whether it names an array type.
func (p *Parser) declAnnotation(typLx Lexeme, elem types.Type) (bool, error) {
	if err := p.want(_Lss); err != nil {
		return false, err
	}

	isArray := false
	switch {
	case p.tok.Tok == _Int || p.tok.Tok == _Float:
		lx := p.tok
		if t, _ := p.scalarType(); t != elem {
			return false, p.semanticError(lx, "type annotation %s does not match declared type %s", t, elem)
		}

	case p.tok.Tok == _Name && p.tok.Lit == "array":
		p.next()
		if err := p.want(_Lss); err != nil {
			return false, err
		}
		lx := p.tok
		t, err := p.scalarType()
		if err != nil {
			return false, err
		}
		if t != elem {
			return false, p.semanticError(lx, "type annotation array<%s> does not match declared type %s", t, typLx.Tok)
		}
		if err := p.want(_Gtr); err != nil {
			return false, err
		}
		isArray = true
	}

	return isArray, p.want(_Gtr)
}

// arrayLit parses { Expr, ... } for an n-element array of elem.
// An empty initializer is allowed; otherwise there must be exactly n elements.
func (p *Parser) arrayLit(elem types.Type, n int) (*ArrayLit, error) {
	lbrace := p.tok
	lit := &ArrayLit{}
	lit.pos = lbrace.Pos
	if err := p.want(_Lbrace); err != nil {
		return nil, err
	}

	if p.tok.Tok != _Rbrace {
		for {
			x, err := p.withContext(elem, p.expr)
			if err != nil {
				return nil, err
			}
			lit.Elems = append(lit.Elems, x)
			if !p.got(_Comma) {
				break
			}
		}
	}
	if err := p.want(_Rbrace); err != nil {
		return nil, err
	}

	if k := len(lit.Elems); k != 0 && k != n {
		return nil, p.semanticError(lbrace, "array of %d elements has %d initializers", n, k)
	}
	return lit, nil
}

// assignStmt parses x = Expr; or xs[Expr] = Expr;
func (p *Parser) assignStmt() (*AssignStmt, error) {
	s := &AssignStmt{Decl: types.Void}
	s.pos = p.tok.Pos

	nameLx := p.tok
	name, err := p.name()
	if err != nil {
		return nil, err
	}
	v := p.scope.Lookup(name.Value)
	if v == nil {
		return nil, p.semanticError(nameLx, "undeclared name: %s", name.Value)
	}

	target := v.Type()
	s.Lhs = name
	if p.tok.Tok == _Lbrack {
		if !types.IsArray(v.Type()) {
			return nil, p.semanticError(nameLx, "cannot index %s (variable of type %s)", name.Value, v.Type())
		}
		x, err := p.index(name)
		if err != nil {
			return nil, err
		}
		s.Lhs = x
		target = v.Type().Elem()
	} else if types.IsArray(v.Type()) {
		return nil, p.semanticError(nameLx, "cannot assign to array %s as a whole", name.Value)
	}

	if err := p.want(_Assign); err != nil {
		return nil, err
	}
	if s.Rhs, err = p.withContext(target, p.expr); err != nil {
		return nil, err
	}
	if err := p.want(_Semi); err != nil {
		return nil, err
	}
	return s, nil
}

// returnStmt parses return [Expr];
func (p *Parser) returnStmt() (*ReturnStmt, error) {
	s := &ReturnStmt{}
	s.pos = p.tok.Pos
	retLx := p.tok
	p.next()
	p.sawReturn = true

	result := p.sig.Result()
	if result == types.Void {
		if p.tok.Tok != _Semi {
			return nil, p.semanticError(p.tok, "too many return values: %s returns no value", p.sig.Name())
		}
		p.next()
		return s, nil
	}

	if p.tok.Tok == _Semi {
		return nil, p.semanticError(retLx, "not enough return values: %s returns %s", p.sig.Name(), result)
	}
	var err error
	if s.Result, err = p.withContext(result, p.expr); err != nil {
		return nil, err
	}
	if err := p.want(_Semi); err != nil {
		return nil, err
	}
	return s, nil
}

// callStmt parses f(Args);
func (p *Parser) callStmt() (*CallStmt, error) {
	s := &CallStmt{}
	s.pos = p.tok.Pos
	call, _, err := p.call()
	if err != nil {
		return nil, err
	}
	s.Call = call
	if err := p.want(_Semi); err != nil {
		return nil, err
	}
	return s, nil
}

// ----------------------------------------------------------------------------
// Expressions

// expr parses an arithmetic expression.
func (p *Parser) expr() (Expr, error) {
	return p.binaryExpr(0)
}

// binaryExpr parses a binary expression using precedence climbing.
// All operators are left-associative.
func (p *Parser) binaryExpr(prec int) (Expr, error) {
	x, err := p.operand()
	if err != nil {
		return nil, err
	}

	for {
		oprec := p.tok.Tok.Precedence()
		if oprec <= prec {
			return x, nil
		}

		// Binary expression position starts at the left operand.
		op := &Operation{Op: p.tok.Tok, X: x}
		op.pos = x.Pos()
		p.next()

		if op.Y, err = p.binaryExpr(oprec); err != nil {
			return nil, err
		}
		x = op
	}
}

// operand parses a parenthesized expression, a literal, a variable,
// an array element, or a call, checking its type against p.ctx.
func (p *Parser) operand() (Expr, error) {
	lx := p.tok
	switch lx.Tok {
	case _Lparen:
		p.next()
		x, err := p.binaryExpr(0)
		if err != nil {
			return nil, err
		}
		if err := p.want(_Rparen); err != nil {
			return nil, err
		}
		return x, nil

	case _Literal:
		typ := types.Int
		if lx.Kind == FloatLit {
			typ = types.Float
		}
		if typ != p.ctx {
			return nil, p.semanticError(lx, "cannot use %s (%s literal) as %s value", lx.Lit, typ, p.ctx)
		}
		x := &BasicLit{Value: lx.Lit, Kind: lx.Kind}
		x.pos = lx.Pos
		p.next()
		return x, nil

	case _Name:
		if p.peek().Tok == _Lparen {
			return p.callOperand()
		}
		return p.varOperand()
	}

	return nil, p.syntaxError("expected expression")
}

// callOperand parses a call whose result is used as a value.
func (p *Parser) callOperand() (Expr, error) {
	lx := p.tok
	call, sig, err := p.call()
	if err != nil {
		return nil, err
	}
	if sig.Result() == types.Void {
		return nil, p.semanticError(lx, "%s() (no value) used as value", sig.Name())
	}
	if sig.Result() != p.ctx {
		return nil, p.semanticError(lx, "cannot use %s() (value of type %s) as %s value", sig.Name(), sig.Result(), p.ctx)
	}
	return call, nil
}

// varOperand parses a variable or array element reference.
func (p *Parser) varOperand() (Expr, error) {
	lx := p.tok
	name, err := p.name()
	if err != nil {
		return nil, err
	}

	v := p.scope.Lookup(name.Value)
	if v == nil {
		if p.reg.LookupFunc(name.Value) != nil {
			return nil, p.semanticError(lx, "function %s used as value", name.Value)
		}
		return nil, p.semanticError(lx, "undeclared name: %s", name.Value)
	}

	if p.tok.Tok == _Lbrack {
		if !types.IsArray(v.Type()) {
			return nil, p.semanticError(lx, "cannot index %s (variable of type %s)", name.Value, v.Type())
		}
		if elem := v.Type().Elem(); elem != p.ctx {
			return nil, p.semanticError(lx, "cannot use %s element (type %s) as %s value", name.Value, elem, p.ctx)
		}
		return p.index(name)
	}

	if types.IsArray(v.Type()) {
		return nil, p.semanticError(lx, "cannot use array %s as %s value", name.Value, p.ctx)
	}
	if v.Type() != p.ctx {
		return nil, p.semanticError(lx, "cannot use %s (variable of type %s) as %s value", name.Value, v.Type(), p.ctx)
	}
	return name, nil
}

// index parses [Expr] following an array name. The index is an int.
func (p *Parser) index(x *Name) (*IndexExpr, error) {
	ix := &IndexExpr{X: x}
	ix.pos = x.Pos()
	if err := p.want(_Lbrack); err != nil {
		return nil, err
	}
	var err error
	if ix.Index, err = p.withContext(types.Int, p.expr); err != nil {
		return nil, err
	}
	if err := p.want(_Rbrack); err != nil {
		return nil, err
	}
	return ix, nil
}

// call parses f(Args). The callee must already be declared; each
// argument is checked against the corresponding parameter type.
func (p *Parser) call() (*CallExpr, *types.Signature, error) {
	lx := p.tok
	name, err := p.name()
	if err != nil {
		return nil, nil, err
	}
	sig := p.reg.LookupFunc(name.Value)
	if sig == nil {
		return nil, nil, p.semanticError(lx, "undeclared function: %s", name.Value)
	}

	c := &CallExpr{Fun: name, Builtin: sig.Builtin()}
	c.pos = name.Pos()
	if err := p.want(_Lparen); err != nil {
		return nil, nil, err
	}

	if p.tok.Tok != _Rparen {
		for {
			i := len(c.Args)
			if i >= sig.NumParams() {
				return nil, nil, p.semanticError(p.tok, "too many arguments in call to %s: want %d", sig.Name(), sig.NumParams())
			}
			arg, err := p.withContext(sig.Param(i).Type(), p.expr)
			if err != nil {
				return nil, nil, err
			}
			c.Args = append(c.Args, arg)
			if !p.got(_Comma) {
				break
			}
		}
	}

	rparen := p.tok
	if err := p.want(_Rparen); err != nil {
		return nil, nil, err
	}
	if len(c.Args) < sig.NumParams() {
		return nil, nil, p.semanticError(rparen, "not enough arguments in call to %s: have %d, want %d", sig.Name(), len(c.Args), sig.NumParams())
	}
	return c, sig, nil
}
