// Package parser turns a token.Token stream into an ast.Node tree.
//
// This is a straightforward hand-rolled recursive-descent parser, one
// method per grammar rule, structured the way a Pratt-free descent
// parser over a hand-written token stream normally is: peek/advance/
// expect over a token slice, with no separate lexer-to-parser
// intermediate representation.
package parser

import (
	"quill/pkg/ast"
	"quill/pkg/errs"
	"quill/pkg/token"
)

// Parser consumes a fully materialized token slice ending in exactly
// one Eof, per the lexer's contract.
type Parser struct {
	tokens []token.Token
	pos    int
}

func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes an entire program: a sequence of top-level statements
// separated by Newline, terminated by Eof.
func Parse(tokens []token.Token) ([]ast.Node, error) {
	p := New(tokens)
	stmts, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	if !p.check(token.Eof) {
		return nil, p.errorAt("expected end of input, found "+p.peek().String())
	}
	return stmts, nil
}

// parseBlockBody parses statements until Dedent or Eof, skipping blank
// Newline-only lines between them.
func (p *Parser) parseBlockBody() ([]ast.Node, error) {
	var stmts []ast.Node
	for {
		for p.check(token.Newline) {
			p.advance()
		}
		if p.check(token.Dedent) || p.check(token.Eof) {
			return stmts, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		// A statement ending in an indented block (class, if/else) has
		// already consumed its last line's Newline before the closing
		// Dedent, so no further Newline follows it.
		if p.tokens[p.pos-1].Type == token.Dedent {
			continue
		}
		if !p.check(token.Eof) && !p.check(token.Dedent) {
			if err := p.expect(token.Newline); err != nil {
				return nil, err
			}
		}
	}
}

// parseIndentedBlock parses `Indent parseBlockBody Dedent`, wrapping the
// resulting statement list in an ast.Compound. Callers consume the one
// Newline that terminates the block-opening header line before calling
// this; any further Newlines here come from blank or comment-only
// lines between the header and the block's first real content line
// (the lexer only emits Indent once it reaches that content line), and
// are skipped rather than treated as the block being empty.
func (p *Parser) parseIndentedBlock() (*ast.Compound, error) {
	for p.check(token.Newline) {
		p.advance()
	}
	if err := p.expect(token.Indent); err != nil {
		return nil, err
	}
	stmts, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.Dedent); err != nil {
		return nil, err
	}
	return &ast.Compound{Stmts: stmts}, nil
}

func (p *Parser) parseStatement() (ast.Node, error) {
	switch p.peek().Type {
	case token.KwClass:
		return p.parseClassDefinition()
	case token.KwIf:
		return p.parseIfElse()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwPrint:
		return p.parsePrint()
	default:
		return p.parseAssignmentOrExpression()
	}
}

func (p *Parser) parseClassDefinition() (ast.Node, error) {
	p.advance() // 'class'
	nameTok, err := p.expectTok(token.Id)
	if err != nil {
		return nil, err
	}
	var parent string
	if p.check(token.Char) && p.peek().Text == "(" {
		p.advance()
		parentTok, err := p.expectTok(token.Id)
		if err != nil {
			return nil, err
		}
		parent = parentTok.Text
		if err := p.expectChar(")"); err != nil {
			return nil, err
		}
	}
	if err := p.expectChar(":"); err != nil {
		return nil, err
	}
	if err := p.expect(token.Newline); err != nil {
		return nil, err
	}
	for p.check(token.Newline) {
		p.advance()
	}
	if err := p.expect(token.Indent); err != nil {
		return nil, err
	}
	var methods []*ast.MethodDecl
	for {
		for p.check(token.Newline) {
			p.advance()
		}
		if p.check(token.Dedent) {
			break
		}
		m, err := p.parseMethodDecl()
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	if err := p.expect(token.Dedent); err != nil {
		return nil, err
	}
	return &ast.ClassDefinition{
		Decl: &ast.ClassDecl{Name: nameTok.Text, Parent: parent, Methods: methods},
	}, nil
}

func (p *Parser) parseMethodDecl() (*ast.MethodDecl, error) {
	if err := p.expect(token.KwDef); err != nil {
		return nil, err
	}
	nameTok, err := p.expectTok(token.Id)
	if err != nil {
		return nil, err
	}
	if err := p.expectChar("("); err != nil {
		return nil, err
	}
	var params []string
	if !p.check(token.Char) || p.peek().Text != ")" {
		for {
			pt, err := p.expectTok(token.Id)
			if err != nil {
				return nil, err
			}
			params = append(params, pt.Text)
			if p.check(token.Char) && p.peek().Text == "," {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expectChar(")"); err != nil {
		return nil, err
	}
	if err := p.expectChar(":"); err != nil {
		return nil, err
	}
	if err := p.expect(token.Newline); err != nil {
		return nil, err
	}
	block, err := p.parseIndentedBlock()
	if err != nil {
		return nil, err
	}
	return &ast.MethodDecl{Name: nameTok.Text, Params: params, Body: &ast.MethodBody{Body: block}}, nil
}

func (p *Parser) parseIfElse() (ast.Node, error) {
	p.advance() // 'if'
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectChar(":"); err != nil {
		return nil, err
	}
	if err := p.expect(token.Newline); err != nil {
		return nil, err
	}
	then, err := p.parseIndentedBlock()
	if err != nil {
		return nil, err
	}
	var elseNode ast.Node
	save := p.pos
	for p.check(token.Newline) {
		p.advance()
	}
	if p.check(token.KwElse) {
		p.advance()
		if err := p.expectChar(":"); err != nil {
			return nil, err
		}
		if err := p.expect(token.Newline); err != nil {
			return nil, err
		}
		elseBlock, err := p.parseIndentedBlock()
		if err != nil {
			return nil, err
		}
		elseNode = elseBlock
	} else {
		p.pos = save
	}
	return &ast.IfElse{Cond: cond, Then: then, Else: elseNode}, nil
}

func (p *Parser) parseReturn() (ast.Node, error) {
	p.advance() // 'return'
	if p.check(token.Newline) || p.check(token.Eof) || p.check(token.Dedent) {
		return &ast.Return{Expr: &ast.NoneLit{}}, nil
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Return{Expr: expr}, nil
}

func (p *Parser) parsePrint() (ast.Node, error) {
	p.advance() // 'print'
	var args []ast.Node
	if p.check(token.Newline) || p.check(token.Eof) || p.check(token.Dedent) {
		return &ast.Print{Args: args}, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.check(token.Char) && p.peek().Text == "," {
			p.advance()
			continue
		}
		break
	}
	return &ast.Print{Args: args}, nil
}

// parseAssignmentOrExpression handles `path = expr`, `path.field = expr`,
// and bare expression statements, disambiguated by one token of
// lookahead past a parsed dotted path.
func (p *Parser) parseAssignmentOrExpression() (ast.Node, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.check(token.Char) && p.peek().Text == "=" {
		p.advance()
		rhs, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		switch target := expr.(type) {
		case *ast.VariableValue:
			if len(target.Path) == 1 {
				return &ast.Assignment{Name: target.Path[0], Rhs: rhs}, nil
			}
			return &ast.FieldAssignment{
				Object: pathPrefix(target.Path),
				Field:  target.Path[len(target.Path)-1],
				Rhs:    rhs,
			}, nil
		default:
			return nil, p.errorAt("invalid assignment target")
		}
	}
	return expr, nil
}

func pathPrefix(path []string) ast.Node {
	return &ast.VariableValue{Path: path[:len(path)-1]}
}

// ---------------------------------------------------------------------
// Expression grammar, lowest to highest precedence:
//   or  <  and  <  not  <  comparison  <  + -  <  * /  <  unary  <  call/primary
// ---------------------------------------------------------------------

func (p *Parser) parseExpression() (ast.Node, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Node, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.check(token.KwOr) {
		p.advance()
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Logical{Op: ast.LogOr, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseAnd() (ast.Node, error) {
	lhs, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.check(token.KwAnd) {
		p.advance()
		rhs, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Logical{Op: ast.LogAnd, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseNot() (ast.Node, error) {
	if p.check(token.KwNot) {
		p.advance()
		arg, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.Not{Arg: arg}, nil
	}
	return p.parseComparison()
}

var compareOps = map[token.Type]ast.CompareOp{
	token.Eq:      ast.CmpEq,
	token.NotEq:   ast.CmpNe,
	token.LessEq:  ast.CmpLe,
	token.GreatEq: ast.CmpGe,
}

func (p *Parser) parseComparison() (ast.Node, error) {
	lhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		if op, ok := compareOps[p.peek().Type]; ok {
			p.advance()
			rhs, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			lhs = &ast.Comparison{Op: op, Lhs: lhs, Rhs: rhs}
			continue
		}
		if p.check(token.Char) && (p.peek().Text == "<" || p.peek().Text == ">") {
			op := ast.CmpLt
			if p.peek().Text == ">" {
				op = ast.CmpGt
			}
			p.advance()
			rhs, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			lhs = &ast.Comparison{Op: op, Lhs: lhs, Rhs: rhs}
			continue
		}
		break
	}
	return lhs, nil
}

func (p *Parser) parseAdditive() (ast.Node, error) {
	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.check(token.Char) && (p.peek().Text == "+" || p.peek().Text == "-") {
		op := ast.Add
		if p.peek().Text == "-" {
			op = ast.Sub
		}
		p.advance()
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Arithmetic{Op: op, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseMultiplicative() (ast.Node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.check(token.Char) && (p.peek().Text == "*" || p.peek().Text == "/") {
		op := ast.Mult
		if p.peek().Text == "/" {
			op = ast.Div
		}
		p.advance()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = &ast.Arithmetic{Op: op, Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseUnary() (ast.Node, error) {
	if p.check(token.Char) && p.peek().Text == "-" {
		p.advance()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Arithmetic{Op: ast.Sub, Lhs: &ast.NumberLit{Value: 0}, Rhs: arg}, nil
	}
	return p.parsePostfix()
}

// parsePostfix handles trailing `.field`, `.method(args)`, and dotted
// variable paths chained off a primary expression.
func (p *Parser) parsePostfix() (ast.Node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.check(token.Char) && p.peek().Text == "." {
		p.advance()
		nameTok, err := p.expectTok(token.Id)
		if err != nil {
			return nil, err
		}
		if p.check(token.Char) && p.peek().Text == "(" {
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			expr = &ast.MethodCall{Receiver: expr, Method: nameTok.Text, Args: args}
			continue
		}
		if v, ok := expr.(*ast.VariableValue); ok {
			expr = &ast.VariableValue{Path: append(append([]string{}, v.Path...), nameTok.Text)}
			continue
		}
		return nil, p.errorAt("field access is only supported on a variable path")
	}
	return expr, nil
}

func (p *Parser) parseArgList() ([]ast.Node, error) {
	if err := p.expectChar("("); err != nil {
		return nil, err
	}
	var args []ast.Node
	if !(p.check(token.Char) && p.peek().Text == ")") {
		for {
			a, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.check(token.Char) && p.peek().Text == "," {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expectChar(")"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	t := p.peek()
	switch t.Type {
	case token.Number:
		p.advance()
		return &ast.NumberLit{Value: t.NumberVal}, nil
	case token.String:
		p.advance()
		return &ast.StringLit{Value: t.Text}, nil
	case token.KwTrue:
		p.advance()
		return &ast.BoolLit{Value: true}, nil
	case token.KwFalse:
		p.advance()
		return &ast.BoolLit{Value: false}, nil
	case token.KwNone:
		p.advance()
		return &ast.NoneLit{}, nil
	case token.Id:
		p.advance()
		if p.check(token.Char) && p.peek().Text == "(" {
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			return &ast.NewInstance{ClassExpr: &ast.VariableValue{Path: []string{t.Text}}, Args: args}, nil
		}
		return &ast.VariableValue{Path: []string{t.Text}}, nil
	case token.Char:
		if t.Text == "(" {
			p.advance()
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.expectChar(")"); err != nil {
				return nil, err
			}
			return expr, nil
		}
	}
	return nil, p.errorAt("unexpected token " + t.String())
}

// ---------------------------------------------------------------------
// Token-stream helpers
// ---------------------------------------------------------------------

func (p *Parser) peek() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) check(t token.Type) bool {
	return p.peek().Type == t
}

func (p *Parser) expect(t token.Type) error {
	if !p.check(t) {
		return p.errorAt("expected " + t.String() + ", found " + p.peek().String())
	}
	p.advance()
	return nil
}

func (p *Parser) expectTok(t token.Type) (token.Token, error) {
	if !p.check(t) {
		return token.Token{}, p.errorAt("expected " + t.String() + ", found " + p.peek().String())
	}
	return p.advance(), nil
}

func (p *Parser) expectChar(text string) error {
	if !p.check(token.Char) || p.peek().Text != text {
		return p.errorAt("expected '" + text + "', found " + p.peek().String())
	}
	p.advance()
	return nil
}

func (p *Parser) errorAt(msg string) error {
	t := p.peek()
	return &errs.ParseError{Line: t.Line, Col: t.Col, Msg: msg}
}
