package ast

// Constructor helpers used by tests to build nodes without spelling out
// every field literal. The parser builds its nodes as struct literals.

func Num(v int32) *NumberLit    { return &NumberLit{Value: v} }
func Str(v string) *StringLit   { return &StringLit{Value: v} }
func Bool(v bool) *BoolLit      { return &BoolLit{Value: v} }
func None() *NoneLit            { return &NoneLit{} }
func Var(path ...string) *VariableValue {
	return &VariableValue{Path: path}
}

func Assign(name string, rhs Node) *Assignment {
	return &Assignment{Name: name, Rhs: rhs}
}

func FieldAssign(object Node, field string, rhs Node) *FieldAssignment {
	return &FieldAssignment{Object: object, Field: field, Rhs: rhs}
}

func NewInst(classExpr Node, args ...Node) *NewInstance {
	return &NewInstance{ClassExpr: classExpr, Args: args}
}

func PrintStmt(args ...Node) *Print {
	return &Print{Args: args}
}

func Call(receiver Node, method string, args ...Node) *MethodCall {
	return &MethodCall{Receiver: receiver, Method: method, Args: args}
}

func ToStr(arg Node) *Stringify {
	return &Stringify{Arg: arg}
}

func Bin(op ArithOp, lhs, rhs Node) *Arithmetic {
	return &Arithmetic{Op: op, Lhs: lhs, Rhs: rhs}
}

func Cmp(op CompareOp, lhs, rhs Node) *Comparison {
	return &Comparison{Op: op, Lhs: lhs, Rhs: rhs}
}

func Or(lhs, rhs Node) *Logical  { return &Logical{Op: LogOr, Lhs: lhs, Rhs: rhs} }
func And(lhs, rhs Node) *Logical { return &Logical{Op: LogAnd, Lhs: lhs, Rhs: rhs} }
func Negate(arg Node) *Not       { return &Not{Arg: arg} }

func Block(stmts ...Node) *Compound {
	return &Compound{Stmts: stmts}
}

func If(cond, then Node, els Node) *IfElse {
	return &IfElse{Cond: cond, Then: then, Else: els}
}

func Ret(expr Node) *Return { return &Return{Expr: expr} }

func Body(stmt Node) *MethodBody { return &MethodBody{Body: stmt} }

func Method(name string, params []string, body *MethodBody) *MethodDecl {
	return &MethodDecl{Name: name, Params: params, Body: body}
}

func ClassDef(name, parent string, methods ...*MethodDecl) *ClassDefinition {
	return &ClassDefinition{Decl: &ClassDecl{Name: name, Parent: parent, Methods: methods}}
}
