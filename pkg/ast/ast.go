// Package ast defines the executable node set the parser builds and the
// evaluator walks. Nodes are plain data — no method carries evaluation
// logic, keeping this package free of the interpreter's dependencies.
// Every mutable piece of interpreter state (instance identity caches,
// method tables) lives in the interpreter package, never on a node.
package ast

// Pos is the source position a node was parsed from, used only for
// diagnostics.
type Pos struct {
	Line int
	Col  int
}

// Node is implemented by every statement and expression. The language
// has no statement/expression distinction at the type level: a bare
// expression is itself a valid statement.
type Node interface {
	Position() Pos
}

type base struct{ Pos Pos }

func (b base) Position() Pos { return b.Pos }

// ---------------------------------------------------------------------
// Literals
// ---------------------------------------------------------------------

type NumberLit struct {
	base
	Value int32
}

type StringLit struct {
	base
	Value string
}

type BoolLit struct {
	base
	Value bool
}

type NoneLit struct {
	base
}

// ---------------------------------------------------------------------
// Names and assignment
// ---------------------------------------------------------------------

// VariableValue resolves a non-empty dotted identifier path, descending
// through instance field tables for every segment after the first.
type VariableValue struct {
	base
	Path []string
}

type Assignment struct {
	base
	Name string
	Rhs  Node
}

// FieldAssignment installs Rhs into Object's field table under Field.
// Object must evaluate to an Instance; any other result silently
// yields None rather than erroring.
type FieldAssignment struct {
	base
	Object Node
	Field  string
	Rhs    Node
}

// ---------------------------------------------------------------------
// Classes, instances, calls
// ---------------------------------------------------------------------

// MethodDecl is one method definition inside a ClassDefinition: an
// ordered parameter-name list and a body. Duplicate names within a
// single class are legal; only the first (lowest index) is resolved.
type MethodDecl struct {
	base
	Name   string
	Params []string
	Body   *MethodBody
}

// ClassDecl is the immutable shape a ClassDefinition statement installs
// as a runtime Class descriptor.
type ClassDecl struct {
	base
	Name    string
	Parent  string // empty when there is no base class
	Methods []*MethodDecl
}

// ClassDefinition binds Decl.Name to the constructed Class value in the
// current symbol table.
type ClassDefinition struct {
	base
	Decl *ClassDecl
}

// NewInstance allocates an Instance of the class ClassExpr evaluates
// to, running __init__ if the class resolves one at Args' arity.
//
// A given NewInstance node returns the very same Instance on every
// Execute, rather than allocating fresh state each time. The
// interpreter keys this cache by node identity, not by any field on
// this struct, so the struct itself stays plain data.
type NewInstance struct {
	base
	ClassExpr Node
	Args      []Node
}

// MethodCall invokes Method on the value Receiver evaluates to. If the
// receiver is not an Instance whose class resolves Method at this
// arity, the call silently yields None.
type MethodCall struct {
	base
	Receiver Node
	Method   string
	Args     []Node
}

// Stringify renders its argument the way `print` would, always
// producing a String value; an Instance with __str__ is asked first.
type Stringify struct {
	base
	Arg Node
}

// Print writes each argument's printed form to the context's output
// stream, space-separated, newline-terminated.
type Print struct {
	base
	Args []Node
}

// ---------------------------------------------------------------------
// Operators
// ---------------------------------------------------------------------

// ArithOp enumerates the arithmetic operators.
type ArithOp string

const (
	Add  ArithOp = "+"
	Sub  ArithOp = "-"
	Mult ArithOp = "*"
	Div  ArithOp = "/"
)

// Arithmetic is the single node type behind Add/Sub/Mult/Div: one
// struct with an operator field, rather than four near-identical node
// types.
type Arithmetic struct {
	base
	Op  ArithOp
	Lhs Node
	Rhs Node
}

// CompareOp enumerates the six comparison operators; derived operators
// (>, <=, >=) are expressed purely in terms of equal/less at
// evaluation time.
type CompareOp string

const (
	CmpEq   CompareOp = "=="
	CmpNe   CompareOp = "!="
	CmpLt   CompareOp = "<"
	CmpLe   CompareOp = "<="
	CmpGt   CompareOp = ">"
	CmpGe   CompareOp = ">="
)

type Comparison struct {
	base
	Op  CompareOp
	Lhs Node
	Rhs Node
}

type LogicalOp string

const (
	LogAnd LogicalOp = "and"
	LogOr  LogicalOp = "or"
)

// Logical is Or/And: both short-circuit via IsTrue and always produce a
// Bool, never the operand itself.
type Logical struct {
	base
	Op  LogicalOp
	Lhs Node
	Rhs Node
}

// Not always produces a Bool.
type Not struct {
	base
	Arg Node
}

// ---------------------------------------------------------------------
// Control flow
// ---------------------------------------------------------------------

// Compound evaluates its statements in order and always yields None;
// individual statement results are discarded.
type Compound struct {
	base
	Stmts []Node
}

// IfElse yields whichever branch ran, or None if neither did.
type IfElse struct {
	base
	Cond Node
	Then Node
	Else Node // nil when there is no else clause
}

// Return unwinds to the nearest enclosing MethodBody via a
// ReturnSignal; see the interpreter package.
type Return struct {
	base
	Expr Node
}

// MethodBody is the only node that catches a ReturnSignal. Bodies of
// user methods are always wrapped in one.
type MethodBody struct {
	base
	Body Node
}
