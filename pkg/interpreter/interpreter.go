// Package interpreter walks the ast tree the parser builds and
// evaluates it against a value.Environment, producing value.Value
// results and writing print output through a context.Context.
//
// A single Interpreter type holds all mutable evaluator state, and one
// centralized type switch dispatches every node kind, so evaluation
// logic lives beside the interpreter's state rather than on ast.Node,
// keeping ast a dependency-free data package.
package interpreter

import (
	"strings"

	"quill/pkg/ast"
	"quill/pkg/context"
	"quill/pkg/errs"
	"quill/pkg/value"
)

// Interpreter owns every piece of mutable evaluation state: the global
// scope and the identity cache backing NewInstance's "same node, same
// instance" behavior. Neither belongs on an ast node, since ast is
// meant to stay plain data.
type Interpreter struct {
	global    *value.Environment
	instances map[*ast.NewInstance]*value.Instance
}

// New returns an interpreter with an empty global environment.
func New() *Interpreter {
	return &Interpreter{
		global:    value.NewEnvironment(nil),
		instances: make(map[*ast.NewInstance]*value.Instance),
	}
}

// GlobalEnvironment exposes the top-level scope, mainly for tests that
// want to inspect bindings after running a program.
func (in *Interpreter) GlobalEnvironment() *value.Environment {
	return in.global
}

// Run evaluates every top-level statement of program in order against
// the interpreter's global environment.
func (in *Interpreter) Run(program []ast.Node, ctx *context.Context) error {
	for _, stmt := range program {
		if _, err := in.Execute(stmt, in.global, ctx); err != nil {
			if _, ok := err.(*ReturnSignal); ok {
				return errs.Newf("return statement outside of a method body")
			}
			return err
		}
	}
	return nil
}

// ReturnSignal unwinds evaluation back to the nearest enclosing
// MethodBody, carrying the returned value. It implements error so it
// can travel through the same (value.Value, error) channel every other
// node's evaluation uses.
type ReturnSignal struct {
	Value value.Value
}

func (r *ReturnSignal) Error() string { return "return signal escaped its method body" }

// Execute is the sole entry point for evaluating a node; every ast node
// type has exactly one case here.
func (in *Interpreter) Execute(node ast.Node, env *value.Environment, ctx *context.Context) (value.Value, error) {
	switch n := node.(type) {

	case *ast.NumberLit:
		return value.Number(n.Value), nil
	case *ast.StringLit:
		return value.String(n.Value), nil
	case *ast.BoolLit:
		return value.Bool(n.Value), nil
	case *ast.NoneLit:
		return value.None(), nil

	case *ast.VariableValue:
		return in.executeVariableValue(n, env)

	case *ast.Assignment:
		v, err := in.Execute(n.Rhs, env, ctx)
		if err != nil {
			return nil, err
		}
		env.Assign(n.Name, v)
		return v, nil

	case *ast.FieldAssignment:
		return in.executeFieldAssignment(n, env, ctx)

	case *ast.ClassDefinition:
		return in.executeClassDefinition(n, env)

	case *ast.NewInstance:
		return in.executeNewInstance(n, env, ctx)

	case *ast.MethodCall:
		return in.executeMethodCall(n, env, ctx)

	case *ast.Stringify:
		v, err := in.Execute(n.Arg, env, ctx)
		if err != nil {
			return nil, err
		}
		s, err := value.Stringify(in, v)
		if err != nil {
			return nil, err
		}
		return value.String(s), nil

	case *ast.Print:
		return in.executePrint(n, env, ctx)

	case *ast.Arithmetic:
		return in.executeArithmetic(n, env, ctx)

	case *ast.Comparison:
		return in.executeComparison(n, env, ctx)

	case *ast.Logical:
		return in.executeLogical(n, env, ctx)

	case *ast.Not:
		v, err := in.Execute(n.Arg, env, ctx)
		if err != nil {
			return nil, err
		}
		return value.Bool(!value.IsTrue(v)), nil

	case *ast.Compound:
		for _, stmt := range n.Stmts {
			if _, err := in.Execute(stmt, env, ctx); err != nil {
				return nil, err
			}
		}
		return value.None(), nil

	case *ast.IfElse:
		return in.executeIfElse(n, env, ctx)

	case *ast.Return:
		v, err := in.Execute(n.Expr, env, ctx)
		if err != nil {
			return nil, err
		}
		return nil, &ReturnSignal{Value: v}

	case *ast.MethodBody:
		return in.executeMethodBody(n, env, ctx)

	default:
		return nil, errs.Newf("interpreter: unhandled node type %T", node)
	}
}

// executeVariableValue resolves a non-empty dotted path: the first
// segment through the environment, every later segment as a field
// lookup on the previous segment's Instance result. A field that
// doesn't exist, or descending through a non-Instance, is a
// RuntimeError.
func (in *Interpreter) executeVariableValue(n *ast.VariableValue, env *value.Environment) (value.Value, error) {
	head := n.Path[0]
	v, ok := env.Get(head)
	if !ok {
		return nil, errs.Newf("undefined name %q", head)
	}
	for _, field := range n.Path[1:] {
		inst, ok := v.(*value.Instance)
		if !ok {
			return nil, errs.Newf("cannot access field %q on a %s", field, v.Kind())
		}
		fv, ok := inst.Fields[field]
		if !ok {
			return nil, errs.Newf("instance of %s has no field %q", inst.Class.Name, field)
		}
		v = fv
	}
	return v, nil
}

func (in *Interpreter) executeFieldAssignment(n *ast.FieldAssignment, env *value.Environment, ctx *context.Context) (value.Value, error) {
	obj, err := in.Execute(n.Object, env, ctx)
	if err != nil {
		return nil, err
	}
	rhs, err := in.Execute(n.Rhs, env, ctx)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*value.Instance)
	if !ok {
		// Assigning a field on a non-instance silently yields None.
		return value.None(), nil
	}
	inst.Fields[n.Field] = rhs
	return rhs, nil
}

// lookupClass resolves name against the global frame only, never the
// caller's environment. Class names are always module-level bindings,
// and routing this through the general Environment chain would let a
// method-local frame's own bindings shadow a class name by accident.
func (in *Interpreter) lookupClass(name string) (*value.Class, bool) {
	v, ok := in.global.Get(name)
	if !ok {
		return nil, false
	}
	c, ok := v.(*value.Class)
	return c, ok
}

func (in *Interpreter) executeClassDefinition(n *ast.ClassDefinition, env *value.Environment) (value.Value, error) {
	var parent *value.Class
	if n.Decl.Parent != "" {
		pc, ok := in.lookupClass(n.Decl.Parent)
		if !ok {
			return nil, errs.Newf("undefined base class %q", n.Decl.Parent)
		}
		parent = pc
	}
	methods := make([]*value.Method, 0, len(n.Decl.Methods))
	for _, m := range n.Decl.Methods {
		methods = append(methods, &value.Method{Name: m.Name, Params: m.Params, Body: m.Body})
	}
	class := &value.Class{Name: n.Decl.Name, Methods: methods, Parent: parent}
	env.Define(n.Decl.Name, class)
	return class, nil
}

// executeNewInstance allocates an Instance the first time this exact
// node is executed and returns the same one on every later execution
// (see ast.NewInstance). Argument expressions are evaluated only when
// the class actually resolves an __init__ at that arity — a class with
// no matching __init__ still constructs cleanly even if one of the
// call's argument expressions would itself fail to evaluate.
func (in *Interpreter) executeNewInstance(n *ast.NewInstance, env *value.Environment, ctx *context.Context) (value.Value, error) {
	if inst, ok := in.instances[n]; ok {
		return inst, nil
	}
	// ClassExpr is always the single-segment VariableValue the parser
	// builds for a class name (see parsePrimary's Id-followed-by-'('
	// case in parser.go);
	// resolved against the global frame directly rather than through
	// env, since a method's own parentless frame must not shadow it.
	cv, ok := n.ClassExpr.(*ast.VariableValue)
	if !ok || len(cv.Path) != 1 {
		return nil, errs.Newf("interpreter: unsupported class expression %T", n.ClassExpr)
	}
	class, ok := in.lookupClass(cv.Path[0])
	if !ok {
		return nil, errs.Newf("undefined class %q", cv.Path[0])
	}
	inst := value.NewInstanceOf(class)
	in.instances[n] = inst
	if init := class.FindMethod("__init__", len(n.Args)); init != nil {
		args, err := in.evalArgs(n.Args, env, ctx)
		if err != nil {
			return nil, err
		}
		if _, _, err := in.callMethod(inst, init, args, ctx); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

func (in *Interpreter) executeMethodCall(n *ast.MethodCall, env *value.Environment, ctx *context.Context) (value.Value, error) {
	rv, err := in.Execute(n.Receiver, env, ctx)
	if err != nil {
		return nil, err
	}
	inst, ok := rv.(*value.Instance)
	if !ok {
		// Calling a method on a non-instance silently yields None.
		return value.None(), nil
	}
	args, err := in.evalArgs(n.Args, env, ctx)
	if err != nil {
		return nil, err
	}
	m := inst.Class.FindMethod(n.Method, len(args))
	if m == nil {
		// Calling an unresolved method silently yields None.
		return value.None(), nil
	}
	result, _, err := in.callMethod(inst, m, args, ctx)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (in *Interpreter) evalArgs(nodes []ast.Node, env *value.Environment, ctx *context.Context) ([]value.Value, error) {
	args := make([]value.Value, len(nodes))
	for i, a := range nodes {
		v, err := in.Execute(a, env, ctx)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// InvokeMethod implements value.MethodInvoker so the value package can
// dispatch to a user-defined __eq__/__lt__/__str__ without importing
// this package. Those dunders are never reached with a real output
// context of their own, so callMethod is given a nil one here; a
// method invoked through ordinary call syntax instead goes through
// executeMethodCall above, and __add__ through executeArithmetic, both
// of which keep the caller's actual ctx so a
// print statement inside the method body still has somewhere to write.
func (in *Interpreter) InvokeMethod(receiver *value.Instance, name string, args []value.Value) (value.Value, bool, error) {
	m := receiver.Class.FindMethod(name, len(args))
	if m == nil {
		return nil, false, nil
	}
	return in.callMethod(receiver, m, args, nil)
}

// callMethod builds a fresh, parentless frame holding only self and
// the bound parameters, so a method body can neither read nor rebind a
// global by name.
func (in *Interpreter) callMethod(receiver *value.Instance, m *value.Method, args []value.Value, ctx *context.Context) (value.Value, bool, error) {
	frame := value.NewEnvironment(nil)
	frame.Define("self", receiver)
	for i, param := range m.Params {
		frame.Define(param, args[i])
	}
	result, err := in.Execute(m.Body, frame, ctx)
	if err != nil {
		return nil, true, err
	}
	return result, true, nil
}

func (in *Interpreter) executeMethodBody(n *ast.MethodBody, env *value.Environment, ctx *context.Context) (value.Value, error) {
	v, err := in.Execute(n.Body, env, ctx)
	if err != nil {
		if rs, ok := err.(*ReturnSignal); ok {
			return rs.Value, nil
		}
		return nil, err
	}
	return v, nil
}

func (in *Interpreter) executePrint(n *ast.Print, env *value.Environment, ctx *context.Context) (value.Value, error) {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		v, err := in.Execute(a, env, ctx)
		if err != nil {
			return nil, err
		}
		s, err := value.Stringify(in, v)
		if err != nil {
			return nil, err
		}
		parts[i] = s
	}
	if ctx != nil {
		if err := ctx.Print(strings.Join(parts, " ")); err != nil {
			return nil, err
		}
	}
	return value.None(), nil
}

func (in *Interpreter) executeIfElse(n *ast.IfElse, env *value.Environment, ctx *context.Context) (value.Value, error) {
	cond, err := in.Execute(n.Cond, env, ctx)
	if err != nil {
		return nil, err
	}
	if value.IsTrue(cond) {
		return in.Execute(n.Then, env, ctx)
	}
	if n.Else != nil {
		return in.Execute(n.Else, env, ctx)
	}
	return value.None(), nil
}

func (in *Interpreter) executeLogical(n *ast.Logical, env *value.Environment, ctx *context.Context) (value.Value, error) {
	lhs, err := in.Execute(n.Lhs, env, ctx)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.LogAnd:
		if !value.IsTrue(lhs) {
			return value.Bool(false), nil
		}
	case ast.LogOr:
		if value.IsTrue(lhs) {
			return value.Bool(true), nil
		}
	}
	rhs, err := in.Execute(n.Rhs, env, ctx)
	if err != nil {
		return nil, err
	}
	return value.Bool(value.IsTrue(rhs)), nil
}

func (in *Interpreter) executeComparison(n *ast.Comparison, env *value.Environment, ctx *context.Context) (value.Value, error) {
	lhs, err := in.Execute(n.Lhs, env, ctx)
	if err != nil {
		return nil, err
	}
	rhs, err := in.Execute(n.Rhs, env, ctx)
	if err != nil {
		return nil, err
	}
	var result bool
	switch n.Op {
	case ast.CmpEq:
		result, err = value.Equal(in, lhs, rhs)
	case ast.CmpNe:
		result, err = value.NotEqual(in, lhs, rhs)
	case ast.CmpLt:
		result, err = value.Less(in, lhs, rhs)
	case ast.CmpLe:
		result, err = value.LessOrEqual(in, lhs, rhs)
	case ast.CmpGt:
		result, err = value.Greater(in, lhs, rhs)
	case ast.CmpGe:
		result, err = value.GreaterOrEqual(in, lhs, rhs)
	default:
		return nil, errs.Newf("interpreter: unhandled comparison operator %q", n.Op)
	}
	if err != nil {
		return nil, err
	}
	return value.Bool(result), nil
}

func (in *Interpreter) executeArithmetic(n *ast.Arithmetic, env *value.Environment, ctx *context.Context) (value.Value, error) {
	lhs, err := in.Execute(n.Lhs, env, ctx)
	if err != nil {
		return nil, err
	}
	rhs, err := in.Execute(n.Rhs, env, ctx)
	if err != nil {
		return nil, err
	}

	if inst, ok := lhs.(*value.Instance); ok && n.Op == ast.Add {
		if m := inst.Class.FindMethod("__add__", 1); m != nil {
			result, _, err := in.callMethod(inst, m, []value.Value{rhs}, ctx)
			return result, err
		}
	}

	ln, lok := lhs.(value.NumberValue)
	rn, rok := rhs.(value.NumberValue)
	if lok && rok {
		switch n.Op {
		case ast.Add:
			return value.Number(ln.Val + rn.Val), nil
		case ast.Sub:
			return value.Number(ln.Val - rn.Val), nil
		case ast.Mult:
			return value.Number(ln.Val * rn.Val), nil
		case ast.Div:
			if rn.Val == 0 {
				return nil, errs.Newf("division by zero")
			}
			return value.Number(ln.Val / rn.Val), nil
		}
	}

	if n.Op == ast.Add {
		ls, lok := lhs.(value.StringValue)
		rs, rok := rhs.(value.StringValue)
		if lok && rok {
			return value.String(ls.Val + rs.Val), nil
		}
	}

	return nil, errs.Newf("unsupported operand types for %s: %s and %s", n.Op, lhs.Kind(), rhs.Kind())
}
