// Package value is the runtime object model: the tagged value kinds the
// language supports, the class/instance descriptors, and the
// comparison/truthiness operations that dispatch into user-defined
// dunder methods.
//
// A Kind enum with a String method tags one small struct per variant,
// all satisfying a single Value interface via a Kind() method.
package value

import (
	"fmt"

	"quill/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNone Kind = iota
	KindNumber
	KindString
	KindBool
	KindClass
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	case KindClass:
		return "Class"
	case KindInstance:
		return "Instance"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is the shared behavior for all runtime values.
type Value interface {
	Kind() Kind
}

// None is the language's null value. All instances of None compare
// equal to one another and are used interchangeably.
type NoneValue struct{}

func (NoneValue) Kind() Kind { return KindNone }

// None wraps a fresh None reference. Kept as a function (rather than a
// package-level singleton) so tests can construct one without reaching
// into package internals.
func None() Value { return NoneValue{} }

type NumberValue struct {
	Val int32
}

func (NumberValue) Kind() Kind { return KindNumber }

func Number(v int32) Value { return NumberValue{Val: v} }

type StringValue struct {
	Val string
}

func (StringValue) Kind() Kind { return KindString }

func String(v string) Value { return StringValue{Val: v} }

type BoolValue struct {
	Val bool
}

func (BoolValue) Kind() Kind { return KindBool }

func Bool(v bool) Value { return BoolValue{Val: v} }

// Method is a resolved (name, formal parameters, body) triple. Body is
// always a *ast.MethodBody so the interpreter can catch ReturnSignal
// uniformly regardless of call site.
type Method struct {
	Name   string
	Params []string
	Body   *ast.MethodBody
}

// Class is an immutable descriptor: name, ordered method list (first
// match by name+arity wins on duplicates), and an optional parent for
// single inheritance. Classes are constructed once, at
// ClassDefinition-execution time, and never mutated afterward.
type Class struct {
	Name    string
	Methods []*Method
	Parent  *Class
}

func (*Class) Kind() Kind { return KindClass }

// FindMethod resolves name at the given arity, walking this class's own
// method vector (first match by vector order wins) before recursing
// into the parent chain. Method resolution is keyed on (name, arity)
// as a pair, so overloading by parameter count is possible within a
// single class.
func (c *Class) FindMethod(name string, arity int) *Method {
	for _, m := range c.Methods {
		if m.Name == name && len(m.Params) == arity {
			return m
		}
	}
	if c.Parent != nil {
		return c.Parent.FindMethod(name, arity)
	}
	return nil
}

// HasMethodNamed reports whether name resolves at all in the chain,
// regardless of arity. Used only by __str__ lookup, which is always
// zero-argument, so callers still pass an explicit arity of 0.
func (c *Class) HasMethodNamed(name string) bool {
	for _, m := range c.Methods {
		if m.Name == name {
			return true
		}
	}
	if c.Parent != nil {
		return c.Parent.HasMethodNamed(name)
	}
	return false
}

// Instance is mutable: a class pointer plus a field table. Instances
// are always handled through a pointer so that two bindings to "the
// same instance" observe each other's mutations.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func (*Instance) Kind() Kind { return KindInstance }

// NewInstanceOf allocates a zero-valued instance of c. Field
// population (via __init__) is the caller's responsibility.
func NewInstanceOf(c *Class) *Instance {
	return &Instance{Class: c, Fields: make(map[string]Value)}
}

// Share returns a non-owning reference to an already-live instance —
// the same pointer, in Go terms — so call sites read as "self is
// shared, not copied" rather than as a plain pointer pass-through.
func Share(i *Instance) *Instance { return i }
