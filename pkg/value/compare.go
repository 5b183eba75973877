package value

import "quill/pkg/errs"

// MethodInvoker is implemented by the interpreter so this package can
// dispatch to a user-defined dunder without importing the interpreter
// package (which imports value for Method.Body's ast.Node and for the
// Value/Class/Instance types themselves — an import back from value
// would cycle). Equal/Less/Stringify all go through this interface
// instead of calling into interpreter directly.
type MethodInvoker interface {
	// InvokeMethod calls name on receiver with args, returning ok=false
	// if the receiver's class resolves no such method at this arity.
	InvokeMethod(receiver *Instance, name string, args []Value) (result Value, ok bool, err error)
}

// IsTrue is the language's truthiness rule: None, Bool(false),
// Number(0), and the empty String are falsy; every other value —
// including every Class and Instance — is truthy.
func IsTrue(v Value) bool {
	switch t := v.(type) {
	case NoneValue:
		return false
	case BoolValue:
		return t.Val
	case NumberValue:
		return t.Val != 0
	case StringValue:
		return t.Val != ""
	default:
		return true
	}
}

// Equal implements ==. An Instance whose class resolves a one-argument
// __eq__ dispatches to it; Number, String, and Bool pairs of the same
// kind compare by value; None only equals None. Any other combination —
// including None against a non-None value, and Class or Instance pairs
// without a resolving __eq__ — is a RuntimeError, matching
// Less's default branch below.
func Equal(inv MethodInvoker, a, b Value) (bool, error) {
	if ai, ok := a.(*Instance); ok {
		if m := ai.Class.FindMethod("__eq__", 1); m != nil {
			result, _, err := inv.InvokeMethod(ai, "__eq__", []Value{b})
			if err != nil {
				return false, err
			}
			return IsTrue(result), nil
		}
	}
	switch av := a.(type) {
	case NoneValue:
		if _, ok := b.(NoneValue); ok {
			return true, nil
		}
		return false, errs.Newf("cannot compare None with %s", b.Kind())
	case NumberValue:
		bv, ok := b.(NumberValue)
		if !ok {
			return false, errs.Newf("cannot compare Number with %s", b.Kind())
		}
		return av.Val == bv.Val, nil
	case StringValue:
		bv, ok := b.(StringValue)
		if !ok {
			return false, errs.Newf("cannot compare String with %s", b.Kind())
		}
		return av.Val == bv.Val, nil
	case BoolValue:
		bv, ok := b.(BoolValue)
		if !ok {
			return false, errs.Newf("cannot compare Bool with %s", b.Kind())
		}
		return av.Val == bv.Val, nil
	default:
		return false, errs.Newf("cannot compare values of kind %s", a.Kind())
	}
}

// Less implements <. An Instance whose class resolves a one-argument
// __lt__ dispatches to it; Bool orders False (0) before True (1), its
// numeric coercion; Number and String use their natural order; every
// other pairing, and any cross-kind pairing, is a RuntimeError.
func Less(inv MethodInvoker, a, b Value) (bool, error) {
	if ai, ok := a.(*Instance); ok {
		if m := ai.Class.FindMethod("__lt__", 1); m != nil {
			result, _, err := inv.InvokeMethod(ai, "__lt__", []Value{b})
			if err != nil {
				return false, err
			}
			return IsTrue(result), nil
		}
	}
	switch av := a.(type) {
	case NumberValue:
		bv, ok := b.(NumberValue)
		if !ok {
			return false, errs.Newf("cannot compare Number with %s", b.Kind())
		}
		return av.Val < bv.Val, nil
	case StringValue:
		bv, ok := b.(StringValue)
		if !ok {
			return false, errs.Newf("cannot compare String with %s", b.Kind())
		}
		return av.Val < bv.Val, nil
	case BoolValue:
		bv, ok := b.(BoolValue)
		if !ok {
			return false, errs.Newf("cannot compare Bool with %s", b.Kind())
		}
		return boolRank(av.Val) < boolRank(bv.Val), nil
	default:
		return false, errs.Newf("values of kind %s do not support ordering", a.Kind())
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// NotEqual, Greater, LessOrEqual, and GreaterOrEqual are all derived
// from Equal/Less rather than given independent dunders: only __eq__
// and __lt__ are overridable hooks, so every comparison operator routes
// through one of those two.

func NotEqual(inv MethodInvoker, a, b Value) (bool, error) {
	eq, err := Equal(inv, a, b)
	if err != nil {
		return false, err
	}
	return !eq, nil
}

// Greater is defined as "not less and not equal" rather than as Less
// with swapped operands, so a user-overridden __lt__/__eq__ on the left
// operand is consulted the same way equal/less already consult it —
// swapping operands would instead dispatch to the right operand's
// dunders, changing which side's override wins.
func Greater(inv MethodInvoker, a, b Value) (bool, error) {
	lt, err := Less(inv, a, b)
	if err != nil {
		return false, err
	}
	eq, err := Equal(inv, a, b)
	if err != nil {
		return false, err
	}
	return !lt && !eq, nil
}

func LessOrEqual(inv MethodInvoker, a, b Value) (bool, error) {
	gt, err := Greater(inv, a, b)
	if err != nil {
		return false, err
	}
	return !gt, nil
}

func GreaterOrEqual(inv MethodInvoker, a, b Value) (bool, error) {
	lt, err := Less(inv, a, b)
	if err != nil {
		return false, err
	}
	return !lt, nil
}
