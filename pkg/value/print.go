package value

import (
	"fmt"
	"strconv"
)

// Stringify renders v the way `print` and the Stringify node do. An
// Instance whose class resolves a zero-argument __str__ is asked first;
// everything else uses a fixed per-kind rendering. Booleans print
// capitalized ("True"/"False") and None prints as "None", the
// language's own literal spellings rather than Go's lowercase
// "true"/"false".
func Stringify(inv MethodInvoker, v Value) (string, error) {
	switch t := v.(type) {
	case NoneValue:
		return "None", nil
	case NumberValue:
		return strconv.FormatInt(int64(t.Val), 10), nil
	case StringValue:
		return t.Val, nil
	case BoolValue:
		if t.Val {
			return "True", nil
		}
		return "False", nil
	case *Class:
		return "Class " + t.Name, nil
	case *Instance:
		if t.Class.HasMethodNamed("__str__") {
			if m := t.Class.FindMethod("__str__", 0); m != nil {
				result, _, err := inv.InvokeMethod(t, "__str__", nil)
				if err != nil {
					return "", err
				}
				return Stringify(inv, result)
			}
		}
		return fmt.Sprintf("<%s instance>", t.Class.Name), nil
	default:
		return "", fmt.Errorf("cannot stringify value of kind %s", v.Kind())
	}
}
