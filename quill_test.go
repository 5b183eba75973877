// End-to-end tests running full programs through the lexer, parser, and
// interpreter. Kept at module root as an external test package so each
// test only has access to the same public API a real caller would use.
package quill_test

import (
	"strings"
	"testing"

	"quill/pkg/context"
	"quill/pkg/interpreter"
	"quill/pkg/lexer"
	"quill/pkg/parser"
)

func runProgram(t *testing.T, src string) string {
	t.Helper()
	tokens, err := lexer.Tokenize([]byte(src))
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	program, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	var sb strings.Builder
	ctx := context.New(&sb)
	in := interpreter.New()
	if err := in.Run(program, ctx); err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if err := ctx.Flush(); err != nil {
		t.Fatalf("flush error: %v", err)
	}
	return sb.String()
}

func TestScenarioSimplePrints(t *testing.T) {
	src := "print 57\n" +
		"print 10, 24, -8\n" +
		"print 'hello'\n" +
		`print "world"` + "\n" +
		"print True, False\n" +
		"print\n" +
		"print None\n"
	want := "57\n10 24 -8\nhello\nworld\nTrue False\n\nNone\n"
	if got := runProgram(t, src); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestScenarioAssignmentsAndRebinding(t *testing.T) {
	src := "x = 57\n" +
		"print x\n" +
		"x = 'C++ black belt'\n" +
		"print x\n" +
		"y = False\n" +
		"x = y\n" +
		"print x\n" +
		"x = None\n" +
		"print x, y\n"
	want := "57\nC++ black belt\nFalse\nNone False\n"
	if got := runProgram(t, src); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestScenarioArithmetic(t *testing.T) {
	src := "print 1+2+3+4+5, 1*2*3*4*5, 1-2-3-4-5, 36/4/3, 2*5+10/2\n"
	want := "15 120 -13 3 15\n"
	if got := runProgram(t, src); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestScenarioInstanceAliasing(t *testing.T) {
	src := `class Counter:
  def __init__():
    self.value = 0
  def add():
    self.value = self.value + 1
class Dummy:
  def do_add(counter):
    counter.add()
x = Counter()
y = x
x.add()
y.add()
print x.value
d = Dummy()
d.do_add(x)
print y.value
`
	want := "2\n3\n"
	if got := runProgram(t, src); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// TestScenarioComparisonInheritanceAndLogicalOps exercises three levels
// of inheritance (Point/Point2/Point3, none of the descendants
// overriding __eq__/__lt__), every derived comparison operator, and
// None == None surviving a later reassignment of one of the two names
// it was bound through.
func TestScenarioComparisonInheritanceAndLogicalOps(t *testing.T) {
	src := `class Point:
  def __init__(px, py):
    self.px = px
    self.py = py
  def __eq__(other):
    px_bool = (self.px == other.px)
    py_bool = (self.py == other.py)
    return px_bool and py_bool
  def __lt__(other):
    pxy_self = self.px * self.py
    pxy_other = other.px * other.py
    return pxy_self < pxy_other
  def TestOr(value):
    return self.px == value or self.py == value
  def TestAnd(value):
    return self.px == value and self.py == value
  def TestNot(value):
    return not (self.px == value) and not (self.py == value)
class Point2(Point):
  def __init__(px, py):
    self.px = px
    self.py = py
class Point3(Point2):
  def __init__(px, py):
    self.px = px
    self.py = py
p1 = Point(1, 1)
p2 = Point2(2, 2)
p3 = Point3(2, 2)
p4 = None
p5 = None
print (p1 == p2), (p1 != p2), (p2 == p3), (p2 != p3)
print (p1 < p2), (p1 >= p2), (p2 <= p3), (p3 > p1), (p4 == p5)
p5 = Point(1, 2)
print p5.TestOr(0), p5.TestOr(1), p5.TestAnd(1), p5.TestAnd(2), p5.TestNot(6)
`
	want := "False True True False\n" +
		"True False True True True\n" +
		"False True False False True\n"
	if got := runProgram(t, src); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestScenarioIfElseAndReturn(t *testing.T) {
	src := `class Classifier:
  def sign(n):
    if n < 0:
      return 'negative'
    else:
      if n == 0:
        return 'zero'
      else:
        return 'positive'
c = Classifier()
print c.sign(-5), c.sign(0), c.sign(5)
`
	want := "negative zero positive\n"
	if got := runProgram(t, src); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCommentsAndBlankLinesInsideBlocks(t *testing.T) {
	src := `# a top-level comment
class Greeter:
  # a method-level comment
  def hi():

    return 'hi'

g = Greeter()
print g.hi()
`
	want := "hi\n"
	if got := runProgram(t, src); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestLexErrorSurfacesAsDiagnostic(t *testing.T) {
	_, err := lexer.Tokenize([]byte("if True:\n   print 1\n"))
	if err == nil {
		t.Fatal("expected a lex error for misaligned indentation")
	}
}

func TestPrintInsideCalledMethodWritesToStream(t *testing.T) {
	src := `class Foo:
  def bar():
    print 42
f = Foo()
f.bar()
`
	want := "42\n"
	if got := runProgram(t, src); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNewInstanceWithoutMatchingInitSkipsArgEvaluation(t *testing.T) {
	src := `class Empty:
  def m():
    return 1
x = Empty(undefined_name)
print x.m()
`
	want := "1\n"
	if got := runProgram(t, src); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDottedFieldAccessThroughMultipleInstances(t *testing.T) {
	src := `class Engine:
  def __init__(power):
    self.power = power
class Car:
  def __init__(engine):
    self.engine = engine
e = Engine(300)
car = Car(e)
print car.engine.power
`
	want := "300\n"
	if got := runProgram(t, src); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
