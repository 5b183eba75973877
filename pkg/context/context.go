// Package context is the interpreter's I-O boundary: the single seam
// through which `print` reaches the outside world, kept separate from
// evaluation so tests can assert on captured output instead of a
// process's real stdout.
package context

import (
	"bufio"
	"io"
)

// Context carries everything about a single program run that isn't
// part of the language's own state: where printed output goes.
type Context struct {
	out *bufio.Writer
}

// New wraps w for buffered writing.
func New(w io.Writer) *Context {
	return &Context{out: bufio.NewWriter(w)}
}

// Print writes msg followed by a single newline, the shape every
// `print` statement produces regardless of argument count.
func (c *Context) Print(msg string) error {
	if _, err := c.out.WriteString(msg); err != nil {
		return err
	}
	return c.out.WriteByte('\n')
}

// Flush pushes any buffered output to the underlying writer. The CLI
// calls this both on normal exit and before reporting a runtime error,
// so partial output already produced by `print` is never lost even
// when the program fails partway through.
func (c *Context) Flush() error {
	return c.out.Flush()
}
