// Package cli provides utilities for nicer terminal output in the browser shell.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
)

// NewIndentedWriter wraps forward so that every line written through it is indented by the given
// number of two-space steps, with ANSI escape sequences passed through unmangled.
func NewIndentedWriter(steps int, forward io.Writer) io.Writer {
	return indent.NewWriterPipe(forward, uint(steps*2), nil)
}

// QuoteName returns the name as typed into the shell: quoted when it contains whitespace, bare
// otherwise.
func QuoteName(name string) string {
	if strings.ContainsAny(name, " \t") {
		return fmt.Sprintf("'%s'", name)
	}
	return name
}
