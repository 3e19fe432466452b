// Package testutil provides helpers for exercising the prodfilter command tree.
package testutil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// ExecResult holds the result of a CLI command execution.
type ExecResult struct {
	Stdout string
	Stderr string
	Err    error
}

// RunCLI executes root in-process with the given stdin and arguments.
// root must be freshly built per call; cobra commands keep flag state.
func RunCLI(tb testing.TB, root *cobra.Command, stdin string, args ...string) ExecResult {
	tb.Helper()

	var stdout, stderr bytes.Buffer
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.Execute()

	return ExecResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
		Err:    err,
	}
}
