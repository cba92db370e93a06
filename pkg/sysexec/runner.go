package sysexec

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Runner executes provisioning commands in order with strict error
// propagation: the first failing command aborts the whole run.
type Runner struct {
	exec Executor
	out  io.Writer
}

// NewRunner creates a Runner that writes command output to out.
func NewRunner(executor Executor, out io.Writer) *Runner {
	return &Runner{exec: executor, out: out}
}

// Run executes a single command. Output is echoed to the runner's writer;
// on failure the command line and captured diagnostics are folded into the
// returned error.
func (r *Runner) Run(ctx context.Context, name string, args ...string) error {
	output, err := r.exec.RunContext(ctx, name, args...)
	if err != nil {
		errMsg := strings.TrimSpace(output)
		if errMsg != "" {
			return fmt.Errorf("%s failed: %s", CommandLine(name, args...), errMsg)
		}
		return fmt.Errorf("%s failed: %w", CommandLine(name, args...), err)
	}
	if output != "" && r.out != nil {
		fmt.Fprint(r.out, output)
	}
	return nil
}

// RunShell executes a shell pipeline via sh -c. Used for the few steps
// that genuinely need shell plumbing, such as key dearmoring.
func (r *Runner) RunShell(ctx context.Context, script string) error {
	return r.Run(ctx, "sh", "-c", script)
}

// RunInteractive executes a command attached to the operator's terminal.
func (r *Runner) RunInteractive(ctx context.Context, name string, args ...string) error {
	if err := r.exec.RunInteractive(ctx, name, args...); err != nil {
		return fmt.Errorf("%s failed: %w", CommandLine(name, args...), err)
	}
	return nil
}

// Executor returns the underlying executor.
func (r *Runner) Executor() Executor {
	return r.exec
}

// CommandLine renders a command and its arguments for messages.
func CommandLine(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
