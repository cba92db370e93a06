package sysexec

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Recorder is an Executor for tests. It records every command it is asked
// to run and answers from configurable hooks, defaulting to success.
type Recorder struct {
	mu sync.Mutex

	// Calls holds each executed command as "name arg1 arg2 ...".
	Calls []string
	// Interactive holds commands executed via RunInteractive.
	Interactive []string

	LookPathFunc   func(file string) (string, error)
	RunFunc        func(name string, args ...string) (string, error)
	FileExistsFunc func(path string) bool
}

// LookPath resolves a file via the configured hook, or /usr/bin/<file>.
func (r *Recorder) LookPath(file string) (string, error) {
	if r.LookPathFunc != nil {
		return r.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}

// Run records the command and answers from RunFunc.
func (r *Recorder) Run(name string, args ...string) (string, error) {
	r.record(name, args...)
	if r.RunFunc != nil {
		return r.RunFunc(name, args...)
	}
	return "", nil
}

// RunContext records the command and answers from RunFunc.
func (r *Recorder) RunContext(_ context.Context, name string, args ...string) (string, error) {
	return r.Run(name, args...)
}

// RunInteractive records the command separately from captured runs.
func (r *Recorder) RunInteractive(_ context.Context, name string, args ...string) error {
	r.mu.Lock()
	r.Interactive = append(r.Interactive, CommandLine(name, args...))
	r.mu.Unlock()
	if r.RunFunc != nil {
		_, err := r.RunFunc(name, args...)
		return err
	}
	return nil
}

// CombinedOutput records the command and answers from RunFunc.
func (r *Recorder) CombinedOutput(name string, args ...string) ([]byte, error) {
	out, err := r.Run(name, args...)
	return []byte(out), err
}

// FileExists answers from the configured hook, defaulting to true.
func (r *Recorder) FileExists(path string) bool {
	if r.FileExistsFunc != nil {
		return r.FileExistsFunc(path)
	}
	return true
}

// Ran reports whether a command starting with prefix was executed.
func (r *Recorder) Ran(prefix string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, call := range r.Calls {
		if call == prefix || strings.HasPrefix(call, prefix+" ") {
			return true
		}
	}
	return false
}

func (r *Recorder) record(name string, args ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, CommandLine(name, args...))
}

var _ Executor = (*Recorder)(nil)

// FailOn wraps a RunFunc that fails any command whose rendered command
// line matches one of the given prefixes.
func FailOn(prefixes ...string) func(name string, args ...string) (string, error) {
	return func(name string, args ...string) (string, error) {
		line := CommandLine(name, args...)
		for _, p := range prefixes {
			if line == p || strings.HasPrefix(line, p+" ") {
				return "", fmt.Errorf("exit status 1")
			}
		}
		return "", nil
	}
}
