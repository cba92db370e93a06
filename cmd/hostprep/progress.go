package main

import (
	"os"

	"github.com/hilsamlabs/hostprep/pkg/provision"
	"github.com/hilsamlabs/hostprep/pkg/tui"
)

// runWithProgress executes a provisioning function with a progress display:
// the full-screen spinner view on a terminal, plain lines otherwise.
func runWithProgress(title string, fn func(provision.ProgressFunc) error) error {
	if !isTerminal(os.Stdout) {
		return fn(tui.PlainProgress(os.Stdout))
	}

	ui := tui.NewProgressUI(title)
	errCh := make(chan error, 1)
	go func() {
		err := fn(ui.Report)
		ui.Finish(err)
		errCh <- err
	}()

	if err := ui.Run(); err != nil {
		return err
	}
	return <-errCh
}

// isTerminal reports whether the file is attached to a terminal.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
