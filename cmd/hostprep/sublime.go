package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hilsamlabs/hostprep/pkg/provision"
	"github.com/hilsamlabs/hostprep/pkg/settings"
	"github.com/hilsamlabs/hostprep/pkg/sublime"
	"github.com/hilsamlabs/hostprep/pkg/sysexec"
)

// newSublimeCmd creates the sublime subcommand.
func newSublimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sublime",
		Short: "Install Sublime Text into an RPM-family container image",
		Long: `Install the Sublime Text package and place a desktop shortcut for the
image's fixed user.

The target distribution is read from the DISTRO environment variable and
selects how the package repository gets registered. On Enterprise Linux 9
the system crypto policy temporarily permits SHA-1 during the install and
is restored on exit. Set SKIP_CLEAN to keep the package caches.

64-bit ARM images are not supported; the command exits successfully
without installing.`,
		Args: cobra.NoArgs,
		RunE: runSublime,
	}
}

// runSublime runs the editor installation sequence.
func runSublime(cmd *cobra.Command, _ []string) error {
	cfg, err := settings.LoadOrDefault()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	shortcut := sublime.DefaultShortcut()
	shortcut.DesktopDir = fmt.Sprintf("/home/%s/Desktop", cfg.DesktopUser.Name)
	shortcut.UID = cfg.DesktopUser.UID
	shortcut.GID = cfg.DesktopUser.GID

	return runWithProgress("Installing Sublime Text", func(progress provision.ProgressFunc) error {
		installer := sublime.New(&sysexec.RealExecutor{}, sublime.Options{
			Shortcut: shortcut,
			Progress: progress,
		})
		return installer.Install(cmd.Context())
	})
}
