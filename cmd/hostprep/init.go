package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hilsamlabs/hostprep/pkg/settings"
)

// newInitCmd creates the init subcommand.
func newInitCmd() *cobra.Command {
	var runnerAccount, registryURL string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the hostprep settings file",
		Long: `Write ~/.config/hostprep/config.yaml with the provisioning defaults:
the CI runner account for the sudoers drop-in, the registry URL offered
at login, and the desktop user the editor shortcut is placed for.

Existing settings are kept; flags override individual values.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(runnerAccount, registryURL)
		},
	}

	cmd.Flags().StringVar(&runnerAccount, "runner-account", "", "Automation account for the sudoers drop-in")
	cmd.Flags().StringVar(&registryURL, "registry", "", "Default container registry URL")

	return cmd
}

// runInit creates or updates the settings file.
func runInit(runnerAccount, registryURL string) error {
	cfg, err := settings.Load()
	if err != nil {
		if !errors.Is(err, settings.ErrNotInitialized) {
			return err
		}
		cfg = settings.NewConfig()
	}

	if runnerAccount != "" {
		cfg.RunnerAccount = runnerAccount
		cfg.SudoersPath = "/etc/sudoers.d/" + runnerAccount
	}
	if registryURL != "" {
		cfg.RegistryURL = registryURL
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	path, err := settings.ConfigPath()
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
