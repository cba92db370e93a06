package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hilsamlabs/hostprep/pkg/dockerhost"
	"github.com/hilsamlabs/hostprep/pkg/provision"
	"github.com/hilsamlabs/hostprep/pkg/settings"
	"github.com/hilsamlabs/hostprep/pkg/sysexec"
	"github.com/hilsamlabs/hostprep/pkg/tui"
)

// newDockerCmd creates the docker subcommand.
func newDockerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "docker",
		Short: "Provision this host as a Docker host for the CI runner",
		Long: `Install the Docker engine, CLI, containerd, and the compose plugin,
enable the service across reboots, and grant the CI runner account a
constrained sudoers allowlist.

Works on APT-family and DNF/YUM-family hosts; anything else is rejected.
After provisioning, an optional registry login runs when both
DOCKER_REGISTRY_URL and DOCKER_USERNAME are set.`,
		Args: cobra.NoArgs,
		RunE: runDocker,
	}
}

// runDocker provisions the host, then handles the registry login.
func runDocker(cmd *cobra.Command, _ []string) error {
	cfg, err := settings.LoadOrDefault()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	var bootstrapper *dockerhost.Bootstrapper
	ctx := cmd.Context()

	err = runWithProgress("Provisioning Docker host", func(progress provision.ProgressFunc) error {
		bootstrapper = dockerhost.New(&sysexec.RealExecutor{}, dockerhost.Options{
			RunnerAccount: cfg.RunnerAccount,
			SudoersPath:   cfg.SudoersPath,
			Progress:      progress,
			Prompt: func() (string, string, error) {
				return tui.RunLoginPrompt(cfg.RegistryURL)
			},
		})
		return bootstrapper.Provision(ctx)
	})
	if err != nil {
		return err
	}

	// Login runs outside the progress display so its prompts own the terminal.
	return bootstrapper.RegistryLogin(ctx)
}
