// Package main provides the hostprep CLI for provisioning Docker hosts
// and editor container images.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set via -ldflags during build
var version = "dev"

func main() {
	rootCmd := newRootCmd()

	// Cobra handles error printing
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for hostprep.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hostprep",
		Short: "Provision Docker hosts and editor container images",
		Long: `hostprep provisions Linux machines for CI runner workloads.

It supports:
  - Installing the Docker engine and compose plugin on APT and DNF/YUM hosts
  - Granting a CI runner account a constrained sudoers allowlist
  - Installing Sublime Text into RPM-family container images
  - Checking host readiness with fix suggestions`,
		Version: version,
	}

	rootCmd.AddCommand(
		newDockerCmd(),
		newSublimeCmd(),
		newDoctorCmd(),
		newInitCmd(),
	)

	return rootCmd
}
