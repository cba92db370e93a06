package dockerhost

import (
	"context"
	"fmt"

	"github.com/hilsamlabs/hostprep/pkg/provision"
)

// Environment variables that control whether a login attempt happens.
const (
	EnvRegistryURL = "DOCKER_REGISTRY_URL"
	EnvUsername    = "DOCKER_USERNAME"
)

// RegistryLogin prompts the operator for a registry URL and username, then
// decides whether to log in based on the DOCKER_REGISTRY_URL and
// DOCKER_USERNAME environment variables. The prompted values are echoed but
// otherwise unused; only the environment variables feed the login command.
// TODO: the prompt/env divergence is inherited behavior, pending a product
// decision on which input should win.
func (b *Bootstrapper) RegistryLogin(ctx context.Context) error {
	b.report(provision.StageRegistry, "configuring registry login")

	if b.opts.Prompt != nil {
		promptURL, promptUser, err := b.opts.Prompt()
		if err != nil {
			b.fail(provision.StageRegistry, err)
			return err
		}
		fmt.Fprintf(b.opts.Out, "Registry: %s (user %s)\n", promptURL, promptUser)
	}

	registryURL := b.opts.LookupEnv(EnvRegistryURL)
	username := b.opts.LookupEnv(EnvUsername)
	if registryURL == "" || username == "" {
		fmt.Fprintln(b.opts.Out, "Skipping registry login.")
		fmt.Fprintf(b.opts.Out, "Set %s and %s and run 'docker login' manually to authenticate.\n",
			EnvRegistryURL, EnvUsername)
		return nil
	}

	if err := b.runner.RunInteractive(ctx, "docker", "login", "-u", username, registryURL); err != nil {
		b.fail(provision.StageRegistry, err)
		return err
	}
	fmt.Fprintf(b.opts.Out, "Logged in to %s as %s\n", registryURL, username)
	return nil
}
