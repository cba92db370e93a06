package dockerhost

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hilsamlabs/hostprep/pkg/sysexec"
)

func newLoginBootstrapper(t *testing.T, recorder *sysexec.Recorder, env map[string]string, prompt LoginPrompter) (*Bootstrapper, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	b := New(recorder, Options{
		SudoersPath: filepath.Join(t.TempDir(), "act_runner"),
		Out:         &out,
		LookupEnv:   func(key string) string { return env[key] },
		Prompt:      prompt,
	})
	return b, &out
}

func TestRegistryLogin_BothVariablesSet(t *testing.T) {
	recorder := &sysexec.Recorder{}
	env := map[string]string{
		EnvRegistryURL: "registry.hilsamlabs.net",
		EnvUsername:    "ci-bot",
	}
	// The prompted values differ from the environment on purpose: only the
	// environment feeds the login command.
	prompt := func() (string, string, error) {
		return "prompted.example.com", "prompted-user", nil
	}
	b, out := newLoginBootstrapper(t, recorder, env, prompt)

	err := b.RegistryLogin(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"docker login -u ci-bot registry.hilsamlabs.net"}, recorder.Interactive)
	assert.Contains(t, out.String(), "prompted.example.com")
	assert.Contains(t, out.String(), "prompted-user")
}

func TestRegistryLogin_MissingURL(t *testing.T) {
	recorder := &sysexec.Recorder{}
	env := map[string]string{EnvUsername: "ci-bot"}
	b, out := newLoginBootstrapper(t, recorder, env, nil)

	err := b.RegistryLogin(context.Background())
	require.NoError(t, err)

	assert.Empty(t, recorder.Interactive, "no login attempt without both variables")
	assert.Contains(t, out.String(), "Skipping registry login")
	assert.Contains(t, out.String(), EnvRegistryURL)
}

func TestRegistryLogin_MissingUsername(t *testing.T) {
	recorder := &sysexec.Recorder{}
	env := map[string]string{EnvRegistryURL: "registry.hilsamlabs.net"}
	b, out := newLoginBootstrapper(t, recorder, env, nil)

	err := b.RegistryLogin(context.Background())
	require.NoError(t, err)

	assert.Empty(t, recorder.Interactive)
	assert.Contains(t, out.String(), "Skipping registry login")
}

func TestRegistryLogin_PromptError(t *testing.T) {
	recorder := &sysexec.Recorder{}
	prompt := func() (string, string, error) {
		return "", "", errors.New("form cancelled")
	}
	b, _ := newLoginBootstrapper(t, recorder, nil, prompt)

	err := b.RegistryLogin(context.Background())

	require.Error(t, err)
	assert.Empty(t, recorder.Interactive)
}

func TestRegistryLogin_LoginFailurePropagates(t *testing.T) {
	recorder := &sysexec.Recorder{
		RunFunc: sysexec.FailOn("docker login"),
	}
	env := map[string]string{
		EnvRegistryURL: "registry.hilsamlabs.net",
		EnvUsername:    "ci-bot",
	}
	b, _ := newLoginBootstrapper(t, recorder, env, nil)

	err := b.RegistryLogin(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "docker login")
}
