package dockerhost

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hilsamlabs/hostprep/pkg/pkgmgr"
	"github.com/hilsamlabs/hostprep/pkg/provision"
	"github.com/hilsamlabs/hostprep/pkg/sysexec"
)

// lookPathFor returns a LookPath hook that only resolves the given tools.
func lookPathFor(tools ...string) func(string) (string, error) {
	return func(file string) (string, error) {
		for _, tool := range tools {
			if file == tool {
				return "/usr/bin/" + file, nil
			}
		}
		return "", errors.New("not found")
	}
}

func newTestBootstrapper(t *testing.T, recorder *sysexec.Recorder) (*Bootstrapper, string, *bytes.Buffer) {
	t.Helper()
	sudoersPath := filepath.Join(t.TempDir(), "act_runner")
	var out bytes.Buffer
	b := New(recorder, Options{
		SudoersPath: sudoersPath,
		Out:         &out,
		LookupEnv:   func(string) string { return "" },
	})
	return b, sudoersPath, &out
}

func TestProvision_AptFlow(t *testing.T) {
	recorder := &sysexec.Recorder{LookPathFunc: lookPathFor("apt")}
	b, sudoersPath, _ := newTestBootstrapper(t, recorder)

	err := b.Provision(context.Background())
	require.NoError(t, err)

	assert.True(t, recorder.Ran("apt-get update"))
	assert.True(t, recorder.Ran("apt-get install -y ca-certificates curl gnupg"))
	assert.True(t, recorder.Ran("install -m 0755 -d /etc/apt/keyrings"))
	assert.True(t, recorder.Ran("apt-get install -y docker-ce docker-ce-cli containerd.io docker-buildx-plugin docker-compose-plugin"))
	assert.True(t, recorder.Ran("systemctl enable --now docker"))

	// SELinux integration is a DNF/YUM concern only
	assert.False(t, recorder.Ran("apt-get install -y docker-ce docker-ce-cli containerd.io docker-buildx-plugin docker-compose-plugin container-selinux"))

	content, err := os.ReadFile(sudoersPath)
	require.NoError(t, err)
	assert.Equal(t, SudoersContent("act_runner"), string(content))
}

func TestProvision_AptKeyAndSource(t *testing.T) {
	recorder := &sysexec.Recorder{LookPathFunc: lookPathFor("apt")}
	b, _, _ := newTestBootstrapper(t, recorder)

	err := b.Provision(context.Background())
	require.NoError(t, err)

	var sawDearmor, sawSource bool
	for _, call := range recorder.Calls {
		if call == "sh -c curl -fsSL https://download.docker.com/linux/ubuntu/gpg | gpg --dearmor -o /etc/apt/keyrings/docker.gpg" {
			sawDearmor = true
		}
		if len(call) > 5 && call[:5] == "sh -c" && containsAll(call, "signed-by=/etc/apt/keyrings/docker.gpg", "/etc/apt/sources.list.d/docker.list") {
			sawSource = true
		}
	}
	assert.True(t, sawDearmor, "expected key dearmor step, got %v", recorder.Calls)
	assert.True(t, sawSource, "expected source list step, got %v", recorder.Calls)
}

func TestProvision_DnfFlow(t *testing.T) {
	recorder := &sysexec.Recorder{LookPathFunc: lookPathFor("dnf")}
	b, sudoersPath, _ := newTestBootstrapper(t, recorder)

	err := b.Provision(context.Background())
	require.NoError(t, err)

	assert.True(t, recorder.Ran("dnf install -y dnf-plugins-core"))
	assert.True(t, recorder.Ran("dnf config-manager --add-repo https://download.docker.com/linux/centos/docker-ce.repo"))
	assert.True(t, recorder.Ran("dnf install -y docker-ce docker-ce-cli containerd.io docker-buildx-plugin docker-compose-plugin container-selinux"))
	assert.True(t, recorder.Ran("systemctl enable --now docker"))

	_, err = os.Stat(sudoersPath)
	assert.NoError(t, err)
}

func TestProvision_YumFlow(t *testing.T) {
	recorder := &sysexec.Recorder{LookPathFunc: lookPathFor("yum")}
	b, _, _ := newTestBootstrapper(t, recorder)

	err := b.Provision(context.Background())
	require.NoError(t, err)

	assert.True(t, recorder.Ran("yum install -y yum-utils"))
	assert.True(t, recorder.Ran("yum-config-manager --add-repo https://download.docker.com/linux/centos/docker-ce.repo"))
	assert.True(t, recorder.Ran("yum install -y docker-ce docker-ce-cli containerd.io docker-buildx-plugin docker-compose-plugin container-selinux"))
}

func TestProvision_UnsupportedEnvironment(t *testing.T) {
	recorder := &sysexec.Recorder{LookPathFunc: lookPathFor()}
	b, sudoersPath, _ := newTestBootstrapper(t, recorder)

	err := b.Provision(context.Background())

	assert.ErrorIs(t, err, pkgmgr.ErrUnsupported)
	assert.Empty(t, recorder.Calls, "no commands may run on an unsupported host")
	_, statErr := os.Stat(sudoersPath)
	assert.True(t, os.IsNotExist(statErr), "no sudoers drop-in may be written")
}

func TestProvision_AbortsOnFirstFailure(t *testing.T) {
	recorder := &sysexec.Recorder{
		LookPathFunc: lookPathFor("dnf"),
		RunFunc:      sysexec.FailOn("systemctl"),
	}
	b, sudoersPath, _ := newTestBootstrapper(t, recorder)

	err := b.Provision(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "systemctl enable --now docker failed")
	_, statErr := os.Stat(sudoersPath)
	assert.True(t, os.IsNotExist(statErr), "steps after the failure must not run")
}

func TestProvision_ReportsProgress(t *testing.T) {
	recorder := &sysexec.Recorder{LookPathFunc: lookPathFor("apt")}
	sudoersPath := filepath.Join(t.TempDir(), "act_runner")

	var stages []provision.Stage
	b := New(recorder, Options{
		SudoersPath: sudoersPath,
		Out:         &bytes.Buffer{},
		LookupEnv:   func(string) string { return "" },
		Progress: func(event provision.Event) {
			stages = append(stages, event.Stage)
			assert.NotEmpty(t, event.RunID)
		},
	})

	err := b.Provision(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []provision.Stage{
		provision.StageDetecting,
		provision.StageRepository,
		provision.StageInstalling,
		provision.StageService,
		provision.StageSudoers,
		provision.StageComplete,
	}, stages)
}

func TestSudoersContent(t *testing.T) {
	content := SudoersContent("act_runner")

	assert.Equal(t,
		"act_runner ALL=(ALL) NOPASSWD: /usr/bin/mkdir, /usr/bin/cp, /usr/bin/chcon, /usr/local/bin/docker-compose, /usr/bin/docker, /usr/bin/rm, /usr/bin/chmod\n",
		content)
}

func TestWriteSudoers_Mode(t *testing.T) {
	recorder := &sysexec.Recorder{LookPathFunc: lookPathFor("apt")}
	b, sudoersPath, _ := newTestBootstrapper(t, recorder)

	err := b.Provision(context.Background())
	require.NoError(t, err)

	info, err := os.Stat(sudoersPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o440), info.Mode().Perm())
}

// containsAll reports whether s contains every substring.
func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !bytes.Contains([]byte(s), []byte(sub)) {
			return false
		}
	}
	return true
}
