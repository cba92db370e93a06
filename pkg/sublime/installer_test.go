package sublime

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hilsamlabs/hostprep/pkg/sysexec"
)

// respond builds a RunFunc answering by command-line prefix, with optional
// failing prefixes.
func respond(responses map[string]string, failPrefixes ...string) func(name string, args ...string) (string, error) {
	fail := sysexec.FailOn(failPrefixes...)
	return func(name string, args ...string) (string, error) {
		if _, err := fail(name, args...); err != nil {
			return "", err
		}
		line := sysexec.CommandLine(name, args...)
		for prefix, out := range responses {
			if line == prefix || strings.HasPrefix(line, prefix+" ") {
				return out, nil
			}
		}
		return "", nil
	}
}

func newTestInstaller(t *testing.T, recorder *sysexec.Recorder, env map[string]string) (*Installer, string) {
	t.Helper()
	repoPath := filepath.Join(t.TempDir(), "sublime-text.repo")
	installer := New(recorder, Options{
		RepoPath: repoPath,
		Out:      &bytes.Buffer{},
		LookupEnv: func(key string) (string, bool) {
			value, ok := env[key]
			return value, ok
		},
	})
	return installer, repoPath
}

func TestInstall_ARM64ExitsCleanly(t *testing.T) {
	recorder := &sysexec.Recorder{
		RunFunc: respond(map[string]string{"uname -m": "aarch64\n"}),
	}
	installer, repoPath := newTestInstaller(t, recorder, map[string]string{"DISTRO": "rockylinux-9"})

	err := installer.Install(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"uname -m"}, recorder.Calls, "nothing may run after the architecture gate")
	_, statErr := os.Stat(repoPath)
	assert.True(t, os.IsNotExist(statErr), "no repo file may be written")
}

func TestInstall_EL9AppliesAndRestoresPolicy(t *testing.T) {
	recorder := &sysexec.Recorder{
		RunFunc: respond(map[string]string{
			"uname -m":                      "x86_64\n",
			"update-crypto-policies --show": "DEFAULT\n",
		}),
	}
	installer, _ := newTestInstaller(t, recorder, map[string]string{"DISTRO": "rockylinux-9"})

	err := installer.Install(context.Background())
	require.NoError(t, err)

	assert.True(t, recorder.Ran("update-crypto-policies --set DEFAULT:SHA1"))
	// Restoration runs last, after every install step
	assert.Equal(t, "update-crypto-policies --set DEFAULT", recorder.Calls[len(recorder.Calls)-1])
}

func TestInstall_EL9PolicyAlreadyPermitsSHA1(t *testing.T) {
	recorder := &sysexec.Recorder{
		RunFunc: respond(map[string]string{
			"uname -m":                      "x86_64\n",
			"update-crypto-policies --show": "DEFAULT:SHA1\n",
		}),
	}
	installer, _ := newTestInstaller(t, recorder, map[string]string{"DISTRO": "almalinux-9"})

	err := installer.Install(context.Background())
	require.NoError(t, err)

	for _, call := range recorder.Calls {
		assert.NotContains(t, call, "update-crypto-policies --set",
			"no policy change and no restoration when SHA-1 is already permitted")
	}
}

func TestInstall_EL9RestoresPolicyOnFailure(t *testing.T) {
	recorder := &sysexec.Recorder{
		RunFunc: respond(map[string]string{
			"uname -m":                      "x86_64\n",
			"update-crypto-policies --show": "DEFAULT\n",
		}, "dnf install"),
	}
	installer, _ := newTestInstaller(t, recorder, map[string]string{"DISTRO": "rockylinux-9"})

	err := installer.Install(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "dnf install -y sublime-text failed")
	assert.Equal(t, "update-crypto-policies --set DEFAULT", recorder.Calls[len(recorder.Calls)-1],
		"the captured policy must be restored even when the install fails")
}

func TestInstall_NonEL9SkipsPolicy(t *testing.T) {
	recorder := &sysexec.Recorder{
		RunFunc: respond(map[string]string{"uname -m": "x86_64\n"}),
	}
	installer, _ := newTestInstaller(t, recorder, map[string]string{"DISTRO": "fedora-41"})

	err := installer.Install(context.Background())
	require.NoError(t, err)

	for _, call := range recorder.Calls {
		assert.NotContains(t, call, "update-crypto-policies")
	}
}

func TestInstall_RepoBranches(t *testing.T) {
	tests := []struct {
		distro  string
		command string
	}{
		{
			distro:  "fedora-42",
			command: "dnf config-manager addrepo --from-repofile=https://download.sublimetext.com/rpm/stable/x86_64/sublime-text.repo",
		},
		{
			distro:  "fedora-41",
			command: "dnf config-manager --add-repo https://download.sublimetext.com/rpm/stable/x86_64/sublime-text.repo",
		},
		{
			distro:  "rockylinux-8",
			command: "dnf config-manager --add-repo https://download.sublimetext.com/rpm/stable/x86_64/sublime-text.repo",
		},
		{
			distro:  "centos-7",
			command: "yum-config-manager --add-repo https://download.sublimetext.com/rpm/stable/x86_64/sublime-text.repo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.distro, func(t *testing.T) {
			recorder := &sysexec.Recorder{
				RunFunc: respond(map[string]string{"uname -m": "x86_64\n"}),
			}
			installer, _ := newTestInstaller(t, recorder, map[string]string{"DISTRO": tt.distro})

			err := installer.Install(context.Background())
			require.NoError(t, err)

			var registrations int
			for _, call := range recorder.Calls {
				if strings.Contains(call, "config-manager") {
					registrations++
					assert.Equal(t, tt.command, call)
				}
			}
			assert.Equal(t, 1, registrations, "exactly one registration branch may run")
		})
	}
}

func TestInstall_LegacyUsesYum(t *testing.T) {
	recorder := &sysexec.Recorder{
		RunFunc: respond(map[string]string{"uname -m": "x86_64\n"}),
	}
	installer, _ := newTestInstaller(t, recorder, map[string]string{"DISTRO": "centos-7"})

	err := installer.Install(context.Background())
	require.NoError(t, err)

	assert.True(t, recorder.Ran("yum install -y sublime-text"))
	assert.True(t, recorder.Ran("yum clean all"))
	assert.False(t, recorder.Ran("dnf install"))
}

func TestInstall_KeyImport(t *testing.T) {
	recorder := &sysexec.Recorder{
		RunFunc: respond(map[string]string{"uname -m": "x86_64\n"}),
	}
	installer, _ := newTestInstaller(t, recorder, map[string]string{"DISTRO": "fedora-41"})

	err := installer.Install(context.Background())
	require.NoError(t, err)

	assert.True(t, recorder.Ran("rpm --import https://download.sublimetext.com/sublimehq-rsa-pub.gpg"))
}

func TestInstall_SkipClean(t *testing.T) {
	env := map[string]string{
		"DISTRO": "fedora-41",
		// Presence is what matters, not the value
		"SKIP_CLEAN": "",
	}
	recorder := &sysexec.Recorder{
		RunFunc: respond(map[string]string{"uname -m": "x86_64\n"}),
	}
	installer, _ := newTestInstaller(t, recorder, env)

	err := installer.Install(context.Background())
	require.NoError(t, err)

	assert.False(t, recorder.Ran("dnf clean all"))
}

func TestInstall_CleansByDefault(t *testing.T) {
	recorder := &sysexec.Recorder{
		RunFunc: respond(map[string]string{"uname -m": "x86_64\n"}),
	}
	installer, _ := newTestInstaller(t, recorder, map[string]string{"DISTRO": "fedora-41"})

	err := installer.Install(context.Background())
	require.NoError(t, err)

	assert.True(t, recorder.Ran("dnf clean all"))
}

func TestInstall_PlacesShortcut(t *testing.T) {
	recorder := &sysexec.Recorder{
		RunFunc: respond(map[string]string{"uname -m": "x86_64\n"}),
	}
	repoPath := filepath.Join(t.TempDir(), "sublime-text.repo")
	installer := New(recorder, Options{
		RepoPath: repoPath,
		Out:      &bytes.Buffer{},
		Shortcut: Shortcut{
			SourcePath: "/opt/sublime_text/sublime_text.desktop",
			DesktopDir: "/home/dev/Desktop",
			UID:        1001,
			GID:        1001,
		},
		LookupEnv: func(string) (string, bool) { return "", false },
	})

	err := installer.Install(context.Background())
	require.NoError(t, err)

	assert.True(t, recorder.Ran("cp /opt/sublime_text/sublime_text.desktop /home/dev/Desktop/sublime_text.desktop"))
	assert.True(t, recorder.Ran("chmod 0755 /home/dev/Desktop/sublime_text.desktop"))
	assert.True(t, recorder.Ran("chown 1001:1001 /home/dev/Desktop/sublime_text.desktop"))
}
