// Package sublime installs the Sublime Text editor into RPM-family
// container images and places a desktop shortcut for a fixed user.
package sublime

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hilsamlabs/hostprep/pkg/distro"
	"github.com/hilsamlabs/hostprep/pkg/provision"
	"github.com/hilsamlabs/hostprep/pkg/sysexec"
)

const (
	signingKeyURL   = "https://download.sublimetext.com/sublimehq-rsa-pub.gpg"
	repoFileURL     = "https://download.sublimetext.com/rpm/stable/x86_64/sublime-text.repo"
	defaultRepoPath = "/etc/yum.repos.d/sublime-text.repo"
	packageName     = "sublime-text"
)

// EnvSkipClean skips the package cache cleanup when set. Presence is what
// matters; the value is ignored.
const EnvSkipClean = "SKIP_CLEAN"

// Shortcut describes the desktop-entry placement for the fixed user.
type Shortcut struct {
	SourcePath string // desktop entry shipped with the package
	DesktopDir string // target Desktop directory
	UID        int    // numeric owner
	GID        int    // numeric group
}

// DefaultShortcut is the placement the image build assumes: the user,
// home layout, and Desktop directory already exist.
func DefaultShortcut() Shortcut {
	return Shortcut{
		SourcePath: "/opt/sublime_text/sublime_text.desktop",
		DesktopDir: "/home/user/Desktop",
		UID:        1000,
		GID:        1000,
	}
}

// Options configures an Installer.
type Options struct {
	RepoPath  string                 // repo definition path, default /etc/yum.repos.d/sublime-text.repo
	Shortcut  Shortcut               // zero value means DefaultShortcut
	Out       io.Writer              // command output and operator messages
	Progress  provision.ProgressFunc // optional progress callback
	LookupEnv func(string) (string, bool)
}

// Installer performs the editor installation sequence.
type Installer struct {
	runner *sysexec.Runner
	opts   Options
	runID  string
}

// New creates an Installer. Zero-value options get script defaults.
func New(executor sysexec.Executor, opts Options) *Installer {
	if opts.RepoPath == "" {
		opts.RepoPath = defaultRepoPath
	}
	if opts.Shortcut == (Shortcut{}) {
		opts.Shortcut = DefaultShortcut()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}
	return &Installer{
		runner: sysexec.NewRunner(executor, opts.Out),
		opts:   opts,
		runID:  provision.NewRunID(),
	}
}

// RunID identifies this provisioning run in progress events.
func (i *Installer) RunID() string {
	return i.runID
}

// Install runs the full sequence: architecture gate, crypto-policy
// workaround on EL9, key import, repository registration, package install,
// optional cache cleanup, and shortcut placement. The first failing command
// aborts the run; the policy guard is the only cleanup that still fires.
func (i *Installer) Install(ctx context.Context) (err error) {
	i.report(provision.StageDetecting, "querying architecture and distribution")

	arch, archErr := distro.Arch(i.runner.Executor())
	if archErr != nil {
		i.fail(provision.StageDetecting, archErr)
		return archErr
	}
	if distro.IsARM64(arch) {
		// Sublime Text ships no aarch64 RPM; skipping is not an error.
		fmt.Fprintf(i.opts.Out, "Architecture %s is not supported, skipping install.\n", arch)
		return nil
	}

	id := distro.FromEnv(i.getenv)

	if id.IsEL9() {
		i.report(provision.StagePolicy, "permitting SHA-1 digests during install")
		guard, guardErr := EnsureSHA1(ctx, i.runner)
		if guardErr != nil {
			i.fail(provision.StagePolicy, guardErr)
			return guardErr
		}
		if guard != nil {
			defer func() {
				if restoreErr := guard.Restore(ctx); restoreErr != nil {
					fmt.Fprintf(i.opts.Out, "Warning: failed to restore crypto policy %q: %v\n",
						guard.Original(), restoreErr)
					if err == nil {
						err = restoreErr
					}
				}
			}()
		}
	}

	i.report(provision.StageKeyImport, "importing Sublime HQ signing key")
	if err := i.runner.Run(ctx, "rpm", "--import", signingKeyURL); err != nil {
		i.fail(provision.StageKeyImport, err)
		return err
	}

	i.report(provision.StageRepository, "registering sublime-text repository")
	if err := i.registerRepo(ctx, id); err != nil {
		i.fail(provision.StageRepository, err)
		return err
	}
	if err := i.stripRepoKeyLine(); err != nil {
		i.fail(provision.StageRepository, err)
		return err
	}

	i.report(provision.StageInstalling, "installing "+packageName)
	tool := i.installTool(id)
	if err := i.runner.Run(ctx, tool, "install", "-y", packageName); err != nil {
		i.fail(provision.StageInstalling, err)
		return err
	}

	if _, skip := i.opts.LookupEnv(EnvSkipClean); skip {
		fmt.Fprintln(i.opts.Out, "SKIP_CLEAN set, leaving package caches in place.")
	} else {
		i.report(provision.StageCleanup, "cleaning package caches")
		if err := i.runner.Run(ctx, tool, "clean", "all"); err != nil {
			i.fail(provision.StageCleanup, err)
			return err
		}
	}

	i.report(provision.StageShortcut, "placing desktop shortcut")
	if err := i.placeShortcut(ctx); err != nil {
		i.fail(provision.StageShortcut, err)
		return err
	}

	i.report(provision.StageComplete, "editor install complete")
	return nil
}

// installTool returns the package tool for the distribution: yum on the
// legacy branch, dnf everywhere else.
func (i *Installer) installTool(id distro.ID) string {
	if id.RepoBranch() == distro.BranchLegacy {
		return "yum"
	}
	return "dnf"
}

// placeShortcut copies the desktop entry to the fixed user's Desktop,
// marks it executable, and sets the fixed numeric ownership. The user and
// directory are assumed to exist already.
func (i *Installer) placeShortcut(ctx context.Context) error {
	s := i.opts.Shortcut
	target := s.DesktopDir + "/sublime_text.desktop"
	if err := i.runner.Run(ctx, "cp", s.SourcePath, target); err != nil {
		return err
	}
	if err := i.runner.Run(ctx, "chmod", "0755", target); err != nil {
		return err
	}
	return i.runner.Run(ctx, "chown", fmt.Sprintf("%d:%d", s.UID, s.GID), target)
}

func (i *Installer) getenv(key string) string {
	value, _ := i.opts.LookupEnv(key)
	return value
}

func (i *Installer) report(stage provision.Stage, message string) {
	if i.opts.Progress != nil {
		i.opts.Progress(provision.NewEvent(i.runID, stage, message))
	}
}

func (i *Installer) fail(stage provision.Stage, err error) {
	if i.opts.Progress != nil {
		event := provision.NewEvent(i.runID, stage, err.Error())
		event.Err = err
		i.opts.Progress(event)
	}
}
