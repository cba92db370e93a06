// Package dockerhost provisions a Linux host to run CI runner workloads
// under Docker.
package dockerhost

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hilsamlabs/hostprep/pkg/pkgmgr"
	"github.com/hilsamlabs/hostprep/pkg/provision"
	"github.com/hilsamlabs/hostprep/pkg/sysexec"
)

const (
	aptKeyringDir  = "/etc/apt/keyrings"
	aptKeyringPath = "/etc/apt/keyrings/docker.gpg"
	aptKeyURL      = "https://download.docker.com/linux/ubuntu/gpg"
	aptSourcePath  = "/etc/apt/sources.list.d/docker.list"
	rpmRepoURL     = "https://download.docker.com/linux/centos/docker-ce.repo"
)

// enginePackages is the Docker engine, CLI, containerd, and the buildx and
// compose plugins, installed on every family.
var enginePackages = []string{
	"docker-ce",
	"docker-ce-cli",
	"containerd.io",
	"docker-buildx-plugin",
	"docker-compose-plugin",
}

// LoginPrompter collects a registry URL and username from the operator.
type LoginPrompter func() (url, username string, err error)

// Options configures a Bootstrapper.
type Options struct {
	RunnerAccount string                 // automation account for the sudoers drop-in
	SudoersPath   string                 // drop-in path, default /etc/sudoers.d/act_runner
	Out           io.Writer              // command output and operator messages
	Progress      provision.ProgressFunc // optional progress callback
	LookupEnv     func(string) string    // environment seam, default os.Getenv
	Prompt        LoginPrompter          // registry login prompt, nil disables the prompt
}

// Bootstrapper provisions the Docker engine, a constrained sudoers entry,
// and optionally an authenticated registry session.
type Bootstrapper struct {
	runner *sysexec.Runner
	opts   Options
	runID  string
}

// New creates a Bootstrapper. Zero-value options get script defaults.
func New(executor sysexec.Executor, opts Options) *Bootstrapper {
	if opts.RunnerAccount == "" {
		opts.RunnerAccount = "act_runner"
	}
	if opts.SudoersPath == "" {
		opts.SudoersPath = "/etc/sudoers.d/" + opts.RunnerAccount
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.Getenv
	}
	return &Bootstrapper{
		runner: sysexec.NewRunner(executor, opts.Out),
		opts:   opts,
		runID:  provision.NewRunID(),
	}
}

// RunID identifies this provisioning run in progress events.
func (b *Bootstrapper) RunID() string {
	return b.runID
}

// Provision detects the package manager family, installs the Docker engine
// and compose plugin, enables the service, and writes the sudoers drop-in.
// The first failing command aborts the run; there are no retries and no
// rollback. Registry login is a separate step, see RegistryLogin.
func (b *Bootstrapper) Provision(ctx context.Context) error {
	b.report(provision.StageDetecting, "probing for package manager")

	family, err := pkgmgr.Detect(b.runner.Executor())
	if err != nil {
		b.fail(provision.StageDetecting, err)
		return err
	}
	fmt.Fprintf(b.opts.Out, "Detected package manager: %s\n", family)

	b.report(provision.StageRepository, "registering Docker repository")
	switch family {
	case pkgmgr.FamilyApt:
		err = b.setupAptRepo(ctx)
	default:
		err = b.setupRPMRepo(ctx, family)
	}
	if err != nil {
		b.fail(provision.StageRepository, err)
		return err
	}

	b.report(provision.StageInstalling, "installing Docker engine and compose plugin")
	packages := enginePackages
	if family.IsRPM() {
		// SELinux integration ships separately on Enterprise Linux
		packages = append(append([]string{}, packages...), "container-selinux")
	}
	if err := b.runner.Run(ctx, family.Tool(), family.InstallArgs(packages...)...); err != nil {
		b.fail(provision.StageInstalling, err)
		return err
	}

	b.report(provision.StageService, "starting and enabling docker.service")
	if err := b.runner.Run(ctx, "systemctl", "enable", "--now", "docker"); err != nil {
		b.fail(provision.StageService, err)
		return err
	}

	b.report(provision.StageSudoers, "writing sudoers drop-in for "+b.opts.RunnerAccount)
	if err := b.writeSudoers(); err != nil {
		b.fail(provision.StageSudoers, err)
		return err
	}

	b.report(provision.StageComplete, "host provisioning complete")
	return nil
}

// setupAptRepo registers Docker's APT signing key and repository.
func (b *Bootstrapper) setupAptRepo(ctx context.Context) error {
	if err := b.runner.Run(ctx, "apt-get", "update"); err != nil {
		return err
	}
	if err := b.runner.Run(ctx, "apt-get", "install", "-y", "ca-certificates", "curl", "gnupg"); err != nil {
		return err
	}
	if err := b.runner.Run(ctx, "install", "-m", "0755", "-d", aptKeyringDir); err != nil {
		return err
	}
	dearmor := fmt.Sprintf("curl -fsSL %s | gpg --dearmor -o %s", aptKeyURL, aptKeyringPath)
	if err := b.runner.RunShell(ctx, dearmor); err != nil {
		return err
	}
	if err := b.runner.Run(ctx, "chmod", "a+r", aptKeyringPath); err != nil {
		return err
	}
	source := fmt.Sprintf(
		`echo "deb [arch=$(dpkg --print-architecture) signed-by=%s] https://download.docker.com/linux/ubuntu $(. /etc/os-release && echo $VERSION_CODENAME) stable" > %s`,
		aptKeyringPath, aptSourcePath)
	if err := b.runner.RunShell(ctx, source); err != nil {
		return err
	}
	return b.runner.Run(ctx, "apt-get", "update")
}

// setupRPMRepo installs the repo-management plugin and registers Docker's
// vendor repo file.
func (b *Bootstrapper) setupRPMRepo(ctx context.Context, family pkgmgr.Family) error {
	switch family {
	case pkgmgr.FamilyDnf:
		if err := b.runner.Run(ctx, "dnf", "install", "-y", "dnf-plugins-core"); err != nil {
			return err
		}
		return b.runner.Run(ctx, "dnf", "config-manager", "--add-repo", rpmRepoURL)
	default:
		if err := b.runner.Run(ctx, "yum", "install", "-y", "yum-utils"); err != nil {
			return err
		}
		return b.runner.Run(ctx, "yum-config-manager", "--add-repo", rpmRepoURL)
	}
}

func (b *Bootstrapper) report(stage provision.Stage, message string) {
	if b.opts.Progress != nil {
		b.opts.Progress(provision.NewEvent(b.runID, stage, message))
	}
}

func (b *Bootstrapper) fail(stage provision.Stage, err error) {
	if b.opts.Progress != nil {
		event := provision.NewEvent(b.runID, stage, err.Error())
		event.Err = err
		b.opts.Progress(event)
	}
}
