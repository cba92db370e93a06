package doctor

import (
	"regexp"
	"strings"

	"github.com/hilsamlabs/hostprep/pkg/pkgmgr"
	"github.com/hilsamlabs/hostprep/pkg/sysexec"
)

// checkTool checks if a tool is installed and gets its version.
func checkTool(executor sysexec.Executor, id, name, desc string, versionArgs []string, versionRegex *regexp.Regexp, fixCmd *FixCommand) Check {
	check := Check{
		ID:          id,
		Name:        name,
		Description: desc,
		FixCommand:  fixCmd,
	}

	path, err := executor.LookPath(id)
	if err != nil {
		check.Status = StatusMissing
		check.Message = "not installed"
		return check
	}

	output, err := executor.Run(path, versionArgs...)
	if err != nil {
		// Tool exists but version check failed - still consider it OK
		check.Status = StatusOK
		check.Message = "installed (version unknown)"
		return check
	}

	version := extractVersion(output, versionRegex)
	if version != "" {
		check.Status = StatusOK
		check.Message = version
	} else {
		check.Status = StatusOK
		check.Message = "installed"
	}

	return check
}

// extractVersion extracts version string from command output.
func extractVersion(output string, regex *regexp.Regexp) string {
	if regex == nil {
		defaultRegex := regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?(?:-[a-zA-Z0-9]+)?)`)
		matches := defaultRegex.FindStringSubmatch(output)
		if len(matches) >= 2 {
			return matches[1]
		}
		return ""
	}

	matches := regex.FindStringSubmatch(output)
	if len(matches) >= 2 {
		return matches[1]
	}
	return ""
}

// CheckPkgManager reports which package manager family the host has.
func CheckPkgManager(executor sysexec.Executor) Check {
	check := Check{
		ID:          IDPkgManager,
		Name:        "Package Manager",
		Description: "APT or DNF/YUM family",
	}

	family, err := pkgmgr.Detect(executor)
	if err != nil {
		check.Status = StatusError
		check.Message = err.Error()
		return check
	}

	check.Status = StatusOK
	check.Message = family.String()
	return check
}

// CheckDocker checks if the docker CLI is installed.
func CheckDocker(executor sysexec.Executor) Check {
	return checkTool(
		executor,
		IDDocker,
		"Docker",
		"Container engine CLI",
		[]string{"--version"},
		regexp.MustCompile(`Docker version (\d+\.\d+\.\d+)`),
		GetFixCommand(IDDocker),
	)
}

// CheckCompose checks if the docker compose plugin responds.
func CheckCompose(executor sysexec.Executor) Check {
	check := Check{
		ID:          IDCompose,
		Name:        "Compose Plugin",
		Description: "Multi-container orchestration plugin",
		FixCommand:  GetFixCommand(IDCompose),
	}

	output, err := executor.Run("docker", "compose", "version")
	if err != nil {
		check.Status = StatusMissing
		check.Message = "not installed"
		return check
	}

	version := extractVersion(output, regexp.MustCompile(`v(\d+\.\d+\.\d+)`))
	if version != "" {
		check.Status = StatusOK
		check.Message = version
	} else {
		check.Status = StatusOK
		check.Message = "installed"
	}

	return check
}

// CheckContainerd checks if containerd is installed.
func CheckContainerd(executor sysexec.Executor) Check {
	return checkTool(
		executor,
		IDContainerd,
		"containerd",
		"Container runtime",
		[]string{"--version"},
		regexp.MustCompile(`containerd.* v?(\d+\.\d+\.\d+)`),
		GetFixCommand(IDContainerd),
	)
}

// CheckDockerService checks that docker.service is active.
func CheckDockerService(executor sysexec.Executor) Check {
	check := Check{
		ID:          IDDockerService,
		Name:        "Docker Service",
		Description: "Boot-enabled Docker daemon",
		FixCommand:  GetFixCommand(IDDockerService),
	}

	output, err := executor.Run("systemctl", "is-active", "docker")
	if err != nil || !strings.Contains(strings.TrimSpace(output), "active") {
		check.Status = StatusWarning
		check.Message = "service not running"
		return check
	}

	check.Status = StatusOK
	check.Message = "running"
	return check
}

// CheckSudoers checks that the automation account's drop-in exists.
func CheckSudoers(executor sysexec.Executor, path string) Check {
	check := Check{
		ID:          IDSudoers,
		Name:        "Sudoers Drop-In",
		Description: "Command allowlist for the CI runner account",
		FixCommand:  GetFixCommand(IDSudoers),
	}

	if path == "" {
		path = "/etc/sudoers.d/act_runner"
	}

	if executor.FileExists(path) {
		check.Status = StatusOK
		check.Message = path
	} else {
		check.Status = StatusMissing
		check.Message = "no drop-in at " + path
	}

	return check
}

// CheckCryptoPolicy reports the system-wide crypto policy, if the tool
// exists. Absence is a warning: only EL9-family images need it.
func CheckCryptoPolicy(executor sysexec.Executor) Check {
	check := Check{
		ID:          IDCryptoPolicy,
		Name:        "Crypto Policies",
		Description: "System-wide crypto policy tooling",
		FixCommand:  GetFixCommand(IDCryptoPolicy),
	}

	if _, err := executor.LookPath("update-crypto-policies"); err != nil {
		check.Status = StatusWarning
		check.Message = "update-crypto-policies not found"
		return check
	}

	output, err := executor.Run("update-crypto-policies", "--show")
	if err != nil {
		check.Status = StatusWarning
		check.Message = "installed (policy unknown)"
		return check
	}

	check.Status = StatusOK
	check.Message = strings.TrimSpace(output)
	return check
}

// CheckSublime checks if Sublime Text is installed.
func CheckSublime(executor sysexec.Executor) Check {
	check := Check{
		ID:          IDSublime,
		Name:        "Sublime Text",
		Description: "Desktop editor package",
		FixCommand:  GetFixCommand(IDSublime),
	}

	if executor.FileExists("/opt/sublime_text/sublime_text") {
		check.Status = StatusOK
		check.Message = "/opt/sublime_text/sublime_text"
		return check
	}

	if _, err := executor.LookPath("subl"); err == nil {
		check.Status = StatusOK
		check.Message = "installed"
		return check
	}

	check.Status = StatusMissing
	check.Message = "not installed"
	return check
}
