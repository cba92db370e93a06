// Package doctor provides host-readiness checking for hostprep.
package doctor

// CheckStatus represents the status of a readiness check.
type CheckStatus int

const (
	// StatusOK indicates the component is installed and working.
	StatusOK CheckStatus = iota
	// StatusMissing indicates the component is not installed.
	StatusMissing
	// StatusError indicates an error occurred during the check.
	StatusError
	// StatusWarning indicates the component has issues but may work.
	StatusWarning
)

// String returns the string representation of the status.
func (s CheckStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMissing:
		return "missing"
	case StatusError:
		return "error"
	case StatusWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Check represents a single readiness check result.
type Check struct {
	ID          string      // Unique identifier, e.g., "docker", "compose"
	Name        string      // Display name
	Description string      // What this component does
	Status      CheckStatus // Current status
	Message     string      // Status message (version info, error, etc.)
	FixCommand  *FixCommand // How to fix if missing (nil if not fixable)
}

// FixCommand describes how to fix a missing component.
type FixCommand struct {
	Description string // Human-readable description of what the fix does
	Command     string // Shell command to run
	Sudo        bool   // Whether the command requires sudo
}

// CheckGroup represents a group of related readiness checks.
type CheckGroup struct {
	ID          string  // Unique identifier, e.g., "host", "editor"
	Name        string  // Display name
	Description string  // What this group is for
	Checks      []Check // Individual checks in this group
}

// GroupID constants for check groups.
const (
	GroupHost   = "host"
	GroupEditor = "editor"
)

// CheckID constants for individual checks.
const (
	IDPkgManager    = "pkg-manager"
	IDDocker        = "docker"
	IDCompose       = "compose"
	IDContainerd    = "containerd"
	IDDockerService = "docker-service"
	IDSudoers       = "sudoers"
	IDCryptoPolicy  = "crypto-policies"
	IDSublime       = "sublime-text"
)
