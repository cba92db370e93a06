// Package distro identifies the target distribution and architecture for
// container-image provisioning.
package distro

import (
	"strings"

	"github.com/hilsamlabs/hostprep/pkg/sysexec"
)

// ID is a distribution/version tag, as passed in the DISTRO build argument.
type ID string

const (
	Fedora42 ID = "fedora-42"
	Fedora41 ID = "fedora-41"
	Rocky9   ID = "rockylinux-9"
	Alma9    ID = "almalinux-9"
	Rocky8   ID = "rockylinux-8"
	Alma8    ID = "almalinux-8"
	// Unknown covers every identifier outside the supported enumeration.
	// It is not an error: unknown distributions take the legacy repo path.
	Unknown ID = ""
)

// known is the closed set of identifiers with non-legacy behavior.
var known = map[ID]bool{
	Fedora42: true,
	Fedora41: true,
	Rocky9:   true,
	Alma9:    true,
	Rocky8:   true,
	Alma8:    true,
}

// Parse maps a raw DISTRO value onto the enumeration. Unrecognized values
// map to Unknown.
func Parse(raw string) ID {
	id := ID(strings.TrimSpace(raw))
	if known[id] {
		return id
	}
	return Unknown
}

// FromEnv reads the DISTRO variable through the given lookup.
func FromEnv(getenv func(string) string) ID {
	return Parse(getenv("DISTRO"))
}

// RepoBranch selects how the package repository gets registered. Every ID
// maps to exactly one branch.
type RepoBranch int

const (
	// BranchAddRepoFile uses the config-manager addrepo subcommand syntax.
	BranchAddRepoFile RepoBranch = iota
	// BranchConfigManager uses the standard config-manager add-repo syntax.
	BranchConfigManager
	// BranchLegacy uses yum-config-manager.
	BranchLegacy
)

// String returns the branch name for messages.
func (b RepoBranch) String() string {
	switch b {
	case BranchAddRepoFile:
		return "addrepo"
	case BranchConfigManager:
		return "config-manager"
	default:
		return "legacy"
	}
}

// RepoBranch returns the repository registration branch for the ID.
func (id ID) RepoBranch() RepoBranch {
	switch id {
	case Fedora42:
		return BranchAddRepoFile
	case Fedora41, Rocky9, Alma9, Rocky8, Alma8:
		return BranchConfigManager
	default:
		return BranchLegacy
	}
}

// IsEL9 reports whether the ID belongs to the Enterprise-Linux 9 family,
// which needs the SHA-1 crypto-policy workaround.
func (id ID) IsEL9() bool {
	return id == Rocky9 || id == Alma9
}

// Arch queries the machine architecture via uname.
func Arch(executor sysexec.Executor) (string, error) {
	out, err := executor.Run("uname", "-m")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// IsARM64 reports whether the architecture is the 64-bit ARM variant.
func IsARM64(arch string) bool {
	return arch == "aarch64" || arch == "arm64"
}
