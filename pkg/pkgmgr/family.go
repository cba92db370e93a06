// Package pkgmgr detects the host's package manager family.
package pkgmgr

import (
	"errors"

	"github.com/hilsamlabs/hostprep/pkg/sysexec"
)

// ErrUnsupported is returned when no recognized package manager exists.
var ErrUnsupported = errors.New("unsupported environment: no apt, dnf, or yum found")

// Family identifies the package manager family of the host. It is chosen
// once per run and never changes afterwards.
type Family int

const (
	// FamilyUnsupported means no recognized package manager was found.
	FamilyUnsupported Family = iota
	// FamilyApt covers Debian/Ubuntu hosts using apt.
	FamilyApt
	// FamilyDnf covers modern Fedora/RHEL-family hosts using dnf.
	FamilyDnf
	// FamilyYum covers legacy RHEL-family hosts using yum.
	FamilyYum
)

// String returns the tool name probed for this family.
func (f Family) String() string {
	switch f {
	case FamilyApt:
		return "apt"
	case FamilyDnf:
		return "dnf"
	case FamilyYum:
		return "yum"
	default:
		return "unsupported"
	}
}

// Tool returns the command used for install operations.
func (f Family) Tool() string {
	switch f {
	case FamilyApt:
		return "apt-get"
	case FamilyDnf:
		return "dnf"
	case FamilyYum:
		return "yum"
	default:
		return ""
	}
}

// IsRPM reports whether the family uses RPM repositories.
func (f Family) IsRPM() bool {
	return f == FamilyDnf || f == FamilyYum
}

// InstallArgs returns the argv (after the tool name) to install packages.
func (f Family) InstallArgs(packages ...string) []string {
	return append([]string{"install", "-y"}, packages...)
}

// Detect probes for package managers in preference order: apt first, then
// dnf, then yum. Returns ErrUnsupported when none exists.
func Detect(executor sysexec.Executor) (Family, error) {
	for _, probe := range []struct {
		tool   string
		family Family
	}{
		{"apt", FamilyApt},
		{"dnf", FamilyDnf},
		{"yum", FamilyYum},
	} {
		if _, err := executor.LookPath(probe.tool); err == nil {
			return probe.family, nil
		}
	}
	return FamilyUnsupported, ErrUnsupported
}
