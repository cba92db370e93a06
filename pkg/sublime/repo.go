package sublime

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hilsamlabs/hostprep/pkg/distro"
)

// registerRepo registers the sublime-text repository using the syntax the
// distribution supports. Each ID maps to exactly one branch.
func (i *Installer) registerRepo(ctx context.Context, id distro.ID) error {
	switch id.RepoBranch() {
	case distro.BranchAddRepoFile:
		return i.runner.Run(ctx, "dnf", "config-manager", "addrepo",
			"--from-repofile="+repoFileURL)
	case distro.BranchConfigManager:
		return i.runner.Run(ctx, "dnf", "config-manager", "--add-repo", repoFileURL)
	default:
		return i.runner.Run(ctx, "yum-config-manager", "--add-repo", repoFileURL)
	}
}

// stripRepoKeyLine deletes the gpgkey reference from the generated repo
// definition, since the key was already imported via rpm. A repo file
// without the line is left untouched; a missing file is a no-op.
func (i *Installer) stripRepoKeyLine() error {
	data, err := os.ReadFile(i.opts.RepoPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read repo definition: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	kept := lines[:0]
	removed := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "gpgkey") {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return nil
	}

	if err := os.WriteFile(i.opts.RepoPath, []byte(strings.Join(kept, "\n")), 0o644); err != nil {
		return fmt.Errorf("failed to rewrite repo definition: %w", err)
	}
	return nil
}
