package sublime

import (
	"context"
	"fmt"
	"strings"

	"github.com/hilsamlabs/hostprep/pkg/sysexec"
)

// PolicyGuard captures the system-wide crypto policy before the SHA-1
// widening and restores it on release. The guard exists only when the
// policy was actually changed; restoring a policy that was never touched
// must not happen.
type PolicyGuard struct {
	runner   *sysexec.Runner
	original string
}

// EnsureSHA1 reads the current crypto policy and, when SHA-1 digests are
// not already permitted, appends the SHA1 module and returns a guard that
// restores the original policy. Returns (nil, nil) when no change was
// needed.
func EnsureSHA1(ctx context.Context, runner *sysexec.Runner) (*PolicyGuard, error) {
	out, err := runner.Executor().RunContext(ctx, "update-crypto-policies", "--show")
	if err != nil {
		return nil, fmt.Errorf("failed to read crypto policy: %w", err)
	}
	current := strings.TrimSpace(out)
	if strings.Contains(current, "SHA1") {
		return nil, nil
	}

	if err := runner.Run(ctx, "update-crypto-policies", "--set", current+":SHA1"); err != nil {
		return nil, err
	}
	return &PolicyGuard{runner: runner, original: current}, nil
}

// Original returns the policy string captured before the change.
func (g *PolicyGuard) Original() string {
	return g.original
}

// Restore sets the policy back to the captured original. Called on exit
// regardless of whether the install succeeded.
func (g *PolicyGuard) Restore(ctx context.Context) error {
	return g.runner.Run(ctx, "update-crypto-policies", "--set", g.original)
}
