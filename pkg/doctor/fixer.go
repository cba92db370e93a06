package doctor

import (
	"fmt"

	"github.com/hilsamlabs/hostprep/pkg/sysexec"
)

// fixCommands defines fix commands for each component.
var fixCommands = map[string]*FixCommand{
	IDDocker: {
		Description: "Run the host bootstrapper",
		Command:     "hostprep docker",
		Sudo:        true,
	},
	IDCompose: {
		Description: "Run the host bootstrapper (installs the compose plugin)",
		Command:     "hostprep docker",
		Sudo:        true,
	},
	IDContainerd: {
		Description: "Run the host bootstrapper (installs containerd)",
		Command:     "hostprep docker",
		Sudo:        true,
	},
	IDDockerService: {
		Description: "Start and enable the Docker service",
		Command:     "sudo systemctl enable --now docker",
		Sudo:        true,
	},
	IDSudoers: {
		Description: "Run the host bootstrapper (writes the drop-in)",
		Command:     "hostprep docker",
		Sudo:        true,
	},
	IDCryptoPolicy: {
		Description: "Install the crypto-policies tooling",
		Command:     "sudo dnf install -y crypto-policies-scripts",
		Sudo:        true,
	},
	IDSublime: {
		Description: "Run the editor installer",
		Command:     "hostprep sublime",
		Sudo:        true,
	},
}

// GetFixCommand returns the fix command for a component.
func GetFixCommand(checkID string) *FixCommand {
	return fixCommands[checkID]
}

// Fixer provides functionality to run fix commands.
type Fixer struct {
	executor sysexec.Executor
}

// NewFixer creates a new Fixer.
func NewFixer() *Fixer {
	return &Fixer{
		executor: &sysexec.RealExecutor{},
	}
}

// NewFixerWithExecutor creates a new Fixer with a custom executor.
func NewFixerWithExecutor(executor sysexec.Executor) *Fixer {
	return &Fixer{
		executor: executor,
	}
}

// RunFix executes a fix command.
func (f *Fixer) RunFix(fix *FixCommand) error {
	if fix == nil {
		return fmt.Errorf("no fix command available")
	}

	output, err := f.executor.CombinedOutput("sh", "-c", fix.Command)
	if err != nil {
		return fmt.Errorf("fix failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}
