package dockerhost

import (
	"fmt"
	"os"
	"strings"
)

// allowedCommands is the fixed command whitelist granted to the automation
// account. Least privilege: these are the only commands the CI runner needs
// to stage workspaces and drive compose.
var allowedCommands = []string{
	"/usr/bin/mkdir",
	"/usr/bin/cp",
	"/usr/bin/chcon",
	"/usr/local/bin/docker-compose",
	"/usr/bin/docker",
	"/usr/bin/rm",
	"/usr/bin/chmod",
}

// SudoersContent renders the drop-in granting the account password-less
// execution of the fixed command whitelist.
func SudoersContent(account string) string {
	return fmt.Sprintf("%s ALL=(ALL) NOPASSWD: %s\n", account, strings.Join(allowedCommands, ", "))
}

// writeSudoers writes the drop-in at mode 0440, as sudo requires.
func (b *Bootstrapper) writeSudoers() error {
	content := SudoersContent(b.opts.RunnerAccount)
	if err := os.WriteFile(b.opts.SudoersPath, []byte(content), 0o440); err != nil {
		return fmt.Errorf("failed to write sudoers drop-in: %w", err)
	}
	fmt.Fprintf(b.opts.Out, "Wrote %s\n", b.opts.SudoersPath)
	return nil
}
