package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hilsamlabs/hostprep/pkg/doctor"
	"github.com/hilsamlabs/hostprep/pkg/settings"
	"github.com/hilsamlabs/hostprep/pkg/tui"
)

// newDoctorCmd creates the doctor subcommand.
func newDoctorCmd() *cobra.Command {
	var fixID string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check host readiness",
		Long: `Check that the host has what the CI runner and editor image builds need:
a recognized package manager, the Docker engine and compose plugin, a
running service, and the sudoers drop-in. Missing components come with a
fix command.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDoctor(fixID)
		},
	}

	cmd.Flags().StringVar(&fixID, "fix", "", "Run the fix command for a check ID")

	return cmd
}

// runDoctor prints all check groups, or runs a single fix.
func runDoctor(fixID string) error {
	cfg, err := settings.LoadOrDefault()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	checker := doctor.NewChecker()
	checker.SetSudoersPath(cfg.SudoersPath)

	if fixID != "" {
		return runFix(checker, fixID)
	}

	groups := checker.CheckAllAsync()

	for _, group := range groups {
		fmt.Println(tui.TitleStyle.Render(group.Name))
		for _, check := range group.Checks {
			fmt.Printf("  %s %-18s %s\n", statusIcon(check.Status), check.Name, check.Message)
			if check.Status == doctor.StatusMissing && check.FixCommand != nil {
				fmt.Printf("    %s\n", tui.DimStyle.Render("fix: "+check.FixCommand.Command))
			}
		}
		fmt.Println()
	}

	summary := checker.GetSummary(groups)
	fmt.Printf("%d checks: %d ok, %d missing, %d warnings, %d errors\n",
		summary.Total, summary.OK, summary.Missing, summary.Warnings, summary.Errors)

	if checker.HasIssues(groups) {
		return fmt.Errorf("%d check(s) need attention", summary.Missing+summary.Errors)
	}
	return nil
}

// runFix runs the fix command for a single check.
func runFix(checker *doctor.Checker, checkID string) error {
	check := checker.GetCheck(checkID)
	if check.FixCommand == nil {
		return fmt.Errorf("no fix available for %q", checkID)
	}

	fmt.Printf("Running: %s\n", check.FixCommand.Command)
	fixer := doctor.NewFixer()
	if err := fixer.RunFix(check.FixCommand); err != nil {
		return err
	}

	fmt.Printf("%s %s fixed\n", tui.SuccessStyle.Render("✓"), check.Name)
	return nil
}

// statusIcon renders a status as a colored glyph.
func statusIcon(status doctor.CheckStatus) string {
	switch status {
	case doctor.StatusOK:
		return tui.SuccessStyle.Render("✓")
	case doctor.StatusMissing:
		return tui.ErrorStyle.Render("✗")
	case doctor.StatusWarning:
		return tui.WarningStyle.Render("⚠")
	default:
		return tui.ErrorStyle.Render("!")
	}
}
