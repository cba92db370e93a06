package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// RunLoginPrompt collects a container registry URL and username from the
// operator. The caller decides what to do with the values.
func RunLoginPrompt(defaultURL string) (url, username string, err error) {
	url = defaultURL

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Registry URL").
				Description("Container registry to authenticate against").
				Placeholder("registry.example.com").
				Value(&url).
				Validate(validateRequired("Registry URL")),
			huh.NewInput().
				Title("Username").
				Description("Account used for docker login").
				Placeholder("ci-bot").
				Value(&username).
				Validate(validateRequired("Username")),
		).Title("Registry Login"),
	).WithTheme(Theme())

	if err := form.Run(); err != nil {
		return "", "", fmt.Errorf("form cancelled: %w", err)
	}

	return url, username, nil
}

// validateRequired returns a validator that rejects empty input.
func validateRequired(field string) func(string) error {
	return func(value string) error {
		if value == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
