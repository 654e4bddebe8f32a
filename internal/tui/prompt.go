package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// PromptForString displays an interactive input prompt and returns the
// user's answer. Used by commands when a required flag was not given.
func PromptForString(title string, required bool) (string, error) {
	var value string

	input := huh.NewInput().
		Title(title).
		Value(&value)

	form := huh.NewForm(huh.NewGroup(input))

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	if required && value == "" {
		return "", fmt.Errorf("value is required")
	}

	return value, nil
}

// PromptForPassword displays a masked input prompt.
func PromptForPassword(title string) (string, error) {
	var value string

	input := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&value)

	form := huh.NewForm(huh.NewGroup(input))

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	if value == "" {
		return "", fmt.Errorf("value is required")
	}

	return value, nil
}

// PromptForConfirmation displays a yes/no confirmation prompt.
func PromptForConfirmation(message string, defaultValue bool) (bool, error) {
	confirmed := defaultValue

	confirm := huh.NewConfirm().
		Title(message).
		Value(&confirmed)

	form := huh.NewForm(huh.NewGroup(confirm))

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}

	return confirmed, nil
}
