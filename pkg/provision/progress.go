// Package provision provides shared progress reporting for provisioning runs.
package provision

import (
	"time"

	"github.com/google/uuid"
)

// Stage represents a provisioning stage.
type Stage string

const (
	StageDetecting  Stage = "detecting"
	StageRepository Stage = "repository"
	StageInstalling Stage = "installing"
	StageService    Stage = "service"
	StageSudoers    Stage = "sudoers"
	StageRegistry   Stage = "registry"
	StagePolicy     Stage = "policy"
	StageKeyImport  Stage = "keyimport"
	StageCleanup    Stage = "cleanup"
	StageShortcut   Stage = "shortcut"
	StageComplete   Stage = "complete"
	StageError      Stage = "error"
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the stage.
func (s Stage) DisplayName() string {
	switch s {
	case StageDetecting:
		return "Detecting Environment"
	case StageRepository:
		return "Registering Repository"
	case StageInstalling:
		return "Installing Packages"
	case StageService:
		return "Enabling Service"
	case StageSudoers:
		return "Writing Sudoers Drop-In"
	case StageRegistry:
		return "Registry Login"
	case StagePolicy:
		return "Adjusting Crypto Policy"
	case StageKeyImport:
		return "Importing Signing Key"
	case StageCleanup:
		return "Cleaning Caches"
	case StageShortcut:
		return "Placing Shortcut"
	case StageComplete:
		return "Complete"
	case StageError:
		return "Error"
	default:
		return string(s)
	}
}

// Event represents a provisioning progress update.
type Event struct {
	RunID     string    // Identifies the provisioning run
	Stage     Stage     // Current stage
	Message   string    // Human-readable message
	Command   string    // Command being executed, if any
	Err       error     // Non-nil if the stage failed
	Timestamp time.Time // When this event occurred
}

// ProgressFunc receives progress events during a run.
type ProgressFunc func(Event)

// NewRunID returns a fresh identifier for a provisioning run.
func NewRunID() string {
	return uuid.NewString()
}

// NewEvent creates a progress event for the given run and stage.
func NewEvent(runID string, stage Stage, message string) Event {
	return Event{
		RunID:     runID,
		Stage:     stage,
		Message:   message,
		Timestamp: time.Now(),
	}
}
