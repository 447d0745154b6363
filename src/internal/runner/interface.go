package runner

import (
	"context"

	"github.com/gh-nvat/release-updatez/src/pkg/models"
)

// RunResult carries the outcome of a full run back to the command layer.
type RunResult struct {
	// ScriptsFailed is true when at least one update script exited non-zero
	ScriptsFailed bool
}

type RunnerInterface interface {
	// Initialize the runner with necessary context and data
	Initialize() error

	// Run every update script and collect per-script results
	RunScripts(ctx context.Context) ([]models.ScriptResult, error)

	// Detect which tracked data files the scripts changed
	DetectChanges(ctx context.Context) ([]string, error)

	// Main routine to process the runner
	Process(ctx context.Context) (*RunResult, error)

	// Handling the export
	Output(ctx context.Context, data *models.Report, results []models.ScriptResult) error
}
