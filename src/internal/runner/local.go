package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gh-nvat/release-updatez/src/pkg/models"
)

type RunnerLocal struct {
	RunnerBase
}

// make RunnerLocal implement RunnerInterface
var _ RunnerInterface = (*RunnerLocal)(nil)

func NewRunnerLocal(options *Options) (*RunnerLocal, error) {
	baseRunner, err := NewRunnerBase(options)
	if err != nil {
		return nil, err
	}
	runner := &RunnerLocal{
		RunnerBase: *baseRunner,
	}
	runner.Instance = runner
	return runner, nil
}

func (r *RunnerLocal) Initialize() error {
	if err := r.RunnerBase.Initialize(); err != nil {
		return err
	}
	if r.Options.OutputDir == "" {
		return fmt.Errorf("output directory is required in local mode")
	}
	if err := os.MkdirAll(r.Options.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Output writes the step summary and commit message to files under the
// output directory instead of the GitHub Actions environment files.
func (r *RunnerLocal) Output(ctx context.Context, data *models.Report, results []models.ScriptResult) error {
	summaryPath := filepath.Join(r.Options.OutputDir, "step-summary.md")
	if err := os.WriteFile(summaryPath, []byte(RenderStepSummary(data, results)), 0644); err != nil {
		return fmt.Errorf("failed to write step summary: %w", err)
	}
	logger.WithField("path", summaryPath).Info("Output: wrote step summary")

	if data.HasChanges {
		messagePath := filepath.Join(r.Options.OutputDir, "commit-message.txt")
		if err := os.WriteFile(messagePath, []byte(data.CommitMessage), 0644); err != nil {
			return fmt.Errorf("failed to write commit message: %w", err)
		}
		logger.WithField("path", messagePath).Info("Output: wrote commit message")
	}
	return nil
}
