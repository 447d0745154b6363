package runner

import (
	"context"
	"fmt"
	"os"

	"github.com/gh-nvat/release-updatez/src/pkg/gha"
	"github.com/gh-nvat/release-updatez/src/pkg/github"
	"github.com/gh-nvat/release-updatez/src/pkg/models"
)

type RunnerGitHub struct {
	RunnerBase

	ghclient github.CommentClient
}

// make RunnerGitHub implement RunnerInterface
var _ RunnerInterface = (*RunnerGitHub)(nil)

func NewRunnerGitHub(options *Options, ghclient github.CommentClient) (*RunnerGitHub, error) {
	baseRunner, err := NewRunnerBase(options)
	if err != nil {
		return nil, err
	}
	runner := &RunnerGitHub{
		RunnerBase: *baseRunner,
		ghclient:   ghclient,
	}
	runner.Instance = runner
	return runner, nil
}

func (r *RunnerGitHub) Initialize() error {
	if err := r.RunnerBase.Initialize(); err != nil {
		return err
	}

	if os.Getenv(gha.StepSummaryEnv) == "" {
		return fmt.Errorf("%s is not set; is this running inside GitHub Actions?", gha.StepSummaryEnv)
	}
	if os.Getenv(gha.OutputEnv) == "" {
		return fmt.Errorf("%s is not set; is this running inside GitHub Actions?", gha.OutputEnv)
	}

	// PR publishing is optional and needs both a repo slug and a PR number
	if r.ghclient == nil && r.Options.GhRepo != "" && r.Options.GhPrNumber > 0 {
		ghclient, err := github.NewClient()
		if err != nil {
			return fmt.Errorf("failed to create GitHub client: %w", err)
		}
		r.ghclient = ghclient
	}
	return nil
}

// Output appends the report to the step summary, exports the commit message
// as a step output, and publishes the report to the pull request when one
// is configured.
func (r *RunnerGitHub) Output(ctx context.Context, data *models.Report, results []models.ScriptResult) error {
	body := RenderStepSummary(data, results)

	summary, err := gha.NewStepSummary()
	if err != nil {
		return err
	}
	if err := summary.Write(body); err != nil {
		_ = summary.Close()
		return fmt.Errorf("failed to write step summary: %w", err)
	}
	if err := summary.Close(); err != nil {
		return fmt.Errorf("failed to close step summary: %w", err)
	}

	if data.HasChanges {
		if err := gha.SetOutput("commit_message", data.CommitMessage); err != nil {
			return fmt.Errorf("failed to set commit_message output: %w", err)
		}
	}

	if r.ghclient != nil && r.Options.GhRepo != "" && r.Options.GhPrNumber > 0 {
		// a failed comment must not fail the step; the summary already landed
		if err := r.ghclient.PublishRunReport(ctx, r.Options.GhRepo, r.Options.GhPrNumber, body); err != nil {
			logger.WithField("error", err).Warn("Output: failed to publish run report comment")
		}
	}
	return nil
}
