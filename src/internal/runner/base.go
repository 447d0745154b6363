package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/gh-nvat/release-updatez/src/pkg/gitx"
	"github.com/gh-nvat/release-updatez/src/pkg/models"
	"github.com/gh-nvat/release-updatez/src/pkg/report"
	"github.com/gh-nvat/release-updatez/src/pkg/scripts"
	"github.com/gh-nvat/release-updatez/src/pkg/snapshot"
	"github.com/gh-nvat/release-updatez/src/pkg/trace"
)

var logger *log.Entry = log.New().WithFields(log.Fields{
	"package": "runner",
})

type RunnerBase struct {
	Options *Options

	RunMode string

	Scripts   *scripts.Runner
	Git       *gitx.Client
	Snapshots *snapshot.Loader
	Reporter  *report.Builder

	Instance RunnerInterface
}

// make RunnerBase implement RunnerInterface
var _ RunnerInterface = (*RunnerBase)(nil)

func NewRunnerBase(options *Options) (*RunnerBase, error) {
	git := gitx.NewClient(options.RepoDir)
	if options.GitTimeoutSeconds > 0 {
		git = git.WithTimeout(time.Duration(options.GitTimeoutSeconds) * time.Second)
	}

	reporter := report.NewBuilder()
	if options.CommitSubjectPrefix != "" {
		reporter = reporter.WithSubjectPrefix(options.CommitSubjectPrefix)
	}

	runner := &RunnerBase{
		Options:   options,
		RunMode:   options.RunMode,
		Scripts:   scripts.NewRunner(options.ScriptsPath, options.ScriptExtension).WithWorkDir(options.RepoDir),
		Git:       git,
		Snapshots: snapshot.NewLoader(git, options.RepoDir),
		Reporter:  reporter,
	}
	runner.Instance = runner
	return runner, nil
}

func (r *RunnerBase) Initialize() error {
	logger.Info("Initializing runner: starting...")

	// if any is nil, return error
	if r.Scripts == nil || r.Git == nil || r.Snapshots == nil || r.Reporter == nil {
		return fmt.Errorf("scripts, git, snapshots, and reporter are required")
	}

	if _, err := os.Stat(r.Options.ScriptsPath); err != nil {
		return fmt.Errorf("scripts directory not accessible: %w", err)
	}

	logger.Info("Initialize runner: done.")
	return nil
}

func (r *RunnerBase) RunScripts(ctx context.Context) ([]models.ScriptResult, error) {
	return r.Scripts.RunAll(ctx)
}

// DetectChanges stages everything and returns the repo-relative paths of
// staged JSON files directly under the data directory, sorted and deduped.
func (r *RunnerBase) DetectChanges(ctx context.Context) ([]string, error) {
	if err := r.Git.AddAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to stage changes: %w", err)
	}

	staged, err := r.Git.StagedFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list staged files: %w", err)
	}

	dataDir := filepath.Clean(r.Options.DataPath)
	seen := map[string]bool{}
	var changed []string
	for _, path := range staged {
		if filepath.Dir(path) != dataDir || !strings.HasSuffix(path, ".json") {
			continue
		}
		if seen[path] {
			continue
		}
		seen[path] = true
		changed = append(changed, path)
	}
	sort.Strings(changed)
	return changed, nil
}

func (r *RunnerBase) Process(ctx context.Context) (*RunResult, error) {
	logger.Info("Process: running update scripts...")
	spanCtx, span := trace.StartSpan(ctx, "run-scripts")
	results, err := r.Instance.RunScripts(spanCtx)
	span.End()
	if err != nil {
		return nil, fmt.Errorf("failed to run scripts: %w", err)
	}

	logger.Info("Process: detecting changed data files...")
	spanCtx, span = trace.StartSpan(ctx, "detect-changes")
	changed, err := r.Instance.DetectChanges(spanCtx)
	span.End()
	if err != nil {
		return nil, fmt.Errorf("failed to detect changes: %w", err)
	}

	var data *models.Report
	if len(changed) == 0 {
		logger.Info("Process: no data files changed")
		data = report.NoUpdate()
	} else {
		logger.WithField("files", changed).Info("Process: loading before and after snapshots")
		spanCtx, span = trace.StartSpan(ctx, "load-snapshots")
		oldContent, newContent, err := r.Snapshots.LoadPair(spanCtx, changed)
		span.End()
		if err != nil {
			return nil, fmt.Errorf("failed to load snapshots: %w", err)
		}

		_, span = trace.StartSpan(ctx, "render-report")
		data = r.Reporter.Build(changed, oldContent, newContent)
		span.End()
	}

	if err := r.Instance.Output(ctx, data, results); err != nil {
		return nil, fmt.Errorf("failed to write outputs: %w", err)
	}

	logger.Info("Process: done.")
	return &RunResult{ScriptsFailed: scripts.AnyFailed(results)}, nil
}

// RenderStepSummary combines the script timing table and the update summary
// into the markdown body shared by every output mode.
func RenderStepSummary(data *models.Report, results []models.ScriptResult) string {
	return scripts.SummaryTable(results) + "## Update summary\n\n" + data.Summary
}

// Output in the base writes nothing; each mode overrides it.
func (r *RunnerBase) Output(ctx context.Context, data *models.Report, results []models.ScriptResult) error {
	return fmt.Errorf("output is not implemented for run mode: %s", r.RunMode)
}
