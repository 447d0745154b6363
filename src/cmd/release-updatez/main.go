package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gh-nvat/release-updatez/src/internal/runner"
	"github.com/gh-nvat/release-updatez/src/pkg/config"
	"github.com/gh-nvat/release-updatez/src/pkg/trace"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// errScriptsFailed distinguishes a clean run with failing scripts from an
// orchestration error; both exit 1, but the report still got written.
var errScriptsFailed = errors.New("one or more update scripts failed")

type options struct {
	// Run mode
	runMode string // "github" or "local"

	// Common options
	repoDir             string
	scriptsPath         string
	dataPath            string
	scriptExtension     string
	commitSubjectPrefix string
	gitTimeoutSeconds   int
	configPath          string

	// GitHub mode options
	ghRepo     string
	ghPrNumber int

	// Local mode options
	lcOutputDir string

	// Tracing
	enableTrace bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "release-updatez",
		Short: "Release data update orchestrator for CI pipelines",
		Long: `release-updatez runs a directory of update scripts against a git repository,
detects which release data files they changed, and reports the structural
differences as a step summary and a ready-to-use commit message.`,
		Version: fmt.Sprintf("%s (built: %s)", Version, BuildTime),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&opts.runMode, "run-mode", "github", "Run mode: github or local")

	// Common flags
	cmd.Flags().StringVar(&opts.repoDir, "repo-dir", ".", "Path to the git repository the scripts operate on")
	cmd.Flags().StringVar(&opts.scriptsPath, "scripts-path", "./scripts", "Path to the update scripts directory")
	cmd.Flags().StringVar(&opts.dataPath, "data-path", "releases", "Repository-relative directory holding the JSON data files")
	cmd.Flags().StringVar(&opts.scriptExtension, "script-extension", ".sh", "File extension identifying update scripts")
	cmd.Flags().StringVar(&opts.commitSubjectPrefix, "commit-subject-prefix", "", "Override the commit message subject prefix")
	cmd.Flags().IntVar(&opts.gitTimeoutSeconds, "git-timeout-seconds", 0, "Timeout for individual git commands (0 uses the default)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to an optional YAML config file")

	// GitHub mode flags
	cmd.Flags().StringVar(&opts.ghRepo, "gh-repo", "", "GitHub repository (e.g., org/repo) for PR comment publishing [github mode]")
	cmd.Flags().IntVar(&opts.ghPrNumber, "gh-pr-number", 0, "GitHub PR number for PR comment publishing [github mode]")

	// Local mode flags
	cmd.Flags().StringVar(&opts.lcOutputDir, "lc-output-dir", "./output", "Local mode output directory [local mode]")

	// Tracing flags
	cmd.Flags().BoolVar(&opts.enableTrace, "enable-trace", false, "Record per-stage timings and export performance-report.json")

	return cmd
}

func run(ctx context.Context, opts *options) error {
	if opts.configPath != "" {
		fileConfig, err := config.NewLoader().Load(opts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file: %w", err)
		}
		applyConfig(opts, fileConfig)
	}

	if err := validateOptions(opts); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	shutdown, err := trace.InitTracer("release-updatez", opts.enableTrace, traceOutputDir(opts))
	if err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}
	defer shutdown()

	instance, err := newRunner(opts)
	if err != nil {
		return err
	}

	if err := instance.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize runner: %w", err)
	}

	result, err := instance.Process(ctx)
	if err != nil {
		return err
	}
	if result.ScriptsFailed {
		return errScriptsFailed
	}
	return nil
}

// applyConfig overlays the config file onto flag values; only fields the
// file sets are taken.
func applyConfig(opts *options, fileConfig *config.Config) {
	if fileConfig.ScriptsPath != "" {
		opts.scriptsPath = fileConfig.ScriptsPath
	}
	if fileConfig.DataPath != "" {
		opts.dataPath = fileConfig.DataPath
	}
	if fileConfig.ScriptExtension != "" {
		opts.scriptExtension = fileConfig.ScriptExtension
	}
	if fileConfig.GitTimeoutSeconds > 0 {
		opts.gitTimeoutSeconds = fileConfig.GitTimeoutSeconds
	}
	if fileConfig.CommitSubjectPrefix != "" {
		opts.commitSubjectPrefix = fileConfig.CommitSubjectPrefix
	}
}

// traceOutputDir picks where performance-report.json lands. Local runs share
// the output directory; github runs write into the workspace, where the
// local-mode default would point at a directory the workflow never reads.
func traceOutputDir(opts *options) string {
	if opts.runMode == "local" {
		return opts.lcOutputDir
	}
	return "."
}

func validateOptions(opts *options) error {
	if opts.runMode != "github" && opts.runMode != "local" {
		return fmt.Errorf("run-mode must be github or local, got: %s", opts.runMode)
	}
	if opts.scriptsPath == "" {
		return fmt.Errorf("scripts-path is required")
	}
	if opts.dataPath == "" {
		return fmt.Errorf("data-path is required")
	}
	if opts.runMode == "github" && (opts.ghRepo == "") != (opts.ghPrNumber == 0) {
		return fmt.Errorf("gh-repo and gh-pr-number must be set together")
	}
	return nil
}

func newRunner(opts *options) (runner.RunnerInterface, error) {
	runnerOptions := &runner.Options{
		RunMode:             opts.runMode,
		RepoDir:             opts.repoDir,
		ScriptsPath:         opts.scriptsPath,
		DataPath:            opts.dataPath,
		ScriptExtension:     opts.scriptExtension,
		CommitSubjectPrefix: opts.commitSubjectPrefix,
		GitTimeoutSeconds:   opts.gitTimeoutSeconds,
		GhRepo:              opts.ghRepo,
		GhPrNumber:          opts.ghPrNumber,
		OutputDir:           opts.lcOutputDir,
		EnableTrace:         opts.enableTrace,
	}

	switch opts.runMode {
	case "github":
		return runner.NewRunnerGitHub(runnerOptions, nil)
	case "local":
		return runner.NewRunnerLocal(runnerOptions)
	default:
		return nil, fmt.Errorf("unsupported run mode: %s", opts.runMode)
	}
}
