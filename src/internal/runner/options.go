package runner

type Options struct {
	// Run mode
	RunMode string // "github" or "local"

	// Common options
	RepoDir         string
	ScriptsPath     string
	DataPath        string
	ScriptExtension string

	CommitSubjectPrefix string
	GitTimeoutSeconds   int

	// GitHub mode options
	GhRepo     string
	GhPrNumber int

	// Local mode options
	OutputDir string

	// Tracing
	EnableTrace bool
}
