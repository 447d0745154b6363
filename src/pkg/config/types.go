package config

// Config is the optional YAML configuration for a run. Flags provide the
// defaults; a config file, when given, overrides the fields it sets.
type Config struct {
	ScriptsPath         string `yaml:"scriptsPath"`
	DataPath            string `yaml:"dataPath"`
	ScriptExtension     string `yaml:"scriptExtension"`
	GitTimeoutSeconds   int    `yaml:"gitTimeoutSeconds"`
	CommitSubjectPrefix string `yaml:"commitSubjectPrefix"`
}
