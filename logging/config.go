package logging

// Config is the 'logging' extension block of arbor.yml.
type Config struct {
	Level        string     `yaml:"level,omitempty"`
	ReportCaller bool       `yaml:"report_caller,omitempty"`
	Format       string     `yaml:"format,omitempty"` // "text" (default) or "json"
	File         FileConfig `yaml:"file,omitempty"`

	// StderrMode controls structured log emission to stderr:
	// "auto" (default), "always", or "never".
	StderrMode string `yaml:"stderr,omitempty"`
}

// FileConfig configures the file sink.
type FileConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}
