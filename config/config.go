package config

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/grovetools/arbor/errors"
)

// ConfigFileName is the project configuration file arbor looks for.
const ConfigFileName = "arbor.yml"

// DefaultWorktreesFolder is the directory under the repository root that
// holds session worktrees when the config does not override it.
const DefaultWorktreesFolder = ".arbor-worktrees"

// Config holds the project-level arbor configuration.
type Config struct {
	// WorktreesFolder is the directory name (relative to the repository
	// root) under which session worktrees are created.
	WorktreesFolder string `yaml:"worktrees_folder,omitempty"`

	// DefaultAgent names the descriptor used when a session does not
	// specify one.
	DefaultAgent string `yaml:"default_agent,omitempty"`

	// SettingsPropagation selects how local settings files reach new
	// worktrees: "copy" or "symlink".
	SettingsPropagation string `yaml:"settings_propagation,omitempty"`

	// WorkflowFolders lists extra directories searched for workflow
	// templates, in addition to <repoRoot>/.arbor/workflows.
	WorkflowFolders []string `yaml:"workflow_folders,omitempty"`

	// RepairExcludePatterns are gitignore-style patterns excluded from the
	// copy-back step of worktree repair.
	RepairExcludePatterns []string `yaml:"repair_exclude_patterns,omitempty"`

	// Extensions holds tool-specific configuration blocks decoded on
	// demand with UnmarshalExtension.
	Extensions map[string]interface{} `yaml:"extensions,omitempty"`
}

// Load reads and parses an arbor configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes parses configuration data and applies defaults
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse config file")
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFrom finds and loads the configuration starting from the given
// directory, walking up to the filesystem root. A missing config file is not
// an error; defaults are returned.
func LoadFrom(startDir string) (*Config, error) {
	path, err := FindConfigFile(startDir)
	if err != nil {
		cfg := &Config{}
		cfg.applyDefaults()
		return cfg, nil
	}

	return Load(path)
}

// LoadDefault loads configuration starting from the current directory
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}

	return LoadFrom(cwd)
}

// FindConfigFile walks up from startDir looking for arbor.yml
func FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to resolve start directory")
	}

	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.ConfigNotFound(ConfigFileName)
		}
		dir = parent
	}
}

func (c *Config) applyDefaults() {
	if c.WorktreesFolder == "" {
		c.WorktreesFolder = DefaultWorktreesFolder
	}
	if c.DefaultAgent == "" {
		c.DefaultAgent = "claude"
	}
	if c.SettingsPropagation == "" {
		c.SettingsPropagation = "copy"
	}
}

// Validate checks structural constraints on the configuration
func (c *Config) Validate() error {
	switch c.SettingsPropagation {
	case "copy", "symlink":
	default:
		return errors.ConfigInvalid("settings_propagation must be 'copy' or 'symlink'").
			WithDetail("settings_propagation", c.SettingsPropagation)
	}

	if filepath.IsAbs(c.WorktreesFolder) {
		return errors.ConfigInvalid("worktrees_folder must be relative to the repository root").
			WithDetail("worktrees_folder", c.WorktreesFolder)
	}

	return nil
}

// UnmarshalExtension decodes a named extension block into out. Unknown
// extensions decode to the zero value without error.
func (c *Config) UnmarshalExtension(name string, out interface{}) error {
	raw, ok := c.Extensions[name]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "yaml",
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to build extension decoder")
	}

	if err := decoder.Decode(raw); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to decode extension '"+name+"'")
	}

	return nil
}
