package agent

import (
	"regexp"

	"github.com/grovetools/arbor/errors"
)

// opencodeDescriptor targets the OpenCode CLI. JSONC settings passed on the
// command line, MCP servers embedded into the settings object, no lifecycle
// hooks.
type opencodeDescriptor struct{}

var opencodeSessionIDPattern = regexp.MustCompile(`^ses_[a-zA-Z0-9]{8,}$`)

func (d *opencodeDescriptor) Name() string             { return "opencode" }
func (d *opencodeDescriptor) SessionFileName() string  { return "arbor-session.json" }
func (d *opencodeDescriptor) StatusFileName() string   { return "arbor-status.json" }
func (d *opencodeDescriptor) SettingsFileName() string { return "arbor-opencode.jsonc" }
func (d *opencodeDescriptor) DataDirectory() string    { return ".opencode" }
func (d *opencodeDescriptor) SupportsHooks() bool      { return false }
func (d *opencodeDescriptor) SupportsMCP() bool        { return true }

func (d *opencodeDescriptor) BuildStartCommand(opts CommandOptions) (string, error) {
	parts := []string{"opencode"}
	if opts.SettingsPath != "" {
		parts = append(parts, "--config", opts.SettingsPath)
	}
	if opts.InitialPrompt != "" {
		parts = append(parts, "--prompt", opts.InitialPrompt)
	}
	return renderCommand(parts), nil
}

func (d *opencodeDescriptor) BuildResumeCommand(sessionID string, opts CommandOptions) (string, error) {
	if !opencodeSessionIDPattern.MatchString(sessionID) {
		return "", errors.InvalidSessionID(d.Name(), sessionID)
	}

	parts := []string{"opencode", "--session", sessionID}
	if opts.SettingsPath != "" {
		parts = append(parts, "--config", opts.SettingsPath)
	}
	return renderCommand(parts), nil
}

func (d *opencodeDescriptor) MCPConfig(worktreePath, workflowPath, repoRoot string) *MCPConfig {
	if workflowPath == "" {
		return nil
	}
	return workflowMCPConfig(worktreePath, workflowPath, repoRoot)
}

func (d *opencodeDescriptor) MCPConfigDelivery() DeliveryMode { return DeliverySettings }

func (d *opencodeDescriptor) BuildMCPOverrides(cfg *MCPConfig) []string { return nil }

func (d *opencodeDescriptor) ProjectSettingsPath(worktreePath string) string { return "" }

func (d *opencodeDescriptor) LocalSettingsFiles() []LocalSettingsFile {
	return []LocalSettingsFile{
		{Dir: "", File: "opencode.jsonc"},
	}
}
