package agent

import (
	"regexp"

	"github.com/grovetools/arbor/errors"
)

// claudeDescriptor targets the Claude Code CLI. JSON settings, lifecycle
// hooks, MCP config delivered as a sibling file on the command line.
type claudeDescriptor struct{}

var claudeSessionIDPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func (d *claudeDescriptor) Name() string             { return "claude" }
func (d *claudeDescriptor) SessionFileName() string  { return "arbor-session.json" }
func (d *claudeDescriptor) StatusFileName() string   { return "arbor-status.json" }
func (d *claudeDescriptor) SettingsFileName() string { return "arbor-settings.json" }
func (d *claudeDescriptor) DataDirectory() string    { return ".claude" }
func (d *claudeDescriptor) SupportsHooks() bool      { return true }
func (d *claudeDescriptor) SupportsMCP() bool        { return true }

func (d *claudeDescriptor) BuildStartCommand(opts CommandOptions) (string, error) {
	parts := []string{"claude"}
	if opts.PermissionMode != "" {
		parts = append(parts, "--permission-mode", opts.PermissionMode)
	}
	if opts.SettingsPath != "" {
		parts = append(parts, "--settings", opts.SettingsPath)
	}
	if opts.MCPConfigPath != "" {
		parts = append(parts, "--mcp-config", opts.MCPConfigPath)
	}
	if opts.InitialPrompt != "" {
		parts = append(parts, opts.InitialPrompt)
	}
	return renderCommand(parts), nil
}

func (d *claudeDescriptor) BuildResumeCommand(sessionID string, opts CommandOptions) (string, error) {
	if !claudeSessionIDPattern.MatchString(sessionID) {
		return "", errors.InvalidSessionID(d.Name(), sessionID)
	}

	parts := []string{"claude", "--resume", sessionID}
	if opts.PermissionMode != "" {
		parts = append(parts, "--permission-mode", opts.PermissionMode)
	}
	if opts.SettingsPath != "" {
		parts = append(parts, "--settings", opts.SettingsPath)
	}
	if opts.MCPConfigPath != "" {
		parts = append(parts, "--mcp-config", opts.MCPConfigPath)
	}
	return renderCommand(parts), nil
}

func (d *claudeDescriptor) MCPConfig(worktreePath, workflowPath, repoRoot string) *MCPConfig {
	if workflowPath == "" {
		return nil
	}
	return workflowMCPConfig(worktreePath, workflowPath, repoRoot)
}

func (d *claudeDescriptor) MCPConfigDelivery() DeliveryMode { return DeliveryCLI }

func (d *claudeDescriptor) BuildMCPOverrides(cfg *MCPConfig) []string { return nil }

func (d *claudeDescriptor) ProjectSettingsPath(worktreePath string) string { return "" }

func (d *claudeDescriptor) LocalSettingsFiles() []LocalSettingsFile {
	return []LocalSettingsFile{
		{Dir: ".claude", File: "settings.local.json"},
		{Dir: "", File: "CLAUDE.local.md"},
	}
}

// workflowMCPConfig is the shared MCP server block pointing the backend at
// the arbor workflow server for the active template.
func workflowMCPConfig(worktreePath, workflowPath, repoRoot string) *MCPConfig {
	args := []string{"--workflow", workflowPath, "--worktree", worktreePath}
	if repoRoot != "" && repoRoot != worktreePath {
		args = append(args, "--repo-root", repoRoot)
	}
	return &MCPConfig{
		Servers: map[string]MCPServer{
			"arbor-workflow": {
				Command: "arbor-mcp",
				Args:    args,
			},
		},
	}
}
