package agent

import (
	"path/filepath"
	"regexp"

	"github.com/grovetools/arbor/errors"
)

// geminiDescriptor targets the Gemini CLI. It reads settings from a fixed
// project path (.gemini/settings.json), so the orchestrator writes the
// generated settings there and never passes a settings flag; MCP servers are
// embedded into the settings object.
type geminiDescriptor struct{}

var geminiSessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{4,128}$`)

func (d *geminiDescriptor) Name() string             { return "gemini" }
func (d *geminiDescriptor) SessionFileName() string  { return "arbor-session.json" }
func (d *geminiDescriptor) StatusFileName() string   { return "arbor-status.json" }
func (d *geminiDescriptor) SettingsFileName() string { return "settings.json" }
func (d *geminiDescriptor) DataDirectory() string    { return ".gemini" }
func (d *geminiDescriptor) SupportsHooks() bool      { return false }
func (d *geminiDescriptor) SupportsMCP() bool        { return true }

func (d *geminiDescriptor) BuildStartCommand(opts CommandOptions) (string, error) {
	parts := []string{"gemini"}
	if opts.PermissionMode != "" {
		parts = append(parts, "--approval-mode", opts.PermissionMode)
	}
	if opts.InitialPrompt != "" {
		parts = append(parts, "-i", opts.InitialPrompt)
	}
	return renderCommand(parts), nil
}

func (d *geminiDescriptor) BuildResumeCommand(sessionID string, opts CommandOptions) (string, error) {
	if !geminiSessionIDPattern.MatchString(sessionID) {
		return "", errors.InvalidSessionID(d.Name(), sessionID)
	}

	parts := []string{"gemini", "--resume", sessionID}
	if opts.PermissionMode != "" {
		parts = append(parts, "--approval-mode", opts.PermissionMode)
	}
	return renderCommand(parts), nil
}

func (d *geminiDescriptor) MCPConfig(worktreePath, workflowPath, repoRoot string) *MCPConfig {
	if workflowPath == "" {
		return nil
	}
	return workflowMCPConfig(worktreePath, workflowPath, repoRoot)
}

func (d *geminiDescriptor) MCPConfigDelivery() DeliveryMode { return DeliverySettings }

func (d *geminiDescriptor) BuildMCPOverrides(cfg *MCPConfig) []string { return nil }

func (d *geminiDescriptor) ProjectSettingsPath(worktreePath string) string {
	return filepath.Join(worktreePath, ".gemini", "settings.json")
}

func (d *geminiDescriptor) LocalSettingsFiles() []LocalSettingsFile {
	return []LocalSettingsFile{
		{Dir: ".gemini", File: ".env"},
		{Dir: "", File: "GEMINI.local.md"},
	}
}
