package agent

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/grovetools/arbor/errors"
)

// codexDescriptor targets the Codex CLI. TOML settings, no lifecycle hooks
// (the execution surface is recorded in session metadata at creation), MCP
// config delivered as -c override flags.
type codexDescriptor struct{}

var codexSessionIDPattern = regexp.MustCompile(`^([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}|thread_[A-Za-z0-9]+)$`)

func (d *codexDescriptor) Name() string             { return "codex" }
func (d *codexDescriptor) SessionFileName() string  { return "arbor-session.json" }
func (d *codexDescriptor) StatusFileName() string   { return "arbor-status.json" }
func (d *codexDescriptor) SettingsFileName() string { return "arbor-codex.toml" }
func (d *codexDescriptor) DataDirectory() string    { return ".codex" }
func (d *codexDescriptor) SupportsHooks() bool      { return false }
func (d *codexDescriptor) SupportsMCP() bool        { return true }

func (d *codexDescriptor) BuildStartCommand(opts CommandOptions) (string, error) {
	parts := []string{"codex"}
	if opts.PermissionMode != "" {
		parts = append(parts, "-c", fmt.Sprintf("approval_policy=%q", opts.PermissionMode))
	}
	parts = append(parts, opts.MCPOverrides...)
	if opts.InitialPrompt != "" {
		parts = append(parts, opts.InitialPrompt)
	}
	return renderCommand(parts), nil
}

func (d *codexDescriptor) BuildResumeCommand(sessionID string, opts CommandOptions) (string, error) {
	if !codexSessionIDPattern.MatchString(sessionID) {
		return "", errors.InvalidSessionID(d.Name(), sessionID)
	}

	parts := []string{"codex", "resume", sessionID}
	if opts.PermissionMode != "" {
		parts = append(parts, "-c", fmt.Sprintf("approval_policy=%q", opts.PermissionMode))
	}
	parts = append(parts, opts.MCPOverrides...)
	return renderCommand(parts), nil
}

func (d *codexDescriptor) MCPConfig(worktreePath, workflowPath, repoRoot string) *MCPConfig {
	if workflowPath == "" {
		return nil
	}
	return workflowMCPConfig(worktreePath, workflowPath, repoRoot)
}

func (d *codexDescriptor) MCPConfigDelivery() DeliveryMode { return DeliveryCLIOverrides }

// BuildMCPOverrides renders each server as -c mcp_servers.<name>.* flags.
// Servers are emitted in sorted order so the command string is stable.
func (d *codexDescriptor) BuildMCPOverrides(cfg *MCPConfig) []string {
	if cfg == nil || len(cfg.Servers) == 0 {
		return nil
	}

	names := make([]string, 0, len(cfg.Servers))
	for name := range cfg.Servers {
		names = append(names, name)
	}
	sort.Strings(names)

	var flags []string
	for _, name := range names {
		server := cfg.Servers[name]
		flags = append(flags,
			"-c", fmt.Sprintf("mcp_servers.%s.command=%q", name, server.Command))
		if len(server.Args) > 0 {
			quoted := make([]string, len(server.Args))
			for i, arg := range server.Args {
				quoted[i] = fmt.Sprintf("%q", arg)
			}
			flags = append(flags,
				"-c", fmt.Sprintf("mcp_servers.%s.args=[%s]", name, strings.Join(quoted, ",")))
		}
	}
	return flags
}

func (d *codexDescriptor) ProjectSettingsPath(worktreePath string) string { return "" }

func (d *codexDescriptor) LocalSettingsFiles() []LocalSettingsFile {
	return []LocalSettingsFile{
		{Dir: ".codex", File: "config.local.toml"},
		{Dir: "", File: "AGENTS.local.md"},
	}
}
