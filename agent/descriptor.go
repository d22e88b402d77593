// Package agent defines the capability set implemented once per supported
// coding-agent CLI. Everything that differs between backends lives behind
// the Descriptor interface so no caller ever branches on agent identity.
package agent

// DeliveryMode describes how MCP configuration is communicated to a backend.
type DeliveryMode string

const (
	// DeliveryCLI emits a sibling JSON config file referenced on the
	// command line.
	DeliveryCLI DeliveryMode = "cli"

	// DeliveryCLIOverrides translates the config into literal command-line
	// override flags.
	DeliveryCLIOverrides DeliveryMode = "cli-overrides"

	// DeliverySettings embeds the config into the generated settings object.
	DeliverySettings DeliveryMode = "settings"
)

// LocalSettingsFile names a file propagated from the base repository into a
// fresh worktree. Dir is relative to the repository root; empty means the
// root itself.
type LocalSettingsFile struct {
	Dir  string
	File string
}

// MCPServer is one server entry of an MCP configuration.
type MCPServer struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// MCPConfig is the wire shape of a generated MCP configuration document.
type MCPConfig struct {
	Servers map[string]MCPServer `json:"mcpServers"`
}

// CommandOptions carries the resolved launch parameters into command
// construction. All fields are optional; descriptors ignore what they do not
// support.
type CommandOptions struct {
	PermissionMode string
	SettingsPath   string
	MCPConfigPath  string
	MCPOverrides   []string
	InitialPrompt  string
}

// Descriptor is the per-backend capability set.
type Descriptor interface {
	// Name is the stable identifier persisted as SessionMetadata.agentName.
	Name() string

	// SessionFileName is the metadata file name inside the agent's data
	// directory.
	SessionFileName() string

	// StatusFileName is the status file name inside the agent's data
	// directory.
	StatusFileName() string

	// SettingsFileName names the generated settings file; its extension
	// selects the serialization format.
	SettingsFileName() string

	// DataDirectory is the agent's directory inside a worktree.
	DataDirectory() string

	// SupportsHooks reports whether the backend can report lifecycle
	// events on its own. Backends without hooks get their execution
	// surface recorded in session metadata at creation time.
	SupportsHooks() bool

	// BuildStartCommand constructs the command line that starts a fresh
	// agent process.
	BuildStartCommand(opts CommandOptions) (string, error)

	// BuildResumeCommand constructs the command line that resumes a prior
	// session. Fails with INVALID_SESSION_ID if the identifier does not
	// match the backend's expected shape.
	BuildResumeCommand(sessionID string, opts CommandOptions) (string, error)

	// SupportsMCP reports whether the backend accepts MCP configuration.
	SupportsMCP() bool

	// MCPConfig generates the MCP configuration for a workflow-enabled
	// session, or nil when there is nothing to configure.
	MCPConfig(worktreePath, workflowPath, repoRoot string) *MCPConfig

	// MCPConfigDelivery declares how the generated config reaches the
	// backend.
	MCPConfigDelivery() DeliveryMode

	// BuildMCPOverrides renders the config as command-line flags. Only
	// meaningful when the delivery mode is cli-overrides.
	BuildMCPOverrides(cfg *MCPConfig) []string

	// ProjectSettingsPath returns a fixed project-relative settings
	// location when the backend reads settings from one, or empty. When
	// non-empty the orchestrator must not pass a generated settings path
	// on the command line.
	ProjectSettingsPath(worktreePath string) string

	// LocalSettingsFiles lists files to propagate from the base repository
	// into new worktrees.
	LocalSettingsFiles() []LocalSettingsFile
}
