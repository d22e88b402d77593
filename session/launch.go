package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/arbor/agent"
	"github.com/grovetools/arbor/errors"
	"github.com/grovetools/arbor/logging"
	"github.com/grovetools/arbor/settings"
	"github.com/grovetools/arbor/workflow"
)

// DefaultPermissionMode seeds new sessions that never chose a mode. The value
// is passed through to the backend untouched.
const DefaultPermissionMode = "acceptEdits"

// mcpConfigFileName is the sibling config file written for backends with
// command-line MCP delivery.
const mcpConfigFileName = "arbor-mcp.json"

// LaunchOptions are the inputs to launch resolution. Everything except the
// worktree path is optional; unset fields fall back to persisted session
// metadata and then to defaults.
type LaunchOptions struct {
	// RepoRoot is the base repository root, used to resolve workflow
	// templates by name.
	RepoRoot string

	// WorktreePath is the session workspace being launched into.
	WorktreePath string

	// AgentName overrides metadata-based agent resolution when set.
	AgentName string

	// PermissionMode overrides the persisted permission mode when set.
	PermissionMode string

	// Workflow names a workflow template, or is an absolute path to one.
	// Empty falls back to the persisted workflow.
	Workflow string

	// WorkflowFolders are extra template folders searched during
	// name-based workflow resolution.
	WorkflowFolders []string

	// InitialPrompt is handed to the backend on a fresh start.
	InitialPrompt string

	// OnWarning receives non-fatal problems.
	OnWarning WarningFunc
}

// LaunchContext is the fully resolved result of launch preparation: the
// command to execute plus everything that was decided along the way.
type LaunchContext struct {
	// Command is the shell-quoted command line to run inside the worktree.
	Command string

	// Mode is "start" or "resume".
	Mode string

	// AgentName is the backend the command targets.
	AgentName string

	// SessionID is the resumed session identifier, empty on a fresh start.
	SessionID string

	// PermissionMode is the effective permission mode.
	PermissionMode string

	// Workflow is the effective workflow template path, empty when the
	// session runs without one.
	Workflow string

	// SettingsPath is where the generated settings document was written.
	SettingsPath string

	// MCPConfigPath is the sibling MCP config file, when one was written.
	MCPConfigPath string

	// MCPOverrides are the command-line override flags, when the backend
	// takes its MCP config that way.
	MCPOverrides []string
}

// Orchestrator resolves launch parameters, regenerates per-session settings
// and MCP configuration, and produces the agent command line.
type Orchestrator struct {
	manager *Manager

	// warnedWorkflows dedupes the unresolved-workflow warning so repeated
	// launches of the same session warn once per orchestrator.
	warnedWorkflows map[string]bool

	log *logrus.Entry
}

// NewOrchestrator creates a launch orchestrator on top of a session manager.
func NewOrchestrator(manager *Manager) *Orchestrator {
	return &Orchestrator{
		manager:         manager,
		warnedWorkflows: make(map[string]bool),
		log:             logging.NewLogger("launch"),
	}
}

// PrepareLaunch resolves the effective agent, permission mode and workflow for
// a session, regenerates its settings and MCP configuration from scratch, and
// builds the start or resume command. Resolved values are persisted back to
// session metadata so the next launch sees them.
func (o *Orchestrator) PrepareLaunch(opts LaunchOptions) (*LaunchContext, error) {
	warn := warnFunc(opts.OnWarning)

	d, meta, err := o.resolveDescriptor(opts)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		meta = &Metadata{AgentName: d.Name()}
	}

	permissionMode := opts.PermissionMode
	if permissionMode == "" {
		permissionMode = meta.PermissionMode
	}
	if permissionMode == "" {
		permissionMode = DefaultPermissionMode
	}

	workflowRef := opts.Workflow
	if workflowRef == "" {
		workflowRef = meta.Workflow
	}
	workflowPath := o.resolveWorkflow(opts.RepoRoot, opts.WorkflowFolders, opts.WorktreePath, workflowRef, warn)

	lc := &LaunchContext{
		AgentName:      d.Name(),
		PermissionMode: permissionMode,
		Workflow:       workflowPath,
	}

	cmdOpts := agent.CommandOptions{
		PermissionMode: permissionMode,
		InitialPrompt:  opts.InitialPrompt,
	}

	if err := o.writeSettings(d, opts, workflowPath, lc, &cmdOpts); err != nil {
		return nil, err
	}
	if err := o.deliverMCPConfig(d, opts, workflowPath, lc, &cmdOpts); err != nil {
		return nil, err
	}

	// Persist the decisions so a bare relaunch repeats them
	meta.PermissionMode = permissionMode
	meta.Workflow = workflowRef
	if err := WriteMetadata(opts.WorktreePath, d, meta); err != nil {
		warn(fmt.Sprintf("failed to update session metadata: %v", err))
	}

	if meta.SessionID != "" {
		cmd, err := d.BuildResumeCommand(meta.SessionID, cmdOpts)
		if err == nil {
			lc.Command = cmd
			lc.Mode = "resume"
			lc.SessionID = meta.SessionID
			return lc, nil
		}
		if !errors.Is(err, errors.ErrCodeInvalidSessionID) {
			return nil, err
		}
		warn(fmt.Sprintf("recorded session id %q is not resumable, starting fresh: %v", meta.SessionID, err))
	}

	cmd, err := d.BuildStartCommand(cmdOpts)
	if err != nil {
		return nil, err
	}
	lc.Command = cmd
	lc.Mode = "start"

	o.log.WithFields(map[string]interface{}{
		"agent":    d.Name(),
		"mode":     lc.Mode,
		"worktree": opts.WorktreePath,
	}).Debug("Prepared launch command")

	return lc, nil
}

// resolveDescriptor picks the backend for a launch: an explicit agent name
// wins, otherwise the persisted metadata decides.
func (o *Orchestrator) resolveDescriptor(opts LaunchOptions) (agent.Descriptor, *Metadata, error) {
	if opts.AgentName != "" {
		d, err := agent.Resolve(opts.AgentName)
		if err != nil {
			return nil, nil, err
		}
		meta, err := ReadMetadata(opts.WorktreePath, d)
		if err != nil {
			return nil, nil, err
		}
		return d, meta, nil
	}

	return ResolveAgent(opts.WorktreePath)
}

// resolveWorkflow turns a workflow reference into a template path. An
// absolute path to an existing file is taken as-is; anything else is looked
// up by name. An unresolvable reference degrades to no workflow, warning once
// per reference.
func (o *Orchestrator) resolveWorkflow(repoRoot string, folders []string, worktreePath, ref string, warn WarningFunc) string {
	if ref == "" {
		return ""
	}

	if filepath.IsAbs(ref) {
		if info, err := os.Stat(ref); err == nil && info.Mode().IsRegular() {
			return ref
		}
	} else {
		tmpl, err := workflow.FindByName(repoRoot, folders, ref)
		if err == nil && tmpl != nil {
			return tmpl.Path
		}
	}

	key := worktreePath + "\x00" + ref
	if !o.warnedWorkflows[key] {
		o.warnedWorkflows[key] = true
		warn(fmt.Sprintf("workflow %q not found, launching without one", ref))
	}
	return ""
}

// writeSettings regenerates the session's settings document. The target is
// the backend's fixed project location when it has one, otherwise the
// generated file inside the agent's data directory, which is then passed on
// the command line.
func (o *Orchestrator) writeSettings(d agent.Descriptor, opts LaunchOptions, workflowPath string, lc *LaunchContext, cmdOpts *agent.CommandOptions) error {
	target := d.ProjectSettingsPath(opts.WorktreePath)
	fixedLocation := target != ""
	if !fixedLocation {
		target = filepath.Join(opts.WorktreePath, d.DataDirectory(), d.SettingsFileName())
	}

	doc, err := settings.ReadOrEmpty(target)
	if err != nil {
		return err
	}

	if d.SupportsMCP() && d.MCPConfigDelivery() == agent.DeliverySettings {
		cfg := d.MCPConfig(opts.WorktreePath, workflowPath, opts.RepoRoot)
		if cfg != nil {
			servers := make(map[string]interface{}, len(cfg.Servers))
			for name, srv := range cfg.Servers {
				servers[name] = map[string]interface{}{
					"command": srv.Command,
					"args":    srv.Args,
				}
			}
			doc["mcpServers"] = servers
		} else {
			delete(doc, "mcpServers")
		}
	}

	if err := settings.Write(target, doc); err != nil {
		return err
	}

	lc.SettingsPath = target
	if !fixedLocation {
		cmdOpts.SettingsPath = target
	}
	return nil
}

// deliverMCPConfig handles the command-line delivery modes: a sibling config
// file for cli delivery, rendered override flags for cli-overrides. Settings
// embedding already happened during settings generation.
func (o *Orchestrator) deliverMCPConfig(d agent.Descriptor, opts LaunchOptions, workflowPath string, lc *LaunchContext, cmdOpts *agent.CommandOptions) error {
	if !d.SupportsMCP() {
		return nil
	}

	cfg := d.MCPConfig(opts.WorktreePath, workflowPath, opts.RepoRoot)

	switch d.MCPConfigDelivery() {
	case agent.DeliveryCLI:
		if cfg == nil {
			return nil
		}
		path := filepath.Join(opts.WorktreePath, d.DataDirectory(), mcpConfigFileName)
		doc := map[string]interface{}{}
		servers := make(map[string]interface{}, len(cfg.Servers))
		for name, srv := range cfg.Servers {
			servers[name] = map[string]interface{}{
				"command": srv.Command,
				"args":    srv.Args,
			}
		}
		doc["mcpServers"] = servers
		if err := settings.Write(path, doc); err != nil {
			return err
		}
		lc.MCPConfigPath = path
		cmdOpts.MCPConfigPath = path

	case agent.DeliveryCLIOverrides:
		if cfg == nil {
			return nil
		}
		overrides := d.BuildMCPOverrides(cfg)
		lc.MCPOverrides = overrides
		cmdOpts.MCPOverrides = overrides
	}

	return nil
}
