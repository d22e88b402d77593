package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grovetools/arbor/cli"
	"github.com/grovetools/arbor/session"
)

// NewLaunchCmd creates the `launch` command
func NewLaunchCmd() *cobra.Command {
	cmd := cli.NewStandardCommand(
		"launch [session-name]",
		"Resolve the launch command for a session",
	)
	cmd.Long = `Resolve everything needed to launch the agent owning a session: regenerate
its settings and MCP configuration, then print the command to run inside the
worktree. An existing recorded session is resumed; otherwise a fresh agent
process is started.

With no argument the current directory must be inside a session worktree.`
	cmd.Args = cobra.MaximumNArgs(1)

	var (
		agentName      string
		permissionMode string
		workflowRef    string
		prompt         string
	)
	cmd.Flags().StringVar(&agentName, "agent", "", "Override the agent recorded in session metadata")
	cmd.Flags().StringVar(&permissionMode, "permission-mode", "", "Permission mode passed through to the agent")
	cmd.Flags().StringVar(&workflowRef, "workflow", "", "Workflow template name or absolute path")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Initial prompt for a fresh start")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts := cli.GetOptions(cmd)
		handler := cli.NewErrorHandler(opts.Verbose)

		cc, err := newCommandContext(cmd)
		if err != nil {
			return handler.Handle(err)
		}

		worktreePath, err := resolveWorktreePath(cc, args)
		if err != nil {
			return handler.Handle(err)
		}

		o := session.NewOrchestrator(cc.manager)
		lc, err := o.PrepareLaunch(session.LaunchOptions{
			RepoRoot:        cc.repoRoot,
			WorktreePath:    worktreePath,
			AgentName:       agentName,
			PermissionMode:  permissionMode,
			Workflow:        workflowRef,
			WorkflowFolders: cc.cfg.WorkflowFolders,
			InitialPrompt:   prompt,
			OnWarning:       warnPrinter(cmd),
		})
		if err != nil {
			return handler.Handle(err)
		}

		cc.log.WithFields(map[string]interface{}{
			"agent":          lc.AgentName,
			"mode":           lc.Mode,
			"permissionMode": lc.PermissionMode,
			"workflow":       lc.Workflow,
		}).Debug("Resolved launch")

		fmt.Println(lc.Command)
		return nil
	}

	return cmd
}

// resolveWorktreePath turns an optional session-name argument into a worktree
// path. Without an argument the working directory itself must be a session
// worktree.
func resolveWorktreePath(cc *commandContext, args []string) (string, error) {
	if len(args) == 1 {
		return filepath.Join(cc.repoRoot, cc.cfg.WorktreesFolder, args[0]), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return cwd, nil
}
