package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grovetools/arbor/agent"
	"github.com/grovetools/arbor/cli"
	"github.com/grovetools/arbor/command"
	"github.com/grovetools/arbor/errors"
	"github.com/grovetools/arbor/session"
	"github.com/grovetools/arbor/util/sanitize"
)

// NewCreateCmd creates the `create` command
func NewCreateCmd() *cobra.Command {
	cmd := cli.NewStandardCommand(
		"create <session-name>",
		"Create a new session worktree",
	)
	cmd.Long = `Create a session: a git worktree with a branch of the same name, checked
out under the worktrees folder. The branch is created from the current head
unless --from names a source branch (optionally remote-qualified, e.g.
origin/main).`
	cmd.Args = cobra.ExactArgs(1)

	var (
		sourceBranch string
		agentName    string
		terminal     string
		yes          bool
	)
	cmd.Flags().StringVar(&sourceBranch, "from", "", "Source branch for the new session branch")
	cmd.Flags().StringVar(&agentName, "agent", "", "Agent owning the session (defaults from arbor.yml)")
	cmd.Flags().StringVar(&terminal, "terminal", "", "Execution surface recorded for agents without hooks")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Reuse an existing branch without prompting")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts := cli.GetOptions(cmd)
		handler := cli.NewErrorHandler(opts.Verbose)

		cc, err := newCommandContext(cmd)
		if err != nil {
			return handler.Handle(err)
		}

		sessionName := args[0]
		if err := command.ValidateSessionName(sessionName); err != nil {
			if suggestion := sanitize.ForSessionName(sessionName); suggestion != "" && suggestion != sessionName {
				fmt.Fprintf(os.Stderr, "Session name %q is not usable as a branch name; try %q.\n",
					sessionName, suggestion)
			}
			return handler.Handle(errors.InvalidInput("session name", err.Error()))
		}

		if agentName == "" {
			agentName = cc.cfg.DefaultAgent
		}
		d, err := agent.Resolve(agentName)
		if err != nil {
			return handler.Handle(err)
		}

		conflict := func(branch string) session.ConflictResolution {
			if yes {
				return session.UseExisting
			}
			fmt.Fprintf(os.Stderr, "Branch '%s' already exists. Use it for this session? [y/N] ", branch)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if strings.EqualFold(strings.TrimSpace(answer), "y") {
				return session.UseExisting
			}
			return session.Cancel
		}

		wt, err := cc.manager.Create(context.Background(), session.CreateOptions{
			RepoRoot:         cc.repoRoot,
			SessionName:      sessionName,
			SourceBranch:     sourceBranch,
			WorktreesFolder:  cc.cfg.WorktreesFolder,
			Agent:            d,
			PropagationMode:  cc.cfg.SettingsPropagation,
			Terminal:         terminal,
			OnBranchConflict: conflict,
			OnWarning:        warnPrinter(cmd),
		})
		if err != nil {
			return handler.Handle(err)
		}

		fmt.Printf("Created session '%s' at %s\n", sessionName, wt)
		return nil
	}

	return cmd
}
