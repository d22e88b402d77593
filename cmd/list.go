package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/grovetools/arbor/cli"
)

// NewListCmd creates the `list` command
func NewListCmd() *cobra.Command {
	cmd := cli.NewStandardCommand(
		"list",
		"List session worktrees",
	)
	cmd.Long = `List sessions under the worktrees folder, including broken ones that need
repair.`

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts := cli.GetOptions(cmd)
		handler := cli.NewErrorHandler(opts.Verbose)

		cc, err := newCommandContext(cmd)
		if err != nil {
			return handler.Handle(err)
		}

		sessions, err := cc.manager.List(context.Background(), cc.repoRoot, cc.cfg.WorktreesFolder)
		if err != nil {
			return handler.Handle(err)
		}

		if opts.JSONOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(sessions)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tAGENT\tBRANCH\tSTATUS")
		for _, s := range sessions {
			status := "ok"
			if s.Broken {
				status = "broken"
			}
			agentName := s.AgentName
			if agentName == "" {
				agentName = "-"
			}
			branch := s.Branch
			if branch == "" {
				branch = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Name, agentName, branch, status)
		}
		return w.Flush()
	}

	return cmd
}
