package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/grovetools/arbor/cli"
	"github.com/grovetools/arbor/workflow"
)

// NewWorkflowsCmd creates the `workflows` command
func NewWorkflowsCmd() *cobra.Command {
	cmd := cli.NewStandardCommand(
		"workflows",
		"List available workflow templates",
	)
	cmd.Long = `List workflow templates discovered under .arbor/workflows and any extra
folders configured in arbor.yml.`

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts := cli.GetOptions(cmd)
		handler := cli.NewErrorHandler(opts.Verbose)

		cc, err := newCommandContext(cmd)
		if err != nil {
			return handler.Handle(err)
		}

		templates, err := workflow.Discover(cc.repoRoot, cc.cfg.WorkflowFolders)
		if err != nil {
			return handler.Handle(err)
		}

		if opts.JSONOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(templates)
		}

		if len(templates) == 0 {
			fmt.Println("No workflow templates found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPATH")
		for _, tmpl := range templates {
			fmt.Fprintf(w, "%s\t%s\n", tmpl.Name, tmpl.Path)
		}
		return w.Flush()
	}

	return cmd
}
