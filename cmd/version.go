package cmd

import (
	"github.com/spf13/cobra"

	"github.com/grovetools/arbor/cli"
)

// NewVersionCmd creates the `version` command
func NewVersionCmd() *cobra.Command {
	return cli.NewVersionCommand("arbor")
}
