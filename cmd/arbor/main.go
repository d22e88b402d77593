package main

import (
	"os"

	"github.com/grovetools/arbor/cli"
	"github.com/grovetools/arbor/cmd"
	"github.com/grovetools/arbor/version"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"arbor",
		"Session worktrees for AI coding agents",
	)
	cli.SetVersionTemplate(rootCmd, version.GetInfo())

	rootCmd.AddCommand(cmd.NewCreateCmd())
	rootCmd.AddCommand(cmd.NewLaunchCmd())
	rootCmd.AddCommand(cmd.NewListCmd())
	rootCmd.AddCommand(cmd.NewRepairCmd())
	rootCmd.AddCommand(cmd.NewWorkflowsCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
