package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grovetools/arbor/cli"
	"github.com/grovetools/arbor/errors"
	"github.com/grovetools/arbor/session"
)

// NewRepairCmd creates the `repair` command
func NewRepairCmd() *cobra.Command {
	cmd := cli.NewStandardCommand(
		"repair [session-name]",
		"Repair orphaned session worktrees",
	)
	cmd.Long = `Find session worktrees whose git metadata has been destroyed (typically by
an overeager cleanup tool) and rebuild them in place. User files in the broken
worktree are preserved: the directory is backed up, a fresh worktree is
created on the same branch, and the files are copied back.

Without an argument every broken session is repaired. --dry-run only lists
what would be repaired.`
	cmd.Args = cobra.MaximumNArgs(1)

	var dryRun bool
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List broken sessions without repairing")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts := cli.GetOptions(cmd)
		handler := cli.NewErrorHandler(opts.Verbose)

		cc, err := newCommandContext(cmd)
		if err != nil {
			return handler.Handle(err)
		}

		folder := filepath.Join(cc.repoRoot, cc.cfg.WorktreesFolder)
		broken, err := cc.manager.DetectBroken(folder)
		if err != nil {
			return handler.Handle(err)
		}

		if len(args) == 1 {
			broken = filterBroken(broken, args[0])
			if len(broken) == 0 {
				return handler.Handle(errors.New(errors.ErrCodeInvalidInput,
					fmt.Sprintf("session '%s' is not broken or does not exist", args[0])))
			}
		}

		if len(broken) == 0 {
			fmt.Println("No broken sessions found.")
			return nil
		}

		if dryRun {
			fmt.Printf("Found %d broken session(s):\n", len(broken))
			for _, bw := range broken {
				fmt.Printf("  %s (%s)\n", bw.SessionName, bw.Path)
			}
			return nil
		}

		progress := cli.NewProgressReporter()
		warn := warnPrinter(cmd)
		failed := 0
		for _, bw := range broken {
			progress.Update(bw.SessionName, "repairing")
			if err := cc.manager.Repair(context.Background(), cc.repoRoot, bw, warn); err != nil {
				progress.Update(bw.SessionName, "failed")
				handler.Handle(err)
				failed++
				continue
			}
			progress.Update(bw.SessionName, "repaired")
		}
		progress.Done()

		if failed > 0 {
			return fmt.Errorf("%d of %d session(s) could not be repaired", failed, len(broken))
		}
		return nil
	}

	return cmd
}

func filterBroken(broken []session.BrokenWorktree, name string) []session.BrokenWorktree {
	var out []session.BrokenWorktree
	for _, bw := range broken {
		if bw.SessionName == name {
			out = append(out, bw)
		}
	}
	return out
}
