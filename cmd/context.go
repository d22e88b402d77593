package cmd

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/grovetools/arbor/cli"
	"github.com/grovetools/arbor/config"
	"github.com/grovetools/arbor/git"
	"github.com/grovetools/arbor/session"
)

// commandContext bundles everything a session command needs: the loaded
// configuration, the base repository root, a wired session manager, and a
// flag-configured diagnostics logger.
type commandContext struct {
	cfg      *config.Config
	repoRoot string
	gateway  *git.Gateway
	manager  *session.Manager
	log      *logrus.Logger
}

// newCommandContext loads configuration (honoring --config) and resolves the
// base repository root from the working directory. Commands run from inside a
// session worktree still operate on the main repository.
func newCommandContext(cmd *cobra.Command) (*commandContext, error) {
	opts := cli.GetOptions(cmd)
	log := cli.GetLogger(cmd)

	configPath, err := cli.InitConfig(opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		// No config file anywhere; run on defaults
		cfg, err = config.LoadFromBytes(nil)
	}
	if err != nil {
		return nil, err
	}
	log.WithField("config", configPath).Debug("Resolved configuration")

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	gateway := git.NewGateway()
	repoRoot, err := gateway.MainWorktreeRoot(context.Background(), cwd)
	if err != nil {
		return nil, err
	}

	manager := session.NewManagerWithGateway(gateway)
	manager.SetRepairExcludes(cfg.RepairExcludePatterns)

	return &commandContext{
		cfg:      cfg,
		repoRoot: repoRoot,
		gateway:  gateway,
		manager:  manager,
		log:      log,
	}, nil
}

// warnPrinter returns a WarningFunc that prints to stderr.
func warnPrinter(cmd *cobra.Command) session.WarningFunc {
	return func(msg string) {
		cmd.PrintErrln("Warning: " + msg)
	}
}
