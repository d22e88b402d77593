package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/grovetools/arbor/command"
	"github.com/grovetools/arbor/errors"
)

// Gateway executes git subcommands against a working directory and returns
// captured output. Arguments are always passed as a discrete list, never
// through a shell, so session and branch names cannot be used for command
// injection.
type Gateway struct {
	cmdBuilder *command.SafeBuilder
}

// NewGateway creates a new git gateway
func NewGateway() *Gateway {
	return &Gateway{
		cmdBuilder: command.NewSafeBuilder(),
	}
}

// NewGatewayWithExecutor creates a gateway with a custom command executor,
// used by tests to intercept subprocess creation.
func NewGatewayWithExecutor(exec command.Executor) *Gateway {
	return &Gateway{
		cmdBuilder: command.NewSafeBuilderWithExecutor(exec),
	}
}

// Run executes a git subcommand in dir and returns trimmed stdout.
// Non-zero exit or spawn failure produces a GIT_OPERATION_FAILED error
// carrying the arguments, exit code and captured stderr.
func (g *Gateway) Run(ctx context.Context, dir string, args ...string) (string, error) {
	return g.runWithTimeout(ctx, dir, command.LocalTimeout, args...)
}

// RunNetwork executes a git subcommand that talks to a remote, with the
// longer network timeout.
func (g *Gateway) RunNetwork(ctx context.Context, dir string, args ...string) (string, error) {
	return g.runWithTimeout(ctx, dir, command.NetworkTimeout, args...)
}

func (g *Gateway) runWithTimeout(ctx context.Context, dir string, timeout time.Duration, args ...string) (string, error) {
	cmd, err := g.cmdBuilder.Build(ctx, "git", args...)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to build git command")
	}
	cmd = cmd.WithTimeout(timeout)

	execCmd := cmd.Exec()
	execCmd.Dir = dir

	var stdout, stderr bytes.Buffer
	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr

	if err := execCmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return "", errors.GitOperationFailed(args, exitCode, strings.TrimSpace(stderr.String()), err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// ValidateRef checks that a string is safe to pass to git as a ref name.
func (g *Gateway) ValidateRef(ref string) error {
	if err := g.cmdBuilder.Validate("gitRef", ref); err != nil {
		return errors.InvalidInput("branch name", err.Error())
	}
	return nil
}

// Root returns the top-level directory of the repository containing dir.
func (g *Gateway) Root(ctx context.Context, dir string) (string, error) {
	return g.Run(ctx, dir, "rev-parse", "--show-toplevel")
}

// CurrentBranch returns the branch checked out in dir.
func (g *Gateway) CurrentBranch(ctx context.Context, dir string) (string, error) {
	return g.Run(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
}
