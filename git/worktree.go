package git

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/grovetools/arbor/errors"
)

// WorktreeInfo contains information about a git worktree
type WorktreeInfo struct {
	Path   string
	Branch string
	Commit string
	Bare   bool
}

// ListWorktrees returns all worktrees for the repository containing repoPath
func (g *Gateway) ListWorktrees(ctx context.Context, repoPath string) ([]WorktreeInfo, error) {
	output, err := g.Run(ctx, repoPath, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}

	return parseWorktreeList(output), nil
}

// AddWorktree materializes a worktree at worktreePath. When createBranch is
// true a new branch is created from startPoint (HEAD when empty); otherwise
// the existing branch is checked out.
func (g *Gateway) AddWorktree(ctx context.Context, repoPath, worktreePath, branch string, createBranch bool, startPoint string) error {
	if err := g.ValidateRef(branch); err != nil {
		return err
	}

	args := []string{"worktree", "add"}
	if createBranch {
		args = append(args, "-b", branch)
	}
	args = append(args, worktreePath)
	if createBranch {
		if startPoint != "" {
			args = append(args, startPoint)
		}
	} else {
		args = append(args, branch)
	}

	_, err := g.Run(ctx, repoPath, args...)
	return err
}

// FindWorktreeForBranch returns the worktree that has branch checked out,
// or nil if no worktree uses it.
func (g *Gateway) FindWorktreeForBranch(ctx context.Context, repoPath, branch string) (*WorktreeInfo, error) {
	worktrees, err := g.ListWorktrees(ctx, repoPath)
	if err != nil {
		return nil, err
	}

	for i := range worktrees {
		if worktrees[i].Branch == branch {
			return &worktrees[i], nil
		}
	}

	return nil, nil
}

// BranchesInWorktrees returns the set of branches currently checked out in
// worktrees, mapped to the worktree path using each one. Bare and detached
// entries are skipped.
func (g *Gateway) BranchesInWorktrees(ctx context.Context, repoPath string) (map[string]string, error) {
	worktrees, err := g.ListWorktrees(ctx, repoPath)
	if err != nil {
		return nil, err
	}

	branches := make(map[string]string, len(worktrees))
	for _, wt := range worktrees {
		if wt.Bare || wt.Branch == "" {
			continue
		}
		branches[wt.Branch] = wt.Path
	}

	return branches, nil
}

// MainWorktreeRoot returns the path of the main worktree for the repository
// containing dir. git lists the main worktree first.
func (g *Gateway) MainWorktreeRoot(ctx context.Context, dir string) (string, error) {
	worktrees, err := g.ListWorktrees(ctx, dir)
	if err != nil {
		return "", err
	}
	if len(worktrees) == 0 {
		return "", errors.New(errors.ErrCodeGitOperationFailed, "could not determine main worktree root")
	}
	return worktrees[0].Path, nil
}

// parseWorktreeList parses git worktree list --porcelain output
func parseWorktreeList(output string) []WorktreeInfo {
	var worktrees []WorktreeInfo
	lines := strings.Split(output, "\n")

	var current WorktreeInfo
	for _, line := range lines {
		if line == "" {
			if current.Path != "" {
				worktrees = append(worktrees, current)
				current = WorktreeInfo{}
			}
			continue
		}

		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			if parts[0] == "bare" {
				current.Bare = true
			}
			continue
		}

		switch parts[0] {
		case "worktree":
			current.Path = filepath.Clean(parts[1])
		case "HEAD":
			current.Commit = parts[1]
		case "branch":
			current.Branch = strings.TrimPrefix(parts[1], "refs/heads/")
		}
	}

	if current.Path != "" {
		worktrees = append(worktrees, current)
	}

	return worktrees
}
