package git

import (
	"context"

	"github.com/grovetools/arbor/errors"
)

// BranchExists reports whether a local branch exists.
func (g *Gateway) BranchExists(ctx context.Context, repoPath, branch string) (bool, error) {
	if err := g.ValidateRef(branch); err != nil {
		return false, err
	}

	_, err := g.Run(ctx, repoPath, "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	if err != nil {
		// show-ref exits 1 when the ref does not exist; that is not a failure
		if arborErr, ok := err.(*errors.ArborError); ok {
			if code, ok := arborErr.Detail("exitCode").(int); ok && code == 1 {
				return false, nil
			}
		}
		return false, err
	}

	return true, nil
}

// RemoteBranchExists reports whether a remote-tracking branch exists locally.
func (g *Gateway) RemoteBranchExists(ctx context.Context, repoPath, remote, branch string) (bool, error) {
	if err := g.ValidateRef(branch); err != nil {
		return false, err
	}

	_, err := g.Run(ctx, repoPath, "show-ref", "--verify", "--quiet", "refs/remotes/"+remote+"/"+branch)
	if err != nil {
		if arborErr, ok := err.(*errors.ArborError); ok {
			if code, ok := arborErr.Detail("exitCode").(int); ok && code == 1 {
				return false, nil
			}
		}
		return false, err
	}

	return true, nil
}

// MergeBase returns the best common ancestor of two refs.
func (g *Gateway) MergeBase(ctx context.Context, repoPath, refA, refB string) (string, error) {
	if err := g.ValidateRef(refA); err != nil {
		return "", err
	}
	if err := g.ValidateRef(refB); err != nil {
		return "", err
	}

	return g.Run(ctx, repoPath, "merge-base", refA, refB)
}

// Fetch updates a single remote branch. Uses the network timeout since the
// remote may be slow or unreachable.
func (g *Gateway) Fetch(ctx context.Context, repoPath, remote, branch string) error {
	if err := g.ValidateRef(remote); err != nil {
		return err
	}
	if err := g.ValidateRef(branch); err != nil {
		return err
	}

	_, err := g.RunNetwork(ctx, repoPath, "fetch", remote, branch)
	return err
}
