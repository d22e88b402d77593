package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/grovetools/arbor/agent"
	"github.com/grovetools/arbor/command"
	"github.com/grovetools/arbor/errors"
)

// CreateOptions are the inputs to the session creation transaction. The
// session name must already be validated by the caller; it is defensively
// re-checked at the version-control boundary.
type CreateOptions struct {
	// RepoRoot is the base repository root.
	RepoRoot string

	// SessionName doubles as the branch name and the worktree directory
	// name.
	SessionName string

	// SourceBranch optionally names the branch the session branches from,
	// possibly remote-qualified ("origin/main"). Empty means the current
	// head.
	SourceBranch string

	// WorktreesFolder is the directory that holds session worktrees,
	// relative to RepoRoot unless absolute.
	WorktreesFolder string

	// Agent, when set, seeds session metadata in the new workspace.
	Agent agent.Descriptor

	// PropagationMode selects how local settings files are propagated:
	// "copy" or "symlink".
	PropagationMode string

	// Terminal is the execution-surface hint recorded for agents without
	// lifecycle hooks.
	Terminal string

	// OnBranchConflict decides what to do when the branch already exists
	// but is unused. Nil defaults to reusing it.
	OnBranchConflict ConflictFunc

	// OnWarning receives non-fatal problems.
	OnWarning WarningFunc
}

// Create runs the session creation transaction and returns the absolute
// worktree path. Any failure before the worktree materializes aborts loudly;
// propagation and metadata seeding failures degrade to warnings.
func (m *Manager) Create(ctx context.Context, opts CreateOptions) (string, error) {
	warn := warnFunc(opts.OnWarning)

	if err := command.ValidateSessionName(opts.SessionName); err != nil {
		return "", errors.InvalidInput("session name", err.Error())
	}

	worktreesFolder := opts.WorktreesFolder
	if !filepath.IsAbs(worktreesFolder) {
		worktreesFolder = filepath.Join(opts.RepoRoot, worktreesFolder)
	}

	if err := os.MkdirAll(worktreesFolder, 0o755); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to create worktrees folder").
			WithDetail("path", worktreesFolder)
	}

	branchExists, err := m.gateway.BranchExists(ctx, opts.RepoRoot, opts.SessionName)
	if err != nil {
		return "", err
	}

	createBranch := !branchExists
	startPoint := ""

	if branchExists {
		// git forbids the same branch in two worktrees
		branches, err := m.gateway.BranchesInWorktrees(ctx, opts.RepoRoot)
		if err != nil {
			return "", err
		}
		if usedAt, ok := branches[opts.SessionName]; ok {
			return "", errors.BranchAlreadyInUse(opts.SessionName, usedAt)
		}

		resolve := opts.OnBranchConflict
		if resolve == nil {
			resolve = func(string) ConflictResolution { return UseExisting }
		}
		if resolve(opts.SessionName) == Cancel {
			return "", errors.SessionCreationCancelled(opts.SessionName)
		}

		m.log.WithField("branch", opts.SessionName).Debug("Reusing existing branch for session")
	} else if opts.SourceBranch != "" {
		startPoint, err = m.resolveSourceBranch(ctx, opts.RepoRoot, opts.SourceBranch, warn)
		if err != nil {
			return "", err
		}
	} else {
		if head, headErr := m.gateway.CurrentBranch(ctx, opts.RepoRoot); headErr == nil {
			m.log.WithField("head", head).Debug("Creating session branch from current head")
		}
	}

	worktreePath := filepath.Join(worktreesFolder, opts.SessionName)
	if err := m.gateway.AddWorktree(ctx, opts.RepoRoot, worktreePath, opts.SessionName, createBranch, startPoint); err != nil {
		return "", err
	}

	m.log.WithFields(map[string]interface{}{
		"session":  opts.SessionName,
		"worktree": worktreePath,
	}).Info("Created session worktree")

	// The workspace is usable from here on; remaining steps degrade to
	// warnings.
	if opts.Agent != nil {
		if err := PropagateLocalSettings(opts.RepoRoot, worktreePath, opts.PropagationMode, opts.Agent); err != nil {
			warn(fmt.Sprintf("failed to propagate local settings: %v", err))
		}

		meta := &Metadata{
			AgentName: opts.Agent.Name(),
			Timestamp: time.Now().UTC(),
		}
		if !opts.Agent.SupportsHooks() {
			meta.Terminal = opts.Terminal
		}
		if err := WriteMetadata(worktreePath, opts.Agent, meta); err != nil {
			warn(fmt.Sprintf("failed to seed session metadata: %v", err))
		}
	}

	return worktreePath, nil
}

// resolveSourceBranch validates the requested source branch and returns the
// start point for the new session branch. A remote-qualified source is
// fetched best-effort; a fetch failure only warns, and creation proceeds
// against local state when present.
func (m *Manager) resolveSourceBranch(ctx context.Context, repoRoot, source string, warn WarningFunc) (string, error) {
	if err := m.gateway.ValidateRef(source); err != nil {
		return "", err
	}

	remote, branch := "", source
	if idx := strings.Index(source, "/"); idx > 0 {
		remote, branch = source[:idx], source[idx+1:]
	}

	if remote != "" {
		if err := m.gateway.Fetch(ctx, repoRoot, remote, branch); err != nil {
			warn(fmt.Sprintf("could not fetch %s/%s, falling back to local state: %v", remote, branch, err))
		}
	}

	// The full source string may itself be a local branch ("feature/x")
	localExists, err := m.gateway.BranchExists(ctx, repoRoot, source)
	if err != nil {
		return "", err
	}
	if localExists {
		return source, nil
	}

	if remote != "" {
		remoteExists, err := m.gateway.RemoteBranchExists(ctx, repoRoot, remote, branch)
		if err != nil {
			return "", err
		}
		if remoteExists {
			return remote + "/" + branch, nil
		}
	}

	return "", errors.SourceBranchNotFound(source)
}
