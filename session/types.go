// Package session implements the session lifecycle: transactional creation
// of worktree-backed workspaces, detection and repair of orphaned worktrees,
// and launch-command resolution for the agent owning a session.
package session

import (
	"github.com/grovetools/arbor/git"
	"github.com/grovetools/arbor/logging"
	"github.com/sirupsen/logrus"
)

// WarningFunc receives non-fatal problems. Components never print directly;
// every recoverable failure is surfaced through this callback.
type WarningFunc func(msg string)

// ConflictResolution is the answer to a branch-conflict prompt during
// session creation.
type ConflictResolution string

const (
	// UseExisting reuses the existing branch for the new session.
	UseExisting ConflictResolution = "use-existing"

	// Cancel aborts the whole creation transaction.
	Cancel ConflictResolution = "cancel"
)

// ConflictFunc decides what to do when the session's branch already exists
// but is not checked out anywhere.
type ConflictFunc func(branch string) ConflictResolution

// BrokenWorktree is a worktree directory whose git link file points at
// metadata that no longer exists. Discovered fresh on each scan, never
// persisted.
type BrokenWorktree struct {
	Path           string
	SessionName    string
	ExpectedBranch string
}

// Manager drives session creation and worktree repair against one
// repository's version control gateway.
type Manager struct {
	gateway        *git.Gateway
	repairExcludes []string
	log            *logrus.Entry
}

// NewManager creates a session manager with a production git gateway.
func NewManager() *Manager {
	return NewManagerWithGateway(git.NewGateway())
}

// NewManagerWithGateway creates a session manager around an existing gateway.
func NewManagerWithGateway(gateway *git.Gateway) *Manager {
	return &Manager{
		gateway: gateway,
		log:     logging.NewLogger("session"),
	}
}

// SetRepairExcludes sets additional patterns skipped when copying user files
// back during repair. Version-control files are always excluded.
func (m *Manager) SetRepairExcludes(patterns []string) {
	m.repairExcludes = patterns
}

func nopWarn(string) {}

// warnFunc returns fn or a no-op so callers never nil-check.
func warnFunc(fn WarningFunc) WarningFunc {
	if fn == nil {
		return nopWarn
	}
	return fn
}
