package session

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/grovetools/arbor/errors"
	"github.com/grovetools/arbor/util/pathutil"
)

// Info is one session as shown in listings. Broken sessions are listed too,
// flagged instead of hidden, so repair has something to point at.
type Info struct {
	Name      string
	Path      string
	Branch    string
	AgentName string
	SessionID string
	Workflow  string
	CreatedAt time.Time
	Broken    bool
}

// List enumerates the sessions under the worktrees folder, joining the
// directory scan with the repository's registered worktrees and each
// session's persisted metadata. A directory whose worktree registration is
// gone shows up flagged as broken.
func (m *Manager) List(ctx context.Context, repoRoot, worktreesFolder string) ([]Info, error) {
	if !filepath.IsAbs(worktreesFolder) {
		worktreesFolder = filepath.Join(repoRoot, worktreesFolder)
	}

	entries, err := os.ReadDir(worktreesFolder)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to scan worktrees folder").
			WithDetail("path", worktreesFolder)
	}

	worktrees, err := m.gateway.ListWorktrees(ctx, repoRoot)
	if err != nil {
		return nil, err
	}
	// Keyed by normalized path; git may report worktrees through resolved
	// symlinks (e.g. /private/tmp on macOS)
	branchByPath := make(map[string]string, len(worktrees))
	for _, wt := range worktrees {
		key, err := pathutil.NormalizeForLookup(wt.Path)
		if err != nil {
			key = filepath.Clean(wt.Path)
		}
		branchByPath[key] = wt.Branch
	}

	var sessions []Info
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		path := filepath.Join(worktreesFolder, entry.Name())
		info := Info{
			Name: entry.Name(),
			Path: path,
		}

		key, err := pathutil.NormalizeForLookup(path)
		if err != nil {
			key = filepath.Clean(path)
		}
		if branch, ok := branchByPath[key]; ok {
			info.Branch = branch
		} else {
			info.Broken = true
		}

		if d, meta, err := ResolveAgent(path); err == nil {
			info.AgentName = d.Name()
			info.SessionID = meta.SessionID
			info.Workflow = meta.Workflow
			info.CreatedAt = meta.Timestamp
		}

		sessions = append(sessions, info)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Name < sessions[j].Name
	})

	return sessions, nil
}
