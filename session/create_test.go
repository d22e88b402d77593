package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/arbor/agent"
	"github.com/grovetools/arbor/errors"
	"github.com/grovetools/arbor/testutil"
)

func setupRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.InitGitRepo(t, dir)
	return dir
}

func mustResolve(t *testing.T, name string) agent.Descriptor {
	t.Helper()
	d, err := agent.Resolve(name)
	require.NoError(t, err)
	return d
}

func TestCreateFreshSession(t *testing.T) {
	repo := setupRepo(t)
	m := NewManager()
	ctx := context.Background()

	wt, err := m.Create(ctx, CreateOptions{
		RepoRoot:        repo,
		SessionName:     "feature-auth",
		WorktreesFolder: ".arbor-worktrees",
		Agent:           mustResolve(t, "claude"),
	})
	require.NoError(t, err)

	// Session name, branch name and directory name are all the same token
	assert.Equal(t, filepath.Join(repo, ".arbor-worktrees", "feature-auth"), wt)
	assert.DirExists(t, wt)
	assert.Equal(t, "feature-auth", testutil.GitOutput(t, wt, "rev-parse", "--abbrev-ref", "HEAD"))

	meta, err := ReadMetadata(wt, mustResolve(t, "claude"))
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "claude", meta.AgentName)
	assert.False(t, meta.Timestamp.IsZero())
	assert.Empty(t, meta.Terminal, "hook-capable agents do not record a terminal")
}

func TestCreateRecordsTerminalForHooklessAgent(t *testing.T) {
	repo := setupRepo(t)
	m := NewManager()

	wt, err := m.Create(context.Background(), CreateOptions{
		RepoRoot:        repo,
		SessionName:     "codex-session",
		WorktreesFolder: ".arbor-worktrees",
		Agent:           mustResolve(t, "codex"),
		Terminal:        "tmux",
	})
	require.NoError(t, err)

	meta, err := ReadMetadata(wt, mustResolve(t, "codex"))
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "tmux", meta.Terminal)
}

func TestCreateRejectsInvalidSessionName(t *testing.T) {
	repo := setupRepo(t)
	m := NewManager()

	for _, name := range []string{"", "has space", "../escape", "a/b", ".hidden", "ends.lock"} {
		_, err := m.Create(context.Background(), CreateOptions{
			RepoRoot:        repo,
			SessionName:     name,
			WorktreesFolder: ".arbor-worktrees",
		})
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "name %q should be rejected", name)
	}
}

func TestCreateReusesExistingUnusedBranch(t *testing.T) {
	repo := setupRepo(t)
	testutil.CreateBranch(t, repo, "old-work")
	m := NewManager()

	var asked string
	wt, err := m.Create(context.Background(), CreateOptions{
		RepoRoot:        repo,
		SessionName:     "old-work",
		WorktreesFolder: ".arbor-worktrees",
		OnBranchConflict: func(branch string) ConflictResolution {
			asked = branch
			return UseExisting
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "old-work", asked)
	assert.Equal(t, "old-work", testutil.GitOutput(t, wt, "rev-parse", "--abbrev-ref", "HEAD"))
}

func TestCreateCancelledOnBranchConflict(t *testing.T) {
	repo := setupRepo(t)
	testutil.CreateBranch(t, repo, "old-work")
	m := NewManager()

	_, err := m.Create(context.Background(), CreateOptions{
		RepoRoot:        repo,
		SessionName:     "old-work",
		WorktreesFolder: ".arbor-worktrees",
		OnBranchConflict: func(string) ConflictResolution {
			return Cancel
		},
	})
	assert.True(t, errors.Is(err, errors.ErrCodeSessionCreationCancelled))
	assert.NoDirExists(t, filepath.Join(repo, ".arbor-worktrees", "old-work"))
}

func TestCreateFailsWhenBranchCheckedOutElsewhere(t *testing.T) {
	repo := setupRepo(t)
	other := filepath.Join(t.TempDir(), "other")
	testutil.AddWorktree(t, repo, other, "busy-branch")
	m := NewManager()

	_, err := m.Create(context.Background(), CreateOptions{
		RepoRoot:        repo,
		SessionName:     "busy-branch",
		WorktreesFolder: ".arbor-worktrees",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeBranchAlreadyInUse))

	var arbErr *errors.ArborError
	require.ErrorAs(t, err, &arbErr)
	assert.Equal(t, other, arbErr.Detail("worktreePath"))
}

func TestCreateFromSourceBranch(t *testing.T) {
	repo := setupRepo(t)
	testutil.CreateBranch(t, repo, "develop")
	testutil.RunGitCommand(t, repo, "checkout", "develop")
	testutil.CreateCommit(t, repo, "develop.txt", "only on develop\n")
	testutil.RunGitCommand(t, repo, "checkout", "main")
	m := NewManager()

	wt, err := m.Create(context.Background(), CreateOptions{
		RepoRoot:        repo,
		SessionName:     "from-develop",
		SourceBranch:    "develop",
		WorktreesFolder: ".arbor-worktrees",
	})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(wt, "develop.txt"))
}

func TestCreateFromMissingSourceBranch(t *testing.T) {
	repo := setupRepo(t)
	m := NewManager()

	_, err := m.Create(context.Background(), CreateOptions{
		RepoRoot:        repo,
		SessionName:     "doomed",
		SourceBranch:    "no-such-branch",
		WorktreesFolder: ".arbor-worktrees",
	})
	assert.True(t, errors.Is(err, errors.ErrCodeSourceBranchNotFound))
	assert.NoDirExists(t, filepath.Join(repo, ".arbor-worktrees", "doomed"))
}

func TestCreatePropagatesLocalSettingsCopy(t *testing.T) {
	repo := setupRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".claude"), 0755))
	local := filepath.Join(repo, ".claude", "settings.local.json")
	require.NoError(t, os.WriteFile(local, []byte(`{"key":"value"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "CLAUDE.local.md"), []byte("notes\n"), 0644))
	m := NewManager()

	wt, err := m.Create(context.Background(), CreateOptions{
		RepoRoot:        repo,
		SessionName:     "with-settings",
		WorktreesFolder: ".arbor-worktrees",
		Agent:           mustResolve(t, "claude"),
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(wt, ".claude", "settings.local.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"key":"value"}`, string(data))
	assert.FileExists(t, filepath.Join(wt, "CLAUDE.local.md"))
}

func TestCreatePropagatesLocalSettingsSymlink(t *testing.T) {
	repo := setupRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".claude"), 0755))
	local := filepath.Join(repo, ".claude", "settings.local.json")
	require.NoError(t, os.WriteFile(local, []byte(`{}`), 0644))
	m := NewManager()

	wt, err := m.Create(context.Background(), CreateOptions{
		RepoRoot:        repo,
		SessionName:     "with-links",
		WorktreesFolder: ".arbor-worktrees",
		Agent:           mustResolve(t, "claude"),
		PropagationMode: "symlink",
	})
	require.NoError(t, err)

	dst := filepath.Join(wt, ".claude", "settings.local.json")
	info, err := os.Lstat(dst)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)

	target, err := os.Readlink(dst)
	require.NoError(t, err)
	assert.Equal(t, local, target)
}

func TestListSessions(t *testing.T) {
	repo := setupRepo(t)
	m := NewManager()
	ctx := context.Background()

	for _, name := range []string{"beta", "alpha"} {
		_, err := m.Create(ctx, CreateOptions{
			RepoRoot:        repo,
			SessionName:     name,
			WorktreesFolder: ".arbor-worktrees",
			Agent:           mustResolve(t, "claude"),
		})
		require.NoError(t, err)
	}

	sessions, err := m.List(ctx, repo, ".arbor-worktrees")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "alpha", sessions[0].Name)
	assert.Equal(t, "beta", sessions[1].Name)
	for _, s := range sessions {
		assert.Equal(t, s.Name, s.Branch)
		assert.Equal(t, "claude", s.AgentName)
		assert.False(t, s.Broken)
	}
}

func TestListEmptyWhenFolderMissing(t *testing.T) {
	repo := setupRepo(t)
	m := NewManager()

	sessions, err := m.List(context.Background(), repo, ".arbor-worktrees")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
