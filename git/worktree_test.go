package git

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/arbor/testutil"
)

func TestGateway_ListWorktrees(t *testing.T) {
	tmpDir := t.TempDir()
	testutil.InitGitRepo(t, tmpDir)

	worktreePath := filepath.Join(tmpDir, "feature-wt")
	testutil.AddWorktree(t, tmpDir, worktreePath, "feature")

	g := NewGateway()

	worktrees, err := g.ListWorktrees(context.Background(), tmpDir)
	require.NoError(t, err)
	assert.Len(t, worktrees, 2) // Main + new worktree

	var found bool
	for _, wt := range worktrees {
		if wt.Branch == "feature" {
			found = true
			assert.Contains(t, wt.Path, "feature-wt")
			break
		}
	}
	assert.True(t, found, "feature worktree should be found")
}

func TestGateway_AddWorktree(t *testing.T) {
	ctx := context.Background()

	t.Run("new branch from head", func(t *testing.T) {
		tmpDir := t.TempDir()
		testutil.InitGitRepo(t, tmpDir)
		g := NewGateway()

		worktreePath := filepath.Join(tmpDir, "wt", "feature-x")
		require.NoError(t, g.AddWorktree(ctx, tmpDir, worktreePath, "feature-x", true, ""))

		exists, err := g.BranchExists(ctx, tmpDir, "feature-x")
		require.NoError(t, err)
		assert.True(t, exists)

		wt, err := g.FindWorktreeForBranch(ctx, tmpDir, "feature-x")
		require.NoError(t, err)
		require.NotNil(t, wt)
		assert.Equal(t, "feature-x", filepath.Base(wt.Path))
	})

	t.Run("existing branch", func(t *testing.T) {
		tmpDir := t.TempDir()
		testutil.InitGitRepo(t, tmpDir)
		testutil.CreateBranch(t, tmpDir, "existing")
		g := NewGateway()

		worktreePath := filepath.Join(tmpDir, "wt", "existing")
		require.NoError(t, g.AddWorktree(ctx, tmpDir, worktreePath, "existing", false, ""))

		wt, err := g.FindWorktreeForBranch(ctx, tmpDir, "existing")
		require.NoError(t, err)
		require.NotNil(t, wt)
	})

	t.Run("invalid branch name", func(t *testing.T) {
		tmpDir := t.TempDir()
		testutil.InitGitRepo(t, tmpDir)
		g := NewGateway()

		err := g.AddWorktree(ctx, tmpDir, filepath.Join(tmpDir, "wt", "bad"), "bad; rm -rf /", true, "")
		assert.Error(t, err)
	})
}

func TestGateway_BranchesInWorktrees(t *testing.T) {
	tmpDir := t.TempDir()
	testutil.InitGitRepo(t, tmpDir)
	g := NewGateway()
	ctx := context.Background()

	testutil.AddWorktree(t, tmpDir, filepath.Join(tmpDir, "wt", "a"), "branch-a")
	testutil.AddWorktree(t, tmpDir, filepath.Join(tmpDir, "wt", "b"), "branch-b")

	branches, err := g.BranchesInWorktrees(ctx, tmpDir)
	require.NoError(t, err)

	// main + two worktree branches, each checked out exactly once
	assert.Len(t, branches, 3)
	assert.Contains(t, branches, "branch-a")
	assert.Contains(t, branches, "branch-b")
	assert.Contains(t, branches, "main")
}

func TestParseWorktreeList(t *testing.T) {
	output := `worktree /path/to/main
HEAD abcdef1234567890
branch refs/heads/main

worktree /path/to/feature
HEAD 1234567890abcdef
branch refs/heads/feature

worktree /path/to/detached
HEAD fedcba0987654321
detached
`

	worktrees := parseWorktreeList(output)

	require.Len(t, worktrees, 3)
	assert.Equal(t, "/path/to/main", worktrees[0].Path)
	assert.Equal(t, "main", worktrees[0].Branch)
	assert.Equal(t, "abcdef1234567890", worktrees[0].Commit)

	assert.Equal(t, "/path/to/feature", worktrees[1].Path)
	assert.Equal(t, "feature", worktrees[1].Branch)

	assert.Equal(t, "/path/to/detached", worktrees[2].Path)
	assert.Empty(t, worktrees[2].Branch)
}
