package git

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/arbor/errors"
	"github.com/grovetools/arbor/testutil"
)

func TestGateway_BranchExists(t *testing.T) {
	tmpDir := t.TempDir()
	testutil.InitGitRepo(t, tmpDir)
	testutil.CreateBranch(t, tmpDir, "feature")
	g := NewGateway()
	ctx := context.Background()

	exists, err := g.BranchExists(ctx, tmpDir, "feature")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = g.BranchExists(ctx, tmpDir, "nope")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = g.BranchExists(ctx, tmpDir, "bad name")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
}

func TestGateway_MergeBase(t *testing.T) {
	tmpDir := t.TempDir()
	testutil.InitGitRepo(t, tmpDir)
	g := NewGateway()
	ctx := context.Background()

	base := testutil.GitOutput(t, tmpDir, "rev-parse", "HEAD")

	testutil.CreateBranch(t, tmpDir, "feature")
	testutil.CreateCommit(t, tmpDir, "extra.txt", "content\n")

	got, err := g.MergeBase(ctx, tmpDir, "main", "feature")
	require.NoError(t, err)
	assert.Equal(t, base, got)
}

func TestGateway_CurrentBranch(t *testing.T) {
	tmpDir := t.TempDir()
	testutil.InitGitRepo(t, tmpDir)
	g := NewGateway()
	ctx := context.Background()

	branch, err := g.CurrentBranch(ctx, tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)

	testutil.CreateBranch(t, tmpDir, "feature")
	testutil.RunGitCommand(t, tmpDir, "checkout", "feature")

	branch, err = g.CurrentBranch(ctx, tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "feature", branch)
}

func TestGateway_RunFailure(t *testing.T) {
	tmpDir := t.TempDir() // not a git repository
	g := NewGateway()

	_, err := g.Run(context.Background(), tmpDir, "worktree", "list", "--porcelain")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeGitOperationFailed, errors.GetCode(err))

	arborErr, ok := err.(*errors.ArborError)
	require.True(t, ok)
	assert.NotNil(t, arborErr.Detail("exitCode"))
	assert.NotEmpty(t, arborErr.Detail("stderr"))
}

func TestGateway_Fetch_BadRemote(t *testing.T) {
	tmpDir := t.TempDir()
	testutil.InitGitRepo(t, tmpDir)
	g := NewGateway()

	err := g.Fetch(context.Background(), tmpDir, "nosuchremote", "main")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeGitOperationFailed, errors.GetCode(err))
}
