package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplate(t *testing.T, dir, file, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0644))
}

func TestDiscover(t *testing.T) {
	repoRoot := t.TempDir()
	wfDir := filepath.Join(repoRoot, DefaultFolder)

	writeTemplate(t, wfDir, "review.md", "---\nname: code-review\n---\n# Review\n")
	writeTemplate(t, wfDir, "tdd.md", "# No frontmatter\n")
	writeTemplate(t, wfDir, "notes.txt", "not a template\n")

	templates, err := Discover(repoRoot, nil)
	require.NoError(t, err)
	require.Len(t, templates, 2)

	// Sorted by name; frontmatter name wins, file stem is the fallback
	assert.Equal(t, "code-review", templates[0].Name)
	assert.Equal(t, filepath.Join(wfDir, "review.md"), templates[0].Path)
	assert.Equal(t, "tdd", templates[1].Name)
}

func TestDiscover_ExtraFolders(t *testing.T) {
	repoRoot := t.TempDir()
	extra := filepath.Join(repoRoot, "docs", "workflows")

	writeTemplate(t, extra, "ship.md", "---\nname: ship-it\n---\n")

	templates, err := Discover(repoRoot, []string{"docs/workflows"})
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "ship-it", templates[0].Name)
}

func TestDiscover_MissingFolders(t *testing.T) {
	templates, err := Discover(t.TempDir(), []string{"no/such/dir"})
	require.NoError(t, err)
	assert.Empty(t, templates)
}

func TestDiscover_DuplicateNamesKeepFirst(t *testing.T) {
	repoRoot := t.TempDir()
	extra := filepath.Join(repoRoot, "extra")

	writeTemplate(t, filepath.Join(repoRoot, DefaultFolder), "a.md", "---\nname: dup\n---\n")
	writeTemplate(t, extra, "b.md", "---\nname: dup\n---\n")

	templates, err := Discover(repoRoot, []string{"extra"})
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Contains(t, templates[0].Path, "a.md")
}

func TestFindByName(t *testing.T) {
	repoRoot := t.TempDir()
	writeTemplate(t, filepath.Join(repoRoot, DefaultFolder), "review.md", "---\nname: code-review\n---\n")

	tpl, err := FindByName(repoRoot, nil, "code-review")
	require.NoError(t, err)
	require.NotNil(t, tpl)
	assert.Contains(t, tpl.Path, "review.md")

	tpl, err = FindByName(repoRoot, nil, "missing")
	require.NoError(t, err)
	assert.Nil(t, tpl)
}
