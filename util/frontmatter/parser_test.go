package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseString(t *testing.T) {
	t.Run("full frontmatter", func(t *testing.T) {
		content := `---
name: code-review
description: "Guided review workflow"
agent: claude
---

# Steps
`
		meta, err := ParseString(content)
		require.NoError(t, err)
		assert.Equal(t, "code-review", meta.Name)
		assert.Equal(t, "Guided review workflow", meta.Description)
		assert.Equal(t, "claude", meta.Agent)
	})

	t.Run("no frontmatter", func(t *testing.T) {
		meta, err := ParseString("# Just a heading\n\nBody text.\n")
		require.NoError(t, err)
		assert.Empty(t, meta.Name)
	})

	t.Run("stops at closing separator", func(t *testing.T) {
		content := `---
name: first
---
name: second
`
		meta, err := ParseString(content)
		require.NoError(t, err)
		assert.Equal(t, "first", meta.Name)
	})
}
