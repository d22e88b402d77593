package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/arbor/errors"
)

func TestResolve(t *testing.T) {
	for _, name := range []string{"claude", "codex", "gemini", "opencode"} {
		t.Run(name, func(t *testing.T) {
			d, err := Resolve(name)
			require.NoError(t, err)
			assert.Equal(t, name, d.Name())
		})
	}

	t.Run("unknown agent", func(t *testing.T) {
		_, err := Resolve("cursor")
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeUnknownAgent, errors.GetCode(err))
	})
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Equal(t, []string{"claude", "codex", "gemini", "opencode"}, names)
}

func TestClaude_BuildStartCommand(t *testing.T) {
	d, err := Resolve("claude")
	require.NoError(t, err)

	t.Run("bare", func(t *testing.T) {
		cmd, err := d.BuildStartCommand(CommandOptions{})
		require.NoError(t, err)
		assert.Equal(t, "claude", cmd)
	})

	t.Run("full options", func(t *testing.T) {
		cmd, err := d.BuildStartCommand(CommandOptions{
			PermissionMode: "acceptEdits",
			SettingsPath:   "/wt/.claude/arbor-settings.json",
			MCPConfigPath:  "/wt/.claude/arbor-mcp.json",
			InitialPrompt:  "fix the bug",
		})
		require.NoError(t, err)
		assert.Contains(t, cmd, "--permission-mode acceptEdits")
		assert.Contains(t, cmd, "--settings /wt/.claude/arbor-settings.json")
		assert.Contains(t, cmd, "--mcp-config /wt/.claude/arbor-mcp.json")
		assert.Contains(t, cmd, "'fix the bug'")
	})
}

func TestClaude_BuildResumeCommand(t *testing.T) {
	d, err := Resolve("claude")
	require.NoError(t, err)

	t.Run("valid uuid", func(t *testing.T) {
		cmd, err := d.BuildResumeCommand("01234567-89ab-cdef-0123-456789abcdef", CommandOptions{})
		require.NoError(t, err)
		assert.Equal(t, "claude --resume 01234567-89ab-cdef-0123-456789abcdef", cmd)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := d.BuildResumeCommand("not-a-uuid", CommandOptions{})
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeInvalidSessionID, errors.GetCode(err))
	})

	t.Run("injection attempt", func(t *testing.T) {
		_, err := d.BuildResumeCommand("x; rm -rf /", CommandOptions{})
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeInvalidSessionID, errors.GetCode(err))
	})
}

func TestCodex_BuildMCPOverrides(t *testing.T) {
	d, err := Resolve("codex")
	require.NoError(t, err)
	assert.Equal(t, DeliveryCLIOverrides, d.MCPConfigDelivery())

	cfg := d.MCPConfig("/wt", "/repo/.arbor/workflows/review.md", "/repo")
	require.NotNil(t, cfg)

	flags := d.BuildMCPOverrides(cfg)
	require.NotEmpty(t, flags)
	joined := strings.Join(flags, " ")
	assert.Contains(t, joined, `mcp_servers.arbor-workflow.command="arbor-mcp"`)
	assert.Contains(t, joined, `mcp_servers.arbor-workflow.args=[`)
	assert.Contains(t, joined, "/repo/.arbor/workflows/review.md")

	assert.Nil(t, d.BuildMCPOverrides(nil))
}

func TestCodex_Commands(t *testing.T) {
	d, err := Resolve("codex")
	require.NoError(t, err)

	cmd, err := d.BuildStartCommand(CommandOptions{
		PermissionMode: "never",
		MCPOverrides:   []string{"-c", `mcp_servers.x.command="y"`},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(cmd, "codex "))
	assert.Contains(t, cmd, "approval_policy=")
	assert.Contains(t, cmd, "mcp_servers.x.command=")

	_, err = d.BuildResumeCommand("short", CommandOptions{})
	assert.Equal(t, errors.ErrCodeInvalidSessionID, errors.GetCode(err))

	cmd, err = d.BuildResumeCommand("01234567-89ab-cdef-0123-456789abcdef", CommandOptions{})
	require.NoError(t, err)
	assert.Contains(t, cmd, "codex resume 01234567-89ab-cdef-0123-456789abcdef")
}

func TestGemini_FixedProjectSettingsPath(t *testing.T) {
	d, err := Resolve("gemini")
	require.NoError(t, err)

	path := d.ProjectSettingsPath("/wt/feature-x")
	assert.Equal(t, "/wt/feature-x/.gemini/settings.json", path)
	assert.Equal(t, DeliverySettings, d.MCPConfigDelivery())
	assert.False(t, d.SupportsHooks())
}

func TestMCPConfig_NilWithoutWorkflow(t *testing.T) {
	for _, name := range Names() {
		d, err := Resolve(name)
		require.NoError(t, err)
		if !d.SupportsMCP() {
			continue
		}
		assert.Nil(t, d.MCPConfig("/wt", "", "/repo"), "agent %s", name)
		assert.NotNil(t, d.MCPConfig("/wt", "/repo/wf.md", "/repo"), "agent %s", name)
	}
}

func TestSettingsFileFormats(t *testing.T) {
	// Each descriptor's settings file extension drives the serialization
	// format; the set deliberately covers json, jsonc and toml.
	expect := map[string]string{
		"claude":   ".json",
		"codex":    ".toml",
		"gemini":   ".json",
		"opencode": ".jsonc",
	}
	for name, ext := range expect {
		d, err := Resolve(name)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(d.SettingsFileName(), ext),
			"agent %s settings file %s", name, d.SettingsFileName())
	}
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "plain-arg", shellQuote("plain-arg"))
	assert.Equal(t, "/path/to/file.json", shellQuote("/path/to/file.json"))
	assert.Equal(t, "'two words'", shellQuote("two words"))
	assert.Equal(t, `'it'\''s'`, shellQuote("it's"))
	assert.Equal(t, "''", shellQuote(""))
}
