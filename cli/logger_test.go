package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerDefaults(t *testing.T) {
	logger := NewLogger()

	assert.Equal(t, os.Stderr, logger.Out, "diagnostics go to stderr, stdout is for command output")
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
}

func TestNewLoggerOptions(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(
		WithOutput(&buf),
		WithLevel(logrus.DebugLevel),
		WithFormatter(&logrus.JSONFormatter{}),
	)

	logger.WithField("session", "feature-x").Debug("resolved")

	out := buf.String()
	assert.Contains(t, out, `"session":"feature-x"`)
	assert.Contains(t, out, `"level":"debug"`)
}

func TestGetLoggerHonorsFlags(t *testing.T) {
	cmd := NewStandardCommand("check", "flag plumbing")
	var logger *logrus.Logger
	cmd.RunE = func(c *cobra.Command, args []string) error {
		logger = GetLogger(c)
		return nil
	}

	cmd.SetArgs([]string{"--verbose", "--json"})
	require.NoError(t, cmd.Execute())

	require.NotNil(t, logger)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	_, ok := logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok, "--json switches to the JSON formatter")
}

func TestGetLoggerDefaultsWithoutFlags(t *testing.T) {
	cmd := NewStandardCommand("check", "flag plumbing")
	var logger *logrus.Logger
	cmd.RunE = func(c *cobra.Command, args []string) error {
		logger = GetLogger(c)
		return nil
	}

	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	require.NotNil(t, logger)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
}
