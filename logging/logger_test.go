package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Singleton(t *testing.T) {
	a := NewLogger("test-component")
	b := NewLogger("test-component")
	assert.Same(t, a, b, "same component should return the same entry")

	c := NewLogger("other-component")
	assert.NotSame(t, a, c)
}

func TestNewLogger_LevelFromEnv(t *testing.T) {
	t.Setenv("ARBOR_LOG_LEVEL", "debug")

	entry := NewLogger("level-env-component")
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Logger.GetLevel())
}

func TestNewLogger_ComponentField(t *testing.T) {
	entry := NewLogger("field-component")
	assert.Equal(t, "field-component", entry.Data["component"])
}

func TestShouldLogToStderr(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	assert.True(t, shouldLogToStderr(logger, Config{StderrMode: "always"}))
	assert.False(t, shouldLogToStderr(logger, Config{StderrMode: "never"}))

	logger.SetLevel(logrus.DebugLevel)
	assert.True(t, shouldLogToStderr(logger, Config{StderrMode: "auto"}),
		"debug level forces stderr in auto mode")
}
