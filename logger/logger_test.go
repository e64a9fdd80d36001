package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("without file", func(t *testing.T) {
		t.Parallel()

		logger, err := NewLogger(LoggerConfig{
			LogLevel: hclog.Info,
			Name:     "test",
		})

		require.NoError(t, err)
		require.NotNil(t, logger)
		require.True(t, logger.IsInfo())
		require.False(t, logger.IsDebug())
	})

	t.Run("with file", func(t *testing.T) {
		t.Parallel()

		filePath := filepath.Join(t.TempDir(), "logs", "indexer.log")

		logger, err := NewLogger(LoggerConfig{
			LogLevel:    hclog.Debug,
			LogFilePath: filePath,
		})
		require.NoError(t, err)

		logger.Info("some message", "key", "value")

		content, err := os.ReadFile(filePath)
		require.NoError(t, err)
		require.True(t, strings.Contains(string(content), "some message"))
	})
}
