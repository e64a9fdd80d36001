package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 10
)

type LoggerConfig struct {
	LogLevel      hclog.Level
	JSONLogFormat bool
	LogFilePath   string
	Name          string

	// log file rotation, used only when LogFilePath is set
	MaxSizeInMB     int
	MaxBackups      int
	MaxAgeInDays    int
	CompressOldLogs bool
}

// NewLogger creates a hclog logger from the given configuration. If a log file path
// is specified, the output goes through a size-rotated file writer, otherwise to stderr.
func NewLogger(config LoggerConfig) (hclog.Logger, error) {
	var output io.Writer

	if config.LogFilePath != "" {
		if dir := filepath.Dir(config.LogFilePath); dir != "/" && strings.TrimLeft(dir, ".") != "" {
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return nil, err
			}
		}

		maxSize := config.MaxSizeInMB
		if maxSize <= 0 {
			maxSize = defaultMaxSizeMB
		}

		maxBackups := config.MaxBackups
		if maxBackups <= 0 {
			maxBackups = defaultMaxBackups
		}

		output = &lumberjack.Logger{
			Filename:   config.LogFilePath,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     config.MaxAgeInDays,
			Compress:   config.CompressOldLogs,
		}
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       config.Name,
		Level:      config.LogLevel,
		Output:     output,
		JSONFormat: config.JSONLogFormat,
	}), nil
}
