// Package logging sends logrus output to a file, since the terminal belongs
// to the UI while the program runs.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// LevelEnv overrides the configured log level
const LevelEnv = "CRATETUI_LOGLEVEL"

// ResolveLevel picks the log level: an explicit flag value first, then the
// environment, then the config value.
func ResolveLevel(flagValue, configValue string) (log.Level, error) {
	value := flagValue
	if value == "" {
		value = os.Getenv(LevelEnv)
	}
	if value == "" {
		value = configValue
	}
	if value == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(strings.TrimSpace(value))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("failed to parse log level: %w", err)
	}
	return level, nil
}

// Setup points the standard logrus logger at <dir>/<name>.log, truncating
// any previous file. The returned closer flushes and closes the file.
func Setup(dir, name string, level log.Level) (io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, name+".log")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	Configure(log.StandardLogger(), f, level)
	log.WithField("path", path).Info("logging initialized")
	return f, nil
}

// Configure applies the file logging format to logger
func Configure(logger *log.Logger, w io.Writer, level log.Level) {
	logger.SetOutput(w)
	logger.SetLevel(level)
	logger.SetReportCaller(true)
	logger.SetFormatter(&log.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000",
	})
}
