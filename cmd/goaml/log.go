package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"
)

const (
	logLevelFlag  = "log-level"
	logFormatFlag = "log-format"

	formatText = "text"
	formatJSON = "json"
)

// registerLoggingFlags adds --log-level and --log-format to fs, bound to cfg.
func registerLoggingFlags(fs *pflag.FlagSet, cfg *config) {
	fs.StringVar(&cfg.LogLevel, logLevelFlag, cfg.LogLevel, "log level: debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, logFormatFlag, cfg.LogFormat, "log format: text or json")
}

// newLogger builds an isolated slog.Logger; it never touches slog.Default.
func newLogger(levelStr, formatStr string, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", levelStr)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch formatStr {
	case formatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case formatText, "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s", formatStr)
	}
}
