// Package synlog builds the engine's structured logger: slog with optional
// JSON formatting and file rotation, grounded on the pack's logger package
// (an alert-history service's pkg/logger) rather than reinvented.
package synlog

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls the logger's level, format, and output destination.
type Config struct {
	Level  string // debug|info|warn|error
	Format string // json|text
	Output string // stdout|stderr|file
	File   FileConfig
}

// FileConfig configures log rotation when Output is "file".
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Default returns the engine's baseline logging configuration: info level,
// JSON to stdout, matching how a server (as opposed to an interactive CLI)
// would be deployed.
func Default() Config {
	return Config{Level: "info", Format: "json", Output: "stdout"}
}

// New builds a slog.Logger from cfg.
func New(cfg Config) *slog.Logger {
	level := parseLevel(cfg.Level)
	writer := setupWriter(cfg)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(writer, opts)
	} else {
		handler = slog.NewJSONHandler(writer, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setupWriter(cfg Config) io.Writer {
	switch strings.ToLower(cfg.Output) {
	case "file":
		if cfg.File.Path == "" {
			return os.Stdout
		}
		return &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		}
	case "stderr":
		return os.Stderr
	default:
		return os.Stdout
	}
}
