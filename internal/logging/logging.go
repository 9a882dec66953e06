package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"project_switcher/internal/config"
)

const (
	appName = "project_switcher"

	// EnvLogLevel overrides log.level from the config file
	EnvLogLevel = "PROJECT_SWITCHER_LOG_LEVEL"
	// EnvLogFile overrides log.file from the config file
	EnvLogFile = "PROJECT_SWITCHER_LOG_FILE"
)

// Init builds the process logger and installs it as the slog default. The
// terminal belongs to the picker while it runs, so output goes to a rotating
// file. The returned func closes the file.
func Init(cfg config.Log, version string) (*slog.Logger, func() error, error) {
	cfg = withEnv(cfg)

	level, enabled, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var (
		writer  io.Writer = io.Discard
		closeFn           = func() error { return nil }
	)
	if enabled {
		path, err := resolvePath(cfg.File)
		if err != nil {
			return nil, nil, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		rot := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    positiveOr(cfg.MaxSizeMB, 5),
			MaxBackups: positiveOr(cfg.MaxBackups, 3),
			Compress:   true,
		}
		writer = rot
		closeFn = rot.Close
	}

	logger := slog.New(newHandler(writer, cfg.Format, level)).With(
		slog.String("app", appName),
		slog.String("version", version),
	)
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

func newHandler(w io.Writer, format string, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func withEnv(cfg config.Log) config.Log {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.File = v
	}
	return cfg
}

// parseLevel maps a config level to slog. "off" disables logging.
func parseLevel(value string) (slog.Level, bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "info":
		return slog.LevelInfo, true, nil
	case "debug":
		return slog.LevelDebug, true, nil
	case "warn", "warning":
		return slog.LevelWarn, true, nil
	case "error":
		return slog.LevelError, true, nil
	case "off", "none":
		return slog.LevelInfo, false, nil
	default:
		return 0, false, fmt.Errorf("logging: unknown level %q", value)
	}
}

// resolvePath returns the log file, defaulting to the XDG state directory.
func resolvePath(file string) (string, error) {
	if file = strings.TrimSpace(file); file != "" {
		if rest, ok := strings.CutPrefix(file, "~/"); ok {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			return filepath.Join(home, rest), nil
		}
		return file, nil
	}

	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, appName, appName+".log"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Join(errors.New("logging: cannot resolve default log path"), err)
	}
	return filepath.Join(home, ".local", "state", appName, appName+".log"), nil
}

func positiveOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
