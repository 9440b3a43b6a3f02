package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	slogzap "github.com/samber/slog-zap/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu           sync.RWMutex
	globalLogger *slog.Logger
	zapLogger    *zap.Logger
)

// Init builds the zap logger for the given level and format ("json" or "console")
// and installs an slog logger on top of it as the process default.
func Init(levelStr, format string) (*zap.Logger, error) {
	level := ParseLevel(levelStr)

	var cfg zap.Config
	if strings.EqualFold(format, "console") {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(toZapLevel(level))

	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}

	handler := slogzap.Option{Level: level, Logger: z}.NewZapHandler()
	l := slog.New(handler)

	mu.Lock()
	globalLogger = l
	zapLogger = z
	mu.Unlock()
	slog.SetDefault(l)
	return z, nil
}

// ParseLevel maps a config string to an slog level, defaulting to INFO.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func toZapLevel(l slog.Level) zapcore.Level {
	switch {
	case l <= slog.LevelDebug:
		return zapcore.DebugLevel
	case l <= slog.LevelInfo:
		return zapcore.InfoLevel
	case l <= slog.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

func current() *slog.Logger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l
	}
	if _, err := Init("INFO", "json"); err != nil {
		return slog.Default()
	}
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// Zap returns the zap logger behind the slog default, for clients that log through zap directly.
func Zap() *zap.Logger {
	current()
	mu.RLock()
	defer mu.RUnlock()
	if zapLogger == nil {
		return zap.NewNop()
	}
	return zapLogger
}

// Debug logs a message at DebugLevel.
func Debug(msg string, args ...any) {
	l := current()
	if l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug(msg, args...)
	}
}

// Info logs a message at InfoLevel.
func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

// Warn logs a message at WarnLevel.
func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

// Error logs a message at ErrorLevel.
func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

// Fatal logs at ErrorLevel, flushes and exits.
func Fatal(msg string, args ...any) {
	current().Error(msg, args...)
	_ = Zap().Sync()
	os.Exit(1)
}
