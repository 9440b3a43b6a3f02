package logger

import (
	"log/slog"

	"likedao_wallet/internal/app/port"
)

// slogAdapter implements port.Logger on top of an slog logger.
type slogAdapter struct {
	l *slog.Logger
}

// Named returns a port.Logger that tags every record with component.
func Named(component string) port.Logger {
	return &slogAdapter{l: current().With("component", component)}
}

// Nop discards everything. Handy in tests.
func Nop() port.Logger {
	return &slogAdapter{l: slog.New(slog.DiscardHandler)}
}

func (a *slogAdapter) logger() *slog.Logger {
	if a.l != nil {
		return a.l
	}
	return current()
}

func (a *slogAdapter) Info(msg string, args ...any) {
	a.logger().Info(msg, args...)
}

func (a *slogAdapter) Debug(msg string, args ...any) {
	a.logger().Debug(msg, args...)
}

func (a *slogAdapter) Warn(msg string, args ...any) {
	a.logger().Warn(msg, args...)
}

func (a *slogAdapter) Error(msg string, args ...any) {
	a.logger().Error(msg, args...)
}
