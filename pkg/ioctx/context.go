// Package ioctx carries the process I/O channels and logger through a
// context.
package ioctx

import (
	"context"
	"io"
	"log/slog"
)

type stdoutKey struct{}
type stderrKey struct{}
type loggerKey struct{}

func writerFrom(ctx context.Context, key any) io.Writer {
	if w, ok := ctx.Value(key).(io.Writer); ok && w != nil {
		return w
	}
	return io.Discard
}

// StdoutFromContext returns the writer used for program output, or
// io.Discard if none was installed.
func StdoutFromContext(ctx context.Context) io.Writer {
	return writerFrom(ctx, stdoutKey{})
}

func StdoutToContext(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stdoutKey{}, w)
}

func StderrFromContext(ctx context.Context) io.Writer {
	return writerFrom(ctx, stderrKey{})
}

func StderrToContext(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stderrKey{}, w)
}

// LoggerFromContext returns the logger installed with LoggerToContext,
// falling back to slog.Default().
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

func LoggerToContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}
