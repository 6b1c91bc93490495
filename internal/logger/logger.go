// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger provides a simple logging interface
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// Options 日志配置
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

type defaultLogger struct {
	prefix string
	log    *slog.Logger
}

// NewWithOptions builds a slog-backed Logger. Format is "text" or "json".
func NewWithOptions(prefix string, opts Options) (Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	hopts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "text":
		handler = slog.NewTextHandler(out, hopts)
	case "json":
		handler = slog.NewJSONHandler(out, hopts)
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	return &defaultLogger{prefix: prefix, log: slog.New(handler)}, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log level: unsupported value %q", s)
}

func (l *defaultLogger) Info(format string, args ...interface{}) {
	l.log.Info(fmt.Sprintf(format, args...), "component", l.prefix)
}

func (l *defaultLogger) Error(format string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(format, args...), "component", l.prefix)
}

func (l *defaultLogger) Debug(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...), "component", l.prefix)
}

type nopLogger struct{}

// Nop discards everything
func Nop() Logger { return nopLogger{} }

func (nopLogger) Info(format string, args ...interface{})  {}
func (nopLogger) Error(format string, args ...interface{}) {}
func (nopLogger) Debug(format string, args ...interface{}) {}
