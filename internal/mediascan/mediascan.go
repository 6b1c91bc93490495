// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

// Package mediascan asks the device's media index to pick up new files.
package mediascan

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ZSC714725/convertpanel/internal/logger"
)

// Scanner makes a file visible to a gallery or indexer
type Scanner interface {
	Scan(ctx context.Context, path string) error
}

type commandScanner struct {
	binary  string
	timeout time.Duration
	logger  logger.Logger
}

// New returns a Scanner running `binary <path>`. An empty binary yields a
// scanner that does nothing.
func New(binary string, timeout time.Duration, log logger.Logger) Scanner {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return Nop()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &commandScanner{binary: binary, timeout: timeout, logger: log}
}

func (s *commandScanner) Scan(ctx context.Context, path string) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out, err := exec.CommandContext(ctx, s.binary, path).CombinedOutput()
	if err != nil {
		return fmt.Errorf("media scan %s: %w: %s", path, err, strings.TrimSpace(string(out)))
	}
	s.logger.Debug("media scan %s: %s", path, strings.TrimSpace(string(out)))
	return nil
}

type nopScanner struct{}

// Nop returns a Scanner that does nothing
func Nop() Scanner { return nopScanner{} }

func (nopScanner) Scan(context.Context, string) error { return nil }
