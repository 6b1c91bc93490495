// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

package mediascan

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestScanPassesPath(t *testing.T) {
	dir := t.TempDir()
	record := filepath.Join(dir, "scanned")
	bin := filepath.Join(dir, "termux-media-scan")
	script := "#!/bin/sh\necho \"$1\" > " + record + "\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	s := New(bin, 5*time.Second, nil)
	if err := s.Scan(context.Background(), "/v/A001_h265.mp4"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	data, err := os.ReadFile(record)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	if strings.TrimSpace(string(data)) != "/v/A001_h265.mp4" {
		t.Fatalf("scanned %q", data)
	}
}

func TestScanReportsFailure(t *testing.T) {
	s := New("/nonexistent/termux-media-scan", time.Second, nil)
	if err := s.Scan(context.Background(), "/v/x.mp4"); err == nil {
		t.Fatal("expected error")
	}
}

func TestEmptyBinaryIsNop(t *testing.T) {
	s := New("  ", time.Second, nil)
	if err := s.Scan(context.Background(), "/v/x.mp4"); err != nil {
		t.Fatalf("nop scan: %v", err)
	}
}
