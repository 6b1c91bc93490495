// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

package ffmpeg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCommandUsesFixedH265Parameters(t *testing.T) {
	got := strings.Join(Command("/v/A001.mov", "/v/A001_h265.mp4"), " ")
	want := "-y -i /v/A001.mov -c:v libx265 -preset slow -crf 20 -vf format=yuv420p10le -c:a aac -b:a 320k /v/A001_h265.mp4"
	if got != want {
		t.Fatalf("command = %q\nwant      %q", got, want)
	}
}

func TestExtensionValidator(t *testing.T) {
	v, err := NewExtensionValidator([]string{".mov", "mxf"})
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	for in, want := range map[string]bool{
		"/v/A001.mov":          true,
		"/v/A001.MOV":          true,
		"/v/B.mxf":             true,
		"/v/A001.mp4":          false,
		"/v/movie":             false,
		"http://host/A001.mov": false,
		"concat:/a.mov|/b.mov": false,
		"A001.mov.txt":         false,
	} {
		if got := v.IsValid(in); got != want {
			t.Errorf("IsValid(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidatorRejectsBadExpression(t *testing.T) {
	if _, err := NewValidator([]string{"("}, nil); err == nil {
		t.Fatal("expected compile error")
	}
}

const fakeFFmpeg = `#!/bin/sh
case "$1" in
  -version) echo "ffmpeg version 6.1.1 Copyright (c) 2000-2023"; exit 0 ;;
  -hide_banner) printf ' V....D libx265              libx265 H.265 / HEVC\n A....D aac                  AAC\n'; exit 0 ;;
esac
echo "  Duration: 00:00:10.00, start: 0.000000, bitrate: 1000 kb/s" >&2
printf 'frame=1 time=00:00:05.00 speed=1x\r' >&2
printf 'frame=2 time=00:00:10.00 speed=1x\n' >&2
`

func TestNewRunsConversionWithFakeBinary(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(bin, []byte(fakeFFmpeg), 0o755); err != nil {
		t.Fatal(err)
	}

	ff, err := New(Config{Binary: bin})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if missing := ff.Skills().Missing(RequiredEncoders...); len(missing) != 0 {
		t.Fatalf("missing encoders: %v", missing)
	}

	parser := ff.NewParser()
	proc, err := ff.New(ProcessConfig{Input: "in.mov", Output: "out.mp4", Parser: parser})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if err := proc.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	select {
	case <-proc.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("conversion did not finish")
	}

	if got := parser.Progress().Percent; got != 100 {
		t.Fatalf("percent = %d, want 100", got)
	}
}

func TestNewProcessRequiresPaths(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(bin, []byte(fakeFFmpeg), 0o755); err != nil {
		t.Fatal(err)
	}
	ff, err := New(Config{Binary: bin})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := ff.New(ProcessConfig{Input: "in.mov"}); err == nil {
		t.Fatal("expected error without output")
	}
}

func TestNewRejectsMissingBinary(t *testing.T) {
	if _, err := New(Config{Binary: "/nonexistent/ffmpeg"}); err == nil {
		t.Fatal("expected lookup error")
	}
}

func TestNewAcceptsGitBuildVersion(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "ffmpeg")
	script := strings.Replace(fakeFFmpeg, "ffmpeg version 6.1.1", "ffmpeg version N-113000-g1234abcd", 1)
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	ff, err := New(Config{Binary: bin})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s := ff.Skills()
	if s.Version != "N-113000-g1234abcd" || s.Release() {
		t.Fatalf("version = %q release=%v", s.Version, s.Release())
	}
	if missing := s.Missing(RequiredEncoders...); len(missing) != 0 {
		t.Fatalf("missing encoders: %v", missing)
	}
}
