// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

package process

import (
	"bufio"
	"strings"
	"sync"
	"testing"
	"time"
)

type recordingParser struct {
	mu    sync.Mutex
	lines []string
}

func (p *recordingParser) Parse(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lines = append(p.lines, line)
}

func (p *recordingParser) ResetStats() {}
func (p *recordingParser) ResetLog()   {}
func (p *recordingParser) Log() []Line { return nil }

func (p *recordingParser) Lines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.lines...)
}

func waitDone(t *testing.T, p Process) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("process did not finish")
	}
}

func TestProcessMergesOutputAndReportsExit(t *testing.T) {
	parser := &recordingParser{}
	var exitErr error
	exited := false

	p, err := New(Config{
		Binary: "/bin/sh",
		Args:   []string{"-c", `echo out; echo err >&2; printf 'a\rb\n'`},
		Parser: parser,
		OnExit: func(err error) {
			exitErr = err
			exited = true
		},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := p.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitDone(t, p)

	if !exited || exitErr != nil {
		t.Fatalf("exited=%v err=%v", exited, exitErr)
	}
	got := strings.Join(parser.Lines(), ",")
	if got != "out,err,a,b" {
		t.Fatalf("lines = %q", got)
	}
	st := p.Status()
	if st.State != "finished" || st.ExitCode != 0 {
		t.Fatalf("status = %+v", st)
	}
	if p.IsRunning() {
		t.Fatal("still running after exit")
	}
}

func TestProcessNonZeroExitIsFailed(t *testing.T) {
	var exitErr error
	p, err := New(Config{
		Binary: "/bin/sh",
		Args:   []string{"-c", "exit 3"},
		OnExit: func(err error) { exitErr = err },
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := p.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitDone(t, p)

	if exitErr == nil {
		t.Fatal("expected exit error")
	}
	st := p.Status()
	if st.State != "failed" || st.ExitCode != 3 {
		t.Fatalf("status = %+v", st)
	}
}

func TestProcessStartTwice(t *testing.T) {
	p, err := New(Config{Binary: "/bin/sh", Args: []string{"-c", "true"}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := p.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := p.Start(); err != ErrAlreadyStarted {
		t.Fatalf("second start = %v, want %v", err, ErrAlreadyStarted)
	}
	waitDone(t, p)
}

func TestProcessSpawnFailure(t *testing.T) {
	parser := &recordingParser{}
	called := false
	p, err := New(Config{
		Binary: "/nonexistent/ffmpeg",
		Parser: parser,
		OnExit: func(error) { called = true },
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := p.Start(); err == nil {
		t.Fatal("expected spawn error")
	}
	waitDone(t, p)
	if called {
		t.Fatal("OnExit must not run when the process never started")
	}
	if p.Status().State != "failed" {
		t.Fatalf("state = %s", p.Status().State)
	}
	if len(parser.Lines()) != 1 {
		t.Fatalf("spawn error not recorded: %v", parser.Lines())
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestScanLineSplitsCarriageReturns(t *testing.T) {
	input := "frame=1 time=00:00:01.00\rframe=2 time=00:00:02.00\r\n\nDuration: 00:00:10.00"
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Split(scanLine)

	var got []string
	for scanner.Scan() {
		got = append(got, scanner.Text())
	}
	want := []string{"frame=1 time=00:00:01.00", "frame=2 time=00:00:02.00", "Duration: 00:00:10.00"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestProcessSurvivesOverlongLine(t *testing.T) {
	script := `head -c 1100000 /dev/zero | tr '\0' x >&2; echo tail >&2; echo after >&2; exit 0`
	var exitErr error
	p, err := New(Config{
		Binary: "/bin/sh",
		Args:   []string{"-c", script},
		Parser: &recordingParser{},
		OnExit: func(err error) { exitErr = err },
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := p.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitDone(t, p)

	if exitErr != nil {
		t.Fatalf("exit error: %v", exitErr)
	}
	if st := p.Status(); st.State != "finished" || st.ExitCode != 0 {
		t.Fatalf("status = %+v", st)
	}
}
