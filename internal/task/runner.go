// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

package task

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ZSC714725/convertpanel/internal/ffmpeg"
	"github.com/ZSC714725/convertpanel/internal/ffmpeg/parse"
	"github.com/ZSC714725/convertpanel/internal/logger"
	"github.com/ZSC714725/convertpanel/internal/mediascan"
	"github.com/ZSC714725/convertpanel/internal/process"

	"github.com/lithammer/shortuuid/v4"
)

// Transcoder creates the parser and process for one conversion
type Transcoder interface {
	NewParser() parse.Parser
	New(config ffmpeg.ProcessConfig) (process.Process, error)
}

type job struct {
	id     string
	input  string
	output string
	proc   process.Process
	parser parse.Parser
	done   chan struct{}
}

// Runner runs at most one conversion at a time. A start while a job is
// active is rejected, never queued.
type Runner struct {
	transcoder Transcoder
	scanner    mediascan.Scanner
	logger     logger.Logger

	mu     sync.RWMutex
	status Status
	job    *job
}

// NewRunner creates an idle runner
func NewRunner(t Transcoder, scanner mediascan.Scanner, log logger.Logger) *Runner {
	if scanner == nil {
		scanner = mediascan.Nop()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{
		transcoder: t,
		scanner:    scanner,
		logger:     log,
	}
}

// Start launches a conversion of input into output and returns its id
// without waiting for it. Failures of the tool itself are not reported
// here; the job simply completes.
func (r *Runner) Start(input, output, label string) (string, error) {
	if strings.TrimSpace(input) == "" || strings.TrimSpace(output) == "" {
		return "", ErrInvalidPath
	}

	r.mu.Lock()
	if r.status.Active {
		r.mu.Unlock()
		return "", ErrBusy
	}

	j := &job{
		id:     shortuuid.New(),
		input:  input,
		output: output,
		parser: r.transcoder.NewParser(),
		done:   make(chan struct{}),
	}

	proc, err := r.transcoder.New(ffmpeg.ProcessConfig{
		Input:  input,
		Output: output,
		Parser: j.parser,
		Logger: r.logger,
		OnExit: func(err error) { r.finish(j, err) },
	})
	if err != nil {
		r.mu.Unlock()
		return "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	j.proc = proc

	r.job = j
	r.status = Status{
		Active:    true,
		Label:     label,
		Percent:   0,
		ID:        j.id,
		Input:     input,
		Output:    output,
		StartedAt: time.Now().Unix(),
	}
	r.mu.Unlock()

	r.logger.Info("job %s: converting %s -> %s", j.id, input, output)

	// the slot is claimed, spawn without holding the lock
	if err := proc.Start(); err != nil {
		// the process never ran, OnExit won't fire
		go r.finish(j, err)
	}

	return j.id, nil
}

func (r *Runner) finish(j *job, err error) {
	defer close(j.done)

	result := ResultFinished
	if err != nil {
		result = ResultFailed
		r.logger.Error("job %s: ffmpeg failed: %v", j.id, err)
	}

	if err := r.scanner.Scan(context.Background(), j.output); err != nil {
		r.logger.Error("job %s: %v", j.id, err)
	}

	prog := j.parser.Progress()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.job != j {
		return
	}
	r.status.Active = false
	r.status.Percent = 100
	r.status.FinishedAt = time.Now().Unix()
	r.status.Result = result
	r.status.Time = prog.Time
	r.status.Duration = prog.Duration

	r.logger.Info("job %s: %s (%s)", j.id, result, r.status.Label)
}

// Wait blocks until the active job, if any, has completed or ctx is done
func (r *Runner) Wait(ctx context.Context) error {
	r.mu.RLock()
	j := r.job
	active := r.status.Active
	r.mu.RUnlock()

	if !active || j == nil {
		return nil
	}
	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns a copy of the job slot. Safe to call while a job runs.
func (r *Runner) Status() Status {
	r.mu.RLock()
	s := r.status
	j := r.job
	r.mu.RUnlock()

	if s.Active && j != nil {
		prog := j.parser.Progress()
		s.Percent = prog.Percent
		s.Time = prog.Time
		s.Duration = prog.Duration
	}
	return s
}

// Usage samples CPU and memory of the running process, zero when idle
func (r *Runner) Usage() Usage {
	r.mu.RLock()
	j := r.job
	active := r.status.Active
	r.mu.RUnlock()

	if !active || j == nil || j.proc == nil {
		return Usage{}
	}
	st := j.proc.Status()
	return Usage{Pid: st.Pid, CPU: st.CPU, Memory: st.Memory}
}

// Log returns the output lines kept for the current or last job
func (r *Runner) Log() []process.Line {
	r.mu.RLock()
	j := r.job
	r.mu.RUnlock()

	if j == nil {
		return nil
	}
	return j.parser.Log()
}
