// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板
//
// Package process wraps exec.Cmd for a single run of an external tool whose
// combined output is fed line by line to a Parser.

package process

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
	"unicode/utf8"
)

// ErrAlreadyStarted is returned when Start is called a second time
var ErrAlreadyStarted = errors.New("process already started")

// Process represents one run of an external binary
type Process interface {
	Start() error
	Status() Status
	IsRunning() bool
	Done() <-chan struct{}
}

// Config for a process
type Config struct {
	Binary  string
	Args    []string
	Parser  Parser
	Sampler Sampler
	Logger  Logger

	// OnExit runs on the worker goroutine once output is drained and the
	// process has been reaped. err is nil on a clean exit.
	OnExit func(err error)
}

// Status of a process
type Status struct {
	State    string
	Pid      int
	ExitCode int
	Duration time.Duration
	Time     time.Time
	CPU      float64
	Memory   uint64
}

// Logger interface
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

type stateType string

const (
	stateIdle     stateType = "idle"
	stateStarting stateType = "starting"
	stateRunning  stateType = "running"
	stateFinished stateType = "finished"
	stateFailed   stateType = "failed"
	stateKilled   stateType = "killed"
)

func (s stateType) String() string { return string(s) }

func (s stateType) IsRunning() bool {
	return s == stateStarting || s == stateRunning
}

type process struct {
	binary string
	args   []string
	cmd    *exec.Cmd
	output *os.File

	state struct {
		state    stateType
		time     time.Time
		pid      int
		exitCode int
		lock     sync.Mutex
	}

	parser  Parser
	sampler Sampler
	logger  Logger
	onExit  func(err error)
	done    chan struct{}
}

// New creates a new process
func New(config Config) (Process, error) {
	if len(config.Binary) == 0 {
		return nil, fmt.Errorf("no valid binary given")
	}

	p := &process{
		binary:  config.Binary,
		args:    config.Args,
		parser:  config.Parser,
		sampler: config.Sampler,
		logger:  config.Logger,
		onExit:  config.OnExit,
		done:    make(chan struct{}),
	}

	if p.parser == nil {
		p.parser = &nullParser{}
	}
	if p.sampler == nil {
		p.sampler = NewNullSampler()
	}
	if p.logger == nil {
		p.logger = &nopLogger{}
	}

	p.state.state = stateIdle
	p.state.time = time.Now()
	p.state.exitCode = -1

	return p, nil
}

func (p *process) setState(state stateType) error {
	p.state.lock.Lock()
	defer p.state.lock.Unlock()

	from := p.state.state
	ok := false

	switch from {
	case stateIdle:
		ok = state == stateStarting
	case stateStarting:
		ok = state == stateRunning || state == stateFailed
	case stateRunning:
		ok = state == stateFinished || state == stateFailed || state == stateKilled
	}

	if !ok {
		return fmt.Errorf("can't change from %s to %s", from, state)
	}

	p.state.state = state
	p.state.time = time.Now()
	p.logger.Debug("%s: %s -> %s", p.binary, from, state)
	return nil
}

func (p *process) getState() stateType {
	p.state.lock.Lock()
	defer p.state.lock.Unlock()
	return p.state.state
}

func (p *process) Status() Status {
	cpu, memory := p.sampler.Current()

	p.state.lock.Lock()
	defer p.state.lock.Unlock()

	return Status{
		State:    p.state.state.String(),
		Pid:      p.state.pid,
		ExitCode: p.state.exitCode,
		Duration: time.Since(p.state.time),
		Time:     p.state.time,
		CPU:      cpu,
		Memory:   memory,
	}
}

func (p *process) IsRunning() bool {
	return p.getState().IsRunning()
}

func (p *process) Done() <-chan struct{} {
	return p.done
}

// Start launches the binary and returns without waiting for it. The
// process is one-shot: a second Start fails with ErrAlreadyStarted.
func (p *process) Start() error {
	if err := p.setState(stateStarting); err != nil {
		return ErrAlreadyStarted
	}

	r, w, err := os.Pipe()
	if err != nil {
		p.fail(err)
		return err
	}

	p.cmd = exec.Command(p.binary, p.args...)
	p.cmd.Stdout = w
	p.cmd.Stderr = w

	if err := p.cmd.Start(); err != nil {
		r.Close()
		w.Close()
		p.fail(err)
		return err
	}
	// the child holds its own copy
	w.Close()
	p.output = r

	p.state.lock.Lock()
	p.state.pid = p.cmd.Process.Pid
	p.state.lock.Unlock()

	if err := p.sampler.Start(p.cmd.Process.Pid); err != nil {
		p.logger.Debug("usage sampler: %v", err)
	}

	p.setState(stateRunning)

	go p.reader()

	return nil
}

func (p *process) fail(err error) {
	p.parser.Parse(err.Error())
	p.setState(stateFailed)
	close(p.done)
}

func (p *process) reader() {
	scanner := bufio.NewScanner(p.output)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanLine)

	p.parser.ResetStats()
	p.parser.ResetLog()

	for scanner.Scan() {
		p.parser.Parse(scanner.Text())
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		p.logger.Error("%s: read output: %v", p.binary, err)
		// keep the pipe open until the child is done writing
		io.Copy(io.Discard, p.output)
	}
	p.output.Close()

	p.waiter()
}

func (p *process) waiter() {
	err := p.cmd.Wait()

	exitCode := 0
	state := stateFinished
	if err != nil {
		var exiterr *exec.ExitError
		state = stateKilled
		exitCode = -1
		if errors.As(err, &exiterr) {
			if status, ok := exiterr.Sys().(syscall.WaitStatus); ok && status.Exited() {
				state = stateFailed
				exitCode = status.ExitStatus()
			}
		}
	}

	p.state.lock.Lock()
	p.state.exitCode = exitCode
	p.state.lock.Unlock()
	p.setState(state)

	p.sampler.Stop()

	if p.onExit != nil {
		p.onExit(err)
	}
	close(p.done)
}

// scanLine splits on \n and \r, FFmpeg redraws its progress line with \r
func scanLine(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) {
		r, w := utf8.DecodeRune(data[start:])
		if r != '\n' && r != '\r' {
			break
		}
		start += w
	}

	for i := start; i < len(data); {
		r, w := utf8.DecodeRune(data[i:])
		if r == '\n' || r == '\r' {
			return i + w, data[start:i], nil
		}
		i += w
	}

	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}

type nopLogger struct{}

func (l *nopLogger) Info(format string, args ...interface{})  {}
func (l *nopLogger) Error(format string, args ...interface{}) {}
func (l *nopLogger) Debug(format string, args ...interface{}) {}
