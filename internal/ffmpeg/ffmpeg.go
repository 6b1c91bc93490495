// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

package ffmpeg

import (
	"fmt"
	"os/exec"
	"sync"

	"github.com/ZSC714725/convertpanel/internal/ffmpeg/parse"
	"github.com/ZSC714725/convertpanel/internal/ffmpeg/skills"
	"github.com/ZSC714725/convertpanel/internal/logger"
	"github.com/ZSC714725/convertpanel/internal/process"
)

// H.265 编码参数，运行时不可配置
const (
	VideoCodec   = "libx265"
	Preset       = "slow"
	CRF          = "20"
	PixelFormat  = "yuv420p10le"
	AudioCodec   = "aac"
	AudioBitrate = "320k"
)

// RequiredEncoders are the encoders the fixed H.265 command relies on
var RequiredEncoders = []string{VideoCodec, AudioCodec}

// FFmpeg manages the FFmpeg binary and the processes it runs
type FFmpeg interface {
	New(config ProcessConfig) (process.Process, error)
	NewParser() parse.Parser
	ValidateInput(address string) bool
	Skills() skills.Skills
	ReloadSkills() error
}

// ProcessConfig for creating a conversion process
type ProcessConfig struct {
	Input  string
	Output string
	Parser process.Parser
	Logger logger.Logger
	OnExit func(err error)
}

// Config for FFmpeg
type Config struct {
	Binary         string
	MaxLogLines    int
	ValidatorInput Validator
}

type ffmpeg struct {
	binary      string
	validatorIn Validator
	skills      skills.Skills
	logLines    int
	skillsLock  sync.RWMutex
}

// New creates FFmpeg
func New(config Config) (FFmpeg, error) {
	binary, err := exec.LookPath(config.Binary)
	if err != nil {
		return nil, fmt.Errorf("invalid ffmpeg binary: %w", err)
	}

	f := &ffmpeg{
		binary:   binary,
		logLines: config.MaxLogLines,
	}

	if f.logLines <= 0 {
		f.logLines = 100
	}

	if config.ValidatorInput != nil {
		f.validatorIn = config.ValidatorInput
	} else {
		f.validatorIn, _ = NewValidator(nil, nil)
	}

	s, err := skills.New(f.binary)
	if err != nil {
		return nil, fmt.Errorf("invalid ffmpeg: %w", err)
	}
	f.skills = s

	return f, nil
}

// Command builds the fixed H.265 argument list for input -> output
func Command(input, output string) []string {
	return []string{
		"-y",
		"-i", input,
		"-c:v", VideoCodec, "-preset", Preset, "-crf", CRF,
		"-vf", "format=" + PixelFormat,
		"-c:a", AudioCodec, "-b:a", AudioBitrate,
		output,
	}
}

func (f *ffmpeg) New(config ProcessConfig) (process.Process, error) {
	if config.Input == "" || config.Output == "" {
		return nil, fmt.Errorf("input and output are required")
	}
	return process.New(process.Config{
		Binary:  f.binary,
		Args:    Command(config.Input, config.Output),
		Parser:  config.Parser,
		Sampler: process.NewSysSampler(),
		Logger:  config.Logger,
		OnExit:  config.OnExit,
	})
}

func (f *ffmpeg) NewParser() parse.Parser {
	return parse.New(parse.Config{LogLines: f.logLines})
}

func (f *ffmpeg) ValidateInput(address string) bool {
	return f.validatorIn.IsValid(address)
}

func (f *ffmpeg) Skills() skills.Skills {
	f.skillsLock.RLock()
	defer f.skillsLock.RUnlock()
	return f.skills
}

func (f *ffmpeg) ReloadSkills() error {
	s, err := skills.New(f.binary)
	if err != nil {
		return fmt.Errorf("reload skills: %w", err)
	}
	f.skillsLock.Lock()
	f.skills = s
	f.skillsLock.Unlock()
	return nil
}
