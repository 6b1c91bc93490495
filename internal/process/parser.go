// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

package process

import "time"

// Parser consumes process output (FFmpeg writes its banner and progress
// to stderr, which is merged with stdout here)
type Parser interface {
	Parse(line string)
	ResetStats()
	ResetLog()
	Log() []Line
}

// Line is a timestamped log line
type Line struct {
	Timestamp time.Time
	Data      string
}

type nullParser struct{}

func (p *nullParser) Parse(line string) {}
func (p *nullParser) ResetStats()       {}
func (p *nullParser) ResetLog()         {}
func (p *nullParser) Log() []Line       { return nil }
