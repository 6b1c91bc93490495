// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

package parse

import (
	"container/ring"
	"math"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/ZSC714725/convertpanel/internal/process"
)

// Progress holds FFmpeg progress info parsed from stderr
type Progress struct {
	Duration float64 `json:"duration_seconds"`
	Time     float64 `json:"time_seconds"`
	Percent  int     `json:"percent"`
	Frame    uint64  `json:"frame"`
	Speed    float64 `json:"speed"`
}

// Parser implements process.Parser and parses FFmpeg stderr
type Parser interface {
	process.Parser
	Progress() Progress
}

var (
	reDuration = regexp.MustCompile(`Duration:\s*([0-9]+):([0-9]{2}):([0-9]{2}(?:\.[0-9]+)?)`)
	reTime     = regexp.MustCompile(`time=\s*([0-9]+):([0-9]{2}):([0-9]{2}(?:\.[0-9]+)?)`)
	reFrame    = regexp.MustCompile(`frame=\s*([0-9]+)`)
	reSpeed    = regexp.MustCompile(`speed=\s*([0-9\.]+)x`)
)

type parser struct {
	log      *ring.Ring
	logLines int

	haveDuration bool
	progress     Progress
	lock         sync.RWMutex
}

// Config for the parser
type Config struct {
	LogLines int
}

// New creates a Parser
func New(config Config) Parser {
	p := &parser{
		logLines: config.LogLines,
	}
	if p.logLines <= 0 {
		p.logLines = 100
	}
	p.log = ring.New(p.logLines)
	return p
}

// Parse records the line and updates progress. Only the first Duration
// line counts; it belongs to the input.
func (p *parser) Parse(line string) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.log.Value = process.Line{Timestamp: time.Now(), Data: line}
	p.log = p.log.Next()

	if !p.haveDuration {
		if m := reDuration.FindStringSubmatch(line); m != nil {
			if d, ok := clockSeconds(m[1], m[2], m[3]); ok {
				p.progress.Duration = d
				p.haveDuration = true
			}
		}
	}

	m := reTime.FindStringSubmatch(line)
	if m == nil {
		return
	}
	if t, ok := clockSeconds(m[1], m[2], m[3]); ok {
		p.progress.Time = t
		p.progress.Percent = Percent(t, p.progress.Duration)
	}
	if m := reFrame.FindStringSubmatch(line); m != nil {
		if x, err := strconv.ParseUint(m[1], 10, 64); err == nil {
			p.progress.Frame = x
		}
	}
	if m := reSpeed.FindStringSubmatch(line); m != nil {
		if x, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.progress.Speed = x
		}
	}
}

// Percent returns floor(100*position/duration), 0 when duration is unknown.
// No upper clamp is applied.
func Percent(position, duration float64) int {
	if duration <= 0 || position <= 0 {
		return 0
	}
	return int(math.Floor(100 * position / duration))
}

func clockSeconds(hh, mm, ss string) (float64, bool) {
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, false
	}
	s, err := strconv.ParseFloat(ss, 64)
	if err != nil {
		return 0, false
	}
	return float64(h*3600+m*60) + s, true
}

func (p *parser) ResetStats() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.progress = Progress{}
	p.haveDuration = false
}

func (p *parser) ResetLog() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.log = ring.New(p.logLines)
}

func (p *parser) Log() []process.Line {
	var out []process.Line
	p.lock.RLock()
	p.log.Do(func(v interface{}) {
		if v != nil {
			out = append(out, v.(process.Line))
		}
	})
	p.lock.RUnlock()
	return out
}

func (p *parser) Progress() Progress {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.progress
}
