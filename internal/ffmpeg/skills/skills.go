// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

package skills

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Encoder is one entry of `ffmpeg -encoders`
type Encoder struct {
	Id   string
	Name string
}

// Skills are the detected capabilities of FFmpeg
type Skills struct {
	Version       string
	Configuration string
	Encoders      struct {
		Video    []Encoder
		Audio    []Encoder
		Subtitle []Encoder
	}
}

// HasEncoder reports whether an encoder with the given id was listed
func (s Skills) HasEncoder(id string) bool {
	for _, list := range [][]Encoder{s.Encoders.Video, s.Encoders.Audio, s.Encoders.Subtitle} {
		for _, e := range list {
			if e.Id == id {
				return true
			}
		}
	}
	return false
}

// Missing returns the ids out of want that FFmpeg does not provide
func (s Skills) Missing(want ...string) []string {
	var out []string
	for _, id := range want {
		if !s.HasEncoder(id) {
			out = append(out, id)
		}
	}
	return out
}

// Release reports whether Version is a numbered release. Git and nightly
// builds report their raw build tag instead.
func (s Skills) Release() bool {
	return reRelease.MatchString(s.Version)
}

// New returns the skills that FFmpeg provides. A version banner that can't
// be parsed is not an error, Version is then "unknown".
func New(binary string) (Skills, error) {
	c := Skills{}

	cmd := exec.Command(binary, "-version")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return Skills{}, fmt.Errorf("can't parse ffmpeg version: %w", err)
	}
	c.Version, c.Configuration = parseVersion(out)

	cmd = exec.Command(binary, "-hide_banner", "-encoders")
	stdout, _ := cmd.Output()
	c.Encoders = parseEncoders(stdout)

	return c, nil
}

var (
	reVersion       = regexp.MustCompile(`^ffmpeg version (?:n)?([0-9]+\.[0-9]+(\.[0-9]+)?)`)
	reVersionTag    = regexp.MustCompile(`^ffmpeg version (\S+)`)
	reRelease       = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+$`)
	reConfiguration = regexp.MustCompile(`(?m)^\s*configuration: (.*)$`)
	reEncoder       = regexp.MustCompile(`^\s([VAS])[A-Z.]{5}\s+([0-9A-Za-z_\-]+)\s+(.*)$`)
)

func parseVersion(data []byte) (version, configuration string) {
	if m := reVersion.FindSubmatch(data); m != nil {
		version = string(m[1])
		if len(m[2]) == 0 {
			version += ".0"
		}
	} else if m := reVersionTag.FindSubmatch(data); m != nil {
		version = string(m[1])
	} else {
		version = "unknown"
	}
	if m := reConfiguration.FindSubmatch(data); m != nil {
		configuration = string(m[1])
	}
	return version, configuration
}

func parseEncoders(data []byte) struct {
	Video    []Encoder
	Audio    []Encoder
	Subtitle []Encoder
} {
	enc := struct {
		Video    []Encoder
		Audio    []Encoder
		Subtitle []Encoder
	}{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		m := reEncoder.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		e := Encoder{Id: m[2], Name: strings.TrimSpace(m[3])}
		switch m[1] {
		case "V":
			enc.Video = append(enc.Video, e)
		case "A":
			enc.Audio = append(enc.Audio, e)
		case "S":
			enc.Subtitle = append(enc.Subtitle, e)
		}
	}
	return enc
}
