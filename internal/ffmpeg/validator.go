// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

package ffmpeg

import (
	"fmt"
	"regexp"
	"strings"
)

// Validator decides whether a path may be handed to FFmpeg as input
type Validator interface {
	IsValid(text string) bool
}

// blockURL rejects protocol addresses (http:, concat:, pipe: ...), the
// panel only converts local files
const blockURL = `^[A-Za-z][A-Za-z0-9+.\-]*:`

type validator struct {
	allow []*regexp.Regexp
	block []*regexp.Regexp
}

// NewValidator creates a Validator from allow and block expressions.
// Block wins over allow; no allow expressions means everything not blocked
// is valid. Blank expressions are ignored.
func NewValidator(allow, block []string) (Validator, error) {
	var (
		v   validator
		err error
	)
	if v.allow, err = compileAll("allow", allow); err != nil {
		return nil, err
	}
	if v.block, err = compileAll("block", block); err != nil {
		return nil, err
	}
	return &v, nil
}

// NewExtensionValidator accepts local paths ending in one of exts, case-insensitive
func NewExtensionValidator(exts []string) (Validator, error) {
	var allow []string
	for _, ext := range exts {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext == "" {
			continue
		}
		allow = append(allow, `(?i)\.`+regexp.QuoteMeta(ext)+`$`)
	}
	return NewValidator(allow, []string{blockURL})
}

func compileAll(kind string, exps []string) ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp
	for _, exp := range exps {
		exp = strings.TrimSpace(exp)
		if exp == "" {
			continue
		}
		re, err := regexp.Compile(exp)
		if err != nil {
			return nil, fmt.Errorf("invalid %s expression '%s': %w", kind, exp, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func anyMatch(res []*regexp.Regexp, text string) bool {
	for _, re := range res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func (v *validator) IsValid(text string) bool {
	if anyMatch(v.block, text) {
		return false
	}
	return len(v.allow) == 0 || anyMatch(v.allow, text)
}
