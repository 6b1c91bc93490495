// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

package task

import "errors"

var (
	ErrBusy        = errors.New("a conversion is already running")
	ErrInvalidPath = errors.New("invalid input or output path")
)
