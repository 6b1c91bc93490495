// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

package api

import "github.com/ZSC714725/convertpanel/internal/task"

// ConvertRequest for POST /api/v3/convert
type ConvertRequest struct {
	Filename string `json:"filename" binding:"required"`
}

// ConvertResponse is returned once a conversion was accepted
type ConvertResponse struct {
	ID     string `json:"id"`
	Input  string `json:"input"`
	Output string `json:"output"`
}

// StatusResponse is the job slot plus live process usage
type StatusResponse struct {
	task.Status
	task.Usage
}

// ProcessReport for logs
type ProcessReport struct {
	ID  string      `json:"id"`
	Log [][2]string `json:"log"`
}

// SkillsResponse for API
type SkillsResponse struct {
	Version       string         `json:"version"`
	Configuration string         `json:"configuration"`
	Required      []string       `json:"required"`
	Missing       []string       `json:"missing"`
	Encoders      SkillsEncoders `json:"encoders"`
}

// SkillsEncoders grouped by media type
type SkillsEncoders struct {
	Video    []SkillsEncoder `json:"video"`
	Audio    []SkillsEncoder `json:"audio"`
	Subtitle []SkillsEncoder `json:"subtitle"`
}

type SkillsEncoder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ErrorResponse for API errors
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}
