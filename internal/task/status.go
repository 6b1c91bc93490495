// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

package task

// Result of the last finished job. It never changes Active or Percent: a
// failed conversion still ends with active=false, percent=100.
type Result string

const (
	ResultNone     Result = ""
	ResultFinished Result = "finished"
	ResultFailed   Result = "failed"
)

// Status is a snapshot of the single job slot
type Status struct {
	Active  bool   `json:"active"`
	Label   string `json:"label"`
	Percent int    `json:"percent"`

	ID         string  `json:"id,omitempty"`
	Input      string  `json:"input,omitempty"`
	Output     string  `json:"output,omitempty"`
	StartedAt  int64   `json:"started_at,omitempty"`
	FinishedAt int64   `json:"finished_at,omitempty"`
	Result     Result  `json:"result,omitempty"`
	Time       float64 `json:"time_seconds"`
	Duration   float64 `json:"duration_seconds"`
}

// Usage of the running FFmpeg process
type Usage struct {
	Pid    int     `json:"pid"`
	CPU    float64 `json:"cpu_usage"`
	Memory uint64  `json:"memory_bytes"`
}
