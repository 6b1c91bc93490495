// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

package api

import (
	"github.com/ZSC714725/convertpanel/internal/ffmpeg"
	"github.com/ZSC714725/convertpanel/internal/ffmpeg/skills"
)

func skillsToAPI(s skills.Skills) SkillsResponse {
	resp := SkillsResponse{
		Version:       s.Version,
		Configuration: s.Configuration,
		Required:      ffmpeg.RequiredEncoders,
		Missing:       s.Missing(ffmpeg.RequiredEncoders...),
	}
	if resp.Missing == nil {
		resp.Missing = []string{}
	}

	resp.Encoders.Video = encodersToAPI(s.Encoders.Video)
	resp.Encoders.Audio = encodersToAPI(s.Encoders.Audio)
	resp.Encoders.Subtitle = encodersToAPI(s.Encoders.Subtitle)
	return resp
}

func encodersToAPI(in []skills.Encoder) []SkillsEncoder {
	out := make([]SkillsEncoder, len(in))
	for i, e := range in {
		out[i] = SkillsEncoder{ID: e.Id, Name: e.Name}
	}
	return out
}
