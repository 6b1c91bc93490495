// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultBind        = ":8080"
	defaultFFmpeg      = "ffmpeg"
	defaultLogLines    = 100
	defaultVideoDir    = "/storage/emulated/0/DCIM/Blackmagic"
	defaultSuffix      = "_h265"
	defaultOutputExt   = ".mp4"
	defaultScanner     = "termux-media-scan"
	defaultScanTimeout = 30
	defaultDrain       = 60
)

// Config 应用配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`
	Media  MediaConfig  `yaml:"media"`
	Lock   LockConfig   `yaml:"lock"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig 服务配置
type ServerConfig struct {
	Bind         string  `yaml:"bind"`
	DrainTimeout *uint64 `yaml:"drain_timeout_seconds"`
}

// Drain returns how long shutdown waits for a running conversion, zero
// means exit at once
func (s ServerConfig) Drain() time.Duration {
	if s.DrainTimeout == nil {
		return defaultDrain * time.Second
	}
	return time.Duration(*s.DrainTimeout) * time.Second
}

// FFmpegConfig FFmpeg 配置
type FFmpegConfig struct {
	Path     string `yaml:"path"`
	LogLines int    `yaml:"log_lines"`
}

// MediaConfig 视频目录与输出命名
type MediaConfig struct {
	Dir         string   `yaml:"dir"`
	Extensions  []string `yaml:"extensions"`
	Suffix      string   `yaml:"suffix"`
	OutputExt   string   `yaml:"output_ext"`
	Scanner     *string  `yaml:"scanner"`
	ScanTimeout uint64   `yaml:"scan_timeout_seconds"`
}

// ScannerBinary returns the media-index binary, empty when disabled
func (m MediaConfig) ScannerBinary() string {
	if m.Scanner == nil {
		return defaultScanner
	}
	return strings.TrimSpace(*m.Scanner)
}

// LockConfig 单实例锁
type LockConfig struct {
	Path string `yaml:"path"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	cfg.fill()
	return cfg
}

// Load 从 YAML 文件加载配置
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.fill()
	return cfg, nil
}

// 填充空值
func (c *Config) fill() {
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}
	if c.FFmpeg.Path == "" {
		c.FFmpeg.Path = defaultFFmpeg
	}
	if c.FFmpeg.LogLines <= 0 {
		c.FFmpeg.LogLines = defaultLogLines
	}
	if c.Media.Dir == "" {
		c.Media.Dir = defaultVideoDir
	}
	exts := make([]string, 0, len(c.Media.Extensions))
	for _, ext := range c.Media.Extensions {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext == "" {
			continue
		}
		exts = append(exts, "."+ext)
	}
	if len(exts) == 0 {
		exts = []string{".mov"}
	}
	c.Media.Extensions = exts
	if c.Media.Suffix == "" {
		c.Media.Suffix = defaultSuffix
	}
	if c.Media.OutputExt == "" {
		c.Media.OutputExt = defaultOutputExt
	}
	if c.Media.ScanTimeout == 0 {
		c.Media.ScanTimeout = defaultScanTimeout
	}
	if c.Lock.Path == "" {
		c.Lock.Path = filepath.Join(os.TempDir(), "convertpanel.lock")
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}
