// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

package main

import (
	"github.com/spf13/cobra"

	"github.com/ZSC714725/convertpanel/internal/config"
)

// options holds flags that override the YAML config
type options struct {
	configPath string
	bind       string
	ffmpeg     string
	dir        string
}

func (o *options) load() (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		cfg, err = config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
	}

	if o.bind != "" {
		cfg.Server.Bind = o.bind
	}
	if o.ffmpeg != "" {
		cfg.FFmpeg.Path = o.ffmpeg
	}
	if o.dir != "" {
		cfg.Media.Dir = o.dir
	}
	return cfg, nil
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "convertpanel",
		Short:         "Local control panel for H.265 conversions",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", "", "Video directory (overrides config)")
	rootCmd.Flags().StringVar(&opts.bind, "bind", "", "Bind address (overrides config)")
	rootCmd.Flags().StringVar(&opts.ffmpeg, "ffmpeg", "", "FFmpeg binary path (overrides config)")

	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newListCommand(opts))

	return rootCmd
}
