// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/ZSC714725/convertpanel/internal/library"
)

func newListCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List convertible videos in the video directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			entries, err := library.List(cfg.Media.Dir, cfg.Media.Extensions)
			if err != nil {
				return err
			}
			return renderVideos(cmd.OutOrStdout(), entries, cfg.Media.Suffix, cfg.Media.OutputExt)
		},
	}
}

func renderVideos(w io.Writer, entries []library.Entry, suffix, outputExt string) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No videos found.")
		return err
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Name", "Size", "Modified", "Output"})
	for _, e := range entries {
		tw.AppendRow(table.Row{
			e.Name,
			e.Human,
			e.ModTime.Format("2006-01-02 15:04"),
			library.OutputName(e.Name, suffix, outputExt),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	_, err := fmt.Fprintln(w, tw.Render())
	return err
}
