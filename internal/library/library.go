// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

// Package library lists the camera's video folder and names conversion outputs.
package library

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var (
	ErrInvalidName = errors.New("invalid file name")
	ErrNotFound    = errors.New("file not found")
)

// Entry is one video file in the folder
type Entry struct {
	Name    string    `json:"name"`
	Path    string    `json:"-"`
	Size    int64     `json:"size_bytes"`
	SizeMB  float64   `json:"size_mb"`
	Human   string    `json:"size"`
	ModTime time.Time `json:"modified_at"`
}

// List returns regular files in dir whose extension is in exts, newest
// first. A missing dir is not an error.
func List(dir string, exts []string) ([]Entry, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	var entries []Entry
	for _, d := range dirents {
		if !d.Type().IsRegular() {
			continue
		}
		if _, ok := allowed[strings.ToLower(filepath.Ext(d.Name()))]; !ok {
			continue
		}
		info, err := d.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		entries = append(entries, newEntry(dir, info))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].ModTime.Equal(entries[j].ModTime) {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].ModTime.After(entries[j].ModTime)
	})
	return entries, nil
}

func newEntry(dir string, info os.FileInfo) Entry {
	size := info.Size()
	return Entry{
		Name:    info.Name(),
		Path:    filepath.Join(dir, info.Name()),
		Size:    size,
		SizeMB:  math.Round(float64(size)/(1024*1024)*10) / 10,
		Human:   humanize.IBytes(uint64(size)),
		ModTime: info.ModTime(),
	}
}

// OutputName maps A001.mov to A001<suffix><ext>
func OutputName(name, suffix, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + suffix + ext
}

// Resolve returns the absolute entry for a bare file name inside dir
func Resolve(dir, name string) (Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return Entry{}, ErrInvalidName
	}

	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, err
	}
	if !info.Mode().IsRegular() {
		return Entry{}, ErrNotFound
	}
	return newEntry(dir, info), nil
}
