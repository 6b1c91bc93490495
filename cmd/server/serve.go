// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/ZSC714725/convertpanel/internal/api"
	"github.com/ZSC714725/convertpanel/internal/ffmpeg"
	"github.com/ZSC714725/convertpanel/internal/logger"
	"github.com/ZSC714725/convertpanel/internal/mediascan"
	"github.com/ZSC714725/convertpanel/internal/task"
)

func newServeCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP control panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.bind, "bind", "", "Bind address (overrides config)")
	cmd.Flags().StringVar(&opts.ffmpeg, "ffmpeg", "", "FFmpeg binary path (overrides config)")
	return cmd
}

func runServe(ctx context.Context, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := opts.load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewWithOptions("convertpanel", logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return err
	}

	lock := flock.New(cfg.Lock.Path)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another convertpanel instance holds %s", cfg.Lock.Path)
	}
	defer lock.Unlock()

	validator, err := ffmpeg.NewExtensionValidator(cfg.Media.Extensions)
	if err != nil {
		return err
	}

	ff, err := ffmpeg.New(ffmpeg.Config{
		Binary:         cfg.FFmpeg.Path,
		MaxLogLines:    cfg.FFmpeg.LogLines,
		ValidatorInput: validator,
	})
	if err != nil {
		return fmt.Errorf("ffmpeg init: %w", err)
	}
	if !ff.Skills().Release() {
		log.Info("ffmpeg reports non-release version %q, continuing", ff.Skills().Version)
	}
	if missing := ff.Skills().Missing(ffmpeg.RequiredEncoders...); len(missing) > 0 {
		log.Error("ffmpeg %s lacks encoders: %s", ff.Skills().Version, strings.Join(missing, ", "))
	}

	scanner := mediascan.New(cfg.Media.ScannerBinary(), time.Duration(cfg.Media.ScanTimeout)*time.Second, log)
	runner := task.NewRunner(ff, scanner, log)

	handler := api.NewHandler(runner, ff, api.Media{
		Dir:        cfg.Media.Dir,
		Extensions: cfg.Media.Extensions,
		Suffix:     cfg.Media.Suffix,
		OutputExt:  cfg.Media.OutputExt,
	}, log)

	if !strings.EqualFold(cfg.Log.Level, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), cors.Default())
	handler.Routes(r)

	srv := &http.Server{
		Addr:              cfg.Server.Bind,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening on %s, videos in %s", cfg.Server.Bind, cfg.Media.Dir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)

	if st := runner.Status(); st.Active {
		drain := cfg.Server.Drain()
		log.Info("waiting up to %s for %s (%d%%)", drain, st.Label, st.Percent)
		drainCtx, cancelDrain := context.WithTimeout(context.Background(), drain)
		defer cancelDrain()
		if werr := runner.Wait(drainCtx); werr != nil {
			log.Error("exiting with %s unfinished, ffmpeg keeps running without a media scan", st.Label)
		}
	}
	return err
}
