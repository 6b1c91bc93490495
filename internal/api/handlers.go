// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

package api

import (
	"errors"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/ZSC714725/convertpanel/internal/ffmpeg/skills"
	"github.com/ZSC714725/convertpanel/internal/library"
	"github.com/ZSC714725/convertpanel/internal/logger"
	"github.com/ZSC714725/convertpanel/internal/process"
	"github.com/ZSC714725/convertpanel/internal/task"
)

// Runner is the single-job conversion slot
type Runner interface {
	Start(input, output, label string) (string, error)
	Status() task.Status
	Usage() task.Usage
	Log() []process.Line
}

// Tool is the FFmpeg installation
type Tool interface {
	ValidateInput(address string) bool
	Skills() skills.Skills
	ReloadSkills() error
}

// Media describes the video folder and output naming
type Media struct {
	Dir        string
	Extensions []string
	Suffix     string
	OutputExt  string
}

// Handler holds dependencies
type Handler struct {
	runner Runner
	tool   Tool
	media  Media
	logger logger.Logger
}

// NewHandler creates API handler
func NewHandler(runner Runner, tool Tool, media Media, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{runner: runner, tool: tool, media: media, logger: log}
}

// Routes registers the page and the /api/v3 endpoints
func (h *Handler) Routes(r gin.IRouter) {
	r.GET("/", h.Index)
	r.POST("/convert", h.ConvertForm)

	v3 := r.Group("/api/v3")
	{
		v3.GET("/videos", h.ListVideos)
		v3.POST("/convert", h.Convert)
		v3.GET("/status", h.GetStatus)
		v3.GET("/report", h.GetReport)
		v3.GET("/skills", h.Skills)
		v3.POST("/skills/reload", h.ReloadSkills)
	}
}

func errResp(c *gin.Context, code int, msg, detail string) {
	c.JSON(code, ErrorResponse{Code: code, Message: msg, Detail: detail})
}

// apiError carries the HTTP mapping of a failed conversion request
type apiError struct {
	code int
	msg  string
	err  error
}

func (e *apiError) Error() string { return e.msg + ": " + e.err.Error() }

var errUnsupported = errors.New("unsupported file type")

func (h *Handler) convert(filename string) (ConvertResponse, *apiError) {
	entry, err := library.Resolve(h.media.Dir, filename)
	if err != nil {
		switch {
		case errors.Is(err, library.ErrInvalidName):
			return ConvertResponse{}, &apiError{http.StatusBadRequest, "Invalid filename", err}
		case errors.Is(err, library.ErrNotFound):
			return ConvertResponse{}, &apiError{http.StatusNotFound, "Unknown file", err}
		}
		return ConvertResponse{}, &apiError{http.StatusInternalServerError, "Stat failed", err}
	}

	if !h.tool.ValidateInput(entry.Path) {
		return ConvertResponse{}, &apiError{http.StatusBadRequest, "Unsupported file", errUnsupported}
	}

	output := filepath.Join(h.media.Dir, library.OutputName(entry.Name, h.media.Suffix, h.media.OutputExt))
	if output == entry.Path {
		return ConvertResponse{}, &apiError{http.StatusBadRequest, "Output would overwrite input", errUnsupported}
	}

	id, err := h.runner.Start(entry.Path, output, entry.Name)
	if err != nil {
		if errors.Is(err, task.ErrBusy) {
			return ConvertResponse{}, &apiError{http.StatusConflict, "Busy", err}
		}
		return ConvertResponse{}, &apiError{http.StatusBadRequest, "Start failed", err}
	}

	return ConvertResponse{ID: id, Input: entry.Path, Output: output}, nil
}

// Convert POST /api/v3/convert
func (h *Handler) Convert(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp(c, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	resp, apiErr := h.convert(req.Filename)
	if apiErr != nil {
		errResp(c, apiErr.code, apiErr.msg, apiErr.err.Error())
		return
	}

	c.JSON(http.StatusAccepted, resp)
}

// ConvertForm POST /convert, the page's form target
func (h *Handler) ConvertForm(c *gin.Context) {
	filename := c.PostForm("filename")
	if filename == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}

	var msg string
	if _, apiErr := h.convert(filename); apiErr != nil {
		h.logger.Info("convert %s rejected: %v", filename, apiErr)
		if apiErr.code == http.StatusConflict {
			msg = "Ya hay una conversión en curso"
		} else {
			msg = apiErr.msg + ": " + filename
		}
	} else {
		msg = "Procesando " + filename + "..."
	}

	c.Redirect(http.StatusFound, "/?msg="+url.QueryEscape(msg))
}

// ListVideos GET /api/v3/videos
func (h *Handler) ListVideos(c *gin.Context) {
	entries, err := library.List(h.media.Dir, h.media.Extensions)
	if err != nil {
		errResp(c, http.StatusInternalServerError, "List failed", err.Error())
		return
	}
	if entries == nil {
		entries = []library.Entry{}
	}
	c.JSON(http.StatusOK, entries)
}

// GetStatus GET /api/v3/status
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Status: h.runner.Status(),
		Usage:  h.runner.Usage(),
	})
}

// GetReport GET /api/v3/report
func (h *Handler) GetReport(c *gin.Context) {
	lines := h.runner.Log()

	report := ProcessReport{
		ID:  h.runner.Status().ID,
		Log: make([][2]string, len(lines)),
	}
	for i, line := range lines {
		report.Log[i] = [2]string{
			line.Timestamp.Format("2006-01-02 15:04:05.000"),
			line.Data,
		}
	}

	c.JSON(http.StatusOK, report)
}

// Skills GET /api/v3/skills
func (h *Handler) Skills(c *gin.Context) {
	c.JSON(http.StatusOK, skillsToAPI(h.tool.Skills()))
}

// ReloadSkills POST /api/v3/skills/reload
func (h *Handler) ReloadSkills(c *gin.Context) {
	if err := h.tool.ReloadSkills(); err != nil {
		errResp(c, http.StatusInternalServerError, "Reload failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, skillsToAPI(h.tool.Skills()))
}

// Index GET /
func (h *Handler) Index(c *gin.Context) {
	entries, err := library.List(h.media.Dir, h.media.Extensions)
	if err != nil {
		h.logger.Error("list %s: %v", h.media.Dir, err)
	}

	c.Render(http.StatusOK, render.HTML{
		Template: pageTemplate,
		Name:     "index",
		Data: pageData{
			Files:   entries,
			Message: c.Query("msg"),
			Status:  h.runner.Status(),
		},
	})
}
