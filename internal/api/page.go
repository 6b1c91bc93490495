// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ConvertPanel - FFmpeg H.265 转码控制面板

package api

import (
	"html/template"

	"github.com/ZSC714725/convertpanel/internal/library"
	"github.com/ZSC714725/convertpanel/internal/task"
)

type pageData struct {
	Files   []library.Entry
	Message string
	Status  task.Status
}

var pageTemplate = template.Must(template.New("index").Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Blackmagic Converter</title>
    <style>
        body { font-family: -apple-system, sans-serif; background: #000; color: #fff; padding: 20px; text-align: center; }
        h1 { color: #32d74b; margin-bottom: 20px; text-transform: uppercase; letter-spacing: 1px; }
        .card { background: #1c1c1e; padding: 15px; margin-bottom: 15px; border-radius: 12px; border: 1px solid #333; text-align: left; }
        .filename { font-weight: bold; font-size: 1.1em; word-break: break-all; margin-bottom: 5px; }
        .meta { color: #888; font-size: 0.9em; margin-bottom: 15px; }
        .btn { width: 100%; padding: 15px; background: #32d74b; color: #000; border: none; border-radius: 8px; font-weight: bold; font-size: 16px; cursor: pointer; }
        .btn:disabled { opacity: 0.4; }
        .status-box { background: #333; padding: 15px; border-radius: 8px; margin-bottom: 20px; border-left: 4px solid #32d74b; text-align: left; }
        .bar { background: #1c1c1e; border-radius: 4px; height: 8px; margin-top: 8px; }
        .bar > div { background: #32d74b; height: 8px; border-radius: 4px; }
        .refresh { display: inline-block; margin-top: 30px; color: #32d74b; text-decoration: none; border: 1px solid #32d74b; padding: 8px 16px; border-radius: 20px; }
    </style>
</head>
<body>
    <h1>Blackmagic Tools</h1>

    {{if .Message}}<div class="status-box">{{.Message}}</div>{{end}}

    <div class="status-box" id="job" {{if not .Status.Active}}hidden{{end}}>
        <span id="job-label">{{.Status.Label}}</span> &middot; <span id="job-percent">{{.Status.Percent}}</span>%
        <div class="bar"><div id="job-bar" style="width: {{.Status.Percent}}%"></div></div>
    </div>

    {{range .Files}}
    <div class="card">
        <div class="filename">{{.Name}}</div>
        <div class="meta">{{.SizeMB}} MB</div>
        <form action="/convert" method="post">
            <input type="hidden" name="filename" value="{{.Name}}">
            <button type="submit" class="btn" {{if $.Status.Active}}disabled{{end}}>Convertir a H.265</button>
        </form>
    </div>
    {{else}}
    <div style="padding: 40px; color: #666;">No se encontraron archivos de video en la carpeta.</div>
    {{end}}

    <a href="/" class="refresh">Actualizar Lista</a>

    <script>
    (function poll() {
        fetch("/api/v3/status").then(function (r) { return r.json(); }).then(function (s) {
            var box = document.getElementById("job");
            box.hidden = !s.active;
            document.getElementById("job-label").textContent = s.label;
            document.getElementById("job-percent").textContent = s.percent;
            document.getElementById("job-bar").style.width = Math.min(s.percent, 100) + "%";
            document.querySelectorAll(".btn").forEach(function (b) { b.disabled = s.active; });
        }).catch(function () {}).finally(function () { setTimeout(poll, 2000); });
    })();
    </script>
</body>
</html>
`
