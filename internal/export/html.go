// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/jeranaias/farmdesk/internal/model"
	"github.com/jeranaias/farmdesk/internal/render"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports conversations to a standalone HTML page.
type HTMLExporter struct {
	options *Options
	html    *render.HTMLFormatter
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	f := opts.HTML
	if f == nil {
		f = render.NewHTMLFormatter()
	}
	return &HTMLExporter{options: opts, html: f}
}

type htmlMessage struct {
	ID    string
	Role  string
	Label string
	Time  string
	Body  template.HTML
}

type htmlPage struct {
	Title        string
	Theme        string
	Created      string
	Updated      string
	Count        int
	Metadata     bool
	Timestamps   bool
	HighlightCSS template.CSS
	Messages     []htmlMessage
	Generated    string
}

// Export converts a conversation to HTML. Assistant replies go through the
// sanitizing markdown formatter; everything else is escaped text.
func (e *HTMLExporter) Export(conv *model.Conversation) ([]byte, error) {
	if err := validate(conv); err != nil {
		return nil, err
	}

	theme := e.options.Theme
	if theme != "dark" {
		theme = "light"
	}
	page := htmlPage{
		Title:        conv.GetTitle(),
		Theme:        theme,
		Created:      render.FormatDate(conv.CreatedAt, render.DateFull),
		Updated:      render.FormatDate(conv.UpdatedAt, render.DateFull),
		Count:        len(conv.Messages),
		Metadata:     e.options.IncludeMetadata,
		Timestamps:   e.options.IncludeTimestamps,
		HighlightCSS: template.CSS(render.HighlightCSS()),
		Generated:    time.Now().Format(time.RFC3339),
	}
	for _, msg := range conv.Messages {
		var body template.HTML
		if msg.Role == model.RoleAssistant {
			body = template.HTML(e.html.Render(msg.Content))
		} else {
			body = template.HTML(strings.ReplaceAll(render.EscapeHTML(msg.Content), "\n", "<br>"))
		}
		page.Messages = append(page.Messages, htmlMessage{
			ID:    msg.ID,
			Role:  string(msg.Role),
			Label: msg.Role.DisplayName(),
			Time:  render.FormatDate(msg.Timestamp, e.options.DateStyle),
			Body:  body,
		})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

var pageTemplate = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta name="generator" content="farmdesk">
<title>{{.Title}}</title>
<style>
:root { --bg: #ffffff; --fg: #1f2328; --muted: #656d76; --user: #e8f3ff; --reply: #f6f8fa; --border: #d0d7de; }
body.dark-theme { --bg: #0d1117; --fg: #e6edf3; --muted: #8d96a0; --user: #132339; --reply: #161b22; --border: #30363d; }
body { margin: 0; background: var(--bg); color: var(--fg); font: 15px/1.6 -apple-system, "Segoe UI", sans-serif; }
.container { max-width: 860px; margin: 0 auto; padding: 32px 20px; }
header h1 { margin: 0 0 4px; font-size: 24px; }
header .meta { color: var(--muted); font-size: 13px; }
.message { margin: 20px 0; padding: 12px 16px; border: 1px solid var(--border); border-radius: 8px; }
.message.user { background: var(--user); }
.message.assistant { background: var(--reply); }
.message.system { color: var(--muted); font-style: italic; }
.message .role { font-weight: 600; font-size: 13px; }
.message .time { color: var(--muted); font-size: 12px; margin-left: 8px; }
pre { overflow-x: auto; padding: 12px; border-radius: 6px; background: #0d1117; }
code.inline-code { padding: 1px 4px; border-radius: 4px; background: var(--border); }
footer { margin-top: 32px; color: var(--muted); font-size: 12px; text-align: center; }
{{.HighlightCSS}}
</style>
</head>
<body class="{{.Theme}}-theme">
<div class="container">
<header>
<h1>{{.Title}}</h1>
{{- if .Metadata}}
<div class="meta">Created {{.Created}} · Updated {{.Updated}} · {{.Count}} messages</div>
{{- end}}
</header>
<main class="conversation">
{{- range .Messages}}
<article class="message {{.Role}}" data-message-id="{{.ID}}" data-role="{{.Role}}">
<div class="header"><span class="role">{{.Label}}</span>{{if $.Timestamps}}<span class="time">{{.Time}}</span>{{end}}</div>
<div class="content">{{.Body}}</div>
</article>
{{- end}}
</main>
<footer>Exported from farmdesk at {{.Generated}}</footer>
</div>
</body>
</html>
`))
