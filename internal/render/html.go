// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render converts message content into display markup.
package render

import (
	"bytes"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	gmutil "github.com/yuin/goldmark/util"
)

// =============================================================================
// HTML FORMATTER
// =============================================================================

// HTMLFormatter renders markdown to sanitized HTML.
//
// Fenced code is highlighted with chroma using CSS classes and wrapped in
// <pre><code class="hljs language-x">. Inline code gets the inline-code
// class and every link opens in a new tab without an opener or referrer.
type HTMLFormatter struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	logger *slog.Logger
}

// HTMLOption configures an HTMLFormatter.
type HTMLOption func(*HTMLFormatter)

// WithMarkdown replaces the markdown engine.
func WithMarkdown(md goldmark.Markdown) HTMLOption {
	return func(f *HTMLFormatter) { f.md = md }
}

// WithLogger sets the logger used to report conversion failures.
func WithLogger(logger *slog.Logger) HTMLOption {
	return func(f *HTMLFormatter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewHTMLFormatter creates a formatter with GFM and hard line breaks.
func NewHTMLFormatter(opts ...HTMLOption) *HTMLFormatter {
	f := &HTMLFormatter{
		md:     NewMarkdown(),
		policy: newPolicy(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewMarkdown returns the goldmark engine used by HTMLFormatter.
func NewMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			renderer.WithNodeRenderers(gmutil.Prioritized(&chatRenderer{}, 100)),
		),
	)
}

// Render converts content to HTML. On failure the escaped content is
// returned instead.
func (f *HTMLFormatter) Render(content string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("markdown render panicked", "panic", r)
			out = EscapeHTML(content)
		}
	}()

	var buf bytes.Buffer
	if err := f.md.Convert([]byte(content), &buf); err != nil {
		f.logger.Error("markdown render failed", "error", err)
		return EscapeHTML(content)
	}
	return f.policy.Sanitize(buf.String())
}

var (
	classPattern = regexp.MustCompile(`^[A-Za-z0-9 _-]+$`)
	relPattern   = regexp.MustCompile(`^[a-z ]+$`)
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(false)
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AllowAttrs("rel").Matching(relPattern).OnElements("a")
	p.AllowAttrs("class").Matching(classPattern).OnElements("code", "span", "pre")
	return p
}

// =============================================================================
// NODE RENDERER
// =============================================================================

const linkAttrs = ` target="_blank" rel="noopener noreferrer">`

// chatRenderer overrides the goldmark HTML output for code and links.
type chatRenderer struct{}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *chatRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCode)
	reg.Register(ast.KindCodeSpan, r.renderCodeSpan)
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindAutoLink, r.renderAutoLink)
}

func (r *chatRenderer) renderFencedCode(w gmutil.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var code strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	lang := strings.ToLower(string(n.Language(source)))
	lexer := lexers.Get(lang)
	class := "hljs"
	if lang != "" && lexer != nil {
		class = "hljs language-" + lang
	} else {
		lexer = lexers.Analyse(code.String())
	}

	_, _ = fmt.Fprintf(w, `<pre><code class="%s">`, EscapeHTML(class))
	_, _ = w.WriteString(highlightHTML(code.String(), lexer))
	_, _ = w.WriteString("</code></pre>\n")
	return ast.WalkSkipChildren, nil
}

func (r *chatRenderer) renderCodeSpan(w gmutil.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</code>")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<code class="inline-code">`)
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			value := t.Segment.Value(source)
			_, _ = w.WriteString(EscapeHTML(strings.ReplaceAll(string(value), "\n", " ")))
		case *ast.String:
			_, _ = w.WriteString(EscapeHTML(string(t.Value)))
		}
	}
	return ast.WalkSkipChildren, nil
}

func (r *chatRenderer) renderLink(w gmutil.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)
	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<a href="`)
	if !html.IsDangerousURL(n.Destination) {
		_, _ = w.Write(gmutil.EscapeHTML(gmutil.URLEscape(n.Destination, true)))
	}
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(gmutil.EscapeHTML(n.Title))
		_ = w.WriteByte('"')
	}
	_, _ = w.WriteString(linkAttrs)
	return ast.WalkContinue, nil
}

// renderAutoLink covers <url> autolinks and bare URLs found by linkify.
func (r *chatRenderer) renderAutoLink(w gmutil.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.AutoLink)
	url := n.URL(source)

	_, _ = w.WriteString(`<a href="`)
	if n.AutoLinkType == ast.AutoLinkEmail && !bytes.HasPrefix(bytes.ToLower(url), []byte("mailto:")) {
		_, _ = w.WriteString("mailto:")
	}
	if !html.IsDangerousURL(url) {
		_, _ = w.Write(gmutil.EscapeHTML(gmutil.URLEscape(url, false)))
	}
	_ = w.WriteByte('"')
	_, _ = w.WriteString(linkAttrs)
	_, _ = w.Write(gmutil.EscapeHTML(n.Label(source)))
	_, _ = w.WriteString("</a>")
	return ast.WalkContinue, nil
}

// highlightHTML tokenises code with lexer and emits class-based spans.
// A nil lexer or a tokenising failure yields escaped plain text.
func highlightHTML(code string, lexer chroma.Lexer) string {
	if lexer == nil {
		return EscapeHTML(code)
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("github-dark")
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.PreventSurroundingPre(true),
	)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return EscapeHTML(code)
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return EscapeHTML(code)
	}
	return buf.String()
}

// HighlightCSS returns the stylesheet for the highlight classes.
func HighlightCSS() string {
	style := chromaStyles.Get("github-dark")
	if style == nil {
		style = chromaStyles.Fallback
	}
	var buf strings.Builder
	if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&buf, style); err != nil {
		return ""
	}
	return buf.String()
}
