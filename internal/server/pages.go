// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server serves the admin UI and its JSON API over HTTP.
package server

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jeranaias/farmdesk/internal/model"
	"github.com/jeranaias/farmdesk/internal/render"
	"github.com/jeranaias/farmdesk/internal/router"
	"github.com/jeranaias/farmdesk/internal/sidebar"
	"github.com/jeranaias/farmdesk/internal/theme"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/scrollspy.js
var scrollSpyJS []byte

var pageTemplates = template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))

// ============================================================================
// VIEW MODELS
// ============================================================================

type navItem struct {
	sidebar.Item
	Active bool
}

type conversationLink struct {
	ID      string
	Title   string
	Path    string
	Updated string
	Active  bool
}

type messageView struct {
	ID   string
	Role model.Role
	// Body is escaped text for user messages and sanitized HTML for replies.
	Body template.HTML
	Time string
}

// spyView carries the current-message tracking options to the page script.
type spyView struct {
	Threshold     float64
	RootMargin    string
	SnippetLength int
}

type pageData struct {
	Title     string
	AppTitle  string
	Route     string
	Theme     theme.Applied
	ThemeIcon string
	Nav       []navItem
	ShowPanel bool
	UserName  string
	RoleLabel string

	Conversations []conversationLink
	Current       *conversationLink
	Messages      []messageView
	IsLoading     bool
	Error         string
	Spy           spyView
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handlePage(c *gin.Context) {
	m, err := router.Resolve(c.Request.URL.Path)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if m.Redirected {
		c.Redirect(http.StatusFound, m.Path)
		return
	}

	if m.Route.Name == router.RouteChat {
		if id := m.Params["id"]; id != "" {
			if _, ok := s.convs.Conversation(id); !ok {
				c.Redirect(http.StatusFound, router.ChatPath(""))
				return
			}
			s.convs.SetCurrentConversation(id)
		}
	}

	c.HTML(http.StatusOK, "page.html", s.pageData(m))
}

// handleSendForm is the form post used by the page composer.
func (s *Server) handleSendForm(c *gin.Context) {
	id := c.PostForm("conversation_id")
	content := c.PostForm("content")
	if strings.TrimSpace(content) == "" || len(content) > MaxMessageLength {
		c.Redirect(http.StatusSeeOther, router.ChatPath(id))
		return
	}

	newID, err := s.convs.SendMessage(id, content)
	if err != nil {
		s.logger.Warn("form send failed", "conversation_id", id, "error", err)
		c.Redirect(http.StatusSeeOther, router.ChatPath(""))
		return
	}
	c.Redirect(http.StatusSeeOther, router.ChatPath(newID))
}

func (s *Server) handleNoRoute(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.Method != http.MethodGet {
		c.JSON(http.StatusNotFound, errorBody("not found"))
		return
	}
	s.handlePage(c)
}

func (s *Server) handleHighlightCSS(c *gin.Context) {
	c.Data(http.StatusOK, "text/css; charset=utf-8", []byte(render.HighlightCSS()))
}

func (s *Server) handleScrollSpyJS(c *gin.Context) {
	c.Data(http.StatusOK, "text/javascript; charset=utf-8", scrollSpyJS)
}

// ============================================================================
// VIEW BUILDING
// ============================================================================

func (s *Server) pageData(m router.Match) pageData {
	active := s.sidebar.ActiveModule()
	if m.Route.Name == router.RouteKnowledge {
		active = sidebar.ModuleKnowledge
	} else if m.Route.Name == router.RouteForms {
		active = sidebar.ModuleForms
	}

	nav := make([]navItem, 0, len(sidebar.Items()))
	for _, it := range sidebar.Items() {
		nav = append(nav, navItem{Item: it, Active: it.ID == active})
	}

	mode := s.theme.Theme()
	data := pageData{
		Title:     router.DocumentTitle(m),
		AppTitle:  router.AppTitle,
		Route:     m.Route.Name,
		Theme:     s.theme.Applied(),
		ThemeIcon: theme.Icon(mode),
		Nav:       nav,
		ShowPanel: s.sidebar.ShouldShowSecondary(),
		UserName:  s.user.UserName(),
		RoleLabel: s.user.RoleLabel(),
		IsLoading: s.convs.IsLoading(),
		Error:     s.convs.Error(),
		Spy: spyView{
			Threshold:     s.spy.ThresholdValue(),
			RootMargin:    s.spy.RootMargin,
			SnippetLength: s.spy.SnippetLength,
		},
	}
	if m.Route.Name != router.RouteChat {
		return data
	}

	currentID := s.convs.CurrentID()
	for _, conv := range s.convs.Conversations() {
		link := conversationLink{
			ID:      conv.ID,
			Title:   render.TruncateText(conv.GetTitle()),
			Path:    router.ChatPath(conv.ID),
			Updated: render.FormatDate(conv.UpdatedAt, s.dateFormat),
			Active:  conv.ID == currentID,
		}
		data.Conversations = append(data.Conversations, link)
		if link.Active {
			l := link
			data.Current = &l
		}
	}

	if conv, ok := s.convs.Current(); ok {
		data.Messages = make([]messageView, 0, len(conv.Messages))
		for _, msg := range conv.Messages {
			data.Messages = append(data.Messages, s.messageView(msg))
		}
	}
	return data
}

func (s *Server) messageView(msg *model.Message) messageView {
	var body template.HTML
	if msg.Role == model.RoleAssistant {
		// Render output passed the sanitizer.
		body = template.HTML(s.html.Render(msg.Content))
	} else {
		body = template.HTML(strings.ReplaceAll(render.EscapeHTML(msg.Content), "\n", "<br>"))
	}
	return messageView{
		ID:   msg.ID,
		Role: msg.Role,
		Body: body,
		Time: render.FormatDate(msg.Timestamp, render.DateTime),
	}
}
