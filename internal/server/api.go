// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server serves the admin UI and its JSON API over HTTP.
package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jeranaias/farmdesk/internal/conversation"
	"github.com/jeranaias/farmdesk/internal/model"
	"github.com/jeranaias/farmdesk/internal/sidebar"
	"github.com/jeranaias/farmdesk/internal/theme"
)

// ============================================================================
// REQUEST AND RESPONSE TYPES
// ============================================================================

// SendMessageRequest is the body of POST /api/messages.
type SendMessageRequest struct {
	// ConversationID is empty to start a new conversation.
	ConversationID string `json:"conversationId"`
	Content        string `json:"content"`
}

// SendMessageResponse is returned once the user message is stored. The
// reply is reported later through /api/status and the conversation itself.
type SendMessageResponse struct {
	ConversationID string `json:"conversationId"`
}

// SelectRequest is the body of PUT /api/conversations/current.
type SelectRequest struct {
	ID string `json:"id"`
}

// StatusResponse reports the reply pipeline state.
type StatusResponse struct {
	IsLoading     bool   `json:"isLoading"`
	Error         string `json:"error"`
	CurrentID     string `json:"currentConversationId"`
	Conversations int    `json:"conversations"`

	// Conversation is set when the request names one with ?conversation=.
	Conversation *ConversationStatus `json:"conversation,omitempty"`
}

// ConversationStatus is the reply state of one conversation.
type ConversationStatus struct {
	ID        string `json:"id"`
	IsLoading bool   `json:"isLoading"`
	Pending   int    `json:"pending"`
	Error     string `json:"error"`
}

// ThemeRequest is the body of PUT /api/theme.
type ThemeRequest struct {
	Theme string `json:"theme"`
}

// ThemeResponse describes the theme preference.
type ThemeResponse struct {
	Theme   theme.Mode     `json:"theme"`
	Applied theme.Applied  `json:"applied"`
	Options []theme.Option `json:"options"`
}

// SidebarRequest is the body of PUT /api/sidebar. Nil fields are unchanged.
type SidebarRequest struct {
	ActiveModule *string `json:"activeModule"`
	IsHovering   *bool   `json:"isHovering"`
}

// SidebarResponse describes the navigation state.
type SidebarResponse struct {
	sidebar.State
	ShowSecondary bool           `json:"shouldShowSecondary"`
	Items         []sidebar.Item `json:"items"`
}

// UserResponse describes the session.
type UserResponse struct {
	Authenticated bool   `json:"isAuthenticated"`
	IsAdmin       bool   `json:"isAdmin"`
	Name          string `json:"userName"`
	RoleLabel     string `json:"roleLabel"`
	User          any    `json:"user"`
}

// RenderRequest is the body of POST /api/render.
type RenderRequest struct {
	Content string `json:"content"`
}

// RenderResponse carries sanitized HTML.
type RenderResponse struct {
	HTML string `json:"html"`
}

// ============================================================================
// CONVERSATIONS
// ============================================================================

func (s *Server) handleListConversations(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	var convs []*model.Conversation
	if q == "" {
		convs = s.convs.Conversations()
	} else {
		convs = s.convs.Search(q)
	}
	if convs == nil {
		convs = []*model.Conversation{}
	}
	c.JSON(http.StatusOK, convs)
}

func (s *Server) handleCreateConversation(c *gin.Context) {
	c.JSON(http.StatusCreated, s.convs.CreateConversation())
}

func (s *Server) handleGetConversation(c *gin.Context) {
	conv, ok := s.convs.Conversation(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorBody("conversation not found"))
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (s *Server) handleDeleteConversation(c *gin.Context) {
	s.convs.DeleteConversation(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSelectConversation(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	s.convs.SetCurrentConversation(req.ID)
	c.JSON(http.StatusOK, gin.H{"currentConversationId": s.convs.CurrentID()})
}

// ============================================================================
// MESSAGES
// ============================================================================

func (s *Server) handleSendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, errorBody("content must not be empty"))
		return
	}
	if len(req.Content) > MaxMessageLength {
		c.JSON(http.StatusRequestEntityTooLarge, errorBody("content too long"))
		return
	}

	id, err := s.convs.SendMessage(req.ConversationID, req.Content)
	switch {
	case errors.Is(err, conversation.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, errorBody("conversation not found"))
		return
	case errors.Is(err, conversation.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, errorBody("store is closed"))
		return
	case err != nil:
		s.logger.Error("send message failed", "error", err)
		c.JSON(http.StatusInternalServerError, errorBody("send failed"))
		return
	}

	c.JSON(http.StatusAccepted, SendMessageResponse{ConversationID: id})
}

func (s *Server) handleStatus(c *gin.Context) {
	resp := StatusResponse{
		IsLoading:     s.convs.IsLoading(),
		Error:         s.convs.Error(),
		CurrentID:     s.convs.CurrentID(),
		Conversations: s.convs.Len(),
	}
	if id := c.Query("conversation"); id != "" {
		st := s.convs.Status(id)
		resp.Conversation = &ConversationStatus{
			ID:        id,
			IsLoading: st.Loading(),
			Pending:   st.Pending,
			Error:     st.Err,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// ============================================================================
// PREFERENCES
// ============================================================================

func (s *Server) themeResponse() ThemeResponse {
	return ThemeResponse{
		Theme:   s.theme.Theme(),
		Applied: s.theme.Applied(),
		Options: theme.Options(),
	}
}

func (s *Server) handleGetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, s.themeResponse())
}

func (s *Server) handleSetTheme(c *gin.Context) {
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	mode, err := theme.ParseMode(req.Theme)
	if err == nil {
		err = s.theme.SetTheme(mode)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	c.JSON(http.StatusOK, s.themeResponse())
}

func (s *Server) sidebarResponse() SidebarResponse {
	st := s.sidebar.State()
	return SidebarResponse{
		State:         st,
		ShowSecondary: st.ShouldShowSecondary(),
		Items:         sidebar.Items(),
	}
}

func (s *Server) handleGetSidebar(c *gin.Context) {
	c.JSON(http.StatusOK, s.sidebarResponse())
}

func (s *Server) handleUpdateSidebar(c *gin.Context) {
	var req SidebarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.ActiveModule != nil {
		if err := s.sidebar.SetActiveModule(sidebar.Module(*req.ActiveModule)); err != nil {
			c.JSON(http.StatusBadRequest, errorBody(err.Error()))
			return
		}
	}
	if req.IsHovering != nil {
		s.sidebar.SetHovering(*req.IsHovering)
	}
	c.JSON(http.StatusOK, s.sidebarResponse())
}

func (s *Server) handleTogglePin(c *gin.Context) {
	s.sidebar.TogglePin()
	c.JSON(http.StatusOK, s.sidebarResponse())
}

// ============================================================================
// SESSION
// ============================================================================

func (s *Server) userResponse() UserResponse {
	resp := UserResponse{
		Authenticated: s.user.IsAuthenticated(),
		IsAdmin:       s.user.IsAdmin(),
		Name:          s.user.UserName(),
		RoleLabel:     s.user.RoleLabel(),
	}
	if info, ok := s.user.User(); ok {
		resp.User = info
	}
	return resp
}

func (s *Server) handleGetUser(c *gin.Context) {
	c.JSON(http.StatusOK, s.userResponse())
}

func (s *Server) handleLogin(c *gin.Context) {
	s.user.MockLogin()
	c.JSON(http.StatusOK, s.userResponse())
}

func (s *Server) handleLogout(c *gin.Context) {
	s.user.Logout()
	c.JSON(http.StatusOK, s.userResponse())
}

// ============================================================================
// RENDERING AND HEALTH
// ============================================================================

func (s *Server) handleRender(c *gin.Context) {
	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	c.JSON(http.StatusOK, RenderResponse{HTML: s.html.Render(req.Content)})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"stats":  s.stats.Snapshot(),
	})
}
