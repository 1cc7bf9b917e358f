// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/farmdesk/internal/config"
	"github.com/jeranaias/farmdesk/internal/model"
	"github.com/jeranaias/farmdesk/internal/render"
	"github.com/jeranaias/farmdesk/internal/sidebar"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// LineReader prompts for one line of input. io.EOF ends the session.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// ChatCLI wraps liner with a history file.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor and loads the saved history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	c := &ChatCLI{line: line, historyFile: filepath.Join(dir, "chat_history")}
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
	return c
}

// Prompt implements LineReader. Ctrl+C reads as an empty line.
func (c *ChatCLI) Prompt(prompt string) (string, error) {
	s, err := c.line.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", nil
	}
	return s, err
}

// AppendHistory implements LineReader.
func (c *ChatCLI) AppendHistory(item string) {
	c.line.AppendHistory(item)
}

// Close saves the history with owner-only permissions and restores the
// terminal.
func (c *ChatCLI) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

const chatPrompt = "you> "

// HandleChat runs the interactive REPL on the terminal.
func HandleChat(ctx context.Context, app *App, args Args) error {
	if !IsTTY() {
		return &CommandError{Command: "chat", Err: errors.New("stdin is not a terminal")}
	}
	in := NewChatCLI()
	defer in.Close()

	formatter := render.NewTerminalFormatter(app.Theme.GlamourStyle(), min(GetTerminalWidth()-4, app.Config.UI.WordWrap))
	return RunChat(ctx, app, in, os.Stdout, formatter)
}

// chatSession is one REPL run. listed remembers the last /list so that
// /switch N refers to what the user saw.
type chatSession struct {
	app       *App
	out       io.Writer
	formatter *render.TerminalFormatter
	listed    []string
}

// RunChat reads lines from in until EOF, /quit or ctx is done. Each line is
// sent to the current conversation and the reply printed once it lands.
func RunChat(ctx context.Context, app *App, in LineReader, out io.Writer, formatter *render.TerminalFormatter) error {
	s := &chatSession{app: app, out: out, formatter: formatter}
	s.printWelcome()

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := in.Prompt(chatPrompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return &CommandError{Command: "chat", Action: "read", Err: err}
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		in.AppendHistory(line)

		if strings.HasPrefix(line, "/") {
			if quit := s.command(line); quit {
				return nil
			}
			continue
		}
		s.send(line)
	}
}

func (s *chatSession) printWelcome() {
	fmt.Fprintln(s.out, titleColor.Sprint("farmdesk chat"))
	if conv, ok := s.app.Conversations.Current(); ok {
		fmt.Fprintf(s.out, "%s %s\n", labelColor.Sprint("Continuing:"), conv.GetTitle())
	}
	fmt.Fprintln(s.out, dimColor.Sprint("Type a message and press Enter. /help lists commands, Ctrl+D exits."))
	fmt.Fprintln(s.out)
}

// send delivers one message and blocks until its reply has landed.
func (s *chatSession) send(content string) {
	convs := s.app.Conversations
	current := convs.CurrentID()
	if _, ok := convs.Conversation(current); !ok {
		current = ""
	}

	id, err := convs.SendMessage(current, content)
	if err != nil {
		fmt.Fprintln(s.out, errorColor.Sprintf("%s %v", RenderStatus("error"), err))
		return
	}
	// A new conversation is already current.
	if current == "" {
		if err := s.app.Sidebar.SetActiveModule(sidebar.ModuleConversation); err != nil {
			s.app.Logger.Debug("set active module", "error", err)
		}
	}

	fmt.Fprintln(s.out, dimColor.Sprint("thinking..."))
	convs.Wait()

	if st := convs.Status(id); st.Err != "" {
		fmt.Fprintln(s.out, errorColor.Sprintf("%s %s", RenderStatus("error"), st.Err))
		return
	}
	conv, ok := convs.Conversation(id)
	if !ok {
		fmt.Fprintln(s.out, warningColor.Sprint("The conversation was deleted before the reply arrived."))
		return
	}
	if reply := conv.LastAssistantMessage(); reply != nil {
		fmt.Fprintln(s.out, replyColor.Sprint("assistant>"))
		fmt.Fprintln(s.out, s.formatter.Render(reply.Content))
		fmt.Fprintln(s.out)
	}
}

// command runs a slash command and reports whether the session should end.
func (s *chatSession) command(line string) bool {
	fields := strings.Fields(line)
	name, rest := strings.ToLower(fields[0]), fields[1:]
	convs := s.app.Conversations

	switch name {
	case "/quit", "/q", "/exit":
		return true
	case "/help", "/h":
		fmt.Fprintln(s.out, "  /new        start a new conversation")
		fmt.Fprintln(s.out, "  /list       list conversations")
		fmt.Fprintln(s.out, "  /switch N   switch to conversation N from /list")
		fmt.Fprintln(s.out, "  /delete     delete the current conversation")
		fmt.Fprintln(s.out, "  /quit       leave chat")
	case "/new", "/n":
		conv := convs.CreateConversation()
		if err := s.app.Sidebar.SetActiveModule(sidebar.ModuleNewChat); err != nil {
			s.app.Logger.Debug("set active module", "error", err)
		}
		fmt.Fprintf(s.out, "%s started %s\n", RenderStatus("ok"), conv.GetTitle())
	case "/list", "/l":
		s.list()
	case "/switch", "/s":
		s.switchTo(rest)
	case "/delete":
		conv, ok := convs.Current()
		if !ok {
			fmt.Fprintln(s.out, warningColor.Sprint("No current conversation."))
			break
		}
		convs.DeleteConversation(conv.ID)
		fmt.Fprintf(s.out, "%s deleted %s\n", RenderStatus("ok"), conv.GetTitle())
	default:
		fmt.Fprintln(s.out, warningColor.Sprintf("Unknown command %s. Try /help.", name))
	}
	return false
}

func (s *chatSession) list() {
	all := s.app.Conversations.Conversations()
	s.listed = s.listed[:0]
	if len(all) == 0 {
		fmt.Fprintln(s.out, dimColor.Sprint("No conversations yet."))
		return
	}
	printConversationTable(s.out, all, s.app.Conversations.CurrentID(), s.app.DateStyle())
	for _, c := range all {
		s.listed = append(s.listed, c.ID)
	}
}

func (s *chatSession) switchTo(rest []string) {
	if len(rest) != 1 {
		fmt.Fprintln(s.out, warningColor.Sprint("Usage: /switch N (see /list)"))
		return
	}
	n, err := strconv.Atoi(rest[0])
	if err != nil || n < 1 || n > len(s.listed) {
		fmt.Fprintln(s.out, warningColor.Sprintf("No conversation %s in the last /list.", rest[0]))
		return
	}
	id := s.listed[n-1]
	conv, ok := s.app.Conversations.Conversation(id)
	if !ok {
		fmt.Fprintln(s.out, warningColor.Sprint("That conversation no longer exists."))
		return
	}
	s.app.Conversations.SetCurrentConversation(id)
	if err := s.app.Sidebar.SetActiveModule(sidebar.ModuleConversation); err != nil {
		s.app.Logger.Debug("set active module", "error", err)
	}
	fmt.Fprintf(s.out, "%s switched to %s\n", RenderStatus("ok"), conv.GetTitle())
	s.printTranscript(conv)
}

// printTranscript shows the last few messages of conv.
func (s *chatSession) printTranscript(conv *model.Conversation) {
	const tail = 4
	msgs := conv.Messages
	if len(msgs) > tail {
		fmt.Fprintln(s.out, dimColor.Sprintf("... %d earlier messages", len(msgs)-tail))
		msgs = msgs[len(msgs)-tail:]
	}
	for _, m := range msgs {
		switch m.Role {
		case model.RoleUser:
			fmt.Fprintf(s.out, "%s %s\n", userColor.Sprint("you>"), m.Content)
		case model.RoleAssistant:
			fmt.Fprintln(s.out, replyColor.Sprint("assistant>"))
			fmt.Fprintln(s.out, s.formatter.Render(m.Content))
		default:
			fmt.Fprintln(s.out, dimColor.Sprint(m.Content))
		}
	}
	fmt.Fprintln(s.out)
}
