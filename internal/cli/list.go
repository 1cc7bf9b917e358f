// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jeranaias/farmdesk/internal/model"
	"github.com/jeranaias/farmdesk/internal/render"
	"github.com/jeranaias/farmdesk/internal/ui/components"
)

// titleWidth is the title column width of the conversation table.
const titleWidth = 36

// ConversationSummary is one row of "farmdesk list --json".
type ConversationSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  int       `json:"messages"`
	Preview   string    `json:"preview"`
	UpdatedAt time.Time `json:"updatedAt"`
	Current   bool      `json:"current"`
}

// HandleList prints the conversations, fuzzy-filtered by --query when set.
func HandleList(w io.Writer, app *App, args Args) error {
	query := args.Parser.Flag("query", "q")
	if query == "" {
		query = strings.Join(args.Parser.PositionalFrom(0), " ")
	}

	convs := app.Conversations.Conversations()
	if query != "" {
		convs = app.Conversations.Search(query)
	}
	currentID := app.Conversations.CurrentID()

	if args.JSON {
		rows := make([]ConversationSummary, 0, len(convs))
		for _, c := range convs {
			rows = append(rows, summarize(c, currentID))
		}
		return WriteJSON(w, NewJSONResponse(CmdList.String(), rows))
	}

	if len(convs) == 0 {
		if query != "" {
			fmt.Fprintln(w, dimColor.Sprintf("No conversations match %q.", query))
		} else {
			fmt.Fprintln(w, dimColor.Sprint("No conversations yet. Start one with: farmdesk chat"))
		}
		return nil
	}
	printConversationTable(w, convs, currentID, app.DateStyle())
	return nil
}

func summarize(c *model.Conversation, currentID string) ConversationSummary {
	s := ConversationSummary{
		ID:        c.ID,
		Title:     c.GetTitle(),
		Messages:  len(c.Messages),
		UpdatedAt: c.UpdatedAt,
		Current:   c.ID == currentID,
	}
	if last := c.LastMessage(); last != nil {
		s.Preview = last.Preview(render.SnippetLength)
	}
	return s
}

// printConversationTable writes numbered rows; the current conversation is
// marked with an asterisk.
func printConversationTable(w io.Writer, convs []*model.Conversation, currentID string, style render.DateStyle) {
	fmt.Fprintf(w, "%s %s %s %s\n",
		labelColor.Sprint("   #"),
		labelColor.Sprint(components.PadRight("Title", titleWidth)),
		labelColor.Sprint("Msgs"),
		labelColor.Sprint("Updated"))
	for i, c := range convs {
		marker := " "
		if c.ID == currentID {
			marker = highlightColor.Sprint("*")
		}
		title := components.PadRight(components.FitWidth(c.GetTitle(), titleWidth), titleWidth)
		fmt.Fprintf(w, "%s%3d %s %4d %s\n",
			marker, i+1, title, len(c.Messages),
			dimColor.Sprint(render.FormatDate(c.UpdatedAt, style)))
	}
}
