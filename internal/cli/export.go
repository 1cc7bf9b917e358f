// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jeranaias/farmdesk/internal/conversation"
	"github.com/jeranaias/farmdesk/internal/export"
	"github.com/jeranaias/farmdesk/internal/model"
	"github.com/jeranaias/farmdesk/internal/render"
)

// ExportResult is the data of "farmdesk export --json".
type ExportResult struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Format string `json:"format"`
	Path   string `json:"path"`
}

// HandleExport writes one conversation to a file, or to w with --stdout.
// The conversation is named by ID or by its row number in "farmdesk list";
// without either the current conversation is exported.
func HandleExport(w io.Writer, app *App, args Args) error {
	p := args.Parser
	format, err := export.ParseFormat(p.Flag("format", "f"))
	if err != nil {
		return usageErrorf("%v", err)
	}

	conv, err := resolveConversation(app, p.Positional(0))
	if err != nil {
		return &CommandError{Command: "export", Err: err}
	}

	opts := export.DefaultOptions()
	if out := p.Flag("out", "o"); out != "" {
		opts.OutputDir = out
	}
	opts.Theme = p.FlagOrDefault("theme", string(app.Theme.Applied()))
	opts.DateStyle = app.DateStyle()
	opts.HTML = render.NewHTMLFormatter(render.WithLogger(app.Logger))

	exp, err := export.ForFormat(format, opts)
	if err != nil {
		return usageErrorf("%v", err)
	}

	if p.BoolFlag("stdout") {
		data, err := exp.Export(conv)
		if err != nil {
			return &CommandError{Command: "export", Err: err}
		}
		_, err = w.Write(data)
		return err
	}

	path, err := export.ToFile(conv, exp, opts)
	if err != nil {
		return &CommandError{Command: "export", Err: err}
	}
	app.Logger.Info("conversation exported", "id", conv.ID, "format", format, "path", path)

	if args.JSON {
		return WriteJSON(w, NewJSONResponse(CmdExport.String(), ExportResult{
			ID:     conv.ID,
			Title:  conv.GetTitle(),
			Format: string(format),
			Path:   path,
		}))
	}
	fmt.Fprintf(w, "%s exported %s to %s\n", RenderStatus("ok"), conv.GetTitle(), highlightColor.Sprint(path))
	return nil
}

func resolveConversation(app *App, ref string) (*model.Conversation, error) {
	convs := app.Conversations
	if ref == "" {
		if conv, ok := convs.Current(); ok {
			return conv, nil
		}
		return nil, fmt.Errorf("%w: no current conversation", conversation.ErrConversationNotFound)
	}
	if conv, ok := convs.Conversation(ref); ok {
		return conv, nil
	}
	if n, err := strconv.Atoi(ref); err == nil {
		all := convs.Conversations()
		if n >= 1 && n <= len(all) {
			return all[n-1], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", conversation.ErrConversationNotFound, ref)
}
