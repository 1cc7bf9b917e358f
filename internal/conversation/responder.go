// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation owns the list of conversations and their messages.
package conversation

import (
	"context"
	"fmt"
	"time"
)

// DefaultReplyDelay is the latency of the simulated reply.
const DefaultReplyDelay = time.Second

// Responder produces the assistant reply for a user message. It stands in
// for a request/response or streaming backend; the store's two-phase
// contract does not change with the implementation.
type Responder interface {
	Reply(ctx context.Context, conversationID, content string) (string, error)
}

// ResponderFunc adapts a function to the Responder interface.
type ResponderFunc func(ctx context.Context, conversationID, content string) (string, error)

// Reply implements Responder.
func (f ResponderFunc) Reply(ctx context.Context, conversationID, content string) (string, error) {
	return f(ctx, conversationID, content)
}

// SimulatedResponder waits a fixed delay and answers with a deterministic
// body built from the user's message.
type SimulatedResponder struct {
	Delay time.Duration
}

// Reply implements Responder. The context is only cancelled when the store
// shuts down.
func (r SimulatedResponder) Reply(ctx context.Context, _ string, content string) (string, error) {
	delay := r.Delay
	if delay < 0 {
		delay = 0
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
	}

	return SimulatedReply(content), nil
}

// SimulatedReply returns the canned reply for content.
func SimulatedReply(content string) string {
	return fmt.Sprintf("This is the AI reply:\n\n"+
		"You said: “%s”\n\n"+
		"This is a simulated reply; a real deployment would call a backend API.\n\n"+
		"**Markdown** is supported, including:\n"+
		"- lists\n"+
		"- **bold**\n"+
		"- *italic*\n"+
		"- `code`\n\n"+
		"```javascript\n"+
		"console.log('Hello World')\n"+
		"```", content)
}
