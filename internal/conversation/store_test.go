// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/farmdesk/internal/model"
	"github.com/jeranaias/farmdesk/internal/storage"
)

// gatedResponder blocks every reply until release is closed.
type gatedResponder struct {
	release chan struct{}
	started chan string
	reply   func(content string) (string, error)
}

func newGatedResponder() *gatedResponder {
	return &gatedResponder{
		release: make(chan struct{}),
		started: make(chan string, 16),
		reply: func(content string) (string, error) {
			return "echo: " + content, nil
		},
	}
}

func (g *gatedResponder) Reply(ctx context.Context, id, content string) (string, error) {
	g.started <- id
	select {
	case <-g.release:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return g.reply(content)
}

func instantResponder() Responder {
	return ResponderFunc(func(_ context.Context, _ string, content string) (string, error) {
		return "echo: " + content, nil
	})
}

func newTestStore(t *testing.T, r Responder) *Store {
	t.Helper()
	s := NewStore(Options{Responder: r})
	t.Cleanup(s.Close)
	return s
}

func waitStarted(t *testing.T, g *gatedResponder) string {
	t.Helper()
	select {
	case id := <-g.started:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("reply never started")
		return ""
	}
}

// =============================================================================
// CONVERSATION MANAGEMENT
// =============================================================================

func TestCreateConversation(t *testing.T) {
	s := newTestStore(t, instantResponder())

	first := s.CreateConversation()
	second := s.CreateConversation()

	assert.Equal(t, model.DefaultTitle, first.Title)
	assert.Empty(t, first.Messages)
	assert.Equal(t, second.ID, s.CurrentID())

	convs := s.Conversations()
	require.Len(t, convs, 2)
	assert.Equal(t, second.ID, convs[0].ID, "newest conversation comes first")
	assert.Equal(t, first.ID, convs[1].ID)
}

func TestSetCurrentConversationAcceptsUnknownID(t *testing.T) {
	s := newTestStore(t, instantResponder())
	s.CreateConversation()

	s.SetCurrentConversation("nope")

	assert.Equal(t, "nope", s.CurrentID())
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestDeleteConversation(t *testing.T) {
	s := newTestStore(t, instantResponder())
	a := s.CreateConversation()
	b := s.CreateConversation()

	s.DeleteConversation(a.ID)
	assert.Equal(t, -1, s.FindIndex(a.ID))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, b.ID, s.CurrentID(), "deleting a non-current conversation keeps the selection")

	s.DeleteConversation("missing")
	assert.Equal(t, 1, s.Len())
}

func TestDeleteConversationReassignsCurrent(t *testing.T) {
	s := newTestStore(t, instantResponder())
	c1 := s.CreateConversation()
	c2 := s.CreateConversation()
	c3 := s.CreateConversation()
	// Order is c3, c2, c1.

	s.SetCurrentConversation(c2.ID)
	s.DeleteConversation(c2.ID)
	assert.Equal(t, c1.ID, s.CurrentID(), "next most recent takes the slot")

	s.DeleteConversation(c1.ID)
	assert.Equal(t, c3.ID, s.CurrentID(), "falls back to the previous one")

	s.DeleteConversation(c3.ID)
	assert.Empty(t, s.CurrentID())
}

// =============================================================================
// SEND MESSAGE
// =============================================================================

func TestSendMessageCreatesConversation(t *testing.T) {
	g := newGatedResponder()
	s := newTestStore(t, g)

	id, err := s.SendMessage("", "hello")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// The reply is still gated, so only the user message exists.
	conv, ok := s.Conversation(id)
	require.True(t, ok)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, model.RoleUser, conv.Messages[0].Role)
	assert.Equal(t, "hello", conv.Messages[0].Content)
	assert.Equal(t, "hello", conv.Title)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, id, s.CurrentID())

	waitStarted(t, g)
	close(g.release)
	s.Wait()
}

func TestSendMessageUnknownConversation(t *testing.T) {
	s := newTestStore(t, instantResponder())
	existing, err := s.SendMessage("", "first")
	require.NoError(t, err)
	s.Wait()
	before := s.Conversations()

	_, err = s.SendMessage("missing-id", "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConversationNotFound))

	s.Wait()
	assert.Equal(t, before, s.Conversations())
	assert.Equal(t, existing, s.CurrentID())
	assert.False(t, s.IsLoading())
}

func TestSendMessageTitleDerivation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"short", "hello", "hello"},
		{"exactly thirty", strings.Repeat("a", 30), strings.Repeat("a", 30)},
		{"long", strings.Repeat("b", 31), strings.Repeat("b", 30) + "..."},
		{"multibyte", strings.Repeat("農", 35), strings.Repeat("農", 30) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, instantResponder())
			id, err := s.SendMessage("", tt.content)
			require.NoError(t, err)

			conv, _ := s.Conversation(id)
			assert.Equal(t, tt.want, conv.Title)
		})
	}
}

func TestTitleSetOnlyByFirstMessage(t *testing.T) {
	s := newTestStore(t, instantResponder())
	id, err := s.SendMessage("", "first question")
	require.NoError(t, err)
	s.Wait()

	_, err = s.SendMessage(id, "a completely different second question")
	require.NoError(t, err)
	s.Wait()

	conv, _ := s.Conversation(id)
	assert.Equal(t, "first question", conv.Title)
}

func TestSendMessageToExistingConversation(t *testing.T) {
	s := newTestStore(t, instantResponder())
	conv := s.CreateConversation()
	created := conv.UpdatedAt

	time.Sleep(2 * time.Millisecond)
	id, err := s.SendMessage(conv.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, conv.ID, id)

	got, _ := s.Conversation(id)
	assert.True(t, got.UpdatedAt.After(created))
	s.Wait()
}

// =============================================================================
// REPLY PIPELINE
// =============================================================================

func TestReplySuccess(t *testing.T) {
	g := newGatedResponder()
	s := newTestStore(t, g)

	id, err := s.SendMessage("", "hello")
	require.NoError(t, err)
	waitStarted(t, g)

	assert.True(t, s.IsLoading())
	assert.True(t, s.Status(id).Loading())

	close(g.release)
	s.Wait()

	conv, _ := s.Conversation(id)
	require.Len(t, conv.Messages, 2)
	reply := conv.Messages[1]
	assert.Equal(t, model.RoleAssistant, reply.Role)
	assert.Equal(t, "echo: hello", reply.Content)
	assert.False(t, s.IsLoading())
	assert.Empty(t, s.Error())
	assert.Equal(t, ReplyStatus{}, s.Status(id))
}

func TestSendMessageRaisesLoadingBeforeReturn(t *testing.T) {
	g := newGatedResponder()
	s := newTestStore(t, g)

	// Stay under the started buffer so no reply blocks before release.
	for i := 0; i < 10; i++ {
		id, err := s.SendMessage("", "hi")
		require.NoError(t, err)
		assert.True(t, s.IsLoading(), "loading as soon as SendMessage returns")
		assert.True(t, s.Status(id).Loading())
		assert.Empty(t, s.Status(id).Err)
	}

	close(g.release)
	s.Wait()
	assert.False(t, s.IsLoading())
}

func TestReplyFailure(t *testing.T) {
	s := newTestStore(t, ResponderFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("backend unavailable")
	}))

	id, err := s.SendMessage("", "hello")
	require.NoError(t, err)
	s.Wait()

	conv, _ := s.Conversation(id)
	require.Len(t, conv.Messages, 1, "no partial assistant message on failure")
	assert.Equal(t, "hello", conv.Messages[0].Content)
	assert.False(t, s.IsLoading())
	assert.Equal(t, "backend unavailable", s.Error())
	assert.Equal(t, "backend unavailable", s.Status(id).Err)
}

func TestReplyFailureWithEmptyMessage(t *testing.T) {
	s := newTestStore(t, ResponderFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("")
	}))

	_, err := s.SendMessage("", "hello")
	require.NoError(t, err)
	s.Wait()

	assert.Equal(t, defaultReplyError, s.Error())
}

func TestReplyPanicClearsLoading(t *testing.T) {
	s := newTestStore(t, ResponderFunc(func(context.Context, string, string) (string, error) {
		panic("boom")
	}))

	id, err := s.SendMessage("", "hello")
	require.NoError(t, err)
	s.Wait()

	assert.False(t, s.IsLoading())
	assert.Contains(t, s.Error(), "boom")
	conv, _ := s.Conversation(id)
	assert.Len(t, conv.Messages, 1)
}

func TestReplyErrorClearedByNextSend(t *testing.T) {
	var fail sync.Once
	s := newTestStore(t, ResponderFunc(func(_ context.Context, _ string, content string) (string, error) {
		var err error
		fail.Do(func() { err = errors.New("first fails") })
		if err != nil {
			return "", err
		}
		return "ok", nil
	}))

	id, err := s.SendMessage("", "one")
	require.NoError(t, err)
	s.Wait()
	require.Equal(t, "first fails", s.Error())

	_, err = s.SendMessage(id, "two")
	require.NoError(t, err)
	s.Wait()
	assert.Empty(t, s.Error())
	assert.Empty(t, s.Status(id).Err)
}

func TestReplyToDeletedConversationIsNoop(t *testing.T) {
	g := newGatedResponder()
	s := newTestStore(t, g)

	id, err := s.SendMessage("", "hello")
	require.NoError(t, err)
	waitStarted(t, g)

	s.DeleteConversation(id)
	close(g.release)
	s.Wait()

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.IsLoading())
	assert.Empty(t, s.Error())
	assert.Equal(t, ReplyStatus{}, s.Status(id))
}

func TestOverlappingRepliesKeepLoadingUntilLast(t *testing.T) {
	g := newGatedResponder()
	s := newTestStore(t, g)

	a, err := s.SendMessage("", "a")
	require.NoError(t, err)
	b, err := s.SendMessage("", "b")
	require.NoError(t, err)
	waitStarted(t, g)
	waitStarted(t, g)

	assert.True(t, s.Status(a).Loading())
	assert.True(t, s.Status(b).Loading())
	assert.True(t, s.IsLoading())

	close(g.release)
	s.Wait()

	assert.False(t, s.IsLoading())
	for _, id := range []string{a, b} {
		conv, _ := s.Conversation(id)
		assert.Len(t, conv.Messages, 2)
	}
}

func TestCloseCancelsPendingReplies(t *testing.T) {
	g := newGatedResponder()
	s := NewStore(Options{Responder: g})

	id, err := s.SendMessage("", "hello")
	require.NoError(t, err)
	waitStarted(t, g)

	s.Close()

	assert.False(t, s.IsLoading())
	assert.Equal(t, context.Canceled.Error(), s.Status(id).Err)

	_, err = s.SendMessage(id, "again")
	assert.ErrorIs(t, err, ErrClosed)

	// Closing twice is safe.
	s.Close()
}

func TestSimulatedResponder(t *testing.T) {
	r := SimulatedResponder{Delay: time.Millisecond}
	text, err := r.Reply(context.Background(), "c", "farm data")
	require.NoError(t, err)
	assert.Contains(t, text, "farm data")
	assert.Contains(t, text, "```javascript")
	assert.Equal(t, SimulatedReply("farm data"), text)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = SimulatedResponder{Delay: time.Hour}.Reply(ctx, "c", "x")
	assert.ErrorIs(t, err, context.Canceled)
}

// =============================================================================
// EVENTS
// =============================================================================

func TestSubscribeEvents(t *testing.T) {
	s := newTestStore(t, instantResponder())

	var mu sync.Mutex
	var got []EventType
	unsubscribe := s.Subscribe(func(ev Event) {
		mu.Lock()
		got = append(got, ev.Type)
		mu.Unlock()
	})

	id, err := s.SendMessage("", "hello")
	require.NoError(t, err)
	s.Wait()
	s.DeleteConversation(id)

	mu.Lock()
	assert.Equal(t, []EventType{
		EventCreated, EventMessage, EventReplyStarted, EventMessage, EventReplyFinished, EventDeleted,
	}, got)
	mu.Unlock()

	unsubscribe()
	s.CreateConversation()

	mu.Lock()
	assert.Len(t, got, 6)
	mu.Unlock()
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "reply_finished", EventReplyFinished.String())
	assert.Equal(t, "unknown", EventType(0).String())
}

// =============================================================================
// PERSISTENCE
// =============================================================================

func TestPersistAndRestore(t *testing.T) {
	mem := storage.NewMemoryStore()

	s := NewStore(Options{Responder: instantResponder(), Persister: mem})
	id, err := s.SendMessage("", "persist me")
	require.NoError(t, err)
	s.Wait()
	s.Close()

	restored := NewStore(Options{Responder: instantResponder(), Persister: mem})
	t.Cleanup(restored.Close)
	require.NoError(t, restored.Restore(context.Background()))

	conv, ok := restored.Conversation(id)
	require.True(t, ok)
	assert.Equal(t, "persist me", conv.Title)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, model.RoleAssistant, conv.Messages[1].Role)
	assert.Empty(t, restored.CurrentID(), "selection is not persisted")
}

func TestRestoreWithoutState(t *testing.T) {
	s := NewStore(Options{Persister: storage.NewMemoryStore()})
	t.Cleanup(s.Close)

	require.NoError(t, s.Restore(context.Background()))
	assert.Equal(t, 0, s.Len())
}

func TestRestoreCorruptState(t *testing.T) {
	mem := storage.NewMemoryStore()
	require.NoError(t, mem.Save(context.Background(), storage.KeyChat, []byte("{not json")))

	s := NewStore(Options{Persister: mem})
	t.Cleanup(s.Close)
	assert.Error(t, s.Restore(context.Background()))
}

// =============================================================================
// SEARCH
// =============================================================================

func TestSearch(t *testing.T) {
	s := newTestStore(t, instantResponder())
	wheat, _ := s.SendMessage("", "wheat harvest schedule")
	_, _ = s.SendMessage("", "tractor maintenance")
	s.Wait()

	all := s.Search("  ")
	assert.Len(t, all, 2)

	byTitle := s.Search("wheat")
	require.NotEmpty(t, byTitle)
	assert.Equal(t, wheat, byTitle[0].ID)

	// Only the assistant reply contains "echo".
	byContent := s.Search("ECHO")
	assert.Len(t, byContent, 2)

	assert.Empty(t, s.Search("zzzzzz"))
}

func TestSearchIgnoresNormalization(t *testing.T) {
	s := newTestStore(t, instantResponder())
	id, _ := s.SendMessage("", "Caf\u00e9 supply order")
	s.Wait()

	got := s.Search("cafe\u0301")
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
}
