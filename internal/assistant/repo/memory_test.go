package repo

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/llamale/server/internal/assistant/model"
)

func TestMemoryRepositoryRoundTrip(t *testing.T) {
	r := NewMemoryTurnRepository()
	ctx := context.Background()

	if err := r.AddMessage(ctx, "s1", schema.UserMessage("hello")); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}
	if err := r.AddMessage(ctx, "s1", schema.AssistantMessage("hi there", nil)); err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}

	history, err := r.LoadHistory(ctx, "s1")
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	if history[0].Role != schema.User || history[0].Content != "hello" {
		t.Fatalf("history[0] = %+v", history[0])
	}
	if history[1].Role != schema.Assistant {
		t.Fatalf("history[1].Role = %q, want assistant", history[1].Role)
	}

	n, err := r.MessageCount(ctx, "s1")
	if err != nil || n != 2 {
		t.Fatalf("MessageCount() = %d, %v; want 2, nil", n, err)
	}
}

func TestMemoryRepositorySessionsIsolated(t *testing.T) {
	r := NewMemoryTurnRepository()
	ctx := context.Background()

	_ = r.AddMessage(ctx, "a", schema.UserMessage("for a"))
	_ = r.AddMessage(ctx, "b", schema.UserMessage("for b"))

	history, _ := r.LoadHistory(ctx, "a")
	if len(history) != 1 || history[0].Content != "for a" {
		t.Fatalf("history(a) = %+v, want only a's message", history)
	}
}

func TestMemoryRepositoryClearSession(t *testing.T) {
	r := NewMemoryTurnRepository()
	ctx := context.Background()

	_ = r.AddMessage(ctx, "s1", schema.UserMessage("hello"))
	_ = r.AppendTurn(ctx, "s1", &model.Turn{ID: 1, RawText: "hello"})

	if err := r.ClearSession(ctx, "s1"); err != nil {
		t.Fatalf("ClearSession() error = %v", err)
	}
	if n, _ := r.MessageCount(ctx, "s1"); n != 0 {
		t.Fatalf("MessageCount() after clear = %d, want 0", n)
	}
	if got := r.Turns("s1"); len(got) != 0 {
		t.Fatalf("Turns() after clear = %+v, want none", got)
	}
}

func TestMemoryRepositoryTurnLog(t *testing.T) {
	r := NewMemoryTurnRepository()
	ctx := context.Background()

	_ = r.AppendTurn(ctx, "s1", &model.Turn{ID: 1, RawText: "first"})
	_ = r.AppendTurn(ctx, "s1", &model.Turn{ID: 2, RawText: "second"})

	turns := r.Turns("s1")
	if len(turns) != 2 || turns[0].RawText != "first" || turns[1].RawText != "second" {
		t.Fatalf("Turns() = %+v, want both in order", turns)
	}
}

func TestFactorySelectsMemoryWithoutClient(t *testing.T) {
	got := New(nil, 0)
	if _, ok := got.(*MemoryTurnRepository); !ok {
		t.Fatalf("New(nil) = %T, want *MemoryTurnRepository", got)
	}
}
