package repo

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/schema"

	"github.com/llamale/server/internal/assistant/model"
)

// MemoryTurnRepository keeps session history in process memory. It backs
// tests and runs without a Redis instance. No TTL eviction: sessions live
// for the lifetime of the process.
type MemoryTurnRepository struct {
	mu       sync.RWMutex
	messages map[string][]*schema.Message
	turns    map[string][]*model.Turn
}

func NewMemoryTurnRepository() *MemoryTurnRepository {
	return &MemoryTurnRepository{
		messages: make(map[string][]*schema.Message),
		turns:    make(map[string][]*model.Turn),
	}
}

func (r *MemoryTurnRepository) AddMessage(_ context.Context, sessionID string, message *schema.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *message
	r.messages[sessionID] = append(r.messages[sessionID], &cp)
	return nil
}

func (r *MemoryTurnRepository) LoadHistory(_ context.Context, sessionID string) ([]*schema.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.messages[sessionID]
	out := make([]*schema.Message, 0, len(stored))
	for _, m := range stored {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MemoryTurnRepository) AppendTurn(_ context.Context, sessionID string, turn *model.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *turn
	r.turns[sessionID] = append(r.turns[sessionID], &cp)
	return nil
}

// Turns returns the committed turn log for a session. Not part of the
// TurnRepository contract; tests use it to inspect what was persisted.
func (r *MemoryTurnRepository) Turns(sessionID string) []*model.Turn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Turn, 0, len(r.turns[sessionID]))
	for _, t := range r.turns[sessionID] {
		cp := *t
		out = append(out, &cp)
	}
	return out
}

func (r *MemoryTurnRepository) ClearSession(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.messages, sessionID)
	delete(r.turns, sessionID)
	return nil
}

func (r *MemoryTurnRepository) MessageCount(_ context.Context, sessionID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.messages[sessionID]), nil
}

var _ model.TurnRepository = (*MemoryTurnRepository)(nil)
