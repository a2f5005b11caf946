// Package session multiplexes independent conversations over shared
// collaborators. Each session owns its dialogue manager and turn state;
// history and committed turns persist through the repository.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/llamale/server/internal/assistant/dialogue"
	"github.com/llamale/server/internal/assistant/model"
	logx "github.com/llamale/server/pkg/logger"
)

// Session binds one conversation's dialogue manager to its id. The mutex
// serializes turns within the session; concurrent turns across sessions
// never contend.
type Session struct {
	ID       string
	mu       sync.Mutex
	dm       *dialogue.Manager
	lastSeen time.Time
}

type Manager struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	extractor model.Extractor
	knowledge model.Knowledge
	renderer  model.Renderer
	repo      model.TurnRepository
	ttl       time.Duration
	topK      int
}

func NewManager(
	extractor model.Extractor,
	knowledge model.Knowledge,
	renderer model.Renderer,
	repo model.TurnRepository,
	ttl time.Duration,
	topK int,
) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		extractor: extractor,
		knowledge: knowledge,
		renderer:  renderer,
		repo:      repo,
		ttl:       ttl,
		topK:      topK,
	}
}

// NewSession allocates a fresh conversation and returns its id.
func (m *Manager) NewSession() string {
	id := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = &Session{
		ID:       id,
		dm:       dialogue.NewManager(m.extractor, m.knowledge, dialogue.WithTopK(m.topK)),
		lastSeen: time.Now(),
	}
	logx.Info().Str("sessionID", id).Msg("session created")
	return id
}

// get returns the live session, recreating it when the id is unknown (for
// example after a process restart with history still in Redis). Idle
// sessions past the TTL are pruned on access.
func (m *Manager) get(id string) *Session {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ttl > 0 {
		for sid, s := range m.sessions {
			if sid != id && now.Sub(s.lastSeen) > m.ttl {
				delete(m.sessions, sid)
				logx.Debug().Str("sessionID", sid).Msg("idle session evicted")
			}
		}
	}

	s, ok := m.sessions[id]
	if !ok {
		s = &Session{
			ID:       id,
			dm:       dialogue.NewManager(m.extractor, m.knowledge, dialogue.WithTopK(m.topK)),
			lastSeen: now,
		}
		m.sessions[id] = s
	}
	s.lastSeen = now
	return s
}

// Process runs one user turn end to end: load history, run the dialogue
// manager, render the reply, and persist both sides of the exchange. done
// reports that the user asked to end the conversation.
func (m *Manager) Process(ctx context.Context, sessionID, text string) (reply string, done bool, err error) {
	s := m.get(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := m.repo.LoadHistory(ctx, sessionID)
	if err != nil {
		logx.Warn().Err(err).Str("sessionID", sessionID).Msg("history unavailable, proceeding without it")
		history = nil
	}

	turn, err := s.dm.ProcessTurn(ctx, text, history)
	if err != nil {
		return "", false, err
	}

	reply, err = m.renderer.Render(ctx, turn.Actions)
	if err != nil {
		return "", false, err
	}

	m.persist(ctx, sessionID, text, reply, &turn)

	for _, a := range turn.Actions {
		if a.Kind == model.ActionGoodbye {
			done = true
			break
		}
	}
	if done {
		m.Close(ctx, sessionID)
	}
	return reply, done, nil
}

// persist records the exchange best-effort: a write failure loses
// durability, not the turn the user already got an answer for.
func (m *Manager) persist(ctx context.Context, sessionID, text, reply string, turn *model.Turn) {
	if err := m.repo.AddMessage(ctx, sessionID, schema.UserMessage(text)); err != nil {
		logx.Warn().Err(err).Str("sessionID", sessionID).Msg("failed to persist user message")
	}
	if strings.TrimSpace(reply) != "" {
		if err := m.repo.AddMessage(ctx, sessionID, schema.AssistantMessage(reply, nil)); err != nil {
			logx.Warn().Err(err).Str("sessionID", sessionID).Msg("failed to persist assistant message")
		}
	}
	if err := m.repo.AppendTurn(ctx, sessionID, turn); err != nil {
		logx.Warn().Err(err).Str("sessionID", sessionID).Msg("failed to persist turn")
	}
}

// Close drops the session's state and its persisted history.
func (m *Manager) Close(ctx context.Context, sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if err := m.repo.ClearSession(ctx, sessionID); err != nil {
		logx.Warn().Err(err).Str("sessionID", sessionID).Msg("failed to clear persisted session")
	}
	logx.Info().Str("sessionID", sessionID).Msg("session closed")
}

// Active reports the number of live sessions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
