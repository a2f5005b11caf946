// Package dialogue contains the dialogue manager and its turn state store:
// the only stateful part of the assistant. One Store instance belongs to
// exactly one conversation session and is mutated by a single owner.
package dialogue

import (
	"time"

	"github.com/google/uuid"

	"github.com/llamale/server/internal/assistant/model"
	logx "github.com/llamale/server/pkg/logger"
)

// Store is the short-term memory of a session: an append-only turn log,
// the currently open goals keyed by intent type, and the last mentioned
// entity for anaphora. It does no validation; pure bookkeeping.
type Store struct {
	turns      []model.Turn
	open       map[model.IntentType]*model.Goal
	openOrder  []model.IntentType
	lastEntity *model.EntityRef
	nextTurnID uint64
}

func NewStore() *Store {
	return &Store{
		open:       make(map[model.IntentType]*model.Goal),
		nextTurnID: 1,
	}
}

// OpenGoal returns the open goal for an intent type, if one exists.
// At most one open goal per intent type exists at any time.
func (s *Store) OpenGoal(intent model.IntentType) (*model.Goal, bool) {
	g, ok := s.open[intent]
	return g, ok
}

// NewGoal creates a fresh open goal for an intent type. It does not insert
// it; callers merge slots first and then Upsert.
func (s *Store) NewGoal(intent model.IntentType) *model.Goal {
	return &model.Goal{
		ID:          uuid.NewString(),
		Intent:      intent,
		Slots:       make(map[string]model.Slot),
		Status:      model.GoalOpen,
		CreatedTurn: s.nextTurnID,
		UpdatedTurn: s.nextTurnID,
	}
}

// Upsert replaces or inserts the open goal for the goal's intent type,
// preserving the one-open-goal-per-type invariant.
func (s *Store) Upsert(goal *model.Goal) {
	goal.UpdatedTurn = s.nextTurnID
	if _, exists := s.open[goal.Intent]; !exists {
		s.openOrder = append(s.openOrder, goal.Intent)
	}
	s.open[goal.Intent] = goal
}

// Abandon marks the open goal of an intent type abandoned and drops it
// from the open set. Dropped silently: logged, never surfaced as an error.
func (s *Store) Abandon(intent model.IntentType) {
	g, ok := s.open[intent]
	if !ok {
		return
	}
	g.Status = model.GoalAbandoned
	s.remove(intent)
	logx.Debug().
		Str("goal_id", g.ID).
		Str("intent", string(intent)).
		Msg("goal abandoned, superseded by newer utterance")
}

// Resolve removes a satisfied goal from the open set.
func (s *Store) Resolve(goal *model.Goal) {
	goal.Status = model.GoalSatisfied
	goal.UpdatedTurn = s.nextTurnID
	s.remove(goal.Intent)
}

func (s *Store) remove(intent model.IntentType) {
	delete(s.open, intent)
	for i, it := range s.openOrder {
		if it == intent {
			s.openOrder = append(s.openOrder[:i], s.openOrder[i+1:]...)
			break
		}
	}
}

// OpenGoals returns the open goals in insertion order.
func (s *Store) OpenGoals() []*model.Goal {
	out := make([]*model.Goal, 0, len(s.openOrder))
	for _, intent := range s.openOrder {
		if g, ok := s.open[intent]; ok {
			out = append(out, g)
		}
	}
	return out
}

// CommitTurn appends a turn to the log and returns it. Committed turns are
// never mutated; corrections produce new turns.
func (s *Store) CommitTurn(rawText string, goalsTouched []string, actions []model.Action) model.Turn {
	turn := model.Turn{
		ID:           s.nextTurnID,
		RawText:      rawText,
		GoalsTouched: goalsTouched,
		Actions:      actions,
		CreatedAt:    time.Now().UTC(),
	}
	s.turns = append(s.turns, turn)
	s.nextTurnID++
	return turn
}

// Turns returns a copy of the committed turn log.
func (s *Store) Turns() []model.Turn {
	out := make([]model.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// LastEntity returns the most recently discussed beer, if any.
func (s *Store) LastEntity() (model.EntityRef, bool) {
	if s.lastEntity == nil {
		return model.EntityRef{}, false
	}
	return *s.lastEntity, true
}

// SetLastEntity records the primary entity of a dispatched action's result.
func (s *Store) SetLastEntity(ref model.EntityRef) {
	s.lastEntity = &ref
}
