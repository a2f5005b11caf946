package dialogue

import (
	"context"
	"strconv"

	"github.com/cloudwego/eino/schema"

	"github.com/llamale/server/internal/assistant/model"
	"github.com/llamale/server/internal/assistant/registry"
	errx "github.com/llamale/server/internal/core/error"
	logx "github.com/llamale/server/pkg/logger"
)

const defaultTopK = 5

// Manager is the dialogue manager / action selector. Per extracted intent,
// in the extractor's order, it merges slots into the open goal of that
// intent type, abandons conflicting goals (newer utterance wins), asks for
// exactly one missing slot at a time, and dispatches satisfied goals to the
// knowledge collaborator.
type Manager struct {
	store     *Store
	extractor model.Extractor
	knowledge model.Knowledge
	topK      int
}

type Option func(*Manager)

// WithTopK caps the number of catalog rows carried by a results action.
func WithTopK(k int) Option {
	return func(m *Manager) {
		if k > 0 {
			m.topK = k
		}
	}
}

func NewManager(extractor model.Extractor, knowledge model.Knowledge, opts ...Option) *Manager {
	m := &Manager{
		store:     NewStore(),
		extractor: extractor,
		knowledge: knowledge,
		topK:      defaultTopK,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store exposes the session's turn state for inspection.
func (m *Manager) Store() *Store {
	return m.store
}

// ProcessTurn runs one full user turn: extraction, per-intent resolution,
// dispatch, and commit. Every failure path terminates in a renderable
// action; the returned turn always carries at least one.
func (m *Manager) ProcessTurn(ctx context.Context, rawText string, history []*schema.Message) (model.Turn, error) {
	extracted, err := m.extractor.Extract(ctx, rawText, history)
	if err != nil {
		logx.Error().Err(err).Msg("extractor unreachable, downgrading turn")
		return m.store.CommitTurn(rawText, nil, []model.Action{{Kind: model.ActionUnavailable}}), nil
	}

	if len(extracted) == 0 {
		logx.Debug().
			Str("text", rawText).
			Str("kind", string(errx.KindExtractionEmpty)).
			Msg("no actionable intent, asking user to rephrase")
		return m.store.CommitTurn(rawText, nil, []model.Action{{Kind: model.ActionClarify}}), nil
	}

	if len(extracted) == 1 && extracted[0].Intent == model.IntentTerminate {
		return m.store.CommitTurn(rawText, nil, []model.Action{{Kind: model.ActionGoodbye}}), nil
	}

	var (
		actions []model.Action
		touched []string
	)
	for _, ex := range extracted {
		if ex.Intent == model.IntentTerminate {
			// Termination only honored as a lone intent; ignore it when the
			// user asked for something else in the same breath.
			logx.Debug().Msg("terminate intent ignored in multi-intent turn")
			continue
		}
		action, goalIDs := m.processIntent(ctx, ex)
		actions = append(actions, action)
		touched = append(touched, goalIDs...)
	}
	if len(actions) == 0 {
		actions = []model.Action{{Kind: model.ActionClarify}}
	}

	return m.store.CommitTurn(rawText, touched, actions), nil
}

// processIntent resolves one extracted intent into exactly one action.
func (m *Manager) processIntent(ctx context.Context, ex model.ExtractedIntent) (model.Action, []string) {
	def, ok := registry.Lookup(ex.Intent)
	if !ok || ex.Intent == model.IntentOutOfContext {
		return model.Action{Kind: model.ActionOutOfContext, Intent: model.IntentOutOfContext}, nil
	}

	incoming, refEntity, unresolvedSlot := m.admitSlots(ex, def)

	goal, conflicted := m.resolveGoal(ex.Intent, incoming)
	m.store.Upsert(goal)
	if conflicted {
		logx.Debug().
			Str("intent", string(ex.Intent)).
			Str("goal_id", goal.ID).
			Str("kind", string(errx.KindGoalConflict)).
			Msg("conflicting slot value, fresh goal replaces abandoned one")
	}

	if unresolvedSlot != "" {
		if _, filled := goal.Slots[unresolvedSlot]; !filled {
			logx.Debug().
				Str("intent", string(ex.Intent)).
				Str("slot", unresolvedSlot).
				Str("kind", string(errx.KindUnresolvedReference)).
				Msg("anaphora without antecedent, asking for the entity")
			return model.Action{Kind: model.ActionRequestSlot, Intent: ex.Intent, Slot: unresolvedSlot}, []string{goal.ID}
		}
	}

	if missing, incomplete := def.FirstMissing(goal.Slots); incomplete {
		logx.Debug().
			Str("intent", string(ex.Intent)).
			Str("slot", missing).
			Str("kind", string(errx.KindSlotMissing)).
			Msg("goal incomplete, asking for the next slot")
		return model.Action{Kind: model.ActionRequestSlot, Intent: ex.Intent, Slot: missing}, []string{goal.ID}
	}

	m.store.Resolve(goal)
	return m.dispatch(ctx, goal, refEntity), []string{goal.ID}
}

// admitSlots validates the extracted slot map against the registry and
// substitutes anaphoric references with the last mentioned entity.
// Rejected values are dropped as if never extracted. Returns the admitted
// slots, the entity backing a resolved reference (if any), and the name of
// a slot whose reference could not be resolved.
func (m *Manager) admitSlots(ex model.ExtractedIntent, def registry.IntentDef) (map[string]model.Slot, *model.EntityRef, string) {
	incoming := make(map[string]model.Slot, len(ex.Slots))
	var refEntity *model.EntityRef
	unresolvedSlot := ""

	for _, sd := range def.Slots {
		sv, present := ex.Slots[sd.Name]
		if !present {
			continue
		}
		if sv.Reference {
			last, ok := m.store.LastEntity()
			if !ok {
				unresolvedSlot = sd.Name
				continue
			}
			refEntity = &last
			sv = model.SlotValue{Value: last.Name, Confidence: sv.Confidence}
		}
		slot, err := registry.Validate(ex.Intent, sd.Name, sv)
		if err != nil {
			logx.Warn().
				Str("intent", string(ex.Intent)).
				Str("slot", sd.Name).
				Str("value", sv.Value).
				Str("kind", string(errx.KindOf(err))).
				Msg("slot rejected, will re-ask")
			continue
		}
		incoming[slot.Name] = slot
	}

	for name := range ex.Slots {
		if _, known := def.Slot(name); !known {
			logx.Warn().
				Str("intent", string(ex.Intent)).
				Str("slot", name).
				Msg("extractor produced unknown slot, dropped")
		}
	}

	return incoming, refEntity, unresolvedSlot
}

// resolveGoal merges admitted slots into the open goal of the intent type,
// or creates one. A value incompatible with an already filled slot abandons
// the existing goal; the fresh replacement is seeded from the new utterance
// alone, because the newer utterance always wins.
func (m *Manager) resolveGoal(intent model.IntentType, incoming map[string]model.Slot) (*model.Goal, bool) {
	goal, exists := m.store.OpenGoal(intent)
	conflicted := false

	if exists {
		for name, slot := range incoming {
			if prev, filled := goal.Slots[name]; filled && prev.Value != slot.Value {
				conflicted = true
				break
			}
		}
		if conflicted {
			m.store.Abandon(intent)
			goal = m.store.NewGoal(intent)
		}
	} else {
		goal = m.store.NewGoal(intent)
	}

	for name, slot := range incoming {
		goal.Slots[name] = slot
	}
	return goal, conflicted
}

// dispatch issues the intent-specific side effect for a satisfied goal and
// wraps the outcome in an action. Collaborator failure does not abort the
// turn: the user's request was fully specified, just unanswerable, so the
// action downgrades to no-results and the goal stays satisfied.
func (m *Manager) dispatch(ctx context.Context, goal *model.Goal, refEntity *model.EntityRef) model.Action {
	if registry.IsQueryIntent(goal.Intent) {
		return m.dispatchQuery(ctx, goal)
	}
	return m.dispatchRating(ctx, goal, refEntity)
}

func (m *Manager) dispatchQuery(ctx context.Context, goal *model.Goal) model.Action {
	beers, err := m.knowledge.Query(ctx, goal.Intent, goal.Slots)
	if err != nil {
		logx.Warn().Err(err).Str("intent", string(goal.Intent)).Msg("knowledge lookup failed, downgrading to no results")
		return model.Action{Kind: model.ActionNoResults, Intent: goal.Intent}
	}
	if len(beers) == 0 {
		return model.Action{Kind: model.ActionNoResults, Intent: goal.Intent}
	}
	if len(beers) > m.topK {
		beers = beers[:m.topK]
	}
	m.store.SetLastEntity(model.EntityRef{BeerID: beers[0].ID, Name: beers[0].Name})
	return model.Action{Kind: model.ActionResults, Intent: goal.Intent, Beers: beers}
}

func (m *Manager) dispatchRating(ctx context.Context, goal *model.Goal, refEntity *model.EntityRef) model.Action {
	ref := model.EntityRef{}
	if refEntity != nil {
		ref = *refEntity
	} else if name, ok := goal.SlotValueOf(model.SlotName); ok {
		ref = model.EntityRef{Name: name}
	}

	score := 0.0
	if raw, ok := goal.SlotValueOf(model.SlotRating); ok {
		score, _ = strconv.ParseFloat(raw, 64)
	}
	comment, _ := goal.SlotValueOf(model.SlotComment)

	receipt, err := m.knowledge.RecordRating(ctx, ref, score, comment)
	if err != nil || receipt == nil {
		logx.Warn().Err(err).Str("beer", ref.Name).Msg("rating write failed, downgrading to no results")
		return model.Action{Kind: model.ActionNoResults, Intent: goal.Intent}
	}

	m.store.SetLastEntity(model.EntityRef{BeerID: receipt.BeerID, Name: receipt.Name})
	return model.Action{Kind: model.ActionRatingSaved, Intent: goal.Intent, Receipt: receipt}
}
