package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/llamale/server/internal/assistant/extract"
	"github.com/llamale/server/internal/assistant/model"
	"github.com/llamale/server/internal/assistant/render"
	"github.com/llamale/server/internal/assistant/repo"
)

type stubKnowledge struct {
	beers []model.BeerRecord
}

func (s *stubKnowledge) Query(_ context.Context, _ model.IntentType, _ map[string]model.Slot) ([]model.BeerRecord, error) {
	return s.beers, nil
}

func (s *stubKnowledge) RecordRating(_ context.Context, ref model.EntityRef, score float64, comment string) (*model.RatingReceipt, error) {
	if ref.BeerID == 0 && ref.Name == "" {
		return nil, nil
	}
	return &model.RatingReceipt{BeerID: ref.BeerID, Name: ref.Name, Score: score, Comment: comment}, nil
}

func newTestManager(extractor model.Extractor, memRepo *repo.MemoryTurnRepository) *Manager {
	kb := &stubKnowledge{beers: []model.BeerRecord{
		{ID: 1, Name: "Saison Dupont", Style: "Saison", Brewery: "Brasserie Dupont", ABV: 6.5, Rating: 4.15},
	}}
	return NewManager(extractor, kb, render.NewTemplateRenderer(), memRepo, time.Minute, 5)
}

func TestProcessPersistsExchange(t *testing.T) {
	ctx := context.Background()
	memRepo := repo.NewMemoryTurnRepository()
	m := newTestManager(&extract.MockExtractor{Scripts: []extract.MockScript{{
		Match: "saison",
		Intents: []model.ExtractedIntent{{
			Intent: model.IntentRecommendation,
			Slots:  map[string]model.SlotValue{model.SlotStyle: {Value: "saison", Confidence: 0.9}},
		}},
	}}}, memRepo)

	id := m.NewSession()
	reply, done, err := m.Process(ctx, id, "recommend a saison")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if done {
		t.Fatalf("done = true, want false")
	}
	if !strings.Contains(reply, "Saison Dupont") {
		t.Fatalf("reply = %q, want the recommended beer", reply)
	}

	// one user message and one assistant message persisted
	if n, _ := memRepo.MessageCount(ctx, id); n != 2 {
		t.Fatalf("MessageCount() = %d, want 2", n)
	}
	turns := memRepo.Turns(id)
	if len(turns) != 1 || turns[0].RawText != "recommend a saison" {
		t.Fatalf("persisted turns = %+v, want the committed turn", turns)
	}
}

func TestProcessGoodbyeEndsSession(t *testing.T) {
	ctx := context.Background()
	memRepo := repo.NewMemoryTurnRepository()
	m := newTestManager(&extract.MockExtractor{Scripts: []extract.MockScript{{
		Match:   "bye",
		Intents: []model.ExtractedIntent{{Intent: model.IntentTerminate}},
	}}}, memRepo)

	id := m.NewSession()
	reply, done, err := m.Process(ctx, id, "bye now")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !done {
		t.Fatalf("done = false, want true for a lone terminate intent")
	}
	if !strings.Contains(reply, "Goodbye") {
		t.Fatalf("reply = %q, want a goodbye", reply)
	}
	if m.Active() != 0 {
		t.Fatalf("Active() = %d, want 0 after goodbye", m.Active())
	}
	if n, _ := memRepo.MessageCount(ctx, id); n != 0 {
		t.Fatalf("MessageCount() after close = %d, want 0", n)
	}
}

func TestProcessStateSurvivesAcrossTurns(t *testing.T) {
	ctx := context.Background()
	memRepo := repo.NewMemoryTurnRepository()
	m := newTestManager(&extract.MockExtractor{Scripts: []extract.MockScript{
		{
			Match: "recommend",
			Intents: []model.ExtractedIntent{{
				Intent: model.IntentRecommendation,
			}},
		},
		{
			Match: "saison",
			Intents: []model.ExtractedIntent{{
				Intent: model.IntentRecommendation,
				Slots:  map[string]model.SlotValue{model.SlotStyle: {Value: "saison", Confidence: 0.9}},
			}},
		},
	}}, memRepo)

	id := m.NewSession()

	reply, _, err := m.Process(ctx, id, "recommend me something")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !strings.Contains(reply, "style") {
		t.Fatalf("reply = %q, want the style question", reply)
	}

	// the open goal from turn one completes with the style answer
	reply, _, err = m.Process(ctx, id, "a saison")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !strings.Contains(reply, "Saison Dupont") {
		t.Fatalf("reply = %q, want results once the goal is satisfied", reply)
	}
}

func TestProcessSessionsIndependent(t *testing.T) {
	ctx := context.Background()
	memRepo := repo.NewMemoryTurnRepository()
	m := newTestManager(&extract.MockExtractor{Scripts: []extract.MockScript{{
		Match: "recommend",
		Intents: []model.ExtractedIntent{{
			Intent: model.IntentRecommendation,
		}},
	}}}, memRepo)

	a := m.NewSession()
	b := m.NewSession()
	if a == b {
		t.Fatalf("session ids collide")
	}

	if _, _, err := m.Process(ctx, a, "recommend me something"); err != nil {
		t.Fatalf("Process(a) error = %v", err)
	}
	if n, _ := memRepo.MessageCount(ctx, b); n != 0 {
		t.Fatalf("session b has %d messages, want 0", n)
	}
	if m.Active() != 2 {
		t.Fatalf("Active() = %d, want 2", m.Active())
	}
}

func TestProcessUnknownSessionRecreated(t *testing.T) {
	ctx := context.Background()
	memRepo := repo.NewMemoryTurnRepository()
	m := newTestManager(&extract.MockExtractor{}, memRepo)

	// an id the manager has never seen still gets a working session
	reply, done, err := m.Process(ctx, "resurrected-id", "mumble")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if done {
		t.Fatalf("done = true, want false")
	}
	if reply == "" {
		t.Fatalf("reply empty, want the clarify prompt")
	}
}
