package render

import (
	"context"
	"strings"
	"testing"

	"github.com/llamale/server/internal/assistant/model"
)

func TestTemplateRendererRequestSlot(t *testing.T) {
	r := NewTemplateRenderer()

	out, err := r.Render(context.Background(), []model.Action{
		{Kind: model.ActionRequestSlot, Intent: model.IntentRecommendation, Slot: model.SlotStyle},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != slotQuestions[model.SlotStyle] {
		t.Fatalf("Render() = %q, want the style question", out)
	}

	// unknown slot falls back to a generic question naming the slot
	out, _ = r.Render(context.Background(), []model.Action{
		{Kind: model.ActionRequestSlot, Slot: "colour"},
	})
	if !strings.Contains(out, "colour") {
		t.Fatalf("Render() = %q, want the slot name in the fallback question", out)
	}
}

func TestTemplateRendererResults(t *testing.T) {
	r := NewTemplateRenderer()

	out, err := r.Render(context.Background(), []model.Action{{
		Kind:   model.ActionResults,
		Intent: model.IntentRecommendation,
		Beers: []model.BeerRecord{
			{Name: "Westmalle Tripel", Style: "Belgian Tripel", Brewery: "Brouwerij Westmalle", ABV: 9.5, Rating: 4.45},
			{Name: "Duvel", Style: "Belgian Strong Golden Ale", Brewery: "Duvel Moortgat", ABV: 8.5, Rating: 4.2},
		},
	}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, want := range []string{"You might enjoy these:", "Westmalle Tripel", "Duvel", "9.5%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("Render() = %q, missing %q", out, want)
		}
	}
}

func TestTemplateRendererRatingSaved(t *testing.T) {
	r := NewTemplateRenderer()

	out, err := r.Render(context.Background(), []model.Action{{
		Kind:   model.ActionRatingSaved,
		Intent: model.IntentRateBeer,
		Receipt: &model.RatingReceipt{
			BeerID: 3, Name: "Chimay Blue", Brewery: "Bières de Chimay", Score: 4.5, Comment: "rich",
		},
	}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, want := range []string{"4.5", "Chimay Blue", "rich"} {
		if !strings.Contains(out, want) {
			t.Fatalf("Render() = %q, missing %q", out, want)
		}
	}
}

func TestTemplateRendererMultiActionJoin(t *testing.T) {
	r := NewTemplateRenderer()

	out, err := r.Render(context.Background(), []model.Action{
		{Kind: model.ActionNoResults, Intent: model.IntentRecommendation},
		{Kind: model.ActionRequestSlot, Intent: model.IntentRateBeer, Slot: model.SlotRating},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	parts := strings.Split(out, "\n\n")
	if len(parts) != 2 {
		t.Fatalf("Render() produced %d segments, want one per action", len(parts))
	}
}

func TestTemplateRendererTerminalActions(t *testing.T) {
	r := NewTemplateRenderer()
	ctx := context.Background()

	tests := []struct {
		kind model.ActionKind
		want string
	}{
		{model.ActionClarify, "rephrase"},
		{model.ActionUnavailable, "try again"},
		{model.ActionOutOfContext, "beer"},
		{model.ActionGoodbye, "Goodbye"},
	}
	for _, tt := range tests {
		out, err := r.Render(ctx, []model.Action{{Kind: tt.kind}})
		if err != nil {
			t.Fatalf("Render(%q) error = %v", tt.kind, err)
		}
		if !strings.Contains(out, tt.want) {
			t.Fatalf("Render(%q) = %q, missing %q", tt.kind, out, tt.want)
		}
	}
}
