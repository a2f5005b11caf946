package registry

import (
	"testing"

	"github.com/llamale/server/internal/assistant/model"
	errx "github.com/llamale/server/internal/core/error"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		intent    model.IntentType
		slot      string
		value     string
		wantValue string
		wantErr   bool
	}{
		{
			name:      "freetext passes through trimmed",
			intent:    model.IntentRecommendation,
			slot:      model.SlotStyle,
			value:     "  Belgian Tripel ",
			wantValue: "Belgian Tripel",
		},
		{
			name:      "level accepted case-insensitively",
			intent:    model.IntentRecommendation,
			slot:      model.SlotABV,
			value:     "High",
			wantValue: "high",
		},
		{
			name:    "level outside the bucket set rejected",
			intent:  model.IntentRecommendation,
			slot:    model.SlotABV,
			value:   "very strong",
			wantErr: true,
		},
		{
			name:      "numeric in range normalized",
			intent:    model.IntentRateBeer,
			slot:      model.SlotRating,
			value:     "4.50",
			wantValue: "4.5",
		},
		{
			name:    "numeric above range rejected",
			intent:  model.IntentRateBeer,
			slot:    model.SlotRating,
			value:   "5.1",
			wantErr: true,
		},
		{
			name:    "numeric garbage rejected",
			intent:  model.IntentRateBeer,
			slot:    model.SlotRating,
			value:   "five",
			wantErr: true,
		},
		{
			name:    "empty value rejected",
			intent:  model.IntentBeerInfo,
			slot:    model.SlotName,
			value:   "   ",
			wantErr: true,
		},
		{
			name:    "literal null rejected",
			intent:  model.IntentBeerInfo,
			slot:    model.SlotName,
			value:   "null",
			wantErr: true,
		},
		{
			name:    "slot unknown to the intent rejected",
			intent:  model.IntentBreweryBeers,
			slot:    model.SlotRating,
			value:   "4",
			wantErr: true,
		},
		{
			name:    "unknown intent rejected",
			intent:  model.IntentType("order_pizza"),
			slot:    model.SlotStyle,
			value:   "margherita",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.intent, tt.slot, model.SlotValue{Value: tt.value, Confidence: 0.9})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Validate() = %+v, want error", got)
				}
				if errx.KindOf(err) != errx.KindSlotInvalid {
					t.Fatalf("error kind = %q, want %q", errx.KindOf(err), errx.KindSlotInvalid)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if got.Value != tt.wantValue {
				t.Fatalf("Validate() value = %q, want %q", got.Value, tt.wantValue)
			}
			if got.Name != tt.slot {
				t.Fatalf("Validate() name = %q, want %q", got.Name, tt.slot)
			}
		})
	}
}

func TestRequiredDeclaredOrder(t *testing.T) {
	def, ok := Lookup(model.IntentRateBeer)
	if !ok {
		t.Fatalf("Lookup(rate_beer) missing")
	}

	req := def.Required()
	if len(req) != 2 {
		t.Fatalf("len(Required()) = %d, want 2", len(req))
	}
	if req[0].Name != model.SlotName || req[1].Name != model.SlotRating {
		t.Fatalf("Required() order = %q, %q; want name then rating", req[0].Name, req[1].Name)
	}
	for _, s := range req {
		if !s.Required {
			t.Fatalf("Required() returned optional slot %q", s.Name)
		}
	}

	// out_of_context declares no slots at all
	def, _ = Lookup(model.IntentOutOfContext)
	if got := def.Required(); len(got) != 0 {
		t.Fatalf("Required() for out_of_context = %+v, want none", got)
	}
}

func TestFirstMissingPriorityOrder(t *testing.T) {
	def, ok := Lookup(model.IntentRateBeer)
	if !ok {
		t.Fatalf("Lookup(rate_beer) missing")
	}

	// nothing filled: name is asked before rating
	missing, incomplete := def.FirstMissing(map[string]model.Slot{})
	if !incomplete || missing != model.SlotName {
		t.Fatalf("FirstMissing(empty) = %q, %v; want name, true", missing, incomplete)
	}

	// name filled: rating comes next
	missing, incomplete = def.FirstMissing(map[string]model.Slot{
		model.SlotName: {Name: model.SlotName, Value: "Duvel"},
	})
	if !incomplete || missing != model.SlotRating {
		t.Fatalf("FirstMissing(name) = %q, %v; want rating, true", missing, incomplete)
	}

	// all required filled: complete even without the optional comment
	_, incomplete = def.FirstMissing(map[string]model.Slot{
		model.SlotName:   {Name: model.SlotName, Value: "Duvel"},
		model.SlotRating: {Name: model.SlotRating, Value: "4"},
	})
	if incomplete {
		t.Fatalf("FirstMissing(all required) = incomplete, want complete")
	}
}

func TestIsQueryIntent(t *testing.T) {
	for _, intent := range []model.IntentType{
		model.IntentRecommendation, model.IntentBeerInfo, model.IntentBreweryBeers, model.IntentTopRated,
	} {
		if !IsQueryIntent(intent) {
			t.Fatalf("IsQueryIntent(%q) = false, want true", intent)
		}
	}
	for _, intent := range []model.IntentType{
		model.IntentRateBeer, model.IntentOutOfContext, model.IntentTerminate,
	} {
		if IsQueryIntent(intent) {
			t.Fatalf("IsQueryIntent(%q) = true, want false", intent)
		}
	}
}
