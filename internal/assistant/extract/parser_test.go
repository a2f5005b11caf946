package extract

import (
	"strings"
	"testing"

	"github.com/llamale/server/internal/assistant/model"
)

func TestParseMultiIntentWithSlots(t *testing.T) {
	content := `(intent<||>get_beer_recommendation<||>0.92)##
(slot<||>get_beer_recommendation<||>style<||>Belgian Tripel<||>0.9)##
(slot<||>get_beer_recommendation<||>abv<||>high<||>0.85)##
(intent<||>rate_beer<||>0.8)##
(slot<||>rate_beer<||>name<||><ref><||>0.8)##
(slot<||>rate_beer<||>rating<||>4.5<||>0.9)##
<|COMPLETE|>`

	intents, report := Parse(content)
	if len(report.Errors) != 0 {
		t.Fatalf("report.Errors = %v, want none", report.Errors)
	}
	if len(intents) != 2 {
		t.Fatalf("len(intents) = %d, want 2", len(intents))
	}

	rec := intents[0]
	if rec.Intent != model.IntentRecommendation || rec.Confidence != 0.92 {
		t.Fatalf("intents[0] = %+v, want recommendation at 0.92", rec)
	}
	if got := rec.Slots[model.SlotStyle]; got.Value != "Belgian Tripel" || got.Confidence != 0.9 {
		t.Fatalf("style slot = %+v", got)
	}
	if got := rec.Slots[model.SlotABV]; got.Value != "high" {
		t.Fatalf("abv slot = %+v", got)
	}

	rate := intents[1]
	if rate.Intent != model.IntentRateBeer {
		t.Fatalf("intents[1].Intent = %q, want rate_beer", rate.Intent)
	}
	if got := rate.Slots[model.SlotName]; !got.Reference || got.Value != "" {
		t.Fatalf("reference slot = %+v, want Reference=true with empty value", got)
	}
	if got := rate.Slots[model.SlotRating]; got.Value != "4.5" {
		t.Fatalf("rating slot = %+v", got)
	}
}

func TestParsePreservesIntentOrder(t *testing.T) {
	content := "(intent<||>get_top_rated<||>0.9)##(intent<||>get_beer_info<||>0.8)##<|COMPLETE|>"

	intents, _ := Parse(content)
	if len(intents) != 2 {
		t.Fatalf("len(intents) = %d, want 2", len(intents))
	}
	if intents[0].Intent != model.IntentTopRated || intents[1].Intent != model.IntentBeerInfo {
		t.Fatalf("order = %q, %q; want record order", intents[0].Intent, intents[1].Intent)
	}
}

func TestParseDuplicateIntentFolded(t *testing.T) {
	content := "(intent<||>get_top_rated<||>0.9)##(intent<||>get_top_rated<||>0.7)##<|COMPLETE|>"

	intents, _ := Parse(content)
	if len(intents) != 1 {
		t.Fatalf("len(intents) = %d, want 1 (duplicates fold)", len(intents))
	}
	if intents[0].Confidence != 0.9 {
		t.Fatalf("confidence = %v, want first record's 0.9", intents[0].Confidence)
	}
}

func TestParseMalformedRecordsSkipped(t *testing.T) {
	content := `(intent<||>get_beer_info<||>0.9)##
garbage record##
(slot<||>get_beer_info<||>name<||>Duvel<||>0.9)##
(slot<||>get_beer_recommendation<||>style<||>stout<||>0.9)##
(intent<||>rate_beer<||>1.5)##
<|COMPLETE|>`

	intents, report := Parse(content)

	// the well-formed intent and its slot survive
	if len(intents) != 1 || intents[0].Intent != model.IntentBeerInfo {
		t.Fatalf("intents = %+v, want just get_beer_info", intents)
	}
	if got := intents[0].Slots[model.SlotName]; got.Value != "Duvel" {
		t.Fatalf("name slot = %+v", got)
	}

	// bad record, orphan slot and out-of-range confidence all reported
	if len(report.Errors) != 3 {
		t.Fatalf("report.Errors = %v, want 3 entries", report.Errors)
	}
}

func TestParseSlotValueMayContainDelimiter(t *testing.T) {
	// free text after the fourth delimiter stays intact
	content := "(intent<||>rate_beer<||>0.9)##(slot<||>rate_beer<||>comment<||>good<||>but pricey<||>0.9)##<|COMPLETE|>"

	intents, _ := Parse(content)
	if len(intents) != 1 {
		t.Fatalf("len(intents) = %d, want 1", len(intents))
	}
	got := intents[0].Slots[model.SlotComment]
	if got.Value != "good<||>but pricey" {
		t.Fatalf("comment slot value = %q, want the delimiter preserved", got.Value)
	}
}

func TestParseContentAfterCompletionIgnored(t *testing.T) {
	content := "(intent<||>get_top_rated<||>0.9)##<|COMPLETE|>##(intent<||>rate_beer<||>0.9)"

	intents, _ := Parse(content)
	if len(intents) != 1 || intents[0].Intent != model.IntentTopRated {
		t.Fatalf("intents = %+v, want only the record before the completion marker", intents)
	}
}

func TestParseOversizedContentTruncated(t *testing.T) {
	content := "(intent<||>get_top_rated<||>0.9)##" + strings.Repeat("x", maxContentLen)

	intents, report := Parse(content)
	if !report.Truncated {
		t.Fatalf("report.Truncated = false, want true")
	}
	if len(intents) != 1 {
		t.Fatalf("len(intents) = %d, want the leading record to survive truncation", len(intents))
	}
}

func TestParseEmptyContent(t *testing.T) {
	intents, report := Parse("")
	if len(intents) != 0 {
		t.Fatalf("intents = %+v, want none", intents)
	}
	if len(report.Errors) != 0 {
		t.Fatalf("report.Errors = %v, want none", report.Errors)
	}
}
