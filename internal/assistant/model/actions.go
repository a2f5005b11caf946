package model

// ActionKind classifies what the renderer should verbalize for one intent.
type ActionKind string

const (
	// ActionRequestSlot asks the user for exactly one missing slot.
	ActionRequestSlot ActionKind = "request_slot"
	// ActionResults carries catalog rows for a satisfied query intent.
	ActionResults ActionKind = "results"
	// ActionRatingSaved confirms a recorded rating.
	ActionRatingSaved ActionKind = "rating_saved"
	// ActionNoResults reports a fully specified but unanswerable request.
	ActionNoResults ActionKind = "no_results"
	// ActionClarify prompts the user to rephrase (no intent extracted).
	ActionClarify ActionKind = "clarify"
	// ActionUnavailable reports an unreachable collaborator ("try again").
	ActionUnavailable ActionKind = "unavailable"
	// ActionOutOfContext acknowledges an off-topic utterance.
	ActionOutOfContext ActionKind = "out_of_context"
	// ActionGoodbye ends the session.
	ActionGoodbye ActionKind = "goodbye"
)

// Action is one renderable decision produced by the dialogue manager.
// Actions are emitted in the same order as their source intents so the
// renderer can verbalize a multi-intent turn coherently.
type Action struct {
	Kind    ActionKind     `json:"kind"`
	Intent  IntentType     `json:"intent,omitempty"`
	Slot    string         `json:"slot,omitempty"`
	Beers   []BeerRecord   `json:"beers,omitempty"`
	Receipt *RatingReceipt `json:"receipt,omitempty"`
}
