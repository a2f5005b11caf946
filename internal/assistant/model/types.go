package model

import (
	"time"
)

// IntentType identifies one discrete user goal within an utterance.
type IntentType string

const (
	IntentRecommendation IntentType = "get_beer_recommendation"
	IntentBeerInfo       IntentType = "get_beer_info"
	IntentBreweryBeers   IntentType = "list_beers_by_brewery"
	IntentTopRated       IntentType = "get_top_rated"
	IntentRateBeer       IntentType = "rate_beer"
	IntentOutOfContext   IntentType = "out_of_context"
	IntentTerminate      IntentType = "terminate_system"
)

// Slot names shared between the registry, the extractor prompt and the catalog.
const (
	SlotStyle   = "style"
	SlotABV     = "abv"
	SlotIBU     = "ibu"
	SlotRating  = "rating"
	SlotName    = "name"
	SlotBrewery = "brewery"
	SlotComment = "comment"
)

// SlotValue is a raw extracted value before validation. Reference marks an
// anaphoric mention ("it", "that beer") the extractor could not resolve to a
// literal value; the dialogue manager substitutes the last mentioned entity.
type SlotValue struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Reference  bool    `json:"reference,omitempty"`
}

// Slot is a validated, admitted slot value inside a goal.
type Slot struct {
	Name       string  `json:"name"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// GoalStatus tracks the fill state of a goal across turns.
type GoalStatus string

const (
	GoalOpen      GoalStatus = "open"
	GoalSatisfied GoalStatus = "satisfied"
	GoalAbandoned GoalStatus = "abandoned"
)

// Goal is the dialogue manager's tracked instance of an intent. It is owned
// by the turn state store and mutated only by the manager's merge step.
type Goal struct {
	ID          string          `json:"id"`
	Intent      IntentType      `json:"intent"`
	Slots       map[string]Slot `json:"slots"`
	Status      GoalStatus      `json:"status"`
	CreatedTurn uint64          `json:"created_turn"`
	UpdatedTurn uint64          `json:"updated_turn"`
}

// SlotValueOf returns the admitted value for a slot name, if present.
func (g *Goal) SlotValueOf(name string) (string, bool) {
	s, ok := g.Slots[name]
	if !ok {
		return "", false
	}
	return s.Value, true
}

// Turn is one committed user exchange. Immutable once committed; the turn
// log is append-only and corrections always produce new turns.
type Turn struct {
	ID           uint64    `json:"id"`
	RawText      string    `json:"raw_text"`
	GoalsTouched []string  `json:"goals_touched"`
	Actions      []Action  `json:"actions"`
	CreatedAt    time.Time `json:"created_at"`
}

// EntityRef is a weak reference to the most recently discussed beer,
// supporting anaphora on later turns. ID may be zero when only a name is
// known; the catalog resolves names on lookup.
type EntityRef struct {
	BeerID int64  `json:"beer_id"`
	Name   string `json:"name"`
}

// ExtractedIntent is one (intent, partial slot map) pair produced by the
// extractor collaborator. Output order within a turn is load-bearing:
// earlier intents are resolved first so later ones can reference entities
// they establish.
type ExtractedIntent struct {
	Intent     IntentType           `json:"intent"`
	Slots      map[string]SlotValue `json:"slots"`
	Confidence float64              `json:"confidence"`
}

// BeerRecord is one catalog row returned by the knowledge collaborator.
type BeerRecord struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	FullName    string  `json:"full_name"`
	Style       string  `json:"style"`
	Brewery     string  `json:"brewery"`
	Description string  `json:"description"`
	ABV         float64 `json:"abv"`
	MinIBU      float64 `json:"min_ibu"`
	MaxIBU      float64 `json:"max_ibu"`
	Rating      float64 `json:"rating"`
}

// RatingReceipt confirms a recorded user rating.
type RatingReceipt struct {
	BeerID  int64   `json:"beer_id"`
	Name    string  `json:"name"`
	Brewery string  `json:"brewery"`
	Score   float64 `json:"score"`
	Comment string  `json:"comment,omitempty"`
}
