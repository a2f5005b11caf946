// Package registry holds the static slot schema: which slots each intent
// type requires, in which priority order they are asked for, and how their
// values are constrained.
package registry

import (
	"github.com/llamale/server/internal/assistant/model"
)

// SlotKind selects the validation rule applied to a slot value.
type SlotKind int

const (
	// KindFreeText accepts any non-empty string.
	KindFreeText SlotKind = iota
	// KindLevel accepts one of a closed set of bucket levels.
	KindLevel
	// KindNumeric accepts a number within [Min, Max].
	KindNumeric
)

// SlotDef declares one slot of an intent.
type SlotDef struct {
	Name     string
	Kind     SlotKind
	Required bool
	Levels   []string
	Min      float64
	Max      float64
}

// IntentDef declares the slot schema for one intent type. The declared
// order of required slots is the prompt priority: the dialogue manager asks
// for the first missing one.
type IntentDef struct {
	Intent model.IntentType
	Slots  []SlotDef
}

// Slot returns the definition for a slot name.
func (d IntentDef) Slot(name string) (SlotDef, bool) {
	for _, s := range d.Slots {
		if s.Name == name {
			return s, true
		}
	}
	return SlotDef{}, false
}

// Required returns the required slots in declared priority order.
func (d IntentDef) Required() []SlotDef {
	out := make([]SlotDef, 0, len(d.Slots))
	for _, s := range d.Slots {
		if s.Required {
			out = append(out, s)
		}
	}
	return out
}

// FirstMissing returns the name of the first required slot absent from the
// given slot map, in declared priority order.
func (d IntentDef) FirstMissing(slots map[string]model.Slot) (string, bool) {
	for _, s := range d.Required() {
		if _, ok := slots[s.Name]; !ok {
			return s.Name, true
		}
	}
	return "", false
}

var levelBuckets = []string{"low", "medium", "high"}

// intentDefs is the full schema table. Optional slots narrow a query;
// required slots gate dispatch.
var intentDefs = map[model.IntentType]IntentDef{
	model.IntentRecommendation: {
		Intent: model.IntentRecommendation,
		Slots: []SlotDef{
			{Name: model.SlotStyle, Kind: KindFreeText, Required: true},
			{Name: model.SlotABV, Kind: KindLevel, Levels: levelBuckets},
			{Name: model.SlotIBU, Kind: KindLevel, Levels: levelBuckets},
			{Name: model.SlotRating, Kind: KindNumeric, Min: 0, Max: 5},
		},
	},
	model.IntentBeerInfo: {
		Intent: model.IntentBeerInfo,
		Slots: []SlotDef{
			{Name: model.SlotName, Kind: KindFreeText, Required: true},
			{Name: model.SlotBrewery, Kind: KindFreeText},
		},
	},
	model.IntentBreweryBeers: {
		Intent: model.IntentBreweryBeers,
		Slots: []SlotDef{
			{Name: model.SlotBrewery, Kind: KindFreeText, Required: true},
		},
	},
	model.IntentTopRated: {
		Intent: model.IntentTopRated,
		Slots: []SlotDef{
			{Name: model.SlotStyle, Kind: KindFreeText},
		},
	},
	model.IntentRateBeer: {
		Intent: model.IntentRateBeer,
		Slots: []SlotDef{
			{Name: model.SlotName, Kind: KindFreeText, Required: true},
			{Name: model.SlotRating, Kind: KindNumeric, Required: true, Min: 0, Max: 5},
			{Name: model.SlotComment, Kind: KindFreeText},
		},
	},
	model.IntentOutOfContext: {
		Intent: model.IntentOutOfContext,
	},
}

// Lookup returns the schema for an intent type.
func Lookup(intent model.IntentType) (IntentDef, bool) {
	d, ok := intentDefs[intent]
	return d, ok
}

// IsQueryIntent reports whether the intent dispatches a catalog query.
func IsQueryIntent(intent model.IntentType) bool {
	switch intent {
	case model.IntentRecommendation, model.IntentBeerInfo, model.IntentBreweryBeers, model.IntentTopRated:
		return true
	}
	return false
}

// Intents returns all known intent types, for prompt assembly.
func Intents() []model.IntentType {
	return []model.IntentType{
		model.IntentRecommendation,
		model.IntentBeerInfo,
		model.IntentBreweryBeers,
		model.IntentTopRated,
		model.IntentRateBeer,
		model.IntentOutOfContext,
	}
}
