// Package render implements the response renderer collaborator: a
// deterministic template renderer used offline and as a fallback, and a
// Gemini-backed renderer that verbalizes actions in natural language.
package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/llamale/server/internal/assistant/model"
)

// slot questions asked when a goal is missing exactly one required slot
var slotQuestions = map[string]string{
	model.SlotStyle:   "Which beer style are you in the mood for?",
	model.SlotName:    "Which beer do you mean?",
	model.SlotBrewery: "Which brewery are you interested in?",
	model.SlotRating:  "What rating would you like to give, from 0 to 5?",
	model.SlotComment: "Any comment to go with that?",
	model.SlotABV:     "How strong should it be: low, medium or high ABV?",
	model.SlotIBU:     "How bitter should it be: low, medium or high IBU?",
}

// TemplateRenderer produces fixed-template replies. Deterministic output
// makes it the renderer of choice for tests and for runs without an API key.
type TemplateRenderer struct{}

func NewTemplateRenderer() *TemplateRenderer {
	return &TemplateRenderer{}
}

func (r *TemplateRenderer) Render(_ context.Context, actions []model.Action) (string, error) {
	if len(actions) == 0 {
		return "What can I do for you?", nil
	}
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		parts = append(parts, renderOne(a))
	}
	return strings.Join(parts, "\n\n"), nil
}

func renderOne(a model.Action) string {
	switch a.Kind {
	case model.ActionRequestSlot:
		if q, ok := slotQuestions[a.Slot]; ok {
			return q
		}
		return fmt.Sprintf("Could you tell me the %s?", a.Slot)

	case model.ActionResults:
		return renderResults(a)

	case model.ActionRatingSaved:
		if a.Receipt == nil {
			return "Your rating has been saved."
		}
		msg := fmt.Sprintf("Saved your %.1f rating for %s", a.Receipt.Score, a.Receipt.Name)
		if a.Receipt.Brewery != "" {
			msg += fmt.Sprintf(" (%s)", a.Receipt.Brewery)
		}
		if a.Receipt.Comment != "" {
			msg += fmt.Sprintf(" with the comment %q", a.Receipt.Comment)
		}
		return msg + "."

	case model.ActionNoResults:
		if a.Intent == model.IntentRateBeer {
			return "I couldn't find that beer to rate, sorry."
		}
		return "I couldn't find any beers matching that, sorry."

	case model.ActionClarify:
		return "I didn't quite catch that. I can recommend beers, look one up, list a brewery's beers, show top rated ones, or record your rating. Could you rephrase?"

	case model.ActionUnavailable:
		return "Something went wrong on my end. Please try again."

	case model.ActionOutOfContext:
		return "I'm best at talking beer. Ask me for a recommendation, beer details, or to record a rating."

	case model.ActionGoodbye:
		return "Goodbye! Cheers!"

	default:
		return "What can I do for you?"
	}
}

func renderResults(a model.Action) string {
	var b strings.Builder
	switch a.Intent {
	case model.IntentBeerInfo:
		b.WriteString("Here's what I found:\n")
	case model.IntentBreweryBeers:
		b.WriteString("Beers from that brewery:\n")
	case model.IntentTopRated:
		b.WriteString("Top rated picks:\n")
	default:
		b.WriteString("You might enjoy these:\n")
	}
	for _, beer := range a.Beers {
		fmt.Fprintf(&b, "- %s (%s, %s) — ABV %.1f%%, rating %.2f\n", beer.Name, beer.Style, beer.Brewery, beer.ABV, beer.Rating)
	}
	return strings.TrimRight(b.String(), "\n")
}

var _ model.Renderer = (*TemplateRenderer)(nil)
