package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// Extractor splits raw user text into ordered intents with partial slot
// maps. It must be total: an internal failure returns an empty sequence
// (treated as "no actionable intent"), and only transport-level errors are
// surfaced as error.
type Extractor interface {
	Extract(ctx context.Context, text string, history []*schema.Message) ([]ExtractedIntent, error)
}

// Knowledge answers structured beer queries and records user ratings.
type Knowledge interface {
	// Query returns ranked catalog rows for a satisfied query intent,
	// possibly empty.
	Query(ctx context.Context, intent IntentType, slots map[string]Slot) ([]BeerRecord, error)

	// RecordRating writes a rating for the referenced beer. When ref.BeerID
	// is zero the beer is resolved by name.
	RecordRating(ctx context.Context, ref EntityRef, score float64, comment string) (*RatingReceipt, error)
}

// Renderer verbalizes the ordered actions of one turn as a single reply.
type Renderer interface {
	Render(ctx context.Context, actions []Action) (string, error)
}

// TurnRepository persists the per-session message history and committed
// turn log. The in-memory store inside the dialogue manager stays
// authoritative within a session; the repository is the durable record.
type TurnRepository interface {
	// AddMessage appends a user or assistant message to the session history.
	AddMessage(ctx context.Context, sessionID string, message *schema.Message) error

	// LoadHistory retrieves the session's message history.
	LoadHistory(ctx context.Context, sessionID string) ([]*schema.Message, error)

	// AppendTurn appends a committed turn to the session's turn log.
	AppendTurn(ctx context.Context, sessionID string, turn *Turn) error

	// ClearSession removes all history and turns for a session.
	ClearSession(ctx context.Context, sessionID string) error

	// MessageCount returns the number of messages in the session history.
	MessageCount(ctx context.Context, sessionID string) (int, error)
}
