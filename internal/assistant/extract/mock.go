package extract

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/llamale/server/internal/assistant/model"
)

// MockExtractor is a deterministic stand-in for the model-backed extractor,
// used in tests and for offline demo runs. Scripted responses are matched
// on a lowercase substring of the user text; unmatched input yields zero
// intents (the "prompt to rephrase" path).
type MockExtractor struct {
	Scripts []MockScript
	Err     error
}

// MockScript pairs a substring trigger with the intents to return.
type MockScript struct {
	Match   string
	Intents []model.ExtractedIntent
}

func (m *MockExtractor) Extract(_ context.Context, text string, _ []*schema.Message) ([]model.ExtractedIntent, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	lower := strings.ToLower(text)
	for _, s := range m.Scripts {
		if strings.Contains(lower, strings.ToLower(s.Match)) {
			return s.Intents, nil
		}
	}
	return nil, nil
}

var _ model.Extractor = (*MockExtractor)(nil)
