package extract

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/llamale/server/internal/assistant/llm"
	"github.com/llamale/server/internal/assistant/model"
	logx "github.com/llamale/server/pkg/logger"
)

// GeminiExtractor implements model.Extractor on a Gemini chat model.
type GeminiExtractor struct {
	cm        einomodel.BaseChatModel
	modelName string
	maxTurns  int
}

// NewGeminiExtractor wraps a chat model as the extractor collaborator.
// maxTurns bounds how much history goes into the prompt context.
func NewGeminiExtractor(cm einomodel.BaseChatModel, modelName string, maxTurns int) *GeminiExtractor {
	return &GeminiExtractor{cm: cm, modelName: modelName, maxTurns: maxTurns}
}

// Extract runs one model call and parses the tuple output. A reply the
// parser cannot make sense of degrades to zero intents rather than an
// error; only the model call itself failing is surfaced, so the dialogue
// manager can emit its try-again action.
func (e *GeminiExtractor) Extract(ctx context.Context, text string, history []*schema.Message) ([]model.ExtractedIntent, error) {
	systemPrompt, err := RenderSystem(ctx)
	if err != nil {
		return nil, fmt.Errorf("render extractor prompt: %w", err)
	}

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(BuildContext(history, text, e.maxTurns)),
	}

	out, err := e.cm.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("extractor model call: %w", err)
	}
	if out == nil {
		return nil, nil
	}
	llm.LogUsageCost("extractor", e.modelName, out)

	intents, report := Parse(out.Content)
	if len(report.Errors) > 0 {
		logx.Warn().
			Strs("parsing_errors", report.Errors).
			Int("intents", len(intents)).
			Msg("extractor reply partially parseable")
	}
	return intents, nil
}

var _ model.Extractor = (*GeminiExtractor)(nil)
