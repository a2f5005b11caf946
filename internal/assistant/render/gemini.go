package render

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/llamale/server/internal/assistant/llm"
	"github.com/llamale/server/internal/assistant/model"
	logx "github.com/llamale/server/pkg/logger"
)

//go:embed template/response_prompt.txt
var responseSystemPrompt string

// GeminiRenderer verbalizes actions with a Gemini chat model. On model
// failure it falls back to the template renderer so a turn always ends in
// text.
type GeminiRenderer struct {
	cm        einomodel.BaseChatModel
	modelName string
	botName   string
	fallback  *TemplateRenderer
}

func NewGeminiRenderer(cm einomodel.BaseChatModel, modelName string, promptCfg *model.RendererPromptConfig) *GeminiRenderer {
	botName := "BeerBot"
	if promptCfg != nil && promptCfg.BotName != "" {
		botName = promptCfg.BotName
	}
	return &GeminiRenderer{
		cm:        cm,
		modelName: modelName,
		botName:   botName,
		fallback:  NewTemplateRenderer(),
	}
}

func (r *GeminiRenderer) Render(ctx context.Context, actions []model.Action) (string, error) {
	payload, err := sonic.MarshalIndent(actions, "", "  ")
	if err != nil {
		return r.fallback.Render(ctx, actions)
	}

	content := strings.NewReplacer(
		"{bot_name}", r.botName,
		"{actions}", string(payload),
	).Replace(responseSystemPrompt)

	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("render prompt callbacks: %w", err)
	}

	out, err := r.cm.Generate(ctx, msgs)
	if err != nil || out == nil || strings.TrimSpace(out.Content) == "" {
		logx.Warn().Err(err).Msg("renderer model call failed, falling back to templates")
		return r.fallback.Render(ctx, actions)
	}
	llm.LogUsageCost("renderer", r.modelName, out)
	return out.Content, nil
}

var _ model.Renderer = (*GeminiRenderer)(nil)
