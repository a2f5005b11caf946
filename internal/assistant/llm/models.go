// Package llm constructs the Gemini chat models backing the extractor and
// renderer collaborators from a single genai client.
package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/llamale/server/internal/assistant/model"
	logx "github.com/llamale/server/pkg/logger"
)

// Config holds what is needed to create both chat models.
type Config struct {
	APIKey       string
	BaseURL      string
	ExtractorCfg *model.ExtractorModelConfig
	RendererCfg  *model.RendererModelConfig
}

// Models holds the extractor and renderer chat models.
type Models struct {
	Extractor          *gemini.ChatModel
	Renderer           *gemini.ChatModel
	ExtractorModelName string
	RendererModelName  string
}

// NewModels creates both chat models with the given configuration.
func NewModels(ctx context.Context, cfg Config) (*Models, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	extractorModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.ExtractorCfg.Model,
		Temperature: &cfg.ExtractorCfg.Temperature,
		MaxTokens:   &cfg.ExtractorCfg.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating extractor model")
		return nil, fmt.Errorf("error creating extractor model: %w", err)
	}

	rendererModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.RendererCfg.Model,
		Temperature: &cfg.RendererCfg.Temperature,
		MaxTokens:   &cfg.RendererCfg.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating renderer model")
		return nil, fmt.Errorf("error creating renderer model: %w", err)
	}

	return &Models{
		Extractor:          extractorModel,
		Renderer:           rendererModel,
		ExtractorModelName: cfg.ExtractorCfg.Model,
		RendererModelName:  cfg.RendererCfg.Model,
	}, nil
}

// LogUsageCost computes and logs the USD cost of one model invocation.
func LogUsageCost(component, modelName string, out *schema.Message) {
	if out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	pricing := model.ResolvePricing(modelName)
	inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)
	logx.Debug().
		Str("component", component).
		Str("model", modelName).
		Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
		Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
		Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
}
