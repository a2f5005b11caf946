package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/llamale/server/internal/assistant/catalog"
	"github.com/llamale/server/internal/assistant/extract"
	"github.com/llamale/server/internal/assistant/llm"
	"github.com/llamale/server/internal/assistant/model"
	"github.com/llamale/server/internal/assistant/render"
	"github.com/llamale/server/internal/assistant/repo"
	"github.com/llamale/server/internal/assistant/session"
	"github.com/llamale/server/internal/core"
	logx "github.com/llamale/server/pkg/logger"
	pkgredis "github.com/llamale/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the assistant,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis   pkgredis.Config
	Catalog model.CatalogConfig

	// LLM provider. Leave GEMINI_API_KEY empty to run fully offline with
	// the scripted extractor and template renderer.
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Assistant configs
	Extractor    model.ExtractorModelConfig
	Renderer     model.RendererModelConfig
	Prompt       model.RendererPromptConfig
	Conversation model.ConversationConfig
}

func main() {
	fmt.Println("BeerBot — multi-turn beer discovery assistant")
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}
	logx.Init(logx.LoggerOpts{Environment: core.EnvironmentFromEnv()})

	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}

	store, err := catalog.Open(envCfg.Catalog.Path)
	if err != nil {
		log.Fatalf("Failed to open beer catalog: %v", err)
	}
	defer store.Close()
	if err := store.Seed(ctx); err != nil {
		log.Fatalf("Failed to seed beer catalog: %v", err)
	}
	fmt.Println("Beer catalog ready")

	var (
		extractor model.Extractor
		renderer  model.Renderer
	)
	if envCfg.APIKey != "" {
		models, err := llm.NewModels(ctx, llm.Config{
			APIKey:       envCfg.APIKey,
			BaseURL:      envCfg.BaseURL,
			ExtractorCfg: &envCfg.Extractor,
			RendererCfg:  &envCfg.Renderer,
		})
		if err != nil {
			log.Fatalf("Failed to initialise Gemini models: %v", err)
		}
		extractor = extract.NewGeminiExtractor(models.Extractor, models.ExtractorModelName, envCfg.Conversation.History.MaxTurns)
		renderer = render.NewGeminiRenderer(models.Renderer, models.RendererModelName, &envCfg.Prompt)
		fmt.Println("Gemini collaborators ready")
	} else {
		extractor = demoExtractor()
		renderer = render.NewTemplateRenderer()
		fmt.Println("No GEMINI_API_KEY set, running with scripted extractor")
	}

	turnRepo := buildRepo(&envCfg, ttl)
	sessions := session.NewManager(extractor, store, renderer, turnRepo, ttl, envCfg.Conversation.Results.TopK)

	testQueries := []struct {
		description string
		query       string
	}{
		{
			description: "Recommendation request without a style yet",
			query:       "Can you recommend me a beer?",
		},
		{
			description: "Answering the follow-up question",
			query:       "a strong stout please",
		},
		{
			description: "Rating the suggested beer anaphorically",
			query:       "great, rate it 4.5",
		},
		{
			description: "Ending the conversation",
			query:       "thanks, bye!",
		},
	}

	sessionID := sessions.NewSession()

	for i, test := range testQueries {
		fmt.Printf("\nTurn %d: %s\n", i+1, test.description)
		fmt.Printf("User: %q\n", test.query)

		reply, done, err := sessions.Process(ctx, sessionID, test.query)
		if err != nil {
			log.Fatalf("Failed to process turn %d: %v", i+1, err)
		}

		fmt.Printf("Bot: %s\n", reply)
		if done {
			fmt.Println("\nConversation ended by user")
			break
		}
	}
}

// buildRepo connects to Redis when a URL is configured and falls back to
// the in-memory repository otherwise.
func buildRepo(cfg *AppConfig, ttl time.Duration) model.TurnRepository {
	if cfg.Redis.URL == "" {
		return repo.New(nil, ttl)
	}
	rdb, err := cfg.Redis.New()
	if err != nil {
		log.Printf("Warning: Redis unavailable (%v), using in-memory history", err)
		return repo.New(nil, ttl)
	}
	return repo.New(rdb, ttl)
}

// demoExtractor scripts the extraction for the offline demo conversation.
func demoExtractor() model.Extractor {
	return &extract.MockExtractor{Scripts: []extract.MockScript{
		{
			Match: "recommend me a beer",
			Intents: []model.ExtractedIntent{{
				Intent:     model.IntentRecommendation,
				Confidence: 0.95,
			}},
		},
		{
			Match: "strong stout",
			Intents: []model.ExtractedIntent{{
				Intent: model.IntentRecommendation,
				Slots: map[string]model.SlotValue{
					model.SlotStyle: {Value: "stout", Confidence: 0.95},
					model.SlotABV:   {Value: "high", Confidence: 0.9},
				},
				Confidence: 0.9,
			}},
		},
		{
			Match: "rate it",
			Intents: []model.ExtractedIntent{{
				Intent: model.IntentRateBeer,
				Slots: map[string]model.SlotValue{
					model.SlotName:   {Reference: true, Confidence: 0.9},
					model.SlotRating: {Value: "4.5", Confidence: 0.95},
				},
				Confidence: 0.9,
			}},
		},
		{
			Match: "bye",
			Intents: []model.ExtractedIntent{{
				Intent:     model.IntentTerminate,
				Confidence: 0.95,
			}},
		},
	}}
}
