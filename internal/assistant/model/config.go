package model

// ================ Config ================
type ConversationConfig struct {
	TTL     string `envconfig:"CONVERSATION_TTL" default:"15m"`
	History struct {
		MaxTurns int `envconfig:"CONVERSATION_HISTORY_MAX_TURNS" default:"6"`
	}
	Results struct {
		TopK int `envconfig:"CONVERSATION_RESULTS_TOP_K" default:"5"`
	}
}

type ExtractorModelConfig struct {
	Model       string  `envconfig:"EXTRACTOR_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"EXTRACTOR_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"EXTRACTOR_TEMPERATURE" default:"0.1"`
}

type RendererModelConfig struct {
	Model       string  `envconfig:"RENDERER_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RENDERER_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"RENDERER_TEMPERATURE" default:"0.4"`
}

type RendererPromptConfig struct {
	BotName string `envconfig:"PROMPT_BOT_NAME" default:"BeerBot"`
}

type CatalogConfig struct {
	Path string `envconfig:"CATALOG_PATH" default:"beers.db"`
}
