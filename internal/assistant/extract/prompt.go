package extract

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/llamale/server/internal/assistant/model"
	"github.com/llamale/server/internal/assistant/registry"
)

//go:embed template/extract_prompt.txt
var extractSystemPrompt string

// RenderSystem renders the extractor system prompt via the Eino prompt
// component, so prompt callbacks fire, and returns the final string.
func RenderSystem(ctx context.Context) (string, error) {
	// Safely render known tokens only to avoid interfering with braces in the template
	content := strings.NewReplacer(
		"{TD}", tupDelim,
		"{RD}", recDelim,
		"{CD}", endDelim,
		"{REF}", ReferenceMarker,
		"{intents}", intentList(),
		"{slot_guide}", slotGuide(),
	).Replace(extractSystemPrompt)

	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("extract prompt callbacks: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("extract prompt callbacks: empty result")
	}
	return msgs[0].Content, nil
}

func intentList() string {
	var b strings.Builder
	for _, intent := range registry.Intents() {
		b.WriteString("- ")
		b.WriteString(string(intent))
		b.WriteString("\n")
	}
	b.WriteString("- ")
	b.WriteString(string(model.IntentTerminate))
	b.WriteString("\n")
	return b.String()
}

func slotGuide() string {
	var b strings.Builder
	for _, intent := range registry.Intents() {
		def, ok := registry.Lookup(intent)
		if !ok || len(def.Slots) == 0 {
			continue
		}
		b.WriteString(string(intent))
		b.WriteString(": ")
		names := make([]string, 0, len(def.Slots))
		for _, sd := range def.Slots {
			name := sd.Name
			if sd.Required {
				name += " (required)"
			}
			names = append(names, name)
		}
		b.WriteString(strings.Join(names, ", "))
		b.WriteString("\n")
	}
	return b.String()
}
