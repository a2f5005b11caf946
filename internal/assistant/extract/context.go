package extract

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// BuildContext formats the recent conversation history plus the current
// message into the block the extractor prompt expects. Only the last
// maxTurns messages are kept so the prompt stays bounded.
func BuildContext(history []*schema.Message, current string, maxTurns int) string {
	recent := trimTail(history, maxTurns)

	var b strings.Builder
	b.WriteString("<conversation_context>\n")
	for _, msg := range recent {
		if msg == nil || msg.Content == "" {
			continue
		}
		switch msg.Role {
		case schema.User:
			b.WriteString("UserMessage(" + msg.Content + ")\n")
		case schema.Assistant:
			b.WriteString("AssistantMessage(" + msg.Content + ")\n")
		}
	}
	b.WriteString("</conversation_context>\n")
	b.WriteString("<current_message_to_analyze>\n")
	b.WriteString("UserMessage(" + current + ")\n")
	b.WriteString("</current_message_to_analyze>")
	return b.String()
}

func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns <= 0 || len(messages) <= maxTurns {
		return messages
	}
	return messages[len(messages)-maxTurns:]
}
