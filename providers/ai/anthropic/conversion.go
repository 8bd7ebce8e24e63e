package anthropic

import (
	"strings"

	"github.com/aegisdev/aegis/providers/ai"
)

// requestToAnthropic converts a generic conversation into an anthropicRequest.
// System messages are lifted into the request-level system field because
// Anthropic's role vocabulary has no system role; multiple system messages
// are joined in order. Content parts the Messages API cannot carry are
// dropped on the way out (documented capability loss, not an error).
func requestToAnthropic(messages []ai.Message, model string, stream bool) anthropicRequest {
	req := anthropicRequest{
		Model:     model,
		MaxTokens: defaultMaxTokens,
		Stream:    stream,
	}

	var systemParts []string
	for _, message := range messages {
		if message.Role == ai.RoleSystem {
			systemParts = append(systemParts, message.Text())
			continue
		}

		req.Messages = append(req.Messages, anthropicMessage{
			Role:    string(message.Role),
			Content: buildContentBlocks(message.Content),
		})
	}
	req.System = strings.Join(systemParts, "\n\n")

	return req
}

// buildContentBlocks maps generic content parts onto Anthropic content blocks.
func buildContentBlocks(parts []ai.ContentPart) []anthropicContentBlock {
	blocks := make([]anthropicContentBlock, 0, len(parts))
	for _, part := range parts {
		switch p := part.(type) {
		case ai.TextPart:
			blocks = append(blocks, anthropicContentBlock{Type: "text", Text: p.Text})
		case ai.ImagePart:
			blocks = append(blocks, anthropicContentBlock{
				Type:   "image",
				Source: &anthropicSource{Type: "url", URL: p.ImageURL},
			})
		}
	}
	return blocks
}

// anthropicToMessage converts a Messages API response into the generic model.
// The result is always an assistant message; every text block becomes a
// TextPart in response order, and Metadata records the serving backend,
// model, and token usage when reported.
func anthropicToMessage(response anthropicResponse) *ai.Message {
	var parts []ai.ContentPart
	for _, block := range response.Content {
		if block.Type == "text" {
			parts = append(parts, ai.TextPart{Text: block.Text})
		}
	}

	metadata := &ai.Metadata{
		Model:    response.Model,
		Provider: ai.ProviderAnthropic,
	}
	if response.Usage != nil {
		metadata.Usage = &ai.Usage{
			PromptTokens:     response.Usage.InputTokens,
			CompletionTokens: response.Usage.OutputTokens,
			TotalTokens:      response.Usage.InputTokens + response.Usage.OutputTokens,
		}
	}

	return &ai.Message{
		Role:     ai.RoleAssistant,
		Content:  parts,
		Metadata: metadata,
	}
}
