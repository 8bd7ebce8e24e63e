package openai

import "github.com/aegisdev/aegis/providers/ai"

// requestToChatCompletion converts a generic conversation into a
// chatCompletionRequest. Chat completions carries content as a single string,
// so each message's text parts are flattened in order and image parts are
// dropped (documented capability loss, not an error). The system role exists
// in OpenAI's vocabulary and passes through unchanged.
func requestToChatCompletion(messages []ai.Message, model string, stream bool) chatCompletionRequest {
	wireMessages := make([]chatMessage, 0, len(messages))
	for _, message := range messages {
		wireMessages = append(wireMessages, chatMessage{
			Role:    string(message.Role),
			Content: message.Text(),
		})
	}

	return chatCompletionRequest{
		Model:       model,
		Messages:    wireMessages,
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
		Stream:      stream,
	}
}

// chatCompletionToMessage converts a chat completions response into the
// generic model. Only the first choice is consumed; the result is always an
// assistant message with Metadata recording the serving backend, model, and
// token usage when reported.
func chatCompletionToMessage(response chatCompletionResponse) *ai.Message {
	var parts []ai.ContentPart
	if content := response.Choices[0].Message.Content; content != "" {
		parts = append(parts, ai.TextPart{Text: content})
	}

	metadata := &ai.Metadata{
		Model:    response.Model,
		Provider: ai.ProviderOpenAI,
	}
	if response.Usage != nil {
		metadata.Usage = &ai.Usage{
			PromptTokens:     response.Usage.PromptTokens,
			CompletionTokens: response.Usage.CompletionTokens,
			TotalTokens:      response.Usage.TotalTokens,
		}
	}

	return &ai.Message{
		Role:     ai.RoleAssistant,
		Content:  parts,
		Metadata: metadata,
	}
}
