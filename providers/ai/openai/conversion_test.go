package openai

import (
	"testing"

	"github.com/aegisdev/aegis/providers/ai"
)

func TestRequestToChatCompletion_FlattensTextParts(t *testing.T) {
	messages := []ai.Message{
		{
			Role: ai.RoleUser,
			Content: []ai.ContentPart{
				ai.TextPart{Text: "first"},
				ai.TextPart{Text: "second"},
			},
		},
	}

	req := requestToChatCompletion(messages, "gpt-4", false)

	if len(req.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(req.Messages))
	}
	if req.Messages[0].Content != "firstsecond" {
		t.Errorf("expected flattened text, got %q", req.Messages[0].Content)
	}
	if req.Model != "gpt-4" {
		t.Errorf("expected model gpt-4, got %q", req.Model)
	}
	if req.Stream {
		t.Error("expected stream false")
	}
}

func TestRequestToChatCompletion_DropsImageParts(t *testing.T) {
	messages := []ai.Message{
		{
			Role: ai.RoleUser,
			Content: []ai.ContentPart{
				ai.TextPart{Text: "describe this"},
				ai.ImagePart{ImageURL: "https://example.com/cat.png"},
			},
		},
	}

	req := requestToChatCompletion(messages, "gpt-4", false)

	if req.Messages[0].Content != "describe this" {
		t.Errorf("expected image dropped, got %q", req.Messages[0].Content)
	}
}

func TestRequestToChatCompletion_SystemRolePassesThrough(t *testing.T) {
	messages := []ai.Message{
		ai.NewTextMessage(ai.RoleSystem, "be brief"),
		ai.NewTextMessage(ai.RoleUser, "hello"),
	}

	req := requestToChatCompletion(messages, "gpt-4", true)

	if len(req.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != "system" || req.Messages[0].Content != "be brief" {
		t.Errorf("unexpected system message: %+v", req.Messages[0])
	}
	if !req.Stream {
		t.Error("expected stream true")
	}
}

func TestChatCompletionToMessage(t *testing.T) {
	response := chatCompletionResponse{
		Model: "gpt-4",
		Choices: []chatChoice{
			{Message: chatMessage{Role: "assistant", Content: "answer"}, FinishReason: "stop"},
		},
		Usage: &chatUsage{PromptTokens: 3, CompletionTokens: 1, TotalTokens: 4},
	}

	message := chatCompletionToMessage(response)

	if message.Role != ai.RoleAssistant {
		t.Errorf("expected assistant role, got %q", message.Role)
	}
	if message.Text() != "answer" {
		t.Errorf("expected 'answer', got %q", message.Text())
	}
	if message.Metadata.Model != "gpt-4" || message.Metadata.Provider != ai.ProviderOpenAI {
		t.Errorf("unexpected metadata: %+v", message.Metadata)
	}
	if message.Metadata.Usage.TotalTokens != 4 {
		t.Errorf("unexpected usage: %+v", message.Metadata.Usage)
	}
}

func TestChatCompletionToMessage_EmptyContent(t *testing.T) {
	response := chatCompletionResponse{
		Choices: []chatChoice{{Message: chatMessage{Role: "assistant"}}},
	}

	message := chatCompletionToMessage(response)

	if len(message.Content) != 0 {
		t.Errorf("expected no content parts, got %v", message.Content)
	}
}
