package ai

import "strings"

/*
	##### CONVERSATION MODEL #####
*/

// Role identifies who produced a message; compatible with string.
type Role string

const (
	RoleSystem    Role = "system"    // System instructions/configuration
	RoleUser      Role = "user"      // End-user message
	RoleAssistant Role = "assistant" // Model response
)

// ProviderType identifies a concrete backend. It is used as the lookup key
// when resolving a configured provider; equality is plain string equality.
type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
)

// ContentPart is one typed unit of message content. The model is deliberately
// open: providers ignore part kinds they cannot marshal (a documented
// capability loss, not an error), but must never drop parts when converting a
// backend response back into this model.
type ContentPart interface {
	// part marks implementing types; it keeps the set of content kinds
	// local to this package so conversion layers can switch exhaustively.
	part()
}

// TextPart is plain text content.
type TextPart struct {
	Text string `json:"text"`
}

// ImagePart references an image by URL.
type ImagePart struct {
	ImageURL string `json:"image_url"`
}

func (TextPart) part()  {}
func (ImagePart) part() {}

// Usage reports token consumption for a single completed request.
// TotalTokens is always PromptTokens + CompletionTokens.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Metadata is attached only to assistant messages produced by a provider.
// It records which backend and model actually served the request, plus token
// accounting when the backend reported it.
type Metadata struct {
	Model    string       `json:"model,omitempty"`
	Provider ProviderType `json:"provider,omitempty"`
	Usage    *Usage       `json:"usage,omitempty"`
}

// Message is a single conversational turn. Messages are immutable once
// constructed: a new Message is built for every turn, and providers only read
// them. Metadata is nil on caller-constructed messages and on streaming
// fragments; it is populated on complete assistant replies.
type Message struct {
	Role     Role          `json:"role"`
	Content  []ContentPart `json:"content"`
	Metadata *Metadata     `json:"metadata,omitempty"`
}

// NewTextMessage builds a single-part text message, the common case for both
// user input and test fixtures.
func NewTextMessage(role Role, text string) Message {
	return Message{
		Role:    role,
		Content: []ContentPart{TextPart{Text: text}},
	}
}

// Text flattens the message content into one display string by concatenating
// all text parts in order. Non-text parts are ignored, so the projection is
// lossy: it exists for human-readable display only and must never be
// re-serialized back to a provider.
func (m Message) Text() string {
	var sb strings.Builder
	for _, p := range m.Content {
		if t, ok := p.(TextPart); ok {
			sb.WriteString(t.Text)
		}
	}
	return sb.String()
}

// Capabilities is the static descriptor each provider reports: whether it
// streams, its output token ceiling, which content part kinds it can marshal,
// and the models it serves. Models[0] is the default model.
type Capabilities struct {
	Streaming             bool     `json:"streaming"`
	MaxTokens             int      `json:"max_tokens"`
	SupportedContentTypes []string `json:"supported_content_types"`
	Models                []string `json:"models"`
}

// DefaultModel returns Models[0], or the empty string when the provider
// reports no models.
func (c Capabilities) DefaultModel() string {
	if len(c.Models) == 0 {
		return ""
	}
	return c.Models[0]
}
