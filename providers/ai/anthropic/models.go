package anthropic

import (
	"encoding/json"
	"fmt"
)

/*
	ANTHROPIC MESSAGES API - REQUEST TYPES
*/

// anthropicRequest is the request body for Anthropic's Messages API.
type anthropicRequest struct {
	Model     string             `json:"model"`
	Messages  []anthropicMessage `json:"messages"`
	System    string             `json:"system,omitempty"`
	MaxTokens int                `json:"max_tokens"` // Required by Anthropic on every request
	Stream    bool               `json:"stream,omitempty"`
}

// anthropicMessage is a single conversation turn on the wire. Anthropic's
// role vocabulary is "user" and "assistant" only; system instructions travel
// in the request-level System field.
type anthropicMessage struct {
	Role    string                  `json:"role"`
	Content []anthropicContentBlock `json:"content"`
}

// anthropicContentBlock is a discriminated union via the Type field:
//   - "text": Text is populated
//   - "image": Source is populated
type anthropicContentBlock struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

// anthropicSource references image content by URL.
type anthropicSource struct {
	Type string `json:"type"` // "url"
	URL  string `json:"url,omitempty"`
}

/*
	ANTHROPIC MESSAGES API - RESPONSE TYPES
*/

// anthropicResponse is the non-streaming success body.
type anthropicResponse struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"` // "message"
	Role       string                 `json:"role"` // "assistant"
	Content    []responseContentBlock `json:"content"`
	Model      string                 `json:"model"`
	StopReason string                 `json:"stop_reason"`
	Usage      *anthropicUsage        `json:"usage,omitempty"`
}

// responseContentBlock is a content block in the response. Unknown Type
// values are skipped during conversion for forward-compatibility.
type responseContentBlock struct {
	Type string `json:"type"` // "text"
	Text string `json:"text,omitempty"`
}

// anthropicUsage reports token consumption with Anthropic's field names.
type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// anthropicErrorResponse is the error body: {"error":{"type","message"}}.
type anthropicErrorResponse struct {
	Error anthropicError `json:"error"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

/*
	ANTHROPIC SSE STREAMING - WIRE TYPES

	Anthropic streaming uses SSE frames whose JSON payload carries a "type"
	discriminator. Event lifecycle:
	  message_start → content_block_start → content_block_delta(s) →
	  content_block_stop → message_delta → message_stop
	plus keep-alive "ping" and server-side "error" events.
*/

// anthropicStreamEvent is the top-level envelope for all Anthropic SSE events.
type anthropicStreamEvent struct {
	Type  string          `json:"type"`
	Delta *streamDelta    `json:"delta,omitempty"` // For "content_block_delta"
	Error *anthropicError `json:"error,omitempty"` // For "error" events
}

// streamDelta carries incremental content within a content_block_delta event.
// Only "text_delta" populates Text; other delta kinds are skipped.
type streamDelta struct {
	Type string `json:"type,omitempty"` // "text_delta"
	Text string `json:"text,omitempty"`
}

// unmarshalStreamEvent parses an SSE JSON payload into an anthropicStreamEvent.
// Returns an error if the JSON is invalid or the type field is missing.
func unmarshalStreamEvent(payload string) (*anthropicStreamEvent, error) {
	var event anthropicStreamEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return nil, err
	}
	if event.Type == "" {
		return nil, fmt.Errorf("missing type field in stream event")
	}
	return &event, nil
}
