package openai

import "encoding/json"

/*
	CHAT COMPLETIONS API - REQUEST TYPES
*/

// chatCompletionRequest is the /v1/chat/completions request body.
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream,omitempty"`
}

// chatMessage is one conversation turn on the wire. Chat completions carries
// content as a plain string; the role vocabulary is system/user/assistant.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

/*
	CHAT COMPLETIONS API - RESPONSE TYPES
*/

// chatCompletionResponse is the non-streaming success body.
type chatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage,omitempty"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// chatUsage reports token consumption with OpenAI's field names.
type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// chatErrorResponse is the error body: {"error":{"message","type"}}.
type chatErrorResponse struct {
	Error chatError `json:"error"`
}

type chatError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

/*
	CHAT COMPLETIONS - SSE STREAMING TYPES

	Streaming responses arrive as SSE frames whose payload is a
	chat.completion.chunk object; the stream ends with a [DONE] sentinel
	(handled by the SSE scanner).
*/

// chatCompletionChunk is one streaming chunk.
type chatCompletionChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"` // "chat.completion.chunk"
	Model   string        `json:"model"`
	Choices []chunkChoice `json:"choices"`
}

type chunkChoice struct {
	Index        int        `json:"index"`
	Delta        chunkDelta `json:"delta"`
	FinishReason *string    `json:"finish_reason"`
}

// chunkDelta carries the incremental piece of the assistant message. Role is
// present only on the first chunk; Content may be empty on bookkeeping chunks.
type chunkDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// unmarshalChunk parses an SSE JSON payload into a chatCompletionChunk.
func unmarshalChunk(payload string) (*chatCompletionChunk, error) {
	var chunk chatCompletionChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return nil, err
	}
	return &chunk, nil
}
