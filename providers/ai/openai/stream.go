package openai

import (
	"context"
	"io"

	"github.com/aegisdev/aegis/internal/utils"
	"github.com/aegisdev/aegis/providers/ai"
)

// StreamMessage implements [ai.Provider] streaming for the chat completions
// endpoint. It sends a request with stream=true and returns a
// [ai.MessageStream] yielding one text fragment per non-empty chunk delta.
// The stream ends at the [DONE] sentinel (detected by the SSE scanner) or
// when the connection closes.
//
// Pre-stream failures are returned immediately; mid-stream transport failures
// are yielded through the iterator as its final element. Chunks whose deltas
// carry no content (role-only first chunk, finish_reason bookkeeping) yield
// nothing.
func (p *OpenAIProvider) StreamMessage(ctx context.Context, messages []ai.Message) (*ai.MessageStream, error) {
	if p.apiKey == "" {
		return nil, ai.ErrInvalidAPIKey
	}

	request := requestToChatCompletion(messages, p.model, true)

	httpResponse, err := utils.DoPostStream(
		ctx,
		p.client,
		p.baseURL+chatCompletionsEndpoint,
		request,
		errorDetail,
		p.buildHeaders()...,
	)
	if err != nil {
		return nil, err
	}

	sseScanner := utils.NewSSEScanner(httpResponse.Body)

	iteratorFunc := func(yield func(ai.Message, error) bool) {
		defer utils.CloseWithLog(httpResponse.Body)

		for {
			if ctx.Err() != nil {
				yield(ai.Message{}, &ai.NetworkError{Err: ctx.Err()})
				return
			}

			payload, sseErr := sseScanner.Next()
			if sseErr == io.EOF {
				return
			}
			if sseErr != nil {
				yield(ai.Message{}, &ai.NetworkError{Err: sseErr})
				return
			}

			chunk, parseErr := unmarshalChunk(payload)
			if parseErr != nil {
				// Malformed frames are skipped; the transport is still healthy.
				continue
			}

			for _, choice := range chunk.Choices {
				if choice.Delta.Content == "" {
					continue
				}
				fragment := ai.Message{
					Role:    ai.RoleAssistant,
					Content: []ai.ContentPart{ai.TextPart{Text: choice.Delta.Content}},
				}
				if !yield(fragment, nil) {
					return
				}
			}
		}
	}

	return ai.NewMessageStream(iteratorFunc), nil
}
