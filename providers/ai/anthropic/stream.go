package anthropic

import (
	"context"
	"fmt"
	"io"

	"github.com/aegisdev/aegis/internal/utils"
	"github.com/aegisdev/aegis/providers/ai"
)

// StreamMessage implements [ai.Provider] streaming for the Messages API.
// It sends a request with stream=true and returns a [ai.MessageStream] that
// yields one text fragment per content_block_delta as SSE frames arrive.
//
// Pre-stream failures (missing API key, non-200 response, network failure)
// are returned immediately. Mid-stream failures (Anthropic "error" event,
// SSE parse failure, transport drop) are yielded through the iterator as its
// final element.
//
// Anthropic SSE lifecycle:
//
//	message_start → content_block_start → content_block_delta(s) →
//	content_block_stop → message_delta → message_stop
//
// Every event other than a text-carrying content_block_delta yields nothing:
// stream bookkeeping and keep-alive pings are not fragments.
func (p *AnthropicProvider) StreamMessage(ctx context.Context, messages []ai.Message) (*ai.MessageStream, error) {
	if p.apiKey == "" {
		return nil, ai.ErrInvalidAPIKey
	}

	request := requestToAnthropic(messages, p.model, true)

	httpResponse, err := utils.DoPostStream(
		ctx,
		p.client,
		p.baseURL+messagesEndpoint,
		request,
		errorDetail,
		p.buildHeaders()...,
	)
	if err != nil {
		return nil, err
	}

	sseScanner := utils.NewSSEScanner(httpResponse.Body)

	iteratorFunc := func(yield func(ai.Message, error) bool) {
		// Close the response body when the iterator is exhausted or the
		// caller breaks out of the loop early; this is what tears down the
		// connection on abandonment.
		defer utils.CloseWithLog(httpResponse.Body)

		for {
			// Respect context cancellation between SSE reads.
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

			event, parseErr := unmarshalStreamEvent(payload)
			if parseErr != nil {
				// A malformed frame is skipped, not fatal: the transport is
				// still healthy and later frames may decode fine.
				continue
			}

			switch event.Type {
			case "content_block_delta":
				if event.Delta == nil || event.Delta.Type != "text_delta" || event.Delta.Text == "" {
					continue
				}
				fragment := ai.Message{
					Role:    ai.RoleAssistant,
					Content: []ai.ContentPart{ai.TextPart{Text: event.Delta.Text}},
				}
				if !yield(fragment, nil) {
					return
				}

			case "message_stop":
				return

			case "error":
				// Server-side failure mid-stream; surface it as the final element.
				errMsg := "unknown stream error"
				if event.Error != nil {
					errMsg = fmt.Sprintf("type: %s, message: %s", event.Error.Type, event.Error.Message)
				}
				yield(ai.Message{}, &ai.APIError{Detail: errMsg})
				return

			default:
				// message_start, content_block_start, content_block_stop,
				// message_delta, ping, and future event types yield nothing.
			}
		}
	}

	return ai.NewMessageStream(iteratorFunc), nil
}
