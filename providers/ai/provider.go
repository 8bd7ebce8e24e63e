package ai

import "context"

// Provider is the contract every backend implementation must satisfy. It
// covers the full lifecycle of a single request: identity, static limits,
// synchronous dispatch, and SSE streaming. Implementations are stateless
// beyond their HTTP client and credential, so a single instance is safe to
// share across concurrent requests.
type Provider interface {
	// Type returns the stable identity of the backend. Side-effect free.
	Type() ProviderType

	// Capabilities describes the provider's static limits and supported
	// content kinds. Side-effect free.
	Capabilities() Capabilities

	// SendMessage sends the conversation and blocks until one complete
	// assistant Message is produced or the failure is classified into the
	// package error taxonomy. An empty messages slice is forwarded as-is;
	// whether the backend accepts it is backend-defined.
	SendMessage(ctx context.Context, messages []Message) (*Message, error)

	// StreamMessage establishes a streaming request. Pre-stream failures
	// (auth, bad request, network) are returned synchronously as a non-nil
	// error. Otherwise the returned MessageStream lazily yields incremental
	// assistant fragments; mid-stream failures are yielded through the
	// iterator as its final element.
	StreamMessage(ctx context.Context, messages []Message) (*MessageStream, error)
}
