// Package ai defines the shared, provider-agnostic types and interfaces used
// across all LLM provider implementations (Anthropic, OpenAI). Each provider's
// conversion layer is responsible for mapping these types to its own wire
// format, keeping the rest of the codebase decoupled from provider-specific
// details.
//
// The central interface is [Provider], covering identity, static
// [Capabilities], synchronous completion via SendMessage, and SSE-based
// streaming via StreamMessage. Conversations are expressed as ordered
// [Message] values whose content is a sequence of typed parts ([TextPart],
// [ImagePart]). Streaming responses are delivered through [MessageStream].
//
// All failures surface as one of the closed error kinds declared in this
// package: [ErrProviderNotFound], [ErrRateLimitExceeded], [ErrInvalidAPIKey],
// [APIError], and [NetworkError]. No kind is retried by this layer.
package ai
