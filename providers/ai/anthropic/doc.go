// Package anthropic implements [ai.Provider] for Anthropic's Messages API,
// including SSE streaming. The conversion layer maps the provider-agnostic
// message model onto the Messages wire schema and back; response
// classification follows the shared policy in internal/utils.
package anthropic
