// Package aegis is a unifying client layer over multiple conversational-AI
// HTTP backends. Callers send a provider-agnostic conversation and receive
// either a single completed reply or an incrementally-delivered stream of
// partial replies, without knowing the wire format of the underlying backend.
//
// The [Aegis] gateway holds the set of providers built from available
// credentials and dispatches by [ai.ProviderType]. It performs no retries,
// no provider fallback, and no request modification; every failure is one of
// the closed error kinds in the providers/ai package.
package aegis

import (
	"context"

	"github.com/aegisdev/aegis/providers/ai"
	"github.com/aegisdev/aegis/providers/ai/anthropic"
	"github.com/aegisdev/aegis/providers/ai/openai"
)

// Aegis resolves a requested provider identity to a configured provider and
// forwards calls unchanged. It is read-only after construction and safe to
// share across concurrently-executing requests.
type Aegis struct {
	providers []ai.Provider
}

// New builds a gateway from the given configuration. A provider is
// constructed only when its credential is present; a missing credential
// simply omits that provider, it is not an error.
func New(config Config) *Aegis {
	var providers []ai.Provider

	if config.AnthropicAPIKey != "" {
		providers = append(providers, anthropic.New(config.AnthropicAPIKey))
	}
	if config.OpenAIAPIKey != "" {
		providers = append(providers, openai.New(config.OpenAIAPIKey))
	}

	return &Aegis{providers: providers}
}

// NewWithProviders builds a gateway from pre-constructed providers. Use this
// to inject providers with overridden models, endpoints, or HTTP clients.
func NewWithProviders(providers ...ai.Provider) *Aegis {
	return &Aegis{providers: providers}
}

// Providers returns the identities of the configured providers, in
// construction order.
func (a *Aegis) Providers() []ai.ProviderType {
	types := make([]ai.ProviderType, 0, len(a.providers))
	for _, provider := range a.providers {
		types = append(types, provider.Type())
	}
	return types
}

// SendMessage resolves providerType and forwards the conversation for a
// synchronous completion.
func (a *Aegis) SendMessage(ctx context.Context, providerType ai.ProviderType, messages []ai.Message) (*ai.Message, error) {
	provider, err := a.resolve(providerType)
	if err != nil {
		return nil, err
	}
	return provider.SendMessage(ctx, messages)
}

// StreamMessage resolves providerType and forwards the conversation for a
// streaming completion.
func (a *Aegis) StreamMessage(ctx context.Context, providerType ai.ProviderType, messages []ai.Message) (*ai.MessageStream, error) {
	provider, err := a.resolve(providerType)
	if err != nil {
		return nil, err
	}
	return provider.StreamMessage(ctx, messages)
}

// Capabilities returns the static descriptor of the requested provider.
func (a *Aegis) Capabilities(providerType ai.ProviderType) (ai.Capabilities, error) {
	provider, err := a.resolve(providerType)
	if err != nil {
		return ai.Capabilities{}, err
	}
	return provider.Capabilities(), nil
}

// resolve performs a linear lookup by provider identity.
func (a *Aegis) resolve(providerType ai.ProviderType) (ai.Provider, error) {
	for _, provider := range a.providers {
		if provider.Type() == providerType {
			return provider, nil
		}
	}
	return nil, ai.ErrProviderNotFound
}
