package anthropic

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aegisdev/aegis/internal/utils"
	"github.com/aegisdev/aegis/providers/ai"
)

const (
	// defaultBaseURL is the canonical base URL for Anthropic's Messages API.
	defaultBaseURL = "https://api.anthropic.com/v1"

	// messagesEndpoint is the path for the Messages API endpoint.
	messagesEndpoint = "/messages"

	// anthropicVersion is the required anthropic-version header value.
	// Anthropic uses this to version-lock response formats independently of the URL.
	anthropicVersion = "2023-06-01"

	// defaultMaxTokens is sent on every request; Anthropic requires max_tokens.
	defaultMaxTokens = 4096
)

// availableModels lists the model identifiers this provider serves; the
// first entry is the default used when no override is configured.
var availableModels = []string{
	"claude-3-sonnet-20240229",
	"claude-3-opus-20240229",
	"claude-3-haiku-20240307",
}

// AnthropicProvider implements [ai.Provider] for Anthropic's Messages API.
// It holds no per-conversation state, so one instance is safe to share
// across concurrent requests. Use [New] to construct a ready-to-use instance.
type AnthropicProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// New returns an AnthropicProvider authenticating with apiKey against the
// canonical endpoint, using the default model. Use the With* methods to
// override the model, endpoint, or HTTP client.
func New(apiKey string) *AnthropicProvider {
	return &AnthropicProvider{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   availableModels[0],
		client:  &http.Client{},
	}
}

// WithAPIKey replaces the API key and returns the provider so calls can be chained.
func (p *AnthropicProvider) WithAPIKey(apiKey string) *AnthropicProvider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL overrides the API base URL and returns the provider so calls
// can be chained. Use this when targeting a proxy or local testing endpoint.
func (p *AnthropicProvider) WithBaseURL(baseURL string) *AnthropicProvider {
	p.baseURL = baseURL
	return p
}

// WithModel overrides the default model and returns the provider so calls can be chained.
func (p *AnthropicProvider) WithModel(model string) *AnthropicProvider {
	p.model = model
	return p
}

// WithHTTPClient replaces the default [http.Client] and returns the provider
// so calls can be chained. Useful for injecting custom timeouts or transports.
func (p *AnthropicProvider) WithHTTPClient(httpClient *http.Client) *AnthropicProvider {
	p.client = httpClient
	return p
}

// Type implements [ai.Provider].
func (p *AnthropicProvider) Type() ai.ProviderType {
	return ai.ProviderAnthropic
}

// Capabilities implements [ai.Provider]. Anthropic accepts both text and
// image content parts.
func (p *AnthropicProvider) Capabilities() ai.Capabilities {
	return ai.Capabilities{
		Streaming:             true,
		MaxTokens:             defaultMaxTokens,
		SupportedContentTypes: []string{"text", "image"},
		Models:                availableModels,
	}
}

// buildHeaders constructs the headers required for every Anthropic request.
// x-api-key carries the credential (Anthropic does not use Bearer tokens) and
// anthropic-version pins the wire format.
func (p *AnthropicProvider) buildHeaders() []utils.HeaderOption {
	return []utils.HeaderOption{
		{Key: "x-api-key", Value: p.apiKey},
		{Key: "anthropic-version", Value: anthropicVersion},
	}
}

// errorDetail parses Anthropic's error body {"error":{"type","message"}} into
// a diagnostic string. Returns "" when the body does not match that schema so
// the shared classifier falls back to raw status and body text.
func errorDetail(body []byte) string {
	var errResp anthropicErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return ""
	}
	if errResp.Error.Type == "" && errResp.Error.Message == "" {
		return ""
	}
	return "type: " + errResp.Error.Type + ", message: " + errResp.Error.Message
}

// SendMessage implements [ai.Provider] by posting the conversation to the
// Messages API and mapping the full response back to the generic model.
func (p *AnthropicProvider) SendMessage(ctx context.Context, messages []ai.Message) (*ai.Message, error) {
	if p.apiKey == "" {
		return nil, ai.ErrInvalidAPIKey
	}

	request := requestToAnthropic(messages, p.model, false)

	slog.Debug("sending request to Anthropic",
		"model", request.Model,
		"messages", len(request.Messages),
	)

	response, err := utils.DoPostSync[anthropicResponse](
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

	result := anthropicToMessage(*response)

	// Anthropic usually echoes the model name; fall back to the request
	// model so callers always have a non-empty Model field.
	if result.Metadata.Model == "" {
		result.Metadata.Model = request.Model
	}

	return result, nil
}
