package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aegisdev/aegis/internal/utils"
	"github.com/aegisdev/aegis/providers/ai"
)

const (
	defaultBaseURL          = "https://api.openai.com/v1"
	chatCompletionsEndpoint = "/chat/completions"

	// defaultTemperature and defaultMaxTokens match the fixed sampling
	// parameters this adapter sends on every request.
	defaultTemperature = 0.7
	defaultMaxTokens   = 2048
)

var availableModels = []string{
	"gpt-4-turbo-preview",
	"gpt-4",
	"gpt-3.5-turbo",
}

// OpenAIProvider implements [ai.Provider] for OpenAI's chat completions API.
// It holds no per-conversation state, so one instance is safe to share across
// concurrent requests. Use [New] to construct a ready-to-use instance.
type OpenAIProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// New returns an OpenAIProvider authenticating with apiKey against the
// canonical endpoint, using the default model.
func New(apiKey string) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   availableModels[0],
		client:  &http.Client{},
	}
}

// WithAPIKey replaces the API key and returns the provider so calls can be chained.
func (p *OpenAIProvider) WithAPIKey(apiKey string) *OpenAIProvider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL overrides the API base URL and returns the provider so calls
// can be chained. Use this when targeting a proxy or local testing endpoint.
func (p *OpenAIProvider) WithBaseURL(baseURL string) *OpenAIProvider {
	p.baseURL = baseURL
	return p
}

// WithModel overrides the default model and returns the provider so calls can be chained.
func (p *OpenAIProvider) WithModel(model string) *OpenAIProvider {
	p.model = model
	return p
}

// WithHTTPClient replaces the default [http.Client] and returns the provider
// so calls can be chained.
func (p *OpenAIProvider) WithHTTPClient(httpClient *http.Client) *OpenAIProvider {
	p.client = httpClient
	return p
}

// Type implements [ai.Provider].
func (p *OpenAIProvider) Type() ai.ProviderType {
	return ai.ProviderOpenAI
}

// Capabilities implements [ai.Provider]. Chat completions carries content as
// a plain string, so only text parts survive marshalling.
func (p *OpenAIProvider) Capabilities() ai.Capabilities {
	return ai.Capabilities{
		Streaming:             true,
		MaxTokens:             defaultMaxTokens,
		SupportedContentTypes: []string{"text"},
		Models:                availableModels,
	}
}

// buildHeaders returns the bearer-token Authorization header OpenAI expects.
func (p *OpenAIProvider) buildHeaders() []utils.HeaderOption {
	return []utils.HeaderOption{
		{Key: "Authorization", Value: "Bearer " + p.apiKey},
	}
}

// errorDetail parses OpenAI's error body {"error":{"message","type"}} into a
// diagnostic string. Returns "" when the body does not match that schema.
func errorDetail(body []byte) string {
	var errResp chatErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return ""
	}
	if errResp.Error.Type == "" && errResp.Error.Message == "" {
		return ""
	}
	return "type: " + errResp.Error.Type + ", message: " + errResp.Error.Message
}

// SendMessage implements [ai.Provider] by posting the conversation to the
// chat completions endpoint and mapping the first choice back to the generic
// model.
func (p *OpenAIProvider) SendMessage(ctx context.Context, messages []ai.Message) (*ai.Message, error) {
	if p.apiKey == "" {
		return nil, ai.ErrInvalidAPIKey
	}

	request := requestToChatCompletion(messages, p.model, false)

	slog.Debug("sending request to OpenAI",
		"model", request.Model,
		"messages", len(request.Messages),
	)

	response, err := utils.DoPostSync[chatCompletionResponse](
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

	if len(response.Choices) == 0 {
		return nil, &ai.APIError{Detail: "no choices in response"}
	}

	result := chatCompletionToMessage(*response)
	if result.Metadata.Model == "" {
		result.Metadata.Model = request.Model
	}

	return result, nil
}
