package aegis

import (
	"os"

	"github.com/joho/godotenv"
)

// Config carries the opaque API-key strings the gateway needs at construction
// time. An empty key means "backend not configured".
type Config struct {
	AnthropicAPIKey string
	OpenAIAPIKey    string
}

// WithAnthropic sets the Anthropic credential and returns the updated config.
func (c Config) WithAnthropic(key string) Config {
	c.AnthropicAPIKey = key
	return c
}

// WithOpenAI sets the OpenAI credential and returns the updated config.
func (c Config) WithOpenAI(key string) Config {
	c.OpenAIAPIKey = key
	return c
}

// IsEmpty reports whether no backend is configured.
func (c Config) IsEmpty() bool {
	return c.AnthropicAPIKey == "" && c.OpenAIAPIKey == ""
}

// LoadConfig reads credentials from a .env file (when present) and the
// process environment. A missing .env file is not an error; the environment
// alone is enough.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
	}
}
