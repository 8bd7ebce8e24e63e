// Package openai implements [ai.Provider] for OpenAI's chat completions API,
// including SSE streaming. The chat completions schema carries message
// content as a plain string, so image parts are dropped when marshalling
// outbound (a documented capability loss).
package openai
