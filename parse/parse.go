package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aegisdev/aegis/providers/ai"
	"github.com/kaptinlin/jsonrepair"
)

// As parses content into T. It first tries plain JSON unmarshaling; when that
// fails it strips a surrounding markdown code fence, attempts automatic JSON
// repair, and retries. Returns an error only after all recovery attempts fail.
func As[T any](content string) (T, error) {
	var result T

	candidate := stripCodeFence(content)

	if err := json.Unmarshal([]byte(candidate), &result); err == nil {
		return result, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(candidate)
	if repairErr != nil {
		return result, fmt.Errorf("content is not valid JSON and could not be repaired: %w", repairErr)
	}

	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return result, fmt.Errorf("failed to unmarshal repaired JSON as %T: %w", result, err)
	}
	return result, nil
}

// Reply parses the flattened text of an assistant message into T.
// It is a convenience wrapper around [As] and [ai.Message.Text].
func Reply[T any](message ai.Message) (T, error) {
	return As[T](message.Text())
}

// stripCodeFence removes a surrounding markdown code fence (``` or ```json)
// when the whole content is fenced; otherwise it returns the trimmed content
// unchanged.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	// Drop an optional language tag on the opening fence line.
	if newline := strings.IndexByte(trimmed, '\n'); newline >= 0 {
		firstLine := strings.TrimSpace(trimmed[:newline])
		if firstLine == "" || !strings.ContainsAny(firstLine, "{[\"") {
			trimmed = trimmed[newline+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
