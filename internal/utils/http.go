package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aegisdev/aegis/providers/ai"
)

// maxResponseBodySize caps response body reads (10 MB). Enforced via
// io.LimitReader to prevent unbounded memory allocation from rogue responses.
const maxResponseBodySize int64 = 10 * 1024 * 1024

// HeaderOption is a single HTTP header to set on an outgoing request.
// Providers use these to carry their backend-specific auth and versioning
// headers (x-api-key, anthropic-version, Authorization, ...).
type HeaderOption struct {
	Key   string
	Value string
}

// ErrorDetailFunc extracts a human-readable diagnostic from a backend's error
// response body. Implementations return the empty string when the body does
// not match the backend's error schema, in which case the classifier falls
// back to the raw status and body text. This is the only piece of the
// response-classification algorithm that differs between backends.
type ErrorDetailFunc func(body []byte) string

// ClassifyStatus maps a non-200 HTTP response onto the shared error taxonomy.
// The precedence is fixed and identical for every provider:
//
//	429 → ai.ErrRateLimitExceeded
//	401 → ai.ErrInvalidAPIKey
//	anything else → *ai.APIError carrying the backend's own diagnostic when
//	errorDetail can parse the body, otherwise the raw status and body text.
func ClassifyStatus(statusCode int, status string, body []byte, errorDetail ErrorDetailFunc) error {
	switch statusCode {
	case http.StatusTooManyRequests:
		return ai.ErrRateLimitExceeded
	case http.StatusUnauthorized:
		return ai.ErrInvalidAPIKey
	}

	if errorDetail != nil {
		if detail := errorDetail(body); detail != "" {
			return &ai.APIError{Detail: detail}
		}
	}
	return &ai.APIError{Detail: fmt.Sprintf("status: %s, body: %s", status, TruncateString(string(body), DefaultMaxStringLength))}
}

// DoPostSync performs a synchronous HTTP POST with a JSON body and classifies
// the response. On 200 it decodes the body into Output; a 200 body that fails
// to decode is an *ai.APIError carrying the parse diagnostic, never a success.
// Transport failures (request could not be sent, body could not be read) are
// *ai.NetworkError. All other statuses go through [ClassifyStatus].
//
// The response body is always closed before returning; a close failure is
// logged and never overrides the primary result.
func DoPostSync[Output any](ctx context.Context, client *http.Client, url string, body any, errorDetail ErrorDetailFunc, headers ...HeaderOption) (*Output, error) {
	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("error marshaling body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for _, header := range headers {
		req.Header.Set(header.Key, header.Value)
	}

	res, err := httpClient.Do(req)
	if err != nil {
		return nil, &ai.NetworkError{Err: err}
	}
	defer CloseWithLog(res.Body)

	respBody, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBodySize))
	if err != nil {
		return nil, &ai.NetworkError{Err: fmt.Errorf("reading response body: %w", err)}
	}

	if res.StatusCode != http.StatusOK {
		return nil, ClassifyStatus(res.StatusCode, res.Status, respBody, errorDetail)
	}

	var out Output
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, &ai.APIError{Detail: fmt.Sprintf("decoding response body: %v (body preview: %s)", err, TruncateString(string(respBody), DefaultMaxStringLength))}
	}

	return &out, nil
}

// CloseWithLog closes c and logs a warning on failure. It exists for defer
// sites where a close error must not override the primary error path.
func CloseWithLog(c io.Closer) {
	if err := c.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}
