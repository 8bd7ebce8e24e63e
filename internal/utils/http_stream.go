package utils

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aegisdev/aegis/providers/ai"
)

// DoPostStream performs an HTTP POST request and returns the raw response
// with the body left open for SSE reading. The caller owns the body and must
// close it when done; abandoning the read and closing the body is how a
// consumer cancels a stream.
//
// Classification is identical to [DoPostSync]: transport failures are
// *ai.NetworkError and non-200 statuses are classified via [ClassifyStatus]
// after reading and closing the error body. Only a 200 response is returned
// open.
func DoPostStream(ctx context.Context, client *http.Client, url string, body any, errorDetail ErrorDetailFunc, headers ...HeaderOption) (*http.Response, error) {
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
	req.Header.Set("Accept", "text/event-stream")
	for _, header := range headers {
		req.Header.Set(header.Key, header.Value)
	}

	response, err := httpClient.Do(req)
	if err != nil {
		return nil, &ai.NetworkError{Err: err}
	}

	if response.StatusCode != http.StatusOK {
		defer CloseWithLog(response.Body)
		errorBody, readErr := io.ReadAll(io.LimitReader(response.Body, maxResponseBodySize))
		if readErr != nil {
			return nil, &ai.NetworkError{Err: fmt.Errorf("reading error body (status %s): %w", response.Status, readErr)}
		}
		return nil, ClassifyStatus(response.StatusCode, response.Status, errorBody, errorDetail)
	}

	return response, nil
}

// maxSSELineSize is the maximum size of a single SSE line (1 MB). The default
// bufio.Scanner limit is 64 KiB, which is too small for large SSE events such
// as long completions. If a line exceeds this limit the scanner returns a
// wrapped bufio.ErrTooLong via the Next() error path.
const maxSSELineSize = 1 * 1024 * 1024

// SSEScanner reads Server-Sent-Event frames from an io.Reader incrementally:
// it never buffers the whole body and tolerates frames split across chunk
// boundaries (bufio handles reassembly at line granularity). It handles
// multi-line data fields, skips comments and empty lines, and detects the
// [DONE] sentinel used by OpenAI-compatible APIs.
type SSEScanner struct {
	scanner *bufio.Scanner
}

// NewSSEScanner creates an SSEScanner reading from reader.
func NewSSEScanner(reader io.Reader) *SSEScanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSSELineSize)
	return &SSEScanner{scanner: scanner}
}

// Next returns the next SSE data payload.
// It skips empty lines, comment lines (starting with ':'), and non-data
// fields (event:, id:, retry:). Multiple consecutive "data:" lines belonging
// to one event are joined with newlines into a single payload.
// Returns io.EOF when the stream ends or the [DONE] sentinel is read.
func (s *SSEScanner) Next() (string, error) {
	var dataLines []string

	for s.scanner.Scan() {
		line := s.scanner.Text()

		// Empty line signals end of an event; flush accumulated data lines.
		if line == "" {
			if len(dataLines) > 0 {
				return strings.Join(dataLines, "\n"), nil
			}
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		if strings.HasPrefix(line, "data:") {
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))

			if data == "[DONE]" {
				return "", io.EOF
			}

			dataLines = append(dataLines, data)
			continue
		}

		// Other SSE fields (event:, id:, retry:) carry no payload here; the
		// JSON payload's own type field discriminates events.
	}

	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("SSE scanner error: %w", err)
	}

	// Flush any trailing data lines when the stream ends without a final blank line.
	if len(dataLines) > 0 {
		return strings.Join(dataLines, "\n"), nil
	}

	return "", io.EOF
}
