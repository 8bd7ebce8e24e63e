package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aegisdev/aegis/providers/ai"
)

// writeChunk emits one data frame and flushes so the client sees it immediately.
func writeChunk(t *testing.T, w http.ResponseWriter, payload string) {
	t.Helper()
	fmt.Fprintf(w, "data: %s\n\n", payload)
	w.(http.Flusher).Flush()
}

// contentChunk builds a minimal chat completions chunk carrying one delta.
func contentChunk(content string) string {
	return fmt.Sprintf(`{"id":"chatcmpl-1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":%q}}]}`, content)
}

func TestStreamMessage_Reassembly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeChunk(t, w, `{"id":"chatcmpl-1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"role":"assistant"}}]}`)
		writeChunk(t, w, contentChunk("Hello"))
		writeChunk(t, w, contentChunk(" there"))
		writeChunk(t, w, `{"id":"chatcmpl-1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`)
		writeChunk(t, w, "[DONE]")
	}))
	defer server.Close()

	provider := New("k").WithBaseURL(server.URL)

	stream, err := provider.StreamMessage(context.Background(), []ai.Message{ai.NewTextMessage(ai.RoleUser, "hi")})
	if err != nil {
		t.Fatalf("StreamMessage returned error: %v", err)
	}

	message, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if message.Text() != "Hello there" {
		t.Errorf("expected 'Hello there', got %q", message.Text())
	}
	if message.Role != ai.RoleAssistant {
		t.Errorf("expected assistant role, got %q", message.Role)
	}
}

// TestStreamMessage_NoEmptyFragments verifies role-only and finish-reason
// chunks never surface as fragments.
func TestStreamMessage_NoEmptyFragments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeChunk(t, w, `{"choices":[{"index":0,"delta":{"role":"assistant"}}]}`)
		writeChunk(t, w, contentChunk("only"))
		writeChunk(t, w, `{"choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`)
		writeChunk(t, w, "[DONE]")
	}))
	defer server.Close()

	provider := New("k").WithBaseURL(server.URL)

	stream, err := provider.StreamMessage(context.Background(), []ai.Message{ai.NewTextMessage(ai.RoleUser, "hi")})
	if err != nil {
		t.Fatalf("StreamMessage returned error: %v", err)
	}

	var fragments []ai.Message
	for fragment, iterErr := range stream.Iter() {
		if iterErr != nil {
			t.Fatalf("unexpected stream error: %v", iterErr)
		}
		fragments = append(fragments, fragment)
	}

	if len(fragments) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(fragments))
	}
	if fragments[0].Text() != "only" {
		t.Errorf("unexpected fragment text %q", fragments[0].Text())
	}
	if fragments[0].Metadata != nil {
		t.Error("fragments must not carry metadata")
	}
}

func TestStreamMessage_MalformedChunkSkipped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeChunk(t, w, contentChunk("before"))
		writeChunk(t, w, `{not valid json`)
		writeChunk(t, w, contentChunk("after"))
		writeChunk(t, w, "[DONE]")
	}))
	defer server.Close()

	provider := New("k").WithBaseURL(server.URL)

	stream, err := provider.StreamMessage(context.Background(), []ai.Message{ai.NewTextMessage(ai.RoleUser, "hi")})
	if err != nil {
		t.Fatalf("StreamMessage returned error: %v", err)
	}

	message, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if message.Text() != "beforeafter" {
		t.Errorf("expected malformed chunk skipped, got %q", message.Text())
	}
}

func TestStreamMessage_PreStreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	provider := New("k").WithBaseURL(server.URL)

	_, err := provider.StreamMessage(context.Background(), []ai.Message{ai.NewTextMessage(ai.RoleUser, "hi")})
	if !errors.Is(err, ai.ErrInvalidAPIKey) {
		t.Errorf("expected ErrInvalidAPIKey, got %v", err)
	}
}

// TestStreamMessage_AbandonClosesConnection verifies breaking out of the
// iterator releases the underlying connection.
func TestStreamMessage_AbandonClosesConnection(t *testing.T) {
	connectionClosed := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for i := 0; ; i++ {
			select {
			case <-r.Context().Done():
				close(connectionClosed)
				return
			default:
			}
			writeChunk(t, w, contentChunk(fmt.Sprintf("chunk %d ", i)))
			time.Sleep(5 * time.Millisecond)
		}
	}))
	defer server.Close()

	provider := New("k").WithBaseURL(server.URL)

	stream, err := provider.StreamMessage(context.Background(), []ai.Message{ai.NewTextMessage(ai.RoleUser, "hi")})
	if err != nil {
		t.Fatalf("StreamMessage returned error: %v", err)
	}

	for range stream.Iter() {
		break
	}

	select {
	case <-connectionClosed:
	case <-time.After(5 * time.Second):
		t.Fatal("server never observed the connection closing")
	}
}
