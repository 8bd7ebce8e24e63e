package ai

import (
	"errors"
	"testing"
)

// fragmentsOf builds a MessageStream that yields the given texts as
// assistant fragments, optionally ending with an error.
func fragmentsOf(texts []string, finalErr error) *MessageStream {
	return NewMessageStream(func(yield func(Message, error) bool) {
		for _, text := range texts {
			fragment := Message{
				Role:    RoleAssistant,
				Content: []ContentPart{TextPart{Text: text}},
			}
			if !yield(fragment, nil) {
				return
			}
		}
		if finalErr != nil {
			yield(Message{}, finalErr)
		}
	})
}

// TestCollect_ConcatenatesInOrder verifies that Collect reassembles fragment
// text in delivered order into one assistant message.
func TestCollect_ConcatenatesInOrder(t *testing.T) {
	stream := fragmentsOf([]string{"Hel", "lo ", "there"}, nil)

	message, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if message.Role != RoleAssistant {
		t.Errorf("expected assistant role, got %q", message.Role)
	}
	if message.Text() != "Hello there" {
		t.Errorf("expected 'Hello there', got %q", message.Text())
	}
	if message.Metadata != nil {
		t.Error("collected message must not fabricate metadata")
	}
}

// TestCollect_MidStreamError verifies that a mid-stream error terminates
// collection and returns the partial message alongside the error.
func TestCollect_MidStreamError(t *testing.T) {
	streamErr := &NetworkError{Err: errors.New("connection dropped")}
	stream := fragmentsOf([]string{"partial "}, streamErr)

	message, err := stream.Collect()
	if err == nil {
		t.Fatal("expected mid-stream error")
	}
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Errorf("expected *NetworkError, got %T", err)
	}
	if message.Text() != "partial " {
		t.Errorf("expected partial text 'partial ', got %q", message.Text())
	}
}

// TestIter_EarlyBreak verifies that breaking out of the range loop stops the
// iterator without consuming remaining fragments.
func TestIter_EarlyBreak(t *testing.T) {
	yielded := 0
	stream := NewMessageStream(func(yield func(Message, error) bool) {
		for i := 0; i < 100; i++ {
			yielded++
			if !yield(Message{Role: RoleAssistant, Content: []ContentPart{TextPart{Text: "x"}}}, nil) {
				return
			}
		}
	})

	seen := 0
	for range stream.Iter() {
		seen++
		if seen == 3 {
			break
		}
	}

	if seen != 3 {
		t.Errorf("expected to consume 3 fragments, got %d", seen)
	}
	if yielded != 3 {
		t.Errorf("expected producer to stop after 3 yields, got %d", yielded)
	}
}
