package ai

import (
	"iter"
	"strings"
)

// MessageStream wraps a lazy, forward-only, non-restartable sequence of
// incremental assistant fragments. Each fragment is a Message carrying only
// the newly produced content parts; Metadata is absent on fragments.
// Fragments are yielded in the exact order their underlying bytes were
// decoded, and fragments with no content are never yielded.
//
// Callers must consume the stream, either by ranging over Iter() (breaking
// out of the loop early is fine) or by calling Collect(). The provider holds
// the HTTP response body open and releases it when the iterator completes or
// is abandoned via a loop break; a MessageStream that is never iterated leaks
// that connection.
type MessageStream struct {
	iterator iter.Seq2[Message, error]
}

// NewMessageStream creates a MessageStream from a raw iterator. The iterator
// yields fragment Messages with a nil error, and may yield one final non-nil
// error to signal a mid-stream failure, after which it stops.
func NewMessageStream(iterator iter.Seq2[Message, error]) *MessageStream {
	return &MessageStream{iterator: iterator}
}

// Iter returns the underlying iterator for use with range-over-func loops.
//
//	for fragment, err := range stream.Iter() {
//	    if err != nil { handle error }
//	    fmt.Print(fragment.Text())
//	}
func (s *MessageStream) Iter() iter.Seq2[Message, error] {
	return s.iterator
}

// Collect consumes the entire stream and returns the fragments reassembled
// into one assistant Message. Concatenating fragment text in delivered order
// yields the same string a non-streaming send of the identical request would
// return. A mid-stream error terminates collection and is returned alongside
// the partial message accumulated so far.
func (s *MessageStream) Collect() (*Message, error) {
	var sb strings.Builder

	for fragment, err := range s.iterator {
		if err != nil {
			return assembled(sb.String()), err
		}
		sb.WriteString(fragment.Text())
	}

	return assembled(sb.String()), nil
}

func assembled(text string) *Message {
	return &Message{
		Role:    RoleAssistant,
		Content: []ContentPart{TextPart{Text: text}},
	}
}
