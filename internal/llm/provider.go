// Package llm provides the chat completion providers and the
// primary-to-fallback dispatcher.
package llm

import "context"

// Delta is one frame of a provider response stream: either a content
// chunk or the terminal marker. Err is set on the terminal frame when
// the provider failed.
type Delta struct {
	Content string
	Done    bool
	Err     error
}

// Stream yields ordered response deltas terminated by a single Done
// frame. It is consumed by exactly one accumulator loop.
type Stream struct {
	ch chan Delta
}

func newStream() *Stream {
	return &Stream{ch: make(chan Delta, 16)}
}

// Deltas returns the frame channel. The channel is closed after the
// terminal frame.
func (s *Stream) Deltas() <-chan Delta {
	return s.ch
}

func (s *Stream) push(content string) {
	s.ch <- Delta{Content: content}
}

func (s *Stream) finish(err error) {
	s.ch <- Delta{Done: true, Err: err}
	close(s.ch)
}

// Collect drains the stream into a single string, returning the
// terminal error if any. Intended for one-shot (non-interactive) use.
func (s *Stream) Collect() (string, error) {
	var buf []byte
	for d := range s.ch {
		if d.Done {
			return string(buf), d.Err
		}
		buf = append(buf, d.Content...)
	}
	return string(buf), nil
}

// Provider is one chat completion backend. Stream sends the prompt and
// returns immediately; frames arrive on the returned stream.
type Provider interface {
	Name() string
	Stream(ctx context.Context, systemPrompt, userPrompt string) *Stream
}
