package chatbot

import (
	"context"

	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/llm"
)

// Stream delivers the chunks of one streamed reply in generation order.
// Chunks is closed exactly once; after that Err reports why: nil for a
// normal end of stream, otherwise the upstream or context error.
type Stream struct {
	ID string

	chunks chan ChatChunk
	cancel context.CancelFunc
	err    error
}

func newStream(id string, cancel context.CancelFunc) *Stream {
	return &Stream{
		ID:     id,
		chunks: make(chan ChatChunk),
		cancel: cancel,
	}
}

func (s *Stream) Chunks() <-chan ChatChunk {
	return s.chunks
}

// Cancel stops the upstream call. Chunks is closed shortly after.
func (s *Stream) Cancel() {
	s.cancel()
}

// Err must only be called after Chunks is closed.
func (s *Stream) Err() error {
	return s.err
}

// run forwards upstream chunks until the terminal chunk, an upstream error or
// ctx ends. err is written before the channel is closed.
func (s *Stream) run(ctx context.Context, upstream <-chan llm.StreamChunk) {
	defer s.cancel()
	defer close(s.chunks)

	index := 0
	for {
		select {
		case <-ctx.Done():
			s.err = ctx.Err()
			return
		case chunk, ok := <-upstream:
			if !ok {
				// Providers close without a terminal chunk when ctx ends first.
				if ctx.Err() != nil {
					s.err = ctx.Err()
				} else {
					s.err = ErrIncompleteStream
				}
				return
			}
			if chunk.Err != nil {
				s.err = chunk.Err
				return
			}
			if chunk.Done {
				return
			}
			if chunk.Content == "" {
				continue
			}

			select {
			case s.chunks <- ChatChunk{Index: index, Content: chunk.Content}:
				index++
			case <-ctx.Done():
				s.err = ctx.Err()
				return
			}
		}
	}
}
