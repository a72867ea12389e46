package chatbot

import (
	"context"
	"testing"
	"time"

	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamRun(t *testing.T) {
	t.Run("closed upstream without terminal chunk is incomplete", func(t *testing.T) {
		upstream := make(chan llm.StreamChunk)
		close(upstream)

		ctx, cancel := context.WithCancel(context.Background())
		stream := newStream("chat-1", cancel)
		go stream.run(ctx, upstream)

		assert.Empty(t, readAll(t, stream))
		assert.ErrorIs(t, stream.Err(), ErrIncompleteStream)
	})

	// Both the closed upstream and the ended context are ready when run
	// selects; the context error must win either way.
	t.Run("context error wins over a closed upstream", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			upstream := make(chan llm.StreamChunk)
			close(upstream)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			stream := newStream("chat-1", cancel)
			go stream.run(ctx, upstream)

			readAll(t, stream)
			require.ErrorIs(t, stream.Err(), context.Canceled, "iteration %d", i)
		}
	})

	t.Run("deadline is reported when the provider closes on timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		upstream := make(chan llm.StreamChunk)
		go func() {
			<-ctx.Done()
			close(upstream)
		}()

		stream := newStream("chat-1", cancel)
		go stream.run(ctx, upstream)

		readAll(t, stream)
		assert.ErrorIs(t, stream.Err(), context.DeadlineExceeded)
	})
}
