package chatbot

import (
	"context"
	"sync"
	"time"

	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/config"
	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/llm"
	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/search"
)

type fakeProvider struct {
	mu       sync.Mutex
	requests []llm.CompletionRequest

	reply     llm.Message
	err       error
	streamErr error
	chunks    []llm.StreamChunk
	// block makes calls wait for ctx to end. Streams then stay open until
	// release is closed so the consumer only observes the context.
	block   bool
	release chan struct{}
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{release: make(chan struct{})}
}

func (p *fakeProvider) Name() string  { return "fake" }
func (p *fakeProvider) Model() string { return "fake-1" }

func (p *fakeProvider) record(req llm.CompletionRequest) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
}

func (p *fakeProvider) Requests() []llm.CompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]llm.CompletionRequest(nil), p.requests...)
}

func (p *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (llm.Message, error) {
	p.record(req)
	if p.block {
		<-ctx.Done()
		return llm.Message{}, &llm.UpstreamError{Provider: p.Name(), Err: ctx.Err()}
	}
	return p.reply, p.err
}

func (p *fakeProvider) StreamComplete(ctx context.Context, req llm.CompletionRequest) (<-chan llm.StreamChunk, error) {
	p.record(req)
	if p.streamErr != nil {
		return nil, p.streamErr
	}

	ch := make(chan llm.StreamChunk)
	go func() {
		defer close(ch)
		for _, chunk := range p.chunks {
			select {
			case ch <- chunk:
			case <-ctx.Done():
				return
			}
		}
		if p.block {
			<-ctx.Done()
			<-p.release
		}
	}()
	return ch, nil
}

type fakeSearcher struct {
	resources []search.Resource
	err       error
	keywords  []string
}

func (s *fakeSearcher) Search(_ context.Context, keywords []string) ([]search.Resource, error) {
	s.keywords = keywords
	return s.resources, s.err
}

func testChatConfig() config.ChatConfig {
	return config.ChatConfig{
		Timeout:          5 * time.Second,
		MaxMessageLength: 100,
	}
}

func textChunks(parts ...string) []llm.StreamChunk {
	chunks := make([]llm.StreamChunk, 0, len(parts)+1)
	for _, part := range parts {
		chunks = append(chunks, llm.StreamChunk{Content: part})
	}
	return append(chunks, llm.StreamChunk{Done: true})
}
