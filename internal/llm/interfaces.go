package llm

import (
	"context"
	"errors"
	"fmt"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrNoChoices is returned when the upstream answered without any candidate.
var ErrNoChoices = errors.New("no choices found")

type Message struct {
	Role         string `json:"role"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
}

type CompletionRequest struct {
	Messages  []Message
	Model     string
	MaxTokens int
}

// StreamChunk is one element of a completion stream. A stream carries content
// chunks followed by exactly one terminal chunk, either Done or Err, and is
// then closed.
type StreamChunk struct {
	Content string
	Done    bool
	Err     error
}

type AIProvider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, req CompletionRequest) (Message, error)
	StreamComplete(ctx context.Context, req CompletionRequest) (<-chan StreamChunk, error)
}

// UpstreamError wraps a failure reported by a provider SDK.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// send delivers a chunk unless ctx is done first.
func send(ctx context.Context, chunks chan<- StreamChunk, chunk StreamChunk) bool {
	select {
	case chunks <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

// splitSystem separates system messages from the conversation for SDKs that
// take the system prompt out of band.
func splitSystem(messages []Message) (string, []Message) {
	var system string
	var rest []Message
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
			continue
		}
		rest = append(rest, msg)
	}
	return system, rest
}
