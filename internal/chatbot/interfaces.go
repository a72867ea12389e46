package chatbot

import (
	"context"
	"errors"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	ErrEmptyMessage   = errors.New("message must not be empty")
	ErrMessageTooLong = errors.New("message is too long")
	// ErrIncompleteStream is reported when the upstream closed a stream
	// without a done or error marker.
	ErrIncompleteStream = errors.New("upstream stream ended without a terminal marker")
)

// Gateway handles one chat turn, either as a complete reply or as a stream.
type Gateway interface {
	Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Stream(ctx context.Context, req ChatRequest) (*Stream, error)
}

type ChatRequest struct {
	Message string `json:"message" jsonschema:"required,minLength=1,description=The user message for this chat turn"`
	Stream  bool   `json:"stream" jsonschema:"description=Deliver the reply as server-sent events"`
}

type ChatResponse struct {
	ID       string                              `json:"id"`
	Content  string                              `json:"content"`
	Metadata *orderedmap.OrderedMap[string, any] `json:"metadata,omitempty"`
}

type ChatChunk struct {
	Index   int    `json:"index"`
	Content string `json:"content"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// StreamResponse is the payload of one SSE event.
type StreamResponse struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
}

type Choice struct {
	Index        int    `json:"index"`
	Delta        Delta  `json:"delta"`
	FinishReason string `json:"finish_reason,omitempty"`
}

type Delta struct {
	Content string `json:"content"`
}

const (
	FrameResponse = "response"
	FrameChunk    = "chunk"
	FrameDone     = "done"
	FrameError    = "error"
)

// Frame is one websocket message sent back to the client.
type Frame struct {
	Type     string        `json:"type"`
	ID       string        `json:"id,omitempty"`
	Response *ChatResponse `json:"response,omitempty"`
	Chunk    *ChatChunk    `json:"chunk,omitempty"`
	Error    string        `json:"error,omitempty"`
}
