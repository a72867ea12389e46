package chatclient

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/chatbot"
)

const maxEventSize = 1 << 20

// Stream yields the chunks of a streamed reply. Chunks is closed once the
// server sent [DONE] or an error event, the body ended, or the context was
// cancelled; Err then reports which.
type Stream struct {
	// ID is the server's response id. Like Err, it is only valid after
	// Chunks is closed.
	ID string

	chunks chan chatbot.ChatChunk
	cancel context.CancelFunc
	err    error
}

func newStream(cancel context.CancelFunc) *Stream {
	return &Stream{
		chunks: make(chan chatbot.ChatChunk),
		cancel: cancel,
	}
}

func (s *Stream) Chunks() <-chan chatbot.ChatChunk {
	return s.chunks
}

func (s *Stream) Cancel() {
	s.cancel()
}

// Err must only be called after Chunks is closed.
func (s *Stream) Err() error {
	return s.err
}

// Text drains the stream and returns the concatenated reply.
func (s *Stream) Text() (string, error) {
	var sb strings.Builder
	for chunk := range s.chunks {
		sb.WriteString(chunk.Content)
	}
	return sb.String(), s.err
}

func (s *Stream) run(ctx context.Context, body io.ReadCloser) {
	defer s.cancel()
	defer close(s.chunks)
	defer body.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)

	var event string
	var data []string
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			switch {
			case strings.HasPrefix(line, "event:"):
				event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
			}
			continue
		}
		if len(data) == 0 {
			event = ""
			continue
		}

		done, err := s.dispatch(ctx, event, strings.Join(data, "\n"))
		if err != nil {
			s.err = err
			return
		}
		if done {
			return
		}
		event, data = "", nil
	}

	if ctx.Err() != nil {
		s.err = ctx.Err()
		return
	}
	if err := scanner.Err(); err != nil {
		s.err = &TransportError{URL: "event stream", Err: err}
		return
	}
	s.err = ErrUnterminatedStream
}

// dispatch handles one complete event and reports whether it was terminal.
func (s *Stream) dispatch(ctx context.Context, event, data string) (bool, error) {
	if event == "error" {
		var errResponse chatbot.ErrorResponse
		if err := json.Unmarshal([]byte(data), &errResponse); err != nil {
			return true, &DecodeError{ContentType: "text/event-stream", Err: err}
		}
		return true, &StreamError{Message: errResponse.Error}
	}
	if data == "[DONE]" {
		return true, nil
	}

	var resp chatbot.StreamResponse
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		return true, &DecodeError{ContentType: "text/event-stream", Err: err}
	}
	if s.ID == "" {
		s.ID = resp.ID
	}
	for _, choice := range resp.Choices {
		select {
		case s.chunks <- chatbot.ChatChunk{Index: choice.Index, Content: choice.Delta.Content}:
		case <-ctx.Done():
			return true, ctx.Err()
		}
	}
	return false, nil
}
