package chatbot

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const sseDone = "[DONE]"

func writeSSEResponse(w io.Writer, resp StreamResponse) error {
	// Marshal the response to JSON
	jsonData, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal SSE response: %w", err)
	}

	// Write the SSE formatted message
	if _, err := fmt.Fprintf(w, "data: %s\n\n", jsonData); err != nil {
		return fmt.Errorf("failed to write SSE message: %w", err)
	}

	flush(w)
	return nil
}

// writeSSEDone writes the terminal marker of a successful stream.
func writeSSEDone(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "data: %s\n\n", sseDone); err != nil {
		return fmt.Errorf("failed to write SSE done: %w", err)
	}
	flush(w)
	return nil
}

// writeSSEError writes the terminal marker of a failed stream.
func writeSSEError(w io.Writer, message string) error {
	jsonData, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		return fmt.Errorf("failed to marshal SSE error: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: error\ndata: %s\n\n", jsonData); err != nil {
		return fmt.Errorf("failed to write SSE error: %w", err)
	}
	flush(w)
	return nil
}

// If the writer supports flushing (like http.ResponseWriter), flush it
func flush(w io.Writer) {
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}
