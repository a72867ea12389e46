package chatbot

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/llm"
	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/requestid"
	"github.com/gin-gonic/gin"
	"github.com/invopop/jsonschema"
)

type ChatController struct {
	gateway        Gateway
	originPatterns []string
	schema         *jsonschema.Schema
}

// NewChatController creates the HTTP handlers of the chat gateway.
// allowOrigins uses the CORS notation (https://fudscan.ai) and is turned into
// the host patterns the websocket handshake checks.
func NewChatController(gateway Gateway, allowOrigins []string) *ChatController {
	reflector := &jsonschema.Reflector{
		ExpandedStruct:             true,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	return &ChatController{
		gateway:        gateway,
		originPatterns: originPatterns(allowOrigins),
		schema:         reflector.Reflect(&ChatRequest{}),
	}
}

func (cc *ChatController) RegisterRoutes(router gin.IRouter) {
	router.POST("/api/chat", cc.Submit)
	router.GET("/api/chat/ws", cc.WebSocket)
	router.GET("/api/chat/schema", cc.Schema)
}

// Submit answers one chat turn with a JSON body, or with server-sent events
// when the request asks for a stream.
func (cc *ChatController) Submit(c *gin.Context) {
	var request ChatRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	log := slog.With(
		"request_id", requestid.Get(c),
		"stream", request.Stream,
	)

	if request.Stream {
		cc.stream(c, log, request)
		return
	}

	resp, err := cc.gateway.Complete(c.Request.Context(), request)
	if err != nil {
		status := statusFor(err)
		log.Warn("chat turn failed", "status", status, "error", err)
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	log.Info("chat turn completed", "response_id", resp.ID)
	c.JSON(http.StatusOK, resp)
}

func (cc *ChatController) stream(c *gin.Context, log *slog.Logger, request ChatRequest) {
	ctx := c.Request.Context()

	stream, err := cc.gateway.Stream(ctx, request)
	if err != nil {
		status := statusFor(err)
		log.Warn("chat stream failed to start", "status", status, "error", err)
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}
	defer stream.Cancel()

	// Set headers required for SSE
	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	count := 0
	for chunk := range stream.Chunks() {
		resp := StreamResponse{
			ID:      stream.ID,
			Choices: []Choice{{Index: chunk.Index, Delta: Delta{Content: chunk.Content}}},
		}
		if err := writeSSEResponse(w, resp); err != nil {
			log.Warn("failed to write SSE event", "error", err, "chunks", count)
			drain(stream)
			return
		}
		count++
	}

	if err := stream.Err(); err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			// Client disconnected, no need to send error response
			log.Info("client disconnected during streaming", "chunks", count)
			return
		}
		log.Error("chat stream failed", "error", err, "chunks", count)
		if err := writeSSEError(w, err.Error()); err != nil {
			log.Warn("failed to write SSE error", "error", err)
		}
		return
	}

	if err := writeSSEDone(w); err != nil {
		log.Warn("failed to write SSE done", "error", err)
		return
	}
	log.Info("chat stream completed", "response_id", stream.ID, "chunks", count)
}

// WebSocket serves chat turns over a websocket connection, one JSON
// ChatRequest per inbound message.
func (cc *ChatController) WebSocket(c *gin.Context) {
	log := slog.With("request_id", requestid.Get(c))

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: cc.originPatterns,
	})
	if err != nil {
		// Accept already wrote the handshake error.
		log.Warn("websocket handshake failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := c.Request.Context()
	for {
		var request ChatRequest
		if err := wsjson.Read(ctx, conn, &request); err != nil {
			if websocket.CloseStatus(err) != -1 {
				return
			}
			log.Warn("invalid websocket request", "error", err)
			conn.Close(websocket.StatusUnsupportedData, "invalid request")
			return
		}

		if err := cc.serveFrame(ctx, conn, request); err != nil {
			log.Warn("failed to write websocket frame", "error", err)
			return
		}
	}
}

func (cc *ChatController) serveFrame(ctx context.Context, conn *websocket.Conn, request ChatRequest) error {
	if !request.Stream {
		resp, err := cc.gateway.Complete(ctx, request)
		if err != nil {
			return wsjson.Write(ctx, conn, Frame{Type: FrameError, Error: err.Error()})
		}
		return wsjson.Write(ctx, conn, Frame{Type: FrameResponse, ID: resp.ID, Response: resp})
	}

	stream, err := cc.gateway.Stream(ctx, request)
	if err != nil {
		return wsjson.Write(ctx, conn, Frame{Type: FrameError, Error: err.Error()})
	}
	defer stream.Cancel()

	for chunk := range stream.Chunks() {
		if err := wsjson.Write(ctx, conn, Frame{Type: FrameChunk, ID: stream.ID, Chunk: &chunk}); err != nil {
			drain(stream)
			return err
		}
	}
	if err := stream.Err(); err != nil {
		return wsjson.Write(ctx, conn, Frame{Type: FrameError, ID: stream.ID, Error: err.Error()})
	}
	return wsjson.Write(ctx, conn, Frame{Type: FrameDone, ID: stream.ID})
}

// Schema returns the JSON Schema of ChatRequest.
func (cc *ChatController) Schema(c *gin.Context) {
	c.JSON(http.StatusOK, cc.schema)
}

// ------------------Private helper function------------------

func statusFor(err error) int {
	var upstream *llm.UpstreamError
	switch {
	case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrMessageTooLong):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &upstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// drain cancels the stream and waits for its producer to finish.
func drain(stream *Stream) {
	stream.Cancel()
	for range stream.Chunks() {
	}
}

func originPatterns(allowOrigins []string) []string {
	var patterns []string
	for _, origin := range allowOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
			continue
		}
		patterns = append(patterns, origin)
	}
	return patterns
}
