package chatbot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/config"
	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/llm"
	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/search"
	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ChatService implements Gateway on top of an llm.AIProvider.
type ChatService struct {
	aiProvider llm.AIProvider
	searcher   search.Service
	config     config.ChatConfig
	maxTokens  int
}

// NewChatService creates a new instance of ChatService. A nil searcher
// disables news context.
func NewChatService(aiProvider llm.AIProvider, searcher search.Service, cfg config.ChatConfig, maxTokens int) *ChatService {
	if searcher == nil {
		searcher = search.Noop{}
	}
	return &ChatService{
		aiProvider: aiProvider,
		searcher:   searcher,
		config:     cfg,
		maxTokens:  maxTokens,
	}
}

// Validate checks the request before any upstream call is made.
func (cs *ChatService) Validate(req ChatRequest) error {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return ErrEmptyMessage
	}
	if cs.config.MaxMessageLength > 0 && utf8.RuneCountInString(message) > cs.config.MaxMessageLength {
		return fmt.Errorf("%w: %d characters allowed", ErrMessageTooLong, cs.config.MaxMessageLength)
	}
	return nil
}

func (cs *ChatService) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := cs.Validate(req); err != nil {
		return nil, err
	}

	ctx, cancel := cs.withTimeout(ctx)
	defer cancel()

	completionRequest, resources := cs.prepare(ctx, req)
	msg, err := cs.aiProvider.Complete(ctx, completionRequest)
	if err != nil {
		return nil, fmt.Errorf("complete chat: %w", err)
	}

	return &ChatResponse{
		ID:       newResponseID(),
		Content:  msg.Content,
		Metadata: cs.metadata(msg.FinishReason, len(resources)),
	}, nil
}

// Stream starts a streamed reply. The turn deadline covers the whole stream;
// it is released when the stream ends or is cancelled.
func (cs *ChatService) Stream(ctx context.Context, req ChatRequest) (*Stream, error) {
	if err := cs.Validate(req); err != nil {
		return nil, err
	}

	ctx, cancel := cs.withTimeout(ctx)
	completionRequest, _ := cs.prepare(ctx, req)

	chunks, err := cs.aiProvider.StreamComplete(ctx, completionRequest)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stream chat: %w", err)
	}

	stream := newStream(newResponseID(), cancel)
	go stream.run(ctx, chunks)
	return stream, nil
}

// ------------------Private helper function------------------

func (cs *ChatService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if cs.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cs.config.Timeout)
}

func (cs *ChatService) prepare(ctx context.Context, req ChatRequest) (llm.CompletionRequest, []search.Resource) {
	message := strings.TrimSpace(req.Message)

	resources, err := cs.searcher.Search(ctx, []string{message})
	if err != nil {
		// News context is optional; the turn goes on without it.
		slog.WarnContext(ctx, "search failed", "error", err)
		resources = nil
	}

	return llm.CompletionRequest{
		Messages:  buildMessages(cs.config.SystemPrompt, message, resources),
		MaxTokens: cs.maxTokens,
	}, resources
}

func (cs *ChatService) metadata(finishReason string, searchResults int) *orderedmap.OrderedMap[string, any] {
	metadata := orderedmap.New[string, any]()
	metadata.Set("provider", cs.aiProvider.Name())
	metadata.Set("model", cs.aiProvider.Model())
	if finishReason != "" {
		metadata.Set("finish_reason", finishReason)
	}
	if searchResults > 0 {
		metadata.Set("search_results", searchResults)
	}
	return metadata
}

func newResponseID() string {
	return "chat-" + uuid.NewString()
}
