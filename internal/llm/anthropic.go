package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

const (
	DefaultAnthropicModel     = "claude-sonnet-4-5"
	defaultAnthropicMaxTokens = 1024
)

type AnthropicProvider struct {
	client *anthropic.Client
	model  string
}

func NewAnthropicProvider(client *anthropic.Client, model string) *AnthropicProvider {
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &AnthropicProvider{client: client, model: model}
}

func (p *AnthropicProvider) Name() string  { return "anthropic" }
func (p *AnthropicProvider) Model() string { return p.model }

func (p *AnthropicProvider) Complete(ctx context.Context, req CompletionRequest) (Message, error) {
	resp, err := p.client.Messages.New(ctx, p.toParams(req))
	if err != nil {
		return Message{}, &UpstreamError{Provider: p.Name(), Err: err}
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if len(resp.Content) == 0 {
		return Message{}, &UpstreamError{Provider: p.Name(), Err: ErrNoChoices}
	}

	return Message{
		Role:         RoleAssistant,
		Content:      sb.String(),
		FinishReason: string(resp.StopReason),
	}, nil
}

func (p *AnthropicProvider) StreamComplete(ctx context.Context, req CompletionRequest) (<-chan StreamChunk, error) {
	stream := p.client.Messages.NewStreaming(ctx, p.toParams(req))
	chunks := make(chan StreamChunk)

	go func() {
		defer close(chunks)
		defer stream.Close()

		for stream.Next() {
			event := stream.Current()
			if event.Type != "content_block_delta" {
				continue
			}
			delta := event.AsContentBlockDelta()
			if textDelta := delta.Delta.AsTextDelta(); textDelta.Type == "text_delta" && textDelta.Text != "" {
				if !send(ctx, chunks, StreamChunk{Content: textDelta.Text}) {
					return
				}
			}
		}

		if err := stream.Err(); err != nil {
			send(ctx, chunks, StreamChunk{Err: &UpstreamError{Provider: p.Name(), Err: err}})
			return
		}
		send(ctx, chunks, StreamChunk{Done: true})
	}()

	return chunks, nil
}

func (p *AnthropicProvider) toParams(req CompletionRequest) anthropic.MessageNewParams {
	model := req.Model
	if model == "" {
		model = p.model
	}
	maxTokens := int64(defaultAnthropicMaxTokens)
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	system, conversation := splitSystem(req.Messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  toAnthropicMessages(conversation),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	return params
}

func toAnthropicMessages(messages []Message) []anthropic.MessageParam {
	result := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == RoleAssistant {
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
			continue
		}
		result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
	}
	return result
}
