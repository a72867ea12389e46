package llm

import (
	"context"
	"errors"
	"io"

	"github.com/sashabaranov/go-openai"
)

const DefaultOpenAIModel = openai.GPT4oMini

type OpenAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAIProvider(client *openai.Client, model string) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIProvider{client: client, model: model}
}

func (p *OpenAIProvider) Name() string  { return "openai" }
func (p *OpenAIProvider) Model() string { return p.model }

func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (Message, error) {
	res, err := p.client.CreateChatCompletion(ctx, p.toRequest(req))
	if err != nil {
		return Message{}, &UpstreamError{Provider: p.Name(), Err: err}
	}
	if len(res.Choices) == 0 {
		return Message{}, &UpstreamError{Provider: p.Name(), Err: ErrNoChoices}
	}
	msg := fromOpenAIMessage(res.Choices[0].Message)
	msg.FinishReason = string(res.Choices[0].FinishReason)
	return msg, nil
}

func (p *OpenAIProvider) StreamComplete(ctx context.Context, req CompletionRequest) (<-chan StreamChunk, error) {
	stream, err := p.client.CreateChatCompletionStream(ctx, p.toRequest(req))
	if err != nil {
		return nil, &UpstreamError{Provider: p.Name(), Err: err}
	}

	chunks := make(chan StreamChunk)
	go func() {
		defer close(chunks)
		defer stream.Close()

		for {
			response, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				send(ctx, chunks, StreamChunk{Done: true})
				return
			}
			if err != nil {
				send(ctx, chunks, StreamChunk{Err: &UpstreamError{Provider: p.Name(), Err: err}})
				return
			}

			if len(response.Choices) > 0 && response.Choices[0].Delta.Content != "" {
				if !send(ctx, chunks, StreamChunk{Content: response.Choices[0].Delta.Content}) {
					return
				}
			}
		}
	}()

	return chunks, nil
}

// ------------------Private helper function------------------

func (p *OpenAIProvider) toRequest(req CompletionRequest) openai.ChatCompletionRequest {
	model := req.Model
	if model == "" {
		model = p.model
	}
	return openai.ChatCompletionRequest{
		Model:     model,
		Messages:  toOpenAIMessages(req.Messages),
		MaxTokens: req.MaxTokens,
	}
}

func toOpenAIMessage(msg Message) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role:    msg.Role,
		Content: msg.Content,
	}
}

func fromOpenAIMessage(msg openai.ChatCompletionMessage) Message {
	return Message{
		Role:    msg.Role,
		Content: msg.Content,
	}
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		result[i] = toOpenAIMessage(msg)
	}
	return result
}
