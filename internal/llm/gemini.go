package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
)

const DefaultGeminiModel = "gemini-2.0-flash"

type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiAIProvider(client *genai.Client, model string) *GeminiProvider {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiProvider{client: client, model: model}
}

func (p *GeminiProvider) Name() string  { return "gemini" }
func (p *GeminiProvider) Model() string { return p.model }

func (p *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (Message, error) {
	session, parts := p.startChat(req)
	res, err := session.SendMessage(ctx, parts...)
	if err != nil {
		return Message{}, &UpstreamError{Provider: p.Name(), Err: err}
	}
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return Message{}, &UpstreamError{Provider: p.Name(), Err: ErrNoChoices}
	}

	return Message{
		Role:         RoleAssistant,
		Content:      extractText(res.Candidates[0].Content),
		FinishReason: strings.ToLower(strings.TrimPrefix(res.Candidates[0].FinishReason.String(), "FinishReason")),
	}, nil
}

func (p *GeminiProvider) StreamComplete(ctx context.Context, req CompletionRequest) (<-chan StreamChunk, error) {
	session, parts := p.startChat(req)
	resIterator := session.SendMessageStream(ctx, parts...)

	chunks := make(chan StreamChunk)

	go func() {
		defer close(chunks)

		for {
			resp, err := resIterator.Next()
			if errors.Is(err, iterator.Done) {
				send(ctx, chunks, StreamChunk{Done: true})
				return
			}
			if err != nil {
				send(ctx, chunks, StreamChunk{Err: &UpstreamError{Provider: p.Name(), Err: err}})
				return
			}
			if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
				continue
			}

			if text := extractText(resp.Candidates[0].Content); text != "" {
				if !send(ctx, chunks, StreamChunk{Content: text}) {
					return
				}
			}
		}
	}()

	return chunks, nil
}

// -----------------Private Helper Functions-----------------

// startChat moves the system prompt into the model instruction and every
// message but the last into the chat history. The last message is returned
// as the parts to send.
func (p *GeminiProvider) startChat(req CompletionRequest) (*genai.ChatSession, []genai.Part) {
	name := req.Model
	if name == "" {
		name = p.model
	}
	model := p.client.GenerativeModel(name)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	system, conversation := splitSystem(req.Messages)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	session := model.StartChat()
	if len(conversation) == 0 {
		return session, nil
	}
	for _, msg := range conversation[:len(conversation)-1] {
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		session.History = append(session.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return session, []genai.Part{genai.Text(conversation[len(conversation)-1].Content)}
}

func extractText(content *genai.Content) string {
	var sb strings.Builder
	for _, part := range content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
