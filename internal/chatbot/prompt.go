package chatbot

import (
	"fmt"
	"strings"

	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/llm"
	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/search"
)

const DefaultSystemPrompt = `You are FUDSCAN, an assistant that helps people assess the risk of crypto assets and projects.
Separate verifiable facts from fear, uncertainty and doubt. Point out concrete risks such as token unlocks, concentration of holdings, smart contract exposure, regulatory actions and liquidity.
Be concise. When you are unsure, say so. Never present your answer as financial advice.`

// buildMessages assembles the prompt for one turn: persona, optional news
// context, then the user message.
func buildMessages(systemPrompt, message string, resources []search.Resource) []llm.Message {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	messages := []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}}

	if len(resources) > 0 {
		var sb strings.Builder
		sb.WriteString("Recent news related to the question. Cite sources when you use them:\n")
		for _, r := range resources {
			fmt.Fprintf(&sb, "- %s", r.Title)
			if r.Source != "" {
				fmt.Fprintf(&sb, " (%s)", r.Source)
			}
			fmt.Fprintf(&sb, ": %s\n", r.URL)
			if r.Snippet != "" {
				fmt.Fprintf(&sb, "  %s\n", r.Snippet)
			}
		}
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: sb.String()})
	}

	return append(messages, llm.Message{Role: llm.RoleUser, Content: message})
}
