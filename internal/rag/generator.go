package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/KUKRETI07/Rag-chat-bot/internal/llm"
	"github.com/KUKRETI07/Rag-chat-bot/internal/vectorstore"
)

const systemPrompt = "You are an expert assistant for the company handbook. " +
	"Answer the user's question only based on the provided context:\n\n%s"

// Generator stuffs the retrieved chunks into a fixed prompt and asks the
// chat model for a grounded answer.
type Generator struct {
	gateway     llm.Gateway
	model       string
	temperature float64
}

func NewGenerator(gw llm.Gateway, model string, temperature float64) *Generator {
	return &Generator{gateway: gw, model: model, temperature: temperature}
}

func (g *Generator) Generate(ctx context.Context, question string, results []vectorstore.SearchResult) (string, error) {
	messages := []llm.Message{
		{
			Role:    "system",
			Content: fmt.Sprintf(systemPrompt, buildContext(results)),
		},
		{
			Role:    "user",
			Content: question,
		},
	}

	resp, err := g.gateway.Chat(ctx, llm.ChatRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: g.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return resp.Content, nil
}

func buildContext(results []vectorstore.SearchResult) string {
	var sb strings.Builder
	for _, r := range results {
		sb.WriteString(r.Content)
		sb.WriteString("\n\n")
	}
	return strings.TrimSpace(sb.String())
}
