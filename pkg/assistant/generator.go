package assistant

import (
	"context"
	"strings"

	"infoguru-be/pkg/llm"
)

// Generator produces the assistant reply for a new user message given the
// prior turns of the chat, oldest first.
type Generator interface {
	Generate(ctx context.Context, history []llm.Message, message string) (string, error)
}

type StaticGenerator struct {
	Reply string
}

var _ Generator = StaticGenerator{}

func NewStaticGenerator(reply string) StaticGenerator {
	return StaticGenerator{Reply: reply}
}

func (g StaticGenerator) Generate(context.Context, []llm.Message, string) (string, error) {
	return g.Reply, nil
}

type LLMGenerator struct {
	provider     llm.LLMProvider
	systemPrompt string
	fallback     string
	historyLimit int
	opts         []llm.Option
}

var _ Generator = &LLMGenerator{}

func NewLLMGenerator(provider llm.LLMProvider, systemPrompt, fallback string, historyLimit int, opts ...llm.Option) *LLMGenerator {
	return &LLMGenerator{
		provider:     provider,
		systemPrompt: systemPrompt,
		fallback:     fallback,
		historyLimit: historyLimit,
		opts:         opts,
	}
}

func (g *LLMGenerator) buildPrompt(history []llm.Message, message string) []llm.Message {
	if g.historyLimit > 0 && len(history) > g.historyLimit {
		history = history[len(history)-g.historyLimit:]
	}

	prompt := make([]llm.Message, 0, len(history)+2)
	if g.systemPrompt != "" {
		prompt = append(prompt, llm.Message{Role: llm.RoleSystem, Content: g.systemPrompt})
	}
	prompt = append(prompt, history...)
	prompt = append(prompt, llm.Message{Role: llm.RoleUser, Content: message})
	return prompt
}

// Generate returns the fallback reply together with the provider error so the
// caller can record the failure and still answer the user.
func (g *LLMGenerator) Generate(ctx context.Context, history []llm.Message, message string) (string, error) {
	reply, err := g.provider.Chat(ctx, g.buildPrompt(history, message), g.opts...)
	if err != nil {
		return g.fallback, err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return g.fallback, nil
	}
	return reply, nil
}
