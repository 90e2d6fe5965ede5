package factory

import (
	"context"
	"fmt"

	"infoguru-be/pkg/llm"
	"infoguru-be/pkg/llm/gemini"
	"infoguru-be/pkg/llm/groq"
	"infoguru-be/pkg/llm/ollama"
)

type Settings struct {
	Provider      string
	Model         string
	OllamaBaseURL string
	GroqAPIKey    string
	GeminiAPIKey  string
}

func NewLLMProvider(ctx context.Context, s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "ollama":
		baseURL := s.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		model := s.Model
		if model == "" {
			model = "llama3"
		}
		return ollama.NewOllamaProvider(baseURL, model), nil
	case "groq":
		if s.GroqAPIKey == "" {
			return nil, fmt.Errorf("groq provider requires GROQ_API_KEY")
		}
		return groq.NewGroqProvider(s.GroqAPIKey, s.Model), nil
	case "gemini":
		if s.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini provider requires GOOGLE_GEMINI_API_KEY")
		}
		return gemini.NewGeminiProvider(ctx, s.GeminiAPIKey, s.Model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
