package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	groqBaseURL = "https://api.groq.com/openai/v1"
	groqModel   = "llama-3.3-70b-versatile"
)

// GroqProvider is the secondary, non-streaming provider. Groq exposes
// an OpenAI-compatible API, so the openai client is pointed at the
// Groq endpoint.
type GroqProvider struct {
	model *openai.LLM
}

// NewGroq creates the Groq provider.
func NewGroq(apiKey string) (*GroqProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("groq: API key required")
	}
	model, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(groqModel),
		openai.WithBaseURL(groqBaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}
	return &GroqProvider{model: model}, nil
}

func (p *GroqProvider) Name() string { return "Groq" }

// Stream sends the prompt without streaming and delivers the whole
// reply as a single delta followed by the terminal frame.
func (p *GroqProvider) Stream(ctx context.Context, systemPrompt, userPrompt string) *Stream {
	s := newStream()

	go func() {
		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()

		messages := []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
			llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
		}

		start := time.Now()
		resp, err := p.model.GenerateContent(reqCtx, messages,
			llms.WithTemperature(genTemperature),
			llms.WithMaxTokens(genMaxTokens),
		)
		if err != nil {
			slog.Warn("groq request failed", "duration_ms", time.Since(start).Milliseconds(), "error", err)
			s.finish(fmt.Errorf("groq: %w", err))
			return
		}
		if len(resp.Choices) == 0 {
			s.finish(fmt.Errorf("groq: no response choices"))
			return
		}

		slog.Debug("groq request complete", "duration_ms", time.Since(start).Milliseconds())
		s.push(resp.Choices[0].Content)
		s.finish(nil)
	}()

	return s
}
