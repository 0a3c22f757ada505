package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/mistral"
)

const (
	mistralModel   = "open-mistral-7b"
	requestTimeout = 30 * time.Second

	genTemperature = 0.3
	genMaxTokens   = 1200
)

// MistralProvider is the primary, streaming provider.
type MistralProvider struct {
	model *mistral.Model
}

// NewMistral creates the Mistral provider.
func NewMistral(apiKey string) (*MistralProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("mistral: API key required")
	}
	model, err := mistral.New(
		mistral.WithAPIKey(apiKey),
		mistral.WithModel(mistralModel),
	)
	if err != nil {
		return nil, fmt.Errorf("create mistral client: %w", err)
	}
	return &MistralProvider{model: model}, nil
}

func (p *MistralProvider) Name() string { return "Mistral" }

// Stream sends the prompt with token streaming enabled. Frames are
// pushed as they arrive; the terminal frame carries any request error.
func (p *MistralProvider) Stream(ctx context.Context, systemPrompt, userPrompt string) *Stream {
	s := newStream()

	go func() {
		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()

		messages := []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
			llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
		}

		start := time.Now()
		_, err := p.model.GenerateContent(reqCtx, messages,
			llms.WithTemperature(genTemperature),
			llms.WithMaxTokens(genMaxTokens),
			llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
				if len(chunk) > 0 {
					s.push(string(chunk))
				}
				return nil
			}),
		)
		if err != nil {
			slog.Warn("mistral request failed", "duration_ms", time.Since(start).Milliseconds(), "error", err)
			s.finish(fmt.Errorf("mistral: %w", err))
			return
		}

		slog.Debug("mistral request complete", "duration_ms", time.Since(start).Milliseconds())
		s.finish(nil)
	}()

	return s
}
