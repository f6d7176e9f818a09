package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// DefaultModel is used when the config names none.
const DefaultModel = "gemini-1.5-flash-latest"

// Generator sends one plain-text prompt and returns the model's text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiClient implements Generator against Google's Gemini API
type GeminiClient struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

// NewGeminiClient creates a client bound to one model
func NewGeminiClient(ctx context.Context, apiKey, model string, log zerolog.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	return newGeminiClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model, log)
}

func newGeminiClient(ctx context.Context, cc *genai.ClientConfig, model string, log zerolog.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
		log:    log.With().Str("component", "gemini").Str("model", model).Logger(),
	}, nil
}

// Model returns the model name requests go to.
func (g *GeminiClient) Model() string {
	return g.model
}

// Generate returns the text parts of the first candidate. A response with no
// candidates yields an empty string. API errors come back unwrapped so the
// retrier can show them as-is.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	g.log.Debug().Int("prompt_chars", len(prompt)).Msg("generate")

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		g.log.Debug().Err(err).Msg("generate failed")
		return "", err
	}
	if resp == nil {
		return "", nil
	}

	var content strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.Text != "" {
				content.WriteString(part.Text)
			}
		}
		break
	}

	if resp.UsageMetadata != nil {
		g.log.Debug().
			Int("prompt_tokens", int(resp.UsageMetadata.PromptTokenCount)).
			Int("total_tokens", int(resp.UsageMetadata.TotalTokenCount)).
			Msg("generate done")
	}
	return content.String(), nil
}
