package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClassifier asks the Gemini API to categorize items.
type GeminiClassifier struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
	logger *slog.Logger
}

func NewGeminiClassifier(ctx context.Context, apiKey, model string, logger *slog.Logger) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	m := client.GenerativeModel(model)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0)
	return &GeminiClassifier{client: client, model: m, name: model, logger: logger}, nil
}

func (c *GeminiClassifier) Classify(ctx context.Context, names []string) (map[string]string, error) {
	start := time.Now()
	resp, err := c.model.GenerateContent(ctx, genai.Text(categoryPrompt(names)))
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no content generated")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	c.logger.Debug("gemini classification", "model", c.name, "items", len(names), "duration", time.Since(start))
	return parseCategories(b.String())
}

func (c *GeminiClassifier) Close() error {
	return c.client.Close()
}
