package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// OllamaClassifier asks a local Ollama server to categorize items.
type OllamaClassifier struct {
	baseURL string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

func NewOllamaClassifier(baseURL, model string, logger *slog.Logger) *OllamaClassifier {
	return &OllamaClassifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 2 * time.Minute},
		logger:  logger,
	}
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Format  string         `json:"format,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (c *OllamaClassifier) Classify(ctx context.Context, names []string) (map[string]string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   c.model,
		Prompt:  categoryPrompt(names),
		Stream:  false,
		Format:  "json",
		Options: map[string]any{"temperature": 0},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var gen generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		return nil, fmt.Errorf("decode ollama response: %w", err)
	}

	c.logger.Debug("ollama classification", "model", c.model, "items", len(names), "duration", time.Since(start))
	return parseCategories(gen.Response)
}
