// Package llm holds the external classifiers consulted for grocery items the
// built-in category table does not know.
package llm

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dukerupert/weeklyeats/internal/config"
	"github.com/dukerupert/weeklyeats/internal/grocery"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds the classifier named by cfg. With provider "none" the classifier
// is nil and unresolved items are filed under other. The returned closer is
// never nil.
func New(ctx context.Context, cfg config.ClassifierConfig, logger *slog.Logger) (grocery.Classifier, io.Closer, error) {
	switch cfg.Provider {
	case config.ProviderNone, "":
		return nil, nopCloser{}, nil
	case config.ProviderOllama:
		return NewOllamaClassifier(cfg.BaseURL, cfg.ModelName(), logger), nopCloser{}, nil
	case config.ProviderGemini:
		c, err := NewGeminiClassifier(ctx, cfg.APIKey, cfg.ModelName(), logger)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil
	default:
		return nil, nil, fmt.Errorf("unknown classifier provider %q", cfg.Provider)
	}
}
