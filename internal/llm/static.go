package llm

import (
	"context"
	"strings"
)

// StaticClassifier answers from a fixed table keyed by lowercase name. Names
// not in the table are left out of the result.
type StaticClassifier map[string]string

func (s StaticClassifier) Classify(_ context.Context, names []string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for _, n := range names {
		if cat, ok := s[strings.ToLower(n)]; ok {
			out[n] = cat
		}
	}
	return out, nil
}
