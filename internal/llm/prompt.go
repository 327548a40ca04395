package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dukerupert/weeklyeats/internal/grocery"
)

func categoryNames() []string {
	names := make([]string, len(grocery.CategoryOrder))
	for i, c := range grocery.CategoryOrder {
		names[i] = string(c)
	}
	return names
}

// categoryPrompt asks for a single JSON object mapping each name to one
// category.
func categoryPrompt(names []string) string {
	var b strings.Builder
	b.WriteString("You sort grocery items into store aisles.\n")
	b.WriteString("Allowed categories: ")
	b.WriteString(strings.Join(categoryNames(), ", "))
	b.WriteString(".\n")
	b.WriteString("Reply with only a JSON object whose keys are the item names exactly as given and whose values are one allowed category each.\n")
	b.WriteString("Items:\n")
	for _, n := range names {
		b.WriteString("- ")
		b.WriteString(n)
		b.WriteByte('\n')
	}
	return b.String()
}

var errNoJSON = errors.New("no JSON object in response")

// parseCategories extracts the name to category object from model output,
// tolerating markdown code fences and text around the object.
func parseCategories(text string) (map[string]string, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return nil, errNoJSON
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}

	out := make(map[string]string, len(raw))
	for name, v := range raw {
		if s, ok := v.(string); ok {
			out[name] = s
		}
	}
	return out, nil
}
