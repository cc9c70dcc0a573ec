package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ziadkadry99/shop-scout/internal/llm"
)

// Enricher suggests supplemental preference attributes for a product type.
// On failure the caller passes preferences through unchanged; enrichment is
// never fatal to a session.
type Enricher interface {
	Enrich(ctx context.Context, productType string, prefs map[string]string) (map[string]string, error)
}

// LLMEnricher implements Enricher with a JSON-mode completion.
type LLMEnricher struct {
	provider llm.Provider
}

// NewLLMEnricher creates an enricher over the given provider.
func NewLLMEnricher(provider llm.Provider) *LLMEnricher {
	return &LLMEnricher{provider: provider}
}

func (e *LLMEnricher) Enrich(ctx context.Context, productType string, prefs map[string]string) (map[string]string, error) {
	prompt := fmt.Sprintf(
		"The user is interested in %s. Their current preferences are: %s. "+
			"Suggest more attributes (brand, color, etc.) as a flat JSON object of strings only.",
		productType, describePrefs(prefs))

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   512,
		Temperature: 0.2,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("enrichment completion: %w", err)
	}

	// Models occasionally wrap the object in other values; decode loosely
	// and keep only scalar string-able entries.
	var raw map[string]any
	if err := json.Unmarshal([]byte(resp.Content), &raw); err != nil {
		return nil, fmt.Errorf("parsing enrichment response: %w", err)
	}

	enriched := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			enriched[k] = val
		case float64:
			enriched[k] = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", val), "0"), ".")
		}
	}

	return enriched, nil
}

func describePrefs(prefs map[string]string) string {
	if len(prefs) == 0 {
		return "(none yet)"
	}
	data, err := json.Marshal(prefs)
	if err != nil {
		return "(none yet)"
	}
	return string(data)
}
