package stages

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ziadkadry99/shop-scout/internal/flow"
	"github.com/ziadkadry99/shop-scout/internal/llm"
	"github.com/ziadkadry99/shop-scout/internal/match"
	"github.com/ziadkadry99/shop-scout/internal/prompt"
	"github.com/ziadkadry99/shop-scout/internal/session"
)

// Question is one clarification question bound to a preference key.
type Question struct {
	Text string
	Key  string
}

const defaultSchema = "default"

// questionSchemas maps a product type to its clarification questions.
// Unknown types fuzzy-match against these keys and fall back to "default".
var questionSchemas = map[string][]Question{
	"sneakers": {
		{"What brand of sneakers are you interested in?", session.KeyBrand},
		{"What is your preferred color?", session.KeyColor},
		{"What is your price range? (e.g., 0-5000)", session.KeyPriceRange},
		{"What size do you wear?", session.KeySize},
		{"Do you prefer any material (e.g., mesh, leather)?", session.KeyMaterial},
	},
	"electronics": {
		{"Which electronics brand do you prefer?", session.KeyBrand},
		{"What category (e.g., phone, laptop, headphones) are you looking for?", session.KeyCategory},
		{"What is your budget range? (e.g., 0-20000)", session.KeyPriceRange},
		{"Any color preference for the device?", session.KeyColor},
	},
	"books": {
		{"What genre of books are you interested in?", session.KeyGenre},
		{"Do you prefer paperback or hardcover?", session.KeyFormat},
		{"Any specific author or title in mind?", session.KeyAuthorOrTitle},
		{"What's your budget? (e.g., 0-500)", session.KeyPriceRange},
	},
	defaultSchema: {
		{"What brand of product are you interested in?", session.KeyBrand},
		{"What is your preferred color?", session.KeyColor},
		{"What is your price range? (e.g., 0-10000)", session.KeyPriceRange},
		{"Do you have a preferred size?", session.KeySize},
		{"Any material or feature preferences?", session.KeyFeatures},
	},
}

const schemaMatchCutoff = 0.6

// schemaKeyFor resolves which question schema to use for a product type,
// fuzzy-matching against the known schema names.
func schemaKeyFor(productType string) string {
	productType = strings.ToLower(strings.TrimSpace(productType))
	if _, ok := questionSchemas[productType]; ok {
		return productType
	}

	keys := make([]string, 0, len(questionSchemas))
	for key := range questionSchemas {
		if key != defaultSchema {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	best, bestRatio := defaultSchema, schemaMatchCutoff
	for _, key := range keys {
		if r := match.Ratio(productType, key); r > bestRatio {
			best, bestRatio = key, r
		}
	}
	return best
}

// clarifyPreferences asks the user the clarification questions their
// product type calls for, skipping ones already answered. Questions come
// from the LLM when one is configured, from the static schema otherwise.
func (d *Deps) clarifyPreferences(ctx context.Context, sc *session.Context) (flow.Result, error) {
	schemaKey := schemaKeyFor(sc.ProductType)

	questions := d.generateQuestions(ctx, schemaKey)
	if len(questions) == 0 {
		questions = questionSchemas[schemaKey]
	}

	for _, q := range questions {
		if strings.TrimSpace(sc.Preference(q.Key)) != "" {
			continue
		}

		var validate prompt.Validator
		if q.Key == session.KeyPriceRange {
			validate = validatePriceRange
		}

		answer, err := d.Prompter.Ask(q.Text, validate)
		if err != nil {
			if errors.Is(err, prompt.ErrNoInput) {
				return flow.Result{}, flow.Suspend(q.Key, q.Text)
			}
			return flow.Result{}, session.Invalid(q.Key, "%v", err)
		}

		if q.Key == session.KeyPriceRange {
			answer = canonicalPriceRange(answer)
		}
		sc.SetPreference(q.Key, answer)
	}

	return flow.Result{}, nil
}

// generateQuestions asks the LLM for clarification questions, assigning
// preference keys heuristically. Any failure falls back to the schema.
func (d *Deps) generateQuestions(ctx context.Context, schemaKey string) []Question {
	if d.LLM == nil {
		return nil
	}

	req := llm.CompletionRequest{
		Messages: []llm.Message{{
			Role: llm.RoleUser,
			Content: fmt.Sprintf(
				"You are an AI shopping assistant. The user wants a %s. "+
					"Generate 5 clear questions to clarify their preferences, focusing on brand, "+
					"color, size (if relevant), material (if relevant), and price range. "+
					"One question per line, no numbering.", schemaKey),
		}},
		MaxTokens:   200,
		Temperature: 0.7,
	}

	resp, err := d.LLM.Complete(ctx, req)
	if err != nil {
		fmt.Fprintf(d.out(), "Question generation failed, using schema questions: %v\n", err)
		return nil
	}

	var questions []Question
	for _, line := range strings.Split(resp.Content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		questions = append(questions, Question{Text: line, Key: session.KeyForQuestion(line)})
	}
	return questions
}

// validatePriceRange accepts "min-max" with min <= max, or a single number
// meaning "up to that much".
func validatePriceRange(raw string) error {
	candidate := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if candidate == "" {
		return errors.New("price range cannot be empty")
	}

	if i := strings.Index(candidate, "-"); i >= 0 {
		lo, errLo := strconv.Atoi(candidate[:i])
		hi, errHi := strconv.Atoi(candidate[i+1:])
		if errLo != nil || errHi != nil || lo < 0 {
			return errors.New("use 'min-max' format, e.g. 0-20000")
		}
		if lo > hi {
			return errors.New("minimum cannot exceed maximum")
		}
		return nil
	}

	if n, err := strconv.Atoi(candidate); err != nil || n < 0 {
		return errors.New("enter a numeric value or range, e.g. '1500' or '0-20000'")
	}
	return nil
}

// canonicalPriceRange normalizes a validated answer to "min-max" form.
func canonicalPriceRange(raw string) string {
	candidate := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if strings.Contains(candidate, "-") {
		return candidate
	}
	return "0-" + candidate
}
