package stages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ziadkadry99/shop-scout/internal/flow"
	"github.com/ziadkadry99/shop-scout/internal/llm"
	"github.com/ziadkadry99/shop-scout/internal/match"
	"github.com/ziadkadry99/shop-scout/internal/prompt"
	"github.com/ziadkadry99/shop-scout/internal/session"
)

// enrichPreferences asks the enricher for supplemental attributes and
// merges only keys the user has not already set. Failure is non-fatal:
// preferences pass through unchanged and the failure is recorded.
func (d *Deps) enrichPreferences(ctx context.Context, sc *session.Context) (flow.Result, error) {
	if d.Enricher == nil {
		return flow.Result{}, nil
	}

	enriched, err := d.Enricher.Enrich(ctx, sc.ProductType, sc.Preferences)
	if err != nil {
		sc.RecordError(fmt.Sprintf("preference enrichment failed: %v", err))
		return flow.Result{}, nil
	}

	for key, value := range enriched {
		if sc.MergePreference(key, value) {
			fmt.Fprintf(d.out(), "Enriched preference %s = %s\n", key, value)
		}
	}
	return flow.Result{}, nil
}

// Choices offered when no product matches.
var noMatchOptions = []string{
	"Try again with different preferences",
	"Upload another image",
	"Continue without a match",
}

// recommendProducts loads the catalog, derives criteria from the current
// preferences, and runs the match engine. Catalog failure is fatal. An
// empty result offers a retry (preferences cleared, back to clarification)
// or a re-upload (image cleared, back to image analysis).
func (d *Deps) recommendProducts(ctx context.Context, sc *session.Context) (flow.Result, error) {
	products, err := d.Catalog.Load(ctx)
	if err != nil {
		return flow.Result{}, fmt.Errorf("loading catalog: %w", err)
	}

	criteria := match.FromPreferences(sc.ProductType, sc.Preferences)
	sc.Recommendations = d.Matcher.Match(criteria, products)

	if len(sc.Recommendations) == 0 {
		fmt.Fprintf(d.out(), "No matching products found (category=%q brand=%q color=%q price=%v-%v).\n",
			criteria.Category, criteria.Brand, criteria.Color, criteria.PriceMin, criteria.PriceMax)

		choice, err := d.Prompter.Select("No matches. What would you like to do?", noMatchOptions)
		if err != nil {
			if errors.Is(err, prompt.ErrNoInput) {
				return flow.Result{}, flow.Suspend("no_match_choice", "No matches. What would you like to do?")
			}
			return flow.Result{}, session.Invalid("no_match_choice", "%v", err)
		}

		switch choice {
		case 0:
			sc.Preferences = make(map[string]string)
			return flow.Result{Next: Clarification}, nil
		case 1:
			sc.ImageBase64 = ""
			sc.ProductType = ""
			sc.ProductTypeConfirmed = false
			return flow.Result{Next: ImageAnalysis}, nil
		default:
			return flow.Result{}, nil
		}
	}

	fmt.Fprintf(d.out(), "%d matching product(s) found:\n", len(sc.Recommendations))
	for i, p := range sc.Recommendations {
		fmt.Fprintf(d.out(), "  %d. %s | %.0f | %s | %s\n", i+1, p.Name, p.Price, p.Brand, p.Color)
	}

	d.printRationale(ctx, sc, criteria)
	return flow.Result{}, nil
}

// printRationale asks the LLM which match fits the preferences best.
// Purely informational; failures are silent.
func (d *Deps) printRationale(ctx context.Context, sc *session.Context, criteria match.Criteria) {
	if d.LLM == nil || len(sc.Recommendations) == 0 {
		return
	}

	var lines []string
	for i, p := range sc.Recommendations {
		lines = append(lines, fmt.Sprintf("%d. %s (brand: %s, color: %s, price: %.0f)",
			i+1, p.Name, p.Brand, p.Color, p.Price))
	}

	resp, err := d.LLM.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{{
			Role: llm.RoleUser,
			Content: fmt.Sprintf(
				"I have the following product matches for a %s:\n\n%s\n\n"+
					"Based on the user's preferences (brand=%s, color=%s, price_range=%v-%v), "+
					"which product is most appropriate? Provide a brief rationale.",
				criteria.Category, strings.Join(lines, "\n"),
				criteria.Brand, criteria.Color, criteria.PriceMin, criteria.PriceMax),
		}},
		MaxTokens: 200,
	})
	if err != nil {
		fmt.Fprintf(d.out(), "Rationale generation failed, showing raw list: %v\n", err)
		return
	}

	fmt.Fprintf(d.out(), "\nRecommendation rationale:\n%s\n", strings.TrimSpace(resp.Content))
}

// checkInventory looks up stock for every recommendation, records the full
// verdict, and drops out-of-stock items. A checker failure for one product
// degrades to "in stock" rather than halting the session.
func (d *Deps) checkInventory(ctx context.Context, sc *session.Context) (flow.Result, error) {
	if len(sc.Recommendations) == 0 {
		return flow.Result{}, nil
	}

	status := make(map[int]bool, len(sc.Recommendations))
	for _, p := range sc.Recommendations {
		inStock, err := d.Inventory.InStock(ctx, p.ID)
		if err != nil {
			sc.RecordError(fmt.Sprintf("inventory check failed for product %d: %v", p.ID, err))
			inStock = true
		}
		status[p.ID] = inStock
		if !inStock {
			fmt.Fprintf(d.out(), "%s (ID: %d) is currently out of stock.\n", p.Name, p.ID)
		}
	}
	sc.InventoryStatus = status

	inStock := sc.Recommendations[:0:0]
	for _, p := range sc.Recommendations {
		if status[p.ID] {
			inStock = append(inStock, p)
		}
	}
	sc.Recommendations = inStock

	if len(inStock) == 0 {
		fmt.Fprintln(d.out(), "None of the matched products are in stock.")
	} else {
		fmt.Fprintf(d.out(), "%d item(s) remain in stock.\n", len(inStock))
	}
	return flow.Result{}, nil
}
