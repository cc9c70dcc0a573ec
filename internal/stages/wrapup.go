package stages

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ziadkadry99/shop-scout/internal/feedback"
	"github.com/ziadkadry99/shop-scout/internal/flow"
	"github.com/ziadkadry99/shop-scout/internal/prompt"
	"github.com/ziadkadry99/shop-scout/internal/session"
	"github.com/ziadkadry99/shop-scout/internal/summary"
)

const ratingQuestion = "Rate how helpful the recommendations were (1 = poor, 5 = excellent)"

func validateRating(raw string) error {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > 5 {
		return errors.New("rating must be an integer between 1 and 5")
	}
	return nil
}

// captureFeedback collects a 1..5 rating and persists it when a feedback
// store is configured. A persistence failure is recorded, not fatal.
func (d *Deps) captureFeedback(ctx context.Context, sc *session.Context) (flow.Result, error) {
	if sc.FeedbackRating == nil {
		answer, err := d.Prompter.Ask(ratingQuestion, validateRating)
		if err != nil {
			if errors.Is(err, prompt.ErrNoInput) {
				return flow.Result{}, flow.Suspend("feedback_rating", ratingQuestion)
			}
			return flow.Result{}, session.Invalid("feedback_rating", "%v", err)
		}

		rating, _ := strconv.Atoi(strings.TrimSpace(answer))
		sc.FeedbackRating = &rating
	}

	if d.Feedback != nil {
		_, err := d.Feedback.Create(ctx, feedback.Entry{
			SessionID: sc.ID,
			Rating:    *sc.FeedbackRating,
		})
		if err != nil {
			sc.RecordError(fmt.Sprintf("saving feedback failed: %v", err))
		}
	}

	return flow.Result{}, nil
}

// findSimilarProducts replaces the recommendations with up to five
// products whose names resemble the first one, to close the session with
// browsing suggestions. With nothing to seed from it records that and
// moves on.
func (d *Deps) findSimilarProducts(ctx context.Context, sc *session.Context) (flow.Result, error) {
	seedPool := sc.Recommendations
	if len(seedPool) == 0 {
		seedPool = sc.Cart
	}
	if len(seedPool) == 0 {
		sc.RecordError("no base products to search similar from")
		return flow.Result{}, nil
	}
	seed := seedPool[0]

	pool, err := d.Catalog.Load(ctx)
	if err != nil {
		// Degrade to searching within what the session already has.
		pool = seedPool
	}

	sc.Recommendations = d.Finder.Similar(ctx, seed, pool, 5)

	fmt.Fprintf(d.out(), "Based on your interest in %s, similar items:\n", seed.Name)
	for i, p := range sc.Recommendations {
		fmt.Fprintf(d.out(), "  %d. %s - %.0f\n", i+1, p.Name, p.Price)
	}

	return flow.Result{}, nil
}

// summarizeSession renders the final summary. Terminal stage.
func (d *Deps) summarizeSession(ctx context.Context, sc *session.Context) (flow.Result, error) {
	sc.Summary = summary.Markdown(sc)
	fmt.Fprintln(d.out(), sc.Summary)
	return flow.Result{}, nil
}
