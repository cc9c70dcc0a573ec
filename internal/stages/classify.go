package stages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ziadkadry99/shop-scout/internal/flow"
	"github.com/ziadkadry99/shop-scout/internal/prompt"
	"github.com/ziadkadry99/shop-scout/internal/session"
)

const manualCategoryQuestion = "Enter the product category (e.g. sneakers, electronics)"

// analyzeImage infers the product type from the session image via the
// vision classifier. With no image, no classifier, or a failed call it
// falls back to manual category input and records why.
func (d *Deps) analyzeImage(ctx context.Context, sc *session.Context) (flow.Result, error) {
	if sc.ImageBase64 != "" && d.Vision != nil {
		result, err := d.Vision.Classify(ctx, sc.ImageBase64)
		if err == nil {
			sc.ProductType = result.Category
			sc.VisionDescription = result.Description
			fmt.Fprintf(d.out(), "Vision output: %s\n", result.Description)
			return flow.Result{}, nil
		}
		sc.RecordError("vision classification failed, using manual input")
		fmt.Fprintf(d.out(), "Vision classification failed: %v\n", err)
	}

	// A product type already present (e.g. supplied when resuming) stands.
	if sc.ProductType != "" {
		return flow.Result{}, nil
	}

	answer, err := d.Prompter.Ask(manualCategoryQuestion, nil)
	if err != nil {
		if errors.Is(err, prompt.ErrNoInput) {
			return flow.Result{}, flow.Suspend("product_type", manualCategoryQuestion)
		}
		return flow.Result{}, err
	}

	sc.ProductType = strings.ToLower(strings.TrimSpace(answer))
	if sc.Error == "" {
		sc.RecordError("no image provided, using manual category input")
	}
	return flow.Result{}, nil
}

// confirmProductType has the user confirm or correct the detected type.
// A rejection without a correction is a validation error.
func (d *Deps) confirmProductType(ctx context.Context, sc *session.Context) (flow.Result, error) {
	if sc.ProductTypeConfirmed {
		return flow.Result{}, nil
	}

	if sc.ProductType == "" {
		return flow.Result{}, session.Invalid("product_type", "no product type to confirm")
	}

	question := fmt.Sprintf("Detected product type %q. Is that right?", sc.ProductType)
	ok, err := d.Prompter.Confirm(question)
	if err != nil {
		if errors.Is(err, prompt.ErrNoInput) {
			return flow.Result{}, flow.Suspend("product_type_confirmed", question)
		}
		return flow.Result{}, err
	}

	if !ok {
		corrected, err := d.Prompter.Ask("What is the correct product category?", nil)
		if err != nil {
			if errors.Is(err, prompt.ErrNoInput) {
				return flow.Result{}, flow.Suspend("product_type", "What is the correct product category?")
			}
			return flow.Result{}, session.Invalid("product_type", "rejected without a correction: %v", err)
		}
		sc.ProductType = strings.ToLower(strings.TrimSpace(corrected))
	}

	sc.ProductTypeConfirmed = true
	return flow.Result{}, nil
}
