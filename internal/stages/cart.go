package stages

import (
	"context"
	"errors"
	"fmt"

	"github.com/ziadkadry99/shop-scout/internal/flow"
	"github.com/ziadkadry99/shop-scout/internal/prompt"
	"github.com/ziadkadry99/shop-scout/internal/session"
)

const refineOption = "Refine preferences"

// confirmProduct has the user pick one of the in-stock recommendations, or
// refine, which clears the pending confirmation and jumps back to
// clarification.
func (d *Deps) confirmProduct(ctx context.Context, sc *session.Context) (flow.Result, error) {
	if len(sc.Recommendations) == 0 {
		sc.ConfirmedProduct = nil
		return flow.Result{}, nil
	}

	items := make([]string, 0, len(sc.Recommendations)+1)
	for _, p := range sc.Recommendations {
		items = append(items, fmt.Sprintf("%s | %s | %.0f | %s", p.Name, p.Brand, p.Price, p.Color))
	}
	items = append(items, refineOption)

	choice, err := d.Prompter.Select("Confirm which of these products you want", items)
	if err != nil {
		if errors.Is(err, prompt.ErrNoInput) {
			return flow.Result{}, flow.Suspend("confirmed_product",
				fmt.Sprintf("Pick a product (1-%d) or refine", len(sc.Recommendations)))
		}
		return flow.Result{}, session.Invalid("confirmed_product", "%v", err)
	}

	if choice == len(sc.Recommendations) {
		sc.ConfirmedProduct = nil
		return flow.Result{Next: Clarification}, nil
	}
	if choice < 0 || choice > len(sc.Recommendations) {
		return flow.Result{}, session.Invalid("confirmed_product",
			"selection must be between 1 and %d", len(sc.Recommendations))
	}

	chosen := sc.Recommendations[choice]
	sc.ConfirmedProduct = &chosen
	fmt.Fprintf(d.out(), "Confirmed: %s (ID: %d)\n", chosen.Name, chosen.ID)
	return flow.Result{}, nil
}

// manageCart appends the confirmed product to the cart and asks whether to
// add another item; the cart router then loops or advances accordingly.
func (d *Deps) manageCart(ctx context.Context, sc *session.Context) (flow.Result, error) {
	if sc.ConfirmedProduct != nil {
		sc.AddToCart(*sc.ConfirmedProduct)
		fmt.Fprintf(d.out(), "Added to cart: %s (%.0f)\n", sc.ConfirmedProduct.Name, sc.ConfirmedProduct.Price)
		sc.ConfirmedProduct = nil
	}

	more, err := d.Prompter.Confirm("Would you like to add another item?")
	if err != nil {
		if errors.Is(err, prompt.ErrNoInput) {
			return flow.Result{}, flow.Suspend("add_more", "Would you like to add another item? (yes/no)")
		}
		return flow.Result{}, err
	}

	sc.AddMore = more
	return flow.Result{}, nil
}
