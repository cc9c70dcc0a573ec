package session

import (
	"strings"
	"testing"

	"github.com/ziadkadry99/shop-scout/internal/catalog"
)

func TestNewAssignsID(t *testing.T) {
	a, b := New(), New()
	if a.ID == "" || b.ID == "" {
		t.Fatal("expected non-empty session ids")
	}
	if a.ID == b.ID {
		t.Fatal("expected unique session ids")
	}
	if a.Preferences == nil {
		t.Fatal("expected an initialized preferences map")
	}
}

func TestCloneIsDeep(t *testing.T) {
	rating := 4
	orig := New()
	orig.SetPreference(KeyBrand, "nike")
	orig.Recommendations = []catalog.Product{{ID: 1, Name: "Nike Air Max"}}
	orig.Cart = []catalog.Product{{ID: 2}}
	orig.InventoryStatus = map[int]bool{1: true}
	orig.ConfirmedProduct = &catalog.Product{ID: 1}
	orig.FeedbackRating = &rating

	cp := orig.Clone()
	cp.SetPreference(KeyBrand, "adidas")
	cp.Recommendations[0].Name = "changed"
	cp.InventoryStatus[1] = false
	cp.ConfirmedProduct.ID = 99
	*cp.FeedbackRating = 1

	if orig.Preference(KeyBrand) != "nike" {
		t.Error("clone shares the preferences map")
	}
	if orig.Recommendations[0].Name != "Nike Air Max" {
		t.Error("clone shares the recommendations slice")
	}
	if !orig.InventoryStatus[1] {
		t.Error("clone shares the inventory map")
	}
	if orig.ConfirmedProduct.ID != 1 {
		t.Error("clone shares the confirmed product")
	}
	if *orig.FeedbackRating != 4 {
		t.Error("clone shares the feedback rating")
	}
}

func TestSetPreferenceOnZeroValue(t *testing.T) {
	var c Context
	c.SetPreference(KeyColor, "white")
	if c.Preference(KeyColor) != "white" {
		t.Fatal("expected SetPreference to initialize the map")
	}
}

func TestMergePreferenceDoesNotOverwrite(t *testing.T) {
	c := New()
	c.SetPreference(KeyBrand, "nike")

	if c.MergePreference(KeyBrand, "adidas") {
		t.Error("expected merge to refuse an existing key")
	}
	if c.Preference(KeyBrand) != "nike" {
		t.Errorf("expected the user value to survive, got %q", c.Preference(KeyBrand))
	}

	if !c.MergePreference(KeyMaterial, "mesh") {
		t.Error("expected merge to write a new key")
	}
	if c.Preference(KeyMaterial) != "mesh" {
		t.Errorf("expected mesh, got %q", c.Preference(KeyMaterial))
	}
}

func TestAddToCartGrows(t *testing.T) {
	c := New()
	c.AddToCart(catalog.Product{ID: 1})
	c.AddToCart(catalog.Product{ID: 2})
	if len(c.Cart) != 2 || c.Cart[0].ID != 1 || c.Cart[1].ID != 2 {
		t.Fatalf("unexpected cart: %+v", c.Cart)
	}
}

func TestKeyForQuestionHints(t *testing.T) {
	tests := []struct {
		question string
		want     string
	}{
		{"What brand of sneakers are you interested in?", KeyBrand},
		{"What is your preferred color?", KeyColor},
		{"What's your budget?", KeyPriceRange},
		{"What is your price range? (e.g., 0-5000)", KeyPriceRange},
		{"What size do you wear?", KeySize},
		{"Do you prefer paperback or hardcover?", KeyFormat},
		{"Any specific author or title in mind?", KeyAuthorOrTitle},
	}
	for _, tt := range tests {
		if got := KeyForQuestion(tt.question); got != tt.want {
			t.Errorf("KeyForQuestion(%q) = %q, want %q", tt.question, got, tt.want)
		}
	}
}

func TestKeyForQuestionGenerated(t *testing.T) {
	q := "Would you like gift wrapping?"
	first := KeyForQuestion(q)
	if !strings.HasPrefix(first, "q_") {
		t.Fatalf("expected a generated key, got %q", first)
	}
	if second := KeyForQuestion(q); second != first {
		t.Errorf("expected a deterministic key, got %q then %q", first, second)
	}
	if other := KeyForQuestion("Do you need batteries included?"); other == first {
		t.Error("expected distinct questions to get distinct keys")
	}
}
