package summary

import (
	"strings"
	"testing"

	"github.com/ziadkadry99/shop-scout/internal/catalog"
	"github.com/ziadkadry99/shop-scout/internal/session"
)

func sampleContext() *session.Context {
	rating := 4
	sc := session.New()
	sc.ProductType = "sneakers"
	sc.SetPreference(session.KeyBrand, "nike")
	sc.SetPreference(session.KeyColor, "white")
	sc.Cart = []catalog.Product{
		{ID: 1, Name: "Nike Air Max", Brand: "Nike", Color: "White", Price: 4500},
	}
	sc.Recommendations = []catalog.Product{
		{ID: 2, Name: "Nike Air Force 1", Price: 5200},
	}
	sc.FeedbackRating = &rating
	return sc
}

func TestMarkdown(t *testing.T) {
	got := Markdown(sampleContext())

	for _, want := range []string{
		"# Session Summary",
		"Product type: **sneakers**",
		"- brand: nike",
		"- color: white",
		"Nike Air Max",
		"Nike Air Force 1",
		"Feedback rating: 4/5",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}

	// Preference keys are sorted for deterministic output.
	if strings.Index(got, "- brand:") > strings.Index(got, "- color:") {
		t.Error("expected brand before color")
	}
}

func TestMarkdownEmptySession(t *testing.T) {
	got := Markdown(session.New())
	if !strings.Contains(got, "No matching or similar products found.") {
		t.Errorf("expected the empty note, got:\n%s", got)
	}
}

func TestHTML(t *testing.T) {
	html, err := HTML(sampleContext())
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "Session Summary") {
		t.Errorf("expected a rendered heading, got:\n%s", html)
	}
	if !strings.Contains(html, "<strong>sneakers</strong>") {
		t.Errorf("expected bold product type, got:\n%s", html)
	}
}
