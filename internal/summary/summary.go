package summary

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ziadkadry99/shop-scout/internal/session"
)

// Markdown renders the end-of-session summary as markdown: preferences,
// cart contents, remaining recommendations, and the feedback rating.
func Markdown(sc *session.Context) string {
	var b strings.Builder

	b.WriteString("# Session Summary\n\n")

	if sc.ProductType != "" {
		fmt.Fprintf(&b, "Product type: **%s**\n\n", sc.ProductType)
	}

	if len(sc.Preferences) > 0 {
		b.WriteString("## Preferences\n\n")
		keys := make([]string, 0, len(sc.Preferences))
		for k := range sc.Preferences {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", k, sc.Preferences[k])
		}
		b.WriteString("\n")
	}

	if len(sc.Cart) > 0 {
		b.WriteString("## Cart\n\n")
		for _, p := range sc.Cart {
			fmt.Fprintf(&b, "- %s (%s, %s) — %.0f\n", p.Name, p.Brand, p.Color, p.Price)
		}
		b.WriteString("\n")
	}

	if len(sc.Recommendations) > 0 {
		b.WriteString("## Recommended products\n\n")
		for _, p := range sc.Recommendations {
			fmt.Fprintf(&b, "- %s — %.0f\n", p.Name, p.Price)
		}
		b.WriteString("\n")
	} else if len(sc.Cart) == 0 {
		b.WriteString("No matching or similar products found.\n\n")
	}

	if sc.FeedbackRating != nil {
		fmt.Fprintf(&b, "Feedback rating: %d/5\n", *sc.FeedbackRating)
	}

	return b.String()
}

// md is the shared goldmark instance for summary rendering.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// HTML renders the session summary to HTML for the web surface.
func HTML(sc *session.Context) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(sc)), &buf); err != nil {
		return "", fmt.Errorf("rendering summary: %w", err)
	}
	return buf.String(), nil
}
