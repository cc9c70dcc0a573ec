// Package stages wires the shopping-assistant pipeline: eleven stages over
// one session context, from image analysis to the session summary.
package stages

import (
	"io"

	"github.com/ziadkadry99/shop-scout/internal/catalog"
	"github.com/ziadkadry99/shop-scout/internal/enrich"
	"github.com/ziadkadry99/shop-scout/internal/feedback"
	"github.com/ziadkadry99/shop-scout/internal/flow"
	"github.com/ziadkadry99/shop-scout/internal/inventory"
	"github.com/ziadkadry99/shop-scout/internal/llm"
	"github.com/ziadkadry99/shop-scout/internal/match"
	"github.com/ziadkadry99/shop-scout/internal/prompt"
	"github.com/ziadkadry99/shop-scout/internal/session"
	"github.com/ziadkadry99/shop-scout/internal/similar"
	"github.com/ziadkadry99/shop-scout/internal/vision"
)

// Stage names. Transport routes and router targets use these.
const (
	ImageAnalysis         = "ImageAnalysis"
	ConfirmProductType    = "ConfirmProductType"
	Clarification         = "Clarification"
	PreferenceEnrichment  = "PreferenceEnrichment"
	ProductRecommendation = "ProductRecommendation"
	InventoryCheck        = "InventoryCheck"
	Confirmation          = "Confirmation"
	CartManager           = "CartManager"
	CaptureFeedback       = "CaptureFeedback"
	FindSimilarProducts   = "FindSimilarProducts"
	SummarizeSession      = "SummarizeSession"
)

// Deps bundles the collaborators the stages delegate to. Catalog, Matcher,
// Prompter, Inventory, and Finder are required; the rest may be nil, in
// which case the owning stage degrades to its fallback path.
type Deps struct {
	Catalog   catalog.Provider
	Matcher   *match.Engine
	Prompter  prompt.Prompter
	Inventory inventory.Checker
	Finder    *similar.Finder

	Vision   vision.Classifier // nil: manual category input only
	Enricher enrich.Enricher   // nil: preferences pass through
	LLM      llm.Provider      // nil: schema questions, no rationale
	Feedback *feedback.Store   // nil: ratings are not persisted

	// Out receives user-facing progress output. nil discards it.
	Out io.Writer
}

func (d *Deps) out() io.Writer {
	if d.Out == nil {
		return io.Discard
	}
	return d.Out
}

// Build assembles the stage graph with the canonical wiring: a linear run
// from ImageAnalysis to SummarizeSession, with CartManager conditionally
// looping back to Clarification.
func Build(d *Deps, opts ...flow.Option) (*flow.Graph, error) {
	return flow.NewBuilder().
		AddStage(ImageAnalysis, d.analyzeImage).
		AddStage(ConfirmProductType, d.confirmProductType).
		AddStage(Clarification, d.clarifyPreferences).
		AddStage(PreferenceEnrichment, d.enrichPreferences).
		AddStage(ProductRecommendation, d.recommendProducts).
		AddStage(InventoryCheck, d.checkInventory).
		AddStage(Confirmation, d.confirmProduct).
		AddStage(CartManager, d.manageCart).
		AddStage(CaptureFeedback, d.captureFeedback).
		AddStage(FindSimilarProducts, d.findSimilarProducts).
		AddStage(SummarizeSession, d.summarizeSession).
		SetEntryPoint(ImageAnalysis).
		AddEdge(ImageAnalysis, ConfirmProductType).
		AddEdge(ConfirmProductType, Clarification).
		AddEdge(Clarification, PreferenceEnrichment).
		AddEdge(PreferenceEnrichment, ProductRecommendation).
		AddEdge(ProductRecommendation, InventoryCheck).
		AddEdge(InventoryCheck, Confirmation).
		AddEdge(Confirmation, CartManager).
		AddConditionalEdge(CartManager, CartRouter, Clarification, CaptureFeedback).
		AddEdge(CaptureFeedback, FindSimilarProducts).
		AddEdge(FindSimilarProducts, SummarizeSession).
		Build(opts...)
}

// CartRouter loops back to Clarification only when the user asked for
// another item. Anything other than an explicit true (including a missing
// flag) advances to feedback capture.
func CartRouter(sc *session.Context) string {
	if sc != nil && sc.AddMore {
		return Clarification
	}
	return CaptureFeedback
}
