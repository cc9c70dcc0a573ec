package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ziadkadry99/shop-scout/internal/catalog"
	"github.com/ziadkadry99/shop-scout/internal/config"
	"github.com/ziadkadry99/shop-scout/internal/db"
	"github.com/ziadkadry99/shop-scout/internal/embeddings"
	"github.com/ziadkadry99/shop-scout/internal/enrich"
	"github.com/ziadkadry99/shop-scout/internal/feedback"
	"github.com/ziadkadry99/shop-scout/internal/inventory"
	"github.com/ziadkadry99/shop-scout/internal/llm"
	"github.com/ziadkadry99/shop-scout/internal/match"
	"github.com/ziadkadry99/shop-scout/internal/similar"
	"github.com/ziadkadry99/shop-scout/internal/stages"
	"github.com/ziadkadry99/shop-scout/internal/vision"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `shopscout init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openDatabase opens (or creates) the sqlite database under the data dir.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", cfg.DataDir, err)
	}
	return db.Open(filepath.Join(cfg.DataDir, "shopscout.db"))
}

// catalogProvider prefers the imported sqlite catalog and falls back to the
// JSON file when nothing has been imported yet.
func catalogProvider(ctx context.Context, database *db.DB, cfg *config.Config) catalog.Provider {
	store := catalog.NewStore(database)
	if n, err := store.Count(ctx); err == nil && n > 0 {
		if verbose {
			fmt.Fprintf(os.Stderr, "Using imported catalog (%d products)\n", n)
		}
		return store
	}
	return catalog.NewFileProvider(cfg.CatalogPath)
}

// createLLMFromConfig creates the configured LLM provider, rate limited per
// config. Returns nil when the provider is "none".
func createLLMFromConfig(cfg *config.Config) (llm.Provider, error) {
	if cfg.Provider == config.ProviderNone {
		return nil, nil
	}
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	if cfg.MaxRequestsPerMin > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.MaxRequestsPerMin)
	}
	return provider, nil
}

// createEmbedderFromConfig returns an embedder for semantic similarity, or
// nil when no API key is available. A nil embedder degrades the similar
// products stage to fuzzy name matching.
func createEmbedderFromConfig(cfg *config.Config) embeddings.Embedder {
	apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
	if apiKey == "" {
		return nil
	}
	return embeddings.NewOpenAIEmbedder(apiKey, cfg.EmbeddingModel)
}

// buildDeps assembles the stage collaborators from the config. The prompter
// and output writer are left to the caller.
func buildDeps(ctx context.Context, cfg *config.Config, database *db.DB) (stages.Deps, error) {
	provider, err := createLLMFromConfig(cfg)
	if err != nil {
		return stages.Deps{}, err
	}

	finder, err := similar.NewFinder(createEmbedderFromConfig(cfg), cfg.SimilarThreshold)
	if err != nil {
		return stages.Deps{}, fmt.Errorf("creating similarity finder: %w", err)
	}

	deps := stages.Deps{
		Catalog: catalogProvider(ctx, database, cfg),
		Matcher: match.NewEngine(match.Thresholds{
			Category: cfg.Match.CategoryThreshold,
			Brand:    cfg.Match.BrandThreshold,
			Color:    cfg.Match.ColorThreshold,
		}),
		Inventory: inventory.NewSimulatedChecker(cfg.InventorySeed),
		Finder:    finder,
		LLM:       provider,
		Feedback:  feedback.NewStore(database),
	}

	if provider != nil {
		deps.Enricher = enrich.NewLLMEnricher(provider)
	}

	if cfg.Provider == config.ProviderOpenAI {
		if apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI)); apiKey != "" {
			deps.Vision = vision.NewOpenAIClassifier(apiKey, cfg.VisionModel)
		} else if verbose {
			fmt.Fprintf(os.Stderr, "Warning: %s not set; image analysis falls back to manual input\n",
				config.APIKeyEnvVar(config.ProviderOpenAI))
		}
	}

	return deps, nil
}
