package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SHOPSCOUT_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: SHOPSCOUT_PROVIDER -> provider,
	// SHOPSCOUT_SERVER.PORT -> server.port, etc.
	if err := k.Load(env.Provider("SHOPSCOUT_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SHOPSCOUT_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderOllama: true,
	ProviderNone:   true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required (use %q to run without an LLM)", ProviderNone)
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of openai, ollama, none", c.Provider)
	}

	if c.Provider != ProviderNone && c.Model == "" {
		return fmt.Errorf("model is required for provider %q", c.Provider)
	}

	if c.CatalogPath == "" {
		return fmt.Errorf("catalog_path is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	for _, t := range []struct {
		name  string
		value float64
	}{
		{"match.category_threshold", c.Match.CategoryThreshold},
		{"match.brand_threshold", c.Match.BrandThreshold},
		{"match.color_threshold", c.Match.ColorThreshold},
		{"similar_threshold", c.SimilarThreshold},
	} {
		if t.value < 0 || t.value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", t.name)
		}
	}

	if c.CycleLimit <= 0 {
		return fmt.Errorf("cycle_limit must be positive")
	}
	if c.MaxRequestsPerMin < 0 {
		return fmt.Errorf("max_requests_per_min must be non-negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid port")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for the
// API key of the given provider, or "" when none is needed.
func APIKeyEnvVar(provider ProviderType) string {
	if provider == ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return ""
}
