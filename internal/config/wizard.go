package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .shopscout.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to shopscout! Let's configure your assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider (none = mock questions, no vision)",
		Items: []string{"openai", "ollama", "none"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)

	if cfg.Provider != ProviderNone {
		modelPrompt := promptui.Prompt{
			Label:   "Model",
			Default: cfg.Model,
		}
		model, err := modelPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("model: %w", err)
		}
		cfg.Model = model
	}

	if envVar := APIKeyEnvVar(cfg.Provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("Note: %s is not set; vision and enrichment will fall back to manual input.\n", envVar)
	}

	// 2. Catalog location.
	catalogPrompt := promptui.Prompt{
		Label:   "Catalog JSON file",
		Default: cfg.CatalogPath,
	}
	catalogPath, err := catalogPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("catalog path: %w", err)
	}
	cfg.CatalogPath = catalogPath

	// 3. Fuzzy match strictness.
	strictnessPrompt := promptui.Select{
		Label: "Fuzzy match strictness",
		Items: []string{
			"strict  — close matches only (0.75)",
			"relaxed — tolerate heavier typos (0.6)",
		},
	}
	strictIdx, _, err := strictnessPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("strictness: %w", err)
	}
	if strictIdx == 1 {
		cfg.Match = MatchConfig{CategoryThreshold: 0.6, BrandThreshold: 0.6, ColorThreshold: 0.6}
	}

	// 4. Server port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a valid port")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(DefaultConfigFile); err != nil {
		return nil, err
	}

	fmt.Printf("\nSaved %s\n", DefaultConfigFile)
	return cfg, nil
}
