package config

// DefaultConfigFile is the conventional config file name.
const DefaultConfigFile = ".shopscout.yml"

// DefaultConfig returns the configuration used when no file or overrides
// are present.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderNone,
		Model:          "gpt-4o-mini",
		VisionModel:    "gpt-4o-mini",
		EmbeddingModel: "text-embedding-3-small",
		CatalogPath:    "catalog.json",
		DataDir:        ".shopscout",
		Match: MatchConfig{
			CategoryThreshold: 0.75,
			BrandThreshold:    0.75,
			ColorThreshold:    0.75,
		},
		SimilarThreshold:  0.6,
		CycleLimit:        50,
		MaxRequestsPerMin: 30,
		InventorySeed:     0,
		Server: ServerConfig{
			Port: 8099,
		},
	}
}
