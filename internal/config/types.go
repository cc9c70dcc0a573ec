package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
	ProviderNone   ProviderType = "none"
)

// MatchConfig holds the per-attribute similarity thresholds of the match
// engine.
type MatchConfig struct {
	CategoryThreshold float64 `yaml:"category_threshold" koanf:"category_threshold"`
	BrandThreshold    float64 `yaml:"brand_threshold" koanf:"brand_threshold"`
	ColorThreshold    float64 `yaml:"color_threshold" koanf:"color_threshold"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all" koanf:"allow_all"` // allow all CORS origins (dev mode)
}

// Config is the top-level shopscout configuration, corresponding to
// .shopscout.yml.
type Config struct {
	Provider       ProviderType `yaml:"provider" koanf:"provider"`
	Model          string       `yaml:"model" koanf:"model"`
	VisionModel    string       `yaml:"vision_model" koanf:"vision_model"`
	EmbeddingModel string       `yaml:"embedding_model" koanf:"embedding_model"`

	CatalogPath string `yaml:"catalog_path" koanf:"catalog_path"`
	DataDir     string `yaml:"data_dir" koanf:"data_dir"`

	Match              MatchConfig  `yaml:"match" koanf:"match"`
	SimilarThreshold   float64      `yaml:"similar_threshold" koanf:"similar_threshold"`
	CycleLimit         int          `yaml:"cycle_limit" koanf:"cycle_limit"`
	MaxRequestsPerMin  int          `yaml:"max_requests_per_min" koanf:"max_requests_per_min"`
	InventorySeed      int64        `yaml:"inventory_seed" koanf:"inventory_seed"`
	Server             ServerConfig `yaml:"server" koanf:"server"`
}
