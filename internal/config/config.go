package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FetcherConfig configures URL loading.
type FetcherConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs"`
	UserAgent   string `yaml:"user_agent"`
	MaxURLs     int    `yaml:"max_urls"`
}

// ChunkerConfig configures how article text is split into chunks.
// ChunkOverlap is a pointer so an explicit 0 survives defaulting.
type ChunkerConfig struct {
	ChunkSize    int  `yaml:"chunk_size"`
	ChunkOverlap *int `yaml:"chunk_overlap"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// TFIDFEmbedderConfig holds configuration for the offline TF-IDF embedder.
type TFIDFEmbedderConfig struct {
	ModelPath string `yaml:"model_path"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
	TFIDF  *TFIDFEmbedderConfig  `yaml:"tfidf,omitempty"`
}

// CallConfig holds per-call-site language model settings. Question
// generation and answering are configured independently. Temperature
// is a pointer so an explicit 0.0 survives defaulting.
type CallConfig struct {
	Temperature *float32 `yaml:"temperature"`
	MaxTokens   int      `yaml:"max_tokens"`
}

// LLMConfig configures the OpenAI-compatible completion client.
type LLMConfig struct {
	BaseURL     string     `yaml:"base_url"`
	APIKeyEnv   string     `yaml:"api_key_env"`
	Model       string     `yaml:"model"`
	TimeoutSecs int        `yaml:"timeout_secs"`
	Generation  CallConfig `yaml:"generation"`
	Answer      CallConfig `yaml:"answer"`
}

// IndexConfig configures the persisted vector index.
type IndexConfig struct {
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	TopK       int    `yaml:"top_k"`
}

// QuestionsConfig configures suggested question generation.
type QuestionsConfig struct {
	Count        int `yaml:"count"`
	SampleSize   int `yaml:"sample_size"`
	SnippetChars int `yaml:"snippet_chars"`
	MinLength    int `yaml:"min_length"`
}

// SummaryConfig configures the post-build content digest.
type SummaryConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Fetcher   FetcherConfig   `yaml:"fetcher"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	LLM       LLMConfig       `yaml:"llm"`
	Index     IndexConfig     `yaml:"index"`
	Questions QuestionsConfig `yaml:"questions"`
	Summary   SummaryConfig   `yaml:"summary"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/newsrag/config.yaml.
// If neither exists, it writes defaults to ~/.config/newsrag/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "newsrag", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Fetcher.TimeoutSecs == 0 {
		cfg.Fetcher.TimeoutSecs = 30
	}
	if cfg.Fetcher.UserAgent == "" {
		cfg.Fetcher.UserAgent = "newsrag/1.0"
	}
	if cfg.Fetcher.MaxURLs == 0 {
		cfg.Fetcher.MaxURLs = 3
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 1000
	}
	if cfg.Chunker.ChunkOverlap == nil {
		overlap := 250
		cfg.Chunker.ChunkOverlap = &overlap
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "openai"
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.Embedder.Type == "tfidf" {
		if cfg.Embedder.TFIDF == nil {
			cfg.Embedder.TFIDF = &TFIDFEmbedderConfig{}
		}
		if cfg.Embedder.TFIDF.ModelPath == "" {
			cfg.Embedder.TFIDF.ModelPath = "tfidf_model.json"
		}
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = 60
	}
	if cfg.LLM.Generation.Temperature == nil {
		temp := float32(0.8)
		cfg.LLM.Generation.Temperature = &temp
	}
	if cfg.LLM.Generation.MaxTokens == 0 {
		cfg.LLM.Generation.MaxTokens = 600
	}
	if cfg.LLM.Answer.Temperature == nil {
		temp := float32(0.2)
		cfg.LLM.Answer.Temperature = &temp
	}
	if cfg.LLM.Answer.MaxTokens == 0 {
		cfg.LLM.Answer.MaxTokens = 500
	}
	if cfg.Index.Path == "" {
		cfg.Index.Path = "embeddings_folder"
	}
	if cfg.Index.Collection == "" {
		cfg.Index.Collection = "articles"
	}
	if cfg.Index.TopK == 0 {
		cfg.Index.TopK = 4
	}
	if cfg.Questions.Count == 0 {
		cfg.Questions.Count = 10
	}
	if cfg.Questions.SampleSize == 0 {
		cfg.Questions.SampleSize = 8
	}
	if cfg.Questions.SnippetChars == 0 {
		cfg.Questions.SnippetChars = 800
	}
	if cfg.Questions.MinLength == 0 {
		cfg.Questions.MinLength = 15
	}
	if cfg.Summary.MaxSentences == 0 {
		cfg.Summary.MaxSentences = 3
	}
}
