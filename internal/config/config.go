package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents runtime configuration for the service.
type Config struct {
	Server  ServerConfig  `json:"server"`
	LLM     LLMConfig     `json:"llm"`
	Backend BackendConfig `json:"backend"`
	Memory  MemoryConfig  `json:"memory"`
	Log     LogConfig     `json:"log"`
}

type ServerConfig struct {
	Address string `json:"address"`
}

// LLMConfig describes the chat-completions endpoint used for both
// orchestration stages.
type LLMConfig struct {
	BaseURL     string  `json:"base_url"`
	Model       string  `json:"model"`
	APIKey      string  `json:"api_key"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// BackendConfig points at the vault canister HTTP gateway.
type BackendConfig struct {
	BaseURL    string `json:"base_url"`
	CanisterID string `json:"canister_id"`
}

type MemoryConfig struct {
	Retention     int `json:"retention"`
	HistoryWindow int `json:"history_window"`
}

type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

const (
	DefaultServerAddress = ":8001"
	DefaultLLMBaseURL    = "https://api.asi1.ai/v1"
	DefaultLLMModel      = "asi1-mini"
	DefaultTemperature   = 0.7
	DefaultMaxTokens     = 1024
	DefaultRetention     = 50
	DefaultHistoryWindow = 10
)

// Load reads configuration from the provided path (defaults to config.json).
// The LLM API key may be supplied via the ASI1_API_KEY environment variable
// instead of the config file.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.applyDefaults()

	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("backend.base_url must be configured")
	}
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("llm.api_key or ASI1_API_KEY must be configured")
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultServerAddress
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = DefaultLLMBaseURL
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultLLMModel
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = DefaultTemperature
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = DefaultMaxTokens
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("ASI1_API_KEY")
	}
	if c.Memory.Retention <= 0 {
		c.Memory.Retention = DefaultRetention
	}
	if c.Memory.HistoryWindow <= 0 {
		c.Memory.HistoryWindow = DefaultHistoryWindow
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
