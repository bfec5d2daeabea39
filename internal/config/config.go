// Package config reads runtime settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/olehluchkiv/gosummary/internal/diagram"
	"github.com/olehluchkiv/gosummary/internal/llm"
)

const (
	DefaultLLMEndpoint = "https://api.groq.com/openai/v1"
	DefaultLLMModel    = "mixtral-8x7b-32768"
	DefaultDBPath      = "users.db"
)

// Config is the resolved application configuration.
type Config struct {
	LLM         llm.Config
	DBPath      string
	Renderer    string
	TTSEndpoint string
}

// LogValue keeps secrets out of logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("llm", c.LLM),
		slog.String("db", c.DBPath),
		slog.String("renderer", c.Renderer),
		slog.String("tts_endpoint", c.TTSEndpoint),
	)
}

// Load reads envFile (if it exists) into the process environment without
// overriding variables that are already set, then resolves Config.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	apiKey := os.Getenv("GOSUMMARY_LLM_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
	}

	cfg := Config{
		LLM: llm.Config{
			Endpoint:    getenv("GOSUMMARY_LLM_ENDPOINT", DefaultLLMEndpoint),
			APIKey:      apiKey,
			Model:       getenv("GOSUMMARY_LLM_MODEL", DefaultLLMModel),
			Timeout:     60 * time.Second,
			Temperature: 0.3,
		},
		DBPath:      getenv("GOSUMMARY_DB", DefaultDBPath),
		Renderer:    getenv("GOSUMMARY_RENDERER", diagram.KindAuto),
		TTSEndpoint: os.Getenv("GOSUMMARY_TTS_ENDPOINT"),
	}
	return cfg, nil
}

// RequireLLM reports a missing API key.
func (c Config) RequireLLM() error {
	if c.LLM.APIKey == "" {
		return errors.New("GOSUMMARY_LLM_API_KEY (or GROQ_API_KEY) environment variable is required")
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
