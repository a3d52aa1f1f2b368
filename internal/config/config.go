// Package config loads the engine's runtime configuration from flags,
// environment variables, and an optional .env file, using the
// viper/cobra/godotenv wiring in cmd/root.go.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the fully-resolved runtime configuration for the engine.
type Config struct {
	OutputDirectory string
	ChecklistsDir   string
	LLMAPIKey       string
	LLMProvider     string
	LLMModelID      string

	JMax         int
	FMax         int
	LLMGlobalMax int
	RetryMaxAttempts int
	RetryBaseSeconds float64

	LogLevel  string
	LogFormat string
	LogFile   string
}

// Load reads .env (if present), then binds environment variables and
// viper defaults into a Config, trying a short list of candidate .env
// paths before falling back to the process environment alone.
func Load() Config {
	for _, candidate := range []string{".env", "../.env"} {
		if err := godotenv.Load(candidate); err == nil {
			break
		}
	}

	v := viper.GetViper()
	v.AutomaticEnv()

	v.SetDefault("OUTPUT_DIRECTORY", "./output")
	v.SetDefault("CHECKLISTS_DIR", "")
	v.SetDefault("LLM_PROVIDER", "anthropic")
	v.SetDefault("LLM_MODEL_ID", "")
	v.SetDefault("J_MAX", 4)
	v.SetDefault("F_MAX", 8)
	v.SetDefault("LLM_GLOBAL_MAX", 100)
	v.SetDefault("RETRY_MAX_ATTEMPTS", 3)
	v.SetDefault("RETRY_BASE_SECONDS", 1.0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_FILE", "")

	outputDir := v.GetString("OUTPUT_DIRECTORY")
	if abs, err := filepath.Abs(outputDir); err == nil {
		outputDir = abs
	}

	return Config{
		OutputDirectory:  outputDir,
		ChecklistsDir:    v.GetString("CHECKLISTS_DIR"),
		LLMAPIKey:        firstNonEmpty(v.GetString("LLM_API_KEY"), os.Getenv("ANTHROPIC_API_KEY"), os.Getenv("OPENAI_API_KEY")),
		LLMProvider:      v.GetString("LLM_PROVIDER"),
		LLMModelID:       v.GetString("LLM_MODEL_ID"),
		JMax:             v.GetInt("J_MAX"),
		FMax:             v.GetInt("F_MAX"),
		LLMGlobalMax:     v.GetInt("LLM_GLOBAL_MAX"),
		RetryMaxAttempts: v.GetInt("RETRY_MAX_ATTEMPTS"),
		RetryBaseSeconds: v.GetFloat64("RETRY_BASE_SECONDS"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        v.GetString("LOG_FORMAT"),
		LogFile:          v.GetString("LOG_FILE"),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
