package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/Phat0101/clearai-audit/internal/config"
	"github.com/Phat0101/clearai-audit/internal/engine"
	"github.com/Phat0101/clearai-audit/internal/llm"
	"github.com/Phat0101/clearai-audit/internal/llmtypes"
	"github.com/Phat0101/clearai-audit/internal/logging"
)

// retryPolicyFromConfig builds C9's retry envelope from resolved config.
func retryPolicyFromConfig(cfg config.Config) engine.RetryPolicy {
	return engine.RetryPolicy{
		MaxAttempts: cfg.RetryMaxAttempts,
		BaseDelay:   time.Duration(cfg.RetryBaseSeconds * float64(time.Second)),
		Jitter:      true,
	}
}

// buildLogger constructs the shared Logger from resolved config using the
// standard factory conventions.
func buildLogger(cfg config.Config) (logging.Logger, error) {
	return logging.New(cfg.LogFile, cfg.LogLevel, cfg.LogFormat, true)
}

// buildModel initializes the configured provider, falling over to the
// cross-provider fallback chain (internal/llm.CrossProviderFallback) if
// the primary provider fails to initialize, e.g. for a missing
// credential. This is an init-time fallback only: during a run there is no
// per-call provider fallback, and C9's retry policy retries the same model.
func buildModel(ctx context.Context, cfg config.Config, logger logging.Logger) (llmtypes.Model, error) {
	provider := llm.Provider(cfg.LLMProvider)
	tried := make(map[llm.Provider]bool)

	for {
		if tried[provider] {
			break
		}
		tried[provider] = true

		model, err := llm.Initialize(ctx, llm.Config{
			Provider:    provider,
			ModelID:     cfg.LLMModelID,
			Temperature: 0,
			Logger:      logger,
		})
		if err == nil {
			return model, nil
		}

		logger.Warnf("provider %s failed to initialize: %v", provider, err)
		next, ok := llm.CrossProviderFallback(provider)
		if !ok {
			return nil, fmt.Errorf("no LLM provider could be initialized, last error: %w", err)
		}
		provider = next
	}

	return nil, fmt.Errorf("LLM provider %s could not be initialized", cfg.LLMProvider)
}
