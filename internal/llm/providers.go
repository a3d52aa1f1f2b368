// Package llm initializes provider adapters and dispatches between them.
// The engine talks to providers exclusively through llmtypes.Model; this
// package is the only place that imports a provider SDK's client
// constructor.
package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"google.golang.org/genai"

	"github.com/Phat0101/clearai-audit/internal/llm/anthropicadapter"
	"github.com/Phat0101/clearai-audit/internal/llm/bedrockadapter"
	"github.com/Phat0101/clearai-audit/internal/llm/openaiadapter"
	"github.com/Phat0101/clearai-audit/internal/llm/vertexadapter"
	"github.com/Phat0101/clearai-audit/internal/llmtypes"
	"github.com/Phat0101/clearai-audit/internal/logging"
)

// Provider identifies a multimodal LLM backend.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderBedrock    Provider = "bedrock"
	ProviderOpenAI     Provider = "openai"
	ProviderVertex     Provider = "vertex"
)

// Config configures a single provider's initialization.
type Config struct {
	Provider    Provider
	ModelID     string
	Temperature float64
	Logger      logging.Logger
}

// Initialize creates the llmtypes.Model for the configured provider.
func Initialize(ctx context.Context, config Config) (llmtypes.Model, error) {
	switch config.Provider {
	case ProviderAnthropic:
		return initializeAnthropic(config)
	case ProviderBedrock:
		return initializeBedrock(ctx, config)
	case ProviderOpenAI:
		return initializeOpenAI(config)
	case ProviderVertex:
		return initializeVertex(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", config.Provider)
	}
}

func initializeAnthropic(config Config) (llmtypes.Model, error) {
	apiKey := os.Getenv("LLM_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY (or ANTHROPIC_API_KEY) is required for the anthropic provider")
	}

	modelID := config.ModelID
	if modelID == "" {
		modelID = "claude-3-5-sonnet-20241022"
	}

	client := anthropic.NewClient(anthropicoption.WithAPIKey(apiKey))
	config.Logger.Infof("initialized anthropic provider with model %s", modelID)
	return anthropicadapter.New(client, modelID, config.Logger), nil
}

func initializeBedrock(ctx context.Context, config Config) (llmtypes.Model, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := bedrockruntime.NewFromConfig(cfg)

	modelID := config.ModelID
	if modelID == "" {
		modelID = "us.anthropic.claude-3-5-sonnet-20241022-v2:0"
	}

	config.Logger.Infof("initialized bedrock provider with model %s in region %s", modelID, region)
	return bedrockadapter.New(client, modelID, config.Logger), nil
}

func initializeOpenAI(config Config) (llmtypes.Model, error) {
	apiKey := os.Getenv("LLM_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY (or OPENAI_API_KEY) is required for the openai provider")
	}

	modelID := config.ModelID
	if modelID == "" {
		modelID = "gpt-4.1"
	}

	client := openaisdk.NewClient(option.WithAPIKey(apiKey))
	config.Logger.Infof("initialized openai provider with model %s", modelID)
	return openaiadapter.New(&client, modelID, config.Logger), nil
}

func initializeVertex(ctx context.Context, config Config) (llmtypes.Model, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendVertexAI})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	modelID := config.ModelID
	if modelID == "" {
		modelID = "gemini-2.0-flash"
	}

	config.Logger.Infof("initialized vertex provider with model %s", modelID)
	return vertexadapter.New(client, modelID, config.Logger), nil
}

// DefaultFallbackModels returns a provider's model IDs in preference
// order. Initialize does not consult this list; it uses Config.ModelID or
// the provider's built-in default model.
func DefaultFallbackModels(provider Provider) []string {
	switch provider {
	case ProviderAnthropic:
		return []string{"claude-3-5-sonnet-20241022", "claude-3-5-haiku-20241022"}
	case ProviderBedrock:
		return []string{"us.anthropic.claude-3-5-sonnet-20241022-v2:0", "us.anthropic.claude-3-haiku-20240307-v1:0"}
	case ProviderOpenAI:
		return []string{"gpt-4.1", "gpt-4o"}
	case ProviderVertex:
		return []string{"gemini-2.0-flash", "gemini-1.5-pro"}
	default:
		return nil
	}
}

// CrossProviderFallback returns the provider to fall over to when a
// provider fails to initialize.
func CrossProviderFallback(provider Provider) (Provider, bool) {
	switch provider {
	case ProviderAnthropic:
		return ProviderBedrock, true
	case ProviderBedrock:
		return ProviderVertex, true
	case ProviderOpenAI:
		return ProviderAnthropic, true
	default:
		return "", false
	}
}
