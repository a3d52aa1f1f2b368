// Package vertexadapter adapts Google's genai SDK (Vertex/Gemini) to
// llmtypes.Model. It is a cross-provider fallback chosen at startup when
// the Anthropic and Bedrock providers both fail to initialize.
package vertexadapter

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/Phat0101/clearai-audit/internal/llmtypes"
	"github.com/Phat0101/clearai-audit/internal/logging"
)

// Adapter implements llmtypes.Model using google.golang.org/genai.
type Adapter struct {
	client  *genai.Client
	modelID string
	logger  logging.Logger
}

// New creates an adapter bound to modelID.
func New(client *genai.Client, modelID string, logger logging.Logger) *Adapter {
	return &Adapter{client: client, modelID: modelID, logger: logger}
}

func (g *Adapter) GenerateContent(ctx context.Context, messages []llmtypes.MessageContent, options ...llmtypes.CallOption) (*llmtypes.ContentResponse, error) {
	opts := &llmtypes.CallOptions{}
	for _, opt := range options {
		opt(opts)
	}

	modelID := g.modelID
	if opts.Model != "" {
		modelID = opts.Model
	}

	contents := make([]*genai.Content, 0, len(messages))
	var systemParts []*genai.Part

	for _, msg := range messages {
		parts := convertParts(msg.Parts)
		if msg.Role == llmtypes.ChatMessageTypeSystem {
			systemParts = append(systemParts, parts...)
			continue
		}
		role := genai.RoleUser
		if msg.Role == llmtypes.ChatMessageTypeAI {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}

	config := &genai.GenerateContentConfig{}
	if opts.TemperatureSet {
		temp := float32(opts.Temperature)
		config.Temperature = &temp
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if len(systemParts) > 0 {
		config.SystemInstruction = &genai.Content{Parts: systemParts}
	}
	if opts.JSONMode {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, modelID, contents, config)
	if err != nil {
		g.logger.Warnf("vertex generate_content failed for model %s: %v", modelID, err)
		return nil, fmt.Errorf("vertex generate_content: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("vertex returned no candidates")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		text += part.Text
	}

	usage := &llmtypes.Usage{}
	if resp.UsageMetadata != nil {
		usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &llmtypes.ContentResponse{
		Choices: []*llmtypes.ContentChoice{
			{Content: text, StopReason: string(resp.Candidates[0].FinishReason), Usage: usage},
		},
	}, nil
}

func convertParts(parts []llmtypes.ContentPart) []*genai.Part {
	out := make([]*genai.Part, 0, len(parts))
	for _, part := range parts {
		switch p := part.(type) {
		case llmtypes.TextContent:
			out = append(out, genai.NewPartFromText(p.Text))
		case llmtypes.DocumentContent:
			if p.Label != "" {
				out = append(out, genai.NewPartFromText(p.Label+":"))
			}
			out = append(out, genai.NewPartFromBytes(p.Data, "application/pdf"))
		}
	}
	return out
}
