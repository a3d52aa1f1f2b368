// Package bedrockadapter adapts AWS Bedrock's Anthropic-compatible
// InvokeModel API to llmtypes.Model. It is the fallback multimodal
// provider chosen at startup when the Anthropic provider fails to
// initialize.
package bedrockadapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/Phat0101/clearai-audit/internal/llmtypes"
	"github.com/Phat0101/clearai-audit/internal/logging"
)

// Adapter implements llmtypes.Model via bedrockruntime.InvokeModel using
// the Claude Messages request body shape.
type Adapter struct {
	client  *bedrockruntime.Client
	modelID string
	logger  logging.Logger
}

// New creates an adapter bound to modelID (a Bedrock inference profile ARN
// or model ID such as "anthropic.claude-3-5-sonnet-20241022-v2:0").
func New(client *bedrockruntime.Client, modelID string, logger logging.Logger) *Adapter {
	return &Adapter{client: client, modelID: modelID, logger: logger}
}

func (b *Adapter) GenerateContent(ctx context.Context, messages []llmtypes.MessageContent, options ...llmtypes.CallOption) (*llmtypes.ContentResponse, error) {
	opts := &llmtypes.CallOptions{}
	for _, opt := range options {
		opt(opts)
	}

	modelID := b.modelID
	if opts.Model != "" {
		modelID = opts.Model
	}

	claudeMessages, system := convertMessages(messages)

	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = 8192
	}

	body := map[string]interface{}{
		"anthropic_version": "bedrock-2023-05-31",
		"messages":          claudeMessages,
		"max_tokens":        maxTokens,
	}
	if opts.TemperatureSet {
		body["temperature"] = opts.Temperature
	}
	if opts.JSONMode {
		instruction := "You must respond with a single valid JSON object and no other text."
		if opts.JSONSchema != "" {
			instruction += " The object must validate against this JSON Schema:\n" + opts.JSONSchema
		}
		if system != "" {
			system += "\n\n" + instruction
		} else {
			system = instruction
		}
	}
	if system != "" {
		body["system"] = system
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal bedrock request: %w", err)
	}

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Body:        payload,
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		b.logger.Warnf("bedrock invoke failed for model %s: %v", modelID, err)
		return nil, fmt.Errorf("bedrock invoke: %w", err)
	}

	var resp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		StopReason string `json:"stop_reason"`
		Usage      struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal bedrock response: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return &llmtypes.ContentResponse{
		Choices: []*llmtypes.ContentChoice{
			{
				Content:    text,
				StopReason: resp.StopReason,
				Usage: &llmtypes.Usage{
					InputTokens:  resp.Usage.InputTokens,
					OutputTokens: resp.Usage.OutputTokens,
					TotalTokens:  resp.Usage.InputTokens + resp.Usage.OutputTokens,
				},
			},
		},
	}, nil
}

// convertMessages builds the Claude Messages body's "messages" array plus
// an extracted system string, translating DocumentContent into base64 PDF
// source blocks understood by Claude-on-Bedrock.
func convertMessages(messages []llmtypes.MessageContent) ([]map[string]interface{}, string) {
	var out []map[string]interface{}
	var system string

	for _, msg := range messages {
		if msg.Role == llmtypes.ChatMessageTypeSystem {
			for _, part := range msg.Parts {
				if t, ok := part.(llmtypes.TextContent); ok {
					system = t.Text
				}
			}
			continue
		}

		var content []map[string]interface{}
		for _, part := range msg.Parts {
			switch p := part.(type) {
			case llmtypes.TextContent:
				content = append(content, map[string]interface{}{"type": "text", "text": p.Text})
			case llmtypes.DocumentContent:
				if p.Label != "" {
					content = append(content, map[string]interface{}{"type": "text", "text": p.Label + ":"})
				}
				content = append(content, map[string]interface{}{
					"type": "document",
					"source": map[string]interface{}{
						"type":       "base64",
						"media_type": "application/pdf",
						"data":       base64.StdEncoding.EncodeToString(p.Data),
					},
				})
			}
		}

		role := "user"
		if msg.Role == llmtypes.ChatMessageTypeAI {
			role = "assistant"
		}
		out = append(out, map[string]interface{}{"role": role, "content": content})
	}

	return out, system
}
