// Package openaiadapter adapts the OpenAI Go SDK to llmtypes.Model.
package openaiadapter

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/shared"

	"github.com/Phat0101/clearai-audit/internal/llmtypes"
	"github.com/Phat0101/clearai-audit/internal/logging"
)

// Adapter implements llmtypes.Model using the OpenAI chat completions API.
type Adapter struct {
	client  *openai.Client
	modelID string
	logger  logging.Logger
}

// New creates an adapter bound to modelID.
func New(client *openai.Client, modelID string, logger logging.Logger) *Adapter {
	return &Adapter{client: client, modelID: modelID, logger: logger}
}

func (o *Adapter) GenerateContent(ctx context.Context, messages []llmtypes.MessageContent, options ...llmtypes.CallOption) (*llmtypes.ContentResponse, error) {
	opts := &llmtypes.CallOptions{}
	for _, opt := range options {
		opt(opts)
	}

	modelID := o.modelID
	if opts.Model != "" {
		modelID = opts.Model
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(modelID),
		Messages: convertMessages(messages, opts),
	}
	if opts.TemperatureSet {
		params.Temperature = param.NewOpt(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(int64(opts.MaxTokens))
	}
	if opts.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		o.logger.Warnf("openai completion failed for model %s: %v", modelID, err)
		return nil, fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	choice := resp.Choices[0]
	return &llmtypes.ContentResponse{
		Choices: []*llmtypes.ContentChoice{
			{
				Content:    choice.Message.Content,
				StopReason: string(choice.FinishReason),
				Usage: &llmtypes.Usage{
					InputTokens:  int(resp.Usage.PromptTokens),
					OutputTokens: int(resp.Usage.CompletionTokens),
					TotalTokens:  int(resp.Usage.TotalTokens),
				},
			},
		},
	}, nil
}

// convertMessages converts llmtypes messages into OpenAI chat messages.
// PDF document parts are sent as base64 data-URL file content, the shape
// the OpenAI API expects for native PDF input.
func convertMessages(messages []llmtypes.MessageContent, opts *llmtypes.CallOptions) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case llmtypes.ChatMessageTypeSystem:
			out = append(out, openai.SystemMessage(textOf(msg)))
		case llmtypes.ChatMessageTypeAI:
			out = append(out, openai.AssistantMessage(textOf(msg)))
		default:
			var parts []openai.ChatCompletionContentPartUnionParam
			for _, part := range msg.Parts {
				switch p := part.(type) {
				case llmtypes.TextContent:
					parts = append(parts, openai.TextContentPart(p.Text))
				case llmtypes.DocumentContent:
					if p.Label != "" {
						parts = append(parts, openai.TextContentPart(p.Label+":"))
					}
					dataURL := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(p.Data)
					parts = append(parts, openai.FileContentPart(openai.ChatCompletionContentPartFileFileParam{
						FileData: param.NewOpt(dataURL),
						Filename: param.NewOpt(p.Label + ".pdf"),
					}))
				}
			}
			out = append(out, openai.UserMessage(parts))
		}
	}
	return out
}

func textOf(msg llmtypes.MessageContent) string {
	var s string
	for _, part := range msg.Parts {
		if t, ok := part.(llmtypes.TextContent); ok {
			s += t.Text
		}
	}
	return s
}
