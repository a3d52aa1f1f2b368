// Package anthropicadapter adapts the Anthropic SDK to llmtypes.Model.
package anthropicadapter

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/Phat0101/clearai-audit/internal/llmtypes"
	"github.com/Phat0101/clearai-audit/internal/logging"
)

// Adapter implements llmtypes.Model using the Anthropic SDK directly.
type Adapter struct {
	client  anthropic.Client
	modelID string
	logger  logging.Logger
}

// New creates an adapter bound to modelID.
func New(client anthropic.Client, modelID string, logger logging.Logger) *Adapter {
	return &Adapter{client: client, modelID: modelID, logger: logger}
}

// GenerateContent implements llmtypes.Model. It always uses the streaming
// API and accumulates the result, avoiding the SDK's "streaming is
// required" error on long multimodal requests (checklist prompts plus
// three PDFs routinely exceed it).
func (a *Adapter) GenerateContent(ctx context.Context, messages []llmtypes.MessageContent, options ...llmtypes.CallOption) (*llmtypes.ContentResponse, error) {
	opts := &llmtypes.CallOptions{}
	for _, opt := range options {
		opt(opts)
	}

	modelID := a.modelID
	if opts.Model != "" {
		modelID = opts.Model
	}

	anthropicMessages, systemMessage := convertMessages(messages)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		Messages:  anthropicMessages,
		MaxTokens: 8192,
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = int64(opts.MaxTokens)
	}
	if opts.TemperatureSet {
		params.Temperature = anthropic.Float(opts.Temperature)
	}

	if opts.JSONMode {
		instruction := "You must respond with a single valid JSON object and no other text."
		if opts.JSONSchema != "" {
			instruction += " The object must validate against this JSON Schema:\n" + opts.JSONSchema
		}
		if systemMessage != "" {
			systemMessage = systemMessage + "\n\n" + instruction
		} else {
			systemMessage = instruction
		}
	}
	if systemMessage != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemMessage}}
	}

	stream := a.client.Messages.NewStreaming(ctx, params)
	message := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := message.Accumulate(event); err != nil {
			stream.Close()
			return nil, fmt.Errorf("anthropic streaming accumulate: %w", err)
		}
	}
	if err := stream.Err(); err != nil {
		a.logger.Warnf("anthropic streaming error for model %s: %v", modelID, err)
		return nil, fmt.Errorf("anthropic streaming: %w", err)
	}
	stream.Close()

	return convertResponse(&message), nil
}

// convertMessages converts llmtypes messages (including PDF document parts)
// into Anthropic message params, separating out the system message.
func convertMessages(messages []llmtypes.MessageContent) ([]anthropic.MessageParam, string) {
	out := make([]anthropic.MessageParam, 0, len(messages))
	var systemMessage string

	for _, msg := range messages {
		if msg.Role == llmtypes.ChatMessageTypeSystem {
			for _, part := range msg.Parts {
				if t, ok := part.(llmtypes.TextContent); ok {
					systemMessage = t.Text
				}
			}
			continue
		}

		var blocks []anthropic.ContentBlockParamUnion
		for _, part := range msg.Parts {
			switch p := part.(type) {
			case llmtypes.TextContent:
				blocks = append(blocks, anthropic.NewTextBlock(p.Text))
			case llmtypes.DocumentContent:
				label := p.Label
				if label != "" {
					blocks = append(blocks, anthropic.NewTextBlock(label+":"))
				}
				blocks = append(blocks, anthropic.NewDocumentBlock(anthropic.NewBase64PDFSourceParam(base64.StdEncoding.EncodeToString(p.Data))))
			}
		}

		role := anthropic.MessageParamRoleUser
		if msg.Role == llmtypes.ChatMessageTypeAI {
			role = anthropic.MessageParamRoleAssistant
		}
		out = append(out, anthropic.MessageParam{Role: role, Content: blocks})
	}

	return out, systemMessage
}

func convertResponse(msg *anthropic.Message) *llmtypes.ContentResponse {
	if msg == nil {
		return &llmtypes.ContentResponse{Choices: []*llmtypes.ContentChoice{}}
	}

	var text string
	for _, block := range msg.Content {
		if tb := block.AsAny(); tb != nil {
			if t, ok := tb.(anthropic.TextBlock); ok {
				text += t.Text
			}
		}
	}

	return &llmtypes.ContentResponse{
		Choices: []*llmtypes.ContentChoice{
			{
				Content:    text,
				StopReason: string(msg.StopReason),
				Usage: &llmtypes.Usage{
					InputTokens:  int(msg.Usage.InputTokens),
					OutputTokens: int(msg.Usage.OutputTokens),
					TotalTokens:  int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
				},
			},
		},
	}
}
