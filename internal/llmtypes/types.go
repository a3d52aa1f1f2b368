// Package llmtypes defines the provider-agnostic message and response
// shapes shared by every adapter in internal/llm. Adapters translate to and
// from these types; nothing above internal/llm imports a provider SDK
// directly.
package llmtypes

import "context"

// Model is the interface every provider adapter implements.
type Model interface {
	GenerateContent(ctx context.Context, messages []MessageContent, options ...CallOption) (*ContentResponse, error)
}

// ChatMessageType is the role of a message in a conversation.
type ChatMessageType string

const (
	ChatMessageTypeSystem ChatMessageType = "system"
	ChatMessageTypeHuman  ChatMessageType = "human"
	ChatMessageTypeAI     ChatMessageType = "ai"
)

// ContentPart is one piece of a message. A message may mix text and
// document parts, which is how a classification or validation prompt
// attaches the PDFs it reasons over.
type ContentPart interface{}

// TextContent is a plain-text content part.
type TextContent struct {
	Text string
}

// DocumentContent is a binary document (PDF) attached to a message, along
// with a human-readable label so the prompt can refer to it unambiguously.
type DocumentContent struct {
	Label    string // e.g. "ENTRY PRINT DOCUMENT"
	MIMEType string // "application/pdf"
	Data     []byte
}

// MessageContent is a single message in the conversation.
type MessageContent struct {
	Role  ChatMessageType
	Parts []ContentPart
}

// TextPart builds a single-text-part message.
func TextPart(role ChatMessageType, text string) MessageContent {
	return MessageContent{Role: role, Parts: []ContentPart{TextContent{Text: text}}}
}

// ContentResponse is the normalized response from a provider call.
type ContentResponse struct {
	Choices []*ContentChoice
}

// ContentChoice is a single candidate response.
type ContentChoice struct {
	Content    string
	StopReason string
	Usage      *Usage
}

// Usage carries token accounting, when the provider reports it.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// CallOptions configures a single GenerateContent call.
type CallOptions struct {
	Model          string
	Temperature    float64
	TemperatureSet bool // distinguishes an explicit 0 from "use the provider default"
	MaxTokens      int
	JSONMode       bool
	JSONSchema     string // when set, the anthropic and bedrock adapters add it to the system prompt; the openai and vertex adapters request plain JSON without it
	JSONSchemaName string
}

// CallOption mutates CallOptions.
type CallOption func(*CallOptions)

// WithModel overrides the adapter's default model ID for this call.
func WithModel(model string) CallOption {
	return func(o *CallOptions) { o.Model = model }
}

// WithTemperature sets the sampling temperature, including 0.
func WithTemperature(t float64) CallOption {
	return func(o *CallOptions) {
		o.Temperature = t
		o.TemperatureSet = true
	}
}

// WithMaxTokens caps the response length.
func WithMaxTokens(n int) CallOption {
	return func(o *CallOptions) { o.MaxTokens = n }
}

// WithJSONMode requires the model to return a bare JSON object.
func WithJSONMode() CallOption {
	return func(o *CallOptions) { o.JSONMode = true }
}

// WithJSONSchema requires the model to return JSON conforming to the given
// schema document, named schemaName for providers that support named
// structured-output registration.
func WithJSONSchema(schemaName, schema string) CallOption {
	return func(o *CallOptions) {
		o.JSONMode = true
		o.JSONSchemaName = schemaName
		o.JSONSchema = schema
	}
}
