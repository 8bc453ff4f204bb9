// Package tutor provides the AI tutor chat backend. Providers wrap
// model APIs behind a single Generate call so the chat service stays
// independent of any one vendor SDK.
package tutor

import "context"

// Role identifies who authored a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a tutoring conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request describes a single generation call to a provider.
type Request struct {
	// System is the system prompt framing the tutor persona and
	// lesson context. Optional.
	System string

	// Messages is the conversation so far, oldest first.
	Messages []Message

	// MaxTokens caps the completion length.
	MaxTokens int

	// Temperature controls sampling randomness. Zero uses the
	// provider default.
	Temperature float64
}

// Usage reports token consumption for a single generation.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Response is the provider's reply to a Request.
type Response struct {
	Content    string `json:"content"`
	Usage      Usage  `json:"usage"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
}

// Provider generates tutor replies. Implementations must be safe for
// concurrent use.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}
