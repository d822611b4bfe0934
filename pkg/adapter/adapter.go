package adapter

import (
	"context"
	"time"
)

// Adapter defines the interface for LLM provider backends. The routing
// engine never calls these; only the CLI dispatch path does.
type Adapter interface {
	// Generate sends a prompt to the model and returns the response.
	Generate(ctx context.Context, model string, prompt string) (*Response, error)

	// Name returns the adapter's identifier.
	Name() string

	// Models returns the list of supported models.
	Models() []string
}

// Usage captures normalized token usage.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a provider completion.
type Response struct {
	Adapter   string    `json:"adapter"`
	Model     string    `json:"model"`
	Content   string    `json:"content"`
	Usage     *Usage    `json:"usage,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// newResponse stamps a response with its origin.
func newResponse(adapter, model, content string) *Response {
	return &Response{
		Adapter:   adapter,
		Model:     model,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}
