// Package ai talks to the chat completion provider. The provider is
// resolved once at startup: a configured API key yields the hosted client,
// an absent key yields the offline mock responder. Both satisfy Completer
// so the rest of the service never checks availability ad hoc.
package ai

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// FallbackMessage substitutes for the model's answer when the provider is
// unreachable; the turn pipeline continues as if the model said this.
const FallbackMessage = "I apologize, but I'm experiencing technical difficulties. Please try again in a moment."

// Message is one prompt turn in provider wire shape.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer produces chat completions. Chat blocks for a full reply;
// ChatStream emits reply fragments on the content channel in provider
// order, then closes both channels. A failure (including mid-stream) is
// delivered on the error channel before close.
type Completer interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	ChatStream(ctx context.Context, messages []Message) (<-chan string, <-chan error)
	Offline() bool
	Model() string
}
