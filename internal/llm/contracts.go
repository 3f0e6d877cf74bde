// Package llm wraps the chat-completions extraction service.
package llm

import "context"

// Completer sends a prompt and returns the raw text completion.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
