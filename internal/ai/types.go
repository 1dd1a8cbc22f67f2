package ai

import "context"

// Completer is the external language-model capability: one prompt in, one
// text completion out.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest is a single prompt sent under a session identity.
type CompletionRequest struct {
	SessionID string
	System    string
	Prompt    string
}
