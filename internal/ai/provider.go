package ai

import "context"

// Provider turns a serialized prompt into generated text. The gateway is
// stateless: callers resend the full transcript every time.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
