package generation

import "context"

// Generator produces text for a prompt.
type Generator interface {
	// Generate returns the model's answer to prompt, conditioned on the
	// system instruction. Errors wrap the sentinels in errors.go.
	Generate(ctx context.Context, systemInstruction, prompt string) (string, error)
}
