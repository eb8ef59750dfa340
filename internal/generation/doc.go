// Package generation defines the port through which the application asks a
// language model (Gemini in production) for free-text content such as
// profile feedback. Implementations live under internal/platform.
package generation
