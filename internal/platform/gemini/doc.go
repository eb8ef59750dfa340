// Package gemini implements generation.Generator on top of Google's Gemini
// API (google.golang.org/genai).
//
// Calls are retried with exponential backoff and jitter for transient
// failures. Safety blocks and empty answers are permanent and returned at
// once, mapped to the generation package's sentinel errors.
package gemini
