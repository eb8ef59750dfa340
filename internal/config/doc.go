// Package config loads application settings from an optional YAML file and
// URANAI_-prefixed environment variables, applies defaults and validates
// the result with struct tags.
package config
