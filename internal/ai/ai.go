// Package ai routes content generation requests to configured text
// generation backends. It never makes quota or persistence decisions;
// the orchestrator owns those.
package ai

import (
	"context"
	"errors"

	"app/internal/tier"
)

// Request describes one platform-specific generation.
type Request struct {
	Platform    tier.Platform
	Title       string
	Content     string
	ContentType string
	BrandVoice  string // optional stylistic instruction
	Tone        string // optional tone instruction
	Model       string // optional model override, provider-specific
}

// Generator produces one platform variant from source content.
type Generator interface {
	// Name is the stable provider identifier used in requests and responses.
	Name() string
	// Available reports whether the provider is configured and usable.
	Available() bool
	// Generate returns the platform-specific rendering of the content.
	Generate(ctx context.Context, req Request) (string, error)
}

var (
	// ErrProviderUnavailable means an explicitly requested provider is not
	// configured or not currently usable. The router never substitutes a
	// different provider in that case.
	ErrProviderUnavailable = errors.New("requested ai provider unavailable")

	// ErrNoProviders means no provider at all is configured or available.
	ErrNoProviders = errors.New("no ai providers available")
)
