package ai

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Router selects among configured generators. An explicit hint must name an
// available provider; the router never substitutes another one for it. With
// no hint the first available generator in configured priority order wins.
type Router struct {
	generators []Generator
	logger     zerolog.Logger
}

// NewRouter builds a router over generators in priority order.
func NewRouter(logger zerolog.Logger, generators ...Generator) *Router {
	return &Router{
		generators: generators,
		logger:     logger.With().Str("component", "ai.Router").Logger(),
	}
}

// Available lists the names of currently usable providers, in priority order.
func (r *Router) Available() []string {
	var names []string
	for _, g := range r.generators {
		if g.Available() {
			names = append(names, g.Name())
		}
	}
	return names
}

// Pick resolves the generator for a request. hint may be empty.
func (r *Router) Pick(hint string) (Generator, error) {
	if hint != "" {
		for _, g := range r.generators {
			if g.Name() == hint {
				if !g.Available() {
					return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, hint)
				}
				return g, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, hint)
	}

	for _, g := range r.generators {
		if g.Available() {
			return g, nil
		}
	}
	r.logger.Error().Msg("No AI providers configured or available")
	return nil, ErrNoProviders
}
