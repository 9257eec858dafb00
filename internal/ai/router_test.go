package ai

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	name      string
	available bool
	text      string
	err       error
	calls     int
}

func (s *stubGenerator) Name() string    { return s.name }
func (s *stubGenerator) Available() bool { return s.available }
func (s *stubGenerator) Generate(ctx context.Context, req Request) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestPickFirstAvailable(t *testing.T) {
	down := &stubGenerator{name: "openai", available: false}
	up := &stubGenerator{name: "anthropic", available: true}
	r := NewRouter(zerolog.Nop(), down, up)

	g, err := r.Pick("")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", g.Name())
}

func TestPickHonorsHint(t *testing.T) {
	a := &stubGenerator{name: "openai", available: true}
	b := &stubGenerator{name: "anthropic", available: true}
	r := NewRouter(zerolog.Nop(), a, b)

	g, err := r.Pick("anthropic")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", g.Name())
}

func TestPickHintUnavailableNeverSubstitutes(t *testing.T) {
	a := &stubGenerator{name: "openai", available: true}
	b := &stubGenerator{name: "anthropic", available: false}
	r := NewRouter(zerolog.Nop(), a, b)

	_, err := r.Pick("anthropic")
	assert.ErrorIs(t, err, ErrProviderUnavailable)

	_, err = r.Pick("grok")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestPickNoProviders(t *testing.T) {
	r := NewRouter(zerolog.Nop(), &stubGenerator{name: "openai", available: false})

	_, err := r.Pick("")
	assert.ErrorIs(t, err, ErrNoProviders)
}

func TestAvailable(t *testing.T) {
	r := NewRouter(zerolog.Nop(),
		&stubGenerator{name: "openai", available: true},
		&stubGenerator{name: "anthropic", available: false},
	)
	assert.Equal(t, []string{"openai"}, r.Available())
}
