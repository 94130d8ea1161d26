package render_test

import (
	"errors"
	"math"
	"testing"

	"blip/internal/render"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*render.Config)
		ok     bool
	}{
		{name: "defaults", mutate: func(*render.Config) {}, ok: true},
		{name: "all tracks", mutate: func(c *render.Config) { c.Track = render.AllTracks }, ok: true},
		{name: "track below all", mutate: func(c *render.Config) { c.Track = -2 }},
		{name: "zero sample rate", mutate: func(c *render.Config) { c.SampleRate = 0 }},
		{name: "zero duration", mutate: func(c *render.Config) { c.Duration = 0 }},
		{name: "negative fadeout", mutate: func(c *render.Config) { c.Fadeout = -1 }},
		{name: "fadeout equals duration", mutate: func(c *render.Config) { c.Fadeout = c.Duration }, ok: true},
		{name: "nan pan", mutate: func(c *render.Config) { c.Pan = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tt.ok && !errors.Is(err, render.ErrUsage) {
				t.Fatalf("expected usage error, got %v", err)
			}
		})
	}
}

func TestConfigDerivedValues(t *testing.T) {
	cfg := testConfig()
	if cfg.DurationMillis() != 10000 || cfg.FadeStartMillis() != 8000 || cfg.FrameBudget() != 80000 {
		t.Fatalf("unexpected derived values %d %d %d", cfg.DurationMillis(), cfg.FadeStartMillis(), cfg.FrameBudget())
	}
}
