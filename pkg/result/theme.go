package result

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-leadform/pkg/handoff"
)

// Accent is the resolved per-tier presentation accent: a surface class plus
// the theme tokens renderers turn into CSS variables.
type Accent struct {
	Variant      string
	SurfaceClass string
	Tokens       map[string]string
}

// ThemeName identifies the built-in result-page theme manifest.
const ThemeName = "leadform"

// Manifest returns the built-in theme: a base token set with one variant per
// tier. Consumers with their own theme pipeline can register it alongside
// their manifests.
func Manifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    ThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"surface": "bg-warning-subtle",
			"radius":  "rounded-4",
		},
		Variants: map[string]theme.Variant{
			"hot": {
				Tokens: map[string]string{"surface": "bg-success-subtle"},
			},
			"warm": {
				Tokens: map[string]string{"surface": "bg-warning-subtle"},
			},
			"nurture": {
				Tokens: map[string]string{"surface": "bg-secondary-subtle"},
			},
		},
	}
}

// Provider returns a go-theme registry holding the built-in manifest, ready
// to hand to a theme selector.
func Provider() (theme.ThemeProvider, error) {
	registry := theme.NewRegistry()
	if err := registry.Register(Manifest()); err != nil {
		return nil, err
	}
	return registry, nil
}

// AccentFor resolves the presentation accent for a tier from the built-in
// manifest: base tokens merged with the tier variant's overrides.
func AccentFor(tier string) Accent {
	manifest := Manifest()
	variant := variantFor(tier)

	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}
	if override, ok := manifest.Variants[variant]; ok {
		for key, value := range override.Tokens {
			tokens[key] = value
		}
	}

	return Accent{
		Variant:      variant,
		SurfaceClass: tokens["surface"],
		Tokens:       tokens,
	}
}

func variantFor(tier string) string {
	switch handoff.NormalizeTier(tier) {
	case "Hot":
		return "hot"
	case "Nurture":
		return "nurture"
	}
	return "warm"
}
