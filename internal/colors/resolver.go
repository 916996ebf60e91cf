// Package colors resolves color tokens supplied by tool calls into hex values
// and classifies hex values back into human color names.
package colors

import (
	"math/rand"
	"strings"
)

const (
	DefaultSticky = "#FFF59D"
	DefaultShape  = "#E5E7EB"
	DefaultStroke = "#374151"
	DefaultText   = "#111827"
	DefaultFrame  = "#F9FAFB"
)

// Palette selects which named-color table and default apply.
type Palette int

const (
	PaletteSticky Palette = iota
	PaletteShape
)

// Default returns the fallback color of the palette.
func (p Palette) Default() string {
	if p == PaletteSticky {
		return DefaultSticky
	}
	return DefaultShape
}

var stickyNamed = map[string]string{
	"yellow": "#FFF59D",
	"pink":   "#F8BBD0",
	"blue":   "#BBDEFB",
	"green":  "#C8E6C9",
	"orange": "#FFE0B2",
	"purple": "#E1BEE7",
	"red":    "#FFCDD2",
	"teal":   "#B2DFDB",
	"cyan":   "#B2EBF2",
	"lime":   "#F0F4C3",
	"gray":   "#E0E0E0",
	"grey":   "#E0E0E0",
	"white":  "#FFFFFF",
	"brown":  "#D7CCC8",
}

var shapeNamed = map[string]string{
	"red":     "#EF4444",
	"orange":  "#F97316",
	"yellow":  "#EAB308",
	"lime":    "#84CC16",
	"green":   "#22C55E",
	"teal":    "#14B8A6",
	"cyan":    "#06B6D4",
	"blue":    "#3B82F6",
	"indigo":  "#6366F1",
	"purple":  "#A855F7",
	"magenta": "#D946EF",
	"pink":    "#EC4899",
	"brown":   "#92400E",
	"gray":    "#6B7280",
	"grey":    "#6B7280",
	"black":   "#000000",
	"white":   "#FFFFFF",
}

// Cycles used when several objects need distinct colors and none was given.
var (
	stickyCycle = []string{"#FFF59D", "#BBDEFB", "#C8E6C9", "#F8BBD0", "#FFE0B2", "#E1BEE7"}
	shapeCycle  = []string{"#3B82F6", "#22C55E", "#F97316", "#A855F7", "#EF4444", "#14B8A6"}
)

func table(p Palette) map[string]string {
	if p == PaletteSticky {
		return stickyNamed
	}
	return shapeNamed
}

// Resolve maps a color token to an uppercase #RRGGBB value. Named colors are
// looked up in the palette's table, "random" picks a palette entry with rng,
// and anything unrecognised falls back to the palette default.
func Resolve(token string, p Palette, rng *rand.Rand) string {
	return ResolveOr(token, p, rng, p.Default())
}

// ResolveOr is Resolve with a caller-chosen fallback, for kinds such as
// connectors and text whose default differs from the palette's.
func ResolveOr(token string, p Palette, rng *rand.Rand, fallback string) string {
	if hex, ok := lookup(token, p, rng); ok {
		return hex
	}
	return fallback
}

func lookup(token string, p Palette, rng *rand.Rand) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" {
		return "", false
	}
	if t == "random" {
		cycle := CyclePalette(p)
		if rng == nil {
			return cycle[0], true
		}
		return cycle[rng.Intn(len(cycle))], true
	}
	if hex, ok := table(p)[t]; ok {
		return hex, true
	}
	return NormalizeHex(t)
}

// NormalizeHex validates #RGB or #RRGGBB (the leading # is optional) and
// returns the uppercase six-digit form.
func NormalizeHex(s string) (string, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return "", false
	}
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return "", false
		}
	}
	return "#" + strings.ToUpper(s), true
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// CyclePalette returns the ordered colors recipes rotate through.
func CyclePalette(p Palette) []string {
	if p == PaletteSticky {
		return stickyCycle
	}
	return shapeCycle
}

// Cycle returns the i-th color of the palette's cycle, wrapping around.
func Cycle(p Palette, i int) string {
	c := CyclePalette(p)
	if i < 0 {
		i = -i
	}
	return c[i%len(c)]
}
