package colors

import (
	"math"
	"strconv"
)

// HSL holds hue in degrees [0,360) and saturation/lightness in [0,1].
type HSL struct {
	H, S, L float64
}

// RGB splits a hex color into 0-255 channels.
func RGB(hex string) (r, g, b int, ok bool) {
	norm, ok := NormalizeHex(hex)
	if !ok {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(norm[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v>>16) & 0xFF, int(v>>8) & 0xFF, int(v) & 0xFF, true
}

// ToHSL converts a hex color to HSL. Invalid input reports false.
func ToHSL(hex string) (HSL, bool) {
	ri, gi, bi, ok := RGB(hex)
	if !ok {
		return HSL{}, false
	}
	r := float64(ri) / 255
	g := float64(gi) / 255
	b := float64(bi) / 255

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l := (max + min) / 2
	if max == min {
		return HSL{H: 0, S: 0, L: l}, true
	}

	d := max - min
	var s float64
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	var h float64
	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return HSL{H: h * 60, S: s, L: l}, true
}

const grayscaleSaturation = 0.15

// Classify returns a human color name for a hex value, or "unknown" when the
// value cannot be parsed. Used for reporting only.
func Classify(hex string) string {
	c, ok := ToHSL(hex)
	if !ok {
		return "unknown"
	}

	if c.S < grayscaleSaturation {
		switch {
		case c.L < 0.15:
			return "black"
		case c.L < 0.6:
			return "gray"
		case c.L < 0.9:
			return "light-gray"
		default:
			return "white"
		}
	}

	h := c.H
	switch {
	case h < 15 || h >= 345:
		if c.L > 0.7 {
			return "pink"
		}
		return "red"
	case h < 45:
		if c.L < 0.35 {
			return "brown"
		}
		return "orange"
	case h < 65:
		if c.L < 0.3 {
			return "brown"
		}
		return "yellow"
	case h < 90:
		return "lime"
	case h < 150:
		return "green"
	case h < 175:
		return "teal"
	case h < 200:
		return "cyan"
	case h < 255:
		return "blue"
	case h < 290:
		return "purple"
	case h < 320:
		if c.L > 0.75 {
			return "pink"
		}
		return "magenta"
	default:
		return "pink"
	}
}
