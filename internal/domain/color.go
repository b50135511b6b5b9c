package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RGB is an 8-bit color triple.
type RGB struct {
	R, G, B int
}

var fallbackRGB = RGB{R: 120, G: 120, B: 120}

// HexToRGB parses #rgb or #rrggbb; anything else yields a neutral grey.
func HexToRGB(hex string) RGB {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return fallbackRGB
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return fallbackRGB
	}
	return RGB{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}
}

// Hex formats the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", clampByte(c.R), clampByte(c.G), clampByte(c.B))
}

// ValidHex reports whether s is a #rgb or #rrggbb color.
func ValidHex(s string) bool {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if !strings.HasPrefix(strings.TrimSpace(s), "#") || (len(h) != 3 && len(h) != 6) {
		return false
	}
	_, err := strconv.ParseUint(h, 16, 32)
	return err == nil
}

// Lighten mixes hex toward white by amount in [0,1].
func Lighten(hex string, amount float64) string {
	amount = math.Min(1, math.Max(0, amount))
	c := HexToRGB(hex)
	mix := func(v int) int { return int(math.Round(float64(v) + (255-float64(v))*amount)) }
	return RGB{R: mix(c.R), G: mix(c.G), B: mix(c.B)}.Hex()
}

// ReadableTextColor picks dark text on light backgrounds and white otherwise.
func ReadableTextColor(background string) string {
	c := HexToRGB(background)
	luminance := (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
	if luminance > 0.6 {
		return "#0f172a"
	}
	return "#ffffff"
}

func clampByte(v int) int {
	return min(255, max(0, v))
}
