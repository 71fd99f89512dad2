package visualizer

import (
	"fmt"
	"image/color"
	"math"
)

// centroidColor marks ground-truth centres.
var centroidColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}

// generateColors spreads n hues evenly around the colour wheel at fixed
// saturation and lightness.
func generateColors(n int) []color.RGBA {
	if n <= 0 {
		return nil
	}

	const sat, light = 0.7, 0.45
	chroma := (1 - math.Abs(2*light-1)) * sat
	base := light - chroma/2

	colors := make([]color.RGBA, n)
	for i := range colors {
		sector := 6 * float64(i) / float64(n)
		x := chroma * (1 - math.Abs(math.Mod(sector, 2)-1))

		var r, g, b float64
		switch int(sector) {
		case 0:
			r, g = chroma, x
		case 1:
			r, g = x, chroma
		case 2:
			g, b = chroma, x
		case 3:
			g, b = x, chroma
		case 4:
			r, b = x, chroma
		default:
			r, b = chroma, x
		}
		colors[i] = color.RGBA{R: channel(r + base), G: channel(g + base), B: channel(b + base), A: 255}
	}
	return colors
}

func channel(v float64) uint8 {
	return uint8(math.Round(v * 255))
}

// hexColor formats c as #rrggbb for HTML charts.
func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
