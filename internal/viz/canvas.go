package viz

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const halfBlock = "▀"

// RenderHalfBlocks draws img with one terminal cell per two vertical pixels.
// The upper pixel is the foreground and the lower one the background. An odd
// last row repeats its color.
func RenderHalfBlocks(img image.Image) string {
	if img == nil {
		return ""
	}
	b := img.Bounds()
	styles := make(map[[2]color.RGBA]lipgloss.Style)

	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			top := rgbaAt(img, x, y)
			bottom := top
			if y+1 < b.Max.Y {
				bottom = rgbaAt(img, x, y+1)
			}
			key := [2]color.RGBA{top, bottom}
			st, ok := styles[key]
			if !ok {
				st = lipgloss.NewStyle().
					Foreground(lipgloss.Color(hexColor(top))).
					Background(lipgloss.Color(hexColor(bottom)))
				styles[key] = st
			}
			sb.WriteString(st.Render(halfBlock))
		}
	}
	return sb.String()
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba.RGBAAt(x, y)
	}
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}
