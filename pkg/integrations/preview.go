package integrations

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

const DefaultThumbnailWidth = 24

// Thumbnail renders an image as rows of half-block cells, width cells wide.
// Each cell paints two source rows: the upper one as foreground, the lower as
// background.
func Thumbnail(raw []byte, width int) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	if width <= 0 {
		width = DefaultThumbnailWidth
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return "", fmt.Errorf("empty image")
	}
	height := bounds.Dy() * width / bounds.Dx()
	if height < 2 {
		height = 2
	}
	if height%2 == 1 {
		height++
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var sb strings.Builder
	for y := 0; y < height; y += 2 {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < width; x++ {
			cell := lipgloss.NewStyle().
				Foreground(hexColor(dst.RGBAAt(x, y))).
				Background(hexColor(dst.RGBAAt(x, y+1)))
			sb.WriteString(cell.Render("▀"))
		}
	}
	return sb.String(), nil
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
