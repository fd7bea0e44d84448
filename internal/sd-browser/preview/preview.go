// Package preview decodes JPEG files and draws them with half-block
// characters, two pixel rows per terminal row.
package preview

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
)

const DefaultMaxBytes = 4 << 20

var ErrTooLarge = errors.New("image too large")

// Load decodes path, applying EXIF orientation. Files above maxBytes are
// rejected before decoding.
func Load(path string, maxBytes int64) (image.Image, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	if info.Size() > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, info.Size(), maxBytes)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Fit scales img down to fit a box of cells; each cell holds two pixels
// vertically
func Fit(img image.Image, widthCells, heightCells int) image.Image {
	if widthCells < 1 {
		widthCells = 1
	}
	if heightCells < 1 {
		heightCells = 1
	}
	return imaging.Fit(img, widthCells, heightCells*2, imaging.Lanczos)
}

// Render fits img into the box and centers the half-block drawing in it
func Render(img image.Image, widthCells, heightCells int) string {
	fitted := Fit(img, widthCells, heightCells)
	return lipgloss.Place(widthCells, heightCells, lipgloss.Center, lipgloss.Center, HalfBlocks(fitted))
}

// HalfBlocks draws img with the upper half block: foreground is the top
// pixel, background the bottom one
func HalfBlocks(img image.Image) string {
	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	rows := make([]string, 0, (h+1)/2)
	for y := 0; y < h; y += 2 {
		var b strings.Builder
		for x := 0; x < w; x++ {
			top := nrgba.NRGBAAt(x, y)
			style := lipgloss.NewStyle().Foreground(hex(top.R, top.G, top.B))
			if y+1 < h {
				bottom := nrgba.NRGBAAt(x, y+1)
				style = style.Background(hex(bottom.R, bottom.G, bottom.B))
			}
			b.WriteString(style.Render("▀"))
		}
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}

func hex(r, g, b uint8) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}
