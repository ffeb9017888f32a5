package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
)

// composeHorizontal places rendered panels left to right in one PNG.
func composeHorizontal(panels ...[]byte) ([]byte, error) {
	return compose(panels, false)
}

// composeVertical stacks rendered panels top to bottom in one PNG.
func composeVertical(panels ...[]byte) ([]byte, error) {
	return compose(panels, true)
}

func compose(panels [][]byte, vertical bool) ([]byte, error) {
	if len(panels) == 1 {
		return panels[0], nil
	}

	images := make([]image.Image, 0, len(panels))
	var width, height int
	for i, p := range panels {
		img, _, err := image.Decode(bytes.NewReader(p))
		if err != nil {
			return nil, fmt.Errorf("compose panels: decode panel %d: %w", i, err)
		}
		b := img.Bounds()
		if vertical {
			height += b.Dy()
			width = max(width, b.Dx())
		} else {
			width += b.Dx()
			height = max(height, b.Dy())
		}
		images = append(images, img)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	offset := 0
	for _, img := range images {
		b := img.Bounds()
		var target image.Rectangle
		if vertical {
			target = image.Rect(0, offset, b.Dx(), offset+b.Dy())
			offset += b.Dy()
		} else {
			target = image.Rect(offset, 0, offset+b.Dx(), b.Dy())
			offset += b.Dx()
		}
		draw.Draw(canvas, target, img, b.Min, draw.Src)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("compose panels: %w", err)
	}
	return buf.Bytes(), nil
}
