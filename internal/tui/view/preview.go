package view

import (
	"bytes"
	"image"

	"retrato/internal/photo"
)

// PreviewColumns picks the preview width for a terminal of the given width.
func PreviewColumns(termWidth int) int {
	cols := termWidth / 2
	if cols > maxPreviewColumns {
		cols = maxPreviewColumns
	}
	if cols < minPreviewColumns {
		cols = minPreviewColumns
	}
	return cols
}

// PhotoPreview renders a held photo as terminal blocks. It returns "" when
// the photo cannot be decoded.
func PhotoPreview(p *photo.Photo, cols int) string {
	img, err := p.Image()
	if err != nil {
		return ""
	}
	return photo.RenderBlocks(img, cols)
}

// PreviewFromBytes renders encoded image bytes as terminal blocks.
func PreviewFromBytes(data []byte, cols int) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return photo.RenderBlocks(img, cols), nil
}
