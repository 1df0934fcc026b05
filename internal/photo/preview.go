package photo

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"
)

const upperHalfBlock = "▀"

// RenderBlocks draws img as cols columns of half-block characters with
// 24-bit ANSI colours. Each character covers two source rows, so the output
// keeps the image's aspect ratio on a typical terminal font.
func RenderBlocks(img image.Image, cols int) string {
	b := img.Bounds()
	if cols <= 0 || b.Empty() {
		return ""
	}
	if cols > b.Dx() {
		cols = b.Dx()
	}
	rows := b.Dy() * cols / b.Dx()
	if rows%2 == 1 {
		rows++
	}
	if rows < 2 {
		rows = 2
	}

	small := image.NewRGBA(image.Rect(0, 0, cols, rows))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), img, b, draw.Src, nil)

	var sb strings.Builder
	for y := 0; y < rows; y += 2 {
		for x := 0; x < cols; x++ {
			top := small.RGBAAt(x, y)
			bot := small.RGBAAt(x, y+1)
			fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%s",
				top.R, top.G, top.B, bot.R, bot.G, bot.B, upperHalfBlock)
		}
		sb.WriteString("\x1b[0m")
		if y+2 < rows {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
