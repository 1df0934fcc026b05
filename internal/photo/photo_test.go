package photo

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestChromaKey(t *testing.T) {
	tests := []struct {
		name  string
		in    color.NRGBA
		want  color.NRGBA
		keyed bool
	}{
		{"light grey becomes white", color.NRGBA{200, 200, 200, 255}, color.NRGBA{255, 255, 255, 255}, true},
		{"low red stays", color.NRGBA{100, 200, 200, 255}, color.NRGBA{100, 200, 200, 255}, false},
		{"at threshold stays", color.NRGBA{180, 200, 200, 255}, color.NRGBA{180, 200, 200, 255}, false},
		{"just above threshold", color.NRGBA{181, 181, 181, 255}, color.NRGBA{255, 255, 255, 255}, true},
		{"dark stays", color.NRGBA{10, 20, 30, 255}, color.NRGBA{10, 20, 30, 255}, false},
		{"alpha kept", color.NRGBA{220, 230, 240, 128}, color.NRGBA{255, 255, 255, 128}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ChromaKey(solid(2, 2, tt.in), DefaultThreshold)
			assert.Equal(t, tt.want, out.NRGBAAt(1, 1))
			assert.Equal(t, tt.keyed, IsKeyed(tt.in, DefaultThreshold))
		})
	}
}

func TestChromaKey_DoesNotModifyInput(t *testing.T) {
	src := solid(3, 3, color.NRGBA{200, 200, 200, 255})
	_ = ChromaKey(src, DefaultThreshold)
	assert.Equal(t, color.NRGBA{200, 200, 200, 255}, src.NRGBAAt(0, 0))
}

func TestChromaKey_OffsetBounds(t *testing.T) {
	src := solid(10, 10, color.NRGBA{250, 250, 250, 255})
	sub := src.SubImage(image.Rect(5, 5, 8, 8))
	out := ChromaKey(sub, DefaultThreshold)
	assert.Equal(t, sub.Bounds(), out.Bounds())
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, out.NRGBAAt(7, 7))
}

func TestFromImage(t *testing.T) {
	p, err := FromImage(solid(4, 3, color.NRGBA{1, 2, 3, 255}))
	require.NoError(t, err)
	assert.Equal(t, SourceCamera, p.Source)
	assert.Equal(t, "png", p.Format)
	assert.Equal(t, 4, p.Width)
	assert.Equal(t, 3, p.Height)

	img, err := png.Decode(bytes.NewReader(p.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())

	_, err = FromImage(image.NewNRGBA(image.Rectangle{}))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestDecode(t *testing.T) {
	data := encodePNG(t, solid(5, 6, color.White))

	p, err := Decode("me.png", data)
	require.NoError(t, err)
	assert.Equal(t, SourceFile, p.Source)
	assert.Equal(t, "me.png", p.Name)
	assert.Equal(t, 5, p.Width)
	assert.Equal(t, 6, p.Height)

	data[0] = 0
	assert.NotEqual(t, data[0], p.Data[0], "photo keeps its own copy")

	_, err = Decode("x.png", nil)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Decode("notes.txt", []byte("hello"))
	assert.Error(t, err)
}

func TestPNG_ReencodesJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(8, 8, color.NRGBA{50, 60, 70, 255}), nil))

	p, err := Decode("me.jpg", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "jpeg", p.Format)

	out, err := p.PNG()
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(out))
	assert.NoError(t, err)
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portrait.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, solid(2, 2, color.Black)), 0644))

	p, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "portrait.png", p.Name)
	assert.Contains(t, p.String(), "portrait.png 2x2 (file")

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

type fakeCamera struct {
	frame image.Image
	err   error
}

func (f *fakeCamera) Snapshot(context.Context) (image.Image, error) { return f.frame, f.err }
func (f *fakeCamera) Close() error                                  { return nil }

func TestCapture(t *testing.T) {
	cam := &fakeCamera{frame: solid(2, 2, color.NRGBA{200, 200, 200, 255})}

	p, err := Capture(context.Background(), cam, true, DefaultThreshold)
	require.NoError(t, err)
	img, err := p.Image()
	require.NoError(t, err)
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})

	p, err = Capture(context.Background(), cam, false, DefaultThreshold)
	require.NoError(t, err)
	img, err = p.Image()
	require.NoError(t, err)
	r, _, _, _ = img.At(0, 0).RGBA()
	assert.Equal(t, uint32(200*0x101), r)

	cam.err = errors.New("unplugged")
	_, err = Capture(context.Background(), cam, false, DefaultThreshold)
	assert.EqualError(t, err, "unplugged")
}

func TestRenderBlocks(t *testing.T) {
	out := RenderBlocks(solid(40, 40, color.NRGBA{255, 0, 0, 255}), 10)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 5)
	assert.Equal(t, 10, strings.Count(lines[0], upperHalfBlock))
	assert.Contains(t, lines[0], "\x1b[38;2;255;0;0m")

	assert.Empty(t, RenderBlocks(solid(4, 4, color.White), 0))
}
