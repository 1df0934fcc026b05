// Package photo holds the picture the wizard sends to the robot: where it
// came from, its encoded bytes and its pixel size. It also provides the
// camera abstraction, the chroma key filter and a terminal preview renderer.
package photo

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	// Formats accepted for files loaded from disk.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Source tells how a Photo was acquired.
type Source int

const (
	SourceCamera Source = iota
	SourceFile
)

func (s Source) String() string {
	switch s {
	case SourceCamera:
		return "camera"
	case SourceFile:
		return "file"
	default:
		return "unknown"
	}
}

// ErrEmpty is returned for zero-length input or a zero-sized image.
var ErrEmpty = errors.New("empty image")

// Photo is an encoded image held in memory. It is immutable once built.
type Photo struct {
	Source Source
	Name   string
	Format string // decoder name: "png", "jpeg", ...
	Width  int
	Height int
	Data   []byte
}

// FromImage encodes img as PNG. Camera snapshots go through here.
func FromImage(img image.Image) (*Photo, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmpty
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	b := img.Bounds()
	return &Photo{
		Source: SourceCamera,
		Name:   "snapshot.png",
		Format: "png",
		Width:  b.Dx(),
		Height: b.Dy(),
		Data:   buf.Bytes(),
	}, nil
}

// Decode validates data as an image and keeps the original bytes.
func Decode(name string, data []byte) (*Photo, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, ErrEmpty
	}
	return &Photo{
		Source: SourceFile,
		Name:   name,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Data:   append([]byte(nil), data...),
	}, nil
}

// FromFile reads and validates an image file.
func FromFile(path string) (*Photo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(filepath.Base(path), data)
}

// Image decodes the held bytes.
func (p *Photo) Image() (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(p.Data))
	return img, err
}

// PNG returns the photo as PNG bytes, re-encoding when it was loaded in
// another format.
func (p *Photo) PNG() ([]byte, error) {
	if p.Format == "png" {
		return p.Data, nil
	}
	img, err := p.Image()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Photo) String() string {
	return fmt.Sprintf("%s %dx%d (%s, %d bytes)", p.Name, p.Width, p.Height, p.Source, len(p.Data))
}
