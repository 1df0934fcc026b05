package cmd

import (
	"bytes"
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"retrato/internal/photo"
)

func newChromaKeyCmd() *cobra.Command {
	var threshold int

	cmd := &cobra.Command{
		Use:   "chroma-key INPUT OUTPUT",
		Short: "Whiten the light background of a photo",
		Long: `Applies the camera chroma key to an image file: every pixel whose red,
green and blue values all exceed the threshold becomes pure white. The
result is written to OUTPUT as PNG.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if threshold < 0 || threshold > 255 {
				return fmt.Errorf("--threshold %d out of range 0-255", threshold)
			}
			n, err := chromaKeyFile(args[0], args[1], uint8(threshold))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d pixels keyed\n", args[1], n)
			return nil
		},
	}
	cmd.Flags().IntVar(&threshold, "threshold", photo.DefaultThreshold, "Channel value above which a pixel is background")
	return cmd
}

// chromaKeyFile keys in into out and returns the number of pixels whitened.
func chromaKeyFile(in, out string, threshold uint8) (int, error) {
	p, err := photo.FromFile(in)
	if err != nil {
		return 0, err
	}
	img, err := p.Image()
	if err != nil {
		return 0, err
	}

	keyed := photo.ChromaKey(img, threshold)
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if photo.IsKeyed(img.At(x, y), threshold) {
				n++
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, keyed); err != nil {
		return 0, fmt.Errorf("encoding %s: %w", out, err)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return 0, err
	}
	return n, nil
}
