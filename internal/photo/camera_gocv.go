//go:build gocv

package photo

import (
	"context"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"retrato/pkg/logging"
)

// webcam reads frames through OpenCV.
type webcam struct {
	mu     sync.Mutex
	device int
	vc     *gocv.VideoCapture
	frame  gocv.Mat
}

// OpenCamera opens the video device with the given index.
func OpenCamera(device int) (Camera, error) {
	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("opening video device %d: %w", device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("video device %d did not open", device)
	}
	logging.Info("Camera", "opened video device %d", device)
	return &webcam{device: device, vc: vc, frame: gocv.NewMat()}, nil
}

func (w *webcam) Snapshot(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.vc == nil {
		return nil, fmt.Errorf("video device %d is closed", w.device)
	}
	if ok := w.vc.Read(&w.frame); !ok || w.frame.Empty() {
		return nil, fmt.Errorf("no frame from video device %d", w.device)
	}
	img, err := w.frame.ToImage()
	if err != nil {
		return nil, fmt.Errorf("converting frame: %w", err)
	}
	return img, nil
}

func (w *webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.vc == nil {
		return nil
	}
	w.frame.Close()
	err := w.vc.Close()
	w.vc = nil
	logging.Debug("Camera", "closed video device %d", w.device)
	return err
}
