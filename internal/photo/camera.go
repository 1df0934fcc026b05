package photo

import (
	"context"
	"errors"
	"image"
)

// ErrCameraUnsupported is returned by OpenCamera when the binary was built
// without camera support.
var ErrCameraUnsupported = errors.New("camera support not compiled in (build with -tags gocv)")

// Camera is a live video source that can hand out single frames.
type Camera interface {
	// Snapshot grabs the current frame.
	Snapshot(ctx context.Context) (image.Image, error)
	Close() error
}

// Opener opens the camera with the given device index.
type Opener func(device int) (Camera, error)

// Capture takes a snapshot, applies the chroma key when keyed is set and
// encodes the result as a Photo.
func Capture(ctx context.Context, cam Camera, keyed bool, threshold uint8) (*Photo, error) {
	frame, err := cam.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if keyed {
		frame = ChromaKey(frame, threshold)
	}
	return FromImage(frame)
}
