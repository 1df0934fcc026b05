//go:build !gocv

package photo

// OpenCamera always fails without the gocv build tag; photos can still be
// loaded from files.
func OpenCamera(device int) (Camera, error) {
	_ = device
	return nil, ErrCameraUnsupported
}
