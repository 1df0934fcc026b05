package wizard

import "retrato/internal/photo"

// AlertTarget selects the alert area a message is shown in.
type AlertTarget int

const (
	AlertHeight AlertTarget = iota
	AlertPhoto
)

func (t AlertTarget) String() string {
	switch t {
	case AlertHeight:
		return "height"
	case AlertPhoto:
		return "photo"
	default:
		return "unknown"
	}
}

// Alert texts shown to the user.
const (
	MsgInvalidHeight  = "Invalid height"
	MsgPositionFailed = "Failed to position robot"
	MsgConnection     = "Connection error"
	MsgCamera         = "Camera unavailable"
	MsgCaptureFailed  = "Could not capture photo"
	MsgInvalidFile    = "File is not a supported image"
	MsgNoPhoto        = "No photo to send"
	MsgSendFailed     = "Error sending photo"
	MsgProcessFailed  = "Processing error"
	MsgTestFailed     = "Test print failed"
	MsgNoFormat       = "Select a print format first"
	MsgUnknownFormat  = "Unknown print format"
)

// UI is everything the controller needs from a front end. Calls may arrive
// from any goroutine; implementations that own a render loop must hand them
// over to it.
type UI interface {
	// ShowStep makes step the visible screen.
	ShowStep(step Step)
	// Alert shows msg on target for a short time.
	Alert(target AlertTarget, msg string)
	// ShowPhoto previews the held photo; nil hides the preview.
	ShowPhoto(p *photo.Photo)
	// SetCaptureControls shows or hides snap and file loading. Retake and
	// confirm are visible exactly when capture controls are not.
	SetCaptureControls(visible bool)
	// SetBusy is true while a backend request is in flight.
	SetBusy(busy bool)
	// ShowTestPreview shows the test print rendered at url.
	ShowTestPreview(url string)
	// ShowResult shows the processed result rendered at url.
	ShowResult(url string)
	// SetProgress moves the progress bar, 0 to 1.
	SetProgress(fraction float64)
}
