package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"retrato/internal/backend"
	"retrato/internal/photo"
	"retrato/pkg/logging"
)

const subsystem = "Wizard"

// Backend is the part of the robot service the wizard calls.
// *backend.Client implements it.
type Backend interface {
	StartRobot(ctx context.Context, height float64) error
	CapturePhoto(ctx context.Context, png []byte) error
	Upload(ctx context.Context, png []byte) (string, error)
	ProcessPhoto(ctx context.Context, format *backend.PrintFormat) error
	TestPhoto(ctx context.Context, format backend.PrintFormat) error
	FetchPreview(ctx context.Context) ([]byte, error)
	PreviewURL() string
}

// Features toggles the optional parts of the flow.
type Features struct {
	TestStep        bool
	ChromaKey       bool
	ChromaThreshold uint8
	TextUpload      bool
}

// Options configure a Controller.
type Options struct {
	Backend  Backend
	UI       UI
	Features Features

	// OpenCamera is called when the Photo step is entered. Nil means no
	// camera; photos can then only be loaded from files.
	OpenCamera   photo.Opener
	CameraDevice int

	Formats       []backend.PrintFormat
	DefaultFormat string

	Progress Progress

	// SessionID identifies this run to the backend. Empty generates one.
	SessionID string
}

// State is a point-in-time copy of the controller's fields.
type State struct {
	Session         string
	Step            Step
	Height          float64
	Photo           *photo.Photo
	CaptureControls bool
	CameraReady     bool
	Format          *backend.PrintFormat
	Tested          bool
	Busy            bool
	Features        Features
}

// Controller drives one wizard session. It is safe for concurrent use; UI
// methods are always called without the internal lock held.
type Controller struct {
	backend    Backend
	ui         UI
	features   Features
	openCamera photo.Opener
	device     int
	formats    []backend.PrintFormat
	progress   Progress
	session    string

	closed    chan struct{}
	closeOnce sync.Once

	mu              sync.Mutex
	step            Step
	height          float64
	held            *photo.Photo
	captureControls bool
	camera          photo.Camera
	format          *backend.PrintFormat
	tested          bool
	busy            bool
}

// New creates a controller on the Intro step.
func New(opts Options) (*Controller, error) {
	if opts.Backend == nil {
		return nil, errors.New("wizard: backend is required")
	}
	if opts.UI == nil {
		return nil, errors.New("wizard: UI is required")
	}
	if opts.Features.TestStep && len(opts.Formats) == 0 {
		return nil, errors.New("wizard: test step needs at least one print format")
	}

	c := &Controller{
		backend:    opts.Backend,
		ui:         opts.UI,
		features:   opts.Features,
		openCamera: opts.OpenCamera,
		device:     opts.CameraDevice,
		formats:    append([]backend.PrintFormat(nil), opts.Formats...),
		progress:   opts.Progress,
		session:    opts.SessionID,
		closed:     make(chan struct{}),
		step:       StepIntro,
	}
	if c.session == "" {
		c.session = uuid.New().String()
	}
	if opts.DefaultFormat != "" {
		f, ok := c.findFormat(opts.DefaultFormat)
		if !ok {
			return nil, fmt.Errorf("wizard: default format %q is not configured", opts.DefaultFormat)
		}
		c.format = &f
	}
	logging.Debug(subsystem, "session %s created (features %+v)", c.session, c.features)
	return c, nil
}

// Session returns the session id sent to the backend.
func (c *Controller) Session() string { return c.session }

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Session:         c.session,
		Step:            c.step,
		Height:          c.height,
		Photo:           c.held,
		CaptureControls: c.captureControls,
		CameraReady:     c.camera != nil,
		Tested:          c.tested,
		Busy:            c.busy,
		Features:        c.features,
	}
	if c.format != nil {
		f := *c.format
		s.Format = &f
	}
	return s
}

// Begin leaves the Intro step.
func (c *Controller) Begin() error {
	c.mu.Lock()
	if c.step != StepIntro {
		defer c.mu.Unlock()
		return c.wrongStep("begin")
	}
	c.step = StepHeight
	c.mu.Unlock()

	logging.Info(subsystem, "wizard started")
	c.ui.ShowStep(StepHeight)
	return nil
}

// ConfirmHeight validates input and asks the robot to position itself. On
// success the wizard moves to the Photo step and opens the camera.
func (c *Controller) ConfirmHeight(ctx context.Context, input string) error {
	const op = "confirm height"

	c.mu.Lock()
	if err := c.checkLocked(op, StepHeight); err != nil {
		c.mu.Unlock()
		return err
	}
	height, perr := ParseHeight(input)
	if perr != nil {
		c.mu.Unlock()
		logging.Debug(subsystem, "rejected height %q: %v", input, perr)
		c.ui.Alert(AlertHeight, MsgInvalidHeight)
		return &Error{Op: op, Kind: KindValidation, Message: MsgInvalidHeight, Err: perr}
	}
	c.busy = true
	c.mu.Unlock()

	c.ui.SetBusy(true)
	if err := c.backend.StartRobot(c.withSession(ctx), height); err != nil {
		c.setIdle()
		return c.fail(op, AlertHeight, err, MsgPositionFailed, true)
	}

	// The step moves before busy clears so a second confirm sees StepPhoto.
	c.mu.Lock()
	c.step = StepPhoto
	c.height = height
	c.held = nil
	c.captureControls = true
	c.busy = false
	c.mu.Unlock()

	logging.Info(subsystem, "robot positioned for height %.2f cm", height)
	c.ui.ShowStep(StepPhoto)
	c.ui.SetCaptureControls(true)
	c.ui.SetBusy(false)
	c.startCamera()
	return nil
}

// Snap takes a photo from the camera.
func (c *Controller) Snap(ctx context.Context) error {
	const op = "snap"

	c.mu.Lock()
	if err := c.checkCaptureLocked(op); err != nil {
		c.mu.Unlock()
		return err
	}
	cam := c.camera
	c.mu.Unlock()

	if cam == nil {
		c.ui.Alert(AlertPhoto, MsgCamera)
		return &Error{Op: op, Kind: KindState, Message: MsgCamera, Err: photo.ErrCameraUnsupported}
	}

	p, err := photo.Capture(ctx, cam, c.features.ChromaKey, c.features.ChromaThreshold)
	if err != nil {
		logging.Error(subsystem, err, "camera snapshot failed")
		c.ui.Alert(AlertPhoto, MsgCaptureFailed)
		return &Error{Op: op, Kind: KindValidation, Message: MsgCaptureFailed, Err: err}
	}
	return c.hold(op, p)
}

// LoadPhoto uses an image file as the photo.
func (c *Controller) LoadPhoto(name string, data []byte) error {
	const op = "load photo"

	c.mu.Lock()
	if err := c.checkCaptureLocked(op); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	p, err := photo.Decode(name, data)
	if err != nil {
		logging.Warn(subsystem, "rejected %s: %v", name, err)
		c.ui.Alert(AlertPhoto, MsgInvalidFile)
		return &Error{Op: op, Kind: KindValidation, Message: MsgInvalidFile, Err: err}
	}
	return c.hold(op, p)
}

// Retake drops the held photo and brings back the capture controls.
func (c *Controller) Retake() error {
	c.mu.Lock()
	if err := c.checkLocked("retake", StepPhoto); err != nil {
		c.mu.Unlock()
		return err
	}
	c.held = nil
	c.tested = false
	c.captureControls = true
	c.mu.Unlock()

	c.ui.ShowPhoto(nil)
	c.ui.SetCaptureControls(true)
	return nil
}

// Formats lists the configured print formats.
func (c *Controller) Formats() []backend.PrintFormat {
	return append([]backend.PrintFormat(nil), c.formats...)
}

// Format returns the selected print format.
func (c *Controller) Format() (backend.PrintFormat, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.format == nil {
		return backend.PrintFormat{}, false
	}
	return *c.format, true
}

// SelectFormat chooses the print format used by TestPhoto and ConfirmPhoto.
// A new format invalidates an earlier test print.
func (c *Controller) SelectFormat(name string) error {
	const op = "select format"

	if !c.features.TestStep {
		return &Error{Op: op, Kind: KindState, Err: ErrDisabled}
	}
	f, ok := c.findFormat(name)
	if !ok {
		c.ui.Alert(AlertPhoto, MsgUnknownFormat)
		return &Error{Op: op, Kind: KindValidation, Message: MsgUnknownFormat, Err: fmt.Errorf("format %q", name)}
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return &Error{Op: op, Kind: KindState, Err: ErrBusy}
	}
	c.format = &f
	c.tested = false
	c.mu.Unlock()

	logging.Debug(subsystem, "format %s selected", f)
	return nil
}

// TestPhoto submits the photo and requests a test print with the selected
// format. The wizard stays on the Photo step.
func (c *Controller) TestPhoto(ctx context.Context) error {
	const op = "test photo"

	if !c.features.TestStep {
		return &Error{Op: op, Kind: KindState, Err: ErrDisabled}
	}

	c.mu.Lock()
	if err := c.checkLocked(op, StepPhoto); err != nil {
		c.mu.Unlock()
		return err
	}
	p, format := c.held, c.format
	if p == nil || format == nil {
		c.mu.Unlock()
		msg := MsgNoPhoto
		if p != nil {
			msg = MsgNoFormat
		}
		c.ui.Alert(AlertPhoto, msg)
		return &Error{Op: op, Kind: KindValidation, Message: msg}
	}
	f := *format
	c.busy = true
	c.mu.Unlock()

	c.ui.SetBusy(true)
	ctx = c.withSession(ctx)
	err := c.submit(ctx, p)
	if err != nil {
		c.setIdle()
		return c.fail(op, AlertPhoto, err, MsgSendFailed, false)
	}
	err = c.backend.TestPhoto(ctx, f)
	c.setIdle()
	if err != nil {
		return c.fail(op, AlertPhoto, err, MsgTestFailed, false)
	}

	c.mu.Lock()
	c.tested = true
	c.mu.Unlock()

	logging.Info(subsystem, "test print for %s ready", f)
	c.ui.ShowTestPreview(c.backend.PreviewURL())
	return nil
}

// ConfirmPhoto submits the photo and starts processing. On success the
// wizard moves to the Result step and plays the progress sequence; the call
// returns once that sequence has finished or ctx is done.
func (c *Controller) ConfirmPhoto(ctx context.Context) error {
	const op = "confirm photo"

	c.mu.Lock()
	if err := c.checkLocked(op, StepPhoto); err != nil {
		c.mu.Unlock()
		return err
	}
	p := c.held
	if p == nil {
		c.mu.Unlock()
		c.ui.Alert(AlertPhoto, MsgNoPhoto)
		return &Error{Op: op, Kind: KindValidation, Message: MsgNoPhoto}
	}
	var format *backend.PrintFormat
	if c.features.TestStep && c.format != nil {
		f := *c.format
		format = &f
	}
	c.busy = true
	c.mu.Unlock()

	c.ui.SetBusy(true)
	sctx := c.withSession(ctx)
	if err := c.submit(sctx, p); err != nil {
		c.setIdle()
		return c.fail(op, AlertPhoto, err, MsgSendFailed, false)
	}
	if err := c.backend.ProcessPhoto(sctx, format); err != nil {
		c.setIdle()
		return c.fail(op, AlertPhoto, err, MsgProcessFailed, false)
	}

	c.mu.Lock()
	c.step = StepResult
	c.busy = false
	cam := c.camera
	c.camera = nil
	c.mu.Unlock()
	c.closeCamera(cam)

	logging.Info(subsystem, "photo processed, session %s finished", c.session)
	c.ui.ShowStep(StepResult)
	c.ui.SetBusy(false)
	c.ui.ShowResult(c.backend.PreviewURL())

	pctx, stop := context.WithCancel(ctx)
	defer stop()
	go func() {
		select {
		case <-c.closed:
			stop()
		case <-pctx.Done():
		}
	}()
	if err := c.progress.Run(pctx, c.ui.SetProgress); err != nil {
		logging.Debug(subsystem, "progress interrupted: %v", err)
	}
	return nil
}

// Preview downloads the image last rendered by the backend: the test print
// on the Photo step, the processed result on the Result step.
func (c *Controller) Preview(ctx context.Context) ([]byte, error) {
	return c.backend.FetchPreview(c.withSession(ctx))
}

// Close releases the camera and stops a running progress sequence, so a
// replaced session stops reporting to its UI. Calling it again is safe.
func (c *Controller) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })

	c.mu.Lock()
	cam := c.camera
	c.camera = nil
	c.mu.Unlock()
	return c.closeCamera(cam)
}

func (c *Controller) hold(op string, p *photo.Photo) error {
	c.mu.Lock()
	if err := c.checkCaptureLocked(op); err != nil {
		c.mu.Unlock()
		return err
	}
	c.held = p
	c.tested = false
	c.captureControls = false
	c.mu.Unlock()

	logging.Info(subsystem, "holding photo %s", p)
	c.ui.ShowPhoto(p)
	c.ui.SetCaptureControls(false)
	return nil
}

// submit sends the photo through the endpoint the features select.
func (c *Controller) submit(ctx context.Context, p *photo.Photo) error {
	data, err := p.PNG()
	if err != nil {
		return err
	}
	if c.features.TextUpload {
		ack, err := c.backend.Upload(ctx, data)
		if err == nil {
			logging.Debug(subsystem, "upload acknowledged: %s", ack)
		}
		return err
	}
	return c.backend.CapturePhoto(ctx, data)
}

func (c *Controller) startCamera() {
	if c.openCamera == nil {
		return
	}
	cam, err := c.openCamera(c.device)
	if err != nil {
		logging.Warn(subsystem, "camera %d unavailable: %v", c.device, err)
		c.ui.Alert(AlertPhoto, MsgCamera)
		return
	}

	c.mu.Lock()
	old := c.camera
	c.camera = cam
	c.mu.Unlock()
	c.closeCamera(old)
}

func (c *Controller) closeCamera(cam photo.Camera) error {
	if cam == nil {
		return nil
	}
	if err := cam.Close(); err != nil {
		logging.Warn(subsystem, "closing camera: %v", err)
		return err
	}
	return nil
}

func (c *Controller) setIdle() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
	c.ui.SetBusy(false)
}

// fail turns a backend error into the alert the user sees. The backend's own
// message is preferred when useReplyMessage is set and it sent one.
func (c *Controller) fail(op string, target AlertTarget, err error, fallback string, useReplyMessage bool) error {
	we := &Error{Op: op, Kind: KindBackend, Message: fallback, Err: err}

	var se *backend.StatusError
	switch {
	case errors.Is(err, backend.ErrUnavailable), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		we.Kind = KindConnectivity
		we.Message = MsgConnection
	case errors.As(err, &se):
		if useReplyMessage && se.Message != "" {
			we.Message = se.Message
		}
	}

	logging.Error(subsystem, err, "%s failed (%s)", op, we.Kind)
	c.ui.Alert(target, we.Message)
	return we
}

func (c *Controller) checkLocked(op string, want Step) error {
	if c.step != want {
		return c.wrongStep(op)
	}
	if c.busy {
		return &Error{Op: op, Kind: KindState, Err: ErrBusy}
	}
	return nil
}

func (c *Controller) checkCaptureLocked(op string) error {
	if err := c.checkLocked(op, StepPhoto); err != nil {
		return err
	}
	if !c.captureControls {
		return &Error{Op: op, Kind: KindState, Err: fmt.Errorf("%w: a photo is already held, retake first", ErrWrongStep)}
	}
	return nil
}

func (c *Controller) wrongStep(op string) error {
	return &Error{Op: op, Kind: KindState, Err: fmt.Errorf("%w (step %s)", ErrWrongStep, c.step)}
}

func (c *Controller) withSession(ctx context.Context) context.Context {
	return backend.WithSession(ctx, c.session)
}

func (c *Controller) findFormat(name string) (backend.PrintFormat, bool) {
	for _, f := range c.formats {
		if f.Name == name {
			return f, true
		}
	}
	return backend.PrintFormat{}, false
}
