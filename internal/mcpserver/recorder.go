package mcpserver

import (
	"sync"

	"retrato/internal/photo"
	"retrato/internal/wizard"
)

// Recorder is the wizard UI of a tool session. It keeps what a screen
// would show and the controller snapshot does not.
type Recorder struct {
	mu sync.Mutex

	alerts         map[wizard.AlertTarget]string
	testPreviewURL string
	resultURL      string
	progress       float64
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{alerts: make(map[wizard.AlertTarget]string)}
}

func (r *Recorder) ShowStep(wizard.Step) {}

func (r *Recorder) Alert(target wizard.AlertTarget, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts[target] = msg
}

// ShowPhoto drops the test preview, which belonged to the previous photo.
func (r *Recorder) ShowPhoto(*photo.Photo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.testPreviewURL = ""
}

func (r *Recorder) SetCaptureControls(bool) {}

func (r *Recorder) SetBusy(bool) {}

func (r *Recorder) ShowTestPreview(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.testPreviewURL = url
}

func (r *Recorder) ShowResult(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resultURL = url
}

func (r *Recorder) SetProgress(f float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = f
}

// TakeAlerts returns the alerts raised since the last call and forgets them.
func (r *Recorder) TakeAlerts() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.alerts) == 0 {
		return nil
	}
	out := make(map[string]string, len(r.alerts))
	for target, msg := range r.alerts {
		out[target.String()] = msg
	}
	clear(r.alerts)
	return out
}

func (r *Recorder) view() (testURL, resultURL string, progress float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.testPreviewURL, r.resultURL, r.progress
}
