package app

import (
	"fmt"
	"io"
	"sync"

	"retrato/internal/photo"
	"retrato/internal/wizard"
)

// consoleUI prints the wizard's screen changes as plain lines.
type consoleUI struct {
	mu          sync.Mutex
	out         io.Writer
	lastPercent int
}

func newConsoleUI(out io.Writer) *consoleUI {
	return &consoleUI{out: out, lastPercent: -1}
}

func (c *consoleUI) printf(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *consoleUI) ShowStep(s wizard.Step) {
	c.printf("[%d/%d] %s\n", s.Number(), wizard.StepCount, s)
}

func (c *consoleUI) Alert(target wizard.AlertTarget, msg string) {
	c.printf("! %s: %s\n", target, msg)
}

func (c *consoleUI) ShowPhoto(p *photo.Photo) {
	if p != nil {
		c.printf("Photo: %s\n", p)
	}
}

func (c *consoleUI) SetCaptureControls(bool) {}

func (c *consoleUI) SetBusy(busy bool) {
	if busy {
		c.printf("Waiting for the robot...\n")
	}
}

func (c *consoleUI) ShowTestPreview(url string) {
	c.printf("Test print preview: %s\n", url)
}

func (c *consoleUI) ShowResult(url string) {
	c.printf("Preview: %s\n", url)
}

// SetProgress prints every tenth of the way.
func (c *consoleUI) SetProgress(f float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	percent := int(f*10) * 10
	if percent == c.lastPercent {
		return
	}
	c.lastPercent = percent
	fmt.Fprintf(c.out, "Drawing... %d%%\n", percent)
}
