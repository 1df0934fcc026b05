package wizard

import (
	"context"
	"time"
)

// Progress is the cosmetic progress sequence shown on the Result step. It
// does not track any backend work.
type Progress struct {
	Steps    int
	Interval time.Duration
}

// DefaultProgress is ten ticks of 200ms.
var DefaultProgress = Progress{Steps: 10, Interval: 200 * time.Millisecond}

// Run reports i/Steps for i = 1..Steps, waiting Interval before each report.
// It stops early with ctx's error.
func (p Progress) Run(ctx context.Context, report func(fraction float64)) error {
	if p.Steps <= 0 {
		report(1)
		return nil
	}
	timer := time.NewTimer(p.Interval)
	defer timer.Stop()

	for i := 1; i <= p.Steps; i++ {
		if i > 1 {
			timer.Reset(p.Interval)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		report(float64(i) / float64(p.Steps))
	}
	return nil
}
