package wizard

// Step is one screen of the wizard.
type Step int

const (
	StepIntro Step = iota
	StepHeight
	StepPhoto
	StepResult
)

// String provides a human-readable representation of the Step.
func (s Step) String() string {
	switch s {
	case StepIntro:
		return "Intro"
	case StepHeight:
		return "Height"
	case StepPhoto:
		return "Photo"
	case StepResult:
		return "Result"
	default:
		return "Unknown"
	}
}

// Number is the 1-based position of the step, for "step 2/4" displays.
func (s Step) Number() int { return int(s) + 1 }

// StepCount is the number of wizard steps.
const StepCount = 4
