package view

const (
	// OverlayHorizontalFrame and OverlayVerticalFrame are the columns and
	// rows an overlay's border, padding and title take from the terminal.
	OverlayHorizontalFrame = 6
	OverlayVerticalFrame   = 5

	// minHeightForLogPanel is the terminal height below which the activity
	// log is only reachable through its overlay.
	minHeightForLogPanel = 30
	logPanelLines        = 6

	maxPreviewColumns = 64
	minPreviewColumns = 16
)
