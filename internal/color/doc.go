// Package color holds the terminal palette and lipgloss styles shared by the
// TUI views and the console front end.
//
// Colors are lipgloss.AdaptiveColor values, so one style set serves dark and
// light terminals. Initialize tells lipgloss which background to assume; the
// TUI calls it at start-up and again when the user toggles the theme.
//
// # Semantic colors
//
//   - Primary: titles, the active wizard step
//   - Success: completed steps, positive banners
//   - Error: alerts and failed log lines
//   - Warning: warnings in the activity log
//   - Muted: hints, pending steps, debug lines
//
// # Usage Example
//
//	color.Initialize(true)
//	fmt.Println(color.AlertStyle.Render("Invalid height"))
package color
