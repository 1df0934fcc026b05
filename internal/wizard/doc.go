// Package wizard implements the portrait wizard: a four-step state machine
// (Intro, Height, Photo, Result) that collects the sitter's height, positions
// the robot, acquires a photo and hands it to the backend for processing.
//
// # Front ends
//
// The Controller never draws anything itself. Every visible effect goes
// through the UI interface, which the TUI, the console mode and the MCP tool
// server each implement. Operations return a *Error as well, so callers that
// have no screen (tests, MCP) can inspect what went wrong.
//
// # Flow
//
//	Intro --Begin--> Height --ConfirmHeight--> Photo --ConfirmPhoto--> Result
//	                                           |   ^
//	                                           +---+ Snap / LoadPhoto / Retake / TestPhoto
//
// A failed step never moves the wizard: the user sees a transient alert on
// the step's alert area and can try again. Every confirmation resubmits the
// held photo, so a failure halfway leaves nothing to undo.
//
// # Feature flags
//
//   - TestStep: pick a print format and run a test print before processing;
//     the format is sent along with the processing request.
//   - ChromaKey: whiten near-white background pixels of camera frames.
//   - TextUpload: send the photo to /upload instead of /capture_photo.
package wizard
