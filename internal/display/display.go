// Package display presents rendered frames and polls for the exit key.
package display

import (
	"time"

	"gocv.io/x/gocv"
)

// ExitKey ends the session when pressed in the display window.
const ExitKey = 'q'

// Port is the display abstraction the pipeline drives. It exists so the
// loop's state machine can run headlessly against a fake in tests.
//
// Implementations must guarantee:
//   - Present never blocks beyond the GUI event pump
//   - PollExit waits at most the given bound (non-blocking poll)
//   - Close is idempotent and releases window resources unconditionally
type Port interface {
	// Present shows the frame buffer.
	Present(img gocv.Mat) error
	// PollExit pumps GUI events for at most wait and reports whether the
	// exit key was pressed.
	PollExit(wait time.Duration) bool
	Close() error
}
