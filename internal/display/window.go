package display

import (
	"fmt"
	"time"

	"gocv.io/x/gocv"
)

// Window is the gocv-backed display port: a HighGUI window with IMShow and
// WaitKey as the event pump.
type Window struct {
	win    *gocv.Window
	closed bool
}

// NewWindow opens a named display window.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Present implements Port.
func (w *Window) Present(img gocv.Mat) error {
	if w.closed {
		return fmt.Errorf("display: window already closed")
	}
	w.win.IMShow(img)
	return nil
}

// PollExit implements Port. WaitKey doubles as the HighGUI event pump, so
// the wait is clamped to at least 1 ms.
func (w *Window) PollExit(wait time.Duration) bool {
	if w.closed {
		return true
	}
	ms := int(wait.Milliseconds())
	if ms < 1 {
		ms = 1
	}
	return w.win.WaitKey(ms) == ExitKey
}

// Close implements Port. Idempotent.
func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.win.Close(); err != nil {
		return fmt.Errorf("display: close window: %w", err)
	}
	return nil
}
