// Package stream acquires video frames from a capture device.
package stream

import (
	"errors"
	"time"

	"gocv.io/x/gocv"
)

// ErrDeviceUnavailable reports a capture device that failed to open. The
// pipeline never starts its loop after this.
var ErrDeviceUnavailable = errors.New("stream: device unavailable")

// ErrFrameAcquisition reports a mid-session read failure. A silent camera
// disconnect has no safe recovery here, so this ends the session rather than
// being retried.
var ErrFrameAcquisition = errors.New("stream: frame acquisition failed")

// Frame is one captured video frame.
//
// Image is a buffer owned by the source: it stays valid until the next Read
// and must not be retained across iterations. The pipeline consumes each
// frame synchronously, so no copy is made.
type Frame struct {
	// Seq is the monotonic sequence number, starting at 1.
	Seq uint64
	// Timestamp is when the frame was read from the device.
	Timestamp time.Time
	// TraceID identifies the frame in log lines.
	TraceID string
	// Image is the mutable pixel buffer the overlay is drawn onto.
	Image gocv.Mat
}

// Source is the contract for sequential frame acquisition.
//
// Implementations must guarantee:
//   - Open() acquires the device exactly once; a second Open is an error
//   - Read() blocks until the next frame is available or fails
//   - Read() failures are terminal; callers must not retry
//   - Close() is idempotent and releases the device unconditionally
type Source interface {
	Open() error
	Read() (Frame, error)
	Close() error
}
