package stream

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"
)

// Mock is a scripted frame source for headless tests: it serves a fixed
// number of blank frames, then fails acquisition like a disconnected camera.
type Mock struct {
	// FailOpen makes Open report ErrDeviceUnavailable.
	FailOpen bool
	// FailReadAt makes Read fail on the given 1-based frame (0 = never).
	FailReadAt uint64

	frames int
	width  int
	height int

	mat    gocv.Mat
	seq    uint64
	opened bool

	// OpenCalls and CloseCalls count lifecycle invocations for assertions.
	OpenCalls  int
	CloseCalls int
}

// NewMock returns a source that serves n blank width×height frames.
func NewMock(n, width, height int) *Mock {
	return &Mock{frames: n, width: width, height: height}
}

// Open implements Source.
func (m *Mock) Open() error {
	m.OpenCalls++
	if m.FailOpen {
		return fmt.Errorf("%w: scripted open failure", ErrDeviceUnavailable)
	}
	m.mat = gocv.NewMatWithSize(m.height, m.width, gocv.MatTypeCV8UC3)
	m.opened = true
	return nil
}

// Read implements Source.
func (m *Mock) Read() (Frame, error) {
	if !m.opened {
		return Frame{}, fmt.Errorf("%w: mock not open", ErrFrameAcquisition)
	}
	next := m.seq + 1
	if m.FailReadAt != 0 && next >= m.FailReadAt {
		return Frame{}, fmt.Errorf("%w: scripted read failure at frame %d", ErrFrameAcquisition, next)
	}
	if next > uint64(m.frames) {
		return Frame{}, fmt.Errorf("%w: scripted frames exhausted", ErrFrameAcquisition)
	}
	m.seq = next
	return Frame{
		Seq:       m.seq,
		Timestamp: time.Now(),
		TraceID:   uuid.NewString(),
		Image:     m.mat,
	}, nil
}

// Close implements Source. Idempotent; the backing mat is released once.
func (m *Mock) Close() error {
	m.CloseCalls++
	if m.opened {
		m.mat.Close()
		m.opened = false
	}
	return nil
}
