package display

import (
	"time"

	"gocv.io/x/gocv"
)

// Mock is a headless display port for tests. It counts presents and reports
// the exit key on a scripted poll.
type Mock struct {
	// ExitAtPoll makes the given 1-based PollExit call report the exit key
	// (0 = never).
	ExitAtPoll int

	Presents   int
	Polls      int
	CloseCalls int
}

// Present implements Port.
func (m *Mock) Present(gocv.Mat) error {
	m.Presents++
	return nil
}

// PollExit implements Port.
func (m *Mock) PollExit(time.Duration) bool {
	m.Polls++
	return m.ExitAtPoll != 0 && m.Polls >= m.ExitAtPoll
}

// Close implements Port.
func (m *Mock) Close() error {
	m.CloseCalls++
	return nil
}
