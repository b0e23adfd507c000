package stream

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"
)

// emptyFrameGrace bounds how many empty warm-up mats a Read will skip before
// treating the device as broken. Webcams commonly deliver a few empty frames
// right after opening.
const emptyFrameGrace = 30

// Camera captures frames from a local video device by index.
type Camera struct {
	index  int
	width  int
	height int

	cap *gocv.VideoCapture
	mat gocv.Mat
	seq uint64

	opened bool
	closed bool
}

// NewCamera returns an unopened camera source. The requested resolution is
// applied best-effort at Open; the device may ignore it.
func NewCamera(index, width, height int) (*Camera, error) {
	if index < 0 {
		return nil, fmt.Errorf("stream: invalid camera index %d", index)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("stream: invalid resolution %dx%d", width, height)
	}
	return &Camera{index: index, width: width, height: height}, nil
}

// Open implements Source.
func (c *Camera) Open() error {
	if c.opened {
		return fmt.Errorf("stream: camera %d already opened", c.index)
	}

	vc, err := gocv.OpenVideoCapture(c.index)
	if err != nil {
		return fmt.Errorf("%w: open camera %d: %v", ErrDeviceUnavailable, c.index, err)
	}
	vc.Set(gocv.VideoCaptureFrameWidth, float64(c.width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(c.height))

	if !vc.IsOpened() {
		vc.Close()
		return fmt.Errorf("%w: camera %d not ready", ErrDeviceUnavailable, c.index)
	}

	c.cap = vc
	c.mat = gocv.NewMat()
	c.opened = true
	return nil
}

// Read implements Source. The returned frame's Image aliases an internal
// buffer that is overwritten by the next Read.
func (c *Camera) Read() (Frame, error) {
	if !c.opened || c.closed {
		return Frame{}, fmt.Errorf("%w: camera %d not open", ErrFrameAcquisition, c.index)
	}

	for attempt := 0; attempt < emptyFrameGrace; attempt++ {
		if ok := c.cap.Read(&c.mat); !ok {
			return Frame{}, fmt.Errorf("%w: read camera %d", ErrFrameAcquisition, c.index)
		}
		if !c.mat.Empty() {
			c.seq++
			return Frame{
				Seq:       c.seq,
				Timestamp: time.Now(),
				TraceID:   uuid.NewString(),
				Image:     c.mat,
			}, nil
		}
	}
	return Frame{}, fmt.Errorf("%w: camera %d delivered only empty frames", ErrFrameAcquisition, c.index)
}

// Close implements Source. Safe to call multiple times and before Open.
func (c *Camera) Close() error {
	if !c.opened || c.closed {
		c.closed = true
		return nil
	}
	c.closed = true

	err := c.cap.Close()
	c.mat.Close()
	if err != nil {
		return fmt.Errorf("stream: close camera %d: %w", c.index, err)
	}
	return nil
}
