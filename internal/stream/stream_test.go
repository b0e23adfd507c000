package stream_test

import (
	"errors"
	"testing"

	"github.com/qidili2/Cv-on-human-on-camera/internal/stream"
)

func TestNewCameraValidation(t *testing.T) {
	if _, err := stream.NewCamera(-1, 1280, 720); err == nil {
		t.Error("negative device index accepted")
	}
	if _, err := stream.NewCamera(0, 0, 720); err == nil {
		t.Error("zero width accepted")
	}
}

func TestCameraCloseBeforeOpen(t *testing.T) {
	c, err := stream.NewCamera(0, 1280, 720)
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close before Open = %v, want nil", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
	if _, err := c.Read(); !errors.Is(err, stream.ErrFrameAcquisition) {
		t.Errorf("Read on closed camera = %v, want ErrFrameAcquisition", err)
	}
}

// TestMockScriptedLifecycle validates the scripted source: n frames with
// increasing sequence numbers and fresh trace IDs, then a terminal
// acquisition failure.
func TestMockScriptedLifecycle(t *testing.T) {
	m := stream.NewMock(2, 64, 48)
	if err := m.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer m.Close()

	first, err := m.Read()
	if err != nil {
		t.Fatalf("first Read failed: %v", err)
	}
	second, err := m.Read()
	if err != nil {
		t.Fatalf("second Read failed: %v", err)
	}
	if first.Seq != 1 || second.Seq != 2 {
		t.Errorf("sequence = %d,%d, want 1,2", first.Seq, second.Seq)
	}
	if first.TraceID == "" || first.TraceID == second.TraceID {
		t.Error("trace IDs must be unique and non-empty")
	}

	if _, err := m.Read(); !errors.Is(err, stream.ErrFrameAcquisition) {
		t.Errorf("exhausted Read = %v, want ErrFrameAcquisition", err)
	}
}
