package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/qidili2/Cv-on-human-on-camera/internal/classify"
	"github.com/qidili2/Cv-on-human-on-camera/internal/core"
	"github.com/qidili2/Cv-on-human-on-camera/internal/display"
	"github.com/qidili2/Cv-on-human-on-camera/internal/model"
	"github.com/qidili2/Cv-on-human-on-camera/internal/stream"
	"github.com/qidili2/Cv-on-human-on-camera/internal/types"
)

// visiblePerson returns a detection with nose, shoulders and hips above a
// 0.3 threshold.
func visiblePerson() types.Person {
	p := make(types.Person, types.RawJointCount)
	p[types.Nose] = types.Keypoint{X: 150, Y: 50, Confidence: 0.9}
	p[types.LeftShoulder] = types.Keypoint{X: 100, Y: 100, Confidence: 0.9}
	p[types.RightShoulder] = types.Keypoint{X: 200, Y: 100, Confidence: 0.9}
	p[types.LeftHip] = types.Keypoint{X: 100, Y: 300, Confidence: 0.9}
	p[types.RightHip] = types.Keypoint{X: 200, Y: 300, Confidence: 0.9}
	return p
}

// errClassifier always fails, to exercise the log-and-skip policy.
type errClassifier struct {
	calls int
}

func (e *errClassifier) Classify(types.Person) (string, error) {
	e.calls++
	return "", errors.New("scripted classifier failure")
}

func newPipeline(t *testing.T, src stream.Source, m model.PoseModel, cl classify.Classifier, port display.Port) *core.Pipeline {
	t.Helper()
	p, err := core.New(core.Config{
		Source:     src,
		Model:      m,
		Classifier: cl,
		Display:    port,
		Threshold:  0.3,
		PollWait:   time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

// TestRunOpenFailure validates the device-unavailable path: zero render or
// display calls, cleanup invoked exactly once, terminal state Closed.
func TestRunOpenFailure(t *testing.T) {
	src := stream.NewMock(3, 64, 48)
	src.FailOpen = true
	port := &display.Mock{}
	m := &model.Scripted{}

	p := newPipeline(t, src, m, classify.NewRules(0.3), port)
	err := p.Run(context.Background())
	if !errors.Is(err, stream.ErrDeviceUnavailable) {
		t.Fatalf("err = %v, want ErrDeviceUnavailable", err)
	}

	if m.Calls != 0 {
		t.Errorf("model invoked %d times before open, want 0", m.Calls)
	}
	if port.Presents != 0 {
		t.Errorf("display presented %d frames, want 0", port.Presents)
	}
	if src.CloseCalls != 1 || port.CloseCalls != 1 {
		t.Errorf("release calls: source=%d display=%d, want 1 and 1", src.CloseCalls, port.CloseCalls)
	}
	if p.State() != core.StateClosed {
		t.Errorf("state = %s, want closed", p.State())
	}
}

// TestRunExitKeyLifecycle validates the scripted-exit scenario: exit key on
// iteration 3 yields exactly 3 render/display cycles, terminal Closed state
// and single release.
func TestRunExitKeyLifecycle(t *testing.T) {
	src := stream.NewMock(10, 64, 48)
	port := &display.Mock{ExitAtPoll: 3}
	m := &model.Scripted{Frames: [][]types.Person{{visiblePerson()}}}

	p := newPipeline(t, src, m, classify.NewRules(0.3), port)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if port.Presents != 3 {
		t.Errorf("presents = %d, want 3", port.Presents)
	}
	if m.Calls != 3 {
		t.Errorf("model calls = %d, want 3", m.Calls)
	}
	if src.CloseCalls != 1 || port.CloseCalls != 1 {
		t.Errorf("release calls: source=%d display=%d, want 1 and 1", src.CloseCalls, port.CloseCalls)
	}
	if p.State() != core.StateClosed {
		t.Errorf("state = %s, want closed", p.State())
	}
	if got := p.Stats().Frames; got != 3 {
		t.Errorf("stats frames = %d, want 3", got)
	}
}

// TestRunAcquisitionFailure validates a mid-loop read failure is fatal, not
// retried, and still releases resources.
func TestRunAcquisitionFailure(t *testing.T) {
	src := stream.NewMock(10, 64, 48)
	src.FailReadAt = 3
	port := &display.Mock{}
	m := &model.Scripted{Frames: [][]types.Person{{visiblePerson()}}}

	p := newPipeline(t, src, m, classify.NewRules(0.3), port)
	err := p.Run(context.Background())
	if !errors.Is(err, stream.ErrFrameAcquisition) {
		t.Fatalf("err = %v, want ErrFrameAcquisition", err)
	}

	if port.Presents != 2 {
		t.Errorf("presents = %d, want 2 (frames before the failure)", port.Presents)
	}
	if src.CloseCalls != 1 || port.CloseCalls != 1 {
		t.Errorf("release calls: source=%d display=%d, want 1 and 1", src.CloseCalls, port.CloseCalls)
	}
	if p.State() != core.StateClosed {
		t.Errorf("state = %s, want closed", p.State())
	}
}

// TestClassifierFailureDoesNotAbort validates the per-person skip policy: a
// failing classifier is logged and counted but the loop keeps presenting.
func TestClassifierFailureDoesNotAbort(t *testing.T) {
	src := stream.NewMock(10, 64, 48)
	port := &display.Mock{ExitAtPoll: 2}
	m := &model.Scripted{Frames: [][]types.Person{{visiblePerson()}}}
	cl := &errClassifier{}

	p := newPipeline(t, src, m, cl, port)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if port.Presents != 2 {
		t.Errorf("presents = %d, want 2", port.Presents)
	}
	if cl.calls != 2 {
		t.Errorf("classifier calls = %d, want 2 (invoked every frame)", cl.calls)
	}
	if got := p.Stats().ClassifierErrors; got != 2 {
		t.Errorf("stats classifier errors = %d, want 2", got)
	}
}

// TestRunContextCancel validates cancellation is a clean exit path with
// resources released.
func TestRunContextCancel(t *testing.T) {
	src := stream.NewMock(10, 64, 48)
	port := &display.Mock{}
	m := &model.Scripted{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newPipeline(t, src, m, classify.NewRules(0.3), port)
	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run after cancel = %v, want nil", err)
	}
	if src.CloseCalls != 1 || port.CloseCalls != 1 {
		t.Errorf("release calls: source=%d display=%d, want 1 and 1", src.CloseCalls, port.CloseCalls)
	}
	if p.State() != core.StateClosed {
		t.Errorf("state = %s, want closed", p.State())
	}
}

// TestRunOnce validates the loop never restarts itself: a second Run on a
// closed pipeline is rejected.
func TestRunOnce(t *testing.T) {
	src := stream.NewMock(10, 64, 48)
	port := &display.Mock{ExitAtPoll: 1}
	m := &model.Scripted{}

	p := newPipeline(t, src, m, classify.NewRules(0.3), port)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	if err := p.Run(context.Background()); err == nil {
		t.Fatal("second Run succeeded, want error")
	}
}

func TestNewValidation(t *testing.T) {
	_, err := core.New(core.Config{})
	if err == nil {
		t.Fatal("New with no collaborators succeeded, want error")
	}
}
