// Package core orchestrates the capture → infer → render → display loop.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/qidili2/Cv-on-human-on-camera/internal/classify"
	"github.com/qidili2/Cv-on-human-on-camera/internal/display"
	"github.com/qidili2/Cv-on-human-on-camera/internal/model"
	"github.com/qidili2/Cv-on-human-on-camera/internal/render"
	"github.com/qidili2/Cv-on-human-on-camera/internal/stream"
	"github.com/qidili2/Cv-on-human-on-camera/internal/types"
)

// State is the pipeline lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateOpening
	StateRunning
	StateDraining
	StateClosed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpening:
		return "opening"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// defaultPollWait bounds the per-iteration exit poll so the loop stays
// responsive without busy-spinning the GUI pump.
const defaultPollWait = time.Millisecond

// Config wires the pipeline's collaborators. Source and Display are owned by
// the pipeline once Run starts and are released exactly once on every exit
// path; Model and Classifier lifetimes stay with the caller.
type Config struct {
	Source     stream.Source
	Model      model.PoseModel
	Classifier classify.Classifier
	Display    display.Port
	// Threshold is the session-wide confidence threshold.
	Threshold float64
	// PollWait bounds the exit poll (default 1ms).
	PollWait time.Duration
}

// Pipeline runs the single-threaded capture-infer-render-display loop.
//
// Per iteration: acquire frame, infer keypoints, draw the extended-19
// skeleton, annotate every person with an action label, present, poll for
// the exit key. There is no pipelining: a frame's keypoints always render
// onto that same frame's pixels.
type Pipeline struct {
	src        stream.Source
	model      model.PoseModel
	classifier classify.Classifier
	port       display.Port
	threshold  float64
	pollWait   time.Duration

	state       atomic.Int32
	releaseOnce sync.Once

	frames         atomic.Uint64
	classifierErrs atomic.Uint64
	startedAt      time.Time
}

// New validates the wiring fail-fast and returns an idle pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("core: frame source is required")
	}
	if cfg.Model == nil {
		return nil, fmt.Errorf("core: pose model is required")
	}
	if cfg.Classifier == nil {
		return nil, fmt.Errorf("core: classifier is required")
	}
	if cfg.Display == nil {
		return nil, fmt.Errorf("core: display port is required")
	}
	if cfg.PollWait <= 0 {
		cfg.PollWait = defaultPollWait
	}
	return &Pipeline{
		src:        cfg.Source,
		model:      cfg.Model,
		classifier: cfg.Classifier,
		port:       cfg.Display,
		threshold:  cfg.Threshold,
		pollWait:   cfg.PollWait,
	}, nil
}

// State returns the current lifecycle state. Thread-safe.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// Run drives the loop until the exit key, context cancellation or a fatal
// stage failure. The source and display are released exactly once on every
// exit path, including open failure. Run can be called once per pipeline.
func (p *Pipeline) Run(ctx context.Context) error {
	if !p.state.CompareAndSwap(int32(StateIdle), int32(StateOpening)) {
		return fmt.Errorf("core: pipeline already run (state %s)", p.State())
	}
	defer p.release()

	if err := p.src.Open(); err != nil {
		return fmt.Errorf("core: open stage: %w", err)
	}
	p.state.Store(int32(StateRunning))
	p.startedAt = time.Now()
	slog.Info("pipeline running", "threshold", p.threshold)

	for {
		select {
		case <-ctx.Done():
			p.state.Store(int32(StateDraining))
			slog.Info("pipeline interrupted", "frames", p.frames.Load())
			return nil
		default:
		}

		frame, err := p.src.Read()
		if err != nil {
			p.state.Store(int32(StateDraining))
			return fmt.Errorf("core: read stage: %w", err)
		}

		persons, err := p.model.Infer(ctx, frame.Image, p.threshold)
		if err != nil {
			p.state.Store(int32(StateDraining))
			return fmt.Errorf("core: infer stage: %w", err)
		}

		canvas := render.NewMatCanvas(&frame.Image)
		if err := render.Skeleton(canvas, persons, render.Extended, p.threshold); err != nil {
			p.state.Store(int32(StateDraining))
			return fmt.Errorf("core: render stage: %w", err)
		}

		for i, person := range persons {
			if err := p.annotate(canvas, person); err != nil {
				if errors.Is(err, render.ErrMalformedDetection) {
					p.state.Store(int32(StateDraining))
					return fmt.Errorf("core: annotate stage: %w", err)
				}
				// A classification failure never aborts the pipeline.
				p.classifierErrs.Add(1)
				slog.Warn("classification failed, skipping annotation",
					"trace_id", frame.TraceID,
					"seq", frame.Seq,
					"person", i,
					"error", err,
				)
			}
		}

		if err := p.port.Present(frame.Image); err != nil {
			p.state.Store(int32(StateDraining))
			return fmt.Errorf("core: display stage: %w", err)
		}
		p.frames.Add(1)

		if p.port.PollExit(p.pollWait) {
			p.state.Store(int32(StateDraining))
			slog.Info("exit key received", "frames", p.frames.Load())
			return nil
		}
	}
}

func (p *Pipeline) annotate(canvas render.Canvas, person types.Person) error {
	return render.Annotate(canvas, person, p.classifier, p.threshold)
}

// release closes the source and display exactly once and moves the pipeline
// to Closed. Runs unconditionally on every Run exit path.
func (p *Pipeline) release() {
	p.releaseOnce.Do(func() {
		if err := p.src.Close(); err != nil {
			slog.Warn("closing frame source", "error", err)
		}
		if err := p.port.Close(); err != nil {
			slog.Warn("closing display", "error", err)
		}
		p.state.Store(int32(StateClosed))
		slog.Info("pipeline closed", "frames", p.frames.Load())
	})
}
