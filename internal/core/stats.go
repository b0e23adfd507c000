package core

import "time"

// Stats is a snapshot of the pipeline's run counters.
type Stats struct {
	// Frames is the number of fully presented iterations.
	Frames uint64
	// ClassifierErrors counts per-person classification failures that were
	// logged and skipped.
	ClassifierErrors uint64
	// Elapsed is the time since the loop entered Running.
	Elapsed time.Duration
	// FPS is the measured presentation rate over Elapsed.
	FPS float64
}

// Stats returns current counters. Thread-safe; callable during and after Run.
func (p *Pipeline) Stats() Stats {
	s := Stats{
		Frames:           p.frames.Load(),
		ClassifierErrors: p.classifierErrs.Load(),
	}
	if !p.startedAt.IsZero() {
		s.Elapsed = time.Since(p.startedAt)
		if secs := s.Elapsed.Seconds(); secs > 0 {
			s.FPS = float64(s.Frames) / secs
		}
	}
	return s
}
