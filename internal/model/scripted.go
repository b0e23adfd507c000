package model

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/qidili2/Cv-on-human-on-camera/internal/types"
)

// Scripted is a PoseModel fake for headless tests: it returns one prepared
// detection list per call, in order, then repeats the last one.
type Scripted struct {
	// Frames holds the per-call detection lists.
	Frames [][]types.Person
	// FailAt makes the given 1-based call return an error (0 = never).
	FailAt int

	Calls int
}

// Infer implements PoseModel.
func (s *Scripted) Infer(_ context.Context, _ gocv.Mat, _ float64) ([]types.Person, error) {
	s.Calls++
	if s.FailAt != 0 && s.Calls >= s.FailAt {
		return nil, fmt.Errorf("model: scripted inference failure at call %d", s.Calls)
	}
	if len(s.Frames) == 0 {
		return nil, nil
	}
	idx := s.Calls - 1
	if idx >= len(s.Frames) {
		idx = len(s.Frames) - 1
	}
	return s.Frames[idx], nil
}
