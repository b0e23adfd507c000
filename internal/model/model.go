// Package model invokes an external pose-estimation model on a frame.
package model

import (
	"context"

	"gocv.io/x/gocv"

	"github.com/qidili2/Cv-on-human-on-camera/internal/types"
)

// PoseModel is the pose-estimation collaborator: given an image it returns
// zero or more people, each an ordered 17-joint keypoint array in COCO index
// order with per-joint confidences.
//
// Inference is synchronous; its duration dominates the loop iteration and is
// out of the pipeline's control.
type PoseModel interface {
	Infer(ctx context.Context, img gocv.Mat, threshold float64) ([]types.Person, error)
}
