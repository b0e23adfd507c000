package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/qidili2/Cv-on-human-on-camera/internal/classify"
	"github.com/qidili2/Cv-on-human-on-camera/internal/pose"
	"github.com/qidili2/Cv-on-human-on-camera/internal/types"
)

// Label text constants: yellow, slightly above the nose, matching the
// original overlay.
const (
	labelScale     = 0.8
	labelThickness = 2
	labelYOffset   = 10
)

var labelColor = color.RGBA{R: 255, G: 255, A: 255}

// Annotate classifies one person and draws the returned label just above the
// nose joint.
//
// The classifier always receives the raw 17-joint person, never the
// synthesized 19-joint form — the classifier's expected input shape is fixed
// externally. The classifier is invoked even when the nose fails the gate;
// only the drawing is conditional (compute always, draw conditionally).
//
// A classifier failure is returned to the caller, who is expected to log and
// skip annotation for that person only; ErrMalformedDetection is fatal.
func Annotate(canvas Canvas, person types.Person, classifier classify.Classifier, threshold float64) error {
	if len(person) < types.RawJointCount {
		return fmt.Errorf("%w: person has %d joints, need %d",
			ErrMalformedDetection, len(person), types.RawJointCount)
	}

	label, err := classifier.Classify(person[:types.RawJointCount])
	if err != nil {
		return fmt.Errorf("render: classify person: %w", err)
	}

	nose := person[types.Nose]
	if !pose.Visible(nose.Confidence, threshold) {
		return nil
	}
	org := image.Pt(int(nose.X), int(nose.Y)-labelYOffset)
	canvas.Text(label, org, labelScale, labelColor, labelThickness)
	return nil
}
