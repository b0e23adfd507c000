package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/qidili2/Cv-on-human-on-camera/internal/pose"
	"github.com/qidili2/Cv-on-human-on-camera/internal/types"
)

// ErrMalformedDetection reports a person with fewer joints than the topology
// in use addresses. This is a contract violation from the pose model and is
// surfaced immediately rather than skipped, so per-person rendering can never
// silently diverge.
var ErrMalformedDetection = errors.New("render: malformed detection")

// Variant selects which skeleton table and style a render call uses.
type Variant int

const (
	// Simplified draws the raw 17-joint topology.
	Simplified Variant = iota
	// Extended synthesizes neck and pelvis and draws the 19-joint topology.
	Extended
)

// String returns a human-readable name for the variant.
func (v Variant) String() string {
	switch v {
	case Simplified:
		return "simplified-17"
	case Extended:
		return "extended-19"
	default:
		return "unknown"
	}
}

// style is the fixed per-variant presentation: marker radius and the marker,
// segment and thickness constants carried over from the original overlay.
type style struct {
	bones        []pose.Bone
	markerRadius int
	markerColor  color.RGBA
	boneColor    color.RGBA
	boneWidth    int
	synthesize   bool
}

var styles = map[Variant]style{
	Simplified: {
		bones:        pose.Simplified17,
		markerRadius: 5,
		markerColor:  color.RGBA{G: 255, A: 255},
		boneColor:    color.RGBA{B: 255, A: 255},
		boneWidth:    2,
	},
	Extended: {
		bones:        pose.Extended19,
		markerRadius: 4,
		markerColor:  color.RGBA{G: 255, A: 255},
		boneColor:    color.RGBA{R: 255, B: 255, A: 255},
		boneWidth:    2,
		synthesize:   true,
	},
}

// Skeleton draws every detected person onto the canvas: visible joints as
// filled markers first, then every topology segment whose two endpoints both
// pass the confidence gate. Joint coordinates are rounded to integer pixels
// at draw time.
//
// Extended synthesizes the 19-joint form per person before drawing; the
// input persons are never mutated.
func Skeleton(canvas Canvas, persons []types.Person, variant Variant, threshold float64) error {
	st, ok := styles[variant]
	if !ok {
		return fmt.Errorf("render: unknown variant %d", variant)
	}

	for i, person := range persons {
		if len(person) < types.RawJointCount {
			return fmt.Errorf("%w: person %d has %d joints, need %d",
				ErrMalformedDetection, i, len(person), types.RawJointCount)
		}

		var joints types.Person
		if st.synthesize {
			joints = pose.Synthesize(person, threshold)
		} else {
			joints = person[:types.RawJointCount]
		}

		// Markers first, then segments: segments layer on top, matching
		// the original overlay.
		for _, j := range joints {
			if pose.Visible(j.Confidence, threshold) {
				canvas.FillCircle(pixel(j), st.markerRadius, st.markerColor)
			}
		}
		for _, b := range st.bones {
			a, z := joints[b.A], joints[b.B]
			if pose.Visible(a.Confidence, threshold) && pose.Visible(z.Confidence, threshold) {
				canvas.Line(pixel(a), pixel(z), st.boneColor, st.boneWidth)
			}
		}
	}
	return nil
}

func pixel(k types.Keypoint) image.Point {
	return image.Pt(int(math.Round(k.X)), int(math.Round(k.Y)))
}
