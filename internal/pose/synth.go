package pose

import "github.com/qidili2/Cv-on-human-on-camera/internal/types"

// Synthesize returns a FullJointCount copy of the person with the neck
// (index 17) and pelvis (index 18) appended.
//
// Each synthesized joint is the componentwise average of its two anchors:
// shoulders for the neck, hips for the pelvis. When either anchor fails the
// confidence gate the joint is left zeroed, which guarantees it also fails
// every downstream gate and is never drawn.
//
// The synthesized confidence is the average of the anchor confidences, so a
// joint built from two marginal anchors can itself fall below the threshold.
// That cascading uncertainty is deliberate.
//
// The input person is not mutated. The caller must supply at least
// RawJointCount joints.
func Synthesize(person types.Person, threshold float64) types.Person {
	out := make(types.Person, types.FullJointCount)
	copy(out, person[:types.RawJointCount])
	out[types.Neck] = midpoint(person[types.LeftShoulder], person[types.RightShoulder], threshold)
	out[types.Pelvis] = midpoint(person[types.LeftHip], person[types.RightHip], threshold)
	return out
}

func midpoint(a, b types.Keypoint, threshold float64) types.Keypoint {
	if !Visible(a.Confidence, threshold) || !Visible(b.Confidence, threshold) {
		return types.Keypoint{}
	}
	return types.Keypoint{
		X:          (a.X + b.X) / 2,
		Y:          (a.Y + b.Y) / 2,
		Confidence: (a.Confidence + b.Confidence) / 2,
	}
}
