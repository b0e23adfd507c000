// Package classify labels a detected person's coarse action from their
// keypoints.
package classify

import (
	"fmt"

	"github.com/qidili2/Cv-on-human-on-camera/internal/pose"
	"github.com/qidili2/Cv-on-human-on-camera/internal/types"
)

// Classifier maps one person's keypoints to a short action label.
//
// Implementations must:
//   - accept the raw 17-joint person shape (the annotator never passes the
//     synthesized 19-joint form)
//   - not mutate the person
//   - return quickly; the call sits on the per-frame hot path
type Classifier interface {
	Classify(person types.Person) (string, error)
}

// Rules is a geometric rule classifier good enough to exercise the pipeline
// without an external model: it distinguishes raised arms, sitting and
// standing from joint positions. Pixel y grows downward.
type Rules struct {
	// Threshold gates which joints participate in the rules.
	Threshold float64
}

// NewRules returns a rule classifier using the given confidence threshold.
func NewRules(threshold float64) *Rules {
	return &Rules{Threshold: threshold}
}

// Classify implements Classifier.
func (r *Rules) Classify(person types.Person) (string, error) {
	if len(person) < types.RawJointCount {
		return "", fmt.Errorf("classify: person has %d joints, need %d", len(person), types.RawJointCount)
	}

	if r.armsRaised(person) {
		return "arms up", nil
	}
	if r.sitting(person) {
		return "sitting", nil
	}
	if r.upright(person) {
		return "standing", nil
	}
	return "unknown", nil
}

// armsRaised holds when at least one visible wrist sits above its shoulder
// line by more than a small margin.
func (r *Rules) armsRaised(p types.Person) bool {
	pairs := [][2]int{
		{types.LeftWrist, types.LeftShoulder},
		{types.RightWrist, types.RightShoulder},
	}
	for _, pair := range pairs {
		wrist, shoulder := p[pair[0]], p[pair[1]]
		if pose.Visible(wrist.Confidence, r.Threshold) &&
			pose.Visible(shoulder.Confidence, r.Threshold) &&
			wrist.Y < shoulder.Y {
			return true
		}
	}
	return false
}

// sitting holds when the hip-to-knee drop is small compared with the
// shoulder-to-hip torso length, i.e. the thighs are close to horizontal.
func (r *Rules) sitting(p types.Person) bool {
	shoulder, hip, knee := p[types.LeftShoulder], p[types.LeftHip], p[types.LeftKnee]
	if !pose.Visible(shoulder.Confidence, r.Threshold) ||
		!pose.Visible(hip.Confidence, r.Threshold) ||
		!pose.Visible(knee.Confidence, r.Threshold) {
		return false
	}
	torso := hip.Y - shoulder.Y
	thigh := knee.Y - hip.Y
	return torso > 0 && thigh < torso*0.5
}

// upright holds when shoulders sit above hips with both pairs visible.
func (r *Rules) upright(p types.Person) bool {
	shoulder, hip := p[types.LeftShoulder], p[types.LeftHip]
	return pose.Visible(shoulder.Confidence, r.Threshold) &&
		pose.Visible(hip.Confidence, r.Threshold) &&
		shoulder.Y < hip.Y
}
