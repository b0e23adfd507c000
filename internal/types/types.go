// Package types defines the keypoint data model shared by the capture,
// inference and rendering stages.
package types

// Joint indices follow the COCO 17-keypoint convention emitted by YOLO-pose
// models. Neck and Pelvis are synthesized midpoints, never produced by the
// model itself.
const (
	Nose          = 0
	LeftEye       = 1
	RightEye      = 2
	LeftEar       = 3
	RightEar      = 4
	LeftShoulder  = 5
	RightShoulder = 6
	LeftElbow     = 7
	RightElbow    = 8
	LeftWrist     = 9
	RightWrist    = 10
	LeftHip       = 11
	RightHip      = 12
	LeftKnee      = 13
	RightKnee     = 14
	LeftAnkle     = 15
	RightAnkle    = 16
	Neck          = 17
	Pelvis        = 18
)

// RawJointCount is the number of joints delivered by the pose model.
const RawJointCount = 17

// FullJointCount is RawJointCount plus the synthesized neck and pelvis.
const FullJointCount = 19

// Keypoint is a single (x, y, confidence) observation of one anatomical
// landmark, in pixel coordinates.
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// Person is one detected individual's ordered keypoint set for one frame.
// The model delivers exactly RawJointCount entries; the renderer works on a
// synthesized FullJointCount copy and never mutates the original.
type Person []Keypoint
