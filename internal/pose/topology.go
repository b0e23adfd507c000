package pose

import "github.com/qidili2/Cv-on-human-on-camera/internal/types"

// Bone is a pair of joint indices connected by a drawn segment.
type Bone struct {
	A int
	B int
}

// Simplified17 connects the raw 17 joints only: limbs, shoulder and hip
// lines, direct shoulder-to-hip torso links and nose-to-shoulder head links.
var Simplified17 = []Bone{
	{types.LeftShoulder, types.LeftElbow},
	{types.LeftElbow, types.LeftWrist},
	{types.RightShoulder, types.RightElbow},
	{types.RightElbow, types.RightWrist},
	{types.LeftHip, types.LeftKnee},
	{types.LeftKnee, types.LeftAnkle},
	{types.RightHip, types.RightKnee},
	{types.RightKnee, types.RightAnkle},
	{types.LeftShoulder, types.RightShoulder},
	{types.LeftHip, types.RightHip},
	{types.LeftShoulder, types.LeftHip},
	{types.RightShoulder, types.RightHip},
	{types.Nose, types.LeftShoulder},
	{types.Nose, types.RightShoulder},
}

// Extended19 routes the torso through the synthesized neck and pelvis hubs
// instead of direct shoulder-to-hip links, and adds the eye line.
var Extended19 = []Bone{
	{types.LeftEye, types.RightEye},
	{types.Nose, types.Neck},
	{types.LeftShoulder, types.LeftElbow},
	{types.LeftElbow, types.LeftWrist},
	{types.RightShoulder, types.RightElbow},
	{types.RightElbow, types.RightWrist},
	{types.Neck, types.LeftShoulder},
	{types.Neck, types.RightShoulder},
	{types.Pelvis, types.LeftHip},
	{types.Pelvis, types.RightHip},
	{types.LeftHip, types.LeftKnee},
	{types.LeftKnee, types.LeftAnkle},
	{types.RightHip, types.RightKnee},
	{types.RightKnee, types.RightAnkle},
	{types.Neck, types.Pelvis},
}
