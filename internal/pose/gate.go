// Package pose implements the skeleton geometry: confidence gating,
// neck/pelvis synthesis and the fixed joint-connectivity tables.
package pose

// DefaultThreshold is the confidence threshold applied when the caller does
// not configure one.
const DefaultThreshold = 0.3

// Visible reports whether a keypoint with the given confidence should be
// trusted for rendering or geometry. The compare is strictly greater-than, so
// a zeroed (invalid) joint never passes any non-negative threshold.
func Visible(confidence, threshold float64) bool {
	return confidence > threshold
}
