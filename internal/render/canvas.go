// Package render draws skeleton overlays and action labels onto a frame.
//
// Drawing goes through the Canvas port so the renderer can be tested against
// a recording backend without OpenCV, while production uses a gocv.Mat.
package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Canvas is the minimal drawing surface the renderer needs. Coordinates are
// pixels; implementations mutate the underlying buffer in place.
type Canvas interface {
	// FillCircle draws a filled circular marker.
	FillCircle(center image.Point, radius int, c color.RGBA)
	// Line draws a straight segment of the given thickness.
	Line(a, b image.Point, c color.RGBA, thickness int)
	// Text draws s with its baseline origin at org.
	Text(s string, org image.Point, scale float64, c color.RGBA, thickness int)
}

// MatCanvas adapts a gocv.Mat to the Canvas port.
type MatCanvas struct {
	mat *gocv.Mat
}

// NewMatCanvas wraps the mat. The mat stays owned by the caller.
func NewMatCanvas(mat *gocv.Mat) *MatCanvas {
	return &MatCanvas{mat: mat}
}

// FillCircle implements Canvas.
func (m *MatCanvas) FillCircle(center image.Point, radius int, c color.RGBA) {
	gocv.Circle(m.mat, center, radius, c, -1)
}

// Line implements Canvas.
func (m *MatCanvas) Line(a, b image.Point, c color.RGBA, thickness int) {
	gocv.Line(m.mat, a, b, c, thickness)
}

// Text implements Canvas.
func (m *MatCanvas) Text(s string, org image.Point, scale float64, c color.RGBA, thickness int) {
	gocv.PutText(m.mat, s, org, gocv.FontHersheySimplex, scale, c, thickness)
}
