// Package transform composes the geometric mapping between input volume
// space and the raycaster's output sampling space.
package transform

import (
	"errors"

	"golang.org/x/image/math/f64"
)

// ErrDegenerate is returned when a transform cannot be inverted, typically
// because a spacing or the zoom is zero.
var ErrDegenerate = errors.New("degenerate transform")

const minDeterminant = 1e-12

// Combined builds the forward transform from input voxel coordinates to
// output voxel coordinates:
//
//	Pout⁻¹ · T(c) · Zoom · R · T(−c) · Pin
//
// where Pin/Pout scale by the input/output pixel spacings, c is the rotation
// center in physical units and R is the camera rotation.
type Combined struct {
	pdIn     f64.Vec3
	pdOut    f64.Vec3
	center   f64.Vec3
	rotation f64.Mat4
	scale    float64
}

// New creates a Combined transform with no rotation and unit zoom.
func New(pdIn, pdOut, center f64.Vec3) *Combined {
	c := new(Combined)
	c.pdIn = pdIn
	c.pdOut = pdOut
	c.center = center
	c.rotation = Identity()
	c.scale = 1
	return c
}

// Forward calculates the forward transform from the current fields.
func (c *Combined) Forward() f64.Mat4 {
	m := scaling(c.pdIn)
	m = Mul(translation(f64.Vec3{-c.center[0], -c.center[1], -c.center[2]}), m)
	m = Mul(c.rotation, m)
	m = Mul(scaling(f64.Vec3{c.scale, c.scale, c.scale}), m)
	m = Mul(translation(c.center), m)
	return Mul(scaling(f64.Vec3{1 / c.pdOut[0], 1 / c.pdOut[1], 1 / c.pdOut[2]}), m)
}

// Inverse calculates the inverse of a forward transform.
func Inverse(fwd f64.Mat4) (f64.Mat4, error) {
	return Invert(fwd)
}

// InputSpacing returns the physical pixel spacing of the input volume.
func (c *Combined) InputSpacing() f64.Vec3 {
	return c.pdIn
}

// OutputSpacing returns the physical pixel spacing of the output samples.
func (c *Combined) OutputSpacing() f64.Vec3 {
	return c.pdOut
}

// SetOutputSpacing changes the output sampling, e.g. after a target size change.
func (c *Combined) SetOutputSpacing(p f64.Vec3) {
	c.pdOut = p
}

// Center returns the rotation center in physical units.
func (c *Combined) Center() f64.Vec3 {
	return c.center
}

// Scale returns the zoom applied about the rotation center.
func (c *Combined) Scale() float64 {
	return c.scale
}

// SetScale sets the zoom applied about the rotation center.
func (c *Combined) SetScale(s float64) {
	c.scale = s
}

// Rotation returns the camera rotation.
func (c *Combined) Rotation() f64.Mat4 {
	return c.rotation
}

// SetRotation replaces the camera rotation. Only the upper 3×3 block is used.
func (c *Combined) SetRotation(r f64.Mat4) {
	r[3], r[7], r[11] = 0, 0, 0
	r[12], r[13], r[14], r[15] = 0, 0, 0, 1
	c.rotation = r
}

// Rotate composes a rotation of angle radians about axis after the current one.
func (c *Combined) Rotate(axis f64.Vec3, angle float64) {
	c.rotation = Mul(AxisAngle(axis, angle), c.rotation)
}

// Clone returns a deep copy.
func (c *Combined) Clone() *Combined {
	out := *c
	return &out
}

// SetFrom copies all fields of o into c.
func (c *Combined) SetFrom(o *Combined) {
	*c = *o
}
