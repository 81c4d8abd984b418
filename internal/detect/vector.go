package detect

import "math"

// Vec3 holds a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

// Magnitude returns the Euclidean norm.
func (v Vec3) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Dot returns the dot product with o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Unit returns the vector scaled to unit length. The second return is false
// when the magnitude is zero and no direction exists; callers must treat
// that as a degenerate signal rather than divide through it.
func (v Vec3) Unit() (Vec3, bool) {
	m := v.Magnitude()
	if m == 0 {
		return Vec3{}, false
	}
	inv := 1.0 / m
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}, true
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Scale returns v scaled by f.
func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}
