package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

var (
	// Up is the world up axis.
	Up = mgl64.Vec3{0, 1, 0}
	// Forward is the local axis objects and controllers point along.
	Forward = mgl64.Vec3{0, 0, -1}
)

// Transform is a local translation, rotation and scale (M = T * R * S).
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

func Identity() Transform {
	return Transform{
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// At returns an identity transform translated to p.
func At(p mgl64.Vec3) Transform {
	t := Identity()
	t.Position = p
	return t
}

func (t Transform) Matrix() mgl64.Mat4 {
	translate := mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := t.Rotation.Mat4()
	scale := mgl64.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(rotate).Mul4(scale)
}

// Decompose splits an affine matrix without shear back into a Transform.
func Decompose(m mgl64.Mat4) Transform {
	c0, c1, c2 := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
	sx, sy, sz := c0.Len(), c1.Len(), c2.Len()

	rot := mgl64.QuatIdent()
	if sx > 0 && sy > 0 && sz > 0 {
		r := mgl64.Mat4FromCols(
			c0.Mul(1/sx).Vec4(0),
			c1.Mul(1/sy).Vec4(0),
			c2.Mul(1/sz).Vec4(0),
			mgl64.Vec4{0, 0, 0, 1},
		)
		rot = mgl64.Mat4ToQuat(r).Normalize()
	}

	return Transform{
		Position: m.Col(3).Vec3(),
		Rotation: rot,
		Scale:    mgl64.Vec3{sx, sy, sz},
	}
}

// Lerp moves a toward b by factor t in [0, 1].
func Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
