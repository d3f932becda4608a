package interaction

import "github.com/go-gl/mathgl/mgl64"

// laserScale stretches the unit laser along its local Z.
func laserScale(length float64) mgl64.Vec3 {
	return mgl64.Vec3{1, 1, length}
}
