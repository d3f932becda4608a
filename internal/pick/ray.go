package pick

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/vrlab/internal/scene"
)

// DefaultControllerRange is the farthest a controller ray reports a hit.
const DefaultControllerRange = 10.0

type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Lens is the perspective of the camera used for screen-space picking.
type Lens struct {
	FovY   float64 // radians
	Aspect float64
	Near   float64
	Far    float64
}

func DefaultLens(aspect float64) Lens {
	return Lens{FovY: mgl64.DegToRad(75), Aspect: aspect, Near: 0.1, Far: 1000}
}

func (l Lens) Projection() mgl64.Mat4 {
	aspect := l.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl64.Perspective(l.FovY, aspect, l.Near, l.Far)
}

// FromController casts along the controller's local -Z from its world position.
func FromController(g *scene.Graph, hand scene.ID) Ray {
	return Ray{
		Origin:    g.WorldPosition(hand),
		Direction: g.WorldForward(hand),
	}
}

// NDC maps pixel coordinates to normalised device coordinates.
func NDC(x, y, width, height float64) (float64, float64) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	return (x/width)*2 - 1, -(y/height)*2 + 1
}

// FromScreen unprojects a pixel through the camera into a world ray that
// starts at the camera.
func FromScreen(g *scene.Graph, camera scene.ID, lens Lens, x, y, width, height float64) Ray {
	nx, ny := NDC(x, y, width, height)
	inv := g.World(camera).Mul4(lens.Projection().Inv())
	p := inv.Mul4x1(mgl64.Vec4{nx, ny, 0.5, 1})
	point := p.Vec3().Mul(1 / p.W())

	origin := g.WorldPosition(camera)
	return Ray{
		Origin:    origin,
		Direction: point.Sub(origin).Normalize(),
	}
}
