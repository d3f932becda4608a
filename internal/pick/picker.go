package pick

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/vrlab/internal/scene"
)

type Hit struct {
	Object   scene.ID
	Distance float64
	Point    mgl64.Vec3
}

// Picker ray-casts into a candidate set. MaxRange of zero is unlimited.
type Picker struct {
	graph    *scene.Graph
	MaxRange float64
}

func New(g *scene.Graph, maxRange float64) *Picker {
	return &Picker{graph: g, MaxRange: maxRange}
}

// Pick returns candidates hit by the ray ordered by ascending distance.
// Objects without hit geometry are ignored. The scene is not modified.
func (p *Picker) Pick(ray Ray, candidates []scene.ID) []Hit {
	return Cast(p.graph, ray, candidates, p.MaxRange)
}

// Cast is the stateless form of Picker.Pick.
func Cast(g *scene.Graph, ray Ray, candidates []scene.ID, maxRange float64) []Hit {
	if ray.Direction.Len() == 0 {
		return nil
	}
	ray.Direction = ray.Direction.Normalize()

	var hits []Hit
	for _, id := range candidates {
		t, ok := intersect(g, id, ray)
		if !ok {
			continue
		}
		if maxRange > 0 && t > maxRange {
			continue
		}
		hits = append(hits, Hit{Object: id, Distance: t, Point: ray.At(t)})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// intersect tests in object-local space so rotation and scale are honoured.
// The local ray keeps the world parameterisation, so t is a world distance.
func intersect(g *scene.Graph, id scene.ID, ray Ray) (float64, bool) {
	obj, ok := g.Get(id)
	if !ok || obj.Shape.Kind == scene.ShapeNone {
		return 0, false
	}
	inv := g.World(id).Inv()
	o := inv.Mul4x1(ray.Origin.Vec4(1)).Vec3()
	d := inv.Mul4x1(ray.Direction.Vec4(0)).Vec3()

	switch obj.Shape.Kind {
	case scene.ShapeSphere:
		return raySphere(o, d, obj.Shape.Radius)
	case scene.ShapeBox:
		return rayBox(o, d, obj.Shape.HalfExtents)
	}
	return 0, false
}

func raySphere(o, d mgl64.Vec3, r float64) (float64, bool) {
	a := d.Dot(d)
	if a == 0 {
		return 0, false
	}
	b := 2 * o.Dot(d)
	c := o.Dot(o) - r*r
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)
	if t0 >= 0 {
		return t0, true
	}
	if t1 >= 0 {
		return t1, true
	}
	return 0, false
}

func rayBox(o, d, half mgl64.Vec3) (float64, bool) {
	const eps = 1e-12
	tmin, tmax := math.Inf(-1), math.Inf(1)
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < eps {
			if math.Abs(o[i]) > half[i] {
				return 0, false
			}
			continue
		}
		t1 := (-half[i] - o[i]) / d[i]
		t2 := (half[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	}
	if tmax < 0 || tmin > tmax {
		return 0, false
	}
	if tmin >= 0 {
		return tmin, true
	}
	return tmax, true
}
