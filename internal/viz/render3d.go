package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/vrlab/internal/pick"
	"github.com/san-kum/vrlab/internal/scene"
	"github.com/san-kum/vrlab/internal/vr"
)

// sphereSegments is the number of chords per great circle of a sphere.
const sphereSegments = 12

// maxNDC bounds how far off screen a projected point may land before its
// edge is dropped, which keeps line rasterisation short.
const maxNDC = 4

// View projects world points onto a canvas through a scene camera.
type View struct {
	ViewProj      mgl64.Mat4
	Width, Height int
}

// NewView builds the projection for camera as seen through lens, sized to
// the canvas sub-pixel grid.
func NewView(g *scene.Graph, camera scene.ID, lens pick.Lens, c *Canvas) View {
	w, h := c.Pixels()
	return View{
		ViewProj: lens.Projection().Mul4(g.World(camera).Inv()),
		Width:    w,
		Height:   h,
	}
}

// Project converts a world point to sub-pixel coordinates on a w x h grid.
// Points behind the camera are rejected; depth is the clip-space w.
func Project(viewProj mgl64.Mat4, p mgl64.Vec3, w, h int) (int, int, float64, bool) {
	clip := viewProj.Mul4x1(p.Vec4(1))
	if clip.W() <= 1e-6 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	if math.Abs(ndc.X()) > maxNDC || math.Abs(ndc.Y()) > maxNDC {
		return 0, 0, 0, false
	}
	sx := int(math.Round((ndc.X() + 1) / 2 * float64(w-1)))
	sy := int(math.Round((1 - ndc.Y()) / 2 * float64(h-1)))
	visible := sx >= 0 && sx < w && sy >= 0 && sy < h
	return sx, sy, clip.W(), visible
}

func (v View) Project(p mgl64.Vec3) (int, int, float64, bool) {
	return Project(v.ViewProj, p, v.Width, v.Height)
}

type Edge struct {
	Start, End mgl64.Vec3
	Color      vr.Color
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe { return &Wireframe{Edges: make([]Edge, 0)} }

func (w *Wireframe) AddEdge(s, e mgl64.Vec3, c vr.Color) { w.Edges = append(w.Edges, Edge{s, e, c}) }

var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// AddBox adds the twelve edges of a box with half extents he under m.
func (w *Wireframe) AddBox(m mgl64.Mat4, he mgl64.Vec3, c vr.Color) {
	x, y, z := he.X(), he.Y(), he.Z()
	local := [8]mgl64.Vec3{
		{-x, -y, -z}, {x, -y, -z}, {x, y, -z}, {-x, y, -z},
		{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z},
	}
	var corners [8]mgl64.Vec3
	for i, p := range local {
		corners[i] = mgl64.TransformCoordinate(p, m)
	}
	for _, e := range boxEdges {
		w.AddEdge(corners[e[0]], corners[e[1]], c)
	}
}

// AddSphere adds three great circles of radius r around m's origin.
func (w *Wireframe) AddSphere(m mgl64.Mat4, r float64, c vr.Color) {
	axes := [3][2]mgl64.Vec3{
		{{1, 0, 0}, {0, 1, 0}},
		{{0, 1, 0}, {0, 0, 1}},
		{{0, 0, 1}, {1, 0, 0}},
	}
	for _, ax := range axes {
		prev := mgl64.TransformCoordinate(ax[0].Mul(r), m)
		for i := 1; i <= sphereSegments; i++ {
			theta := 2 * math.Pi * float64(i) / sphereSegments
			p := ax[0].Mul(r * math.Cos(theta)).Add(ax[1].Mul(r * math.Sin(theta)))
			next := mgl64.TransformCoordinate(p, m)
			w.AddEdge(prev, next, c)
			prev = next
		}
	}
}

// SceneWireframe builds the outlines of every shaped object in g. Spheres
// hung under a parent also get a tether to it, which is how pendulum arms
// show up. Lasers listed in pointers are drawn along their local -Z scaled
// to their current length.
func SceneWireframe(g *scene.Graph, pointers ...scene.ID) *Wireframe {
	w := NewWireframe()
	for i := 0; i < g.Len(); i++ {
		id := scene.ID(i)
		o, _ := g.Get(id)
		col := g.Color(id)
		switch o.Shape.Kind {
		case scene.ShapeBox:
			w.AddBox(g.World(id), o.Shape.HalfExtents, col)
		case scene.ShapeSphere:
			w.AddSphere(g.World(id), o.Shape.Radius, col)
			if o.Parent != scene.None {
				w.AddEdge(g.WorldPosition(o.Parent), g.WorldPosition(id), col)
			}
		}
	}
	for _, id := range pointers {
		if !g.Valid(id) {
			continue
		}
		m := g.World(id)
		w.AddEdge(mgl64.TransformCoordinate(mgl64.Vec3{}, m), mgl64.TransformCoordinate(scene.Forward, m), g.Color(id))
	}
	return w
}

type ProjectedEdge struct {
	X1, Y1, X2, Y2 int
	Depth          float64
	Color          vr.Color
}

// Render3D draws the wireframe to the canvas using a simple painter's
// algorithm: farthest edges first so nearer ones win the cell colour.
func Render3D(c *Canvas, w *Wireframe, v View) {
	if c == nil || w == nil {
		return
	}
	proj := make([]ProjectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := v.Project(e.Start)
		x2, y2, d2, v2 := v.Project(e.End)
		if d1 <= 0 || d2 <= 0 || !(v1 || v2) {
			continue
		}
		proj = append(proj, ProjectedEdge{x1, y1, x2, y2, (d1 + d2) / 2, e.Color})
	}
	sort.SliceStable(proj, func(i, j int) bool { return proj[i].Depth > proj[j].Depth })
	for _, e := range proj {
		c.SetPen(e.Color)
		if e.X1 == e.X2 && e.Y1 == e.Y2 {
			c.Set(e.X1, e.Y1)
		} else {
			c.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
		}
	}
}

// DrawScene renders every shaped object of g, plus the given pointers, as
// seen from camera.
func DrawScene(c *Canvas, g *scene.Graph, camera scene.ID, lens pick.Lens, pointers ...scene.ID) {
	Render3D(c, SceneWireframe(g, pointers...), NewView(g, camera, lens, c))
}
