package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/vrlab/internal/vr"
)

// ID indexes an object in the graph arena.
type ID int32

// None is the absent object and the root parent.
const None ID = -1

type ShapeKind int

const (
	ShapeNone ShapeKind = iota
	ShapeSphere
	ShapeBox
)

// Shape is the local hit geometry used by the picker.
type Shape struct {
	Kind        ShapeKind
	Radius      float64
	HalfExtents mgl64.Vec3
}

func Sphere(r float64) Shape { return Shape{Kind: ShapeSphere, Radius: r} }

func Box(size float64) Shape {
	h := size / 2
	return Shape{Kind: ShapeBox, HalfExtents: mgl64.Vec3{h, h, h}}
}

type Object struct {
	Name           string
	Parent         ID
	Local          Transform
	Shape          Shape
	BaseColor      vr.Color
	HighlightColor vr.Color
	Color          vr.Color
	Pickable       bool
	Grabbable      bool
}

// Writer names the component that owns an object's transform in a tick.
type Writer int

const (
	WriterHost Writer = iota
	WriterLocomotion
	WriterGrab
	WriterPendulum
)

func (w Writer) String() string {
	switch w {
	case WriterHost:
		return "host"
	case WriterLocomotion:
		return "locomotion"
	case WriterGrab:
		return "grab"
	case WriterPendulum:
		return "pendulum"
	}
	return "unknown"
}

// Graph is an arena of objects with index-based parents. Reparenting is an
// index rewrite plus a local transform recompute; no back-references exist.
type Graph struct {
	objects []Object
	writes  map[ID]Writer
}

func New() *Graph {
	return &Graph{
		objects: make([]Object, 0, 128),
		writes:  make(map[ID]Writer),
	}
}

// Add appends an object. A zero Rotation or Scale is replaced by identity.
func (g *Graph) Add(o Object) ID {
	if o.Local.Rotation == (mgl64.Quat{}) {
		o.Local.Rotation = mgl64.QuatIdent()
	}
	if o.Local.Scale == (mgl64.Vec3{}) {
		o.Local.Scale = mgl64.Vec3{1, 1, 1}
	}
	if o.Color == 0 {
		o.Color = o.BaseColor
	}
	if o.Parent < None || int(o.Parent) >= len(g.objects) {
		o.Parent = None
	}
	g.objects = append(g.objects, o)
	return ID(len(g.objects) - 1)
}

func (g *Graph) Len() int { return len(g.objects) }

func (g *Graph) Valid(id ID) bool { return id >= 0 && int(id) < len(g.objects) }

// Get returns a copy of the object.
func (g *Graph) Get(id ID) (Object, bool) {
	if !g.Valid(id) {
		return Object{}, false
	}
	return g.objects[id], true
}

func (g *Graph) Parent(id ID) ID {
	if !g.Valid(id) {
		return None
	}
	return g.objects[id].Parent
}

func (g *Graph) Children(id ID) []ID {
	var out []ID
	for i := range g.objects {
		if g.objects[i].Parent == id {
			out = append(out, ID(i))
		}
	}
	return out
}

// Pickables lists pickable objects in arena order.
func (g *Graph) Pickables() []ID {
	out := make([]ID, 0, len(g.objects))
	for i := range g.objects {
		if g.objects[i].Pickable {
			out = append(out, ID(i))
		}
	}
	return out
}

// Find returns the first object with the given name.
func (g *Graph) Find(name string) ID {
	for i := range g.objects {
		if g.objects[i].Name == name {
			return ID(i)
		}
	}
	return None
}

// GrabRoot returns the nearest grabbable ancestor-or-self of id.
func (g *Graph) GrabRoot(id ID) ID {
	for cur := id; g.Valid(cur); cur = g.objects[cur].Parent {
		if g.objects[cur].Grabbable {
			return cur
		}
	}
	return None
}

func (g *Graph) Local(id ID) Transform {
	if !g.Valid(id) {
		return Identity()
	}
	return g.objects[id].Local
}

// World returns the object-to-world matrix.
func (g *Graph) World(id ID) mgl64.Mat4 {
	if !g.Valid(id) {
		return mgl64.Ident4()
	}
	m := g.objects[id].Local.Matrix()
	for p := g.objects[id].Parent; g.Valid(p); p = g.objects[p].Parent {
		m = g.objects[p].Local.Matrix().Mul4(m)
	}
	return m
}

func (g *Graph) WorldPosition(id ID) mgl64.Vec3 {
	return g.World(id).Col(3).Vec3()
}

func (g *Graph) WorldRotation(id ID) mgl64.Quat {
	if !g.Valid(id) {
		return mgl64.QuatIdent()
	}
	q := g.objects[id].Local.Rotation
	for p := g.objects[id].Parent; g.Valid(p); p = g.objects[p].Parent {
		q = g.objects[p].Local.Rotation.Mul(q)
	}
	return q.Normalize()
}

// WorldForward is the local -Z axis rotated into world space.
func (g *Graph) WorldForward(id ID) mgl64.Vec3 {
	return g.WorldRotation(id).Rotate(Forward).Normalize()
}

// BeginTick drops the transform ownership recorded during the previous tick.
func (g *Graph) BeginTick() {
	clear(g.writes)
}

// Owner reports which writer claimed id in the current tick.
func (g *Graph) Owner(id ID) (Writer, bool) {
	w, ok := g.writes[id]
	return w, ok
}

// Writes returns a copy of this tick's ownership map.
func (g *Graph) Writes() map[ID]Writer {
	out := make(map[ID]Writer, len(g.writes))
	for k, v := range g.writes {
		out[k] = v
	}
	return out
}

func (g *Graph) claim(id ID, w Writer) error {
	if !g.Valid(id) {
		return fmt.Errorf("%w: %d", vr.ErrUnknownObject, id)
	}
	if owner, ok := g.writes[id]; ok && owner != w {
		return fmt.Errorf("%w: object %d (%s) owned by %s, written by %s",
			vr.ErrWriteConflict, id, g.objects[id].Name, owner, w)
	}
	g.writes[id] = w
	return nil
}

func (g *Graph) SetLocal(id ID, t Transform, w Writer) error {
	if err := g.claim(id, w); err != nil {
		return err
	}
	g.objects[id].Local = t
	return nil
}

func (g *Graph) SetLocalPosition(id ID, p mgl64.Vec3, w Writer) error {
	if err := g.claim(id, w); err != nil {
		return err
	}
	g.objects[id].Local.Position = p
	return nil
}

func (g *Graph) SetLocalRotation(id ID, q mgl64.Quat, w Writer) error {
	if err := g.claim(id, w); err != nil {
		return err
	}
	g.objects[id].Local.Rotation = q.Normalize()
	return nil
}

func (g *Graph) SetLocalScale(id ID, s mgl64.Vec3, w Writer) error {
	if err := g.claim(id, w); err != nil {
		return err
	}
	g.objects[id].Local.Scale = s
	return nil
}

// SetWorldPosition moves id so its world position is p, keeping its parent.
func (g *Graph) SetWorldPosition(id ID, p mgl64.Vec3, w Writer) error {
	if err := g.claim(id, w); err != nil {
		return err
	}
	local := p
	if parent := g.objects[id].Parent; g.Valid(parent) {
		local = g.World(parent).Inv().Mul4x1(p.Vec4(1)).Vec3()
	}
	g.objects[id].Local.Position = local
	return nil
}

// Attach reparents child under parent (None for the root) while keeping its
// world transform. The move is claimed for w.
func (g *Graph) Attach(child, parent ID, w Writer) error {
	if !g.Valid(child) {
		return fmt.Errorf("%w: child %d", vr.ErrUnknownObject, child)
	}
	if parent != None && !g.Valid(parent) {
		return fmt.Errorf("%w: parent %d", vr.ErrUnknownObject, parent)
	}
	for cur := parent; g.Valid(cur); cur = g.objects[cur].Parent {
		if cur == child {
			return fmt.Errorf("%w: %d under %d", vr.ErrCycle, child, parent)
		}
	}
	if err := g.claim(child, w); err != nil {
		return err
	}

	world := g.World(child)
	if g.Valid(parent) {
		world = g.World(parent).Inv().Mul4(world)
	}
	g.objects[child].Local = Decompose(world)
	g.objects[child].Parent = parent
	return nil
}

func (g *Graph) SetColor(id ID, c vr.Color) {
	if g.Valid(id) {
		g.objects[id].Color = c
	}
}

// ResetColor restores the object's base colour.
func (g *Graph) ResetColor(id ID) {
	if g.Valid(id) {
		g.objects[id].Color = g.objects[id].BaseColor
	}
}

func (g *Graph) Color(id ID) vr.Color {
	if !g.Valid(id) {
		return 0
	}
	return g.objects[id].Color
}

func (g *Graph) Name(id ID) string {
	if !g.Valid(id) {
		return ""
	}
	return g.objects[id].Name
}

// Output is what the renderer consumes per object.
type Output struct {
	ID       ID
	Name     string
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Color    vr.Color
}

// Snapshot returns world transforms and colours of every object.
func (g *Graph) Snapshot() []Output {
	out := make([]Output, len(g.objects))
	for i := range g.objects {
		id := ID(i)
		out[i] = Output{
			ID:       id,
			Name:     g.objects[i].Name,
			Position: g.WorldPosition(id),
			Rotation: g.WorldRotation(id),
			Color:    g.objects[i].Color,
		}
	}
	return out
}
