// Package layout turns a parsed scene into an ordered, renderer-agnostic
// draw plan with a bounding viewport.
package layout

import (
	"fmt"

	"github.com/paulmach/orb"

	"visscene/internal/scene"
)

// DefaultMargin pads the viewport on all four sides.
const DefaultMargin = 2.0

// Role tells a renderer how to style an instruction.
type Role int

const (
	RolePrimary Role = iota
	RoleSecondary
	RoleObserver
)

func (r Role) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleSecondary:
		return "secondary"
	case RoleObserver:
		return "observer"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Instruction is either a DrawPolygon or a DrawPoint.
type Instruction interface {
	InstructionRole() Role
	isInstruction()
}

// DrawPolygon strokes and fills a closed outline. The last outline point
// repeats the first. Index is the polygon's position in Scene.Polygons().
type DrawPolygon struct {
	Outline []scene.Point
	Role    Role
	Index   int
}

// DrawPoint marks the observer. K is carried for the legend.
type DrawPoint struct {
	Location scene.Point
	Role     Role
	K        int
}

func (d DrawPolygon) InstructionRole() Role { return d.Role }
func (d DrawPoint) InstructionRole() Role   { return d.Role }
func (DrawPolygon) isInstruction()          {}
func (DrawPoint) isInstruction()            {}

// Viewport is an axis-aligned rectangle in scene coordinates.
type Viewport struct {
	MinX float64
	MaxX float64
	MinY float64
	MaxY float64
}

func (v Viewport) Width() float64  { return v.MaxX - v.MinX }
func (v Viewport) Height() float64 { return v.MaxY - v.MinY }

// Contains reports whether p lies inside v, edges included.
func (v Viewport) Contains(p scene.Point) bool {
	return v.MinX <= p.X && p.X <= v.MaxX && v.MinY <= p.Y && p.Y <= v.MaxY
}

// LegendEntry labels one role present in the plan.
type LegendEntry struct {
	Role  Role
	Label string
}

// RenderPlan is the complete output of Layout. Instructions are in draw
// order: later entries are drawn above earlier ones.
type RenderPlan struct {
	Instructions []Instruction
	Viewport     Viewport // Bounds padded by the margin
	Bounds       Viewport // tight bounds of the bounded coordinates
	Title        string
	Legend       []LegendEntry
}

// Polygons returns the polygon instructions in draw order.
func (p RenderPlan) Polygons() []DrawPolygon {
	var out []DrawPolygon
	for _, in := range p.Instructions {
		if dp, ok := in.(DrawPolygon); ok {
			out = append(out, dp)
		}
	}
	return out
}

// Observer returns the observer marker, if the plan has one.
func (p RenderPlan) Observer() (DrawPoint, bool) {
	for _, in := range p.Instructions {
		if dp, ok := in.(DrawPoint); ok {
			return dp, true
		}
	}
	return DrawPoint{}, false
}

// Options configure Layout.
type Options struct {
	// Margin pads each side of the viewport. Zero disables padding.
	Margin float64
	// IncludeObserver adds the observer point to the viewport bounds.
	IncludeObserver bool
}

// DefaultOptions pads by DefaultMargin and keeps the observer out of bounds.
func DefaultOptions() Options {
	return Options{Margin: DefaultMargin}
}

// Layout builds the render plan for s. The primary polygon is always drawn
// first, then the secondaries in file order, then the observer marker.
func Layout(s scene.Scene, opt Options) RenderPlan {
	var plan RenderPlan
	var bounded orb.MultiPoint

	for i, poly := range s.Polygons() {
		role := RoleSecondary
		if i == 0 {
			role = RolePrimary
		}
		plan.Instructions = append(plan.Instructions, DrawPolygon{
			Outline: closeLoop(poly),
			Role:    role,
			Index:   i,
		})
		for _, pt := range poly {
			bounded = append(bounded, orb.Point{pt.X, pt.Y})
		}
	}

	if s.Observer != nil {
		plan.Instructions = append(plan.Instructions, DrawPoint{
			Location: *s.Observer,
			Role:     RoleObserver,
			K:        s.K,
		})
		if opt.IncludeObserver {
			bounded = append(bounded, orb.Point{s.Observer.X, s.Observer.Y})
		}
		plan.Title = fmt.Sprintf("Visibility with k = %d", s.K)
	}

	if len(bounded) > 0 {
		b := bounded.Bound()
		plan.Bounds = fromBound(b)
		plan.Viewport = fromBound(b.Pad(opt.Margin))
	} else {
		plan.Viewport = fromBound(orb.Bound{}.Pad(opt.Margin))
	}

	plan.Legend = append(plan.Legend, LegendEntry{Role: RolePrimary, Label: "primary polygon"})
	if len(s.Secondary) > 0 {
		plan.Legend = append(plan.Legend, LegendEntry{Role: RoleSecondary, Label: "secondary polygons"})
	}
	if s.Observer != nil {
		plan.Legend = append(plan.Legend, LegendEntry{
			Role:  RoleObserver,
			Label: fmt.Sprintf("observer (visibility parameter = %d)", s.K),
		})
	}
	return plan
}

// PolygonBounds returns the tight bounds of p, or false when p is empty.
func PolygonBounds(p scene.Polygon) (Viewport, bool) {
	if len(p) == 0 {
		return Viewport{}, false
	}
	ring := make(orb.Ring, 0, len(p))
	for _, pt := range p {
		ring = append(ring, orb.Point{pt.X, pt.Y})
	}
	return fromBound(ring.Bound()), true
}

// closeLoop copies p and repeats its first vertex at the end.
func closeLoop(p scene.Polygon) []scene.Point {
	if len(p) == 0 {
		return []scene.Point{}
	}
	out := make([]scene.Point, 0, len(p)+1)
	out = append(out, p...)
	return append(out, p[0])
}

func fromBound(b orb.Bound) Viewport {
	return Viewport{MinX: b.Min.X(), MaxX: b.Max.X(), MinY: b.Min.Y(), MaxY: b.Max.Y()}
}
