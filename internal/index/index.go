// Package index answers nearest-vertex queries over a render plan.
package index

import (
	"github.com/dhconnelly/rtreego"

	"visscene/internal/layout"
	"visscene/internal/scene"
)

// vertexExtent is the side of the box stored for each vertex; rtreego
// rejects zero-length rectangles.
const vertexExtent = 1e-9

// Hit is one indexed vertex. Polygon is the DrawPolygon index, or -1 for
// the observer; Vertex is the position inside the polygon.
type Hit struct {
	Point   scene.Point
	Role    layout.Role
	Polygon int
	Vertex  int
}

type entry struct {
	hit  Hit
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *entry) Bounds() rtreego.Rect { return e.rect }

// Index is an R-tree over every vertex of a plan.
type Index struct {
	tree *rtreego.Rtree
}

// New indexes the outline vertices of every polygon in plan (the closing
// duplicate is skipped) and the observer marker.
func New(plan layout.RenderPlan) *Index {
	tree := rtreego.NewTree(2, 25, 50)
	add := func(h Hit) {
		r, err := rtreego.NewRect(rtreego.Point{h.Point.X, h.Point.Y}, []float64{vertexExtent, vertexExtent})
		if err != nil {
			return
		}
		tree.Insert(&entry{hit: h, rect: r})
	}
	for _, in := range plan.Instructions {
		switch d := in.(type) {
		case layout.DrawPolygon:
			n := len(d.Outline)
			if n > 1 {
				n-- // closure vertex
			}
			for i := 0; i < n; i++ {
				add(Hit{Point: d.Outline[i], Role: d.Role, Polygon: d.Index, Vertex: i})
			}
		case layout.DrawPoint:
			add(Hit{Point: d.Location, Role: d.Role, Polygon: -1})
		}
	}
	return &Index{tree: tree}
}

// Len returns the number of indexed vertices.
func (ix *Index) Len() int { return ix.tree.Size() }

// Nearest returns the indexed vertex closest to (x, y).
func (ix *Index) Nearest(x, y float64) (Hit, bool) {
	if ix.tree.Size() == 0 {
		return Hit{}, false
	}
	found := ix.tree.NearestNeighbor(rtreego.Point{x, y})
	e, ok := found.(*entry)
	if !ok {
		return Hit{}, false
	}
	return e.hit, true
}
