package scene

import (
	"fmt"
	"strings"
)

// Point is a scene coordinate.
type Point struct {
	X float64
	Y float64
}

// Polygon is a closed loop of vertices. The closing vertex is implicit and
// never stored.
type Polygon []Point

// Variant selects which file convention a scene was written in.
type Variant int

const (
	// Bare is a primary polygon followed by a counted list of secondaries.
	Bare Variant = iota
	// Pair is exactly two polygons with no count line between them.
	Pair
	// Guarded prefixes a bare scene with an observer point and k.
	Guarded
)

var variantNames = [...]string{Bare: "bare", Pair: "pair", Guarded: "guarded"}

func (v Variant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return fmt.Sprintf("variant(%d)", int(v))
	}
	return variantNames[v]
}

// Next cycles through the variants in declaration order.
func (v Variant) Next() Variant {
	return (v + 1) % Variant(len(variantNames))
}

// ParseVariant maps "bare", "pair" or "guarded" (any case) to a Variant.
func ParseVariant(s string) (Variant, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range variantNames {
		if n == name {
			return Variant(i), nil
		}
	}
	return Bare, fmt.Errorf("unknown scene variant %q (want bare, pair or guarded)", s)
}

// Scene is one parsed scene file. It is not modified after Parse returns.
type Scene struct {
	Variant   Variant
	Primary   Polygon
	Secondary []Polygon

	// Observer and K are only set for Guarded scenes.
	Observer *Point
	K        int
}

// Polygons returns the primary polygon followed by the secondaries.
func (s Scene) Polygons() []Polygon {
	out := make([]Polygon, 0, 1+len(s.Secondary))
	out = append(out, s.Primary)
	return append(out, s.Secondary...)
}
