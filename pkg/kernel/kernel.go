// Package kernel defines the abstract geometry kernel interface used to
// turn wall layers into renderable solids. Walls are axis-aligned, so the
// interface only needs boxes, booleans and translation.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Box returns a box of the given size with its minimum corner at the
	// origin.
	Box(x, y, z float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	Translate(s Solid, x, y, z float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

// BoxBetween returns the box spanned by two opposite corners, in any order.
func BoxBetween(k Kernel, a, b [3]float64) Solid {
	var lo, size [3]float64
	for i := range 3 {
		lo[i] = min(a[i], b[i])
		size[i] = max(a[i], b[i]) - lo[i]
	}
	return k.Translate(k.Box(size[0], size[1], size[2]), lo[0], lo[1], lo[2])
}
