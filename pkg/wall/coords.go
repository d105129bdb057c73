package wall

import "fmt"

// Point is an integer position (or direction) in x, y, z order.
type Point struct {
	X, Y, Z int
}

// CoordSet is an axis-aligned box given by two opposite corners. The corners
// are not ordered: extents are taken as absolute differences.
type CoordSet struct {
	a, b Point
}

// NewCoordSet validates that every coordinate is non-negative.
func NewCoordSet(x1, y1, z1, x2, y2, z2 int) (CoordSet, error) {
	for _, v := range [6]int{x1, y1, z1, x2, y2, z2} {
		if v < 0 {
			return CoordSet{}, newError(CodeInvalidValue, "coordinate shouldn't be less than zero: %d", v)
		}
	}
	return CoordSet{a: Point{x1, y1, z1}, b: Point{x2, y2, z2}}, nil
}

// MustCoordSet is like NewCoordSet but panics on invalid input.
func MustCoordSet(x1, y1, z1, x2, y2, z2 int) CoordSet {
	c, err := NewCoordSet(x1, y1, z1, x2, y2, z2)
	if err != nil {
		panic(fmt.Sprintf("wall: %v", err))
	}
	return c
}

// Corners returns the two corners as given at construction.
func (c CoordSet) Corners() (Point, Point) { return c.a, c.b }

// Values returns x1, y1, z1, x2, y2, z2.
func (c CoordSet) Values() [6]int {
	return [6]int{c.a.X, c.a.Y, c.a.Z, c.b.X, c.b.Y, c.b.Z}
}

// Min returns the component-wise minimum corner.
func (c CoordSet) Min() Point {
	return Point{min(c.a.X, c.b.X), min(c.a.Y, c.b.Y), min(c.a.Z, c.b.Z)}
}

// Max returns the component-wise maximum corner.
func (c CoordSet) Max() Point {
	return Point{max(c.a.X, c.b.X), max(c.a.Y, c.b.Y), max(c.a.Z, c.b.Z)}
}

// Extents returns the raw |dx|, |dy|, |dz|.
func (c CoordSet) Extents() (dx, dy, dz int) {
	return abs(c.b.X - c.a.X), abs(c.b.Y - c.a.Y), abs(c.b.Z - c.a.Z)
}

// Volume is dx*dy*dz.
func (c CoordSet) Volume() int {
	dx, dy, dz := c.Extents()
	return dx * dy * dz
}

// Degenerate reports whether any extent is zero.
func (c CoordSet) Degenerate() bool {
	dx, dy, dz := c.Extents()
	return dx == 0 || dy == 0 || dz == 0
}

// Intersect returns the common box of c and o. ok is false when the boxes
// are disjoint; boxes that merely touch intersect in a degenerate box.
func (c CoordSet) Intersect(o CoordSet) (CoordSet, bool) {
	lo1, hi1 := c.Min(), c.Max()
	lo2, hi2 := o.Min(), o.Max()
	lo := Point{max(lo1.X, lo2.X), max(lo1.Y, lo2.Y), max(lo1.Z, lo2.Z)}
	hi := Point{min(hi1.X, hi2.X), min(hi1.Y, hi2.Y), min(hi1.Z, hi2.Z)}
	if lo.X > hi.X || lo.Y > hi.Y || lo.Z > hi.Z {
		return CoordSet{}, false
	}
	return CoordSet{a: lo, b: hi}, true
}

// Contains reports whether o lies entirely inside c.
func (c CoordSet) Contains(o CoordSet) bool {
	lo1, hi1 := c.Min(), c.Max()
	lo2, hi2 := o.Min(), o.Max()
	return lo2.X >= lo1.X && lo2.Y >= lo1.Y && lo2.Z >= lo1.Z &&
		hi2.X <= hi1.X && hi2.Y <= hi1.Y && hi2.Z <= hi1.Z
}

// Bounding returns the smallest box containing every given box. It returns
// false when called with no boxes.
func Bounding(sets ...CoordSet) (CoordSet, bool) {
	if len(sets) == 0 {
		return CoordSet{}, false
	}
	lo, hi := sets[0].Min(), sets[0].Max()
	for _, s := range sets[1:] {
		smin, smax := s.Min(), s.Max()
		lo = Point{min(lo.X, smin.X), min(lo.Y, smin.Y), min(lo.Z, smin.Z)}
		hi = Point{max(hi.X, smax.X), max(hi.Y, smax.Y), max(hi.Z, smax.Z)}
	}
	return CoordSet{a: lo, b: hi}, true
}

// dimensions returns the canonical triple: length is the larger horizontal
// extent, width the smaller, height is always dz. Callers guarantee that no
// extent is zero.
func (c CoordSet) dimensions() Dimensions {
	length, width, height := c.Extents()
	if width > length {
		length, width = width, length
	}
	return Dimensions{
		Length: &Dimension{axis: AxisLength, quantity: length},
		Width:  &Dimension{axis: AxisWidth, quantity: width},
		Height: &Dimension{axis: AxisHeight, quantity: height},
	}
}

// faceArea returns the area of the face exposed on side.
func (c CoordSet) faceArea(side Side) (int, error) {
	dx, dy, dz := c.Extents()
	switch side {
	case SideFront, SideRear:
		return dx * dz, nil
	case SideLeft, SideRight:
		return dy * dz, nil
	case SideTop, SideBottom:
		return dx * dy, nil
	}
	return 0, newError(CodeInvalidConfiguration, "exterior argument must be a known side: %s", side)
}

func (c CoordSet) String() string {
	return fmt.Sprintf("(%d,%d,%d)-(%d,%d,%d)", c.a.X, c.a.Y, c.a.Z, c.b.X, c.b.Y, c.b.Z)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
