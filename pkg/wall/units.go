package wall

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Axis
// ---------------------------------------------------------------------------

// Axis names one of the three canonical measurement directions of a layer.
// The zero value is not a valid axis.
type Axis int

const (
	AxisLength Axis = iota + 1 // larger horizontal extent
	AxisWidth                  // smaller horizontal extent
	AxisHeight                 // vertical extent
)

// Axes lists the axes in canonical order.
var Axes = [3]Axis{AxisLength, AxisWidth, AxisHeight}

func (a Axis) String() string {
	switch a {
	case AxisLength:
		return "l"
	case AxisWidth:
		return "w"
	case AxisHeight:
		return "h"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Valid reports whether a is one of the declared axes.
func (a Axis) Valid() bool {
	return a >= AxisLength && a <= AxisHeight
}

// ParseAxis accepts "l"/"length", "w"/"width" and "h"/"height".
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "length":
		return AxisLength, nil
	case "w", "width":
		return AxisWidth, nil
	case "h", "height":
		return AxisHeight, nil
	}
	return 0, newError(CodeInvalidConfiguration, "unknown axis %q", s)
}

// ---------------------------------------------------------------------------
// Side
// ---------------------------------------------------------------------------

// Side is one of the six faces of a box. A layer exposes one side to the
// outside of the wall; that side decides which face is used for area.
type Side int

const (
	SideTop Side = iota + 1
	SideBottom
	SideFront
	SideRear
	SideLeft
	SideRight
)

// Sides lists every side in declaration order.
var Sides = [6]Side{SideTop, SideBottom, SideFront, SideRear, SideLeft, SideRight}

func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	case SideFront:
		return "front"
	case SideRear:
		return "rear"
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Valid reports whether s is one of the six faces.
func (s Side) Valid() bool {
	return s >= SideTop && s <= SideRight
}

// Code returns the plane/direction code of the face: the two coordinate axes
// spanning the face followed by the direction of its outward normal.
func (s Side) Code() string {
	switch s {
	case SideTop:
		return "xy+"
	case SideBottom:
		return "xy-"
	case SideFront:
		return "xz-"
	case SideRear:
		return "xz+"
	case SideLeft:
		return "yz-"
	case SideRight:
		return "yz+"
	default:
		return ""
	}
}

// Normal returns the outward unit normal of the face in x, y, z order.
func (s Side) Normal() (Point, error) {
	switch s {
	case SideTop:
		return Point{0, 0, 1}, nil
	case SideBottom:
		return Point{0, 0, -1}, nil
	case SideFront:
		return Point{0, -1, 0}, nil
	case SideRear:
		return Point{0, 1, 0}, nil
	case SideLeft:
		return Point{-1, 0, 0}, nil
	case SideRight:
		return Point{1, 0, 0}, nil
	}
	return Point{}, newError(CodeInvalidConfiguration, "exterior must be one of top, bottom, front, rear, left, right: %s", s)
}

// ParseSide accepts the face names ("front") and the plane codes ("xz-").
func ParseSide(s string) (Side, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, side := range Sides {
		if name == side.String() || name == side.Code() {
			return side, nil
		}
	}
	if name == "back" {
		return SideRear, nil
	}
	return 0, newError(CodeInvalidConfiguration, "unknown side %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, newError(CodeInvalidConfiguration, "cannot marshal %s", s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ---------------------------------------------------------------------------
// Quantity
// ---------------------------------------------------------------------------

// Quantity is the unit a material price refers to.
type Quantity int

const (
	PerVolume Quantity = iota + 1 // price per cubic unit
	PerArea                       // price per square unit of the exterior face
	PerPiece                      // flat price per element
)

func (q Quantity) String() string {
	switch q {
	case PerVolume:
		return "m3"
	case PerArea:
		return "m2"
	case PerPiece:
		return "piece"
	default:
		return fmt.Sprintf("Quantity(%d)", int(q))
	}
}

// Valid reports whether q is a known pricing unit.
func (q Quantity) Valid() bool {
	return q >= PerVolume && q <= PerPiece
}

// ParseQuantity accepts "m3", "m2" and "piece". The legacy spelling "peace"
// found in older price lists is accepted as well.
func ParseQuantity(s string) (Quantity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m3", "volume":
		return PerVolume, nil
	case "m2", "area":
		return PerArea, nil
	case "piece", "peace", "pc", "unit":
		return PerPiece, nil
	}
	return 0, newError(CodeInvalidConfiguration, "unknown pricing unit %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (q Quantity) MarshalText() ([]byte, error) {
	if !q.Valid() {
		return nil, newError(CodeInvalidConfiguration, "cannot marshal %s", q)
	}
	return []byte(q.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *Quantity) UnmarshalText(b []byte) error {
	v, err := ParseQuantity(string(b))
	if err != nil {
		return err
	}
	*q = v
	return nil
}
