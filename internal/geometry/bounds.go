// Package geometry computes axis-aligned bounds and connector anchor points
// for whiteboard objects.
package geometry

import (
	"math"
	"strings"

	"whiteboard/internal/domain"
)

// Bounds is an axis-aligned bounding box in world coordinates.
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

func (b Bounds) Center() domain.Point {
	return domain.Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

func (b Bounds) Rect() domain.Rect {
	return domain.Rect{X: b.MinX, Y: b.MinY, Width: b.Width(), Height: b.Height()}
}

// Union returns the smallest box containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// Contains reports whether o lies entirely inside b.
func (b Bounds) Contains(o Bounds) bool {
	return o.MinX >= b.MinX && o.MaxX <= b.MaxX && o.MinY >= b.MinY && o.MaxY <= b.MaxY
}

// Overlaps reports whether b and o share any interior area.
func (b Bounds) Overlaps(o Bounds) bool {
	return b.MinX < o.MaxX && b.MaxX > o.MinX && b.MinY < o.MaxY && b.MaxY > o.MinY
}

// Inset shrinks b by pad on every side.
func (b Bounds) Inset(pad float64) Bounds {
	return Bounds{MinX: b.MinX + pad, MinY: b.MinY + pad, MaxX: b.MaxX - pad, MaxY: b.MaxY - pad}
}

// FromRect converts a top-left/size rectangle.
func FromRect(r domain.Rect) Bounds {
	return Bounds{MinX: r.X, MinY: r.Y, MaxX: r.X + r.Width, MaxY: r.Y + r.Height}
}

func fromPoints(pts []domain.Point) Bounds {
	b := Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, p := range pts {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

// IndexByID builds the lookup table ObjectBounds needs for anchored lines.
func IndexByID(objs []domain.Object) map[string]domain.Object {
	m := make(map[string]domain.Object, len(objs))
	for _, o := range objs {
		m[o.ID] = o
	}
	return m
}

const (
	defaultTextSize   = 16.0
	textLineHeight    = 1.2
	defaultTextWidth  = 200.0
	defaultStickySize = 200.0
)

// Size returns the unrotated width and height of a box-shaped object,
// filling in defaults for kinds whose size can be implied.
func Size(o domain.Object) (float64, float64) {
	w, h := o.Width, o.Height
	switch o.Type {
	case domain.ObjectTypeCircle:
		return o.Radius * 2, o.Radius * 2
	case domain.ObjectTypeSticky:
		if w == 0 {
			w = defaultStickySize
		}
		if h == 0 {
			h = defaultStickySize
		}
	case domain.ObjectTypeText:
		if w == 0 {
			w = defaultTextWidth
		}
		if h == 0 {
			size := o.TextSize
			if size == 0 {
				size = defaultTextSize
			}
			lines := strings.Count(o.Text, "\n") + 1
			h = size * textLineHeight * float64(lines)
		}
	}
	return w, h
}

func rotate(p domain.Point, origin domain.Point, deg float64) domain.Point {
	if deg == 0 {
		return p
	}
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	dx, dy := p.X-origin.X, p.Y-origin.Y
	return domain.Point{
		X: origin.X + dx*cos - dy*sin,
		Y: origin.Y + dx*sin + dy*cos,
	}
}

// corners returns the four corners of a box-shaped object after rotation
// about its (X, Y) origin.
func corners(o domain.Object) []domain.Point {
	w, h := Size(o)
	origin := domain.Point{X: o.X, Y: o.Y}
	pts := []domain.Point{
		{X: o.X, Y: o.Y},
		{X: o.X + w, Y: o.Y},
		{X: o.X + w, Y: o.Y + h},
		{X: o.X, Y: o.Y + h},
	}
	for i := range pts {
		pts[i] = rotate(pts[i], origin, o.Rotation)
	}
	return pts
}

// LineEndpoints returns the absolute start and end of a line, preferring
// anchor positions when the anchored objects are known.
func LineEndpoints(o domain.Object, byID map[string]domain.Object) (domain.Point, domain.Point) {
	start := domain.Point{X: o.X, Y: o.Y}
	end := start
	if n := len(o.Points); n >= 4 {
		start = domain.Point{X: o.X + o.Points[0], Y: o.Y + o.Points[1]}
		end = domain.Point{X: o.X + o.Points[n-2], Y: o.Y + o.Points[n-1]}
	}
	if p, ok := resolveAnchor(o.StartAnchor, byID); ok {
		start = p
	}
	if p, ok := resolveAnchor(o.EndAnchor, byID); ok {
		end = p
	}
	return start, end
}

func resolveAnchor(a *domain.Anchor, byID map[string]domain.Object) (domain.Point, bool) {
	if a == nil || byID == nil {
		return domain.Point{}, false
	}
	target, ok := byID[a.ObjectID]
	if !ok || target.Type == domain.ObjectTypeLine {
		return domain.Point{}, false
	}
	for _, ap := range AnchorPoints(target) {
		if ap.Anchor == a.AnchorPosition {
			return ap.Point, true
		}
	}
	return domain.Point{}, false
}

// ObjectBounds returns the axis-aligned bounding box of o. byID resolves
// connector anchors and may be nil.
func ObjectBounds(o domain.Object, byID map[string]domain.Object) Bounds {
	switch o.Type {
	case domain.ObjectTypeCircle:
		return Bounds{MinX: o.X - o.Radius, MinY: o.Y - o.Radius, MaxX: o.X + o.Radius, MaxY: o.Y + o.Radius}
	case domain.ObjectTypeLine:
		pts := make([]domain.Point, 0, len(o.Points)/2+2)
		for i := 0; i+1 < len(o.Points); i += 2 {
			pts = append(pts, domain.Point{X: o.X + o.Points[i], Y: o.Y + o.Points[i+1]})
		}
		start, end := LineEndpoints(o, byID)
		pts = append(pts, start, end)
		return fromPoints(pts)
	case domain.ObjectTypeSticky, domain.ObjectTypeRect, domain.ObjectTypeTriangle,
		domain.ObjectTypeStar, domain.ObjectTypeText, domain.ObjectTypeTextBubble,
		domain.ObjectTypeFrame:
		return fromPoints(corners(o))
	}
	return Bounds{MinX: o.X, MinY: o.Y, MaxX: o.X, MaxY: o.Y}
}

// UnionBounds returns the box enclosing every object, and false when objs is empty.
func UnionBounds(objs []domain.Object, byID map[string]domain.Object) (Bounds, bool) {
	if len(objs) == 0 {
		return Bounds{}, false
	}
	b := ObjectBounds(objs[0], byID)
	for _, o := range objs[1:] {
		b = b.Union(ObjectBounds(o, byID))
	}
	return b, true
}
