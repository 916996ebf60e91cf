package geometry

import (
	"math"

	"whiteboard/internal/domain"
)

// AnchorPoint is a named attachment point in world coordinates.
type AnchorPoint struct {
	Anchor domain.AnchorPosition `json:"anchor"`
	domain.Point
}

// AnchorPoints enumerates the edge midpoints of o. Lines have none.
func AnchorPoints(o domain.Object) []AnchorPoint {
	switch o.Type {
	case domain.ObjectTypeLine:
		return nil
	case domain.ObjectTypeCircle:
		return []AnchorPoint{
			{domain.AnchorTop, domain.Point{X: o.X, Y: o.Y - o.Radius}},
			{domain.AnchorRight, domain.Point{X: o.X + o.Radius, Y: o.Y}},
			{domain.AnchorBottom, domain.Point{X: o.X, Y: o.Y + o.Radius}},
			{domain.AnchorLeft, domain.Point{X: o.X - o.Radius, Y: o.Y}},
		}
	}
	w, h := Size(o)
	origin := domain.Point{X: o.X, Y: o.Y}
	pts := []AnchorPoint{
		{domain.AnchorTop, domain.Point{X: o.X + w/2, Y: o.Y}},
		{domain.AnchorRight, domain.Point{X: o.X + w, Y: o.Y + h/2}},
		{domain.AnchorBottom, domain.Point{X: o.X + w/2, Y: o.Y + h}},
		{domain.AnchorLeft, domain.Point{X: o.X, Y: o.Y + h/2}},
	}
	for i := range pts {
		pts[i].Point = rotate(pts[i].Point, origin, o.Rotation)
	}
	return pts
}

// NearestAnchors picks the pair of anchors, one on a and one on b, that are
// closest together. ok is false when either object has no anchors.
func NearestAnchors(a, b domain.Object) (from, to AnchorPoint, ok bool) {
	as, bs := AnchorPoints(a), AnchorPoints(b)
	if len(as) == 0 || len(bs) == 0 {
		return AnchorPoint{}, AnchorPoint{}, false
	}
	best := math.Inf(1)
	for _, pa := range as {
		for _, pb := range bs {
			if d := pa.Dist(pb.Point); d < best {
				best = d
				from, to = pa, pb
			}
		}
	}
	return from, to, true
}
