package domain

import (
	"context"
	"math"
)

// BoardOperations is the document-mutation interface the executor commits to.
// Objects returns a snapshot; implementations decide how writes are merged
// with concurrent edits from other collaborators.
type BoardOperations interface {
	Objects() []Object
	UserID() string
	CreateObject(ctx context.Context, obj Object) error
	CreateObjectsBatch(ctx context.Context, objs []Object) error
	UpdateObject(ctx context.Context, id string, patch ObjectPatch) error
	DeleteObjects(ctx context.Context, ids []string) error
}

// Clearer is implemented by boards that can drop every object in one operation.
type Clearer interface {
	ClearObjects(ctx context.Context) error
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an axis-aligned box given by its top-left corner and size.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Viewport describes the caller's current view of the board.
// Position is the stage offset in screen pixels; Scale is the zoom factor.
type Viewport struct {
	Position Point   `json:"position"`
	Scale    float64 `json:"scale"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

func (v Viewport) scale() float64 {
	if v.Scale <= 0 {
		return 1
	}
	return v.Scale
}

// Center returns the world coordinate at the middle of the screen.
func (v Viewport) Center() Point {
	s := v.scale()
	return Point{
		X: (-v.Position.X + v.Width/2) / s,
		Y: (-v.Position.Y + v.Height/2) / s,
	}
}

// Extent returns the visible width and height in world units.
func (v Viewport) Extent() (float64, float64) {
	s := v.scale()
	return v.Width / s, v.Height / s
}
