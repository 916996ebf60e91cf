// Package layout finds free space on the board and computes grid arrangements.
package layout

import (
	"math"
	"math/rand"

	"whiteboard/internal/domain"
	"whiteboard/internal/geometry"
)

const (
	Margin                   = 20.0 // minimum clearance between objects
	SpiralStep               = 220.0
	SpiralMaxIterations      = 100
	SpiralMaxIterationsDense = 20 // used once more than DenseBoxCount boxes are occupied
	DenseBoxCount            = 100
	RandomAttempts           = 50
	RandomRadius             = 2000.0
)

// Overlaps reports whether candidate intersects box after box is grown by
// margin on every side.
func Overlaps(candidate, box domain.Rect, margin float64) bool {
	return candidate.X < box.X+box.Width+margin &&
		candidate.X+candidate.Width > box.X-margin &&
		candidate.Y < box.Y+box.Height+margin &&
		candidate.Y+candidate.Height > box.Y-margin
}

// Placer finds non-overlapping positions for new objects.
type Placer struct {
	rng *rand.Rand
}

// NewPlacer returns a Placer whose random fallback is driven by rng.
// A nil rng gets a fixed seed so results are reproducible.
func NewPlacer(rng *rand.Rand) *Placer {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Placer{rng: rng}
}

func collides(candidate domain.Rect, boxes []domain.Rect) bool {
	for _, b := range boxes {
		if Overlaps(candidate, b, Margin) {
			return true
		}
	}
	return false
}

// FindFreePosition returns a top-left position for a w×h footprint that keeps
// Margin clearance from every box. The preferred point is tried first, then a
// square spiral around it, then random points nearby, and finally the space
// to the right of the rightmost box.
func (p *Placer) FindFreePosition(boxes []domain.Rect, preferred domain.Point, w, h float64) domain.Point {
	candidate := domain.Rect{X: preferred.X, Y: preferred.Y, Width: w, Height: h}
	if !collides(candidate, boxes) {
		return preferred
	}

	maxIter := SpiralMaxIterations
	if len(boxes) > DenseBoxCount {
		maxIter = SpiralMaxIterationsDense
	}

	// right, down, left, up
	dirs := [4][2]float64{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	x, y := preferred.X, preferred.Y
	run, dir, iter := 1, 0, 0
spiral:
	for {
		for turn := 0; turn < 2; turn++ {
			for step := 0; step < run; step++ {
				if iter >= maxIter {
					break spiral
				}
				iter++
				x += dirs[dir][0] * SpiralStep
				y += dirs[dir][1] * SpiralStep
				candidate.X, candidate.Y = x, y
				if !collides(candidate, boxes) {
					return domain.Point{X: x, Y: y}
				}
			}
			dir = (dir + 1) % 4
		}
		run++
	}

	for i := 0; i < RandomAttempts; i++ {
		angle := p.rng.Float64() * 2 * math.Pi
		dist := p.rng.Float64() * RandomRadius
		candidate.X = preferred.X + math.Cos(angle)*dist
		candidate.Y = preferred.Y + math.Sin(angle)*dist
		if !collides(candidate, boxes) {
			return domain.Point{X: candidate.X, Y: candidate.Y}
		}
	}

	maxRight := preferred.X
	for i, b := range boxes {
		if i == 0 || b.Right() > maxRight {
			maxRight = b.Right()
		}
	}
	return domain.Point{X: maxRight + Margin, Y: preferred.Y}
}

// OccupiedBoxes converts objects into placement boxes.
func OccupiedBoxes(objs []domain.Object) []domain.Rect {
	byID := geometry.IndexByID(objs)
	boxes := make([]domain.Rect, 0, len(objs))
	for _, o := range objs {
		boxes = append(boxes, geometry.ObjectBounds(o, byID).Rect())
	}
	return boxes
}

// BoxCache keeps the occupied boxes for a set of objects and only rebuilds
// them when the object count changes or Invalidate is called.
type BoxCache struct {
	count int
	valid bool
	boxes []domain.Rect
}

// Boxes returns the cached boxes, recomputing them if objs has a different
// length than the last call.
func (c *BoxCache) Boxes(objs []domain.Object) []domain.Rect {
	if !c.valid || c.count != len(objs) {
		c.boxes = OccupiedBoxes(objs)
		c.count = len(objs)
		c.valid = true
	}
	return c.boxes
}

// Add records a box without forcing a full rebuild. The next Boxes call with
// one more object than before reuses the cache.
func (c *BoxCache) Add(r domain.Rect) {
	if !c.valid {
		return
	}
	c.boxes = append(c.boxes, r)
	c.count++
}

// Invalidate forces the next Boxes call to recompute.
func (c *BoxCache) Invalidate() {
	c.valid = false
}
