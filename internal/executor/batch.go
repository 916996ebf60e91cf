package executor

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"whiteboard/internal/domain"
	"whiteboard/internal/geometry"
	"whiteboard/internal/layout"
)

// batch is the state of one Execute call. It is never shared between calls.
type batch struct {
	ctx   context.Context
	board domain.BoardOperations
	opts  Options
	log   *zap.Logger
	newID domain.IDGenerator
	nowMs int64

	persisted []domain.Object // snapshot taken at entry, kept in sync with our own writes
	staged    []domain.Object // created this batch, committed at the end
	order     []string        // staged IDs in creation order; batch indices resolve here

	zIndex   int
	modified []string
	modSet   map[string]bool
	deleted  []string
	notes    []string

	boxes  layout.BoxCache
	placer *layout.Placer
	rng    *rand.Rand
}

func newBatch(ctx context.Context, e *Executor, board domain.BoardOperations, opts Options) *batch {
	snap := board.Objects()
	persisted := make([]domain.Object, len(snap))
	for i, o := range snap {
		persisted[i] = o.Clone()
	}
	rng := seedFor(opts, len(persisted))
	return &batch{
		ctx:       ctx,
		board:     board,
		opts:      opts,
		log:       e.log,
		newID:     e.newID,
		nowMs:     e.now().UnixMilli(),
		persisted: persisted,
		zIndex:    len(persisted),
		modified:  []string{},
		modSet:    map[string]bool{},
		placer:    layout.NewPlacer(rng),
		rng:       rng,
	}
}

func (b *batch) note(format string, a ...any) {
	b.notes = append(b.notes, fmt.Sprintf(format, a...))
}

// all returns persisted and staged objects together.
func (b *batch) all() []domain.Object {
	out := make([]domain.Object, 0, len(b.persisted)+len(b.staged))
	out = append(out, b.persisted...)
	return append(out, b.staged...)
}

func (b *batch) byID() map[string]domain.Object {
	return geometry.IndexByID(b.all())
}

// find returns a pointer to the local copy of id and whether it is staged.
func (b *batch) find(id string) (*domain.Object, bool, bool) {
	if id == "" {
		return nil, false, false
	}
	for i := range b.staged {
		if b.staged[i].ID == id {
			return &b.staged[i], true, true
		}
	}
	for i := range b.persisted {
		if b.persisted[i].ID == id {
			return &b.persisted[i], false, true
		}
	}
	return nil, false, false
}

func (b *batch) get(id string) (domain.Object, bool) {
	o, _, ok := b.find(id)
	if !ok {
		return domain.Object{}, false
	}
	return *o, true
}

// frame looks up id and checks it is a frame.
func (b *batch) frame(id string) (domain.Object, bool) {
	o, ok := b.get(id)
	if !ok || o.Type != domain.ObjectTypeFrame {
		return domain.Object{}, false
	}
	return o, true
}

// stage assigns identity fields to obj and queues it for the final commit.
func (b *batch) stage(obj domain.Object) domain.Object {
	if obj.ID == "" {
		obj.ID = b.newID()
	}
	obj.ZIndex = b.zIndex
	b.zIndex++
	obj.CreatedBy = b.board.UserID()
	obj.CreatedAt = b.nowMs
	b.staged = append(b.staged, obj)
	b.order = append(b.order, obj.ID)
	b.boxes.Add(geometry.ObjectBounds(obj, nil).Rect())
	return obj
}

// update applies patch to id. Staged objects change in place; persisted
// objects are written through to the board and mirrored locally.
func (b *batch) update(id string, patch domain.ObjectPatch) error {
	if patch.Empty() {
		return nil
	}
	o, staged, ok := b.find(id)
	if !ok {
		return fmt.Errorf("object %s not found", id)
	}
	if !staged {
		if err := b.board.UpdateObject(b.ctx, id, patch); err != nil {
			b.log.Warn("[executor] update failed", zap.String("object", id), zap.Error(err))
			return err
		}
		if !b.modSet[id] {
			b.modSet[id] = true
			b.modified = append(b.modified, id)
		}
	}
	patch.Apply(o)
	b.boxes.Invalidate()
	return nil
}

// dropStaged removes staged objects whose IDs are in ids. Batch indices keep
// pointing at the original creation order.
func (b *batch) dropStaged(ids map[string]bool) int {
	kept := b.staged[:0]
	n := 0
	for _, o := range b.staged {
		if ids[o.ID] {
			n++
			continue
		}
		kept = append(kept, o)
	}
	b.staged = kept
	if n > 0 {
		b.boxes.Invalidate()
	}
	return n
}

// removePersisted drops ids from the local snapshot after a delete.
func (b *batch) removePersisted(ids map[string]bool) {
	kept := b.persisted[:0]
	for _, o := range b.persisted {
		if ids[o.ID] {
			b.deleted = append(b.deleted, o.ID)
			continue
		}
		kept = append(kept, o)
	}
	b.persisted = kept
	b.boxes.Invalidate()

	mod := b.modified[:0]
	for _, id := range b.modified {
		if !ids[id] {
			mod = append(mod, id)
		}
	}
	b.modified = mod
}

func (b *batch) lastCreated() (domain.Object, bool) {
	for i := len(b.order) - 1; i >= 0; i-- {
		if o, staged, ok := b.find(b.order[i]); ok && staged {
			return *o, true
		}
	}
	return domain.Object{}, false
}

var defaultPreferred = domain.Point{X: 100, Y: 100}

// preferredPoint is the top-left a w×h footprint should aim for: centred in
// the viewport when known, else beside the last object this batch created.
func (b *batch) preferredPoint(w, h float64) domain.Point {
	if vp := b.opts.Viewport; vp != nil {
		c := vp.Center()
		return domain.Point{X: c.X - w/2, Y: c.Y - h/2}
	}
	if last, ok := b.lastCreated(); ok {
		lb := geometry.ObjectBounds(last, nil)
		return domain.Point{X: lb.MaxX + layout.Margin, Y: lb.MinY}
	}
	return defaultPreferred
}

// place returns a free top-left position for a w×h footprint.
func (b *batch) place(w, h float64) domain.Point {
	boxes := b.boxes.Boxes(b.all())
	return b.placer.FindFreePosition(boxes, b.preferredPoint(w, h), w, h)
}
