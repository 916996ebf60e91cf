package executor

import (
	"fmt"

	"whiteboard/internal/domain"
	"whiteboard/internal/geometry"
	"whiteboard/internal/layout"
)

// attach appends ids to a frame's member list, skipping ones already there,
// and applies extra in the same update.
func (b *batch) attach(frameID string, ids []string, extra domain.ObjectPatch) error {
	f, ok := b.frame(frameID)
	if !ok {
		return fmt.Errorf("frame %s not found", frameID)
	}
	seen := make(map[string]bool, len(f.ContainedObjectIDs))
	members := append([]string{}, f.ContainedObjectIDs...)
	for _, id := range members {
		seen[id] = true
	}
	for _, id := range ids {
		if id == frameID || seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, id)
	}
	p := extra
	p.ContainedObjectIDs = members
	return b.update(frameID, p)
}

// frameChildren returns a frame's tracked members that still exist. When the
// frame tracks nothing it falls back to objects overlapping its bounds, and
// tracked reports false.
func (b *batch) frameChildren(f domain.Object) (children []domain.Object, tracked bool) {
	for _, id := range f.ContainedObjectIDs {
		if o, ok := b.get(id); ok && o.ID != f.ID {
			children = append(children, o)
		}
	}
	if len(children) > 0 {
		return children, true
	}
	byID := b.byID()
	fb := geometry.ObjectBounds(f, byID)
	for _, o := range b.all() {
		if o.ID == f.ID || o.Type == domain.ObjectTypeFrame {
			continue
		}
		if fb.Overlaps(geometry.ObjectBounds(o, byID)) {
			children = append(children, o)
		}
	}
	return children, false
}

func fitFrameToContents(b *batch, a args) {
	id := a.str("frameId")
	if id == "" {
		id = a.str("objectId")
	}
	f, ok := b.frame(id)
	if !ok {
		b.note("Frame %s not found; nothing to fit.", id)
		return
	}
	children, tracked := b.frameChildren(f)
	if len(children) == 0 {
		b.note("Frame %s is empty; nothing to fit.", f.ID)
		return
	}

	pad := a.positive("padding", layout.FramePadding)
	cb, _ := geometry.UnionBounds(children, b.byID())
	p := domain.ObjectPatch{
		X:        domain.F(cb.MinX - pad),
		Y:        domain.F(cb.MinY - pad),
		Width:    domain.F(cb.Width() + 2*pad),
		Height:   domain.F(cb.Height() + 2*pad),
		Rotation: domain.F(0),
	}
	if !tracked {
		ids := make([]string, len(children))
		for i, c := range children {
			ids[i] = c.ID
		}
		p.ContainedObjectIDs = ids
	}
	if err := b.update(f.ID, p); err != nil {
		b.note("Failed to fit frame %s: %v.", f.ID, err)
		return
	}
	b.note("Fitted %s to %s (%.0fx%.0f).", f.Label("frame"), plural(len(children), "object"), *p.Width, *p.Height)
}

func addToFrame(b *batch, a args) {
	frameID := a.str("frameId")
	f, ok := b.frame(frameID)
	if !ok {
		b.note("Frame %s not found; nothing added.", frameID)
		return
	}
	var ids []string
	var objs []domain.Object
	for _, id := range a.ids() {
		o, ok := b.get(id)
		if !ok || id == frameID {
			b.note("Skipped adding %s to frame: object not found.", id)
			continue
		}
		ids = append(ids, id)
		objs = append(objs, o)
	}
	if len(ids) == 0 {
		b.note("Nothing added to %s.", f.Label("frame"))
		return
	}

	// grow the frame so the new members sit inside it
	var grow domain.ObjectPatch
	if a.boolOr("fit", true) {
		byID := b.byID()
		fb := geometry.ObjectBounds(f, byID)
		cb, _ := geometry.UnionBounds(objs, byID)
		want := fb.Union(cb.Inset(-layout.FramePadding))
		if want != fb {
			grow = domain.ObjectPatch{
				X:      domain.F(want.MinX),
				Y:      domain.F(want.MinY),
				Width:  domain.F(want.Width()),
				Height: domain.F(want.Height()),
			}
		}
	}
	if err := b.attach(frameID, ids, grow); err != nil {
		b.note("Failed to add objects to frame %s: %v.", frameID, err)
		return
	}
	b.note("Added %s to %s.", plural(len(ids), "object"), f.Label("frame"))
}
