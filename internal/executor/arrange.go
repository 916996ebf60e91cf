package executor

import (
	"fmt"

	"whiteboard/internal/domain"
	"whiteboard/internal/geometry"
	"whiteboard/internal/layout"
)

// arrangeTargets picks the objects an arrange call works on: the named IDs,
// else a frame's members, else whatever sits inside the selection, else every
// object on the board. Frames and connectors are only included when named.
func (b *batch) arrangeTargets(a args) ([]domain.Object, *domain.Object, bool) {
	var frame *domain.Object
	if id := a.str("frameId"); id != "" {
		f, ok := b.frame(id)
		if !ok {
			b.note("Frame %s not found; nothing arranged.", id)
			return nil, nil, false
		}
		frame = &f
	}

	var objs []domain.Object
	switch ids := a.ids(); {
	case len(ids) > 0:
		for _, id := range ids {
			if o, ok := b.get(id); ok {
				objs = append(objs, o)
			} else {
				b.note("Skipped arranging %s: object not found.", id)
			}
		}
	case frame != nil:
		objs, _ = b.frameChildren(*frame)
	case b.opts.SelectionArea != nil:
		sel := geometry.FromRect(*b.opts.SelectionArea)
		byID := b.byID()
		for _, o := range b.all() {
			if arrangeable(o) && sel.Contains(geometry.ObjectBounds(o, byID)) {
				objs = append(objs, o)
			}
		}
	default:
		for _, o := range b.all() {
			if arrangeable(o) {
				objs = append(objs, o)
			}
		}
	}

	if len(objs) == 0 {
		b.note("Nothing to arrange.")
		return nil, nil, false
	}
	return objs, frame, true
}

func arrangeable(o domain.Object) bool {
	return o.Type != domain.ObjectTypeFrame && o.Type != domain.ObjectTypeLine
}

func (b *batch) arrange(a args, resize bool) {
	objs, frame, ok := b.arrangeTargets(a)
	if !ok {
		return
	}
	byID := b.byID()
	region, source := layout.Region(frame, b.opts.SelectionArea, objs, byID)
	opts := layout.GridOptions{
		Rows:   a.intOr("rows", 0),
		Cols:   a.intOr("columns", 0),
		Gap:    a.positive("gap", layout.DefaultGridGap),
		Region: region,
		Source: source,
	}

	var arr layout.Arrangement
	if resize {
		arr = layout.ArrangeAndResize(objs, byID, opts)
	} else {
		arr = layout.ArrangePositions(objs, byID, opts)
	}

	failed := 0
	for _, id := range arr.Order {
		if err := b.update(id, arr.Patches[id]); err != nil {
			failed++
		}
	}

	verb := "Arranged"
	if resize {
		verb = "Arranged and resized"
	}
	msg := fmt.Sprintf("%s %s in a %dx%d grid", verb, plural(len(arr.Order)-failed, "object"), arr.Rows, arr.Cols)
	switch source {
	case layout.RegionFrame:
		msg += " inside " + frame.Label("frame")
	case layout.RegionSelection:
		msg += " within the selection"
	}
	if failed > 0 {
		msg += fmt.Sprintf("; %d could not be moved", failed)
	}
	b.notes = append(b.notes, msg+".")
}

func arrangeInGrid(b *batch, a args) { b.arrange(a, false) }

func arrangeInGridAndResize(b *batch, a args) { b.arrange(a, true) }
