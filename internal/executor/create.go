package executor

import (
	"fmt"
	"math"
	"strings"

	"whiteboard/internal/colors"
	"whiteboard/internal/domain"
	"whiteboard/internal/geometry"
	"whiteboard/internal/layout"
)

const (
	defaultStickySize   = 200.0
	defaultTextSize     = 16.0
	defaultFrameWidth   = 800.0
	defaultFrameHeight  = 600.0
	defaultBubbleWidth  = 220.0
	defaultBubbleHeight = 120.0
	defaultStrokeWidth  = 2.0
	maxQuantity         = 200
)

// spawned describes the objects one create call staged.
type spawned struct {
	objs       []domain.Object
	rows, cols int
	frameID    string
}

// spawn stages quantity objects made by build. A single object goes to the
// explicit x/y when both are given, into frameId when given, or to a free
// spot. Several objects are laid out as one grid block and that block is
// placed the same way. minCount raises the quantity, e.g. to one object per
// supplied text.
func (b *batch) spawn(a args, minCount int, build func(i int) domain.Object) spawned {
	q := a.intOr("quantity", 1)
	if q < minCount {
		q = minCount
	}
	if q < 1 {
		q = 1
	}
	if q > maxQuantity {
		q = maxQuantity
	}

	proto := build(0)
	// footprint of the unplaced object; off is its origin relative to the
	// footprint's top-left, which differs for circles, rotations and lines
	pb := geometry.ObjectBounds(proto, nil)
	w, h := pb.Width(), pb.Height()
	off := domain.Point{X: proto.X - pb.MinX, Y: proto.Y - pb.MinY}
	rows, cols := 1, 1
	blockW, blockH := w, h
	gap := layout.DefaultGridGap
	if q > 1 {
		rows, cols = layout.Dimensions(q, a.intOr("rows", 0), a.intOr("columns", 0))
		blockW = float64(cols)*w + float64(cols-1)*gap
		blockH = float64(rows)*h + float64(rows-1)*gap
	}

	var origin domain.Point
	var grow domain.ObjectPatch
	frameID := a.str("frameId")
	x, y, explicit := a.point()
	switch {
	case explicit:
		// the first object lands exactly on x/y (a circle's centre)
		origin = domain.Point{X: x - off.X, Y: y - off.Y}
	case frameID != "":
		if f, ok := b.frame(frameID); ok {
			origin, grow = b.placeInFrame(f, blockW, blockH)
		} else {
			b.note("Frame %s not found; placing on the board instead.", frameID)
			frameID = ""
			origin = b.place(blockW, blockH)
		}
	default:
		origin = b.place(blockW, blockH)
	}

	out := spawned{rows: rows, cols: cols}
	for i := 0; i < q; i++ {
		obj := proto
		if i > 0 {
			obj = build(i)
		}
		tl := domain.Point{
			X: origin.X + float64(i%cols)*(w+gap),
			Y: origin.Y + float64(i/cols)*(h+gap),
		}
		obj.X, obj.Y = tl.X+off.X, tl.Y+off.Y
		out.objs = append(out.objs, b.stage(obj))
	}

	if frameID != "" {
		ids := make([]string, len(out.objs))
		for i, o := range out.objs {
			ids[i] = o.ID
		}
		if err := b.attach(frameID, ids, grow); err != nil {
			b.note("Could not add new objects to frame %s: %v.", frameID, err)
		} else {
			out.frameID = frameID
		}
	}
	return out
}

// placeInFrame scans a frame's padded interior for a free w×h spot among its
// children. When none is left the spot goes below the last child and the
// returned patch grows the frame to fit.
func (b *batch) placeInFrame(f domain.Object, w, h float64) (domain.Point, domain.ObjectPatch) {
	inner := geometry.ObjectBounds(f, nil).Inset(layout.FramePadding)
	var boxes []domain.Rect
	bottom := inner.MinY
	for _, id := range f.ContainedObjectIDs {
		if c, ok := b.get(id); ok {
			cb := geometry.ObjectBounds(c, nil)
			boxes = append(boxes, cb.Rect())
			bottom = math.Max(bottom, cb.MaxY+layout.Margin)
		}
	}

	free := func(p domain.Point) bool {
		cand := domain.Rect{X: p.X, Y: p.Y, Width: w, Height: h}
		for _, bx := range boxes {
			if layout.Overlaps(cand, bx, layout.Margin) {
				return false
			}
		}
		return true
	}
	for y := inner.MinY; y+h <= inner.MaxY; y += h + layout.Margin {
		for x := inner.MinX; x+w <= inner.MaxX; x += w + layout.Margin {
			if p := (domain.Point{X: x, Y: y}); free(p) {
				return p, domain.ObjectPatch{}
			}
		}
	}

	p := domain.Point{X: inner.MinX, Y: bottom}
	var grow domain.ObjectPatch
	if need := p.Y + h + layout.FramePadding - f.Y; need > f.Height {
		grow.Height = domain.F(need)
	}
	if need := w + 2*layout.FramePadding; need > f.Width {
		grow.Width = domain.F(need)
	}
	return p, grow
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func (b *batch) noteSpawned(s spawned, kind string) {
	if len(s.objs) == 0 {
		return
	}
	var msg string
	if len(s.objs) == 1 {
		o := s.objs[0]
		msg = fmt.Sprintf("Created %s at (%.0f, %.0f)", o.Label(kind), o.X, o.Y)
	} else {
		msg = fmt.Sprintf("Created %s in a %dx%d grid", plural(len(s.objs), kind), s.rows, s.cols)
	}
	if s.frameID != "" {
		msg += " inside frame " + s.frameID
	}
	b.notes = append(b.notes, msg+".")
}

func createStickyNote(b *batch, a args) {
	texts := a.strs("texts")
	text := a.str("text")
	color := a.str("color")
	w := a.positive("width", defaultStickySize)
	h := a.positive("height", defaultStickySize)
	s := b.spawn(a, len(texts), func(i int) domain.Object {
		t := text
		if i < len(texts) {
			t = texts[i]
		}
		return domain.Object{
			Type:     domain.ObjectTypeSticky,
			Width:    w,
			Height:   h,
			Text:     t,
			TextSize: a.positive("fontSize", defaultTextSize),
			Color:    colors.Resolve(color, colors.PaletteSticky, b.rng),
		}
	})
	b.noteSpawned(s, "sticky note")
}

// shapeType maps the names models use for shapes onto object kinds.
func shapeType(name string) (domain.ObjectType, bool) {
	switch strings.ToLower(name) {
	case "rect", "rectangle", "square", "box":
		return domain.ObjectTypeRect, true
	case "circle", "ellipse", "oval":
		return domain.ObjectTypeCircle, true
	case "triangle":
		return domain.ObjectTypeTriangle, true
	case "star":
		return domain.ObjectTypeStar, true
	case "line", "arrow":
		return domain.ObjectTypeLine, true
	}
	return "", false
}

func createShape(b *batch, a args) {
	name := a.str("type")
	if name == "" {
		name = a.str("shapeType")
	}
	kind, ok := shapeType(name)
	if !ok {
		if name != "" {
			b.note("Unknown shape type %q; using a rectangle.", name)
		}
		kind = domain.ObjectTypeRect
	}
	color := a.str("color")
	stroke := a.str("stroke")
	text := a.str("text")

	s := b.spawn(a, 0, func(int) domain.Object {
		o := domain.Object{Type: kind, Text: text, Rotation: a.numOr("rotation", 0)}
		switch kind {
		case domain.ObjectTypeCircle:
			r := a.positive("radius", 0)
			if r == 0 {
				r = a.positive("width", 100) / 2
			}
			o.Radius = r
		case domain.ObjectTypeLine:
			o.Points = linePoints(a)
			o.Stroke = colors.ResolveOr(color, colors.PaletteShape, b.rng, colors.DefaultStroke)
			o.StrokeWidth = a.positive("strokeWidth", defaultStrokeWidth)
			o.ArrowEnd = name == "arrow" || a.boolOr("arrow", false)
			return o
		case domain.ObjectTypeTriangle:
			o.Width, o.Height = a.positive("width", 120), a.positive("height", 104)
		case domain.ObjectTypeStar:
			o.Width, o.Height = a.positive("width", 120), a.positive("height", 120)
		default:
			o.Width, o.Height = a.positive("width", 150), a.positive("height", 100)
		}
		o.Fill = colors.Resolve(color, colors.PaletteShape, b.rng)
		if stroke != "" {
			o.Stroke = colors.ResolveOr(stroke, colors.PaletteShape, b.rng, colors.DefaultStroke)
			o.StrokeWidth = a.positive("strokeWidth", defaultStrokeWidth)
		}
		return o
	})
	b.noteSpawned(s, string(kind))
}

// linePoints reads a flat points array, or builds a horizontal segment of
// the requested width.
func linePoints(a args) []float64 {
	if raw, ok := a["points"].([]any); ok && len(raw) >= 4 && len(raw)%2 == 0 {
		pts := make([]float64, 0, len(raw))
		for _, v := range raw {
			f, ok := v.(float64)
			if !ok {
				return []float64{0, 0, a.positive("width", 200), 0}
			}
			pts = append(pts, f)
		}
		return pts
	}
	return []float64{0, 0, a.positive("width", 200), 0}
}

func createText(b *batch, a args) {
	text := a.str("text")
	if text == "" {
		b.note("Skipped createText: no text given.")
		return
	}
	size := a.positive("fontSize", a.positive("textSize", defaultTextSize))
	width := a.positive("width", estimateTextWidth(text, size))
	color := a.str("color")
	s := b.spawn(a, 0, func(int) domain.Object {
		return domain.Object{
			Type:       domain.ObjectTypeText,
			Text:       text,
			TextSize:   size,
			TextFamily: a.str("fontFamily"),
			Width:      width,
			Color:      colors.ResolveOr(color, colors.PaletteShape, b.rng, colors.DefaultText),
		}
	})
	b.noteSpawned(s, "text")
}

// estimateTextWidth sizes a text box from its longest line.
func estimateTextWidth(text string, size float64) float64 {
	longest := 0
	for _, line := range strings.Split(text, "\n") {
		if n := len([]rune(line)); n > longest {
			longest = n
		}
	}
	return math.Min(math.Max(float64(longest)*size*0.6, 100), 600)
}

func createTextBubble(b *batch, a args) {
	text := a.str("text")
	color := a.str("color")
	s := b.spawn(a, 0, func(int) domain.Object {
		return domain.Object{
			Type:        domain.ObjectTypeTextBubble,
			Text:        text,
			TextSize:    a.positive("fontSize", defaultTextSize),
			Width:       a.positive("width", defaultBubbleWidth),
			Height:      a.positive("height", defaultBubbleHeight),
			Fill:        colors.ResolveOr(color, colors.PaletteShape, b.rng, "#FFFFFF"),
			Stroke:      colors.DefaultStroke,
			StrokeWidth: defaultStrokeWidth,
		}
	})
	b.noteSpawned(s, "text bubble")
}

func createFrame(b *batch, a args) {
	title := a.str("title")
	if title == "" {
		title = a.str("text")
	}
	frame := domain.Object{
		Type:   domain.ObjectTypeFrame,
		Title:  title,
		Width:  a.positive("width", defaultFrameWidth),
		Height: a.positive("height", defaultFrameHeight),
		Fill:   colors.ResolveOr(a.str("color"), colors.PaletteShape, b.rng, colors.DefaultFrame),
	}

	var children []domain.Object
	for _, id := range a.ids() {
		if o, ok := b.get(id); ok && o.Type != domain.ObjectTypeFrame {
			children = append(children, o)
			frame.ContainedObjectIDs = append(frame.ContainedObjectIDs, id)
		}
	}

	x, y, explicit := a.point()
	switch {
	case explicit:
		frame.X, frame.Y = x, y
	case len(children) > 0:
		cb, _ := geometry.UnionBounds(children, b.byID())
		pad := layout.FramePadding
		frame.X, frame.Y = cb.MinX-pad, cb.MinY-pad
		if !a.has("width") {
			frame.Width = cb.Width() + 2*pad
		}
		if !a.has("height") {
			frame.Height = cb.Height() + 2*pad
		}
	default:
		p := b.place(frame.Width, frame.Height)
		frame.X, frame.Y = p.X, p.Y
	}

	frame = b.stage(frame)
	msg := fmt.Sprintf("Created %s at (%.0f, %.0f) sized %.0fx%.0f", frame.Label("frame"), frame.X, frame.Y, frame.Width, frame.Height)
	if n := len(frame.ContainedObjectIDs); n > 0 {
		msg += fmt.Sprintf(" containing %s", plural(n, "object"))
	}
	b.notes = append(b.notes, msg+".")
}
