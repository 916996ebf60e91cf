package executor

import (
	"whiteboard/internal/colors"
	"whiteboard/internal/domain"
	"whiteboard/internal/geometry"
)

// connect stages a line between the closest anchors of from and to.
func (b *batch) connect(from, to domain.Object, stroke string, arrow bool, label string) (domain.Object, bool) {
	fa, ta, ok := geometry.NearestAnchors(from, to)
	if !ok {
		return domain.Object{}, false
	}
	line := domain.Object{
		Type:        domain.ObjectTypeLine,
		X:           fa.X,
		Y:           fa.Y,
		Points:      []float64{0, 0, ta.X - fa.X, ta.Y - fa.Y},
		Stroke:      stroke,
		StrokeWidth: defaultStrokeWidth,
		Text:        label,
		ArrowEnd:    arrow,
		StartAnchor: &domain.Anchor{ObjectID: from.ID, AnchorPosition: fa.Anchor},
		EndAnchor:   &domain.Anchor{ObjectID: to.ID, AnchorPosition: ta.Anchor},
	}
	return b.stage(line), true
}

func createConnector(b *batch, a args) {
	fromRef, toRef := b.parseRef(a, "from"), b.parseRef(a, "to")
	if fromRef == nil || toRef == nil {
		b.note("Skipped createConnector: both ends are required.")
		return
	}
	from, ok := b.resolve(fromRef)
	if !ok {
		b.note("Skipped connector: source %s not found.", fromRef)
		return
	}
	to, ok := b.resolve(toRef)
	if !ok {
		b.note("Skipped connector: target %s not found.", toRef)
		return
	}
	if from.ID == to.ID {
		b.note("Skipped connector: %s cannot connect to itself.", from.ID)
		return
	}

	stroke := colors.ResolveOr(a.str("color"), colors.PaletteShape, b.rng, colors.DefaultStroke)
	line, ok := b.connect(from, to, stroke, a.boolOr("arrow", true), a.str("label"))
	if !ok {
		b.note("Skipped connector between %s and %s: lines have no anchor points.", from.ID, to.ID)
		return
	}
	b.note("Connected %s to %s (%s → %s).",
		from.Label(""), to.Label(""),
		line.StartAnchor.AnchorPosition, line.EndAnchor.AnchorPosition)
}
