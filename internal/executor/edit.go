package executor

import (
	"math"
	"strings"

	"whiteboard/internal/colors"
	"whiteboard/internal/domain"
)

// nudgeFraction is how far a directional move goes, as a share of the
// visible viewport extent.
const nudgeFraction = 0.3

func moveObject(b *batch, a args) {
	ids := a.ids()
	if len(ids) == 0 {
		b.note("Skipped moveObject: no object given.")
		return
	}
	var first domain.Object
	found := false
	for _, id := range ids {
		if first, found = b.get(id); found {
			break
		}
	}
	if !found {
		for _, id := range ids {
			b.note("Skipped moving %s: object not found.", id)
		}
		return
	}

	var dx, dy float64
	if x, y, abs := a.point(); abs {
		// several objects keep their offsets from the first one
		dx, dy = x-first.X, y-first.Y
	} else {
		dir := strings.ToLower(a.str("direction"))
		if dir == "" {
			b.note("Skipped moveObject: no coordinates or direction given.")
			return
		}
		var ux, uy float64
		switch dir {
		case "left":
			ux = -1
		case "right":
			ux = 1
		case "up":
			uy = -1
		case "down":
			uy = 1
		default:
			b.note("Skipped moveObject: unknown direction %q.", dir)
			return
		}
		dist, hasDist := a.num("distance")
		if !hasDist || dist <= 0 {
			if b.opts.Viewport == nil {
				b.note("Skipped moving %s %s: no viewport available.", ids[0], dir)
				return
			}
			vw, vh := b.opts.Viewport.Extent()
			dist = nudgeFraction * vw
			if uy != 0 {
				dist = nudgeFraction * vh
			}
		}
		dx, dy = ux*dist, uy*dist
	}

	for _, id := range ids {
		o, ok := b.get(id)
		if !ok {
			b.note("Skipped moving %s: object not found.", id)
			continue
		}
		nx, ny := o.X+dx, o.Y+dy
		if err := b.update(id, domain.ObjectPatch{X: domain.F(nx), Y: domain.F(ny)}); err != nil {
			b.note("Failed to move %s: %v.", id, err)
			continue
		}
		b.note("Moved %s to (%.0f, %.0f).", o.Label(""), nx, ny)
	}
}

func resizeObject(b *batch, a args) {
	ids := a.ids()
	if len(ids) == 0 {
		b.note("Skipped resizeObject: no object given.")
		return
	}
	w, hasW := a.num("width")
	h, hasH := a.num("height")
	r, hasR := a.num("radius")
	scale, hasScale := a.num("scale")
	if !hasW && !hasH && !hasR && !hasScale {
		b.note("Skipped resizeObject: no size given.")
		return
	}

	for _, id := range ids {
		o, ok := b.get(id)
		if !ok {
			b.note("Skipped resizing %s: object not found.", id)
			continue
		}
		var p domain.ObjectPatch
		switch o.Type {
		case domain.ObjectTypeCircle:
			switch {
			case hasR && r > 0:
				p.Radius = domain.F(r)
			case hasW && w > 0:
				p.Radius = domain.F(w / 2)
			case hasH && h > 0:
				p.Radius = domain.F(h / 2)
			case hasScale && scale > 0:
				p.Radius = domain.F(o.Radius * scale)
			}
		case domain.ObjectTypeLine:
			if hasScale && scale > 0 {
				pts := make([]float64, len(o.Points))
				for i, v := range o.Points {
					pts[i] = v * scale
				}
				p.Points = pts
			}
		default:
			cw, ch := o.Width, o.Height
			if hasScale && scale > 0 {
				cw, ch = cw*scale, ch*scale
			}
			if hasW && w > 0 {
				cw = w
			}
			if hasH && h > 0 {
				ch = h
			}
			if cw != o.Width {
				p.Width = domain.F(cw)
			}
			if ch != o.Height {
				p.Height = domain.F(ch)
			}
		}
		if p.Empty() {
			b.note("Skipped resizing %s: nothing to change.", id)
			continue
		}
		if err := b.update(id, p); err != nil {
			b.note("Failed to resize %s: %v.", id, err)
			continue
		}
		o, _ = b.get(id)
		if o.Type == domain.ObjectTypeCircle {
			b.note("Resized %s to radius %.0f.", o.Label(""), o.Radius)
		} else {
			b.note("Resized %s to %.0fx%.0f.", o.Label(""), o.Width, o.Height)
		}
	}
}

// normalizeDegrees maps an angle onto [0, 360).
func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

func rotateObject(b *batch, a args) {
	ids := a.ids()
	if len(ids) == 0 {
		b.note("Skipped rotateObject: no object given.")
		return
	}
	abs, hasAbs := a.num("rotation")
	if !hasAbs {
		abs, hasAbs = a.num("angle")
	}
	by, hasBy := a.num("by")
	if !hasAbs && !hasBy {
		b.note("Skipped rotateObject: no angle given.")
		return
	}
	for _, id := range ids {
		o, ok := b.get(id)
		if !ok {
			b.note("Skipped rotating %s: object not found.", id)
			continue
		}
		deg := abs
		if !hasAbs {
			deg = o.Rotation + by
		}
		deg = normalizeDegrees(deg)
		if err := b.update(id, domain.ObjectPatch{Rotation: domain.F(deg)}); err != nil {
			b.note("Failed to rotate %s: %v.", id, err)
			continue
		}
		b.note("Rotated %s to %.0f°.", o.Label(""), deg)
	}
}

// paint builds the patch that recolors o, writing whichever field carries
// the object's visible color.
func (b *batch) paint(o domain.Object, token string) domain.ObjectPatch {
	switch o.Type {
	case domain.ObjectTypeSticky:
		return domain.ObjectPatch{Color: domain.S(colors.Resolve(token, colors.PaletteSticky, b.rng))}
	case domain.ObjectTypeLine:
		return domain.ObjectPatch{Stroke: domain.S(colors.ResolveOr(token, colors.PaletteShape, b.rng, colors.DefaultStroke))}
	case domain.ObjectTypeText:
		return domain.ObjectPatch{Color: domain.S(colors.ResolveOr(token, colors.PaletteShape, b.rng, colors.DefaultText))}
	case domain.ObjectTypeFrame:
		return domain.ObjectPatch{Fill: domain.S(colors.ResolveOr(token, colors.PaletteShape, b.rng, colors.DefaultFrame))}
	case domain.ObjectTypeTextBubble:
		return domain.ObjectPatch{Fill: domain.S(colors.ResolveOr(token, colors.PaletteShape, b.rng, "#FFFFFF"))}
	}
	return domain.ObjectPatch{Fill: domain.S(colors.Resolve(token, colors.PaletteShape, b.rng))}
}

func changeColor(b *batch, a args) {
	ids := a.ids()
	token := a.str("color")
	if len(ids) == 0 || token == "" {
		b.note("Skipped changeColor: object and color are required.")
		return
	}
	for _, id := range ids {
		o, ok := b.get(id)
		if !ok {
			b.note("Skipped recoloring %s: object not found.", id)
			continue
		}
		p := b.paint(o, token)
		if err := b.update(id, p); err != nil {
			b.note("Failed to recolor %s: %v.", id, err)
			continue
		}
		o, _ = b.get(id)
		b.note("Changed %s color to %s.", o.Label(""), o.DisplayColor())
	}
}

func updateText(b *batch, a args) {
	ids := a.ids()
	if len(ids) == 0 || !a.has("text") {
		b.note("Skipped updateText: object and text are required.")
		return
	}
	text, _ := a["text"].(string)
	for _, id := range ids {
		o, ok := b.get(id)
		if !ok {
			b.note("Skipped updating text of %s: object not found.", id)
			continue
		}
		p := domain.ObjectPatch{Text: domain.S(text)}
		if o.Type == domain.ObjectTypeFrame {
			p = domain.ObjectPatch{Title: domain.S(text)}
		}
		if err := b.update(id, p); err != nil {
			b.note("Failed to update text of %s: %v.", id, err)
			continue
		}
		b.note("Updated %s text to %q.", o.Type, text)
	}
}
