// Package export renders a board snapshot to PDF.
package export

import (
	"io"
	"math"
	"sort"

	"github.com/jung-kurt/gofpdf"

	"whiteboard/internal/colors"
	"whiteboard/internal/domain"
	"whiteboard/internal/geometry"
)

const (
	pageW    = 297.0 // A4 landscape, mm
	pageH    = 210.0
	margin   = 10.0
	header   = 14.0
	maxScale = 0.5 // mm per board unit
	mmToPt   = 72 / 25.4
)

// page maps board coordinates into the printable area.
type page struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	bounds geometry.Bounds
	scale  float64
	offX   float64
	offY   float64
}

func (p *page) x(v float64) float64 { return p.offX + (v-p.bounds.MinX)*p.scale }
func (p *page) y(v float64) float64 { return p.offY + (v-p.bounds.MinY)*p.scale }
func (p *page) d(v float64) float64 { return v * p.scale }

// WriteBoard draws objs in z-order onto a single A4 landscape page.
func WriteBoard(w io.Writer, title string, objs []domain.Object) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(17, 24, 39)
	pdf.Text(margin, margin+5, tr(title))

	byID := geometry.IndexByID(objs)
	b, ok := geometry.UnionBounds(objs, byID)
	if !ok {
		pdf.SetFont("Helvetica", "", 11)
		pdf.Text(margin, margin+header+5, "Empty board")
		return pdf.Output(w)
	}

	availW := pageW - 2*margin
	availH := pageH - 2*margin - header
	scale := maxScale
	if b.Width() > 0 {
		scale = math.Min(scale, availW/b.Width())
	}
	if b.Height() > 0 {
		scale = math.Min(scale, availH/b.Height())
	}
	p := &page{
		pdf:    pdf,
		tr:     tr,
		bounds: b,
		scale:  scale,
		offX:   margin + (availW-b.Width()*scale)/2,
		offY:   margin + header + (availH-b.Height()*scale)/2,
	}

	ordered := append([]domain.Object(nil), objs...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ZIndex < ordered[j].ZIndex })
	for _, o := range ordered {
		p.draw(o, byID)
	}
	return pdf.Output(w)
}

func (p *page) draw(o domain.Object, byID map[string]domain.Object) {
	if o.Type == domain.ObjectTypeLine {
		p.line(o, byID)
		return
	}
	if o.Type == domain.ObjectTypeCircle {
		p.fill(o.Fill, colors.DefaultShape)
		p.stroke(o.Stroke, o.StrokeWidth)
		p.pdf.Circle(p.x(o.X), p.y(o.Y), p.d(o.Radius), "FD")
		p.label(o, o.X-o.Radius, o.Y-o.Radius, o.Radius*2, o.Radius*2)
		return
	}

	w, h := geometry.Size(o)
	rotated := o.Rotation != 0
	if rotated {
		p.pdf.TransformBegin()
		// board rotation is clockwise on a y-down canvas
		p.pdf.TransformRotate(-o.Rotation, p.x(o.X), p.y(o.Y))
	}
	x, y := p.x(o.X), p.y(o.Y)

	switch o.Type {
	case domain.ObjectTypeSticky:
		p.fill(o.Color, colors.DefaultSticky)
		p.pdf.SetLineWidth(0.1)
		p.pdf.SetDrawColor(200, 200, 200)
		p.pdf.Rect(x, y, p.d(w), p.d(h), "FD")
		p.label(o, o.X, o.Y, w, h)
	case domain.ObjectTypeFrame:
		p.fill(o.Fill, colors.DefaultFrame)
		p.pdf.SetLineWidth(0.2)
		p.pdf.SetDrawColor(156, 163, 175)
		p.pdf.SetDashPattern([]float64{1.5, 1}, 0)
		p.pdf.Rect(x, y, p.d(w), p.d(h), "FD")
		p.pdf.SetDashPattern([]float64{}, 0)
		if o.Title != "" {
			p.font(14)
			p.pdf.SetTextColor(55, 65, 81)
			p.pdf.Text(x, y-1, p.tr(o.Title))
		}
	case domain.ObjectTypeText:
		p.text(o.Text, o.Color, colors.DefaultText, o.TextSize, x, y, p.d(w))
	case domain.ObjectTypeTextBubble:
		p.fill(o.Fill, "#FFFFFF")
		p.stroke(o.Stroke, o.StrokeWidth)
		p.pdf.Rect(x, y, p.d(w), p.d(h), "FD")
		p.label(o, o.X, o.Y, w, h)
	case domain.ObjectTypeTriangle:
		p.fill(o.Fill, colors.DefaultShape)
		p.stroke(o.Stroke, o.StrokeWidth)
		p.pdf.Polygon([]gofpdf.PointType{
			{X: x + p.d(w)/2, Y: y},
			{X: x + p.d(w), Y: y + p.d(h)},
			{X: x, Y: y + p.d(h)},
		}, "FD")
		p.label(o, o.X, o.Y, w, h)
	case domain.ObjectTypeStar:
		p.fill(o.Fill, colors.DefaultShape)
		p.stroke(o.Stroke, o.StrokeWidth)
		p.pdf.Polygon(starPoints(x+p.d(w)/2, y+p.d(h)/2, p.d(math.Min(w, h))/2), "FD")
		p.label(o, o.X, o.Y, w, h)
	default:
		p.fill(o.Fill, colors.DefaultShape)
		p.stroke(o.Stroke, o.StrokeWidth)
		p.pdf.Rect(x, y, p.d(w), p.d(h), "FD")
		p.label(o, o.X, o.Y, w, h)
	}

	if rotated {
		p.pdf.TransformEnd()
	}
}

func (p *page) line(o domain.Object, byID map[string]domain.Object) {
	from, to := geometry.LineEndpoints(o, byID)
	sw := o.StrokeWidth
	if sw <= 0 {
		sw = 2
	}
	p.stroke(o.Stroke, sw)
	if o.Stroke == "" {
		r, g, b, _ := colors.RGB(colors.DefaultStroke)
		p.pdf.SetDrawColor(r, g, b)
	}
	x1, y1, x2, y2 := p.x(from.X), p.y(from.Y), p.x(to.X), p.y(to.Y)
	p.pdf.Line(x1, y1, x2, y2)
	if !o.ArrowEnd {
		return
	}
	angle := math.Atan2(y2-y1, x2-x1)
	size := math.Max(p.d(12), 1.2)
	left := angle + math.Pi*5/6
	right := angle - math.Pi*5/6
	r, g, b, ok := colors.RGB(o.Stroke)
	if !ok {
		r, g, b, _ = colors.RGB(colors.DefaultStroke)
	}
	p.pdf.SetFillColor(r, g, b)
	p.pdf.Polygon([]gofpdf.PointType{
		{X: x2, Y: y2},
		{X: x2 + size*math.Cos(left), Y: y2 + size*math.Sin(left)},
		{X: x2 + size*math.Cos(right), Y: y2 + size*math.Sin(right)},
	}, "F")
}

// label prints an object's text inside its box.
func (p *page) label(o domain.Object, bx, by, bw, bh float64) {
	if o.Text == "" {
		return
	}
	size := o.TextSize
	if size <= 0 {
		size = 16
	}
	pad := p.d(8)
	p.font(size)
	p.pdf.SetTextColor(17, 24, 39)
	p.pdf.SetXY(p.x(bx)+pad, p.y(by)+pad)
	_, lineH := p.pdf.GetFontSize()
	p.pdf.MultiCell(math.Max(p.d(bw)-2*pad, 1), lineH*1.2, p.tr(o.Text), "", "L", false)
}

func (p *page) text(s, color, fallback string, size, x, y, w float64) {
	if s == "" {
		return
	}
	if size <= 0 {
		size = 16
	}
	r, g, b, ok := colors.RGB(color)
	if !ok {
		r, g, b, _ = colors.RGB(fallback)
	}
	p.font(size)
	p.pdf.SetTextColor(r, g, b)
	p.pdf.SetXY(x, y)
	_, lineH := p.pdf.GetFontSize()
	p.pdf.MultiCell(math.Max(w, 1), lineH*1.2, p.tr(s), "", "L", false)
}

// font sets Helvetica at a board text size, never below a readable 4pt.
func (p *page) font(size float64) {
	p.pdf.SetFont("Helvetica", "", math.Max(p.d(size)*mmToPt, 4))
}

func (p *page) fill(hex, fallback string) {
	r, g, b, ok := colors.RGB(hex)
	if !ok {
		r, g, b, _ = colors.RGB(fallback)
	}
	p.pdf.SetFillColor(r, g, b)
}

func (p *page) stroke(hex string, width float64) {
	r, g, b, ok := colors.RGB(hex)
	if !ok {
		r, g, b = 55, 65, 81
	}
	p.pdf.SetDrawColor(r, g, b)
	if width <= 0 {
		width = 1
	}
	p.pdf.SetLineWidth(math.Max(p.d(width), 0.1))
}

func starPoints(cx, cy, outer float64) []gofpdf.PointType {
	inner := outer * 0.45
	pts := make([]gofpdf.PointType, 0, 10)
	for i := 0; i < 10; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		pts = append(pts, gofpdf.PointType{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)})
	}
	return pts
}
