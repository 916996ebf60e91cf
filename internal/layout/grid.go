package layout

import (
	"math"
	"sort"

	"whiteboard/internal/domain"
	"whiteboard/internal/geometry"
)

const (
	FramePadding   = 40.0 // inset applied to a frame's interior before laying out
	RowTolerance   = 10.0 // objects whose tops differ by less than this share a row
	DefaultGridGap = 20.0
)

// Dimensions returns a rows×cols grid able to hold n items. Non-positive
// rows/cols are treated as unspecified; explicit values are capped at n.
func Dimensions(n, rows, cols int) (int, int) {
	if n <= 0 {
		return 0, 0
	}
	rows, cols = min(rows, n), min(cols, n)
	switch {
	case rows > 0 && cols > 0:
		if rows*cols < n {
			rows = ceilDiv(n, cols)
		}
		return rows, cols
	case rows > 0:
		return rows, ceilDiv(n, rows)
	case cols > 0:
		return ceilDiv(n, cols), cols
	}

	switch {
	case n <= 3:
		return 1, n
	case n == 4:
		return 2, 2
	case n <= 6:
		return 2, 3
	}

	maxRows := int(math.Ceil(math.Sqrt(float64(n))))
	bestR, bestC := 1, n
	bestWaste := math.MaxInt
	for r := 2; r <= maxRows; r++ {
		c := ceilDiv(n, r)
		waste := r*c - n
		if waste < bestWaste || (waste == bestWaste && abs(c-r) < abs(bestC-bestR)) {
			bestR, bestC, bestWaste = r, c, waste
		}
	}
	return bestR, bestC
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Cells splits region into rows×cols equal cells separated by gap, in
// row-major order.
func Cells(region domain.Rect, rows, cols int, gap float64) []domain.Rect {
	if rows <= 0 || cols <= 0 {
		return nil
	}
	cw := (region.Width - gap*float64(cols-1)) / float64(cols)
	ch := (region.Height - gap*float64(rows-1)) / float64(rows)
	cw = math.Max(cw, 1)
	ch = math.Max(ch, 1)
	cells := make([]domain.Rect, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cells = append(cells, domain.Rect{
				X:      region.X + float64(c)*(cw+gap),
				Y:      region.Y + float64(r)*(ch+gap),
				Width:  cw,
				Height: ch,
			})
		}
	}
	return cells
}

// ReadingOrder sorts objects top-to-bottom then left-to-right, treating
// objects whose tops are within RowTolerance as one row.
func ReadingOrder(objs []domain.Object, byID map[string]domain.Object) []domain.Object {
	type item struct {
		obj domain.Object
		b   geometry.Bounds
	}
	items := make([]item, len(objs))
	for i, o := range objs {
		items[i] = item{obj: o, b: geometry.ObjectBounds(o, byID)}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].b.MinY < items[j].b.MinY })

	out := make([]domain.Object, 0, len(objs))
	for start := 0; start < len(items); {
		end := start + 1
		for end < len(items) && items[end].b.MinY-items[start].b.MinY <= RowTolerance {
			end++
		}
		row := items[start:end]
		sort.SliceStable(row, func(i, j int) bool { return row[i].b.MinX < row[j].b.MinX })
		for _, it := range row {
			out = append(out, it.obj)
		}
		start = end
	}
	return out
}

// RegionSource says which rule picked the layout region.
type RegionSource string

const (
	RegionFrame     RegionSource = "frame"
	RegionSelection RegionSource = "selection"
	RegionObjects   RegionSource = "objects"
)

// Region picks the area to lay objects out in: a frame's padded interior
// wins over an explicit selection, which wins over the objects' own bounds.
func Region(frame *domain.Object, selection *domain.Rect, objs []domain.Object, byID map[string]domain.Object) (domain.Rect, RegionSource) {
	if frame != nil {
		b := geometry.ObjectBounds(*frame, byID).Inset(FramePadding)
		if b.Width() > 0 && b.Height() > 0 {
			return b.Rect(), RegionFrame
		}
	}
	if selection != nil && selection.Width > 0 && selection.Height > 0 {
		return *selection, RegionSelection
	}
	b, _ := geometry.UnionBounds(objs, byID)
	return b.Rect(), RegionObjects
}

// Arrangement is the outcome of a grid layout.
type Arrangement struct {
	Rows    int
	Cols    int
	Patches map[string]domain.ObjectPatch
	Order   []string // object IDs in cell order
}

// GridOptions controls a grid arrangement.
type GridOptions struct {
	Rows, Cols int
	Gap        float64
	Region     domain.Rect
	Source     RegionSource
}

func (o GridOptions) gap() float64 {
	if o.Gap <= 0 {
		return DefaultGridGap
	}
	return o.Gap
}

// gridRegion grows an object-derived region so every cell can hold the
// largest object without overlap; frame and selection regions are used as-is.
func gridRegion(opts GridOptions, rows, cols int, objs []domain.Object, byID map[string]domain.Object) domain.Rect {
	if opts.Source != RegionObjects {
		return opts.Region
	}
	var maxW, maxH float64
	for _, o := range objs {
		b := geometry.ObjectBounds(o, byID)
		maxW = math.Max(maxW, b.Width())
		maxH = math.Max(maxH, b.Height())
	}
	gap := opts.gap()
	r := opts.Region
	r.Width = math.Max(r.Width, maxW*float64(cols)+gap*float64(cols-1))
	r.Height = math.Max(r.Height, maxH*float64(rows)+gap*float64(rows-1))
	return r
}

// ArrangePositions moves objects into a grid without resizing them. Each
// object's visual bounds (rotation included) are centred in its cell.
func ArrangePositions(objs []domain.Object, byID map[string]domain.Object, opts GridOptions) Arrangement {
	ordered := ReadingOrder(objs, byID)
	rows, cols := Dimensions(len(ordered), opts.Rows, opts.Cols)
	cells := Cells(gridRegion(opts, rows, cols, ordered, byID), rows, cols, opts.gap())

	arr := Arrangement{Rows: rows, Cols: cols, Patches: make(map[string]domain.ObjectPatch, len(ordered))}
	for i, o := range ordered {
		b := geometry.ObjectBounds(o, byID)
		cc := cells[i].Center()
		// offset from the object's origin to its visual top-left
		offX, offY := o.X-b.MinX, o.Y-b.MinY
		arr.Patches[o.ID] = domain.ObjectPatch{
			X: domain.F(cc.X - b.Width()/2 + offX),
			Y: domain.F(cc.Y - b.Height()/2 + offY),
		}
		arr.Order = append(arr.Order, o.ID)
	}
	return arr
}

// ArrangeAndResize moves objects into a grid and stretches each to fill its
// cell. Circles take the smaller cell side as diameter and sit at the cell
// centre; lines are only translated.
func ArrangeAndResize(objs []domain.Object, byID map[string]domain.Object, opts GridOptions) Arrangement {
	ordered := ReadingOrder(objs, byID)
	rows, cols := Dimensions(len(ordered), opts.Rows, opts.Cols)
	cells := Cells(opts.Region, rows, cols, opts.gap())

	arr := Arrangement{Rows: rows, Cols: cols, Patches: make(map[string]domain.ObjectPatch, len(ordered))}
	for i, o := range ordered {
		cell := cells[i]
		var p domain.ObjectPatch
		switch o.Type {
		case domain.ObjectTypeCircle:
			cc := cell.Center()
			p = domain.ObjectPatch{
				X:      domain.F(cc.X),
				Y:      domain.F(cc.Y),
				Radius: domain.F(math.Min(cell.Width, cell.Height) / 2),
			}
		case domain.ObjectTypeLine:
			b := geometry.ObjectBounds(o, byID)
			cc := cell.Center()
			p = domain.ObjectPatch{
				X: domain.F(o.X + cc.X - b.Center().X),
				Y: domain.F(o.Y + cc.Y - b.Center().Y),
			}
		default:
			p = domain.ObjectPatch{
				X:        domain.F(cell.X),
				Y:        domain.F(cell.Y),
				Width:    domain.F(cell.Width),
				Height:   domain.F(cell.Height),
				Rotation: domain.F(0),
			}
		}
		arr.Patches[o.ID] = p
		arr.Order = append(arr.Order, o.ID)
	}
	return arr
}
