package layout

import (
	"math"
	"testing"

	"whiteboard/internal/domain"
	"whiteboard/internal/geometry"
)

func TestDimensions_Auto(t *testing.T) {
	tests := []struct {
		n, rows, cols int
	}{
		{1, 1, 1},
		{3, 1, 3},
		{4, 2, 2},
		{5, 2, 3},
		{6, 2, 3},
		{7, 2, 4},
		{8, 2, 4},
		{9, 3, 3},
		{12, 3, 4},
		{13, 2, 7},
	}
	for _, tt := range tests {
		r, c := Dimensions(tt.n, 0, 0)
		if r != tt.rows || c != tt.cols {
			t.Errorf("Dimensions(%d) = %dx%d, want %dx%d", tt.n, r, c, tt.rows, tt.cols)
		}
	}
}

func TestDimensions_Explicit(t *testing.T) {
	tests := []struct {
		n, inRows, inCols, rows, cols int
	}{
		{10, 2, 0, 2, 5},
		{10, 0, 3, 4, 3},
		{10, 2, 2, 5, 2},
		{4, 4, 4, 4, 4},
		{3, math.MaxInt32, 0, 3, 1},
		{3, 0, math.MaxInt, 1, 3},
		{3, math.MaxInt, math.MaxInt, 3, 3},
		{5, math.MaxInt, 2, 5, 2},
	}
	for _, tt := range tests {
		r, c := Dimensions(tt.n, tt.inRows, tt.inCols)
		if r != tt.rows || c != tt.cols {
			t.Errorf("Dimensions(%d, %d, %d) = %dx%d, want %dx%d", tt.n, tt.inRows, tt.inCols, r, c, tt.rows, tt.cols)
		}
	}
}

func TestDimensions_AlwaysFits(t *testing.T) {
	for n := 1; n <= 200; n++ {
		for _, in := range [][2]int{{0, 0}, {3, 0}, {0, 7}, {2, 2}} {
			r, c := Dimensions(n, in[0], in[1])
			if r*c < n {
				t.Fatalf("Dimensions(%d, %v) = %dx%d cannot hold all items", n, in, r, c)
			}
		}
	}
}

func TestReadingOrder_RowTolerance(t *testing.T) {
	objs := []domain.Object{
		{ID: "b", Type: domain.ObjectTypeRect, X: 300, Y: 5, Width: 10, Height: 10},
		{ID: "c", Type: domain.ObjectTypeRect, X: 0, Y: 200, Width: 10, Height: 10},
		{ID: "a", Type: domain.ObjectTypeRect, X: 0, Y: 0, Width: 10, Height: 10},
	}
	got := ReadingOrder(objs, nil)
	want := []string{"a", "b", "c"}
	for i, o := range got {
		if o.ID != want[i] {
			t.Fatalf("order = %v, want %v", ids(got), want)
		}
	}
}

func ids(objs []domain.Object) []string {
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = o.ID
	}
	return out
}

func TestRegion_Priority(t *testing.T) {
	objs := []domain.Object{{ID: "a", Type: domain.ObjectTypeRect, X: 0, Y: 0, Width: 50, Height: 50}}
	frame := domain.Object{ID: "f", Type: domain.ObjectTypeFrame, X: 1000, Y: 1000, Width: 400, Height: 300}
	sel := domain.Rect{X: 10, Y: 10, Width: 500, Height: 500}

	r, src := Region(&frame, &sel, objs, nil)
	if src != RegionFrame || r.X != 1040 || r.Width != 320 {
		t.Errorf("frame region = %+v (%s)", r, src)
	}
	r, src = Region(nil, &sel, objs, nil)
	if src != RegionSelection || r != sel {
		t.Errorf("selection region = %+v (%s)", r, src)
	}
	r, src = Region(nil, nil, objs, nil)
	if src != RegionObjects || r.Width != 50 {
		t.Errorf("object region = %+v (%s)", r, src)
	}
}

func TestArrangePositions_SevenNotesNoOverlap(t *testing.T) {
	var objs []domain.Object
	for i := 0; i < 7; i++ {
		objs = append(objs, domain.Object{
			ID: string(rune('a' + i)), Type: domain.ObjectTypeSticky,
			X: float64(i * 13), Y: float64(i * 7), Width: 200, Height: 200,
		})
	}
	region, src := Region(nil, nil, objs, nil)
	arr := ArrangePositions(objs, nil, GridOptions{Region: region, Source: src})
	if arr.Rows != 2 || arr.Cols != 4 {
		t.Fatalf("expected 2 rows x 4 cols, got %dx%d", arr.Rows, arr.Cols)
	}
	if len(arr.Patches) != 7 {
		t.Fatalf("expected 7 patches, got %d", len(arr.Patches))
	}

	moved := make([]domain.Object, len(objs))
	for i, o := range objs {
		arr.Patches[o.ID].Apply(&o)
		moved[i] = o
	}
	for i := range moved {
		for j := i + 1; j < len(moved); j++ {
			a := geometry.ObjectBounds(moved[i], nil)
			b := geometry.ObjectBounds(moved[j], nil)
			if a.Overlaps(b) {
				t.Errorf("notes %s and %s overlap: %+v vs %+v", moved[i].ID, moved[j].ID, a, b)
			}
		}
	}
}

func TestArrangePositions_CircleCentredByBounds(t *testing.T) {
	objs := []domain.Object{{ID: "c", Type: domain.ObjectTypeCircle, X: 0, Y: 0, Radius: 50}}
	region := domain.Rect{X: 0, Y: 0, Width: 400, Height: 400}
	arr := ArrangePositions(objs, nil, GridOptions{Region: region, Source: RegionSelection})
	p := arr.Patches["c"]
	if *p.X != 200 || *p.Y != 200 {
		t.Errorf("circle centre = (%.0f, %.0f), want (200, 200)", *p.X, *p.Y)
	}
}

func TestArrangeAndResize(t *testing.T) {
	objs := []domain.Object{
		{ID: "r", Type: domain.ObjectTypeRect, X: 0, Y: 0, Width: 10, Height: 10},
		{ID: "c", Type: domain.ObjectTypeCircle, X: 100, Y: 5, Radius: 5},
	}
	region := domain.Rect{X: 0, Y: 0, Width: 420, Height: 300}
	arr := ArrangeAndResize(objs, nil, GridOptions{Region: region, Source: RegionSelection, Gap: 20})
	if arr.Rows != 1 || arr.Cols != 2 {
		t.Fatalf("expected 1x2, got %dx%d", arr.Rows, arr.Cols)
	}
	r := arr.Patches["r"]
	if *r.Width != 200 || *r.Height != 300 || *r.X != 0 {
		t.Errorf("rect patch = w%.0f h%.0f x%.0f", *r.Width, *r.Height, *r.X)
	}
	c := arr.Patches["c"]
	if *c.Radius != 100 || *c.X != 320 || *c.Y != 150 {
		t.Errorf("circle patch = r%.0f at (%.0f, %.0f)", *c.Radius, *c.X, *c.Y)
	}
}
