package executor_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"whiteboard/internal/colors"
	"whiteboard/internal/domain"
	"whiteboard/internal/executor"
	"whiteboard/internal/geometry"
	"whiteboard/internal/layout"
)

func call(name string, args map[string]any) domain.ToolCall {
	return domain.ToolCall{ID: "call-" + name, Name: name, Arguments: args}
}

func run(t *testing.T, board domain.BoardOperations, opts executor.Options, calls ...domain.ToolCall) executor.Result {
	t.Helper()
	ex := executor.New(nil, executor.WithIDGenerator(seqIDs()))
	res, err := ex.Execute(context.Background(), calls, board, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return res
}

func assertNoOverlap(t *testing.T, objs []domain.Object) {
	t.Helper()
	byID := geometry.IndexByID(objs)
	for i := range objs {
		for j := i + 1; j < len(objs); j++ {
			a := geometry.ObjectBounds(objs[i], byID)
			b := geometry.ObjectBounds(objs[j], byID)
			if a.Overlaps(b) {
				t.Errorf("%s %+v overlaps %s %+v", objs[i].ID, a, objs[j].ID, b)
			}
		}
	}
}

// ─────────────────────────────────────────────────────────────
// Batch basics
// ─────────────────────────────────────────────────────────────

func TestExecute_EmptyBatch(t *testing.T) {
	board := newBoard()
	res := run(t, board, executor.Options{})
	if res.Summary != executor.NoActionsSummary {
		t.Errorf("summary = %q, want sentinel", res.Summary)
	}
	if board.batches != 0 {
		t.Errorf("expected no commit, got %d", board.batches)
	}
}

func TestExecute_UnknownToolDoesNotAbortBatch(t *testing.T) {
	board := newBoard()
	res := run(t, board, executor.Options{},
		call("explode", nil),
		call("createStickyNote", map[string]any{"text": "still here"}),
	)
	if !strings.Contains(res.Summary, `Unknown tool "explode" skipped.`) {
		t.Errorf("summary missing unknown-tool note: %q", res.Summary)
	}
	if len(res.CreatedIDs) != 1 {
		t.Errorf("expected sibling call to run, created %v", res.CreatedIDs)
	}
}

func TestExecute_SingleCommitForManyCreates(t *testing.T) {
	board := newBoard()
	res := run(t, board, executor.Options{},
		call("createStickyNote", map[string]any{"text": "a"}),
		call("createShape", map[string]any{"type": "rect"}),
		call("createText", map[string]any{"text": "hello"}),
		call("createTextBubble", map[string]any{"text": "hi"}),
		call("createFrame", map[string]any{"title": "F"}),
	)
	if board.batches != 1 {
		t.Errorf("expected exactly one batch commit, got %d", board.batches)
	}
	if len(res.CreatedIDs) != 5 || len(board.objects) != 5 {
		t.Fatalf("created %d, board has %d", len(res.CreatedIDs), len(board.objects))
	}
	assertNoOverlap(t, board.objects)
}

func TestExecute_CommitErrorIsReturned(t *testing.T) {
	board := newBoard()
	board.commitErr = errors.New("store offline")
	ex := executor.New(nil)
	res, err := ex.Execute(context.Background(), []domain.ToolCall{
		call("createStickyNote", map[string]any{"text": "x"}),
	}, board, executor.Options{})
	if err == nil || !errors.Is(err, board.commitErr) {
		t.Fatalf("expected wrapped commit error, got %v", err)
	}
	if len(res.CreatedIDs) != 0 {
		t.Errorf("nothing was committed, got created %v", res.CreatedIDs)
	}
}

func TestExecute_ZIndexAndAuthorship(t *testing.T) {
	board := newBoard(stickies(3)...)
	run(t, board, executor.Options{},
		call("createStickyNote", map[string]any{"text": "a"}),
		call("createStickyNote", map[string]any{"text": "b"}),
	)
	a, _ := board.get("obj-1")
	b, _ := board.get("obj-2")
	if a.ZIndex != 3 || b.ZIndex != 4 {
		t.Errorf("z-index = %d, %d; want 3, 4", a.ZIndex, b.ZIndex)
	}
	if a.CreatedBy != "user-1" || a.CreatedAt == 0 {
		t.Errorf("authorship not stamped: %+v", a)
	}
}

// ─────────────────────────────────────────────────────────────
// Creation and connectors
// ─────────────────────────────────────────────────────────────

func TestExecute_CreateThenConnect(t *testing.T) {
	board := newBoard()
	res := run(t, board, executor.Options{},
		call("createShape", map[string]any{"type": "circle"}),
		call("createShape", map[string]any{"type": "rect"}),
		call("createConnector", map[string]any{"fromIndex": float64(0), "toIndex": float64(1)}),
	)
	if len(res.CreatedIDs) != 3 {
		t.Fatalf("expected 3 created objects, got %v (%s)", res.CreatedIDs, res.Summary)
	}
	circle, _ := board.get("obj-1")
	rect, _ := board.get("obj-2")
	line, ok := board.get("obj-3")
	if !ok || line.Type != domain.ObjectTypeLine {
		t.Fatalf("expected a line as third object, got %+v", line)
	}
	if line.StartAnchor == nil || line.StartAnchor.ObjectID != circle.ID {
		t.Errorf("start anchor = %+v, want %s", line.StartAnchor, circle.ID)
	}
	if line.EndAnchor == nil || line.EndAnchor.ObjectID != rect.ID {
		t.Errorf("end anchor = %+v, want %s", line.EndAnchor, rect.ID)
	}
	if line.StartAnchor.AnchorPosition != domain.AnchorRight || line.EndAnchor.AnchorPosition != domain.AnchorLeft {
		t.Errorf("anchors = %s → %s, want right → left", line.StartAnchor.AnchorPosition, line.EndAnchor.AnchorPosition)
	}
	a := geometry.ObjectBounds(circle, nil)
	b := geometry.ObjectBounds(rect, nil)
	if layout.Overlaps(a.Rect(), b.Rect(), layout.Margin) {
		t.Errorf("shapes overlap: %+v vs %+v", a, b)
	}
}

func TestExecute_ConnectorToStagedAndPersisted(t *testing.T) {
	board := newBoard(stickies(1)...)
	res := run(t, board, executor.Options{},
		call("createStickyNote", map[string]any{"text": "new", "x": float64(0), "y": float64(600)}),
		call("createConnector", map[string]any{"fromId": "obj-1", "toId": "s0"}),
	)
	line, ok := board.get("obj-2")
	if !ok || line.StartAnchor.ObjectID != "obj-1" || line.EndAnchor.ObjectID != "s0" {
		t.Fatalf("connector not resolved through staging: %+v (%s)", line, res.Summary)
	}
	if line.StartAnchor.AnchorPosition != domain.AnchorTop || line.EndAnchor.AnchorPosition != domain.AnchorBottom {
		t.Errorf("anchors = %s → %s, want top → bottom", line.StartAnchor.AnchorPosition, line.EndAnchor.AnchorPosition)
	}
}

func TestExecute_ConnectorMissingEndpoint(t *testing.T) {
	board := newBoard(stickies(1)...)
	res := run(t, board, executor.Options{},
		call("createConnector", map[string]any{"fromId": "s0", "toId": "ghost"}),
		call("createConnector", map[string]any{"fromIndex": float64(4), "toId": "s0"}),
	)
	if len(res.CreatedIDs) != 0 {
		t.Errorf("expected no connectors, got %v", res.CreatedIDs)
	}
	if !strings.Contains(res.Summary, "target ghost not found") || !strings.Contains(res.Summary, "source #4 not found") {
		t.Errorf("summary = %q", res.Summary)
	}
}

func TestExecute_SevenStickyNotesGrid(t *testing.T) {
	board := newBoard()
	res := run(t, board, executor.Options{},
		call("createStickyNote", map[string]any{"quantity": float64(7), "text": "idea"}),
	)
	if len(res.CreatedIDs) != 7 {
		t.Fatalf("expected 7 notes, got %d", len(res.CreatedIDs))
	}
	if !strings.Contains(res.Summary, "2x4 grid") {
		t.Errorf("summary = %q, want a 2x4 grid", res.Summary)
	}
	assertNoOverlap(t, board.objects)
}

func TestExecute_ArrangeSevenExistingNotes(t *testing.T) {
	objs := stickies(7)
	for i := range objs {
		objs[i].X = float64(i * 13)
		objs[i].Y = float64(i * 9)
	}
	board := newBoard(objs...)
	res := run(t, board, executor.Options{}, call("arrangeInGrid", nil))
	if !strings.Contains(res.Summary, "Arranged 7 objects in a 2x4 grid") {
		t.Errorf("summary = %q", res.Summary)
	}
	if len(res.ModifiedIDs) != 7 {
		t.Errorf("expected 7 modified, got %v", res.ModifiedIDs)
	}
	assertNoOverlap(t, board.objects)
}

func TestExecute_HugeGridDimensionsAreCapped(t *testing.T) {
	tests := []struct {
		name string
		call domain.ToolCall
		want string
	}{
		{"arrange rows", call("arrangeInGrid", map[string]any{"rows": 5e9}), "3x1 grid"},
		{"arrange columns", call("arrangeInGridAndResize", map[string]any{"columns": 1e300}), "1x3 grid"},
		{"create rows", call("createStickyNote", map[string]any{"quantity": float64(3), "rows": 5e9}), "3x1 grid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, newBoard(stickies(3)...), executor.Options{}, tt.call)
			if !strings.Contains(res.Summary, tt.want) {
				t.Errorf("summary = %q, want %q", res.Summary, tt.want)
			}
		})
	}
}

func TestExecute_ArrangeInMissingFrame(t *testing.T) {
	board := newBoard(stickies(2)...)
	res := run(t, board, executor.Options{}, call("arrangeInGrid", map[string]any{"frameId": "nope"}))
	if !strings.Contains(res.Summary, "Frame nope not found") {
		t.Errorf("summary = %q", res.Summary)
	}
	if board.updates != 0 {
		t.Errorf("expected no updates, got %d", board.updates)
	}
}

func TestExecute_CreateInsideFrame(t *testing.T) {
	frame := domain.Object{ID: "f1", Type: domain.ObjectTypeFrame, X: 0, Y: 0, Width: 800, Height: 600}
	board := newBoard(frame)
	run(t, board, executor.Options{},
		call("createStickyNote", map[string]any{"text": "a", "frameId": "f1"}),
		call("createStickyNote", map[string]any{"text": "b", "frameId": "f1"}),
	)
	f, _ := board.get("f1")
	if len(f.ContainedObjectIDs) != 2 {
		t.Fatalf("frame members = %v", f.ContainedObjectIDs)
	}
	fb := geometry.ObjectBounds(f, nil)
	for _, id := range f.ContainedObjectIDs {
		o, _ := board.get(id)
		if !fb.Contains(geometry.ObjectBounds(o, nil)) {
			t.Errorf("%s lies outside its frame", id)
		}
	}
	a, _ := board.get("obj-1")
	b, _ := board.get("obj-2")
	assertNoOverlap(t, []domain.Object{a, b})
}

// ─────────────────────────────────────────────────────────────
// Colors
// ─────────────────────────────────────────────────────────────

func TestExecute_InvalidColorFallsBack(t *testing.T) {
	board := newBoard()
	run(t, board, executor.Options{},
		call("createStickyNote", map[string]any{"color": "#zzz"}),
		call("createShape", map[string]any{"type": "star", "color": "not-a-color"}),
		call("createShape", map[string]any{"type": "rect", "color": "#3b82f6"}),
	)
	sticky, _ := board.get("obj-1")
	star, _ := board.get("obj-2")
	rect, _ := board.get("obj-3")
	if sticky.Color != colors.DefaultSticky {
		t.Errorf("sticky color = %q", sticky.Color)
	}
	if star.Fill != colors.DefaultShape {
		t.Errorf("star fill = %q", star.Fill)
	}
	if rect.Fill != "#3B82F6" {
		t.Errorf("rect fill = %q, want normalized hex", rect.Fill)
	}
}

func TestExecute_ChangeColorByKind(t *testing.T) {
	board := newBoard(
		domain.Object{ID: "n", Type: domain.ObjectTypeSticky, Width: 200, Height: 200},
		domain.Object{ID: "l", Type: domain.ObjectTypeLine, X: 500, Points: []float64{0, 0, 100, 0}},
	)
	res := run(t, board, executor.Options{},
		call("changeColor", map[string]any{"objectIds": []any{"n", "l"}, "color": "blue"}),
	)
	n, _ := board.get("n")
	l, _ := board.get("l")
	if n.Color != "#BBDEFB" {
		t.Errorf("sticky color = %q, want sticky-palette blue", n.Color)
	}
	if l.Stroke != "#3B82F6" {
		t.Errorf("line stroke = %q, want shape-palette blue", l.Stroke)
	}
	if len(res.ModifiedIDs) != 2 {
		t.Errorf("modified = %v", res.ModifiedIDs)
	}
}

// ─────────────────────────────────────────────────────────────
// Edits
// ─────────────────────────────────────────────────────────────

func TestExecute_MoveMissingTargetContinues(t *testing.T) {
	board := newBoard(stickies(1)...)
	res := run(t, board, executor.Options{},
		call("moveObject", map[string]any{"objectId": "ghost", "x": float64(10), "y": float64(10)}),
		call("moveObject", map[string]any{"objectId": "s0", "x": float64(40), "y": float64(50)}),
	)
	if !strings.Contains(res.Summary, "Skipped moving ghost: object not found.") {
		t.Errorf("summary = %q", res.Summary)
	}
	s0, _ := board.get("s0")
	if s0.X != 40 || s0.Y != 50 {
		t.Errorf("s0 at (%.0f, %.0f), want (40, 50)", s0.X, s0.Y)
	}
}

func TestExecute_MoveDirectional(t *testing.T) {
	board := newBoard(stickies(1)...)
	vp := &domain.Viewport{Scale: 2, Width: 1000, Height: 800}
	run(t, board, executor.Options{Viewport: vp},
		call("moveObject", map[string]any{"objectId": "s0", "direction": "right"}),
		call("moveObject", map[string]any{"objectId": "s0", "direction": "down"}),
	)
	s0, _ := board.get("s0")
	// extent at scale 2 is 500x400, so nudges are 150 and 120
	if s0.X != 150 || s0.Y != 120 {
		t.Errorf("s0 at (%.0f, %.0f), want (150, 120)", s0.X, s0.Y)
	}

	res := run(t, board, executor.Options{}, call("moveObject", map[string]any{"objectId": "s0", "direction": "left"}))
	if !strings.Contains(res.Summary, "no viewport") {
		t.Errorf("summary = %q", res.Summary)
	}
	res = run(t, board, executor.Options{}, call("moveObject", map[string]any{"objectId": "s0"}))
	if !strings.Contains(res.Summary, "no coordinates or direction") {
		t.Errorf("summary = %q", res.Summary)
	}
}

func TestExecute_EditsStagedObjectInPlace(t *testing.T) {
	board := newBoard()
	res := run(t, board, executor.Options{},
		call("createShape", map[string]any{"type": "rect", "x": float64(0), "y": float64(0)}),
		call("resizeObject", map[string]any{"objectId": "obj-1", "width": float64(300)}),
		call("rotateObject", map[string]any{"objectId": "obj-1", "rotation": float64(-90)}),
		call("updateText", map[string]any{"objectId": "obj-1", "text": "label"}),
	)
	if board.updates != 0 {
		t.Errorf("staged edits must not hit the board, got %d updates", board.updates)
	}
	if len(res.ModifiedIDs) != 0 {
		t.Errorf("staged objects are created, not modified: %v", res.ModifiedIDs)
	}
	r, _ := board.get("obj-1")
	if r.Width != 300 || r.Rotation != 270 || r.Text != "label" {
		t.Errorf("rect = %+v", r)
	}
}

func TestExecute_ResizeCircleUsesRadius(t *testing.T) {
	board := newBoard(domain.Object{ID: "c", Type: domain.ObjectTypeCircle, X: 0, Y: 0, Radius: 10})
	run(t, board, executor.Options{}, call("resizeObject", map[string]any{"objectId": "c", "width": float64(80)}))
	c, _ := board.get("c")
	if c.Radius != 40 || c.X != 0 {
		t.Errorf("circle = %+v, want radius 40 about the same centre", c)
	}
}

// ─────────────────────────────────────────────────────────────
// Deletion
// ─────────────────────────────────────────────────────────────

func ids(objs []domain.Object) []any {
	out := make([]any, len(objs))
	for i, o := range objs {
		out[i] = o.ID
	}
	return out
}

func TestExecute_DeleteNearlyEverythingClearsBoard(t *testing.T) {
	objs := stickies(21)
	board := clearingBoard{newBoard(objs...)}
	res := run(t, board, executor.Options{},
		call("deleteObject", map[string]any{"objectIds": ids(objs[:20])}),
	)
	if len(board.objects) != 0 {
		t.Errorf("expected empty board, %d objects left", len(board.objects))
	}
	if board.clears != 1 {
		t.Errorf("expected bulk clear, got %d", board.clears)
	}
	if len(res.DeletedIDs) != 21 {
		t.Errorf("deleted = %d, want 21", len(res.DeletedIDs))
	}
}

func TestExecute_DeleteNearlyEverythingWithoutClearer(t *testing.T) {
	objs := stickies(21)
	board := newBoard(objs...)
	run(t, board, executor.Options{},
		call("deleteObject", map[string]any{"objectIds": ids(objs[1:])}),
	)
	if len(board.objects) != 0 {
		t.Errorf("expected empty board, %d objects left", len(board.objects))
	}
	if len(board.deletes) != 1 || len(board.deletes[0]) != 21 {
		t.Errorf("expected one delete of all 21 ids, got %v", board.deletes)
	}
}

func TestExecute_PartialDelete(t *testing.T) {
	objs := stickies(10)
	board := newBoard(objs...)
	res := run(t, board, executor.Options{},
		call("deleteObject", map[string]any{"objectIds": []any{"s1", "s2", "s3", "ghost"}}),
	)
	if len(board.objects) != 7 {
		t.Errorf("expected 7 objects left, got %d", len(board.objects))
	}
	if !strings.Contains(res.Summary, "Deleted 3 objects; 1 ID not found.") {
		t.Errorf("summary = %q", res.Summary)
	}
}

func TestExecute_DeleteStagedObject(t *testing.T) {
	board := newBoard()
	res := run(t, board, executor.Options{},
		call("createStickyNote", map[string]any{"text": "temp"}),
		call("createStickyNote", map[string]any{"text": "keep"}),
		call("deleteObject", map[string]any{"objectId": "obj-1"}),
	)
	if len(res.CreatedIDs) != 1 || res.CreatedIDs[0] != "obj-2" {
		t.Errorf("created = %v, want only obj-2", res.CreatedIDs)
	}
	if len(board.deletes) != 0 {
		t.Errorf("staged deletes must not reach the board")
	}
}

// ─────────────────────────────────────────────────────────────
// Frames
// ─────────────────────────────────────────────────────────────

func TestExecute_FitFrameToContents(t *testing.T) {
	board := newBoard(
		domain.Object{ID: "f", Type: domain.ObjectTypeFrame, X: 0, Y: 0, Width: 100, Height: 100, ContainedObjectIDs: []string{"a", "b"}},
		domain.Object{ID: "a", Type: domain.ObjectTypeRect, X: 200, Y: 200, Width: 50, Height: 50},
		domain.Object{ID: "b", Type: domain.ObjectTypeCircle, X: 400, Y: 300, Radius: 25},
		domain.Object{ID: "empty", Type: domain.ObjectTypeFrame, X: 5000, Y: 5000, Width: 10, Height: 10},
	)
	res := run(t, board, executor.Options{},
		call("fitFrameToContents", map[string]any{"frameId": "f"}),
		call("fitFrameToContents", map[string]any{"frameId": "empty"}),
		call("fitFrameToContents", map[string]any{"frameId": "missing"}),
	)
	f, _ := board.get("f")
	if f.X != 160 || f.Y != 160 || f.Width != 305 || f.Height != 205 {
		t.Errorf("frame = (%.0f, %.0f) %.0fx%.0f", f.X, f.Y, f.Width, f.Height)
	}
	if !strings.Contains(res.Summary, "is empty") || !strings.Contains(res.Summary, "Frame missing not found") {
		t.Errorf("summary = %q", res.Summary)
	}
}

func TestExecute_FitFrameFallsBackToOverlap(t *testing.T) {
	board := newBoard(
		domain.Object{ID: "f", Type: domain.ObjectTypeFrame, X: 0, Y: 0, Width: 500, Height: 500},
		domain.Object{ID: "a", Type: domain.ObjectTypeRect, X: 100, Y: 100, Width: 50, Height: 50},
		domain.Object{ID: "far", Type: domain.ObjectTypeRect, X: 2000, Y: 2000, Width: 50, Height: 50},
	)
	run(t, board, executor.Options{}, call("fitFrameToContents", map[string]any{"frameId": "f"}))
	f, _ := board.get("f")
	if len(f.ContainedObjectIDs) != 1 || f.ContainedObjectIDs[0] != "a" {
		t.Errorf("members = %v, want [a]", f.ContainedObjectIDs)
	}
	if f.Width != 130 {
		t.Errorf("width = %.0f, want 130", f.Width)
	}
}

func TestExecute_AddToFrameGrowsFrame(t *testing.T) {
	board := newBoard(
		domain.Object{ID: "f", Type: domain.ObjectTypeFrame, X: 0, Y: 0, Width: 300, Height: 300},
		domain.Object{ID: "a", Type: domain.ObjectTypeRect, X: 400, Y: 0, Width: 100, Height: 100},
	)
	run(t, board, executor.Options{}, call("addToFrame", map[string]any{"frameId": "f", "objectIds": []any{"a", "a"}}))
	f, _ := board.get("f")
	if len(f.ContainedObjectIDs) != 1 {
		t.Errorf("members = %v", f.ContainedObjectIDs)
	}
	if f.Width != 540 {
		t.Errorf("width = %.0f, want 540", f.Width)
	}
}

// ─────────────────────────────────────────────────────────────
// Reads and recipes
// ─────────────────────────────────────────────────────────────

func TestExecute_GetBoardStateLimit(t *testing.T) {
	tests := []struct {
		name   string
		limit  any
		listed int
		more   bool
	}{
		{"default", nil, 3, false},
		{"limit one", float64(1), 1, true},
		{"zero uses default", float64(0), 3, false},
		{"negative uses default", float64(-2), 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := map[string]any{}
			if tt.limit != nil {
				a["limit"] = tt.limit
			}
			res := run(t, newBoard(stickies(3)...), executor.Options{}, call("getBoardState", a))
			if got := strings.Count(res.Summary, "[s"); got != tt.listed {
				t.Errorf("listed %d objects, want %d: %q", got, tt.listed, res.Summary)
			}
			if strings.Contains(res.Summary, "more.") != tt.more {
				t.Errorf("summary = %q", res.Summary)
			}
		})
	}
}

func TestExecute_AnalyzeObjects(t *testing.T) {
	board := newBoard(
		domain.Object{ID: "r", Type: domain.ObjectTypeRect, Fill: "#EF4444"},
		domain.Object{ID: "w", Type: domain.ObjectTypeRect, Fill: "#FFFFFF"},
		domain.Object{ID: "p", Type: domain.ObjectTypeSticky, Color: "#FFC0CB"},
	)
	res := run(t, board, executor.Options{}, call("analyzeObjects", nil))
	for _, want := range []string{"Analyzed 3 objects", "2 rect", "1 sticky", "1 pink", "1 red", "1 white"} {
		if !strings.Contains(res.Summary, want) {
			t.Errorf("summary %q missing %q", res.Summary, want)
		}
	}
	if board.updates != 0 || board.batches != 0 {
		t.Error("analysis must not mutate the board")
	}

	res = run(t, board, executor.Options{AnalysisDone: true}, call("analyzeObjects", nil))
	if res.Summary != executor.NoActionsSummary {
		t.Errorf("expected analysis to be skipped, got %q", res.Summary)
	}
}

func TestExecute_Recipes(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		created int
	}{
		// frame + 4 panels + 4 headers + 2 strengths + 3 prompts
		{"createSWOT", map[string]any{"strengths": []any{"Fast", "Cheap"}}, 14},
		// frame + 5 stages + 4 connectors
		{"createJourneyMap", nil, 10},
		// frame + 3 panels + 3 headers + 1 + 1 + 2 notes
		{"createRetrospective", map[string]any{"actionItems": []any{"Ship", map[string]any{"text": "Test", "color": "pink"}}}, 11},
		// frame + 2 panels + 2 headers + 2 notes
		{"createProsCons", map[string]any{"title": "Rewrite?"}, 7},
	}
	for _, tt := range tests {
		board := newBoard(stickies(2)...)
		res := run(t, board, executor.Options{}, call(tt.name, tt.args))
		if len(res.CreatedIDs) != tt.created {
			t.Errorf("%s: created %d, want %d (%s)", tt.name, len(res.CreatedIDs), tt.created, res.Summary)
			continue
		}
		frame, _ := board.get("obj-1")
		if frame.Type != domain.ObjectTypeFrame || len(frame.ContainedObjectIDs) != tt.created-1 {
			t.Errorf("%s: frame = %s with %d members", tt.name, frame.Type, len(frame.ContainedObjectIDs))
		}
		fb := geometry.ObjectBounds(frame, nil)
		for _, s := range stickies(2) {
			if fb.Overlaps(geometry.ObjectBounds(s, nil)) {
				t.Errorf("%s: recipe frame overlaps existing %s", tt.name, s.ID)
			}
		}
	}
}

func TestCatalog_EveryToolDispatches(t *testing.T) {
	want := []string{
		"createStickyNote", "createShape", "createText", "createTextBubble", "createFrame",
		"createConnector", "moveObject", "resizeObject", "rotateObject", "changeColor",
		"updateText", "deleteObject", "arrangeInGrid", "arrangeInGridAndResize",
		"fitFrameToContents", "addToFrame", "getBoardState", "analyzeObjects",
		"createSWOT", "createJourneyMap", "createRetrospective", "createProsCons",
	}
	got := map[string]bool{}
	for _, spec := range executor.Catalog() {
		got[spec.Name] = true
		schema := spec.JSONSchema()
		if schema["type"] != "object" {
			t.Errorf("%s: schema type = %v", spec.Name, schema["type"])
		}
	}
	for _, name := range want {
		if !got[name] {
			t.Errorf("catalog missing %s", name)
			continue
		}
		res := run(t, newBoard(stickies(3)...), executor.Options{}, call(name, map[string]any{}))
		if strings.Contains(res.Summary, "Unknown tool") {
			t.Errorf("%s is listed but not dispatched", name)
		}
	}
	if spec, ok := executor.Lookup("deleteObject"); !ok || !spec.Destructive {
		t.Error("deleteObject must be marked destructive")
	}
}
