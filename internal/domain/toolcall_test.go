package domain

import "testing"

func TestParseToolCalls_ArgumentShapes(t *testing.T) {
	data := []byte(`[
		{"id": "1", "name": "createStickyNote", "arguments": {"text": "hi"}},
		{"id": "2", "name": "moveObject", "arguments": "{\"objectId\":\"a\",\"x\":10}"},
		{"id": "3", "type": "function", "function": {"name": "deleteObject", "arguments": "{\"objectIds\":[\"a\",\"b\"]}"}},
		{"id": "4", "name": "getBoardState"}
	]`)
	calls, err := ParseToolCalls(data)
	if err != nil {
		t.Fatalf("ParseToolCalls: %v", err)
	}
	if len(calls) != 4 {
		t.Fatalf("expected 4 calls, got %d", len(calls))
	}
	if calls[0].Arguments["text"] != "hi" {
		t.Errorf("object arguments = %v", calls[0].Arguments)
	}
	if calls[1].Arguments["x"] != float64(10) {
		t.Errorf("string arguments = %v", calls[1].Arguments)
	}
	if calls[2].Name != "deleteObject" || len(calls[2].Arguments["objectIds"].([]any)) != 2 {
		t.Errorf("function-wrapped call = %+v", calls[2])
	}
	if calls[3].Arguments == nil || len(calls[3].Arguments) != 0 {
		t.Errorf("missing arguments should decode to an empty map, got %v", calls[3].Arguments)
	}
}

func TestParseToolCalls_BadArguments(t *testing.T) {
	if _, err := ParseToolCalls([]byte(`[{"name":"x","arguments":"{not json"}]`)); err == nil {
		t.Fatal("expected error for malformed argument string")
	}
}

func TestObjectPatch_Apply(t *testing.T) {
	o := Object{ID: "a", Type: ObjectTypeRect, X: 1, Y: 2, Width: 10, Height: 10, Fill: "#000000"}
	p := ObjectPatch{Fill: S("#FFFFFF"), X: F(7)}
	if p.Empty() {
		t.Fatal("patch should not be empty")
	}
	p.Apply(&o)
	if o.X != 7 || o.Y != 2 || o.Fill != "#FFFFFF" || o.Width != 10 {
		t.Errorf("after apply: %+v", o)
	}
	if !(ObjectPatch{}).Empty() {
		t.Error("zero patch should be empty")
	}
}

func TestObject_CloneIsDeep(t *testing.T) {
	o := Object{Points: []float64{0, 0, 1, 1}, ContainedObjectIDs: []string{"x"}, StartAnchor: &Anchor{ObjectID: "a"}}
	c := o.Clone()
	c.Points[0] = 9
	c.ContainedObjectIDs[0] = "y"
	c.StartAnchor.ObjectID = "b"
	if o.Points[0] != 0 || o.ContainedObjectIDs[0] != "x" || o.StartAnchor.ObjectID != "a" {
		t.Errorf("clone shares memory with original: %+v", o)
	}
}

func TestViewport_Center(t *testing.T) {
	v := Viewport{Position: Point{X: -200, Y: 100}, Scale: 2, Width: 800, Height: 600}
	c := v.Center()
	if c.X != 300 || c.Y != 100 {
		t.Errorf("center = %+v, want (300, 100)", c)
	}
	w, h := v.Extent()
	if w != 400 || h != 300 {
		t.Errorf("extent = %.0fx%.0f", w, h)
	}
}

func TestObject_Label(t *testing.T) {
	long := "abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyz"
	tests := []struct {
		obj  Object
		kind string
		want string
	}{
		{Object{Type: ObjectTypeRect}, "", "rect"},
		{Object{Type: ObjectTypeSticky, Text: "Idea"}, "sticky note", `sticky note "Idea"`},
		{Object{Type: ObjectTypeFrame, Title: "Plan"}, "", `frame "Plan"`},
		{Object{Type: ObjectTypeText, Text: long}, "", `text "` + long[:40] + `…"`},
	}
	for _, tt := range tests {
		if got := tt.obj.Label(tt.kind); got != tt.want {
			t.Errorf("Label(%q) = %s, want %s", tt.kind, got, tt.want)
		}
	}
}
