package executor

// Param describes one tool argument.
type Param struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"` // string, number, integer, boolean, array
	Description string   `json:"description"`
	Required    bool     `json:"required,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Items       string   `json:"items,omitempty"` // element type of arrays
}

// ToolSpec describes a tool the executor understands.
type ToolSpec struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"parameters"`
	Destructive bool    `json:"destructive,omitempty"`
	ReadOnly    bool    `json:"readOnly,omitempty"`
}

// JSONSchema renders the parameters as a JSON Schema object, the shape
// function-calling APIs expect.
func (t ToolSpec) JSONSchema() map[string]any {
	props := make(map[string]any, len(t.Params))
	required := []string{}
	for _, p := range t.Params {
		prop := map[string]any{"type": p.Type, "description": p.Description}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		if p.Type == "array" {
			items := p.Items
			if items == "" {
				items = "string"
			}
			prop["items"] = map[string]any{"type": items}
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return map[string]any{"type": "object", "properties": props, "required": required}
}

type handler func(b *batch, a args)

type tool struct {
	spec ToolSpec
	run  handler
}

func strP(name, desc string) Param  { return Param{Name: name, Type: "string", Description: desc} }
func numP(name, desc string) Param  { return Param{Name: name, Type: "number", Description: desc} }
func intP(name, desc string) Param  { return Param{Name: name, Type: "integer", Description: desc} }
func boolP(name, desc string) Param { return Param{Name: name, Type: "boolean", Description: desc} }
func listP(name, desc string) Param { return Param{Name: name, Type: "array", Description: desc} }

func numList(name, desc string) Param {
	return Param{Name: name, Type: "array", Items: "number", Description: desc}
}

func required(p Param) Param {
	p.Required = true
	return p
}

func enum(p Param, values ...string) Param {
	p.Enum = values
	return p
}

var (
	pX        = numP("x", "X position; top-left for boxes, centre for circles. Omit to auto-place")
	pY        = numP("y", "Y position; omit to auto-place")
	pColor    = strP("color", "Color name, #hex, or \"random\"")
	pQuantity = intP("quantity", "How many copies to create, laid out as a grid")
	pRows     = intP("rows", "Grid rows (optional)")
	pColumns  = intP("columns", "Grid columns (optional)")
	pFrameID  = strP("frameId", "Frame to place the new object in")
	pObjectID = strP("objectId", "Target object ID")
	pObjIDs   = listP("objectIds", "Target object IDs")
	pTitle    = strP("title", "Title shown on the frame")
)

var tools = []tool{
	{ToolSpec{Name: "createStickyNote", Description: "Create one or more sticky notes", Params: []Param{
		strP("text", "Note text"), listP("texts", "One note per entry"), pX, pY,
		numP("width", "Width (default 200)"), numP("height", "Height (default 200)"),
		pColor, pQuantity, pRows, pColumns, pFrameID,
	}}, createStickyNote},
	{ToolSpec{Name: "createShape", Description: "Create a rectangle, circle, triangle, star or line", Params: []Param{
		required(enum(strP("type", "Shape kind"), "rect", "circle", "triangle", "star", "line")),
		pX, pY, numP("width", "Width"), numP("height", "Height"), numP("radius", "Circle radius"),
		numP("rotation", "Rotation in degrees"), pColor, strP("stroke", "Outline color"),
		strP("text", "Label inside the shape"), numList("points", "Line points as flat x,y pairs"),
		pQuantity, pRows, pColumns, pFrameID,
	}}, createShape},
	{ToolSpec{Name: "createText", Description: "Create a free-standing text label", Params: []Param{
		required(strP("text", "Text content")), pX, pY, numP("fontSize", "Font size (default 16)"),
		numP("width", "Text box width"), pColor, pFrameID,
	}}, createText},
	{ToolSpec{Name: "createTextBubble", Description: "Create a speech bubble with text", Params: []Param{
		strP("text", "Bubble text"), pX, pY, numP("width", "Width"), numP("height", "Height"), pColor, pFrameID,
	}}, createTextBubble},
	{ToolSpec{Name: "createFrame", Description: "Create a frame, optionally around existing objects", Params: []Param{
		pTitle, pX, pY, numP("width", "Width"), numP("height", "Height"), pColor,
		listP("objectIds", "Objects the frame should contain; the frame is sized around them"),
	}}, createFrame},
	{ToolSpec{Name: "createConnector", Description: "Connect two objects with a line between their nearest sides. Ends may be object IDs or indices of objects created earlier in the same request", Params: []Param{
		strP("fromId", "Source object ID"), strP("toId", "Target object ID"),
		intP("fromIndex", "Source as index into objects created in this request"),
		intP("toIndex", "Target as index into objects created in this request"),
		pColor, boolP("arrow", "Draw an arrow head (default true)"), strP("label", "Connector label"),
	}}, createConnector},
	{ToolSpec{Name: "moveObject", Description: "Move objects to a position, or nudge them in a direction", Params: []Param{
		pObjectID, pObjIDs, numP("x", "New X"), numP("y", "New Y"),
		enum(strP("direction", "Nudge direction"), "left", "right", "up", "down"),
		numP("distance", "Nudge distance; defaults to 30% of the viewport"),
	}}, moveObject},
	{ToolSpec{Name: "resizeObject", Description: "Resize objects", Params: []Param{
		pObjectID, pObjIDs, numP("width", "New width"), numP("height", "New height"),
		numP("radius", "New circle radius"), numP("scale", "Scale factor"),
	}}, resizeObject},
	{ToolSpec{Name: "rotateObject", Description: "Rotate objects", Params: []Param{
		pObjectID, pObjIDs, numP("rotation", "Absolute angle in degrees"), numP("by", "Relative angle in degrees"),
	}}, rotateObject},
	{ToolSpec{Name: "changeColor", Description: "Change the color of objects", Params: []Param{
		pObjectID, pObjIDs, required(pColor),
	}}, changeColor},
	{ToolSpec{Name: "updateText", Description: "Replace the text of an object, or the title of a frame", Params: []Param{
		required(pObjectID), required(strP("text", "New text")),
	}}, updateText},
	{ToolSpec{Name: "deleteObject", Description: "Delete objects. Naming nearly every object clears the board", Params: []Param{
		pObjectID, pObjIDs,
	}, Destructive: true}, deleteObject},
	{ToolSpec{Name: "arrangeInGrid", Description: "Arrange objects in a grid without resizing them", Params: []Param{
		pObjIDs, strP("frameId", "Arrange inside this frame"), pRows, pColumns, numP("gap", "Gap between cells"),
	}}, arrangeInGrid},
	{ToolSpec{Name: "arrangeInGridAndResize", Description: "Arrange objects in a grid and resize each to fill its cell", Params: []Param{
		pObjIDs, strP("frameId", "Arrange inside this frame"), pRows, pColumns, numP("gap", "Gap between cells"),
	}}, arrangeInGridAndResize},
	{ToolSpec{Name: "fitFrameToContents", Description: "Resize a frame to enclose its contents", Params: []Param{
		required(strP("frameId", "Frame ID")), numP("padding", "Padding around contents (default 40)"),
	}}, fitFrameToContents},
	{ToolSpec{Name: "addToFrame", Description: "Add objects to a frame, growing it to enclose them", Params: []Param{
		required(strP("frameId", "Frame ID")), pObjectID, pObjIDs, boolP("fit", "Grow the frame around the objects (default true)"),
	}}, addToFrame},
	{ToolSpec{Name: "getBoardState", Description: "Describe the objects on the board", Params: []Param{
		intP("limit", "Maximum objects to list"),
	}, ReadOnly: true}, getBoardState},
	{ToolSpec{Name: "analyzeObjects", Description: "Count objects by type and color", Params: []Param{
		pObjIDs,
	}, ReadOnly: true}, analyzeObjects},
	{ToolSpec{Name: "createSWOT", Description: "Create a SWOT analysis board", Params: []Param{
		pTitle, listP("strengths", "Strengths"), listP("weaknesses", "Weaknesses"),
		listP("opportunities", "Opportunities"), listP("threats", "Threats"),
		listP("colors", "Note color per quadrant"), pX, pY,
	}}, createSWOT},
	{ToolSpec{Name: "createJourneyMap", Description: "Create a customer journey map of connected stages", Params: []Param{
		pTitle, listP("stages", "Stage names in order"), pX, pY,
	}}, createJourneyMap},
	{ToolSpec{Name: "createRetrospective", Description: "Create a retrospective board", Params: []Param{
		pTitle, listP("wentWell", "What went well"), listP("didntGoWell", "What didn't go well"),
		listP("actionItems", "Action items"), listP("colors", "Note color per column"), pX, pY,
	}}, createRetrospective},
	{ToolSpec{Name: "createProsCons", Description: "Create a pros and cons board", Params: []Param{
		pTitle, listP("pros", "Pros"), listP("cons", "Cons"), listP("colors", "Note color per column"), pX, pY,
	}}, createProsCons},
}

var handlers = func() map[string]handler {
	m := make(map[string]handler, len(tools))
	for _, t := range tools {
		m[t.spec.Name] = t.run
	}
	return m
}()

// Catalog lists every tool the executor handles, in a stable order.
func Catalog() []ToolSpec {
	out := make([]ToolSpec, len(tools))
	for i, t := range tools {
		out[i] = t.spec
	}
	return out
}

// Lookup returns the spec for name.
func Lookup(name string) (ToolSpec, bool) {
	for _, t := range tools {
		if t.spec.Name == name {
			return t.spec, true
		}
	}
	return ToolSpec{}, false
}
