package domain

import (
	"strconv"

	"github.com/google/uuid"
)

type ObjectType string

const (
	ObjectTypeSticky     ObjectType = "sticky"
	ObjectTypeRect       ObjectType = "rect"
	ObjectTypeCircle     ObjectType = "circle"
	ObjectTypeTriangle   ObjectType = "triangle"
	ObjectTypeStar       ObjectType = "star"
	ObjectTypeLine       ObjectType = "line"
	ObjectTypeText       ObjectType = "text"
	ObjectTypeTextBubble ObjectType = "textBubble"
	ObjectTypeFrame      ObjectType = "frame"
)

// ObjectTypes lists every object kind the board understands.
var ObjectTypes = []ObjectType{
	ObjectTypeSticky,
	ObjectTypeRect,
	ObjectTypeCircle,
	ObjectTypeTriangle,
	ObjectTypeStar,
	ObjectTypeLine,
	ObjectTypeText,
	ObjectTypeTextBubble,
	ObjectTypeFrame,
}

// Valid reports whether t is one of the known object kinds.
func (t ObjectType) Valid() bool {
	switch t {
	case ObjectTypeSticky, ObjectTypeRect, ObjectTypeCircle, ObjectTypeTriangle,
		ObjectTypeStar, ObjectTypeLine, ObjectTypeText, ObjectTypeTextBubble, ObjectTypeFrame:
		return true
	}
	return false
}

// AnchorPosition names a side of an object that a connector can attach to.
type AnchorPosition string

const (
	AnchorTop    AnchorPosition = "top"
	AnchorRight  AnchorPosition = "right"
	AnchorBottom AnchorPosition = "bottom"
	AnchorLeft   AnchorPosition = "left"
)

// Anchor attaches one end of a line to a side of another object.
type Anchor struct {
	ObjectID       string         `json:"objectId"`
	AnchorPosition AnchorPosition `json:"anchorPosition"`
}

// Object is a single whiteboard item. Type discriminates which of the
// kind-specific fields are meaningful.
//
// Position semantics differ by kind: for circles (X, Y) is the center,
// for every other kind it is the top-left corner of the unrotated box.
type Object struct {
	ID        string     `json:"id"`
	Type      ObjectType `json:"type"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	Rotation  float64    `json:"rotation"`
	ZIndex    int        `json:"zIndex"`
	CreatedBy string     `json:"createdBy"`
	CreatedAt int64      `json:"createdAt"` // unix millis

	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Radius float64 `json:"radius,omitempty"`

	Points []float64 `json:"points,omitempty"` // line: flat x0,y0,x1,y1 relative to X,Y

	Color       string  `json:"color,omitempty"`
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`

	Text       string  `json:"text,omitempty"`
	TextSize   float64 `json:"textSize,omitempty"`
	TextFamily string  `json:"textFamily,omitempty"`

	Title              string   `json:"title,omitempty"`
	ContainedObjectIDs []string `json:"containedObjectIds,omitempty"`

	StartAnchor *Anchor `json:"startAnchor,omitempty"`
	EndAnchor   *Anchor `json:"endAnchor,omitempty"`
	ArrowEnd    bool    `json:"arrowEnd,omitempty"`
}

// DisplayColor is the color a reader would name the object by.
func (o Object) DisplayColor() string {
	switch o.Type {
	case ObjectTypeLine:
		return o.Stroke
	case ObjectTypeText:
		return o.Color
	}
	if o.Fill != "" {
		return o.Fill
	}
	return o.Color
}

// Label names the object for summaries: kind (or the type tag when kind is
// empty) followed by its quoted text or title, cut to 40 runes.
func (o Object) Label(kind string) string {
	if kind == "" {
		kind = string(o.Type)
	}
	name := o.Text
	if name == "" {
		name = o.Title
	}
	if name == "" {
		return kind
	}
	if r := []rune(name); len(r) > 40 {
		name = string(r[:40]) + "…"
	}
	return kind + " " + strconv.Quote(name)
}

// Clone returns a deep copy so slices and anchors are not shared.
func (o Object) Clone() Object {
	c := o
	if o.Points != nil {
		c.Points = append([]float64(nil), o.Points...)
	}
	if o.ContainedObjectIDs != nil {
		c.ContainedObjectIDs = append([]string(nil), o.ContainedObjectIDs...)
	}
	if o.StartAnchor != nil {
		a := *o.StartAnchor
		c.StartAnchor = &a
	}
	if o.EndAnchor != nil {
		a := *o.EndAnchor
		c.EndAnchor = &a
	}
	return c
}

// NewID returns a fresh object ID.
func NewID() string {
	return uuid.NewString()
}

// IDGenerator produces collision-free object IDs.
type IDGenerator func() string
