package domain

// ObjectPatch is a partial update. Nil fields are left untouched.
type ObjectPatch struct {
	X                  *float64  `json:"x,omitempty"`
	Y                  *float64  `json:"y,omitempty"`
	Rotation           *float64  `json:"rotation,omitempty"`
	Width              *float64  `json:"width,omitempty"`
	Height             *float64  `json:"height,omitempty"`
	Radius             *float64  `json:"radius,omitempty"`
	Points             []float64 `json:"points,omitempty"`
	Color              *string   `json:"color,omitempty"`
	Fill               *string   `json:"fill,omitempty"`
	Stroke             *string   `json:"stroke,omitempty"`
	Text               *string   `json:"text,omitempty"`
	TextSize           *float64  `json:"textSize,omitempty"`
	Title              *string   `json:"title,omitempty"`
	ContainedObjectIDs []string  `json:"containedObjectIds,omitempty"`
	StartAnchor        *Anchor   `json:"startAnchor,omitempty"`
	EndAnchor          *Anchor   `json:"endAnchor,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ObjectPatch) Empty() bool {
	return p.X == nil && p.Y == nil && p.Rotation == nil && p.Width == nil &&
		p.Height == nil && p.Radius == nil && p.Points == nil && p.Color == nil &&
		p.Fill == nil && p.Stroke == nil && p.Text == nil && p.TextSize == nil &&
		p.Title == nil && p.ContainedObjectIDs == nil && p.StartAnchor == nil &&
		p.EndAnchor == nil
}

// Apply writes the non-nil fields of p onto o.
func (p ObjectPatch) Apply(o *Object) {
	if p.X != nil {
		o.X = *p.X
	}
	if p.Y != nil {
		o.Y = *p.Y
	}
	if p.Rotation != nil {
		o.Rotation = *p.Rotation
	}
	if p.Width != nil {
		o.Width = *p.Width
	}
	if p.Height != nil {
		o.Height = *p.Height
	}
	if p.Radius != nil {
		o.Radius = *p.Radius
	}
	if p.Points != nil {
		o.Points = append([]float64(nil), p.Points...)
	}
	if p.Color != nil {
		o.Color = *p.Color
	}
	if p.Fill != nil {
		o.Fill = *p.Fill
	}
	if p.Stroke != nil {
		o.Stroke = *p.Stroke
	}
	if p.Text != nil {
		o.Text = *p.Text
	}
	if p.TextSize != nil {
		o.TextSize = *p.TextSize
	}
	if p.Title != nil {
		o.Title = *p.Title
	}
	if p.ContainedObjectIDs != nil {
		o.ContainedObjectIDs = append([]string(nil), p.ContainedObjectIDs...)
	}
	if p.StartAnchor != nil {
		a := *p.StartAnchor
		o.StartAnchor = &a
	}
	if p.EndAnchor != nil {
		a := *p.EndAnchor
		o.EndAnchor = &a
	}
}

// F and S are small helpers for building patches inline.
func F(v float64) *float64 { return &v }
func S(v string) *string   { return &v }
