package executor

import (
	"fmt"
	"math"

	"whiteboard/internal/colors"
	"whiteboard/internal/domain"
	"whiteboard/internal/layout"
)

// Recipe geometry. A section is a tinted panel with a header and a two
// column stack of notes.
const (
	recipeTitleHeight   = 50.0
	sectionWidth        = 440.0
	sectionGap          = 20.0
	sectionHeaderHeight = 60.0
	sectionMinHeight    = 300.0
	sectionInset        = 20.0
	recipeNoteWidth     = 190.0
	recipeNoteHeight    = 120.0
	recipeNoteGap       = 20.0
	headerTextSize      = 24.0
	sectionFill         = "#F3F4F6"
	sectionStroke       = "#E5E7EB"

	stageWidth  = 220.0
	stageHeight = 160.0
	stageGap    = 80.0
)

type recipeItem struct {
	text  string
	color string
}

// recipeItems reads a list whose entries are plain strings or objects with
// text (or name/title) and an optional color.
func recipeItems(a args, key string) []recipeItem {
	raw, ok := a[key].([]any)
	if !ok {
		var out []recipeItem
		for _, s := range a.strs(key) {
			out = append(out, recipeItem{text: s})
		}
		return out
	}
	var out []recipeItem
	for _, v := range raw {
		switch it := v.(type) {
		case string:
			if it != "" {
				out = append(out, recipeItem{text: it})
			}
		case map[string]any:
			m := args(it)
			text := m.str("text")
			for _, k := range []string{"name", "title", "label"} {
				if text == "" {
					text = m.str(k)
				}
			}
			if d := m.str("description"); d != "" {
				text += "\n" + d
			}
			if text != "" {
				out = append(out, recipeItem{text: text, color: m.str("color")})
			}
		}
	}
	return out
}

type section struct {
	header string
	items  []recipeItem
	prompt string // default note when items is empty
}

func sectionHeight(n int) float64 {
	rows := int(math.Ceil(float64(n) / 2))
	if rows < 1 {
		rows = 1
	}
	h := sectionHeaderHeight + float64(rows)*recipeNoteHeight + float64(rows-1)*recipeNoteGap + sectionInset
	return math.Max(h, sectionMinHeight)
}

// buildSections stages a frame holding the sections laid out perRow to a
// row. Notes without their own color take the section's color, which is the
// caller's colors[i] when given and otherwise cycles through the sticky
// palette.
func (b *batch) buildSections(a args, title string, secs []section, perRow int) (domain.Object, int) {
	overrides := a.strs("colors")
	secH := 0.0
	for i := range secs {
		if len(secs[i].items) == 0 {
			secs[i].items = []recipeItem{{text: secs[i].prompt}}
		}
		secH = math.Max(secH, sectionHeight(len(secs[i].items)))
	}
	rows := (len(secs) + perRow - 1) / perRow
	pad := layout.FramePadding
	frameW := 2*pad + float64(perRow)*sectionWidth + float64(perRow-1)*sectionGap
	frameH := 2*pad + recipeTitleHeight + float64(rows)*secH + float64(rows-1)*sectionGap

	x, y, explicit := a.point()
	if !explicit {
		p := b.place(frameW, frameH)
		x, y = p.X, p.Y
	}

	frame := b.stage(domain.Object{
		Type:   domain.ObjectTypeFrame,
		Title:  title,
		X:      x,
		Y:      y,
		Width:  frameW,
		Height: frameH,
		Fill:   colors.DefaultFrame,
	})

	var members []string
	notes := 0
	for i, s := range secs {
		sx := x + pad + float64(i%perRow)*(sectionWidth+sectionGap)
		sy := y + pad + recipeTitleHeight + float64(i/perRow)*(secH+sectionGap)

		noteColor := colors.Cycle(colors.PaletteSticky, i)
		if i < len(overrides) {
			noteColor = colors.ResolveOr(overrides[i], colors.PaletteSticky, b.rng, noteColor)
		}

		panel := b.stage(domain.Object{
			Type: domain.ObjectTypeRect, X: sx, Y: sy, Width: sectionWidth, Height: secH,
			Fill: sectionFill, Stroke: sectionStroke, StrokeWidth: 1,
		})
		header := b.stage(domain.Object{
			Type: domain.ObjectTypeText, X: sx + sectionInset, Y: sy + sectionInset,
			Width: sectionWidth - 2*sectionInset, Text: s.header, TextSize: headerTextSize,
			Color: colors.DefaultText,
		})
		members = append(members, panel.ID, header.ID)

		for j, it := range s.items {
			c := noteColor
			if it.color != "" {
				c = colors.ResolveOr(it.color, colors.PaletteSticky, b.rng, noteColor)
			}
			note := b.stage(domain.Object{
				Type:     domain.ObjectTypeSticky,
				X:        sx + sectionInset + float64(j%2)*(recipeNoteWidth+recipeNoteGap),
				Y:        sy + sectionHeaderHeight + float64(j/2)*(recipeNoteHeight+recipeNoteGap),
				Width:    recipeNoteWidth,
				Height:   recipeNoteHeight,
				Text:     it.text,
				TextSize: defaultTextSize,
				Color:    c,
			})
			members = append(members, note.ID)
			notes++
		}
	}
	if err := b.attach(frame.ID, members, domain.ObjectPatch{}); err != nil {
		b.note("Could not group %q: %v.", title, err)
	}
	return frame, notes
}

func titleOr(a args, def string) string {
	for _, k := range []string{"title", "topic"} {
		if t := a.str(k); t != "" {
			return t
		}
	}
	return def
}

func createSWOT(b *batch, a args) {
	title := titleOr(a, "SWOT Analysis")
	frame, n := b.buildSections(a, title, []section{
		{header: "Strengths", items: recipeItems(a, "strengths"), prompt: "What do we do well?"},
		{header: "Weaknesses", items: recipeItems(a, "weaknesses"), prompt: "Where can we improve?"},
		{header: "Opportunities", items: recipeItems(a, "opportunities"), prompt: "What trends can we use?"},
		{header: "Threats", items: recipeItems(a, "threats"), prompt: "What could hold us back?"},
	}, 2)
	b.note("Created SWOT analysis %q at (%.0f, %.0f) with %s.", title, frame.X, frame.Y, plural(n, "note"))
}

func createRetrospective(b *batch, a args) {
	title := titleOr(a, "Retrospective")
	wentWell := recipeItems(a, "wentWell")
	improve := recipeItems(a, "didntGoWell")
	if len(improve) == 0 {
		improve = recipeItems(a, "toImprove")
	}
	frame, n := b.buildSections(a, title, []section{
		{header: "What went well", items: wentWell, prompt: "Add wins here"},
		{header: "What didn't go well", items: improve, prompt: "Add pain points here"},
		{header: "Action items", items: recipeItems(a, "actionItems"), prompt: "Add next steps here"},
	}, 3)
	b.note("Created retrospective %q at (%.0f, %.0f) with %s.", title, frame.X, frame.Y, plural(n, "note"))
}

func createProsCons(b *batch, a args) {
	title := titleOr(a, "Pros & Cons")
	frame, n := b.buildSections(a, title, []section{
		{header: "Pros", items: recipeItems(a, "pros"), prompt: "Add a pro"},
		{header: "Cons", items: recipeItems(a, "cons"), prompt: "Add a con"},
	}, 2)
	b.note("Created pros and cons board %q at (%.0f, %.0f) with %s.", title, frame.X, frame.Y, plural(n, "note"))
}

var defaultJourneyStages = []string{"Awareness", "Consideration", "Purchase", "Retention", "Advocacy"}

func createJourneyMap(b *batch, a args) {
	title := titleOr(a, "Customer Journey")
	stages := recipeItems(a, "stages")
	if len(stages) == 0 {
		for _, s := range defaultJourneyStages {
			stages = append(stages, recipeItem{text: s})
		}
	}

	pad := layout.FramePadding
	n := float64(len(stages))
	frameW := 2*pad + n*stageWidth + (n-1)*stageGap
	frameH := 2*pad + recipeTitleHeight + stageHeight

	x, y, explicit := a.point()
	if !explicit {
		p := b.place(frameW, frameH)
		x, y = p.X, p.Y
	}
	frame := b.stage(domain.Object{
		Type: domain.ObjectTypeFrame, Title: title, X: x, Y: y,
		Width: frameW, Height: frameH, Fill: colors.DefaultFrame,
	})

	var members []string
	var prev domain.Object
	for i, st := range stages {
		c := colors.Cycle(colors.PaletteSticky, i)
		if st.color != "" {
			c = colors.ResolveOr(st.color, colors.PaletteSticky, b.rng, c)
		}
		note := b.stage(domain.Object{
			Type:     domain.ObjectTypeSticky,
			X:        x + pad + float64(i)*(stageWidth+stageGap),
			Y:        y + pad + recipeTitleHeight,
			Width:    stageWidth,
			Height:   stageHeight,
			Text:     fmt.Sprintf("%d. %s", i+1, st.text),
			TextSize: defaultTextSize,
			Color:    c,
		})
		members = append(members, note.ID)
		if i > 0 {
			if line, ok := b.connect(prev, note, colors.DefaultStroke, true, ""); ok {
				members = append(members, line.ID)
			}
		}
		prev = note
	}
	if err := b.attach(frame.ID, members, domain.ObjectPatch{}); err != nil {
		b.note("Could not group %q: %v.", title, err)
	}
	b.note("Created journey map %q at (%.0f, %.0f) with %s.", title, x, y, plural(len(stages), "stage"))
}
