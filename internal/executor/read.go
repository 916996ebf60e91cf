package executor

import (
	"fmt"
	"sort"
	"strings"

	"whiteboard/internal/colors"
	"whiteboard/internal/domain"
)

// boardStateLimit caps how many objects getBoardState lists individually.
const boardStateLimit = 50

// countLine renders counts as "3 sticky, 2 rect" with the largest first.
func countLine(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%d %s", counts[k], k)
	}
	return strings.Join(parts, ", ")
}

func getBoardState(b *batch, a args) {
	objs := b.all()
	if len(objs) == 0 {
		b.note("The board is empty.")
		return
	}
	counts := map[string]int{}
	for _, o := range objs {
		counts[string(o.Type)]++
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Board has %s (%s).", plural(len(objs), "object"), countLine(counts))

	limit := a.intOr("limit", boardStateLimit)
	if limit <= 0 {
		limit = boardStateLimit
	}
	for i, o := range objs {
		if i == limit {
			fmt.Fprintf(&sb, " …and %d more.", len(objs)-limit)
			break
		}
		fmt.Fprintf(&sb, " [%s] %s at (%.0f, %.0f)", o.ID, o.Label(""), o.X, o.Y)
		if c := o.DisplayColor(); c != "" {
			fmt.Fprintf(&sb, " %s", colors.Classify(c))
		}
		sb.WriteByte('.')
	}
	b.notes = append(b.notes, sb.String())
}

// Analysis is the structured outcome of analyzeObjects.
type Analysis struct {
	Total   int            `json:"total"`
	ByType  map[string]int `json:"byType"`
	ByColor map[string]int `json:"byColor"`
}

// Analyze counts objects by kind and by classified color.
func Analyze(objs []domain.Object) Analysis {
	an := Analysis{Total: len(objs), ByType: map[string]int{}, ByColor: map[string]int{}}
	for _, o := range objs {
		an.ByType[string(o.Type)]++
		if c := o.DisplayColor(); c != "" {
			an.ByColor[colors.Classify(c)]++
		}
	}
	return an
}

func analyzeObjects(b *batch, a args) {
	// the caller already produced this analysis from the same snapshot
	if b.opts.AnalysisDone {
		return
	}
	objs := b.all()
	if ids := a.ids(); len(ids) > 0 {
		objs = objs[:0:0]
		for _, id := range ids {
			if o, ok := b.get(id); ok {
				objs = append(objs, o)
			}
		}
	}
	if len(objs) == 0 {
		b.note("No objects to analyze.")
		return
	}
	an := Analyze(objs)
	msg := fmt.Sprintf("Analyzed %s. By type: %s.", plural(an.Total, "object"), countLine(an.ByType))
	if len(an.ByColor) > 0 {
		msg += fmt.Sprintf(" By color: %s.", countLine(an.ByColor))
	}
	b.notes = append(b.notes, msg)
}
