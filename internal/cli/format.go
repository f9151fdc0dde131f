package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/honcho/internal/editor"
	"github.com/Veraticus/honcho/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// SliderWidth is the default slider width in cells.
const SliderWidth = 21

// Checkbox renders a tri-state checkbox.
func Checkbox(state model.CheckState) string {
	switch state {
	case model.Checked:
		return "[x]"
	case model.Indeterminate:
		return "[-]"
	default:
		return "[ ]"
	}
}

// sliderCells draws value on a track of width cells. The fill runs from the
// rest position to the value.
func sliderCells(value int, b model.Bounds, width int) (track []rune, from, to int) {
	if width < 3 {
		width = 3
	}
	track = []rune(strings.Repeat("─", width))
	pos := func(v int) int {
		span := b.Max - b.Min
		if span <= 0 {
			return 0
		}
		return (b.Clamp(v) - b.Min) * (width - 1) / span
	}
	rest, at := pos(b.Rest), pos(value)
	from, to = min(rest, at), max(rest, at)
	for i := from; i <= to; i++ {
		track[i] = '━'
	}
	track[at] = '●'
	return track, from, to
}

// Slider renders value as a styled horizontal bar.
func Slider(value int, b model.Bounds, width int) string {
	track, from, to := sliderCells(value, b, width)
	return SliderTrackStyle.Render(string(track[:from])) +
		SliderFillStyle.Render(string(track[from:to+1])) +
		SliderTrackStyle.Render(string(track[to+1:]))
}

func fieldRow(f model.Field, value int) string {
	name := TableCellStyle.Render(fmt.Sprintf("%-11s", f))
	num := fmt.Sprintf("%5d", value)
	if value != f.Bounds().Rest {
		num = BoldStyle.Render(num)
	} else {
		num = SubtleStyle.Render(num)
	}
	return name + num + "  " + Slider(value, f.Bounds(), SliderWidth)
}

// FormatVector renders every field grouped by category, then rotation and crop.
func FormatVector(v model.AdjustmentVector) string {
	var b strings.Builder
	for _, g := range model.Groups() {
		b.WriteString(TableHeaderStyle.Render(strings.ToUpper(string(g))))
		b.WriteString("\n")
		for _, f := range g.Fields() {
			b.WriteString("  " + fieldRow(f, v.Get(f)) + "\n")
		}
	}
	b.WriteString(TableHeaderStyle.Render("GEOMETRY"))
	b.WriteString("\n")
	b.WriteString("  " + fieldRow(model.FieldRotation, v.Rotation) + "\n")
	b.WriteString("  " + FormatCrop(v.Crop) + "\n")
	return b.String()
}

// FormatCrop renders the crop settings on one line.
func FormatCrop(c model.Crop) string {
	ratio := string(c.Ratio)
	if ratio == "" {
		ratio = "unset"
	}
	size := "auto"
	if c.Width > 0 || c.Height > 0 {
		size = fmt.Sprintf("%dx%d", c.Width, c.Height)
	}
	return TableCellStyle.Render(fmt.Sprintf("%-11s", "crop")) + ratio + " " + SubtleStyle.Render(size)
}

// FormatSelection renders a category selection as a checkbox tree.
func FormatSelection(sel model.CategorySelection) string {
	var b strings.Builder
	for _, g := range model.Groups() {
		fmt.Fprintf(&b, "%s %s\n", Checkbox(sel.GroupState(g)), BoldStyle.Render(string(g)))
		for _, f := range g.Fields() {
			state := model.Unchecked
			if sel.Has(f) {
				state = model.Checked
			}
			fmt.Fprintf(&b, "    %s %s\n", Checkbox(state), f)
		}
	}
	return b.String()
}

// FormatPatch renders a patch as field=value pairs in display order.
func FormatPatch(p model.Patch) string {
	if len(p) == 0 {
		return SubtleStyle.Render("(empty)")
	}
	parts := make([]string, 0, len(p))
	for _, f := range p.Fields() {
		parts = append(parts, fmt.Sprintf("%s=%d", f, p[f]))
	}
	return strings.Join(parts, ", ")
}

// FormatPresets renders the preset list with the contexts each is selected in.
func FormatPresets(presets []model.Preset, selected map[model.EditContext]string) string {
	if len(presets) == 0 {
		return SubtleStyle.Render("No presets yet. Create one with 'honcho presets create'.")
	}

	contexts := make(map[string][]string)
	for editCtx, id := range selected {
		contexts[id] = append(contexts[id], string(editCtx))
	}

	rows := []string{
		TableHeaderStyle.Render(fmt.Sprintf("%-38s%-20s%s", "ID", "NAME", "ADJUSTMENTS")),
	}
	for _, p := range presets {
		row := fmt.Sprintf("%-38s%-20s%s", p.ID, truncate(p.Name, 18), FormatPatch(p.Adjustments))
		if ctxs := contexts[p.ID]; len(ctxs) > 0 {
			sort.Strings(ctxs)
			row += "  " + SuccessStyle.Render(SuccessIcon+" "+strings.Join(ctxs, ","))
		}
		rows = append(rows, row)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// FormatImages renders the session's image strip, one image per line.
func FormatImages(images []editor.ImageView) string {
	if len(images) == 0 {
		return SubtleStyle.Render("No images loaded. Import some with 'honcho images import'.")
	}
	rows := make([]string, 0, len(images))
	for _, img := range images {
		mark := "[ ]"
		if img.Selected {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %-20s %s", mark, truncate(img.Image.ID, 20), SubtleStyle.Render(img.Image.Source))
		if edits := img.HistoryLen; edits > 0 {
			line += fmt.Sprintf("  %d/%d", img.Cursor, edits)
		}
		if img.Active {
			line = ActiveStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}
	return strings.Join(rows, "\n")
}

// FormatHistory renders an undo stack with the cursor marked.
func FormatHistory(origin model.AdjustmentVector, entries []model.HistoryEntry, cursor int) string {
	var b strings.Builder
	marker := func(i int) string {
		if i == cursor {
			return ActiveStyle.Render("→")
		}
		return " "
	}
	fmt.Fprintf(&b, "%s %3d  %s\n", marker(0), 0, SubtleStyle.Render("original"))
	prev := origin
	for i, e := range entries {
		fmt.Fprintf(&b, "%s %3d  #%d %s\n", marker(i+1), i+1, e.Seq, describeChange(prev, e.Vector))
		prev = e.Vector
	}
	return b.String()
}

func describeChange(from, to model.AdjustmentVector) string {
	var parts []string
	for _, f := range model.AllFields() {
		if a, b := from.Get(f), to.Get(f); a != b {
			parts = append(parts, fmt.Sprintf("%s %d→%d", f, a, b))
		}
	}
	if from.Crop != to.Crop {
		parts = append(parts, "crop")
	}
	if len(parts) == 0 {
		return SubtleStyle.Render("no change")
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
