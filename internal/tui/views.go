package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/honcho/internal/cli"
	"github.com/Veraticus/honcho/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.state {
	case StateCopy:
		body = m.renderCopy()
	case StatePresets:
		body = m.renderPresets()
	case StateNaming:
		body = m.renderNaming()
	case StateHelp:
		body = m.help.FullHelpView(m.keymap.FullHelp())
	default:
		body = m.renderFields()
	}

	// Narrow terminals stack the image strip above the main panel.
	var content string
	if m.width < 80 {
		content = lipgloss.JoinVertical(lipgloss.Left, m.renderImages(m.width-2), "", body)
	} else {
		stripWidth := m.width / 3
		content = lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.theme.Panel.Width(stripWidth).Render(m.renderImages(stripWidth-2)),
			m.theme.Muted.Render(" │ "),
			m.theme.Panel.Render(body),
		)
	}

	parts := []string{m.renderHeader(), content, m.renderStatus()}
	if m.config.ShowHelp && m.state != StateHelp {
		parts = append(parts, m.help.View(m.keymap))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render(cli.CameraIcon + " honcho")

	badge := m.theme.Badge.Render(string(m.view.Context))
	if m.view.Context == model.ContextBulk {
		badge = m.theme.BulkBadge.Render(fmt.Sprintf("bulk · %d selected", len(m.view.Selected)))
	}

	parts := []string{title, badge}
	if id := m.view.SelectedPresets[m.view.Context]; id != "" {
		name := id
		for _, p := range m.view.Presets {
			if p.ID == id {
				name = p.Name
				break
			}
		}
		parts = append(parts, m.theme.Subtitle.Render(cli.PresetIcon+" "+name))
	}
	if !m.view.RendererReady {
		parts = append(parts, m.theme.StatusPending.Render("renderer loading..."))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderImages(width int) string {
	if len(m.view.Images) == 0 {
		return m.theme.Muted.Render("No images loaded")
	}

	lines := make([]string, 0, len(m.view.Images))
	for _, img := range m.view.Images {
		mark := "[ ]"
		if img.Selected {
			mark = "[x]"
		}
		label := img.Image.ID
		if img.Vector.HasEdits() {
			label += " *"
		}
		line := fmt.Sprintf("%s %s", mark, label)
		if width > 0 && lipgloss.Width(line) > width {
			line = string([]rune(line)[:max(width-1, 1)]) + "…"
		}
		if img.Active {
			line = m.theme.Selected.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFields() string {
	active, ok := m.view.Active()
	if !ok {
		return m.theme.Muted.Render("Nothing to edit")
	}

	lines := []string{m.theme.Bold.Render(active.Image.ID)}
	if url := m.urls[active.Image.ID]; url != "" {
		lines = append(lines, m.theme.Muted.Render(url))
	}
	lines = append(lines, "")

	for i, f := range model.AllFields() {
		value := active.Vector.Get(f)
		name := fmt.Sprintf("%-11s %5d ", f, value)
		if i == m.fieldIndex {
			name = m.theme.Selected.Render(name)
		}
		lines = append(lines, name+" "+cli.Slider(value, f.Bounds(), cli.SliderWidth))
	}
	lines = append(lines, "", cli.FormatCrop(active.Vector.Crop))

	history := fmt.Sprintf("history %d/%d", active.Cursor, active.HistoryLen)
	lines = append(lines, m.theme.Muted.Render(history))
	return strings.Join(lines, "\n")
}

func (m Model) renderCopy() string {
	lines := []string{m.theme.Bold.Render("Copy adjustments"), ""}
	for i, row := range copyRows() {
		var line string
		if row.field == "" {
			line = cli.Checkbox(m.copySel.GroupState(row.group)) + " " + string(row.group)
		} else {
			state := model.Unchecked
			if m.copySel.Has(row.field) {
				state = model.Checked
			}
			line = "    " + cli.Checkbox(state) + " " + string(row.field)
		}
		if i == m.copyIndex {
			line = m.theme.Selected.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", m.theme.Muted.Render("Space toggle · Enter copy · Esc cancel"))
	return strings.Join(lines, "\n")
}

func (m Model) renderPresets() string {
	lines := []string{m.theme.Bold.Render(cli.PresetIcon + " Presets"), ""}
	if len(m.view.Presets) == 0 {
		lines = append(lines, m.theme.Muted.Render("No presets yet. Press a to create one."))
	}
	selected := m.view.SelectedPresets[m.view.Context]
	for i, p := range m.view.Presets {
		line := fmt.Sprintf("%s  %s", p.Name, m.theme.Muted.Render(cli.FormatPatch(p.Adjustments)))
		if p.ID == selected {
			line = cli.SuccessIcon + " " + line
		} else {
			line = "  " + line
		}
		if i == m.presetIndex {
			line = m.theme.Highlighted.Render(line)
		}
		lines = append(lines, line)
	}

	if d := m.view.Draft; d != nil {
		lines = append(lines, "", m.theme.StatusPending.Render(fmt.Sprintf("draft %q: %s", d.Name, d.State)))
	}
	if err := m.view.PresetError; err != nil {
		lines = append(lines, m.theme.StatusError.Render(cli.ErrorIcon+" "+err.Error()+" (R to retry)"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderNaming() string {
	title := "New preset"
	if m.purpose == inputRename {
		title = "Rename preset"
	}
	lines := []string{
		m.theme.Bold.Render(title),
		"",
		m.input.View(),
	}
	if m.purpose == inputCreate {
		lines = append(lines, "", m.theme.Muted.Render(fmt.Sprintf("Captures %d fields from the active image", len(m.copySel.Fields()))))
	}
	return m.theme.RoundedBox.Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatus() string {
	if m.lastError != nil {
		return m.theme.StatusError.Render(cli.ErrorIcon + " " + m.lastError.Error())
	}
	if m.status != "" {
		return m.theme.StatusSuccess.Render(cli.SuccessIcon + " " + m.status)
	}
	return m.theme.StatusInfo.Render(fmt.Sprintf("%d images · %s", len(m.view.Images), m.field()))
}
