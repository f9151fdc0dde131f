package tui

import (
	"github.com/Veraticus/honcho/internal/editor"
	"github.com/Veraticus/honcho/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// dispatch runs cmd against the session off the UI loop. status, when set,
// replaces the generated description of the result.
func (m Model) dispatch(cmd editor.Command, status string) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		result, err := session.Dispatch(ctx, cmd)
		return resultMsg{cmd: cmd, result: result, err: err, status: status}
	}
}

// adjust moves the focused field. In bulk mode the op runs across the
// selection; otherwise it becomes an absolute set on the active image.
func (m Model) adjust(op editor.BulkOp) tea.Cmd {
	f := m.field()
	if m.view.Context == model.ContextBulk {
		return m.dispatch(editor.Command{Kind: editor.CommandKind(op), Field: f}, "")
	}

	active, ok := m.view.Active()
	if !ok {
		return func() tea.Msg {
			return resultMsg{cmd: editor.Command{Kind: editor.CmdSet, Field: f}, err: editor.ErrNoActiveImage}
		}
	}
	value := op.Apply(f, active.Vector.Get(f))
	return m.dispatch(editor.Command{Kind: editor.CmdSet, Field: f, Value: value}, "")
}

// cycleImage activates the image delta positions away from the active one.
func (m Model) cycleImage(delta int) tea.Cmd {
	n := len(m.view.Images)
	if n == 0 {
		return nil
	}
	current := 0
	for i, img := range m.view.Images {
		if img.Active {
			current = i
			break
		}
	}
	next := m.view.Images[((current+delta)%n+n)%n].Image.ID
	return m.dispatch(editor.Command{Kind: editor.CmdActivate, ImageID: next}, "Editing "+next)
}

func (m Model) loadPresets() tea.Cmd {
	presets, ctx := m.session.Presets(), m.ctx
	return func() tea.Msg {
		return presetsLoadedMsg{err: presets.Refresh(ctx)}
	}
}

func (m Model) signalRendererReady() tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		session.RendererReady(ctx)
		return rendererReadyMsg{}
	}
}

func (m Model) resolveActive() tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		id := session.ActiveID()
		if id == "" {
			return nil
		}
		url, err := session.ResolveImageURL(ctx, id)
		return imageResolvedMsg{id: id, url: url, err: err}
	}
}
