// Package tui is the interactive terminal editor. Every key press becomes an
// editor.Command dispatched to the session; the model only keeps cursor and
// dialog state of its own and re-reads the session view after each result.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/honcho/internal/editor"
	"github.com/Veraticus/honcho/internal/model"
	"github.com/Veraticus/honcho/internal/tui/themes"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// State represents the current state of the TUI.
type State int

const (
	StateEdit State = iota
	StateCopy
	StatePresets
	StateNaming
	StateHelp
)

// Model holds the main TUI state.
type Model struct {
	ctx         context.Context
	theme       themes.Theme
	lastError   error
	session     *editor.Session
	recorder    *Recorder
	urls        map[string]string
	status      string
	renameID    string
	view        editor.SessionView
	input       textinput.Model
	help        help.Model
	config      Config
	keymap      KeyMap
	fieldIndex  int
	copyIndex   int
	presetIndex int
	height      int
	width       int
	purpose     presetInputPurpose
	copySel     model.CategorySelection
	state       State
	prevState   State
	quitting    bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	input := textinput.New()
	input.Placeholder = "Preset name"
	input.CharLimit = 64
	input.Cursor.SetMode(cursor.CursorStatic)

	m := Model{
		ctx:      ctx,
		state:    StateEdit,
		config:   cfg,
		keymap:   DefaultKeyMap(),
		theme:    cfg.Theme,
		session:  cfg.Session,
		help:     help.New(),
		input:    input,
		urls:     make(map[string]string),
		copySel:  model.AllCategories(),
		width:    cfg.Width,
		height:   cfg.Height,
		recorder: NewRecorder(cfg.Record),
	}
	m.view = m.session.View()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadPresets(),
		m.signalRendererReady(),
		m.resolveActive(),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m, cmd = m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case resultMsg:
		m, cmd = m.handleResult(msg)

	case presetsLoadedMsg:
		m.view = m.session.View()
		if msg.err != nil {
			m.lastError = msg.err
		}

	case imageResolvedMsg:
		if msg.err != nil {
			if !errors.Is(msg.err, editor.ErrStaleResponse) {
				m.lastError = msg.err
			}
		} else {
			m.urls[msg.id] = msg.url
		}

	case rendererReadyMsg:
		m.view = m.session.View()
	}

	m.recorder.RecordState(m, msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		m.recorder.Close()
		return m, tea.Quit
	}
	if key.Matches(msg, m.keymap.ClearScreen) {
		return m, tea.ClearScreen
	}

	switch m.state {
	case StateCopy:
		return m.handleCopyKey(msg)
	case StatePresets:
		return m.handlePresetKey(msg)
	case StateNaming:
		return m.handleNamingKey(msg)
	case StateHelp:
		if key.Matches(msg, m.keymap.Help, m.keymap.Cancel, m.keymap.Quit) {
			m.state = m.prevState
		}
		return m, nil
	}
	return m.handleEditKey(msg)
}

func (m Model) handleEditKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	fields := model.AllFields()
	k := m.keymap

	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		m.recorder.Close()
		return m, tea.Quit
	case key.Matches(msg, k.Back):
		return m, m.dispatch(editor.Command{Kind: editor.CmdBack}, "")
	case key.Matches(msg, k.Help):
		m.prevState, m.state = m.state, StateHelp
	case key.Matches(msg, k.Up):
		m.fieldIndex = (m.fieldIndex - 1 + len(fields)) % len(fields)
	case key.Matches(msg, k.Down):
		m.fieldIndex = (m.fieldIndex + 1) % len(fields)
	case key.Matches(msg, k.NextImage):
		return m, m.cycleImage(1)
	case key.Matches(msg, k.PrevImage):
		return m, m.cycleImage(-1)
	case key.Matches(msg, k.Decrease):
		return m, m.adjust(editor.OpDecrease)
	case key.Matches(msg, k.Increase):
		return m, m.adjust(editor.OpIncrement)
	case key.Matches(msg, k.DecreaseToMin):
		return m, m.adjust(editor.OpDecreaseToMax)
	case key.Matches(msg, k.IncreaseToMax):
		return m, m.adjust(editor.OpIncreaseToMax)
	case key.Matches(msg, k.Reset):
		return m, m.dispatch(editor.Command{Kind: editor.CmdReset, Field: m.field()}, "Reset "+string(m.field()))
	case key.Matches(msg, k.Revert):
		return m, m.dispatch(editor.Command{Kind: editor.CmdRevert}, "Reverted to original")
	case key.Matches(msg, k.Undo):
		return m, m.dispatch(editor.Command{Kind: editor.CmdUndo}, "Undone")
	case key.Matches(msg, k.Redo):
		return m, m.dispatch(editor.Command{Kind: editor.CmdRedo}, "Redone")
	case key.Matches(msg, k.ToggleSelect):
		return m, m.dispatch(editor.Command{Kind: editor.CmdToggleSelect, ImageID: m.view.ActiveID}, "")
	case key.Matches(msg, k.SelectAll):
		return m, m.dispatch(editor.Command{Kind: editor.CmdSelectAll}, "Selected all images")
	case key.Matches(msg, k.DeselectAll):
		return m, m.dispatch(editor.Command{Kind: editor.CmdClearSelection}, "Selection cleared")
	case key.Matches(msg, k.BulkMode):
		next := model.ContextBulk
		if m.view.Context == model.ContextBulk {
			next = model.ContextDesktop
		}
		return m, m.dispatch(editor.Command{Kind: editor.CmdSetContext, Context: next}, "Switched to "+string(next)+" mode")
	case key.Matches(msg, k.Copy):
		m.prevState, m.state = m.state, StateCopy
		m.copyIndex = 0
	case key.Matches(msg, k.Paste):
		return m, m.dispatch(editor.Command{Kind: editor.CmdPaste}, "")
	case key.Matches(msg, k.Presets):
		m.prevState, m.state = m.state, StatePresets
		m.clampPresetIndex()
		return m, m.loadPresets()
	}
	return m, nil
}

// copyRow is one line of the copy dialog: a group header or one of its fields.
type copyRow struct {
	group model.Group
	field model.Field
}

func copyRows() []copyRow {
	var rows []copyRow
	for _, g := range model.Groups() {
		rows = append(rows, copyRow{group: g})
		for _, f := range g.Fields() {
			rows = append(rows, copyRow{group: g, field: f})
		}
	}
	return rows
}

func (m Model) handleCopyKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	rows := copyRows()
	k := m.keymap

	switch {
	case key.Matches(msg, k.Cancel, k.Quit):
		m.state = StateEdit
	case key.Matches(msg, k.Up):
		m.copyIndex = (m.copyIndex - 1 + len(rows)) % len(rows)
	case key.Matches(msg, k.Down):
		m.copyIndex = (m.copyIndex + 1) % len(rows)
	case key.Matches(msg, k.ToggleSelect):
		row := rows[m.copyIndex]
		if row.field == "" {
			m.copySel = m.copySel.ToggleGroup(row.group)
		} else {
			m.copySel = m.copySel.Toggle(row.field)
		}
	case key.Matches(msg, k.SelectAll):
		m.copySel = model.AllCategories()
	case key.Matches(msg, k.DeselectAll):
		m.copySel = model.NoFields
	case key.Matches(msg, k.Confirm):
		m.state = StateEdit
		status := fmt.Sprintf("Copied %d fields", len(m.copySel.Fields()))
		return m, m.dispatch(editor.Command{Kind: editor.CmdCopy, Selection: m.copySel}, status)
	}
	return m, nil
}

func (m Model) handlePresetKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	k := m.keymap
	presets := m.view.Presets

	switch {
	case key.Matches(msg, k.Cancel, k.Quit):
		m.state = StateEdit
	case key.Matches(msg, k.Up):
		if len(presets) > 0 {
			m.presetIndex = (m.presetIndex - 1 + len(presets)) % len(presets)
		}
	case key.Matches(msg, k.Down):
		if len(presets) > 0 {
			m.presetIndex = (m.presetIndex + 1) % len(presets)
		}
	case key.Matches(msg, k.Confirm):
		if p, ok := m.currentPreset(); ok {
			return m, m.dispatch(editor.Command{Kind: editor.CmdApplyPreset, PresetID: p.ID}, "Applied "+p.Name)
		}
	case key.Matches(msg, k.NewPreset):
		return m.openNaming(inputCreate, "", ""), nil
	case key.Matches(msg, k.RenamePreset):
		if p, ok := m.currentPreset(); ok {
			return m.openNaming(inputRename, p.ID, p.Name), nil
		}
	case key.Matches(msg, k.DeletePreset):
		if p, ok := m.currentPreset(); ok {
			return m, m.dispatch(editor.Command{Kind: editor.CmdDeletePreset, PresetID: p.ID}, "Deleted "+p.Name)
		}
	case key.Matches(msg, k.RemovePreset):
		return m, m.dispatch(editor.Command{Kind: editor.CmdRemovePreset}, "Preset unassigned")
	case key.Matches(msg, k.Retry):
		return m, m.dispatch(editor.Command{Kind: editor.CmdRetryPreset}, "")
	}
	return m, nil
}

func (m Model) openNaming(purpose presetInputPurpose, id, name string) Model {
	m.purpose = purpose
	m.renameID = id
	m.input.SetValue(name)
	m.input.CursorEnd()
	m.input.Focus()
	m.prevState, m.state = m.state, StateNaming
	return m
}

func (m Model) handleNamingKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Cancel):
		m.input.Blur()
		m.state = StatePresets
		return m, nil
	case key.Matches(msg, m.keymap.Confirm):
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			m.lastError = errors.New("preset name cannot be empty")
			return m, nil
		}
		m.input.Blur()
		m.state = StatePresets
		if m.purpose == inputRename {
			return m, m.dispatch(editor.Command{Kind: editor.CmdRenamePreset, PresetID: m.renameID, Name: name}, "Renamed to "+name)
		}
		return m, m.dispatch(editor.Command{Kind: editor.CmdCreatePreset, Name: name, Selection: m.copySel}, "")
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleResult(msg resultMsg) (Model, tea.Cmd) {
	m.view = m.session.View()
	m.clampPresetIndex()

	if msg.err != nil {
		m.lastError = msg.err
		m.status = ""
		return m, nil
	}
	m.lastError = nil
	m.status = describeResult(msg)

	switch msg.cmd.Kind {
	case editor.CmdBack:
		m.quitting = true
		m.recorder.Close()
		return m, tea.Quit
	case editor.CmdActivate:
		return m, m.resolveActive()
	}
	return m, nil
}

func describeResult(msg resultMsg) string {
	if msg.status != "" {
		return msg.status
	}
	r := msg.result
	switch {
	case r.Bulk != nil:
		s := fmt.Sprintf("%s %s on %d images", r.Bulk.Op, r.Bulk.Field, len(r.Bulk.Changed))
		if n := len(r.Bulk.Unchanged); n > 0 {
			s += fmt.Sprintf(" (%d already at bound)", n)
		}
		return s
	case r.Patch != nil:
		s := fmt.Sprintf("Pasted onto %d images", len(r.Patch.Applied))
		if n := len(r.Patch.Skipped); n > 0 {
			s += fmt.Sprintf(" (%d skipped)", n)
		}
		return s
	case r.Preset != nil:
		return "Created preset " + r.Preset.Name
	case msg.cmd.Kind == editor.CmdToggleSelect:
		if r.Selected {
			return "Selected " + msg.cmd.ImageID
		}
		return "Deselected " + msg.cmd.ImageID
	case msg.cmd.Kind == editor.CmdSet:
		return fmt.Sprintf("%s = %d", msg.cmd.Field, r.Value)
	}
	return ""
}

func (m Model) field() model.Field {
	fields := model.AllFields()
	return fields[m.fieldIndex%len(fields)]
}

func (m Model) currentPreset() (model.Preset, bool) {
	if m.presetIndex < 0 || m.presetIndex >= len(m.view.Presets) {
		return model.Preset{}, false
	}
	return m.view.Presets[m.presetIndex], true
}

func (m *Model) clampPresetIndex() {
	if n := len(m.view.Presets); m.presetIndex >= n {
		m.presetIndex = max(n-1, 0)
	}
}
