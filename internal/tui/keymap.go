package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up        key.Binding
	Down      key.Binding
	NextImage key.Binding
	PrevImage key.Binding

	// Adjustments
	Decrease      key.Binding
	Increase      key.Binding
	DecreaseToMin key.Binding
	IncreaseToMax key.Binding
	Reset         key.Binding
	Revert        key.Binding
	Undo          key.Binding
	Redo          key.Binding

	// Selection
	ToggleSelect key.Binding
	SelectAll    key.Binding
	DeselectAll  key.Binding
	BulkMode     key.Binding

	// Copy, paste and presets
	Copy         key.Binding
	Paste        key.Binding
	Presets      key.Binding
	NewPreset    key.Binding
	RenamePreset key.Binding
	DeletePreset key.Binding
	RemovePreset key.Binding
	Retry        key.Binding

	// Dialogs
	Confirm key.Binding
	Cancel  key.Binding

	// Application
	Back        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
	Help        key.Binding
	ClearScreen key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		NextImage: key.NewBinding(
			key.WithKeys("tab", "n"),
			key.WithHelp("Tab/n", "next image"),
		),
		PrevImage: key.NewBinding(
			key.WithKeys("shift+tab", "N"),
			key.WithHelp("S-Tab/N", "previous image"),
		),

		Decrease: key.NewBinding(
			key.WithKeys("h", "left", "-"),
			key.WithHelp("←/h", "decrease"),
		),
		Increase: key.NewBinding(
			key.WithKeys("l", "right", "+"),
			key.WithHelp("→/l", "increase"),
		),
		DecreaseToMin: key.NewBinding(
			key.WithKeys("H", "shift+left"),
			key.WithHelp("H", "to minimum"),
		),
		IncreaseToMax: key.NewBinding(
			key.WithKeys("L", "shift+right"),
			key.WithHelp("L", "to maximum"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r", "0"),
			key.WithHelp("r", "reset field"),
		),
		Revert: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "revert to original"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "ctrl+z"),
			key.WithHelp("u/Ctrl+Z", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("U", "ctrl+r", "ctrl+y"),
			key.WithHelp("U/Ctrl+R", "redo"),
		),

		ToggleSelect: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x/Space", "toggle selection"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("Ctrl+A", "select all"),
		),
		DeselectAll: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("Ctrl+D", "deselect all"),
		),
		BulkMode: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "toggle bulk mode"),
		),

		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy categories"),
		),
		Paste: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "paste"),
		),
		Presets: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "presets"),
		),
		NewPreset: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "new preset"),
		),
		RenamePreset: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "rename preset"),
		),
		DeletePreset: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete preset"),
		),
		RemovePreset: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("Backspace", "unassign preset"),
		),
		Retry: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "retry failed create"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel"),
		),

		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back to host"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		ClearScreen: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("Ctrl+L", "clear screen"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Decrease, k.Increase, k.Undo, k.BulkMode, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextImage, k.PrevImage},
		{k.Decrease, k.Increase, k.DecreaseToMin, k.IncreaseToMax},
		{k.Reset, k.Revert, k.Undo, k.Redo},
		{k.ToggleSelect, k.SelectAll, k.DeselectAll, k.BulkMode},
		{k.Copy, k.Paste, k.Presets},
		{k.NewPreset, k.RenamePreset, k.DeletePreset, k.RemovePreset, k.Retry},
		{k.Back, k.Help, k.Quit},
	}
}
