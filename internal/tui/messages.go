package tui

import "github.com/Veraticus/honcho/internal/editor"

// resultMsg carries the outcome of a dispatched command.
type resultMsg struct {
	err    error
	status string
	cmd    editor.Command
	result editor.Result
}

type presetsLoadedMsg struct {
	err error
}

type imageResolvedMsg struct {
	err error
	id  string
	url string
}

type rendererReadyMsg struct{}

// presetInputPurpose says what the naming dialog's text is for.
type presetInputPurpose int

const (
	inputCreate presetInputPurpose = iota
	inputRename
)
