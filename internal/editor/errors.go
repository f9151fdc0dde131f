package editor

import (
	"errors"
	"fmt"

	"github.com/Veraticus/honcho/internal/common"
)

// Engine errors. None of them are fatal: the session is unchanged when one is
// returned.
var (
	ErrNothingToUndo  = errors.New("nothing to undo")
	ErrNothingToRedo  = errors.New("nothing to redo")
	ErrNoActiveImage  = errors.New("no active image")
	ErrUnknownImage   = errors.New("unknown image")
	ErrUnknownPreset  = errors.New("unknown preset")
	ErrEmptyClipboard = errors.New("clipboard is empty")
	ErrStaleResponse  = errors.New("stale response discarded")
	ErrNoDraft        = errors.New("no failed preset draft to retry")
	ErrUnknownCommand = errors.New("unknown command")
	ErrNoNavigator    = errors.New("no navigator configured")
	ErrBadSnapshot    = errors.New("invalid session snapshot")
)

// PersistenceError is a rejected preset store operation. It is the only error
// the engine expects the UI to surface, as a retryable alert.
type PersistenceError struct {
	Err      error
	Op       string
	PresetID string
}

func (e *PersistenceError) Error() string {
	if e.PresetID != "" {
		return fmt.Sprintf("failed to %s preset %s: %v", e.Op, e.PresetID, e.Err)
	}
	return fmt.Sprintf("failed to %s preset: %v", e.Op, e.Err)
}

// Unwrap exposes both the persistence sentinel and the store's cause.
func (e *PersistenceError) Unwrap() []error {
	return []error{common.ErrPersistence, e.Err}
}

// Retryable is always true; the user may repeat the operation.
func (e *PersistenceError) Retryable() bool {
	return true
}
