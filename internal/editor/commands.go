package editor

import (
	"context"
	"fmt"

	"github.com/Veraticus/honcho/internal/model"
)

// CommandKind names an operation accepted by Dispatch.
type CommandKind string

// Commands understood by Session.Dispatch.
const (
	CmdSet            CommandKind = "set"
	CmdSetRaw         CommandKind = "set-raw"
	CmdReset          CommandKind = "reset"
	CmdResetAll       CommandKind = "reset-all"
	CmdCrop           CommandKind = "crop"
	CmdRatio          CommandKind = "ratio"
	CmdUndo           CommandKind = "undo"
	CmdRedo           CommandKind = "redo"
	CmdRevert         CommandKind = "revert"
	CmdIncrement      CommandKind = "increment"
	CmdDecrease       CommandKind = "decrease"
	CmdIncreaseToMax  CommandKind = "increase-to-max"
	CmdDecreaseToMax  CommandKind = "decrease-to-max"
	CmdActivate       CommandKind = "activate"
	CmdToggleSelect   CommandKind = "toggle-selection"
	CmdSelect         CommandKind = "select"
	CmdSelectAll      CommandKind = "select-all"
	CmdClearSelection CommandKind = "clear-selection"
	CmdSetContext     CommandKind = "set-context"
	CmdCopy           CommandKind = "copy"
	CmdPaste          CommandKind = "paste"
	CmdCreatePreset   CommandKind = "create-preset"
	CmdApplyPreset    CommandKind = "apply-preset"
	CmdRenamePreset   CommandKind = "rename-preset"
	CmdDeletePreset   CommandKind = "delete-preset"
	CmdRemovePreset   CommandKind = "remove-preset"
	CmdRetryPreset    CommandKind = "retry-preset"
	CmdBack           CommandKind = "back"
)

// Command is a single user intent. Only the fields relevant to Kind are read.
type Command struct {
	Kind      CommandKind
	Field     model.Field
	Raw       string
	ImageID   string
	Name      string
	PresetID  string
	Context   model.EditContext
	Ratio     model.AspectRatio
	ImageIDs  []string
	Value     int
	Width     int
	Height    int
	Selection model.CategorySelection
}

// Result carries whatever a command produced.
type Result struct {
	Vector   *model.AdjustmentVector
	Bulk     *BulkResult
	Patch    *PatchResult
	Preset   *model.Preset
	Value    int
	Selected bool
}

// Dispatch executes cmd against the session. Apply-style commands without
// explicit ImageIDs target the current context (see Targets).
func (s *Session) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	switch cmd.Kind {
	case CmdSet:
		v, err := s.Set(ctx, cmd.Field, cmd.Value)
		return Result{Value: v}, err
	case CmdSetRaw:
		v, err := s.SetRaw(ctx, cmd.Field, cmd.Raw)
		return Result{Value: v}, err
	case CmdReset:
		return Result{}, s.Reset(ctx, cmd.Field)
	case CmdResetAll:
		return Result{}, s.ResetAll(ctx)
	case CmdCrop:
		return Result{}, s.SetCrop(ctx, cmd.Width, cmd.Height)
	case CmdRatio:
		return Result{}, s.SetRatio(ctx, cmd.Ratio)
	case CmdUndo:
		return vectorResult(s.Undo(ctx))
	case CmdRedo:
		return vectorResult(s.Redo(ctx))
	case CmdRevert:
		return vectorResult(s.Revert(ctx))
	case CmdIncrement, CmdDecrease, CmdIncreaseToMax, CmdDecreaseToMax:
		r, err := s.Bulk(ctx, BulkOp(cmd.Kind), cmd.Field)
		return Result{Bulk: &r}, err
	case CmdActivate:
		return Result{}, s.SetActive(ctx, cmd.ImageID)
	case CmdToggleSelect:
		on, err := s.ToggleSelection(cmd.ImageID)
		return Result{Selected: on}, err
	case CmdSelect:
		return Result{}, s.Select(cmd.ImageIDs...)
	case CmdSelectAll:
		s.SelectAll()
		return Result{}, nil
	case CmdClearSelection:
		s.ClearSelection()
		return Result{}, nil
	case CmdSetContext:
		return Result{}, s.SetContext(cmd.Context)
	case CmdCopy:
		_, err := s.Copy(cmd.ImageID, cmd.Selection)
		return Result{}, err
	case CmdPaste:
		r, err := s.Paste(ctx, s.targetsFor(cmd))
		return Result{Patch: &r}, err
	case CmdCreatePreset:
		p, err := s.CreatePreset(ctx, cmd.Name, cmd.Selection)
		if err != nil {
			return Result{}, err
		}
		return Result{Preset: &p}, nil
	case CmdApplyPreset:
		r, err := s.SelectPreset(ctx, cmd.PresetID, s.targetsFor(cmd))
		return Result{Patch: &r}, err
	case CmdRenamePreset:
		return Result{}, s.presets.Rename(ctx, cmd.PresetID, cmd.Name)
	case CmdDeletePreset:
		return Result{}, s.presets.Delete(ctx, cmd.PresetID)
	case CmdRemovePreset:
		s.RemovePreset()
		return Result{}, nil
	case CmdRetryPreset:
		p, err := s.presets.RetryDraft(ctx)
		if err != nil {
			return Result{}, err
		}
		return Result{Preset: &p}, nil
	case CmdBack:
		return Result{}, s.NavigateBack(ctx)
	}
	return Result{}, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Kind)
}

func (s *Session) targetsFor(cmd Command) []string {
	if len(cmd.ImageIDs) > 0 {
		return cmd.ImageIDs
	}
	return s.Targets()
}

func vectorResult(v model.AdjustmentVector, err error) (Result, error) {
	if err != nil {
		return Result{}, err
	}
	return Result{Vector: &v}, nil
}
