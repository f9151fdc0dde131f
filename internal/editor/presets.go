package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Veraticus/honcho/internal/model"
	"github.com/Veraticus/honcho/internal/service"
)

// DraftState is the lifecycle of a preset being created.
type DraftState int

const (
	// DraftNaming is a draft the user is still naming.
	DraftNaming DraftState = iota
	// DraftPending is awaiting the store's response.
	DraftPending
	// DraftCommitted has been stored and entered the preset list.
	DraftCommitted
	// DraftFailed was rejected by the store and can be retried.
	DraftFailed
)

func (s DraftState) String() string {
	switch s {
	case DraftPending:
		return "pending"
	case DraftCommitted:
		return "committed"
	case DraftFailed:
		return "failed"
	default:
		return "naming"
	}
}

// PresetDraft is a preset that has not (yet) been stored.
type PresetDraft struct {
	Err     error
	Patch   model.Patch
	Name    string
	State   DraftState
	request uint64
}

// patchApplier writes a patch onto target images. The Session implements it.
type patchApplier interface {
	ApplyPatch(ctx context.Context, patch model.Patch, targets []string) PatchResult
}

// PresetController keeps the local preset list in step with the preset store.
// The local list only changes after the store confirms an operation.
type PresetController struct {
	store    service.PresetStore
	lastErr  error
	draft    *PresetDraft
	selected map[model.EditContext]string
	presets  []model.Preset
	requests uint64
	mu       sync.Mutex
}

// NewPresetController creates a controller backed by store.
func NewPresetController(store service.PresetStore) *PresetController {
	return &PresetController{
		store:    store,
		selected: make(map[model.EditContext]string),
	}
}

// Presets returns the local preset list.
func (c *PresetController) Presets() []model.Preset {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Preset, len(c.presets))
	copy(out, c.presets)
	return out
}

// Preset looks up a cached preset.
func (c *PresetController) Preset(id string) (model.Preset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return model.Preset{}, false
	}
	return c.presets[i], true
}

// Refresh replaces the local list with the store's.
func (c *PresetController) Refresh(ctx context.Context) error {
	presets, err := c.store.ListPresets(ctx)
	if err != nil {
		return c.fail("list", "", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.presets = presets
	slog.Info("Loaded presets", "count", len(presets))
	return nil
}

// BeginDraft starts naming a new preset around patch.
func (c *PresetController) BeginDraft(name string, patch model.Patch) PresetDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = &PresetDraft{Name: name, Patch: patch.Clone(), State: DraftNaming}
	return *c.draft
}

// Draft returns the current draft, if any.
func (c *PresetController) Draft() (PresetDraft, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return PresetDraft{}, false
	}
	return *c.draft, true
}

// DiscardDraft abandons the current draft. A create still in flight will
// still add its preset but no longer updates the draft.
func (c *PresetController) DiscardDraft() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = nil
}

// Create stores a new preset. On failure the draft is kept in DraftFailed so
// RetryDraft can resend it, and nothing is added to the list.
func (c *PresetController) Create(ctx context.Context, name string, patch model.Patch) (model.Preset, error) {
	c.mu.Lock()
	c.requests++
	request := c.requests
	c.draft = &PresetDraft{Name: name, Patch: patch.Clone(), State: DraftPending, request: request}
	c.mu.Unlock()

	preset, err := c.store.CreatePreset(ctx, model.CreatePresetRequest{Name: name, Adjustments: patch.Clone()})
	if err == nil && preset == nil {
		err = errors.New("store returned no preset")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.draft != nil && c.draft.request == request
	if err != nil {
		perr := &PersistenceError{Op: "create", Err: err}
		c.lastErr = perr
		if current {
			c.draft.State = DraftFailed
			c.draft.Err = perr
		}
		slog.Warn("Preset create failed", "name", name, "error", err)
		return model.Preset{}, perr
	}

	if i := c.indexOf(preset.ID); i >= 0 {
		c.presets[i] = *preset
	} else {
		c.presets = append(c.presets, *preset)
	}
	if current {
		c.draft = nil
	} else {
		slog.Debug("Create response arrived for a superseded draft", "preset_id", preset.ID)
	}
	c.lastErr = nil

	slog.Info("Created preset", "preset_id", preset.ID, "name", preset.Name, "fields", len(preset.Adjustments))
	return *preset, nil
}

// RetryDraft resends a failed draft.
func (c *PresetController) RetryDraft(ctx context.Context) (model.Preset, error) {
	c.mu.Lock()
	if c.draft == nil || c.draft.State != DraftFailed {
		c.mu.Unlock()
		return model.Preset{}, ErrNoDraft
	}
	name, patch := c.draft.Name, c.draft.Patch
	c.mu.Unlock()

	return c.Create(ctx, name, patch)
}

// Rename renames a preset once the store confirms.
func (c *PresetController) Rename(ctx context.Context, id, name string) error {
	if _, ok := c.Preset(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPreset, id)
	}

	if err := c.store.RenamePreset(ctx, id, name); err != nil {
		return c.fail("rename", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		slog.Warn("Preset removed while rename was in flight", "preset_id", id)
		return fmt.Errorf("%w: rename of %s", ErrStaleResponse, id)
	}
	c.presets[i].Name = name
	c.lastErr = nil
	return nil
}

// Delete removes a preset once the store confirms, and unassigns it from any
// context that had it selected.
func (c *PresetController) Delete(ctx context.Context, id string) error {
	if _, ok := c.Preset(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPreset, id)
	}

	if err := c.store.DeletePreset(ctx, id); err != nil {
		return c.fail("delete", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		c.presets = append(c.presets[:i], c.presets[i+1:]...)
	}
	for editCtx, sel := range c.selected {
		if sel == id {
			delete(c.selected, editCtx)
		}
	}
	c.lastErr = nil
	slog.Info("Deleted preset", "preset_id", id)
	return nil
}

// Select applies a preset onto targets and marks it selected in editCtx only.
// A preset missing from the cache triggers one refresh. A preset deleted while
// its patch was being written still reports the applied result but is not
// marked selected.
func (c *PresetController) Select(ctx context.Context, editCtx model.EditContext, id string, targets []string, applier patchApplier) (PatchResult, error) {
	preset, ok := c.Preset(id)
	if !ok {
		if err := c.Refresh(ctx); err != nil {
			return PatchResult{}, err
		}
		if preset, ok = c.Preset(id); !ok {
			return PatchResult{}, fmt.Errorf("%w: %s", ErrUnknownPreset, id)
		}
	}

	result := applier.ApplyPatch(ctx, preset.Adjustments, targets)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexOf(id) < 0 {
		slog.Debug("Preset deleted during apply", "preset_id", id)
		return result, nil
	}
	c.selected[editCtx] = id
	return result, nil
}

// Remove unassigns editCtx's selected preset without deleting the preset.
func (c *PresetController) Remove(editCtx model.EditContext) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.selected, editCtx)
}

// Selected returns the preset selected in editCtx, or "".
func (c *PresetController) Selected(editCtx model.EditContext) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected[editCtx]
}

// SelectedAll returns a copy of every context's selection.
func (c *PresetController) SelectedAll() map[model.EditContext]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[model.EditContext]string, len(c.selected))
	for k, v := range c.selected {
		out[k] = v
	}
	return out
}

// LastError is the most recent persistence failure, for the UI alert.
func (c *PresetController) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// ClearError dismisses the alert.
func (c *PresetController) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = nil
}

func (c *PresetController) restoreSelection(selected map[model.EditContext]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = make(map[model.EditContext]string, len(selected))
	for k, v := range selected {
		if k.Valid() && v != "" {
			c.selected[k] = v
		}
	}
}

func (c *PresetController) fail(op, id string, err error) error {
	perr := &PersistenceError{Op: op, PresetID: id, Err: err}
	c.mu.Lock()
	c.lastErr = perr
	c.mu.Unlock()
	slog.Warn("Preset store rejected operation", "op", op, "preset_id", id, "error", err)
	return perr
}

// indexOf must be called with c.mu held.
func (c *PresetController) indexOf(id string) int {
	for i, p := range c.presets {
		if p.ID == id {
			return i
		}
	}
	return -1
}
