// Package editor implements the photo edit-session engine: per-image
// adjustment stores with undo history, bulk edits over a selection,
// copy/paste of adjustment categories and preset management.
package editor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Veraticus/honcho/internal/model"
	"github.com/Veraticus/honcho/internal/service"
)

// Deps are the external collaborators of a session.
type Deps struct {
	Images    service.ImageSource
	Presets   service.PresetStore
	Renderer  service.Renderer
	Navigator service.Navigator
}

// Options tunes a session.
type Options struct {
	// Context is the editing surface the session starts in.
	Context model.EditContext
	// HistoryLimit bounds each image's undo stack; 0 means unbounded.
	HistoryLimit int
}

// DefaultOptions returns the default session options.
func DefaultOptions() Options {
	return Options{Context: model.ContextDesktop}
}

// Session owns the state of one editing session. All mutations go through its
// methods (or Dispatch); collaborator calls are made with the lock released.
type Session struct {
	deps          Deps
	selection     *SelectionModel
	presets       *PresetController
	clipboard     model.Patch
	seq           *Sequence
	opts          Options
	mu            sync.Mutex
	rendererReady bool
}

// NewSession builds a session. Nil collaborators are replaced with inert ones.
func NewSession(deps Deps, opts Options) *Session {
	if !opts.Context.Valid() {
		opts.Context = model.ContextDesktop
	}
	if deps.Images == nil {
		deps.Images = emptySource{}
	}
	if deps.Presets == nil {
		deps.Presets = emptyPresets{}
	}
	if deps.Renderer == nil {
		deps.Renderer = nopRenderer{}
	}
	return &Session{
		deps:      deps,
		opts:      opts,
		selection: NewSelectionModel(),
		presets:   NewPresetController(deps.Presets),
		seq:       &Sequence{},
	}
}

// Presets exposes the preset controller.
func (s *Session) Presets() *PresetController {
	return s.presets
}

// Context returns the current editing surface.
func (s *Session) Context() model.EditContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts.Context
}

// SetContext switches editing surface, e.g. entering bulk mode.
func (s *Session) SetContext(editCtx model.EditContext) error {
	if !editCtx.Valid() {
		return fmt.Errorf("%w: context %q", ErrUnknownCommand, editCtx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.Context = editCtx
	return nil
}

// LoadImages performs the host handshake and loads every listed image.
// Images already in the session are kept as they are.
func (s *Session) LoadImages(ctx context.Context) (int, error) {
	if err := s.deps.Images.SyncConfiguration(ctx); err != nil {
		return 0, fmt.Errorf("failed to sync configuration: %w", err)
	}
	images, err := s.deps.Images.ListImages(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list images: %w", err)
	}

	added := 0
	for _, img := range images {
		if s.AddImage(img) {
			added++
		}
	}
	slog.Info("Loaded images into session", "listed", len(images), "added", added)
	return added, nil
}

// AddImage loads one image with an identity vector. It reports false when the
// id is already loaded.
func (s *Session) AddImage(img model.Image) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.add(s.newImageState(img, model.Identity()))
}

// RemoveImage unloads an image; its vector and history are discarded.
func (s *Session) RemoveImage(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Remove(id)
}

// ResolveImageURL asks the image source for a display URL. If the image is
// removed (or removed and re-added) while the request is in flight, the
// response is discarded.
func (s *Session) ResolveImageURL(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	st, ok := s.selection.get(id)
	if !ok {
		s.mu.Unlock()
		return "", fmt.Errorf("%w: %s", ErrUnknownImage, id)
	}
	generation := st.generation
	s.mu.Unlock()

	url, err := s.deps.Images.FetchImageBySource(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok = s.selection.get(id)
	if !ok || st.generation != generation {
		slog.Warn("Discarding image URL for image no longer in session", "image_id", id)
		return "", fmt.Errorf("%w: image %s", ErrStaleResponse, id)
	}
	st.image.URL = url
	return url, nil
}

// Get returns a field of the active image.
func (s *Session) Get(f model.Field) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.selection.activeState()
	if err != nil {
		return 0, err
	}
	return st.store.Get(f), nil
}

// Vector returns the vector of id, or of the active image for "".
func (s *Session) Vector(id string) (model.AdjustmentVector, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.resolve(id)
	if err != nil {
		return model.AdjustmentVector{}, err
	}
	return st.store.Vector(), nil
}

// Set writes a clamped value to the active image and returns what was stored.
func (s *Session) Set(ctx context.Context, f model.Field, value int) (int, error) {
	return s.mutateActive(ctx, func(st *AdjustmentStore) (int, bool) {
		return st.Set(f, value)
	})
}

// SetRaw writes text-field input to the active image.
func (s *Session) SetRaw(ctx context.Context, f model.Field, raw string) (int, error) {
	return s.mutateActive(ctx, func(st *AdjustmentStore) (int, bool) {
		return st.SetRaw(f, raw)
	})
}

// Reset returns one field of the active image to rest.
func (s *Session) Reset(ctx context.Context, f model.Field) error {
	_, err := s.mutateActive(ctx, func(st *AdjustmentStore) (int, bool) {
		changed := st.Reset(f)
		return st.Get(f), changed
	})
	return err
}

// ResetAll returns every field of the active image to rest.
func (s *Session) ResetAll(ctx context.Context) error {
	_, err := s.mutateActive(ctx, func(st *AdjustmentStore) (int, bool) {
		return 0, st.ResetAll()
	})
	return err
}

// SetCrop sets the active image's crop size.
func (s *Session) SetCrop(ctx context.Context, width, height int) error {
	_, err := s.mutateActive(ctx, func(st *AdjustmentStore) (int, bool) {
		return 0, st.SetCrop(width, height)
	})
	return err
}

// SetRatio sets the active image's aspect ratio. Unknown tags are rejected
// before anything is committed.
func (s *Session) SetRatio(ctx context.Context, r model.AspectRatio) error {
	if !r.Valid() {
		return fmt.Errorf("%w: %q", model.ErrUnknownRatio, r)
	}
	_, err := s.mutateActive(ctx, func(st *AdjustmentStore) (int, bool) {
		return 0, st.SetRatio(r)
	})
	return err
}

// Undo steps the active image back one entry.
func (s *Session) Undo(ctx context.Context) (model.AdjustmentVector, error) {
	return s.travel(ctx, (*History).Undo)
}

// Redo steps the active image forward one entry.
func (s *Session) Redo(ctx context.Context) (model.AdjustmentVector, error) {
	return s.travel(ctx, (*History).Redo)
}

// Revert commits the identity vector on the active image.
func (s *Session) Revert(ctx context.Context) (model.AdjustmentVector, error) {
	s.mu.Lock()
	st, err := s.selection.activeState()
	if err != nil {
		s.mu.Unlock()
		return model.AdjustmentVector{}, err
	}
	id := st.image.ID
	entry := st.history.RevertToOriginal()
	st.store.Load(entry.Vector)
	push := s.renderTarget(id)
	s.mu.Unlock()

	slog.Debug("Reverted image to original", "image_id", id, "seq", entry.Seq)
	s.render(ctx, push)
	return entry.Vector, nil
}

// SetActive makes id the subject of single-image edits and renders it.
func (s *Session) SetActive(ctx context.Context, id string) error {
	s.mu.Lock()
	if err := s.selection.SetActive(id); err != nil {
		s.mu.Unlock()
		return err
	}
	push := s.renderTarget(id)
	s.mu.Unlock()

	s.render(ctx, push)
	return nil
}

// ActiveID returns the active image id.
func (s *Session) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.ActiveID()
}

// ToggleSelection flips an image in or out of the bulk selection.
func (s *Session) ToggleSelection(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Toggle(id)
}

// Select replaces the bulk selection.
func (s *Session) Select(ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Select(ids...)
}

// SelectAll selects every loaded image.
func (s *Session) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.SelectAll()
}

// ClearSelection empties the bulk selection.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Clear()
}

// Selected lists the selected image ids in load order.
func (s *Session) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Selected()
}

// Increment adds one step to f on every selected image.
func (s *Session) Increment(ctx context.Context, f model.Field) (BulkResult, error) {
	return s.Bulk(ctx, OpIncrement, f)
}

// Decrease subtracts one step from f on every selected image.
func (s *Session) Decrease(ctx context.Context, f model.Field) (BulkResult, error) {
	return s.Bulk(ctx, OpDecrease, f)
}

// IncreaseToMax sets f to its upper bound on every selected image.
func (s *Session) IncreaseToMax(ctx context.Context, f model.Field) (BulkResult, error) {
	return s.Bulk(ctx, OpIncreaseToMax, f)
}

// DecreaseToMax sets f to its lower bound on every selected image.
func (s *Session) DecreaseToMax(ctx context.Context, f model.Field) (BulkResult, error) {
	return s.Bulk(ctx, OpDecreaseToMax, f)
}

// Bulk runs op on f across the selection as one atomic update. An empty
// selection changes nothing and is not an error.
func (s *Session) Bulk(ctx context.Context, op BulkOp, f model.Field) (BulkResult, error) {
	if !f.Valid() {
		return BulkResult{}, fmt.Errorf("%w: %q", model.ErrUnknownField, f)
	}

	s.mu.Lock()
	result := s.applyBulk(op, f)
	push := s.renderTarget(result.Changed...)
	s.mu.Unlock()

	slog.Debug("Applied bulk operation",
		"op", op,
		"field", f,
		"changed", len(result.Changed),
		"unchanged", len(result.Unchanged))
	s.render(ctx, push)
	return result, nil
}

// CreatePreset captures sel from the active image and stores it as a preset.
func (s *Session) CreatePreset(ctx context.Context, name string, sel model.CategorySelection) (model.Preset, error) {
	s.mu.Lock()
	st, err := s.selection.activeState()
	if err != nil {
		s.mu.Unlock()
		return model.Preset{}, err
	}
	patch := model.Capture(st.store.Vector(), sel)
	s.mu.Unlock()

	return s.presets.Create(ctx, name, patch)
}

// SelectPreset applies a preset onto targets and records it as selected in
// the session's current context only.
func (s *Session) SelectPreset(ctx context.Context, id string, targets []string) (PatchResult, error) {
	return s.presets.Select(ctx, s.Context(), id, targets, s)
}

// RemovePreset unassigns the current context's preset.
func (s *Session) RemovePreset() {
	s.presets.Remove(s.Context())
}

// NavigateBack delegates to the host navigator.
func (s *Session) NavigateBack(ctx context.Context) error {
	if s.deps.Navigator == nil {
		return ErrNoNavigator
	}
	return s.deps.Navigator.NavigateBack(ctx)
}

// Targets returns the images an apply-style command affects in the current
// context: the selection in bulk mode, the active image otherwise.
func (s *Session) Targets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opts.Context == model.ContextBulk {
		return s.selection.Selected()
	}
	if id := s.selection.ActiveID(); id != "" {
		return []string{id}
	}
	return nil
}

// RendererReady records the render engine's ready signal and pushes the
// active image, which may have been edited before the engine loaded.
func (s *Session) RendererReady(ctx context.Context) {
	s.mu.Lock()
	s.rendererReady = true
	push := s.renderTarget(s.selection.ActiveID())
	s.mu.Unlock()

	slog.Info("Renderer ready")
	s.render(ctx, push)
}

func (s *Session) newImageState(img model.Image, v model.AdjustmentVector) *imageState {
	store := NewAdjustmentStore(v)
	return &imageState{
		image:   img,
		store:   store,
		history: NewHistory(store.Vector(), s.seq, s.opts.HistoryLimit),
	}
}

// mutateActive applies fn to the active image's store, committing and
// rendering only when the vector changed.
func (s *Session) mutateActive(ctx context.Context, fn func(*AdjustmentStore) (int, bool)) (int, error) {
	s.mu.Lock()
	st, err := s.selection.activeState()
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	value, changed := fn(st.store)
	var push renderPush
	if changed {
		s.commit(st)
		push = s.renderTarget(st.image.ID)
	}
	s.mu.Unlock()

	s.render(ctx, push)
	return value, nil
}

func (s *Session) travel(ctx context.Context, step func(*History) (model.AdjustmentVector, error)) (model.AdjustmentVector, error) {
	s.mu.Lock()
	st, err := s.selection.activeState()
	if err != nil {
		s.mu.Unlock()
		return model.AdjustmentVector{}, err
	}
	v, err := step(st.history)
	if err != nil {
		s.mu.Unlock()
		return v, err
	}
	st.store.Load(v)
	push := s.renderTarget(st.image.ID)
	s.mu.Unlock()

	s.render(ctx, push)
	return v, nil
}

// commit records st's current vector. Callers hold s.mu.
func (s *Session) commit(st *imageState) model.HistoryEntry {
	entry := st.history.Commit(st.store.Vector())
	slog.Debug("Committed edit",
		"image_id", st.image.ID,
		"seq", entry.Seq,
		"history_len", st.history.Len())
	return entry
}

type renderPush struct {
	imageID string
	vector  model.AdjustmentVector
	ok      bool
}

// renderTarget decides whether the renderer needs the active image after a
// change to ids. Callers hold s.mu.
func (s *Session) renderTarget(ids ...string) renderPush {
	if !s.rendererReady {
		return renderPush{}
	}
	active := s.selection.ActiveID()
	for _, id := range ids {
		if id == active && active != "" {
			st, _ := s.selection.get(active)
			return renderPush{imageID: active, vector: st.store.Vector(), ok: true}
		}
	}
	return renderPush{}
}

func (s *Session) render(ctx context.Context, push renderPush) {
	if !push.ok {
		return
	}
	if err := s.deps.Renderer.Render(ctx, push.imageID, push.vector); err != nil {
		slog.Warn("Renderer rejected vector", "image_id", push.imageID, "error", err)
	}
}

type nopRenderer struct{}

func (nopRenderer) Render(context.Context, string, model.AdjustmentVector) error { return nil }

type emptySource struct{}

func (emptySource) SyncConfiguration(context.Context) error { return nil }
func (emptySource) ListImages(context.Context) ([]model.Image, error) { return nil, nil }
func (emptySource) FetchImageBySource(_ context.Context, id string) (string, error) {
	return "", fmt.Errorf("%w: %s", ErrUnknownImage, id)
}

type emptyPresets struct{}

func (emptyPresets) ListPresets(context.Context) ([]model.Preset, error) { return nil, nil }
func (emptyPresets) CreatePreset(context.Context, model.CreatePresetRequest) (*model.Preset, error) {
	return nil, nil
}
func (emptyPresets) DeletePreset(context.Context, string) error { return nil }
func (emptyPresets) RenamePreset(context.Context, string, string) error { return nil }
