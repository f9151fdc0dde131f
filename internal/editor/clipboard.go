package editor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/honcho/internal/model"
)

// PatchResult reports which targets received a patch. Targets that are no
// longer loaded are skipped without any partial write.
type PatchResult struct {
	Applied []string
	Skipped []string
}

// Copy captures the selected categories of sourceID (the active image when
// empty) into the session clipboard.
func (s *Session) Copy(sourceID string, sel model.CategorySelection) (model.Patch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.resolve(sourceID)
	if err != nil {
		return nil, err
	}

	s.clipboard = model.Capture(st.store.Vector(), sel)
	slog.Debug("Copied adjustments",
		"image_id", st.image.ID,
		"fields", len(s.clipboard))
	return s.clipboard.Clone(), nil
}

// Clipboard returns the last copied patch, if any.
func (s *Session) Clipboard() (model.Patch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clipboard.Clone(), s.clipboard != nil
}

// Paste applies the clipboard onto targets.
func (s *Session) Paste(ctx context.Context, targets []string) (PatchResult, error) {
	patch, ok := s.Clipboard()
	if !ok {
		return PatchResult{}, ErrEmptyClipboard
	}
	return s.ApplyPatch(ctx, patch, targets), nil
}

// ApplyPatch writes every field present in patch onto each target and commits
// exactly one history entry per applied target, even when the values already
// matched. Missing targets are skipped whole. An empty target list is a no-op.
func (s *Session) ApplyPatch(ctx context.Context, patch model.Patch, targets []string) PatchResult {
	s.mu.Lock()
	var result PatchResult
	for _, id := range targets {
		st, ok := s.selection.get(id)
		if !ok {
			slog.Debug("Skipping patch target no longer in session", "image_id", id)
			result.Skipped = append(result.Skipped, id)
			continue
		}
		st.store.Load(patch.ApplyTo(st.store.Vector()))
		s.commit(st)
		result.Applied = append(result.Applied, id)
	}
	push := s.renderTarget(result.Applied...)
	s.mu.Unlock()

	s.render(ctx, push)
	return result
}

// resolve returns the named image, or the active one for an empty id.
// Callers hold s.mu.
func (s *Session) resolve(id string) (*imageState, error) {
	if id == "" {
		return s.selection.activeState()
	}
	st, ok := s.selection.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownImage, id)
	}
	return st, nil
}
