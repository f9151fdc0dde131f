package editor

import (
	"github.com/Veraticus/honcho/internal/model"
)

// ImageView is the read model of one loaded image.
type ImageView struct {
	Image      model.Image
	Vector     model.AdjustmentVector
	HistoryLen int
	Cursor     int
	Selected   bool
	Active     bool
	CanUndo    bool
	CanRedo    bool
}

// SessionView is an immutable snapshot for presentation layers to render.
type SessionView struct {
	PresetError     error
	SelectedPresets map[model.EditContext]string
	Clipboard       model.Patch
	Draft           *PresetDraft
	Context         model.EditContext
	ActiveID        string
	Images          []ImageView
	Selected        []string
	Presets         []model.Preset
	RendererReady   bool
}

// Active returns the view of the active image.
func (v SessionView) Active() (ImageView, bool) {
	for _, img := range v.Images {
		if img.Active {
			return img, true
		}
	}
	return ImageView{}, false
}

// View builds the current read model.
func (s *Session) View() SessionView {
	s.mu.Lock()
	view := SessionView{
		Context:       s.opts.Context,
		ActiveID:      s.selection.ActiveID(),
		Selected:      s.selection.Selected(),
		Clipboard:     s.clipboard.Clone(),
		RendererReady: s.rendererReady,
	}
	for _, id := range s.selection.IDs() {
		st, _ := s.selection.get(id)
		view.Images = append(view.Images, ImageView{
			Image:      st.image,
			Vector:     st.store.Vector(),
			HistoryLen: st.history.Len(),
			Cursor:     st.history.Cursor(),
			Selected:   s.selection.IsSelected(id),
			Active:     id == view.ActiveID,
			CanUndo:    st.history.CanUndo(),
			CanRedo:    st.history.CanRedo(),
		})
	}
	s.mu.Unlock()

	view.Presets = s.presets.Presets()
	view.SelectedPresets = s.presets.SelectedAll()
	view.PresetError = s.presets.LastError()
	if d, ok := s.presets.Draft(); ok {
		view.Draft = &d
	}
	return view
}

// History returns the committed entries of id (the active image for "").
func (s *Session) History(id string) ([]model.HistoryEntry, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.resolve(id)
	if err != nil {
		return nil, 0, err
	}
	return st.history.Entries(), st.history.Cursor(), nil
}

// Snapshot captures the session for persistence.
func (s *Session) Snapshot() *model.SessionSnapshot {
	s.mu.Lock()
	snap := &model.SessionSnapshot{
		ActiveID:  s.selection.ActiveID(),
		Selected:  s.selection.Selected(),
		Clipboard: s.clipboard.Clone(),
		Seq:       s.seq.Last(),
	}
	for _, id := range s.selection.IDs() {
		st, _ := s.selection.get(id)
		snap.Images = append(snap.Images, model.ImageSnapshot{
			Image:   st.image,
			Vector:  st.store.Vector(),
			History: st.history.Snapshot(),
		})
	}
	s.mu.Unlock()

	snap.SelectedPresets = s.presets.SelectedAll()
	return snap
}

// Restore replaces the session state with a snapshot. Unknown selected or
// active ids in the snapshot are dropped.
func (s *Session) Restore(snap *model.SessionSnapshot) error {
	if snap == nil {
		return ErrBadSnapshot
	}

	s.mu.Lock()
	s.selection = NewSelectionModel()
	s.seq = &Sequence{last: snap.Seq}
	for _, img := range snap.Images {
		store := NewAdjustmentStore(img.Vector)
		s.selection.add(&imageState{
			image:   img.Image,
			store:   store,
			history: RestoreHistory(img.History, s.seq, s.opts.HistoryLimit),
		})
	}
	for _, id := range snap.Selected {
		if _, ok := s.selection.get(id); ok {
			s.selection.selected[id] = struct{}{}
		}
	}
	if snap.ActiveID != "" {
		_ = s.selection.SetActive(snap.ActiveID)
	}
	s.clipboard = snap.Clipboard.Clone()
	s.mu.Unlock()

	s.presets.restoreSelection(snap.SelectedPresets)
	return nil
}
