package editor

import (
	"fmt"

	"github.com/Veraticus/honcho/internal/model"
)

// imageState is everything the session owns for one loaded image. Each image
// has its own store and history; nothing is shared between images.
type imageState struct {
	image      model.Image
	store      *AdjustmentStore
	history    *History
	generation uint64
}

// SelectionModel tracks the loaded images in load order, the set selected for
// bulk operations and the active image.
type SelectionModel struct {
	images      map[string]*imageState
	selected    map[string]struct{}
	active      string
	order       []string
	generations uint64
}

// NewSelectionModel returns an empty model.
func NewSelectionModel() *SelectionModel {
	return &SelectionModel{
		images:   make(map[string]*imageState),
		selected: make(map[string]struct{}),
	}
}

// add registers a new image. It reports false if the id is already loaded.
func (m *SelectionModel) add(st *imageState) bool {
	id := st.image.ID
	if _, ok := m.images[id]; ok {
		return false
	}
	m.generations++
	st.generation = m.generations
	m.images[id] = st
	m.order = append(m.order, id)
	if m.active == "" {
		m.active = id
	}
	return true
}

// Remove unloads an image, dropping it from the selection. If it was active,
// the next image in load order becomes active.
func (m *SelectionModel) Remove(id string) bool {
	if _, ok := m.images[id]; !ok {
		return false
	}
	delete(m.images, id)
	delete(m.selected, id)

	idx := 0
	for i, oid := range m.order {
		if oid == id {
			idx = i
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	if m.active == id {
		m.active = ""
		if len(m.order) > 0 {
			m.active = m.order[min(idx, len(m.order)-1)]
		}
	}
	return true
}

// Toggle flips id in or out of the selection and returns its new state.
func (m *SelectionModel) Toggle(id string) (bool, error) {
	if _, ok := m.images[id]; !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownImage, id)
	}
	if _, ok := m.selected[id]; ok {
		delete(m.selected, id)
		return false, nil
	}
	m.selected[id] = struct{}{}
	return true, nil
}

// Select replaces the selection with ids. Unknown ids fail the whole call.
func (m *SelectionModel) Select(ids ...string) error {
	for _, id := range ids {
		if _, ok := m.images[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownImage, id)
		}
	}
	m.selected = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m.selected[id] = struct{}{}
	}
	return nil
}

// SelectAll selects every loaded image.
func (m *SelectionModel) SelectAll() {
	for _, id := range m.order {
		m.selected[id] = struct{}{}
	}
}

// Clear empties the selection.
func (m *SelectionModel) Clear() {
	m.selected = make(map[string]struct{})
}

// IsSelected reports whether id is in the selection.
func (m *SelectionModel) IsSelected(id string) bool {
	_, ok := m.selected[id]
	return ok
}

// Selected lists selected ids in load order.
func (m *SelectionModel) Selected() []string {
	out := make([]string, 0, len(m.selected))
	for _, id := range m.order {
		if _, ok := m.selected[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// IDs lists every loaded id in load order.
func (m *SelectionModel) IDs() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len is the number of loaded images.
func (m *SelectionModel) Len() int {
	return len(m.order)
}

// SetActive makes id the subject of single-image operations.
func (m *SelectionModel) SetActive(id string) error {
	if _, ok := m.images[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownImage, id)
	}
	m.active = id
	return nil
}

// ActiveID returns the active image id, or "" when nothing is loaded.
func (m *SelectionModel) ActiveID() string {
	return m.active
}

func (m *SelectionModel) get(id string) (*imageState, bool) {
	st, ok := m.images[id]
	return st, ok
}

func (m *SelectionModel) activeState() (*imageState, error) {
	st, ok := m.images[m.active]
	if !ok {
		return nil, ErrNoActiveImage
	}
	return st, nil
}
