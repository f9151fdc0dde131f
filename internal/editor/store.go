package editor

import "github.com/Veraticus/honcho/internal/model"

// AdjustmentStore holds one image's adjustment vector and enforces field
// bounds on every write. It does not record history; the Session commits
// after each change.
type AdjustmentStore struct {
	vector model.AdjustmentVector
}

// NewAdjustmentStore creates a store seeded with v (clamped).
func NewAdjustmentStore(v model.AdjustmentVector) *AdjustmentStore {
	return &AdjustmentStore{vector: v.Clamped()}
}

// Get returns the current value of f.
func (s *AdjustmentStore) Get(f model.Field) int {
	return s.vector.Get(f)
}

// Set clamps value into f's bounds and stores it. It returns the committed
// value and whether the vector changed.
func (s *AdjustmentStore) Set(f model.Field, value int) (int, bool) {
	before := s.vector.Get(f)
	s.vector = s.vector.With(f, value)
	after := s.vector.Get(f)
	return after, after != before
}

// SetRaw parses text input before setting. A partial entry ("+", "-") leaves
// the value untouched; unparsable input stores the rest value.
func (s *AdjustmentStore) SetRaw(f model.Field, raw string) (int, bool) {
	value, ok := model.ParseValue(raw)
	if !ok {
		return s.vector.Get(f), false
	}
	return s.Set(f, value)
}

// Reset returns f to its rest value.
func (s *AdjustmentStore) Reset(f model.Field) bool {
	_, changed := s.Set(f, f.Bounds().Rest)
	return changed
}

// ResetAll restores the identity vector, crop included.
func (s *AdjustmentStore) ResetAll() bool {
	changed := !s.vector.IsIdentity()
	s.vector = model.Identity()
	return changed
}

// SetCrop sets the crop target in pixels; negative sizes are clamped to 0.
func (s *AdjustmentStore) SetCrop(width, height int) bool {
	next := s.vector
	next.Crop.Width = max(width, 0)
	next.Crop.Height = max(height, 0)
	changed := next != s.vector
	s.vector = next
	return changed
}

// SetRatio sets the aspect ratio selector.
func (s *AdjustmentStore) SetRatio(r model.AspectRatio) bool {
	changed := s.vector.Crop.Ratio != r
	s.vector.Crop.Ratio = r
	return changed
}

// Vector returns a copy of the current vector.
func (s *AdjustmentStore) Vector() model.AdjustmentVector {
	return s.vector
}

// Load replaces the vector wholesale, as undo and redo do.
func (s *AdjustmentStore) Load(v model.AdjustmentVector) {
	s.vector = v.Clamped()
}
