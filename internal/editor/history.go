package editor

import (
	"time"

	"github.com/Veraticus/honcho/internal/model"
)

// Sequence hands out monotonically increasing history sequence numbers shared
// by every stack in a session.
type Sequence struct {
	last uint64
}

// Next returns the next sequence number.
func (s *Sequence) Next() uint64 {
	s.last++
	return s.last
}

// Last returns the most recently issued number.
func (s *Sequence) Last() uint64 {
	return s.last
}

// History is a linear undo/redo stack for one image. The origin vector is the
// state before the first commit; cursor counts the applied entries, so
// cursor == 0 materializes the origin and cursor == len(entries) the head.
type History struct {
	seq     *Sequence
	now     func() time.Time
	entries []model.HistoryEntry
	origin  model.AdjustmentVector
	cursor  int
	limit   int
}

// NewHistory starts an empty stack at origin. A positive limit bounds the
// number of retained entries.
func NewHistory(origin model.AdjustmentVector, seq *Sequence, limit int) *History {
	if seq == nil {
		seq = &Sequence{}
	}
	return &History{
		seq:    seq,
		now:    time.Now,
		origin: origin,
		limit:  limit,
	}
}

// Commit drops any redo entries, appends v and moves the cursor to the head.
func (h *History) Commit(v model.AdjustmentVector) model.HistoryEntry {
	entry := model.HistoryEntry{
		Seq:         h.seq.Next(),
		Vector:      v,
		CommittedAt: h.now(),
	}

	h.entries = append(h.entries[:h.cursor], entry)
	h.cursor = len(h.entries)

	if h.limit > 0 && len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		h.origin = h.entries[drop-1].Vector
		h.entries = append([]model.HistoryEntry(nil), h.entries[drop:]...)
		h.cursor = len(h.entries)
	}
	return entry
}

// Undo steps the cursor back and returns the vector to materialize.
func (h *History) Undo() (model.AdjustmentVector, error) {
	if h.cursor == 0 {
		return h.Current(), ErrNothingToUndo
	}
	h.cursor--
	return h.Current(), nil
}

// Redo steps the cursor forward and returns the vector to materialize.
func (h *History) Redo() (model.AdjustmentVector, error) {
	if h.cursor == len(h.entries) {
		return h.Current(), ErrNothingToRedo
	}
	h.cursor++
	return h.Current(), nil
}

// RevertToOriginal commits the identity vector, so the revert itself can be
// undone.
func (h *History) RevertToOriginal() model.HistoryEntry {
	return h.Commit(model.Identity())
}

// Current returns the vector at the cursor.
func (h *History) Current() model.AdjustmentVector {
	if h.cursor == 0 {
		return h.origin
	}
	return h.entries[h.cursor-1].Vector
}

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool { return h.cursor < len(h.entries) }

// Len is the number of committed entries.
func (h *History) Len() int { return len(h.entries) }

// Cursor is the number of applied entries.
func (h *History) Cursor() int { return h.cursor }

// Entries returns a copy of the committed entries.
func (h *History) Entries() []model.HistoryEntry {
	out := make([]model.HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Snapshot captures the stack for persistence.
func (h *History) Snapshot() model.HistorySnapshot {
	return model.HistorySnapshot{
		Origin:  h.origin,
		Entries: h.Entries(),
		Cursor:  h.cursor,
	}
}

// RestoreHistory rebuilds a stack from a snapshot, clamping a corrupt cursor.
func RestoreHistory(snap model.HistorySnapshot, seq *Sequence, limit int) *History {
	h := NewHistory(snap.Origin, seq, limit)
	h.entries = append([]model.HistoryEntry(nil), snap.Entries...)
	h.cursor = min(max(snap.Cursor, 0), len(h.entries))
	return h
}
