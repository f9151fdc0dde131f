package editor

import (
	"testing"

	"github.com/Veraticus/honcho/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exposure(v int) model.AdjustmentVector {
	return model.Identity().With(model.FieldExposure, v)
}

func TestHistory_UndoRedoRoundTrip(t *testing.T) {
	h := NewHistory(model.Identity(), nil, 0)
	h.Commit(exposure(10))
	h.Commit(exposure(20))
	last := exposure(30)
	h.Commit(last)

	undos := 0
	for {
		if _, err := h.Undo(); err != nil {
			require.ErrorIs(t, err, ErrNothingToUndo)
			break
		}
		undos++
	}
	assert.Equal(t, 3, undos)
	assert.Equal(t, model.Identity(), h.Current())

	for {
		if _, err := h.Redo(); err != nil {
			require.ErrorIs(t, err, ErrNothingToRedo)
			break
		}
	}
	assert.Equal(t, last, h.Current())
}

func TestHistory_UndoRedoIsIdempotent(t *testing.T) {
	h := NewHistory(model.Identity(), nil, 0)
	h.Commit(exposure(5))
	h.Commit(exposure(6))

	for i := 0; i < 5; i++ {
		_, err := h.Undo()
		require.NoError(t, err)
		v, err := h.Redo()
		require.NoError(t, err)
		assert.Equal(t, exposure(6), v)
	}
}

func TestHistory_CommitTruncatesRedoBranch(t *testing.T) {
	h := NewHistory(model.Identity(), nil, 0)
	h.Commit(exposure(1)) // A
	h.Commit(exposure(2)) // B
	h.Commit(exposure(3)) // C

	_, err := h.Undo()
	require.NoError(t, err)
	v, err := h.Undo()
	require.NoError(t, err)
	require.Equal(t, exposure(1), v)

	h.Commit(exposure(4)) // D

	_, err = h.Redo()
	assert.ErrorIs(t, err, ErrNothingToRedo)
	assert.False(t, h.CanRedo())

	entries := h.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, exposure(1), entries[0].Vector)
	assert.Equal(t, exposure(4), entries[1].Vector)
}

func TestHistory_EmptyStack(t *testing.T) {
	h := NewHistory(exposure(7), nil, 0)

	v, err := h.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)
	assert.Equal(t, exposure(7), v)

	_, err = h.Redo()
	assert.ErrorIs(t, err, ErrNothingToRedo)
	assert.Equal(t, 0, h.Len())
}

func TestHistory_RevertToOriginalIsUndoable(t *testing.T) {
	h := NewHistory(model.Identity(), nil, 0)
	h.Commit(exposure(40))

	entry := h.RevertToOriginal()
	assert.Equal(t, model.Identity(), entry.Vector)
	assert.Equal(t, 2, h.Len())

	v, err := h.Undo()
	require.NoError(t, err)
	assert.Equal(t, exposure(40), v)

	v, err = h.Redo()
	require.NoError(t, err)
	assert.True(t, v.IsIdentity())
}

func TestHistory_SequenceSharedAcrossStacks(t *testing.T) {
	seq := &Sequence{}
	a := NewHistory(model.Identity(), seq, 0)
	b := NewHistory(model.Identity(), seq, 0)

	e1 := a.Commit(exposure(1))
	e2 := b.Commit(exposure(1))
	e3 := a.Commit(exposure(2))

	assert.Less(t, e1.Seq, e2.Seq)
	assert.Less(t, e2.Seq, e3.Seq)
	assert.Equal(t, e3.Seq, seq.Last())
}

func TestHistory_LimitFoldsOldestIntoOrigin(t *testing.T) {
	h := NewHistory(model.Identity(), nil, 2)
	h.Commit(exposure(1))
	h.Commit(exposure(2))
	h.Commit(exposure(3))

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, exposure(3), h.Current())

	_, err := h.Undo()
	require.NoError(t, err)
	v, err := h.Undo()
	require.NoError(t, err)
	assert.Equal(t, exposure(1), v)

	_, err = h.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)
}

func TestRestoreHistory(t *testing.T) {
	h := NewHistory(model.Identity(), nil, 0)
	h.Commit(exposure(1))
	h.Commit(exposure(2))
	_, _ = h.Undo()

	restored := RestoreHistory(h.Snapshot(), nil, 0)
	assert.Equal(t, h.Current(), restored.Current())
	assert.True(t, restored.CanRedo())

	snap := h.Snapshot()
	snap.Cursor = 99
	assert.Equal(t, 2, RestoreHistory(snap, nil, 0).Cursor())
}
