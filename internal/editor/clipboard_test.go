package editor

import (
	"context"
	"testing"

	"github.com/Veraticus/honcho/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_CopyPasteOnlyWritesSelectedFields(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, "src", "dst")

	_, err := s.Set(ctx, model.FieldTemperature, 25)
	require.NoError(t, err)
	_, err = s.Set(ctx, model.FieldTint, -10)
	require.NoError(t, err)
	_, err = s.Set(ctx, model.FieldExposure, 70)
	require.NoError(t, err)

	require.NoError(t, s.SetActive(ctx, "dst"))
	_, err = s.Set(ctx, model.FieldExposure, 40)
	require.NoError(t, err)

	patch, err := s.Copy("src", model.SelectionOf(model.FieldTemperature, model.FieldTint))
	require.NoError(t, err)
	assert.Equal(t, model.Patch{model.FieldTemperature: 25, model.FieldTint: -10}, patch)

	res, err := s.Paste(ctx, []string{"dst"})
	require.NoError(t, err)
	assert.Equal(t, []string{"dst"}, res.Applied)

	v, err := s.Vector("dst")
	require.NoError(t, err)
	assert.Equal(t, 40, v.Exposure)
	assert.Equal(t, 25, v.Temperature)
	assert.Equal(t, -10, v.Tint)
}

func TestSession_PasteEmptyClipboard(t *testing.T) {
	s := newTestSession(t, "a")

	_, err := s.Paste(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, ErrEmptyClipboard)
}

func TestSession_PasteSkipsMissingTargets(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, "a", "b")
	_, err := s.Set(ctx, model.FieldClarity, 50)
	require.NoError(t, err)
	_, err = s.Copy("", model.AllCategories())
	require.NoError(t, err)

	s.RemoveImage("b")
	res, err := s.Paste(ctx, []string{"b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, res.Skipped)
	assert.Equal(t, []string{"a"}, res.Applied)

	entries, _, _ := s.History("a")
	assert.Len(t, entries, 2, "the paste commits even though nothing changed")
}

func TestSession_PasteOfMatchingValuesStillCommits(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, "a", "b")
	_, err := s.Copy("a", model.SelectionOf(model.FieldExposure, model.FieldTint))
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		res, err := s.Paste(ctx, []string{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, res.Applied)

		for _, id := range []string{"a", "b"} {
			entries, cursor, err := s.History(id)
			require.NoError(t, err)
			assert.Len(t, entries, i, id)
			assert.Equal(t, i, cursor, id)
		}
	}

	v, err := s.Undo(ctx)
	require.NoError(t, err)
	assert.True(t, v.IsIdentity())
}

func TestSession_PasteEmptyTargetsIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, "a")
	_, err := s.Copy("a", model.AllCategories())
	require.NoError(t, err)

	res, err := s.Paste(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Applied)
	assert.Empty(t, res.Skipped)
}

func TestSession_PasteCommitsPerTarget(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, "a", "b", "c")
	_, err := s.Set(ctx, model.FieldHighlights, -30)
	require.NoError(t, err)
	_, err = s.Copy("", model.SelectionOf(model.FieldHighlights))
	require.NoError(t, err)

	_, err = s.Paste(ctx, []string{"b", "c"})
	require.NoError(t, err)

	for _, id := range []string{"b", "c"} {
		entries, _, _ := s.History(id)
		require.Len(t, entries, 1, id)
		assert.Equal(t, -30, entries[0].Vector.Highlights)
	}
}

func TestSession_CopyUnknownSource(t *testing.T) {
	s := newTestSession(t, "a")

	_, err := s.Copy("nope", model.AllCategories())
	assert.ErrorIs(t, err, ErrUnknownImage)
	_, ok := s.Clipboard()
	assert.False(t, ok)
}
