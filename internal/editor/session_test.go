package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/honcho/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSession struct {
	*Session
	images   *MockImageSource
	presets  *MockPresetStore
	renderer *MockRenderer
	nav      *MockNavigator
}

func newTestSession(t *testing.T, ids ...string) *testSession {
	t.Helper()

	var images []model.Image
	for _, id := range ids {
		images = append(images, model.Image{ID: id, Source: id + ".jpg"})
	}
	ts := &testSession{
		images:   NewMockImageSource(images...),
		presets:  NewMockPresetStore(),
		renderer: &MockRenderer{},
		nav:      &MockNavigator{},
	}
	ts.Session = NewSession(Deps{
		Images:    ts.images,
		Presets:   ts.presets,
		Renderer:  ts.renderer,
		Navigator: ts.nav,
	}, DefaultOptions())

	added, err := ts.LoadImages(context.Background())
	require.NoError(t, err)
	require.Equal(t, len(ids), added)
	return ts
}

func TestSession_EndToEndBulkIncrement(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, "a", "b")
	s.SelectAll()

	for i := 0; i < 2; i++ {
		res, err := s.Increment(ctx, model.FieldExposure)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, res.Changed)
	}

	total := 0
	for _, id := range []string{"a", "b"} {
		v, err := s.Vector(id)
		require.NoError(t, err)
		assert.Equal(t, 2, v.Exposure)

		entries, cursor, err := s.History(id)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
		assert.Equal(t, 2, cursor)
		total += len(entries)
	}
	assert.Equal(t, 4, total)

	for _, id := range []string{"a", "b"} {
		require.NoError(t, s.SetActive(ctx, id))
		v, err := s.Undo(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, v.Exposure)
		v, err = s.Undo(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, v.Exposure)
		_, err = s.Undo(ctx)
		assert.ErrorIs(t, err, ErrNothingToUndo)
	}
}

func TestSession_UndoOnlyTouchesActiveImage(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, "a", "b")
	s.SelectAll()
	_, err := s.Increment(ctx, model.FieldExposure)
	require.NoError(t, err)

	require.NoError(t, s.SetActive(ctx, "a"))
	_, err = s.Undo(ctx)
	require.NoError(t, err)

	va, _ := s.Vector("a")
	vb, _ := s.Vector("b")
	assert.Equal(t, 0, va.Exposure)
	assert.Equal(t, 1, vb.Exposure)
}

func TestSession_SetClampsAndSkipsNoOps(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, "a")

	got, err := s.Set(ctx, model.FieldContrast, 500)
	require.NoError(t, err)
	assert.Equal(t, 100, got)

	got, err = s.Set(ctx, model.FieldContrast, 101)
	require.NoError(t, err)
	assert.Equal(t, 100, got)

	entries, _, err := s.History("")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSession_SetRawPartialInputCommitsNothing(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, "a")

	got, err := s.SetRaw(ctx, model.FieldShadows, "-")
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	got, err = s.SetRaw(ctx, model.FieldShadows, "-42")
	require.NoError(t, err)
	assert.Equal(t, -42, got)

	entries, _, _ := s.History("a")
	assert.Len(t, entries, 1)
}

func TestSession_NoActiveImage(t *testing.T) {
	s := NewSession(Deps{}, DefaultOptions())
	ctx := context.Background()

	_, err := s.Set(ctx, model.FieldExposure, 1)
	assert.ErrorIs(t, err, ErrNoActiveImage)
	_, err = s.Undo(ctx)
	assert.ErrorIs(t, err, ErrNoActiveImage)
	_, err = s.Revert(ctx)
	assert.ErrorIs(t, err, ErrNoActiveImage)
	assert.ErrorIs(t, s.NavigateBack(ctx), ErrNoNavigator)
}

func TestSession_RevertCommitsIdentity(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, "a")
	_, err := s.Set(ctx, model.FieldTint, 15)
	require.NoError(t, err)

	v, err := s.Revert(ctx)
	require.NoError(t, err)
	assert.True(t, v.IsIdentity())

	v, err = s.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, v.Tint)
}

func TestSession_LoadImagesErrors(t *testing.T) {
	syncErr := errors.New("bridge down")
	src := NewMockImageSource(model.Image{ID: "a"})
	src.SyncErr = syncErr
	s := NewSession(Deps{Images: src}, DefaultOptions())

	_, err := s.LoadImages(context.Background())
	require.ErrorIs(t, err, syncErr)
	assert.Empty(t, s.View().Images)
}

func TestSession_LoadImagesKeepsExisting(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, "a")
	_, err := s.Set(ctx, model.FieldClarity, 9)
	require.NoError(t, err)

	s.images.Images = append(s.images.Images, model.Image{ID: "b"})
	added, err := s.LoadImages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	v, _ := s.Vector("a")
	assert.Equal(t, 9, v.Clarity)
	assert.Equal(t, 2, s.images.SyncCalls)
}

func TestSession_ResolveImageURL(t *testing.T) {
	ctx := context.Background()

	t.Run("stores url", func(t *testing.T) {
		s := newTestSession(t, "a")
		url, err := s.ResolveImageURL(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "https://images.test/a.jpg", url)
		assert.Equal(t, url, s.View().Images[0].Image.URL)
	})

	t.Run("image removed while fetching", func(t *testing.T) {
		s := newTestSession(t, "a", "b")
		s.images.BeforeFetch = func(id string) { s.RemoveImage(id) }

		_, err := s.ResolveImageURL(ctx, "a")
		assert.ErrorIs(t, err, ErrStaleResponse)
		assert.Len(t, s.View().Images, 1)
	})

	t.Run("image re-added while fetching", func(t *testing.T) {
		s := newTestSession(t, "a")
		s.images.BeforeFetch = func(id string) {
			s.RemoveImage(id)
			s.AddImage(model.Image{ID: id})
		}

		_, err := s.ResolveImageURL(ctx, "a")
		assert.ErrorIs(t, err, ErrStaleResponse)
		assert.Empty(t, s.View().Images[0].Image.URL)
	})

	t.Run("unknown image", func(t *testing.T) {
		s := newTestSession(t, "a")
		_, err := s.ResolveImageURL(ctx, "zzz")
		assert.ErrorIs(t, err, ErrUnknownImage)
		assert.Zero(t, s.images.FetchCalls)
	})
}

func TestSession_RendererBuffersUntilReady(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, "a", "b")

	_, err := s.Set(ctx, model.FieldExposure, 30)
	require.NoError(t, err)
	assert.Empty(t, s.renderer.Calls())

	s.RendererReady(ctx)
	calls := s.renderer.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "a", calls[0].ImageID)
	assert.Equal(t, 30, calls[0].Vector.Exposure)

	require.NoError(t, s.Select("b"))
	_, err = s.Increment(ctx, model.FieldExposure)
	require.NoError(t, err)
	assert.Len(t, s.renderer.Calls(), 1, "inactive image edits are not pushed")

	require.NoError(t, s.SetActive(ctx, "b"))
	calls = s.renderer.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, RenderCall{ImageID: "b", Vector: model.Identity().With(model.FieldExposure, 1)}, calls[1])
}

func TestSession_RendererErrorIsNotFatal(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, "a")
	s.renderer.Err = errors.New("gl context lost")
	s.RendererReady(ctx)

	got, err := s.Set(ctx, model.FieldBlacks, -7)
	require.NoError(t, err)
	assert.Equal(t, -7, got)
}

func TestSession_RemoveActivePromotesNext(t *testing.T) {
	s := newTestSession(t, "a", "b", "c")
	require.NoError(t, s.SetActive(context.Background(), "b"))
	s.SelectAll()

	assert.True(t, s.RemoveImage("b"))
	assert.Equal(t, "c", s.ActiveID())
	assert.Equal(t, []string{"a", "c"}, s.Selected())
	assert.False(t, s.RemoveImage("b"))
}

func TestSession_Targets(t *testing.T) {
	s := newTestSession(t, "a", "b", "c")
	require.NoError(t, s.Select("b", "c"))

	assert.Equal(t, []string{"a"}, s.Targets())

	require.NoError(t, s.SetContext(model.ContextBulk))
	assert.Equal(t, []string{"b", "c"}, s.Targets())

	assert.Error(t, s.SetContext("tablet"))
}

func TestSession_SnapshotRestore(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, "a", "b")
	_, err := s.Set(ctx, model.FieldWhites, 12)
	require.NoError(t, err)
	_, err = s.Set(ctx, model.FieldWhites, 24)
	require.NoError(t, err)
	_, err = s.Undo(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Select("b"))
	require.NoError(t, s.SetActive(ctx, "b"))
	_, err = s.Copy("a", model.SelectionOf(model.FieldWhites))
	require.NoError(t, err)

	snap := s.Snapshot()

	restored := NewSession(Deps{}, DefaultOptions())
	require.NoError(t, restored.Restore(snap))

	assert.Equal(t, "b", restored.ActiveID())
	assert.Equal(t, []string{"b"}, restored.Selected())
	clip, ok := restored.Clipboard()
	require.True(t, ok)
	assert.Equal(t, model.Patch{model.FieldWhites: 12}, clip)

	require.NoError(t, restored.SetActive(ctx, "a"))
	v, err := restored.Redo(ctx)
	require.NoError(t, err)
	assert.Equal(t, 24, v.Whites)

	_, err = restored.Set(ctx, model.FieldTint, 1)
	require.NoError(t, err)
	entries, _, _ := restored.History("a")
	assert.Greater(t, entries[len(entries)-1].Seq, snap.Seq)

	assert.ErrorIs(t, restored.Restore(nil), ErrBadSnapshot)
}

func TestSession_View(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, "a", "b")
	_, err := s.Set(ctx, model.FieldSaturation, -20)
	require.NoError(t, err)
	require.NoError(t, s.Select("b"))

	view := s.View()
	require.Len(t, view.Images, 2)
	active, ok := view.Active()
	require.True(t, ok)
	assert.Equal(t, "a", active.Image.ID)
	assert.Equal(t, -20, active.Vector.Saturation)
	assert.True(t, active.CanUndo)
	assert.False(t, active.CanRedo)
	assert.True(t, view.Images[1].Selected)
	assert.Equal(t, model.ContextDesktop, view.Context)
}

func TestSession_SetRatio(t *testing.T) {
	tests := []struct {
		name    string
		ratio   model.AspectRatio
		want    model.AspectRatio
		wantErr error
		entries int
	}{
		{name: "known tag commits", ratio: model.Ratio3x2, want: model.Ratio3x2, entries: 1},
		{name: "unset is a no-op", ratio: model.RatioUnset, want: model.RatioUnset},
		{name: "unknown tag is rejected", ratio: "banana", want: model.RatioUnset, wantErr: model.ErrUnknownRatio},
		{name: "untrimmed tag is rejected", ratio: " 3:2", want: model.RatioUnset, wantErr: model.ErrUnknownRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := newTestSession(t, "a")

			_, err := s.Dispatch(ctx, Command{Kind: CmdRatio, Ratio: tt.ratio})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			v, err := s.Vector("a")
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Crop.Ratio)

			entries, _, err := s.History("a")
			require.NoError(t, err)
			assert.Len(t, entries, tt.entries)
		})
	}
}

func TestSession_RestoreDropsUnknownRatio(t *testing.T) {
	s := newTestSession(t, "a")
	snap := s.Snapshot()
	require.Len(t, snap.Images, 1)
	snap.Images[0].Vector.Crop = model.Crop{Ratio: "banana", Width: 640}

	restored := NewSession(Deps{}, DefaultOptions())
	require.NoError(t, restored.Restore(snap))

	v, err := restored.Vector("a")
	require.NoError(t, err)
	assert.Equal(t, model.RatioUnset, v.Crop.Ratio)
	assert.Equal(t, 640, v.Crop.Width)
}
