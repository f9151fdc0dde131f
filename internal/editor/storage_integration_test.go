package editor_test

import (
	"context"
	"testing"

	"github.com/Veraticus/honcho/internal/editor"
	"github.com/Veraticus/honcho/internal/model"
	"github.com/Veraticus/honcho/internal/testutil"
	"github.com/Veraticus/honcho/internal/testutil/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoredSession(t *testing.T, db *testutil.TestDB, renderer *editor.MockRenderer) *editor.Session {
	t.Helper()
	s := editor.NewSession(editor.Deps{
		Images:   db.Storage,
		Presets:  db.Storage,
		Renderer: renderer,
	}, editor.DefaultOptions())
	_, err := s.LoadImages(context.Background())
	require.NoError(t, err)
	return s
}

func imageIDs(view editor.SessionView) []string {
	ids := make([]string, 0, len(view.Images))
	for _, img := range view.Images {
		ids = append(ids, img.Image.ID)
	}
	return ids
}

func TestSessionOnSQLite(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t, fixtures.FixtureShoot)
	renderer := &editor.MockRenderer{}
	s := newStoredSession(t, db, renderer)

	assert.Equal(t, db.Data.ImageIDs(), imageIDs(s.View()))
	assert.Empty(t, s.Selected(), "nothing selected on load")
	assert.Equal(t, "img-1", s.ActiveID())

	t.Run("preset from the catalog applies to the selection in bulk context", func(t *testing.T) {
		require.NoError(t, s.SetContext(model.ContextBulk))
		require.NoError(t, s.Select("img-2", "img-3"))

		res, err := s.Dispatch(ctx, editor.Command{Kind: editor.CmdApplyPreset, PresetID: db.MustPreset(fixtures.PresetWarm)})
		require.NoError(t, err)
		assert.Equal(t, []string{"img-2", "img-3"}, res.Patch.Applied)

		v, err := s.Vector("img-3")
		require.NoError(t, err)
		assert.Equal(t, 25, v.Temperature)
		assert.Equal(t, 5, v.Tint)

		untouched, err := s.Vector("img-1")
		require.NoError(t, err)
		assert.True(t, untouched.IsIdentity())
	})

	t.Run("created presets are stored", func(t *testing.T) {
		require.NoError(t, s.SetActive(ctx, "img-2"))
		p, err := s.CreatePreset(ctx, "Img 2 color", model.AllCategories())
		require.NoError(t, err)

		stored, err := db.Storage.GetPreset(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Img 2 color", stored.Name)
		assert.Equal(t, 25, stored.Adjustments[model.FieldTemperature])
	})

	t.Run("snapshot survives a save and restore", func(t *testing.T) {
		_, err := s.Set(ctx, model.FieldExposure, 40)
		require.NoError(t, err)
		require.NoError(t, db.Storage.SaveSession(ctx, "shoot", s.Snapshot()))

		snap, err := db.Storage.LoadSession(ctx, "shoot")
		require.NoError(t, err)

		restored := editor.NewSession(editor.Deps{Images: db.Storage, Presets: db.Storage}, editor.DefaultOptions())
		require.NoError(t, restored.Restore(snap))
		added, err := restored.LoadImages(ctx)
		require.NoError(t, err)
		assert.Zero(t, added, "every catalog image is already in the snapshot")

		assert.Equal(t, "img-2", restored.ActiveID())
		assert.Equal(t, []string{"img-2", "img-3"}, restored.Selected())

		v, err := restored.Vector("img-2")
		require.NoError(t, err)
		assert.Equal(t, 40, v.Exposure)

		_, err = restored.Undo(ctx)
		require.NoError(t, err)
		v, err = restored.Vector("")
		require.NoError(t, err)
		assert.Equal(t, 0, v.Exposure, "history is restored with the vector")
		assert.Equal(t, 25, v.Temperature)

		assert.Equal(t, db.MustPreset(fixtures.PresetWarm), restored.Presets().Selected(model.ContextBulk))
	})
}

func TestDeletedCatalogPreset(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDBWithBuilder(t, func(b fixtures.Builder) fixtures.Builder {
		return b.WithImages(1).WithPreset(fixtures.PresetCool)
	})
	s := newStoredSession(t, db, &editor.MockRenderer{})

	id := db.MustPreset(fixtures.PresetCool)
	require.NoError(t, s.Presets().Refresh(ctx))
	require.NoError(t, db.Storage.DeletePreset(ctx, id))

	err := s.Presets().Delete(ctx, id)
	require.Error(t, err)

	var perr *editor.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Len(t, s.Presets().Presets(), 1, "the local list only changes once the store confirms")
}
