package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/honcho/internal/editor"
	"github.com/Veraticus/honcho/internal/model"
	"github.com/Veraticus/honcho/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv is an isolated database and config file for driving the CLI.
type testEnv struct {
	t      *testing.T
	db     string
	config string
	photos string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	config := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(config, []byte("logging:\n  level: error\n"), 0o600))

	photos := filepath.Join(dir, "photos")
	require.NoError(t, os.MkdirAll(filepath.Join(photos, ".thumbs"), 0o750))
	for _, name := range []string{"a.jpg", "b.png", "notes.txt", ".thumbs/a.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(photos, name), []byte("x"), 0o600))
	}

	return &testEnv{t: t, db: filepath.Join(dir, "honcho.db"), config: config, photos: photos}
}

// run executes one CLI invocation, answering prompts with stdin.
func (e *testEnv) run(stdin string, args ...string) (string, error) {
	e.t.Helper()
	root := newRootCmd(newApp(strings.NewReader(stdin)))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", e.config, "--db", e.db}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run("", args...)
	require.NoError(e.t, err, "honcho %s", strings.Join(args, " "))
	return out
}

// imported imports the fixture photos and returns the ids of a.jpg and b.png.
func (e *testEnv) imported() (string, string) {
	e.t.Helper()
	e.mustRun("images", "import", e.photos)
	return imageID(filepath.Join(e.photos, "a.jpg")), imageID(filepath.Join(e.photos, "b.png"))
}

// vector reads an image's saved adjustments straight from the database.
func (e *testEnv) vector(session, id string) model.AdjustmentVector {
	e.t.Helper()
	store, err := storage.NewSQLiteStorage(e.db)
	require.NoError(e.t, err)
	defer func() { _ = store.Close() }()

	snap, err := store.LoadSession(context.Background(), session)
	require.NoError(e.t, err)
	for _, img := range snap.Images {
		if img.Image.ID == id {
			return img.Vector
		}
	}
	e.t.Fatalf("image %s not in session %s", id, session)
	return model.AdjustmentVector{}
}

func TestMigrateCommand(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("migrate", "--status")
	assert.Contains(t, out, "Current version: 0")
	assert.Contains(t, out, "Migrations pending")

	out = env.mustRun("migrate")
	assert.Contains(t, out, "completed successfully")

	out = env.mustRun("migrate")
	assert.Contains(t, out, "up to date")
}

func TestImagesCommands(t *testing.T) {
	env := newTestEnv(t)
	idA, idB := env.imported()

	out := env.mustRun("images", "list")
	assert.Contains(t, out, idA)
	assert.Contains(t, out, idB)
	assert.Contains(t, out, "> [ ] "+idA, "first image starts active")

	// Re-importing keeps ids stable.
	out = env.mustRun("images", "import", env.photos)
	assert.Contains(t, out, "Imported 2 of 2 images")

	env.mustRun("images", "remove", idA)
	out = env.mustRun("images", "list")
	assert.NotContains(t, out, idA)
	assert.Contains(t, out, "> [ ] "+idB)
}

func TestImagesImportEmpty(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun("images", "import", filepath.Join(env.photos, "notes.txt"))
	assert.Contains(t, out, "No images found")
}

func TestAdjustCommands(t *testing.T) {
	env := newTestEnv(t)
	idA, _ := env.imported()

	out := env.mustRun("adjust", "set", "exposure", "35")
	assert.Contains(t, out, "exposure = 35")

	out = env.mustRun("adjust", "set", "exposure", "400")
	assert.Contains(t, out, "exposure = 100", "values are clamped")

	out = env.mustRun("undo")
	assert.Contains(t, out, "undo")
	assert.Equal(t, 35, env.vector("default", idA).Exposure)

	out = env.mustRun("adjust", "show", "--history")
	assert.Contains(t, out, "History (1 of 2)")
	assert.Contains(t, out, "original")
	assert.Contains(t, out, "exposure 0→35")

	env.mustRun("redo")
	_, err := env.run("", "redo")
	require.Error(t, err)
	assert.ErrorIs(t, err, editor.ErrNothingToRedo)

	env.mustRun("revert")
	assert.True(t, env.vector("default", idA).IsIdentity())
	env.mustRun("undo")
	assert.Equal(t, 100, env.vector("default", idA).Exposure, "revert is undoable")

	out = env.mustRun("adjust", "reset")
	assert.Contains(t, out, "Reset all adjustments")

	out = env.mustRun("adjust", "crop", "--ratio", "16:9", "--width", "1920", "--height", "1080")
	assert.Contains(t, out, "16:9")
	assert.Contains(t, out, "1920x1080")
	assert.Equal(t, model.Crop{Ratio: model.Ratio16x9, Width: 1920, Height: 1080}, env.vector("default", idA).Crop)

	_, err = env.run("", "adjust", "set", "sparkle", "3")
	assert.Error(t, err)

	_, err = env.run("", "adjust", "crop")
	assert.Error(t, err)
}

func TestAdjustWithoutImages(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("", "adjust", "set", "exposure", "10")
	require.Error(t, err)
	assert.ErrorIs(t, err, editor.ErrNoActiveImage)
	assert.Contains(t, err.Error(), "honcho images import")
}

func TestBulkAndSelection(t *testing.T) {
	env := newTestEnv(t)
	idA, idB := env.imported()

	out := env.mustRun("bulk", "inc", "exposure")
	assert.Contains(t, out, "No images selected")

	out = env.mustRun("select", "--all")
	assert.Contains(t, out, "2 images selected")

	env.mustRun("activate", idB)
	env.mustRun("adjust", "set", "exposure", "100")

	out = env.mustRun("bulk", "max", "exposure")
	assert.Contains(t, out, "on 1 images")
	assert.Contains(t, out, "1 already at the bound")

	assert.Equal(t, 100, env.vector("default", idA).Exposure)

	out = env.mustRun("select", "--toggle", idA)
	assert.Contains(t, out, "1 images selected")

	out = env.mustRun("select", "--clear")
	assert.Contains(t, out, "0 images selected")

	_, err := env.run("", "bulk", "sideways", "exposure")
	assert.Error(t, err)
	_, err = env.run("", "select")
	assert.Error(t, err)
	_, err = env.run("", "activate", "img-missing")
	assert.ErrorIs(t, err, editor.ErrUnknownImage)
}

func TestCopyPaste(t *testing.T) {
	env := newTestEnv(t)
	idA, idB := env.imported()

	_, err := env.run("", "paste", idB)
	require.Error(t, err)
	assert.ErrorIs(t, err, editor.ErrEmptyClipboard)

	env.mustRun("adjust", "set", "temperature", "30")
	env.mustRun("adjust", "set", "exposure", "20")

	out := env.mustRun("copy", "--fields", "color")
	assert.Contains(t, out, "Copied 4 fields")
	assert.Contains(t, out, "[x] temperature")

	out = env.mustRun("paste", idB, "img-gone")
	assert.Contains(t, out, "Pasted onto 1 images")
	assert.Contains(t, out, "1 images were no longer in the session")

	out = env.mustRun("adjust", "show", "--image", idB)
	assert.Contains(t, out, "temperature")
	assert.Equal(t, 30, env.vector("default", idB).Temperature)
	assert.Equal(t, 0, env.vector("default", idB).Exposure, "only copied fields are pasted")

	env.mustRun("activate", idB)
	env.mustRun("adjust", "set", "temperature", "0")
	env.mustRun("copy", "--from", idA, "--fields", "exposure")
	out = env.mustRun("paste")
	assert.Contains(t, out, "Pasted onto 1 images", "defaults to the active image")
	assert.Equal(t, 20, env.vector("default", idB).Exposure)

	out = env.mustRun("paste", "--selected")
	assert.Contains(t, out, "No target images")
}

func TestPresetCommands(t *testing.T) {
	env := newTestEnv(t)
	_, idB := env.imported()

	out := env.mustRun("presets", "list")
	assert.Contains(t, out, "No presets yet")

	env.mustRun("adjust", "set", "exposure", "20")
	out = env.mustRun("presets", "create", "Bright", "--fields", "light")
	assert.Contains(t, out, `Created preset "Bright"`)

	store, err := storage.NewSQLiteStorage(env.db)
	require.NoError(t, err)
	presets, err := store.ListPresets(context.Background())
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.Len(t, presets, 1)
	id := presets[0].ID
	assert.Equal(t, 20, presets[0].Adjustments["exposure"])

	out = env.mustRun("presets", "apply", id, idB)
	assert.Contains(t, out, "onto 1 images")

	out = env.mustRun("presets", "list")
	assert.Contains(t, out, "Bright")
	assert.Contains(t, out, "desktop", "selected in the desktop context")

	assert.Equal(t, 20, env.vector("default", idB).Exposure)

	env.mustRun("presets", "rename", id, "Brighter")

	exported := filepath.Join(t.TempDir(), "presets.yaml")
	out = env.mustRun("presets", "export", "-o", exported)
	assert.Contains(t, out, "Exported 1 presets")
	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Brighter")

	out, err = env.run("n\n", "presets", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Canceled")

	out, err = env.run("y\n", "presets", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted preset "Brighter"`)

	out = env.mustRun("presets", "list")
	assert.Contains(t, out, "No presets yet")

	out = env.mustRun("presets", "import", exported)
	assert.Contains(t, out, "Imported 1 presets")

	_, err = env.run("", "presets", "delete", id, "--force")
	assert.ErrorIs(t, err, editor.ErrUnknownPreset)

	env.mustRun("presets", "remove")
}

func TestPresetImportReportsRejected(t *testing.T) {
	env := newTestEnv(t)
	env.imported()

	file := filepath.Join(t.TempDir(), "looks.yaml")
	doc := `presets:
  - name: Faded
    adjustments:
      blacks: 20
      contrast: -15
  - name: ""
    adjustments:
      exposure: 10
`
	require.NoError(t, os.WriteFile(file, []byte(doc), 0o600))

	out := env.mustRun("presets", "import", file)
	assert.Contains(t, out, "Imported 1 presets")
	assert.Contains(t, out, "1 presets were rejected by the store")
	assert.Contains(t, out, "(unnamed)")
	assert.Contains(t, out, "missing name")

	out = env.mustRun("presets", "list")
	assert.Contains(t, out, "Faded")
}

func TestSessionCommands(t *testing.T) {
	env := newTestEnv(t)
	idA, _ := env.imported()

	env.mustRun("adjust", "set", "clarity", "15")
	env.mustRun("copy", "--fields", "details")

	out := env.mustRun("session", "show")
	assert.Contains(t, out, `Session "default"`)
	assert.Contains(t, out, idA)
	assert.Contains(t, out, "clarity=15")

	out = env.mustRun("session", "export")
	assert.Contains(t, out, "active_id: "+idA)
	assert.Contains(t, out, "clarity: 15")

	out = env.mustRun("session", "reset", "--force")
	assert.Contains(t, out, "reset")

	env.mustRun("adjust", "show")
	assert.Equal(t, 0, env.vector("default", idA).Clarity)

	// Separate sessions do not share edits.
	env.mustRun("--session", "other", "adjust", "set", "clarity", "40")
	assert.Equal(t, 40, env.vector("other", idA).Clarity)
	assert.Equal(t, 0, env.vector("default", idA).Clarity)
}

func TestSessionResetNothingSaved(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun("session", "reset", "--force")
	assert.Contains(t, out, "Nothing to reset")
}

func TestInvalidConfiguration(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("", "--context", "tablet", "images", "list")
	assert.Error(t, err)

	_, err = env.run("", "--log-level", "loud", "images", "list")
	assert.Error(t, err)
}

func TestFindImages(t *testing.T) {
	env := newTestEnv(t)

	files, err := findImages([]string{env.photos, filepath.Join(env.photos, "a.jpg")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(env.photos, "a.jpg"),
		filepath.Join(env.photos, "b.png"),
	}, files)

	_, err = findImages([]string{filepath.Join(env.photos, "missing")})
	assert.Error(t, err)
}

func TestImageID(t *testing.T) {
	a := imageID("/photos/a.jpg")
	assert.Equal(t, a, imageID("/photos/a.jpg"))
	assert.NotEqual(t, a, imageID("/photos/b.jpg"))
	assert.True(t, strings.HasPrefix(a, "img-"))
	assert.Len(t, a, len("img-")+12)
}

func TestVersionCommand(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun("version")
	assert.Equal(t, "honcho dev\n", out)
}
