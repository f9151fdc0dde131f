package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/honcho/internal/common"
	"github.com/Veraticus/honcho/internal/editor"
	"github.com/Veraticus/honcho/internal/host"
	"github.com/Veraticus/honcho/internal/render"
	"github.com/Veraticus/honcho/internal/service"
	"github.com/Veraticus/honcho/internal/storage"
	"github.com/spf13/cobra"
)

// initStorage opens the local database and brings its schema up to date.
func (a *app) initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(a.cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// workspace is an editing session loaded for one command.
type workspace struct {
	store    *storage.SQLiteStorage
	session  *editor.Session
	renders  *render.Recorder
	name     string
	imported bool
}

// openWorkspace restores the named session and tops it up with any images
// the image source lists that the session does not have yet.
func (a *app) openWorkspace(ctx context.Context) (*workspace, error) {
	store, err := a.initStorage(ctx)
	if err != nil {
		return nil, err
	}

	deps, err := a.collaborators(store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	ws := &workspace{
		store:   store,
		renders: render.NewRecorder(),
		name:    a.session,
	}
	deps.Renderer = render.Tee{render.NewLogRenderer(slog.Default()), ws.renders}
	ws.session = editor.NewSession(deps, editor.Options{
		Context:      a.cfg.Editor.Context,
		HistoryLimit: a.cfg.Editor.HistoryLimit,
	})

	snap, err := store.LoadSession(ctx, ws.name)
	switch {
	case err == nil:
		if err := ws.session.Restore(snap); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to restore session %q: %w", ws.name, err)
		}
	case errors.Is(err, common.ErrNotFound):
		slog.Debug("Starting new session", "session", ws.name)
	default:
		_ = store.Close()
		return nil, fmt.Errorf("failed to load session %q: %w", ws.name, err)
	}

	added, err := ws.session.LoadImages(ctx)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	ws.imported = added > 0

	// The terminal has no compositor to wait for.
	ws.session.RendererReady(ctx)
	return ws, nil
}

// collaborators wires the host bridge when one is configured and the local
// catalog otherwise.
func (a *app) collaborators(store *storage.SQLiteStorage) (editor.Deps, error) {
	var deps editor.Deps
	var bridge service.Navigator

	if a.cfg.Host.Remote() {
		client, err := host.NewClient(host.Options{
			BaseURL: a.cfg.Host.URL,
			Token:   a.cfg.Host.Token,
			Timeout: a.cfg.Host.Timeout,
			Retry: service.RetryOptions{
				MaxAttempts:  a.cfg.Host.MaxAttempts,
				InitialDelay: 250 * time.Millisecond,
				MaxDelay:     5 * time.Second,
				Multiplier:   2,
			},
		})
		if err != nil {
			return deps, err
		}
		deps.Images = client
		deps.Presets = client
		bridge = client
	} else {
		deps.Images = store
		deps.Presets = store
	}

	nav, err := host.NewNavigator(a.cfg.Host.Environment, bridge, nil)
	if err != nil {
		return deps, err
	}
	deps.Navigator = nav
	return deps, nil
}

func (ws *workspace) save(ctx context.Context) error {
	if err := ws.store.SaveSession(ctx, ws.name, ws.session.Snapshot()); err != nil {
		return fmt.Errorf("failed to save session %q: %w", ws.name, err)
	}
	common.LogDebug("Saved session", common.Fields{
		"session": ws.name,
		"images":  len(ws.renders.Images()),
		"renders": ws.renders.Pushes(),
	})
	return nil
}

func (ws *workspace) close() {
	if err := ws.store.Close(); err != nil {
		common.LogError(err, "Failed to close database", common.Fields{"session": ws.name})
	}
}

// withWorkspace runs fn against the loaded session and saves it afterwards.
// Read-only commands pass save=false.
func (a *app) withWorkspace(cmd *cobra.Command, save bool, fn func(ctx context.Context, ws *workspace) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ws, err := a.openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.close()

	if err := fn(ctx, ws); err != nil {
		return err
	}
	if save || ws.imported {
		return ws.save(ctx)
	}
	return nil
}

// dispatch runs one command against the workspace session.
func dispatch(ctx context.Context, ws *workspace, c editor.Command) (editor.Result, error) {
	result, err := ws.session.Dispatch(ctx, c)
	if err != nil {
		return result, friendly(err)
	}
	return result, nil
}

// friendly turns engine errors into messages that suggest the next command.
func friendly(err error) error {
	switch {
	case errors.Is(err, editor.ErrNoActiveImage):
		return common.NewUserError("No image to edit. Import some with 'honcho images import <dir>'.", err)
	case errors.Is(err, editor.ErrNothingToUndo):
		return common.NewUserError("Nothing to undo.", err)
	case errors.Is(err, editor.ErrNothingToRedo):
		return common.NewUserError("Nothing to redo.", err)
	case errors.Is(err, editor.ErrEmptyClipboard):
		return common.NewUserError("Clipboard is empty. Copy from an image with 'honcho copy' first.", err)
	case errors.Is(err, editor.ErrUnknownImage):
		return common.NewUserError("No such image in this session. See 'honcho images list'.", err)
	case errors.Is(err, editor.ErrUnknownPreset):
		return common.NewUserError("No such preset. See 'honcho presets list'.", err)
	}
	return err
}
