package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/honcho/internal/cli"
	"github.com/Veraticus/honcho/internal/model"
	"github.com/spf13/cobra"
)

const importBatchSize = 25

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".heic": true, ".webp": true,
	".tif": true, ".tiff": true, ".dng": true, ".raw": true,
}

func imagesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: cli.FolderIcon + " Manage the local image catalog",
	}

	cmd.AddCommand(imagesImportCmd(a))
	cmd.AddCommand(imagesListCmd(a))
	cmd.AddCommand(imagesRemoveCmd(a))

	return cmd
}

func imagesImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>...",
		Short: "Add image files to the catalog",
		Long: `Scan files and directories for images and add them to the local catalog.
Re-importing a file keeps its id, so sessions that already edit it are not
affected.`,
		Example: `  honcho images import ~/Pictures/2024-iceland
  honcho images import shot1.jpg shot2.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := findImages(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("No images found"))
				return nil
			}
			return a.importImages(cmd, files)
		},
	}
}

func (a *app) importImages(cmd *cobra.Command, files []string) error {
	out := cmd.OutOrStdout()

	store, err := a.initStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	handler := cli.NewInterruptHandler(out, "Import")
	ctx := handler.HandleInterrupts(cmd.Context(), "Images saved so far stay in the catalog; rerun to import the rest.")

	bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(files), "Importing images...")
	imported := 0
	for start := 0; start < len(files); start += importBatchSize {
		if ctx.Err() != nil {
			break
		}
		end := min(start+importBatchSize, len(files))

		batch := make([]model.Image, 0, end-start)
		now := time.Now().UTC()
		for _, path := range files[start:end] {
			batch = append(batch, model.Image{
				ID:        imageID(path),
				Source:    path,
				CreatedAt: now,
			})
		}
		if err := store.SaveImages(ctx, batch); err != nil {
			if handler.WasInterrupted() {
				break
			}
			return fmt.Errorf("failed to save images: %w", err)
		}
		imported += len(batch)
		_ = bar.Add(len(batch))
	}

	slog.Info("Imported images", "count", imported, "found", len(files))
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d of %d images", imported, len(files))))
	return nil
}

// findImages expands directories into the image files below them. Paths are
// returned absolute, in walk order, without duplicates.
func findImages(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if imageExtensions[strings.ToLower(filepath.Ext(path))] && !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		if !info.IsDir() {
			add(abs)
			continue
		}
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				if path != abs && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", p, err)
		}
	}
	return files, nil
}

// imageID derives a stable id from an absolute path.
func imageID(path string) string {
	sum := sha256.Sum256([]byte(path))
	return "img-" + hex.EncodeToString(sum[:])[:12]
}

func imagesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the images in the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withWorkspace(cmd, false, func(_ context.Context, ws *workspace) error {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatImages(ws.session.View().Images))
				return nil
			})
		},
	}
}

func imagesRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an image from the catalog and the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return a.withWorkspace(cmd, true, func(ctx context.Context, ws *workspace) error {
				if err := ws.store.DeleteImage(ctx, id); err != nil {
					return fmt.Errorf("failed to remove image %s: %w", id, err)
				}
				ws.session.RemoveImage(id)
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Removed "+id))
				return nil
			})
		},
	}
}
