package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/honcho/internal/common"
	"github.com/Veraticus/honcho/internal/model"
	"github.com/mattn/go-sqlite3"
)

// SyncConfiguration is the local catalog's half of the host handshake: it
// confirms the schema is current.
func (s *SQLiteStorage) SyncConfiguration(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if version != ExpectedSchemaVersion {
		return fmt.Errorf("%w: schema version %d, expected %d (run 'honcho migrate')",
			common.ErrDatabaseCorrupted, version, ExpectedSchemaVersion)
	}
	return nil
}

// SaveImages adds images to the catalog, updating any that already exist.
func (s *SQLiteStorage) SaveImages(ctx context.Context, images []model.Image) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateImages(images); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO images (id, source, thumbnail, url, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			thumbnail = excluded.thumbnail,
			url = excluded.url
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for _, img := range images {
		created := img.CreatedAt
		if created.IsZero() {
			created = now
		}
		if _, err := stmt.ExecContext(ctx, img.ID, img.Source, img.Thumbnail, img.URL, created); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: image source %s", common.ErrDuplicateEntry, img.Source)
			}
			return fmt.Errorf("failed to save image %s: %w", img.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit images: %w", err)
	}
	slog.Debug("Saved images", "count", len(images))
	return nil
}

// ListImages returns the catalog in import order.
func (s *SQLiteStorage) ListImages(ctx context.Context) ([]model.Image, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, COALESCE(thumbnail, ''), COALESCE(url, ''), created_at
		FROM images
		ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var images []model.Image
	for rows.Next() {
		var img model.Image
		if err := rows.Scan(&img.ID, &img.Source, &img.Thumbnail, &img.URL, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate images: %w", err)
	}
	return images, nil
}

// FetchImageBySource returns the stored URL of an image, falling back to a
// file URL built from its source path.
func (s *SQLiteStorage) FetchImageBySource(ctx context.Context, id string) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateString(id, "id"); err != nil {
		return "", err
	}

	var source, url string
	err := s.db.QueryRowContext(ctx, `
		SELECT source, COALESCE(url, '') FROM images WHERE id = ?
	`, id).Scan(&source, &url)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: image %s", common.ErrNotFound, id)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get image: %w", err)
	}
	if url != "" {
		return url, nil
	}
	return "file://" + source, nil
}

// DeleteImage removes an image from the catalog.
func (s *SQLiteStorage) DeleteImage(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return s.deleteByID(ctx, "images", "id", id)
}

// deleteByID removes one row and reports ErrNotFound when nothing matched.
// table and column are never user input.
func (s *SQLiteStorage) deleteByID(ctx context.Context, table, column, id string) error {
	// #nosec G201 - table and column are constants
	result, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, column), id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", common.ErrNotFound, table, id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
}
