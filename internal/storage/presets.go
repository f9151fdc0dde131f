package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/honcho/internal/common"
	"github.com/Veraticus/honcho/internal/model"
	"github.com/google/uuid"
)

// CreatePreset stores a new preset under a generated id.
func (s *SQLiteStorage) CreatePreset(ctx context.Context, req model.CreatePresetRequest) (*model.Preset, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validatePresetRequest(req); err != nil {
		return nil, err
	}

	adjustments := req.Adjustments
	if adjustments == nil {
		adjustments = model.Patch{}
	}
	encoded, err := json.Marshal(adjustments)
	if err != nil {
		return nil, fmt.Errorf("failed to encode adjustments: %w", err)
	}

	preset := &model.Preset{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Adjustments: adjustments.Clone(),
		CreatedAt:   time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO presets (id, name, adjustments, created_at)
		VALUES (?, ?, ?, ?)
	`, preset.ID, preset.Name, string(encoded), preset.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create preset: %w", err)
	}
	return preset, nil
}

// ListPresets returns every preset in creation order.
func (s *SQLiteStorage) ListPresets(ctx context.Context) ([]model.Preset, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, adjustments, created_at
		FROM presets
		ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query presets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var presets []model.Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate presets: %w", err)
	}
	return presets, nil
}

// GetPreset retrieves a preset by id.
func (s *SQLiteStorage) GetPreset(ctx context.Context, id string) (*model.Preset, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, adjustments, created_at FROM presets WHERE id = ?
	`, id)
	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: preset %s", common.ErrNotFound, id)
	}
	return p, err
}

// RenamePreset changes a preset's name.
func (s *SQLiteStorage) RenamePreset(ctx context.Context, id, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE presets SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename preset: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: preset %s", common.ErrNotFound, id)
	}
	return nil
}

// DeletePreset removes a preset.
func (s *SQLiteStorage) DeletePreset(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return s.deleteByID(ctx, "presets", "id", id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPreset(row scanner) (*model.Preset, error) {
	var (
		p       model.Preset
		encoded string
	)
	if err := row.Scan(&p.ID, &p.Name, &encoded, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan preset: %w", err)
	}
	if err := json.Unmarshal([]byte(encoded), &p.Adjustments); err != nil {
		return nil, fmt.Errorf("%w: preset %s adjustments: %w", common.ErrDatabaseCorrupted, p.ID, err)
	}
	return &p, nil
}
