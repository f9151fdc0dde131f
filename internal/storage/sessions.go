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
)

// DefaultSessionName is the session the CLI resumes when none is named.
const DefaultSessionName = "default"

// SaveSession stores a snapshot under name, replacing any previous one.
func (s *SQLiteStorage) SaveSession(ctx context.Context, name string, snapshot *model.SessionSnapshot) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}
	if err := validateSnapshot(snapshot); err != nil {
		return err
	}

	encoded, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (name, snapshot, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at
	`, name, string(encoded), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// LoadSession returns the snapshot saved under name, or common.ErrNotFound.
func (s *SQLiteStorage) LoadSession(ctx context.Context, name string) (*model.SessionSnapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	var encoded string
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM sessions WHERE name = ?`, name).Scan(&encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: session %s", common.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var snap model.SessionSnapshot
	if err := json.Unmarshal([]byte(encoded), &snap); err != nil {
		return nil, fmt.Errorf("%w: session %s: %w", common.ErrDatabaseCorrupted, name, err)
	}
	return &snap, nil
}

// DeleteSession removes a saved session.
func (s *SQLiteStorage) DeleteSession(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}
	return s.deleteByID(ctx, "sessions", "name", name)
}
