// Package storage provides the SQLite persistence layer for honcho: the local
// image catalog, the preset store and saved editing sessions.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/honcho/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrEmptySlice     = errors.New("slice cannot be empty")
	ErrInvalidImage   = errors.New("invalid image")
	ErrInvalidPreset  = errors.New("invalid preset")
	ErrInvalidSession = errors.New("invalid session snapshot")
	ErrInvalidPath    = errors.New("invalid path")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateImages validates a slice of images.
func validateImages(images []model.Image) error {
	if images == nil {
		return fmt.Errorf("%w: images", ErrNilParameter)
	}
	if len(images) == 0 {
		return fmt.Errorf("%w: images", ErrEmptySlice)
	}

	seen := make(map[string]struct{}, len(images))
	for i, img := range images {
		if strings.TrimSpace(img.ID) == "" {
			return fmt.Errorf("image at index %d: %w: missing ID", i, ErrInvalidImage)
		}
		if strings.TrimSpace(img.Source) == "" {
			return fmt.Errorf("image at index %d: %w: missing source", i, ErrInvalidImage)
		}
		if _, dup := seen[img.ID]; dup {
			return fmt.Errorf("image at index %d: %w: duplicate ID %s", i, ErrInvalidImage, img.ID)
		}
		seen[img.ID] = struct{}{}
	}
	return nil
}

// validatePresetRequest validates a preset create request.
func validatePresetRequest(req model.CreatePresetRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidPreset)
	}
	for f := range req.Adjustments {
		if !f.Valid() {
			return fmt.Errorf("%w: unknown field %q", ErrInvalidPreset, f)
		}
	}
	return nil
}

// validateSnapshot validates a session snapshot before it is saved.
func validateSnapshot(snap *model.SessionSnapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: snapshot", ErrNilParameter)
	}
	ids := make(map[string]struct{}, len(snap.Images))
	for i, img := range snap.Images {
		if img.Image.ID == "" {
			return fmt.Errorf("%w: image at index %d has no ID", ErrInvalidSession, i)
		}
		if img.History.Cursor < 0 || img.History.Cursor > len(img.History.Entries) {
			return fmt.Errorf("%w: image %s history cursor %d out of range", ErrInvalidSession, img.Image.ID, img.History.Cursor)
		}
		ids[img.Image.ID] = struct{}{}
	}
	if snap.ActiveID != "" {
		if _, ok := ids[snap.ActiveID]; !ok {
			return fmt.Errorf("%w: active image %s not in session", ErrInvalidSession, snap.ActiveID)
		}
	}
	return nil
}
