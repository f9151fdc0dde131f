// Package service defines the contracts between the editing engine and its
// external collaborators.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/honcho/internal/model"
)

// ImageSource resolves the images of a session. It is backed by the host
// application (native bridge or web backend) or by the local catalog.
type ImageSource interface {
	// SyncConfiguration performs the opaque session handshake with the host.
	SyncConfiguration(ctx context.Context) error
	// ListImages returns the images that populate a new session.
	ListImages(ctx context.Context) ([]model.Image, error)
	// FetchImageBySource resolves a displayable URL for an image id.
	FetchImageBySource(ctx context.Context, id string) (string, error)
}

// PresetStore persists presets. The engine never assumes a schema; whatever
// the store returns is the truth.
type PresetStore interface {
	ListPresets(ctx context.Context) ([]model.Preset, error)
	// CreatePreset returns the stored preset, or nil if the store declined it.
	CreatePreset(ctx context.Context, req model.CreatePresetRequest) (*model.Preset, error)
	DeletePreset(ctx context.Context, id string) error
	RenamePreset(ctx context.Context, id, name string) error
}

// Navigator performs the host's "back" action.
type Navigator interface {
	NavigateBack(ctx context.Context) error
}

// Renderer is the external compositing engine. The engine only pushes vectors
// to it and never reads pixels back.
type Renderer interface {
	Render(ctx context.Context, imageID string, vector model.AdjustmentVector) error
}

// SessionStore saves and restores editing sessions between CLI invocations.
type SessionStore interface {
	SaveSession(ctx context.Context, name string, snapshot *model.SessionSnapshot) error
	LoadSession(ctx context.Context, name string) (*model.SessionSnapshot, error)
	DeleteSession(ctx context.Context, name string) error
}

// ImageCatalog is the local image inventory that backs ImageSource when no host
// is configured.
type ImageCatalog interface {
	ImageSource
	SaveImages(ctx context.Context, images []model.Image) error
	DeleteImage(ctx context.Context, id string) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
