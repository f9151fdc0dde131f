package model

import "time"

// EditContext identifies an editing surface that tracks its own preset selection.
type EditContext string

const (
	// ContextDesktop is single-image editing on a large screen.
	ContextDesktop EditContext = "desktop"
	// ContextBulk is multi-image editing.
	ContextBulk EditContext = "bulk"
	// ContextMobile is single-image editing on a phone.
	ContextMobile EditContext = "mobile"
)

// EditContexts lists every context.
func EditContexts() []EditContext {
	return []EditContext{ContextDesktop, ContextBulk, ContextMobile}
}

// Valid reports whether c is a known context.
func (c EditContext) Valid() bool {
	switch c {
	case ContextDesktop, ContextBulk, ContextMobile:
		return true
	}
	return false
}

// Preset is a named, stored patch.
type Preset struct {
	CreatedAt   time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Adjustments Patch     `json:"adjustments" yaml:"adjustments"`
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
}

// CreatePresetRequest is sent to the preset store to persist a new preset.
type CreatePresetRequest struct {
	Adjustments Patch  `json:"adjustments"`
	Name        string `json:"name"`
}
