package editor

import (
	"context"
	"fmt"
	"sync"

	"github.com/Veraticus/honcho/internal/model"
)

// MockImageSource is an in-memory ImageSource for tests.
type MockImageSource struct {
	SyncErr  error
	ListErr  error
	FetchErr error
	// BeforeFetch runs inside FetchImageBySource before it returns, letting
	// tests mutate the session while a request is in flight.
	BeforeFetch func(id string)
	Images      []model.Image
	SyncCalls   int
	FetchCalls  int
	mu          sync.Mutex
}

// NewMockImageSource returns a source listing images.
func NewMockImageSource(images ...model.Image) *MockImageSource {
	return &MockImageSource{Images: images}
}

// SyncConfiguration records the handshake.
func (m *MockImageSource) SyncConfiguration(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SyncCalls++
	return m.SyncErr
}

// ListImages returns the configured images.
func (m *MockImageSource) ListImages(_ context.Context) ([]model.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]model.Image, len(m.Images))
	copy(out, m.Images)
	return out, nil
}

// FetchImageBySource returns a predictable URL for id.
func (m *MockImageSource) FetchImageBySource(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	m.FetchCalls++
	hook, err := m.BeforeFetch, m.FetchErr
	m.mu.Unlock()

	if hook != nil {
		hook(id)
	}
	if err != nil {
		return "", err
	}
	return "https://images.test/" + id + ".jpg", nil
}

// MockPresetStore is an in-memory PresetStore for tests. Set the *Err fields
// to make the next calls fail.
type MockPresetStore struct {
	CreateErr error
	ListErr   error
	DeleteErr error
	RenameErr error
	// ReturnNil makes CreatePreset answer (nil, nil).
	ReturnNil bool
	// BeforeRespond runs before each mutating call returns.
	BeforeRespond func(op, id string)
	Presets       []model.Preset
	Requests      []model.CreatePresetRequest
	nextID        int
	mu            sync.Mutex
}

// NewMockPresetStore returns a store seeded with presets.
func NewMockPresetStore(presets ...model.Preset) *MockPresetStore {
	return &MockPresetStore{Presets: presets, nextID: len(presets)}
}

// ListPresets returns the stored presets.
func (m *MockPresetStore) ListPresets(_ context.Context) ([]model.Preset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]model.Preset, len(m.Presets))
	copy(out, m.Presets)
	return out, nil
}

// CreatePreset stores a preset with a generated id.
func (m *MockPresetStore) CreatePreset(_ context.Context, req model.CreatePresetRequest) (*model.Preset, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	if m.CreateErr != nil || m.ReturnNil {
		err := m.CreateErr
		m.mu.Unlock()
		return nil, err
	}
	m.nextID++
	p := model.Preset{
		ID:          fmt.Sprintf("preset-%d", m.nextID),
		Name:        req.Name,
		Adjustments: req.Adjustments.Clone(),
	}
	m.Presets = append(m.Presets, p)
	hook := m.BeforeRespond
	m.mu.Unlock()

	if hook != nil {
		hook("create", p.ID)
	}
	return &p, nil
}

// DeletePreset removes a preset.
func (m *MockPresetStore) DeletePreset(_ context.Context, id string) error {
	m.mu.Lock()
	if m.DeleteErr != nil {
		err := m.DeleteErr
		m.mu.Unlock()
		return err
	}
	for i, p := range m.Presets {
		if p.ID == id {
			m.Presets = append(m.Presets[:i], m.Presets[i+1:]...)
			break
		}
	}
	hook := m.BeforeRespond
	m.mu.Unlock()

	if hook != nil {
		hook("delete", id)
	}
	return nil
}

// RenamePreset renames a preset.
func (m *MockPresetStore) RenamePreset(_ context.Context, id, name string) error {
	m.mu.Lock()
	if m.RenameErr != nil {
		err := m.RenameErr
		m.mu.Unlock()
		return err
	}
	for i := range m.Presets {
		if m.Presets[i].ID == id {
			m.Presets[i].Name = name
		}
	}
	hook := m.BeforeRespond
	m.mu.Unlock()

	if hook != nil {
		hook("rename", id)
	}
	return nil
}

// MockRenderer records every pushed vector.
type MockRenderer struct {
	Err    error
	Pushes []RenderCall
	mu     sync.Mutex
}

// RenderCall is one recorded push.
type RenderCall struct {
	ImageID string
	Vector  model.AdjustmentVector
}

// Render records the push.
func (m *MockRenderer) Render(_ context.Context, imageID string, v model.AdjustmentVector) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Pushes = append(m.Pushes, RenderCall{ImageID: imageID, Vector: v})
	return m.Err
}

// Calls returns a copy of the recorded pushes.
func (m *MockRenderer) Calls() []RenderCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RenderCall, len(m.Pushes))
	copy(out, m.Pushes)
	return out
}

// MockNavigator counts back navigations.
type MockNavigator struct {
	Err   error
	Calls int
}

// NavigateBack records the call.
func (m *MockNavigator) NavigateBack(_ context.Context) error {
	m.Calls++
	return m.Err
}
