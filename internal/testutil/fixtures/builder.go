package fixtures

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/honcho/internal/model"
	"github.com/Veraticus/honcho/internal/service"
)

// Store is what Build needs to seed data.
type Store interface {
	SaveImages(ctx context.Context, images []model.Image) error
	service.PresetStore
}

// Builder collects images and presets to seed.
type Builder interface {
	// WithImage adds one image with a derived source path.
	WithImage(id string) Builder

	// WithImages adds n images named img-1 through img-n.
	WithImages(n int) Builder

	// WithPreset adds a named preset.
	WithPreset(name PresetName) Builder

	// WithFixture adds everything a fixture lists.
	WithFixture(fixture Fixture) Builder

	// Build writes the collected data to store.
	Build(ctx context.Context, store Store) (Data, error)
}

// PresetName is one of the known preset looks.
type PresetName string

// Preset looks used across tests.
const (
	PresetWarm   PresetName = "Warm"
	PresetCool   PresetName = "Cool"
	PresetPunchy PresetName = "Punchy"
)

var presetLooks = map[PresetName]model.Patch{
	PresetWarm:   {model.FieldTemperature: 25, model.FieldTint: 5},
	PresetCool:   {model.FieldTemperature: -25, model.FieldVibrance: 10},
	PresetPunchy: {model.FieldContrast: 30, model.FieldClarity: 20, model.FieldSaturation: 15},
}

// Look returns the adjustments a preset fixture carries.
func (p PresetName) Look() model.Patch {
	return presetLooks[p].Clone()
}

// Data is what Build stored.
type Data struct {
	Images  []model.Image
	Presets []model.Preset
}

// ImageIDs lists the seeded image ids in insertion order.
func (d Data) ImageIDs() []string {
	ids := make([]string, len(d.Images))
	for i, img := range d.Images {
		ids[i] = img.ID
	}
	return ids
}

// MustPreset returns the stored preset with the given name or fails the test.
func (d Data) MustPreset(t *testing.T, name PresetName) model.Preset {
	t.Helper()
	for _, p := range d.Presets {
		if p.Name == string(name) {
			return p
		}
	}
	t.Fatalf("preset %q not found in test data", name)
	return model.Preset{}
}

type builder struct {
	t       *testing.T
	seen    map[string]bool
	images  []string
	presets []PresetName
}

// NewBuilder creates a builder for the given test.
func NewBuilder(t *testing.T) Builder {
	t.Helper()
	return &builder{t: t, seen: make(map[string]bool)}
}

func (b *builder) WithImage(id string) Builder {
	if !b.seen[id] {
		b.seen[id] = true
		b.images = append(b.images, id)
	}
	return b
}

func (b *builder) WithImages(n int) Builder {
	for i := 1; i <= n; i++ {
		b.WithImage(fmt.Sprintf("img-%d", i))
	}
	return b
}

func (b *builder) WithPreset(name PresetName) Builder {
	if _, ok := presetLooks[name]; !ok {
		b.t.Fatalf("unknown preset fixture %q", name)
	}
	b.presets = append(b.presets, name)
	return b
}

func (b *builder) WithFixture(fixture Fixture) Builder {
	for _, id := range fixture.Images() {
		b.WithImage(id)
	}
	for _, name := range fixture.Presets() {
		b.WithPreset(name)
	}
	return b
}

func (b *builder) Build(ctx context.Context, store Store) (Data, error) {
	var data Data

	// Spaced creation times keep catalog order equal to insertion order.
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range b.images {
		data.Images = append(data.Images, model.Image{
			ID:        id,
			Source:    "/photos/" + id + ".jpg",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}
	if len(data.Images) > 0 {
		if err := store.SaveImages(ctx, data.Images); err != nil {
			return Data{}, fmt.Errorf("failed to seed images: %w", err)
		}
	}

	for _, name := range b.presets {
		p, err := store.CreatePreset(ctx, model.CreatePresetRequest{Name: string(name), Adjustments: name.Look()})
		if err != nil {
			return Data{}, fmt.Errorf("failed to seed preset %q: %w", name, err)
		}
		data.Presets = append(data.Presets, *p)
	}
	return data, nil
}
