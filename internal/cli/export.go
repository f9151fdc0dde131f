package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/Veraticus/honcho/internal/model"
	"gopkg.in/yaml.v3"
)

// PresetExport is the YAML document written by 'honcho presets export'.
type PresetExport struct {
	ExportedAt time.Time      `yaml:"exported_at"`
	Presets    []PresetRecord `yaml:"presets"`
}

// PresetRecord is one exported preset. Adjustments are keyed by field name.
type PresetRecord struct {
	Adjustments map[string]int `yaml:"adjustments"`
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
}

// NewPresetExport converts presets into their export form.
func NewPresetExport(presets []model.Preset, now time.Time) PresetExport {
	out := PresetExport{ExportedAt: now.UTC(), Presets: make([]PresetRecord, 0, len(presets))}
	for _, p := range presets {
		adj := make(map[string]int, len(p.Adjustments))
		for f, v := range p.Adjustments {
			adj[string(f)] = v
		}
		out.Presets = append(out.Presets, PresetRecord{ID: p.ID, Name: p.Name, Adjustments: adj})
	}
	return out
}

// ReadPresetExport parses an export document back into create requests,
// dropping unknown fields and clamping values.
func ReadPresetExport(r io.Reader) ([]model.CreatePresetRequest, error) {
	var doc PresetExport
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode preset export: %w", err)
	}
	reqs := make([]model.CreatePresetRequest, 0, len(doc.Presets))
	for _, p := range doc.Presets {
		patch := make(model.Patch, len(p.Adjustments))
		for name, v := range p.Adjustments {
			f, err := model.ParseField(name)
			if err != nil {
				continue
			}
			patch[f] = f.Bounds().Clamp(v)
		}
		reqs = append(reqs, model.CreatePresetRequest{Name: p.Name, Adjustments: patch})
	}
	return reqs, nil
}

// WriteYAML encodes v as a YAML document.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
