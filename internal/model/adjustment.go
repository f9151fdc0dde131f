// Package model defines the edit-session domain: adjustment vectors, category
// selections, patches, presets, history entries and session snapshots.
package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field names a single numeric adjustment parameter.
type Field string

const (
	// FieldTemperature shifts white balance between blue and amber.
	FieldTemperature Field = "temperature"
	// FieldTint shifts white balance between green and magenta.
	FieldTint Field = "tint"
	// FieldVibrance boosts muted colors.
	FieldVibrance Field = "vibrance"
	// FieldSaturation scales all colors uniformly.
	FieldSaturation Field = "saturation"
	// FieldExposure brightens or darkens the whole image.
	FieldExposure Field = "exposure"
	// FieldContrast widens or narrows the tonal range.
	FieldContrast Field = "contrast"
	// FieldHighlights recovers or lifts bright regions.
	FieldHighlights Field = "highlights"
	// FieldShadows recovers or deepens dark regions.
	FieldShadows Field = "shadows"
	// FieldWhites sets the white point.
	FieldWhites Field = "whites"
	// FieldBlacks sets the black point.
	FieldBlacks Field = "blacks"
	// FieldClarity adjusts midtone local contrast.
	FieldClarity Field = "clarity"
	// FieldSharpness adjusts edge sharpening.
	FieldSharpness Field = "sharpness"
	// FieldRotation is the rotation angle in degrees.
	FieldRotation Field = "rotation"
)

// Bounds describes the legal range of a field.
type Bounds struct {
	Min  int
	Max  int
	Step int
	Rest int
}

// Clamp forces v into [Min, Max].
func (b Bounds) Clamp(v int) int {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

var (
	scoreBounds    = Bounds{Min: -100, Max: 100, Step: 1, Rest: 0}
	rotationBounds = Bounds{Min: -360, Max: 360, Step: 1, Rest: 0}

	scoredFields = []Field{
		FieldTemperature, FieldTint, FieldVibrance, FieldSaturation,
		FieldExposure, FieldContrast, FieldHighlights, FieldShadows, FieldWhites, FieldBlacks,
		FieldClarity, FieldSharpness,
	}
)

// ScoredFields returns the twelve slider fields in display order.
func ScoredFields() []Field {
	out := make([]Field, len(scoredFields))
	copy(out, scoredFields)
	return out
}

// AllFields returns every bounded field, scored fields first.
func AllFields() []Field {
	return append(ScoredFields(), FieldRotation)
}

// Bounds returns the declared range of the field.
func (f Field) Bounds() Bounds {
	if f == FieldRotation {
		return rotationBounds
	}
	return scoreBounds
}

// Valid reports whether f is a known field.
func (f Field) Valid() bool {
	return f == FieldRotation || f.index() >= 0
}

// IsScored reports whether f is one of the twelve slider fields.
func (f Field) IsScored() bool {
	return f.index() >= 0
}

func (f Field) index() int {
	for i, sf := range scoredFields {
		if sf == f {
			return i
		}
	}
	return -1
}

// ParseField converts user input into a Field.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
	return f, nil
}

// ParseValue interprets raw text-field input. A lone sign or empty input is a
// partial entry and reports ok=false. Numbers too large for a float saturate;
// anything else unparsable, including "inf" and "nan" spelled out, yields 0.
func ParseValue(raw string) (value int, ok bool) {
	s := strings.TrimSpace(raw)
	switch s {
	case "", "+", "-":
		return 0, false
	}
	switch strings.ToLower(strings.TrimLeft(s, "+-")) {
	case "inf", "infinity", "nan":
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, true
	}
	if math.IsInf(f, 1) || f > math.MaxInt32 {
		return math.MaxInt32, true
	}
	if math.IsInf(f, -1) || f < math.MinInt32 {
		return math.MinInt32, true
	}
	return int(math.Round(f)), true
}

// AspectRatio is the crop ratio selector.
type AspectRatio string

// Aspect ratio tags. The zero value means no ratio has been chosen.
const (
	RatioUnset    AspectRatio = ""
	RatioPortrait AspectRatio = "portrait"
	RatioWide     AspectRatio = "wide"
	RatioOriginal AspectRatio = "original"
	RatioFreeform AspectRatio = "freeform"
	RatioSquare   AspectRatio = "1:1"
	Ratio3x2      AspectRatio = "3:2"
	Ratio2x3      AspectRatio = "2:3"
	Ratio16x9     AspectRatio = "16:9"
	Ratio9x16     AspectRatio = "9:16"
	RatioCustom   AspectRatio = "custom"
)

// Valid reports whether r is a known ratio tag. RatioUnset is valid.
func (r AspectRatio) Valid() bool {
	switch r {
	case RatioUnset, RatioPortrait, RatioWide, RatioOriginal, RatioFreeform,
		RatioSquare, Ratio3x2, Ratio2x3, Ratio16x9, Ratio9x16, RatioCustom:
		return true
	}
	return false
}

// ParseAspectRatio validates a ratio tag.
func ParseAspectRatio(s string) (AspectRatio, error) {
	r := AspectRatio(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRatio, s)
	}
	return r, nil
}

// Crop is the crop target. Width and Height are pixels; 0 means uncropped.
type Crop struct {
	Ratio  AspectRatio `json:"ratio,omitempty" yaml:"ratio,omitempty"`
	Width  int         `json:"width,omitempty" yaml:"width,omitempty"`
	Height int         `json:"height,omitempty" yaml:"height,omitempty"`
}

// AdjustmentVector is the full set of edit parameters for one image. It is a
// value type; copies never share state.
type AdjustmentVector struct {
	Crop        Crop `json:"crop" yaml:"crop"`
	Temperature int  `json:"temperature" yaml:"temperature"`
	Tint        int  `json:"tint" yaml:"tint"`
	Vibrance    int  `json:"vibrance" yaml:"vibrance"`
	Saturation  int  `json:"saturation" yaml:"saturation"`
	Exposure    int  `json:"exposure" yaml:"exposure"`
	Contrast    int  `json:"contrast" yaml:"contrast"`
	Highlights  int  `json:"highlights" yaml:"highlights"`
	Shadows     int  `json:"shadows" yaml:"shadows"`
	Whites      int  `json:"whites" yaml:"whites"`
	Blacks      int  `json:"blacks" yaml:"blacks"`
	Clarity     int  `json:"clarity" yaml:"clarity"`
	Sharpness   int  `json:"sharpness" yaml:"sharpness"`
	Rotation    int  `json:"rotation" yaml:"rotation"`
}

// Identity returns the default vector with every field at rest.
func Identity() AdjustmentVector {
	return AdjustmentVector{}
}

func (v *AdjustmentVector) ref(f Field) *int {
	switch f {
	case FieldTemperature:
		return &v.Temperature
	case FieldTint:
		return &v.Tint
	case FieldVibrance:
		return &v.Vibrance
	case FieldSaturation:
		return &v.Saturation
	case FieldExposure:
		return &v.Exposure
	case FieldContrast:
		return &v.Contrast
	case FieldHighlights:
		return &v.Highlights
	case FieldShadows:
		return &v.Shadows
	case FieldWhites:
		return &v.Whites
	case FieldBlacks:
		return &v.Blacks
	case FieldClarity:
		return &v.Clarity
	case FieldSharpness:
		return &v.Sharpness
	case FieldRotation:
		return &v.Rotation
	}
	return nil
}

// Get returns the value of f, or 0 for an unknown field.
func (v AdjustmentVector) Get(f Field) int {
	if p := v.ref(f); p != nil {
		return *p
	}
	return 0
}

// With returns a copy of v with f set to the clamped value.
func (v AdjustmentVector) With(f Field, value int) AdjustmentVector {
	if p := v.ref(f); p != nil {
		*p = f.Bounds().Clamp(value)
	}
	return v
}

// Clamped returns v with every field forced into its bounds and an unknown
// ratio tag reset to RatioUnset.
func (v AdjustmentVector) Clamped() AdjustmentVector {
	for _, f := range AllFields() {
		v = v.With(f, v.Get(f))
	}
	if v.Crop.Width < 0 {
		v.Crop.Width = 0
	}
	if v.Crop.Height < 0 {
		v.Crop.Height = 0
	}
	if !v.Crop.Ratio.Valid() {
		v.Crop.Ratio = RatioUnset
	}
	return v
}

// HasEdits reports whether any scored field differs from rest.
func (v AdjustmentVector) HasEdits() bool {
	for _, f := range scoredFields {
		if v.Get(f) != f.Bounds().Rest {
			return true
		}
	}
	return false
}

// IsIdentity reports whether every field, crop included, is at rest.
func (v AdjustmentVector) IsIdentity() bool {
	return v == Identity()
}
