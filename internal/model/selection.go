package model

import (
	"fmt"
	"strings"
)

// Group is a copy/paste category.
type Group string

const (
	// GroupColor covers temperature, tint, vibrance and saturation.
	GroupColor Group = "color"
	// GroupLight covers exposure through blacks.
	GroupLight Group = "light"
	// GroupDetails covers clarity and sharpness.
	GroupDetails Group = "details"
)

var groupFields = map[Group][]Field{
	GroupColor:   {FieldTemperature, FieldTint, FieldVibrance, FieldSaturation},
	GroupLight:   {FieldExposure, FieldContrast, FieldHighlights, FieldShadows, FieldWhites, FieldBlacks},
	GroupDetails: {FieldClarity, FieldSharpness},
}

// Groups returns the categories in display order.
func Groups() []Group {
	return []Group{GroupColor, GroupLight, GroupDetails}
}

// Fields returns the member fields of g.
func (g Group) Fields() []Field {
	src := groupFields[g]
	out := make([]Field, len(src))
	copy(out, src)
	return out
}

// GroupOf returns the category containing f.
func GroupOf(f Field) (Group, bool) {
	for _, g := range Groups() {
		for _, gf := range groupFields[g] {
			if gf == f {
				return g, true
			}
		}
	}
	return "", false
}

// ParseGroup validates a category name.
func ParseGroup(s string) (Group, error) {
	g := Group(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := groupFields[g]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownGroup, s)
	}
	return g, nil
}

// CheckState is the derived tri-state of a group checkbox.
type CheckState int

const (
	// Unchecked means no child is selected.
	Unchecked CheckState = iota
	// Indeterminate means some but not all children are selected.
	Indeterminate
	// Checked means every child is selected.
	Checked
)

func (s CheckState) String() string {
	switch s {
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unchecked"
	}
}

// CategorySelection is the flat set of scored fields chosen for copy or preset
// capture, stored as a bitset indexed by ScoredFields order. Group state is
// always derived from it.
type CategorySelection uint16

// NoFields selects nothing.
const NoFields CategorySelection = 0

// AllCategories selects every scored field.
func AllCategories() CategorySelection {
	return CategorySelection(1<<len(scoredFields) - 1)
}

// SelectionOf builds a selection from fields; non-scored fields are ignored.
func SelectionOf(fields ...Field) CategorySelection {
	var s CategorySelection
	for _, f := range fields {
		s = s.With(f)
	}
	return s
}

// Has reports whether f is selected.
func (s CategorySelection) Has(f Field) bool {
	i := f.index()
	return i >= 0 && s&(1<<i) != 0
}

// With returns s with f selected.
func (s CategorySelection) With(f Field) CategorySelection {
	if i := f.index(); i >= 0 {
		return s | 1<<i
	}
	return s
}

// Without returns s with f cleared.
func (s CategorySelection) Without(f Field) CategorySelection {
	if i := f.index(); i >= 0 {
		return s &^ (1 << i)
	}
	return s
}

// Toggle flips a single child.
func (s CategorySelection) Toggle(f Field) CategorySelection {
	if s.Has(f) {
		return s.Without(f)
	}
	return s.With(f)
}

// GroupState derives the parent checkbox state of g.
func (s CategorySelection) GroupState(g Group) CheckState {
	fields := groupFields[g]
	n := 0
	for _, f := range fields {
		if s.Has(f) {
			n++
		}
	}
	switch {
	case n == 0:
		return Unchecked
	case n == len(fields):
		return Checked
	default:
		return Indeterminate
	}
}

// SetGroup sets every child of g to checked.
func (s CategorySelection) SetGroup(g Group, checked bool) CategorySelection {
	for _, f := range groupFields[g] {
		if checked {
			s = s.With(f)
		} else {
			s = s.Without(f)
		}
	}
	return s
}

// ToggleGroup clicks the parent checkbox: a checked parent clears all
// children, an unchecked or indeterminate one checks them all.
func (s CategorySelection) ToggleGroup(g Group) CategorySelection {
	return s.SetGroup(g, s.GroupState(g) != Checked)
}

// Fields lists the selected fields in display order.
func (s CategorySelection) Fields() []Field {
	var out []Field
	for _, f := range scoredFields {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// IsEmpty reports whether nothing is selected.
func (s CategorySelection) IsEmpty() bool {
	return s == NoFields
}

// ParseSelection accepts a comma separated list of field or group names.
func ParseSelection(spec string) (CategorySelection, error) {
	var s CategorySelection
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "all" {
			s = AllCategories()
			continue
		}
		if g, err := ParseGroup(part); err == nil {
			s = s.SetGroup(g, true)
			continue
		}
		f, err := ParseField(part)
		if err != nil {
			return NoFields, err
		}
		if !f.IsScored() {
			return NoFields, fmt.Errorf("%w: %s cannot be copied", ErrUnknownField, f)
		}
		s = s.With(f)
	}
	return s, nil
}
