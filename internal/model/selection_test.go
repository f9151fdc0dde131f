package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorySelection_GroupState(t *testing.T) {
	tests := []struct {
		name  string
		sel   CategorySelection
		group Group
		want  CheckState
	}{
		{name: "empty", sel: NoFields, group: GroupColor, want: Unchecked},
		{name: "one child", sel: SelectionOf(FieldTint), group: GroupColor, want: Indeterminate},
		{name: "all children", sel: SelectionOf(FieldClarity, FieldSharpness), group: GroupDetails, want: Checked},
		{name: "other group ignored", sel: SelectionOf(FieldExposure), group: GroupColor, want: Unchecked},
		{name: "everything", sel: AllCategories(), group: GroupLight, want: Checked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sel.GroupState(tt.group))
		})
	}
}

func TestCategorySelection_ToggleGroupFromIndeterminate(t *testing.T) {
	sel := SelectionOf(FieldExposure, FieldShadows)
	require.Equal(t, Indeterminate, sel.GroupState(GroupLight))

	sel = sel.ToggleGroup(GroupLight)
	assert.Equal(t, Checked, sel.GroupState(GroupLight))
	for _, f := range GroupLight.Fields() {
		assert.True(t, sel.Has(f), "%s should be checked", f)
	}

	sel = sel.ToggleGroup(GroupLight)
	assert.Equal(t, Unchecked, sel.GroupState(GroupLight))
	assert.True(t, sel.IsEmpty())
}

func TestCategorySelection_ToggleChildRecomputesParent(t *testing.T) {
	sel := NoFields.SetGroup(GroupColor, true)
	require.Equal(t, Checked, sel.GroupState(GroupColor))

	sel = sel.Toggle(FieldVibrance)
	assert.Equal(t, Indeterminate, sel.GroupState(GroupColor))

	sel = sel.Toggle(FieldVibrance)
	assert.Equal(t, Checked, sel.GroupState(GroupColor))
}

func TestCategorySelection_IgnoresRotation(t *testing.T) {
	sel := SelectionOf(FieldRotation)
	assert.True(t, sel.IsEmpty())
	assert.False(t, sel.Has(FieldRotation))
}

func TestParseSelection(t *testing.T) {
	sel, err := ParseSelection("color, clarity")
	require.NoError(t, err)
	assert.Equal(t, []Field{FieldTemperature, FieldTint, FieldVibrance, FieldSaturation, FieldClarity}, sel.Fields())

	sel, err = ParseSelection("all")
	require.NoError(t, err)
	assert.Equal(t, AllCategories(), sel)

	_, err = ParseSelection("rotation")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = ParseSelection("hue")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestCaptureAndApplyPatch(t *testing.T) {
	source := Identity().With(FieldTemperature, 30).With(FieldTint, -12).With(FieldExposure, 55)
	patch := Capture(source, SelectionOf(FieldTemperature, FieldTint))

	assert.Equal(t, Patch{FieldTemperature: 30, FieldTint: -12}, patch)
	_, hasExposure := patch[FieldExposure]
	assert.False(t, hasExposure, "unselected fields must be absent, not zero")

	target := Identity().With(FieldExposure, 40)
	got := patch.ApplyTo(target)
	assert.Equal(t, 40, got.Exposure)
	assert.Equal(t, 30, got.Temperature)
	assert.Equal(t, -12, got.Tint)
	assert.Equal(t, []Field{FieldTemperature, FieldTint}, patch.Fields())
	assert.Equal(t, SelectionOf(FieldTemperature, FieldTint), patch.Selection())
}

func TestPatch_ApplyToClamps(t *testing.T) {
	got := Patch{FieldSaturation: 250}.ApplyTo(Identity())
	assert.Equal(t, 100, got.Saturation)
}
