package editor

import (
	"testing"

	"github.com/Veraticus/honcho/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestAdjustmentStore_SetClampsToBounds(t *testing.T) {
	raws := []int{-100000, -361, -360, -101, -100, -1, 0, 1, 99, 100, 101, 360, 361, 100000}

	for _, f := range model.AllFields() {
		s := NewAdjustmentStore(model.Identity())
		b := f.Bounds()
		for _, raw := range raws {
			got, _ := s.Set(f, raw)
			assert.GreaterOrEqual(t, got, b.Min, "%s <- %d", f, raw)
			assert.LessOrEqual(t, got, b.Max, "%s <- %d", f, raw)
			assert.Equal(t, got, s.Get(f))
		}
	}
}

func TestAdjustmentStore_SetRaw(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		start       int
		want        int
		wantChanged bool
	}{
		{name: "number", raw: "25", start: 0, want: 25, wantChanged: true},
		{name: "lone minus keeps value", raw: "-", start: 30, want: 30, wantChanged: false},
		{name: "lone plus keeps value", raw: "+", start: 30, want: 30, wantChanged: false},
		{name: "garbage rests to zero", raw: "abc", start: 30, want: 0, wantChanged: true},
		{name: "out of range clamps", raw: "250", start: 0, want: 100, wantChanged: true},
		{name: "same value is unchanged", raw: "30", start: 30, want: 30, wantChanged: false},
		{name: "float overflow clamps to max", raw: "1e400", start: 0, want: 100, wantChanged: true},
		{name: "negative float overflow clamps to min", raw: "-1e400", start: 0, want: -100, wantChanged: true},
		{name: "inf rests to zero", raw: "inf", start: 30, want: 0, wantChanged: true},
		{name: "infinity rests to zero", raw: "Infinity", start: 30, want: 0, wantChanged: true},
		{name: "nan rests to zero", raw: "nan", start: 30, want: 0, wantChanged: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAdjustmentStore(model.Identity().With(model.FieldContrast, tt.start))
			got, changed := s.SetRaw(model.FieldContrast, tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestAdjustmentStore_Reset(t *testing.T) {
	s := NewAdjustmentStore(model.AdjustmentVector{Tint: 12, Clarity: -4, Crop: model.Crop{Ratio: model.RatioSquare}})

	assert.True(t, s.Reset(model.FieldTint))
	assert.Equal(t, 0, s.Get(model.FieldTint))
	assert.False(t, s.Reset(model.FieldTint))

	assert.True(t, s.ResetAll())
	assert.True(t, s.Vector().IsIdentity())
	assert.False(t, s.ResetAll())
}

func TestAdjustmentStore_Crop(t *testing.T) {
	s := NewAdjustmentStore(model.Identity())

	assert.True(t, s.SetCrop(1920, -5))
	assert.Equal(t, model.Crop{Width: 1920}, s.Vector().Crop)
	assert.False(t, s.SetCrop(1920, 0))

	assert.True(t, s.SetRatio(model.Ratio16x9))
	assert.Equal(t, model.Ratio16x9, s.Vector().Crop.Ratio)
}

func TestAdjustmentStore_LoadClamps(t *testing.T) {
	s := NewAdjustmentStore(model.Identity())
	s.Load(model.AdjustmentVector{Whites: 900})
	assert.Equal(t, 100, s.Get(model.FieldWhites))
}
