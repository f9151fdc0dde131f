// Package fixtures seeds test databases with images and presets.
//
// A builder collects what a test needs and writes it in one go:
//
//	data, err := fixtures.NewBuilder(t).
//		WithFixture(fixtures.FixtureRoll).
//		WithPreset(fixtures.PresetWarm).
//		Build(ctx, store)
//
// Fixtures are fixed sets with stable ids, so assertions can name images
// directly. Presets get whatever id the store assigns; look them up by name
// with Data.MustPreset.
package fixtures
