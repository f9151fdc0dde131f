package fixtures

// Fixture is a predefined set of images and presets.
type Fixture interface {
	Name() string
	Images() []string
	Presets() []PresetName
}

type fixture struct {
	name    string
	images  []string
	presets []PresetName
}

func (f *fixture) Name() string          { return f.name }
func (f *fixture) Images() []string      { return f.images }
func (f *fixture) Presets() []PresetName { return f.presets }

// Predefined fixtures.
var (
	// FixtureRoll is a short roll of film with no presets.
	FixtureRoll = &fixture{
		name:   "Roll",
		images: []string{"img-1", "img-2", "img-3"},
	}

	// FixtureLooks is the full preset collection without images.
	FixtureLooks = &fixture{
		name:    "Looks",
		presets: []PresetName{PresetWarm, PresetCool, PresetPunchy},
	}

	// FixtureShoot is a roll plus the preset collection.
	FixtureShoot = &fixture{
		name:    "Shoot",
		images:  []string{"img-1", "img-2", "img-3", "img-4"},
		presets: []PresetName{PresetWarm, PresetCool, PresetPunchy},
	}
)
