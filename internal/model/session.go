package model

// ImageSnapshot is the persisted state of one loaded image.
type ImageSnapshot struct {
	Image   Image            `json:"image" yaml:"image"`
	History HistorySnapshot  `json:"history" yaml:"history"`
	Vector  AdjustmentVector `json:"vector" yaml:"vector"`
}

// SessionSnapshot is everything needed to resume an editing session.
type SessionSnapshot struct {
	SelectedPresets map[EditContext]string `json:"selected_presets,omitempty" yaml:"selected_presets,omitempty"`
	Clipboard       Patch                  `json:"clipboard,omitempty" yaml:"clipboard,omitempty"`
	ActiveID        string                 `json:"active_id,omitempty" yaml:"active_id,omitempty"`
	Images          []ImageSnapshot        `json:"images" yaml:"images"`
	Selected        []string               `json:"selected,omitempty" yaml:"selected,omitempty"`
	Seq             uint64                 `json:"seq" yaml:"seq"`
}
