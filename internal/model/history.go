package model

import "time"

// HistoryEntry is an immutable snapshot committed to an image's undo stack.
type HistoryEntry struct {
	CommittedAt time.Time        `json:"committed_at" yaml:"committed_at"`
	Vector      AdjustmentVector `json:"vector" yaml:"vector"`
	Seq         uint64           `json:"seq" yaml:"seq"`
}

// HistorySnapshot is the persisted form of one image's undo stack.
type HistorySnapshot struct {
	Entries []HistoryEntry   `json:"entries" yaml:"entries"`
	Origin  AdjustmentVector `json:"origin" yaml:"origin"`
	Cursor  int              `json:"cursor" yaml:"cursor"`
}
