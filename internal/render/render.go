// Package render provides Renderer collaborators for environments without a
// compositing engine attached.
package render

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Veraticus/honcho/internal/model"
	"github.com/Veraticus/honcho/internal/service"
)

var (
	_ service.Renderer = (*LogRenderer)(nil)
	_ service.Renderer = (*Recorder)(nil)
)

// LogRenderer logs every pushed vector.
type LogRenderer struct {
	logger *slog.Logger
}

// NewLogRenderer logs to logger, or to the default logger when nil.
func NewLogRenderer(logger *slog.Logger) *LogRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogRenderer{logger: logger}
}

// Render logs the non-rest fields of v.
func (r *LogRenderer) Render(ctx context.Context, imageID string, v model.AdjustmentVector) error {
	attrs := []any{"image_id", imageID}
	for _, f := range model.AllFields() {
		if value := v.Get(f); value != f.Bounds().Rest {
			attrs = append(attrs, string(f), value)
		}
	}
	if v.Crop.Ratio != model.RatioUnset {
		attrs = append(attrs, "ratio", string(v.Crop.Ratio))
	}
	r.logger.DebugContext(ctx, "Render vector", attrs...)
	return nil
}

// Recorder keeps the last vector pushed for each image.
type Recorder struct {
	last   map[string]model.AdjustmentVector
	order  []string
	pushes int
	mu     sync.Mutex
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{last: make(map[string]model.AdjustmentVector)}
}

// Render records v as imageID's current frame.
func (r *Recorder) Render(_ context.Context, imageID string, v model.AdjustmentVector) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.last[imageID]; !seen {
		r.order = append(r.order, imageID)
	}
	r.last[imageID] = v
	r.pushes++
	return nil
}

// Last returns the most recent vector pushed for imageID.
func (r *Recorder) Last(imageID string) (model.AdjustmentVector, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.last[imageID]
	return v, ok
}

// Pushes is the total number of Render calls.
func (r *Recorder) Pushes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pushes
}

// Images lists rendered image ids in first-push order.
func (r *Recorder) Images() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

// Tee fans a push out to several renderers and returns the first error.
type Tee []service.Renderer

// Render pushes to every renderer.
func (t Tee) Render(ctx context.Context, imageID string, v model.AdjustmentVector) error {
	var first error
	for _, r := range t {
		if err := r.Render(ctx, imageID, v); err != nil && first == nil {
			first = err
		}
	}
	return first
}
