package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Recorder captures TUI state changes and renders for debugging.
type Recorder struct {
	logFile  *os.File
	frameDir string
	frameNum int
	enabled  bool
	once     sync.Once
}

// NewRecorder creates a TUI state recorder.
func NewRecorder(enabled bool) *Recorder {
	if !enabled {
		return &Recorder{enabled: false}
	}
	return newRecorderIn(filepath.Join(os.TempDir(), fmt.Sprintf("honcho-tui-%d", time.Now().Unix())))
}

func newRecorderIn(recordDir string) *Recorder {
	if err := os.MkdirAll(recordDir, 0750); err != nil {
		return &Recorder{enabled: false}
	}

	logPath := filepath.Join(recordDir, "tui.log")
	logFile, err := os.Create(filepath.Clean(logPath)) // #nosec G304 -- safe constructed path
	if err != nil {
		return &Recorder{enabled: false}
	}

	r := &Recorder{
		enabled:  true,
		logFile:  logFile,
		frameDir: recordDir,
	}
	r.Log("TUI Recorder started at %s", recordDir)
	return r
}

// Dir returns the directory frames are written to.
func (r *Recorder) Dir() string {
	return r.frameDir
}

// RecordState captures the current state.
func (r *Recorder) RecordState(m Model, msg tea.Msg) {
	if r == nil || !r.enabled {
		return
	}

	r.frameNum++

	r.Log("\n=== Frame %d ===", r.frameNum)
	r.Log("Time: %s", time.Now().Format("15:04:05.000"))
	r.Log("Message Type: %T", msg)
	r.Log("State: %v", m.state)
	r.Log("Context: %s", m.view.Context)
	r.Log("Active: %s", m.view.ActiveID)
	r.Log("Selected: %d images", len(m.view.Selected))

	view := m.View()
	framePath := filepath.Join(r.frameDir, fmt.Sprintf("frame-%04d.txt", r.frameNum))
	if err := os.WriteFile(framePath, []byte(view), 0600); err != nil {
		r.Log("Error saving frame: %v", err)
	}
}

// Log writes to the log file.
func (r *Recorder) Log(format string, args ...any) {
	if r == nil || !r.enabled || r.logFile == nil {
		return
	}

	if _, err := fmt.Fprintf(r.logFile, format+"\n", args...); err != nil {
		return
	}
	if err := r.logFile.Sync(); err != nil {
		return
	}
}

// Close closes the recorder. It is safe to call more than once.
func (r *Recorder) Close() {
	if r == nil || r.logFile == nil {
		return
	}
	r.once.Do(func() {
		r.Log("Recording complete. %d frames captured.", r.frameNum)
		r.Log("View recording at: %s", r.frameDir)
		_ = r.logFile.Close()
		r.enabled = false
	})
}
