package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GradedPick is one row of the graded-prediction log contract. Grading
// itself (win/loss/push determination) is out of scope; this writer only
// guarantees an append-only, crash-safe sink an external grading job can
// tail.
type GradedPick struct {
	PickID     string  `json:"pick_id"`
	Sport      string  `json:"sport"`
	Tier       string  `json:"tier"`
	Units      float64 `json:"units"`
	FinalScore float64 `json:"final_score"`
	PublishedAtET string `json:"published_at_et"`
}

// GradedLogWriter appends newline-delimited JSON records to a single file,
// one record per published pick, never rewriting prior lines.
type GradedLogWriter struct {
	mu   sync.Mutex
	file *os.File
}

// NewGradedLogWriter opens path for append, creating it if necessary.
func NewGradedLogWriter(path string) (*GradedLogWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("persistence: opening graded log %s: %w", path, err)
	}
	return &GradedLogWriter{file: f}, nil
}

// Append writes one NDJSON record.
func (w *GradedLogWriter) Append(p GradedPick) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("persistence: encoding graded pick %s: %w", p.PickID, err)
	}
	if _, err := w.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("persistence: appending graded pick %s: %w", p.PickID, err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *GradedLogWriter) Close() error {
	return w.file.Close()
}
