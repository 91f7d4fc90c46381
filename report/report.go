package report

import (
	"fmt"
	"io"
	"os"
	"time"

	json "github.com/goccy/go-json"
)

// Summary describes one run.
type Summary struct {
	Command     string    `json:"command"`
	Input       string    `json:"input,omitempty"`
	Output      string    `json:"output,omitempty"`
	Algorithm   string    `json:"algorithm"`
	Compression string    `json:"compression,omitempty"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Pixels      int       `json:"pixels"`
	Workers     int       `json:"workers"`
	Chunks      int       `json:"chunks,omitempty"`
	Checked     uint64    `json:"candidates_checked,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	ElapsedMS   int64     `json:"elapsed_ms"`
	Error       string    `json:"error,omitempty"`
}

// Finish stamps the elapsed time since StartedAt and records err, if
// any.
func (s *Summary) Finish(err error) {
	s.ElapsedMS = time.Since(s.StartedAt).Milliseconds()

	if err != nil {
		s.Error = err.Error()
	}
}

// Encode writes s to w as indented JSON followed by a newline.
func Encode(w io.Writer, s Summary) error {
	const errCtx = "encoding report"

	data, err := json.MarshalIndent(&s, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// Write stores s at path, replacing any previous file.
func Write(path string, s Summary) (retErr error) {
	const errCtx = "writing report"

	f, err := os.Create(path) //nolint:gosec // path is caller-provided by design
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() {
		if err := f.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("%s: %w", errCtx, err)
		}
	}()

	if err := Encode(f, s); err != nil {
		return fmt.Errorf("%s: %s: %w", errCtx, path, err)
	}

	return nil
}
