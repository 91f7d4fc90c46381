package progress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/byte4ever/pain/logging"
)

// Mode selects how progress is shown.
type Mode string

const (
	// ModeAuto draws bars on a terminal and logs otherwise.
	ModeAuto Mode = "auto"

	// ModeBars always draws bars.
	ModeBars Mode = "bars"

	// ModeLog always emits log records.
	ModeLog Mode = "log"

	// ModeOff shows nothing.
	ModeOff Mode = "off"
)

// ErrUnknownMode reports an unrecognized mode name.
var ErrUnknownMode = errors.New("unknown progress mode")

// ParseMode parses a mode name. The empty name means ModeAuto.
func ParseMode(name string) (Mode, error) {
	switch m := Mode(name); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeBars, ModeLog, ModeOff:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

// DefaultInterval is the sampling period of a Renderer.
const DefaultInterval = 200 * time.Millisecond

// Renderer periodically draws a tracker.
type Renderer struct {
	w        io.Writer
	tracker  *Tracker
	mode     Mode
	interval time.Duration
	logger   *slog.Logger

	bar   progress.Model
	label lipgloss.Style
	drawn int
}

// NewRenderer resolves ModeAuto against w and prepares the bar style.
func NewRenderer(
	w io.Writer,
	tracker *Tracker,
	mode Mode,
	logger *slog.Logger,
) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}

	if mode == ModeAuto || mode == "" {
		mode = ModeLog
		if logging.IsTerminal(w) {
			mode = ModeBars
		}
	}

	return &Renderer{
		w:        w,
		tracker:  tracker,
		mode:     mode,
		interval: DefaultInterval,
		logger:   logger,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
		),
		label: lipgloss.NewStyle().Bold(true).Width(14),
	}
}

// Mode returns the resolved mode.
func (r *Renderer) Mode() Mode {
	return r.mode
}

// Start renders in the background until the returned stop function is
// called. stop draws a final frame before returning.
func (r *Renderer) Start(ctx context.Context) func() {
	if r.mode == ModeOff {
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		r.run(ctx)
	}()

	return func() {
		cancel()
		wg.Wait()
	}
}

// run draws on every tick until ctx ends, then draws once more.
func (r *Renderer) run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Draw()

			return
		case <-ticker.C:
			r.Draw()
		}
	}
}

// Draw emits one frame.
func (r *Renderer) Draw() {
	snaps := r.tracker.Snapshots()

	switch r.mode {
	case ModeBars:
		r.drawBars(snaps)
	case ModeLog:
		for _, s := range snaps {
			r.logger.Info(
				"progress",
				"task", s.Name,
				"done", s.Done,
				"total", s.Total,
				"checked", s.Checked,
				"finished", s.Finished,
			)
		}
	default:
	}
}

// Frame renders the bar lines for snaps.
func (r *Renderer) Frame(snaps []Snapshot) string {
	var sb strings.Builder

	for _, s := range snaps {
		sb.WriteString(r.label.Render(s.Name))
		sb.WriteByte(' ')
		sb.WriteString(r.bar.ViewAs(s.Fraction()))
		fmt.Fprintf(
			&sb, " %d/%d [%s]\n",
			s.Done, s.Total, s.Elapsed.Truncate(time.Second),
		)
	}

	return sb.String()
}

// drawBars redraws the bar frame in place of the previous one.
func (r *Renderer) drawBars(snaps []Snapshot) {
	var sb strings.Builder

	// Move back over the previous frame and clear it.
	if r.drawn > 0 {
		fmt.Fprintf(&sb, "\x1b[%dA", r.drawn)
	}

	for _, line := range strings.SplitAfter(r.Frame(snaps), "\n") {
		if line == "" {
			continue
		}

		sb.WriteString("\x1b[2K")
		sb.WriteString(line)
	}

	r.drawn = len(snaps)

	_, _ = io.WriteString(r.w, sb.String()) //nolint:errcheck // best-effort display
}
