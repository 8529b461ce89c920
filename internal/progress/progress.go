// Package progress renders file-analysis progress on the terminal.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a progress bar for file processing. A quiet tracker
// accepts every call and draws nothing.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
	w     io.Writer
}

// Option configures a Tracker.
type Option func(*settings)

type settings struct {
	w     io.Writer
	quiet bool
}

// WithWriter draws the bar on w instead of stderr.
func WithWriter(w io.Writer) Option {
	return func(s *settings) {
		s.w = w
	}
}

// WithQuiet disables drawing.
func WithQuiet(quiet bool) Option {
	return func(s *settings) {
		s.quiet = quiet
	}
}

func apply(opts []Option) settings {
	s := settings{w: os.Stderr}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// NewSpinner creates a spinner for operations with unknown total count.
func NewSpinner(label string, opts ...Option) *Tracker {
	s := apply(opts)
	t := &Tracker{label: label, w: s.w}
	if s.quiet {
		return t
	}
	t.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(s.w),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return t
}

// NewTracker creates a progress bar with the given label and total count.
func NewTracker(label string, total int, opts ...Option) *Tracker {
	s := apply(opts)
	t := &Tracker{label: label, w: s.w}
	if s.quiet {
		return t
	}
	t.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(s.w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return t
}

// Tick increments the progress by 1. Safe for concurrent use.
func (t *Tracker) Tick() {
	if t.bar != nil {
		t.bar.Add(1)
	}
}

// TickFile counts one finished file. Its signature matches the per-file
// progress callbacks of the analyzers.
func (t *Tracker) TickFile(string) {
	t.Tick()
}

// FinishSuccess clears the bar completely (no output).
func (t *Tracker) FinishSuccess() {
	t.clear()
}

// FinishSkipped clears the bar and prints a skip message.
func (t *Tracker) FinishSkipped(reason string) {
	t.clear()
	fmt.Fprintf(t.w, "  %s skipped (%s)\n", t.label, reason)
}

// FinishError clears the bar and prints an error message.
func (t *Tracker) FinishError(err error) {
	t.clear()
	fmt.Fprintf(t.w, "  %s error: %v\n", t.label, err)
}

func (t *Tracker) clear() {
	if t.bar == nil {
		return
	}
	t.bar.Finish()
	t.bar.Clear()
}
