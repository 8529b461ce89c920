package progress

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestNewTracker(t *testing.T) {
	tests := []struct {
		name  string
		label string
		total int
	}{
		{name: "standard tracker", label: "Analyzing files", total: 100},
		{name: "zero total", label: "Empty tree", total: 0},
		{name: "single item", label: "One file", total: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tracker := NewTracker(tt.label, tt.total, WithWriter(&buf))

			if tracker.bar == nil {
				t.Error("tracker.bar should not be nil")
			}
			if tracker.label != tt.label {
				t.Errorf("tracker.label = %q, want %q", tracker.label, tt.label)
			}
			tracker.FinishSuccess()
		})
	}
}

func TestNewSpinner(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewSpinner("Scanning", WithWriter(&buf))
	if tracker.bar == nil {
		t.Fatal("tracker.bar should not be nil")
	}
	for i := 0; i < 5; i++ {
		tracker.Tick()
	}
	tracker.FinishSuccess()
}

func TestTrackerTickConcurrent(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewTracker("Concurrent test", 1000, WithWriter(&buf))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tracker.TickFile("app.js")
			}
		}()
	}

	wg.Wait()
	tracker.FinishSuccess()
}

func TestTrackerFinishMessages(t *testing.T) {
	t.Run("skipped", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewTracker("Analyzing", 10, WithWriter(&buf))
		tracker.Tick()
		tracker.FinishSkipped("no files")
		if !strings.Contains(buf.String(), "Analyzing skipped (no files)") {
			t.Errorf("output = %q", buf.String())
		}
	})

	t.Run("error", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewTracker("Analyzing", 10, WithWriter(&buf))
		tracker.FinishError(errors.New("cancelled"))
		if !strings.Contains(buf.String(), "Analyzing error: cancelled") {
			t.Errorf("output = %q", buf.String())
		}
	})
}

func TestQuietTracker(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewTracker("Quiet", 10, WithWriter(&buf), WithQuiet(true))
	if tracker.bar != nil {
		t.Fatal("quiet tracker should not create a bar")
	}

	tracker.Tick()
	tracker.TickFile("a.js")
	tracker.FinishSuccess()
	tracker.FinishSuccess()

	if buf.Len() != 0 {
		t.Errorf("quiet tracker wrote %q", buf.String())
	}

	spinner := NewSpinner("Quiet", WithQuiet(true))
	spinner.Tick()
	spinner.FinishSuccess()
}
