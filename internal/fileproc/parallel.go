// Package fileproc provides concurrent file processing utilities.
package fileproc

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// ErrPanic wraps a panic recovered while processing one file.
var ErrPanic = errors.New("panic while processing file")

// ProcessingError represents an error that occurred while processing a file.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e ProcessingError) Unwrap() error {
	return e.Err
}

// ProcessingErrors collects multiple file processing errors.
type ProcessingErrors struct {
	Errors []ProcessingError
	mu     sync.Mutex
}

// Add appends an error to the collection (thread-safe).
func (e *ProcessingErrors) Add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors returns true if any errors were collected.
func (e *ProcessingErrors) HasErrors() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

// Error implements the error interface.
func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d files failed to process (first: %v)", len(e.Errors), e.Errors[0])
}

// ProgressFunc is called after each file is processed.
type ProgressFunc func(path string)

// Outcome is the result slot of one file.
type Outcome[T any] struct {
	Path  string
	Value T
	// Err is a *ProcessingError when the file failed.
	Err error
	// Skipped is set when the context was cancelled before the file started.
	Skipped bool
}

// Options configures MapOrdered.
type Options struct {
	// Workers bounds concurrency. Values <= 0 mean runtime.NumCPU().
	Workers    int
	OnProgress ProgressFunc
}

// MapOrdered runs fn over files on a bounded worker pool. The result slice
// is index-aligned with files, so callers merge in input order regardless of
// completion order. Each task writes only its own slot.
//
// A failing or panicking file is recorded in its slot and never stops the
// other files. Once ctx is cancelled no new file is started; files that
// never started are marked Skipped.
func MapOrdered[T any](ctx context.Context, files []string, opts Options, fn func(ctx context.Context, path string) (T, error)) []Outcome[T] {
	results := make([]Outcome[T], len(files))
	if len(files) == 0 {
		return results
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx)
	next := 0
	for ; next < len(files); next++ {
		if ctx.Err() != nil {
			break
		}
		i, path := next, files[next]
		results[i].Path = path
		p.Go(func(ctx context.Context) error {
			if ctx.Err() != nil {
				results[i].Skipped = true
				return nil
			}
			value, err := runRecovered(ctx, path, fn)
			if err != nil {
				results[i].Err = &ProcessingError{Path: path, Err: err}
			} else {
				results[i].Value = value
			}
			if opts.OnProgress != nil {
				opts.OnProgress(path)
			}
			return nil
		})
	}
	_ = p.Wait() // tasks never return errors

	for ; next < len(files); next++ {
		results[next].Path = files[next]
		results[next].Skipped = true
	}
	return results
}

func runRecovered[T any](ctx context.Context, path string, fn func(context.Context, string) (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn(ctx, path)
}

// Collect gathers the failed outcomes into a ProcessingErrors, or nil.
func Collect[T any](outcomes []Outcome[T]) *ProcessingErrors {
	errs := &ProcessingErrors{}
	for _, o := range outcomes {
		var pe *ProcessingError
		if errors.As(o.Err, &pe) {
			errs.Add(pe.Path, pe.Err)
		}
	}
	if !errs.HasErrors() {
		return nil
	}
	return errs
}
