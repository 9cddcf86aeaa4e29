package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"powercap-metrics/internal/domain"
)

// Logger defines the logging behaviour required by the runner.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// Handler processes a single input file.
type Handler func(ctx context.Context, path string) error

// Failure records a file whose handler returned an error.
type Failure struct {
	Path string
	Err  error
}

// Report lists the outcome of a run in input order.
type Report struct {
	Processed []string
	Failed    []Failure
}

// Err joins every per-file failure, or returns nil.
func (r Report) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failed))
	for _, failure := range r.Failed {
		errs = append(errs, fmt.Errorf("%s: %w", failure.Path, failure.Err))
	}
	return errors.Join(errs...)
}

// Runner feeds files to a handler one at a time. A failing file is logged
// and the run moves on to the next one.
type Runner struct {
	logger   Logger
	recorder domain.RunRecorder
}

// New creates a runner. Both collaborators may be nil.
func New(logger Logger, recorder domain.RunRecorder) *Runner {
	return &Runner{logger: logger, recorder: recorder}
}

// Run processes paths in order. It only returns an error when ctx is done;
// per-file errors end up in the report.
func (r *Runner) Run(ctx context.Context, paths []string, handle Handler) (Report, error) {
	report := Report{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			r.log(true, "batch: context cancelled", "remaining", len(paths)-len(report.Processed)-len(report.Failed), "error", err.Error())
			return report, err
		}

		if err := handle(ctx, path); err != nil {
			report.Failed = append(report.Failed, Failure{Path: path, Err: err})
			if r.recorder != nil {
				r.recorder.FileFailed()
			}
			r.log(true, "batch: file failed", "path", path, "error", err.Error())
			continue
		}
		report.Processed = append(report.Processed, path)
		r.log(false, "batch: file processed", "path", path)
	}
	return report, nil
}

// Discover returns the files of dir whose names start with prefix and end
// with ext, sorted by name.
func Discover(dir, prefix, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("batch: read dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}

func (r *Runner) log(failed bool, msg string, args ...any) {
	if r.logger == nil {
		return
	}
	if failed {
		r.logger.Error(msg, args...)
		return
	}
	r.logger.Info(msg, args...)
}
