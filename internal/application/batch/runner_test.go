package batch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powercap-metrics/internal/application/batch"
)

type recordingLogger struct {
	mu     sync.Mutex
	infos  int
	errors int
}

func (l *recordingLogger) Info(string, ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos++
}

func (l *recordingLogger) Error(string, ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors++
}

type countingRecorder struct {
	failed int
}

func (c *countingRecorder) RecordsLoaded(int) {}
func (c *countingRecorder) RecordsSkipped(int) {}
func (c *countingRecorder) FileWritten(string) {}
func (c *countingRecorder) FileFailed() { c.failed++ }
func (c *countingRecorder) ChartRendered(string) {}
func (c *countingRecorder) ConfigWarning() {}

func TestRunContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}
	recorder := &countingRecorder{}
	runner := batch.New(logger, recorder)

	var seen []string
	report, err := runner.Run(context.Background(), []string{"a.json", "b.json", "c.json"}, func(_ context.Context, path string) error {
		seen = append(seen, path)
		if path == "b.json" {
			return errors.New("not an array")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.json", "c.json"}, seen)
	assert.Equal(t, []string{"a.json", "c.json"}, report.Processed)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "b.json", report.Failed[0].Path)
	assert.ErrorContains(t, report.Err(), "b.json: not an array")
	assert.Equal(t, 1, recorder.failed)
	assert.Equal(t, 2, logger.infos)
	assert.Equal(t, 1, logger.errors)
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := batch.New(nil, nil)
	report, err := runner.Run(ctx, []string{"a", "b", "c"}, func(_ context.Context, path string) error {
		if path == "a" {
			cancel()
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"a"}, report.Processed)
}

func TestReportErrNilWithoutFailures(t *testing.T) {
	t.Parallel()

	assert.NoError(t, batch.Report{Processed: []string{"a"}}.Err())
}

func TestDiscoverFiltersAndSorts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{
		"metrics_powercap_2.json",
		"metrics_powercap_1.json",
		"metrics_powercap_1_chirop-5.csv",
		"other.json",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "metrics_powercap_dir.json"), 0o755))

	paths, err := batch.Discover(dir, "metrics_powercap_", ".json")

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "metrics_powercap_1.json"),
		filepath.Join(dir, "metrics_powercap_2.json"),
	}, paths)
}

func TestDiscoverMissingDir(t *testing.T) {
	t.Parallel()

	_, err := batch.Discover(filepath.Join(t.TempDir(), "missing"), "x", ".json")

	assert.ErrorIs(t, err, os.ErrNotExist)
}
