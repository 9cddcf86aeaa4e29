package zoneconfig

import (
	"bufio"
	"fmt"
	"os"

	"powercap-metrics/internal/domain"
)

// Logger defines the logging behaviour required by the loaders.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Loader reads device config dumps and never fails: problems are logged as
// warnings and yield absent values.
type Loader struct {
	logger   Logger
	recorder domain.RunRecorder
}

// NewLoader creates a loader. Both collaborators may be nil.
func NewLoader(logger Logger, recorder domain.RunRecorder) *Loader {
	return &Loader{logger: logger, recorder: recorder}
}

// PowerLimits loads the package and DRAM limits from path.
func (l *Loader) PowerLimits(path string) domain.PowerLimits {
	lines, err := ReadLines(path)
	if err == nil {
		var limits domain.PowerLimits
		limits, err = ExtractPowerLimits(lines)
		if err == nil {
			l.info("power limits loaded", "path", path,
				"package_watts", optional(limits.PackageWatts), "dram_watts", optional(limits.DRAMWatts))
			return limits
		}
	}

	l.warn("cannot read power limits", path, err)
	return domain.PowerLimits{}
}

// TimeWindow loads the package-0 long-term time window from path.
func (l *Loader) TimeWindow(path string) domain.TimeWindow {
	lines, err := ReadLines(path)
	if err == nil {
		var window domain.TimeWindow
		window, err = ExtractTimeWindow(lines)
		if err == nil {
			if window.Microseconds == nil {
				l.warn("time window not found", path, nil)
			} else {
				l.info("time window loaded", "path", path,
					"time_window_us", *window.Microseconds, "time_window_ms", *window.Milliseconds)
			}
			return window
		}
	}

	l.warn("cannot read time window", path, err)
	return domain.TimeWindow{}
}

// ReadLines returns the lines of a text file. The file is closed on every
// path.
func ReadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("zoneconfig: open: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("zoneconfig: read %s: %w", path, err)
	}
	return lines, nil
}

func (l *Loader) info(msg string, args ...any) {
	if l.logger == nil {
		return
	}
	l.logger.Info(msg, args...)
}

func (l *Loader) warn(msg, path string, err error) {
	if l.recorder != nil {
		l.recorder.ConfigWarning()
	}
	if l.logger == nil {
		return
	}
	args := []any{"path", path}
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.logger.Warn(msg, args...)
}

func optional(v *float64) any {
	if v == nil {
		return "absent"
	}
	return *v
}
