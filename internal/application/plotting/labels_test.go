package plotting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"powercap-metrics/internal/application/plotting"
	"powercap-metrics/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func int64Ptr(v int64) *int64 { return &v }

func TestLimitsNotes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Package: 15W"}, plotting.LimitsNotes(domain.PowerLimits{PackageWatts: floatPtr(15)}))
	assert.Equal(t, []string{"Package: 125W", "DRAM: 9W"},
		plotting.LimitsNotes(domain.PowerLimits{PackageWatts: floatPtr(125), DRAMWatts: floatPtr(8.6)}))
	assert.Equal(t, []string{"DRAM: 8W"}, plotting.LimitsNotes(domain.PowerLimits{PackageWatts: floatPtr(0), DRAMWatts: floatPtr(8)}))
	assert.Empty(t, plotting.LimitsNotes(domain.PowerLimits{DRAMWatts: floatPtr(0)}))
}

func TestPackageLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Package: 15W", plotting.PackageLabel(domain.PowerLimits{PackageWatts: floatPtr(15)}))
	assert.Equal(t, "", plotting.PackageLabel(domain.PowerLimits{}))
	assert.Equal(t, "Package: 2W", plotting.PackageLabel(domain.PowerLimits{PackageWatts: floatPtr(2.5)}))
	assert.Equal(t, "Package: 4W", plotting.PackageLabel(domain.PowerLimits{PackageWatts: floatPtr(3.5)}))
}

func TestTimeWindowLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "TW: 8.0 ms", plotting.TimeWindowLabel(domain.TimeWindow{Milliseconds: floatPtr(8)}))
	assert.Equal(t, "TW: 999.9 ms", plotting.TimeWindowLabel(domain.TimeWindow{Milliseconds: floatPtr(999.9)}))
	assert.Equal(t, "TW: 1.00 s", plotting.TimeWindowLabel(domain.TimeWindow{Milliseconds: floatPtr(1000)}))
	assert.Equal(t, "TW: 2.50 s", plotting.TimeWindowLabel(domain.TimeWindow{Milliseconds: floatPtr(2500)}))
	assert.Equal(t, "", plotting.TimeWindowLabel(domain.TimeWindow{}))
}

func TestTimeWindowLabelRoundsExactMicroseconds(t *testing.T) {
	t.Parallel()

	// 1.15 has no exact float64 form and would print as 1.1.
	assert.Equal(t, "TW: 1.2 ms", plotting.TimeWindowLabel(domain.TimeWindow{
		Microseconds: int64Ptr(1150), Milliseconds: floatPtr(1.15),
	}))
	assert.Equal(t, "TW: 1.2 ms", plotting.TimeWindowLabel(domain.TimeWindow{Microseconds: int64Ptr(1250)}))
	assert.Equal(t, "TW: 1.0 ms", plotting.TimeWindowLabel(domain.TimeWindow{Microseconds: int64Ptr(976)}))
	assert.Equal(t, "TW: 2.44 s", plotting.TimeWindowLabel(domain.TimeWindow{Microseconds: int64Ptr(2440000)}))
	assert.Equal(t, "TW: 1000.0 ms", plotting.TimeWindowLabel(domain.TimeWindow{Microseconds: int64Ptr(999999)}))
	assert.Equal(t, "", plotting.TimeWindowLabel(domain.TimeWindow{Microseconds: int64Ptr(0)}))
}
