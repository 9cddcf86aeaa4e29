package zoneconfig

import (
	"fmt"

	"powercap-metrics/internal/domain"
)

const (
	targetPackageLimit = "package_power_limit_uw"
	targetDRAMLimit    = "dram_power_limit_uw"
	targetTimeWindow   = "time_window_us"
)

var powerLimitScanner = Scanner{
	Zones: []ZoneMarker{
		{Marker: "name: package-", Zone: "package"},
		{Marker: "name: dram", Zone: "dram"},
	},
	Rules: []Rule{
		{Target: targetPackageLimit, Zone: "package", Arm: "long_term", Key: "power_limit_uw:", Adjacent: true},
		{Target: targetDRAMLimit, Zone: "dram", Arm: "long_term", Key: "power_limit_uw:", Adjacent: true},
	},
}

var timeWindowScanner = Scanner{
	Zones: []ZoneMarker{
		{Marker: "name: package-0", Zone: "package-0"},
	},
	Rules: []Rule{
		{Target: targetTimeWindow, Zone: "package-0", Arm: "name: long_term", Key: "time_window_us:", StopOnMatch: true},
	},
}

// ExtractPowerLimits returns the first long-term package and DRAM power
// limits, in watts. A power_limit_uw line only counts when the line right
// before it mentions long_term. On error both limits are absent.
func ExtractPowerLimits(lines []string) (domain.PowerLimits, error) {
	values, err := powerLimitScanner.Scan(lines)
	if err != nil {
		return domain.PowerLimits{}, fmt.Errorf("zoneconfig: power limits: %w", err)
	}

	var limits domain.PowerLimits
	if uw, ok := values[targetPackageLimit]; ok {
		limits.PackageWatts = microToUnit(uw)
	}
	if uw, ok := values[targetDRAMLimit]; ok {
		limits.DRAMWatts = microToUnit(uw)
	}
	return limits, nil
}

// ExtractTimeWindow returns the long-term time window of package-0. The scan
// stops at the first time_window_us line after the long_term block opens.
func ExtractTimeWindow(lines []string) (domain.TimeWindow, error) {
	values, err := timeWindowScanner.Scan(lines)
	if err != nil {
		return domain.TimeWindow{}, fmt.Errorf("zoneconfig: time window: %w", err)
	}

	us, ok := values[targetTimeWindow]
	if !ok {
		return domain.TimeWindow{}, nil
	}

	ms := float64(us) / 1e3
	return domain.TimeWindow{Microseconds: &us, Milliseconds: &ms}, nil
}

func microToUnit(v int64) *float64 {
	f := float64(v) / 1e6
	return &f
}
