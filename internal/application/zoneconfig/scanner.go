package zoneconfig

import (
	"fmt"
	"strconv"
	"strings"
)

// ZoneMarker switches the current zone when a line contains Marker.
type ZoneMarker struct {
	Marker string
	Zone   string
}

// Rule captures the integer value of the first Key line that follows an Arm
// line inside Zone.
type Rule struct {
	Target string
	Zone   string
	Arm    string
	Key    string
	// Adjacent limits the arm to the very next line. Otherwise the arm holds
	// until the rule captures.
	Adjacent bool
	// StopOnMatch ends the scan as soon as this rule captures.
	StopOnMatch bool
}

type armState int

const (
	armNone armState = iota
	armSawMarker
)

// Scanner walks config lines and tracks, per rule, whether the arm marker was
// seen. Each rule latches on its first capture.
type Scanner struct {
	Zones []ZoneMarker
	Rules []Rule
}

// Scan returns the captured values keyed by rule target. A key line that
// qualifies for capture but carries no integer value fails the whole scan.
func (s Scanner) Scan(lines []string) (map[string]int64, error) {
	var (
		zone     string
		arms     = make([]armState, len(s.Rules))
		captured = make(map[string]int64, len(s.Rules))
	)

	for lineNo, line := range lines {
		for _, marker := range s.Zones {
			if strings.Contains(line, marker.Marker) {
				zone = marker.Zone
				break
			}
		}

		for i, rule := range s.Rules {
			if arms[i] != armSawMarker || zone != rule.Zone || !strings.Contains(line, rule.Key) {
				continue
			}

			value, err := parseValue(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", lineNo+1, rule.Target, err)
			}
			if _, done := captured[rule.Target]; done {
				continue
			}
			captured[rule.Target] = value
			if rule.StopOnMatch {
				return captured, nil
			}
		}

		for i, rule := range s.Rules {
			switch {
			case strings.Contains(line, rule.Arm) && zone == rule.Zone:
				arms[i] = armSawMarker
			case rule.Adjacent:
				arms[i] = armNone
			}
		}
	}

	return captured, nil
}

// parseValue reads the integer between the first and second colon of a
// "key: value" line.
func parseValue(line string) (int64, error) {
	fields := strings.Split(line, ":")
	if len(fields) < 2 {
		return 0, fmt.Errorf("missing value in %q", strings.TrimSpace(line))
	}
	value, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse value: %w", err)
	}
	return value, nil
}
