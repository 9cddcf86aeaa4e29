package jsonsource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"powercap-metrics/internal/domain"
)

const (
	keyDeviceID  = "device_id"
	keyTimestamp = "timestamp"
	keyValue     = "value"
)

// Source reads metrics logs stored as a JSON array of objects.
type Source struct{}

// New creates a JSON record source.
func New() *Source {
	return &Source{}
}

// Load opens path and decodes its records. A missing file keeps
// os.ErrNotExist in the error chain.
func (s *Source) Load(ctx context.Context, path string) ([]domain.MeasurementRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("jsonsource: open: %w", err)
	}
	defer file.Close()

	return Decode(file, path)
}

// Decode reads a whole JSON document from r. Anything other than a single
// top-level array is a *domain.MalformedInputError. Elements that are not objects, or
// whose required keys have the wrong type, come back with those fields unset
// so the grouper can drop them.
func Decode(r io.Reader, source string) ([]domain.MeasurementRecord, error) {
	decoder := json.NewDecoder(r)
	var document json.RawMessage
	if err := decoder.Decode(&document); err != nil {
		return nil, &domain.MalformedInputError{Source: source, Reason: "invalid JSON", Err: err}
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, &domain.MalformedInputError{Source: source, Reason: "trailing data after JSON document", Err: err}
	}

	trimmed := bytes.TrimSpace(document)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &domain.MalformedInputError{Source: source, Reason: "top-level value is not an array"}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return nil, &domain.MalformedInputError{Source: source, Reason: "invalid array", Err: err}
	}

	records := make([]domain.MeasurementRecord, 0, len(elements))
	for _, element := range elements {
		records = append(records, decodeRecord(element))
	}
	return records, nil
}

func decodeRecord(element json.RawMessage) domain.MeasurementRecord {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(element, &fields); err != nil || fields == nil {
		return domain.MeasurementRecord{}
	}

	var record domain.MeasurementRecord
	for key, raw := range fields {
		switch key {
		case keyDeviceID:
			record.DeviceID = decodeField[string](raw)
		case keyTimestamp:
			record.Timestamp = decodeField[string](raw)
		case keyValue:
			record.Value = decodeField[float64](raw)
		default:
			if record.Extra == nil {
				record.Extra = make(map[string]json.RawMessage)
			}
			record.Extra[key] = raw
		}
	}
	return record
}

func decodeField[T any](raw json.RawMessage) *T {
	var value *T
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil
	}
	return value
}

var _ domain.RecordSource = (*Source)(nil)
