package jsonsource_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powercap-metrics/internal/domain"
	"powercap-metrics/internal/infrastructure/jsonsource"
)

func TestDecodeReadsRecordsAndExtraFields(t *testing.T) {
	t.Parallel()

	records, err := jsonsource.Decode(strings.NewReader(`[
		{"device_id": "chirop-5", "timestamp": "2024-01-01T00:00:00", "value": -42.5, "unit": "W"},
		{"device_id": "chirop-6", "timestamp": "2024-01-01T00:00:01", "value": 0}
	]`), "inline")

	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	require.True(t, first.Valid())
	assert.Equal(t, "chirop-5", *first.DeviceID)
	assert.Equal(t, "2024-01-01T00:00:00", *first.Timestamp)
	assert.Equal(t, -42.5, *first.Value)
	assert.JSONEq(t, `"W"`, string(first.Extra["unit"]))

	second := records[1]
	require.True(t, second.Valid())
	assert.Equal(t, 0.0, *second.Value)
	assert.Nil(t, second.Extra)
}

func TestDecodeLeavesMissingAndMistypedFieldsUnset(t *testing.T) {
	t.Parallel()

	records, err := jsonsource.Decode(strings.NewReader(`[
		{"timestamp": "2024-01-01T00:00:00", "value": 1},
		{"device_id": 5, "timestamp": "2024-01-01T00:00:00", "value": 1},
		{"device_id": "a", "timestamp": "2024-01-01T00:00:00", "value": null},
		{"device_id": "a", "timestamp": "2024-01-01T00:00:00", "value": "12"},
		42,
		null
	]`), "inline")

	require.NoError(t, err)
	require.Len(t, records, 6)
	for i, record := range records {
		assert.False(t, record.Valid(), "record %d", i)
	}
	assert.Nil(t, records[1].DeviceID)
	assert.Nil(t, records[2].Value)
	assert.Nil(t, records[3].Value)
}

func TestDecodeEmptyArray(t *testing.T) {
	t.Parallel()

	records, err := jsonsource.Decode(strings.NewReader("[]\n  \n"), "inline")

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDecodeRejectsNonArrayDocuments(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"object":  `{"device_id": "a"}`,
		"null":    `null`,
		"number":  `12`,
		"syntax":  `[{"device_id": `,
		"empty":   ``,
		"garbage": `[{"device_id": "a", "timestamp": "t", "value": 1}] trailing`,
		"second":  `[] []`,
	}

	for name, body := range cases {
		body := body
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			records, err := jsonsource.Decode(strings.NewReader(body), "bad.json")

			require.Error(t, err)
			assert.Nil(t, records)
			assert.True(t, errors.Is(err, domain.ErrMalformedInput))

			var malformed *domain.MalformedInputError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, "bad.json", malformed.Source)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "metrics.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"device_id":"d","timestamp":"t","value":1.5}]`), 0o644))

	records, err := jsonsource.New().Load(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1.5, *records[0].Value)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := jsonsource.New().Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, errors.Is(err, domain.ErrMalformedInput))
}

func TestLoadHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := jsonsource.New().Load(ctx, "unused.json")

	assert.ErrorIs(t, err, context.Canceled)
}
