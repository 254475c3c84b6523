package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampParser_IsTimestampString(t *testing.T) {
	parser := NewTimestampParser()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"ISO 8601 with Z", "2025-02-01T15:00:00Z", true},
		{"ISO 8601 with timezone", "2025-02-01T15:00:00-05:00", true},
		{"ISO 8601 with milliseconds", "2025-02-01T15:00:00.123Z", true},
		{"ISO 8601 without zone", "2025-02-01T15:00:00", true},
		{"Simple date", "2025-02-01", true},
		{"Simple datetime", "2025-02-01 15:00:00", true},
		{"Not a timestamp - plain string", "hello world", false},
		{"Not a timestamp - number", "12345", false},
		{"Not a timestamp - id", "a1b2c3d4e5f6g7h8i9j0", false},
		{"Empty string", "", false},
		{"Too short", "2025", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parser.IsTimestampString(tt.input), "Input: %s", tt.input)
		})
	}
}

func TestTimestampParser_ParseTimestamp(t *testing.T) {
	parser := NewTimestampParser()

	ts, err := parser.ParseTimestamp("2025-02-01T15:00:00-05:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 1, 20, 0, 0, 0, time.UTC), ts)
	assert.Equal(t, time.UTC, ts.Location())

	ts, err = parser.ParseTimestamp("2025-02-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), ts)

	_, err = parser.ParseTimestamp("2025-13-45")
	var parseErr *TimestampParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "2025-13-45", parseErr.Input)
}

func TestTimestampParser_TryParseAsTimestamp(t *testing.T) {
	parser := NewTimestampParser()
	now := time.Now()

	got, ok := parser.TryParseAsTimestamp(now)
	assert.True(t, ok)
	assert.Equal(t, now, got)

	_, ok = parser.TryParseAsTimestamp("2025-02-30")
	assert.False(t, ok, "shape matches but date is invalid")

	_, ok = parser.TryParseAsTimestamp(42)
	assert.False(t, ok)

	_, ok = parser.TryParseAsTimestamp("active")
	assert.False(t, ok)
}

func TestFormatISO(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2024, 5, 6, 9, 8, 7, 123456789, loc)
	assert.Equal(t, "2024-05-06T07:08:07.123Z", FormatISO(ts))
	assert.Equal(t, "2024-01-01T00:00:00.000Z", FormatISO(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestNormalizeTimestamps(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	data := map[string]interface{}{
		"name":      "Ann",
		"createdAt": ts,
		"nested": map[string]interface{}{
			"seenAt": &ts,
			"count":  3,
		},
		"history": []interface{}{ts, "text", nil},
		"nothing": nil,
	}

	out := NormalizeTimestamps(data)

	assert.Equal(t, "Ann", out["name"])
	assert.Equal(t, "2024-01-02T03:04:05.000Z", out["createdAt"])
	nested := out["nested"].(map[string]interface{})
	assert.Equal(t, "2024-01-02T03:04:05.000Z", nested["seenAt"])
	assert.Equal(t, 3, nested["count"])
	assert.Equal(t, []interface{}{"2024-01-02T03:04:05.000Z", "text", nil}, out["history"])
	assert.Nil(t, out["nothing"])

	// input is left untouched
	assert.Equal(t, ts, data["createdAt"])
	assert.Nil(t, NormalizeTimestamps(nil))
}

func TestResolveServerTimestamps(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	data := map[string]interface{}{
		"createdAt": ServerTimestamp,
		"meta":      map[string]interface{}{"touchedAt": ServerTimestamp},
		"label":     FieldValue("other"),
		"n":         1,
	}

	out := ResolveServerTimestamps(data, now)

	assert.Equal(t, now, out["createdAt"])
	assert.Equal(t, now, out["meta"].(map[string]interface{})["touchedAt"])
	assert.Equal(t, FieldValue("other"), out["label"])
	assert.Equal(t, 1, out["n"])
	assert.Equal(t, ServerTimestamp, data["createdAt"])
}
