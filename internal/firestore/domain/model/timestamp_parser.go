package model

import (
	"regexp"
	"time"
)

// ISOFormat is the rendering of every timestamp handed back to callers.
const ISOFormat = "2006-01-02T15:04:05.000Z"

// TimestampParser detects and parses timestamp strings in filter values.
type TimestampParser struct{}

// NewTimestampParser creates a new TimestampParser
func NewTimestampParser() *TimestampParser {
	return &TimestampParser{}
}

// Accepted layouts, most common first.
var supportedTimestampFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var timestampPatterns = []*regexp.Regexp{
	// ISO 8601 with optional fraction and zone
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d{1,9})?(?:Z|[+-]\d{2}:?\d{2})?$`),
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`),
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
}

// IsTimestampString reports whether s has the shape of an ISO-8601 date or date-time.
func (tp *TimestampParser) IsTimestampString(s string) bool {
	if len(s) < 10 || len(s) > 35 {
		return false
	}
	for _, pattern := range timestampPatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// ParseTimestamp parses s with the first matching layout. Values without a
// zone are read as UTC.
func (tp *TimestampParser) ParseTimestamp(s string) (time.Time, error) {
	for _, format := range supportedTimestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &TimestampParseError{Input: s}
}

// TimestampParseError represents a timestamp parsing error
type TimestampParseError struct {
	Input string
}

func (e *TimestampParseError) Error() string {
	return "cannot parse '" + e.Input + "' as timestamp"
}

// TryParseAsTimestamp returns the timestamp held by value, if any.
func (tp *TimestampParser) TryParseAsTimestamp(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		if tp.IsTimestampString(v) {
			if t, err := tp.ParseTimestamp(v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// FormatISO renders t in UTC with millisecond precision.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOFormat)
}

// NormalizeTimestamps returns a copy of data in which every time.Time, at any
// depth, is replaced by its ISO-8601 rendering. Other values are untouched.
func NormalizeTimestamps(data map[string]interface{}) map[string]interface{} {
	if data == nil {
		return nil
	}
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case time.Time:
		return FormatISO(val)
	case *time.Time:
		if val == nil {
			return nil
		}
		return FormatISO(*val)
	case map[string]interface{}:
		return NormalizeTimestamps(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

// ResolveServerTimestamps replaces every ServerTimestamp sentinel in data with now.
func ResolveServerTimestamps(data map[string]interface{}, now time.Time) map[string]interface{} {
	if data == nil {
		return nil
	}
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		switch val := v.(type) {
		case FieldValue:
			if val == ServerTimestamp {
				out[k] = now
				continue
			}
			out[k] = v
		case map[string]interface{}:
			out[k] = ResolveServerTimestamps(val, now)
		default:
			out[k] = v
		}
	}
	return out
}
