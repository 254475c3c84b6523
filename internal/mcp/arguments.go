package mcp

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"firebase-mcp/internal/firestore/domain/model"
	sharedErrors "firebase-mcp/internal/shared/errors"
)

// Arguments is the decoded argument object of one invocation. Accessors are
// lenient: absent keys yield zero values and defaults, wrong types yield
// validation errors.
type Arguments map[string]interface{}

// String returns the string under key, or "" when absent or null.
func (a Arguments) String(key string) (string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", sharedErrors.NewValidationError(fmt.Sprintf("%s must be a string", key))
	}
	return s, nil
}

// Int returns the integer under key, or def when absent or null. JSON numbers
// and numeric strings are accepted.
func (a Arguments) Int(key string, def int) (int, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return def, nil
	}
	invalid := sharedErrors.NewValidationError(fmt.Sprintf("%s must be an integer", key))
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, invalid
		}
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, invalid
		}
		return int(i), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, invalid
		}
		return i, nil
	default:
		return 0, invalid
	}
}

// Object returns the JSON object under key, or nil when absent or null.
func (a Arguments) Object(key string) (map[string]interface{}, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, sharedErrors.NewValidationError(fmt.Sprintf("%s must be an object", key))
	}
	return m, nil
}

// Value returns the raw value under key.
func (a Arguments) Value(key string) interface{} {
	return a[key]
}

// Filters decodes the filter array under key. Absent means no filters.
func (a Arguments) Filters(key string) ([]model.Filter, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, sharedErrors.NewValidationError(fmt.Sprintf("%s must be an array", key))
	}
	filters := make([]model.Filter, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, sharedErrors.NewValidationError(fmt.Sprintf("%s[%d] must be an object", key, i))
		}
		field, _ := m["field"].(string)
		operator, _ := m["operator"].(string)
		filters = append(filters, model.Filter{
			Field:    field,
			Operator: operator,
			Value:    m["value"],
		})
	}
	return filters, nil
}

// DecodeArguments parses the raw argument object of a tools/call request.
// Empty input decodes to an empty Arguments.
func DecodeArguments(raw json.RawMessage) (Arguments, error) {
	args := Arguments{}
	if len(raw) == 0 || string(raw) == "null" {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, sharedErrors.NewValidationError("arguments must be a JSON object").WithCause(err)
	}
	return args, nil
}
