package memory

import (
	"reflect"
	"strings"
	"time"

	"firebase-mcp/internal/firestore/domain/model"
)

// lookupField resolves a dotted field path inside data.
func lookupField(data map[string]interface{}, field string) (interface{}, bool) {
	var current interface{} = data
	for _, part := range strings.Split(field, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// matches reports whether data satisfies every filter.
func matches(data map[string]interface{}, filters []model.Filter) bool {
	for _, f := range filters {
		if !matchFilter(data, f) {
			return false
		}
	}
	return true
}

func matchFilter(data map[string]interface{}, f model.Filter) bool {
	actual, exists := lookupField(data, f.Field)
	if !exists {
		return false
	}

	switch f.Operator {
	case model.OperatorEqual:
		return valuesEqual(actual, f.Value)
	case model.OperatorNotEqual:
		return !valuesEqual(actual, f.Value)
	case model.OperatorLessThan:
		c, ok := compareValues(actual, f.Value)
		return ok && c < 0
	case model.OperatorLessThanOrEqual:
		c, ok := compareValues(actual, f.Value)
		return ok && c <= 0
	case model.OperatorGreaterThan:
		c, ok := compareValues(actual, f.Value)
		return ok && c > 0
	case model.OperatorGreaterThanOrEqual:
		c, ok := compareValues(actual, f.Value)
		return ok && c >= 0
	case model.OperatorArrayContains:
		arr, ok := actual.([]interface{})
		return ok && containsValue(arr, f.Value)
	case model.OperatorArrayContainsAny:
		arr, ok := actual.([]interface{})
		candidates, listOK := f.Value.([]interface{})
		if !ok || !listOK {
			return false
		}
		for _, c := range candidates {
			if containsValue(arr, c) {
				return true
			}
		}
		return false
	case model.OperatorIn:
		candidates, ok := f.Value.([]interface{})
		return ok && containsValue(candidates, actual)
	case model.OperatorNotIn:
		candidates, ok := f.Value.([]interface{})
		return ok && !containsValue(candidates, actual)
	default:
		return false
	}
}

func containsValue(arr []interface{}, v interface{}) bool {
	for _, item := range arr {
		if valuesEqual(item, v) {
			return true
		}
	}
	return false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func valuesEqual(a, b interface{}) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	if aa, ok := a.([]interface{}); ok {
		bb, ok := b.([]interface{})
		if !ok || len(aa) != len(bb) {
			return false
		}
		for i := range aa {
			if !valuesEqual(aa[i], bb[i]) {
				return false
			}
		}
		return true
	}
	if ma, ok := a.(map[string]interface{}); ok {
		mb, ok := b.(map[string]interface{})
		if !ok || len(ma) != len(mb) {
			return false
		}
		for k, va := range ma {
			vb, present := mb[k]
			if !present || !valuesEqual(va, vb) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders two values of the same kind. ok is false when the
// kinds differ or are unordered.
func compareValues(a, b interface{}) (int, bool) {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return av.Compare(bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

// deepCopy copies maps and slices so stored documents never alias caller data.
func deepCopy(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = deepCopy(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return v
	}
}

func copyData(data map[string]interface{}) map[string]interface{} {
	if data == nil {
		return map[string]interface{}{}
	}
	return deepCopy(data).(map[string]interface{})
}

// setField assigns value at a dotted field path, creating intermediate maps.
func setField(data map[string]interface{}, field string, value interface{}) {
	parts := strings.Split(field, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
