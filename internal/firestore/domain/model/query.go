package model

import "fmt"

// Query represents a filtered, id-ordered walk over one collection.
type Query struct {
	Path       string   // Path to the collection or subcollection
	Filters    []Filter // Conjunctive where clauses
	StartAfter string   // Document id the results start strictly after
	Limit      int      // Limit number of documents; 0 means no limit
}

// Filter represents a single filter condition in a query (where clause).
type Filter struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value"`
}

// Operator types for filters
const (
	OperatorEqual              = "=="
	OperatorNotEqual           = "!="
	OperatorLessThan           = "<"
	OperatorLessThanOrEqual    = "<="
	OperatorGreaterThan        = ">"
	OperatorGreaterThanOrEqual = ">="
	OperatorArrayContains      = "array-contains"
	OperatorArrayContainsAny   = "array-contains-any"
	OperatorIn                 = "in"
	OperatorNotIn              = "not-in"
)

// Operators lists every supported operator in schema order.
var Operators = []string{
	OperatorLessThan,
	OperatorLessThanOrEqual,
	OperatorEqual,
	OperatorNotEqual,
	OperatorGreaterThanOrEqual,
	OperatorGreaterThan,
	OperatorArrayContains,
	OperatorIn,
	OperatorNotIn,
	OperatorArrayContainsAny,
}

// Validate checks the field and operator and that list operators carry a list.
func (f Filter) Validate() error {
	if f.Field == "" {
		return fmt.Errorf("filter field must not be empty")
	}
	switch f.Operator {
	case OperatorEqual, OperatorNotEqual, OperatorLessThan, OperatorLessThanOrEqual,
		OperatorGreaterThan, OperatorGreaterThanOrEqual, OperatorArrayContains:
		return nil
	case OperatorIn, OperatorNotIn, OperatorArrayContainsAny:
		if _, ok := f.Value.([]interface{}); !ok {
			return fmt.Errorf("operator %q on field %q requires an array value", f.Operator, f.Field)
		}
		return nil
	default:
		return fmt.Errorf("unsupported filter operator %q", f.Operator)
	}
}

// WithTimestampValue converts an ISO-8601 string value to time.Time, leaving
// every other value unchanged.
func (f Filter) WithTimestampValue(parser *TimestampParser) Filter {
	if s, ok := f.Value.(string); ok {
		if t, ok := parser.TryParseAsTimestamp(s); ok {
			f.Value = t
		}
	}
	return f
}
