package mongodb

import (
	"fmt"
	"sort"
	"time"

	"firebase-mcp/internal/firestore/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const fieldsPrefix = "fields."

func fieldKey(field string) string {
	return fieldsPrefix + field
}

// encodeValues prepares caller values for BSON. time.Time is stored as a BSON
// date and maps become documents with sorted keys; everything else is passed
// through.
func encodeValues(values []interface{}) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = encodeValue(v)
	}
	return out
}

func encodeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case time.Time:
		return primitive.NewDateTimeFromTime(val)
	case map[string]interface{}:
		// MongoDB compares embedded documents field by field in order.
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(bson.D, 0, len(val))
		for _, k := range keys {
			out = append(out, bson.E{Key: k, Value: encodeValue(val[k])})
		}
		return out
	case []interface{}:
		return encodeValues(val)
	default:
		return v
	}
}

// decodeValue turns driver types back into plain Go values.
func decodeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.Timestamp:
		return time.Unix(int64(val.T), 0).UTC()
	case primitive.D:
		out := make(map[string]interface{}, len(val))
		for _, e := range val {
			out[e.Key] = decodeValue(e.Value)
		}
		return out
	case primitive.M:
		return decodeMap(val)
	case map[string]interface{}:
		return decodeMap(val)
	case primitive.A:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = decodeValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = decodeValue(item)
		}
		return out
	case int32:
		return int64(val)
	case primitive.ObjectID:
		return val.Hex()
	case primitive.Decimal128:
		return val.String()
	default:
		return v
	}
}

func decodeMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = decodeValue(v)
	}
	return out
}

// filterClause translates one filter into a MongoDB condition on the fields subdocument.
func filterClause(f model.Filter) (bson.M, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	key := fieldKey(f.Field)
	value := encodeValue(f.Value)

	switch f.Operator {
	case model.OperatorEqual:
		return bson.M{key: bson.M{"$eq": value}}, nil
	case model.OperatorNotEqual:
		return bson.M{key: bson.M{"$ne": value, "$exists": true}}, nil
	case model.OperatorLessThan:
		return bson.M{key: bson.M{"$lt": value}}, nil
	case model.OperatorLessThanOrEqual:
		return bson.M{key: bson.M{"$lte": value}}, nil
	case model.OperatorGreaterThan:
		return bson.M{key: bson.M{"$gt": value}}, nil
	case model.OperatorGreaterThanOrEqual:
		return bson.M{key: bson.M{"$gte": value}}, nil
	case model.OperatorArrayContains:
		return bson.M{key: bson.M{"$elemMatch": bson.M{"$eq": value}}}, nil
	case model.OperatorArrayContainsAny:
		return bson.M{key: bson.M{"$elemMatch": bson.M{"$in": value}}}, nil
	case model.OperatorIn:
		return bson.M{key: bson.M{"$in": value}}, nil
	case model.OperatorNotIn:
		return bson.M{key: bson.M{"$nin": value, "$exists": true}}, nil
	}
	return nil, fmt.Errorf("unsupported filter operator %q", f.Operator)
}

// buildQueryFilter builds the selector for a collection query. Filters are
// combined with $and so repeated fields keep every condition.
func buildQueryFilter(q model.Query) (bson.M, error) {
	selector := bson.M{"collection": model.JoinPath(q.Path)}
	if q.StartAfter != "" {
		selector["documentId"] = bson.M{"$gt": q.StartAfter}
	}
	if len(q.Filters) == 0 {
		return selector, nil
	}
	clauses := make([]bson.M, 0, len(q.Filters))
	for _, f := range q.Filters {
		clause, err := filterClause(f)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}
	selector["$and"] = clauses
	return selector, nil
}
