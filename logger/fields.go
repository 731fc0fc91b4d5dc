package logger

import (
	"time"
)

// Standard field key constants for structured logging.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"
	FieldRequestID = "request_id"
	FieldOperation = "operation"
	FieldStatus    = "status"
	FieldError     = "error"
	FieldDuration  = "duration_ms"

	// Query traversal fields.
	FieldQuery       = "query"
	FieldTraversalID = "traversal_id"
	FieldElements    = "elements"
	FieldErrorCode   = "error_code"

	// HTTP access-log fields.
	FieldMethod = "method"
	FieldPath   = "path"
	FieldClient = "client_ip"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("done", logger.Fields("query", "top-customers", "elements", 42))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// DurationFields creates fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}

// TraversalFields creates the fields logged when a query traversal ends.
func TraversalFields(query, traversalID string, elements int, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldQuery:       query,
		FieldTraversalID: traversalID,
		FieldElements:    elements,
		FieldDuration:    d.Milliseconds(),
	}
}
