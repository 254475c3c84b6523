package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "firebase-mcp context key " + string(c)
}

const (
	// RequestIDKey carries the per-invocation request id.
	RequestIDKey = contextKey("requestID")
	// ToolNameKey carries the name of the tool being invoked.
	ToolNameKey = contextKey("toolName")
	// ComponentKey carries the component that produced a log line.
	ComponentKey = contextKey("component")
	// OperationKey carries the backend operation in flight.
	OperationKey = contextKey("operation")
	// SubjectKey carries the authenticated subject of an HTTP session.
	SubjectKey = contextKey("subject")
)
