package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	sharedErrors "firebase-mcp/internal/shared/errors"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
)

// ContentTypeText is the only content type the tools produce.
const ContentTypeText = "text"

// TextContent is one content block of a Result.
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the envelope every tool invocation returns. IsError marks
// precondition and backend failures; the message is the text payload.
type Result struct {
	Content []TextContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// Text returns the concatenated text of all content blocks.
func (r *Result) Text() string {
	if r == nil {
		return ""
	}
	if len(r.Content) == 1 {
		return r.Content[0].Text
	}
	var text string
	for _, c := range r.Content {
		text += c.Text
	}
	return text
}

// TextResult wraps plain text in a success envelope.
func TextResult(text string) *Result {
	return &Result{Content: []TextContent{{Type: ContentTypeText, Text: text}}}
}

// JSONResult encodes v as indented JSON in a success envelope.
func JSONResult(v interface{}) (*Result, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, sharedErrors.NewInternalError("Error encoding result").WithCause(err)
	}
	return TextResult(string(data)), nil
}

// ErrorResult renders err as an error-flagged envelope.
func ErrorResult(err error) *Result {
	return &Result{
		Content: []TextContent{{Type: ContentTypeText, Text: err.Error()}},
		IsError: true,
	}
}

// ProtocolError is a failure reported at the JSON-RPC level rather than as an
// error-flagged Result.
type ProtocolError struct {
	Code    int64
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// Is matches any ProtocolError with the same code.
func (e *ProtocolError) Is(target error) bool {
	var other *ProtocolError
	if errors.As(target, &other) {
		return other.Code == e.Code
	}
	return false
}

// WireError converts the error into the go-sdk JSON-RPC error.
func (e *ProtocolError) WireError() *jsonrpc.Error {
	return &jsonrpc.Error{Code: e.Code, Message: e.Message}
}

// ErrMethodNotFound is returned by Invoke for names absent from the catalog.
var ErrMethodNotFound = &ProtocolError{Code: jsonrpc.CodeMethodNotFound, Message: "method not found"}

func methodNotFound(name string) *ProtocolError {
	return &ProtocolError{Code: jsonrpc.CodeMethodNotFound, Message: "Unknown tool: " + name}
}
