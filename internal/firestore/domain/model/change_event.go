package model

import "time"

// ChangeType names the mutation that produced a ChangeEvent.
type ChangeType string

const (
	ChangeTypeAdded    ChangeType = "added"
	ChangeTypeModified ChangeType = "modified"
	ChangeTypeRemoved  ChangeType = "removed"
)

// ChangeEvent describes one successful document mutation.
type ChangeEvent struct {
	Type      ChangeType             `json:"type"`
	Path      string                 `json:"path"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewChangeEvent stamps an event with the current time.
func NewChangeEvent(changeType ChangeType, path string, data map[string]interface{}) ChangeEvent {
	return ChangeEvent{
		Type:      changeType,
		Path:      path,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}
