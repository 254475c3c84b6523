package utils

import (
	"strings"

	"github.com/google/uuid"
)

// DocumentIDLength matches the length of ids generated by the hosted document store.
const DocumentIDLength = 20

// NewDocumentID returns a random 20 character identifier.
func NewDocumentID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:DocumentIDLength]
}
