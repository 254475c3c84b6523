package model

import (
	"errors"
	"strings"
	"time"
)

// Document is a mirror of one stored record. The adapter never caches it.
type Document struct {
	ID   string                 `json:"id"`
	Data map[string]interface{} `json:"data"`
	// Path is the full path to the document, e.g. "zone/u1/zoneList/z1"
	Path       string    `json:"path"`
	CreateTime time.Time `json:"createTime"`
	UpdateTime time.Time `json:"updateTime"`
}

// CollectionPath returns the path of the collection holding the document.
func (d *Document) CollectionPath() string {
	return ParentPath(d.Path)
}

// CollectionRef names a collection, at the root or below a document.
type CollectionRef struct {
	ID         string `json:"id"`
	Path       string `json:"path"`
	ParentPath string `json:"parentPath,omitempty"`
}

// FieldValue represents special server-side values like ServerTimestamp.
type FieldValue string

const (
	// ServerTimestamp is a sentinel value replaced by the store's clock on write.
	ServerTimestamp FieldValue = "ServerTimestamp"
)

// CreatedAtField is replaced by ServerTimestamp on every add.
const CreatedAtField = "createdAt"

var (
	ErrEmptyPath          = errors.New("path must not be empty")
	ErrNotCollectionPath  = errors.New("path does not name a collection")
	ErrNotDocumentPath    = errors.New("path does not name a document")
	ErrInvalidPathSegment = errors.New("path segments must not be empty")
)

// SplitPath splits a slash separated path, ignoring leading and trailing slashes.
func SplitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// JoinPath joins non-empty segments with slashes.
func JoinPath(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// ValidateCollectionPath checks that path has an odd number of non-empty segments.
func ValidateCollectionPath(path string) error {
	segments, err := segmentsOf(path)
	if err != nil {
		return err
	}
	if len(segments)%2 != 1 {
		return ErrNotCollectionPath
	}
	return nil
}

// ValidateDocumentPath checks that path has an even number of non-empty segments.
func ValidateDocumentPath(path string) error {
	segments, err := segmentsOf(path)
	if err != nil {
		return err
	}
	if len(segments)%2 != 0 {
		return ErrNotDocumentPath
	}
	return nil
}

func segmentsOf(path string) ([]string, error) {
	segments := SplitPath(path)
	if len(segments) == 0 {
		return nil, ErrEmptyPath
	}
	for _, s := range segments {
		if strings.TrimSpace(s) == "" {
			return nil, ErrInvalidPathSegment
		}
	}
	return segments, nil
}

// ParentPath drops the last segment of path.
func ParentPath(path string) string {
	segments := SplitPath(path)
	if len(segments) <= 1 {
		return ""
	}
	return strings.Join(segments[:len(segments)-1], "/")
}

// LastSegment returns the final segment of path.
func LastSegment(path string) string {
	segments := SplitPath(path)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// ConsoleURL builds the console link for a collection or document path.
func ConsoleURL(baseURL, projectID, path string) string {
	return strings.TrimRight(baseURL, "/") + "/project/" + projectID + "/firestore/data/" + JoinPath(path)
}
