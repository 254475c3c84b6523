package model

import (
	"strings"
	"time"
)

// Object describes one stored blob.
type Object struct {
	Key          string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
	Metadata     map[string]string
}

// ListPage is one page of a delimited listing. Prefixes are the virtual
// subdirectories directly below the listed prefix.
type ListPage struct {
	Objects   []Object
	Prefixes  []string
	NextToken string
	Truncated bool
}

// NormalizeDirectory turns a user supplied directory into a listing prefix:
// no leading slash, one trailing slash, empty for the bucket root.
func NormalizeDirectory(dir string) string {
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return ""
	}
	return dir + "/"
}
