package model

import (
	"encoding/base64"
	"errors"
	"strings"
)

// tokenPrefix keeps hand-built tokens from decoding by accident.
const tokenPrefix = "c1:"

// ErrInvalidPageToken is returned when a token was not produced by EncodePageToken.
var ErrInvalidPageToken = errors.New("invalid page token")

// PageToken is an opaque continuation marker. Its only valid use is being
// passed back unchanged to resume a listing.
type PageToken string

// EncodePageToken wraps the last returned identifier.
func EncodePageToken(lastID string) PageToken {
	if lastID == "" {
		return ""
	}
	return PageToken(base64.RawURLEncoding.EncodeToString([]byte(tokenPrefix + lastID)))
}

// Decode returns the identifier the listing resumes after. An empty token
// decodes to the empty string.
func (t PageToken) Decode() (string, error) {
	if t == "" {
		return "", nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(string(t))
	if err != nil {
		return "", ErrInvalidPageToken
	}
	s := string(raw)
	if !strings.HasPrefix(s, tokenPrefix) || len(s) == len(tokenPrefix) {
		return "", ErrInvalidPageToken
	}
	return strings.TrimPrefix(s, tokenPrefix), nil
}

// String returns the wire form of the token.
func (t PageToken) String() string {
	return string(t)
}
