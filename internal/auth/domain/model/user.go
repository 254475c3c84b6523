package model

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserMetadata holds the sign-up and sign-in times of a user.
type UserMetadata struct {
	CreationTime   *time.Time `json:"creationTime,omitempty" bson:"creationTime,omitempty"`
	LastSignInTime *time.Time `json:"lastSignInTime,omitempty" bson:"lastSignInTime,omitempty"`
}

// MarshalJSON renders both times in UTC with millisecond precision.
func (m UserMetadata) MarshalJSON() ([]byte, error) {
	out := struct {
		CreationTime   string `json:"creationTime,omitempty"`
		LastSignInTime string `json:"lastSignInTime,omitempty"`
	}{
		CreationTime:   formatTime(m.CreationTime),
		LastSignInTime: formatTime(m.LastSignInTime),
	}
	return json.Marshal(out)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// ProviderInfo describes one identity provider linked to a user.
type ProviderInfo struct {
	ProviderID  string `json:"providerId" bson:"providerId"`
	UID         string `json:"uid" bson:"uid"`
	Email       string `json:"email,omitempty" bson:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty" bson:"displayName,omitempty"`
}

// UserRecord represents a directory principal. It is read-only here.
type UserRecord struct {
	UID           string                 `json:"uid" bson:"uid,omitempty"`
	ObjectID      primitive.ObjectID     `json:"-" bson:"_id,omitempty"`
	Email         string                 `json:"email,omitempty" bson:"email,omitempty"`
	EmailVerified bool                   `json:"emailVerified" bson:"emailVerified"`
	DisplayName   string                 `json:"displayName,omitempty" bson:"displayName,omitempty"`
	PhotoURL      string                 `json:"photoURL,omitempty" bson:"photoURL,omitempty"`
	PhoneNumber   string                 `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	Disabled      bool                   `json:"disabled" bson:"disabled"`
	Metadata      UserMetadata           `json:"metadata" bson:"metadata"`
	CustomClaims  map[string]interface{} `json:"customClaims,omitempty" bson:"customClaims,omitempty"`
	ProviderData  []ProviderInfo         `json:"providerData,omitempty" bson:"providerData,omitempty"`
}
