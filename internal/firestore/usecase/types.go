package usecase

import "firebase-mcp/internal/firestore/domain/model"

// Request types for document operations

type AddDocumentRequest struct {
	Collection string                 `json:"collection"`
	Data       map[string]interface{} `json:"data"`
	// ID, when set, writes the document with this id and overwrites any existing one.
	ID string `json:"id,omitempty"`
}

type GetDocumentRequest struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
}

type UpdateDocumentRequest struct {
	Collection string                 `json:"collection"`
	ID         string                 `json:"id"`
	Data       map[string]interface{} `json:"data"`
}

type DeleteDocumentRequest struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
}

type ListDocumentsRequest struct {
	Collection string         `json:"collection"`
	Filters    []model.Filter `json:"filters,omitempty"`
	Limit      int            `json:"limit,omitempty"`
	PageToken  string         `json:"pageToken,omitempty"`
}

type ListCollectionsRequest struct {
	DocumentPath string `json:"documentPath,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	PageToken    string `json:"pageToken,omitempty"`
}

// Array operations
const (
	ArrayOperationAdd    = "add"
	ArrayOperationRemove = "remove"
)

type UpdateArrayFieldRequest struct {
	Collection string      `json:"collection"`
	ID         string      `json:"id"`
	Field      string      `json:"field"`
	Value      interface{} `json:"value"`
	Operation  string      `json:"operation"`
}

type QuerySubcollectionRequest struct {
	ParentCollection  string         `json:"parentCollection"`
	ParentField       string         `json:"parentField"`
	ParentValue       interface{}    `json:"parentValue"`
	SubcollectionName string         `json:"subcollectionName"`
	Filters           []model.Filter `json:"filters,omitempty"`
	Limit             int            `json:"limit,omitempty"`
}

// AddToMatchedArrayRequest finds the first document in CollectionPath whose
// MatchField equals MatchValue and unions Value into its ArrayField.
type AddToMatchedArrayRequest struct {
	CollectionPath string
	MatchField     string
	MatchValue     interface{}
	ArrayField     string
	Value          interface{}
}

type AddCadenceToZoneRequest struct {
	UserID    string `json:"userId"`
	ZoneName  string `json:"zoneName"`
	CadenceID string `json:"cadenceId"`
}

// Response types

// DocumentResult is the caller-facing shape of a single document.
type DocumentResult struct {
	ID       string                 `json:"id"`
	URL      string                 `json:"url"`
	Document map[string]interface{} `json:"document"`
}

type ListDocumentsResult struct {
	TotalCount int64            `json:"totalCount"`
	Documents  []DocumentResult `json:"documents"`
	PageToken  string           `json:"pageToken"`
	HasMore    bool             `json:"hasMore"`
}

type CollectionEntry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type ListCollectionsResult struct {
	Collections   []CollectionEntry `json:"collections"`
	NextPageToken *string           `json:"nextPageToken"`
	HasMore       bool              `json:"hasMore"`
}

type ArrayFieldResult struct {
	ID        string                 `json:"id"`
	URL       string                 `json:"url"`
	Document  map[string]interface{} `json:"document"`
	Operation string                 `json:"operation"`
}

type ParentDocument struct {
	ID         string                 `json:"id"`
	Collection string                 `json:"collection"`
	Data       map[string]interface{} `json:"data"`
}

type SubcollectionDocument struct {
	ID   string                 `json:"id"`
	Data map[string]interface{} `json:"data"`
}

type Subcollection struct {
	Path       string                  `json:"path"`
	TotalCount int                     `json:"totalCount"`
	Documents  []SubcollectionDocument `json:"documents"`
}

type SubcollectionResult struct {
	ParentDocument ParentDocument `json:"parentDocument"`
	Subcollection  Subcollection  `json:"subcollection"`
}

type CadenceResult struct {
	Message  string                 `json:"message"`
	ZoneID   string                 `json:"zoneId"`
	UserID   string                 `json:"userId"`
	URL      string                 `json:"url"`
	ZoneData map[string]interface{} `json:"zoneData"`
}
