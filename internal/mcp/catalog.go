package mcp

import (
	"firebase-mcp/internal/firestore/domain/model"
	firestoreUsecase "firebase-mcp/internal/firestore/usecase"
	storageUsecase "firebase-mcp/internal/storage/usecase"
)

// Tool names
const (
	ToolAddDocument         = "firestore_add_document"
	ToolListCollections     = "firestore_list_collections"
	ToolListDocuments       = "firestore_list_documents"
	ToolGetDocument         = "firestore_get_document"
	ToolUpdateDocument      = "firestore_update_document"
	ToolDeleteDocument      = "firestore_delete_document"
	ToolGetUser             = "auth_get_user"
	ToolListFiles           = "storage_list_files"
	ToolGetFileInfo         = "storage_get_file_info"
	ToolUpdateArrayField    = "firestore_update_array_field"
	ToolQuerySubcollection  = "firestore_query_subcollection"
	ToolAddCadenceToZone    = "firestore_add_cadence_to_zone"
	ToolGetCurrentTimestamp = "firestore_get_current_timestamp"
)

// Schema is a JSON Schema object.
type Schema = map[string]interface{}

// ToolDefinition is one catalog entry.
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema Schema      `json:"inputSchema"`
	ReadOnly    bool        `json:"readOnly"`
	Handler     HandlerFunc `json:"-"`
}

// Catalog is the fixed, ordered set of tools.
type Catalog struct {
	tools  []ToolDefinition
	byName map[string]ToolDefinition
}

// NewCatalog builds the catalog over h.
func NewCatalog(h *Handlers) *Catalog {
	tools := []ToolDefinition{
		{
			Name:        ToolAddDocument,
			Description: "Add a document to a Firestore collection",
			InputSchema: objectSchema(Schema{
				"collection": stringProperty("Collection name"),
				"data":       objectProperty("Document data"),
				"id":         stringProperty("Optional document ID. An existing document with this ID is overwritten."),
			}, "collection", "data"),
			Handler: h.addDocument,
		},
		{
			Name:        ToolListCollections,
			Description: "List collections in Firestore. If documentPath is provided, returns subcollections under that document; otherwise returns root collections.",
			InputSchema: objectSchema(Schema{
				"documentPath": stringProperty("Optional parent document path"),
				"limit":        limitProperty("Number of collections to return", firestoreUsecase.DefaultLimit),
				"pageToken":    stringProperty("Token for pagination to get the next page of results"),
			}),
			ReadOnly: true,
			Handler:  h.listCollections,
		},
		{
			Name:        ToolListDocuments,
			Description: "List documents from a Firestore collection with optional filtering",
			InputSchema: objectSchema(Schema{
				"collection": stringProperty("Collection name"),
				"filters":    filtersProperty("Array of filter conditions"),
				"limit":      limitProperty("Number of documents to return", firestoreUsecase.DefaultLimit),
				"pageToken":  stringProperty("Token for pagination to get the next page of results"),
			}, "collection"),
			ReadOnly: true,
			Handler:  h.listDocuments,
		},
		{
			Name:        ToolGetDocument,
			Description: "Get a document from a Firestore collection",
			InputSchema: objectSchema(Schema{
				"collection": stringProperty("Collection name"),
				"id":         stringProperty("Document ID"),
			}, "collection", "id"),
			ReadOnly: true,
			Handler:  h.getDocument,
		},
		{
			Name:        ToolUpdateDocument,
			Description: "Update a document in a Firestore collection",
			InputSchema: objectSchema(Schema{
				"collection": stringProperty("Collection name"),
				"id":         stringProperty("Document ID"),
				"data":       objectProperty("Updated document data"),
			}, "collection", "id", "data"),
			Handler: h.updateDocument,
		},
		{
			Name:        ToolDeleteDocument,
			Description: "Delete a document from a Firestore collection",
			InputSchema: objectSchema(Schema{
				"collection": stringProperty("Collection name"),
				"id":         stringProperty("Document ID"),
			}, "collection", "id"),
			Handler: h.deleteDocument,
		},
		{
			Name:        ToolGetUser,
			Description: "Get a user by ID or email from Firebase Authentication",
			InputSchema: objectSchema(Schema{
				"identifier": stringProperty("User ID or email address"),
			}, "identifier"),
			ReadOnly: true,
			Handler:  h.getUser,
		},
		{
			Name:        ToolListFiles,
			Description: "List files in a given path in Firebase Storage",
			InputSchema: objectSchema(Schema{
				"directoryPath": stringProperty("The optional path to list files from. If not provided, the root is used."),
				"pageSize":      limitProperty("Number of entries to return", storageUsecase.DefaultPageSize),
				"pageToken":     stringProperty("Token for pagination to get the next page of results"),
			}),
			ReadOnly: true,
			Handler:  h.listFiles,
		},
		{
			Name:        ToolGetFileInfo,
			Description: "Get file information including metadata and download URL",
			InputSchema: objectSchema(Schema{
				"filePath": stringProperty("The path of the file to get information for"),
			}, "filePath"),
			ReadOnly: true,
			Handler:  h.getFileInfo,
		},
		{
			Name:        ToolUpdateArrayField,
			Description: "Update an array field in a document by adding or removing a value",
			InputSchema: objectSchema(Schema{
				"collection": stringProperty("Collection name"),
				"id":         stringProperty("Document ID"),
				"field":      stringProperty("Array field name to update"),
				"value":      Schema{"description": "Value to add to or remove from the array"},
				"operation": Schema{
					"type":        "string",
					"enum":        []string{firestoreUsecase.ArrayOperationAdd, firestoreUsecase.ArrayOperationRemove},
					"description": "Operation to perform: add (arrayUnion) or remove (arrayRemove)",
				},
			}, "collection", "id", "field", "value", "operation"),
			Handler: h.updateArrayField,
		},
		{
			Name:        ToolQuerySubcollection,
			Description: "Query a subcollection by first finding a parent document, then querying its subcollection",
			InputSchema: objectSchema(Schema{
				"parentCollection":  stringProperty("Parent collection name"),
				"parentField":       stringProperty("Field in parent collection to match"),
				"parentValue":       Schema{"description": "Value to match in the parent field"},
				"subcollectionName": stringProperty("Name of the subcollection to query"),
				"filters":           filtersProperty("Optional array of filter conditions for the subcollection"),
				"limit":             limitProperty("Number of documents to return", firestoreUsecase.DefaultLimit),
			}, "parentCollection", "parentField", "parentValue", "subcollectionName"),
			ReadOnly: true,
			Handler:  h.querySubcollection,
		},
		{
			Name:        ToolAddCadenceToZone,
			Description: "Add a cadence ID to a zone's cadenceIds array by finding the zone with a specific name",
			InputSchema: objectSchema(Schema{
				"userId":    stringProperty("User ID who owns the zone"),
				"zoneName":  stringProperty("Name of the zone to find"),
				"cadenceId": stringProperty("Cadence ID to add to the zone"),
			}, "userId", "zoneName", "cadenceId"),
			Handler: h.addCadenceToZone,
		},
		{
			Name:        ToolGetCurrentTimestamp,
			Description: "Get the current server timestamp as an ISO-8601 string",
			InputSchema: objectSchema(Schema{}),
			ReadOnly:    true,
			Handler:     h.currentTimestamp,
		},
	}

	c := &Catalog{tools: tools, byName: make(map[string]ToolDefinition, len(tools))}
	for _, t := range tools {
		c.byName[t.Name] = t
	}
	return c
}

// Tools returns the definitions in catalog order.
func (c *Catalog) Tools() []ToolDefinition {
	out := make([]ToolDefinition, len(c.tools))
	copy(out, c.tools)
	return out
}

// Lookup returns the definition registered under name.
func (c *Catalog) Lookup(name string) (ToolDefinition, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// Names returns the tool names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.tools))
	for i, t := range c.tools {
		names[i] = t.Name
	}
	return names
}

func objectSchema(properties Schema, required ...string) Schema {
	if required == nil {
		required = []string{}
	}
	return Schema{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func stringProperty(description string) Schema {
	return Schema{"type": "string", "description": description}
}

func objectProperty(description string) Schema {
	return Schema{"type": "object", "description": description}
}

func limitProperty(description string, def int) Schema {
	return Schema{"type": "number", "description": description, "default": def}
}

func filtersProperty(description string) Schema {
	return Schema{
		"type":        "array",
		"description": description,
		"items": objectSchema(Schema{
			"field": stringProperty("Field name to filter"),
			"operator": Schema{
				"type":        "string",
				"enum":        model.Operators,
				"description": "Comparison operator",
			},
			"value": Schema{"description": "Value to compare against (use ISO format for dates)"},
		}, "field", "operator", "value"),
	}
}
