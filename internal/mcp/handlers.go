package mcp

import (
	"context"

	authModel "firebase-mcp/internal/auth/domain/model"
	firestoreUsecase "firebase-mcp/internal/firestore/usecase"
	storageUsecase "firebase-mcp/internal/storage/usecase"
)

// HandlerFunc executes one tool. A returned error is rendered as an
// error-flagged Result by the dispatcher.
type HandlerFunc func(ctx context.Context, args Arguments) (*Result, error)

// DocumentService is the document-store surface the tools call.
type DocumentService interface {
	AddDocument(ctx context.Context, req firestoreUsecase.AddDocumentRequest) (*firestoreUsecase.DocumentResult, error)
	GetDocument(ctx context.Context, req firestoreUsecase.GetDocumentRequest) (*firestoreUsecase.DocumentResult, error)
	UpdateDocument(ctx context.Context, req firestoreUsecase.UpdateDocumentRequest) (*firestoreUsecase.DocumentResult, error)
	DeleteDocument(ctx context.Context, req firestoreUsecase.DeleteDocumentRequest) (string, error)
	ListDocuments(ctx context.Context, req firestoreUsecase.ListDocumentsRequest) (*firestoreUsecase.ListDocumentsResult, error)
	ListCollections(ctx context.Context, req firestoreUsecase.ListCollectionsRequest) (*firestoreUsecase.ListCollectionsResult, error)
	UpdateArrayField(ctx context.Context, req firestoreUsecase.UpdateArrayFieldRequest) (*firestoreUsecase.ArrayFieldResult, error)
	QuerySubcollection(ctx context.Context, req firestoreUsecase.QuerySubcollectionRequest) (*firestoreUsecase.SubcollectionResult, error)
	AddCadenceToZone(ctx context.Context, req firestoreUsecase.AddCadenceToZoneRequest) (*firestoreUsecase.CadenceResult, error)
	CurrentTimestamp(ctx context.Context) (string, error)
}

// UserService is the directory surface the tools call.
type UserService interface {
	GetUser(ctx context.Context, identifier string) (*authModel.UserRecord, error)
}

// FileService is the blob-storage surface the tools call.
type FileService interface {
	ListFiles(ctx context.Context, directoryPath string, pageSize int, pageToken string) (*storageUsecase.ListFilesResult, error)
	GetFileInfo(ctx context.Context, filePath string) (*storageUsecase.FileInfoResult, error)
}

// Handlers adapts tool arguments to the backend services.
type Handlers struct {
	documents DocumentService
	users     UserService
	files     FileService
}

// NewHandlers creates the handler set.
func NewHandlers(documents DocumentService, users UserService, files FileService) *Handlers {
	return &Handlers{documents: documents, users: users, files: files}
}

func (h *Handlers) addDocument(ctx context.Context, args Arguments) (*Result, error) {
	collection, err := args.String("collection")
	if err != nil {
		return nil, err
	}
	data, err := args.Object("data")
	if err != nil {
		return nil, err
	}
	id, err := args.String("id")
	if err != nil {
		return nil, err
	}
	res, err := h.documents.AddDocument(ctx, firestoreUsecase.AddDocumentRequest{
		Collection: collection,
		Data:       data,
		ID:         id,
	})
	if err != nil {
		return nil, err
	}
	return JSONResult(res)
}

func (h *Handlers) listCollections(ctx context.Context, args Arguments) (*Result, error) {
	documentPath, err := args.String("documentPath")
	if err != nil {
		return nil, err
	}
	limit, err := args.Int("limit", firestoreUsecase.DefaultLimit)
	if err != nil {
		return nil, err
	}
	pageToken, err := args.String("pageToken")
	if err != nil {
		return nil, err
	}
	res, err := h.documents.ListCollections(ctx, firestoreUsecase.ListCollectionsRequest{
		DocumentPath: documentPath,
		Limit:        limit,
		PageToken:    pageToken,
	})
	if err != nil {
		return nil, err
	}
	return JSONResult(res)
}

func (h *Handlers) listDocuments(ctx context.Context, args Arguments) (*Result, error) {
	collection, err := args.String("collection")
	if err != nil {
		return nil, err
	}
	filters, err := args.Filters("filters")
	if err != nil {
		return nil, err
	}
	limit, err := args.Int("limit", firestoreUsecase.DefaultLimit)
	if err != nil {
		return nil, err
	}
	pageToken, err := args.String("pageToken")
	if err != nil {
		return nil, err
	}
	res, err := h.documents.ListDocuments(ctx, firestoreUsecase.ListDocumentsRequest{
		Collection: collection,
		Filters:    filters,
		Limit:      limit,
		PageToken:  pageToken,
	})
	if err != nil {
		return nil, err
	}
	return JSONResult(res)
}

func (h *Handlers) getDocument(ctx context.Context, args Arguments) (*Result, error) {
	collection, id, err := collectionAndID(args)
	if err != nil {
		return nil, err
	}
	res, err := h.documents.GetDocument(ctx, firestoreUsecase.GetDocumentRequest{Collection: collection, ID: id})
	if err != nil {
		return nil, err
	}
	return JSONResult(res)
}

func (h *Handlers) updateDocument(ctx context.Context, args Arguments) (*Result, error) {
	collection, id, err := collectionAndID(args)
	if err != nil {
		return nil, err
	}
	data, err := args.Object("data")
	if err != nil {
		return nil, err
	}
	res, err := h.documents.UpdateDocument(ctx, firestoreUsecase.UpdateDocumentRequest{
		Collection: collection,
		ID:         id,
		Data:       data,
	})
	if err != nil {
		return nil, err
	}
	return JSONResult(res)
}

func (h *Handlers) deleteDocument(ctx context.Context, args Arguments) (*Result, error) {
	collection, id, err := collectionAndID(args)
	if err != nil {
		return nil, err
	}
	msg, err := h.documents.DeleteDocument(ctx, firestoreUsecase.DeleteDocumentRequest{Collection: collection, ID: id})
	if err != nil {
		return nil, err
	}
	return TextResult(msg), nil
}

func (h *Handlers) getUser(ctx context.Context, args Arguments) (*Result, error) {
	identifier, err := args.String("identifier")
	if err != nil {
		return nil, err
	}
	user, err := h.users.GetUser(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return JSONResult(user)
}

func (h *Handlers) listFiles(ctx context.Context, args Arguments) (*Result, error) {
	directoryPath, err := args.String("directoryPath")
	if err != nil {
		return nil, err
	}
	pageSize, err := args.Int("pageSize", storageUsecase.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	pageToken, err := args.String("pageToken")
	if err != nil {
		return nil, err
	}
	res, err := h.files.ListFiles(ctx, directoryPath, pageSize, pageToken)
	if err != nil {
		return nil, err
	}
	return JSONResult(res)
}

func (h *Handlers) getFileInfo(ctx context.Context, args Arguments) (*Result, error) {
	filePath, err := args.String("filePath")
	if err != nil {
		return nil, err
	}
	res, err := h.files.GetFileInfo(ctx, filePath)
	if err != nil {
		return nil, err
	}
	return JSONResult(res)
}

func (h *Handlers) updateArrayField(ctx context.Context, args Arguments) (*Result, error) {
	collection, id, err := collectionAndID(args)
	if err != nil {
		return nil, err
	}
	field, err := args.String("field")
	if err != nil {
		return nil, err
	}
	operation, err := args.String("operation")
	if err != nil {
		return nil, err
	}
	res, err := h.documents.UpdateArrayField(ctx, firestoreUsecase.UpdateArrayFieldRequest{
		Collection: collection,
		ID:         id,
		Field:      field,
		Value:      args.Value("value"),
		Operation:  operation,
	})
	if err != nil {
		return nil, err
	}
	return JSONResult(res)
}

func (h *Handlers) querySubcollection(ctx context.Context, args Arguments) (*Result, error) {
	var req firestoreUsecase.QuerySubcollectionRequest
	var err error
	if req.ParentCollection, err = args.String("parentCollection"); err != nil {
		return nil, err
	}
	if req.ParentField, err = args.String("parentField"); err != nil {
		return nil, err
	}
	if req.SubcollectionName, err = args.String("subcollectionName"); err != nil {
		return nil, err
	}
	if req.Filters, err = args.Filters("filters"); err != nil {
		return nil, err
	}
	if req.Limit, err = args.Int("limit", firestoreUsecase.DefaultLimit); err != nil {
		return nil, err
	}
	req.ParentValue = args.Value("parentValue")

	res, err := h.documents.QuerySubcollection(ctx, req)
	if err != nil {
		return nil, err
	}
	return JSONResult(res)
}

func (h *Handlers) addCadenceToZone(ctx context.Context, args Arguments) (*Result, error) {
	var req firestoreUsecase.AddCadenceToZoneRequest
	var err error
	if req.UserID, err = args.String("userId"); err != nil {
		return nil, err
	}
	if req.ZoneName, err = args.String("zoneName"); err != nil {
		return nil, err
	}
	if req.CadenceID, err = args.String("cadenceId"); err != nil {
		return nil, err
	}
	res, err := h.documents.AddCadenceToZone(ctx, req)
	if err != nil {
		return nil, err
	}
	return JSONResult(res)
}

func (h *Handlers) currentTimestamp(ctx context.Context, _ Arguments) (*Result, error) {
	ts, err := h.documents.CurrentTimestamp(ctx)
	if err != nil {
		return nil, err
	}
	return TextResult(ts), nil
}

func collectionAndID(args Arguments) (string, string, error) {
	collection, err := args.String("collection")
	if err != nil {
		return "", "", err
	}
	id, err := args.String("id")
	if err != nil {
		return "", "", err
	}
	return collection, id, nil
}
