package usecase

import (
	"context"

	"firebase-mcp/internal/firestore/domain/model"
	sharedErrors "firebase-mcp/internal/shared/errors"

	"go.uber.org/zap"
)

// Document operations implementation

// AddDocument writes a new document. A createdAt field is replaced with the
// server timestamp. With an explicit id any existing document is overwritten.
func (uc *DocumentUsecase) AddDocument(ctx context.Context, req AddDocumentRequest) (*DocumentResult, error) {
	if err := uc.requireStore(); err != nil {
		return nil, err
	}
	if err := required("collection", req.Collection); err != nil {
		return nil, err
	}
	log := uc.logger.WithContext(ctx)
	log.Info("Adding document", zap.String("collection", req.Collection), zap.String("id", req.ID))

	data := make(map[string]interface{}, len(req.Data))
	for k, v := range req.Data {
		data[k] = v
	}
	if _, ok := data[model.CreatedAtField]; ok {
		data[model.CreatedAtField] = model.ServerTimestamp
	}

	var (
		doc *model.Document
		err error
	)
	if req.ID != "" {
		path, pathErr := documentPath(req.Collection, req.ID)
		if pathErr != nil {
			return nil, pathErr
		}
		doc, err = uc.store.Set(ctx, path, data)
	} else {
		doc, err = uc.store.Create(ctx, req.Collection, data)
	}
	if err != nil {
		log.Error("Failed to add document", zap.Error(err))
		return nil, sharedErrors.WrapBackend(err, "Error adding document")
	}

	uc.publish(ctx, model.ChangeTypeAdded, doc.Path, doc.Data)
	log.Info("Document added successfully", zap.String("path", doc.Path))
	result := uc.documentResult(doc)
	return &result, nil
}

// GetDocument reads one document.
func (uc *DocumentUsecase) GetDocument(ctx context.Context, req GetDocumentRequest) (*DocumentResult, error) {
	if err := uc.requireStore(); err != nil {
		return nil, err
	}
	path, err := documentPath(req.Collection, req.ID)
	if err != nil {
		return nil, err
	}
	uc.logger.WithContext(ctx).Debug("Getting document", zap.String("path", path))

	doc, err := uc.store.Get(ctx, path)
	if err != nil {
		if isDocumentNotFound(err) {
			return nil, sharedErrors.NewNotFoundError("Document not found")
		}
		return nil, sharedErrors.WrapBackend(err, "Error getting document")
	}

	result := uc.documentResult(doc)
	return &result, nil
}

// UpdateDocument merges data into an existing document and echoes the
// caller's partial data back.
func (uc *DocumentUsecase) UpdateDocument(ctx context.Context, req UpdateDocumentRequest) (*DocumentResult, error) {
	if err := uc.requireStore(); err != nil {
		return nil, err
	}
	path, err := documentPath(req.Collection, req.ID)
	if err != nil {
		return nil, err
	}
	log := uc.logger.WithContext(ctx)
	log.Info("Updating document", zap.String("path", path))

	doc, err := uc.store.Update(ctx, path, req.Data)
	if err != nil {
		log.Error("Failed to update document", zap.Error(err))
		return nil, sharedErrors.WrapBackend(err, "Error updating document")
	}

	uc.publish(ctx, model.ChangeTypeModified, path, doc.Data)
	return &DocumentResult{
		ID:       req.ID,
		URL:      uc.consoleURL(path),
		Document: model.NormalizeTimestamps(req.Data),
	}, nil
}

// DeleteDocument removes a document. Deleting a missing document succeeds.
func (uc *DocumentUsecase) DeleteDocument(ctx context.Context, req DeleteDocumentRequest) (string, error) {
	if err := uc.requireStore(); err != nil {
		return "", err
	}
	path, err := documentPath(req.Collection, req.ID)
	if err != nil {
		return "", err
	}
	log := uc.logger.WithContext(ctx)
	log.Info("Deleting document", zap.String("path", path))

	if err := uc.store.Delete(ctx, path); err != nil {
		log.Error("Failed to delete document", zap.Error(err))
		return "", sharedErrors.WrapBackend(err, "Error deleting document")
	}

	uc.publish(ctx, model.ChangeTypeRemoved, path, nil)
	return "Document deleted successfully", nil
}

// ListDocuments returns one id-ordered page of a collection.
func (uc *DocumentUsecase) ListDocuments(ctx context.Context, req ListDocumentsRequest) (*ListDocumentsResult, error) {
	if err := uc.requireStore(); err != nil {
		return nil, err
	}
	if err := required("collection", req.Collection); err != nil {
		return nil, err
	}
	filters, err := uc.prepareFilters(req.Filters)
	if err != nil {
		return nil, err
	}
	startAfter, err := decodePageToken(req.PageToken)
	if err != nil {
		return nil, err
	}
	limit := limitOrDefault(req.Limit)
	uc.logger.WithContext(ctx).Debug("Listing documents",
		zap.String("collection", req.Collection),
		zap.Int("filters", len(filters)),
		zap.Int("limit", limit))

	query := model.Query{Path: req.Collection, Filters: filters, StartAfter: startAfter}
	total, err := uc.store.Count(ctx, query)
	if err != nil {
		return nil, sharedErrors.WrapBackend(err, "Error listing documents")
	}
	query.Limit = limit
	docs, err := uc.store.Query(ctx, query)
	if err != nil {
		return nil, sharedErrors.WrapBackend(err, "Error listing documents")
	}
	if len(docs) == 0 {
		return nil, sharedErrors.NewEmptyResultError("No matching documents found")
	}

	documents := make([]DocumentResult, 0, len(docs))
	for _, doc := range docs {
		documents = append(documents, uc.documentResult(doc))
	}
	return &ListDocumentsResult{
		TotalCount: total,
		Documents:  documents,
		PageToken:  model.EncodePageToken(docs[len(docs)-1].ID).String(),
		HasMore:    total > int64(limit),
	}, nil
}

// CurrentTimestamp returns the current server time as ISO-8601 text.
func (uc *DocumentUsecase) CurrentTimestamp(ctx context.Context) (string, error) {
	if err := uc.requireStore(); err != nil {
		return "", err
	}
	return model.FormatISO(uc.now()), nil
}
