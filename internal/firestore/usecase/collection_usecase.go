package usecase

import (
	"context"
	"fmt"
	"sort"

	"firebase-mcp/internal/firestore/domain/model"
	sharedErrors "firebase-mcp/internal/shared/errors"

	"go.uber.org/zap"
)

// ListCollections lists root collections, or the subcollections of
// req.DocumentPath, sorted by name.
func (uc *DocumentUsecase) ListCollections(ctx context.Context, req ListCollectionsRequest) (*ListCollectionsResult, error) {
	if err := uc.requireStore(); err != nil {
		return nil, err
	}
	after, err := decodePageToken(req.PageToken)
	if err != nil {
		return nil, err
	}
	limit := limitOrDefault(req.Limit)
	uc.logger.WithContext(ctx).Debug("Listing collections",
		zap.String("documentPath", req.DocumentPath),
		zap.Int("limit", limit))

	refs, err := uc.store.ListCollections(ctx, req.DocumentPath)
	if err != nil {
		return nil, sharedErrors.WrapBackend(err, "Error listing collections")
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })

	start := 0
	if after != "" {
		start = sort.Search(len(refs), func(i int) bool { return refs[i].ID > after })
	}
	end := len(refs)
	if remaining := len(refs) - start; limit < remaining {
		end = start + limit
	}

	collections := make([]CollectionEntry, 0, end-start)
	for _, ref := range refs[start:end] {
		collections = append(collections, CollectionEntry{
			Name: ref.ID,
			URL:  uc.consoleURL(model.JoinPath(req.DocumentPath, ref.ID)),
		})
	}

	result := &ListCollectionsResult{
		Collections: collections,
		HasMore:     end < len(refs),
	}
	if result.HasMore {
		token := model.EncodePageToken(refs[end-1].ID).String()
		result.NextPageToken = &token
	}
	return result, nil
}

// QuerySubcollection finds the first parent document matching
// parentField == parentValue and queries one of its subcollections.
func (uc *DocumentUsecase) QuerySubcollection(ctx context.Context, req QuerySubcollectionRequest) (*SubcollectionResult, error) {
	if err := uc.requireStore(); err != nil {
		return nil, err
	}
	if err := required("parentCollection", req.ParentCollection); err != nil {
		return nil, err
	}
	if err := required("parentField", req.ParentField); err != nil {
		return nil, err
	}
	if err := required("subcollectionName", req.SubcollectionName); err != nil {
		return nil, err
	}
	filters, err := uc.prepareFilters(req.Filters)
	if err != nil {
		return nil, err
	}
	limit := limitOrDefault(req.Limit)
	log := uc.logger.WithContext(ctx)
	log.Debug("Querying subcollection",
		zap.String("parentCollection", req.ParentCollection),
		zap.String("parentField", req.ParentField),
		zap.String("subcollection", req.SubcollectionName))

	parents, err := uc.store.Query(ctx, model.Query{
		Path:    req.ParentCollection,
		Filters: []model.Filter{{Field: req.ParentField, Operator: model.OperatorEqual, Value: req.ParentValue}},
		Limit:   1,
	})
	if err != nil {
		return nil, sharedErrors.WrapBackend(err, "Error querying subcollection")
	}
	if len(parents) == 0 {
		return nil, sharedErrors.NewNotFoundError(fmt.Sprintf("No parent document found in %s where %s = %v",
			req.ParentCollection, req.ParentField, req.ParentValue))
	}
	parent := parents[0]

	subPath := model.JoinPath(req.ParentCollection, parent.ID, req.SubcollectionName)
	docs, err := uc.store.Query(ctx, model.Query{Path: subPath, Filters: filters, Limit: limit})
	if err != nil {
		log.Error("Failed to query subcollection", zap.String("path", subPath), zap.Error(err))
		return nil, sharedErrors.WrapBackend(err, "Error querying subcollection")
	}

	documents := make([]SubcollectionDocument, 0, len(docs))
	for _, doc := range docs {
		documents = append(documents, SubcollectionDocument{
			ID:   doc.ID,
			Data: model.NormalizeTimestamps(doc.Data),
		})
	}
	return &SubcollectionResult{
		ParentDocument: ParentDocument{
			ID:         parent.ID,
			Collection: req.ParentCollection,
			Data:       model.NormalizeTimestamps(parent.Data),
		},
		Subcollection: Subcollection{
			Path:       subPath,
			TotalCount: len(documents),
			Documents:  documents,
		},
	}, nil
}
