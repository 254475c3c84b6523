package usecase

import (
	"context"
	"errors"
	"fmt"

	"firebase-mcp/internal/firestore/domain/model"
	sharedErrors "firebase-mcp/internal/shared/errors"

	"go.uber.org/zap"
)

// Zone cadence layout
const (
	zoneListTemplate = "zone/%s/zoneList"
	zoneNameField    = "zoneName"
	cadenceIDsField  = "cadenceIds"
)

// errNoMatch is returned by AddToMatchedArray when no document matches.
var errNoMatch = errors.New("no matching document")

// UpdateArrayField adds a value to, or removes it from, an array field.
func (uc *DocumentUsecase) UpdateArrayField(ctx context.Context, req UpdateArrayFieldRequest) (*ArrayFieldResult, error) {
	if err := uc.requireStore(); err != nil {
		return nil, err
	}
	path, err := documentPath(req.Collection, req.ID)
	if err != nil {
		return nil, err
	}
	if err := required("field", req.Field); err != nil {
		return nil, err
	}
	if req.Operation != ArrayOperationAdd && req.Operation != ArrayOperationRemove {
		return nil, sharedErrors.NewValidationError(fmt.Sprintf("operation must be %q or %q", ArrayOperationAdd, ArrayOperationRemove))
	}
	log := uc.logger.WithContext(ctx)
	log.Info("Updating array field",
		zap.String("path", path),
		zap.String("field", req.Field),
		zap.String("operation", req.Operation))

	if _, err := uc.store.Get(ctx, path); err != nil {
		if isDocumentNotFound(err) {
			return nil, sharedErrors.NewNotFoundError("Document not found")
		}
		return nil, sharedErrors.WrapBackend(err, "Error updating array field")
	}

	elements := []interface{}{req.Value}
	if req.Operation == ArrayOperationAdd {
		err = uc.store.ArrayUnion(ctx, path, req.Field, elements)
	} else {
		err = uc.store.ArrayRemove(ctx, path, req.Field, elements)
	}
	if err != nil {
		log.Error("Failed to update array field", zap.Error(err))
		return nil, sharedErrors.WrapBackend(err, "Error updating array field")
	}

	doc, err := uc.store.Get(ctx, path)
	if err != nil {
		return nil, sharedErrors.WrapBackend(err, "Error updating array field")
	}
	uc.publish(ctx, model.ChangeTypeModified, path, doc.Data)

	description := "removed value"
	if req.Operation == ArrayOperationAdd {
		description = "updated with new value"
	}
	return &ArrayFieldResult{
		ID:        doc.ID,
		URL:       uc.consoleURL(path),
		Document:  model.NormalizeTimestamps(doc.Data),
		Operation: fmt.Sprintf("Array field '%s' %s", req.Field, description),
	}, nil
}

// AddToMatchedArray finds the first document in req.CollectionPath whose
// MatchField equals MatchValue, unions Value into its ArrayField and returns
// the re-read document. It returns errNoMatch when nothing matches.
func (uc *DocumentUsecase) AddToMatchedArray(ctx context.Context, req AddToMatchedArrayRequest) (*model.Document, error) {
	if err := uc.requireStore(); err != nil {
		return nil, err
	}
	matches, err := uc.store.Query(ctx, model.Query{
		Path:    req.CollectionPath,
		Filters: []model.Filter{{Field: req.MatchField, Operator: model.OperatorEqual, Value: req.MatchValue}},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, errNoMatch
	}

	path := matches[0].Path
	if err := uc.store.ArrayUnion(ctx, path, req.ArrayField, []interface{}{req.Value}); err != nil {
		return nil, err
	}
	doc, err := uc.store.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, model.ChangeTypeModified, path, doc.Data)
	return doc, nil
}

// AddCadenceToZone adds a cadence id to the named zone of a user.
func (uc *DocumentUsecase) AddCadenceToZone(ctx context.Context, req AddCadenceToZoneRequest) (*CadenceResult, error) {
	if err := uc.requireStore(); err != nil {
		return nil, err
	}
	if err := required("userId", req.UserID); err != nil {
		return nil, err
	}
	if err := required("zoneName", req.ZoneName); err != nil {
		return nil, err
	}
	if err := required("cadenceId", req.CadenceID); err != nil {
		return nil, err
	}
	zoneListPath := fmt.Sprintf(zoneListTemplate, req.UserID)
	log := uc.logger.WithContext(ctx)
	log.Info("Adding cadence to zone",
		zap.String("userId", req.UserID),
		zap.String("zoneName", req.ZoneName),
		zap.String("cadenceId", req.CadenceID))

	doc, err := uc.AddToMatchedArray(ctx, AddToMatchedArrayRequest{
		CollectionPath: zoneListPath,
		MatchField:     zoneNameField,
		MatchValue:     req.ZoneName,
		ArrayField:     cadenceIDsField,
		Value:          req.CadenceID,
	})
	if errors.Is(err, errNoMatch) {
		return nil, sharedErrors.NewNotFoundError(fmt.Sprintf("No zone found with name %q for user %s", req.ZoneName, req.UserID))
	}
	if err != nil {
		log.Error("Failed to add cadence to zone", zap.Error(err))
		return nil, sharedErrors.WrapBackend(err, "Error adding cadence to zone")
	}

	return &CadenceResult{
		Message:  fmt.Sprintf("Successfully added cadence %s to zone %q", req.CadenceID, req.ZoneName),
		ZoneID:   doc.ID,
		UserID:   req.UserID,
		URL:      uc.consoleURL(model.JoinPath(zoneListPath, doc.ID)),
		ZoneData: model.NormalizeTimestamps(doc.Data),
	}, nil
}
