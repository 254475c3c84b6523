package usecase

import (
	"context"
	"errors"
	"time"

	"firebase-mcp/internal/config"
	"firebase-mcp/internal/firestore/domain/model"
	"firebase-mcp/internal/firestore/domain/repository"
	sharedErrors "firebase-mcp/internal/shared/errors"
	"firebase-mcp/internal/shared/logger"

	"go.uber.org/zap"
)

// NotInitializedMessage is returned by every operation when no document backend is connected.
const NotInitializedMessage = "Firebase is not initialized. MONGODB_URI environment variable is required."

const (
	// DefaultLimit applies when a caller passes no positive limit.
	DefaultLimit = 20
	// MaxLimit caps a single page.
	MaxLimit = 1000
)

// DocumentUsecase implements the document tools on top of a DocumentStore.
type DocumentUsecase struct {
	store     repository.DocumentStore
	publisher repository.ChangePublisher
	logger    logger.Logger
	project   config.FirebaseConfig
	parser    *model.TimestampParser
	now       func() time.Time
}

// NewDocumentUsecase creates the usecase. store may be nil, in which case
// every operation fails with NotInitializedMessage. publisher may be nil.
func NewDocumentUsecase(
	store repository.DocumentStore,
	publisher repository.ChangePublisher,
	project config.FirebaseConfig,
	log logger.Logger,
) *DocumentUsecase {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &DocumentUsecase{
		store:     store,
		publisher: publisher,
		logger:    log.WithComponent("document-usecase"),
		project:   project,
		parser:    model.NewTimestampParser(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (uc *DocumentUsecase) requireStore() error {
	if uc.store == nil {
		return sharedErrors.NewNotInitializedError(NotInitializedMessage).WithComponent("firestore")
	}
	return nil
}

// consoleURL links a collection or document path into the project console.
func (uc *DocumentUsecase) consoleURL(path string) string {
	return model.ConsoleURL(uc.project.ConsoleBaseURL, uc.project.ProjectID, path)
}

func (uc *DocumentUsecase) documentResult(doc *model.Document) DocumentResult {
	return DocumentResult{
		ID:       doc.ID,
		URL:      uc.consoleURL(doc.Path),
		Document: model.NormalizeTimestamps(doc.Data),
	}
}

// publish forwards a change to the feed. Failures are logged only.
func (uc *DocumentUsecase) publish(ctx context.Context, changeType model.ChangeType, path string, data map[string]interface{}) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, model.NewChangeEvent(changeType, path, data)); err != nil {
		uc.logger.WithContext(ctx).Warn("Failed to publish change event",
			zap.String("path", path),
			zap.String("type", string(changeType)),
			zap.Error(err))
	}
}

// prepareFilters validates filters and converts ISO-8601 string values to timestamps.
func (uc *DocumentUsecase) prepareFilters(filters []model.Filter) ([]model.Filter, error) {
	out := make([]model.Filter, 0, len(filters))
	for _, f := range filters {
		if err := f.Validate(); err != nil {
			return nil, sharedErrors.NewValidationError(err.Error())
		}
		out = append(out, f.WithTimestampValue(uc.parser))
	}
	return out, nil
}

func limitOrDefault(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

func decodePageToken(token string) (string, error) {
	id, err := model.PageToken(token).Decode()
	if err != nil {
		return "", sharedErrors.NewValidationError("Invalid page token: " + token)
	}
	return id, nil
}

func isDocumentNotFound(err error) bool {
	return errors.Is(err, sharedErrors.ErrDocumentNotFound)
}

func required(name, value string) error {
	if value == "" {
		return sharedErrors.NewValidationError(name + " is required")
	}
	return nil
}

// documentPath joins collection and id into a validated document path.
func documentPath(collection, id string) (string, error) {
	if err := required("collection", collection); err != nil {
		return "", err
	}
	if err := required("id", id); err != nil {
		return "", err
	}
	path := model.JoinPath(collection, id)
	if err := model.ValidateDocumentPath(path); err != nil {
		return "", sharedErrors.NewValidationError(err.Error())
	}
	return path, nil
}
