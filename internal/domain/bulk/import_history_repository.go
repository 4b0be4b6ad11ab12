package bulk

import (
	"context"

	"github.com/Apolones/estore/internal/domain/shared"
	"github.com/google/uuid"
)

// ImportHistoryFilter defines the filters for querying import histories
type ImportHistoryFilter struct {
	shared.Filter
	Source *ImportSource
	Status *ImportStatus
}

// ImportHistoryListResult represents a paginated list of import histories
type ImportHistoryListResult struct {
	Items      []*ImportHistory
	TotalCount int64
	Page       int
	PageSize   int
}

// ImportHistoryRepository defines the interface for import history persistence
type ImportHistoryRepository interface {
	// FindByID finds an import history by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ImportHistory, error)

	// FindAll returns a page of import histories, newest first unless the filter orders otherwise
	FindAll(ctx context.Context, filter ImportHistoryFilter) (*ImportHistoryListResult, error)

	// Save saves an import history (create or update)
	Save(ctx context.Context, history *ImportHistory) error
}
