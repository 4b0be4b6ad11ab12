package importapp

import (
	"context"

	"github.com/Apolones/estore/internal/domain/bulk"
	"github.com/Apolones/estore/internal/domain/shared"
	"github.com/google/uuid"
)

// ImportHistoryService serves the import history
type ImportHistoryService struct {
	historyRepo bulk.ImportHistoryRepository
}

// NewImportHistoryService creates a new ImportHistoryService
func NewImportHistoryService(historyRepo bulk.ImportHistoryRepository) *ImportHistoryService {
	return &ImportHistoryService{
		historyRepo: historyRepo,
	}
}

// GetByID returns one import
func (s *ImportHistoryService) GetByID(ctx context.Context, id uuid.UUID) (*bulk.ImportHistory, error) {
	return s.historyRepo.FindByID(ctx, id)
}

// List returns imports, newest first
func (s *ImportHistoryService) List(ctx context.Context, filter bulk.ImportHistoryFilter) (*bulk.ImportHistoryListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = shared.DefaultFilter().PageSize
	}
	if filter.Status != nil && !isKnownStatus(*filter.Status) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown import status: "+string(*filter.Status))
	}
	if filter.Source != nil && !filter.Source.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown import source: "+string(*filter.Source))
	}
	return s.historyRepo.FindAll(ctx, filter)
}

func isKnownStatus(s bulk.ImportStatus) bool {
	return s == bulk.ImportStatusProcessing || s.IsTerminal()
}
