package dto

import (
	"time"

	importapp "github.com/Apolones/estore/internal/application/import"
	"github.com/Apolones/estore/internal/domain/bulk"
)

// ImportedFileResponse describes one loaded file
type ImportedFileResponse struct {
	Name string `json:"name" example:"ElectroItem.csv"`
	Kind string `json:"kind" example:"ElectroItem"`
	Rows int    `json:"rows" example:"120"`
}

// ImportResultResponse is the summary of a successful import
// @Description Summary of a completed archive or CSV import
type ImportResultResponse struct {
	ID        string                 `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Encoding  string                 `json:"encoding" example:"windows-1251"`
	Files     []ImportedFileResponse `json:"files"`
	TotalRows int                    `json:"total_rows" example:"480"`
}

// ImportHistoryResponse is one recorded import
// @Description Recorded import with its outcome
type ImportHistoryResponse struct {
	ID           string                 `json:"id"`
	Source       string                 `json:"source" example:"archive"`
	FileName     string                 `json:"file_name" example:"store.zip"`
	FileSize     int64                  `json:"file_size" example:"20480"`
	Encoding     string                 `json:"encoding" example:"windows-1251"`
	Status       string                 `json:"status" example:"completed"`
	FilesLoaded  int                    `json:"files_loaded" example:"9"`
	RowsLoaded   int                    `json:"rows_loaded" example:"480"`
	FailedFile   string                 `json:"failed_file,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	Files        []ImportedFileResponse `json:"files"`
	StorageKey   string                 `json:"storage_key,omitempty"`
	StartedAt    time.Time              `json:"started_at"`
	CompletedAt  *time.Time             `json:"completed_at,omitempty"`
	DurationMs   int64                  `json:"duration_ms" example:"153"`
}

// ImportHistoryListRequest holds the query parameters of the import history list
type ImportHistoryListRequest struct {
	ListRequest
	Source string `form:"source" binding:"omitempty,oneof=archive csv"`
	Status string `form:"status" binding:"omitempty,oneof=processing completed failed"`
}

// Filter converts the request into a repository filter
func (r ImportHistoryListRequest) Filter() bulk.ImportHistoryFilter {
	filter := bulk.ImportHistoryFilter{}
	filter.Page = r.Page
	filter.PageSize = r.PageSize
	filter.OrderBy = r.OrderBy
	filter.OrderDir = r.OrderDir
	if r.Source != "" {
		source := bulk.ImportSource(r.Source)
		filter.Source = &source
	}
	if r.Status != "" {
		status := bulk.ImportStatus(r.Status)
		filter.Status = &status
	}
	return filter
}

func toImportedFiles(files []bulk.ImportedFile) []ImportedFileResponse {
	out := make([]ImportedFileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, ImportedFileResponse{Name: f.Name, Kind: f.Kind, Rows: f.Rows})
	}
	return out
}

// NewImportResultResponse converts an import result
func NewImportResultResponse(r *importapp.ImportResult) ImportResultResponse {
	return ImportResultResponse{
		ID:        r.ID.String(),
		Encoding:  r.Encoding,
		Files:     toImportedFiles(r.Files),
		TotalRows: r.TotalRows,
	}
}

// NewImportHistoryResponse converts a recorded import
func NewImportHistoryResponse(h *bulk.ImportHistory) ImportHistoryResponse {
	return ImportHistoryResponse{
		ID:           h.ID.String(),
		Source:       string(h.Source),
		FileName:     h.FileName,
		FileSize:     h.FileSize,
		Encoding:     h.Encoding,
		Status:       string(h.Status),
		FilesLoaded:  h.FilesLoaded,
		RowsLoaded:   h.RowsLoaded,
		FailedFile:   h.FailedFile,
		ErrorMessage: h.ErrorMessage,
		Files:        toImportedFiles(h.Files),
		StorageKey:   h.StorageKey,
		StartedAt:    h.StartedAt,
		CompletedAt:  h.CompletedAt,
		DurationMs:   h.Duration().Milliseconds(),
	}
}

// NewImportHistoryListResponse converts a page of recorded imports
func NewImportHistoryListResponse(result *bulk.ImportHistoryListResult) []ImportHistoryResponse {
	items := make([]ImportHistoryResponse, 0, len(result.Items))
	for _, h := range result.Items {
		items = append(items, NewImportHistoryResponse(h))
	}
	return items
}
