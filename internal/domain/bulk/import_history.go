package bulk

import (
	"fmt"
	"time"

	"github.com/Apolones/estore/internal/domain/shared"
	"github.com/google/uuid"
)

// ImportSource tells how the data was uploaded
type ImportSource string

const (
	ImportSourceArchive ImportSource = "archive"
	ImportSourceCSV     ImportSource = "csv"
)

// IsValid checks if the source is valid
func (s ImportSource) IsValid() bool {
	return s == ImportSourceArchive || s == ImportSourceCSV
}

// ImportStatus represents the status of an import operation
type ImportStatus string

const (
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusFailed     ImportStatus = "failed"
)

// IsTerminal returns true if this is a terminal state
func (s ImportStatus) IsTerminal() bool {
	return s == ImportStatusCompleted || s == ImportStatusFailed
}

// ImportedFile is one committed file of an import
type ImportedFile struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Rows int    `json:"rows"`
}

// ImportHistory tracks one archive or CSV upload from start to its terminal state.
// Files holds only the files that were committed; a failed import keeps the
// files loaded before the failing one.
type ImportHistory struct {
	ID           uuid.UUID      `json:"id"`
	Source       ImportSource   `json:"source"`
	FileName     string         `json:"file_name"`
	FileSize     int64          `json:"file_size"`
	Encoding     string         `json:"encoding"`
	Status       ImportStatus   `json:"status"`
	FilesLoaded  int            `json:"files_loaded"`
	RowsLoaded   int            `json:"rows_loaded"`
	FailedFile   string         `json:"failed_file,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Files        []ImportedFile `json:"files"`
	StorageKey   string         `json:"storage_key,omitempty"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
}

// NewImportHistory starts a new import record in the processing state
func NewImportHistory(source ImportSource, fileName string, fileSize int64, encoding string) (*ImportHistory, error) {
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_IMPORT_SOURCE", fmt.Sprintf("Invalid import source: %s", source))
	}
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if fileSize < 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size cannot be negative")
	}

	return &ImportHistory{
		ID:        uuid.New(),
		Source:    source,
		FileName:  fileName,
		FileSize:  fileSize,
		Encoding:  encoding,
		Status:    ImportStatusProcessing,
		Files:     make([]ImportedFile, 0),
		StartedAt: time.Now(),
	}, nil
}

// RecordFile registers a committed file
func (h *ImportHistory) RecordFile(name, kind string, rows int) error {
	if h.Status != ImportStatusProcessing {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record a file in state: %s", h.Status))
	}
	h.Files = append(h.Files, ImportedFile{Name: name, Kind: kind, Rows: rows})
	h.FilesLoaded++
	h.RowsLoaded += rows
	return nil
}

// Complete marks the import as successfully completed
func (h *ImportHistory) Complete() error {
	if h.Status != ImportStatusProcessing {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete from state: %s", h.Status))
	}
	h.Status = ImportStatusCompleted
	now := time.Now()
	h.CompletedAt = &now
	return nil
}

// Fail marks the import as failed. failedFile may be empty when the failure
// happened before any file was loaded.
func (h *ImportHistory) Fail(failedFile string, cause error) error {
	if h.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail from terminal state: %s", h.Status))
	}
	h.Status = ImportStatusFailed
	h.FailedFile = failedFile
	if cause != nil {
		h.ErrorMessage = cause.Error()
	}
	now := time.Now()
	h.CompletedAt = &now
	return nil
}

// Duration returns how long the import ran, up to now when it is still running
func (h *ImportHistory) Duration() time.Duration {
	end := time.Now()
	if h.CompletedAt != nil {
		end = *h.CompletedAt
	}
	return end.Sub(h.StartedAt)
}
