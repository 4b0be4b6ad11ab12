package models

import (
	"encoding/json"
	"time"

	"github.com/Apolones/estore/internal/domain/bulk"
)

// ImportHistoryModel is the persistence model for the ImportHistory domain entity.
type ImportHistoryModel struct {
	BaseModel
	Source       bulk.ImportSource `gorm:"type:varchar(20);not null"`
	FileName     string            `gorm:"type:varchar(255);not null"`
	FileSize     int64             `gorm:"not null;default:0"`
	Encoding     string            `gorm:"type:varchar(50);not null"`
	Status       bulk.ImportStatus `gorm:"type:varchar(20);not null;index"`
	FilesLoaded  int               `gorm:"not null;default:0"`
	RowsLoaded   int               `gorm:"not null;default:0"`
	FailedFile   string            `gorm:"type:varchar(255)"`
	ErrorMessage string            `gorm:"type:text"`
	Files        string            `gorm:"type:text;not null;default:'[]'"`
	StorageKey   string            `gorm:"type:varchar(500)"`
	StartedAt    time.Time         `gorm:"not null;index"`
	CompletedAt  *time.Time
}

// TableName returns the table name for GORM
func (ImportHistoryModel) TableName() string {
	return "import_history"
}

// ToDomain converts the persistence model to a domain ImportHistory entity.
func (m *ImportHistoryModel) ToDomain() *bulk.ImportHistory {
	history := &bulk.ImportHistory{
		ID:           m.ID,
		Source:       m.Source,
		FileName:     m.FileName,
		FileSize:     m.FileSize,
		Encoding:     m.Encoding,
		Status:       m.Status,
		FilesLoaded:  m.FilesLoaded,
		RowsLoaded:   m.RowsLoaded,
		FailedFile:   m.FailedFile,
		ErrorMessage: m.ErrorMessage,
		Files:        make([]bulk.ImportedFile, 0),
		StorageKey:   m.StorageKey,
		StartedAt:    m.StartedAt,
		CompletedAt:  m.CompletedAt,
	}

	if m.Files != "" {
		_ = json.Unmarshal([]byte(m.Files), &history.Files)
	}

	return history
}

// FromDomain populates the persistence model from a domain ImportHistory entity.
func (m *ImportHistoryModel) FromDomain(h *bulk.ImportHistory) {
	m.ID = h.ID
	m.CreatedAt = h.StartedAt
	m.Source = h.Source
	m.FileName = h.FileName
	m.FileSize = h.FileSize
	m.Encoding = h.Encoding
	m.Status = h.Status
	m.FilesLoaded = h.FilesLoaded
	m.RowsLoaded = h.RowsLoaded
	m.FailedFile = h.FailedFile
	m.ErrorMessage = h.ErrorMessage
	m.StorageKey = h.StorageKey
	m.StartedAt = h.StartedAt
	m.CompletedAt = h.CompletedAt

	m.Files = "[]"
	if len(h.Files) > 0 {
		if data, err := json.Marshal(h.Files); err == nil {
			m.Files = string(data)
		}
	}
}

// ImportHistoryModelFromDomain creates a new persistence model from a domain ImportHistory entity.
func ImportHistoryModelFromDomain(h *bulk.ImportHistory) *ImportHistoryModel {
	m := &ImportHistoryModel{}
	m.FromDomain(h)
	return m
}
