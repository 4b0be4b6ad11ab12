package persistence

import (
	"context"

	importapp "github.com/Apolones/estore/internal/application/import"
	"github.com/Apolones/estore/internal/domain/store"
	"gorm.io/gorm"
)

// GormImportScope implements importapp.ImportScope with one GORM transaction per file
type GormImportScope struct {
	db        *gorm.DB
	batchSize int
}

// NewGormImportScope creates a new GormImportScope
func NewGormImportScope(db *gorm.DB, batchSize int) *GormImportScope {
	return &GormImportScope{db: db, batchSize: batchSize}
}

// Execute runs fn in a transaction; an error from fn rolls back every row of the file
func (s *GormImportScope) Execute(ctx context.Context, fn func(repos importapp.ImportRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormImportRepositories{tx: tx, batchSize: s.batchSize})
	})
}

type gormImportRepositories struct {
	tx        *gorm.DB
	batchSize int
}

// References returns the reference lookups scoped to the current transaction
func (r *gormImportRepositories) References() store.ReferenceRepository {
	return NewGormReferenceRepository(r.tx)
}

// Writer returns the batch writer scoped to the current transaction
func (r *gormImportRepositories) Writer() store.BatchWriter {
	return NewGormBatchWriter(r.tx, r.batchSize)
}

var (
	_ importapp.ImportScope        = (*GormImportScope)(nil)
	_ importapp.ImportRepositories = (*gormImportRepositories)(nil)
)
