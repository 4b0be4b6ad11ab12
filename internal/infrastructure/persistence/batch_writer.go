package persistence

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/Apolones/estore/internal/domain/store"
	"gorm.io/gorm"
)

// DefaultBatchSize is the number of rows per INSERT statement
const DefaultBatchSize = 500

// GormBatchWriter implements store.BatchWriter using GORM batch inserts
type GormBatchWriter struct {
	db        *gorm.DB
	batchSize int
}

// NewGormBatchWriter creates a new GormBatchWriter
func NewGormBatchWriter(db *gorm.DB, batchSize int) *GormBatchWriter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &GormBatchWriter{db: db, batchSize: batchSize}
}

// InsertBatch inserts records, a pointer to a slice of entities of kind.
// Rows that already exist fail the batch with a *store.DuplicateRecordError.
func (w *GormBatchWriter) InsertBatch(ctx context.Context, kind store.EntityKind, records any) error {
	v := reflect.ValueOf(records)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("records must be a pointer to a slice, got %T", records)
	}
	if v.Elem().Len() == 0 {
		return nil
	}

	db := w.db.WithContext(ctx)
	if err := db.CreateInBatches(records, w.batchSize).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &store.DuplicateRecordError{Kind: kind, Err: err}
		}
		return err
	}

	// Purchases carry explicit ids; move the sequence past them so the
	// next purchase gets a fresh id
	if kind == store.KindPurchase && IsPostgres(db) {
		return syncPurchaseSequence(db)
	}
	return nil
}

func syncPurchaseSequence(db *gorm.DB) error {
	err := db.Exec(
		`SELECT setval(pg_get_serial_sequence('store_purchase', 'id'), (SELECT COALESCE(MAX(id), 1) FROM store_purchase))`,
	).Error
	if err != nil {
		return fmt.Errorf("failed to sync purchase id sequence: %w", err)
	}
	return nil
}

var _ store.BatchWriter = (*GormBatchWriter)(nil)
