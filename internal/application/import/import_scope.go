package importapp

import (
	"context"

	"github.com/Apolones/estore/internal/domain/store"
)

// ImportScope runs the load of one file as a single unit of work.
// If fn returns an error nothing it wrote is kept.
type ImportScope interface {
	Execute(ctx context.Context, fn func(repos ImportRepositories) error) error
}

// ImportRepositories gives a loader access to storage inside one ImportScope.
// Both repositories share the same underlying transaction.
type ImportRepositories interface {
	// References resolves foreign keys against already loaded entities
	References() store.ReferenceRepository
	// Writer persists the loaded batch
	Writer() store.BatchWriter
}

// ArchiveStore keeps a copy of every accepted upload
type ArchiveStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
}

// ImportMetrics records import outcomes
type ImportMetrics interface {
	RecordFileLoaded(ctx context.Context, kind store.EntityKind, rows int)
	RecordImportFinished(ctx context.Context, source string, success bool)
}
