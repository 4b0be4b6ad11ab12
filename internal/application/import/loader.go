package importapp

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Apolones/estore/internal/domain/store"
	csvimport "github.com/Apolones/estore/internal/infrastructure/import"
)

// RowSource yields the data rows of one file; io.EOF marks the end.
// *csvimport.RecordParser satisfies it.
type RowSource interface {
	Next() (*csvimport.Row, error)
}

// EntityLoader loads the rows of one file into one entity kind.
//
// The first failing row aborts the file: nothing is written and no further
// rows are read. On success all rows are written as one batch.
type EntityLoader interface {
	Kind() store.EntityKind
	Load(ctx context.Context, repos ImportRepositories, rows RowSource) (int, error)
}

// reference is one foreign key of a row
type reference struct {
	kind  store.EntityKind
	field string
	id    int64
}

// rowMapper turns a raw row into a record of T plus its references
type rowMapper[T any] func(row *csvimport.Row) (T, []reference, error)

// tableLoader is the EntityLoader for one record type.
// width is the minimum number of fields a row must have.
type tableLoader[T any] struct {
	kind   store.EntityKind
	width  int
	mapRow rowMapper[T]
}

// Kind returns the entity kind this loader populates
func (l *tableLoader[T]) Kind() store.EntityKind {
	return l.kind
}

// Load reads rows until EOF or the first failure and writes the batch.
// References are resolved as each row is read.
func (l *tableLoader[T]) Load(ctx context.Context, repos ImportRepositories, rows RowSource) (int, error) {
	var (
		records  []T
		resolver = newReferenceResolver(repos.References())
	)

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		row, err := rows.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		if err := row.Require(l.width); err != nil {
			return 0, err
		}

		record, refs, err := l.mapRow(row)
		if err != nil {
			return 0, err
		}
		if err := resolver.resolve(ctx, row, refs); err != nil {
			return 0, err
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return 0, nil
	}
	if err := repos.Writer().InsertBatch(ctx, l.kind, &records); err != nil {
		return 0, fmt.Errorf("failed to insert %s batch: %w", l.kind, err)
	}
	return len(records), nil
}

// referenceResolver checks foreign keys against the store, remembering ids
// already found for the rest of the file.
type referenceResolver struct {
	refs  store.ReferenceRepository
	found map[reference]bool
}

func newReferenceResolver(refs store.ReferenceRepository) *referenceResolver {
	return &referenceResolver{refs: refs, found: make(map[reference]bool)}
}

func (r *referenceResolver) resolve(ctx context.Context, row *csvimport.Row, refs []reference) error {
	for _, ref := range refs {
		key := reference{kind: ref.kind, id: ref.id}
		if r.found[key] {
			continue
		}

		ok, err := r.refs.Exists(ctx, ref.kind, ref.id)
		if err != nil {
			return fmt.Errorf("failed to resolve %s %d: %w", ref.kind, ref.id, err)
		}
		if !ok {
			return &store.ReferenceNotFoundError{
				Kind:   ref.kind,
				Field:  ref.field,
				ID:     ref.id,
				Row:    row.Line,
				Fields: row.Fields,
			}
		}
		r.found[key] = true
	}
	return nil
}
