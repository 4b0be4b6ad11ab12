package importapp

import (
	"context"
	"reflect"
	"sync"

	"github.com/Apolones/estore/internal/domain/bulk"
	"github.com/Apolones/estore/internal/domain/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockImportHistoryRepository is a mock implementation of ImportHistoryRepository
type MockImportHistoryRepository struct {
	mock.Mock
}

func (m *MockImportHistoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*bulk.ImportHistory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.ImportHistory), args.Error(1)
}

func (m *MockImportHistoryRepository) FindAll(ctx context.Context, filter bulk.ImportHistoryFilter) (*bulk.ImportHistoryListResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.ImportHistoryListResult), args.Error(1)
}

func (m *MockImportHistoryRepository) Save(ctx context.Context, history *bulk.ImportHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

// memoryStore is an in-memory ImportScope. Writes of a failed Execute are discarded.
type memoryStore struct {
	mu          sync.Mutex
	ids         map[store.EntityKind]map[int64]bool
	batches     map[store.EntityKind][]any
	executes    int
	insertCalls int
	lookups     int
	insertErr   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		ids:     make(map[store.EntityKind]map[int64]bool),
		batches: make(map[store.EntityKind][]any),
	}
}

func (s *memoryStore) seed(kind store.EntityKind, ids ...int64) {
	if s.ids[kind] == nil {
		s.ids[kind] = make(map[int64]bool)
	}
	for _, id := range ids {
		s.ids[kind][id] = true
	}
}

func (s *memoryStore) Execute(_ context.Context, fn func(repos ImportRepositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executes++

	tx := &memoryTx{store: s, pending: make(map[store.EntityKind][]any)}
	if err := fn(tx); err != nil {
		return err
	}
	for kind, batch := range tx.pending {
		s.batches[kind] = append(s.batches[kind], batch...)
		for _, rec := range batch {
			if id, ok := recordID(rec); ok {
				s.seed(kind, id)
			}
		}
	}
	return nil
}

func (s *memoryStore) rows(kind store.EntityKind) []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches[kind]
}

type memoryTx struct {
	store   *memoryStore
	pending map[store.EntityKind][]any
}

func (t *memoryTx) References() store.ReferenceRepository { return t }
func (t *memoryTx) Writer() store.BatchWriter             { return t }

func (t *memoryTx) Exists(_ context.Context, kind store.EntityKind, id int64) (bool, error) {
	t.store.lookups++
	return t.store.ids[kind][id], nil
}

func (t *memoryTx) InsertBatch(_ context.Context, kind store.EntityKind, records any) error {
	if t.store.insertErr != nil {
		return t.store.insertErr
	}
	t.store.insertCalls++
	v := reflect.ValueOf(records).Elem()
	for i := 0; i < v.Len(); i++ {
		t.pending[kind] = append(t.pending[kind], v.Index(i).Interface())
	}
	return nil
}

// recordID extracts the ID field of an entity, if it has one
func recordID(rec any) (int64, bool) {
	v := reflect.ValueOf(rec)
	f := v.FieldByName("ID")
	if !f.IsValid() {
		return 0, false
	}
	return f.Int(), true
}
