package importapp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Apolones/estore/internal/domain/store"
	csvimport "github.com/Apolones/estore/internal/infrastructure/import"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, data string) *csvimport.RecordParser {
	t.Helper()
	p, err := csvimport.NewRecordParser(strings.NewReader(data), "UTF-8")
	require.NoError(t, err)
	return p
}

func load(t *testing.T, s *memoryStore, loader EntityLoader, data string) (int, error) {
	t.Helper()
	var n int
	err := s.Execute(context.Background(), func(repos ImportRepositories) error {
		var err error
		n, err = loader.Load(context.Background(), repos, parse(t, data))
		return err
	})
	return n, err
}

func TestShopLoader(t *testing.T) {
	s := newMemoryStore()

	n, err := load(t, s, NewShopLoader(), "id;name;address\n1;Central;Main st. 1\n2;North;\n")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, s.insertCalls)

	rows := s.rows(store.KindShop)
	require.Len(t, rows, 2)
	assert.Equal(t, store.Shop{ID: 1, Name: "Central", Address: "Main st. 1"}, rows[0])
}

func TestLoader_EmptyFileWritesNothing(t *testing.T) {
	s := newMemoryStore()

	n, err := load(t, s, NewElectroTypeLoader(), "id;name\n")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, s.insertCalls)
}

func TestElectroItemLoader(t *testing.T) {
	t.Run("resolved", func(t *testing.T) {
		s := newMemoryStore()
		s.seed(store.KindElectroType, 3)

		n, err := load(t, s, NewElectroItemLoader(),
			"id;name;etype;price;count;archive;description\n10;TV;3;45000;4;false;4K panel\n11;Radio;3;1500;0;TRUE;\n")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		rows := s.rows(store.KindElectroItem)
		require.Len(t, rows, 2)
		item := rows[0].(store.ElectroItem)
		assert.Equal(t, int64(3), item.ElectroTypeID)
		assert.Equal(t, int64(45000), item.Price)
		assert.Equal(t, 4, item.Count)
		assert.False(t, item.Archive)
		assert.Equal(t, "4K panel", item.Description)
		assert.True(t, rows[1].(store.ElectroItem).Archive)
	})

	t.Run("missing type", func(t *testing.T) {
		s := newMemoryStore()
		s.seed(store.KindElectroType, 1)

		_, err := load(t, s, NewElectroItemLoader(),
			"id;name;etype;price;count;archive;description\n10;TV;1;100;1;false;x\n11;Radio;999;100;1;false;y\n")

		var refErr *store.ReferenceNotFoundError
		require.ErrorAs(t, err, &refErr)
		assert.Equal(t, store.KindElectroType, refErr.Kind)
		assert.Equal(t, int64(999), refErr.ID)
		assert.Equal(t, "electroTypeId", refErr.Field)
		assert.Equal(t, 3, refErr.Row)
		assert.Equal(t, "11", refErr.Fields[0])
		assert.Empty(t, s.rows(store.KindElectroItem))
	})

	t.Run("bad price", func(t *testing.T) {
		s := newMemoryStore()
		s.seed(store.KindElectroType, 1)

		_, err := load(t, s, NewElectroItemLoader(),
			"id;name;etype;price;count;archive;description\n10;TV;1;cheap;1;false;x\n")

		var fieldErr *store.FieldFormatError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, 2, fieldErr.Row)
		assert.Equal(t, 4, fieldErr.Field)
		assert.Equal(t, "cheap", fieldErr.Raw)
		assert.Zero(t, s.insertCalls)
	})

	t.Run("too few fields", func(t *testing.T) {
		s := newMemoryStore()

		_, err := load(t, s, NewElectroItemLoader(), "header\n10;TV;1\n")

		var malformed *store.MalformedRecordError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, []string{"10", "TV", "1"}, malformed.Fields)
	})
}

func TestLoader_FirstFailingRowWins(t *testing.T) {
	t.Run("reference before format error", func(t *testing.T) {
		s := newMemoryStore()
		s.seed(store.KindElectroType, 1)

		_, err := load(t, s, NewElectroItemLoader(),
			"h\n10;TV;999;100;1;false;x\n11;Radio;1;oops;1;false;y\n")

		var refErr *store.ReferenceNotFoundError
		require.ErrorAs(t, err, &refErr)
		assert.Equal(t, 2, refErr.Row)
	})

	t.Run("format error before reference", func(t *testing.T) {
		s := newMemoryStore()
		s.seed(store.KindElectroType, 1)

		_, err := load(t, s, NewElectroItemLoader(),
			"h\n10;TV;1;oops;1;false;x\n11;Radio;999;100;1;false;y\n")

		var fieldErr *store.FieldFormatError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, 2, fieldErr.Row)
	})

	t.Run("rows after a malformed line are not read", func(t *testing.T) {
		s := newMemoryStore()

		_, err := load(t, s, NewShopLoader(), "h\n1;A;x\n2;\"broken\n3;C;z\n")

		var malformed *store.MalformedRecordError
		require.ErrorAs(t, err, &malformed)
		assert.Empty(t, s.rows(store.KindShop))
	})
}

// countingSource counts the rows pulled from the wrapped source
type countingSource struct {
	RowSource
	reads int
}

func (c *countingSource) Next() (*csvimport.Row, error) {
	c.reads++
	return c.RowSource.Next()
}

func TestLoader_StopsAtUnresolvedReference(t *testing.T) {
	s := newMemoryStore()
	s.seed(store.KindElectroType, 1)
	src := &countingSource{RowSource: parse(t,
		"h\n10;TV;999;100;1;false;x\n11;Radio;1;100;1;false;y\n12;Fan;1;100;1;false;z\n13;Lamp;1;100;1;false;w\n")}

	err := s.Execute(context.Background(), func(repos ImportRepositories) error {
		_, err := NewElectroItemLoader().Load(context.Background(), repos, src)
		return err
	})

	var refErr *store.ReferenceNotFoundError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, int64(999), refErr.ID)
	assert.Equal(t, 1, src.reads)
	assert.Zero(t, s.insertCalls)
}

func TestLoader_ResolvesEachReferenceOnce(t *testing.T) {
	s := newMemoryStore()
	s.seed(store.KindElectroType, 1, 2)

	n, err := load(t, s, NewElectroItemLoader(),
		"h\n10;TV;1;100;1;false;x\n11;Radio;1;100;1;false;y\n12;Fan;2;100;1;false;z\n")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, s.lookups)
}

func TestEmployeeLoader(t *testing.T) {
	s := newMemoryStore()
	s.seed(store.KindPositionType, 1)
	s.seed(store.KindShop, 5)

	n, err := load(t, s, NewEmployeeLoader(),
		"id;last;first;patronymic;birth;position;shop;gender\n"+
			"1;Ivanov;Ivan;Ivanovich;15.03.1990;1;5;true\n"+
			"2;Petrova;Anna;Sergeevna;01.12.1985;1;;false\n")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows := s.rows(store.KindEmployee)
	first := rows[0].(store.Employee)
	require.NotNil(t, first.ShopID)
	assert.Equal(t, int64(5), *first.ShopID)
	assert.Equal(t, 1990, first.BirthDate.Year())
	assert.True(t, first.Gender)
	assert.Nil(t, rows[1].(store.Employee).ShopID)

	t.Run("bad birth date", func(t *testing.T) {
		_, err := load(t, s, NewEmployeeLoader(), "h\n3;A;B;C;1990-03-15;1;5;true\n")

		var fieldErr *store.FieldFormatError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, 5, fieldErr.Field)
	})

	t.Run("unknown shop", func(t *testing.T) {
		_, err := load(t, s, NewEmployeeLoader(), "h\n3;A;B;C;15.03.1990;1;77;true\n")

		var refErr *store.ReferenceNotFoundError
		require.ErrorAs(t, err, &refErr)
		assert.Equal(t, store.KindShop, refErr.Kind)
		assert.Equal(t, "shopId", refErr.Field)
	})
}

func TestPurchaseLoader(t *testing.T) {
	s := newMemoryStore()
	s.seed(store.KindElectroItem, 10)
	s.seed(store.KindEmployee, 1)
	s.seed(store.KindPurchaseType, 2)
	s.seed(store.KindShop, 5)

	n, err := load(t, s, NewPurchaseLoader(), "h\n100;10;1;01.02.2024 13:45;2;5\n")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	p := s.rows(store.KindPurchase)[0].(store.Purchase)
	assert.Equal(t, int64(100), p.ID)
	assert.Equal(t, 13, p.PurchaseDate.Hour())

	_, err = load(t, s, NewPurchaseLoader(), "h\n101;10;1;01.02.2024 13:45;9;5\n")
	var refErr *store.ReferenceNotFoundError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, store.KindPurchaseType, refErr.Kind)

	_, err = load(t, s, NewPurchaseLoader(), "h\n102;10;1;01.02.2024;2;5\n")
	var fieldErr *store.FieldFormatError
	require.ErrorAs(t, err, &fieldErr)
}

func TestAssociationLoaders(t *testing.T) {
	s := newMemoryStore()
	s.seed(store.KindShop, 1)
	s.seed(store.KindElectroItem, 1)
	s.seed(store.KindEmployee, 7)
	s.seed(store.KindElectroType, 3)

	n, err := load(t, s, NewElectroShopLoader(), "shop;item;count\n1;1;5\n")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, store.ElectroShop{ShopID: 1, ElectroItemID: 1, Count: 5}, s.rows(store.KindElectroShop)[0])

	n, err = load(t, s, NewElectroEmployeeLoader(), "employee;type\n7;3\n")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = load(t, s, NewElectroShopLoader(), "shop;item;count\n1;2;5\n")
	var refErr *store.ReferenceNotFoundError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, store.KindElectroItem, refErr.Kind)

	_, err = load(t, s, NewElectroShopLoader(), "shop;item;count\n1;1;-1\n")
	var fieldErr *store.FieldFormatError
	require.ErrorAs(t, err, &fieldErr)
}

func TestLoader_InsertFailure(t *testing.T) {
	s := newMemoryStore()
	s.insertErr = errors.New("duplicate key")

	_, err := load(t, s, NewShopLoader(), "h\n1;A;x\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key")
}

func TestLoader_CancelledContext(t *testing.T) {
	s := newMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Execute(ctx, func(repos ImportRepositories) error {
		_, err := NewShopLoader().Load(ctx, repos, parse(t, "h\n1;A;x\n"))
		return err
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultLoaders(t *testing.T) {
	loaders := DefaultLoaders()
	assert.Len(t, loaders, 9)
	for _, kind := range store.AllKinds() {
		l, ok := loaders[kind]
		require.True(t, ok, kind)
		assert.Equal(t, kind, l.Kind())
	}
}
