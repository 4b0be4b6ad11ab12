package importapp_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	importapp "github.com/Apolones/estore/internal/application/import"
	"github.com/Apolones/estore/internal/domain/bulk"
	"github.com/Apolones/estore/internal/domain/shared"
	"github.com/Apolones/estore/internal/domain/store"
	"github.com/Apolones/estore/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func zipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func newImportStack(t *testing.T) (*importapp.ArchiveImportService, *gorm.DB, bulk.ImportHistoryRepository) {
	t.Helper()
	db, err := persistence.NewMemoryDatabase("import_" + uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	history := persistence.NewGormImportHistoryRepository(db.DB)
	cfg := importapp.DefaultConfig()
	cfg.DefaultEncoding = "UTF-8"
	cfg.ScratchDir = t.TempDir()

	svc := importapp.NewArchiveImportService(persistence.NewGormImportScope(db.DB, 0), history, cfg)
	return svc, db.DB, history
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func storeArchive(itemTypeID string) map[string]string {
	return map[string]string{
		"ElectroShop.csv": "shopId;electroItemId;count\n1;10;3\n",
		"ElectroItem.csv": "id;name;etype;price;count;archive;description\n10;Phone X;" + itemTypeID + ";49990;3;false;flagship\n",
		"Shop.csv":        "id;name;address\n1;Central;Main street 1\n",
		"ElectroType.csv": "id;name\n5;Phones\n",
	}
}

func TestImportArchive_PersistsDependentFiles(t *testing.T) {
	ctx := context.Background()
	svc, db, history := newImportStack(t)

	result, err := svc.ImportArchive(ctx, "store.zip", zipArchive(t, storeArchive("5")), "")
	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalRows)

	assert.Equal(t, int64(1), count(t, db, &store.Shop{}))
	assert.Equal(t, int64(1), count(t, db, &store.ElectroType{}))
	assert.Equal(t, int64(1), count(t, db, &store.ElectroItem{}))

	stock, err := persistence.NewGormStockRepository(db).FindByKey(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, stock.Count)

	saved, err := history.FindByID(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, bulk.ImportStatusCompleted, saved.Status)
	assert.Equal(t, 4, saved.FilesLoaded)
}

func TestImportArchive_MissingReferenceStopsAtFailingFile(t *testing.T) {
	ctx := context.Background()
	svc, db, history := newImportStack(t)

	_, err := svc.ImportArchive(ctx, "store.zip", zipArchive(t, storeArchive("999")), "")
	require.Error(t, err)

	var fileErr *store.FileImportError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, "ElectroItem.csv", fileErr.File)

	var refErr *store.ReferenceNotFoundError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, store.KindElectroType, refErr.Kind)
	assert.Equal(t, int64(999), refErr.ID)

	assert.Equal(t, int64(1), count(t, db, &store.Shop{}))
	assert.Equal(t, int64(1), count(t, db, &store.ElectroType{}))
	assert.Zero(t, count(t, db, &store.ElectroItem{}))
	assert.Zero(t, count(t, db, &store.ElectroShop{}))

	list, err := history.FindAll(ctx, bulk.ImportHistoryFilter{Filter: shared.DefaultFilter()})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, bulk.ImportStatusFailed, list.Items[0].Status)
	assert.Equal(t, "ElectroItem.csv", list.Items[0].FailedFile)
	assert.Equal(t, 2, list.Items[0].FilesLoaded)
}

func TestImportCSV_SingleFile(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newImportStack(t)

	result, err := svc.ImportCSV(ctx, store.KindShop, "shops.csv", []byte("id;name;address\n1;A;x\n2;B;y\n"), "")
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, int64(2), count(t, db, &store.Shop{}))

	t.Run("a duplicate id rolls back the whole file", func(t *testing.T) {
		_, err := svc.ImportCSV(ctx, store.KindShop, "shops.csv", []byte("id;name;address\n3;C;z\n1;A;x\n"), "")

		var fileErr *store.FileImportError
		require.ErrorAs(t, err, &fileErr)
		var dup *store.DuplicateRecordError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, store.KindShop, dup.Kind)
		assert.Equal(t, int64(2), count(t, db, &store.Shop{}))
	})
}

func TestImportCSV_StorageFaultIsNotADataError(t *testing.T) {
	ctx := context.Background()
	svc, db, history := newImportStack(t)
	require.NoError(t, db.Migrator().DropTable(&store.Shop{}))

	_, err := svc.ImportCSV(ctx, store.KindShop, "shops.csv", []byte("id;name;address\n1;A;x\n"), "")
	require.Error(t, err)

	var coded shared.CodedError
	assert.False(t, errors.As(err, &coded), "got coded error %v", err)
	assert.Contains(t, err.Error(), "shops.csv")

	list, err := history.FindAll(ctx, bulk.ImportHistoryFilter{Filter: shared.DefaultFilter()})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, bulk.ImportStatusFailed, list.Items[0].Status)
	assert.Equal(t, "shops.csv", list.Items[0].FailedFile)
}
