package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Apolones/estore/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add shop index", "add_shop_index"},
		{"Add-Shop-Index", "add_shop_index"},
		{"ADD_SHOP_INDEX", "add_shop_index"},
		{"add__shop__index", "add_shop_index"},
		{"Add Shops 123", "add_shops_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func writeMigrationFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- test"), 0o644))
	}
}

func TestCreateMigration(t *testing.T) {
	t.Run("first migration in an empty directory", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "add shop index", "Index shops by name")
		require.NoError(t, err)

		assert.Equal(t, "000001", mf.Version)
		assert.Equal(t, filepath.Join(dir, "000001_add_shop_index.up.sql"), mf.UpPath)
		assert.Equal(t, filepath.Join(dir, "000001_add_shop_index.down.sql"), mf.DownPath)

		upContent, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(upContent), "add shop index")
		assert.Contains(t, string(upContent), "Index shops by name")
		assert.Contains(t, string(upContent), "Write your UP migration SQL here")

		downContent, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(downContent), "Rollback")
		assert.Contains(t, string(downContent), "Write your DOWN migration SQL here")
	})

	t.Run("continues after the highest version", func(t *testing.T) {
		dir := t.TempDir()
		writeMigrationFiles(t, dir,
			"000001_create_estore_schema.up.sql",
			"000001_create_estore_schema.down.sql",
			"000007_add_stock_index.up.sql",
			"000007_add_stock_index.down.sql",
		)

		mf, err := CreateMigration(dir, "next", "")
		require.NoError(t, err)
		assert.Equal(t, "000008", mf.Version)
	})

	t.Run("creates the directory", func(t *testing.T) {
		nested := filepath.Join(t.TempDir(), "nested", "migrations")

		_, err := CreateMigration(nested, "test", "test migration")
		require.NoError(t, err)

		info, err := os.Stat(nested)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestNextVersion(t *testing.T) {
	assert.Equal(t, uint64(1), nextVersion(nil))
	assert.Equal(t, uint64(3), nextVersion([]string{"000002_b", "000001_a"}))
	assert.Equal(t, uint64(2), nextVersion([]string{"000001_a", "draft_notes"}))
}

func TestListMigrations(t *testing.T) {
	t.Run("sorted base names", func(t *testing.T) {
		dir := t.TempDir()
		writeMigrationFiles(t, dir,
			"000002_add_shops.up.sql",
			"000002_add_shops.down.sql",
			"000001_init_schema.up.sql",
			"000001_init_schema.down.sql",
		)

		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_init_schema", "000002_add_shops"}, migrations)
	})

	t.Run("empty directory", func(t *testing.T) {
		migrations, err := ListMigrations(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})

	t.Run("nonexistent directory", func(t *testing.T) {
		migrations, err := ListMigrations("/nonexistent/path/to/migrations")
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})

	t.Run("ignores other files and directories", func(t *testing.T) {
		dir := t.TempDir()
		writeMigrationFiles(t, dir, "000001_init.up.sql", "000001_init.down.sql", "README.md", ".gitkeep")
		require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir.up.sql"), 0o755))

		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_init"}, migrations)
	})
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := migrations.FS.ReadDir(".")
	require.NoError(t, err)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, entry := range entries {
		name := entry.Name()
		if base, ok := strings.CutSuffix(name, ".up.sql"); ok {
			ups[base] = true
		}
		if base, ok := strings.CutSuffix(name, ".down.sql"); ok {
			downs[base] = true
		}
	}

	require.NotEmpty(t, ups)
	assert.Equal(t, ups, downs, "every up migration needs a down migration")

	schema, err := migrations.FS.ReadFile("000001_create_estore_schema.up.sql")
	require.NoError(t, err)
	for _, table := range []string{
		"store_shop", "store_electro_type", "employee_position", "store_purchase_type",
		"store_electro_item", "employee", "store_purchase", "store_eshop",
		"store_electro_employee", "import_history",
	} {
		assert.Contains(t, string(schema), "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
	assert.Contains(t, string(schema), "CHECK (count >= 0)")
}
