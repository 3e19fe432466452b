package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivoronin/prodfilter/internal/testutil"
)

func TestImportExportSQLite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dsn := filepath.Join(dir, "catalog.db")

	result := testutil.RunCLI(t, newRootCmd(), "", "import", "--db-dsn", dsn)
	require.NoError(t, result.Err, result.Stderr)
	assert.Equal(t, "imported 5 properties, 7 operators, 6 products\n", result.Stdout)

	result = testutil.RunCLI(t, newRootCmd(), "", "--db-dsn", dsn, "filter", "-e", "category = tools")
	require.NoError(t, result.Err, result.Stderr)
	assert.Contains(t, result.Stdout, "Hammer")
	assert.NotContains(t, result.Stdout, "Cup")

	out := filepath.Join(dir, "export.json")
	result = testutil.RunCLI(t, newRootCmd(), "", "--db-dsn", dsn, "export", "-o", out)
	require.NoError(t, result.Err, result.Stderr)

	exported, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(exported), `"schema_version": "1.0"`)

	// The exported document reads back as a catalog.
	result = testutil.RunCLI(t, newRootCmd(), "", "--data", out, "properties")
	require.NoError(t, result.Err, result.Stderr)
	assert.Contains(t, result.Stdout, "wireless")
}

func TestImportRequiresDSN(t *testing.T) {
	t.Parallel()

	result := testutil.RunCLI(t, newRootCmd(), "", "import")
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "--db-dsn is required")
}

func TestExportStdout(t *testing.T) {
	t.Parallel()

	result := testutil.RunCLI(t, newRootCmd(), "", "export")
	require.NoError(t, result.Err)
	assert.Contains(t, result.Stdout, `"products"`)
	assert.Contains(t, result.Stdout, `"Headphones"`)
}
