package db

import (
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_SortedSQLOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_claims.sql":      {Data: []byte("CREATE TABLE claims();")},
		"0001_init.sql":        {Data: []byte("CREATE TABLE items();")},
		"README.md":            {Data: []byte("docs")},
		"archive/0000_old.sql": {Data: []byte("SELECT 1;")},
	}

	names, err := migrationFiles(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql", "0002_claims.sql"}, names)
}

func TestMigrationFiles_RepositoryMigrations(t *testing.T) {
	names, err := migrationFiles(os.DirFS("../../migrations"))
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql", "0002_claims.sql", "0003_claims_one_pending.sql"}, names)
}
