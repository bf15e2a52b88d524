//go:build integration

package testhelpers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestGetTestDB_FixtureApplied(t *testing.T) {
	testDB := GetTestDB(t)

	db, err := sql.Open("pgx", testDB.ConnStr)
	require.NoError(t, err)
	defer db.Close()

	var partitions int
	err = db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM pg_inherits i
		 JOIN pg_class p ON p.oid = i.inhparent
		 JOIN pg_namespace n ON n.oid = p.relnamespace
		 WHERE n.nspname = 'APP' AND p.relname = 'events'`).Scan(&partitions)
	require.NoError(t, err)
	assert.Equal(t, 2, partitions)
}

func TestRunFixtureMigrations_Idempotent(t *testing.T) {
	testDB := GetTestDB(t)

	db, err := sql.Open("pgx", testDB.ConnStr)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunFixtureMigrations(db, zaptest.NewLogger(t)))
}
