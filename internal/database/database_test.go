package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/patientrecords/internal/database/repository"
)

func TestMigrateAndSeed(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, RunMigrations(dbPath))
	require.NoError(t, RunMigrations(dbPath), "second run is a no-op")

	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, SeedDefaults(ctx, db))
	require.NoError(t, SeedDefaults(ctx, db))

	patients := repository.NewPatientRepo(db)
	n, err := patients.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, len(demoPatients), n)

	var cards int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cards").Scan(&cards))
	want := 0
	for _, p := range demoPatients {
		want += len(p.cards)
	}
	require.Equal(t, want, cards)
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "tx.db")
	require.NoError(t, RunMigrations(dbPath))
	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO patients(id, name) VALUES('x', 'X')`); err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")

	n, err := repository.NewPatientRepo(db).Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}
