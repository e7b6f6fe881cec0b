package testdata

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/patientrecords/internal/database"
	"github.com/jask/patientrecords/internal/database/repository"
)

func TestGenerateIsDeterministic(t *testing.T) {
	until := time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)
	opts := Options{Patients: 20, MaxCards: 6, Seed: 42, Until: until}
	a, b := Generate(opts), Generate(opts)
	require.Equal(t, a, b)
	require.Len(t, a, 20)

	floor := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, g := range a {
		require.LessOrEqual(t, len(g.Cards), 6)
		for _, c := range g.Cards {
			require.Equal(t, g.Patient.ID, c.PatientID)
			require.False(t, c.Date.After(floor))
		}
	}
	require.NotEqual(t, a, Generate(Options{Patients: 20, MaxCards: 6, Seed: 7, Until: until}))
}

func TestSeedWritesGenerated(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "gen.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repos := Repos{Patients: repository.NewPatientRepo(db), Cards: repository.NewCardRepo(db)}
	opts := Options{Patients: 8, MaxCards: 4, Seed: 1}
	cards, err := Seed(ctx, repos, opts)
	require.NoError(t, err)

	n, err := repos.Patients.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 8, n)
	all, err := repos.Cards.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, cards)

	again, err := Seed(ctx, repos, opts)
	require.NoError(t, err)
	require.Zero(t, again, "reseeding inserts nothing new")
}
