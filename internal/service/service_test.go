package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/patientrecords/internal/database"
	"github.com/jask/patientrecords/internal/database/repository"
)

type fixture struct {
	importer *ImportService
	loader   *Loader
	maint    *MaintenanceService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "svc.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	patients := repository.NewPatientRepo(db)
	cards := repository.NewCardRepo(db)
	return fixture{
		importer: &ImportService{Patients: patients, Cards: cards},
		loader:   &Loader{Patients: patients, Cards: cards},
		maint:    &MaintenanceService{DB: db},
	}
}

const jsonDoc = `{
  "patients": [
    {"id": "1", "name": "Ann", "cards": [
      {"date": "2024-01-01", "title": "Check-up"},
      {"date": "2024-03-01T09:30:00Z", "title": "Follow-up", "practitioner": "Dr. Patel"}
    ]},
    {"id": "2", "name": "Bob", "cards": []},
    {"name": "", "cards": []},
    {"name": "Cleo", "cards": [{"date": "yesterday"}]}
  ]
}`

func TestImportJSON(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f := newFixture(t)

	res, err := f.importer.Import(ctx, strings.NewReader(jsonDoc), FormatJSON)
	require.NoError(t, err)
	require.Equal(t, 3, res.Imported)
	require.Equal(t, 2, res.Cards)
	require.Zero(t, res.Skipped)
	require.Len(t, res.Errors, 2)
	require.Contains(t, res.Errors[0].Error(), "name required")
	require.Contains(t, res.Errors[1].Error(), "date")

	again, err := f.importer.Import(ctx, strings.NewReader(jsonDoc), FormatJSON)
	require.NoError(t, err)
	require.Zero(t, again.Cards)
	require.Equal(t, 2, again.Skipped)

	patients, err := f.loader.Load(ctx)
	require.NoError(t, err)
	require.Len(t, patients, 3)
	require.Equal(t, "Ann", patients[0].Name)
	require.Len(t, patients[0].Cards, 2)
	require.Equal(t, "2024-03-01", patients[0].Cards[1].Date.Format(time.DateOnly))
	require.Equal(t, "Dr. Patel", patients[0].Cards[1].Practitioner)
	require.Equal(t, "Bob", patients[1].Name)
	require.Empty(t, patients[1].Cards)
	require.Equal(t, PatientID("Cleo"), patients[2].ID)
}

func TestImportYAML(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	doc := `
patients:
  - name: Dana
    cards:
      - date: "2023-12-24"
        title: Vaccination
        notes: Booster
`
	res, err := f.importer.Import(ctx, strings.NewReader(doc), FormatFromPath("people.yml"))
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Equal(t, 1, res.Imported)
	require.Equal(t, 1, res.Cards)

	patients, err := f.loader.Load(ctx)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	require.Equal(t, "Booster", patients[0].Cards[0].Notes)
}

func TestImportRejectsBadDocument(t *testing.T) {
	f := newFixture(t)
	_, err := f.importer.Import(context.Background(), strings.NewReader("{not json"), FormatJSON)
	require.Error(t, err)
	_, err = f.importer.Import(context.Background(), strings.NewReader("{}"), "xml")
	require.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	require.Equal(t, FormatYAML, FormatFromPath("a.YAML"))
	require.Equal(t, FormatYAML, FormatFromPath("a.yml"))
	require.Equal(t, FormatJSON, FormatFromPath("a.json"))
	require.Equal(t, FormatJSON, FormatFromPath("a"))
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.importer.Import(ctx, strings.NewReader(jsonDoc), FormatJSON)
	require.NoError(t, err)

	require.NoError(t, f.maint.Reset(ctx))
	patients, err := f.loader.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, patients)

	require.Error(t, (&MaintenanceService{}).Reset(ctx))
}
